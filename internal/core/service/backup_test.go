package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

func TestRestore_FailureLeavesStateUntouched(t *testing.T) {
	store := state.New()
	store.SetSession(domain.Session{User: domain.User{ID: "u1"}})
	store.SetInventory(store.Ticket(state.KeyInventory), []domain.InventoryItem{{ID: "i1", Quantity: 7}})

	gw := &mockGateway{restoreErr: errors.New("corrupt archive")}
	svc := NewBackupService(store, gw, zap.NewNop())

	_, err := svc.Restore(context.Background(), []byte("zip"))
	require.Error(t, err)

	// session survives, data untouched
	_, ok := store.Session()
	assert.True(t, ok)
	it, ok := store.InventoryItem("i1")
	require.True(t, ok)
	assert.Equal(t, 7, it.Quantity)
}

func TestRestore_RejectionReportsMessage(t *testing.T) {
	store := state.New()
	gw := &mockGateway{restoreResult: port.RestoreResult{Success: false, Message: "schema mismatch"}}
	svc := NewBackupService(store, gw, zap.NewNop())

	res, err := svc.Restore(context.Background(), []byte("zip"))
	require.NoError(t, err)
	assert.False(t, res.Success)

	notes := store.Notifications()
	require.NotEmpty(t, notes)
	assert.Contains(t, notes[0].Message, "schema mismatch")
}

func TestRestore_SuccessReloadsCollections(t *testing.T) {
	store := state.New()
	gw := &mockGateway{
		restoreResult: port.RestoreResult{Success: true, Message: "restored"},
		inventory:     []domain.InventoryItem{{ID: "i9", Quantity: 42}},
	}
	svc := NewBackupService(store, gw, zap.NewNop())

	res, err := svc.Restore(context.Background(), []byte("zip"))
	require.NoError(t, err)
	assert.True(t, res.Success)

	it, ok := store.InventoryItem("i9")
	require.True(t, ok)
	assert.Equal(t, 42, it.Quantity)
}

func TestBackup_Notifies(t *testing.T) {
	store := state.New()
	svc := NewBackupService(store, &mockGateway{}, zap.NewNop())

	res, err := svc.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("backup"), res.File)
	assert.Equal(t, 1, store.UnreadCount())
}
