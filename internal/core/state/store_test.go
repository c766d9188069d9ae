package state

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
)

func seedInventory(s *Store, items ...domain.InventoryItem) {
	s.SetInventory(s.Ticket(KeyInventory), items)
}

func TestTicket_StaleResponseDiscarded(t *testing.T) {
	s := New()

	first := s.Ticket(KeyInventory)  // older request
	second := s.Ticket(KeyInventory) // newer request

	// the newer response lands first
	require.True(t, s.SetInventory(second, []domain.InventoryItem{{ID: "new"}}))

	// the older response arrives late and must be dropped
	assert.False(t, s.SetInventory(first, []domain.InventoryItem{{ID: "old"}}))

	inv := s.Inventory()
	require.Len(t, inv, 1)
	assert.Equal(t, "new", inv[0].ID)
}

func TestTicket_InOrderCommits(t *testing.T) {
	s := New()

	first := s.Ticket(KeyOrders)
	second := s.Ticket(KeyOrders)

	require.True(t, s.AppendOrder(first, domain.Order{ID: "o1"}))
	require.True(t, s.AppendOrder(second, domain.Order{ID: "o2"}))
	assert.Len(t, s.Orders(), 2)
}

func TestTicket_IndependentPerEntity(t *testing.T) {
	s := New()

	invTicket := s.Ticket(KeyInventory)
	_ = s.Ticket(KeyOrders) // newer ticket for a different entity

	assert.True(t, s.SetInventory(invTicket, nil))
}

func TestReset_DropsInFlightCommits(t *testing.T) {
	s := New()
	ticket := s.Ticket(KeyInventory)

	s.Reset()

	assert.False(t, s.SetInventory(ticket, []domain.InventoryItem{{ID: "stale"}}))
	assert.Empty(t, s.Inventory())
}

func TestCart_BoundByStoreInventory(t *testing.T) {
	s := New()
	seedInventory(s, domain.InventoryItem{ID: "i1", Quantity: 3, Price: decimal.NewFromInt(5)})

	assert.False(t, s.AddToCart("unknown", 1))
	assert.True(t, s.AddToCart("i1", 2))
	assert.False(t, s.AddToCart("i1", 2)) // 2+2 > 3

	assert.False(t, s.UpdateCartQuantity("i1", 4))
	assert.True(t, s.UpdateCartQuantity("i1", 3))
	assert.True(t, s.UpdateCartQuantity("i1", 0)) // zero removes
	assert.Empty(t, s.CartSnapshot().Lines)
}

func TestNotifications_NewestFirst(t *testing.T) {
	s := New()
	s.PushNotification("first")
	s.PushNotification("second")

	notes := s.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Message)
	assert.Equal(t, "first", notes[1].Message)
	assert.NotEmpty(t, notes[0].ID)
}

func TestMarkAllRead_InPlace(t *testing.T) {
	s := New()
	s.PushNotification("a")
	s.PushNotification("b")
	require.Equal(t, 2, s.UnreadCount())

	s.MarkAllNotificationsRead()

	assert.Equal(t, 0, s.UnreadCount())
	assert.Len(t, s.Notifications(), 2, "mark all read must not remove entries")
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New()
	seedInventory(s, domain.InventoryItem{ID: "i1", Quantity: 3})
	s.PushNotification("n")

	snap := s.Snapshot()
	snap.Inventory[0].Quantity = 99

	inv := s.Inventory()
	assert.Equal(t, 3, inv[0].Quantity)
	assert.Equal(t, 1, snap.UnreadCount)
}

func TestRemoveInventoryItem_DropsCartLine(t *testing.T) {
	s := New()
	seedInventory(s, domain.InventoryItem{ID: "i1", Quantity: 3})
	require.True(t, s.AddToCart("i1", 1))

	require.True(t, s.RemoveInventoryItem(s.Ticket(KeyInventory), "i1"))
	assert.Empty(t, s.CartSnapshot().Lines)
}
