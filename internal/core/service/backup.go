package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

// BackupService wraps the backend's bulk export/import. A failed restore is
// reported and leaves the local state exactly as it was; the session survives.
type BackupService struct {
	store *state.Store
	gw    port.Gateway
	log   *zap.Logger
}

func NewBackupService(store *state.Store, gw port.Gateway, log *zap.Logger) *BackupService {
	return &BackupService{store: store, gw: gw, log: log}
}

func (s *BackupService) Backup(ctx context.Context) (port.BackupResult, error) {
	res, err := s.gw.CreateBackup(ctx)
	if err != nil {
		s.log.Warn("backup failed", zap.Error(err))
		s.store.PushNotification("Backup failed")
		return port.BackupResult{}, fmt.Errorf("create backup: %w", err)
	}
	s.store.PushNotification("Backup created")
	return res, nil
}

func (s *BackupService) Restore(ctx context.Context, file []byte) (port.RestoreResult, error) {
	res, err := s.gw.RestoreBackup(ctx, file)
	if err != nil {
		s.log.Warn("restore failed", zap.Error(err))
		s.store.PushNotification("Restore failed")
		return port.RestoreResult{}, fmt.Errorf("restore backup: %w", err)
	}
	if !res.Success {
		s.log.Warn("restore rejected", zap.String("message", res.Message))
		s.store.PushNotification("Restore failed: " + res.Message)
		return res, nil
	}

	// the backend's data just changed wholesale; reload what we can
	s.reload(ctx)
	s.store.PushNotification("Restore completed")
	return res, nil
}

func (s *BackupService) reload(ctx context.Context) {
	invT := s.store.Ticket(state.KeyInventory)
	if inv, err := s.gw.FetchInventory(ctx); err != nil {
		s.log.Warn("reload inventory failed", zap.Error(err))
	} else {
		s.store.SetInventory(invT, inv)
	}

	dscT := s.store.Ticket(state.KeyDiscounts)
	if ds, err := s.gw.FetchDiscounts(ctx); err != nil {
		s.log.Warn("reload discounts failed", zap.Error(err))
	} else {
		s.store.SetDiscounts(dscT, ds)
	}

	ordT := s.store.Ticket(state.KeyOrders)
	if os, err := s.gw.FetchOrders(ctx); err != nil {
		s.log.Warn("reload orders failed", zap.Error(err))
	} else {
		s.store.SetOrders(ordT, os)
	}

	usrT := s.store.Ticket(state.KeyUsers)
	if us, err := s.gw.FetchUsers(ctx); err != nil {
		s.log.Warn("reload users failed", zap.Error(err))
	} else {
		s.store.SetUsers(usrT, us)
	}

	inqT := s.store.Ticket(state.KeyInquiries)
	if is, err := s.gw.FetchInquiries(ctx); err != nil {
		s.log.Warn("reload inquiries failed", zap.Error(err))
	} else {
		s.store.SetInquiries(inqT, is)
	}
}
