package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

var ErrNotAllowed = errors.New("operation not allowed for this role")

// InventoryService owns inventory CRUD and the low-stock mutation watcher.
type InventoryService struct {
	store *state.Store
	gw    port.Gateway
	log   *zap.Logger
}

func NewInventoryService(store *state.Store, gw port.Gateway, log *zap.Logger) *InventoryService {
	return &InventoryService{store: store, gw: gw, log: log}
}

func (s *InventoryService) Refresh(ctx context.Context) error {
	t := s.store.Ticket(state.KeyInventory)
	items, err := s.gw.FetchInventory(ctx)
	if err != nil {
		s.log.Warn("inventory fetch failed", zap.Error(err))
		return fmt.Errorf("fetch inventory: %w", err)
	}
	s.store.SetInventory(t, items)
	return nil
}

func (s *InventoryService) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	t := s.store.Ticket(state.KeyInventory)
	created, err := s.gw.CreateInventoryItem(ctx, item)
	if err != nil {
		s.log.Warn("inventory create failed", zap.String("sku", item.SKU), zap.Error(err))
		s.store.PushNotification("Failed to create inventory item " + item.Name)
		return domain.InventoryItem{}, fmt.Errorf("create item: %w", err)
	}
	s.store.UpsertInventoryItem(t, created)
	return created, nil
}

// Update pushes the edit to the backend and watches the pre/post states for a
// low-stock crossing. The check is edge-triggered: an item already at or
// below threshold before the edit raises nothing.
func (s *InventoryService) Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	pre, known := s.store.InventoryItem(item.ID)

	t := s.store.Ticket(state.KeyInventory)
	post, err := s.gw.UpdateInventoryItem(ctx, item)
	if err != nil {
		s.log.Warn("inventory update failed", zap.String("id", item.ID), zap.Error(err))
		s.store.PushNotification("Failed to update inventory item " + item.Name)
		return domain.InventoryItem{}, fmt.Errorf("update item: %w", err)
	}
	s.store.UpsertInventoryItem(t, post)

	if known && crossedThreshold(pre, post) {
		s.alertLowStock(ctx, post)
	}
	return post, nil
}

// Delete is gated to administrators.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	sess, ok := s.store.Session()
	if !ok {
		return ErrNotAuthenticated
	}
	if sess.User.Role != domain.RoleAdmin {
		return ErrNotAllowed
	}
	t := s.store.Ticket(state.KeyInventory)
	if err := s.gw.DeleteInventoryItem(ctx, id); err != nil {
		s.log.Warn("inventory delete failed", zap.String("id", id), zap.Error(err))
		s.store.PushNotification("Failed to delete inventory item")
		return fmt.Errorf("delete item: %w", err)
	}
	s.store.RemoveInventoryItem(t, id)
	return nil
}

func crossedThreshold(pre, post domain.InventoryItem) bool {
	return pre.Quantity > pre.Threshold && post.Quantity <= post.Threshold
}

func (s *InventoryService) alertLowStock(ctx context.Context, item domain.InventoryItem) {
	s.store.PushNotification(fmt.Sprintf(
		"Low stock: %s (%s) is down to %d, threshold %d",
		item.Name, item.SKU, item.Quantity, item.Threshold,
	))

	var recipients []string
	for _, u := range s.store.Users() {
		if u.Role == domain.RoleManager && u.Email != "" {
			recipients = append(recipients, u.Email)
		}
	}
	if len(recipients) == 0 {
		s.log.Info("low stock crossing with no manager recipients",
			zap.String("sku", item.SKU))
		return
	}

	email := domain.Email{
		Recipient: strings.Join(recipients, ","),
		Subject:   fmt.Sprintf("Low stock alert: %s", item.Name),
		Body: fmt.Sprintf(
			"Item %s (SKU %s) has dropped to %d units, at or below its threshold of %d.\nPlease restock.\n",
			item.Name, item.SKU, item.Quantity, item.Threshold,
		),
		SentAt: time.Now(),
	}
	if err := s.gw.SendEmail(ctx, email); err != nil {
		s.log.Warn("low stock email failed", zap.String("sku", item.SKU), zap.Error(err))
		s.store.PushNotification("Failed to send the low-stock alert email")
		return
	}
	s.store.AppendEmail(email)
}
