package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// OrderService handles staff-driven status transitions on existing orders.
// Order creation goes through CheckoutService.
type OrderService struct {
	store *state.Store
	gw    port.Gateway
	log   *zap.Logger
}

func NewOrderService(store *state.Store, gw port.Gateway, log *zap.Logger) *OrderService {
	return &OrderService{store: store, gw: gw, log: log}
}

func (s *OrderService) Refresh(ctx context.Context) error {
	t := s.store.Ticket(state.KeyOrders)
	orders, err := s.gw.FetchOrders(ctx)
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}
	s.store.SetOrders(t, orders)
	return nil
}

// UpdateStatus validates the transition locally before asking the backend.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, error) {
	cur, ok := s.store.Order(id)
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if !domain.CanTransition(cur.Status, next) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, next)
	}

	t := s.store.Ticket(state.KeyOrders)
	updated, err := s.gw.UpdateOrderStatus(ctx, id, next)
	if err != nil {
		s.log.Warn("order status update failed", zap.String("id", id), zap.Error(err))
		s.store.PushNotification("Failed to update the order status")
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	s.store.ReplaceOrder(t, updated)
	s.store.PushNotification(fmt.Sprintf("Order %s is now %s", updated.ID, updated.Status))
	return updated, nil
}
