package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

var ErrInvalidDiscountCode = errors.New("discount code must be uppercase alphanumeric")

// DiscountService is the admin-side CRUD for discounts. The selector in
// discount.go reads whatever active set these operations leave in the store.
type DiscountService struct {
	store *state.Store
	gw    port.Gateway
	log   *zap.Logger
}

func NewDiscountService(store *state.Store, gw port.Gateway, log *zap.Logger) *DiscountService {
	return &DiscountService{store: store, gw: gw, log: log}
}

func (s *DiscountService) Refresh(ctx context.Context) error {
	t := s.store.Ticket(state.KeyDiscounts)
	ds, err := s.gw.FetchDiscounts(ctx)
	if err != nil {
		return fmt.Errorf("fetch discounts: %w", err)
	}
	s.store.SetDiscounts(t, ds)
	return nil
}

func (s *DiscountService) Create(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if !validDiscountCode(d.Code) {
		return domain.Discount{}, ErrInvalidDiscountCode
	}
	t := s.store.Ticket(state.KeyDiscounts)
	created, err := s.gw.CreateDiscount(ctx, d)
	if err != nil {
		s.log.Warn("discount create failed", zap.String("code", d.Code), zap.Error(err))
		s.store.PushNotification("Failed to create discount " + d.Code)
		return domain.Discount{}, fmt.Errorf("create discount: %w", err)
	}
	s.store.UpsertDiscount(t, created)
	return created, nil
}

func (s *DiscountService) Update(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	t := s.store.Ticket(state.KeyDiscounts)
	updated, err := s.gw.UpdateDiscount(ctx, d)
	if err != nil {
		s.log.Warn("discount update failed", zap.String("id", d.ID), zap.Error(err))
		s.store.PushNotification("Failed to update discount " + d.Code)
		return domain.Discount{}, fmt.Errorf("update discount: %w", err)
	}
	s.store.UpsertDiscount(t, updated)
	return updated, nil
}

func (s *DiscountService) Delete(ctx context.Context, id string) error {
	t := s.store.Ticket(state.KeyDiscounts)
	if err := s.gw.DeleteDiscount(ctx, id); err != nil {
		s.log.Warn("discount delete failed", zap.String("id", id), zap.Error(err))
		s.store.PushNotification("Failed to delete the discount")
		return fmt.Errorf("delete discount: %w", err)
	}
	s.store.RemoveDiscount(t, id)
	return nil
}

func validDiscountCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
