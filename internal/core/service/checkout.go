package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
)

// CheckoutService composes the discount selector, the cart, and the gateway
// into a single order-creation action. The backend is the sole point of truth
// for totals and stock decrement; the client only proposes a discount.
type CheckoutService struct {
	store *state.Store
	gw    port.Gateway
	log   *zap.Logger
}

func NewCheckoutService(store *state.Store, gw port.Gateway, log *zap.Logger) *CheckoutService {
	return &CheckoutService{store: store, gw: gw, log: log}
}

// Checkout runs the full pipeline. On failure nothing local changes: the cart
// and every prior collection stay exactly as they were, so the user can retry.
func (s *CheckoutService) Checkout(ctx context.Context, customer domain.Customer) (domain.Order, error) {
	sess, ok := s.store.Session()
	if !ok {
		return domain.Order{}, ErrNotAuthenticated
	}

	cart := s.store.CartSnapshot()
	if len(cart.Lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	subtotal := cart.Subtotal()
	itemCount := cart.TotalItems()

	var pct *decimal.Decimal
	if d := SelectDiscount(s.store.Discounts(), subtotal, itemCount); d != nil {
		p := EffectivePercent(*d, subtotal)
		pct = &p
	}

	in := port.CreateOrderInput{
		Customer:        customer,
		Lines:           cart.OrderLines(),
		DiscountPercent: pct,
		CreatedBy:       sess.User.ID,
	}

	orderTicket := s.store.Ticket(state.KeyOrders)
	order, err := s.gw.CreateOrder(ctx, in)
	if err != nil {
		s.log.Warn("checkout failed",
			zap.String("user", sess.User.ID),
			zap.Error(err))
		s.store.PushNotification(checkoutFailureMessage(err))
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if !s.store.AppendOrder(orderTicket, order) {
		// the session ended while the order was in flight; the backend's
		// decision stands but nothing local may change
		s.log.Warn("order resolved after session reset, local state untouched",
			zap.String("order", order.ID))
		return order, nil
	}

	// reconcile stock with the authoritative post-decrement quantities
	invTicket := s.store.Ticket(state.KeyInventory)
	if inv, err := s.gw.FetchInventory(ctx); err != nil {
		s.log.Warn("inventory reconcile after checkout failed", zap.Error(err))
	} else {
		s.store.SetInventory(invTicket, inv)
	}

	s.store.ClearCart()
	s.store.PushNotification(fmt.Sprintf("Order %s placed for %s", order.ID, customer.Name))
	s.sendReceipt(ctx, order)

	return order, nil
}

func (s *CheckoutService) sendReceipt(ctx context.Context, order domain.Order) {
	email := domain.Email{
		Recipient: order.Customer.Email,
		Subject:   fmt.Sprintf("Your order %s", order.ID),
		Body: fmt.Sprintf(
			"Hi %s,\n\nThanks for your order.\n\nSubtotal: %s\nDiscount: %s\nTotal: %s\n",
			order.Customer.Name,
			order.Subtotal.StringFixed(2),
			order.DiscountAmount.StringFixed(2),
			order.Total.StringFixed(2),
		),
		SentAt: time.Now(),
	}
	if err := s.gw.SendEmail(ctx, email); err != nil {
		s.log.Warn("receipt email failed", zap.String("order", order.ID), zap.Error(err))
		s.store.PushNotification("Failed to send the order receipt email")
		return
	}
	s.store.AppendEmail(email)
}

func checkoutFailureMessage(err error) string {
	var ge *port.GatewayError
	if errors.As(err, &ge) && ge.Message != "" {
		return "Checkout failed: " + ge.Message
	}
	return "Checkout failed: one or more items are no longer in stock"
}
