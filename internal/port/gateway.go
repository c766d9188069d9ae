package port

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
)

// GatewayError carries a server-provided failure back across the boundary so
// orchestrators can surface the backend's message to the user.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.StatusCode)
}

// CreateOrderInput is the order-creation request. The client only proposes a
// discount percentage; the backend computes totals and decrements stock.
type CreateOrderInput struct {
	Customer        domain.Customer
	Lines           []domain.OrderLine
	DiscountPercent *decimal.Decimal
	CreatedBy       string
}

type BackupResult struct {
	Message string
	File    []byte
}

type RestoreResult struct {
	Success bool
	Message string
}

// Gateway is the remote data boundary. Every call can fail; callers convert
// failures into notifications and never retry automatically.
type Gateway interface {
	// SetToken installs the session's bearer token on subsequent calls; an
	// empty string clears it.
	SetToken(token string)

	FetchInventory(ctx context.Context) ([]domain.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)

	// UpdateInventoryItem returns the authoritative post-update state, which
	// the caller compares against the pre-update state for low-stock crossing
	// detection.
	UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error

	FetchDiscounts(ctx context.Context) ([]domain.Discount, error)
	CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error)
	UpdateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error)
	DeleteDiscount(ctx context.Context, id string) error

	FetchOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)

	FetchUsers(ctx context.Context) ([]domain.User, error)

	FetchInquiries(ctx context.Context) ([]domain.Inquiry, error)
	CreateInquiry(ctx context.Context, inq domain.Inquiry) (domain.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, id string, status domain.InquiryStatus) (domain.Inquiry, error)

	// SendEmail is fire-and-forget from the orchestrators' perspective: a
	// failure degrades to a local error notification and never blocks the
	// action that triggered it.
	SendEmail(ctx context.Context, email domain.Email) error

	CreateBackup(ctx context.Context) (BackupResult, error)
	RestoreBackup(ctx context.Context, file []byte) (RestoreResult, error)

	// PingActivity keeps the server-side session marked active.
	PingActivity(ctx context.Context, userID string) error
}
