package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusRefunded   OrderStatus = "refunded"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true, OrderStatusRefunded: true},
	OrderStatusCancelled:  {},
	OrderStatusDelivered:  {},
	OrderStatusRefunded:   {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Customer holds the contact fields captured at checkout. All four are
// required and pre-validated before the orchestrator runs.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderLine is a frozen copy of a cart line at the moment the order was
// created. It never changes afterwards.
type OrderLine struct {
	ItemID    string          `json:"item_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is immutable except for staff-driven status transitions. Totals are
// computed by the backend, which is the sole point of truth for pricing and
// stock decrement.
type Order struct {
	ID             string          `json:"id"`
	Customer       Customer        `json:"customer"`
	Lines          []OrderLine     `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	Status         OrderStatus     `json:"status"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
