package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed"
)

type Discount struct {
	ID         string           `json:"id"`
	Code       string           `json:"code"` // uppercase alphanumeric, unique
	Type       DiscountType     `json:"type"`
	Value      decimal.Decimal  `json:"value"`
	MinSpend   *decimal.Decimal `json:"min_spend,omitempty"`
	MinItems   *int             `json:"min_items,omitempty"`
	IsActive   bool             `json:"is_active"`
	UsageCount int              `json:"usage_count"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Applicable reports whether the discount may be applied to a purchase with
// the given subtotal and item count. A nil condition imposes no requirement.
func (d Discount) Applicable(subtotal decimal.Decimal, itemCount int) bool {
	if !d.IsActive {
		return false
	}
	if d.MinSpend != nil && subtotal.LessThan(*d.MinSpend) {
		return false
	}
	if d.MinItems != nil && itemCount < *d.MinItems {
		return false
	}
	return true
}
