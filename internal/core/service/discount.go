package service

import (
	"github.com/shopspring/decimal"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
)

var oneHundred = decimal.NewFromInt(100)

// SelectDiscount returns the single best-applicable discount for the given
// subtotal and item count, or nil when none qualifies. Survivors compete on
// the raw Value field and the first of a tie wins, so the input order matters.
//
// Note: percentage and fixed-amount values are compared as raw numbers. A 10%
// discount beats a $9 one regardless of the subtotal. The backend relies on
// this exact rule, inconsistent as it is, so it is kept verbatim.
func SelectDiscount(discounts []domain.Discount, subtotal decimal.Decimal, itemCount int) *domain.Discount {
	var best *domain.Discount
	for i := range discounts {
		d := &discounts[i]
		if !d.Applicable(subtotal, itemCount) {
			continue
		}
		if best == nil || d.Value.GreaterThan(best.Value) {
			best = d
		}
	}
	return best
}

// EffectivePercent converts a discount to the percentage the order-creation
// endpoint expects. Fixed amounts become (value / subtotal) * 100; a zero
// subtotal converts to zero rather than dividing by it.
func EffectivePercent(d domain.Discount, subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == domain.DiscountTypePercentage {
		return d.Value
	}
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	return d.Value.Div(subtotal).Mul(oneHundred)
}
