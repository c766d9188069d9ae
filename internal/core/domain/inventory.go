package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Threshold int             `json:"threshold"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LowStock reports whether the item sits at or below its reorder threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.Threshold
}
