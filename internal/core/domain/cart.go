package domain

import "github.com/shopspring/decimal"

// CartItem is a snapshot of an inventory item plus the quantity in the cart.
// A line with quantity 0 never exists; it is removed instead.
type CartItem struct {
	Item     InventoryItem `json:"item"`
	Quantity int           `json:"quantity"`
}

// Cart is the session-owned ordered collection of line items. Every mutation
// is bounded by the live stock known at the time of the call; staleness
// against other sessions is resolved at checkout, not here.
type Cart struct {
	Lines []CartItem `json:"lines"`
}

// Add merges qty into an existing line or appends a new one. It returns false
// without mutating when the resulting line would exceed the item's stock.
func (c *Cart) Add(item InventoryItem, qty int) bool {
	if qty <= 0 {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].Item.ID == item.ID {
			if c.Lines[i].Quantity+qty > item.Quantity {
				return false
			}
			c.Lines[i].Quantity += qty
			c.Lines[i].Item = item
			return true
		}
	}
	if qty > item.Quantity {
		return false
	}
	c.Lines = append(c.Lines, CartItem{Item: item, Quantity: qty})
	return true
}

// UpdateQuantity sets a line's quantity. A newQty of zero or less removes the
// line. Returns false without mutating when newQty exceeds stock or the line
// does not exist.
func (c *Cart) UpdateQuantity(itemID string, newQty, stock int) bool {
	if newQty <= 0 {
		return c.Remove(itemID)
	}
	if newQty > stock {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].Item.ID == itemID {
			c.Lines[i].Quantity = newQty
			return true
		}
	}
	return false
}

// Remove drops the line unconditionally. Returns false if no line matched.
func (c *Cart) Remove(itemID string) bool {
	for i := range c.Lines {
		if c.Lines[i].Item.ID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Snapshot returns a deep copy of the cart, safe to freeze into an order.
func (c *Cart) Snapshot() Cart {
	lines := make([]CartItem, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// OrderLines converts the cart into the frozen line representation carried by
// an order.
func (c *Cart) OrderLines() []OrderLine {
	out := make([]OrderLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, OrderLine{
			ItemID:    l.Item.ID,
			SKU:       l.Item.SKU,
			Name:      l.Item.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Item.Price,
		})
	}
	return out
}
