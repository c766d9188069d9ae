package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusRefunded, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusRefunded, true},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusRefunded, false},
		{OrderStatusRefunded, OrderStatusProcessing, false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestLowStock(t *testing.T) {
	if (InventoryItem{Quantity: 5, Threshold: 4}).LowStock() {
		t.Error("5 > 4 should not be low stock")
	}
	if !(InventoryItem{Quantity: 4, Threshold: 4}).LowStock() {
		t.Error("4 <= 4 should be low stock")
	}
}
