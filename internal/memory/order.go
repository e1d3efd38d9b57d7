package memory

import "slices"

// OrderList is an OrderStore that keeps the order in memory. Save copies its
// argument so later changes by the caller do not leak in.
type OrderList struct {
	order []string
	saves int
}

// Load returns a copy of the saved order.
func (o *OrderList) Load() ([]string, error) {
	return slices.Clone(o.order), nil
}

// Save replaces the saved order.
func (o *OrderList) Save(order []string) error {
	o.order = slices.Clone(order)
	o.saves++
	return nil
}

// Saves returns how many times Save was called.
func (o *OrderList) Saves() int { return o.saves }
