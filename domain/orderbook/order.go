package orderbook

import "fmt"

// Order is a single order record. While the order is active,
// Original == Remaining + Filled; once terminal, the unfilled remainder is
// carried in Cancelled instead.
type Order struct {
	ID        OrderID
	Side      Side
	Price     Price
	Original  Quantity
	Remaining Quantity
	Filled    Quantity
	Cancelled Quantity
	Timestamp Timestamp
	TIF       TimeInForce
	Status    OrderStatus

	// slot is the order's entry position inside its level while resting.
	slot int
}

// NewOrder builds a fresh order with Remaining == Original and status New.
func NewOrder(id OrderID, side Side, price Price, qty Quantity, ts Timestamp, tif TimeInForce) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Original:  qty,
		Remaining: qty,
		Timestamp: ts,
		TIF:       tif,
		Status:    StatusNew,
	}
}

// IsActive reports whether the order can still fill or be cancelled.
func (o *Order) IsActive() bool { return o.Status.IsActive() }

// Fill consumes qty from the remaining quantity and advances the status.
// A fill beyond the remaining quantity is an engine bug.
func (o *Order) Fill(qty Quantity) {
	if qty > o.Remaining {
		panic(fmt.Sprintf("orderbook: fill %d exceeds remaining %d on %s", qty, o.Remaining, o.ID))
	}
	o.Remaining -= qty
	o.Filled += qty
	if o.Remaining == 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
}

// Cancel moves the order to Cancelled and returns the quantity that was
// still unfilled. Cancelling a terminal order is an engine bug.
func (o *Order) Cancel() Quantity {
	if !o.IsActive() {
		panic(fmt.Sprintf("orderbook: cancel of terminal order %s (%s)", o.ID, o.Status))
	}
	cancelled := o.Remaining
	o.Remaining = 0
	o.Cancelled = cancelled
	o.Status = StatusCancelled
	return cancelled
}
