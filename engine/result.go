package engine

import (
	"matchbook/domain/orderbook"
	"matchbook/domain/stop"
)

// SubmitResult describes the outcome of one submission command.
// Trades holds the command's direct executions; trades produced by cascaded
// stop triggers appear in the engine's trade log only.
type SubmitResult struct {
	OrderID   orderbook.OrderID
	Status    orderbook.OrderStatus
	Trades    []orderbook.Trade
	Filled    orderbook.Quantity
	Resting   orderbook.Quantity
	Cancelled orderbook.Quantity

	// CascadeOverflow reports that stop-trigger cascading hit the depth
	// bound and further eligible stops were left pending.
	CascadeOverflow bool
}

// HasTrades reports whether any direct trades occurred.
func (r SubmitResult) HasTrades() bool { return len(r.Trades) > 0 }

// IsResting reports whether a remainder rests on the book.
func (r SubmitResult) IsResting() bool { return r.Resting > 0 }

// IsFullyFilled reports whether the order executed completely.
func (r SubmitResult) IsFullyFilled() bool { return r.Status == orderbook.StatusFilled }

// StopSubmitResult describes the outcome of submitting a stop order.
type StopSubmitResult struct {
	OrderID orderbook.OrderID
	Status  stop.Status

	// Triggered reports that the stop fired as part of this submission.
	Triggered bool
	// Trades are all trades this submission produced, cascades included.
	Trades          []orderbook.Trade
	CascadeOverflow bool
}

// CancelResult describes the outcome of a cancel command.
type CancelResult struct {
	Success   bool
	Cancelled orderbook.Quantity
	Err       error
}

func cancelSuccess(qty orderbook.Quantity) CancelResult {
	return CancelResult{Success: true, Cancelled: qty}
}

func cancelFailure(err error) CancelResult {
	return CancelResult{Err: err}
}

// ModifyResult describes the outcome of a modify command. Modify is atomic:
// on failure nothing changed and NewOrderID is zero.
type ModifyResult struct {
	Success         bool
	OldOrderID      orderbook.OrderID
	NewOrderID      orderbook.OrderID
	Cancelled       orderbook.Quantity
	Trades          []orderbook.Trade
	CascadeOverflow bool
	Err             error
}

func modifySuccess(old, replacement orderbook.OrderID, cancelled orderbook.Quantity, trades []orderbook.Trade) ModifyResult {
	return ModifyResult{
		Success:    true,
		OldOrderID: old,
		NewOrderID: replacement,
		Cancelled:  cancelled,
		Trades:     trades,
	}
}

func modifyFailure(old orderbook.OrderID, err error) ModifyResult {
	return ModifyResult{OldOrderID: old, Err: err}
}

// ApplyResult reports what applying one event produced.
type ApplyResult struct {
	Trades          []orderbook.Trade
	CascadeOverflow bool
}
