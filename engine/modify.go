package engine

import "matchbook/domain/orderbook"

// Cancel cancels an active order, regular or stop. The level entry is
// tombstoned in O(1); the tombstone stays in the queue until matching skips
// past it or an explicit Compact removes it.
func (e *Engine) Cancel(id orderbook.OrderID) CancelResult {
	res := e.cancelInternal(id)
	if res.Success {
		e.events = append(e.events, CancelEvent(id))
	}
	return res
}

func (e *Engine) cancelInternal(id orderbook.OrderID) CancelResult {
	if s, ok := e.stops.Get(id); ok {
		if e.stops.Cancel(id) {
			return cancelSuccess(s.Quantity)
		}
		return cancelFailure(ErrOrderNotActive)
	}

	o, ok := e.book.GetOrder(id)
	if !ok {
		return cancelFailure(ErrOrderNotFound)
	}
	if !o.IsActive() {
		return cancelFailure(ErrOrderNotActive)
	}
	qty, ok := e.book.CancelOrder(id)
	if !ok {
		return cancelFailure(ErrOrderNotActive)
	}
	return cancelSuccess(qty)
}

// Modify replaces an active order: cancel, then a fresh limit submission
// inheriting the original side and time-in-force. The replacement takes a
// new id and timestamp — it loses time priority — and may trade immediately
// when the new price crosses. Failure leaves the book untouched.
func (e *Engine) Modify(id orderbook.OrderID, newPrice orderbook.Price, newQty orderbook.Quantity) ModifyResult {
	res := e.modifyInternal(id, newPrice, newQty)
	if res.Success {
		if len(res.Trades) > 0 {
			res.CascadeOverflow = e.cascade()
		}
		e.events = append(e.events, ModifyEvent(id, newPrice, newQty))
	}
	return res
}

func (e *Engine) modifyInternal(id orderbook.OrderID, newPrice orderbook.Price, newQty orderbook.Quantity) ModifyResult {
	if newQty == 0 {
		return modifyFailure(id, ErrInvalidQuantity)
	}

	o, ok := e.book.GetOrder(id)
	if !ok {
		return modifyFailure(id, ErrOrderNotFound)
	}
	if !o.IsActive() {
		return modifyFailure(id, ErrOrderNotActive)
	}
	side, tif := o.Side, o.TIF

	cancelled, ok := e.book.CancelOrder(id)
	if !ok {
		return modifyFailure(id, ErrOrderNotActive)
	}

	sub := e.submitLimit(side, newPrice, newQty, tif)
	return modifySuccess(id, sub.OrderID, cancelled, sub.Trades)
}
