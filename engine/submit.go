package engine

import "matchbook/domain/orderbook"

// TrySubmitLimit validates and submits a limit order. Remainder handling
// follows the time-in-force: GTC rests, IOC cancels, FOK refuses to trade
// at all unless the whole quantity is immediately fillable.
func (e *Engine) TrySubmitLimit(side orderbook.Side, price orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) (SubmitResult, error) {
	if qty == 0 {
		return SubmitResult{}, ErrZeroQuantity
	}
	if price <= 0 {
		return SubmitResult{}, ErrZeroOrNegativePrice
	}

	res := e.submitLimit(side, price, qty, tif)
	if res.HasTrades() {
		res.CascadeOverflow = e.cascade()
	}
	e.events = append(e.events, SubmitLimitEvent(side, price, qty, tif))
	return res, nil
}

// SubmitLimit is TrySubmitLimit with implicit rejection: invalid input
// yields the zero result and no state change.
func (e *Engine) SubmitLimit(side orderbook.Side, price orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) SubmitResult {
	res, _ := e.TrySubmitLimit(side, price, qty, tif)
	return res
}

// TrySubmitMarket validates and submits a market order: a limit at the
// sentinel extreme with IOC semantics, so it crosses any resting level and
// never rests itself.
func (e *Engine) TrySubmitMarket(side orderbook.Side, qty orderbook.Quantity) (SubmitResult, error) {
	if qty == 0 {
		return SubmitResult{}, ErrZeroQuantity
	}

	res := e.submitLimit(side, marketPrice(side), qty, orderbook.IOC)
	if res.HasTrades() {
		res.CascadeOverflow = e.cascade()
	}
	e.events = append(e.events, SubmitMarketEvent(side, qty))
	return res, nil
}

// SubmitMarket is TrySubmitMarket with implicit rejection.
func (e *Engine) SubmitMarket(side orderbook.Side, qty orderbook.Quantity) SubmitResult {
	res, _ := e.TrySubmitMarket(side, qty)
	return res
}

// marketPrice returns the sentinel that makes a market order cross any
// opposite level.
func marketPrice(side orderbook.Side) orderbook.Price {
	if side == orderbook.Buy {
		return orderbook.PriceMax
	}
	return orderbook.PriceMin
}

// submitLimit runs one submission without event recording or cascading.
// Stop conversions reuse it so triggered orders flow through the same path.
func (e *Engine) submitLimit(side orderbook.Side, price orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) SubmitResult {
	// FOK simulates first: if the crossing region cannot cover the whole
	// quantity the order is rejected before any state mutates. The order id
	// and timestamp are still consumed so the caller gets a valid id; the
	// rejected order is not stored.
	if tif == orderbook.FOK && !e.book.CanFullyFill(side, price, qty) {
		ord := e.book.CreateOrder(side, price, qty, tif)
		return SubmitResult{
			OrderID:   ord.ID,
			Status:    orderbook.StatusCancelled,
			Cancelled: qty,
		}
	}

	ord := e.book.CreateOrder(side, price, qty, tif)
	match := e.book.MatchOrder(ord)
	e.recordTrades(match.Trades)

	res := SubmitResult{
		OrderID: ord.ID,
		Trades:  match.Trades,
		Filled:  ord.Filled,
	}

	switch {
	case ord.Remaining == 0:
		e.book.RecordOrder(ord)
		res.Status = orderbook.StatusFilled
	case tif == orderbook.GTC:
		e.book.AddResting(ord)
		res.Status = ord.Status // New, or PartiallyFilled after trades
		res.Resting = ord.Remaining
	default:
		// IOC; a feasible FOK never reaches here with a remainder.
		res.Cancelled = ord.Cancel()
		e.book.RecordOrder(ord)
		res.Status = orderbook.StatusCancelled
	}
	return res
}
