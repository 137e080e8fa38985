package engine

import (
	"matchbook/domain/orderbook"
	"matchbook/domain/stop"
)

// maxCascadeDepth bounds trigger -> trade -> trigger chains. Hitting the
// bound abandons the cascade and leaves the remaining eligibilities pending;
// the condition is surfaced on the result, never swallowed.
const maxCascadeDepth = 100

// TrySubmitStopMarket validates and submits a stop-market order: it becomes
// a market order once the last trade price reaches the stop price (>= for
// buys, <= for sells).
func (e *Engine) TrySubmitStopMarket(side orderbook.Side, stopPrice orderbook.Price, qty orderbook.Quantity) (StopSubmitResult, error) {
	if qty == 0 {
		return StopSubmitResult{}, ErrZeroQuantity
	}
	if stopPrice <= 0 {
		return StopSubmitResult{}, ErrZeroOrNegativePrice
	}

	res := e.submitStop(side, stopPrice, 0, false, qty, orderbook.GTC, nil)
	e.events = append(e.events, SubmitStopMarketEvent(side, stopPrice, qty))
	return res, nil
}

// SubmitStopMarket is TrySubmitStopMarket with implicit rejection.
func (e *Engine) SubmitStopMarket(side orderbook.Side, stopPrice orderbook.Price, qty orderbook.Quantity) StopSubmitResult {
	res, _ := e.TrySubmitStopMarket(side, stopPrice, qty)
	return res
}

// TrySubmitStopLimit validates and submits a stop-limit order: it becomes a
// limit at limitPrice with the given TIF once the stop price is reached.
func (e *Engine) TrySubmitStopLimit(side orderbook.Side, stopPrice, limitPrice orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) (StopSubmitResult, error) {
	if qty == 0 {
		return StopSubmitResult{}, ErrZeroQuantity
	}
	if stopPrice <= 0 || limitPrice <= 0 {
		return StopSubmitResult{}, ErrZeroOrNegativePrice
	}

	res := e.submitStop(side, stopPrice, limitPrice, true, qty, tif, nil)
	e.events = append(e.events, SubmitStopLimitEvent(side, stopPrice, limitPrice, qty, tif))
	return res, nil
}

// SubmitStopLimit is TrySubmitStopLimit with implicit rejection.
func (e *Engine) SubmitStopLimit(side orderbook.Side, stopPrice, limitPrice orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) StopSubmitResult {
	res, _ := e.TrySubmitStopLimit(side, stopPrice, limitPrice, qty, tif)
	return res
}

// TrySubmitTrailingStopMarket validates and submits a trailing stop that
// converts to a market order. The stop price starts at initialStop and
// ratchets with the method as trades move the watermark favourably.
func (e *Engine) TrySubmitTrailingStopMarket(side orderbook.Side, initialStop orderbook.Price, qty orderbook.Quantity, method stop.TrailSpec) (StopSubmitResult, error) {
	if qty == 0 {
		return StopSubmitResult{}, ErrZeroQuantity
	}
	if initialStop <= 0 {
		return StopSubmitResult{}, ErrZeroOrNegativePrice
	}

	trail := method
	res := e.submitStop(side, initialStop, 0, false, qty, orderbook.GTC, &trail)
	e.events = append(e.events, SubmitTrailingStopEvent(side, initialStop, 0, false, qty, method, orderbook.GTC, false))
	return res, nil
}

// SubmitTrailingStopMarket is TrySubmitTrailingStopMarket with implicit
// rejection.
func (e *Engine) SubmitTrailingStopMarket(side orderbook.Side, initialStop orderbook.Price, qty orderbook.Quantity, method stop.TrailSpec) StopSubmitResult {
	res, _ := e.TrySubmitTrailingStopMarket(side, initialStop, qty, method)
	return res
}

// TrySubmitTrailingStopLimit validates and submits a trailing stop that
// converts to a limit order at limitPrice with the given TIF.
func (e *Engine) TrySubmitTrailingStopLimit(side orderbook.Side, initialStop, limitPrice orderbook.Price, qty orderbook.Quantity, method stop.TrailSpec, tif orderbook.TimeInForce) (StopSubmitResult, error) {
	if qty == 0 {
		return StopSubmitResult{}, ErrZeroQuantity
	}
	if initialStop <= 0 || limitPrice <= 0 {
		return StopSubmitResult{}, ErrZeroOrNegativePrice
	}

	trail := method
	res := e.submitStop(side, initialStop, limitPrice, true, qty, tif, &trail)
	e.events = append(e.events, SubmitTrailingStopEvent(side, initialStop, limitPrice, true, qty, method, tif, true))
	return res, nil
}

// SubmitTrailingStopLimit is TrySubmitTrailingStopLimit with implicit
// rejection.
func (e *Engine) SubmitTrailingStopLimit(side orderbook.Side, initialStop, limitPrice orderbook.Price, qty orderbook.Quantity, method stop.TrailSpec, tif orderbook.TimeInForce) StopSubmitResult {
	res, _ := e.TrySubmitTrailingStopLimit(side, initialStop, limitPrice, qty, method, tif)
	return res
}

// submitStop registers a pending stop and fires it immediately when the
// last trade price already satisfies the trigger predicate.
func (e *Engine) submitStop(side orderbook.Side, stopPrice, limitPrice orderbook.Price, hasLimit bool, qty orderbook.Quantity, tif orderbook.TimeInForce, trail *stop.TrailSpec) StopSubmitResult {
	id := e.book.NextOrderID()
	ts := e.book.NextTimestamp()

	o := &stop.Order{
		ID:         id,
		Side:       side,
		StopPrice:  stopPrice,
		LimitPrice: limitPrice,
		HasLimit:   hasLimit,
		Quantity:   qty,
		TIF:        tif,
		Timestamp:  ts,
		Status:     stop.Pending,
		Trail:      trail,
	}
	e.stops.Insert(o)

	res := StopSubmitResult{OrderID: id, Status: stop.Pending}
	if e.hasLast && o.ShouldTrigger(e.lastTrade) {
		mark := len(e.trades)
		res.CascadeOverflow = e.cascade()
		if cur, ok := e.stops.Get(id); ok {
			res.Status = cur.Status
		}
		res.Triggered = res.Status == stop.Triggered
		res.Trades = append([]orderbook.Trade(nil), e.trades[mark:]...)
	}
	return res
}

// cascade drives trigger -> submit -> trade -> trigger rounds until no stop
// fires, no new trade prints, or the depth bound is hit. Within one round
// triggered buy stops convert first in descending stop price, then sell
// stops in ascending stop price; ties keep submission order. Reports whether
// the bound was hit.
func (e *Engine) cascade() bool {
	for depth := 0; depth < maxCascadeDepth; depth++ {
		if !e.hasLast {
			return false
		}
		triggered := e.stops.CollectTriggered(e.lastTrade)
		if len(triggered) == 0 {
			return false
		}

		traded := false
		for _, s := range triggered {
			var res SubmitResult
			if s.HasLimit {
				res = e.submitLimit(s.Side, s.LimitPrice, s.Quantity, s.TIF)
			} else {
				res = e.submitLimit(s.Side, marketPrice(s.Side), s.Quantity, orderbook.IOC)
			}
			if res.HasTrades() {
				traded = true
			}
		}
		if !traded {
			return false
		}
	}
	return true
}
