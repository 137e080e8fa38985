package engine

import (
	"matchbook/domain/orderbook"
	"matchbook/domain/stop"
)

// EventKind tags the command an event carries.
type EventKind uint8

const (
	EventSubmitLimit EventKind = iota
	EventSubmitMarket
	EventSubmitStopMarket
	EventSubmitStopLimit
	EventSubmitTrailingStop
	EventCancel
	EventModify
)

func (k EventKind) String() string {
	switch k {
	case EventSubmitLimit:
		return "limit"
	case EventSubmitMarket:
		return "market"
	case EventSubmitStopMarket:
		return "stop_market"
	case EventSubmitStopLimit:
		return "stop_limit"
	case EventSubmitTrailingStop:
		return "trailing_stop"
	case EventCancel:
		return "cancel"
	default:
		return "modify"
	}
}

// Event is one accepted command. Events capture inputs, never outputs;
// replaying the same sequence reproduces the same trades, book, and
// counters. Only the fields of the tagged variant are meaningful.
type Event struct {
	Kind EventKind

	// Submissions.
	Side     orderbook.Side
	Price    orderbook.Price
	Quantity orderbook.Quantity
	TIF      orderbook.TimeInForce

	// Stop submissions.
	StopPrice  orderbook.Price
	LimitPrice orderbook.Price
	HasLimit   bool
	Trail      stop.TrailSpec
	HasTIF     bool

	// Cancel and modify.
	OrderID     orderbook.OrderID
	NewPrice    orderbook.Price
	NewQuantity orderbook.Quantity
}

// SubmitLimitEvent builds a limit submission event.
func SubmitLimitEvent(side orderbook.Side, price orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) Event {
	return Event{Kind: EventSubmitLimit, Side: side, Price: price, Quantity: qty, TIF: tif}
}

// SubmitMarketEvent builds a market submission event.
func SubmitMarketEvent(side orderbook.Side, qty orderbook.Quantity) Event {
	return Event{Kind: EventSubmitMarket, Side: side, Quantity: qty}
}

// SubmitStopMarketEvent builds a stop-market submission event.
func SubmitStopMarketEvent(side orderbook.Side, stopPrice orderbook.Price, qty orderbook.Quantity) Event {
	return Event{Kind: EventSubmitStopMarket, Side: side, StopPrice: stopPrice, Quantity: qty}
}

// SubmitStopLimitEvent builds a stop-limit submission event.
func SubmitStopLimitEvent(side orderbook.Side, stopPrice, limitPrice orderbook.Price, qty orderbook.Quantity, tif orderbook.TimeInForce) Event {
	return Event{
		Kind:       EventSubmitStopLimit,
		Side:       side,
		StopPrice:  stopPrice,
		LimitPrice: limitPrice,
		HasLimit:   true,
		Quantity:   qty,
		TIF:        tif,
	}
}

// SubmitTrailingStopEvent builds a trailing-stop submission event. The limit
// price and TIF are carried only for the stop-limit variant.
func SubmitTrailingStopEvent(side orderbook.Side, initialStop orderbook.Price, limitPrice orderbook.Price, hasLimit bool, qty orderbook.Quantity, method stop.TrailSpec, tif orderbook.TimeInForce, hasTIF bool) Event {
	return Event{
		Kind:       EventSubmitTrailingStop,
		Side:       side,
		StopPrice:  initialStop,
		LimitPrice: limitPrice,
		HasLimit:   hasLimit,
		Quantity:   qty,
		Trail:      method,
		TIF:        tif,
		HasTIF:     hasTIF,
	}
}

// CancelEvent builds a cancel event.
func CancelEvent(id orderbook.OrderID) Event {
	return Event{Kind: EventCancel, OrderID: id}
}

// ModifyEvent builds a modify event.
func ModifyEvent(id orderbook.OrderID, newPrice orderbook.Price, newQty orderbook.Quantity) Event {
	return Event{Kind: EventModify, OrderID: id, NewPrice: newPrice, NewQuantity: newQty}
}

// Equal reports semantic event equality (decimal trail fields by value).
func (e Event) Equal(o Event) bool {
	if e.Kind != o.Kind || e.Side != o.Side || e.Price != o.Price ||
		e.Quantity != o.Quantity || e.TIF != o.TIF ||
		e.StopPrice != o.StopPrice || e.LimitPrice != o.LimitPrice ||
		e.HasLimit != o.HasLimit || e.HasTIF != o.HasTIF ||
		e.OrderID != o.OrderID || e.NewPrice != o.NewPrice ||
		e.NewQuantity != o.NewQuantity {
		return false
	}
	if e.Kind == EventSubmitTrailingStop {
		return e.Trail.Equal(o.Trail)
	}
	return true
}

// Apply runs one event against the engine. Accepted events are recorded in
// the event log exactly as if the corresponding command method had been
// called; a validation or cancel/modify error records nothing.
func (e *Engine) Apply(ev Event) (ApplyResult, error) {
	switch ev.Kind {
	case EventSubmitLimit:
		res, err := e.TrySubmitLimit(ev.Side, ev.Price, ev.Quantity, ev.TIF)
		return ApplyResult{Trades: res.Trades, CascadeOverflow: res.CascadeOverflow}, err
	case EventSubmitMarket:
		res, err := e.TrySubmitMarket(ev.Side, ev.Quantity)
		return ApplyResult{Trades: res.Trades, CascadeOverflow: res.CascadeOverflow}, err
	case EventSubmitStopMarket:
		res, err := e.TrySubmitStopMarket(ev.Side, ev.StopPrice, ev.Quantity)
		return ApplyResult{Trades: res.Trades, CascadeOverflow: res.CascadeOverflow}, err
	case EventSubmitStopLimit:
		res, err := e.TrySubmitStopLimit(ev.Side, ev.StopPrice, ev.LimitPrice, ev.Quantity, ev.TIF)
		return ApplyResult{Trades: res.Trades, CascadeOverflow: res.CascadeOverflow}, err
	case EventSubmitTrailingStop:
		var res StopSubmitResult
		var err error
		if ev.HasLimit {
			res, err = e.TrySubmitTrailingStopLimit(ev.Side, ev.StopPrice, ev.LimitPrice, ev.Quantity, ev.Trail, ev.TIF)
		} else {
			res, err = e.TrySubmitTrailingStopMarket(ev.Side, ev.StopPrice, ev.Quantity, ev.Trail)
		}
		return ApplyResult{Trades: res.Trades, CascadeOverflow: res.CascadeOverflow}, err
	case EventCancel:
		res := e.Cancel(ev.OrderID)
		return ApplyResult{}, res.Err
	default:
		res := e.Modify(ev.OrderID, ev.NewPrice, ev.NewQuantity)
		return ApplyResult{Trades: res.Trades, CascadeOverflow: res.CascadeOverflow}, res.Err
	}
}

// Replay reconstructs an engine from an ordered event sequence. The result
// matches the original engine's trades, resting book, and counters exactly.
func Replay(events []Event) *Engine {
	e := New()
	for _, ev := range events {
		_, _ = e.Apply(ev)
	}
	return e
}

// Events returns a copy of the event log.
func (e *Engine) Events() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// ClearEvents discards the event log. Current state is untouched; only the
// ability to replay history is lost.
func (e *Engine) ClearEvents() {
	e.events = e.events[:0]
}
