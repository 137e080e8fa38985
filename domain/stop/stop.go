// Package stop holds pending stop and trailing-stop orders and decides when
// trades trigger them. Triggered conversion and cascading are driven by the
// engine; this package only tracks state and trigger eligibility.
package stop

import (
	"github.com/shopspring/decimal"

	"matchbook/domain/orderbook"
)

// Status of a stop order.
type Status uint8

const (
	// Pending means waiting for the trigger price to be reached.
	Pending Status = iota
	// Triggered means the stop fired and its order was submitted to the book.
	Triggered
	// Cancelled means the stop was cancelled before triggering.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Triggered:
		return "Triggered"
	default:
		return "Cancelled"
	}
}

// TrailKind selects how a trailing stop's offset is computed.
type TrailKind uint8

const (
	// TrailFixed keeps a fixed offset from the watermark.
	TrailFixed TrailKind = iota
	// TrailPercent keeps a fraction of the watermark as the offset.
	TrailPercent
	// TrailATR keeps multiplier x ATR(period) as the offset.
	TrailATR
)

// TrailSpec describes a trailing method. Exactly the fields for its kind are
// meaningful; the others stay zero.
type TrailSpec struct {
	Kind       TrailKind
	Offset     orderbook.Price // TrailFixed
	Percent    decimal.Decimal // TrailPercent, in (0,1)
	Multiplier decimal.Decimal // TrailATR
	Period     int             // TrailATR window length
}

// Fixed builds a fixed-offset trailing spec.
func Fixed(offset orderbook.Price) TrailSpec {
	return TrailSpec{Kind: TrailFixed, Offset: offset}
}

// Percentage builds a percentage trailing spec.
func Percentage(p decimal.Decimal) TrailSpec {
	return TrailSpec{Kind: TrailPercent, Percent: p}
}

// ATR builds an ATR-based trailing spec.
func ATR(multiplier decimal.Decimal, period int) TrailSpec {
	return TrailSpec{Kind: TrailATR, Multiplier: multiplier, Period: period}
}

// Equal reports semantic equality, comparing decimals by value.
func (t TrailSpec) Equal(u TrailSpec) bool {
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case TrailFixed:
		return t.Offset == u.Offset
	case TrailPercent:
		return t.Percent.Equal(u.Percent)
	default:
		return t.Multiplier.Equal(u.Multiplier) && t.Period == u.Period
	}
}

// Order is a stop order waiting to trigger. Ids are drawn from the same
// sequence as regular orders.
type Order struct {
	ID         orderbook.OrderID
	Side       orderbook.Side
	StopPrice  orderbook.Price
	LimitPrice orderbook.Price // meaningful only when HasLimit
	HasLimit   bool            // stop-limit vs stop-market
	Quantity   orderbook.Quantity
	TIF        orderbook.TimeInForce
	Timestamp  orderbook.Timestamp
	Status     Status

	// Trail is nil for plain stops.
	Trail *TrailSpec

	watermark    orderbook.Price
	hasWatermark bool
	window       *tickWindow
}

// IsTrailing reports whether this stop trails the market.
func (o *Order) IsTrailing() bool { return o.Trail != nil }

// Watermark returns the best favourable trade price observed since
// submission: the maximum for sell trailers, the minimum for buy trailers.
func (o *Order) Watermark() (orderbook.Price, bool) {
	return o.watermark, o.hasWatermark
}

// ShouldTrigger evaluates the trigger predicate against a trade price.
// Buy stops arm above the market, sell stops below it.
func (o *Order) ShouldTrigger(last orderbook.Price) bool {
	if o.Side == orderbook.Buy {
		return last >= o.StopPrice
	}
	return last <= o.StopPrice
}

// offset returns the current trailing distance in price units, or false when
// the method has no effect yet (ATR window not full). Percentage and ATR
// offsets are truncated, which rounds the stop toward the watermark.
func (o *Order) offset(watermark orderbook.Price) (orderbook.Price, bool) {
	switch o.Trail.Kind {
	case TrailFixed:
		return o.Trail.Offset, o.Trail.Offset > 0
	case TrailPercent:
		off := decimal.NewFromInt(int64(watermark)).Mul(o.Trail.Percent).IntPart()
		return orderbook.Price(off), off > 0
	default:
		atr, ok := o.window.mean()
		if !ok {
			return 0, false
		}
		off := o.Trail.Multiplier.Mul(atr).IntPart()
		return orderbook.Price(off), off > 0
	}
}

// observe folds one trade price into the trailing state: the watermark moves
// in the favourable direction only, and the effective stop price ratchets
// toward the market, never away from it. The initial stop price is preserved
// across adverse first moves. When the stop moved, the previous stop price
// is returned so the book can re-index the order.
func (o *Order) observe(price orderbook.Price, delta orderbook.Price, haveDelta bool) (prev orderbook.Price, moved bool) {
	if o.Trail.Kind == TrailATR && haveDelta {
		o.window.push(int64(delta))
	}

	watermark := price
	if o.hasWatermark {
		if o.Side == orderbook.Sell {
			watermark = max(o.watermark, price)
		} else {
			watermark = min(o.watermark, price)
		}
	}
	o.watermark, o.hasWatermark = watermark, true

	off, ok := o.offset(watermark)
	if !ok {
		return 0, false
	}

	var next orderbook.Price
	if o.Side == orderbook.Sell {
		next = watermark - off
		if next <= o.StopPrice {
			return 0, false
		}
	} else {
		next = watermark + off
		if next >= o.StopPrice {
			return 0, false
		}
	}
	prev = o.StopPrice
	o.StopPrice = next
	return prev, true
}
