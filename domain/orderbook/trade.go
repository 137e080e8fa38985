package orderbook

import "fmt"

// Trade is a completed execution between an incoming (aggressor) order and a
// resting (passive) order. The price is always the passive order's price.
type Trade struct {
	ID            TradeID
	Price         Price
	Quantity      Quantity
	AggressorID   OrderID
	PassiveID     OrderID
	AggressorSide Side
	Timestamp     Timestamp
}

// NewTrade builds a trade record.
func NewTrade(id TradeID, price Price, qty Quantity, aggressor, passive OrderID, side Side, ts Timestamp) Trade {
	return Trade{
		ID:            id,
		Price:         price,
		Quantity:      qty,
		AggressorID:   aggressor,
		PassiveID:     passive,
		AggressorSide: side,
		Timestamp:     ts,
	}
}

// PassiveSide returns the side of the maker order.
func (t Trade) PassiveSide() Side { return t.AggressorSide.Opposite() }

// Notional returns price units times quantity.
func (t Trade) Notional() int64 { return int64(t.Price) * int64(t.Quantity) }

func (t Trade) String() string {
	verb := "sold"
	if t.AggressorSide == Buy {
		verb = "bought"
	}
	return fmt.Sprintf("%s: %d %s @ %s (%s aggressor)", t.ID, t.Quantity, verb, t.Price, t.AggressorID)
}

// VWAP computes the volume-weighted average price of a trade series in
// integer price units. Reports false for an empty series.
func VWAP(trades []Trade) (Price, bool) {
	if len(trades) == 0 {
		return 0, false
	}
	var qty Quantity
	var notional int64
	for _, t := range trades {
		qty += t.Quantity
		notional += t.Notional()
	}
	if qty == 0 {
		return 0, false
	}
	return Price(notional / int64(qty)), true
}
