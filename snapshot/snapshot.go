// Package snapshot produces detached, read-only views of an order book:
// L1 (best bid/ask), L2 (top-N levels), and L3 (all levels), plus the
// analytics derived from them. Snapshots never mutate the book and share no
// state with it. Fractional analytics are exact decimals; no floating point
// crosses this interface.
package snapshot

import (
	"github.com/shopspring/decimal"

	"matchbook/domain/orderbook"
)

// LevelSnapshot is one price level projection: the price, the aggregated
// live quantity, and the count of live (non-tombstone) orders.
type LevelSnapshot struct {
	Price      orderbook.Price
	Quantity   orderbook.Quantity
	OrderCount int
}

// BookSnapshot is a point-in-time projection of both sides. Bids are ordered
// highest price first, asks lowest first.
type BookSnapshot struct {
	Bids      []LevelSnapshot
	Asks      []LevelSnapshot
	Timestamp orderbook.Timestamp
}

// Take snapshots the top depth levels per side. Use Full for every level.
func Take(book *orderbook.OrderBook, depth int) BookSnapshot {
	_, _, ts := book.Counters()
	return BookSnapshot{
		Bids:      sideLevels(book.Bids(), depth),
		Asks:      sideLevels(book.Asks(), depth),
		Timestamp: orderbook.Timestamp(ts),
	}
}

// Full snapshots every level on both sides (L3).
func Full(book *orderbook.OrderBook) BookSnapshot {
	return Take(book, book.Bids().LevelCount()+book.Asks().LevelCount())
}

func sideLevels(side *orderbook.SideBook, depth int) []LevelSnapshot {
	if depth <= 0 {
		return nil
	}
	out := make([]LevelSnapshot, 0, depth)
	side.WalkBestToWorst(func(lvl *orderbook.Level) bool {
		out = append(out, LevelSnapshot{
			Price:      lvl.Price(),
			Quantity:   lvl.TotalQuantity(),
			OrderCount: lvl.LiveOrderCount(),
		})
		return len(out) < depth
	})
	return out
}

// BestBid returns the top bid level's price.
func (s BookSnapshot) BestBid() (orderbook.Price, bool) {
	if len(s.Bids) == 0 {
		return 0, false
	}
	return s.Bids[0].Price, true
}

// BestAsk returns the top ask level's price.
func (s BookSnapshot) BestAsk() (orderbook.Price, bool) {
	if len(s.Asks) == 0 {
		return 0, false
	}
	return s.Asks[0].Price, true
}

// Spread returns best ask minus best bid when both sides are present.
func (s BookSnapshot) Spread() (int64, bool) {
	bid, okB := s.BestBid()
	ask, okA := s.BestAsk()
	if !okB || !okA {
		return 0, false
	}
	return int64(ask) - int64(bid), true
}

// MidPrice returns (best bid + best ask) / 2 as an exact decimal.
func (s BookSnapshot) MidPrice() (decimal.Decimal, bool) {
	bid, okB := s.BestBid()
	ask, okA := s.BestAsk()
	if !okB || !okA {
		return decimal.Decimal{}, false
	}
	sum := decimal.NewFromInt(int64(bid)).Add(decimal.NewFromInt(int64(ask)))
	return sum.Div(decimal.NewFromInt(2)), true
}

// TotalBidQuantity sums live quantity across the snapshot's bid levels.
func (s BookSnapshot) TotalBidQuantity() orderbook.Quantity {
	var total orderbook.Quantity
	for _, l := range s.Bids {
		total += l.Quantity
	}
	return total
}

// TotalAskQuantity sums live quantity across the snapshot's ask levels.
func (s BookSnapshot) TotalAskQuantity() orderbook.Quantity {
	var total orderbook.Quantity
	for _, l := range s.Asks {
		total += l.Quantity
	}
	return total
}

// Imbalance returns (bid_qty - ask_qty) / (bid_qty + ask_qty) over the
// snapshot, in [-1, 1]. Undefined when both sides are empty.
func (s BookSnapshot) Imbalance() (decimal.Decimal, bool) {
	bid := decimal.NewFromUint64(uint64(s.TotalBidQuantity()))
	ask := decimal.NewFromUint64(uint64(s.TotalAskQuantity()))
	total := bid.Add(ask)
	if total.IsZero() {
		return decimal.Decimal{}, false
	}
	return bid.Sub(ask).Div(total), true
}

// WeightedMid returns (bid_price*ask_qty + ask_price*bid_qty) / (bid_qty +
// ask_qty) using the quantities at the respective best levels. The mid leans
// toward the thinner side, where the next trade is more likely.
func (s BookSnapshot) WeightedMid() (decimal.Decimal, bool) {
	if len(s.Bids) == 0 || len(s.Asks) == 0 {
		return decimal.Decimal{}, false
	}
	bid, ask := s.Bids[0], s.Asks[0]
	bidQty := decimal.NewFromUint64(uint64(bid.Quantity))
	askQty := decimal.NewFromUint64(uint64(ask.Quantity))
	total := bidQty.Add(askQty)
	if total.IsZero() {
		return decimal.Decimal{}, false
	}
	weighted := decimal.NewFromInt(int64(bid.Price)).Mul(askQty).
		Add(decimal.NewFromInt(int64(ask.Price)).Mul(bidQty))
	return weighted.Div(total), true
}
