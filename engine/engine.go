// Package engine is the write entry point of the matching core: it routes
// submissions through time-in-force handling, drives stop-trigger cascades,
// and records accepted commands for deterministic replay. One engine owns
// one book; callers serialise all access.
package engine

import (
	"matchbook/domain/orderbook"
	"matchbook/domain/stop"
	"matchbook/snapshot"
)

// Engine processes order-management commands against a single book.
// The same command sequence always produces bit-identical outputs.
type Engine struct {
	book   *orderbook.OrderBook
	stops  *stop.Book
	trades []orderbook.Trade

	lastTrade orderbook.Price
	hasLast   bool

	events []Event
}

// New creates an engine with an empty book and all counters at zero.
func New() *Engine {
	return &Engine{
		book:  orderbook.NewOrderBook(),
		stops: stop.NewBook(),
	}
}

// recordTrades folds freshly produced trades into the engine: the global
// trade log, the last trade price, and every trailing stop's watermark.
// Trades are observed one at a time, in execution order.
func (e *Engine) recordTrades(trades []orderbook.Trade) {
	for _, t := range trades {
		e.trades = append(e.trades, t)
		e.stops.ObserveTrade(t.Price)
		e.lastTrade, e.hasLast = t.Price, true
	}
}

// --- queries ---

// GetOrder returns a copy of the order record for id.
func (e *Engine) GetOrder(id orderbook.OrderID) (orderbook.Order, bool) {
	o, ok := e.book.GetOrder(id)
	if !ok {
		return orderbook.Order{}, false
	}
	return *o, true
}

// GetStopOrder returns a copy of the stop order record for id.
func (e *Engine) GetStopOrder(id orderbook.OrderID) (stop.Order, bool) {
	o, ok := e.stops.Get(id)
	if !ok {
		return stop.Order{}, false
	}
	return *o, true
}

// BestBid returns the highest resting buy price.
func (e *Engine) BestBid() (orderbook.Price, bool) { return e.book.BestBid() }

// BestAsk returns the lowest resting sell price.
func (e *Engine) BestAsk() (orderbook.Price, bool) { return e.book.BestAsk() }

// BestBidAsk returns both sides of the L1 market.
func (e *Engine) BestBidAsk() (bid orderbook.Price, hasBid bool, ask orderbook.Price, hasAsk bool) {
	bid, hasBid = e.book.BestBid()
	ask, hasAsk = e.book.BestAsk()
	return bid, hasBid, ask, hasAsk
}

// Spread returns best ask minus best bid when both exist.
func (e *Engine) Spread() (int64, bool) { return e.book.Spread() }

// Depth snapshots the top n levels per side.
func (e *Engine) Depth(n int) snapshot.BookSnapshot { return snapshot.Take(e.book, n) }

// FullBook snapshots every level on both sides.
func (e *Engine) FullBook() snapshot.BookSnapshot { return snapshot.Full(e.book) }

// Trades returns a copy of the trade log, cascade trades included, in
// execution order.
func (e *Engine) Trades() []orderbook.Trade {
	out := make([]orderbook.Trade, len(e.trades))
	copy(out, e.trades)
	return out
}

// LastTradePrice returns the execution price of the most recent trade.
func (e *Engine) LastTradePrice() (orderbook.Price, bool) {
	return e.lastTrade, e.hasLast
}

// PendingStopCount returns the number of pending stop orders.
func (e *Engine) PendingStopCount() int { return e.stops.PendingCount() }

// Book exposes the underlying order book for advanced read-only queries.
func (e *Engine) Book() *orderbook.OrderBook { return e.book }

// --- maintenance ---

// ClearTrades discards the trade log. The last trade price is kept so stop
// triggering is unaffected.
func (e *Engine) ClearTrades() {
	e.trades = e.trades[:0]
}

// ClearOrderHistory prunes terminal orders from the index and triggered or
// cancelled stops from the stop book. Returns the number pruned.
func (e *Engine) ClearOrderHistory() int {
	return e.book.ClearHistory() + e.stops.ClearHistory()
}

// Compact removes every cancel tombstone from every level. FIFO order of
// live orders is preserved and future behaviour is identical.
func (e *Engine) Compact() {
	e.book.Compact()
}
