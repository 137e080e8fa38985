package orderbook

import (
	"fmt"

	"matchbook/infra/sequence"
)

// OrderBook composes both side books, the central order index, and the
// monotonic counters. Levels hold order ids; the index holds the records.
// Exactly one engine owns a book; nothing here is safe for concurrent
// mutation.
type OrderBook struct {
	bids   *SideBook
	asks   *SideBook
	orders map[OrderID]*Order

	orderIDs *sequence.Sequencer
	tradeIDs *sequence.Sequencer
	clock    *sequence.Sequencer
}

// NewOrderBook creates an empty book with all counters at zero.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:     newSideBook(Buy),
		asks:     newSideBook(Sell),
		orders:   make(map[OrderID]*Order),
		orderIDs: sequence.New(0),
		tradeIDs: sequence.New(0),
		clock:    sequence.New(0),
	}
}

// --- counters ---

// NextOrderID issues the next order id.
func (b *OrderBook) NextOrderID() OrderID { return OrderID(b.orderIDs.Next()) }

// NextTradeID issues the next trade id.
func (b *OrderBook) NextTradeID() TradeID { return TradeID(b.tradeIDs.Next()) }

// NextTimestamp advances the logical clock.
func (b *OrderBook) NextTimestamp() Timestamp { return Timestamp(b.clock.Next()) }

// PeekNextOrderID returns the next order id without consuming it.
func (b *OrderBook) PeekNextOrderID() OrderID { return OrderID(b.orderIDs.Peek()) }

// Counters returns the last issued (order id, trade id, timestamp) triple.
func (b *OrderBook) Counters() (uint64, uint64, uint64) {
	return b.orderIDs.Current(), b.tradeIDs.Current(), b.clock.Current()
}

// --- order access ---

// GetOrder returns the order record for id, historical orders included.
func (b *OrderBook) GetOrder(id OrderID) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// ContainsOrder reports whether id is known to the index.
func (b *OrderBook) ContainsOrder(id OrderID) bool {
	_, ok := b.orders[id]
	return ok
}

// OrderCount returns the number of indexed orders, historical included.
func (b *OrderBook) OrderCount() int { return len(b.orders) }

// ActiveOrderCount returns the number of orders still on the book.
func (b *OrderBook) ActiveOrderCount() int {
	n := 0
	for _, o := range b.orders {
		if o.IsActive() {
			n++
		}
	}
	return n
}

// --- book access ---

// Bids returns the buy side.
func (b *OrderBook) Bids() *SideBook { return b.bids }

// Asks returns the sell side.
func (b *OrderBook) Asks() *SideBook { return b.asks }

func (b *OrderBook) sideBook(s Side) *SideBook {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// BestBid returns the highest resting buy price.
func (b *OrderBook) BestBid() (Price, bool) { return b.bids.BestPrice() }

// BestAsk returns the lowest resting sell price.
func (b *OrderBook) BestAsk() (Price, bool) { return b.asks.BestPrice() }

// Spread returns best ask minus best bid when both sides are populated.
func (b *OrderBook) Spread() (int64, bool) {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if !okB || !okA {
		return 0, false
	}
	return int64(ask) - int64(bid), true
}

// IsCrossed reports best bid >= best ask. Never true at a quiescent point.
func (b *OrderBook) IsCrossed() bool {
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	return okB && okA && bid >= ask
}

// --- order management ---

// CreateOrder issues an id and timestamp and builds the order record.
// The order is not yet indexed or resting; the TIF dispatcher decides that.
func (b *OrderBook) CreateOrder(side Side, price Price, qty Quantity, tif TimeInForce) *Order {
	return NewOrder(b.NextOrderID(), side, price, qty, b.NextTimestamp(), tif)
}

// AddResting seats an order on its side at its price and indexes it.
func (b *OrderBook) AddResting(o *Order) {
	if _, dup := b.orders[o.ID]; dup {
		panic(fmt.Sprintf("orderbook: order %s already exists", o.ID))
	}
	o.slot = b.sideBook(o.Side).insert(o.Price, o.ID, o.Remaining)
	b.orders[o.ID] = o
}

// RecordOrder indexes an order without placing it on a level. Used for
// orders that terminated during submission (filled, or IOC remainder).
func (b *OrderBook) RecordOrder(o *Order) {
	if _, dup := b.orders[o.ID]; dup {
		panic(fmt.Sprintf("orderbook: order %s already exists", o.ID))
	}
	b.orders[o.ID] = o
}

// CancelOrder tombstones the order's level entry in O(1) and moves the order
// to Cancelled. Returns the cancelled quantity. The zero return with ok ==
// false means the id is unknown or the order is already terminal.
func (b *OrderBook) CancelOrder(id OrderID) (Quantity, bool) {
	o, ok := b.orders[id]
	if !ok || !o.IsActive() {
		return 0, false
	}

	side := b.sideBook(o.Side)
	lvl := side.Level(o.Price)
	if lvl == nil {
		panic(fmt.Sprintf("orderbook: active order %s has no level at %d", id, o.Price))
	}
	lvl.tombstone(o.slot)
	cancelled := o.Cancel()
	if lvl.liveEmpty() {
		side.removeLevel(lvl.Price())
	}
	return cancelled, true
}

// Compact removes every tombstone from every level, preserving FIFO order of
// the live remainder. Future behaviour is unchanged.
func (b *OrderBook) Compact() {
	reseat := func(id OrderID, slot int) {
		b.orders[id].slot = slot
	}
	b.bids.WalkBestToWorst(func(lvl *Level) bool {
		lvl.compact(reseat)
		return true
	})
	b.asks.WalkBestToWorst(func(lvl *Level) bool {
		lvl.compact(reseat)
		return true
	})
}

// ClearHistory prunes terminal orders from the index and returns how many
// were removed. Active orders keep their seats; by construction terminal
// orders have no live level entries, so pruning is safe.
func (b *OrderBook) ClearHistory() int {
	removed := 0
	for id, o := range b.orders {
		if o.Status.IsTerminal() {
			delete(b.orders, id)
			removed++
		}
	}
	return removed
}
