package stop

import (
	"sort"

	"matchbook/domain/orderbook"
)

// priceIndex keeps order ids bucketed by stop price with the prices held
// sorted, so trigger scans can start from the next-to-trigger price and stop
// as soon as the predicate fails. Ids within a bucket stay in submission
// order.
type priceIndex struct {
	prices []orderbook.Price
	ids    map[orderbook.Price][]orderbook.OrderID
}

func newPriceIndex() *priceIndex {
	return &priceIndex{ids: make(map[orderbook.Price][]orderbook.OrderID)}
}

func (x *priceIndex) add(price orderbook.Price, id orderbook.OrderID) {
	if _, ok := x.ids[price]; !ok {
		i := sort.Search(len(x.prices), func(i int) bool { return x.prices[i] >= price })
		x.prices = append(x.prices, 0)
		copy(x.prices[i+1:], x.prices[i:])
		x.prices[i] = price
	}
	x.ids[price] = append(x.ids[price], id)
}

func (x *priceIndex) remove(price orderbook.Price, id orderbook.OrderID) {
	bucket, ok := x.ids[price]
	if !ok {
		return
	}
	for i, oid := range bucket {
		if oid == id {
			x.ids[price] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(x.ids[price]) == 0 {
		delete(x.ids, price)
		i := sort.Search(len(x.prices), func(i int) bool { return x.prices[i] >= price })
		if i < len(x.prices) && x.prices[i] == price {
			x.prices = append(x.prices[:i], x.prices[i+1:]...)
		}
	}
}

// Book is the set of pending stop orders plus the per-side price indexes
// and the shared last-price state feeding ATR windows.
type Book struct {
	buyStops  *priceIndex
	sellStops *priceIndex
	orders    map[orderbook.OrderID]*Order
	trailing  []orderbook.OrderID

	lastPrice orderbook.Price
	hasLast   bool
}

// NewBook creates an empty stop book.
func NewBook() *Book {
	return &Book{
		buyStops:  newPriceIndex(),
		sellStops: newPriceIndex(),
		orders:    make(map[orderbook.OrderID]*Order),
	}
}

func (b *Book) index(side orderbook.Side) *priceIndex {
	if side == orderbook.Buy {
		return b.buyStops
	}
	return b.sellStops
}

// Insert adds a pending stop order. ATR trailers get their ring allocated
// here so the order is self-contained from the first trade on.
func (b *Book) Insert(o *Order) {
	if o.Trail != nil && o.Trail.Kind == TrailATR && o.window == nil {
		o.window = newTickWindow(o.Trail.Period)
	}
	b.index(o.Side).add(o.StopPrice, o.ID)
	b.orders[o.ID] = o
	if o.IsTrailing() {
		b.trailing = append(b.trailing, o.ID)
	}
}

// Cancel cancels a pending stop. Returns false when the id is unknown or
// the stop already left the pending state.
func (b *Book) Cancel(id orderbook.OrderID) bool {
	o, ok := b.orders[id]
	if !ok || o.Status != Pending {
		return false
	}
	o.Status = Cancelled
	b.index(o.Side).remove(o.StopPrice, id)
	b.dropTrailing(id)
	return true
}

// Get returns the stop order for id, historical states included.
func (b *Book) Get(id orderbook.OrderID) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// ContainsPending reports whether id names a pending stop.
func (b *Book) ContainsPending(id orderbook.OrderID) bool {
	o, ok := b.orders[id]
	return ok && o.Status == Pending
}

// PendingCount returns the number of pending stops on both sides.
func (b *Book) PendingCount() int {
	n := 0
	for _, ids := range b.buyStops.ids {
		n += len(ids)
	}
	for _, ids := range b.sellStops.ids {
		n += len(ids)
	}
	return n
}

// IsEmpty reports whether no stops are pending.
func (b *Book) IsEmpty() bool { return b.PendingCount() == 0 }

// ObserveTrade folds one trade price into every trailing stop: watermarks
// advance in the favourable direction only and stop prices ratchet toward
// the market, re-indexed under their new trigger price. Call once per trade,
// in trade order, before collecting triggers.
func (b *Book) ObserveTrade(price orderbook.Price) {
	var delta orderbook.Price
	haveDelta := false
	if b.hasLast {
		delta = price - b.lastPrice
		if delta < 0 {
			delta = -delta
		}
		haveDelta = true
	}
	b.lastPrice, b.hasLast = price, true

	for _, id := range b.trailing {
		o, ok := b.orders[id]
		if !ok || o.Status != Pending {
			continue
		}
		if prev, moved := o.observe(price, delta, haveDelta); moved {
			idx := b.index(o.Side)
			idx.remove(prev, id)
			idx.add(o.StopPrice, id)
		}
	}
}

// CollectTriggered removes and returns every pending stop whose trigger
// predicate holds at the given trade price, marked Triggered. Order is
// deterministic: buy stops in descending stop price, then sell stops in
// ascending stop price, submission order within a price.
func (b *Book) CollectTriggered(price orderbook.Price) []*Order {
	var triggered []*Order

	// Buy stops fire when price >= stop: every bucket at or below price.
	n := sort.Search(len(b.buyStops.prices), func(i int) bool { return b.buyStops.prices[i] > price })
	for i := n - 1; i >= 0; i-- {
		triggered = b.takeBucket(b.buyStops, b.buyStops.prices[i], triggered)
	}
	b.buyStops.sync()

	// Sell stops fire when price <= stop: every bucket at or above price.
	n = sort.Search(len(b.sellStops.prices), func(i int) bool { return b.sellStops.prices[i] >= price })
	for i := n; i < len(b.sellStops.prices); i++ {
		triggered = b.takeBucket(b.sellStops, b.sellStops.prices[i], triggered)
	}
	b.sellStops.sync()

	if len(triggered) > 0 {
		b.pruneTrailing()
	}
	return triggered
}

func (b *Book) takeBucket(x *priceIndex, price orderbook.Price, out []*Order) []*Order {
	for _, id := range x.ids[price] {
		o := b.orders[id]
		if o.Status != Pending {
			continue
		}
		o.Status = Triggered
		out = append(out, o)
	}
	delete(x.ids, price)
	return out
}

// sync drops prices whose buckets were consumed wholesale by a trigger scan.
func (x *priceIndex) sync() {
	kept := x.prices[:0]
	for _, p := range x.prices {
		if _, ok := x.ids[p]; ok {
			kept = append(kept, p)
		}
	}
	x.prices = kept
}

func (b *Book) dropTrailing(id orderbook.OrderID) {
	for i, tid := range b.trailing {
		if tid == id {
			b.trailing = append(b.trailing[:i], b.trailing[i+1:]...)
			return
		}
	}
}

func (b *Book) pruneTrailing() {
	kept := b.trailing[:0]
	for _, id := range b.trailing {
		if o, ok := b.orders[id]; ok && o.Status == Pending {
			kept = append(kept, id)
		}
	}
	b.trailing = kept
}

// ClearHistory drops triggered and cancelled stops, keeping pending ones.
func (b *Book) ClearHistory() int {
	removed := 0
	for id, o := range b.orders {
		if o.Status != Pending {
			delete(b.orders, id)
			removed++
		}
	}
	b.pruneTrailing()
	return removed
}
