package orderbook

// MatchResult reports what happened when an incoming order crossed the book.
type MatchResult struct {
	Trades    []Trade
	Remaining Quantity
}

// FilledQuantity sums the executed quantity across all trades.
func (r MatchResult) FilledQuantity() Quantity {
	var total Quantity
	for _, t := range r.Trades {
		total += t.Quantity
	}
	return total
}

// IsFullyFilled reports whether nothing was left over.
func (r MatchResult) IsFullyFilled() bool { return r.Remaining == 0 }

// pricesCross reports whether an incoming order at incoming crosses a
// resting level at resting. Buys cross down onto asks, sells up onto bids.
func pricesCross(side Side, incoming, resting Price) bool {
	if side == Buy {
		return incoming >= resting
	}
	return incoming <= resting
}

// MatchOrder drains the opposite side against the incoming order under
// price-time priority: best level first, FIFO within a level, every trade at
// the resting order's price. The incoming order is mutated but NOT added to
// the book; the caller decides that from its TIF. Matching never fails — it
// stops when the order is exhausted or no resting price crosses.
func (b *OrderBook) MatchOrder(incoming *Order) MatchResult {
	var result MatchResult
	opp := b.sideBook(incoming.Side.Opposite())

	for incoming.Remaining > 0 {
		best, ok := opp.BestPrice()
		if !ok || !pricesCross(incoming.Side, incoming.Price, best) {
			break
		}
		b.matchAtPrice(incoming, opp, best, &result)
	}

	result.Remaining = incoming.Remaining
	return result
}

// matchAtPrice fills the incoming order against the level at price until the
// order or the level's live population is exhausted. Leading tombstones are
// popped and discarded as they are met, which keeps cancellation O(1) without
// slowing the match loop.
func (b *OrderBook) matchAtPrice(incoming *Order, opp *SideBook, price Price, result *MatchResult) {
	lvl := opp.Level(price)
	for incoming.Remaining > 0 {
		restingID, ok := lvl.frontLive()
		if !ok {
			// Only tombstones were left; the level is dead.
			opp.removeLevel(price)
			return
		}

		resting := b.orders[restingID]
		fill := min(incoming.Remaining, resting.Remaining)

		result.Trades = append(result.Trades, NewTrade(
			b.NextTradeID(),
			price, // resting order's price: aggressor gets the improvement
			fill,
			incoming.ID,
			restingID,
			incoming.Side,
			b.NextTimestamp(),
		))

		incoming.Fill(fill)
		resting.Fill(fill)

		if resting.Remaining == 0 {
			lvl.popFront()
			if lvl.liveEmpty() {
				opp.removeLevel(price)
				return
			}
		} else {
			lvl.reduceFront(fill)
		}
	}
}

// AvailableToFill sums the live quantity an order on side at price could
// cross against. Backs the FOK pre-check.
func (b *OrderBook) AvailableToFill(side Side, price Price) Quantity {
	return b.sideBook(side.Opposite()).QuantityCrossing(price, 0)
}

// CanFullyFill reports whether an order on side at price could execute its
// whole quantity immediately. Iterates best to worst and stops as soon as
// the answer is known.
func (b *OrderBook) CanFullyFill(side Side, price Price, qty Quantity) bool {
	return b.sideBook(side.Opposite()).QuantityCrossing(price, qty) >= qty
}
