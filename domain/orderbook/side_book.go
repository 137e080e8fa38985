package orderbook

// SideBook holds every level on one side of the book, ordered by price, with
// the best price cached for O(1) BBO reads. Best means highest for bids and
// lowest for asks. The cache is revalidated whenever the best level empties.
type SideBook struct {
	side    Side
	tree    *rbTree
	best    Price
	hasBest bool
}

func newSideBook(side Side) *SideBook {
	return &SideBook{side: side, tree: newRBTree()}
}

// Side returns which side this book represents.
func (sb *SideBook) Side() Side { return sb.side }

// IsEmpty reports whether no levels exist on this side.
func (sb *SideBook) IsEmpty() bool { return sb.tree.Size() == 0 }

// LevelCount returns the number of distinct price levels.
func (sb *SideBook) LevelCount() int { return sb.tree.Size() }

// BestPrice returns the cached best price.
func (sb *SideBook) BestPrice() (Price, bool) { return sb.best, sb.hasBest }

// BestLevel returns the level at the best price.
func (sb *SideBook) BestLevel() *Level {
	if !sb.hasBest {
		return nil
	}
	return sb.tree.Find(sb.best)
}

// Level returns the level at price, or nil.
func (sb *SideBook) Level(price Price) *Level { return sb.tree.Find(price) }

// insert seats an order at price and returns its slot within the level.
func (sb *SideBook) insert(price Price, id OrderID, qty Quantity) int {
	lvl, created := sb.tree.GetOrCreate(price)
	if created {
		sb.noteInsert(price)
	}
	return lvl.pushBack(id, qty)
}

// removeLevel drops the whole level at price and revalidates the best cache.
func (sb *SideBook) removeLevel(price Price) {
	if !sb.tree.Delete(price) {
		return
	}
	if sb.hasBest && sb.best == price {
		sb.recomputeBest()
	}
}

func (sb *SideBook) noteInsert(price Price) {
	if !sb.hasBest {
		sb.best, sb.hasBest = price, true
		return
	}
	if (sb.side == Buy && price > sb.best) || (sb.side == Sell && price < sb.best) {
		sb.best = price
	}
}

func (sb *SideBook) recomputeBest() {
	var lvl *Level
	if sb.side == Buy {
		lvl = sb.tree.Max()
	} else {
		lvl = sb.tree.Min()
	}
	if lvl == nil {
		sb.best, sb.hasBest = 0, false
		return
	}
	sb.best, sb.hasBest = lvl.Price(), true
}

// crosses reports whether an incoming order at limit would trade against a
// resting level at price on this side.
func (sb *SideBook) crosses(limit, price Price) bool {
	if sb.side == Sell {
		// Resting asks: an incoming buy at limit crosses when limit >= price.
		return limit >= price
	}
	// Resting bids: an incoming sell at limit crosses when limit <= price.
	return limit <= price
}

// QuantityCrossing sums live quantity over all levels that an incoming order
// at limit would cross, walking best to worst and stopping early once target
// is reachable. Pass target 0 to sum the whole crossing region.
func (sb *SideBook) QuantityCrossing(limit Price, target Quantity) Quantity {
	var total Quantity
	sb.WalkBestToWorst(func(lvl *Level) bool {
		if !sb.crosses(limit, lvl.Price()) {
			return false
		}
		total += lvl.TotalQuantity()
		return target == 0 || total < target
	})
	return total
}

// TotalQuantity sums live quantity across every level.
func (sb *SideBook) TotalQuantity() Quantity {
	var total Quantity
	sb.WalkBestToWorst(func(lvl *Level) bool {
		total += lvl.TotalQuantity()
		return true
	})
	return total
}

// WalkBestToWorst visits levels from best price to worst. Returning false
// from fn stops the walk.
func (sb *SideBook) WalkBestToWorst(fn func(*Level) bool) {
	if sb.side == Buy {
		sb.tree.Descend(fn)
	} else {
		sb.tree.Ascend(fn)
	}
}
