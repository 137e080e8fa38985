package orderbook

import "testing"

func TestLevelFIFO(t *testing.T) {
	lvl := newLevel(10000)
	lvl.pushBack(1, 100)
	lvl.pushBack(2, 200)
	lvl.pushBack(3, 150)

	if lvl.TotalQuantity() != 450 || lvl.LiveOrderCount() != 3 {
		t.Fatalf("total=%d live=%d", lvl.TotalQuantity(), lvl.LiveOrderCount())
	}

	id, ok := lvl.frontLive()
	if !ok || id != 1 {
		t.Fatalf("front = %v, want 1", id)
	}
	lvl.popFront()
	if id, _ := lvl.frontLive(); id != 2 {
		t.Errorf("front after pop = %v, want 2", id)
	}
	if lvl.TotalQuantity() != 350 {
		t.Errorf("total after pop = %d, want 350", lvl.TotalQuantity())
	}
}

func TestLevelTombstoneSkipped(t *testing.T) {
	lvl := newLevel(10000)
	a := lvl.pushBack(1, 100)
	lvl.pushBack(2, 200)

	lvl.tombstone(a)
	if lvl.TotalQuantity() != 200 || lvl.LiveOrderCount() != 1 {
		t.Fatalf("total=%d live=%d after tombstone", lvl.TotalQuantity(), lvl.LiveOrderCount())
	}

	id, ok := lvl.frontLive()
	if !ok || id != 2 {
		t.Errorf("front should skip tombstone, got %v", id)
	}
}

func TestLevelOnlyTombstones(t *testing.T) {
	lvl := newLevel(10000)
	a := lvl.pushBack(1, 100)
	lvl.tombstone(a)

	if !lvl.liveEmpty() {
		t.Error("level should be live-empty")
	}
	if _, ok := lvl.frontLive(); ok {
		t.Error("frontLive should report no live entry")
	}
}

func TestLevelReduceFront(t *testing.T) {
	lvl := newLevel(10000)
	lvl.pushBack(1, 100)
	lvl.reduceFront(30)

	if lvl.TotalQuantity() != 70 {
		t.Errorf("total = %d, want 70", lvl.TotalQuantity())
	}
	if lvl.LiveOrderCount() != 1 {
		t.Error("partial fill must not drop the entry")
	}
}

func TestLevelCompactPreservesFIFO(t *testing.T) {
	lvl := newLevel(10000)
	lvl.pushBack(1, 100)
	b := lvl.pushBack(2, 200)
	lvl.pushBack(3, 150)
	lvl.tombstone(b)

	seats := make(map[OrderID]int)
	lvl.compact(func(id OrderID, slot int) { seats[id] = slot })

	if len(seats) != 2 || seats[1] != 0 || seats[3] != 1 {
		t.Errorf("reseats = %v", seats)
	}
	var ids []OrderID
	lvl.eachLive(func(id OrderID, _ Quantity) bool {
		ids = append(ids, id)
		return true
	})
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("live order after compact = %v", ids)
	}
	if lvl.TotalQuantity() != 250 {
		t.Errorf("total after compact = %d, want 250", lvl.TotalQuantity())
	}
}
