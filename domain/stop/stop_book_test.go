package stop

import (
	"testing"

	"matchbook/domain/orderbook"
)

func makeStop(id uint64, side orderbook.Side, stopPrice int64, qty uint64, ts uint64) *Order {
	return &Order{
		ID:        orderbook.OrderID(id),
		Side:      side,
		StopPrice: orderbook.Price(stopPrice),
		Quantity:  orderbook.Quantity(qty),
		TIF:       orderbook.GTC,
		Timestamp: orderbook.Timestamp(ts),
		Status:    Pending,
	}
}

func TestInsertAndGet(t *testing.T) {
	b := NewBook()
	b.Insert(makeStop(1, orderbook.Buy, 10000, 100, 1))

	if b.PendingCount() != 1 || b.IsEmpty() {
		t.Error("one stop should be pending")
	}
	o, ok := b.Get(1)
	if !ok || o.StopPrice != 10000 || o.Status != Pending {
		t.Errorf("got %+v", o)
	}
}

func TestCancelPending(t *testing.T) {
	b := NewBook()
	b.Insert(makeStop(1, orderbook.Buy, 10000, 100, 1))

	if !b.Cancel(1) {
		t.Fatal("cancel should succeed")
	}
	if b.PendingCount() != 0 {
		t.Error("no stops should remain pending")
	}
	o, _ := b.Get(1)
	if o.Status != Cancelled {
		t.Error("stop should be Cancelled")
	}
	if b.Cancel(1) || b.Cancel(999) {
		t.Error("cancel of non-pending stop should fail")
	}
}

func TestTriggerBuyStop(t *testing.T) {
	b := NewBook()
	// Buy stop at 10500: fires when the trade price reaches 10500.
	b.Insert(makeStop(1, orderbook.Buy, 10500, 100, 1))

	if got := b.CollectTriggered(10400); len(got) != 0 {
		t.Error("below stop price, no trigger")
	}
	got := b.CollectTriggered(10500)
	if len(got) != 1 || got[0].ID != 1 || got[0].Status != Triggered {
		t.Errorf("triggered = %+v", got)
	}
	if b.PendingCount() != 0 {
		t.Error("triggered stop should leave the pending set")
	}
}

func TestTriggerSellStop(t *testing.T) {
	b := NewBook()
	// Sell stop at 9500: fires when the trade price falls to 9500.
	b.Insert(makeStop(1, orderbook.Sell, 9500, 100, 1))

	if got := b.CollectTriggered(9600); len(got) != 0 {
		t.Error("above stop price, no trigger")
	}
	if got := b.CollectTriggered(9500); len(got) != 1 {
		t.Errorf("triggered = %+v", got)
	}
}

func TestTriggerScanOrder(t *testing.T) {
	b := NewBook()
	b.Insert(makeStop(1, orderbook.Buy, 10000, 50, 1))
	b.Insert(makeStop(2, orderbook.Buy, 9900, 75, 2))
	b.Insert(makeStop(3, orderbook.Buy, 10100, 25, 3))
	b.Insert(makeStop(4, orderbook.Sell, 9950, 10, 4))
	b.Insert(makeStop(5, orderbook.Sell, 10050, 10, 5))

	// Trade at 10000: buy stops at 10000 and 9900 fire (descending price),
	// then sell stops at 10000.. fire ascending; 10100 buy stays pending.
	got := b.CollectTriggered(10000)
	wantIDs := []orderbook.OrderID{1, 2, 5}
	if len(got) != len(wantIDs) {
		t.Fatalf("triggered %d stops, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("triggered[%d] = %v, want %v", i, got[i].ID, id)
		}
	}
	if b.PendingCount() != 2 {
		t.Errorf("pending = %d, want 2", b.PendingCount())
	}
}

func TestTriggerTiesKeepSubmissionOrder(t *testing.T) {
	b := NewBook()
	b.Insert(makeStop(1, orderbook.Buy, 10000, 50, 1))
	b.Insert(makeStop(2, orderbook.Buy, 10000, 75, 2))

	got := b.CollectTriggered(10000)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("triggered = %+v", got)
	}
}

func TestStopLimitCarriesLimit(t *testing.T) {
	b := NewBook()
	o := makeStop(1, orderbook.Buy, 10500, 100, 1)
	o.LimitPrice = 10600
	o.HasLimit = true
	b.Insert(o)

	got := b.CollectTriggered(10500)
	if len(got) != 1 || !got[0].HasLimit || got[0].LimitPrice != 10600 {
		t.Errorf("triggered = %+v", got[0])
	}
}

func TestClearHistory(t *testing.T) {
	b := NewBook()
	b.Insert(makeStop(1, orderbook.Buy, 10000, 50, 1))
	b.Insert(makeStop(2, orderbook.Buy, 10000, 75, 2))
	b.CollectTriggered(10000)
	b.Insert(makeStop(3, orderbook.Buy, 10500, 100, 3))

	removed := b.ClearHistory()
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, ok := b.Get(1); ok {
		t.Error("triggered stop should be pruned")
	}
	if _, ok := b.Get(3); !ok {
		t.Error("pending stop should survive pruning")
	}
}

func TestContainsPending(t *testing.T) {
	b := NewBook()
	b.Insert(makeStop(1, orderbook.Buy, 10000, 50, 1))

	if !b.ContainsPending(1) || b.ContainsPending(999) {
		t.Error("pending lookup is wrong")
	}
	b.Cancel(1)
	if b.ContainsPending(1) {
		t.Error("cancelled stop is not pending")
	}
}
