package engine

import (
	"testing"

	"matchbook/domain/orderbook"
	"matchbook/domain/stop"
)

// assertSameState fails unless both engines agree on trades, resting book,
// and counters.
func assertSameState(t *testing.T, want, got *Engine) {
	t.Helper()

	wantTrades, gotTrades := want.Trades(), got.Trades()
	if len(wantTrades) != len(gotTrades) {
		t.Fatalf("trades: %d vs %d", len(wantTrades), len(gotTrades))
	}
	for i := range wantTrades {
		if wantTrades[i] != gotTrades[i] {
			t.Fatalf("trade %d: %+v vs %+v", i, wantTrades[i], gotTrades[i])
		}
	}

	wantBook, gotBook := want.FullBook(), got.FullBook()
	if len(wantBook.Bids) != len(gotBook.Bids) || len(wantBook.Asks) != len(gotBook.Asks) {
		t.Fatalf("book shape: %d/%d vs %d/%d",
			len(wantBook.Bids), len(wantBook.Asks), len(gotBook.Bids), len(gotBook.Asks))
	}
	for i := range wantBook.Bids {
		if wantBook.Bids[i] != gotBook.Bids[i] {
			t.Fatalf("bid level %d: %+v vs %+v", i, wantBook.Bids[i], gotBook.Bids[i])
		}
	}
	for i := range wantBook.Asks {
		if wantBook.Asks[i] != gotBook.Asks[i] {
			t.Fatalf("ask level %d: %+v vs %+v", i, wantBook.Asks[i], gotBook.Asks[i])
		}
	}

	wid, wtid, wts := want.Book().Counters()
	gid, gtid, gts := got.Book().Counters()
	if wid != gid || wtid != gtid || wts != gts {
		t.Fatalf("counters: (%d,%d,%d) vs (%d,%d,%d)", wid, wtid, wts, gid, gtid, gts)
	}

	if want.PendingStopCount() != got.PendingStopCount() {
		t.Fatalf("pending stops: %d vs %d", want.PendingStopCount(), got.PendingStopCount())
	}
}

func TestReplayBasicFlow(t *testing.T) {
	e := New()
	e.SubmitLimit(orderbook.Sell, 10100, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10000, 50, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 9900, 200, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10000, 75, orderbook.GTC) // crosses

	assertSameState(t, e, Replay(e.Events()))
}

func TestReplayWithCancelsAndModifies(t *testing.T) {
	e := New()
	a := e.SubmitLimit(orderbook.Buy, 10000, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 9900, 100, orderbook.GTC)
	e.Cancel(a.OrderID)
	b := e.SubmitLimit(orderbook.Sell, 10200, 100, orderbook.GTC)
	e.Modify(b.OrderID, 10100, 150)

	replayed := Replay(e.Events())
	assertSameState(t, e, replayed)

	o, ok := replayed.GetOrder(a.OrderID)
	if !ok || o.Status != orderbook.StatusCancelled {
		t.Error("replayed cancel should reproduce order state")
	}
}

func TestReplayWithFOKAndMarket(t *testing.T) {
	e := New()
	e.SubmitLimit(orderbook.Sell, 10200, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10100, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10000, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10000, 250, orderbook.FOK) // rejected, consumes an id
	e.SubmitMarket(orderbook.Buy, 250)
	e.SubmitLimit(orderbook.Buy, 9900, 50, orderbook.GTC)

	assertSameState(t, e, Replay(e.Events()))
}

func TestReplayWithStopsAndTrailers(t *testing.T) {
	e := New()
	e.SubmitLimit(orderbook.Sell, 10500, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10600, 100, orderbook.GTC)
	e.SubmitStopMarket(orderbook.Buy, 10450, 100)
	e.SubmitStopLimit(orderbook.Sell, 9000, 8900, 25, orderbook.GTC)
	e.SubmitTrailingStopMarket(orderbook.Sell, 9500, 10, stop.Fixed(100))
	e.SubmitLimit(orderbook.Buy, 10500, 100, orderbook.GTC) // fires the cascade

	replayed := Replay(e.Events())
	assertSameState(t, e, replayed)

	if replayed.PendingStopCount() != 2 {
		t.Errorf("pending stops after replay = %d, want 2", replayed.PendingStopCount())
	}
	trailer, _ := replayed.GetStopOrder(5)
	if trailer.StopPrice != 10500 {
		t.Errorf("replayed trailer stop = %d, want 10500", trailer.StopPrice)
	}
}

func TestReplayScenarioMix(t *testing.T) {
	// The S1-S6 command mix, replayed end to end.
	e := New()
	e.SubmitLimit(orderbook.Sell, 10000, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10100, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10100, 100, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10100, 150, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10000, 30, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10000, 100, orderbook.IOC)
	e.SubmitLimit(orderbook.Sell, 10000, 50, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10000, 100, orderbook.FOK)
	e.SubmitLimit(orderbook.Buy, 10000, 1000, orderbook.GTC)
	e.SubmitLimit(orderbook.Buy, 10000, 1000, orderbook.GTC)
	e.SubmitLimit(orderbook.Sell, 10000, 500, orderbook.GTC)

	assertSameState(t, e, Replay(e.Events()))
}

func TestTombstoneTransparency(t *testing.T) {
	// Cancels deep in a level plus compaction must not change the trade
	// sequence later commands produce.
	run := func(compact bool) []orderbook.Trade {
		e := New()
		var ids []orderbook.OrderID
		for i := 0; i < 5; i++ {
			res := e.SubmitLimit(orderbook.Sell, 10000, 10, orderbook.GTC)
			ids = append(ids, res.OrderID)
		}
		e.Cancel(ids[1])
		e.Cancel(ids[3])
		if compact {
			e.Compact()
		}
		e.SubmitLimit(orderbook.Buy, 10000, 30, orderbook.GTC)
		return e.Trades()
	}

	plain := run(false)
	compacted := run(true)
	if len(plain) != len(compacted) {
		t.Fatalf("trade counts differ: %d vs %d", len(plain), len(compacted))
	}
	for i := range plain {
		if plain[i] != compacted[i] {
			t.Errorf("trade %d differs: %+v vs %+v", i, plain[i], compacted[i])
		}
	}
	// Live orders were 1, 3, 5 of the five; 30 lots fill exactly three.
	if len(plain) != 3 {
		t.Fatalf("trades = %d, want 3", len(plain))
	}
}

func TestClearEventsKeepsState(t *testing.T) {
	e := New()
	e.SubmitLimit(orderbook.Buy, 10000, 100, orderbook.GTC)
	if len(e.Events()) != 1 {
		t.Fatalf("events = %d, want 1", len(e.Events()))
	}

	e.ClearEvents()
	if len(e.Events()) != 0 {
		t.Error("event log should be empty")
	}
	if bid, ok := e.BestBid(); !ok || bid != 10000 {
		t.Error("state must survive ClearEvents")
	}
}

func TestApplyMatchesDirectCalls(t *testing.T) {
	direct := New()
	direct.SubmitLimit(orderbook.Sell, 10000, 100, orderbook.GTC)
	direct.SubmitLimit(orderbook.Buy, 10000, 40, orderbook.GTC)

	applied := New()
	if _, err := applied.Apply(SubmitLimitEvent(orderbook.Sell, 10000, 100, orderbook.GTC)); err != nil {
		t.Fatal(err)
	}
	res, err := applied.Apply(SubmitLimitEvent(orderbook.Buy, 10000, 40, orderbook.GTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trades) != 1 || res.Trades[0].Quantity != 40 {
		t.Errorf("apply trades = %+v", res.Trades)
	}

	assertSameState(t, direct, applied)
}

func TestApplyRejectsInvalidEvent(t *testing.T) {
	e := New()
	if _, err := e.Apply(SubmitLimitEvent(orderbook.Buy, 10000, 0, orderbook.GTC)); err == nil {
		t.Error("zero quantity event should fail")
	}
	if len(e.Events()) != 0 {
		t.Error("rejected events must not be recorded")
	}
}

func TestEventLogRecordsOnlyAcceptedCommands(t *testing.T) {
	e := New()
	e.SubmitLimit(orderbook.Buy, 10000, 100, orderbook.GTC)
	e.Cancel(999)        // fails
	e.Modify(999, 1, 10) // fails

	events := e.Events()
	if len(events) != 1 || events[0].Kind != EventSubmitLimit {
		t.Errorf("events = %+v", events)
	}
}
