package stop

import "github.com/shopspring/decimal"

// tickWindow is a fixed-capacity ring of the last N absolute tick-to-tick
// price changes with a running sum, so ATR updates stay O(1). Until the ring
// is full the ATR contributes nothing and the stop keeps its current price.
type tickWindow struct {
	deltas []int64
	next   int
	count  int
	sum    int64
}

func newTickWindow(period int) *tickWindow {
	return &tickWindow{deltas: make([]int64, period)}
}

func (w *tickWindow) push(delta int64) {
	if len(w.deltas) == 0 {
		return
	}
	if w.count == len(w.deltas) {
		w.sum -= w.deltas[w.next]
	} else {
		w.count++
	}
	w.deltas[w.next] = delta
	w.sum += delta
	w.next = (w.next + 1) % len(w.deltas)
}

// mean returns the window average once the window is full.
func (w *tickWindow) mean() (decimal.Decimal, bool) {
	if w.count < len(w.deltas) || w.count == 0 {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromInt(w.sum).Div(decimal.NewFromInt(int64(w.count))), true
}
