package orderbook

import "testing"

func TestSideOpposite(t *testing.T) {
	if Buy.Opposite() != Sell || Sell.Opposite() != Buy {
		t.Error("opposite sides are wrong")
	}
	if Buy.Opposite().Opposite() != Buy {
		t.Error("opposite should be an involution")
	}
}

func TestTimeInForceDefaults(t *testing.T) {
	var tif TimeInForce
	if tif != GTC {
		t.Error("zero value should be GTC")
	}
}

func TestTimeInForceCanRest(t *testing.T) {
	if !GTC.CanRest() {
		t.Error("GTC should rest")
	}
	if IOC.CanRest() || FOK.CanRest() {
		t.Error("IOC and FOK should never rest")
	}
}

func TestTimeInForceAllowsPartial(t *testing.T) {
	if !GTC.AllowsPartial() || !IOC.AllowsPartial() {
		t.Error("GTC and IOC should allow partials")
	}
	if FOK.AllowsPartial() {
		t.Error("FOK should not allow partials")
	}
}

func TestOrderStatusLifecycle(t *testing.T) {
	for _, s := range []OrderStatus{StatusNew, StatusPartiallyFilled} {
		if !s.IsActive() || s.IsTerminal() {
			t.Errorf("%s should be active", s)
		}
	}
	for _, s := range []OrderStatus{StatusFilled, StatusCancelled} {
		if s.IsActive() || !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestPriceDisplay(t *testing.T) {
	cases := []struct {
		price Price
		want  string
	}{
		{10050, "$100.50"},
		{100, "$1.00"},
		{5, "$0.05"},
		{-250, "-$2.50"},
	}
	for _, c := range cases {
		if got := c.price.String(); got != c.want {
			t.Errorf("Price(%d).String() = %q, want %q", int64(c.price), got, c.want)
		}
	}
}

func TestIDDisplay(t *testing.T) {
	if OrderID(42).String() != "O42" {
		t.Error("order id display")
	}
	if TradeID(7).String() != "T7" {
		t.Error("trade id display")
	}
}
