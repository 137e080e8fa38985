// Package eventlog serialises the engine's event log: a line-delimited
// textual record format (the reference format), a protowire binary record
// framing with CRC-32 checksums, plain file save/load, and a Pebble-backed
// archive store. Every codec preserves (tag, fields) and total ordering, so
// a round trip replays to identical engine state.
package eventlog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"matchbook/domain/orderbook"
	"matchbook/domain/stop"
	"matchbook/engine"
)

// ErrCorruptRecord reports a record that failed parsing or checksum
// validation.
var ErrCorruptRecord = errors.New("eventlog: corrupt record")

const fieldSep = "|"

// none marks an absent optional field in the line format.
const none = "-"

// EncodeLine renders one event as a single line: the command tag followed by
// its parameters, pipe-separated.
func EncodeLine(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventSubmitLimit:
		return join("limit", sideField(ev.Side), priceField(ev.Price), qtyField(ev.Quantity), ev.TIF.String())
	case engine.EventSubmitMarket:
		return join("market", sideField(ev.Side), qtyField(ev.Quantity))
	case engine.EventSubmitStopMarket:
		return join("stop_market", sideField(ev.Side), priceField(ev.StopPrice), qtyField(ev.Quantity))
	case engine.EventSubmitStopLimit:
		return join("stop_limit", sideField(ev.Side), priceField(ev.StopPrice), priceField(ev.LimitPrice), qtyField(ev.Quantity), ev.TIF.String())
	case engine.EventSubmitTrailingStop:
		limit := none
		if ev.HasLimit {
			limit = priceField(ev.LimitPrice)
		}
		tif := none
		if ev.HasTIF {
			tif = ev.TIF.String()
		}
		return join("trailing_stop", sideField(ev.Side), priceField(ev.StopPrice), limit, qtyField(ev.Quantity), trailField(ev.Trail), tif)
	case engine.EventCancel:
		return join("cancel", strconv.FormatUint(uint64(ev.OrderID), 10))
	default:
		return join("modify", strconv.FormatUint(uint64(ev.OrderID), 10), priceField(ev.NewPrice), qtyField(ev.NewQuantity))
	}
}

// DecodeLine parses one line back into an event.
func DecodeLine(line string) (engine.Event, error) {
	parts := strings.Split(strings.TrimSpace(line), fieldSep)
	if len(parts) == 0 || parts[0] == "" {
		return engine.Event{}, ErrCorruptRecord
	}

	switch parts[0] {
	case "limit":
		if len(parts) != 5 {
			return engine.Event{}, badRecord("limit", line)
		}
		side, err1 := parseSide(parts[1])
		price, err2 := parsePrice(parts[2])
		qty, err3 := parseQty(parts[3])
		tif, err4 := parseTIF(parts[4])
		if err := firstErr(err1, err2, err3, err4); err != nil {
			return engine.Event{}, err
		}
		return engine.SubmitLimitEvent(side, price, qty, tif), nil

	case "market":
		if len(parts) != 3 {
			return engine.Event{}, badRecord("market", line)
		}
		side, err1 := parseSide(parts[1])
		qty, err2 := parseQty(parts[2])
		if err := firstErr(err1, err2); err != nil {
			return engine.Event{}, err
		}
		return engine.SubmitMarketEvent(side, qty), nil

	case "stop_market":
		if len(parts) != 4 {
			return engine.Event{}, badRecord("stop_market", line)
		}
		side, err1 := parseSide(parts[1])
		stopPrice, err2 := parsePrice(parts[2])
		qty, err3 := parseQty(parts[3])
		if err := firstErr(err1, err2, err3); err != nil {
			return engine.Event{}, err
		}
		return engine.SubmitStopMarketEvent(side, stopPrice, qty), nil

	case "stop_limit":
		if len(parts) != 6 {
			return engine.Event{}, badRecord("stop_limit", line)
		}
		side, err1 := parseSide(parts[1])
		stopPrice, err2 := parsePrice(parts[2])
		limitPrice, err3 := parsePrice(parts[3])
		qty, err4 := parseQty(parts[4])
		tif, err5 := parseTIF(parts[5])
		if err := firstErr(err1, err2, err3, err4, err5); err != nil {
			return engine.Event{}, err
		}
		return engine.SubmitStopLimitEvent(side, stopPrice, limitPrice, qty, tif), nil

	case "trailing_stop":
		if len(parts) != 7 {
			return engine.Event{}, badRecord("trailing_stop", line)
		}
		side, err1 := parseSide(parts[1])
		stopPrice, err2 := parsePrice(parts[2])
		qty, err3 := parseQty(parts[4])
		trail, err4 := parseTrail(parts[5])
		if err := firstErr(err1, err2, err3, err4); err != nil {
			return engine.Event{}, err
		}
		var limitPrice orderbook.Price
		hasLimit := parts[3] != none
		if hasLimit {
			limitPrice, err1 = parsePrice(parts[3])
			if err1 != nil {
				return engine.Event{}, err1
			}
		}
		var tif orderbook.TimeInForce
		hasTIF := parts[6] != none
		if hasTIF {
			tif, err1 = parseTIF(parts[6])
			if err1 != nil {
				return engine.Event{}, err1
			}
		}
		return engine.SubmitTrailingStopEvent(side, stopPrice, limitPrice, hasLimit, qty, trail, tif, hasTIF), nil

	case "cancel":
		if len(parts) != 2 {
			return engine.Event{}, badRecord("cancel", line)
		}
		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return engine.Event{}, fmt.Errorf("%w: order id %q", ErrCorruptRecord, parts[1])
		}
		return engine.CancelEvent(orderbook.OrderID(id)), nil

	case "modify":
		if len(parts) != 4 {
			return engine.Event{}, badRecord("modify", line)
		}
		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return engine.Event{}, fmt.Errorf("%w: order id %q", ErrCorruptRecord, parts[1])
		}
		price, err2 := parsePrice(parts[2])
		qty, err3 := parseQty(parts[3])
		if err := firstErr(err2, err3); err != nil {
			return engine.Event{}, err
		}
		return engine.ModifyEvent(orderbook.OrderID(id), price, qty), nil
	}

	return engine.Event{}, fmt.Errorf("%w: unknown tag %q", ErrCorruptRecord, parts[0])
}

func join(fields ...string) string { return strings.Join(fields, fieldSep) }

func sideField(s orderbook.Side) string { return s.String() }

func priceField(p orderbook.Price) string { return strconv.FormatInt(int64(p), 10) }

func qtyField(q orderbook.Quantity) string { return strconv.FormatUint(uint64(q), 10) }

func trailField(t stop.TrailSpec) string {
	switch t.Kind {
	case stop.TrailFixed:
		return "fixed:" + strconv.FormatInt(int64(t.Offset), 10)
	case stop.TrailPercent:
		return "pct:" + t.Percent.String()
	default:
		return "atr:" + t.Multiplier.String() + ":" + strconv.Itoa(t.Period)
	}
}

func parseSide(s string) (orderbook.Side, error) {
	switch s {
	case "BUY":
		return orderbook.Buy, nil
	case "SELL":
		return orderbook.Sell, nil
	}
	return 0, fmt.Errorf("%w: side %q", ErrCorruptRecord, s)
}

func parsePrice(s string) (orderbook.Price, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrCorruptRecord, s)
	}
	return orderbook.Price(v), nil
}

func parseQty(s string) (orderbook.Quantity, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q", ErrCorruptRecord, s)
	}
	return orderbook.Quantity(v), nil
}

func parseTIF(s string) (orderbook.TimeInForce, error) {
	switch s {
	case "GTC":
		return orderbook.GTC, nil
	case "IOC":
		return orderbook.IOC, nil
	case "FOK":
		return orderbook.FOK, nil
	}
	return 0, fmt.Errorf("%w: time-in-force %q", ErrCorruptRecord, s)
}

func parseTrail(s string) (stop.TrailSpec, error) {
	parts := strings.Split(s, ":")
	switch {
	case len(parts) == 2 && parts[0] == "fixed":
		off, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return stop.TrailSpec{}, fmt.Errorf("%w: trail offset %q", ErrCorruptRecord, parts[1])
		}
		return stop.Fixed(orderbook.Price(off)), nil
	case len(parts) == 2 && parts[0] == "pct":
		p, err := decimal.NewFromString(parts[1])
		if err != nil {
			return stop.TrailSpec{}, fmt.Errorf("%w: trail percent %q", ErrCorruptRecord, parts[1])
		}
		return stop.Percentage(p), nil
	case len(parts) == 3 && parts[0] == "atr":
		mult, err := decimal.NewFromString(parts[1])
		if err != nil {
			return stop.TrailSpec{}, fmt.Errorf("%w: trail multiplier %q", ErrCorruptRecord, parts[1])
		}
		period, err := strconv.Atoi(parts[2])
		if err != nil {
			return stop.TrailSpec{}, fmt.Errorf("%w: trail period %q", ErrCorruptRecord, parts[2])
		}
		return stop.ATR(mult, period), nil
	}
	return stop.TrailSpec{}, fmt.Errorf("%w: trail method %q", ErrCorruptRecord, s)
}

func badRecord(tag, line string) error {
	return fmt.Errorf("%w: malformed %s record %q", ErrCorruptRecord, tag, line)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
