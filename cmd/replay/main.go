// Command replay rebuilds an engine from a saved event log and reports the
// resulting market state. With a store directory configured it also archives
// the log into the Pebble event store.
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"matchbook/engine"
	"matchbook/eventlog"
	"matchbook/infra/config"
	"matchbook/infra/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	eventsPath := flag.String("events", "", "event log file (overrides config)")
	storeDir := flag.String("store", "", "archive events into this Pebble store (overrides config)")
	flag.Parse()

	// Environment overrides may come from a local .env file.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			zap.NewExample().Fatal("load config", zap.Error(err))
		}
		cfg = loaded
	}
	if *eventsPath != "" {
		cfg.EventLog.Path = *eventsPath
	}
	if *storeDir != "" {
		cfg.Store.Dir = *storeDir
	}

	log := logging.New(cfg)
	defer log.Sync()

	events, err := eventlog.LoadEvents(cfg.EventLog.Path)
	if err != nil {
		log.Fatal("load event log", zap.String("path", cfg.EventLog.Path), zap.Error(err))
	}

	eng := engine.Replay(events)

	book := eng.Depth(cfg.Replay.Depth)
	fields := []zap.Field{
		zap.Int("events", len(events)),
		zap.Int("trades", len(eng.Trades())),
		zap.Int("pending_stops", eng.PendingStopCount()),
	}
	if bid, ok := eng.BestBid(); ok {
		fields = append(fields, zap.Int64("best_bid", int64(bid)))
	}
	if ask, ok := eng.BestAsk(); ok {
		fields = append(fields, zap.Int64("best_ask", int64(ask)))
	}
	if last, ok := eng.LastTradePrice(); ok {
		fields = append(fields, zap.Int64("last_trade", int64(last)))
	}
	log.Info("replay complete", fields...)

	for _, lvl := range book.Bids {
		log.Info("bid", zap.Int64("price", int64(lvl.Price)), zap.Uint64("qty", uint64(lvl.Quantity)), zap.Int("orders", lvl.OrderCount))
	}
	for _, lvl := range book.Asks {
		log.Info("ask", zap.Int64("price", int64(lvl.Price)), zap.Uint64("qty", uint64(lvl.Quantity)), zap.Int("orders", lvl.OrderCount))
	}

	if cfg.Store.Dir != "" {
		store, err := eventlog.OpenStore(cfg.Store.Dir)
		if err != nil {
			log.Fatal("open store", zap.Error(err))
		}
		defer store.Close()
		if err := store.AppendAll(events); err != nil {
			log.Fatal("archive events", zap.Error(err))
		}
		log.Info("events archived", zap.String("dir", cfg.Store.Dir), zap.Int("count", len(events)))
	}
}
