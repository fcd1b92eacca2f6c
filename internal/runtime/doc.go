// Package runtime wires storage, config and shared components into a
// single coinlog instance. It owns every client (Pebble, Redis, SQL, Kafka,
// meter provider) and exposes Open/Close and a health check.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	// Health
//	_ = rt.CheckHealth(ctx)
//	// Services share the runtime's store and codec
//	ledger := ledgersvc.New(rt, logger)
//	_, _ = ledger.Earn(ctx, "1001", 100)
package runtime
