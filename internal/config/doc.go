// Package config provides loading and environment overlay for coinlog
// configuration. It exposes a Default() baseline, file loading (JSON or
// YAML) and a COINLOG_* environment overlay.
//
// Example:
//
//	cfg, err := config.Load("/etc/coinlog.yaml")
//	if err != nil { /* handle */ }
//	if err := config.FromEnv(&cfg); err != nil { /* handle */ }
//	if err := cfg.Validate(); err != nil { /* handle */ }
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: config.DefaultDataDir(), Config: cfg})
//	defer rt.Close()
//
// Environment variables mirror the nested structure, e.g.
// COINLOG_LEDGER_NAMESPACE, COINLOG_SCORES_FIELD, COINLOG_STORAGE_BACKEND,
// COINLOG_STORAGE_REDIS_ADDR, COINLOG_CHANGEFEED_BROKERS (comma separated).
package config
