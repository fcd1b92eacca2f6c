// Package log provides coinlog's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by log/slog via
// a bridge handler that feeds our formatter and outputs, so every component
// logs in the same shape regardless of whether it calls the facade or slog.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("ledger"), log.Str("ns", "transactions"))
//	l.Info("appended", log.Int64("amount", 100))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text or json
// format, optional file, redacted keys).
//
// # Interop
//
// RedirectStdLog routes the standard library logger (Pebble writes there)
// through a Logger; ToStdLogger hands a *log.Logger to libraries that want one.
package log
