// Package httpserver is the JSON REST gateway: ledger writes and reads,
// snapshots and best-score reports, the /v1/data key/value passthrough and
// player profiles. Routing uses gorilla/mux; every request gets an
// X-Request-ID that flows into log entries.
//
// Example:
//
//	s := httpserver.New(rt, logger)
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
