// Package eventlog implements coinlog's append-only per-entity event log.
//
// # Overview
//
// Every entity (a player in a namespace) owns an ordered sequence of opaque
// records. The Store interface offers exactly three operations: Append,
// ReadAll and ListKeys. Records are never rewritten or removed.
//
// Two backends are provided:
//
//   - PebbleStore persists logs in Pebble. Keys are lexicographically ordered
//     for efficient range scans:
//     log/{ns}:{id}/m            (last sequence)
//     log/{ns}:{id}/e/{seq_be8}  (entries)
//     idx/{ns}:{id}              (entity index)
//     Entries are framed as uvarint(headerLen) | header | payload | crc32c and
//     the entry, meta and index keys are committed in one batch.
//   - RedisStore keeps one Redis list per entity under EntityKey.String().
//
// API surface
//
//	key, _ := eventlog.NewEntityKey("transactions", "alice")
//	_ = store.Append(ctx, key, record)
//	records, _ := store.ReadAll(ctx, key)
//	keys, _ := store.ListKeys(ctx, "transactions")
//
// # Hooks
//
// WithHooks wraps a Store so that AppendHook implementations (the Kafka
// change feed, metrics) observe every successful append.
package eventlog
