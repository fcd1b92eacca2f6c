// Package pebblestore wraps the embedded Pebble database used by the default
// storage backend. Event logs, namespace metadata and the key/value
// passthrough share one DB and are kept apart by key prefix.
//
// Durability is chosen per process with FsyncMode; "always" makes every
// acknowledged append crash-safe, "interval" trades a few milliseconds of
// exposure for group commit.
//
//	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//	err = db.ScanPrefix(ctx, []byte("idx/"), func(k, v []byte) bool { return true })
package pebblestore
