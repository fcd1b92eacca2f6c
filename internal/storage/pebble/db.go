package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// FsyncMode selects when appended records reach stable storage.
type FsyncMode int

const (
	// FsyncModeUnspecified behaves like FsyncModeInterval with the default window.
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways syncs the WAL on every commit; an acknowledged append
	// survives a crash.
	FsyncModeAlways
	// FsyncModeInterval lets Pebble coalesce WAL syncs within FsyncInterval.
	FsyncModeInterval
	// FsyncModeNever leaves syncing to Pebble. Recent appends can be lost on
	// power failure.
	FsyncModeNever
)

const defaultFsyncInterval = 5 * time.Millisecond

// ParseFsyncMode accepts "always", "interval" or "never".
func ParseFsyncMode(s string) (FsyncMode, error) {
	switch s {
	case "always":
		return FsyncModeAlways, nil
	case "interval":
		return FsyncModeInterval, nil
	case "never":
		return FsyncModeNever, nil
	}
	return FsyncModeUnspecified, fmt.Errorf("pebble: unknown fsync mode %q (want always|interval|never)", s)
}

func (m FsyncMode) String() string {
	switch m {
	case FsyncModeAlways:
		return "always"
	case FsyncModeInterval:
		return "interval"
	case FsyncModeNever:
		return "never"
	}
	return "unspecified"
}

// configure applies the WAL policy to po and reports whether commits must
// request a sync.
func (m FsyncMode) configure(po *pebble.Options, interval time.Duration) (syncWrites bool) {
	switch m {
	case FsyncModeAlways:
		return true
	case FsyncModeNever:
		return false
	case FsyncModeInterval:
		if interval <= 0 {
			interval = defaultFsyncInterval
		}
	default:
		interval = defaultFsyncInterval
	}
	po.WALMinSyncInterval = func() time.Duration { return interval }
	return false
}

// Options configures the Pebble store wrapper.
type Options struct {
	// DataDir is the path to the Pebble database directory.
	DataDir string
	// Fsync determines when to sync the WAL.
	Fsync FsyncMode
	// FsyncInterval controls group-commit when Fsync=FsyncModeInterval.
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning of Pebble. If nil, sensible defaults are used.
	PebbleOptions *pebble.Options
	// Metrics allows observing read/write/commit latencies and sizes. Optional.
	Metrics MetricsHook
}

// MetricsHook receives storage observations; telemetry.Provider implements it.
type MetricsHook interface {
	ObserveWrite(elapsed time.Duration, bytes int)
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveWrite(time.Duration, int)            {}
func (NoopMetrics) ObserveRead(time.Duration, int)             {}
func (NoopMetrics) ObserveBatchCommit(time.Duration, int, int) {}

// DB wraps a Pebble database with an fsync policy, prefix scans and metrics.
type DB struct {
	inner     *pebble.DB
	writeSync bool
	metrics   MetricsHook
}

// Open creates or opens the database at opts.DataDir.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebble: Options.DataDir is required")
	}
	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	syncWrites := opts.Fsync.configure(po, opts.FsyncInterval)
	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, err
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &DB{inner: inner, writeSync: syncWrites, metrics: metrics}, nil
}

// Close closes the Pebble database.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	return db.inner.Close()
}

// NewBatch creates a new batch for atomic multi-key updates.
func (db *DB) NewBatch() *pebble.Batch {
	return db.inner.NewBatch()
}

// CommitBatch commits the provided batch with the configured fsync policy.
func (db *DB) CommitBatch(ctx context.Context, b *pebble.Batch) error {
	if b == nil {
		return errors.New("pebble: nil batch")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	size := b.Len()
	ops := int(b.Count())

	syncMode := pebble.NoSync
	if db.writeSync {
		syncMode = pebble.Sync
	}
	err := b.Commit(syncMode)
	db.metrics.ObserveBatchCommit(time.Since(start), ops, size)
	return err
}

// Set sets a key to a value using a small internal batch respecting fsync policy.
func (db *DB) Set(key, value []byte) error {
	start := time.Now()
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.Set(key, value, nil); err != nil {
		return err
	}
	if err := db.CommitBatch(context.Background(), b); err != nil {
		return err
	}
	db.metrics.ObserveWrite(time.Since(start), len(key)+len(value))
	return nil
}

// Delete removes a key using a small internal batch respecting fsync policy.
func (db *DB) Delete(key []byte) error {
	b := db.inner.NewBatch()
	defer b.Close()
	if err := b.Delete(key, nil); err != nil {
		return err
	}
	return db.CommitBatch(context.Background(), b)
}

// Get copies the value for the given key.
func (db *DB) Get(key []byte) ([]byte, error) {
	start := time.Now()
	val, closer, err := db.inner.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// ScanPrefix calls fn for every key under prefix in ascending order. The key
// and value slices are only valid for the duration of the call. Returning
// false from fn stops the scan.
func (db *DB) ScanPrefix(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	start := time.Now()
	it, err := db.inner.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: PrefixUpperBound(prefix)})
	if err != nil {
		return err
	}
	defer it.Close()
	var keys, n int
	for ok := it.First(); ok; ok = it.Next() {
		if keys%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		keys++
		v := it.Value()
		n += len(v)
		if !fn(it.Key(), v) {
			break
		}
	}
	db.metrics.ObserveRead(time.Since(start), n)
	return it.Error()
}

// Ping performs a cheap read to verify the store is usable.
func (db *DB) Ping() error {
	if db == nil || db.inner == nil {
		return errors.New("pebble: closed")
	}
	_, closer, err := db.inner.Get([]byte("\x00ping"))
	if err == nil {
		closer.Close()
		return nil
	}
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	return err
}

// PrefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil when no such key exists (all 0xff).
func PrefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// IsNotFound reports whether err is Pebble's not-found error.
func IsNotFound(err error) bool { return errors.Is(err, pebble.ErrNotFound) }
