package pebblestore

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
)

type testMetrics struct {
	wrote        int
	read         int
	batchCommits int
	batchBytes   int
}

func (m *testMetrics) ObserveWrite(d time.Duration, bytes int) { m.wrote += bytes }
func (m *testMetrics) ObserveRead(d time.Duration, bytes int)  { m.read += bytes }
func (m *testMetrics) ObserveBatchCommit(d time.Duration, numOps int, bytes int) {
	m.batchCommits++
	m.batchBytes += bytes
}

func newTestDB(t *testing.T) (*DB, *testMetrics) {
	t.Helper()
	dir := t.TempDir()
	metrics := &testMetrics{}
	db, err := Open(Options{
		DataDir:       dir,
		Fsync:         FsyncModeInterval,
		FsyncInterval: 2 * time.Millisecond,
		Metrics:       metrics,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, metrics
}

func TestCRUD(t *testing.T) {
	db, metrics := newTestDB(t)

	key := []byte("k1")
	val := []byte("v1")
	if err := db.Set(key, val); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(val) {
		t.Fatalf("got %q want %q", got, val)
	}

	if metrics.read == 0 {
		t.Fatalf("expected read metrics to record bytes")
	}

	if err := db.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get(key); err == nil {
		t.Fatalf("expected not found after delete")
	}
}

func TestBatchCommitMetrics(t *testing.T) {
	db, metrics := newTestDB(t)

	b := db.NewBatch()
	if err := b.Set([]byte("a"), []byte("1"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	if err := b.Set([]byte("b"), []byte("2"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	if err := db.CommitBatch(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()

	if metrics.batchCommits != 1 {
		t.Fatalf("want 1 batch commit, got %d", metrics.batchCommits)
	}
	if metrics.batchBytes <= 0 {
		t.Fatalf("expected positive batch bytes")
	}
}

func TestScanPrefix(t *testing.T) {
	db, _ := newTestDB(t)
	for _, k := range []string{"idx/a:1", "idx/a:2", "idx/b:1", "log/a:1"} {
		if err := db.Set([]byte(k), []byte("v")); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	var got []string
	err := db.ScanPrefix(context.Background(), []byte("idx/a:"), func(k, _ []byte) bool {
		got = append(got, string(k))
		return true
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0] != "idx/a:1" || got[1] != "idx/a:2" {
		t.Fatalf("unexpected scan result: %v", got)
	}

	// early stop
	n := 0
	_ = db.ScanPrefix(context.Background(), []byte("idx/"), func(_, _ []byte) bool {
		n++
		return false
	})
	if n != 1 {
		t.Fatalf("expected scan to stop after one key, got %d", n)
	}
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{[]byte("abc"), []byte("abd")},
		{[]byte{'a', 0xff}, []byte("b")},
		{[]byte{0xff, 0xff}, nil},
	}
	for _, tt := range tests {
		got := PrefixUpperBound(tt.in)
		if string(got) != string(tt.want) {
			t.Fatalf("PrefixUpperBound(%q) = %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestPingAndNotFound(t *testing.T) {
	db, _ := newTestDB(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := db.Get([]byte("missing")); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWriteMetrics(t *testing.T) {
	db, metrics := newTestDB(t)
	if err := db.Set([]byte("kk"), []byte("vv")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if metrics.wrote != 4 {
		t.Fatalf("want 4 written bytes, got %d", metrics.wrote)
	}
}

func TestParseFsyncMode(t *testing.T) {
	for _, want := range []FsyncMode{FsyncModeAlways, FsyncModeInterval, FsyncModeNever} {
		got, err := ParseFsyncMode(want.String())
		if err != nil || got != want {
			t.Fatalf("ParseFsyncMode(%q) = %v, %v", want.String(), got, err)
		}
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestFsyncPolicy(t *testing.T) {
	cases := []struct {
		mode     FsyncMode
		interval time.Duration
		sync     bool
		window   time.Duration
	}{
		{FsyncModeAlways, 0, true, 0},
		{FsyncModeNever, 0, false, 0},
		{FsyncModeInterval, 0, false, defaultFsyncInterval},
		{FsyncModeInterval, 20 * time.Millisecond, false, 20 * time.Millisecond},
		{FsyncModeUnspecified, time.Second, false, defaultFsyncInterval},
	}
	for _, c := range cases {
		po := &pebble.Options{}
		if got := c.mode.configure(po, c.interval); got != c.sync {
			t.Fatalf("%v: sync = %v", c.mode, got)
		}
		var window time.Duration
		if po.WALMinSyncInterval != nil {
			window = po.WALMinSyncInterval()
		}
		if window != c.window {
			t.Fatalf("%v: window = %v, want %v", c.mode, window, c.window)
		}
	}
}
