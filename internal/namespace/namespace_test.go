package namespace

import (
	"errors"
	"testing"

	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
)

func TestEnsureNamespaceIdempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m1, err := EnsureNamespace(db, "transactions", KindLedger)
	if err != nil {
		t.Fatalf("ensure1: %v", err)
	}
	m2, err := EnsureNamespace(db, "transactions", KindLedger)
	if err != nil {
		t.Fatalf("ensure2: %v", err)
	}
	if m1.Name != m2.Name || m1.CreatedAtMs != m2.CreatedAtMs {
		t.Fatalf("not idempotent: %+v vs %+v", m1, m2)
	}
	if _, err := EnsureNamespace(db, "transactions", KindSnapshots); err == nil {
		t.Fatalf("expected kind conflict")
	}
}

func TestPolicy(t *testing.T) {
	p, err := NewPolicy("[A-Za-z0-9_-]{1,64}", nil)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	for _, ok := range []string{"transactions", "PlayerData", "a-b_c"} {
		if err := p.Validate(ok); err != nil {
			t.Fatalf("%q should pass: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "a:b", "a/b", "a*"} {
		if err := p.Validate(bad); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("%q should fail with ErrInvalidName, got %v", bad, err)
		}
	}
}

func TestPolicyAllowList(t *testing.T) {
	p, err := NewPolicy("[a-z]+", []string{"ledger"})
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if err := p.Validate("ledger"); err != nil {
		t.Fatalf("allowed name rejected: %v", err)
	}
	if err := p.Validate("other"); err == nil {
		t.Fatalf("expected rejection outside allow list")
	}
	if _, err := NewPolicy("(", nil); err == nil {
		t.Fatalf("expected compile error")
	}
}
