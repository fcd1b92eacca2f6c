package eventlog

import (
	"bytes"
	"errors"
	"testing"
)

func TestEntityKeyString(t *testing.T) {
	k, err := NewEntityKey("PlayerData", "alice")
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	if k.String() != "PlayerData:alice" {
		t.Fatalf("unexpected canonical key %q", k.String())
	}
	back, err := ParseEntityKey(k.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back != k {
		t.Fatalf("parse mismatch: %+v vs %+v", back, k)
	}
}

func TestEntityKeyRejects(t *testing.T) {
	tests := []struct{ ns, id string }{
		{"", "alice"},
		{"transactions", ""},
		{"trans:actions", "alice"},
		{"transactions", "al:ice"},
		{"transactions", "al/ice"},
		{"transactions", "al*ice"},
		{"transactions", "al?ice"},
		{"transactions", "[alice]"},
		{"trans/actions", "alice"},
	}
	for _, tt := range tests {
		if _, err := NewEntityKey(tt.ns, tt.id); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("NewEntityKey(%q, %q): want ErrInvalidKey, got %v", tt.ns, tt.id, err)
		}
	}
	if _, err := ParseEntityKey("nocolon"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected parse failure")
	}
}

func TestKeyOrderingEntries(t *testing.T) {
	k := EntityKey{Namespace: "transactions", ID: "alice"}
	a := KeyLogEntry(k, 10)
	b := KeyLogEntry(k, 11)
	c := KeyLogEntry(k, 256)
	if !bytes.HasPrefix(a, KeyLogEntryPrefix(k)) {
		t.Fatalf("entry key should share the entity prefix")
	}
	if bytes.Compare(a, b) >= 0 || bytes.Compare(b, c) >= 0 {
		t.Fatalf("expected seq 10 < 11 < 256")
	}
	if bytes.HasPrefix(KeyLogMeta(k), KeyLogEntryPrefix(k)) {
		t.Fatalf("meta key must not fall inside the entry range")
	}
}

func TestIndexKeyNamespaces(t *testing.T) {
	a := KeyIndex(EntityKey{Namespace: "tx", ID: "alice"})
	b := KeyIndex(EntityKey{Namespace: "tx2", ID: "alice"})
	if !bytes.HasPrefix(a, KeyIndexPrefix("tx")) {
		t.Fatalf("index key should fall under its namespace prefix")
	}
	if bytes.HasPrefix(b, KeyIndexPrefix("tx")) {
		t.Fatalf("namespace prefix must not match a longer namespace")
	}
}
