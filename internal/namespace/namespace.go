package namespace

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
)

// ErrInvalidName is returned when a namespace fails the policy.
var ErrInvalidName = errors.New("invalid namespace")

// Policy decides which namespace names are acceptable.
type Policy struct {
	re      *regexp.Regexp
	allowed map[string]struct{}
}

// NewPolicy compiles pattern (anchored) and an optional allow list. An empty
// allow list accepts any name matching the pattern.
func NewPolicy(pattern string, allowed []string) (*Policy, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("namespace pattern: %w", err)
	}
	p := &Policy{re: re}
	if len(allowed) > 0 {
		p.allowed = make(map[string]struct{}, len(allowed))
		for _, a := range allowed {
			p.allowed[a] = struct{}{}
		}
	}
	return p, nil
}

// Validate returns ErrInvalidName (wrapped) when name is rejected.
func (p *Policy) Validate(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if !p.re.MatchString(name) {
		return fmt.Errorf("%w: %q does not match %s", ErrInvalidName, name, p.re.String())
	}
	if p.allowed != nil {
		if _, ok := p.allowed[name]; !ok {
			return fmt.Errorf("%w: %q is not allowed", ErrInvalidName, name)
		}
	}
	return nil
}

// Meta holds namespace metadata.
type Meta struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

const (
	KindLedger    = "ledger"
	KindSnapshots = "snapshots"
)

var (
	nsMetaPrefix = []byte("nsmeta/")
)

// nsMetaKey builds metadata key for a namespace.
func nsMetaKey(ns string) []byte {
	k := make([]byte, 0, len(nsMetaPrefix)+len(ns))
	k = append(k, nsMetaPrefix...)
	k = append(k, ns...)
	return k
}

// EnsureNamespace creates a namespace meta record if absent, returning the effective meta.
// Idempotent: returns existing if already present.
func EnsureNamespace(db *pebblestore.DB, name, kind string) (Meta, error) {
	key := nsMetaKey(name)
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			if m.Kind != kind {
				return Meta{}, fmt.Errorf("namespace %q already holds %s records", name, m.Kind)
			}
			return m, nil
		}
		// fallthrough to rewrite if corrupted
	}
	m := Meta{Name: name, Kind: kind, CreatedAtMs: time.Now().UnixMilli()}
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, bytes); err != nil {
		return Meta{}, err
	}
	return m, nil
}
