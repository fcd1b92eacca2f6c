package eventlog

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
)

// EntityKey identifies one entity's log. String() is the only formatter of
// the "<namespace>:<id>" form used by every backend.
type EntityKey struct {
	Namespace string
	ID        string
}

var (
	namespaceRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
	idRe        = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,128}$`)
)

// NewEntityKey validates both parts and returns the key. Namespaces are
// further restricted by the configured namespace.Policy at startup.
func NewEntityKey(namespace, id string) (EntityKey, error) {
	if !namespaceRe.MatchString(namespace) {
		return EntityKey{}, fmt.Errorf("%w: namespace %q", ErrInvalidKey, namespace)
	}
	if !idRe.MatchString(id) {
		return EntityKey{}, fmt.Errorf("%w: id %q", ErrInvalidKey, id)
	}
	return EntityKey{Namespace: namespace, ID: id}, nil
}

// ParseEntityKey is the inverse of EntityKey.String.
func ParseEntityKey(s string) (EntityKey, error) {
	ns, id, ok := strings.Cut(s, ":")
	if !ok {
		return EntityKey{}, fmt.Errorf("%w: %q has no namespace separator", ErrInvalidKey, s)
	}
	return NewEntityKey(ns, id)
}

func (k EntityKey) String() string { return k.Namespace + ":" + k.ID }

// namespacePrefix is "<namespace>:" and prefixes every key in the namespace.
func namespacePrefix(namespace string) string { return namespace + ":" }

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - log/{ns}:{id}/m            last assigned sequence
// - log/{ns}:{id}/e/{seq_be8}  entries
// - idx/{ns}:{id}              entity index for ListKeys

var (
	logPrefix  = []byte("log/")
	idxPrefix  = []byte("idx/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyLogMeta builds the per-entity metadata key.
func KeyLogMeta(k EntityKey) []byte {
	s := k.String()
	out := make([]byte, 0, len(logPrefix)+len(s)+len(metaSuffix))
	out = append(out, logPrefix...)
	out = append(out, s...)
	out = append(out, metaSuffix...)
	return out
}

// KeyLogEntryPrefix is the range prefix for all entries of an entity.
func KeyLogEntryPrefix(k EntityKey) []byte {
	s := k.String()
	out := make([]byte, 0, len(logPrefix)+len(s)+len(entrySeg)+8)
	out = append(out, logPrefix...)
	out = append(out, s...)
	out = append(out, entrySeg...)
	return out
}

// KeyLogEntry builds the entry key with a big-endian sequence for proper ordering.
func KeyLogEntry(k EntityKey, seq uint64) []byte {
	return appendBE8(KeyLogEntryPrefix(k), seq)
}

// KeyIndex builds the entity index key.
func KeyIndex(k EntityKey) []byte {
	s := k.String()
	out := make([]byte, 0, len(idxPrefix)+len(s))
	out = append(out, idxPrefix...)
	out = append(out, s...)
	return out
}

// KeyIndexPrefix is the range prefix for every indexed entity in namespace.
func KeyIndexPrefix(namespace string) []byte {
	p := namespacePrefix(namespace)
	out := make([]byte, 0, len(idxPrefix)+len(p))
	out = append(out, idxPrefix...)
	out = append(out, p...)
	return out
}
