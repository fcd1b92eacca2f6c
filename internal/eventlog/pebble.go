package eventlog

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"sync"
	"time"

	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
)

const lockStripes = 64

// Entry is a stored record with its position and append time.
type Entry struct {
	Seq        uint64
	AppendedAt time.Time
	Record     []byte
}

// PebbleStore keeps every entity log in a single Pebble database.
type PebbleStore struct {
	db    *pebblestore.DB
	now   func() time.Time
	locks [lockStripes]sync.Mutex
}

// NewPebbleStore returns a Store over db. The DB is owned by the caller.
func NewPebbleStore(db *pebblestore.DB) *PebbleStore {
	return &PebbleStore{db: db, now: time.Now}
}

func (s *PebbleStore) lockFor(k EntityKey) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(k.String()))
	return &s.locks[h.Sum32()%lockStripes]
}

// Append writes the entry, the new last sequence and the index key in one batch.
func (s *PebbleStore) Append(ctx context.Context, key EntityKey, record []byte) error {
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	lastSeq, err := s.lastSeq(key)
	if err != nil {
		return unavailable("append", err)
	}
	seq := lastSeq + 1

	b := s.db.NewBatch()
	defer b.Close()

	val := EncodeFrame(entryHeader(s.now().UnixMilli()), record)
	if err := b.Set(KeyLogEntry(key, seq), val, nil); err != nil {
		return unavailable("append", err)
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := b.Set(KeyLogMeta(key), meta[:], nil); err != nil {
		return unavailable("append", err)
	}
	if seq == 1 {
		if err := b.Set(KeyIndex(key), nil, nil); err != nil {
			return unavailable("append", err)
		}
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return unavailable("append", err)
	}
	return nil
}

func (s *PebbleStore) lastSeq(key EntityKey) (uint64, error) {
	meta, err := s.db.Get(KeyLogMeta(key))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(meta) < 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(meta[:8]), nil
}

// ReadEntries returns every entry of the entity in sequence order. A frame
// failing its checksum yields an entry with an empty record.
func (s *PebbleStore) ReadEntries(ctx context.Context, key EntityKey) ([]Entry, error) {
	prefix := KeyLogEntryPrefix(key)
	var out []Entry
	err := s.db.ScanPrefix(ctx, prefix, func(k, v []byte) bool {
		e := Entry{}
		if len(k) == len(prefix)+8 {
			e.Seq = binary.BigEndian.Uint64(k[len(prefix):])
		}
		if f, ok := DecodeFrame(v); ok {
			e.Record = f.Payload
			if ms := appendedAtFromHeader(f.Header); ms > 0 {
				e.AppendedAt = time.UnixMilli(ms)
			}
		} else {
			e.Record = []byte{}
		}
		out = append(out, e)
		return true
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, unavailable("read", err)
	}
	return out, nil
}

func (s *PebbleStore) ReadAll(ctx context.Context, key EntityKey) ([][]byte, error) {
	entries, err := s.ReadEntries(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(entries))
	for i, e := range entries {
		out[i] = e.Record
	}
	return out, nil
}

func (s *PebbleStore) ListKeys(ctx context.Context, namespace string) ([]EntityKey, error) {
	prefix := KeyIndexPrefix(namespace)
	out := []EntityKey{}
	err := s.db.ScanPrefix(ctx, prefix, func(k, _ []byte) bool {
		ek, err := ParseEntityKey(string(k[len(idxPrefix):]))
		if err == nil {
			out = append(out, ek)
		}
		return true
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, unavailable("list", err)
	}
	return out, nil
}
