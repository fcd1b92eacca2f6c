package eventlog

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 512

// RedisStore keeps each entity log in a Redis list named by EntityKey.String().
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore returns a Store over client. The client is owned by the caller.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Append(ctx context.Context, key EntityKey, record []byte) error {
	if err := s.client.RPush(ctx, key.String(), record).Err(); err != nil {
		return unavailable("append", err)
	}
	return nil
}

func (s *RedisStore) ReadAll(ctx context.Context, key EntityKey) ([][]byte, error) {
	vals, err := s.client.LRange(ctx, key.String(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("read", err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

// ListKeys walks SCAN cursors; keys appearing more than once across
// iterations are reported once.
func (s *RedisStore) ListKeys(ctx context.Context, namespace string) ([]EntityKey, error) {
	match := escapeGlob(namespacePrefix(namespace)) + "*"
	seen := make(map[string]struct{})
	out := []EntityKey{}
	var cursor uint64
	for {
		keys, next, err := s.client.ScanType(ctx, cursor, match, scanBatch, "list").Result()
		if err != nil {
			return nil, unavailable("list", err)
		}
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			ek, err := ParseEntityKey(k)
			if err != nil || ek.Namespace != namespace {
				continue
			}
			out = append(out, ek)
		}
		if next == 0 {
			return out, nil
		}
		cursor = next
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globEscaper.Replace(s) }
