package kvsvc

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/redis/go-redis/v9"

	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("kv store unavailable")
)

const maxKeyLen = 256

// Store is a flat string key/value space kept apart from the event logs.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}

// ValidateKey rejects empty, oversized or control-character keys.
func ValidateKey(key string) error {
	if key == "" || len(key) > maxKeyLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidKey, maxKeyLen)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control characters are not allowed", ErrInvalidKey)
		}
	}
	return nil
}

var pebblePrefix = []byte("kv/")

// PebbleStore keeps entries under kv/<key>.
type PebbleStore struct {
	db *pebblestore.DB
}

func NewPebbleStore(db *pebblestore.DB) *PebbleStore { return &PebbleStore{db: db} }

func pebbleKey(key string) []byte {
	k := make([]byte, 0, len(pebblePrefix)+len(key))
	k = append(k, pebblePrefix...)
	return append(k, key...)
}

func (s *PebbleStore) Set(_ context.Context, key, value string) error {
	if err := s.db.Set(pebbleKey(key), []byte(value)); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PebbleStore) Get(_ context.Context, key string) (string, error) {
	v, err := s.db.Get(pebbleKey(key))
	if pebblestore.IsNotFound(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return string(v), nil
}

func (s *PebbleStore) Delete(ctx context.Context, key string) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}
	if err := s.db.Delete(pebbleKey(key)); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PebbleStore) List(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := s.db.ScanPrefix(ctx, pebblePrefix, func(k, v []byte) bool {
		out[string(k[len(pebblePrefix):])] = string(v)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

const redisPrefix = "kv:"

// RedisStore keeps entries as plain strings under kv:<key>, apart from the
// list keys used by event logs.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore { return &RedisStore{client: client} }

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, redisPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return v, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, redisPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	iter := s.client.ScanType(ctx, 0, redisPrefix+"*", 256, "string").Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		v, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue // deleted mid-scan
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		out[k[len(redisPrefix):]] = v
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}
