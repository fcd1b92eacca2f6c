package kvsvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	// an event log list must not show up in kv listings
	require.NoError(t, client.RPush(context.Background(), "PlayerData:1", "{}").Err())

	return map[string]Store{"pebble": NewPebbleStore(db), "redis": NewRedisStore(client)}
}

func TestKVLifecycle(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "motd", "hello"))
			require.NoError(t, s.Set(ctx, "season", "3"))

			v, err := s.Get(ctx, "motd")
			require.NoError(t, err)
			assert.Equal(t, "hello", v)

			all, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"motd": "hello", "season": "3"}, all)

			require.NoError(t, s.Set(ctx, "motd", "bye"))
			v, err = s.Get(ctx, "motd")
			require.NoError(t, err)
			assert.Equal(t, "bye", v)

			require.NoError(t, s.Delete(ctx, "motd"))
			_, err = s.Get(ctx, "motd")
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.True(t, errors.Is(s.Delete(ctx, "motd"), ErrNotFound))
		})
	}
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("a:b/c"))
	assert.True(t, errors.Is(ValidateKey(""), ErrInvalidKey))
	assert.True(t, errors.Is(ValidateKey(strings.Repeat("x", 257)), ErrInvalidKey))
	assert.True(t, errors.Is(ValidateKey("a\nb"), ErrInvalidKey))
}
