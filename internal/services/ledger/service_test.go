package ledgersvc

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/coinlog/internal/aggregate"
	cfgpkg "github.com/rzbill/coinlog/internal/config"
	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/request"
	"github.com/rzbill/coinlog/internal/runtime"
	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

func newTestService(t *testing.T) (*Service, *runtime.Runtime) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Profiles.Driver = ""
	cfg.Ledger.TimeZone = "UTC"
	clock := func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	rt, err := runtime.Open(context.Background(), runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfg,
		Logger:  logpkg.NewNopLogger(),
		Clock:   clock,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt, logpkg.NewNopLogger()), rt
}

func TestBalanceScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Earn(ctx, "1001", 100)
	require.NoError(t, err)
	_, err = svc.Earn(ctx, "1001", 200)
	require.NoError(t, err)
	w, err := svc.Spend(ctx, "1001", 50)
	require.NoError(t, err)
	assert.Equal(t, "transactions:1001", w.Key)
	assert.Equal(t, "01/05/2024 - 09:30:00", w.Record.RawTimestamp)

	b, err := svc.Balance(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, int64(250), b.Balance)
	assert.Equal(t, 3, b.Records)
	assert.Equal(t, 0, b.Skipped)

	h, err := svc.History(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, h.Records, 3)
	var amounts []int
	for _, r := range h.Records {
		a, ok := r.TransactionAmount()
		require.True(t, ok)
		amounts = append(amounts, int(a))
		assert.Equal(t, "01/05/2024 - 09:30:00", r.RawTimestamp)
	}
	sort.Ints(amounts)
	assert.Equal(t, []int{-50, 100, 200}, amounts)
}

func TestUnknownPlayerHasZeroBalance(t *testing.T) {
	svc, _ := newTestService(t)
	b, err := svc.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Balance)
	h, err := svc.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, h.Records)
}

func TestSpendBelowZero(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Spend(ctx, "1001", 75)
	require.NoError(t, err)
	b, err := svc.Balance(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, int64(-75), b.Balance)
}

func TestValidationBeforeStorage(t *testing.T) {
	svc, rt := newTestService(t)
	ctx := context.Background()
	_, err := svc.Earn(ctx, "1001", 0)
	assert.True(t, errors.Is(err, request.ErrValidation))
	_, err = svc.Spend(ctx, "1001", -3)
	assert.True(t, errors.Is(err, request.ErrValidation))
	_, err = svc.Earn(ctx, "bad:id", 5)
	assert.True(t, errors.Is(err, eventlog.ErrInvalidKey))

	key, _ := eventlog.NewEntityKey("transactions", "1001")
	raw, err := rt.Store().ReadAll(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestMalformedRecordIsSkipped(t *testing.T) {
	svc, rt := newTestService(t)
	ctx := context.Background()
	_, err := svc.Earn(ctx, "1001", 100)
	require.NoError(t, err)
	key, _ := eventlog.NewEntityKey("transactions", "1001")
	require.NoError(t, rt.Store().Append(ctx, key, []byte("not json")))
	_, err = svc.Earn(ctx, "1001", 20)
	require.NoError(t, err)

	b, err := svc.Balance(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, int64(120), b.Balance)
	assert.Equal(t, 1, b.Skipped)

	h, err := svc.History(ctx, "1001")
	require.NoError(t, err)
	assert.Len(t, h.Records, 2)
	assert.Equal(t, 1, h.Skipped)
}

func TestOverflowSurfaces(t *testing.T) {
	svc, rt := newTestService(t)
	ctx := context.Background()
	key, _ := eventlog.NewEntityKey("transactions", "whale")
	require.NoError(t, rt.Store().Append(ctx, key, []byte(`{"transaction_amount":9223372036854775807}`)))
	require.NoError(t, rt.Store().Append(ctx, key, []byte(`{"transaction_amount":1}`)))
	_, err := svc.Balance(ctx, "whale")
	assert.True(t, errors.Is(err, aggregate.ErrOverflow))
}

func TestConcurrentWritesSumCorrectly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = svc.Earn(ctx, "1001", int64(i))
			} else {
				_, _ = svc.Spend(ctx, "1001", int64(i))
			}
		}(i)
	}
	wg.Wait()
	b, err := svc.Balance(ctx, "1001")
	require.NoError(t, err)
	// evens 2..20 sum to 110, odds 1..19 sum to 100
	assert.Equal(t, int64(10), b.Balance)
	assert.Equal(t, 20, b.Records)
}
