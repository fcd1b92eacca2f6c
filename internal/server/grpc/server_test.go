package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	coinlogv1 "github.com/rzbill/coinlog/api/coinlog/v1"
	cfgpkg "github.com/rzbill/coinlog/internal/config"
	"github.com/rzbill/coinlog/internal/runtime"
	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

const bufSize = 1 << 20

func dialer(s *grpc.Server) func(context.Context, string) (net.Conn, error) {
	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	return func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
}

func newClient(t *testing.T) (coinlogv1.LedgerServiceClient, context.Context) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Profiles.Driver = ""
	rt, err := runtime.Open(context.Background(), runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeAlways,
		Config:  cfg,
		Logger:  logpkg.NewNopLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	srv := New(rt, logpkg.NewNopLogger())
	t.Cleanup(srv.Close)
	d := dialer(srv.grpc)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	conn, err := grpc.DialContext(ctx, "bufnet", grpc.WithContextDialer(d), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return coinlogv1.NewLedgerServiceClient(conn), ctx
}

func msg(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestHealthOverGRPC(t *testing.T) {
	c, ctx := newClient(t)
	res, err := c.Health(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.GetFields()["status"].GetStringValue())
}

func TestLedgerOverGRPC(t *testing.T) {
	c, ctx := newClient(t)

	_, err := c.Earn(ctx, msg(t, map[string]any{"player_id": "1001", "amount": 100}))
	require.NoError(t, err)
	_, err = c.Earn(ctx, msg(t, map[string]any{"player_id": 1001, "amount": 200}))
	require.NoError(t, err)
	w, err := c.Spend(ctx, msg(t, map[string]any{"player_id": "1001", "amount": 50}))
	require.NoError(t, err)
	assert.Equal(t, "transactions:1001", w.GetFields()["key"].GetStringValue())

	b, err := c.Balance(ctx, msg(t, map[string]any{"player_id": "1001"}))
	require.NoError(t, err)
	assert.Equal(t, 250.0, b.GetFields()["balance"].GetNumberValue())

	h, err := c.History(ctx, msg(t, map[string]any{"player_id": "1001"}))
	require.NoError(t, err)
	recs := h.GetFields()["records"].GetListValue().GetValues()
	require.Len(t, recs, 3)
	assert.Equal(t, -50.0, recs[2].GetStructValue().GetFields()["transaction_amount"].GetNumberValue())
}

func TestScoresOverGRPC(t *testing.T) {
	c, ctx := newClient(t)

	for _, coins := range []float64{10, 55} {
		_, err := c.RecordSnapshot(ctx, msg(t, map[string]any{"player_id": 2002, "coins": coins}))
		require.NoError(t, err)
	}
	_, err := c.RecordSnapshot(ctx, msg(t, map[string]any{"player_id": "3003", "level": 9}))
	require.NoError(t, err)

	best, err := c.BestScore(ctx, msg(t, map[string]any{"player_id": "2002"}))
	require.NoError(t, err)
	assert.Equal(t, 55.0, best.GetFields()["best_score"].GetNumberValue())

	rep, err := c.Report(ctx, &structpb.Struct{})
	require.NoError(t, err)
	scores := rep.GetFields()["scores"].GetStructValue().GetFields()
	require.Len(t, scores, 1)
	assert.Equal(t, 55.0, scores["2002"].GetNumberValue())
	assert.Equal(t, 1.0, rep.GetFields()["omitted"].GetNumberValue())
}

func TestInvalidArgumentOverGRPC(t *testing.T) {
	c, ctx := newClient(t)

	cases := []*structpb.Struct{
		msg(t, map[string]any{"player_id": "1001"}),
		msg(t, map[string]any{"player_id": "1001", "amount": 0}),
		msg(t, map[string]any{"player_id": "1001", "amount": 1.5}),
		msg(t, map[string]any{"amount": 5}),
		msg(t, map[string]any{"player_id": "bad id!", "amount": 5}),
	}
	for _, in := range cases {
		_, err := c.Earn(ctx, in)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "request %v", in.AsMap())
	}

	_, err := c.RecordSnapshot(ctx, msg(t, map[string]any{"coins": 3}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Report(ctx, msg(t, map[string]any{"namespace": "no such ns!"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
