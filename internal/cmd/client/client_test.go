package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	coinlogv1 "github.com/rzbill/coinlog/api/coinlog/v1"
)

type ledgerStub struct {
	coinlogv1.UnimplementedLedgerServiceServer
	mu   sync.Mutex
	last map[string]map[string]any
}

func (s *ledgerStub) record(method string, in *structpb.Struct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		s.last = map[string]map[string]any{}
	}
	s.last[method] = in.AsMap()
}

func (s *ledgerStub) request(method string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[method]
}

func (s *ledgerStub) Earn(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.record("Earn", in)
	return structpb.NewStruct(map[string]any{"key": "transactions:1001"})
}

func (s *ledgerStub) Spend(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.record("Spend", in)
	return nil, status.Error(codes.InvalidArgument, "invalid request: amount: must be between 1 and 10")
}

func (s *ledgerStub) Balance(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.record("Balance", in)
	return structpb.NewStruct(map[string]any{"player_id": in.GetFields()["player_id"].GetStringValue(), "balance": 250})
}

func (s *ledgerStub) RecordSnapshot(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.record("RecordSnapshot", in)
	return structpb.NewStruct(map[string]any{"key": "PlayerData:2002"})
}

func (s *ledgerStub) Report(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.record("Report", in)
	return structpb.NewStruct(map[string]any{"scores": map[string]any{"2002": 55}})
}

func startGRPCStub(t *testing.T, svc coinlogv1.LedgerServiceServer) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := grpc.NewServer()
	coinlogv1.RegisterLedgerServiceServer(gs, svc)
	go func() { _ = gs.Serve(l) }()
	t.Cleanup(gs.Stop)
	return l.Addr().String()
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := NewRoot()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	return out, nil
}

func TestPlayerEarnSendsAmount(t *testing.T) {
	stub := &ledgerStub{}
	t.Setenv("COINLOG_GRPC", startGRPCStub(t, stub))

	out, err := run(t, "player", "earn", "1001", "100")
	require.NoError(t, err)
	assert.Equal(t, "transactions:1001", out["key"])
	assert.Equal(t, map[string]any{"player_id": "1001", "amount": 100.0}, stub.request("Earn"))
}

func TestPlayerEarnRejectsNonIntegerAmount(t *testing.T) {
	stub := &ledgerStub{}
	t.Setenv("COINLOG_GRPC", startGRPCStub(t, stub))

	_, err := run(t, "player", "earn", "1001", "1.5")
	require.Error(t, err)
	assert.Nil(t, stub.request("Earn"))
}

func TestPlayerSpendSurfacesServerError(t *testing.T) {
	t.Setenv("COINLOG_GRPC", startGRPCStub(t, &ledgerStub{}))

	_, err := run(t, "player", "spend", "1001", "500")
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPlayerBalance(t *testing.T) {
	t.Setenv("COINLOG_GRPC", startGRPCStub(t, &ledgerStub{}))

	out, err := run(t, "player", "balance", "1001")
	require.NoError(t, err)
	assert.Equal(t, 250.0, out["balance"])
	assert.Equal(t, "1001", out["player_id"])
}

func TestPlayerSnapshotMergesPlayerID(t *testing.T) {
	stub := &ledgerStub{}
	t.Setenv("COINLOG_GRPC", startGRPCStub(t, stub))

	_, err := run(t, "player", "snapshot", "2002", "--data", `{"coins":55,"level":4}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"player_id": "2002", "coins": 55.0, "level": 4.0}, stub.request("RecordSnapshot"))

	_, err = run(t, "player", "snapshot", "2002", "--data", `[1]`)
	require.Error(t, err)
}

func TestScoresReport(t *testing.T) {
	stub := &ledgerStub{}
	t.Setenv("COINLOG_GRPC", startGRPCStub(t, stub))

	out, err := run(t, "scores", "report", "--namespace", "PlayerData")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"2002": 55.0}, out["scores"])
	assert.Equal(t, map[string]any{"namespace": "PlayerData"}, stub.request("Report"))
}
