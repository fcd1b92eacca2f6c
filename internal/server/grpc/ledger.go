package grpcserver

import (
	"context"
	"math"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	coinlogv1 "github.com/rzbill/coinlog/api/coinlog/v1"
	"github.com/rzbill/coinlog/internal/request"
	"github.com/rzbill/coinlog/internal/runtime"
	"github.com/rzbill/coinlog/internal/server/views"
	ledgersvc "github.com/rzbill/coinlog/internal/services/ledger"
	scoresvc "github.com/rzbill/coinlog/internal/services/scores"
)

type ledgerSvc struct {
	coinlogv1.UnimplementedLedgerServiceServer
	rt     *runtime.Runtime
	ledger *ledgersvc.Service
	scores *scoresvc.Service
}

func reply(m map[string]any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

// playerID accepts a string or an integral number.
func playerID(in *structpb.Struct) (string, error) {
	v, ok := in.GetFields()["player_id"]
	if !ok {
		return "", &request.ValidationError{Field: "player_id", Reason: "is required"}
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		if k.StringValue != "" {
			return k.StringValue, nil
		}
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10), nil
		}
	}
	return "", &request.ValidationError{Field: "player_id", Reason: "must be a non-empty string or an integer"}
}

func amount(in *structpb.Struct) (int64, error) {
	v, ok := in.GetFields()["amount"]
	if !ok {
		return 0, &request.ValidationError{Field: "amount", Reason: "is required"}
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) >= 1<<63 {
		return 0, &request.ValidationError{Field: "amount", Reason: "must be an integer"}
	}
	return int64(n.NumberValue), nil
}

func (s *ledgerSvc) transaction(ctx context.Context, kind request.Kind, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := playerID(in)
	if err != nil {
		return nil, toStatus(err)
	}
	n, err := amount(in)
	if err != nil {
		return nil, toStatus(err)
	}
	tx, err := s.rt.Validator().NewTransaction(kind, id, n)
	if err != nil {
		return nil, toStatus(err)
	}
	w, err := s.ledger.Write(ctx, tx)
	return reply(views.LedgerWritten(w), err)
}

func (s *ledgerSvc) Earn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.transaction(ctx, request.Earn, in)
}

func (s *ledgerSvc) Spend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.transaction(ctx, request.Spend, in)
}

func (s *ledgerSvc) Balance(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := playerID(in)
	if err != nil {
		return nil, toStatus(err)
	}
	b, err := s.ledger.Balance(ctx, id)
	return reply(views.Balance(b), err)
}

func (s *ledgerSvc) History(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := playerID(in)
	if err != nil {
		return nil, toStatus(err)
	}
	h, err := s.ledger.History(ctx, id)
	return reply(views.History(h), err)
}

// RecordSnapshot runs the struct through the same JSON schema as HTTP bodies.
func (s *ledgerSvc) RecordSnapshot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	body, err := protojson.Marshal(in)
	if err != nil {
		return nil, toStatus(err)
	}
	snap, err := s.rt.Validator().Snapshot(body)
	if err != nil {
		return nil, toStatus(err)
	}
	w, err := s.scores.RecordSnapshot(ctx, snap)
	return reply(views.SnapshotWritten(w), err)
}

func (s *ledgerSvc) BestScore(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := playerID(in)
	if err != nil {
		return nil, toStatus(err)
	}
	b, err := s.scores.BestScore(ctx, id)
	return reply(views.Best(b), err)
}

func (s *ledgerSvc) Report(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ns := in.GetFields()["namespace"].GetStringValue()
	r, err := s.scores.Report(ctx, ns)
	return reply(views.Report(r), err)
}

// Health reports "ok" or "not_serving" without failing the call.
func (s *ledgerSvc) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.rt.CheckHealth(ctx); err != nil {
		return reply(map[string]any{"status": "not_serving", "error": err.Error()}, nil)
	}
	return reply(map[string]any{"status": "ok"}, nil)
}
