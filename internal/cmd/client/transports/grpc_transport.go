// Package transports provides pluggable transport implementations for the CLI.
package transports

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	coinlogv1 "github.com/rzbill/coinlog/api/coinlog/v1"
)

// GrpcTransport implements LedgerTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

type call func(coinlogv1.LedgerServiceClient, context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func (t *GrpcTransport) invoke(ctx context.Context, fn call, in map[string]any) (Document, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	conn, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()
	resp, err := fn(coinlogv1.NewLedgerServiceClient(conn), ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.AsMap(), nil
}

func (t *GrpcTransport) Earn(ctx context.Context, playerID string, amount int64) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.Earn, map[string]any{"player_id": playerID, "amount": amount})
}

func (t *GrpcTransport) Spend(ctx context.Context, playerID string, amount int64) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.Spend, map[string]any{"player_id": playerID, "amount": amount})
}

func (t *GrpcTransport) Balance(ctx context.Context, playerID string) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.Balance, map[string]any{"player_id": playerID})
}

func (t *GrpcTransport) History(ctx context.Context, playerID string) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.History, map[string]any{"player_id": playerID})
}

func (t *GrpcTransport) RecordSnapshot(ctx context.Context, fields map[string]any) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.RecordSnapshot, fields)
}

func (t *GrpcTransport) BestScore(ctx context.Context, playerID string) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.BestScore, map[string]any{"player_id": playerID})
}

func (t *GrpcTransport) Report(ctx context.Context, namespace string) (Document, error) {
	in := map[string]any{}
	if namespace != "" {
		in["namespace"] = namespace
	}
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.Report, in)
}

func (t *GrpcTransport) Health(ctx context.Context) (Document, error) {
	return t.invoke(ctx, coinlogv1.LedgerServiceClient.Health, map[string]any{})
}
