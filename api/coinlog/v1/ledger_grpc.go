package coinlogv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "coinlog.v1.LedgerService"

const (
	LedgerService_Earn_FullMethodName           = "/coinlog.v1.LedgerService/Earn"
	LedgerService_Spend_FullMethodName          = "/coinlog.v1.LedgerService/Spend"
	LedgerService_Balance_FullMethodName        = "/coinlog.v1.LedgerService/Balance"
	LedgerService_History_FullMethodName        = "/coinlog.v1.LedgerService/History"
	LedgerService_RecordSnapshot_FullMethodName = "/coinlog.v1.LedgerService/RecordSnapshot"
	LedgerService_BestScore_FullMethodName      = "/coinlog.v1.LedgerService/BestScore"
	LedgerService_Report_FullMethodName         = "/coinlog.v1.LedgerService/Report"
	LedgerService_Health_FullMethodName         = "/coinlog.v1.LedgerService/Health"
)

// LedgerServiceServer is the server API for coinlog.v1.LedgerService.
// Requests and responses are google.protobuf.Struct documents with the same
// shape as the HTTP API bodies.
type LedgerServiceServer interface {
	Earn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Spend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Balance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BestScore(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Report(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedLedgerServiceServer can be embedded for forward compatibility.
type UnimplementedLedgerServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedLedgerServiceServer) Earn(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Earn")
}
func (UnimplementedLedgerServiceServer) Spend(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Spend")
}
func (UnimplementedLedgerServiceServer) Balance(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Balance")
}
func (UnimplementedLedgerServiceServer) History(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("History")
}
func (UnimplementedLedgerServiceServer) RecordSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("RecordSnapshot")
}
func (UnimplementedLedgerServiceServer) BestScore(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("BestScore")
}
func (UnimplementedLedgerServiceServer) Report(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Report")
}
func (UnimplementedLedgerServiceServer) Health(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Health")
}

type unaryCall func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerService_ServiceDesc is the grpc.ServiceDesc for LedgerService.
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Earn", Handler: unaryHandler(LedgerService_Earn_FullMethodName, LedgerServiceServer.Earn)},
		{MethodName: "Spend", Handler: unaryHandler(LedgerService_Spend_FullMethodName, LedgerServiceServer.Spend)},
		{MethodName: "Balance", Handler: unaryHandler(LedgerService_Balance_FullMethodName, LedgerServiceServer.Balance)},
		{MethodName: "History", Handler: unaryHandler(LedgerService_History_FullMethodName, LedgerServiceServer.History)},
		{MethodName: "RecordSnapshot", Handler: unaryHandler(LedgerService_RecordSnapshot_FullMethodName, LedgerServiceServer.RecordSnapshot)},
		{MethodName: "BestScore", Handler: unaryHandler(LedgerService_BestScore_FullMethodName, LedgerServiceServer.BestScore)},
		{MethodName: "Report", Handler: unaryHandler(LedgerService_Report_FullMethodName, LedgerServiceServer.Report)},
		{MethodName: "Health", Handler: unaryHandler(LedgerService_Health_FullMethodName, LedgerServiceServer.Health)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "coinlog/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s.
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// LedgerServiceClient is the client API for coinlog.v1.LedgerService.
type LedgerServiceClient interface {
	Earn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Spend(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Balance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	History(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RecordSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	BestScore(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Report(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Health(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type ledgerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerServiceClient(cc grpc.ClientConnInterface) LedgerServiceClient {
	return &ledgerServiceClient{cc: cc}
}

func (c *ledgerServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Earn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_Earn_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) Spend(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_Spend_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) Balance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_Balance_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) History(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_History_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) RecordSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_RecordSnapshot_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) BestScore(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_BestScore_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) Report(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_Report_FullMethodName, in, opts)
}
func (c *ledgerServiceClient) Health(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LedgerService_Health_FullMethodName, in, opts)
}
