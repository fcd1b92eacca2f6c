package grpcserver

import (
	"context"
	"net"
	"path"
	"time"

	"google.golang.org/grpc"

	coinlogv1 "github.com/rzbill/coinlog/api/coinlog/v1"
	"github.com/rzbill/coinlog/internal/runtime"
	ledgersvc "github.com/rzbill/coinlog/internal/services/ledger"
	scoresvc "github.com/rzbill/coinlog/internal/services/scores"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	grpc   *grpc.Server
	lis    net.Listener
}

// New constructs a gRPC server and registers the ledger service.
func New(rt *runtime.Runtime, logger logpkg.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	s := &Server{rt: rt, logger: logger.WithComponent("grpc")}
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.observe)}, opts...)
	s.grpc = grpc.NewServer(opts...)
	coinlogv1.RegisterLedgerServiceServer(s.grpc, &ledgerSvc{
		rt:     rt,
		ledger: ledgersvc.New(rt, logger),
		scores: scoresvc.New(rt, logger),
	})
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("grpc listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// observe records request metrics and logs failed calls.
func (s *Server) observe(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	op := path.Base(info.FullMethod)
	elapsed := time.Since(start)
	s.rt.Telemetry().RecordRequest(ctx, "grpc", op, elapsed, err)
	if err != nil {
		s.logger.Warn("grpc call failed", logpkg.Str("method", op), logpkg.Duration("elapsed_ms", elapsed), logpkg.Err(err))
	}
	return resp, err
}
