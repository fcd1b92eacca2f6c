// Package grpcserver hosts the coinlog.v1.LedgerService gRPC server and
// delegates to the ledger and scores services.
//
// Example:
//
//	rt, _ := runtime.Open(ctx, runtime.Options{DataDir: "./data", Config: config.Default()})
//	s := grpcserver.New(rt, logger)
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
