// Package serverrun exposes the Run entrypoint used by `coinlog server start`
// to load config, open the runtime and serve gRPC and HTTP until shutdown.
//
// Example:
//
//	opts := serverrun.Options{ConfigPath: "coinlog.yaml", GRPCAddr: ":50051", HTTPAddr: ":8080", Fsync: pebblestore.FsyncModeAlways}
//	_ = serverrun.Run(ctx, opts)
package serverrun
