package serverrun

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cfgpkg "github.com/rzbill/coinlog/internal/config"
	"github.com/rzbill/coinlog/internal/runtime"
	grpcserver "github.com/rzbill/coinlog/internal/server/grpc"
	httpserver "github.com/rzbill/coinlog/internal/server/http"
	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing
var getenv = os.Getenv

type Options struct {
	// ConfigPath is a JSON or YAML config file; empty uses defaults.
	ConfigPath string
	// Config, when set, is used as-is instead of loading ConfigPath.
	Config        *cfgpkg.Config
	DataDir       string
	GRPCAddr      string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	// Logger defaults to one built from COINLOG_LOG_LEVEL and COINLOG_LOG_FORMAT.
	Logger logpkg.Logger
}

// loadConfig resolves file config and then the COINLOG_* environment overlay.
func loadConfig(opts Options) (cfgpkg.Config, error) {
	if opts.Config != nil {
		return *opts.Config, nil
	}
	cfg, err := cfgpkg.Load(opts.ConfigPath)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	if err := cfgpkg.FromEnv(&cfg); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, nil
}

func processLogger() logpkg.Logger {
	cfg := &logpkg.Config{
		Level:  getenvDefault("COINLOG_LOG_LEVEL", "info"),
		Format: getenvDefault("COINLOG_LOG_FORMAT", "text"),
		File:   getenv("COINLOG_LOG_FILE"),
	}
	logger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		logger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	return logger
}

// Run starts gRPC and HTTP servers and blocks until ctx is cancelled or a
// listener fails.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = processLogger()
		// Pebble logs through the standard library logger.
		logpkg.RedirectStdLog(logger)
	}

	rt, err := runtime.Open(sctx, runtime.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        cfg,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("starting coinlog server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("backend", cfg.Storage.Backend),
		logpkg.Str("ledger_ns", cfg.Ledger.Namespace),
		logpkg.Str("scores_ns", cfg.Scores.Namespace),
	)

	gsrv := grpcserver.New(rt, logger)
	hsrv := httpserver.New(rt, logger)

	// Either listener failing stops the whole process.
	runCtx, cancel := context.WithCancel(sctx)
	defer cancel()
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	serve := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error(name+" server failed", logpkg.Err(err))
			errs <- err
			cancel()
		}
	}
	wg.Add(2)
	go serve("grpc", func(c context.Context) error { return gsrv.ListenAndServe(c, opts.GRPCAddr) })
	go serve("http", func(c context.Context) error { return hsrv.ListenAndServe(c, opts.HTTPAddr) })

	<-runCtx.Done()
	// Stop servers before the runtime closes the stores.
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	close(errs)

	var joined error
	for err := range errs {
		joined = errors.Join(joined, err)
	}
	if joined == nil {
		logger.Info("coinlog server stopped")
	}
	return joined
}
