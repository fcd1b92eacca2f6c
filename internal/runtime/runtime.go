package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rzbill/coinlog/internal/changefeed"
	"github.com/rzbill/coinlog/internal/codec"
	cfgpkg "github.com/rzbill/coinlog/internal/config"
	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/namespace"
	"github.com/rzbill/coinlog/internal/request"
	"github.com/rzbill/coinlog/internal/scoring"
	kvsvc "github.com/rzbill/coinlog/internal/services/kv"
	profilesvc "github.com/rzbill/coinlog/internal/services/profiles"
	pebblestore "github.com/rzbill/coinlog/internal/storage/pebble"
	"github.com/rzbill/coinlog/internal/telemetry"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	// FsyncInterval is the group-commit window for FsyncModeInterval.
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	Logger        logpkg.Logger
	// RedisClient replaces the client built from Config.Storage (tests).
	RedisClient redis.UniversalClient
	// MetricReader is attached to the meter provider (tests).
	MetricReader sdkmetric.Reader
	// Clock overrides the record timestamp clock (tests).
	Clock func() time.Time
}

// Runtime owns every client of a coinlog process and the components built
// on them. Nothing is held in package state.
type Runtime struct {
	config cfgpkg.Config
	logger logpkg.Logger

	db        *pebblestore.DB
	redis     redis.UniversalClient
	ownsRedis bool
	sqlDB     *sql.DB
	feed      *changefeed.Publisher
	telemetry *telemetry.Provider

	store     eventlog.Store
	kv        kvsvc.Store
	profiles  *profilesvc.Store
	codec     *codec.Codec
	validator *request.Validator
	scorer    scoring.Extractor
	policy    *namespace.Policy
}

// Open initializes the configured backends and returns a Runtime. On error
// everything opened so far is closed.
func Open(ctx context.Context, opts Options) (rt *Runtime, err error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	rt = &Runtime{config: cfg, logger: logger.WithComponent("runtime")}
	defer func() {
		if err != nil {
			_ = rt.Close()
			rt = nil
		}
	}()

	if rt.policy, err = namespace.NewPolicy(cfg.NamespaceNameRegex, cfg.AllowedNamespaces); err != nil {
		return nil, err
	}
	for _, ns := range []string{cfg.Ledger.Namespace, cfg.Scores.Namespace} {
		if err = rt.policy.Validate(ns); err != nil {
			return nil, err
		}
		if _, err = eventlog.NewEntityKey(ns, "probe"); err != nil {
			return nil, fmt.Errorf("namespace %q cannot form entity keys: %w", ns, err)
		}
	}

	loc := time.Local
	if cfg.Ledger.TimeZone != "" && cfg.Ledger.TimeZone != "Local" {
		if loc, err = time.LoadLocation(cfg.Ledger.TimeZone); err != nil {
			return nil, fmt.Errorf("ledger.timeZone: %w", err)
		}
	}
	codecOpts := []codec.Option{codec.WithLocation(loc)}
	if opts.Clock != nil {
		codecOpts = append(codecOpts, codec.WithClock(opts.Clock))
	}
	rt.codec = codec.New(codecOpts...)

	if rt.validator, err = request.NewValidator(cfg.Ledger.MaxAmount); err != nil {
		return nil, err
	}
	if rt.scorer, err = scoring.New(cfg.Scores.Field, cfg.Scores.Expression); err != nil {
		return nil, err
	}

	if rt.telemetry, err = telemetry.New(ctx, telemetry.Options{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Insecure:     true,
		Reader:       opts.MetricReader,
	}); err != nil {
		return nil, err
	}

	var base eventlog.Store
	switch cfg.Storage.Backend {
	case cfgpkg.BackendRedis:
		rt.redis = opts.RedisClient
		if rt.redis == nil {
			rt.redis = redis.NewClient(&redis.Options{
				Addr:     cfg.Storage.RedisAddr,
				Password: cfg.Storage.RedisPassword,
				DB:       cfg.Storage.RedisDB,
			})
			rt.ownsRedis = true
		}
		if err = rt.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w: %w", eventlog.ErrStorageUnavailable, err)
		}
		base = eventlog.NewRedisStore(rt.redis)
		rt.kv = kvsvc.NewRedisStore(rt.redis)
	default:
		if rt.db, err = pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: opts.Fsync, FsyncInterval: opts.FsyncInterval, Metrics: rt.telemetry}); err != nil {
			return nil, err
		}
		if _, err = namespace.EnsureNamespace(rt.db, cfg.Ledger.Namespace, namespace.KindLedger); err != nil {
			return nil, err
		}
		if _, err = namespace.EnsureNamespace(rt.db, cfg.Scores.Namespace, namespace.KindSnapshots); err != nil {
			return nil, err
		}
		base = eventlog.NewPebbleStore(rt.db)
		rt.kv = kvsvc.NewPebbleStore(rt.db)
	}

	hooks := []eventlog.AppendHook{rt.telemetry}
	if len(cfg.Changefeed.Brokers) > 0 {
		rt.feed = changefeed.NewPublisher(cfg.Changefeed.Brokers, cfg.Changefeed.Topic)
		hooks = append(hooks, rt.feed)
	}
	rt.store = eventlog.WithHooks(base, logger, hooks...)

	if cfg.Profiles.Driver != "" {
		driver, dsn := cfg.Profiles.Driver, cfg.Profiles.DSN
		if driver == "sqlite" && dsn == "" {
			dsn = filepath.Join(opts.DataDir, "profiles.db")
		}
		if rt.sqlDB, err = sql.Open(driver, dsn); err != nil {
			return nil, fmt.Errorf("open profiles db: %w", err)
		}
		if rt.profiles, err = profilesvc.NewStore(ctx, rt.sqlDB, driver); err != nil {
			return nil, err
		}
	}

	rt.logger.Info("runtime opened",
		logpkg.Str("backend", cfg.Storage.Backend),
		logpkg.Str("ledger_ns", cfg.Ledger.Namespace),
		logpkg.Str("scores_ns", cfg.Scores.Namespace),
		logpkg.Bool("profiles", rt.profiles != nil),
		logpkg.Bool("changefeed", rt.feed != nil),
	)
	return rt, nil
}

// Close closes underlying resources in reverse order of opening.
func (r *Runtime) Close() error {
	var errs []error
	if r.sqlDB != nil {
		errs = append(errs, r.sqlDB.Close())
	}
	if r.feed != nil {
		errs = append(errs, r.feed.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
	}
	if r.redis != nil && r.ownsRedis {
		errs = append(errs, r.redis.Close())
	}
	if r.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, r.telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// CheckHealth pings every backend the runtime owns.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db != nil {
		if err := r.db.Ping(); err != nil {
			return fmt.Errorf("pebble: %w: %w", eventlog.ErrStorageUnavailable, err)
		}
	}
	if r.redis != nil {
		if err := r.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w: %w", eventlog.ErrStorageUnavailable, err)
		}
	}
	if r.profiles != nil {
		if err := r.profiles.Ping(ctx); err != nil {
			return fmt.Errorf("profiles: %w: %w", eventlog.ErrStorageUnavailable, err)
		}
	}
	if r.db == nil && r.redis == nil {
		return errors.New("no storage open")
	}
	return nil
}

// Store is the hooked event log.
func (r *Runtime) Store() eventlog.Store { return r.store }

// KV is the key/value passthrough store.
func (r *Runtime) KV() kvsvc.Store { return r.kv }

// Profiles is nil when profiles are disabled.
func (r *Runtime) Profiles() *profilesvc.Store { return r.profiles }

func (r *Runtime) Codec() *codec.Codec                { return r.codec }
func (r *Runtime) Validator() *request.Validator      { return r.validator }
func (r *Runtime) Scorer() scoring.Extractor          { return r.scorer }
func (r *Runtime) Telemetry() *telemetry.Provider     { return r.telemetry }
func (r *Runtime) NamespacePolicy() *namespace.Policy { return r.policy }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
