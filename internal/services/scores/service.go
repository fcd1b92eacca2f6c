package scoresvc

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/rzbill/coinlog/internal/aggregate"
	"github.com/rzbill/coinlog/internal/codec"
	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/request"
	"github.com/rzbill/coinlog/internal/runtime"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

// Service stores player snapshots and computes best scores over them.
//
// Report scans every entity in a namespace. Per-entity reads are paced by a
// token bucket when scores.scanReadsPerSecond is positive.
type Service struct {
	rt        *runtime.Runtime
	logger    logpkg.Logger
	namespace string
	limiter   *rate.Limiter
}

// New returns a Service over the runtime's snapshot namespace.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	cfg := rt.Config().Scores
	var lim *rate.Limiter
	if cfg.ScanReadsPerSecond > 0 {
		burst := int(cfg.ScanReadsPerSecond)
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.ScanReadsPerSecond), burst)
	}
	return &Service{rt: rt, logger: logger.WithComponent("scores"), namespace: cfg.Namespace, limiter: lim}
}

// Written describes an appended snapshot.
type Written struct {
	Key    string
	Record codec.Record
}

// Best is one player's best score. Found=false means no snapshot held a
// valid score, which is not the same as a score of zero.
type Best struct {
	PlayerID string
	Score    float64
	Found    bool
	Records  int
	Skipped  int
	Excluded int
}

// Report maps player ids to best scores. Players without a valid score are
// omitted and counted in Omitted.
type Report struct {
	Namespace string
	Scores    map[string]float64
	Scanned   int
	Omitted   int
	Skipped   int
	Elapsed   time.Duration
}

// Namespace is the default snapshot namespace.
func (s *Service) Namespace() string { return s.namespace }

// RecordSnapshot appends a validated snapshot to the player's log.
func (s *Service) RecordSnapshot(ctx context.Context, snap request.Snapshot) (Written, error) {
	key, err := eventlog.NewEntityKey(s.namespace, snap.PlayerID)
	if err != nil {
		return Written{}, err
	}
	c := s.rt.Codec()
	rec := c.Stamp(snap.Fields)
	b, err := c.Encode(rec)
	if err != nil {
		return Written{}, err
	}
	if err := s.rt.Store().Append(ctx, key, b); err != nil {
		s.logger.Error("append failed", logpkg.Entity(key.String()), logpkg.Err(err))
		return Written{}, err
	}
	s.logger.Debug("snapshot recorded", logpkg.Entity(key.String()), logpkg.Int("fields", len(snap.Fields)))
	return Written{Key: key.String(), Record: rec}, nil
}

// BestScore reduces one player's snapshots.
func (s *Service) BestScore(ctx context.Context, playerID string) (Best, error) {
	key, err := eventlog.NewEntityKey(s.namespace, playerID)
	if err != nil {
		return Best{}, err
	}
	return s.best(ctx, key)
}

func (s *Service) best(ctx context.Context, key eventlog.EntityKey) (Best, error) {
	raw, err := s.rt.Store().ReadAll(ctx, key)
	if err != nil {
		return Best{}, err
	}
	res, err := aggregate.Reduce(s.rt.Codec(), raw, aggregate.BestScore(s.rt.Scorer()))
	if err != nil {
		return Best{}, fmt.Errorf("%s: %w", key, err)
	}
	if res.Skipped > 0 {
		s.logger.Warn("malformed records skipped", logpkg.Entity(key.String()), logpkg.Int("skipped", res.Skipped))
		s.rt.Telemetry().RecordSkipped(ctx, key.Namespace, res.Skipped)
	}
	b := Best{PlayerID: key.ID, Found: res.Found, Records: res.Records, Skipped: res.Skipped, Excluded: res.Excluded}
	if res.Found {
		b.Score = res.Value
	}
	return b, nil
}

// Report computes the best score of every player in namespace (the default
// snapshot namespace when empty). The scan is not atomic with respect to
// concurrent writers.
func (s *Service) Report(ctx context.Context, namespace string) (Report, error) {
	if namespace == "" {
		namespace = s.namespace
	}
	if err := s.rt.NamespacePolicy().Validate(namespace); err != nil {
		return Report{}, fmt.Errorf("%w: %w", eventlog.ErrInvalidKey, err)
	}
	start := time.Now()
	keys, err := s.rt.Store().ListKeys(ctx, namespace)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Namespace: namespace, Scores: make(map[string]float64, len(keys))}
	for _, k := range keys {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return Report{}, err
			}
		}
		b, err := s.best(ctx, k)
		if err != nil {
			return Report{}, err
		}
		rep.Scanned++
		rep.Skipped += b.Skipped
		if !b.Found {
			rep.Omitted++
			continue
		}
		rep.Scores[k.ID] = b.Score
	}
	rep.Elapsed = time.Since(start)
	s.rt.Telemetry().RecordReport(ctx, namespace, rep.Scanned)
	s.logger.Info("report built",
		logpkg.Str("namespace", namespace),
		logpkg.Int("scanned", rep.Scanned),
		logpkg.Int("omitted", rep.Omitted),
		logpkg.Int("skipped", rep.Skipped),
		logpkg.Duration("elapsed_ms", rep.Elapsed))
	return rep, nil
}
