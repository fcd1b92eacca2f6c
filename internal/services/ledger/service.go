package ledgersvc

import (
	"context"
	"fmt"

	"github.com/rzbill/coinlog/internal/aggregate"
	"github.com/rzbill/coinlog/internal/codec"
	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/request"
	"github.com/rzbill/coinlog/internal/runtime"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

// Service records coin transactions per player and answers balance and
// history reads over the ledger namespace.
type Service struct {
	rt        *runtime.Runtime
	logger    logpkg.Logger
	namespace string
}

// New returns a Service over the runtime's ledger namespace.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return &Service{rt: rt, logger: logger.WithComponent("ledger"), namespace: rt.Config().Ledger.Namespace}
}

// Written describes an appended record.
type Written struct {
	Key    string
	Record codec.Record
}

// Balance is the sum of every recorded delta plus read accounting.
type Balance struct {
	PlayerID string
	Balance  int64
	Records  int
	Skipped  int
	Excluded int
}

// History is every decodable transaction of a player in stored order.
type History struct {
	PlayerID string
	Records  []codec.Record
	Skipped  int
}

// Namespace is the ledger namespace.
func (s *Service) Namespace() string { return s.namespace }

func (s *Service) key(playerID string) (eventlog.EntityKey, error) {
	return eventlog.NewEntityKey(s.namespace, playerID)
}

// Earn records a positive delta.
func (s *Service) Earn(ctx context.Context, playerID string, amount int64) (Written, error) {
	tx, err := s.rt.Validator().NewTransaction(request.Earn, playerID, amount)
	if err != nil {
		return Written{}, err
	}
	return s.Write(ctx, tx)
}

// Spend records a negative delta. Balances are not checked and may go negative.
func (s *Service) Spend(ctx context.Context, playerID string, amount int64) (Written, error) {
	tx, err := s.rt.Validator().NewTransaction(request.Spend, playerID, amount)
	if err != nil {
		return Written{}, err
	}
	return s.Write(ctx, tx)
}

// Write appends a validated transaction.
func (s *Service) Write(ctx context.Context, tx request.Transaction) (Written, error) {
	key, err := s.key(tx.PlayerID)
	if err != nil {
		return Written{}, err
	}
	c := s.rt.Codec()
	rec := c.Stamp(tx.Fields())
	b, err := c.Encode(rec)
	if err != nil {
		return Written{}, err
	}
	if err := s.rt.Store().Append(ctx, key, b); err != nil {
		s.logger.Error("append failed", logpkg.Entity(key.String()), logpkg.Err(err))
		return Written{}, err
	}
	s.logger.Debug("transaction recorded",
		logpkg.Entity(key.String()),
		logpkg.Str("kind", string(tx.Kind)),
		logpkg.Int64("delta", tx.Delta()))
	return Written{Key: key.String(), Record: rec}, nil
}

// Balance sums the player's ledger. Unknown players have a zero balance.
func (s *Service) Balance(ctx context.Context, playerID string) (Balance, error) {
	key, err := s.key(playerID)
	if err != nil {
		return Balance{}, err
	}
	raw, err := s.rt.Store().ReadAll(ctx, key)
	if err != nil {
		return Balance{}, err
	}
	res, err := aggregate.Reduce(s.rt.Codec(), raw, aggregate.Balance())
	if err != nil {
		return Balance{}, fmt.Errorf("%s: %w", key, err)
	}
	s.noteSkipped(ctx, key, res.Skipped)
	return Balance{
		PlayerID: playerID,
		Balance:  res.Value,
		Records:  res.Records,
		Skipped:  res.Skipped,
		Excluded: res.Excluded,
	}, nil
}

// History decodes every stored transaction of the player.
func (s *Service) History(ctx context.Context, playerID string) (History, error) {
	key, err := s.key(playerID)
	if err != nil {
		return History{}, err
	}
	raw, err := s.rt.Store().ReadAll(ctx, key)
	if err != nil {
		return History{}, err
	}
	recs, skipped := codec.DecodeAll(s.rt.Codec(), raw)
	s.noteSkipped(ctx, key, skipped)
	return History{PlayerID: playerID, Records: recs, Skipped: skipped}, nil
}

func (s *Service) noteSkipped(ctx context.Context, key eventlog.EntityKey, n int) {
	if n == 0 {
		return
	}
	s.logger.Warn("malformed records skipped", logpkg.Entity(key.String()), logpkg.Int("skipped", n))
	s.rt.Telemetry().RecordSkipped(ctx, key.Namespace, n)
}
