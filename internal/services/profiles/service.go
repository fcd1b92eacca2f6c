package profilesvc

import (
	"context"
	"encoding/json"
	"time"

	logpkg "github.com/rzbill/coinlog/pkg/log"
)

// Service manages player profiles. Inputs are field maps already validated
// by the request package.
type Service struct {
	store  *Store
	logger logpkg.Logger
	now    func() time.Time
}

func New(store *Store, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return &Service{store: store, logger: logger.WithComponent("profiles"), now: time.Now}
}

// Create stores a new profile; ErrExists when the id is taken.
func (s *Service) Create(ctx context.Context, id string, fields map[string]any) (Profile, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	p := Profile{ID: id, CreatedAt: now, UpdatedAt: now}
	apply(&p, fields)
	if err := s.store.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	s.logger.Info("profile created", logpkg.Str("player_id", id))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.store.Get(ctx, id)
}

// Update merges fields into the stored profile.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (Profile, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	apply(&p, fields)
	p.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	if err := s.store.Save(ctx, p); err != nil {
		return Profile{}, err
	}
	s.logger.Info("profile updated", logpkg.Str("player_id", id), logpkg.Int("fields", len(fields)))
	return p, nil
}

func apply(p *Profile, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "username":
			p.Username, _ = v.(string)
		case "email":
			p.Email, _ = v.(string)
		case "age":
			p.Age = toInt(v)
		case "gold_trophies":
			p.GoldTrophies = toInt(v)
		case "silver_trophies":
			p.SilverTrophies = toInt(v)
		case "bronze_trophies":
			p.BronzeTrophies = toInt(v)
		}
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}
