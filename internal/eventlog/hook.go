package eventlog

import (
	"context"

	"github.com/rzbill/coinlog/pkg/log"
)

// AppendHook observes records after they are durably appended. Hooks are
// best effort: their errors are logged and never fail the append.
type AppendHook interface {
	AfterAppend(ctx context.Context, key EntityKey, record []byte) error
}

// AppendHookFunc adapts a function to AppendHook.
type AppendHookFunc func(ctx context.Context, key EntityKey, record []byte) error

func (f AppendHookFunc) AfterAppend(ctx context.Context, key EntityKey, record []byte) error {
	return f(ctx, key, record)
}

type hookedStore struct {
	Store
	hooks  []AppendHook
	logger log.Logger
}

// WithHooks wraps s so that hooks run after each successful Append.
func WithHooks(s Store, logger log.Logger, hooks ...AppendHook) Store {
	if len(hooks) == 0 {
		return s
	}
	return &hookedStore{Store: s, hooks: hooks, logger: logger.WithComponent("eventlog")}
}

func (h *hookedStore) Append(ctx context.Context, key EntityKey, record []byte) error {
	if err := h.Store.Append(ctx, key, record); err != nil {
		return err
	}
	for _, hook := range h.hooks {
		if err := hook.AfterAppend(ctx, key, record); err != nil {
			h.logger.Warn("append hook failed", log.Entity(key.String()), log.Err(err))
		}
	}
	return nil
}
