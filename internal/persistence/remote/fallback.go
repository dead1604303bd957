package remote

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
)

// Indicator remembers that a mock answered in place of the backend.
// A nil *Indicator ignores marks.
type Indicator struct {
	mu     sync.Mutex
	active bool
	lastOp string
	at     time.Time
}

func (i *Indicator) Mark(op string) {
	if i == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.active = true
	i.lastOp = op
	i.at = time.Now()
}

func (i *Indicator) Active() bool {
	if i == nil {
		return false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

// Last returns the most recent operation served by a mock and when.
func (i *Indicator) Last() (op string, at time.Time) {
	if i == nil {
		return "", time.Time{}
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastOp, i.at
}

func (i *Indicator) Reset() {
	if i == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.active = false
	i.lastOp = ""
	i.at = time.Time{}
}

// FallbackConfig configures a Fallback.
type FallbackConfig struct {
	Development bool // connectivity failures are served by the mock
	ForceMock   bool // in development, skip the network entirely
	Indicator   *Indicator
	Logger      *zap.SugaredLogger
}

// Fallback wraps a Backend and substitutes Mock answers when the backend is unreachable.
// Outside development a connectivity failure becomes errors.ErrConnectivity.
// Validation, timeout and server errors always pass through unchanged.
type Fallback struct {
	primary Backend
	mock    Backend
	cfg     FallbackConfig
	logger  *zap.SugaredLogger
}

var _ Backend = (*Fallback)(nil)

func NewFallback(primary, mock Backend, cfg FallbackConfig) *Fallback {
	return &Fallback{primary: primary, mock: mock, cfg: cfg, logger: logger.OrNop(cfg.Logger)}
}

func run[T any](f *Fallback, op string, call func(Backend) (T, error)) (T, error) {
	if f.cfg.Development && f.cfg.ForceMock {
		f.cfg.Indicator.Mark(op)
		return call(f.mock)
	}

	res, err := call(f.primary)
	if err == nil || !errors.IsConnectivity(err) {
		return res, err
	}

	if !f.cfg.Development {
		var zero T
		return zero, errors.WithSecondaryError(errors.ErrConnectivity, err)
	}

	f.logger.Warnw("Backend unreachable, serving mock response", "operation", op, "error", err)
	f.cfg.Indicator.Mark(op)
	return call(f.mock)
}

func (f *Fallback) List(ctx context.Context, filters models.Filters) (models.ListResult, error) {
	return run(f, "list", func(b Backend) (models.ListResult, error) { return b.List(ctx, filters) })
}

func (f *Fallback) Get(ctx context.Context, id string) (*models.Application, error) {
	return run(f, "get", func(b Backend) (*models.Application, error) { return b.Get(ctx, id) })
}

func (f *Fallback) Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	return run(f, "create", func(b Backend) (*models.Application, error) { return b.Create(ctx, in) })
}

func (f *Fallback) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	return run(f, "update", func(b Backend) (*models.Application, error) { return b.Update(ctx, id, patch) })
}

func (f *Fallback) Delete(ctx context.Context, id string) (bool, error) {
	return run(f, "delete", func(b Backend) (bool, error) { return b.Delete(ctx, id) })
}

func (f *Fallback) Stats(ctx context.Context) (models.Stats, error) {
	return run(f, "stats", func(b Backend) (models.Stats, error) { return b.Stats(ctx) })
}
