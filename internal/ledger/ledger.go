// Package ledger implements the shared-expense ledger: recording direct and
// group expenses, querying them, and settling every outstanding expense of a
// directed pair in one all-or-nothing unit of work.
//
// All state lives in the store. Every operation is bounded by a per-operation
// timeout; idempotent reads are retried with exponential backoff when that
// timeout fires, writes never are.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const (
	DefaultOpTimeout   = 5 * time.Second
	DefaultReadRetries = 2
	DefaultRetryBase   = 50 * time.Millisecond
)

// Ledger runs ledger operations against a store.
type Ledger struct {
	store       storage.Store
	now         func() time.Time
	newID       func() string
	opTimeout   time.Duration
	readRetries uint64
	retryBase   time.Duration
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used for settlement dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithOpTimeout bounds every store interaction of a single operation
// (each attempt, for retried reads).
func WithOpTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.opTimeout = d
		}
	}
}

// WithReadRetries sets how many times a timed-out read is retried and the
// initial backoff between attempts.
func WithReadRetries(n uint64, base time.Duration) Option {
	return func(l *Ledger) {
		l.readRetries = n
		if base > 0 {
			l.retryBase = base
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		now:         time.Now,
		newID:       uuid.NewString,
		opTimeout:   DefaultOpTimeout,
		readRetries: DefaultReadRetries,
		retryBase:   DefaultRetryBase,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// today is the current calendar day on the ledger clock.
func (l *Ledger) today() models.Date {
	return models.DateOf(l.now())
}

// write runs a mutating operation once under the operation timeout.
func (l *Ledger) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	err := fn(ctx)
	l.observe(op, start, err)
	return err
}

// read runs an idempotent operation, retrying attempts that hit the
// operation timeout while the caller's context is still live.
func (l *Ledger) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	backoff := retry.WithMaxRetries(l.readRetries, retry.NewExponential(l.retryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, l.opTimeout)
		defer cancel()

		err := fn(attemptCtx)
		if err != nil && attemptCtx.Err() != nil && ctx.Err() == nil {
			l.logger.Warn("ledger read timed out, retrying", "op", op, "timeout", l.opTimeout)
			return retry.RetryableError(err)
		}
		return err
	})
	l.observe(op, start, err)
	return err
}

func (l *Ledger) observe(op string, start time.Time, err error) {
	result := resultLabel(err)
	l.metrics.Observe(op, result, time.Since(start))

	switch result {
	case "ok":
	case "validation", "not_found", "conflict":
		l.logger.Debug("ledger operation rejected", "op", op, "result", result, "error", err)
	default:
		l.logger.Error("ledger operation failed", "op", op, "result", result, "error", err)
	}
}
