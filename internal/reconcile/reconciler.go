// Package reconcile implements the retry-and-reconcile policy that keeps a
// cached view of a remote read in step with the authoritative store. A read
// is attempted up to maxRetries+1 times with a fixed delay between attempts;
// the last error is surfaced once the budget is exhausted. The policy holds
// the latest result but performs no staleness handling of its own.
package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
)

// Sleeper abstracts the inter-attempt delay so the retry schedule is
// testable without real time passing.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options tunes a Reconciler. Zero values fall back to the defaults.
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Sleeper    Sleeper
	Logger     *zap.Logger
}

// Reconciler wraps a read operation with the bounded retry policy. A manual
// Refetch restarts the attempt budget and supersedes any refresh still in
// flight: the superseded refresh completes but its result is discarded.
type Reconciler[T any] struct {
	fetch      func(ctx context.Context) (T, error)
	maxRetries int
	retryDelay time.Duration
	sleeper    Sleeper
	log        *zap.Logger

	mu         sync.Mutex
	generation uint64
	running    int
	data       T
	hasData    bool
	err        error
}

// New creates a reconciler around fetch.
func New[T any](fetch func(ctx context.Context) (T, error), opts Options) *Reconciler[T] {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Sleeper == nil {
		opts.Sleeper = timerSleeper{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Reconciler[T]{
		fetch:      fetch,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		sleeper:    opts.Sleeper,
		log:        opts.Logger,
	}
}

// Refresh runs the retry policy as an automatic refresh. Its result is kept
// only if no manual Refetch started while it was in flight.
func (r *Reconciler[T]) Refresh(ctx context.Context) (T, error) {
	r.mu.Lock()
	gen := r.generation
	r.running++
	r.mu.Unlock()

	return r.run(ctx, gen)
}

// Refetch is the caller-triggered manual refresh. It restarts the attempt
// budget from zero and bumps the generation so concurrent automatic
// refreshes cannot overwrite its outcome.
func (r *Reconciler[T]) Refetch(ctx context.Context) (T, error) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.running++
	r.mu.Unlock()

	return r.run(ctx, gen)
}

func (r *Reconciler[T]) run(ctx context.Context, gen uint64) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			if err := r.sleeper.Sleep(ctx, r.retryDelay); err != nil {
				lastErr = err
				break
			}
		}

		result, lastErr = r.fetch(ctx)
		if lastErr == nil {
			break
		}

		r.log.Debug("refresh attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", r.maxRetries+1),
			zap.Error(lastErr))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running--

	// A newer Refetch owns the state now; report the outcome to the caller
	// but leave the stored view alone.
	if gen != r.generation {
		return result, lastErr
	}

	if lastErr != nil {
		r.err = lastErr
		var zero T
		return zero, lastErr
	}

	r.data = result
	r.hasData = true
	r.err = nil
	return result, nil
}

// Data returns the last successfully reconciled value, if any.
func (r *Reconciler[T]) Data() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.hasData
}

// Err returns the error from the most recent completed refresh.
func (r *Reconciler[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// InFlight reports whether any refresh is currently running.
func (r *Reconciler[T]) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running > 0
}
