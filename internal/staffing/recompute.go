package staffing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/panjf2000/ants/v2"

	"github.com/sha1n/staffing-mcp/internal/domain"
	"github.com/sha1n/staffing-mcp/internal/keywords"
)

// RecomputeMode selects whether employee keyword recomputation is awaited.
type RecomputeMode string

const (
	// RecomputeSync finishes the recomputation before the mutation returns.
	RecomputeSync RecomputeMode = "sync"

	// RecomputeAsync queues the recomputation on a worker pool. Searches
	// issued right after a mutation may see the previous keyword document.
	RecomputeAsync RecomputeMode = "async"
)

// ParseRecomputeMode validates a mode name.
func ParseRecomputeMode(s string) (RecomputeMode, error) {
	switch m := RecomputeMode(s); m {
	case RecomputeSync, RecomputeAsync:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown recompute mode %q (expected sync or async)", domain.ErrInvalidInput, s)
	}
}

const (
	DefaultRecomputeWorkers = 2
	DefaultRecomputeTimeout = 30 * time.Second
	DefaultRecomputeRetries = 3
)

// Recomputer rebuilds employee aggregate keyword documents from the
// employee's own fields and the keyword documents of its experience records.
// Failures are logged and never reported to the caller of Recompute.
type Recomputer struct {
	repo          ProfileRepository
	mode          RecomputeMode
	workers       int
	timeout       time.Duration
	retries       uint64
	retryInterval time.Duration
	pool          *ants.Pool
	logger        *slog.Logger

	// mu orders wg.Add against Close; no work is queued once closed is set.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// RecomputeOption configures a Recomputer.
type RecomputeOption func(*Recomputer)

// WithRecomputeMode sets sync or async recomputation.
// Default is RecomputeSync.
func WithRecomputeMode(mode RecomputeMode) RecomputeOption {
	return func(r *Recomputer) {
		r.mode = mode
	}
}

// WithRecomputeWorkers sets the async worker pool size.
func WithRecomputeWorkers(n int) RecomputeOption {
	return func(r *Recomputer) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithRecomputeTimeout bounds a single recomputation including retries.
func WithRecomputeTimeout(d time.Duration) RecomputeOption {
	return func(r *Recomputer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRecomputeRetries sets how many times a failed recomputation is retried.
func WithRecomputeRetries(n uint64) RecomputeOption {
	return func(r *Recomputer) {
		r.retries = n
	}
}

// WithRetryInterval sets the initial backoff between retries.
func WithRetryInterval(d time.Duration) RecomputeOption {
	return func(r *Recomputer) {
		if d > 0 {
			r.retryInterval = d
		}
	}
}

// WithRecomputeLogger sets a custom logger.
// Default is slog.Default().
func WithRecomputeLogger(logger *slog.Logger) RecomputeOption {
	return func(r *Recomputer) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRecomputer creates a recomputer. In async mode it owns a worker pool
// that Close releases.
func NewRecomputer(repo ProfileRepository, opts ...RecomputeOption) (*Recomputer, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: profile repository is required", domain.ErrInvalidInput)
	}

	r := &Recomputer{
		repo:          repo,
		mode:          RecomputeSync,
		workers:       DefaultRecomputeWorkers,
		timeout:       DefaultRecomputeTimeout,
		retries:       DefaultRecomputeRetries,
		retryInterval: 200 * time.Millisecond,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := ParseRecomputeMode(string(r.mode)); err != nil {
		return nil, err
	}

	if r.mode == RecomputeAsync {
		pool, err := ants.NewPool(r.workers)
		if err != nil {
			return nil, fmt.Errorf("failed to create recompute worker pool: %w", err)
		}
		r.pool = pool
	}

	return r, nil
}

// Recompute refreshes the employee's aggregate keyword document. In sync mode
// it returns once the document is written or the attempt has failed; in async
// mode it returns immediately. Either way failures are only logged.
func (r *Recomputer) Recompute(ctx context.Context, employeeID int64) {
	if r.pool == nil {
		if err := r.RecomputeNow(ctx, employeeID); err != nil {
			r.logger.Error("Failed to recompute employee keywords", "employee_id", employeeID, "error", err)
		}
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("Recomputer closed, dropping employee keyword recompute", "employee_id", employeeID)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	// Detached from the request; the mutation has already been committed.
	bg := context.WithoutCancel(ctx)

	err := r.pool.Submit(func() {
		defer r.wg.Done()
		if err := r.RecomputeNow(bg, employeeID); err != nil {
			r.logger.Error("Failed to recompute employee keywords", "employee_id", employeeID, "error", err)
		}
	})
	if err != nil {
		r.wg.Done()
		r.logger.Error("Failed to schedule employee keyword recompute", "employee_id", employeeID, "error", err)
	}
}

// RecomputeNow rebuilds and stores the employee's keyword document, retrying
// transient store failures with exponential backoff. A missing employee is
// not retried.
func (r *Recomputer) RecomputeNow(ctx context.Context, employeeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	attempt := 0
	operation := func() error {
		attempt++
		profile, err := r.repo.LoadEmployeeProfile(ctx, employeeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}

		err = r.repo.UpdateEmployeeKeywords(ctx, employeeID, keywords.Employee(*profile))
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted between read and write
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.retryInterval
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, r.retries), ctx))
	if err != nil {
		return fmt.Errorf("recompute employee %d after %d attempt(s): %w", employeeID, attempt, err)
	}

	r.logger.Debug("Recomputed employee keywords", "employee_id", employeeID, "attempts", attempt)
	return nil
}

// Wait blocks until all queued recomputations have finished.
func (r *Recomputer) Wait() {
	r.wg.Wait()
}

// Close stops accepting async recomputations, waits for queued ones and
// releases the worker pool. Further calls are no-ops.
func (r *Recomputer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.Wait()
	if r.pool != nil {
		r.pool.Release()
	}
}
