package chain

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/logger"
)

// Reader is a single read scheduled by ParallelRead
type Reader interface {
	run(ctx context.Context, opts ReadOptions)
}

// Read is a read-only call with a fallback used when every attempt fails
type Read[T any] struct {
	Name     string
	Fetch    func(ctx context.Context) (T, error)
	Fallback T

	// Value holds the fetched value or Fallback once ParallelRead returns
	Value T
	// Err is the last error when Value is the fallback
	Err error
}

// NewRead creates a read with a fallback
func NewRead[T any](name string, fallback T, fetch func(ctx context.Context) (T, error)) *Read[T] {
	return &Read[T]{Name: name, Fetch: fetch, Fallback: fallback}
}

// UsedFallback reports whether Value came from Fallback
func (r *Read[T]) UsedFallback() bool {
	return r.Err != nil
}

func (r *Read[T]) run(ctx context.Context, opts ReadOptions) {
	var value T
	operation := func() error {
		readCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			readCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		v, err := r.Fetch(readCtx)
		if err != nil {
			return err
		}
		value = v
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, opts.MaxRetries), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, d time.Duration) {
		logger.DebugCtx(ctx, "Retrying chain read",
			zap.String("read", r.Name),
			zap.Duration("backoff", d),
			zap.Error(err))
	})
	if err != nil {
		logger.WarnCtx(ctx, "Chain read failed, using fallback",
			zap.String("read", r.Name),
			zap.Error(err))
		r.Value = r.Fallback
		r.Err = err
		return
	}
	r.Value = value
}

// ReadOptions tunes the retry behavior of each read
type ReadOptions struct {
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
}

// ParallelRead runs every read concurrently on pool and waits for all of them.
// Each read either yields its value or its fallback; one failing read never
// affects the others.
func ParallelRead(ctx context.Context, pool pond.Pool, opts ReadOptions, reads ...Reader) {
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 100 * time.Millisecond
	}

	tasks := make([]pond.Task, 0, len(reads))
	for _, read := range reads {
		read := read
		tasks = append(tasks, pool.Submit(func() {
			read.run(ctx, opts)
		}))
	}
	for _, task := range tasks {
		_ = task.Wait()
	}
}
