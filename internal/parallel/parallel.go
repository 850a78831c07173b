// Package parallel runs independent work items on a bounded set of goroutines.
//
// It is used for I/O-heavy preparation such as decoding dataset files. The
// numeric core never calls into it.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Below this many items, run sequentially.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 2,
	}
}

func (c Config) sequential(n int) bool {
	return !c.Enabled || c.NumWorkers <= 1 || n < c.MinChunkSize
}

// Map executes f(i) for i in [0, n) and returns the results in index order.
//
// Every index is attempted; failures do not stop other items. The returned
// error combines the per-item errors in index order (see multierr.Errors).
// Once ctx is done no further items are started and ctx.Err() is appended.
func Map[T any](ctx context.Context, n int, f func(i int) (T, error), cfg Config) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)

	if cfg.sequential(n) {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				break
			}
			results[i], errs[i] = f(i)
		}
		return results, multierr.Append(multierr.Combine(errs...), ctx.Err())
	}

	workers := min(cfg.NumWorkers, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = f(i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, multierr.Append(multierr.Combine(errs...), ctx.Err())
}
