// Package worker implements the bounded-concurrency fan-out used by the
// corpus builder and the splitter (the comparator itself runs on a
// single goroutine): submit N independent tasks,
// run at most Jobs of them at a time, and collect results indexed by
// submission order regardless of completion order. The first task error
// cancels the remaining ones and is returned to the caller.
package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds how many tasks Run executes concurrently.
type Pool struct {
	Jobs int
}

// New builds a Pool with the given concurrency limit. A non-positive
// jobs value is treated as 1.
func New(jobs int) *Pool {
	if jobs < 1 {
		jobs = 1
	}
	return &Pool{Jobs: jobs}
}

// DefaultJobs returns the jobs count used when a command does not
// specify -j/--jobs: the number of logical CPUs, capped at 16.
func DefaultJobs() int {
	n := runtime.NumCPU()
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes fn(ctx, i) for i in [0, n) with at most p.Jobs running
// concurrently. Results are returned in a slice indexed by i, regardless
// of the order in which tasks complete. If any task returns an error,
// Run cancels the remaining in-flight tasks via ctx and returns the
// first error encountered.
func Run[T any](ctx context.Context, p *Pool, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	sem := semaphore.NewWeighted(int64(p.Jobs))
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
