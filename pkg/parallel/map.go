package parallel

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
)

// Map runs fn for every index in [0, n) on a pool of the given size and
// returns the results in index order. Tasks still queued when ctx is
// cancelled are skipped. Errors from all tasks are joined.
func Map[T any](ctx context.Context, workers, n int, logger logging.Logger, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}
	if workers > n {
		workers = n
	}

	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		pool.Submit(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := fn(ctx, i)
			if err != nil {
				return fmt.Errorf("task %d: %w", i, err)
			}
			results[i] = v
			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
