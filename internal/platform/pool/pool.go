package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll invokes worker for every item with at most maxParallel
// invocations active at any instant. The returned slice preserves input
// order regardless of completion order. Workers report failure through
// their own result type, so one failing item never aborts its siblings
// and every item is processed exactly once.
func RunAll[T, R any](ctx context.Context, items []T, maxParallel int, worker func(context.Context, T) R) []R {
	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]R, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = worker(ctx, item)
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	return results
}
