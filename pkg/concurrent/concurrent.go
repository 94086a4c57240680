package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Concurrent runs action for each element in its own goroutine, at most limit
// at a time (limit <= 0 means unbounded). The context passed to action is
// cancelled as soon as one action fails; the first error is returned.
func Concurrent[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	errGroup, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		errGroup.SetLimit(limit)
	}

	for _, value := range items {
		errGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return action(ctx, value)
		})
	}

	return errGroup.Wait()
}

// Map applies mapFn to each element concurrently, preserving order. On error
// the partial results are discarded.
func Map[T any, R any](ctx context.Context, items []T, limit int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	indices := make([]int, len(items))
	for idx := range indices {
		indices[idx] = idx
	}

	err := Concurrent(ctx, indices, limit, func(ctx context.Context, idx int) error {
		r, err := mapFn(ctx, items[idx])
		if err != nil {
			return err
		}
		out[idx] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
