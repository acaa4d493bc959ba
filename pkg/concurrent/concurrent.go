package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every item with at most limit goroutines in flight.
// A non-positive limit means no bound. The first error cancels the context
// handed to the remaining actions and is returned once all of them finished.
// Items not yet started when the parent context ends are skipped and the
// context error is returned.
func ForEach[T any](parent context.Context, items []T, limit int, action func(context.Context, int, T) error) error {
	errGroup, ctx := errgroup.WithContext(parent)
	if limit > 0 {
		errGroup.SetLimit(limit)
	}

	for idx, value := range items {
		if ctx.Err() != nil {
			break
		}
		errGroup.Go(func() error {
			return action(ctx, idx, value)
		})
	}

	if err := errGroup.Wait(); err != nil {
		return err
	}
	return parent.Err()
}

// Map applies mapFn to each item in parallel, preserving order.
// The limit parameter bounds the number of goroutines as in ForEach.
func Map[T any, R any](ctx context.Context, items []T, limit int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	err := ForEach(ctx, items, limit, func(ctx context.Context, i int, v T) error {
		r, err := mapFn(ctx, v)
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
