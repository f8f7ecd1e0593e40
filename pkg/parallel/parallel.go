// Package parallel implements a bounded-concurrency iteration primitive.
package parallel

import (
	"context"

	tomb "gopkg.in/tomb.v2"
)

// DefaultLimit is the default max number of concurrent ForEach calls.
const DefaultLimit = 100

// ForEach calls fn once for each index in [0, n), running at most limit
// calls concurrently. If limit <= 0, DefaultLimit is used.
//
// The first error returned by fn cancels the context passed to the
// remaining calls, and is returned once all running calls finish.
func ForEach(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > n {
		limit = n
	}

	t, ctx := tomb.WithContext(ctx)

	indices := make(chan int)
	t.Go(func() error {
		defer close(indices)
		for i := 0; i < n; i++ {
			select {
			case indices <- i:
			case <-t.Dying():
				return tomb.ErrDying
			}
		}
		return nil
	})

	for w := 0; w < limit; w++ {
		t.Go(func() error {
			for i := range indices {
				if err := fn(ctx, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return t.Wait()
}
