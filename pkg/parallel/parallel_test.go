package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEach(t *testing.T) {
	const n = 250

	var mu sync.Mutex
	seen := make(map[int]int, n)
	err := ForEach(context.Background(), n, 10, func(_ context.Context, i int) error {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, seen, n)
	for i, count := range seen {
		assert.Equalf(t, 1, count, "index %d visited %d times", i, count)
	}
}

func TestForEach_empty(t *testing.T) {
	err := ForEach(context.Background(), 0, 10, func(_ context.Context, i int) error {
		t.Fatal("fn should not be called")
		return nil
	})
	assert.NoError(t, err)
}

func TestForEach_limit(t *testing.T) {
	const limit = 7
	var inflight, peak int32
	err := ForEach(context.Background(), 100, limit, func(_ context.Context, i int) error {
		cur := atomic.AddInt32(&inflight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		atomic.AddInt32(&inflight, -1)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, atomic.LoadInt32(&peak) <= limit, "concurrency exceeded limit")
}

func TestForEach_error(t *testing.T) {
	want := errors.New("boom")
	err := ForEach(context.Background(), 50, 5, func(ctx context.Context, i int) error {
		if i == 3 {
			return want
		}
		return nil
	})
	assert.Equal(t, want, err)
}
