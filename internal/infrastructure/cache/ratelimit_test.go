package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("blocks after limit within window", func(t *testing.T) {
		l := NewMemoryRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			d, err := l.Allow(ctx, "1.2.3.4")
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.Equal(t, 2-i, d.Remaining)
		}
		d, _ := l.Allow(ctx, "1.2.3.4")
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.Equal(t, 3, d.Limit)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := NewMemoryRateLimiter(1, time.Minute)
		d, _ := l.Allow(ctx, "a")
		assert.True(t, d.Allowed)
		d, _ = l.Allow(ctx, "b")
		assert.True(t, d.Allowed)
		d, _ = l.Allow(ctx, "a")
		assert.False(t, d.Allowed)
	})

	t.Run("window resets", func(t *testing.T) {
		l := NewMemoryRateLimiter(1, time.Minute)
		now := time.Now()
		l.now = func() time.Time { return now }

		d, _ := l.Allow(ctx, "k")
		assert.True(t, d.Allowed)
		d, _ = l.Allow(ctx, "k")
		assert.False(t, d.Allowed)

		l.now = func() time.Time { return now.Add(time.Minute) }
		d, _ = l.Allow(ctx, "k")
		assert.True(t, d.Allowed)
	})

	t.Run("expired windows are evicted", func(t *testing.T) {
		l := NewMemoryRateLimiter(5, time.Second)
		now := time.Now()
		l.now = func() time.Time { return now }
		_, _ = l.Allow(ctx, "old")

		l.now = func() time.Time { return now.Add(2 * time.Second) }
		_, _ = l.Allow(ctx, "new")
		assert.Len(t, l.windows, 1)
	})

	t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
		l := NewMemoryRateLimiter(50, time.Minute)
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d, _ := l.Allow(ctx, "shared")
				if d.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})
}
