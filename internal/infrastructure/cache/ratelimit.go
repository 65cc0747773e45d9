package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts requests per key in fixed windows
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// MemoryRateLimiter is a process-local fixed-window limiter
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

var _ RateLimiter = (*MemoryRateLimiter)(nil)

// NewMemoryRateLimiter allows limit requests per key per period
func NewMemoryRateLimiter(limit int, period time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow implements RateLimiter
func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.evictExpired(now)
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	return decide(w.count, l.limit, w.resetAt), nil
}

// evictExpired drops finished windows so idle clients do not accumulate.
// Called with mu held.
func (l *MemoryRateLimiter) evictExpired(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

// RedisRateLimiter shares counters across instances
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	period time.Duration
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

// NewRedisRateLimiter creates a limiter whose keys live under prefix
func NewRedisRateLimiter(client redis.UniversalClient, prefix string, limit int, period time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: "bizdesk:ratelimit:" + prefix + ":", limit: limit, period: period}
}

// Allow implements RateLimiter. The first hit in a window sets its expiry.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.prefix + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.period)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = l.period
	}
	return decide(int(incr.Val()), l.limit, time.Now().Add(remaining)), nil
}

func decide(count, limit int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
