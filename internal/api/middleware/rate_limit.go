package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"gwconsole/internal/pkg/errors"
)

// RateLimiter is a per-client token bucket refilled over a minute. It guards
// the portal's credential endpoints.
type RateLimiter struct {
	limit int
	store *sync.Map // map[string]*bucket
	now   func() time.Time
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

// NewRateLimiter allows perMinute requests per client. Idle buckets are
// swept until ctx is done.
func NewRateLimiter(ctx context.Context, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	rl := &RateLimiter{limit: perMinute, store: &sync.Map{}, now: time.Now}
	go rl.cleanupLoop(ctx)
	return rl
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(10 * time.Minute)
		}
	}
}

func (rl *RateLimiter) sweep(idle time.Duration) {
	now := rl.now()
	rl.store.Range(func(key, value interface{}) bool {
		b := value.(*bucket)
		b.mu.Lock()
		if now.Sub(b.lastAccess) > idle {
			rl.store.Delete(key)
		}
		b.mu.Unlock()
		return true
	})
}

func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	val, _ := rl.store.LoadOrStore(key, &bucket{
		tokens:     rl.limit,
		lastRefill: now,
		lastAccess: now,
	})

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = now

	// Only whole tokens are credited; the unspent fraction carries over
	// until the bucket is full.
	if refill := int(now.Sub(b.lastRefill) * time.Duration(rl.limit) / time.Minute); refill > 0 {
		b.tokens = min(b.tokens+refill, rl.limit)
		if b.tokens == rl.limit {
			b.lastRefill = now
		} else {
			b.lastRefill = b.lastRefill.Add(time.Duration(refill) * time.Minute / time.Duration(rl.limit))
		}
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Too many attempts. Try again later.", nil)
			return
		}
		next(w, r)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
