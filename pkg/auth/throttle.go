package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// Throttle limits login attempts per login name.
type Throttle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewThrottle allows `burst` attempts at once,
// refilled at `limit` attempts per second.
func NewThrottle(limit rate.Limit, burst int) *Throttle {
	return &Throttle{
		limit:    limit,
		burst:    burst,
		limiters: map[string]*rate.Limiter{},
	}
}

// Allow answeres whether one more attempt for the login is admitted.
func (t *Throttle) Allow(login string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.limiters[login]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[login] = limiter
	}
	return limiter.Allow()
}
