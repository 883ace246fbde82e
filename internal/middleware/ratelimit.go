package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RateLimiter throttles write-heavy routes per authenticated user.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*userLimiter
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rps requests per second per user with a burst of twice that.
func NewRateLimiter(rps int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	return &RateLimiter{
		limiters: make(map[uuid.UUID]*userLimiter),
		rate:     rate.Limit(rps),
		burst:    rps * 2,
		idle:     10 * time.Minute,
	}
}

// Allow reports whether userID may make another request now.
func (rl *RateLimiter) Allow(userID uuid.UUID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[userID] = ul
	}
	ul.lastSeen = now
	return ul.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle for longer than the idle window.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.idle)
	for id, ul := range rl.limiters {
		if ul.lastSeen.Before(cutoff) {
			delete(rl.limiters, id)
		}
	}
}

// Run sweeps idle limiters until done is closed.
func (rl *RateLimiter) Run(done <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// Handler limits requests per user. Anonymous requests pass through; the
// global limiter covers them.
func (rl *RateLimiter) Handler(c fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Next()
	}
	if !rl.Allow(user.ID) {
		return jsonError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
	}
	return c.Next()
}
