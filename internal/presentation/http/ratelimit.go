package httppresentation

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than idle are dropped on the next sweep.
type RateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func NewRateLimiter(rps float64, burst int, idle time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return &RateLimiter{
		ips:       make(map[string]*limiterEntry),
		rate:      rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()
	rl.mu.Lock()
	if now.Sub(rl.lastSweep) > rl.idle {
		for k, e := range rl.ips {
			if now.Sub(e.lastSeen) > rl.idle {
				delete(rl.ips, k)
			}
		}
		rl.lastSweep = now
	}
	e, ok := rl.ips[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = e
	}
	e.lastSeen = now
	rl.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error:   "rate_limited",
				Message: "too many requests, retry later",
			})
			return
		}
		c.Next()
	}
}
