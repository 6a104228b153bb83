// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a process-local token-bucket rate limiter keyed by
// caller identity. The global limiter protects the whole API; a second, much
// tighter limiter guards the routes that spend AI gateway credits.
//
// The limiter is in-memory. Several replicas each enforce their own budget.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

var rateLimited = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "powerwise_http_rate_limited_total",
		Help: "Requests rejected by a rate limiter, by limiter name.",
	},
	[]string{"limiter"},
)

func init() { prometheus.MustRegister(rateLimited) }

// KeyFunc maps a request to a bucket identity.
type KeyFunc func(*gin.Context) string

// KeyBySessionOrIP keys signed-in callers by account and everyone else by
// client IP.
func KeyBySessionOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if id := c.GetString(ctxKeyUserID); id != "" {
			return "acct:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per key. Idle buckets are swept every
// sweepEvery lookups.
type RateLimiter struct {
	name  string
	rps   rate.Limit
	burst int
	key   KeyFunc
	idle  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups int
}

const sweepEvery = 4096

// NewRateLimiter builds a limiter. burst <= 0 is treated as 1.
func NewRateLimiter(name string, rps float64, burst int, key KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		name:    name,
		rps:     rate.Limit(rps),
		burst:   burst,
		key:     key,
		idle:    10 * time.Minute,
		buckets: make(map[string]*bucket),
	}
}

func (rl *RateLimiter) limiterFor(k string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Sweep before touching k so a stale bucket for k is dropped too.
	rl.lookups++
	if rl.lookups >= sweepEvery {
		for key, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idle {
				delete(rl.buckets, key)
			}
		}
		rl.lookups = 0
	}

	b, ok := rl.buckets[k]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[k] = b
	}
	b.lastSeen = now
	return b.limiter
}

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler enforces the limit. Rejections get 429 with a Retry-After hint in
// whole seconds.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		now := time.Now()
		lim := rl.limiterFor(rl.key(c), now)
		if lim.AllowN(now, 1) {
			c.Next()
			return
		}

		retry := 1
		if rl.rps > 0 {
			retry = int(math.Ceil(1 / float64(rl.rps)))
		}
		rateLimited.WithLabelValues(rl.name).Inc()
		c.Header("Retry-After", strconv.Itoa(max(retry, 1)))
		abortError(c, http.StatusTooManyRequests, "too_many_requests", "Rate limit exceeded. Please try again in a moment.")
	}
}
