package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// TTL is how long an idle client's bucket is kept.
	TTL time.Duration
}

// RateLimiter keeps one token bucket per client IP in an expiring cache.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	limiters *gocache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(config.RPS),
		burst:    burst,
		ttl:      ttl,
		limiters: gocache.New(ttl, 2*ttl),
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		l := v.(*rate.Limiter)
		// sliding expiry
		rl.limiters.Set(key, l, rl.ttl)
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.Set(key, l, rl.ttl)
	return l
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiterFor(key).Allow()
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
