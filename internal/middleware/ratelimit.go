package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"dentalclinic/internal/pkg/redis"
	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket with stale-entry cleanup.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	r        rate.Limit
	burst    int
	ttl      time.Duration
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		r:        r,
		burst:    burst,
		ttl:      10 * time.Minute,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.limiters, k)
		}
	}

	v, ok := rl.limiters[ip]
	if !ok {
		v = &ipLimiter{limiter: rate.NewLimiter(rl.r, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, try again later")
			return
		}
		c.Next()
	}
}

// RedisRateLimit is a fixed-window limiter shared by every API replica.
// Redis errors let the request through.
func RedisRateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, try again later")
			return
		}
		c.Next()
	}
}
