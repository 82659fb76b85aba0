package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/linarifux/dentista-api/internal/config"
)

type ipLimiter struct {
	limiters sync.Map
	cfg      config.RateLimitConfig
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// RateLimit applies a per-IP token bucket. Used on the public booking
// endpoint; staff routes are already gated by auth.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	l := &ipLimiter{cfg: cfg}
	return func(c *gin.Context) {
		if cfg.RPS <= 0 {
			c.Next()
			return
		}
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			return
		}
		c.Next()
	}
}
