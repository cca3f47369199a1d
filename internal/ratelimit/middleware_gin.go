package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware limits requests per client IP. With no limiter configured it
// passes everything through; an unreachable Redis also fails open, a rate
// limiter outage must not take checkout down with it.
func GinMiddleware(bucket *TokenBucket, log *zap.Logger, prefix string, rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bucket == nil {
			c.Next()
			return
		}

		key := prefix + ":" + c.ClientIP()
		res, err := bucket.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			log.Warn("rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limit_exceeded",
			})
			return
		}
		c.Next()
	}
}
