package middlewares

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/ratelimit"
)

// RateLimit enforces store limits per derived key. Store failures fail open.
func RateLimit(store ratelimit.Store, keyFn func(*gin.Context) string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		allowed, retryAfter, err := store.Allow(c.Request.Context(), key)

		if err != nil {
			log.WarnContext(c.Request.Context(), "rate limit store unavailable", "err", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))

			abortWithError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
			return
		}

		c.Next()
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available
func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id != "" {
		return "user:" + id
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
