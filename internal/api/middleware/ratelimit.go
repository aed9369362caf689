package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"javelin-lab/internal/config"
	"javelin-lab/internal/infrastructure/cache"
)

// RateLimiter returns middleware that limits requests per client per
// minute using the shared cache. On cache errors requests pass through.
func RateLimiter(c *cache.Cache, cfg config.RateLimitConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := c.CheckRateLimit(r.Context(), clientID(r), cfg.RequestsPerMinute, time.Minute)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))

			if !allowed {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientID identifies a client by forwarded address, falling back to the
// connection's remote address
func clientID(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return fmt.Sprintf("ip:%s", ip)
}
