package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

const (
	bucketGeneral   = "general"
	bucketAuth      = "auth"
	bucketAdmin     = "admin"
	bucketExpensive = "expensive"
	bucketContact   = "contact"
)

// bucketFor determines which rate limit bucket a request counts against
func (mw *Middleware) bucketFor(path, method string) (string, int, time.Duration) {
	rl := mw.cfg.RateLimit

	// Auth endpoints - strictest limits
	if strings.HasPrefix(path, "/auth/login") ||
		strings.HasPrefix(path, "/auth/register") ||
		strings.HasPrefix(path, "/auth/refresh") ||
		strings.HasPrefix(path, "/auth/resend-verification") {
		return bucketAuth, rl.AuthLimit, rl.AuthWindow
	}

	if strings.HasPrefix(path, "/admin") {
		return bucketAdmin, rl.AdminLimit, rl.AdminWindow
	}

	// Marketplace contact links expose seller phone numbers
	if method == http.MethodPost && strings.HasPrefix(path, "/marketplace/") && strings.HasSuffix(strings.TrimSuffix(path, "/"), "/contact") {
		return bucketContact, rl.ContactLimit, rl.ContactWindow
	}

	// Searches and listings
	if method == http.MethodGet && (strings.HasPrefix(path, "/products") ||
		strings.HasPrefix(path, "/marketplace")) {
		return bucketExpensive, rl.ExpensiveLimit, rl.ExpensiveWindow
	}

	return bucketGeneral, rl.GeneralLimit, rl.GeneralWindow
}

// clientIP returns the request IP without port. chi's RealIP has already applied X-Forwarded-For.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func skipRateLimit(path string) bool {
	return path == "/" || path == "/metrics" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/uploads/")
}

// RateLimitMiddleware counts requests per IP and bucket in Redis. Cache failures let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || skipRateLimit(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			bucket, limit, window := mw.bucketFor(r.URL.Path, r.Method)

			count, ttl, err := mw.limiter.IncrementRateLimit(r.Context(), bucket, ip, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", ip),
					gecho.Field("bucket", bucket),
				)
				next.ServeHTTP(w, r)
				return
			}
			if ttl <= 0 {
				ttl = window
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", ip),
					gecho.Field("bucket", bucket),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				retryAfter := int(ttl.Round(time.Second).Seconds())
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				gecho.TooManyRequests(w,
					gecho.WithMessage("error.rateLimitExceeded"),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"retry_after": retryAfter,
					}),
					gecho.Send(),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
