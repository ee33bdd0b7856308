package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/upb/course-platform/backend/services/ratelimit"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// RateLimiter admits or rejects a request for a client under a rule
type RateLimiter interface {
	Allow(ctx context.Context, rule ratelimit.Rule, client string) (*ratelimit.Result, error)
}

// RateLimitMiddleware throttles requests per client IP
type RateLimitMiddleware struct {
	limiter RateLimiter
	logger  *zap.Logger
	now     func() time.Time
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(limiter RateLimiter, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

// Limit applies rule to the wrapped handler. Limiter failures let the request through.
func (m *RateLimitMiddleware) Limit(rule ratelimit.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			client := clientIP(r)

			result, err := m.limiter.Allow(ctx, rule, client)
			if err != nil {
				m.logger.Error("rate limit check failed, allowing request",
					zap.String("request_id", GetRequestIDFromContext(ctx)),
					zap.String("rule", rule.Name),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
			if !result.Allowed {
				retryAfter := int(math.Ceil(result.ResetAt.Sub(m.now()).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				m.logger.Warn("rate limit exceeded",
					zap.String("request_id", GetRequestIDFromContext(ctx)),
					zap.String("rule", rule.Name),
					zap.String("client", client))
				_ = utils.WriteTooManyRequests(w, "", map[string]interface{}{
					"reason": result.ViolationReason,
				})
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP middleware
// has already replaced with the forwarded address when present
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
