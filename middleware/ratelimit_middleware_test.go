package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/upb/course-platform/backend/services/ratelimit"
	"go.uber.org/zap"
)

// MockRateLimiter is a mock implementation of RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, rule ratelimit.Rule, client string) (*ratelimit.Result, error) {
	args := m.Called(ctx, rule, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ratelimit.Result), args.Error(1)
}

func TestRateLimitMiddleware_Limit(t *testing.T) {
	rule := ratelimit.Rule{Name: "login", Requests: 10, Window: ratelimit.WindowMinute}
	now := time.Date(2024, 5, 1, 9, 0, 30, 0, time.UTC)

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:52100"
		return req
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed request passes with headers", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		limiter.On("Allow", mock.Anything, rule, "203.0.113.7").
			Return(&ratelimit.Result{Allowed: true, Remaining: 9}, nil)
		m := NewRateLimitMiddleware(limiter, zap.NewNop())

		w := httptest.NewRecorder()
		m.Limit(rule)(ok).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
		limiter.AssertExpectations(t)
	})

	t.Run("rejected request gets 429 and Retry-After", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		limiter.On("Allow", mock.Anything, rule, "203.0.113.7").Return(&ratelimit.Result{
			Allowed:         false,
			ResetAt:         now.Add(30 * time.Second),
			ViolationReason: "exceeded 10 requests per minute",
		}, nil)
		m := NewRateLimitMiddleware(limiter, zap.NewNop())
		m.now = func() time.Time { return now }

		w := httptest.NewRecorder()
		m.Limit(rule)(mustNotRun(t)).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		body := decodeError(t, w)
		assert.Equal(t, "rate_limit", body.Error)
		assert.Equal(t, "exceeded 10 requests per minute", body.Details["reason"])
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		limiter := new(MockRateLimiter)
		limiter.On("Allow", mock.Anything, rule, "203.0.113.7").Return(nil, errors.New("db down"))
		m := NewRateLimitMiddleware(limiter, zap.NewNop())

		w := httptest.NewRecorder()
		m.Limit(rule)(ok).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientIP(req))

	req.RemoteAddr = "198.51.100.2"
	assert.Equal(t, "198.51.100.2", clientIP(req))
}
