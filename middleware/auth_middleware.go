package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/services/access"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// CallerResolver turns a bearer token into the live, active user it names
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	resolver CallerResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver CallerResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token for an active user
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Debug("missing bearer token",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, services.ErrNotAuthenticated.Message)
			return
		}

		caller, err := m.resolver.ResolveCaller(ctx, token)
		if err != nil {
			m.logger.Warn("caller resolution failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			m.writeAccessError(w, err)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", caller.ID.String()),
			zap.String("role", string(caller.Role)))

		next.ServeHTTP(w, r.WithContext(WithCaller(ctx, caller)))
	})
}

// RequireRole is a middleware that requires the caller to hold exactly role.
// It must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			caller := GetCallerFromContext(ctx)
			if err := access.RequireRole(caller, role); err != nil {
				fields := []zap.Field{
					zap.String("request_id", requestID),
					zap.String("required_role", string(role)),
				}
				if caller != nil {
					fields = append(fields, zap.String("user_id", caller.ID.String()), zap.String("role", string(caller.Role)))
				}
				m.logger.Warn("insufficient permissions", fields...)
				m.writeAccessError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) writeAccessError(w http.ResponseWriter, err error) {
	message := services.GetErrorMessage(err)

	switch {
	case services.IsUnauthorizedError(err):
		_ = utils.WriteUnauthorized(w, message)
	case services.IsForbiddenError(err):
		_ = utils.WriteError(w, http.StatusForbidden, "forbidden", message, services.GetErrorDetails(err))
	default:
		m.logger.Error("unexpected error during authentication", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
	}
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
