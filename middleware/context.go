package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/course-platform/backend/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// CallerKey is the context key for the authenticated user
	CallerKey contextKey = "caller"
)

// GetRequestIDFromContext retrieves the request ID assigned by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// GetCallerFromContext retrieves the authenticated user from context
func GetCallerFromContext(ctx context.Context) *models.User {
	if val := ctx.Value(CallerKey); val != nil {
		if caller, ok := val.(*models.User); ok {
			return caller
		}
	}
	return nil
}

// WithCaller adds the authenticated user to the context
func WithCaller(ctx context.Context, caller *models.User) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}
