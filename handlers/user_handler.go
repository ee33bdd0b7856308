package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/internal/observability"
	"github.com/upb/course-platform/backend/middleware"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// ProfileReader loads the profile of a live user
type ProfileReader interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	profiles ProfileReader
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profiles ProfileReader, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// HandleMe handles GET /users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	caller := middleware.GetCallerFromContext(ctx)
	if caller == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	user, err := h.profiles.Profile(ctx, caller.ID)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, userToResponse(user)); err != nil {
		logger.Error("failed to write profile response", zap.Error(err))
	}
}
