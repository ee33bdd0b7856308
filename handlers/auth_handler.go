package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/internal/observability"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/services/access"
	"github.com/upb/course-platform/backend/services/users"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=student admin"`
}

// LoginRequest represents a credential exchange request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func userToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Registrar creates accounts
type Registrar interface {
	Register(ctx context.Context, req users.RegisterRequest) (*models.User, error)
}

// Authenticator exchanges credentials for an access token
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*access.Token, error)
}

// AuthHandler handles the public account endpoints
type AuthHandler struct {
	registrar     Registrar
	authenticator Authenticator
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(registrar Registrar, authenticator Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		registrar:     registrar,
		authenticator: authenticator,
		logger:        logger,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	user, err := h.registrar.Register(ctx, users.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteCreated(w, userToResponse(user)); err != nil {
		logger.Error("failed to write register response", zap.Error(err))
	}
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	token, err := h.authenticator.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, token); err != nil {
		logger.Error("failed to write login response", zap.Error(err))
	}
}
