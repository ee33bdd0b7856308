// Package users registers accounts and serves profiles.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/services"
	"go.uber.org/zap"
)

// PasswordHasher hashes plaintext passwords for storage
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// RegisterRequest carries the fields of a new account
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// Service manages user accounts
type Service struct {
	users  repositories.UserRepository
	hasher PasswordHasher
	logger *zap.Logger
}

// NewService creates a new users Service
func NewService(users repositories.UserRepository, hasher PasswordHasher, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates an active account. Emails are unique across all users,
// soft-deleted ones included.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid role", nil).
			WithDetail("role", string(role))
	}

	email := models.NormalizeEmail(req.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, services.WrapInternal("failed to check email", err)
	}
	if exists {
		return nil, services.ErrDuplicateEmail
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		if services.IsValidationError(err) {
			return nil, err
		}
		return nil, services.WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(req.Name, email, hashed, role)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, services.ErrDuplicateEmail
		}
		return nil, services.WrapInternal("failed to create user", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return user, nil
}

// Profile returns the live user with the given id
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetLiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to load user", err)
	}
	return user, nil
}
