// Package access derives the caller from a bearer token and gates operations by role.
package access

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/tokens"
	"go.uber.org/zap"
)

// TokenType is the scheme clients send tokens back with
const TokenType = "bearer"

// TokenIssuer mints and verifies signed user tokens
type TokenIssuer interface {
	Mint(subject uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
	TTL() time.Duration
}

// CredentialVerifier checks a password against a stored hash
type CredentialVerifier interface {
	Compare(hash, password string) error

	// CompareMissing costs the same as a failed Compare and always fails
	CompareMissing(password string)
}

// Token is the result of a successful authentication
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Service authenticates users and resolves callers
type Service struct {
	users    repositories.UserRepository
	tokens   TokenIssuer
	verifier CredentialVerifier
	logger   *zap.Logger
}

// NewService creates a new access Service
func NewService(users repositories.UserRepository, tokens TokenIssuer, verifier CredentialVerifier, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate exchanges credentials for a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.users.GetLiveByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.verifier.CompareMissing(password)
			return nil, services.ErrInvalidCredentials
		}
		return nil, services.WrapInternal("failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("credential mismatch", zap.String("user_id", user.ID.String()))
		return nil, services.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, services.ErrAccountInactive
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, services.WrapInternal("failed to issue token", err)
	}

	s.logger.Info("user authenticated", zap.String("user_id", user.ID.String()))

	return &Token{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

// ResolveCaller verifies the token and loads the live, active user it names
func (s *Service) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, services.ErrNotAuthenticated
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrMissingClaim), errors.Is(err, tokens.ErrInvalidClaim):
			return nil, services.ErrMalformedToken
		default:
			return nil, services.ErrInvalidToken
		}
	}

	user, err := s.users.GetLiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUnknownCaller
		}
		return nil, services.WrapInternal("failed to resolve caller", err)
	}

	if !user.IsActive {
		return nil, services.ErrCallerDeactivated
	}

	return user, nil
}

// RequireRole fails with Forbidden unless the caller holds exactly role.
// There is no hierarchy: an admin does not pass a student gate.
func RequireRole(caller *models.User, role models.Role) error {
	if caller == nil {
		return services.ErrNotAuthenticated
	}
	if !caller.Role.Satisfies(role) {
		return services.NewForbiddenRoleError(string(role))
	}
	return nil
}
