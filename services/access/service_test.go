package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/repositories/mocks"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/tokens"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Mint(subject uuid.UUID) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) Verify(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenIssuer) TTL() time.Duration {
	return 30 * time.Minute
}

// MockCredentialVerifier is a mock implementation of CredentialVerifier
type MockCredentialVerifier struct {
	mock.Mock
}

func (m *MockCredentialVerifier) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

func (m *MockCredentialVerifier) CompareMissing(password string) {
	m.Called(password)
}

func newTestUser(t *testing.T, role models.Role, password string) *models.User {
	t.Helper()
	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	return models.NewUser("Ada", "ada@example.com", hash, role)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("success", func(t *testing.T) {
		users := new(mocks.UserRepository)
		issuer := new(MockTokenIssuer)
		svc := NewService(users, issuer, hasher, zap.NewNop())
		user := newTestUser(t, models.RoleStudent, "secret1")

		users.On("GetLiveByEmail", ctx, "ada@example.com").Return(user, nil)
		issuer.On("Mint", user.ID).Return("signed-token", nil)

		token, err := svc.Authenticate(ctx, " Ada@Example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token.AccessToken)
		assert.Equal(t, "bearer", token.TokenType)
		assert.Equal(t, 1800, token.ExpiresIn)
		users.AssertExpectations(t)
		issuer.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := NewService(users, new(MockTokenIssuer), hasher, zap.NewNop())

		users.On("GetLiveByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound)

		_, err := svc.Authenticate(ctx, "ghost@example.com", "secret1")
		assert.Equal(t, services.ErrInvalidCredentials, err)
	})

	t.Run("unknown email still pays for a password comparison", func(t *testing.T) {
		users := new(mocks.UserRepository)
		verifier := new(MockCredentialVerifier)
		svc := NewService(users, new(MockTokenIssuer), verifier, zap.NewNop())

		users.On("GetLiveByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound)
		verifier.On("CompareMissing", "secret1").Return()

		_, err := svc.Authenticate(ctx, "ghost@example.com", "secret1")
		assert.Equal(t, services.ErrInvalidCredentials, err)
		verifier.AssertExpectations(t)
		verifier.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := NewService(users, new(MockTokenIssuer), hasher, zap.NewNop())

		users.On("GetLiveByEmail", ctx, "ada@example.com").Return(newTestUser(t, models.RoleStudent, "secret1"), nil)

		_, err := svc.Authenticate(ctx, "ada@example.com", "wrong-password")
		assert.Equal(t, services.ErrInvalidCredentials, err)
	})

	t.Run("deactivated account with correct password", func(t *testing.T) {
		users := new(mocks.UserRepository)
		issuer := new(MockTokenIssuer)
		svc := NewService(users, issuer, hasher, zap.NewNop())
		user := newTestUser(t, models.RoleStudent, "secret1")
		user.IsActive = false

		users.On("GetLiveByEmail", ctx, "ada@example.com").Return(user, nil)

		_, err := svc.Authenticate(ctx, "ada@example.com", "secret1")
		assert.True(t, services.IsForbiddenError(err))
		assert.Equal(t, "account is deactivated", services.GetErrorMessage(err))
		issuer.AssertNotCalled(t, "Mint", mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := NewService(users, new(MockTokenIssuer), hasher, zap.NewNop())

		users.On("GetLiveByEmail", ctx, "ada@example.com").Return(nil, errors.New("connection refused"))

		_, err := svc.Authenticate(ctx, "ada@example.com", "secret1")
		assert.True(t, services.IsInternalError(err))
	})
}

func TestService_ResolveCaller(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name       string
		token      string
		setup      func(users *mocks.UserRepository, issuer *MockTokenIssuer)
		wantErr    error
		wantMsg    string
		wantCaller bool
	}{
		{
			name:    "no token",
			token:   "",
			setup:   func(*mocks.UserRepository, *MockTokenIssuer) {},
			wantErr: services.ErrNotAuthenticated,
		},
		{
			name:  "expired token",
			token: "expired",
			setup: func(_ *mocks.UserRepository, issuer *MockTokenIssuer) {
				issuer.On("Verify", "expired").Return(uuid.Nil, tokens.ErrTokenExpired)
			},
			wantErr: services.ErrInvalidToken,
			wantMsg: "invalid or expired token",
		},
		{
			name:  "bad signature",
			token: "forged",
			setup: func(_ *mocks.UserRepository, issuer *MockTokenIssuer) {
				issuer.On("Verify", "forged").Return(uuid.Nil, fmt.Errorf("%w: signature", tokens.ErrInvalidToken))
			},
			wantErr: services.ErrInvalidToken,
		},
		{
			name:  "missing subject",
			token: "no-sub",
			setup: func(_ *mocks.UserRepository, issuer *MockTokenIssuer) {
				issuer.On("Verify", "no-sub").Return(uuid.Nil, fmt.Errorf("%w: sub", tokens.ErrMissingClaim))
			},
			wantErr: services.ErrMalformedToken,
			wantMsg: "malformed token",
		},
		{
			name:  "subject no longer exists",
			token: "orphan",
			setup: func(users *mocks.UserRepository, issuer *MockTokenIssuer) {
				issuer.On("Verify", "orphan").Return(userID, nil)
				users.On("GetLiveByID", ctx, userID).Return(nil, repositories.ErrNotFound)
			},
			wantErr: services.ErrUnknownCaller,
			wantMsg: "user not found",
		},
		{
			name:  "deactivated caller",
			token: "inactive",
			setup: func(users *mocks.UserRepository, issuer *MockTokenIssuer) {
				u := models.NewUser("Ada", "ada@example.com", "h", models.RoleStudent)
				u.ID = userID
				u.IsActive = false
				issuer.On("Verify", "inactive").Return(userID, nil)
				users.On("GetLiveByID", ctx, userID).Return(u, nil)
			},
			wantErr: services.ErrCallerDeactivated,
			wantMsg: "account deactivated",
		},
		{
			name:  "active caller",
			token: "good",
			setup: func(users *mocks.UserRepository, issuer *MockTokenIssuer) {
				u := models.NewUser("Ada", "ada@example.com", "h", models.RoleAdmin)
				u.ID = userID
				issuer.On("Verify", "good").Return(userID, nil)
				users.On("GetLiveByID", ctx, userID).Return(u, nil)
			},
			wantCaller: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.UserRepository)
			issuer := new(MockTokenIssuer)
			tt.setup(users, issuer)
			svc := NewService(users, issuer, NewBcryptHasher(bcrypt.MinCost), zap.NewNop())

			caller, err := svc.ResolveCaller(ctx, tt.token)
			if tt.wantCaller {
				require.NoError(t, err)
				assert.Equal(t, userID, caller.ID)
				return
			}
			assert.Equal(t, tt.wantErr, err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, services.GetErrorMessage(err))
			}
			assert.Nil(t, caller)
		})
	}
}

func TestService_ResolveCallerWithRealTokens(t *testing.T) {
	ctx := context.Background()
	issuer, err := tokens.NewIssuer(tokens.Config{Secret: []byte("integration-secret"), TTL: time.Minute})
	require.NoError(t, err)

	users := new(mocks.UserRepository)
	svc := NewService(users, issuer, NewBcryptHasher(bcrypt.MinCost), zap.NewNop())
	user := newTestUser(t, models.RoleStudent, "secret1")

	users.On("GetLiveByEmail", ctx, "ada@example.com").Return(user, nil)
	users.On("GetLiveByID", ctx, user.ID).Return(user, nil)

	token, err := svc.Authenticate(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	caller, err := svc.ResolveCaller(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.ID)
}

func TestRequireRole(t *testing.T) {
	student := models.NewUser("S", "s@example.com", "h", models.RoleStudent)
	admin := models.NewUser("A", "a@example.com", "h", models.RoleAdmin)

	tests := []struct {
		name    string
		caller  *models.User
		role    models.Role
		wantErr bool
		wantMsg string
	}{
		{"student on student gate", student, models.RoleStudent, false, ""},
		{"admin on admin gate", admin, models.RoleAdmin, false, ""},
		{"admin on student gate", admin, models.RoleStudent, true, "requires student role"},
		{"student on admin gate", student, models.RoleAdmin, true, "requires admin role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.caller, tt.role)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, services.IsForbiddenError(err))
			assert.Equal(t, tt.wantMsg, services.GetErrorMessage(err))
		})
	}

	assert.True(t, services.IsUnauthorizedError(RequireRole(nil, models.RoleStudent)))
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, hasher.Compare(hash, "secret1"))
	assert.Error(t, hasher.Compare(hash, "secret2"))

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
}

func TestBcryptHasher_CompareMissing(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hasher.CompareMissing("secret1")
	require.NotEmpty(t, hasher.dummy)
	cost, err := bcrypt.Cost(hasher.dummy)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	first := hasher.dummy
	hasher.CompareMissing("secret2")
	assert.Equal(t, first, hasher.dummy, "dummy hash is computed once")
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.Equal(t, "password must be at most 72 bytes", services.GetErrorDetails(err)["password"])

	_, err = hasher.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
}
