package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"go.uber.org/zap"
)

const userColumns = `id, name, email, hashed_password, role, is_active, deleted_at, created_at, updated_at`

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, hashed_password, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return translateError("create user", err)
	}

	r.logger.Debug("user created", zap.String("id", user.ID.String()), zap.String("role", string(user.Role)))
	return nil
}

// GetLiveByID retrieves a non-deleted user by ID
func (r *UserRepository) GetLiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

// GetLiveByEmail retrieves a non-deleted user by email
func (r *UserRepository) GetLiveByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, email)
}

// EmailExists checks every user row, including soft-deleted ones
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, translateError("check user email", err)
	}
	return exists, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	executor := GetExecutor(ctx, r.db)
	user := &models.User{}

	err := executor.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.IsActive,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, translateError("get user", err)
	}

	return user, nil
}
