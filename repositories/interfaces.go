package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
)

var (
	// ErrNotFound is returned when a lookup matches no live row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is matched by every unique constraint violation
	ErrDuplicate = errors.New("duplicate record")
)

// UniqueViolationError reports which unique constraint rejected a write
type UniqueViolationError struct {
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDuplicate) match any unique violation
func (e *UniqueViolationError) Is(target error) bool {
	return target == ErrDuplicate
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction. Repositories called with tx.Context() run inside it.
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error

	// Context returns a context bound to the transaction
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create inserts a user. A taken email yields *UniqueViolationError.
	Create(ctx context.Context, user *models.User) error

	// GetLiveByID retrieves a user that has not been soft-deleted
	GetLiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetLiveByEmail retrieves a user that has not been soft-deleted
	GetLiveByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailExists reports whether any user, soft-deleted or not, owns the email
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CourseRepository handles course data operations
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error

	// GetLiveByID retrieves a course that has not been soft-deleted
	GetLiveByID(ctx context.Context, id uuid.UUID) (*models.Course, error)

	// LockLiveByID is GetLiveByID taking a row lock held until the transaction ends
	LockLiveByID(ctx context.Context, id uuid.UUID) (*models.Course, error)

	// CodeExists reports whether a course other than exclude owns the code
	CodeExists(ctx context.Context, code string, exclude *uuid.UUID) (bool, error)

	// List returns live courses matching the filter, newest first, and the total count
	List(ctx context.Context, filter models.CourseFilter, page models.PageRequest) ([]*models.Course, int, error)

	// Update writes only the non-nil fields of update and returns the stored course
	Update(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error)

	// SetActive writes only the active flag and returns the stored course
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Course, error)

	SoftDelete(ctx context.Context, course *models.Course) error
}

// EnrollmentRepository handles enrollment data operations
type EnrollmentRepository interface {
	// Create inserts an enrollment. A duplicate (user, course) yields *UniqueViolationError.
	Create(ctx context.Context, enrollment *models.Enrollment) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)

	// GetOwned is GetByID restricted to enrollments of userID. Another user's
	// enrollment yields ErrNotFound.
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Enrollment, error)

	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GetView returns the enrollment joined with student name and course title
	GetView(ctx context.Context, id uuid.UUID) (*models.EnrollmentView, error)

	// ListViews returns enrollments newest first, optionally restricted to one course
	ListViews(ctx context.Context, courseID *uuid.UUID, page models.PageRequest) ([]*models.EnrollmentView, int, error)
}

// AuditRepository handles audit log data operations
type AuditRepository interface {
	// Insert appends an audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// List returns entries matching the filter, newest first
	List(ctx context.Context, filter models.AuditFilter, page models.PageRequest) ([]*models.AuditLog, int, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users       UserRepository
	Courses     CourseRepository
	Enrollments EnrollmentRepository
	AuditLogs   AuditRepository
}
