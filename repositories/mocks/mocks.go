// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
)

// TransactionManager is a mock implementation of repositories.TransactionManager
type TransactionManager struct {
	mock.Mock
}

func (m *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// Transaction records whether it was committed or rolled back
type Transaction struct {
	Ctx        context.Context
	Committed  bool
	RolledBack bool
	CommitErr  error
}

func (t *Transaction) Commit() error {
	t.Committed = true
	return t.CommitErr
}

func (t *Transaction) Rollback() error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

func (t *Transaction) Context() context.Context {
	return t.Ctx
}

// NewTransaction returns a manager whose Begin hands out the returned transaction
func NewTransaction() (*TransactionManager, *Transaction) {
	tx := &Transaction{Ctx: context.Background()}
	tm := new(TransactionManager)
	tm.On("Begin", mock.Anything).Return(tx, nil)
	return tm, tx
}

// UserRepository is a mock implementation of repositories.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetLiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetLiveByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// CourseRepository is a mock implementation of repositories.CourseRepository
type CourseRepository struct {
	mock.Mock
}

func (m *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *CourseRepository) GetLiveByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) LockLiveByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) CodeExists(ctx context.Context, code string, exclude *uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *CourseRepository) List(ctx context.Context, filter models.CourseFilter, page models.PageRequest) ([]*models.Course, int, error) {
	args := m.Called(ctx, filter, page)
	var courses []*models.Course
	if c := args.Get(0); c != nil {
		courses = c.([]*models.Course)
	}
	return courses, args.Int(1), args.Error(2)
}

func (m *CourseRepository) Update(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error) {
	args := m.Called(ctx, id, update)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Course, error) {
	args := m.Called(ctx, id, active)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) SoftDelete(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

// EnrollmentRepository is a mock implementation of repositories.EnrollmentRepository
type EnrollmentRepository struct {
	mock.Mock
}

func (m *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EnrollmentRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Enrollment, error) {
	args := m.Called(ctx, id, userID)
	if e := args.Get(0); e != nil {
		return e.(*models.Enrollment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EnrollmentRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *EnrollmentRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	args := m.Called(ctx, courseID)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) int); ok {
		return fn(ctx, courseID), args.Error(1)
	}
	return args.Int(0), args.Error(1)
}

func (m *EnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EnrollmentRepository) GetView(ctx context.Context, id uuid.UUID) (*models.EnrollmentView, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *models.EnrollmentView); ok {
		return fn(ctx, id), args.Error(1)
	}
	if v := args.Get(0); v != nil {
		return v.(*models.EnrollmentView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EnrollmentRepository) ListViews(ctx context.Context, courseID *uuid.UUID, page models.PageRequest) ([]*models.EnrollmentView, int, error) {
	args := m.Called(ctx, courseID, page)
	var views []*models.EnrollmentView
	if v := args.Get(0); v != nil {
		views = v.([]*models.EnrollmentView)
	}
	return views, args.Int(1), args.Error(2)
}

// AuditRepository is a mock implementation of repositories.AuditRepository
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepository) List(ctx context.Context, filter models.AuditFilter, page models.PageRequest) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, filter, page)
	var logs []*models.AuditLog
	if l := args.Get(0); l != nil {
		logs = l.([]*models.AuditLog)
	}
	return logs, args.Int(1), args.Error(2)
}
