package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/course-platform/backend/middleware"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/services/access"
	"github.com/upb/course-platform/backend/services/users"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, req users.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (*access.Token, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Token), args.Error(1)
}

type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCourseService struct {
	mock.Mock
}

func (m *MockCourseService) Create(ctx context.Context, title, code string, capacity int) (*models.Course, error) {
	args := m.Called(ctx, title, code, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseService) List(ctx context.Context, title string, page models.PageRequest) (*models.Page[*models.Course], error) {
	args := m.Called(ctx, title, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[*models.Course]), args.Error(1)
}

func (m *MockCourseService) Update(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Course, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEnrollmentService struct {
	mock.Mock
}

func (m *MockEnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.EnrollmentView, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EnrollmentView), args.Error(1)
}

func (m *MockEnrollmentService) Deregister(ctx context.Context, userID, enrollmentID uuid.UUID) error {
	args := m.Called(ctx, userID, enrollmentID)
	return args.Error(0)
}

func (m *MockEnrollmentService) AdminRemove(ctx context.Context, adminID, enrollmentID uuid.UUID) error {
	args := m.Called(ctx, adminID, enrollmentID)
	return args.Error(0)
}

func (m *MockEnrollmentService) ListAll(ctx context.Context, page models.PageRequest) (*models.Page[*models.EnrollmentView], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[*models.EnrollmentView]), args.Error(1)
}

func (m *MockEnrollmentService) ListByCourse(ctx context.Context, courseID uuid.UUID, page models.PageRequest) (*models.Page[*models.EnrollmentView], error) {
	args := m.Called(ctx, courseID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[*models.EnrollmentView]), args.Error(1)
}

type MockAuditReader struct {
	mock.Mock
}

func (m *MockAuditReader) List(ctx context.Context, entityID *uuid.UUID, page models.PageRequest) (*models.Page[*models.AuditLog], error) {
	args := m.Called(ctx, entityID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[*models.AuditLog]), args.Error(1)
}

type MockDatabaseChecker struct {
	mock.Mock
}

func (m *MockDatabaseChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// withURLParam attaches a chi route parameter to req
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withCaller attaches an authenticated caller to req
func withCaller(req *http.Request, caller *models.User) *http.Request {
	return req.WithContext(middleware.WithCaller(req.Context(), caller))
}
