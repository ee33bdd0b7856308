// Package enrollment enforces the enrollment lifecycle: one enrollment per
// (student, course), the course capacity ceiling and the active-course
// precondition. Every mutation and its audit entry commit or roll back together.
package enrollment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/services/audit"
	"go.uber.org/zap"
)

// AuditRecorder writes an audit entry within the transaction bound to ctx
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// Service is the enrollment engine
type Service struct {
	txManager   repositories.TransactionManager
	courses     repositories.CourseRepository
	enrollments repositories.EnrollmentRepository
	audit       AuditRecorder
	logger      *zap.Logger
}

// NewService creates a new enrollment Service
func NewService(
	txManager repositories.TransactionManager,
	courses repositories.CourseRepository,
	enrollments repositories.EnrollmentRepository,
	recorder AuditRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		txManager:   txManager,
		courses:     courses,
		enrollments: enrollments,
		audit:       recorder,
		logger:      logger,
	}
}

// Enroll enrolls userID in courseID. Preconditions are checked in order:
// course exists and is live, course is active, not already enrolled, seat available.
// The course row stays locked until the transaction ends.
func (s *Service) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.EnrollmentView, error) {
	view, err := services.WithTransactionResult(ctx, s.txManager, func(ctx context.Context, tx repositories.Transaction) (*models.EnrollmentView, error) {
		course, err := s.courses.LockLiveByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrCourseNotFound
			}
			return nil, services.WrapInternal("failed to load course", err)
		}

		if !course.IsActive {
			return nil, services.ErrCourseInactive
		}

		enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
		if err != nil {
			return nil, services.WrapInternal("failed to check enrollment", err)
		}
		if enrolled {
			return nil, services.ErrAlreadyEnrolled
		}

		taken, err := s.enrollments.CountByCourse(ctx, courseID)
		if err != nil {
			return nil, services.WrapInternal("failed to count enrollments", err)
		}
		if taken >= course.Capacity {
			return nil, services.ErrCourseFull
		}

		enrollment := models.NewEnrollment(userID, courseID)
		if err := s.enrollments.Create(ctx, enrollment); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, services.ErrEnrollmentConflict
			}
			return nil, services.WrapInternal("failed to create enrollment", err)
		}

		if err := s.audit.Record(ctx, audit.Enrolled(enrollment, userID)); err != nil {
			return nil, services.WrapInternal("failed to record enrollment", err)
		}

		view, err := s.enrollments.GetView(ctx, enrollment.ID)
		if err != nil {
			return nil, services.WrapInternal("failed to load enrollment", err)
		}
		return view, nil
	})
	if err != nil {
		s.logFailure("enroll", err, zap.String("user_id", userID.String()), zap.String("course_id", courseID.String()))
		return nil, err
	}

	s.logger.Info("student enrolled",
		zap.String("enrollment_id", view.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("course_id", courseID.String()))

	return view, nil
}

// Deregister removes the caller's own enrollment. An enrollment owned by
// someone else is reported as not found.
func (s *Service) Deregister(ctx context.Context, userID, enrollmentID uuid.UUID) error {
	err := services.WithTransaction(ctx, s.txManager, func(ctx context.Context, tx repositories.Transaction) error {
		enrollment, err := s.enrollments.GetOwned(ctx, enrollmentID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrEnrollmentNotFound
			}
			return services.WrapInternal("failed to load enrollment", err)
		}

		return s.remove(ctx, enrollment, audit.Deregistered(enrollment, userID))
	})
	if err != nil {
		s.logFailure("deregister", err, zap.String("user_id", userID.String()), zap.String("enrollment_id", enrollmentID.String()))
		return err
	}

	s.logger.Info("student deregistered",
		zap.String("enrollment_id", enrollmentID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// AdminRemove removes any enrollment on behalf of an admin
func (s *Service) AdminRemove(ctx context.Context, adminID, enrollmentID uuid.UUID) error {
	err := services.WithTransaction(ctx, s.txManager, func(ctx context.Context, tx repositories.Transaction) error {
		enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrEnrollmentNotFound
			}
			return services.WrapInternal("failed to load enrollment", err)
		}

		return s.remove(ctx, enrollment, audit.RemovedByAdmin(enrollment, adminID))
	})
	if err != nil {
		s.logFailure("admin remove", err, zap.String("admin_id", adminID.String()), zap.String("enrollment_id", enrollmentID.String()))
		return err
	}

	s.logger.Info("enrollment removed by admin",
		zap.String("enrollment_id", enrollmentID.String()),
		zap.String("admin_id", adminID.String()))
	return nil
}

// ListAll returns every enrollment, newest first
func (s *Service) ListAll(ctx context.Context, page models.PageRequest) (*models.Page[*models.EnrollmentView], error) {
	return s.list(ctx, nil, page)
}

// ListByCourse returns the enrollments of one course, newest first
func (s *Service) ListByCourse(ctx context.Context, courseID uuid.UUID, page models.PageRequest) (*models.Page[*models.EnrollmentView], error) {
	return s.list(ctx, &courseID, page)
}

func (s *Service) list(ctx context.Context, courseID *uuid.UUID, page models.PageRequest) (*models.Page[*models.EnrollmentView], error) {
	views, total, err := s.enrollments.ListViews(ctx, courseID, page)
	if err != nil {
		return nil, services.WrapInternal("failed to list enrollments", err)
	}
	return models.NewPage(views, total, page), nil
}

// remove deletes the enrollment row and writes its audit entry; the entry is
// the only record of the deletion
func (s *Service) remove(ctx context.Context, enrollment *models.Enrollment, entry *models.AuditLog) error {
	if err := s.enrollments.Delete(ctx, enrollment.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrEnrollmentNotFound
		}
		return services.WrapInternal("failed to delete enrollment", err)
	}

	if err := s.audit.Record(ctx, entry); err != nil {
		return services.WrapInternal("failed to record enrollment removal", err)
	}
	return nil
}

// logFailure logs unexpected failures with full detail. Expected domain
// outcomes are logged at debug.
func (s *Service) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	switch services.GetErrorType(err) {
	case services.ErrorTypeInternal, "":
		s.logger.Error("enrollment operation failed", fields...)
	default:
		s.logger.Debug("enrollment operation rejected", fields...)
	}
}
