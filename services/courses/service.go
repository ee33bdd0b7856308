// Package courses manages the course catalog.
package courses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/services"
	"go.uber.org/zap"
)

// Service manages courses. Capacity changes never evict existing enrollments.
type Service struct {
	courses repositories.CourseRepository
	logger  *zap.Logger
}

// NewService creates a new courses Service
func NewService(courses repositories.CourseRepository, logger *zap.Logger) *Service {
	return &Service{
		courses: courses,
		logger:  logger,
	}
}

// Create adds an active course. Codes are unique across all courses, soft-deleted ones included.
func (s *Service) Create(ctx context.Context, title, code string, capacity int) (*models.Course, error) {
	exists, err := s.courses.CodeExists(ctx, code, nil)
	if err != nil {
		return nil, services.WrapInternal("failed to check course code", err)
	}
	if exists {
		return nil, services.ErrDuplicateCourseCode
	}

	course := models.NewCourse(title, code, capacity)
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, services.ErrDuplicateCourseCode
		}
		return nil, services.WrapInternal("failed to create course", err)
	}

	s.logger.Info("course created",
		zap.String("course_id", course.ID.String()),
		zap.String("code", course.Code),
		zap.Int("capacity", course.Capacity))

	return course, nil
}

// Get returns a live course
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.courses.GetLiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrCourseNotFound
		}
		return nil, services.WrapInternal("failed to load course", err)
	}
	return course, nil
}

// List returns live active courses, newest first, optionally filtered by a
// case-insensitive title substring
func (s *Service) List(ctx context.Context, title string, page models.PageRequest) (*models.Page[*models.Course], error) {
	filter := models.CourseFilter{Title: title, ActiveOnly: true}

	courses, total, err := s.courses.List(ctx, filter, page)
	if err != nil {
		return nil, services.WrapInternal("failed to list courses", err)
	}

	return models.NewPage(courses, total, page), nil
}

// Update applies the provided fields. A changed code is re-checked for
// uniqueness excluding the course itself. Fields left nil are not written, so
// a concurrent activation change is never overwritten.
func (s *Service) Update(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Code != nil && *update.Code != current.Code {
		taken, err := s.courses.CodeExists(ctx, *update.Code, &current.ID)
		if err != nil {
			return nil, services.WrapInternal("failed to check course code", err)
		}
		if taken {
			return nil, services.ErrCourseCodeTaken
		}
	}

	course, err := s.courses.Update(ctx, id, update)
	if err != nil {
		return nil, courseWriteError("failed to update course", err)
	}

	s.logger.Info("course updated", zap.String("course_id", course.ID.String()))
	return course, nil
}

// SetActive flips the active flag. Existing enrollments are untouched.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Course, error) {
	course, err := s.courses.SetActive(ctx, id, active)
	if err != nil {
		return nil, courseWriteError("failed to change course activation", err)
	}

	s.logger.Info("course activation changed",
		zap.String("course_id", course.ID.String()),
		zap.Bool("active", active))
	return course, nil
}

// SoftDelete tombstones the course and deactivates it. Enrollments referencing
// it remain as historical records.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courses.SoftDelete(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrCourseNotFound
		}
		return services.WrapInternal("failed to delete course", err)
	}

	s.logger.Info("course deleted", zap.String("course_id", course.ID.String()))
	return nil
}

func courseWriteError(msg string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return services.ErrCourseNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return services.ErrCourseCodeTaken
	default:
		return services.WrapInternal(msg, err)
	}
}
