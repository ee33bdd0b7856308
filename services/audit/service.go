// Package audit records enrollment lifecycle events and serves the admin audit query.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/services"
	"go.uber.org/zap"
)

// Service writes audit entries inside the caller's transaction and lists them for admins.
// Record returns the repository error instead of dropping the event, so a failed audit
// write aborts the surrounding unit of work.
type Service struct {
	auditRepo repositories.AuditRepository
	logger    *zap.Logger
}

// NewService creates a new audit Service
func NewService(auditRepo repositories.AuditRepository, logger *zap.Logger) *Service {
	return &Service{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record inserts entry using the transaction bound to ctx, if any
func (s *Service) Record(ctx context.Context, entry *models.AuditLog) error {
	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log",
			zap.Error(err),
			zap.String("action", string(entry.Action)),
			zap.String("entity_id", entry.EntityID.String()))
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// List returns audit entries newest first. A nil entityID lists every entry.
func (s *Service) List(ctx context.Context, entityID *uuid.UUID, page models.PageRequest) (*models.Page[*models.AuditLog], error) {
	filter := models.AuditFilter{EntityID: entityID}

	logs, total, err := s.auditRepo.List(ctx, filter, page)
	if err != nil {
		return nil, services.WrapInternal("failed to list audit logs", err)
	}

	return models.NewPage(logs, total, page), nil
}

// Entry builders for the enrollment lifecycle

// Enrolled builds the entry written when a student enrolls
func Enrolled(enrollment *models.Enrollment, actorID uuid.UUID) *models.AuditLog {
	return models.NewAuditLog(models.AuditEntityEnrollment, enrollment.ID, models.AuditActionEnrolled, actorID).
		WithDetails(map[string]string{
			"course_id": enrollment.CourseID.String(),
		})
}

// Deregistered builds the entry written when a student removes their own enrollment
func Deregistered(enrollment *models.Enrollment, actorID uuid.UUID) *models.AuditLog {
	return models.NewAuditLog(models.AuditEntityEnrollment, enrollment.ID, models.AuditActionDeregistered, actorID).
		WithDetails(map[string]string{
			"course_id": enrollment.CourseID.String(),
		})
}

// RemovedByAdmin builds the entry written when an admin removes any enrollment
func RemovedByAdmin(enrollment *models.Enrollment, actorID uuid.UUID) *models.AuditLog {
	return models.NewAuditLog(models.AuditEntityEnrollment, enrollment.ID, models.AuditActionRemovedByAdmin, actorID).
		WithDetails(map[string]string{
			"course_id":  enrollment.CourseID.String(),
			"student_id": enrollment.UserID.String(),
		})
}
