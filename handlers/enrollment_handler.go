package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/internal/observability"
	"github.com/upb/course-platform/backend/middleware"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// EnrollRequest represents a student's request to join a course
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// EnrollmentService defines the enrollment operations used by the API
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.EnrollmentView, error)
	Deregister(ctx context.Context, userID, enrollmentID uuid.UUID) error
	AdminRemove(ctx context.Context, adminID, enrollmentID uuid.UUID) error
	ListAll(ctx context.Context, page models.PageRequest) (*models.Page[*models.EnrollmentView], error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, page models.PageRequest) (*models.Page[*models.EnrollmentView], error)
}

// EnrollmentHandler handles enrollment HTTP requests
type EnrollmentHandler struct {
	enrollments EnrollmentService
	logger      *zap.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollments EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		logger:      logger,
	}
}

// HandleEnroll handles POST /enrollments
func (h *EnrollmentHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	caller := middleware.GetCallerFromContext(ctx)
	if caller == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req EnrollRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}
	courseID := uuid.MustParse(req.CourseID)

	view, err := h.enrollments.Enroll(ctx, caller.ID, courseID)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteCreated(w, view); err != nil {
		logger.Error("failed to write enrollment response", zap.Error(err))
	}
}

// HandleRemove handles DELETE /enrollments/{id}. Admins may remove any
// enrollment; everyone else only their own.
func (h *EnrollmentHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	caller := middleware.GetCallerFromContext(ctx)
	if caller == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, ok := pathUUID(r, "id")
	if !ok {
		HandleServiceError(w, services.ErrEnrollmentNotFound, logger)
		return
	}

	var err error
	if caller.IsAdmin() {
		err = h.enrollments.AdminRemove(ctx, caller.ID, id)
	} else {
		err = h.enrollments.Deregister(ctx, caller.ID, id)
	}
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteDetail(w, "enrollment removed"); err != nil {
		logger.Error("failed to write remove response", zap.Error(err))
	}
}

// HandleListAll handles GET /enrollments
func (h *EnrollmentHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	page, err := utils.ParsePageRequest(r)
	if err != nil {
		HandleValidationError(w, err, logger)
		return
	}

	result, err := h.enrollments.ListAll(ctx, page)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		logger.Error("failed to write enrollment list response", zap.Error(err))
	}
}

// HandleListByCourse handles GET /enrollments/course/{id}
func (h *EnrollmentHandler) HandleListByCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	courseID, ok := pathUUID(r, "id")
	if !ok {
		HandleServiceError(w, services.ErrCourseNotFound, logger)
		return
	}

	page, err := utils.ParsePageRequest(r)
	if err != nil {
		HandleValidationError(w, err, logger)
		return
	}

	result, err := h.enrollments.ListByCourse(ctx, courseID, page)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		logger.Error("failed to write enrollment list response", zap.Error(err))
	}
}
