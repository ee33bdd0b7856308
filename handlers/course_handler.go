package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/internal/observability"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Code     string `json:"code" validate:"required,max=50"`
	Capacity int    `json:"capacity" validate:"gt=0,lte=2147483647"`
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Code     *string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gt=0,lte=2147483647"`
}

// CourseService defines the course catalog operations used by the API
type CourseService interface {
	Create(ctx context.Context, title, code string, capacity int) (*models.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, title string, page models.PageRequest) (*models.Page[*models.Course], error)
	Update(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Course, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	courses CourseService
	logger  *zap.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courses CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger,
	}
}

// HandleList handles GET /courses
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	page, err := utils.ParsePageRequest(r)
	if err != nil {
		HandleValidationError(w, err, logger)
		return
	}

	result, err := h.courses.List(ctx, r.URL.Query().Get("title"), page)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		logger.Error("failed to write course list response", zap.Error(err))
	}
}

// HandleGet handles GET /courses/{id}
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	id, ok := pathUUID(r, "id")
	if !ok {
		HandleServiceError(w, services.ErrCourseNotFound, logger)
		return
	}

	course, err := h.courses.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, course); err != nil {
		logger.Error("failed to write course response", zap.Error(err))
	}
}

// HandleCreate handles POST /courses
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	var req CreateCourseRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	course, err := h.courses.Create(ctx, req.Title, req.Code, req.Capacity)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteCreated(w, course); err != nil {
		logger.Error("failed to write course response", zap.Error(err))
	}
}

// HandleUpdate handles PUT /courses/{id}
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	id, ok := pathUUID(r, "id")
	if !ok {
		HandleServiceError(w, services.ErrCourseNotFound, logger)
		return
	}

	var req UpdateCourseRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	course, err := h.courses.Update(ctx, id, models.CourseUpdate{
		Title:    req.Title,
		Code:     req.Code,
		Capacity: req.Capacity,
	})
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, course); err != nil {
		logger.Error("failed to write course response", zap.Error(err))
	}
}

// HandleSetActive handles PATCH /courses/{id}/activate?active=bool
func (h *CourseHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	id, ok := pathUUID(r, "id")
	if !ok {
		HandleServiceError(w, services.ErrCourseNotFound, logger)
		return
	}

	active, err := strconv.ParseBool(r.URL.Query().Get("active"))
	if err != nil {
		HandleValidationError(w, utils.NewFieldError("active", "active must be a boolean"), logger)
		return
	}

	course, err := h.courses.SetActive(ctx, id, active)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, course); err != nil {
		logger.Error("failed to write course response", zap.Error(err))
	}
}

// HandleDelete handles DELETE /courses/{id}
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	id, ok := pathUUID(r, "id")
	if !ok {
		HandleServiceError(w, services.ErrCourseNotFound, logger)
		return
	}

	if err := h.courses.SoftDelete(ctx, id); err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteDetail(w, "course deleted"); err != nil {
		logger.Error("failed to write delete response", zap.Error(err))
	}
}
