package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/internal/observability"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// AuditReader lists audit entries, optionally for a single entity
type AuditReader interface {
	List(ctx context.Context, entityID *uuid.UUID, page models.PageRequest) (*models.Page[*models.AuditLog], error)
}

// AuditHandler serves the admin audit trail
type AuditHandler struct {
	audit  AuditReader
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audit AuditReader, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/audit/logs
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestID(ctx, h.logger)

	page, err := utils.ParsePageRequest(r)
	if err != nil {
		HandleValidationError(w, err, logger)
		return
	}

	var entityID *uuid.UUID
	if raw := r.URL.Query().Get("entity_id"); raw != "" {
		parsed, err := utils.ParseUUID(raw)
		if err != nil {
			HandleValidationError(w, utils.NewFieldError("entity_id", "entity_id must be a valid UUID"), logger)
			return
		}
		entityID = &parsed
	}

	result, err := h.audit.List(ctx, entityID, page)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		logger.Error("failed to write audit list response", zap.Error(err))
	}
}
