package handlers

import (
	"net/http"

	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses.
// Internal and unrecognised errors are logged and answered with a generic message.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	message := services.GetErrorMessage(err)
	details := services.GetErrorDetails(err)
	if len(details) == 0 {
		details = nil
	}

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, message)

	case services.IsInvalidStateError(err):
		writeErr = utils.WriteError(w, http.StatusBadRequest, string(services.ErrorTypeInvalidState), message, details)

	case services.IsValidationError(err):
		writeErr = utils.WriteUnprocessable(w, message, details)

	case services.IsConflictError(err):
		writeErr = utils.WriteError(w, http.StatusConflict, string(services.ErrorTypeConflict), message, details)

	case services.IsUnauthorizedError(err):
		writeErr = utils.WriteUnauthorized(w, message)

	case services.IsForbiddenError(err):
		writeErr = utils.WriteError(w, http.StatusForbidden, string(services.ErrorTypeForbidden), message, details)

	case services.IsRateLimitError(err):
		writeErr = utils.WriteTooManyRequests(w, message, details)

	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "")

	default:
		logger.Error("unhandled error type", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError answers a request that failed decoding or validation with 422
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var writeErr error
	if utils.IsValidationError(err) {
		var details map[string]interface{}
		for k, v := range utils.GetValidationFields(err) {
			if details == nil {
				details = make(map[string]interface{})
			}
			details[k] = v
		}
		writeErr = utils.WriteUnprocessable(w, err.Error(), details)
	} else {
		logger.Debug("unclassified request error", zap.Error(err))
		writeErr = utils.WriteUnprocessable(w, utils.InvalidBodyMessage, nil)
	}

	if writeErr != nil {
		logger.Error("failed to write validation error response", zap.Error(writeErr))
	}
}

// decodeAndValidate reads the JSON body into dst and validates it, writing a
// 422 response on failure
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	return true
}
