package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/course-platform/backend/services"
	"github.com/upb/course-platform/backend/utils"
	"go.uber.org/zap"
)

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedError   string
		expectedMessage string
	}{
		{"not found", services.ErrCourseNotFound, http.StatusNotFound, "not_found", "course not found"},
		{"invalid state", services.ErrCourseFull, http.StatusBadRequest, "invalid_state", "course is full"},
		{"validation", services.ErrInvalidInput, http.StatusUnprocessableEntity, "validation", "invalid input"},
		{"conflict", services.ErrAlreadyEnrolled, http.StatusConflict, "conflict", "already enrolled in this course"},
		{"unauthorized", services.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized", "invalid credentials"},
		{"forbidden", services.NewForbiddenRoleError("admin"), http.StatusForbidden, "forbidden", "requires admin role"},
		{"rate limit", services.ErrRateLimitExceeded, http.StatusTooManyRequests, "rate_limit", "rate limit exceeded"},
		{"internal hides cause", services.WrapInternal("failed to enroll", errors.New("pq: deadlock detected")), http.StatusInternalServerError, "internal", "internal server error"},
		{"unknown hides cause", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeErrorBody(t, w)
			assert.Equal(t, tt.expectedError, body.Error)
			assert.Equal(t, tt.expectedMessage, body.Message)
		})
	}
}

func TestHandleServiceError_Details(t *testing.T) {
	w := httptest.NewRecorder()

	HandleServiceError(w, services.NewForbiddenRoleError("student"), zap.NewNop())

	body := decodeErrorBody(t, w)
	assert.Equal(t, "student", body.Details["required_role"])
}

func TestHandleServiceError_Nil(t *testing.T) {
	w := httptest.NewRecorder()

	HandleServiceError(w, nil, zap.NewNop())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestHandleValidationError(t *testing.T) {
	logger := zap.NewNop()

	t.Run("field errors become details", func(t *testing.T) {
		w := httptest.NewRecorder()

		HandleValidationError(w, utils.NewFieldError("email", "email must be a valid email"), logger)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, "validation", body.Error)
		assert.Equal(t, "validation failed", body.Message)
		assert.Equal(t, "email must be a valid email", body.Details["email"])
	})

	t.Run("unclassified errors get a fixed message", func(t *testing.T) {
		w := httptest.NewRecorder()

		HandleValidationError(w, errors.New("json: cannot unmarshal string into Go struct field X.y of type int"), logger)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, "invalid request body", body.Message)
		assert.Nil(t, body.Details)
	})
}
