package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies read by DecodeJSON
const maxBodyBytes = 1 << 20

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DetailResponse is the body of operations that return only a confirmation
type DetailResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteDetail writes a 200 OK response carrying a confirmation message
func WriteDetail(w http.ResponseWriter, detail string) error {
	return WriteJSON(w, http.StatusOK, DetailResponse{Detail: detail})
}

// WriteError writes an error response of the given kind
func WriteError(w http.ResponseWriter, status int, kind, message string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   kind,
		Message: message,
		Details: details,
	})
}

// WriteBadRequest writes a 400 Bad Request response for malformed requests
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteUnprocessable writes a 422 response for requests that fail validation
func WriteUnprocessable(w http.ResponseWriter, message string, details map[string]interface{}) error {
	if message == "" {
		message = "validation failed"
	}
	return WriteError(w, http.StatusUnprocessableEntity, "validation", message, details)
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "not authenticated"
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	return WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "resource not found"
	}
	return WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed response
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
}

// WriteTooManyRequests writes a 429 Too Many Requests response
func WriteTooManyRequests(w http.ResponseWriter, message string, details map[string]interface{}) error {
	if message == "" {
		message = "rate limit exceeded"
	}
	return WriteError(w, http.StatusTooManyRequests, "rate_limit", message, details)
}

// WriteInternalServerError writes a 500 response. message must not carry internal detail.
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, "internal", message, nil)
}

// WriteServiceUnavailable writes a 503 Service Unavailable response
func WriteServiceUnavailable(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusServiceUnavailable, "unavailable", message, nil)
}

// InvalidBodyMessage is the message of every body decoding failure
const InvalidBodyMessage = "invalid request body"

// DecodeJSON decodes a single JSON object from the request body into dst.
// Failures are *ValidationError values; decoder text never reaches them.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return bodyError("body", "request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return bodyError("body", "request body is required")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return bodyError(typeErr.Field, fmt.Sprintf("%s has an invalid type", typeErr.Field))
		default:
			return bodyError("body", "request body must be valid JSON")
		}
	}
	if dec.More() {
		return bodyError("body", "request body must contain a single JSON object")
	}
	return nil
}

func bodyError(field, message string) *ValidationError {
	return &ValidationError{
		Message: InvalidBodyMessage,
		Fields:  map[string]string{field: message},
	}
}
