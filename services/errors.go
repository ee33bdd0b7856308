package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeInvalidState ErrorType = "invalid_state"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeRateLimit    ErrorType = "rate_limit"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context.
// Message is safe to show to clients; Err is for logs only.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports a match when target is a DomainError of the same type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error. Do not call it on the shared Err* values.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrCourseNotFound     = NewDomainError(ErrorTypeNotFound, "course not found", nil)
	ErrEnrollmentNotFound = NewDomainError(ErrorTypeNotFound, "enrollment not found", nil)
	ErrUserNotFound       = NewDomainError(ErrorTypeNotFound, "user not found", nil)

	// Invalid State Errors
	ErrCourseInactive = NewDomainError(ErrorTypeInvalidState, "course is not active", nil)
	ErrCourseFull     = NewDomainError(ErrorTypeInvalidState, "course is full", nil)

	// Validation Errors
	ErrInvalidInput = NewDomainError(ErrorTypeValidation, "invalid input", nil)

	// Authentication Errors
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "invalid credentials", nil)
	ErrNotAuthenticated   = NewDomainError(ErrorTypeUnauthorized, "not authenticated", nil)
	ErrInvalidToken       = NewDomainError(ErrorTypeUnauthorized, "invalid or expired token", nil)
	ErrMalformedToken     = NewDomainError(ErrorTypeUnauthorized, "malformed token", nil)
	ErrUnknownCaller      = NewDomainError(ErrorTypeUnauthorized, "user not found", nil)

	// Permission Errors
	ErrAccountInactive   = NewDomainError(ErrorTypeForbidden, "account is deactivated", nil)
	ErrCallerDeactivated = NewDomainError(ErrorTypeForbidden, "account deactivated", nil)

	// Rate Limit Errors
	ErrRateLimitExceeded = NewDomainError(ErrorTypeRateLimit, "rate limit exceeded", nil)

	// Conflict Errors
	ErrAlreadyEnrolled     = NewDomainError(ErrorTypeConflict, "already enrolled in this course", nil)
	ErrEnrollmentConflict  = NewDomainError(ErrorTypeConflict, "enrollment conflict, possibly duplicate", nil)
	ErrDuplicateEmail      = NewDomainError(ErrorTypeConflict, "email already registered", nil)
	ErrDuplicateCourseCode = NewDomainError(ErrorTypeConflict, "course code already exists", nil)
	ErrCourseCodeTaken     = NewDomainError(ErrorTypeConflict, "course code already taken", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// NewForbiddenRoleError reports a caller lacking the required role
func NewForbiddenRoleError(role string) *DomainError {
	return NewDomainError(ErrorTypeForbidden, fmt.Sprintf("requires %s role", role), nil).
		WithDetail("required_role", role)
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsInvalidStateError checks if an error is an invalid state error
func IsInvalidStateError(err error) bool {
	return GetErrorType(err) == ErrorTypeInvalidState
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	return GetErrorType(err) == ErrorTypeRateLimit
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// GetErrorMessage returns the client-safe message of a domain error
func GetErrorMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error. Errors that already carry
// a domain type pass through unchanged.
func WrapInternal(message string, err error) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return NewDomainError(ErrorTypeInternal, message, err)
}
