// Package errors defines structured error types and error handling utilities
// for the rosreg service. Every error crossing a layer boundary carries a
// machine-readable code, an HTTP status, and optional metadata.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/rosverk/rosreg/pkg/constants"
)

// AppError is the structured application error used across all layers.
// Predefined errors are immutable templates; the With* methods return
// copies so shared sentinels are never mutated.
type AppError struct {
	Code        constants.ErrorCode
	Status      int
	Message     string
	Description string
	Details     map[string]string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// HTTPStatus returns the HTTP status code mapped to this error.
func (e *AppError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// Unwrap returns the underlying cause for errors.Is/As chain support.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches two AppErrors by code, so errors.Is(err, ErrNotFound) works
// on derived copies.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if stderrors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Metadata returns the context metadata attached to this error.
func (e *AppError) Metadata() map[string]interface{} {
	return e.metadata
}

func (e *AppError) clone() *AppError {
	c := &AppError{
		Code:        e.Code,
		Status:      e.Status,
		Message:     e.Message,
		Description: e.Description,
		cause:       e.cause,
	}
	if len(e.Details) > 0 {
		c.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			c.Details[k] = v
		}
	}
	if len(e.metadata) > 0 {
		c.metadata = make(map[string]interface{}, len(e.metadata))
		for k, v := range e.metadata {
			c.metadata[k] = v
		}
	}
	return c
}

// WithError returns a copy carrying err as the wrapped cause.
func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.cause = err
	return c
}

// WithMessage returns a copy with a more specific message.
func (e *AppError) WithMessage(msg string) *AppError {
	c := e.clone()
	c.Message = msg
	return c
}

// WithMessagef returns a copy with a formatted message.
func (e *AppError) WithMessagef(format string, args ...interface{}) *AppError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a copy carrying per-field validation details.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	c := e.clone()
	c.Details = details
	return c
}

// WithMetadata returns a copy with one metadata key attached.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	c := e.clone()
	if c.metadata == nil {
		c.metadata = make(map[string]interface{})
	}
	c.metadata[key] = value
	return c
}

// New creates a new AppError.
func New(code constants.ErrorCode, status int, message, description string) *AppError {
	return &AppError{
		Code:        code,
		Status:      status,
		Message:     message,
		Description: description,
	}
}

// Wrap wraps a generic error into an AppError with the given code and message.
func Wrap(err error, code constants.ErrorCode, message string) *AppError {
	return New(code, statusForCode(code), message, "").WithError(err)
}

func statusForCode(code constants.ErrorCode) int {
	switch code {
	case constants.ErrCodeInvalidRequest, constants.ErrCodeValidation, constants.ErrCodeRatingOutOfRange:
		return http.StatusBadRequest
	case constants.ErrCodeNotFound:
		return http.StatusNotFound
	case constants.ErrCodeConflict, constants.ErrCodeDuplicateMapping:
		return http.StatusConflict
	case constants.ErrCodeExportToken:
		return http.StatusUnauthorized
	case constants.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case constants.ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ================================================================================
// Predefined Errors
// ================================================================================

var (
	// ErrInvalidRequest covers malformed request payloads and parameters.
	ErrInvalidRequest = New(constants.ErrCodeInvalidRequest, http.StatusBadRequest,
		"invalid request",
		"The request is missing a required parameter, includes an invalid value, or is otherwise malformed.")

	// ErrValidation covers struct validation failures; details carry per-field messages.
	ErrValidation = New(constants.ErrCodeValidation, http.StatusBadRequest,
		"validation failed",
		"One or more fields failed validation.")

	// ErrRatingOutOfRange is returned when a likelihood or consequence rating
	// falls outside the 1-5 scale. Ratings are rejected, never clamped.
	ErrRatingOutOfRange = New(constants.ErrCodeRatingOutOfRange, http.StatusBadRequest,
		"rating out of range",
		"Likelihood and consequence ratings must be integers between 1 and 5.")

	// ErrNotFound covers lookups of records that do not exist.
	ErrNotFound = New(constants.ErrCodeNotFound, http.StatusNotFound,
		"not found",
		"The requested record does not exist.")

	// ErrConflict covers state conflicts such as closing an already closed risk.
	ErrConflict = New(constants.ErrCodeConflict, http.StatusConflict,
		"conflict",
		"The request conflicts with the current state of the record.")

	// ErrDuplicateMapping is returned when a reference mapping already exists.
	ErrDuplicateMapping = New(constants.ErrCodeDuplicateMapping, http.StatusConflict,
		"mapping already exists",
		"The reference item is already mapped to this record.")

	// ErrDatabase covers persistence failures.
	ErrDatabase = New(constants.ErrCodeDatabase, http.StatusInternalServerError,
		"database operation failed",
		"A database operation could not be completed.")

	// ErrCache covers redis/cache failures.
	ErrCache = New(constants.ErrCodeCache, http.StatusInternalServerError,
		"cache operation failed",
		"A cache operation could not be completed.")

	// ErrExportToken covers expired, malformed, or tampered download tokens.
	ErrExportToken = New(constants.ErrCodeExportToken, http.StatusUnauthorized,
		"export token invalid",
		"The download token is expired, malformed, or does not match a stored export.")

	// ErrRateLimited is returned when the fixed-window request limit is hit.
	ErrRateLimited = New(constants.ErrCodeRateLimited, http.StatusTooManyRequests,
		"rate limit exceeded",
		"Too many requests. Please try again later.")

	// ErrServiceUnavailable covers dependency outages surfaced by health checks.
	ErrServiceUnavailable = New(constants.ErrCodeServiceUnavailable, http.StatusServiceUnavailable,
		"service unavailable",
		"A required dependency is currently unavailable.")

	// ErrInternal covers unexpected conditions.
	ErrInternal = New(constants.ErrCodeInternal, http.StatusInternalServerError,
		"internal error",
		"An unexpected condition prevented the request from completing.")
)

// ================================================================================
// Predicates
// ================================================================================

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is (or wraps) a conflict error, including
// duplicate mappings.
func IsConflict(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == constants.ErrCodeConflict || appErr.Code == constants.ErrCodeDuplicateMapping
	}
	return false
}

// IsValidation reports whether err is a validation or rating-range error.
func IsValidation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == constants.ErrCodeValidation ||
			appErr.Code == constants.ErrCodeRatingOutOfRange ||
			appErr.Code == constants.ErrCodeInvalidRequest
	}
	return false
}

// ShouldLog reports whether an error is worth logging at error level.
// Client errors (4xx) are expected traffic, except rate limiting.
func ShouldLog(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		status := appErr.HTTPStatus()
		return status >= 500 || status == http.StatusTooManyRequests
	}
	return true
}
