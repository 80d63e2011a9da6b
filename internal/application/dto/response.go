// Package dto defines the request and response shapes of the HTTP API.
// All responses share the APIResponse envelope.
package dto

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/rosverk/rosreg/pkg/errors"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO carries the machine-readable error surface.
type ErrorDTO struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Description string            `json:"description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// PaginationResponse is the paging metadata of list endpoints.
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes paging metadata from a page request and total count.
func NewPagination(page, pageSize int, total int64) PaginationResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return PaginationResponse{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// SuccessResponse wraps data in a success envelope.
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse wraps an error in a failure envelope. AppErrors keep their
// code and details; anything else is reported as an internal error.
func ErrorResponse(err error, traceID string) *APIResponse {
	var errorDTO *ErrorDTO
	if appErr, ok := errors.AsAppError(err); ok {
		errorDTO = &ErrorDTO{
			Code:        string(appErr.Code),
			Message:     appErr.Message,
			Description: appErr.Description,
			Details:     appErr.Details,
		}
	} else {
		errorDTO = &ErrorDTO{
			Code:        string(errors.ErrInternal.Code),
			Message:     errors.ErrInternal.Message,
			Description: err.Error(),
		}
	}
	return &APIResponse{
		Success:   false,
		Error:     errorDTO,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// TraceIDFromContext returns the active trace id, or "" when the request
// is not being traced.
func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
