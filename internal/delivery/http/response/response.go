// Package response defines the single envelope every endpoint answers with.
// Success bodies are {success, data, meta?}; error bodies are produced only by
// the HTTP error handler, never ad hoc in handlers.
package response

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the unified API response structure.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
	Message string `json:"message,omitempty"`
	// Error carries the business error code and optional detail; set only by
	// the error handler.
	Error *ErrorInfo `json:"error,omitempty"`
}

// Meta is the pagination block returned by list endpoints.
type Meta struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	// Total is the unfiltered collection size, for pagination UIs.
	Total int64 `json:"total"`
}

// ErrorInfo is the detailed error block.
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Success writes a success envelope.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Data:    data,
	})
}

// List writes a success envelope with pagination meta.
func List(c echo.Context, statusCode int, data any, meta Meta) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Data:    data,
		Meta:    &meta,
	})
}

// Message writes a success envelope carrying only a human message, for
// endpoints with nothing to return (logout, uniform reset responses).
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
	})
}

// NewMeta builds the pagination block from a plan's page/limit and the
// unfiltered total.
func NewMeta(page, pageSize int, total int64) Meta {
	pageCount := 0
	if pageSize > 0 {
		pageCount = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return Meta{
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount,
		Total:     total,
	}
}
