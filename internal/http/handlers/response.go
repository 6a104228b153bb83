// Package handlers maps HTTP requests onto the PowerWise services.
//
// Every failure except the generation endpoint's is written as an
// ErrorResponse carrying a stable code from errors.go, for example:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "validation_failed",
//	  "message": "please check the highlighted fields",
//	  "fields": {"phone": "must be a Nigerian phone number"}
//	}
//
// The generation endpoint answers browsers directly and keeps the bare
// {"error": "..."} shape they expect.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope. RequestID echoes X-Request-ID so a
// support ticket can be matched to server logs.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
	// Per-field messages, only for validation_failed
	Fields map[string]string `json:"fields,omitempty"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request-scoped logger; client errors are left to the access log.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	failFields(c, status, code, msg, nil)
}

// failFields writes the envelope with optional per-field messages.
func failFields(c *gin.Context, status int, code, msg string, fields map[string]string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Fields:    fields,
	})
}

// Fail lets the router reuse the envelope for its fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// plainError is the bare `{error}` body of the generation endpoint, kept for
// the browser clients that call it directly.
type plainError struct {
	Error string `json:"error" example:"Rate limit exceeded. Please try again in a moment."`
}

// failPlain aborts with a plainError body.
func failPlain(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("message", msg).Msg("api error")
	}
	c.AbortWithStatusJSON(status, plainError{Error: msg})
}
