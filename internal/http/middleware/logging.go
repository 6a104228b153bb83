// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the correlation ID injector, the request logger and the
// panic recovery handler:
//
//   - RequestID() reuses or mints an X-Request-ID per request.
//   - RequestLogger() attaches a request-scoped zerolog.Logger and writes one
//     access log line per request. Query strings and header values are
//     scrubbed of emails, phone numbers and UUIDs; credential headers are
//     masked outright. Bodies are never logged, since assessment payloads are
//     full of contact details.
//   - Recovery() turns panics into the standard JSON 500 envelope.
//
// Install in this order: RequestID, RequestLogger, Recovery.
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey      = "requestID"
	loggerKey         = "logger"
	requestIDHeader   = "X-Request-ID"
	maxQueryLogLength = 2048
)

// RequestID attaches the incoming X-Request-ID, or a new UUID, to the context
// and the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// LogOptions configures RequestLogger.
type LogOptions struct {
	// MaskHeaders are extra header names whose values are replaced entirely.
	// Authorization, Cookie, Set-Cookie and the payment signature header are
	// always masked.
	MaskHeaders []string
	// SkipPaths are routes that are not access-logged (probes, scrapes).
	SkipPaths []string
}

// UUIDs go first so the phone pattern never eats their digit groups.
var (
	redactUUID  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
	redactEmail = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+(?:@|%40)[a-z0-9.\-]+\.[a-z]{2,}`)
	redactPhone = regexp.MustCompile(`(?:\+|%2B)?(?:\d[\s().\-]?){9,14}\d`)
)

// Redact scrubs identifiers from s.
func Redact(s string) string {
	if s == "" {
		return s
	}
	s = redactUUID.ReplaceAllString(s, "[id]")
	s = redactEmail.ReplaceAllString(s, "[email]")
	return redactPhone.ReplaceAllString(s, "[phone]")
}

// RequestLogger emits one structured line per request at a level chosen by
// outcome: error for 5xx or recorded gin errors, warn for 4xx, info otherwise.
func RequestLogger(opts LogOptions) gin.HandlerFunc {
	masked := map[string]struct{}{
		"authorization":        {},
		"cookie":               {},
		"set-cookie":           {},
		"x-paystack-signature": {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		rid, _ := c.Get(requestIDKey)
		l := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		if _, ok := skip[path]; ok {
			return
		}

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := masked[strings.ToLower(k)]; ok {
				headers[k] = "[REDACTED]"
				continue
			}
			headers[k] = Redact(strings.Join(vv, ", "))
		}

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0 || status >= http.StatusInternalServerError:
			ev = l.Error()
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", c.Errors.String())
			}
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		uid, _ := c.Get(ctxKeyUserID)
		ev.Str("user_id", asString(uid)).
			Str("query", truncate(Redact(c.Request.URL.RawQuery), maxQueryLogLength)).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int64("bytes_in", c.Request.ContentLength).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

// Recovery converts a panic into the standard 500 envelope and logs the
// stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid, _ := c.Get(requestIDKey)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			if PlainErrors(c) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unknown error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": asString(rid),
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// RequestLogger is not installed.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
