// Package gateway is the boundary to the language-model provider. It exposes
// a single Completer contract with two implementations: an OpenAI-compatible
// chat-completions client over HTTP and a Google GenAI client.
//
// Implementations make exactly one upstream call per Complete; there is no
// retry or circuit breaker. Provider failures are classified into the
// sentinel errors below so callers can map them without inspecting bodies.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredential means no API key is configured. Not retryable.
	ErrMissingCredential = errors.New("gateway: api key not configured")
	// ErrRateLimited maps an upstream 429.
	ErrRateLimited = errors.New("gateway: rate limited")
	// ErrQuotaExhausted maps an upstream 402 (credits exhausted).
	ErrQuotaExhausted = errors.New("gateway: quota exhausted")
	// ErrGateway covers every other non-2xx status and transport failure.
	ErrGateway = errors.New("gateway: upstream error")
	// ErrEmptyCompletion means the provider answered but the first choice
	// carried no content.
	ErrEmptyCompletion = errors.New("gateway: empty completion")
)

// CompletionRequest is one system+user exchange.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer turns a prompt into the raw text of the provider's first choice.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// StatusError is a non-2xx upstream answer that is neither 429 nor 402.
// errors.Is(err, ErrGateway) holds for it.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: upstream status %d: %s", e.Code, e.Body)
}

// Is reports ErrGateway as a match.
func (e *StatusError) Is(target error) bool { return target == ErrGateway }

// classify maps a non-2xx status to the sentinel taxonomy.
func classify(code int, body string) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrQuotaExhausted
	default:
		return &StatusError{Code: code, Body: truncate(body, 512)}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
