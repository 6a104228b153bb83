// Package services defines the business logic for assessment intake,
// recommendation generation, report access, payments, sessions and the admin
// listing. This file centralizes service-level error values so that they can
// be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Intake and report errors.
var (
	// ErrDuplicateClient is returned when a submission reuses an email that
	// already belongs to a stored client.
	ErrDuplicateClient = errors.New("a client with this email already exists")

	// ErrRecommendationFailed is the generic failure reported by intake when
	// generation did not complete. The underlying *GenerationError is wrapped.
	ErrRecommendationFailed = errors.New("recommendation could not be generated")

	// ErrRecommendationNotFound indicates that the requested recommendation
	// does not exist.
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

// Payment errors.
var (
	ErrInvalidPlan      = errors.New("unknown plan")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrWebhookPayload   = errors.New("malformed webhook payload")
)

// Session errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrAuthDisabled       = errors.New("session issuance is not configured")
)

// ValidationError carries per-field messages for rejected input. It is
// returned before any persistence or network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Kind classifies a terminal generation failure.
type Kind string

// Failure kinds of the generation pipeline.
const (
	KindConfiguration       Kind = "configuration"
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindRateLimited         Kind = "rate_limited"
	KindQuotaExhausted      Kind = "quota_exhausted"
	KindGateway             Kind = "gateway"
	KindEmptyCompletion     Kind = "empty_completion"
	KindMalformedCompletion Kind = "malformed_completion"
	KindPersistence         Kind = "persistence"
)

// Stage is a state of the per-request generation state machine.
type Stage string

// Generation stages, in order. Any stage may end in failure; none retries.
const (
	StageValidating      Stage = "validating"
	StagePrompting       Stage = "prompting"
	StageAwaitingGateway Stage = "awaiting_gateway"
	StageParsing         Stage = "parsing"
	StagePersisting      Stage = "persisting"
	StageDone            Stage = "done"
)

// GenerationError is the terminal Failed(kind) state of one generation.
type GenerationError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or "" when err is not a
// generation failure.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func fail(stage Stage, kind Kind, err error) *GenerationError {
	return &GenerationError{Stage: stage, Kind: kind, Err: err}
}
