// Package services – RecommendationService
//
// This file implements RecommendationService, which turns a stored client
// profile into a persisted Recommendation through one AI completion:
//
//	Validating → Prompting → AwaitingGateway → Parsing → Persisting → Done
//
// Any stage can end the request in a terminal *GenerationError; nothing is
// retried. Every outcome is counted in Prometheus and gateway latency is
// observed. All public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/gateway"
	"github.com/tbourn/powerwise-backend/internal/repo"
)

// GenerateInput is the client profile subset the prompt needs. It is sent
// alongside the client id rather than re-read from the database.
type GenerateInput struct {
	ClientID        string  `json:"clientId"        validate:"required"`
	FullName        string  `json:"fullName"        validate:"required"`
	State           string  `json:"state"           validate:"required"`
	LGA             string  `json:"lga"             validate:"required"`
	EstimatedLoadKW float64 `json:"estimatedLoadKW" validate:"gte=0.5,lte=1000"`
	DailyUsageHours float64 `json:"dailyUsageHours" validate:"gte=1,lte=24"`
	PropertyType    string  `json:"propertyType"    validate:"required,oneof=Residential Commercial Industrial"`
}

// GenerationSettings are the fixed completion parameters.
type GenerationSettings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultGenerationSettings mirrors the production model configuration.
func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{Model: "google/gemini-3-flash-preview", Temperature: 0.7, MaxTokens: 2000}
}

// RecommendationService runs the generation pipeline.
type RecommendationService struct {
	DB        *gorm.DB
	Completer gateway.Completer // nil means no credential is configured
	Settings  GenerationSettings
}

// NewRecommendationService wires a service with its validators.
func NewRecommendationService(db *gorm.DB, c gateway.Completer, s GenerationSettings) *RecommendationService {
	return &RecommendationService{
		DB:        db,
		Completer: c,
		Settings:  s,
	}
}

// Generate produces and stores one recommendation for an existing client.
func (s *RecommendationService) Generate(ctx context.Context, in GenerateInput) (rec *domain.Recommendation, err error) {
	ctx, span := otel.Tracer("services/RecommendationService").Start(ctx, "Generate",
		trace.WithAttributes(attribute.String("client.id", in.ClientID)),
	)
	defer span.End()

	stage := StageValidating
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, string(KindOf(err)))
		}
		span.SetAttributes(attribute.String("generation.stage", string(stage)))
		generationsTotal.WithLabelValues(outcome).Inc()
	}()

	// Validating
	if s.Completer == nil {
		return nil, fail(stage, KindConfiguration, gateway.ErrMissingCredential)
	}
	if verr := inputValidator.Struct(in); verr != nil {
		return nil, fail(stage, KindValidation, fieldErrors(verr))
	}
	if _, gerr := repo.GetClient(ctx, s.DB, in.ClientID); gerr != nil {
		if errors.Is(gerr, repo.ErrNotFound) {
			return nil, fail(stage, KindNotFound, fmt.Errorf("client %s not found", in.ClientID))
		}
		return nil, fail(stage, KindPersistence, gerr)
	}

	// Prompting
	stage = StagePrompting
	prompt, perr := renderPrompt(in)
	if perr != nil {
		return nil, fail(stage, KindConfiguration, perr)
	}

	// AwaitingGateway
	stage = StageAwaitingGateway
	start := time.Now()
	raw, cerr := s.Completer.Complete(ctx, gateway.CompletionRequest{
		Model:       s.Settings.Model,
		System:      systemInstruction,
		Prompt:      prompt,
		Temperature: s.Settings.Temperature,
		MaxTokens:   s.Settings.MaxTokens,
	})
	gatewayDuration.Observe(time.Since(start).Seconds())
	if cerr != nil {
		log.Warn().Err(cerr).Str("client_id", in.ClientID).Str("full_name", in.FullName).Msg("recommendation: gateway call failed")
		return nil, fail(stage, gatewayKind(cerr), cerr)
	}

	// Parsing
	stage = StageParsing
	parsed, perr := parseCompletion(completionValidator, raw)
	if perr != nil {
		log.Error().Err(perr).Str("client_id", in.ClientID).Str("raw", raw).Msg("recommendation: unusable completion")
		return nil, fail(stage, KindMalformedCompletion, perr)
	}
	rec = parsed.toRecommendation(in.ClientID)
	if rec.NeedsReview {
		log.Warn().Str("client_id", in.ClientID).Str("note", rec.ReviewNote).Msg("recommendation: flagged for review")
	}

	// Persisting
	stage = StagePersisting
	if werr := repo.CreateRecommendation(ctx, s.DB, rec); werr != nil {
		return nil, fail(stage, KindPersistence, werr)
	}

	stage = StageDone
	span.SetAttributes(attribute.String("recommendation.id", rec.ID))
	return rec, nil
}

// gatewayKind maps gateway sentinels onto failure kinds.
func gatewayKind(err error) Kind {
	switch {
	case errors.Is(err, gateway.ErrMissingCredential):
		return KindConfiguration
	case errors.Is(err, gateway.ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, gateway.ErrQuotaExhausted):
		return KindQuotaExhausted
	case errors.Is(err, gateway.ErrEmptyCompletion):
		return KindEmptyCompletion
	default:
		return KindGateway
	}
}

// fieldErrors converts validator errors into a *ValidationError keyed by the
// field's JSON name.
func fieldErrors(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(ves))}
	for _, fe := range ves {
		out.Fields[jsonFieldName(fe)] = describe(fe)
	}
	return out
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return strings.ToLower(fe.StructField())
	}
	return name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "ng_state":
		return "must be a Nigerian state or FCT Abuja"
	case "ng_phone":
		return "may contain only digits, spaces, +, -, ( and )"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
