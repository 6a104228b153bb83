// Package services – IntakeService
//
// IntakeService owns assessment submission: it normalizes and validates the
// form, stores the client, and synchronously asks the RecommendationService
// for a recommendation. A generation failure is reported generically and the
// stored client is kept; the reconcile worker retries such orphans later.
//
// Submissions may carry an idempotency key. A replay inside the TTL returns
// the first result without writing rows or calling the gateway.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/repo"
)

// idempotencyScope namespaces assessment keys in the idempotency table.
const idempotencyScope = "assessments"

// AssessmentInput is the submitted property and load profile.
type AssessmentInput struct {
	FullName        string  `json:"fullName"                validate:"required,min=3,max=100"`
	Email           string  `json:"email"                   validate:"required,email,max=255"`
	Phone           string  `json:"phone"                   validate:"required,min=10,ng_phone"`
	BusinessName    *string `json:"businessName,omitempty"  validate:"omitempty,max=255"`
	State           string  `json:"state"                   validate:"required,ng_state"`
	LGA             string  `json:"lga"                     validate:"required,max=100"`
	Address         string  `json:"address"                 validate:"required,min=10,max=500"`
	EstimatedLoadKW float64 `json:"estimatedLoadKW"         validate:"gte=0.5,lte=1000"`
	DailyUsageHours float64 `json:"dailyUsageHours"         validate:"gte=1,lte=24"`
	PropertyType    string  `json:"propertyType"            validate:"required,oneof=Residential Commercial Industrial"`
}

// SubmitResult is what the caller needs to navigate to the report.
type SubmitResult struct {
	RecommendationID string `json:"recommendation_id"`
	ClientID         string `json:"client_id"`
	// Locked is an advisory hint; the report recomputes lock state itself.
	Locked bool `json:"locked"`
	// Replayed is true when the result came from a stored idempotent outcome.
	Replayed bool `json:"-"`
}

// Generator is the slice of RecommendationService intake depends on.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (*domain.Recommendation, error)
}

// IntakeService handles assessment submission.
type IntakeService struct {
	DB             *gorm.DB
	Generator      Generator
	IdempotencyTTL time.Duration
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(db *gorm.DB, gen Generator, idemTTL time.Duration) *IntakeService {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &IntakeService{
		DB:             db,
		Generator:      gen,
		IdempotencyTTL: idemTTL,
	}
}

// Submit validates, stores the client, and generates one recommendation.
func (s *IntakeService) Submit(ctx context.Context, in AssessmentInput, hasSession bool) (*SubmitResult, error) {
	ctx, span := otel.Tracer("services/IntakeService").Start(ctx, "Submit",
		trace.WithAttributes(attribute.Bool("session", hasSession)),
	)
	defer span.End()

	in = normalize(in)
	if err := inputValidator.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}

	client := &domain.Client{
		FullName:        in.FullName,
		Email:           in.Email,
		Phone:           in.Phone,
		BusinessName:    in.BusinessName,
		State:           in.State,
		LGA:             in.LGA,
		Address:         in.Address,
		EstimatedLoadKW: in.EstimatedLoadKW,
		DailyUsageHours: in.DailyUsageHours,
		PropertyType:    in.PropertyType,
	}
	if err := repo.CreateClient(ctx, s.DB, client); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateClient
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("client.id", client.ID))

	rec, err := s.Generator.Generate(ctx, GenerateInput{
		ClientID:        client.ID,
		FullName:        in.FullName,
		State:           in.State,
		LGA:             in.LGA,
		EstimatedLoadKW: in.EstimatedLoadKW,
		DailyUsageHours: in.DailyUsageHours,
		PropertyType:    in.PropertyType,
	})
	if err != nil {
		// The client row stays; the reconcile worker picks it up.
		log.Error().Err(err).
			Str("client_id", client.ID).
			Str("full_name", in.FullName).
			Str("kind", string(KindOf(err))).
			Msg("intake: recommendation generation failed")
		return nil, fmt.Errorf("%w: %w", ErrRecommendationFailed, err)
	}

	return &SubmitResult{
		RecommendationID: rec.ID,
		ClientID:         client.ID,
		Locked:           !hasSession,
	}, nil
}

// SubmitIdempotent behaves like Submit, but when key is non-empty a stored
// outcome for the same key is replayed instead of repeating the work.
func (s *IntakeService) SubmitIdempotent(ctx context.Context, key string, in AssessmentInput, hasSession bool) (*SubmitResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.Submit(ctx, in, hasSession)
	}

	if res, ok := s.replay(ctx, key, hasSession); ok {
		return res, nil
	}

	res, err := s.Submit(ctx, in, hasSession)
	if err != nil {
		// A concurrent first attempt may have finished between our lookup
		// and the client insert.
		if errors.Is(err, ErrDuplicateClient) {
			if prior, ok := s.replay(ctx, key, hasSession); ok {
				return prior, nil
			}
		}
		return nil, err
	}

	_, cerr := repo.CreateIdempotency(ctx, s.DB, idempotencyScope, key, repo.IdempotencyResult{
		ClientID:         res.ClientID,
		RecommendationID: res.RecommendationID,
		Locked:           res.Locked,
		Status:           201,
	}, s.IdempotencyTTL)
	if cerr != nil && !errors.Is(cerr, repo.ErrDuplicate) {
		log.Warn().Err(cerr).Str("key", key).Msg("intake: storing idempotency record failed")
	}
	return res, nil
}

// HasReplay reports whether key has a live stored outcome. Lookup failures
// count as "no".
func (s *IntakeService) HasReplay(ctx context.Context, key string, now time.Time) bool {
	_, err := repo.GetIdempotency(ctx, s.DB, idempotencyScope, key, now)
	return err == nil
}

// replay returns the stored outcome for key. The lock hint reflects the
// replaying caller, not the first one. The request body is not compared.
func (s *IntakeService) replay(ctx context.Context, key string, hasSession bool) (*SubmitResult, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, idempotencyScope, key, time.Now().UTC())
	if err != nil {
		return nil, false
	}
	return &SubmitResult{
		RecommendationID: rec.RecommendationID,
		ClientID:         rec.ClientID,
		Locked:           !hasSession,
		Replayed:         true,
	}, true
}

// normalize trims every field, collapses runs of spaces in names, lowercases
// the email, and title-cases an LGA typed entirely in one case.
func normalize(in AssessmentInput) AssessmentInput {
	in.FullName = collapseSpaces(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.State = strings.TrimSpace(in.State)
	in.LGA = collapseSpaces(in.LGA)
	if isSingleCase(in.LGA) {
		// Casers are stateful; build one per call.
		in.LGA = cases.Title(language.English).String(in.LGA)
	}
	in.Address = strings.TrimSpace(in.Address)
	in.PropertyType = strings.TrimSpace(in.PropertyType)
	if in.BusinessName != nil {
		b := collapseSpaces(*in.BusinessName)
		if b == "" {
			in.BusinessName = nil
		} else {
			in.BusinessName = &b
		}
	}
	return in
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isSingleCase reports whether s has letters and they are all lower or all
// upper case.
func isSingleCase(s string) bool {
	var lower, upper bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return lower != upper
}
