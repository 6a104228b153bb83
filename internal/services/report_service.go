// Package services – ReportService
//
// ReportService serves one recommendation report. Whether the full content is
// returned is decided here on every request: a report is unlocked when the
// caller holds a session or a paid entitlement exists for it. Nothing the
// caller sends about lock state is trusted.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/repo"
)

// ReportCache stores serialized report bodies by recommendation id.
// Implementations must treat their own failures as misses.
type ReportCache interface {
	GetReport(ctx context.Context, id string) ([]byte, bool)
	PutReport(ctx context.Context, id string, body []byte)
}

// ClientSummary is the part of the client profile shown on a report.
type ClientSummary struct {
	FullName        string  `json:"full_name"`
	State           string  `json:"state"`
	LGA             string  `json:"lga"`
	PropertyType    string  `json:"property_type"`
	EstimatedLoadKW float64 `json:"estimated_load_kw"`
	DailyUsageHours float64 `json:"daily_usage_hours"`
}

// Preview is what a locked report reveals.
type Preview struct {
	ID               string    `json:"id"`
	Summary          string    `json:"summary"`
	PrimarySolution  string    `json:"primary_solution"`
	SystemCapacityKW float64   `json:"system_capacity_kw"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// ReportView is the response for one report. Exactly one of Recommendation
// and Preview is set. Plans is only populated while locked.
type ReportView struct {
	Locked         bool                   `json:"locked"`
	Recommendation *domain.Recommendation `json:"recommendation,omitempty"`
	Preview        *Preview               `json:"preview,omitempty"`
	Client         ClientSummary          `json:"client"`
	Plans          Plans                  `json:"plans,omitempty"`
}

// cachedReport is the cache payload; lock state is never cached.
type cachedReport struct {
	Recommendation domain.Recommendation `json:"recommendation"`
	Client         ClientSummary         `json:"client"`
}

// ReportService resolves report views.
type ReportService struct {
	DB    *gorm.DB
	Cache ReportCache // optional
	Plans Plans
}

// NewReportService constructs a ReportService. cache may be nil.
func NewReportService(db *gorm.DB, cache ReportCache, plans Plans) *ReportService {
	return &ReportService{DB: db, Cache: cache, Plans: plans}
}

// Report returns the view of recommendation id. hasSession is whether the
// caller presented a valid session.
func (s *ReportService) Report(ctx context.Context, id string, hasSession bool) (*ReportView, error) {
	ctx, span := otel.Tracer("services/ReportService").Start(ctx, "Report",
		trace.WithAttributes(attribute.String("recommendation.id", id)),
	)
	defer span.End()

	body, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	unlocked := hasSession
	if !unlocked {
		paid, perr := repo.HasPaidEntitlement(ctx, s.DB, id)
		if perr != nil {
			return nil, perr
		}
		unlocked = paid
	}
	span.SetAttributes(attribute.Bool("report.locked", !unlocked))

	view := &ReportView{Locked: !unlocked, Client: body.Client}
	if unlocked {
		rec := body.Recommendation
		view.Recommendation = &rec
		return view, nil
	}
	view.Preview = &Preview{
		ID:               body.Recommendation.ID,
		Summary:          body.Recommendation.Summary,
		PrimarySolution:  body.Recommendation.PrimarySolution,
		SystemCapacityKW: body.Recommendation.SystemCapacityKW,
		GeneratedAt:      body.Recommendation.GeneratedAt,
	}
	view.Plans = s.Plans
	return view, nil
}

func (s *ReportService) load(ctx context.Context, id string) (*cachedReport, error) {
	if s.Cache != nil {
		if raw, ok := s.Cache.GetReport(ctx, id); ok {
			var c cachedReport
			if err := json.Unmarshal(raw, &c); err == nil {
				return &c, nil
			}
			log.Warn().Str("recommendation_id", id).Msg("report: discarding undecodable cache entry")
		}
	}

	rec, err := repo.GetRecommendationWithClient(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	c := &cachedReport{
		Recommendation: *rec,
		Client: ClientSummary{
			FullName:        rec.Client.FullName,
			State:           rec.Client.State,
			LGA:             rec.Client.LGA,
			PropertyType:    rec.Client.PropertyType,
			EstimatedLoadKW: rec.Client.EstimatedLoadKW,
			DailyUsageHours: rec.Client.DailyUsageHours,
		},
	}
	if s.Cache != nil {
		if raw, merr := json.Marshal(c); merr == nil {
			s.Cache.PutReport(ctx, id, raw)
		}
	}
	return c, nil
}
