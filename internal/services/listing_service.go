// Package services – ListingService
//
// ListingService backs the admin view over stored recommendations: search,
// sort and pagination over recommendation rows joined with their clients,
// plus the spreadsheet export of the same filtered set.
package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/repo"
	"github.com/tbourn/powerwise-backend/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "generated_at"
)

// Query selects and orders listing rows.
type Query struct {
	Search   string
	SortBy   string
	Desc     bool
	Page     int
	PageSize int
}

// ListingService serves the admin listing and export.
type ListingService struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewListingService constructs a ListingService.
func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

// normalize applies defaults and rejects unknown sort columns. An empty sort
// means newest first.
func (q Query) normalize() (Query, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.SortBy = strings.TrimSpace(q.SortBy)
	if q.SortBy == "" {
		q.SortBy, q.Desc = defaultSort, true
	}
	if !repo.IsSortColumn(q.SortBy) {
		return q, &ValidationError{Fields: map[string]string{
			"sort": "must be one of: client_name system_capacity_kw total_cost_ngn generated_at",
		}}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q, nil
}

// ListPage returns one page of rows and the filtered total.
func (s *ListingService) ListPage(ctx context.Context, q Query) ([]repo.RecommendationRow, int64, error) {
	ctx, span := otel.Tracer("services/ListingService").Start(ctx, "ListPage",
		trace.WithAttributes(attribute.String("sort", q.SortBy), attribute.Int("page", q.Page)),
	)
	defer span.End()

	q, err := q.normalize()
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountRecommendationRows(ctx, s.DB, q.Search)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []repo.RecommendationRow{}, 0, nil
	}

	offset := utils.Offset(q.Page, q.PageSize)
	rows, err := repo.ListRecommendationRows(ctx, s.DB, repo.ListFilter{
		Search: q.Search,
		SortBy: q.SortBy,
		Desc:   q.Desc,
	}, offset, q.PageSize)
	return rows, total, err
}

// Stats returns the filtered count and newest generation time, used as a
// cheap validator for conditional listing requests.
func (s *ListingService) Stats(ctx context.Context, search string) (int64, *time.Time, error) {
	return repo.RecommendationsStats(ctx, s.DB, strings.TrimSpace(search))
}
