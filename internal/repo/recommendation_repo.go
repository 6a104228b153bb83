// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Recommendation model and the admin listing that joins it with clients.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

// CreateRecommendation inserts r, assigning a UUID and UTC GeneratedAt when
// unset. The owning client must exist (foreign key).
func CreateRecommendation(ctx context.Context, db *gorm.DB, r *domain.Recommendation) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Omit("Client").Create(r).Error
}

// GetRecommendation fetches a recommendation by id, or ErrNotFound.
func GetRecommendation(ctx context.Context, db *gorm.DB, id string) (*domain.Recommendation, error) {
	var r domain.Recommendation
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecommendationWithClient fetches a recommendation and preloads its client.
func GetRecommendationWithClient(ctx context.Context, db *gorm.DB, id string) (*domain.Recommendation, error) {
	var r domain.Recommendation
	if err := db.WithContext(ctx).Preload("Client").Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// RecommendationRow is one line of the admin listing: a recommendation with
// its client's contact details flattened in.
type RecommendationRow struct {
	ID               string    `json:"id"                 gorm:"column:id"`
	ClientName       string    `json:"client_name"        gorm:"column:client_name"`
	ClientEmail      string    `json:"client_email"       gorm:"column:client_email"`
	ClientPhone      string    `json:"client_phone"       gorm:"column:client_phone"`
	Location         string    `json:"location"           gorm:"column:location"`
	PrimarySolution  string    `json:"primary_solution"   gorm:"column:primary_solution"`
	SystemCapacityKW float64   `json:"system_capacity_kw" gorm:"column:system_capacity_kw"`
	TotalCostNGN     float64   `json:"total_cost_ngn"     gorm:"column:total_cost_ngn"`
	ROIMonths        *float64  `json:"roi_months"         gorm:"column:roi_months"`
	NeedsReview      bool      `json:"needs_review"       gorm:"column:needs_review"`
	GeneratedAt      time.Time `json:"generated_at"       gorm:"column:generated_at"`
}

// ListFilter narrows and orders the admin listing. SortBy must be one of the
// keys in sortColumns; anything else falls back to generated_at.
type ListFilter struct {
	Search string
	SortBy string
	Desc   bool
}

var sortColumns = map[string]string{
	"client_name":        "c.full_name",
	"system_capacity_kw": "r.system_capacity_kw",
	"total_cost_ngn":     "r.total_cost_ngn",
	"generated_at":       "r.generated_at",
}

// IsSortColumn reports whether name is an accepted listing sort key.
func IsSortColumn(name string) bool {
	_, ok := sortColumns[name]
	return ok
}

const locationExpr = "(c.lga || ', ' || c.state)"

// listingBase builds the joined, filtered query shared by listing, counting
// and stats.
func listingBase(ctx context.Context, db *gorm.DB, search string) *gorm.DB {
	q := db.WithContext(ctx).
		Table("recommendations AS r").
		Joins("JOIN clients AS c ON c.id = r.client_id")
	if s := strings.TrimSpace(search); s != "" {
		pat := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where(
			"LOWER(c.full_name) LIKE ? ESCAPE '\\' OR LOWER(c.email) LIKE ? ESCAPE '\\' OR LOWER"+locationExpr+" LIKE ? ESCAPE '\\' OR LOWER(r.primary_solution) LIKE ? ESCAPE '\\'",
			pat, pat, pat, pat,
		)
	}
	return q
}

// ListRecommendationRows returns one page of the joined listing. A negative
// limit returns every matching row (used by export).
func ListRecommendationRows(ctx context.Context, db *gorm.DB, f ListFilter, offset, limit int) ([]RecommendationRow, error) {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns["generated_at"]
	}
	dir := " asc"
	if f.Desc {
		dir = " desc"
	}

	q := listingBase(ctx, db, f.Search).
		Select("r.id AS id, c.full_name AS client_name, c.email AS client_email, c.phone AS client_phone, " +
			locationExpr + " AS location, r.primary_solution AS primary_solution, " +
			"r.system_capacity_kw AS system_capacity_kw, r.total_cost_ngn AS total_cost_ngn, " +
			"r.roi_months AS roi_months, r.needs_review AS needs_review, r.generated_at AS generated_at").
		Order(col + dir).
		Order("r.id" + dir)
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}

	var out []RecommendationRow
	err := q.Scan(&out).Error
	return out, err
}

// CountRecommendationRows returns the number of rows matching search.
func CountRecommendationRows(ctx context.Context, db *gorm.DB, search string) (int64, error) {
	var total int64
	err := listingBase(ctx, db, search).Count(&total).Error
	return total, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
