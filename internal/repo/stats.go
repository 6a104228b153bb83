// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// RecommendationsStats returns the number of listing rows matching search and
// the newest generated_at among them. With no rows, maxGeneratedAt is nil.
func RecommendationsStats(ctx context.Context, db *gorm.DB, search string) (count int64, maxGeneratedAt *time.Time, err error) {
	if count, err = CountRecommendationRows(ctx, db, search); err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest generated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		GeneratedAt time.Time
	}
	if err = listingBase(ctx, db, search).
		Select("r.generated_at AS generated_at").
		Order("r.generated_at DESC").
		Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.GeneratedAt, nil
}
