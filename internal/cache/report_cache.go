package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const reportKeyPrefix = "powerwise:report:"

// store is the subset of RedisClient the report cache uses.
type store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// ReportCache caches serialized report bodies by recommendation id. Cache
// errors are logged and treated as misses.
type ReportCache struct {
	store store
	ttl   time.Duration
}

// NewReportCache builds a ReportCache over a Redis client.
func NewReportCache(rc *RedisClient, ttl time.Duration) *ReportCache {
	return &ReportCache{store: rc, ttl: ttl}
}

// GetReport returns the cached body for id, if any.
func (c *ReportCache) GetReport(ctx context.Context, id string) ([]byte, bool) {
	b, ok, err := c.store.Get(ctx, reportKeyPrefix+id)
	if err != nil {
		log.Warn().Err(err).Str("recommendation_id", id).Msg("cache: report get failed")
		return nil, false
	}
	return b, ok
}

// PutReport stores the body for id.
func (c *ReportCache) PutReport(ctx context.Context, id string, body []byte) {
	if err := c.store.Set(ctx, reportKeyPrefix+id, body, c.ttl); err != nil {
		log.Warn().Err(err).Str("recommendation_id", id).Msg("cache: report set failed")
	}
}
