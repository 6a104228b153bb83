package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

func TestGetIdempotency_BlankKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, "assessments", "   ", time.Now().UTC())
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", rec, err)
	}
}

func TestIdempotency_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	res := IdempotencyResult{ClientID: "c1", RecommendationID: "r1", Locked: true, Status: 201}

	rec, err := CreateIdempotency(ctx, db, "assessments", "k1", res, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ExpiresAt.Sub(rec.CreatedAt) != time.Hour {
		t.Fatalf("ttl not applied: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "assessments", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ClientID != "c1" || got.RecommendationID != "r1" || !got.Locked || got.Status != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := CreateIdempotency(ctx, db, "assessments", "k1", res, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same key, different scope is independent.
	if _, err := CreateIdempotency(ctx, db, "other", "k1", res, time.Hour); err != nil {
		t.Fatalf("other scope: %v", err)
	}
}

func TestIdempotency_ExpiredIsInvisibleAndReplaceable(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	old := &domain.Idempotency{ID: "old", Scope: "assessments", Key: "k1", ClientID: "c0", RecommendationID: "r0",
		Status: 201, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	if err := db.Create(old).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "assessments", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record must not be returned, got %v", err)
	}

	rec, err := CreateIdempotency(ctx, db, "assessments", "k1", IdempotencyResult{ClientID: "c1", RecommendationID: "r1", Status: 201}, time.Hour)
	if err != nil {
		t.Fatalf("re-create over expired: %v", err)
	}
	if rec.ClientID != "c1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now.Add(2*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
}
