// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Entitlement,
// the server-side record of a purchased report unlock.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

// CreateEntitlement inserts e. Reference must be unique; a clash returns
// ErrDuplicate.
func CreateEntitlement(ctx context.Context, db *gorm.DB, e *domain.Entitlement) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = domain.EntitlementPending
	}
	if err := db.WithContext(ctx).Omit("Recommendation").Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetEntitlementByReference fetches an entitlement by its payment reference.
func GetEntitlementByReference(ctx context.Context, db *gorm.DB, ref string) (*domain.Entitlement, error) {
	var e domain.Entitlement
	if err := db.WithContext(ctx).Where("reference = ?", ref).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkEntitlementPaid flips the entitlement with ref to paid. Marking an
// already-paid row is a no-op that keeps the original PaidAt. Returns
// ErrNotFound when no row carries ref.
func MarkEntitlementPaid(ctx context.Context, db *gorm.DB, ref string, paidAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Entitlement{}).
		Where("reference = ? AND status = ?", ref, domain.EntitlementPending).
		Updates(map[string]any{
			"status":     domain.EntitlementPaid,
			"paid_at":    paidAt.UTC(),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// Nothing pending: either already paid or unknown.
	_, err := GetEntitlementByReference(ctx, db, ref)
	return err
}

// HasPaidEntitlement reports whether recommendationID has at least one paid
// entitlement.
func HasPaidEntitlement(ctx context.Context, db *gorm.DB, recommendationID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Entitlement{}).
		Where("recommendation_id = ? AND status = ?", recommendationID, domain.EntitlementPaid).
		Count(&n).Error
	return n > 0, err
}
