// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Client
// (lead) model.
//
// Clients are insert-only: there is no update or delete path. The email
// column carries a unique index, and CreateClient maps a violation of it to
// ErrDuplicate so the service layer can report a duplicate submission.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

// CreateClient inserts c, assigning a UUID and UTC CreatedAt when unset.
// A unique violation on email returns ErrDuplicate.
func CreateClient(ctx context.Context, db *gorm.DB, c *domain.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetClient fetches a client by id, or ErrNotFound.
func GetClient(ctx context.Context, db *gorm.DB, id string) (*domain.Client, error) {
	var c domain.Client
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListOrphanClients returns up to limit clients created before cutoff that
// own no recommendation, oldest first.
func ListOrphanClients(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) ([]domain.Client, error) {
	var out []domain.Client
	err := db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM recommendations r WHERE r.client_id = clients.id)").
		Order("created_at asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
