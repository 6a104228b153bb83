package domain

import "time"

// Idempotency stores the outcome of a completed assessment submission keyed by
// (scope, key), so a client retrying with the same Idempotency-Key receives the
// original result instead of a duplicate-email rejection or a second AI call.
type Idempotency struct {
	ID               string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Scope            string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:1"`
	Key              string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:2"`
	ClientID         string    `gorm:"type:TEXT NOT NULL"`
	RecommendationID string    `gorm:"type:TEXT NOT NULL"`
	Locked           bool      `gorm:"not null"`
	Status           int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt        time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt        time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
