// Package domain defines the persistence models for leads, generated
// recommendations, and report entitlements. These types are mapped with GORM
// and form the core data layer of the advisory backend.
package domain

import (
	"time"
)

// Client is one submitted lead. A client is created once at submission time
// and never updated or deleted by this system.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Email: unique across all clients; a duplicate submission is rejected.
//   - BusinessName: optional, stored as NULL when omitted.
//   - EstimatedLoadKW / DailyUsageHours: load profile used in the prompt.
//   - PropertyType: one of PropertyTypes.
type Client struct {
	ID              string    `json:"id"                gorm:"type:char(36);primaryKey"`
	FullName        string    `json:"full_name"         gorm:"type:varchar(100);not null"`
	Email           string    `json:"email"             gorm:"type:varchar(255);not null;uniqueIndex:ux_clients_email"`
	Phone           string    `json:"phone"             gorm:"type:varchar(32);not null"`
	BusinessName    *string   `json:"business_name"     gorm:"type:varchar(255)"`
	State           string    `json:"state"             gorm:"type:varchar(32);not null"`
	LGA             string    `json:"lga"               gorm:"column:lga;type:varchar(100);not null"`
	Address         string    `json:"address"           gorm:"type:varchar(500);not null"`
	EstimatedLoadKW float64   `json:"estimated_load_kw" gorm:"column:estimated_load_kw;not null"`
	DailyUsageHours float64   `json:"daily_usage_hours" gorm:"not null"`
	PropertyType    string    `json:"property_type"     gorm:"type:varchar(16);not null"`
	CreatedAt       time.Time `json:"created_at"        gorm:"index:idx_clients_created"`
}

// TableName returns the database table name for Client.
func (Client) TableName() string { return "clients" }

// Product is a single equipment line item inside a recommendation. Line items
// are stored as a JSON array on the recommendation row, in the order the
// model produced them, so the JSON keys follow the completion schema.
type Product struct {
	Category      string  `json:"category"      validate:"required"`
	Name          string  `json:"name"          validate:"required"`
	Quantity      float64 `json:"quantity"      validate:"gt=0"`
	UnitPriceNGN  float64 `json:"unitPriceNGN"  validate:"gte=0"`
	TotalPriceNGN float64 `json:"totalPriceNGN" validate:"gte=0"`
	Supplier      string  `json:"supplier"`
}

// Recommendation is the AI-generated equipment proposal for a client. Rows are
// immutable after creation. A client may own several recommendations.
//
// All currency amounts are Nigerian Naira. NeedsReview is set when the
// generated figures are internally inconsistent (for instance the total does
// not equal equipment plus installation); ReviewNote explains why.
type Recommendation struct {
	ID                   string    `json:"id"                     gorm:"type:char(36);primaryKey"`
	ClientID             string    `json:"client_id"              gorm:"type:char(36);not null;index:idx_recs_client"`
	Summary              string    `json:"summary"                gorm:"type:text;not null"`
	Reasoning            string    `json:"reasoning"              gorm:"type:text;not null"`
	PrimarySolution      string    `json:"primary_solution"       gorm:"type:varchar(32);not null"`
	SystemCapacityKW     float64   `json:"system_capacity_kw"     gorm:"column:system_capacity_kw;not null"`
	SolarPanelsCount     *int      `json:"solar_panels_count"`
	BatteryCapacityKWh   *float64  `json:"battery_capacity_kwh"   gorm:"column:battery_capacity_kwh"`
	InverterSizeKW       *float64  `json:"inverter_size_kw"       gorm:"column:inverter_size_kw"`
	EquipmentCostNGN     float64   `json:"equipment_cost_ngn"     gorm:"column:equipment_cost_ngn;not null"`
	InstallationCostNGN  float64   `json:"installation_cost_ngn"  gorm:"column:installation_cost_ngn;not null"`
	TotalCostNGN         float64   `json:"total_cost_ngn"         gorm:"column:total_cost_ngn;not null"`
	MonthlyOperatingCost float64   `json:"monthly_operating_cost" gorm:"not null"`
	ROIMonths            *float64  `json:"roi_months"             gorm:"column:roi_months"`
	Products             []Product `json:"products_json"          gorm:"column:products_json;serializer:json;type:text"`
	NeedsReview          bool      `json:"needs_review"           gorm:"not null;default:false"`
	ReviewNote           string    `json:"review_note,omitempty"  gorm:"type:text"`
	GeneratedAt          time.Time `json:"generated_at"           gorm:"index:idx_recs_generated"`

	// Client is the owning lead.
	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recommendation.
func (Recommendation) TableName() string { return "recommendations" }

// Entitlement statuses.
const (
	EntitlementPending = "pending"
	EntitlementPaid    = "paid"
)

// Entitlement records a purchase that unlocks one recommendation report.
// A checkout creates a pending row; the payment provider's signed webhook
// flips it to paid.
type Entitlement struct {
	ID               string     `json:"id"                gorm:"type:char(36);primaryKey"`
	RecommendationID string     `json:"recommendation_id" gorm:"type:char(36);not null;index:idx_ent_rec"`
	Plan             string     `json:"plan"              gorm:"type:varchar(16);not null"`
	Reference        string     `json:"reference"         gorm:"type:varchar(64);not null;uniqueIndex:ux_ent_reference"`
	AmountNGN        float64    `json:"amount_ngn"        gorm:"column:amount_ngn;not null"`
	Status           string     `json:"status"            gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','paid')"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Recommendation Recommendation `json:"-" gorm:"foreignKey:RecommendationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Entitlement.
func (Entitlement) TableName() string { return "entitlements" }

// Account is a locally registered identity used by the default session
// authenticator.
type Account struct {
	ID           string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_accounts_email"`
	PasswordHash string    `json:"-"     gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for Account.
func (Account) TableName() string { return "accounts" }
