package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

// newTestDB opens a unique in-memory database per test so schemas never leak
// across tests. Pass models to migrate; pass none to test missing-table paths.
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func allModels() []any {
	return []any{&domain.Client{}, &domain.Recommendation{}, &domain.Entitlement{}, &domain.Account{}, &domain.Idempotency{}}
}

func mustClient(t *testing.T, db *gorm.DB, name, email, state, lga string, created time.Time) *domain.Client {
	t.Helper()
	c := &domain.Client{
		FullName: name, Email: email, Phone: "08031234567",
		State: state, LGA: lga, Address: "10 Marina Road, " + lga,
		EstimatedLoadKW: 5, DailyUsageHours: 10, PropertyType: domain.PropertyResidential,
		CreatedAt: created,
	}
	if err := CreateClient(context.Background(), db, c); err != nil {
		t.Fatalf("CreateClient(%s): %v", email, err)
	}
	return c
}

func mustRecommendation(t *testing.T, db *gorm.DB, clientID, solution string, kw, total float64, at time.Time) *domain.Recommendation {
	t.Helper()
	r := &domain.Recommendation{
		ClientID: clientID, Summary: "summary", Reasoning: "reasoning",
		PrimarySolution: solution, SystemCapacityKW: kw,
		EquipmentCostNGN: total, TotalCostNGN: total,
		Products:    []domain.Product{{Category: "Inverter", Name: "5kVA", Quantity: 1, UnitPriceNGN: total, TotalPriceNGN: total}},
		GeneratedAt: at,
	}
	if err := CreateRecommendation(context.Background(), db, r); err != nil {
		t.Fatalf("CreateRecommendation: %v", err)
	}
	return r
}
