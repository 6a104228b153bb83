package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/gateway"
	"github.com/tbourn/powerwise-backend/internal/repo"
)

func allModels() []any {
	return []any{&domain.Client{}, &domain.Recommendation{}, &domain.Entitlement{}, &domain.Account{}, &domain.Idempotency{}}
}

// newServiceDB opens an isolated in-memory DB. With no models given, every
// table is migrated.
func newServiceDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if len(models) == 0 {
		models = allModels()
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedClient(t *testing.T, db *gorm.DB, email string) *domain.Client {
	t.Helper()
	c := &domain.Client{
		FullName: "Ada Obi", Email: email, Phone: "0803 123 4567",
		State: "Lagos", LGA: "Ikeja", Address: "12 Allen Avenue, Ikeja",
		EstimatedLoadKW: 5, DailyUsageHours: 12, PropertyType: domain.PropertyResidential,
	}
	if err := repo.CreateClient(context.Background(), db, c); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func seedRecommendation(t *testing.T, db *gorm.DB, clientID string) *domain.Recommendation {
	t.Helper()
	roi := 36.0
	r := &domain.Recommendation{
		ClientID: clientID, Summary: "A 5 kW hybrid system.", Reasoning: "Because.",
		PrimarySolution: domain.SolutionHybrid, SystemCapacityKW: 5,
		EquipmentCostNGN: 3_000_000, InstallationCostNGN: 500_000, TotalCostNGN: 3_500_000,
		MonthlyOperatingCost: 10_000, ROIMonths: &roi,
		Products:    []domain.Product{{Category: "Inverter", Name: "5kVA hybrid", Quantity: 1, UnitPriceNGN: 350_000, TotalPriceNGN: 350_000, Supplier: "Ikeja Power"}},
		GeneratedAt: time.Now().UTC(),
	}
	if err := repo.CreateRecommendation(context.Background(), db, r); err != nil {
		t.Fatalf("seed recommendation: %v", err)
	}
	return r
}

// fakeCompleter returns a fixed reply and records the requests it saw.
type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []gateway.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req gateway.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func (f *fakeCompleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

const validCompletion = `{
  "summary": "A 6 kW solar and battery system.",
  "reasoning": "Lagos has good irradiance and unreliable grid supply.",
  "primarySolution": "Solar+Battery",
  "systemCapacityKW": 6,
  "solarPanelsCount": 12,
  "batteryCapacityKWh": 10,
  "inverterSizeKW": 6,
  "products": [
    {"category": "Solar Panels", "name": "550W mono", "quantity": 12, "unitPriceNGN": 100000, "totalPriceNGN": 1200000, "supplier": "Lagos Solar"},
    {"category": "Battery", "name": "5kWh lithium", "quantity": 2, "unitPriceNGN": 500000, "totalPriceNGN": 1000000, "supplier": "Lagos Solar"}
  ],
  "equipmentCostNGN": 2500000,
  "installationCostNGN": 400000,
  "totalCostNGN": 2900000,
  "monthlyOperatingCost": 15000,
  "roiMonths": 30
}`

func validGenerateInput(clientID string) GenerateInput {
	return GenerateInput{
		ClientID: clientID, FullName: "Ada Obi", State: "Lagos", LGA: "Ikeja",
		EstimatedLoadKW: 5, DailyUsageHours: 12, PropertyType: domain.PropertyResidential,
	}
}

func validAssessment(email string) AssessmentInput {
	return AssessmentInput{
		FullName: "Ada Obi", Email: email, Phone: "+234 803 123 4567",
		State: "Lagos", LGA: "Ikeja", Address: "12 Allen Avenue, Ikeja",
		EstimatedLoadKW: 5, DailyUsageHours: 12, PropertyType: domain.PropertyResidential,
	}
}
