package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/repo"
)

func seedListing(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	people := []struct{ name, lga, state, solution string }{
		{"Ada Obi", "Ikeja", "Lagos", domain.SolutionHybrid},
		{"Bola Ade", "Ibadan North", "Oyo", domain.SolutionSolarBattery},
		{"Chidi Eze", "Enugu East", "Enugu", domain.SolutionGeneratorInverter},
	}
	for i, p := range people {
		c := &domain.Client{
			FullName: p.name, Email: fmt.Sprintf("p%d@example.com", i), Phone: "08031234567",
			State: p.state, LGA: p.lga, Address: "1 Long Enough Street",
			EstimatedLoadKW: 5, DailyUsageHours: 10, PropertyType: domain.PropertyResidential,
		}
		if err := repo.CreateClient(ctx, db, c); err != nil {
			t.Fatalf("client: %v", err)
		}
		r := &domain.Recommendation{
			ClientID: c.ID, Summary: "s", Reasoning: "r", PrimarySolution: p.solution,
			SystemCapacityKW: float64(i + 3), TotalCostNGN: float64((i + 1) * 1_000_000),
			GeneratedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if i == 1 {
			roi := 24.0
			r.ROIMonths = &roi
		}
		if err := repo.CreateRecommendation(ctx, db, r); err != nil {
			t.Fatalf("recommendation: %v", err)
		}
	}
}

func TestListPage_DefaultsAndPaging(t *testing.T) {
	db := newServiceDB(t)
	seedListing(t, db)
	svc := NewListingService(db)

	rows, total, err := svc.ListPage(context.Background(), Query{PageSize: 2})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("total=%d rows=%d", total, len(rows))
	}
	// Newest first by default.
	if rows[0].ClientName != "Chidi Eze" || rows[1].ClientName != "Bola Ade" {
		t.Fatalf("default order wrong: %s, %s", rows[0].ClientName, rows[1].ClientName)
	}

	rows, _, _ = svc.ListPage(context.Background(), Query{Page: 2, PageSize: 2})
	if len(rows) != 1 || rows[0].ClientName != "Ada Obi" {
		t.Fatalf("page 2: %+v", rows)
	}
}

func TestListPage_SearchAndSort(t *testing.T) {
	db := newServiceDB(t)
	seedListing(t, db)
	svc := NewListingService(db)

	rows, total, err := svc.ListPage(context.Background(), Query{Search: "oyo"})
	if err != nil || total != 1 || rows[0].Location != "Ibadan North, Oyo" {
		t.Fatalf("search by location: total=%d rows=%+v err=%v", total, rows, err)
	}

	rows, _, _ = svc.ListPage(context.Background(), Query{SortBy: "total_cost_ngn"})
	var names []string
	for _, r := range rows {
		names = append(names, r.ClientName)
	}
	if diff := cmp.Diff([]string{"Ada Obi", "Bola Ade", "Chidi Eze"}, names); diff != "" {
		t.Fatalf("ascending cost (-want +got):\n%s", diff)
	}

	_, _, err = svc.ListPage(context.Background(), Query{SortBy: "email; DROP TABLE clients"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("unknown sort should be rejected, got %v", err)
	}

	rows, total, err = svc.ListPage(context.Background(), Query{Search: "nobody"})
	if err != nil || total != 0 || rows == nil || len(rows) != 0 {
		t.Fatalf("empty result should be an empty slice: %v %d %v", rows, total, err)
	}
}

func TestQueryNormalize_ClampsPageSize(t *testing.T) {
	q, err := Query{Page: -3, PageSize: 1000}.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.Page != 1 || q.PageSize != maxPageSize || q.SortBy != "generated_at" || !q.Desc {
		t.Fatalf("normalized: %+v", q)
	}
}

func TestStats(t *testing.T) {
	db := newServiceDB(t)
	seedListing(t, db)
	n, latest, err := NewListingService(db).Stats(context.Background(), "")
	if err != nil || n != 3 || latest == nil {
		t.Fatalf("Stats = %d, %v, %v", n, latest, err)
	}
}

func TestExport_FilteredWorkbook(t *testing.T) {
	db := newServiceDB(t)
	seedListing(t, db)
	svc := NewListingService(db)
	svc.Now = func() time.Time { return time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC) }

	name, data, err := svc.Export(context.Background(), Query{Search: "b", SortBy: "client_name", PageSize: 1})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "power-recommendations-2026-10-15.xlsx" {
		t.Fatalf("filename = %q", name)
	}

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer xl.Close()

	if got := xl.GetSheetList(); len(got) != 1 || got[0] != ExportSheet {
		t.Fatalf("sheets = %v", got)
	}
	rows, err := xl.GetRows(ExportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if diff := cmp.Diff(ExportColumns, rows[0]); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	// "b" matches Bola Ade and Obi; pagination is ignored.
	if len(rows) != 3 {
		t.Fatalf("data rows = %d; want 2 (+header)", len(rows)-1)
	}
	if rows[1][0] != "Ada Obi" || rows[2][0] != "Bola Ade" {
		t.Fatalf("rows = %v", rows[1:])
	}
	if rows[1][7] != "-" || rows[2][7] != "24" {
		t.Fatalf("ROI column = %q, %q", rows[1][7], rows[2][7])
	}
	if rows[1][8] != "1 Oct 2026" {
		t.Fatalf("date column = %q", rows[1][8])
	}
}
