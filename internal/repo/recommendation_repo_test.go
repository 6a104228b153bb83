package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

func TestCreateRecommendation_RoundTrip(t *testing.T) {
	db := newTestDB(t, allModels()...)
	c := mustClient(t, db, "Ada Obi", "ada@example.com", "Lagos", "Ikeja", time.Now().UTC())

	roi := 36.0
	r := &domain.Recommendation{
		ClientID: c.ID, Summary: "s", Reasoning: "r", PrimarySolution: domain.SolutionSolarBattery,
		SystemCapacityKW: 6, EquipmentCostNGN: 2_000_000, InstallationCostNGN: 300_000,
		TotalCostNGN: 2_300_000, ROIMonths: &roi,
		Products: []domain.Product{
			{Category: "Solar Panels", Name: "550W", Quantity: 8, UnitPriceNGN: 100_000, TotalPriceNGN: 800_000},
			{Category: "Battery", Name: "5kWh", Quantity: 2, UnitPriceNGN: 600_000, TotalPriceNGN: 1_200_000},
		},
	}
	if err := CreateRecommendation(context.Background(), db, r); err != nil {
		t.Fatalf("CreateRecommendation: %v", err)
	}
	if r.ID == "" || r.GeneratedAt.IsZero() {
		t.Fatalf("id/generated_at not assigned: %+v", r)
	}

	got, err := GetRecommendationWithClient(context.Background(), db, r.ID)
	if err != nil {
		t.Fatalf("GetRecommendationWithClient: %v", err)
	}
	if diff := cmp.Diff(r.Products, got.Products); diff != "" {
		t.Fatalf("products mismatch (-want +got):\n%s", diff)
	}
	if got.Client.Email != "ada@example.com" || got.ROIMonths == nil || *got.ROIMonths != 36 {
		t.Fatalf("unexpected readback: %+v", got)
	}
}

func TestCreateRecommendation_UnknownClient(t *testing.T) {
	db := newTestDB(t, allModels()...)
	r := &domain.Recommendation{ClientID: "nope", Summary: "s", Reasoning: "r", PrimarySolution: domain.SolutionHybrid}
	if err := CreateRecommendation(context.Background(), db, r); err == nil {
		t.Fatalf("expected foreign key error")
	}
}

func TestGetRecommendation_NotFound(t *testing.T) {
	db := newTestDB(t, allModels()...)
	if _, err := GetRecommendation(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecommendationRows_SearchSortPaginate(t *testing.T) {
	db := newTestDB(t, allModels()...)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	ada := mustClient(t, db, "Ada Obi", "ada@example.com", "Lagos", "Ikeja", base)
	bola := mustClient(t, db, "Bola Tinubu", "bola@example.com", "Oyo", "Ibadan North", base)
	chidi := mustClient(t, db, "Chidi Eze", "chidi@sample.ng", "Enugu", "Nsukka", base)

	rAda := mustRecommendation(t, db, ada.ID, domain.SolutionSolarBattery, 6, 3_000_000, base.Add(1*time.Hour))
	rBola := mustRecommendation(t, db, bola.ID, domain.SolutionHybrid, 10, 5_000_000, base.Add(2*time.Hour))
	rChidi := mustRecommendation(t, db, chidi.ID, domain.SolutionGeneratorInverter, 3, 1_500_000, base.Add(3*time.Hour))

	ctx := context.Background()
	ids := func(rows []RecommendationRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.ID
		}
		return out
	}

	t.Run("default newest first", func(t *testing.T) {
		rows, err := ListRecommendationRows(ctx, db, ListFilter{SortBy: "generated_at", Desc: true}, 0, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if diff := cmp.Diff([]string{rChidi.ID, rBola.ID, rAda.ID}, ids(rows)); diff != "" {
			t.Fatalf("order (-want +got):\n%s", diff)
		}
		if rows[0].Location != "Nsukka, Enugu" || rows[0].ClientName != "Chidi Eze" || rows[0].ClientPhone == "" {
			t.Fatalf("joined fields wrong: %+v", rows[0])
		}
	})

	t.Run("unknown sort falls back to generated_at", func(t *testing.T) {
		rows, err := ListRecommendationRows(ctx, db, ListFilter{SortBy: "drop table", Desc: false}, 0, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if diff := cmp.Diff([]string{rAda.ID, rBola.ID, rChidi.ID}, ids(rows)); diff != "" {
			t.Fatalf("order (-want +got):\n%s", diff)
		}
	})

	t.Run("sort by total cost", func(t *testing.T) {
		rows, err := ListRecommendationRows(ctx, db, ListFilter{SortBy: "total_cost_ngn", Desc: true}, 0, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if diff := cmp.Diff([]string{rBola.ID, rAda.ID, rChidi.ID}, ids(rows)); diff != "" {
			t.Fatalf("order (-want +got):\n%s", diff)
		}
	})

	t.Run("sort by client name ascending", func(t *testing.T) {
		rows, err := ListRecommendationRows(ctx, db, ListFilter{SortBy: "client_name"}, 0, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if diff := cmp.Diff([]string{rAda.ID, rBola.ID, rChidi.ID}, ids(rows)); diff != "" {
			t.Fatalf("order (-want +got):\n%s", diff)
		}
	})

	t.Run("search is case-insensitive over name, email, location, solution", func(t *testing.T) {
		cases := map[string][]string{
			"OBI":          {rAda.ID},
			"sample.ng":    {rChidi.ID},
			"ibadan north": {rBola.ID},
			", lagos":      {rAda.ID},
			"hybrid":       {rBola.ID},
			"nobody":       {},
		}
		for q, want := range cases {
			rows, err := ListRecommendationRows(ctx, db, ListFilter{Search: q, SortBy: "generated_at", Desc: true}, 0, 10)
			if err != nil {
				t.Fatalf("search %q: %v", q, err)
			}
			if diff := cmp.Diff(want, ids(rows)); diff != "" {
				t.Errorf("search %q (-want +got):\n%s", q, diff)
			}
			n, err := CountRecommendationRows(ctx, db, q)
			if err != nil || n != int64(len(want)) {
				t.Errorf("count %q = %d, err=%v; want %d", q, n, err, len(want))
			}
		}
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		rows, err := ListRecommendationRows(ctx, db, ListFilter{Search: "%"}, 0, 10)
		if err != nil || len(rows) != 0 {
			t.Fatalf("'%%' should match nothing literally, got %d rows err=%v", len(rows), err)
		}
	})

	t.Run("pagination and unlimited", func(t *testing.T) {
		page2, err := ListRecommendationRows(ctx, db, ListFilter{SortBy: "generated_at", Desc: true}, 1, 1)
		if err != nil || len(page2) != 1 || page2[0].ID != rBola.ID {
			t.Fatalf("page 2 unexpected: %+v err=%v", page2, err)
		}
		all, err := ListRecommendationRows(ctx, db, ListFilter{}, 0, -1)
		if err != nil || len(all) != 3 {
			t.Fatalf("unlimited should return all rows: %d err=%v", len(all), err)
		}
	})
}

func TestIsSortColumn(t *testing.T) {
	for _, ok := range []string{"client_name", "system_capacity_kw", "total_cost_ngn", "generated_at"} {
		if !IsSortColumn(ok) {
			t.Errorf("IsSortColumn(%q) = false", ok)
		}
	}
	if IsSortColumn("email") {
		t.Errorf("email must not be sortable")
	}
}
