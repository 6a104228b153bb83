package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tbourn/powerwise-backend/internal/repo"
	"github.com/tbourn/powerwise-backend/internal/services"
)

func TestListRecommendations_PageAndQuery(t *testing.T) {
	newest := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	listing := &fakeListing{
		rows:   []repo.RecommendationRow{{ID: "r1", ClientName: "Obi Okafor", Location: "Ikeja, Lagos"}},
		total:  41,
		newest: &newest,
	}
	r := newRouter(Services{Listing: listing})

	w := do(r, http.MethodGet, "/recommendations?search=lagos&sort=total_cost_ngn&order=asc&page=2&page_size=20", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	want := services.Query{Search: "lagos", SortBy: "total_cost_ngn", Desc: false, Page: 2, PageSize: 20}
	if diff := cmp.Diff(want, listing.gotQuery); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}

	var resp ListRecommendationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantPage := Pagination{Page: 2, PageSize: 20, Total: 41, TotalPages: 3, HasNext: true}
	if diff := cmp.Diff(wantPage, resp.Pagination); diff != "" {
		t.Fatalf("pagination mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].ClientName != "Obi Okafor" {
		t.Fatalf("rows: %+v", resp.Recommendations)
	}
}

func TestListRecommendations_DefaultsToNewestFirst(t *testing.T) {
	listing := &fakeListing{rows: []repo.RecommendationRow{}}
	r := newRouter(Services{Listing: listing})
	do(r, http.MethodGet, "/recommendations", nil, nil)
	if !listing.gotQuery.Desc || listing.gotQuery.Page != 1 || listing.gotQuery.PageSize != 20 {
		t.Fatalf("defaults not applied: %+v", listing.gotQuery)
	}
}

func TestListRecommendations_ETag304(t *testing.T) {
	listing := &fakeListing{rows: []repo.RecommendationRow{}, total: 3}
	r := newRouter(Services{Listing: listing})

	w := do(r, http.MethodGet, "/recommendations?search=obi", nil, nil)
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag")
	}
	w = do(r, http.MethodGet, "/recommendations?search=obi", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("want 304, got %d", w.Code)
	}

	// A different filter produces a different tag.
	w = do(r, http.MethodGet, "/recommendations?search=ada", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusOK || w.Header().Get("ETag") == etag {
		t.Fatalf("etag should depend on the query: %d %q", w.Code, w.Header().Get("ETag"))
	}

	// New rows change the tag.
	listing.total = 4
	w = do(r, http.MethodGet, "/recommendations?search=obi", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusOK {
		t.Fatalf("stale etag must not 304, got %d", w.Code)
	}
}

func TestListRecommendations_Errors(t *testing.T) {
	bad := &fakeListing{listErr: &services.ValidationError{Fields: map[string]string{"sort": "bad"}}}
	w := do(newRouter(Services{Listing: bad}), http.MethodGet, "/recommendations?sort=phone", nil, nil)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != ErrCodeValidation {
		t.Fatalf("want 400 validation_failed, got %d %s", w.Code, w.Body.String())
	}

	broken := &fakeListing{listErr: errBoom, statsErr: errBoom}
	w = do(newRouter(Services{Listing: broken}), http.MethodGet, "/recommendations", nil, nil)
	if w.Code != http.StatusInternalServerError || w.Header().Get("ETag") != "" {
		t.Fatalf("want 500 without ETag, got %d %v", w.Code, w.Header())
	}
}

func TestExportRecommendations(t *testing.T) {
	listing := &fakeListing{file: []byte("PK\x03\x04xlsx")}
	r := newRouter(Services{Listing: listing})

	w := do(r, http.MethodGet, "/recommendations/export?search=hybrid&page=4", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != services.XLSXContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="power-recommendations-2026-10-15.xlsx"` {
		t.Fatalf("content disposition = %q", cd)
	}
	if w.Body.String() != "PK\x03\x04xlsx" || listing.gotQuery.Search != "hybrid" {
		t.Fatalf("body or query not passed through")
	}

	listing.listErr = errBoom
	w = do(r, http.MethodGet, "/recommendations/export", nil, nil)
	if w.Code != http.StatusInternalServerError || decodeError(t, w).Code != ErrCodeExportFailed {
		t.Fatalf("want 500 export_failed, got %d", w.Code)
	}
}
