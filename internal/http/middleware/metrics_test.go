package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteTemplateAndUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/recommendations/:id", func(c *gin.Context) { c.String(http.StatusOK, "report") })

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/recommendations/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404"))

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recommendations/"+id, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET /recommendations/%s -> %d", id, w.Code)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope -> %d", w.Code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/recommendations/:id", "200")); got != baseOK+3 {
		t.Fatalf("templated counter = %v; want %v", got, baseOK+3)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404")); got != base404+1 {
		t.Fatalf("unmatched counter = %v; want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}
