// Admin listing HTTP handlers (session required).
//
//   - GET /recommendations         (search, sort, paginate; ETag support)
//   - GET /recommendations/export  (same filter as an .xlsx download)
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/repo"
	"github.com/tbourn/powerwise-backend/internal/services"
	"github.com/tbourn/powerwise-backend/internal/utils"
)

// ListRecommendationsResponse wraps a page of rows and pagination information.
type ListRecommendationsResponse struct {
	Recommendations []repo.RecommendationRow `json:"recommendations"`
	Pagination      Pagination               `json:"pagination"`
}

// listETag fingerprints the filtered set; rows are immutable, so count and
// newest timestamp change whenever the result can.
func listETag(q services.Query, count, newest int64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%t|%d|%d", q.Search, q.SortBy, q.Desc, q.Page, q.PageSize)
	return fmt.Sprintf(`W/"recs:%x:%d:%d"`, h.Sum64(), count, newest)
}

// ListRecommendations godoc
// @ID          listRecommendations
// @Summary     List recommendations (admin, paginated)
// @Description Rows joined with their clients. Search is a case-insensitive substring over name, email, location and solution. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       search         query   string  false "Substring filter"                example(lagos)
// @Param       sort           query   string  false "Sort column"                     Enums(client_name, system_capacity_kw, total_cost_ngn, generated_at)
// @Param       order          query   string  false "Sort direction"                  Enums(asc, desc) default(desc)
// @Param       page           query   int     false "Page number"                     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"                  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRecommendationsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad sort column"
// @Failure     401  {object} handlers.ErrorResponse "Sign in required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations [get]
func (h *Handlers) ListRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	q := listQuery(c)

	// ETag pre-check (best effort).
	if count, newest, err := h.listing.Stats(ctx, q.Search); err == nil {
		var ts int64
		if newest != nil {
			ts = newest.UnixNano()
		}
		etag := listETag(q, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	rows, total, err := h.listing.ListPage(ctx, q)
	if err != nil {
		if failValidation(c, err, "invalid listing query") {
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list recommendations")
		return
	}

	totalPages := utils.TotalPages(total, q.PageSize)
	ok(c, http.StatusOK, ListRecommendationsResponse{
		Recommendations: rows,
		Pagination: Pagination{
			Page:       q.Page,
			PageSize:   q.PageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    q.Page < totalPages,
		},
	})
}

// ExportRecommendations godoc
// @ID          exportRecommendations
// @Summary     Export recommendations as a spreadsheet (admin)
// @Description Every row matching the filter, never the unfiltered total, in one "Recommendations" sheet.
// @Tags        Admin
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
//
// @Param       search  query  string  false "Substring filter"
// @Param       sort    query  string  false "Sort column"      Enums(client_name, system_capacity_kw, total_cost_ngn, generated_at)
// @Param       order   query  string  false "Sort direction"   Enums(asc, desc) default(desc)
//
// @Success     200  {file}   file
// @Header      200  {string} Content-Disposition  "attachment; filename=power-recommendations-YYYY-MM-DD.xlsx"
// @Failure     400  {object} handlers.ErrorResponse "Bad sort column"
// @Failure     401  {object} handlers.ErrorResponse "Sign in required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/export [get]
func (h *Handlers) ExportRecommendations(c *gin.Context) {
	name, body, err := h.listing.Export(c.Request.Context(), listQuery(c))
	if err != nil {
		if failValidation(c, err, "invalid export query") {
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, "could not build export")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, services.XLSXContentType, body)
}
