// Recommendation HTTP handlers.
//
//   - POST /make_recommendation    (generation surface for browser clients)
//   - GET  /recommendations/{id}   (report view, lock computed server side)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/powerwise-backend/internal/http/middleware"
	"github.com/tbourn/powerwise-backend/internal/services"
)

// Messages of the generation endpoint. Browser clients show them verbatim.
const (
	msgRateLimited    = "Rate limit exceeded. Please try again in a moment."
	msgQuotaExhausted = "AI credits exhausted. Please add credits to continue."
)

// generationCORSHeaders are sent on every /make_recommendation response,
// including failures and preflights.
var generationCORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// GenerationCORS sets the permissive cross-origin headers of the generation
// endpoint and answers preflights.
func GenerationCORS(c *gin.Context) {
	SetGenerationHeaders(c)
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// SetGenerationHeaders writes the generation endpoint's cross-origin headers
// and switches middleware rejections to the bare {error} body. The router
// calls it ahead of every middleware that can reject a request.
func SetGenerationHeaders(c *gin.Context) {
	for k, v := range generationCORSHeaders {
		c.Header(k, v)
	}
	middleware.UsePlainErrors(c)
}

// statusForKind maps a generation failure kind onto an HTTP status for the
// assessment envelope.
func statusForKind(k services.Kind) int {
	switch k {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindRateLimited:
		return http.StatusTooManyRequests
	case services.KindQuotaExhausted:
		return http.StatusPaymentRequired
	case services.KindConfiguration:
		return http.StatusServiceUnavailable
	case services.KindGateway, services.KindEmptyCompletion, services.KindMalformedCompletion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// generationStatus is the status contract of /make_recommendation: 429 and
// 402 are passed through, everything else is a 500.
func generationStatus(k services.Kind) int {
	switch k {
	case services.KindRateLimited:
		return http.StatusTooManyRequests
	case services.KindQuotaExhausted:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// generationMessage is the `{error}` text for a failure kind.
func generationMessage(err error) string {
	switch services.KindOf(err) {
	case services.KindValidation:
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return ve.Error()
		}
		return "invalid request"
	case services.KindNotFound:
		return "client not found"
	case services.KindRateLimited:
		return msgRateLimited
	case services.KindQuotaExhausted:
		return msgQuotaExhausted
	case services.KindConfiguration:
		return "AI gateway is not configured"
	case services.KindGateway:
		return "AI Gateway error"
	case services.KindEmptyCompletion:
		return "No content in AI response"
	case services.KindMalformedCompletion:
		return "Failed to parse AI recommendation"
	case services.KindPersistence:
		return "Failed to save recommendation"
	default:
		return "Unknown error"
	}
}

// MakeRecommendation godoc
// @ID          makeRecommendation
// @Summary     Generate a recommendation for a stored client
// @Description Runs one AI generation for an existing client and returns the stored row. Errors use a bare {error} body. Every response allows any origin.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.GenerateInput  true  "Client profile"
//
// @Success     200  {object}  domain.Recommendation
// @Header      200  {string}  Access-Control-Allow-Origin  "*"
// @Failure     400  {object}  handlers.plainError  "Unparseable body"
// @Failure     402  {object}  handlers.plainError  "AI credits exhausted"
// @Failure     429  {object}  handlers.plainError  "Rate limited"
// @Failure     500  {object}  handlers.plainError  "Any other failure"
// @Router      /make_recommendation [post]
func (h *Handlers) MakeRecommendation(c *gin.Context) {
	SetGenerationHeaders(c)

	var in services.GenerateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failPlain(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.gen.Generate(c.Request.Context(), in)
	if err != nil {
		failPlain(c, generationStatus(services.KindOf(err)), generationMessage(err))
		return
	}
	ok(c, http.StatusOK, rec)
}

// GetReport godoc
// @ID          getReport
// @Summary     Get a recommendation report
// @Description Returns the full report when the caller has a session or the report was paid for; otherwise a preview plus the purchase plans. Any `locked` query parameter is ignored.
// @Tags        Recommendations
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer session token"
// @Param       id             path    string  true  "Recommendation ID (UUID)"  format(uuid)
//
// @Success     200  {object}  services.ReportView
// @Header      200  {string}  Cache-Control  "no-store"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "Recommendation not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recommendations/{id} [get]
func (h *Handlers) GetReport(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recommendation id must be a UUID")
		return
	}

	view, err := h.reports.Report(c.Request.Context(), id, hasSession(c))
	switch {
	case err == nil:
		ok(c, http.StatusOK, view)
	case errors.Is(err, services.ErrRecommendationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recommendation not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load report")
	}
}
