// Assessment HTTP handlers.
//
//   - POST /assessments  (submit the property/load form and generate)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/http/middleware"
	"github.com/tbourn/powerwise-backend/internal/services"
)

// HeaderReplayed marks a response served from a stored idempotent outcome.
const HeaderReplayed = "Idempotency-Replayed"

// SubmitAssessment godoc
// @ID          submitAssessment
// @Summary     Submit an assessment
// @Description Stores the lead and synchronously generates one recommendation. The response carries only ids; the report endpoint decides what the caller may see.
// @Tags        Assessments
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Retry-safe submission key"  example(form-7f3c2a)
// @Param       body             body    services.AssessmentInput  true  "Assessment form"
//
// @Success     201  {object}  services.SubmitResult
// @Header      201  {string}  Idempotency-Replayed  "true when replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid body or field values"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already submitted"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     502  {object}  handlers.ErrorResponse  "Recommendation could not be generated"
// @Failure     503  {object}  handlers.ErrorResponse  "Generation unavailable"
// @Router      /assessments [post]
func (h *Handlers) SubmitAssessment(c *gin.Context) {
	var in services.AssessmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	res, err := h.intake.SubmitIdempotent(c.Request.Context(), key, in, hasSession(c))
	switch {
	case err == nil:
	case failValidation(c, err, "please correct the highlighted fields"):
		return
	case errors.Is(err, services.ErrDuplicateClient):
		fail(c, http.StatusConflict, ErrCodeDuplicateClient, "an assessment with this email already exists")
		return
	case errors.Is(err, services.ErrRecommendationFailed):
		status := statusForKind(services.KindOf(err))
		if status < http.StatusInternalServerError && status != http.StatusTooManyRequests {
			status = http.StatusBadGateway
		}
		fail(c, status, ErrCodeRecommendationFailed, "we could not generate your recommendation, please try again shortly")
		return
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not save assessment")
		return
	}

	if res.Replayed {
		c.Header(HeaderReplayed, "true")
	}
	ok(c, http.StatusCreated, res)
}
