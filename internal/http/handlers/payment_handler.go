// Payment HTTP handlers.
//
//   - POST /payments/checkout  (pending entitlement + hosted page link)
//   - POST /webhooks/payment   (signed provider notification)
//   - GET  /payments/return    (browser redirect back to the report)
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/services"
)

// HeaderPaymentSignature carries the provider's HMAC-SHA512 of the raw body.
const HeaderPaymentSignature = "X-Paystack-Signature"

// CheckoutRequest selects a plan for one report.
type CheckoutRequest struct {
	RecommendationID string `json:"recommendationId" binding:"required,uuid" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Plan             string `json:"plan"             binding:"required"      example:"premium"`
}

// Checkout godoc
// @ID          checkout
// @Summary     Start a report purchase
// @Description Records a pending entitlement and returns the provider's hosted payment link carrying a fresh reference. No payment is processed here.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CheckoutRequest  true  "Plan selection"
//
// @Success     201  {object}  services.CheckoutResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad body or unknown plan"
// @Failure     404  {object}  handlers.ErrorResponse  "Recommendation not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /payments/checkout [post]
func (h *Handlers) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recommendationId (UUID) and plan are required")
		return
	}

	res, err := h.payments.Checkout(c.Request.Context(), req.RecommendationID, req.Plan)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, res)
	case errors.Is(err, services.ErrInvalidPlan):
		fail(c, http.StatusBadRequest, ErrCodeInvalidPlan, "plan must be basic or premium")
	case errors.Is(err, services.ErrRecommendationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recommendation not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not start checkout")
	}
}

// PaymentWebhook godoc
// @ID          paymentWebhook
// @Summary     Payment provider webhook
// @Description Verifies the HMAC-SHA512 signature of the raw body and, on charge.success, marks the matching entitlement paid. Other events are acknowledged and ignored.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       X-Paystack-Signature  header  string  true  "Hex HMAC-SHA512 of the body"
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed payload"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid signature"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /webhooks/payment [post]
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read body")
		return
	}

	err = h.payments.HandleWebhook(c.Request.Context(), body, c.GetHeader(HeaderPaymentSignature))
	switch {
	case err == nil:
		ok(c, http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, services.ErrInvalidSignature):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidSignature, "invalid signature")
	case errors.Is(err, services.ErrWebhookPayload):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed webhook payload")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not apply webhook")
	}
}

// PaymentReturn godoc
// @ID          paymentReturn
// @Summary     Return from the hosted payment page
// @Description Redirects to the report for a known reference, otherwise to a new assessment. Grants nothing; only the webhook unlocks a report.
// @Tags        Payments
//
// @Param       reference  query  string  false "Checkout reference"
//
// @Success     302  {string}  string  "Redirect"
// @Router      /payments/return [get]
func (h *Handlers) PaymentReturn(c *gin.Context) {
	ref := c.Query("reference")
	if ref == "" {
		ref = c.Query("trxref")
	}
	c.Redirect(http.StatusFound, h.payments.ReturnTarget(c.Request.Context(), ref))
}
