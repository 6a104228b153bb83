// Handlers are transport-thin: they bind input, call the services through
// the interfaces below, and translate results and errors into responses.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/http/middleware"
	"github.com/tbourn/powerwise-backend/internal/repo"
	"github.com/tbourn/powerwise-backend/internal/services"
	"github.com/tbourn/powerwise-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// IntakeService accepts assessment submissions.
type IntakeService interface {
	SubmitIdempotent(ctx context.Context, key string, in services.AssessmentInput, hasSession bool) (*services.SubmitResult, error)
}

// Generator runs one recommendation generation for an existing client.
type Generator interface {
	Generate(ctx context.Context, in services.GenerateInput) (*domain.Recommendation, error)
}

// ReportService resolves report views with server-side lock state.
type ReportService interface {
	Report(ctx context.Context, id string, hasSession bool) (*services.ReportView, error)
}

// ListingService backs the admin listing and export.
type ListingService interface {
	ListPage(ctx context.Context, q services.Query) ([]repo.RecommendationRow, int64, error)
	Stats(ctx context.Context, search string) (int64, *time.Time, error)
	Export(ctx context.Context, q services.Query) (string, []byte, error)
}

// PaymentService creates entitlements and applies provider webhooks.
type PaymentService interface {
	Checkout(ctx context.Context, recommendationID, plan string) (*services.CheckoutResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	ReturnTarget(ctx context.Context, reference string) string
}

//
// Handler wiring
//

// Services is the set of dependencies the handlers need. Auth may be nil,
// in which case the session endpoints answer 503.
type Services struct {
	Intake    IntakeService
	Generator Generator
	Reports   ReportService
	Listing   ListingService
	Payments  PaymentService
	Auth      services.Authenticator
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	intake   IntakeService
	gen      Generator
	reports  ReportService
	listing  ListingService
	payments PaymentService
	auth     services.Authenticator
}

// New constructs Handlers bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		intake:   s.Intake,
		gen:      s.Generator,
		reports:  s.Reports,
		listing:  s.Listing,
		payments: s.Payments,
		auth:     s.Auth,
	}
}

//
// Helpers
//

// hasSession reports whether the Session middleware attached a session.
func hasSession(c *gin.Context) bool {
	_, ok := middleware.SessionFrom(c)
	return ok
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination reads page and page_size, defaulting to 1 and 20 and
// capping page_size at 100.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ClampPage(c.Query("page"), c.Query("page_size"), 20, 100)
}

// listQuery reads search, sort and order plus the clamped page window.
func listQuery(c *gin.Context) services.Query {
	page, pageSize := clampPagination(c)
	return services.Query{
		Search:   c.Query("search"),
		SortBy:   c.Query("sort"),
		Desc:     c.DefaultQuery("order", "desc") != "asc",
		Page:     page,
		PageSize: pageSize,
	}
}

// failValidation writes a validation_failed envelope when err carries field
// messages and reports whether it did.
func failValidation(c *gin.Context, err error, msg string) bool {
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	failFields(c, http.StatusBadRequest, ErrCodeValidation, msg, ve.Fields)
	return true
}
