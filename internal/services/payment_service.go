// Package services – PaymentService
//
// PaymentService records report purchases. Checkout stores a pending
// entitlement and hands back the hosted payment page; the provider's signed
// webhook is the only thing that marks an entitlement paid. The browser's
// return redirect is informational and grants nothing.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/repo"
)

// eventChargeSuccess is the provider event that completes a purchase.
const eventChargeSuccess = "charge.success"

// CheckoutResult is the outbound link for one pending purchase.
type CheckoutResult struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Plan      string `json:"plan"`
}

// webhookEvent is the subset of the provider payload we read. Amount is in
// kobo.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		PaidAt    string `json:"paid_at"`
		Metadata  struct {
			RecommendationID string `json:"recommendation_id"`
			Plan             string `json:"plan"`
		} `json:"metadata"`
	} `json:"data"`
}

// PaymentService owns entitlement bookkeeping.
type PaymentService struct {
	DB              *gorm.DB
	Plans           Plans
	WebhookSecret   string
	FrontendBaseURL string
	Now             func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB, plans Plans, webhookSecret, frontendBaseURL string) *PaymentService {
	return &PaymentService{
		DB:              db,
		Plans:           plans,
		WebhookSecret:   webhookSecret,
		FrontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		Now:             func() time.Time { return time.Now().UTC() },
	}
}

// Checkout records a pending entitlement for recommendationID under plan and
// returns the hosted payment link carrying the new reference.
func (s *PaymentService) Checkout(ctx context.Context, recommendationID, plan string) (*CheckoutResult, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "Checkout",
		trace.WithAttributes(attribute.String("recommendation.id", recommendationID), attribute.String("plan", plan)),
	)
	defer span.End()

	p, ok := s.Plans.Find(plan)
	if !ok {
		return nil, ErrInvalidPlan
	}
	if _, err := repo.GetRecommendation(ctx, s.DB, recommendationID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	ent := &domain.Entitlement{
		RecommendationID: recommendationID,
		Plan:             p.ID,
		Reference:        newReference(),
		AmountNGN:        p.PriceNGN,
		Status:           domain.EntitlementPending,
	}
	if err := repo.CreateEntitlement(ctx, s.DB, ent); err != nil {
		return nil, err
	}

	link, err := withReference(p.PaymentURL, ent.Reference)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{URL: link, Reference: ent.Reference, Plan: p.ID}, nil
}

// HandleWebhook verifies and applies one provider notification. Events other
// than a successful charge are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (err error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "HandleWebhook")
	defer span.End()

	result := "error"
	defer func() { webhooksTotal.WithLabelValues(result).Inc() }()

	if !s.verify(body, signature) {
		result = "invalid_signature"
		return ErrInvalidSignature
	}

	var ev webhookEvent
	if jerr := json.Unmarshal(body, &ev); jerr != nil {
		result = "malformed"
		return fmt.Errorf("%w: %v", ErrWebhookPayload, jerr)
	}
	span.SetAttributes(attribute.String("payment.event", ev.Event))
	if ev.Event != eventChargeSuccess {
		result = "ignored"
		return nil
	}
	ref := strings.TrimSpace(ev.Data.Reference)
	if ref == "" {
		result = "malformed"
		return fmt.Errorf("%w: missing reference", ErrWebhookPayload)
	}

	paidAt := s.Now()
	if t, perr := time.Parse(time.RFC3339, ev.Data.PaidAt); perr == nil {
		paidAt = t.UTC()
	}

	err = repo.MarkEntitlementPaid(ctx, s.DB, ref, paidAt)
	switch {
	case err == nil:
		result = "paid"
		log.Info().Str("reference", ref).Msg("payments: entitlement paid")
		return nil
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}

	// Unknown reference: a payment made straight from the hosted page. It can
	// still be attributed through the metadata the page collected.
	recID := strings.TrimSpace(ev.Data.Metadata.RecommendationID)
	if recID == "" {
		result = "ignored"
		log.Warn().Str("reference", ref).Msg("payments: unattributable charge ignored")
		return nil
	}
	if _, gerr := repo.GetRecommendation(ctx, s.DB, recID); gerr != nil {
		if errors.Is(gerr, repo.ErrNotFound) {
			result = "ignored"
			log.Warn().Str("reference", ref).Str("recommendation_id", recID).Msg("payments: charge for unknown recommendation ignored")
			return nil
		}
		return gerr
	}

	p := s.planFor(ev.Data.Metadata.Plan, ev.Data.Amount)
	ent := &domain.Entitlement{
		RecommendationID: recID,
		Plan:             p.ID,
		Reference:        ref,
		AmountNGN:        float64(ev.Data.Amount) / 100,
		Status:           domain.EntitlementPaid,
		PaidAt:           &paidAt,
	}
	if cerr := repo.CreateEntitlement(ctx, s.DB, ent); cerr != nil {
		// A concurrent delivery of the same event already recorded it.
		if errors.Is(cerr, repo.ErrDuplicate) {
			result = "paid"
			return nil
		}
		return cerr
	}
	result = "paid"
	log.Info().Str("reference", ref).Str("recommendation_id", recID).Msg("payments: entitlement recorded from webhook")
	return nil
}

// ReturnTarget is where the browser goes after the hosted page. A known
// reference leads back to its report; anything else to a fresh assessment.
func (s *PaymentService) ReturnTarget(ctx context.Context, reference string) string {
	reference = strings.TrimSpace(reference)
	if reference != "" {
		if ent, err := repo.GetEntitlementByReference(ctx, s.DB, reference); err == nil {
			return s.FrontendBaseURL + "/recommendations/" + url.PathEscape(ent.RecommendationID)
		}
	}
	return s.FrontendBaseURL + "/assessment"
}

// verify checks the hex HMAC-SHA512 of body. An unset secret rejects all.
func (s *PaymentService) verify(body []byte, signature string) bool {
	if s.WebhookSecret == "" || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	return hmac.Equal(got, bodyMAC(s.WebhookSecret, body))
}

// planFor picks the plan named in metadata, falling back to the price paid.
func (s *PaymentService) planFor(name string, amountKobo int64) Plan {
	if p, ok := s.Plans.Find(name); ok {
		return p
	}
	best := s.Plans[0]
	for _, p := range s.Plans {
		if float64(amountKobo)/100 >= p.PriceNGN {
			best = p
		}
	}
	return best
}

func newReference() string {
	return "pw_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func withReference(base, ref string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("payment link %q: %w", base, err)
	}
	q := u.Query()
	q.Set("reference", ref)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SignWebhook returns the hex signature the provider sends for body.
func SignWebhook(secret string, body []byte) string {
	return hex.EncodeToString(bodyMAC(secret, body))
}

func bodyMAC(secret string, body []byte) []byte {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
