package services

import "strings"

// Plan identifiers.
const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// Plan is one fixed-price report unlock offered on a locked report.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceNGN    float64  `json:"price_ngn"`
	Features    []string `json:"features"`
	PaymentURL  string   `json:"payment_url"`
	Recommended bool     `json:"recommended,omitempty"`
}

// Plans is the offered catalogue, in display order.
type Plans []Plan

// NewPlans builds the two-plan catalogue around the hosted payment pages.
func NewPlans(basicURL, premiumURL string) Plans {
	return Plans{
		{
			ID:          PlanBasic,
			Name:        "Basic Report",
			Description: "Essential breakdown for small homes.",
			PriceNGN:    25000,
			Features:    []string{"System Sizing", "Estimated Cost", "Basic Component List"},
			PaymentURL:  basicURL,
		},
		{
			ID:          PlanPremium,
			Name:        "Premium Report",
			Description: "Complete analysis & professional support.",
			PriceNGN:    50000,
			Features:    []string{"Everything in Basic", "ROI Calculator", "Detailed Brand Recommendations", "Installer Contact"},
			PaymentURL:  premiumURL,
			Recommended: true,
		},
	}
}

// Find returns the plan with id (case-insensitive).
func (p Plans) Find(id string) (Plan, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, pl := range p {
		if pl.ID == id {
			return pl, true
		}
	}
	return Plan{}, false
}
