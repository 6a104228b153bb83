package services

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

// consistencyTolerance is the largest accepted gap, in Naira, between the
// stated total and equipment plus installation.
const consistencyTolerance = 1.0

var fenceRE = regexp.MustCompile("(?i)```json\\s*|```\\s*")

// stripFences removes markdown code-fence markers anywhere in s.
func stripFences(s string) string {
	return strings.TrimSpace(fenceRE.ReplaceAllString(strings.TrimSpace(s), ""))
}

// completion is the JSON object the model is instructed to return.
type completion struct {
	Summary              string           `json:"summary"              validate:"required"`
	Reasoning            string           `json:"reasoning"            validate:"required"`
	PrimarySolution      string           `json:"primarySolution"      validate:"required,primary_solution"`
	SystemCapacityKW     *float64         `json:"systemCapacityKW"     validate:"required,gt=0"`
	SolarPanelsCount     *float64         `json:"solarPanelsCount"     validate:"omitempty,gte=0"`
	BatteryCapacityKWh   *float64         `json:"batteryCapacityKWh"   validate:"omitempty,gte=0"`
	InverterSizeKW       *float64         `json:"inverterSizeKW"       validate:"omitempty,gte=0"`
	Products             []domain.Product `json:"products"             validate:"required,min=1,dive"`
	EquipmentCostNGN     *float64         `json:"equipmentCostNGN"     validate:"required,gte=0"`
	InstallationCostNGN  *float64         `json:"installationCostNGN"  validate:"required,gte=0"`
	TotalCostNGN         *float64         `json:"totalCostNGN"         validate:"required,gte=0"`
	MonthlyOperatingCost *float64         `json:"monthlyOperatingCost" validate:"required,gte=0"`
	ROIMonths            *float64         `json:"roiMonths"            validate:"omitempty,gte=0"`
}

// newCompletionValidator returns a validator that knows the primary solution
// enumeration.
func newCompletionValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("primary_solution", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, p := range domain.PrimarySolutions {
			if s == p {
				return true
			}
		}
		return false
	})
	return v
}

// parseCompletion unwraps, decodes and validates raw model output.
func parseCompletion(v *validator.Validate, raw string) (*completion, error) {
	cleaned := stripFences(raw)
	var c completion
	if err := json.Unmarshal([]byte(cleaned), &c); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if err := v.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid completion: %w", err)
	}
	if c.SolarPanelsCount != nil && *c.SolarPanelsCount != math.Trunc(*c.SolarPanelsCount) {
		return nil, fmt.Errorf("invalid completion: solarPanelsCount %v is not a whole number", *c.SolarPanelsCount)
	}
	return &c, nil
}

// toRecommendation maps a validated completion onto the stored model and
// flags an inconsistent total for review.
func (c *completion) toRecommendation(clientID string) *domain.Recommendation {
	r := &domain.Recommendation{
		ClientID:             clientID,
		Summary:              strings.TrimSpace(c.Summary),
		Reasoning:            strings.TrimSpace(c.Reasoning),
		PrimarySolution:      c.PrimarySolution,
		SystemCapacityKW:     *c.SystemCapacityKW,
		BatteryCapacityKWh:   c.BatteryCapacityKWh,
		InverterSizeKW:       c.InverterSizeKW,
		EquipmentCostNGN:     *c.EquipmentCostNGN,
		InstallationCostNGN:  *c.InstallationCostNGN,
		TotalCostNGN:         *c.TotalCostNGN,
		MonthlyOperatingCost: *c.MonthlyOperatingCost,
		ROIMonths:            c.ROIMonths,
		Products:             c.Products,
	}
	if c.SolarPanelsCount != nil {
		n := int(*c.SolarPanelsCount)
		r.SolarPanelsCount = &n
	}
	if sum := r.EquipmentCostNGN + r.InstallationCostNGN; math.Abs(sum-r.TotalCostNGN) > consistencyTolerance {
		r.NeedsReview = true
		r.ReviewNote = fmt.Sprintf("total_cost_ngn %s does not equal equipment %s + installation %s (= %s)",
			formatNumber(r.TotalCostNGN), formatNumber(r.EquipmentCostNGN),
			formatNumber(r.InstallationCostNGN), formatNumber(sum))
	}
	return r
}
