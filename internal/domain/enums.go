package domain

// Property categories accepted on the assessment form.
const (
	PropertyResidential = "Residential"
	PropertyCommercial  = "Commercial"
	PropertyIndustrial  = "Industrial"
)

// PropertyTypes lists the accepted property categories in display order.
var PropertyTypes = []string{PropertyResidential, PropertyCommercial, PropertyIndustrial}

// Primary solution categories the model is asked to choose from.
const (
	SolutionSolarBattery      = "Solar+Battery"
	SolutionHybrid            = "Hybrid"
	SolutionGeneratorInverter = "Generator+Inverter"
)

// PrimarySolutions lists the accepted primary solution categories.
var PrimarySolutions = []string{SolutionSolarBattery, SolutionHybrid, SolutionGeneratorInverter}

// NigerianStates are the 36 states plus the Federal Capital Territory.
var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue", "Borno",
	"Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT Abuja", "Gombe",
	"Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos",
	"Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers", "Sokoto",
	"Taraba", "Yobe", "Zamfara",
}

var stateSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(NigerianStates))
	for _, s := range NigerianStates {
		m[s] = struct{}{}
	}
	return m
}()

// IsNigerianState reports whether s is exactly one of NigerianStates.
func IsNigerianState(s string) bool {
	_, ok := stateSet[s]
	return ok
}
