package services

import (
	"strconv"
	"strings"
	"text/template"
)

// systemInstruction reinforces JSON-only output.
const systemInstruction = "You are an expert Nigerian electrical engineer. Return only valid JSON, no markdown."

// promptTemplate is the fixed recommendation prompt. Pricing figures are soft
// hints for the model; the output is validated separately.
var promptTemplate = template.Must(template.New("recommendation").
	Funcs(template.FuncMap{"num": formatNumber}).
	Parse(`You are an expert electrical engineer specializing in Nigerian power solutions.

CLIENT PROFILE:
- Name: {{.FullName}}
- Location: {{.LGA}}, {{.State}}, Nigeria
- Power Requirement: {{num .EstimatedLoadKW}} kW
- Daily Usage: {{num .DailyUsageHours}} hours
- Property Type: {{.PropertyType}}

TASK: Provide a detailed alternate power recommendation for this Nigerian client.

IMPORTANT: Return ONLY valid JSON with no markdown formatting, no backticks, no explanations outside the JSON.

The JSON structure must be exactly:
{
"summary": "A 2-3 sentence overview of the recommended power solution",
"reasoning": "A detailed 100-150 word explanation of why this solution is ideal for the client's needs, considering their location, load requirements, and property type",
"primarySolution": "Solar+Battery" or "Hybrid" or "Generator+Inverter",
"systemCapacityKW": <number - the total system capacity>,
"solarPanelsCount": <number or null if not applicable>,
"batteryCapacityKWh": <number or null if not applicable>,
"inverterSizeKW": <number>,
"products": [
  {
    "category": "Category name (Solar Panels, Battery, Inverter, etc.)",
    "name": "Specific product name and specs",
    "quantity": <number>,
    "unitPriceNGN": <number in Naira>,
    "totalPriceNGN": <calculated total>,
    "supplier": "Nigerian supplier name"
  }
],
"equipmentCostNGN": <total equipment cost in Naira>,
"installationCostNGN": <installation cost - typically 15-20% of equipment>,
"totalCostNGN": <equipment + installation>,
"monthlyOperatingCost": <monthly maintenance/fuel cost in Naira>,
"roiMonths": <estimated payback period in months>
}

Use realistic 2024 Nigerian market prices. Include 3-6 product line items. Consider:
- Solar panels: ₦80,000-120,000 per 550W panel
- Lithium batteries: ₦400,000-600,000 per 5kWh
- Inverters: ₦150,000-400,000 depending on capacity
- Installation typically 15-20% of equipment cost
- Factor in the client's location for solar irradiance and grid availability`))

// renderPrompt fills the template for one client profile.
func renderPrompt(in GenerateInput) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, in); err != nil {
		return "", err
	}
	return b.String(), nil
}

// formatNumber prints v without trailing zeros ("5", "0.5", "12.75").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
