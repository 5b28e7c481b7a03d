package formula

import (
	"math"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// unitWeight is the mass of a bar in kg per metre: d²/162.
func unitWeight(diameterMM float64) float64 {
	return diameterMM * diameterMM / 162
}

func steelTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "steel",
		Name:        "Steel Reinforcement",
		Category:    "steel",
		Icon:        "⚙️",
		Description: "Rebar weight by diameter, length and count (d²/162).",
		Inputs: []domain.InputSpec{
			{Key: "dia", Label: "Bar Diameter", Unit: "mm", Default: 12},
			{Key: "length", Label: "Bar Length", Default: 12},
			{Key: "unit", Label: "Unit", Options: lengthUnits, DefaultOption: "m"},
			{Key: "qty", Label: "Number of Bars", Unit: "nos", Default: 10},
		},
		Formula: steel,
	}
}

func steel(v domain.Values, r domain.Rates) domain.CalcResult {
	perMetre := unitWeight(v.Num("dia"))
	bar := perMetre * toMetres(v.Num("length"), v.Text("unit"))
	qty := math.Floor(v.Num("qty"))
	total := bar * qty

	return domain.CalcResult{
		MainValue: total,
		MainUnit:  "kg",
		Details: []domain.DetailRow{
			row("Weight per Metre", fixed(perMetre, 4), "kg/m"),
			row("Weight per Bar", fixed(bar, 3), "kg"),
			row("Bars", fixed(qty, 0), "nos"),
			row("Total Weight", fixed(total/1000, 3), "t"),
		},
		Cost: total * r.Get(domain.RateSteelKg),
	}
}
