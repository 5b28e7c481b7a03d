package formula

import "github.com/hammamikhairi/calcsite/internal/domain"

const btuPerTon = 12000

// coolingFactors is the cooling load in BTU per sq ft by building type.
var coolingFactors = map[string]float64{
	"Residential": 30,
	"Office":      40,
	"Restaurant":  55,
}

var buildingTypes = []string{"Residential", "Office", "Restaurant"}

func hvacLoadTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "hvac-load",
		Name:        "HVAC Load (Manual J)",
		Category:    "hvac",
		Icon:        "❄️",
		Description: "Cooling load tonnage, heating requirements, and BTU calculations.",
		Inputs: []domain.InputSpec{
			{Key: "sqft", Label: "Area", Unit: "sq ft", Default: 1500},
			{Key: "type", Label: "Building Type", Options: buildingTypes, DefaultOption: "Residential"},
		},
		Formula: hvacLoad,
	}
}

func hvacLoad(v domain.Values, _ domain.Rates) domain.CalcResult {
	factor, ok := coolingFactors[v.Text("type")]
	if !ok {
		factor = coolingFactors["Residential"]
	}
	btu := v.Num("sqft") * factor
	tons := btu / btuPerTon
	return domain.CalcResult{
		MainValue: tons,
		MainText:  fixed(tons, 1),
		MainUnit:  "Tons",
		Details: []domain.DetailRow{
			row("Base Factor", fixed(factor, 0), "BTU/sqft"),
			row("Total BTU", whole(btu), "BTU"),
			row("Formula", whole(btu)+" / 12,000", ""),
		},
	}
}
