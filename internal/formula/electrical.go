package formula

import (
	"math"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// NEC 220 demand constants.
const (
	lightingVAPerSqft   = 3
	lightingFirstVA     = 3000
	lightingDemandRatio = 0.35
	applianceDemand     = 0.75
	applianceThreshold  = 4
	rangeDemandVA       = 8000
	serviceVoltage      = 240
)

// Voltage drop constants: copper resistivity (ohm·cmil/ft) and a 12 AWG
// conductor area in circular mils.
const (
	copperK          = 11.2
	circularMils     = 10380
	continuousFactor = 1.25
	defaultVoltage   = 120
	maxDropPercent   = 3
)

func elecLoadTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "elec-load",
		Name:        "NEC Load Calculator",
		Category:    "electrical",
		Icon:        "⚡",
		Description: "General lighting load, appliance demand, and service sizing per NEC 220.",
		Inputs: []domain.InputSpec{
			{Key: "sqft", Label: "Living Area", Unit: "sq ft", Default: 2000},
			{Key: "appliances", Label: "Fastened Appliances (Qty)", Unit: "nos", Default: 4},
			{Key: "applianceVA", Label: "Total Appliance VA", Unit: "VA", Default: 6000},
			{Key: "ranges", Label: "Electric Ranges (Qty)", Unit: "nos", Default: 1},
		},
		Formula: elecLoad,
	}
}

func elecLoad(v domain.Values, _ domain.Rates) domain.CalcResult {
	lightingVA := v.Num("sqft") * lightingVAPerSqft
	lightingDemandVA := lightingVA
	if lightingVA > lightingFirstVA {
		lightingDemandVA = lightingFirstVA + (lightingVA-lightingFirstVA)*lightingDemandRatio
	}
	appDemand := v.Num("applianceVA")
	if v.Num("appliances") >= applianceThreshold {
		appDemand *= applianceDemand
	}
	var rangeVA float64
	if v.Num("ranges") > 0 {
		rangeVA = rangeDemandVA
	}
	total := lightingDemandVA + appDemand + rangeVA
	amps := math.Ceil(total / serviceVoltage)

	return domain.CalcResult{
		MainValue: amps,
		MainText:  fixed(amps, 0),
		MainUnit:  "A Service",
		Details: []domain.DetailRow{
			row("Lighting Load", fixed(lightingVA, 0), "VA"),
			row("Lighting Demand (NEC 220.42)", fixed(lightingDemandVA, 0), "VA"),
			row("Appliance Demand", fixed(appDemand, 0), "VA"),
			row("Range Demand", fixed(rangeVA, 0), "VA"),
			row("Total VA", fixed(total, 0), "VA"),
		},
	}
}

func wireSizeTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "wire-size",
		Name:        "Wire Size & Voltage Drop",
		Category:    "electrical",
		Icon:        "🔌",
		Description: "Conductor sizing, ampacity, and voltage drop per NEC 310.15.",
		Inputs: []domain.InputSpec{
			{Key: "load", Label: "Load Current", Unit: "A", Default: 20},
			{Key: "dist", Label: "Distance", Unit: "ft", Default: 100},
			{Key: "voltage", Label: "Voltage", Unit: "V", Default: defaultVoltage},
		},
		Formula: wireSize,
	}
}

func wireSize(v domain.Values, _ domain.Rates) domain.CalcResult {
	load := v.Num("load")
	voltage := v.Num("voltage")
	if voltage <= 0 {
		voltage = defaultVoltage
	}
	vd := 2 * load * v.Num("dist") * copperK / circularMils
	pct := vd / voltage * 100

	status := "OK"
	if pct >= maxDropPercent {
		status = "High - Consider larger wire"
	}
	return domain.CalcResult{
		MainValue: pct,
		MainUnit:  "% VD",
		Details: []domain.DetailRow{
			row("Design Current (×1.25)", fixed(load*continuousFactor, 1), "A"),
			row("Voltage Drop", fixed(vd, 2), "V"),
			row("Status", status, ""),
		},
	}
}
