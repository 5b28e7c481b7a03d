package formula

import (
	"math"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// ── Concrete ─────────────────────────────────────────────────────

const (
	columnSteelKgPerM3  = 160
	footingSteelKgPerM3 = 100
	looseSwellFactor    = 1.3
)

func mixFor(v domain.Values, fallback string) (string, Mix) {
	grade := v.Text("grade")
	if mix, ok := MixRatios[grade]; ok {
		return grade, mix
	}
	return fallback, MixRatios[fallback]
}

func slabTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "slab",
		Name:        "Slab Concrete",
		Category:    "concrete",
		Icon:        "🏗️",
		Description: "Concrete volume, cement bags, sand and aggregate for a slab.",
		Inputs: []domain.InputSpec{
			{Key: "length", Label: "Length", Default: 5},
			{Key: "width", Label: "Width", Default: 4},
			{Key: "unit", Label: "Unit", Options: lengthUnits, DefaultOption: "m"},
			{Key: "thickness", Label: "Thickness", Unit: "mm", Default: 150},
			{Key: "grade", Label: "Grade", Options: grades, DefaultOption: "M20"},
		},
		Formula: slab,
	}
}

func slab(v domain.Values, r domain.Rates) domain.CalcResult {
	unit := v.Text("unit")
	l := toMetres(v.Num("length"), unit)
	w := toMetres(v.Num("width"), unit)
	t := v.Num("thickness") / 1000
	volume := l * w * t

	grade, mix := mixFor(v, "M20")
	mats := materialsFor(volume, mix)

	details := append([]domain.DetailRow{row("Grade", grade, "")}, mats.rows()...)
	return domain.CalcResult{
		MainValue: volume,
		MainUnit:  "m³",
		Details:   details,
		Cost:      volume * r.Get(domain.RateSlabM3),
	}
}

func columnTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "column",
		Name:        "RCC Column",
		Category:    "concrete",
		Icon:        "🏛️",
		Description: "M25 concrete and steel allowance for rectangular columns.",
		Inputs: []domain.InputSpec{
			{Key: "width", Label: "Width", Unit: "mm", Default: 300},
			{Key: "depth", Label: "Depth", Unit: "mm", Default: 450},
			{Key: "height", Label: "Height", Unit: "m", Default: 3},
			{Key: "qty", Label: "Quantity", Unit: "nos", Default: 1},
		},
		Formula: column,
	}
}

func column(v domain.Values, r domain.Rates) domain.CalcResult {
	qty := math.Floor(v.Num("qty"))
	volume := v.Num("width") / 1000 * v.Num("depth") / 1000 * v.Num("height") * qty
	mats := materialsFor(volume, MixRatios["M25"])

	details := append([]domain.DetailRow{row("Grade", "M25", "")}, mats.rows()...)
	details = append(details, row("Steel (thumb rule)", whole(volume*columnSteelKgPerM3), "kg"))
	return domain.CalcResult{
		MainValue: volume,
		MainUnit:  "m³",
		Details:   details,
		Cost:      volume * r.Get(domain.RateColumnM3),
	}
}

func footingTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "footing",
		Name:        "RCC Footing",
		Category:    "concrete",
		Icon:        "🧊",
		Description: "Isolated footing concrete, materials and steel allowance.",
		Inputs: []domain.InputSpec{
			{Key: "length", Label: "Length", Unit: "m", Default: 1.5},
			{Key: "width", Label: "Width", Unit: "m", Default: 1.5},
			{Key: "depth", Label: "Depth", Unit: "mm", Default: 450},
			{Key: "qty", Label: "Quantity", Unit: "nos", Default: 4},
			{Key: "grade", Label: "Grade", Options: grades, DefaultOption: "M20"},
		},
		Formula: footing,
	}
}

func footing(v domain.Values, r domain.Rates) domain.CalcResult {
	qty := math.Floor(v.Num("qty"))
	volume := v.Num("length") * v.Num("width") * v.Num("depth") / 1000 * qty
	grade, mix := mixFor(v, "M20")
	mats := materialsFor(volume, mix)

	details := append([]domain.DetailRow{row("Grade", grade, "")}, mats.rows()...)
	details = append(details, row("Steel (thumb rule)", whole(volume*footingSteelKgPerM3), "kg"))
	return domain.CalcResult{
		MainValue: volume,
		MainUnit:  "m³",
		Details:   details,
		Cost:      volume * r.Get(domain.RateConcreteM3),
	}
}

func stairTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "stair",
		Name:        "RCC Staircase",
		Category:    "concrete",
		Icon:        "🪜",
		Description: "Risers, treads and concrete for a dog-legged flight.",
		Inputs: []domain.InputSpec{
			{Key: "height", Label: "Floor Height", Unit: "mm", Default: 3000},
			{Key: "riser", Label: "Riser", Unit: "mm", Default: 150},
			{Key: "tread", Label: "Tread", Unit: "mm", Default: 300},
			{Key: "width", Label: "Stair Width", Unit: "mm", Default: 1200},
			{Key: "waist", Label: "Waist Slab", Unit: "mm", Default: 150},
		},
		Formula: stair,
	}
}

func stair(v domain.Values, r domain.Rates) domain.CalcResult {
	height := v.Num("height") / 1000
	riser := v.Num("riser") / 1000
	tread := v.Num("tread") / 1000
	width := v.Num("width") / 1000
	waist := v.Num("waist") / 1000

	n, ok := safeDiv(height, riser)
	if !ok {
		return unavailable("riser height required")
	}
	risers := math.Max(1, math.Round(n))
	treads := risers - 1
	going := treads * tread

	stepsVol := 0.5 * riser * tread * width * treads
	waistVol := math.Sqrt(height*height+going*going) * width * waist
	total := stepsVol + waistVol

	return domain.CalcResult{
		MainValue: total,
		MainUnit:  "m³",
		Details: []domain.DetailRow{
			row("Risers", fixed(risers, 0), "nos"),
			row("Treads", fixed(treads, 0), "nos"),
			row("Horizontal Going", fixed(going, 2), "m"),
			row("Steps Volume", fixed(stepsVol, 3), "m³"),
			row("Waist Slab Volume", fixed(waistVol, 3), "m³"),
		},
		Cost: total * r.Get(domain.RateStairM3),
	}
}

func excavationTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "excavation",
		Name:        "Earthwork Excavation",
		Category:    "concrete",
		Icon:        "🚜",
		Description: "Trench or pit excavation volume with bulking.",
		Inputs: []domain.InputSpec{
			{Key: "l", Label: "Length", Unit: "m", Default: 10},
			{Key: "w", Label: "Width", Unit: "m", Default: 1.5},
			{Key: "d", Label: "Depth", Unit: "m", Default: 1.5},
		},
		Formula: excavation,
	}
}

func excavation(v domain.Values, r domain.Rates) domain.CalcResult {
	vol := v.Num("l") * v.Num("w") * v.Num("d")
	return domain.CalcResult{
		MainValue: vol,
		MainUnit:  "m³",
		Details: []domain.DetailRow{
			row("Loose Volume (Swell)", fixed(vol*looseSwellFactor, 2), "m³"),
			row("Surface Area", fixed(v.Num("l")*v.Num("w"), 2), "m²"),
		},
		Cost: vol * r.Get(domain.RateExcavationM3),
	}
}
