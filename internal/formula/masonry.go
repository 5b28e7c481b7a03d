package formula

import (
	"math"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

func brickTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "brick",
		Name:        "Brick Masonry",
		Category:    "masonry",
		Icon:        "🧱",
		Description: "Brick count, 1:6 mortar, cement and sand for a wall.",
		Inputs: []domain.InputSpec{
			{Key: "length", Label: "Wall Length", Default: 10},
			{Key: "height", Label: "Wall Height", Default: 3},
			{Key: "unit", Label: "Unit", Options: lengthUnits, DefaultOption: "m"},
			{Key: "thickness", Label: "Thickness", Unit: "mm", Default: 230},
		},
		Formula: brick,
	}
}

func brick(v domain.Values, r domain.Rates) domain.CalcResult {
	unit := v.Text("unit")
	vol := toMetres(v.Num("length"), unit) * toMetres(v.Num("height"), unit) * v.Num("thickness") / 1000

	bricks := math.Ceil(vol * bricksPerM3 * brickWastage)
	mortar := vol * mortarPerM3 * mortarDryFactor
	cementKg := mortar / 7 * cementDensity
	bags := math.Ceil(cementKg / cementBagKg)
	sand := mortar * 6 / 7

	cost := bricks*r.Get(domain.RateBrickNos) +
		bags*r.Get(domain.RateCementBag) +
		sand*r.Get(domain.RateSandM3)

	return domain.CalcResult{
		MainValue: bricks,
		MainText:  whole(bricks),
		MainUnit:  "bricks",
		Details: []domain.DetailRow{
			row("Wall Volume", fixed(vol, 2), "m³"),
			row("Dry Mortar", fixed(mortar, 3), "m³"),
			row("Cement", whole(cementKg), "kg"),
			row("Cement Bags", whole(bags), "bags"),
			row("Sand", fixed(sand, 2), "m³"),
		},
		Cost: cost,
	}
}
