package formula

import (
	"math"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

const (
	paintSqftPerLiterCoat = 120
	primerSqftPerLiter    = 100
	tileWastage           = 1.1
	adhesiveSqftPerBag    = 40
)

func paintingTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "painting",
		Name:        "Wall Painting",
		Category:    "finishing",
		Icon:        "🖌️",
		Description: "Paint and primer consumption for a wall area.",
		Inputs: []domain.InputSpec{
			{Key: "area", Label: "Total Wall Area", Unit: "sqft", Default: 500},
			{Key: "coats", Label: "Number of Coats", Unit: "nos", Default: 2},
		},
		Formula: painting,
	}
}

func painting(v domain.Values, r domain.Rates) domain.CalcResult {
	area := v.Num("area")
	liters := area * v.Num("coats") / paintSqftPerLiterCoat
	return domain.CalcResult{
		MainValue: liters,
		MainUnit:  "L",
		Details: []domain.DetailRow{
			row("Area Coverage", fixed(area, 0), "sqft"),
			row("Primer Req.", fixed(area/primerSqftPerLiter, 1), "L"),
		},
		Cost: liters * r.Get(domain.RatePaintLiter),
	}
}

func tilingTool() domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:          "tiling",
		Name:        "Flooring / Tiling",
		Category:    "finishing",
		Icon:        "🔳",
		Description: "Tile count with 10% wastage and adhesive bags.",
		Inputs: []domain.InputSpec{
			{Key: "area", Label: "Floor Area", Unit: "sqft", Default: 200},
			{Key: "tile_l", Label: "Tile Length", Unit: "ft", Default: 2},
			{Key: "tile_w", Label: "Tile Width", Unit: "ft", Default: 2},
		},
		Formula: tiling,
	}
}

func tiling(v domain.Values, r domain.Rates) domain.CalcResult {
	area := v.Num("area")
	n, ok := safeDiv(area, v.Num("tile_l")*v.Num("tile_w"))
	if !ok {
		return unavailable("tile size required")
	}
	count := math.Ceil(n * tileWastage)
	return domain.CalcResult{
		MainValue: count,
		MainText:  whole(count),
		MainUnit:  "Tiles",
		Details: []domain.DetailRow{
			row("Net Area", fixed(area, 0), "sqft"),
			row("Adhesive Req.", fixed(area/adhesiveSqftPerBag, 1), "Bags"),
		},
		Cost: count * r.Get(domain.RateTileNos),
	}
}
