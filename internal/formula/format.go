package formula

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// Length unit factors to metres.
var unitToMetre = map[string]float64{
	"m":  1,
	"ft": 0.3048,
	"mm": 0.001,
}

var lengthUnits = []string{"m", "ft"}

// toMetres converts v in unit to metres; unknown units are taken as metres.
func toMetres(v float64, unit string) float64 {
	if f, ok := unitToMetre[unit]; ok {
		return v * f
	}
	return v
}

// Mix is a nominal concrete mix (cement : sand : aggregate).
type Mix struct {
	Cement, Sand, Aggregate float64
}

// Parts is the sum of the mix proportions.
func (m Mix) Parts() float64 { return m.Cement + m.Sand + m.Aggregate }

// MixRatios are the nominal mixes by grade.
var MixRatios = map[string]Mix{
	"M15": {1, 2, 4},
	"M20": {1, 1.5, 3},
	"M25": {1, 1, 2},
}

var grades = []string{"M15", "M20", "M25"}

// Material constants.
const (
	dryVolumeFactor = 1.54
	cementDensity   = 1440 // kg/m³
	cementBagKg     = 50
	bricksPerM3     = 500
	brickWastage    = 1.05
	mortarPerM3     = 0.25
	mortarDryFactor = 1.33
)

// concreteMaterials derives cement, sand and aggregate for a wet volume.
type concreteMaterials struct {
	Dry, CementKg, Sand, Aggregate float64
	Bags                           float64
}

func materialsFor(volume float64, mix Mix) concreteMaterials {
	dry := volume * dryVolumeFactor
	parts := mix.Parts()
	if parts <= 0 {
		return concreteMaterials{Dry: dry}
	}
	cement := dry * mix.Cement / parts * cementDensity
	return concreteMaterials{
		Dry:       dry,
		CementKg:  cement,
		Sand:      dry * mix.Sand / parts,
		Aggregate: dry * mix.Aggregate / parts,
		Bags:      math.Ceil(cement / cementBagKg),
	}
}

func (c concreteMaterials) rows() []domain.DetailRow {
	return []domain.DetailRow{
		row("Dry Volume", fixed(c.Dry, 2), "m³"),
		row("Cement", "≈"+whole(c.CementKg), "kg"),
		row("Cement Bags", whole(c.Bags), "bags"),
		row("Sand", fixed(c.Sand, 2), "m³"),
		row("Aggregate", fixed(c.Aggregate, 2), "m³"),
	}
}

func row(label, value, unit string) domain.DetailRow {
	return domain.DetailRow{Label: label, Value: value, Unit: unit}
}

// unavailable is the result shown when the inputs cannot produce a value,
// such as a zero divisor.
func unavailable(reason string) domain.CalcResult {
	return domain.CalcResult{
		MainText:    "n/a",
		Unavailable: true,
		Details:     []domain.DetailRow{row("Status", reason, "")},
	}
}

// fixed formats f with n decimals.
func fixed(f float64, n int) string {
	return strconv.FormatFloat(f, 'f', n, 64)
}

// whole rounds f and groups thousands: 12345.6 -> "12,346".
func whole(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "n/a"
	}
	return humanize.Commaf(math.Round(f))
}

// finite wraps f so that a result whose main value or cost overflows is
// reported as unavailable instead of as an infinite quantity.
func finite(f domain.Formula) domain.Formula {
	return func(v domain.Values, r domain.Rates) domain.CalcResult {
		res := f(v, r)
		if !isFinite(res.MainValue) || !isFinite(res.Cost) {
			return unavailable("value out of range")
		}
		return res
	}
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// safeDiv divides n by d, reporting false when d is not a usable divisor.
func safeDiv(n, d float64) (float64, bool) {
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return n / d, true
}
