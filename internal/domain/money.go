package domain

import "strings"

// Currency is a display currency. RateToINR is the INR value of one unit.
type Currency struct {
	Code      string  `json:"code"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	RateToINR float64 `json:"rateToInr"`
}

// BaseCurrency is the currency every formula cost is expressed in.
var BaseCurrency = Currency{Code: "INR", Symbol: "₹", Name: "Indian Rupee", RateToINR: 1}

// Currencies is the closed set of supported currencies.
var Currencies = []Currency{
	BaseCurrency,
	{Code: "USD", Symbol: "$", Name: "US Dollar", RateToINR: 83},
	{Code: "GBP", Symbol: "£", Name: "British Pound", RateToINR: 105},
}

// LookupCurrency finds a currency by code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range Currencies {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}

// Convert re-expresses amount from one currency into another.
func Convert(amount float64, from, to Currency) float64 {
	if from.RateToINR <= 0 || to.RateToINR <= 0 {
		return amount
	}
	return amount * from.RateToINR / to.RateToINR
}

// ── Rates ────────────────────────────────────────────────────────

// Rate keys.
const (
	RateCementBag    = "cement_bag"
	RateSteelKg      = "steel_kg"
	RateBrickNos     = "brick_nos"
	RateLaborSqft    = "labor_sqft"
	RateConcreteM3   = "concrete_m3"
	RateSandM3       = "sand_m3"
	RateExcavationM3 = "excavation_m3"
	RatePaintLiter   = "paint_liter"
	RateTileNos      = "tile_nos"
	RateSlabM3       = "rcc_slab_m3"
	RateColumnM3     = "rcc_column_m3"
	RateStairM3      = "rcc_stair_m3"
)

// Rates maps material keys to unit prices in INR.
type Rates map[string]float64

// RateKeys lists rate keys in display order.
var RateKeys = []string{
	RateCementBag, RateSteelKg, RateBrickNos, RateLaborSqft, RateConcreteM3,
	RateSandM3, RateExcavationM3, RatePaintLiter, RateTileNos,
	RateSlabM3, RateColumnM3, RateStairM3,
}

var defaultRates = Rates{
	RateCementBag:    450,
	RateSteelKg:      75,
	RateBrickNos:     10,
	RateLaborSqft:    200,
	RateConcreteM3:   6500,
	RateSandM3:       3000,
	RateExcavationM3: 450,
	RatePaintLiter:   350,
	RateTileNos:      150,
	RateSlabM3:       7200,
	RateColumnM3:     8000,
	RateStairM3:      7500,
}

// DefaultRates returns a fresh copy of the built-in price table.
func DefaultRates() Rates { return defaultRates.Clone() }

// Get returns the rate for key, falling back to the default table and then 0.
func (r Rates) Get(key string) float64 {
	if v, ok := r[key]; ok && v > 0 {
		return v
	}
	return defaultRates[key]
}

// Clone returns an independent copy.
func (r Rates) Clone() Rates {
	out := make(Rates, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
