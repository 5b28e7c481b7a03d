package domain

// Trade is a construction trade picked during onboarding.
type Trade string

const (
	TradeElectrician Trade = "Electrician"
	TradePlumber     Trade = "Plumber"
	TradeHVAC        Trade = "HVAC"
	TradeCarpenter   Trade = "Carpenter"
	TradeTile        Trade = "Tile"
	TradePainter     Trade = "Painter"
	TradeGeneral     Trade = "General Contractor"
)

// Trades lists every trade in display order.
var Trades = []Trade{
	TradeElectrician, TradePlumber, TradeHVAC, TradeCarpenter,
	TradeTile, TradePainter, TradeGeneral,
}

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Unit systems.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Preferences is the onboarding state persisted between runs.
type Preferences struct {
	Onboarded      bool    `json:"onboarded"`
	SelectedTrades []Trade `json:"selectedTrades"`
	Units          string  `json:"units"`
}

// DefaultPreferences is used on first run.
func DefaultPreferences() Preferences {
	return Preferences{Units: UnitsMetric}
}
