package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// Palette is one colour scheme.
type Palette struct {
	BarBg     lipgloss.Color
	BarFg     lipgloss.Color
	Accent    lipgloss.Color // coral
	Good      lipgloss.Color // mint
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Urgent    lipgloss.Color
	Chat      lipgloss.Color
	Separator lipgloss.Color
}

var (
	darkPalette = Palette{
		BarBg:     "#27272a",
		BarFg:     "#a1a1aa",
		Accent:    "#fb7185",
		Good:      "#6ee7b7",
		Primary:   "#e4e4e7",
		Secondary: "#71717a",
		Urgent:    "#fca5a5",
		Chat:      "#bae6fd",
		Separator: "#52525b",
	}
	lightPalette = Palette{
		BarBg:     "#f5efe6",
		BarFg:     "#52525b",
		Accent:    "#e11d48",
		Good:      "#047857",
		Primary:   "#18181b",
		Secondary: "#71717a",
		Urgent:    "#b91c1c",
		Chat:      "#0369a1",
		Separator: "#a1a1aa",
	}
)

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Bar       lipgloss.Style
	BarLabel  lipgloss.Style
	BarValue  lipgloss.Style
	Sep       lipgloss.Style
	Banner    lipgloss.Style
	Title     lipgloss.Style
	Heading   lipgloss.Style
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Value     lipgloss.Style
	Good      lipgloss.Style
	Urgent    lipgloss.Style
	Chat      lipgloss.Style
	Prompt    lipgloss.Style
}

// NewStyles builds the styles for theme ("dark" or "light"; anything else
// is dark).
func NewStyles(theme string) Styles {
	p := darkPalette
	if strings.EqualFold(theme, domain.ThemeLight) {
		p = lightPalette
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Styles{
		Bar:       lipgloss.NewStyle().Background(p.BarBg).Foreground(p.BarFg),
		BarLabel:  fg(p.BarFg),
		BarValue:  fg(p.Accent).Bold(true),
		Sep:       fg(p.Separator),
		Banner:    fg(p.Accent),
		Title:     fg(p.Accent).Bold(true),
		Heading:   fg(p.Good).Bold(true),
		Primary:   fg(p.Primary),
		Secondary: fg(p.Secondary),
		Value:     fg(p.Primary).Bold(true),
		Good:      fg(p.Good),
		Urgent:    fg(p.Urgent).Bold(true),
		Chat:      fg(p.Chat),
		Prompt:    fg(p.BarFg),
	}
}
