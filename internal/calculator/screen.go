// Package calculator implements the generic calculator screen: it seeds a
// tool's form from its defaults, sanitizes raw input and recomputes the
// result on every change.
package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// DetailSeparator joins "key:value" pairs in a committed item's detail.
const DetailSeparator = ", "

// Screen is the state of one open calculator. It is not safe for
// concurrent use; the REPL owns it.
type Screen struct {
	tool   domain.ToolDefinition
	values domain.Values
	rates  domain.Rates
	result domain.CalcResult
}

// Open looks up id in the catalog and returns a screen seeded with the
// tool's defaults and evaluated against rates. A missing tool yields
// domain.ErrToolNotFound.
func Open(catalog domain.ToolCatalog, id string, rates domain.Rates) (*Screen, error) {
	tool, ok := catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("calculator: open %q: %w", id, domain.ErrToolNotFound)
	}
	return New(tool, rates), nil
}

// New returns a screen for tool, seeded with its defaults.
func New(tool domain.ToolDefinition, rates domain.Rates) *Screen {
	s := &Screen{tool: tool, rates: rates.Clone()}
	s.Reset()
	return s
}

// Reset restores every input to its default and recomputes.
func (s *Screen) Reset() {
	var v domain.Values
	for _, in := range s.tool.Inputs {
		if in.IsSelect() {
			v.SetText(in.Key, in.DefaultOption)
			continue
		}
		v.SetNum(in.Key, Sanitize(in.Default))
	}
	s.values = v
	s.Recompute()
}

// Tool returns the tool definition behind the screen.
func (s *Screen) Tool() domain.ToolDefinition { return s.tool }

// Values returns a copy of the current form values.
func (s *Screen) Values() domain.Values { return s.values.Clone() }

// Result returns the latest result.
func (s *Screen) Result() domain.CalcResult { return s.result }

// Set updates one input from raw text and recomputes. Numeric input that
// does not parse, or is negative, NaN or infinite, becomes 0. A select
// input only accepts one of its options; anything else keeps the current
// value.
func (s *Screen) Set(key, raw string) error {
	in, ok := s.tool.Input(key)
	if !ok {
		return fmt.Errorf("calculator: %s has no input %q: %w", s.tool.ID, key, domain.ErrUnknownInput)
	}
	if in.IsSelect() {
		if opt, ok := matchOption(in.Options, raw); ok {
			s.values.SetText(key, opt)
		}
	} else {
		s.values.SetNum(key, ParseNumber(raw))
	}
	s.Recompute()
	return nil
}

// UseRates swaps the rate table and recomputes. Results already committed
// are not affected.
func (s *Screen) UseRates(rates domain.Rates) {
	s.rates = rates.Clone()
	s.Recompute()
}

// Recompute replaces the result wholesale from the current values.
func (s *Screen) Recompute() {
	s.result = s.tool.Formula(s.values.Clone(), s.rates)
}

// Draft builds the ledger entry for the current result. The amount is the
// formula cost in the base currency.
func (s *Screen) Draft() domain.Draft {
	return domain.Draft{
		Name:   s.tool.Name,
		Detail: s.values.Encode(s.tool.Inputs, DetailSeparator),
		Amount: s.result.Cost,
		Type:   s.tool.ID,
	}
}

// ParseNumber turns raw form text into a non-negative finite number.
func ParseNumber(raw string) float64 {
	f, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return Sanitize(f)
}

// Sanitize clamps negative, NaN and infinite values to 0.
func Sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func matchOption(options []string, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, o := range options {
		if strings.EqualFold(o, raw) {
			return o, true
		}
	}
	return "", false
}
