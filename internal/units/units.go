// Package units converts between common site units within one quantity
// kind (length, area, volume, weight).
package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// Factor is how many of Unit make one base unit of its kind.
type Factor struct {
	Unit  string
	Ratio float64
}

// Kind is a family of mutually convertible units; the first is the base.
type Kind struct {
	Name  string
	Units []Factor
}

// Kinds lists the supported conversions in display order.
var Kinds = []Kind{
	{Name: "length", Units: []Factor{{"m", 1}, {"ft", 3.28084}, {"in", 39.3701}, {"mm", 1000}}},
	{Name: "area", Units: []Factor{{"sq m", 1}, {"sq ft", 10.7639}, {"sq yd", 1.19599}, {"acre", 0.000247}}},
	{Name: "volume", Units: []Factor{{"m³", 1}, {"ft³", 35.3147}, {"liter", 1000}, {"gallon", 264.172}}},
	{Name: "weight", Units: []Factor{{"kg", 1}, {"lb", 2.20462}, {"ton", 0.001}, {"oz", 35.274}}},
}

// aliases accept ASCII spellings at the prompt.
var aliases = map[string]string{
	"sqm": "sq m", "sqft": "sq ft", "sqyd": "sq yd",
	"m3": "m³", "cum": "m³", "ft3": "ft³", "cft": "ft³",
	"l": "liter", "litre": "liter", "liters": "liter", "litres": "liter",
	"gal": "gallon", "lbs": "lb", "tonne": "ton", "t": "ton",
}

// Normalize maps user spellings to canonical unit names.
func Normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if a, ok := aliases[u]; ok {
		return a
	}
	return u
}

// LookupKind returns the kind named name.
func LookupKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return Kind{}, false
}

// KindOf finds the kind containing unit.
func KindOf(unit string) (Kind, bool) {
	u := Normalize(unit)
	for _, k := range Kinds {
		if _, ok := k.ratio(u); ok {
			return k, true
		}
	}
	return Kind{}, false
}

func (k Kind) ratio(unit string) (float64, bool) {
	for _, f := range k.Units {
		if f.Unit == unit {
			return f.Ratio, true
		}
	}
	return 0, false
}

// Convert expresses value (in from) in to. Negative or non-finite values
// are taken as 0.
func (k Kind) Convert(value float64, from, to string) (float64, error) {
	fr, ok := k.ratio(Normalize(from))
	if !ok {
		return 0, fmt.Errorf("units: %s has no unit %q: %w", k.Name, from, domain.ErrUnknownUnit)
	}
	tr, ok := k.ratio(Normalize(to))
	if !ok {
		return 0, fmt.Errorf("units: %s has no unit %q: %w", k.Name, to, domain.ErrUnknownUnit)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}
	return value / fr * tr, nil
}

// Converter is the state of the converter screen.
type Converter struct {
	Kind  Kind
	From  string
	To    string
	Value float64
}

// NewConverter starts on kind with its first two units and a value of 1.
func NewConverter(kind Kind) *Converter {
	return &Converter{Kind: kind, From: kind.Units[0].Unit, To: kind.Units[1].Unit, Value: 1}
}

// Set points the converter at from -> to with value. Both units must belong
// to the converter's kind; on error the converter is left unchanged.
func (c *Converter) Set(value float64, from, to string) error {
	from, to = Normalize(from), Normalize(to)
	if _, err := c.Kind.Convert(value, from, to); err != nil {
		return err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}
	c.From, c.To, c.Value = from, to, value
	return nil
}

// Result converts the current value.
func (c *Converter) Result() (float64, error) {
	return c.Kind.Convert(c.Value, c.From, c.To)
}

// Swap exchanges the units and carries the result, rounded to four
// decimals, over as the new input.
func (c *Converter) Swap() error {
	r, err := c.Result()
	if err != nil {
		return err
	}
	c.From, c.To = c.To, c.From
	c.Value = math.Round(r*1e4) / 1e4
	return nil
}
