package domain

import (
	"strconv"
	"strings"
)

// Category groups tools on the home screen.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// InputSpec describes one form field of a tool. A spec with Options is a
// select input holding text; every other input is numeric.
type InputSpec struct {
	Key           string
	Label         string
	Unit          string
	Default       float64
	Options       []string
	DefaultOption string
}

// IsSelect reports whether the input takes one of a fixed set of options.
func (s InputSpec) IsSelect() bool { return len(s.Options) > 0 }

// Formula computes a result from the current form values and material rates.
// Formulas are pure: no I/O, same inputs give the same result.
type Formula func(v Values, r Rates) CalcResult

// ToolDefinition is an immutable catalog entry.
type ToolDefinition struct {
	ID          string
	Name        string
	Category    string
	Icon        string
	Description string
	Inputs      []InputSpec
	Formula     Formula
}

// Input returns the input definition for key.
func (t ToolDefinition) Input(key string) (InputSpec, bool) {
	for _, in := range t.Inputs {
		if in.Key == key {
			return in, true
		}
	}
	return InputSpec{}, false
}

// DetailRow is a secondary line of a result. Display only.
type DetailRow struct {
	Label string
	Value string
	Unit  string
}

// CalcResult is the output of a formula. Cost is in the base currency (INR).
// MainText, when set, replaces the numeric main value on screen.
// Unavailable marks a result the inputs could not produce; it has no cost
// and cannot be committed.
type CalcResult struct {
	MainValue   float64
	MainText    string
	MainUnit    string
	Details     []DetailRow
	Cost        float64
	Unavailable bool
}

// MainDisplay renders the headline value: text as is, numbers to two decimals.
func (r CalcResult) MainDisplay() string {
	if r.MainText != "" {
		return r.MainText
	}
	return strconv.FormatFloat(r.MainValue, 'f', 2, 64)
}

// ── Values ───────────────────────────────────────────────────────

// Values holds the form state of a tool keyed by InputSpec.Key.
// The zero value is empty and ready to use.
type Values struct {
	nums  map[string]float64
	texts map[string]string
}

// Num returns the numeric value for key, or 0.
func (v Values) Num(key string) float64 { return v.nums[key] }

// Text returns the selected option for key, or "".
func (v Values) Text(key string) string { return v.texts[key] }

// SetNum stores a numeric value.
func (v *Values) SetNum(key string, f float64) {
	if v.nums == nil {
		v.nums = make(map[string]float64)
	}
	v.nums[key] = f
}

// SetText stores a select value.
func (v *Values) SetText(key, s string) {
	if v.texts == nil {
		v.texts = make(map[string]string)
	}
	v.texts[key] = s
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	var out Values
	for k, n := range v.nums {
		out.SetNum(k, n)
	}
	for k, s := range v.texts {
		out.SetText(k, s)
	}
	return out
}

// Encode joins "key:value" pairs for the given inputs, in input order.
func (v Values) Encode(inputs []InputSpec, sep string) string {
	parts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		var val string
		if in.IsSelect() {
			val = v.Text(in.Key)
		} else {
			val = strconv.FormatFloat(v.Num(in.Key), 'f', -1, 64)
		}
		parts = append(parts, in.Key+":"+val)
	}
	return strings.Join(parts, sep)
}
