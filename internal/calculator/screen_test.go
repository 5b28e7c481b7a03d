package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/formula"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// probeTool records what its formula receives.
func probeTool(seen *domain.Values) domain.ToolDefinition {
	return domain.ToolDefinition{
		ID:   "probe",
		Name: "Probe",
		Inputs: []domain.InputSpec{
			{Key: "a", Label: "A", Default: 2},
			{Key: "b", Label: "B", Default: 3},
			{Key: "mode", Label: "Mode", Options: []string{"fast", "slow"}, DefaultOption: "fast"},
		},
		Formula: func(v domain.Values, r domain.Rates) domain.CalcResult {
			*seen = v
			return domain.CalcResult{MainValue: v.Num("a") * v.Num("b"), Cost: v.Num("a") * r.Get(domain.RateSteelKg)}
		},
	}
}

func TestOpenUnknownTool(t *testing.T) {
	reg := formula.NewDefault(logger.New(logger.LevelOff, nil))

	s, err := Open(reg, "nonexistent", domain.DefaultRates())
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
	if s != nil {
		t.Fatal("expected no screen for an unknown tool")
	}
}

func TestOpenSeedsDefaults(t *testing.T) {
	var seen domain.Values
	s := New(probeTool(&seen), domain.DefaultRates())

	if seen.Num("a") != 2 || seen.Num("b") != 3 || seen.Text("mode") != "fast" {
		t.Fatalf("formula saw %v/%v/%q", seen.Num("a"), seen.Num("b"), seen.Text("mode"))
	}
	if s.Result().MainValue != 6 {
		t.Fatalf("initial result = %v, want 6", s.Result().MainValue)
	}
}

func TestSetClampsBeforeFormula(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"5", 5},
		{" 2.5 ", 2.5},
		{"-3", 0},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-Inf", 0},
		{"1e3", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var seen domain.Values
			s := New(probeTool(&seen), domain.DefaultRates())
			if err := s.Set("a", tt.raw); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got := seen.Num("a")
			if got != tt.want || math.IsNaN(got) {
				t.Fatalf("formula saw a=%v, want %v", got, tt.want)
			}
			if s.Result().MainValue != tt.want*3 {
				t.Fatalf("result not recomputed: %v", s.Result().MainValue)
			}
		})
	}
}

func TestSetSelect(t *testing.T) {
	var seen domain.Values
	s := New(probeTool(&seen), domain.DefaultRates())

	if err := s.Set("mode", "SLOW"); err != nil {
		t.Fatal(err)
	}
	if seen.Text("mode") != "slow" {
		t.Fatalf("mode = %q, want slow", seen.Text("mode"))
	}
	if err := s.Set("mode", "warp"); err != nil {
		t.Fatal(err)
	}
	if seen.Text("mode") != "slow" {
		t.Fatalf("invalid option changed mode to %q", seen.Text("mode"))
	}
}

func TestSetUnknownInput(t *testing.T) {
	var seen domain.Values
	s := New(probeTool(&seen), domain.DefaultRates())
	if err := s.Set("zzz", "1"); !errors.Is(err, domain.ErrUnknownInput) {
		t.Fatalf("err = %v, want ErrUnknownInput", err)
	}
}

func TestUseRatesRecomputes(t *testing.T) {
	var seen domain.Values
	s := New(probeTool(&seen), domain.DefaultRates())
	before := s.Result().Cost

	rates := domain.DefaultRates()
	rates[domain.RateSteelKg] = 150
	s.UseRates(rates)

	if s.Result().Cost != before*2 {
		t.Fatalf("cost = %v, want %v", s.Result().Cost, before*2)
	}
	rates[domain.RateSteelKg] = 1
	if s.Result().Cost != before*2 {
		t.Fatal("screen must not alias the caller's rate table")
	}
}

func TestDraftEncodesInputsInOrder(t *testing.T) {
	var seen domain.Values
	s := New(probeTool(&seen), domain.DefaultRates())
	_ = s.Set("b", "1.5")

	d := s.Draft()
	if d.Detail != "a:2, b:1.5, mode:fast" {
		t.Fatalf("detail = %q", d.Detail)
	}
	if d.Name != "Probe" || d.Type != "probe" || d.Amount != s.Result().Cost {
		t.Fatalf("draft = %+v", d)
	}
}

func TestSlabThroughScreen(t *testing.T) {
	reg := formula.NewDefault(logger.New(logger.LevelOff, nil))
	s, err := Open(reg, "slab", domain.DefaultRates())
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range map[string]string{"length": "5", "width": "4", "thickness": "150", "grade": "m20"} {
		if err := s.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Result().MainDisplay(); got != "3.00" {
		t.Fatalf("volume = %s, want 3.00", got)
	}
	if s.Draft().Detail != "length:5, width:4, unit:m, thickness:150, grade:M20" {
		t.Fatalf("detail = %q", s.Draft().Detail)
	}
}
