package formula

import (
	"testing"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewDefault(logger.New(logger.LevelOff, nil))
}

func TestGet(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name   string
		id     string
		wantOK bool
	}{
		{"slab", "slab", true},
		{"hyphenated id", "elec-load", true},
		{"case and space insensitive", "  Steel ", true},
		{"unknown id", "nonexistent", false},
		{"empty id", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, ok := reg.Get(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if ok && tool.Formula == nil {
				t.Fatal("tool has no formula")
			}
		})
	}
}

func TestListByCategoryKeepsInsertionOrder(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		category string
		want     []string
	}{
		{"concrete", []string{"slab", "column", "footing", "stair", "excavation"}},
		{"electrical", []string{"elec-load", "wire-size"}},
		{"finishing", []string{"painting", "tiling"}},
		{"plumbing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := reg.ListByCategory(tt.category)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tools, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("tool %d = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCategoriesCountTools(t *testing.T) {
	reg := newTestRegistry(t)
	total := 0
	for _, c := range reg.Categories() {
		if c.Tools == 0 {
			t.Errorf("category %s has no tools", c.ID)
		}
		total += c.Tools
	}
	if total != len(reg.All()) {
		t.Fatalf("categories cover %d tools, registry has %d", total, len(reg.All()))
	}
}

func TestSearch(t *testing.T) {
	reg := newTestRegistry(t)

	if got := reg.Search(""); got != nil {
		t.Fatalf("empty query matched %d tools", len(got))
	}
	got := reg.Search("VOLTAGE")
	if len(got) != 1 || got[0].ID != "wire-size" {
		t.Fatalf("search voltage = %+v", got)
	}
	if len(reg.Search("concrete")) < 5 {
		t.Fatal("category search should match every concrete tool")
	}
}

func TestNewPanicsOnDuplicates(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	noop := func(domain.Values, domain.Rates) domain.CalcResult { return domain.CalcResult{} }

	tests := []struct {
		name  string
		tools []domain.ToolDefinition
	}{
		{"duplicate id", []domain.ToolDefinition{
			{ID: "a", Formula: noop},
			{ID: "a", Formula: noop},
		}},
		{"duplicate input", []domain.ToolDefinition{
			{ID: "a", Formula: noop, Inputs: []domain.InputSpec{{Key: "x"}, {Key: "x"}}},
		}},
		{"missing formula", []domain.ToolDefinition{{ID: "a"}}},
		{"upper-case id", []domain.ToolDefinition{{ID: "Slab", Formula: noop}}},
		{"padded id", []domain.ToolDefinition{{ID: " slab", Formula: noop}}},
		{"empty id", []domain.ToolDefinition{{Formula: noop}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			New(log, tt.tools...)
		})
	}
}

func TestOverflowingResultIsUnavailable(t *testing.T) {
	reg := newTestRegistry(t)
	tool, _ := reg.Get("slab")

	v := defaults(tool)
	v.SetNum("length", 1e200)
	v.SetNum("width", 1e200)
	res := tool.Formula(v, domain.DefaultRates())
	if !res.Unavailable || res.MainText != "n/a" || res.Cost != 0 {
		t.Fatalf("got %+v, want unavailable", res)
	}

	tool, _ = reg.Get("steel")
	rates := domain.DefaultRates()
	rates[domain.RateSteelKg] = 1e308
	res = tool.Formula(defaults(tool), rates)
	if !res.Unavailable {
		t.Fatalf("infinite cost not flagged: %+v", res)
	}
}
