// Package formula holds the catalog of construction calculators. Every tool
// is a plain ToolDefinition whose Formula maps form values and material
// rates to a result. The catalog is built once at start-up and never mutated.
package formula

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// Compile-time interface check.
var _ domain.ToolCatalog = (*Registry)(nil)

// Categories in home screen order.
var Categories = []domain.Category{
	{ID: "concrete", Name: "Concrete", Icon: "🏗️"},
	{ID: "steel", Name: "Steel", Icon: "⚙️"},
	{ID: "masonry", Name: "Masonry", Icon: "🧱"},
	{ID: "finishing", Name: "Finishing", Icon: "🖌️"},
	{ID: "electrical", Name: "Electrical", Icon: "⚡"},
	{ID: "hvac", Name: "HVAC", Icon: "❄️"},
}

// CategoryCount pairs a category with the number of tools in it.
type CategoryCount struct {
	domain.Category
	Tools int
}

// Registry is an ordered, read-only tool catalog. Safe for concurrent reads
// because nothing writes after New returns.
type Registry struct {
	tools []domain.ToolDefinition
	index map[string]int
	log   *logger.Logger
}

// New builds a registry from the given tools, keeping their order. It panics
// on duplicate tool ids, ids that are not trimmed lower-case, or duplicate
// input keys within a tool. Every formula is wrapped so overflowing results
// come back unavailable.
func New(log *logger.Logger, tools ...domain.ToolDefinition) *Registry {
	r := &Registry{
		tools: make([]domain.ToolDefinition, 0, len(tools)),
		index: make(map[string]int, len(tools)),
		log:   log,
	}
	for _, t := range tools {
		if t.ID == "" || t.ID != strings.ToLower(strings.TrimSpace(t.ID)) {
			panic(fmt.Sprintf("formula: tool id %q must be non-empty lower-case", t.ID))
		}
		if _, dup := r.index[t.ID]; dup {
			panic(fmt.Sprintf("formula: duplicate tool id %q", t.ID))
		}
		seen := make(map[string]bool, len(t.Inputs))
		for _, in := range t.Inputs {
			if seen[in.Key] {
				panic(fmt.Sprintf("formula: tool %q has duplicate input %q", t.ID, in.Key))
			}
			seen[in.Key] = true
		}
		if t.Formula == nil {
			panic(fmt.Sprintf("formula: tool %q has no formula", t.ID))
		}
		t.Formula = finite(t.Formula)
		r.index[t.ID] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	log.Debug("registry built with %d tools", len(r.tools))
	return r
}

// NewDefault builds the registry with every built-in tool.
func NewDefault(log *logger.Logger) *Registry {
	return New(log, Builtin()...)
}

// Builtin returns the built-in tools in catalog order.
func Builtin() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		slabTool(),
		columnTool(),
		footingTool(),
		stairTool(),
		excavationTool(),
		steelTool(),
		brickTool(),
		paintingTool(),
		tilingTool(),
		elecLoadTool(),
		wireSizeTool(),
		hvacLoadTool(),
	}
}

// Get returns a tool by id. A missing id is reported with ok == false.
func (r *Registry) Get(id string) (domain.ToolDefinition, bool) {
	i, ok := r.index[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		r.log.Debug("tool not found: %q", id)
		return domain.ToolDefinition{}, false
	}
	return r.tools[i], true
}

// ListByCategory returns the tools of a category in insertion order.
func (r *Registry) ListByCategory(categoryID string) []domain.ToolDefinition {
	var out []domain.ToolDefinition
	for _, t := range r.tools {
		if strings.EqualFold(t.Category, categoryID) {
			out = append(out, t)
		}
	}
	return out
}

// All returns every tool in insertion order.
func (r *Registry) All() []domain.ToolDefinition {
	out := make([]domain.ToolDefinition, len(r.tools))
	copy(out, r.tools)
	return out
}

// Categories returns the home screen categories with their tool counts.
func (r *Registry) Categories() []CategoryCount {
	out := make([]CategoryCount, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, CategoryCount{Category: c, Tools: len(r.ListByCategory(c.ID))})
	}
	return out
}

// Search returns tools whose name, id, description or category contains the
// query, case-insensitively. An empty query matches nothing.
func (r *Registry) Search(query string) []domain.ToolDefinition {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []domain.ToolDefinition
	for _, t := range r.tools {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(t.ID, q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(t.Category, q) {
			out = append(out, t)
		}
	}
	r.log.Debug("search %q matched %d tools", query, len(out))
	return out
}
