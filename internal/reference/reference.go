// Package reference holds the static engineering tables and thumb rules
// shown on the reference screen.
package reference

import "strings"

// Table is a titled grid; the first row is the header.
type Table struct {
	ID    string
	Title string
	Rows  [][]string
}

// Rule is one thumb rule.
type Rule struct {
	Item string
	Rule string
}

// RuleSet groups related thumb rules.
type RuleSet struct {
	ID    string
	Title string
	Rules []Rule
}

// Tables are the reference tables in display order.
var Tables = []Table{
	{
		ID:    "mix-ratios",
		Title: "Concrete Mix Ratios (IS 456)",
		Rows: [][]string{
			{"Grade", "Ratio (C:S:A)", "Compressive Strength"},
			{"M10", "1 : 3 : 6", "10 N/mm²"},
			{"M15", "1 : 2 : 4", "15 N/mm²"},
			{"M20", "1 : 1.5 : 3", "20 N/mm²"},
			{"M25", "1 : 1 : 2", "25 N/mm²"},
			{"M30", "Design Mix", "30 N/mm²"},
		},
	},
	{
		ID:    "clear-cover",
		Title: "Standard Clear Cover",
		Rows: [][]string{
			{"Structural Element", "Minimum Cover"},
			{"Slab", "20 mm"},
			{"Beam", "25 mm"},
			{"Column", "40 mm"},
			{"Footing", "50 mm"},
			{"Retaining Wall", "30 mm"},
		},
	},
	{
		ID:    "steel-weights",
		Title: "Steel Rebar Unit Weights",
		Rows: [][]string{
			{"Diameter", "Weight (kg/m)", "Cross Area (mm²)"},
			{"8 mm", "0.395", "50.27"},
			{"10 mm", "0.617", "78.54"},
			{"12 mm", "0.888", "113.10"},
			{"16 mm", "1.580", "201.06"},
			{"20 mm", "2.470", "314.16"},
			{"25 mm", "3.850", "490.87"},
		},
	},
}

// ThumbRules are the rule sets in display order.
var ThumbRules = []RuleSet{
	{
		ID:    "masonry-rules",
		Title: "Masonry & Plastering",
		Rules: []Rule{
			{"Bricks per m³", "500 Nos"},
			{"Mortar (1:6) per m³", "0.25 m³"},
			{"Cement (Plastering)", "1 Bag per 100 sqft"},
			{"Sand (Plastering)", "0.15 m³ per 100 sqft"},
		},
	},
	{
		ID:    "structural-rules",
		Title: "Steel Requirements",
		Rules: []Rule{
			{"RCC Slab", "80 kg/m³"},
			{"RCC Beam", "120 kg/m³"},
			{"RCC Column", "160 kg/m³"},
			{"RCC Footing", "100 kg/m³"},
		},
	},
}

// TableByID returns the table with id.
func TableByID(id string) (Table, bool) {
	for _, t := range Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// Search returns the tables and rule sets whose title or contents mention
// query, case-insensitively. An empty query returns everything.
func Search(query string) ([]Table, []RuleSet) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Tables, ThumbRules
	}
	var tables []Table
	for _, t := range Tables {
		if matchTable(t, q) {
			tables = append(tables, t)
		}
	}
	var rules []RuleSet
	for _, rs := range ThumbRules {
		if matchRules(rs, q) {
			rules = append(rules, rs)
		}
	}
	return tables, rules
}

func matchTable(t Table, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	for _, r := range t.Rows {
		for _, cell := range r {
			if strings.Contains(strings.ToLower(cell), q) {
				return true
			}
		}
	}
	return false
}

func matchRules(rs RuleSet, q string) bool {
	if strings.Contains(strings.ToLower(rs.Title), q) {
		return true
	}
	for _, r := range rs.Rules {
		if strings.Contains(strings.ToLower(r.Item), q) || strings.Contains(strings.ToLower(r.Rule), q) {
			return true
		}
	}
	return false
}
