package reference

import "testing"

func TestSearch(t *testing.T) {
	tests := []struct {
		query      string
		wantTables int
		wantRules  int
	}{
		{"", len(Tables), len(ThumbRules)},
		{"mix", 1, 0},
		{"column", 1, 1},
		{"PLASTER", 0, 1},
		{"asphalt", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			tables, rules := Search(tt.query)
			if len(tables) != tt.wantTables || len(rules) != tt.wantRules {
				t.Fatalf("got %d tables / %d rule sets, want %d / %d",
					len(tables), len(rules), tt.wantTables, tt.wantRules)
			}
		})
	}
}

func TestTableByID(t *testing.T) {
	tbl, ok := TableByID("clear-cover")
	if !ok || tbl.Rows[3][1] != "40 mm" {
		t.Fatalf("clear-cover = %+v", tbl)
	}
	if _, ok := TableByID("nope"); ok {
		t.Fatal("unknown id found")
	}
}
