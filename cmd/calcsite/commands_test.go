package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

func noEnv(string) string { return "" }

// run executes the CLI with an in-memory store unless args pick a --db.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(noEnv)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	base := []string{"--quiet", "--no-ai"}
	if !containsArg(args, "--db") {
		base = append(base, "--memory")
	}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func containsArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("calcsite %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestToolsCommand(t *testing.T) {
	assertContains(t, mustRun(t, "tools"), "Concrete", "Electrical")
	assertContains(t, mustRun(t, "tools", "concrete"), "Slab Concrete")
	assertContains(t, mustRun(t, "tools", "--search", "slab"), "Slab Concrete")
}

func TestCalcCommand(t *testing.T) {
	out := mustRun(t, "calc", "slab", "length=10", "--add")
	assertContains(t, out, "Slab Concrete", "6.00 m³", "Added to BOQ: Slab Concrete")

	_, err := run(t, "calc", "gazebo")
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
	if _, err := run(t, "calc", "slab", "colour=red"); !errors.Is(err, domain.ErrUnknownInput) {
		t.Fatalf("err = %v, want ErrUnknownInput", err)
	}
}

func TestBOQPersistsAcrossRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")

	mustRun(t, "--db", db, "calc", "slab", "--add")
	mustRun(t, "--db", db, "calc", "slab", "length=10", "--add")
	assertContains(t, mustRun(t, "--db", db, "boq", "list"), "Slab Concrete", "₹21,600", "Total:")

	assertContains(t, mustRun(t, "--db", db, "boq", "remove", "1"), "Removed Slab Concrete")
	assertContains(t, mustRun(t, "--db", db, "boq", "export"), "GRAND TOTAL ESTIMATE: ₹43,200")

	if _, err := run(t, "--db", db, "boq", "clear"); err == nil {
		t.Fatal("clear without --yes succeeded")
	}
	assertContains(t, mustRun(t, "--db", db, "boq"), "Slab Concrete")
	assertContains(t, mustRun(t, "--db", db, "boq", "clear", "--yes"), "Ledger cleared")
	assertContains(t, mustRun(t, "--db", db, "boq"), "ledger is empty")
}

func TestBOQExportToFile(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")
	mustRun(t, "--db", db, "calc", "slab", "--add")

	for _, name := range []string{"boq.xlsx", "boq.pdf", "boq.txt"} {
		path := filepath.Join(t.TempDir(), name)
		assertContains(t, mustRun(t, "--db", db, "boq", "export", "-o", path), "Exported")
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Fatalf("%s: %v", name, err)
		}
	}

	if _, err := run(t, "--db", db, "boq", "export", "-f", "docx"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":          "text",
		"bill.XLSX": "xlsx",
		"bill.pdf":  "pdf",
		"bill.txt":  "text",
	}
	for in, want := range tests {
		if got := formatFromPath(in); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSettingsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")

	assertContains(t, mustRun(t, "--db", db, "rates"), domain.RateSlabM3)
	assertContains(t, mustRun(t, "--db", db, "rates", domain.RateSlabM3, "10000"), "rcc_slab_m3 = 10000")
	if _, err := run(t, "--db", db, "rates", domain.RateSlabM3); err == nil {
		t.Fatal("single rates argument accepted")
	}
	assertContains(t, mustRun(t, "--db", db, "calc", "slab"), "₹30,000")
	mustRun(t, "--db", db, "rates", "--reset")
	assertContains(t, mustRun(t, "--db", db, "calc", "slab"), "₹21,600")

	assertContains(t, mustRun(t, "--db", db, "currency", "usd"), "Currency set to USD ($)")
	assertContains(t, mustRun(t, "--db", db, "currency"), "USD")
	if _, err := run(t, "--db", db, "currency", "xyz"); err == nil {
		t.Fatal("unknown currency accepted")
	}

	assertContains(t, mustRun(t, "--db", db, "theme", "light"), "Theme set to light")
	if _, err := run(t, "--db", db, "theme", "sepia"); err == nil {
		t.Fatal("unknown theme accepted")
	}
}

func TestProjectCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")

	assertContains(t, mustRun(t, "--db", db, "project"), domain.DefaultProject.Name)
	assertContains(t, mustRun(t, "--db", db, "project", "new", "Tower", "B", "-l", "Pune"), "Created Tower B (Pune)")
	assertContains(t, mustRun(t, "--db", db, "project", "use", domain.DefaultProject.Name), "Active project: "+domain.DefaultProject.Name)

	if _, err := run(t, "--db", db, "project", "delete", "Tower B"); err == nil {
		t.Fatal("delete without --yes succeeded")
	}
	mustRun(t, "--db", db, "project", "delete", "Tower B", "--yes")
	if out := mustRun(t, "--db", db, "project", "list"); strings.Contains(out, "Tower B") {
		t.Fatalf("deleted project still listed:\n%s", out)
	}
}

func TestOnboardCommand(t *testing.T) {
	out := mustRun(t, "onboard", "electrician,", "general", "contractor", "--units", "imperial")
	assertContains(t, out, "Trades: Electrician, General Contractor (imperial)")

	if _, err := run(t, "onboard", "astronaut"); err == nil {
		t.Fatal("unknown trade accepted")
	}
}

func TestConvertCommand(t *testing.T) {
	assertContains(t, mustRun(t, "convert", "10", "m", "ft"), "10 m = 32.8084 ft")
	assertContains(t, mustRun(t, "convert", "1", "acre", "sqft"), "acre")
	assertContains(t, mustRun(t, "convert", "10", "m", "ft", "--swap"), "32.8084 ft = 10 m")
	if _, err := run(t, "convert", "1", "m", "kg"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Fatalf("err = %v, want ErrUnknownUnit", err)
	}
}

func TestRefAndAskCommands(t *testing.T) {
	assertContains(t, mustRun(t, "ref", "mix"), "Concrete Mix Ratios")
	assertContains(t, mustRun(t, "ref", "gazebo"), "not found")

	if _, err := run(t, "ask", "lap length?"); err == nil {
		t.Fatal("ask succeeded with the assistant disabled")
	}
}

func TestParseTrades(t *testing.T) {
	tests := []struct {
		in     string
		trades []domain.Trade
		units  string
		err    bool
	}{
		{"electrician", []domain.Trade{domain.TradeElectrician}, "", false},
		{"Tile, painter imperial", []domain.Trade{domain.TradeTile, domain.TradePainter}, "imperial", false},
		{"general contractor hvac hvac", []domain.Trade{domain.TradeGeneral, domain.TradeHVAC}, "", false},
		{"metric", nil, "", true},
		{"", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			trades, units, err := parseTrades(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("err = %v", err)
			}
			if tt.err {
				return
			}
			if units != tt.units || len(trades) != len(tt.trades) {
				t.Fatalf("got %v %q", trades, units)
			}
			for i := range trades {
				if trades[i] != tt.trades[i] {
					t.Fatalf("got %v, want %v", trades, tt.trades)
				}
			}
		})
	}
}

func TestSetupRejectsInvalidCurrencyTable(t *testing.T) {
	saved := domain.Currencies
	t.Cleanup(func() { domain.Currencies = saved })
	domain.Currencies = append([]domain.Currency{{Code: "ZZZ", Symbol: "z", RateToINR: 1}}, saved...)

	if _, err := run(t, "currency"); err == nil {
		t.Fatal("start-up accepted a non-ISO currency")
	}
}
