package display

import (
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/calcsite/internal/calculator"
	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/formula"
	"github.com/hammamikhairi/calcsite/internal/logger"
	"github.com/hammamikhairi/calcsite/internal/reference"
)

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestToolView(t *testing.T) {
	reg := formula.NewDefault(logger.New(logger.LevelOff, nil))
	s, err := calculator.Open(reg, "slab", domain.DefaultRates())
	if err != nil {
		t.Fatal(err)
	}
	st := NewStyles(domain.ThemeDark)
	out := st.Tool(s.Tool(), s.Values(), s.Result(), domain.BaseCurrency)
	assertContains(t, out, "Slab Concrete", "3.00 m³", "Cement Bags", "25", "₹21,600", "(thickness)", "[M15|M20|M25]")

	usd, _ := domain.LookupCurrency("USD")
	assertContains(t, st.Tool(s.Tool(), s.Values(), s.Result(), usd), "$260")
}

func TestNotFoundView(t *testing.T) {
	out := NewStyles(domain.ThemeLight).NotFound("Tool", "gazebo")
	assertContains(t, out, `Tool "gazebo" not found.`, "home")
}

func TestLedgerView(t *testing.T) {
	st := NewStyles(domain.ThemeDark)
	assertContains(t, st.Ledger(nil, domain.BaseCurrency), "ledger is empty")

	ts := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	items := []domain.BOQItem{
		{ID: "a", Name: "Slab Concrete", Detail: "length:5", Amount: 1000, Timestamp: ts, CurrencySymbol: "₹", CurrencyCode: "INR"},
		{ID: "b", Name: "Brick Wall", Detail: "length:10", Amount: 2500, Timestamp: ts, CurrencySymbol: "₹", CurrencyCode: "INR"},
	}
	out := st.Ledger(items, domain.BaseCurrency)
	assertContains(t, out, "Slab Concrete", "Brick Wall", "₹2,500", "Total:", "₹3,500", "02 Jan 10:00")
	if strings.Contains(out, "span currencies") {
		t.Error("single-currency ledger flagged as mixed")
	}

	items = append(items, domain.BOQItem{ID: "c", Name: "Paint", Amount: 10, CurrencySymbol: "$", CurrencyCode: "USD"})
	assertContains(t, st.Ledger(items, domain.BaseCurrency), "span currencies", "₹4,330")
}

func TestReferenceView(t *testing.T) {
	tables, rules := reference.Search("column")
	out := NewStyles(domain.ThemeDark).Reference(tables, rules)
	assertContains(t, out, "Standard Clear Cover", "40 mm", "Steel Requirements", "160 kg/m³")
}

func TestStatusBar(t *testing.T) {
	out := RenderStatus(NewStyles(domain.ThemeDark), Status{
		Project: "Main Site Estate", Currency: "INR", Items: 2, Total: "₹3,500", Busy: true,
	}, 100)
	assertContains(t, out, "Main Site Estate", "INR", "2 · ₹3,500", "AI thinking")
}

func TestTurnAndBanner(t *testing.T) {
	st := NewStyles(domain.ThemeDark)
	assertContains(t, st.Turn(domain.Turn{Role: domain.RoleUser, Content: "hi"}), "you:", "hi")
	assertContains(t, st.Turn(domain.Turn{Role: domain.RoleAssistant, Content: "hello"}), "AI: hello")
	assertContains(t, RenderBanner(st, 120), "site estimation")
	assertContains(t, st.Help(), "export", "convert")
}
