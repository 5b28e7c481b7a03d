package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/formula"
	"github.com/hammamikhairi/calcsite/internal/ledger"
	"github.com/hammamikhairi/calcsite/internal/reference"
)

// ── Views ────────────────────────────────────────────────────────
// Every view is a pure function of its arguments and returns the block
// printed above the prompt.

// Home lists the categories with their tool counts.
func (st Styles) Home(cats []formula.CategoryCount) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Categories") + "\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "  %s %s %s\n", c.Icon,
			st.Primary.Render(fmt.Sprintf("%-12s", c.Name)),
			st.Secondary.Render(fmt.Sprintf("%d tools  (cat %s)", c.Tools, c.ID)))
	}
	return b.String()
}

// ToolList lists tools under a heading.
func (st Styles) ToolList(heading string, tools []domain.ToolDefinition) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(heading) + "\n")
	if len(tools) == 0 {
		b.WriteString(st.Secondary.Render("  nothing here") + "\n")
		return b.String()
	}
	for _, t := range tools {
		fmt.Fprintf(&b, "  %s %s %s\n", t.Icon,
			st.Primary.Render(fmt.Sprintf("%-12s", t.ID)),
			st.Secondary.Render(t.Name+" · "+t.Description))
	}
	return b.String()
}

// Tool renders a calculator screen: inputs, main value, details and the
// estimated cost converted into cur.
func (st Styles) Tool(tool domain.ToolDefinition, v domain.Values, res domain.CalcResult, cur domain.Currency) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", tool.Icon, st.Title.Render(tool.Name))
	if tool.Description != "" {
		b.WriteString(st.Secondary.Render("  "+tool.Description) + "\n")
	}

	b.WriteString("\n" + st.Heading.Render("Inputs") + "\n")
	for _, in := range tool.Inputs {
		val := v.Text(in.Key)
		if !in.IsSelect() {
			val = strconv.FormatFloat(v.Num(in.Key), 'f', -1, 64)
		}
		line := fmt.Sprintf("  %-18s %s", in.Label, st.Value.Render(val))
		if in.Unit != "" {
			line += " " + st.Secondary.Render(in.Unit)
		}
		if in.IsSelect() {
			line += st.Secondary.Render("  [" + strings.Join(in.Options, "|") + "]")
		}
		line += st.Secondary.Render("  (" + in.Key + ")")
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + st.Heading.Render("Result") + "\n")
	main := res.MainDisplay()
	if res.MainUnit != "" {
		main += " " + res.MainUnit
	}
	b.WriteString("  " + st.Title.Render(main) + "\n")
	for _, d := range res.Details {
		line := fmt.Sprintf("  %-18s %s", d.Label, st.Primary.Render(d.Value))
		if d.Unit != "" {
			line += " " + st.Secondary.Render(d.Unit)
		}
		b.WriteString(line + "\n")
	}
	if res.Cost > 0 {
		cost := domain.Convert(res.Cost, domain.BaseCurrency, cur)
		fmt.Fprintf(&b, "\n  %-18s %s\n", "Est. Cost", st.Good.Render(ledger.FormatMoney(cur, cost)))
	}
	b.WriteString(st.Secondary.Render("  key=value to edit · add to commit · back to close") + "\n")
	return b.String()
}

// NotFound is shown for an unknown tool or reference id.
func (st Styles) NotFound(what, id string) string {
	return st.Urgent.Render(fmt.Sprintf("  %s %q not found.", what, id)) + "\n" +
		st.Secondary.Render("  Type home to go back, or search <text> to look for it.") + "\n"
}

// Ledger renders the bill of quantities with its total.
func (st Styles) Ledger(items []domain.BOQItem, cur domain.Currency) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Bill of Quantities") + "\n")
	if len(items) == 0 {
		b.WriteString(st.Secondary.Render("  The ledger is empty. Open a tool and type add.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			it.Name,
			truncate(it.Detail, 42),
			itemMoney(it, cur),
			it.Timestamp.Format("02 Jan 15:04"),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Sep).
		Headers("#", "Item", "Specification", "Amount", "Added").
		Rows(rows...)
	b.WriteString(t.Render() + "\n")

	fmt.Fprintf(&b, "  %s %s\n", st.Primary.Render("Total:"), st.Good.Render(ledger.FormatMoney(cur, ledger.Total(items))))
	if ledger.MixedCurrencies(items) {
		b.WriteString(st.Urgent.Render(fmt.Sprintf("  Items span currencies; converted total %s",
			ledger.FormatMoney(cur, ledger.ConvertedTotal(items, cur)))) + "\n")
	}
	return b.String()
}

func itemMoney(it domain.BOQItem, fallback domain.Currency) string {
	if c, ok := domain.LookupCurrency(it.CurrencyCode); ok {
		return ledger.FormatMoney(c, it.Amount)
	}
	return ledger.FormatMoney(fallback, it.Amount)
}

// Rates lists the rate table in base currency.
func (st Styles) Rates(r domain.Rates) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Material rates (INR)") + "\n")
	for _, k := range domain.RateKeys {
		fmt.Fprintf(&b, "  %-16s %s\n", k, st.Value.Render(humanize.Commaf(r.Get(k))))
	}
	b.WriteString(st.Secondary.Render("  rate <key> <value> to change · rates reset") + "\n")
	return b.String()
}

// Currencies lists the supported currencies, marking the active one.
func (st Styles) Currencies(active domain.Currency) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Currency") + "\n")
	for _, c := range domain.Currencies {
		mark := "  "
		if c.Code == active.Code {
			mark = st.Good.Render("● ")
		}
		fmt.Fprintf(&b, "  %s%s %s %s\n", mark, c.Code, c.Symbol, st.Secondary.Render(c.Name))
	}
	return b.String()
}

// Projects lists projects, marking the active one.
func (st Styles) Projects(list []domain.Project, activeID string) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Projects") + "\n")
	for _, p := range list {
		mark := "  "
		if p.ID == activeID {
			mark = st.Good.Render("● ")
		}
		fmt.Fprintf(&b, "  %s%s %s\n", mark, st.Primary.Render(p.Name), st.Secondary.Render(p.Location+" · "+shortID(p.ID)))
	}
	return b.String()
}

// Reference renders reference tables and thumb rules.
func (st Styles) Reference(tables []reference.Table, rules []reference.RuleSet) string {
	var b strings.Builder
	for _, tb := range tables {
		b.WriteString(st.Title.Render(tb.Title) + "\n")
		if len(tb.Rows) > 0 {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(st.Sep).
				Headers(tb.Rows[0]...).
				Rows(tb.Rows[1:]...)
			b.WriteString(t.Render() + "\n")
		}
	}
	for _, rs := range rules {
		b.WriteString(st.Title.Render(rs.Title) + "\n")
		for _, r := range rs.Rules {
			fmt.Fprintf(&b, "  %-24s %s\n", r.Item, st.Value.Render(r.Rule))
		}
	}
	return b.String()
}

// Turn renders one assistant conversation turn.
func (st Styles) Turn(t domain.Turn) string {
	switch {
	case t.Failed:
		return st.Urgent.Render("  AI: "+t.Content) + "\n"
	case t.Role == domain.RoleAssistant:
		return st.Chat.Render("  AI: "+t.Content) + "\n"
	}
	return st.Secondary.Render("  you: ") + st.Primary.Render(t.Content) + "\n"
}

// Help lists the REPL commands.
func (st Styles) Help() string {
	cmds := [][2]string{
		{"home | cat <id> | search <text>", "browse calculators"},
		{"open <tool> | <tool>", "open a calculator"},
		{"key=value ...", "edit inputs of the open calculator"},
		{"add", "commit the result to the bill of quantities"},
		{"boq | rm <n> | clear", "view or edit the bill"},
		{"export [text|xlsx|pdf] [file]", "export the bill"},
		{"currency [code] | rates | rate <k> <v>", "display currency and rates"},
		{"project [new|use|delete] ...", "manage site estimates"},
		{"convert <v> <from> <to> | convert swap", "unit converter"},
		{"ref [text]", "reference tables and thumb rules"},
		{"theme dark|light", "switch palette"},
		{"onboard <trades...> [metric|imperial]", "pick your trades"},
		{"ask <question> | <question>?", "ask the AI assistant"},
		{"quit", "leave"},
	}
	var b strings.Builder
	b.WriteString(st.Title.Render("Commands") + "\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "  %-40s %s\n", c[0], st.Secondary.Render(c[1]))
	}
	return b.String()
}

// ── Helpers ──────────────────────────────────────────────────────

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
