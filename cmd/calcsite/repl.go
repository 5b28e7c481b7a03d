package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/cast"

	"github.com/hammamikhairi/calcsite/internal/assistant"
	"github.com/hammamikhairi/calcsite/internal/calculator"
	"github.com/hammamikhairi/calcsite/internal/conversation"
	"github.com/hammamikhairi/calcsite/internal/display"
	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/engine"
	"github.com/hammamikhairi/calcsite/internal/ledger"
	"github.com/hammamikhairi/calcsite/internal/reference"
	"github.com/hammamikhairi/calcsite/internal/units"
)

// printer is the slice of display.UI the prompt writes to.
type printer interface {
	Print(block string)
	PrintHint(text string)
	PrintUrgent(text string)
}

// pendingAction is a destructive command waiting for yes/no.
type pendingAction struct {
	prompt string
	run    func(context.Context) error
}

// repl interprets prompt lines against the workspace.
type repl struct {
	app      *app
	out      printer
	parser   *conversation.KeywordParser
	notifier domain.Notifier
	async    bool // assistant requests run in the background

	screen  atomic.Pointer[calculator.Screen]
	pending *pendingAction
	conv    *units.Converter

	mu         sync.Mutex
	transcript domain.Transcript
	wg         sync.WaitGroup
}

func newREPL(a *app, out printer, notifier domain.Notifier) *repl {
	ids := make([]string, 0, len(a.tools.All()))
	for _, t := range a.tools.All() {
		ids = append(ids, t.ID)
	}
	return &repl{
		app:        a,
		out:        out,
		parser:     conversation.NewKeywordParser(a.log.Named("parser"), ids...),
		notifier:   notifier,
		transcript: assistant.NewTranscript(),
	}
}

func runREPL(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, a.cfg.MetricsAddr); err != nil {
				a.log.Error("metrics listener: %v", err)
			}
		}()
		a.log.Info("metrics on %s/metrics", a.cfg.MetricsAddr)
	}

	var r *repl
	ui := display.NewUI(func() display.Status { return r.status() }, a.eng.Settings().Theme())
	r = newREPL(a, ui, conversation.NewCLINotifier(a.log.Named("notify"), ui.Printf))
	r.async = true

	go func() {
		ui.WaitReady()
		r.greet()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ui.QuitChan():
				return
			case line := <-ui.InputChan():
				if r.handle(ctx, line) {
					ui.Quit()
					return
				}
			}
		}
	}()

	err := ui.Run()
	cancel()
	r.wg.Wait()
	return err
}

func (r *repl) styles() display.Styles { return r.app.styles }

func (r *repl) greet() {
	r.out.Print(display.RenderBanner(r.styles(), 0))
	r.out.PrintHint("Type help for commands, home for calculators.")
	if !r.app.eng.Settings().Preferences().Onboarded {
		r.out.PrintHint("First run? Pick your trades: onboard electrician, tile [metric|imperial]")
	}
	if r.app.chat == nil {
		r.out.PrintHint("AI assistant disabled.")
	}
}

func (r *repl) status() display.Status {
	st := r.app.eng.Status()
	s := display.Status{
		Project:  st.Project.Name,
		Currency: st.Currency.Code,
		Items:    st.Items,
		Total:    ledger.FormatMoney(st.Currency, st.Total),
	}
	if sc := r.screen.Load(); sc != nil {
		s.Tool = sc.Tool().Name
	}
	if r.app.chat != nil {
		s.Busy = r.app.chat.Busy()
	}
	return s
}

// handle runs one prompt line and reports whether to quit.
func (r *repl) handle(ctx context.Context, line string) bool {
	intent, err := r.parser.Parse(ctx, line)
	if err != nil {
		r.out.PrintUrgent(err.Error())
		return false
	}

	if p := r.pending; p != nil {
		r.pending = nil
		switch intent.Type {
		case domain.IntentConfirm:
			if err := p.run(ctx); err != nil {
				r.fail(err)
			}
			return false
		case domain.IntentCancel:
			r.out.PrintHint("Cancelled.")
			return false
		}
		r.out.PrintHint("Cancelled: " + p.prompt)
	}

	switch intent.Type {
	case domain.IntentQuit:
		return true
	case domain.IntentHelp:
		r.out.Print(r.styles().Help())
	case domain.IntentHome:
		r.out.Print(r.styles().Home(r.app.tools.Categories()))
	case domain.IntentCategory:
		r.out.Print(r.styles().ToolList(categoryName(intent.Payload), r.app.tools.ListByCategory(intent.Payload)))
	case domain.IntentSearch:
		r.search(intent.Payload)
	case domain.IntentOpenTool:
		r.open(ctx, intent.Payload)
	case domain.IntentSetInput:
		r.setInputs(ctx, intent.Payload)
	case domain.IntentShowResult:
		r.showScreen()
	case domain.IntentBack:
		r.screen.Store(nil)
		r.out.Print(r.styles().Home(r.app.tools.Categories()))
	case domain.IntentCommit:
		r.commit(ctx)
	case domain.IntentShowLedger:
		r.out.Print(r.styles().Ledger(r.app.eng.Items(), r.app.eng.Settings().Currency()))
	case domain.IntentRemoveItem:
		r.remove(ctx, intent.Payload)
	case domain.IntentClearLedger:
		r.confirm(fmt.Sprintf("clear all %d items from the bill", len(r.app.eng.Items())), func(ctx context.Context) error {
			if err := r.app.eng.ClearLedger(ctx, true); err != nil {
				return err
			}
			return r.notifier.NotifyUrgent(ctx, "Ledger cleared")
		})
	case domain.IntentExport:
		r.export(ctx, intent.Payload)
	case domain.IntentCurrency:
		r.currency(ctx, intent.Payload)
	case domain.IntentRates:
		r.rates(ctx, intent.Payload)
	case domain.IntentProjects:
		r.projects(ctx, intent.Payload)
	case domain.IntentConvert:
		r.convert(intent.Payload)
	case domain.IntentReference:
		r.reference(intent.Payload)
	case domain.IntentTheme:
		r.theme(ctx, intent.Payload)
	case domain.IntentOnboard:
		r.onboard(ctx, intent.Payload)
	case domain.IntentAskQuestion:
		r.ask(ctx, intent.Payload)
	case domain.IntentConfirm, domain.IntentCancel:
		r.out.PrintHint("Nothing to confirm.")
	default:
		if intent.Payload != "" {
			r.out.PrintHint(fmt.Sprintf("Unknown command %q. Type help.", intent.Payload))
		}
	}
	return false
}

func (r *repl) fail(err error) {
	r.app.log.Debug("command failed: %v", err)
	r.out.PrintUrgent(err.Error())
}

func (r *repl) confirm(prompt string, run func(context.Context) error) {
	r.pending = &pendingAction{prompt: prompt, run: run}
	r.out.PrintUrgent("About to " + prompt + ". This cannot be undone. Type yes to confirm or no to cancel.")
}

// ── Calculators ──────────────────────────────────────────────────

func (r *repl) search(q string) {
	r.out.Print(r.styles().ToolList("Search: "+q, r.app.tools.Search(q)))
	if tables, rules := reference.Search(q); q != "" && (len(tables) > 0 || len(rules) > 0) {
		r.out.Print(r.styles().Reference(tables, rules))
	}
}

func (r *repl) open(ctx context.Context, id string) {
	s, err := r.app.eng.Open(ctx, id)
	if errors.Is(err, domain.ErrToolNotFound) {
		r.out.Print(r.styles().NotFound("Tool", id))
		return
	}
	if err != nil {
		r.fail(err)
		return
	}
	r.screen.Store(s)
	r.showScreen()
}

func (r *repl) showScreen() {
	s := r.screen.Load()
	if s == nil {
		r.out.PrintHint("No calculator open. Type home or open <tool>.")
		return
	}
	r.out.Print(r.styles().Tool(s.Tool(), s.Values(), s.Result(), r.app.eng.Settings().Currency()))
}

func (r *repl) setInputs(ctx context.Context, payload string) {
	s := r.screen.Load()
	if s == nil {
		r.out.PrintHint("No calculator open. Type home or open <tool>.")
		return
	}
	pairs := conversation.Assignments(payload)
	if len(pairs) == 0 {
		r.out.PrintHint("Use key=value, e.g. length=6")
		return
	}
	for _, kv := range pairs {
		if err := r.app.eng.Update(ctx, s, kv[0], kv[1]); err != nil {
			r.fail(err)
		}
	}
	r.showScreen()
}

func (r *repl) commit(ctx context.Context) {
	s := r.screen.Load()
	if s == nil {
		r.out.PrintHint("Open a calculator first.")
		return
	}
	item, err := r.app.eng.Commit(ctx, s)
	if err != nil {
		r.fail(err)
		return
	}
	cur := r.app.eng.Settings().Currency()
	r.notifier.Notify(ctx, fmt.Sprintf("Added to BOQ: %s %s", item.Name, ledger.FormatMoney(cur, item.Amount)))
}

// ── Ledger ───────────────────────────────────────────────────────

func (r *repl) remove(ctx context.Context, ref string) {
	it, ok := r.app.eng.FindItem(ref)
	if !ok {
		r.out.PrintHint(fmt.Sprintf("No item %q. Type boq to see the list.", ref))
		return
	}
	if _, err := r.app.eng.RemoveItem(ctx, it.ID); err != nil {
		r.fail(err)
		return
	}
	r.notifier.Notify(ctx, "Removed "+it.Name)
}

func (r *repl) export(ctx context.Context, payload string) {
	format, path := "", ""
	for _, f := range strings.Fields(payload) {
		switch strings.ToLower(strings.TrimPrefix(f, ".")) {
		case engine.FormatText, "txt":
			format = engine.FormatText
		case engine.FormatExcel, "excel":
			format = engine.FormatExcel
		case engine.FormatPDF:
			format = engine.FormatPDF
		default:
			path = f
		}
	}
	if format == "" {
		format = formatFromPath(path)
	}
	data, err := r.app.eng.Export(ctx, format)
	if err != nil {
		r.fail(err)
		return
	}
	if path == "" {
		if format == engine.FormatText {
			r.out.Print(string(data))
			return
		}
		path = "calcsite-boq." + format
	}
	if err := writeExport(io.Discard, path, data); err != nil {
		r.fail(err)
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	r.notifier.Notify(ctx, "Exported to "+path)
}

// ── Settings ─────────────────────────────────────────────────────

func (r *repl) currency(ctx context.Context, code string) {
	if code == "" {
		r.out.Print(r.styles().Currencies(r.app.eng.Settings().Currency()))
		return
	}
	cur, err := r.app.eng.SetCurrency(ctx, code)
	if err != nil {
		r.fail(err)
		return
	}
	r.notifier.Notify(ctx, fmt.Sprintf("Currency set to %s (%s)", cur.Code, cur.Symbol))
}

func (r *repl) rates(ctx context.Context, payload string) {
	fields := strings.Fields(payload)
	switch {
	case len(fields) == 0:
		r.out.Print(r.styles().Rates(r.app.eng.Settings().Rates()))
		return
	case len(fields) == 1 && strings.EqualFold(fields[0], "reset"):
		if err := r.app.eng.ResetRates(ctx); err != nil {
			r.fail(err)
			return
		}
		r.notifier.Notify(ctx, "Rates reset to defaults")
	case len(fields) == 2:
		v, err := r.app.eng.SetRate(ctx, fields[0], fields[1])
		if err != nil {
			r.fail(err)
			return
		}
		r.notifier.Notify(ctx, fmt.Sprintf("%s = %g", fields[0], v))
	default:
		r.out.PrintHint("Usage: rate <key> <value> | rates reset")
		return
	}
	if s := r.screen.Load(); s != nil {
		r.app.eng.Refresh(s)
	}
}

func (r *repl) projects(ctx context.Context, payload string) {
	sub, rest, _ := strings.Cut(strings.TrimSpace(payload), " ")
	rest = strings.TrimSpace(rest)
	eng := r.app.eng
	switch strings.ToLower(sub) {
	case "", "list":
		s := eng.Settings()
		r.out.Print(r.styles().Projects(s.Projects(), s.ActiveProject().ID))
	case "new", "create":
		name, location, _ := strings.Cut(rest, "@")
		p, err := eng.CreateProject(ctx, name, location)
		if err != nil {
			r.fail(err)
			return
		}
		r.notifier.Notify(ctx, "Created and switched to "+p.Name)
	case "use", "switch":
		p, err := eng.SwitchProject(ctx, rest)
		if err != nil {
			r.fail(err)
			return
		}
		r.notifier.Notify(ctx, "Active project: "+p.Name)
	case "delete", "rm":
		target := rest
		r.confirm(fmt.Sprintf("delete project %q", target), func(ctx context.Context) error {
			p, err := eng.DeleteProject(ctx, target, true)
			if err != nil {
				return err
			}
			return r.notifier.NotifyUrgent(ctx, fmt.Sprintf("Deleted %s; active project: %s", p.Name, eng.Settings().ActiveProject().Name))
		})
	default:
		r.out.PrintHint("Usage: project [list | new <name>[@location] | use <name> | delete <name>]")
	}
}

func (r *repl) theme(ctx context.Context, theme string) {
	if err := r.app.eng.SetTheme(ctx, theme); err != nil {
		r.fail(err)
		return
	}
	theme = r.app.eng.Settings().Theme()
	r.app.styles = display.NewStyles(theme)
	if t, ok := r.out.(interface{ SetTheme(string) }); ok {
		t.SetTheme(theme)
	}
	r.notifier.Notify(ctx, "Theme set to "+theme)
}

func (r *repl) onboard(ctx context.Context, payload string) {
	trades, units, err := parseTrades(payload)
	if err != nil {
		r.fail(err)
		return
	}
	p, err := r.app.eng.Onboard(ctx, trades, units)
	if err != nil {
		r.fail(err)
		return
	}
	names := make([]string, len(p.SelectedTrades))
	for i, t := range p.SelectedTrades {
		names[i] = string(t)
	}
	r.notifier.Notify(ctx, fmt.Sprintf("Welcome aboard: %s (%s)", strings.Join(names, ", "), p.Units))
}

// parseTrades reads "electrician, general imperial" into trades and a unit
// system. Trade words match by case-insensitive prefix.
func parseTrades(payload string) ([]domain.Trade, string, error) {
	var trades []domain.Trade
	units := ""
	for _, w := range strings.FieldsFunc(payload, func(r rune) bool { return r == ',' || r == ' ' }) {
		lw := strings.ToLower(w)
		if lw == domain.UnitsMetric || lw == domain.UnitsImperial {
			units = lw
			continue
		}
		var match domain.Trade
		for _, t := range domain.Trades {
			if strings.HasPrefix(strings.ToLower(string(t)), lw) {
				match = t
				break
			}
		}
		if match == "" {
			continue // second word of a multi-word trade, e.g. "contractor"
		}
		if !containsTrade(trades, match) {
			trades = append(trades, match)
		}
	}
	if len(trades) == 0 {
		return nil, "", fmt.Errorf("no trades recognised in %q", payload)
	}
	return trades, units, nil
}

func containsTrade(list []domain.Trade, t domain.Trade) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// ── Tools ────────────────────────────────────────────────────────

// convert keeps one converter across lines: "convert 10 m ft" starts it,
// "convert 25" changes the value, "convert swap" flips the units.
func (r *repl) convert(payload string) {
	f := strings.Fields(payload)
	switch {
	case len(f) == 3:
		c, err := newConversion("", f[0], f[1], f[2])
		if err != nil {
			r.fail(err)
			return
		}
		r.conv = c
	case r.conv == nil:
		r.out.PrintHint("Usage: convert <value> <from> <to>, e.g. convert 10 m ft")
		return
	case len(f) == 1 && strings.EqualFold(f[0], "swap"):
		if err := r.conv.Swap(); err != nil {
			r.fail(err)
			return
		}
	case len(f) == 1:
		if err := r.conv.Set(cast.ToFloat64(f[0]), r.conv.From, r.conv.To); err != nil {
			r.fail(err)
			return
		}
	case len(f) != 0:
		r.out.PrintHint("Usage: convert <value> <from> <to> | convert <value> | convert swap")
		return
	}
	out, err := describeConversion(r.conv)
	if err != nil {
		r.fail(err)
		return
	}
	r.out.Print(out)
}

func (r *repl) reference(q string) {
	tables, rules := reference.Search(q)
	if len(tables) == 0 && len(rules) == 0 {
		r.out.Print(r.styles().NotFound("Reference", q))
		return
	}
	r.out.Print(r.styles().Reference(tables, rules))
}

// ── Assistant ────────────────────────────────────────────────────

func (r *repl) ask(ctx context.Context, q string) {
	if r.app.chat == nil {
		r.out.PrintHint("The AI assistant is disabled.")
		return
	}
	if strings.TrimSpace(q) == "" {
		r.out.PrintHint("Ask something, e.g. ask lap length for 16 mm bars")
		return
	}
	if r.app.chat.Busy() {
		r.out.PrintHint("The assistant is still answering. Please wait.")
		return
	}

	send := func() {
		r.mu.Lock()
		tr := r.transcript
		r.mu.Unlock()

		out, err := r.app.chat.Send(ctx, tr, q)
		if errors.Is(err, domain.ErrAssistantBusy) {
			r.out.PrintHint("The assistant is still answering. Please wait.")
			return
		}
		r.mu.Lock()
		r.transcript = out
		r.mu.Unlock()
		if len(out) > 0 {
			r.out.Print(r.styles().Turn(out[len(out)-1]))
		}
	}

	if !r.async {
		send()
		return
	}
	r.out.PrintHint("Thinking…")
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		send()
	}()
}
