// Package engine is the workspace: it ties the tool registry, the settings
// context, the ledger and local persistence together and is the one place
// that mutates them. Every mutation writes the affected state key back.
package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/calcsite/internal/calculator"
	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/export"
	"github.com/hammamikhairi/calcsite/internal/ledger"
	"github.com/hammamikhairi/calcsite/internal/logger"
	"github.com/hammamikhairi/calcsite/internal/metrics"
	"github.com/hammamikhairi/calcsite/internal/settings"
	"github.com/hammamikhairi/calcsite/internal/state"
)

// Option configures the engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithMetrics records operations on rec.
func WithMetrics(rec metrics.Recorder) Option {
	return func(e *Engine) { e.rec = rec }
}

// WithProjectLedger scopes the ledger views (list, total, clear, export) to
// the active project. Off by default: the ledger is one global list.
func WithProjectLedger(on bool) Option {
	return func(e *Engine) { e.perProject = on }
}

// ledgerGauge is implemented by recorders that track the ledger size.
type ledgerGauge interface {
	SetLedgerSize(n int)
}

// Engine is the estimation workspace.
type Engine struct {
	tools      domain.ToolCatalog
	settings   *settings.Settings
	ledger     *ledger.Ledger
	store      domain.StateStore
	rec        metrics.Recorder
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
	perProject bool
}

// New creates an engine with default settings and an empty ledger. Call
// Load to restore persisted state.
func New(tools domain.ToolCatalog, store domain.StateStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		tools:    tools,
		settings: settings.New(),
		ledger:   ledger.New(),
		store:    store,
		rec:      metrics.Nop{},
		log:      log,
		now:      time.Now,
		newID:    newID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings exposes the configuration context for read access.
func (e *Engine) Settings() *settings.Settings { return e.settings }

// Tools returns the tool catalog.
func (e *Engine) Tools() domain.ToolCatalog { return e.tools }

// ── Persistence ──────────────────────────────────────────────────

// Load restores every persisted key. Missing or corrupt keys keep their
// defaults.
func (e *Engine) Load(ctx context.Context) {
	var code string
	if state.Load(ctx, e.store, e.log, state.KeyCurrency, &code) {
		if _, err := e.settings.SetCurrency(code); err != nil {
			e.log.Warn("ignoring persisted currency: %v", err)
		}
	}

	var rates domain.Rates
	if state.Load(ctx, e.store, e.log, state.KeyCustomRates, &rates) {
		e.settings.ReplaceRates(rates)
	}

	var projects []domain.Project
	var active string
	state.Load(ctx, e.store, e.log, state.KeyActiveProject, &active)
	if state.Load(ctx, e.store, e.log, state.KeyProjects, &projects) {
		e.settings.ReplaceProjects(projects, active)
	} else if active != "" {
		if _, err := e.settings.SwitchProject(active); err != nil {
			e.log.Warn("ignoring persisted active project: %v", err)
		}
	}

	var theme string
	if state.Load(ctx, e.store, e.log, state.KeyTheme, &theme) {
		if err := e.settings.SetTheme(theme); err != nil {
			e.log.Warn("ignoring persisted theme: %v", err)
		}
	}

	var prefs domain.Preferences
	if state.Load(ctx, e.store, e.log, state.KeyAppState, &prefs) {
		e.settings.SetPreferences(prefs)
	}

	var items []domain.BOQItem
	if state.Load(ctx, e.store, e.log, state.KeyBOQ, &items) {
		e.ledger.Replace(items)
	}
	e.updateGauge()

	e.log.Info("workspace loaded: %d items, project %q, %s",
		e.ledger.Len(), e.settings.ActiveProject().Name, e.settings.Currency().Code)
}

func (e *Engine) persist(ctx context.Context, key string, v any) (err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpPersist, time.Now(), &err)
	if err := state.Save(ctx, e.store, key, v); err != nil {
		e.log.Error("persisting %s: %v", key, err)
		return fmt.Errorf("engine: persist %s: %w", key, err)
	}
	return nil
}

func (e *Engine) persistLedger(ctx context.Context) error {
	e.updateGauge()
	return e.persist(ctx, state.KeyBOQ, e.ledger.Items())
}

func (e *Engine) persistProjects(ctx context.Context) error {
	if err := e.persist(ctx, state.KeyProjects, e.settings.Projects()); err != nil {
		return err
	}
	return e.persist(ctx, state.KeyActiveProject, e.settings.ActiveProject().ID)
}

func (e *Engine) updateGauge() {
	if g, ok := e.rec.(ledgerGauge); ok {
		g.SetLedgerSize(e.ledger.Len())
	}
}

// ── Calculators ──────────────────────────────────────────────────

// Open returns a calculator screen for the tool id, evaluated against the
// current rates. A missing tool wraps domain.ErrToolNotFound.
func (e *Engine) Open(ctx context.Context, id string) (s *calculator.Screen, err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpEvaluate, time.Now(), &err)
	s, err = calculator.Open(e.tools, id, e.settings.Rates())
	if err != nil {
		e.log.Debug("open %q: not found", id)
		return nil, err
	}
	return s, nil
}

// Update sets one input on s and re-evaluates it.
func (e *Engine) Update(ctx context.Context, s *calculator.Screen, key, raw string) (err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpEvaluate, time.Now(), &err)
	return s.Set(key, raw)
}

// Refresh re-evaluates s against the current rate table.
func (e *Engine) Refresh(s *calculator.Screen) {
	s.UseRates(e.settings.Rates())
}

// Commit adds the screen's current result to the ledger.
// Results the inputs could not produce are refused.
func (e *Engine) Commit(ctx context.Context, s *calculator.Screen) (domain.BOQItem, error) {
	if res := s.Result(); res.Unavailable {
		return domain.BOQItem{}, fmt.Errorf("engine: commit %s: %w", s.Tool().ID, domain.ErrResultUnavailable)
	}
	return e.CommitDraft(ctx, s.Draft())
}

// CommitDraft stamps d with a fresh id, the active project, the clock and
// the display currency, converting the base-currency amount into it.
func (e *Engine) CommitDraft(ctx context.Context, d domain.Draft) (item domain.BOQItem, err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpCommit, time.Now(), &err)

	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return domain.BOQItem{}, fmt.Errorf("engine: commit %s: amount %v: %w", d.Name, d.Amount, domain.ErrResultUnavailable)
	}
	snap := e.settings.Snapshot()
	item = domain.BOQItem{
		ID:             e.newID(),
		ProjectID:      snap.ActiveProject.ID,
		Name:           d.Name,
		Detail:         d.Detail,
		Amount:         domain.Convert(calculator.Sanitize(d.Amount), domain.BaseCurrency, snap.Currency),
		Type:           d.Type,
		Timestamp:      e.now(),
		CurrencySymbol: snap.Currency.Symbol,
		CurrencyCode:   snap.Currency.Code,
	}
	e.ledger.Add(item)
	e.log.Info("committed %s (%s) %.2f %s", item.Name, item.ID, item.Amount, item.CurrencyCode)
	return item, e.persistLedger(ctx)
}

// ── Ledger ───────────────────────────────────────────────────────

// Items returns the visible ledger in commit order.
func (e *Engine) Items() []domain.BOQItem {
	if e.perProject {
		return e.ledger.ForProject(e.settings.ActiveProject().ID)
	}
	return e.ledger.Items()
}

// Total sums the visible items as stored.
func (e *Engine) Total() float64 {
	return ledger.Total(e.Items())
}

// FindItem resolves id, a unique id prefix, or a 1-based position in Items.
func (e *Engine) FindItem(ref string) (domain.BOQItem, bool) {
	ref = strings.TrimSpace(ref)
	items := e.Items()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], true
	}
	var match domain.BOQItem
	hits := 0
	for _, it := range items {
		if it.ID == ref {
			return it, true
		}
		if ref != "" && strings.HasPrefix(it.ID, ref) {
			match = it
			hits++
		}
	}
	return match, hits == 1
}

// RemoveItem deletes the item with id. A missing id is not an error and
// reports false.
func (e *Engine) RemoveItem(ctx context.Context, id string) (removed bool, err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpRemove, time.Now(), &err)
	if !e.ledger.Remove(id) {
		return false, nil
	}
	e.log.Info("removed item %s", id)
	return true, e.persistLedger(ctx)
}

// ClearLedger empties the visible ledger. It refuses with
// domain.ErrConfirmationRequired unless confirmed.
func (e *Engine) ClearLedger(ctx context.Context, confirmed bool) (err error) {
	if !confirmed {
		return fmt.Errorf("engine: clear ledger: %w", domain.ErrConfirmationRequired)
	}
	defer metrics.Since(ctx, e.rec, metrics.OpClear, time.Now(), &err)

	if e.perProject {
		active := e.settings.ActiveProject().ID
		var kept []domain.BOQItem
		for _, it := range e.ledger.Items() {
			if it.ProjectID != active {
				kept = append(kept, it)
			}
		}
		e.ledger.Replace(kept)
	} else {
		e.ledger.Clear()
	}
	e.log.Info("ledger cleared")
	return e.persistLedger(ctx)
}

// ── Export ───────────────────────────────────────────────────────

// Export formats.
const (
	FormatText  = "text"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// ExportText renders the visible ledger as plain text.
func (e *Engine) ExportText() string {
	return ledger.Export(e.Items(), e.settings.Currency())
}

// ExportData prepares the visible ledger for a document export.
func (e *Engine) ExportData() export.Data {
	snap := e.settings.Snapshot()
	return export.Build(e.Items(), snap.ActiveProject, snap.Currency, e.now())
}

// ExportExcel renders the visible ledger as an .xlsx workbook.
func (e *Engine) ExportExcel(ctx context.Context) (b []byte, err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpExport, time.Now(), &err)
	return export.Excel(e.ExportData())
}

// ExportPDF renders the visible ledger as a PDF document.
func (e *Engine) ExportPDF(ctx context.Context) (b []byte, err error) {
	defer metrics.Since(ctx, e.rec, metrics.OpExport, time.Now(), &err)
	return export.PDF(e.ExportData())
}

// Export renders the ledger in format (text, xlsx or pdf).
func (e *Engine) Export(ctx context.Context, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case FormatText, "txt", "":
		return []byte(e.ExportText()), nil
	case FormatExcel, "excel":
		return e.ExportExcel(ctx)
	case FormatPDF:
		return e.ExportPDF(ctx)
	}
	return nil, fmt.Errorf("engine: export format %q: %w", format, domain.ErrNotFound)
}

// ── Settings ─────────────────────────────────────────────────────

// SetCurrency switches the display currency.
func (e *Engine) SetCurrency(ctx context.Context, code string) (domain.Currency, error) {
	cur, err := e.settings.SetCurrency(code)
	if err != nil {
		return domain.Currency{}, err
	}
	return cur, e.persist(ctx, state.KeyCurrency, cur.Code)
}

// SetRate stores a rate; see settings.Settings.SetRate for the fallback.
func (e *Engine) SetRate(ctx context.Context, key, raw string) (float64, error) {
	v, err := e.settings.SetRate(key, raw)
	if err != nil {
		return 0, err
	}
	return v, e.persist(ctx, state.KeyCustomRates, e.settings.Rates())
}

// ResetRates restores the default rate table.
func (e *Engine) ResetRates(ctx context.Context) error {
	e.settings.ResetRates()
	return e.persist(ctx, state.KeyCustomRates, e.settings.Rates())
}

// CreateProject adds a project and makes it active.
func (e *Engine) CreateProject(ctx context.Context, name, location string) (domain.Project, error) {
	p, err := e.settings.CreateProject(e.newID(), name, location, e.now())
	if err != nil {
		return domain.Project{}, err
	}
	e.log.Info("created project %q (%s)", p.Name, p.ID)
	return p, e.persistProjects(ctx)
}

// SwitchProject activates a project by id or name.
func (e *Engine) SwitchProject(ctx context.Context, idOrName string) (domain.Project, error) {
	p, err := e.settings.SwitchProject(idOrName)
	if err != nil {
		return domain.Project{}, err
	}
	return p, e.persist(ctx, state.KeyActiveProject, p.ID)
}

// DeleteProject removes a project. Its ledger items are kept. It refuses
// with domain.ErrConfirmationRequired unless confirmed.
func (e *Engine) DeleteProject(ctx context.Context, idOrName string, confirmed bool) (domain.Project, error) {
	if !confirmed {
		return domain.Project{}, fmt.Errorf("engine: delete project: %w", domain.ErrConfirmationRequired)
	}
	p, err := e.settings.DeleteProject(idOrName)
	if err != nil {
		return domain.Project{}, err
	}
	e.log.Info("deleted project %q (%s)", p.Name, p.ID)
	return p, e.persistProjects(ctx)
}

// SetTheme switches between the dark and light palettes.
func (e *Engine) SetTheme(ctx context.Context, theme string) error {
	if err := e.settings.SetTheme(theme); err != nil {
		return err
	}
	return e.persist(ctx, state.KeyTheme, e.settings.Theme())
}

// Onboard records the user's trades and unit system.
func (e *Engine) Onboard(ctx context.Context, trades []domain.Trade, units string) (domain.Preferences, error) {
	p, err := e.settings.Onboard(trades, units)
	if err != nil {
		return domain.Preferences{}, err
	}
	return p, e.persist(ctx, state.KeyAppState, p)
}

// ── Status ───────────────────────────────────────────────────────

// Status is the summary shown in the status bar.
type Status struct {
	Project  domain.Project
	Currency domain.Currency
	Theme    string
	Items    int
	Total    float64
	// Mixed is set when visible items were committed in different
	// currencies; Total then adds unlike units.
	Mixed          bool
	ConvertedTotal float64
}

// Status summarizes the workspace.
func (e *Engine) Status() Status {
	snap := e.settings.Snapshot()
	items := e.Items()
	return Status{
		Project:        snap.ActiveProject,
		Currency:       snap.Currency,
		Theme:          e.settings.Theme(),
		Items:          len(items),
		Total:          ledger.Total(items),
		Mixed:          ledger.MixedCurrencies(items),
		ConvertedTotal: ledger.ConvertedTotal(items, snap.Currency),
	}
}
