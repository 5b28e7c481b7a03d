// Package settings is the global configuration context: display currency,
// material rates, the project list with its active project, onboarding
// preferences and theme. It is passed explicitly to whoever evaluates or
// commits; nothing here is ambient.
package settings

import (
	"fmt"
	"math"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
	"golang.org/x/text/currency"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// FallbackRate replaces any rate input that is not a positive number.
const FallbackRate = 1

// Context is the read-only snapshot handed to evaluation and commit.
type Context struct {
	Currency      domain.Currency
	Rates         domain.Rates
	ActiveProject domain.Project
}

// Settings owns the mutable configuration. Safe for concurrent use.
type Settings struct {
	mu       sync.RWMutex
	currency domain.Currency
	rates    domain.Rates
	projects []domain.Project
	activeID string
	prefs    domain.Preferences
	theme    string
}

// New returns settings with the built-in defaults: INR, the default rate
// table and the default project.
func New() *Settings {
	return &Settings{
		currency: domain.BaseCurrency,
		rates:    domain.DefaultRates(),
		projects: []domain.Project{domain.DefaultProject},
		activeID: domain.DefaultProject.ID,
		prefs:    domain.DefaultPreferences(),
		theme:    domain.ThemeDark,
	}
}

// Snapshot returns the current context. The rate table is a copy.
func (s *Settings) Snapshot() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Context{
		Currency:      s.currency,
		Rates:         s.rates.Clone(),
		ActiveProject: s.activeLocked(),
	}
}

// ── Currency ─────────────────────────────────────────────────────

// Currency returns the display currency.
func (s *Settings) Currency() domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// SetCurrency switches the display currency. Committed items keep the
// currency they were committed in.
func (s *Settings) SetCurrency(code string) (domain.Currency, error) {
	cur, ok := domain.LookupCurrency(code)
	if !ok {
		return domain.Currency{}, fmt.Errorf("settings: currency %q: %w", code, domain.ErrUnknownCurrency)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = cur
	return cur, nil
}

// ValidateCurrencies checks that every supported currency carries a real
// ISO 4217 code and a positive INR rate.
func ValidateCurrencies(list []domain.Currency) error {
	for _, c := range list {
		err := validation.ValidateStruct(&c,
			validation.Field(&c.Code, validation.Required, validation.By(isoCode)),
			validation.Field(&c.Symbol, validation.Required),
			validation.Field(&c.RateToINR, validation.Required, validation.Min(0.0).Exclusive()),
		)
		if err != nil {
			return fmt.Errorf("settings: currency %s: %w", c.Code, err)
		}
	}
	return nil
}

func isoCode(value interface{}) error {
	code, _ := value.(string)
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("not an ISO 4217 code")
	}
	return nil
}

// ── Rates ────────────────────────────────────────────────────────

// Rates returns a copy of the rate table.
func (s *Settings) Rates() domain.Rates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates.Clone()
}

// SetRate parses raw and stores it under key. Input that is not a positive
// number stores FallbackRate instead. Only known rate keys are accepted.
func (s *Settings) SetRate(key, raw string) (float64, error) {
	if !knownRate(key) {
		return 0, fmt.Errorf("settings: rate %q: %w", key, domain.ErrInvalidRate)
	}
	v, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil || validation.Validate(v, validation.Min(0.0).Exclusive()) != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		v = FallbackRate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[key] = v
	return v, nil
}

// ReplaceRates installs a whole table, used when loading persisted state.
// Unknown keys are dropped and non-positive values fall back to the default.
func (s *Settings) ReplaceRates(r domain.Rates) {
	merged := domain.DefaultRates()
	for k, v := range r {
		if knownRate(k) && v > 0 {
			merged[k] = v
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = merged
}

// ResetRates restores the default table.
func (s *Settings) ResetRates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = domain.DefaultRates()
}

func knownRate(key string) bool {
	for _, k := range domain.RateKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ── Theme & preferences ──────────────────────────────────────────

// Theme returns "dark" or "light".
func (s *Settings) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme switches the palette.
func (s *Settings) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if err := validation.Validate(theme, validation.In(domain.ThemeDark, domain.ThemeLight)); err != nil {
		return fmt.Errorf("settings: theme %q: %w", theme, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

// Preferences returns the onboarding state.
func (s *Settings) Preferences() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.prefs
	p.SelectedTrades = append([]domain.Trade(nil), s.prefs.SelectedTrades...)
	return p
}

// Onboard records the chosen trades and unit system and marks onboarding
// complete.
func (s *Settings) Onboard(trades []domain.Trade, units string) (domain.Preferences, error) {
	if units == "" {
		units = domain.UnitsMetric
	}
	allowed := make([]interface{}, len(domain.Trades))
	for i, t := range domain.Trades {
		allowed[i] = t
	}
	p := domain.Preferences{Onboarded: true, SelectedTrades: trades, Units: units}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.SelectedTrades, validation.Each(validation.In(allowed...))),
		validation.Field(&p.Units, validation.In(domain.UnitsMetric, domain.UnitsImperial)),
	)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("settings: onboarding: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	return p, nil
}

// SetPreferences installs persisted onboarding state.
func (s *Settings) SetPreferences(p domain.Preferences) {
	if p.Units == "" {
		p.Units = domain.UnitsMetric
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}
