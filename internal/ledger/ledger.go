// Package ledger holds the bill of quantities: an ordered list of committed
// estimate lines with a recomputed total.
package ledger

import (
	"sync"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// Ledger is an append-ordered collection of BOQ items. The total is always
// derived from the items, never stored. Safe for concurrent use so the
// status bar can read it while the REPL mutates it.
type Ledger struct {
	mu    sync.RWMutex
	items []domain.BOQItem
}

// New returns a ledger holding a copy of items.
func New(items ...domain.BOQItem) *Ledger {
	l := &Ledger{}
	l.items = append(l.items, items...)
	return l
}

// Add appends an item.
func (l *Ledger) Add(item domain.BOQItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

// Remove deletes the item with id. Removing a missing id is a no-op and
// reports false.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every item. Irreversible; callers confirm first.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Replace swaps the whole item list, used when loading persisted state.
func (l *Ledger) Replace(items []domain.BOQItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]domain.BOQItem(nil), items...)
}

// Items returns a copy of the items in insertion order.
func (l *Ledger) Items() []domain.BOQItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.BOQItem(nil), l.items...)
}

// Len returns the number of items.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Total is the sum of all amounts.
func (l *Ledger) Total() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Total(l.items)
}

// ForProject returns the items committed under projectID.
func (l *Ledger) ForProject(projectID string) []domain.BOQItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.BOQItem
	for _, it := range l.items {
		if it.ProjectID == projectID {
			out = append(out, it)
		}
	}
	return out
}

// Total sums the amounts of items as stored, whatever their currency.
func Total(items []domain.BOQItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}

// ConvertedTotal re-expresses every item in target before summing. Items
// without a known currency code are taken to be in target already.
func ConvertedTotal(items []domain.BOQItem, target domain.Currency) float64 {
	var sum float64
	for _, it := range items {
		from, ok := domain.LookupCurrency(it.CurrencyCode)
		if !ok {
			sum += it.Amount
			continue
		}
		sum += domain.Convert(it.Amount, from, target)
	}
	return sum
}

// MixedCurrencies reports whether items were committed in more than one
// currency.
func MixedCurrencies(items []domain.BOQItem) bool {
	seen := ""
	for _, it := range items {
		if seen == "" {
			seen = it.CurrencySymbol
			continue
		}
		if it.CurrencySymbol != seen {
			return true
		}
	}
	return false
}
