package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// Persisted keys.
const (
	KeyActiveProject = "active_project"
	KeyTheme         = "theme"
	KeyCustomRates   = "custom_rates"
	KeyBOQ           = "boq_data"
	KeyAppState      = "app_state"
	KeyProjects      = "projects"
	KeyCurrency      = "currency"
)

// Load decodes the value under key into dst. It reports false, leaving dst
// untouched, when the key is missing, unreadable or corrupt. A corrupt
// payload is logged and removed so the caller can carry on with its default.
func Load(ctx context.Context, store domain.StateStore, log *logger.Logger, key string, dst any) bool {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	if err != nil {
		log.Warn("reading %s failed, using default: %v", key, err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("%s is corrupt, using default: %v", key, err)
		if err := store.Delete(ctx, key); err != nil {
			log.Warn("removing corrupt %s: %v", key, err)
		}
		return false
	}
	return true
}

// Save encodes v as JSON under key.
func Save(ctx context.Context, store domain.StateStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", key, err)
	}
	return store.Put(ctx, key, raw)
}
