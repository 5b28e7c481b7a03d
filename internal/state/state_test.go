package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

// stores returns every backend so each test runs against both.
func stores(t *testing.T) map[string]domain.StateStore {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "state.db"), quietLog())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]domain.StateStore{
		"memory": NewMemoryStore(quietLog()),
		"sqlite": sq,
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, KeyTheme); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("get missing: err = %v, want ErrNotFound", err)
			}
			if err := store.Put(ctx, KeyTheme, []byte(`"dark"`)); err != nil {
				t.Fatal(err)
			}
			if err := store.Put(ctx, KeyTheme, []byte(`"light"`)); err != nil {
				t.Fatal(err)
			}
			got, err := store.Get(ctx, KeyTheme)
			if err != nil || string(got) != `"light"` {
				t.Fatalf("get = %q, %v", got, err)
			}
			if err := store.Delete(ctx, KeyTheme); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, KeyTheme); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("second delete: err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestLoadFallsBackOnCorruption(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(ctx, KeyCustomRates, []byte(`{not json`)); err != nil {
				t.Fatal(err)
			}
			rates := domain.Rates{"steel_kg": 75}
			if Load(ctx, store, quietLog(), KeyCustomRates, &rates) {
				t.Fatal("corrupt payload reported as loaded")
			}
			if rates["steel_kg"] != 75 {
				t.Fatal("destination modified on failed load")
			}
			if _, err := store.Get(ctx, KeyCustomRates); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("corrupt payload kept: err = %v", err)
			}

			var missing []domain.BOQItem
			if Load(ctx, store, quietLog(), KeyBOQ, &missing) {
				t.Fatal("missing key reported as loaded")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := []domain.Project{{ID: "p1", Name: "Tower", Location: "Pune"}}
			if err := Save(ctx, store, KeyProjects, in); err != nil {
				t.Fatal(err)
			}
			var out []domain.Project
			if !Load(ctx, store, quietLog(), KeyProjects, &out) {
				t.Fatal("load failed")
			}
			if len(out) != 1 || out[0].Name != "Tower" {
				t.Fatalf("got %+v", out)
			}
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := OpenSQLite(path, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(ctx, first, KeyCurrency, "USD"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := OpenSQLite(path, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	var code string
	if !Load(ctx, second, quietLog(), KeyCurrency, &code) || code != "USD" {
		t.Fatalf("code = %q", code)
	}
}
