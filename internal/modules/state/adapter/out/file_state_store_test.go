package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"focuscraft/internal/modules/state/adapter/out"
	"focuscraft/internal/modules/state/domain"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestFileStateStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "state.json")
	store := out.NewFileStateStore(path)
	ctx := context.Background()

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("load before first save: ok=%v err=%v", ok, err)
	}

	state := domain.Initial(testNow)
	state.Wallet.Coins = 75
	state.Session = &domain.Session{ID: "s1", StartTime: testNow, DurationSec: 1500, Status: domain.SessionActive}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("saved state not found")
	}
	if loaded.Wallet.Coins != 75 {
		t.Fatalf("coins = %d, want 75", loaded.Wallet.Coins)
	}
	if loaded.Session != nil {
		t.Fatal("session survived a reload")
	}
	if loaded.Hydrated {
		t.Fatal("hydrated flag persisted as true")
	}
}

func TestFileStateStoreReadsLegacyBlob(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	legacy := []byte(`{
  "wallet": {"coins": 33},
  "rewards": [],
  "transactions": [],
  "settings": {
    "session_durations": [15, 25],
    "default_duration": 25,
    "completion_threshold": 0.8,
    "reward_amount": 10,
    "penalty_amount": 5,
    "cooldown": 120,
    "strict_mode": true
  }
}`)
	if err := os.WriteFile(path, legacy, 0o644); err != nil {
		t.Fatalf("write legacy blob: %v", err)
	}

	store := out.NewFileStateStore(path)
	loaded, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("legacy blob not recognized")
	}
	if loaded.Wallet.Coins != 33 {
		t.Fatalf("coins = %d, want 33", loaded.Wallet.Coins)
	}
	if loaded.Settings.Language != domain.LanguageEnglish {
		t.Fatalf("migrated language = %q, want en", loaded.Settings.Language)
	}
}

func TestFileStateStoreLeavesNoTempFilesBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	store := out.NewFileStateStore(path)

	if err := store.Save(context.Background(), domain.Initial(testNow)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("directory contents = %v, want only state.json", names)
	}
}
