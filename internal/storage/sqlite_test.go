package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsReplays(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveReplay(ReplayRecord{Seed: 1, TickRate: 60, ConfigYAML: "{}"}); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	n, err := store.ReplayCount()
	if err != nil {
		t.Fatalf("ReplayCount() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 replay after reopen, got %d", n)
	}
}

func TestStoreSaveAndLoadReplay(t *testing.T) {
	store := openTestStore(t)

	in := ReplayRecord{
		Seed:       424242,
		TickRate:   60,
		ConfigYAML: "world:\n  width: 1280\n",
		Ticks:      812,
		Events: []EventRecord{
			{Tick: 3, Action: "Flap"},
			{Tick: 40, Action: "Flap"},
			{Tick: 40, Action: "Flap"},
			{Tick: 97, Action: "Flap"},
		},
	}

	id, err := store.SaveReplay(in)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Expected a positive id, got %d", id)
	}

	got, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}

	if got.ID != id || got.Seed != in.Seed || got.TickRate != in.TickRate || got.Ticks != in.Ticks {
		t.Errorf("Replay header mismatch: %+v", got)
	}
	if got.ConfigYAML != in.ConfigYAML {
		t.Errorf("Config YAML mismatch: %q", got.ConfigYAML)
	}
	if got.EventCount != len(in.Events) || len(got.Events) != len(in.Events) {
		t.Fatalf("Expected %d events, got %d", len(in.Events), len(got.Events))
	}
	for i, e := range in.Events {
		if got.Events[i] != e {
			t.Errorf("Event %d = %+v, expected %+v", i, got.Events[i], e)
		}
	}
}

func TestStoreReplayNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Replay(99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.DeleteReplay(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from delete, got %v", err)
	}
}

func TestStoreReplaysListing(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		events := make([]EventRecord, i)
		for j := range events {
			events[j] = EventRecord{Tick: uint64(j + 1), Action: "Flap"}
		}
		if _, err := store.SaveReplay(ReplayRecord{Seed: int64(i), TickRate: 60, ConfigYAML: "{}", Events: events}); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	list, err := store.Replays(3)
	if err != nil {
		t.Fatalf("Replays() failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 replays with limit, got %d", len(list))
	}

	// Newest first
	if list[0].Seed != 4 || list[1].Seed != 3 || list[2].Seed != 2 {
		t.Errorf("Replays not newest first: seeds %d, %d, %d", list[0].Seed, list[1].Seed, list[2].Seed)
	}
	if list[0].EventCount != 4 {
		t.Errorf("Expected 4 events counted, got %d", list[0].EventCount)
	}
	if list[0].Events != nil {
		t.Error("Listing should not load events")
	}
	if list[0].CreatedAt.IsZero() {
		t.Error("Expected a creation time")
	}
}

func TestStoreDeleteReplay(t *testing.T) {
	store := openTestStore(t)

	keep, _ := store.SaveReplay(ReplayRecord{Seed: 1, TickRate: 60, ConfigYAML: "{}", Events: []EventRecord{{Tick: 1, Action: "Flap"}}})
	drop, _ := store.SaveReplay(ReplayRecord{Seed: 2, TickRate: 60, ConfigYAML: "{}", Events: []EventRecord{{Tick: 2, Action: "Flap"}}})

	if err := store.DeleteReplay(drop); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}

	if _, err := store.Replay(drop); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deleted replay should be gone, got %v", err)
	}
	got, err := store.Replay(keep)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if len(got.Events) != 1 {
		t.Errorf("Other replay's events should survive, got %d", len(got.Events))
	}
}
