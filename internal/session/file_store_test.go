package session

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileStore_UnknownUserGetsDefault(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	st, err := store.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.UserID != 42 || st.Mode != ModeIdle {
		t.Fatalf("unexpected default state: %+v", st)
	}
}

func TestFileStore_PutThenGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	want := State{
		UserID:        7,
		Mode:          ModeInput,
		SpreadsheetID: "sheet-id",
		SheetName:     "Gudang",
		LastUpdated:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.Put(want); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Reopen to prove the state survives a restart.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Mode != ModeInput || got.SpreadsheetID != "sheet-id" || got.SheetName != "Gudang" {
		t.Fatalf("state lost across reopen: %+v", got)
	}
	if !got.LastUpdated.Equal(want.LastUpdated) {
		t.Fatalf("timestamp lost: %v", got.LastUpdated)
	}
}

func TestFileStore_PutReplacesPriorValue(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.Put(State{UserID: 1, Mode: ModeInput}); err != nil {
		t.Fatalf("put1: %v", err)
	}
	if err := store.Put(State{UserID: 1, Mode: ModeIdle}); err != nil {
		t.Fatalf("put2: %v", err)
	}
	st, _ := store.Get(1)
	if st.Mode != ModeIdle {
		t.Fatalf("want replaced mode, got %+v", st)
	}
}
