package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, ok := f.Load(SlotToken); ok {
		t.Fatalf("fresh store must not have a token")
	}
	if err := f.Save(SlotToken, "abc123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := f.Save(SlotTheme, "dark"); err != nil {
		t.Fatalf("save theme: %v", err)
	}

	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if got, ok := reopened.Load(SlotToken); !ok || got != "abc123" {
		t.Fatalf("token did not survive reopen, got %q ok=%v", got, ok)
	}
	if got, _ := reopened.Load(SlotTheme); got != "dark" {
		t.Fatalf("theme did not survive reopen, got %q", got)
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := f.Save(SlotUser, `{"email":"a@x.com"}`); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := f.Clear(SlotUser); err != nil {
		t.Fatalf("clear user: %v", err)
	}
	if _, ok := f.Load(SlotUser); ok {
		t.Fatalf("user slot should be gone after clear")
	}
	// Clearing an absent slot is a no-op.
	if err := f.Clear(SlotUser); err != nil {
		t.Fatalf("clear absent slot: %v", err)
	}
}

func TestFileStoreSurvivesCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("corrupt state must not block startup: %v", err)
	}
	if _, ok := f.Load(SlotToken); ok {
		t.Fatalf("corrupt state should load as empty")
	}
	if err := f.Save(SlotToken, "fresh"); err != nil {
		t.Fatalf("save after corrupt load: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	if err := m.Save(SlotAccent, "#5B8DEF"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, ok := m.Load(SlotAccent); !ok || got != "#5B8DEF" {
		t.Fatalf("load after save, got %q ok=%v", got, ok)
	}
	if err := m.Clear(SlotAccent); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := m.Load(SlotAccent); ok {
		t.Fatalf("slot should be cleared")
	}
}
