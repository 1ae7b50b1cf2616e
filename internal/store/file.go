package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists slots to a single JSON file. Every mutation rewrites the
// file; the client is interactive, so write volume is tiny.
type File struct {
	path  string
	mu    sync.Mutex
	slots map[string]string
}

// NewFile loads (or lazily creates) the state file at path.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure state dir: %w", err)
	}
	f := &File{path: path, slots: map[string]string{}}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read state file: %w", err)
	}
	// A corrupt state file is not fatal: start from an empty state rather
	// than locking the user out of the client.
	if err := json.Unmarshal(raw, &f.slots); err != nil {
		f.slots = map[string]string{}
	}
	return f, nil
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(slot string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.slots[slot]
	return value, ok
}

func (f *File) Save(slot, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[slot] = value
	return f.flushLocked()
}

func (f *File) Clear(slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.slots[slot]; !ok {
		return nil
	}
	delete(f.slots, slot)
	return f.flushLocked()
}

func (f *File) flushLocked() error {
	raw, err := json.MarshalIndent(f.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	// 0600: the token slot holds a live credential.
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("store: write state file: %w", err)
	}
	return nil
}
