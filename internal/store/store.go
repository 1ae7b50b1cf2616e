// internal/store/store.go
//
// Local persistent state for the recruitment client. The browser front end
// kept four localStorage slots (token, cached user, theme, accent colour);
// here they live in a single JSON file under the client's config directory.

package store

// Slot names. Only the session layer and the HTTP client touch Token and
// User; views read Theme and Accent through the app model.
const (
	SlotToken  = "token"
	SlotUser   = "user"
	SlotTheme  = "theme"
	SlotAccent = "accent"
)

// Store is the persistence boundary. Views never talk to it directly, which
// keeps the token and cached user writable from exactly two places.
type Store interface {
	// Load returns the value for a slot and whether the slot is set.
	Load(slot string) (string, bool)
	// Save writes a slot. Empty values are stored as-is, not cleared.
	Save(slot, value string) error
	// Clear removes a slot entirely.
	Clear(slot string) error
}

// Memory is an in-process Store for tests.
type Memory struct {
	slots map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: map[string]string{}}
}

func (m *Memory) Load(slot string) (string, bool) {
	value, ok := m.slots[slot]
	return value, ok
}

func (m *Memory) Save(slot, value string) error {
	m.slots[slot] = value
	return nil
}

func (m *Memory) Clear(slot string) error {
	delete(m.slots, slot)
	return nil
}
