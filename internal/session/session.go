// internal/session/session.go
//
// Session owns the current-user state: who is signed in, whether the initial
// restore is still running, and the persisted token/user slots. It is the
// only writer of those slots besides the HTTP client, so views never touch
// the store directly.

package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

// AuthService is the slice of the auth API the session needs. The concrete
// implementation is api.Auth; tests substitute a fake.
type AuthService interface {
	Me(ctx context.Context) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, error)
	Logout(ctx context.Context) error
}

// Session is the authentication context. Loading is true only until the
// first Refresh completes, success or not.
type Session struct {
	auth AuthService
	st   store.Store

	mu      sync.Mutex
	user    *model.User
	loading bool
}

// New creates a session in its initial state: no user, loading.
func New(auth AuthService, st store.Store) *Session {
	return &Session{auth: auth, st: st, loading: true}
}

// User returns the signed-in user, or nil.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether the initial restore is still in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Refresh re-runs the who-am-I reconciliation. On success the server record
// is merged over the cached user sharing the same email (cached fields act
// as defaults, server fields win) and persisted. Any failure, including
// unauthorized, reads as "logged out": the token is cleared and the user
// reset. Either way, loading ends.
func (s *Session) Refresh(ctx context.Context) error {
	current, err := s.auth.Me(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.user = nil
		_ = s.st.Clear(store.SlotToken)
		return err
	}
	merged := current
	if cached, ok := s.cachedUser(); ok && cached.Email == current.Email {
		merged = mergeUser(cached, current)
	}
	s.user = &merged
	s.persistUser(merged)
	return nil
}

// Login signs in and replaces the session user wholesale with the server's
// record; the cached user is overwritten, not merged.
func (s *Session) Login(ctx context.Context, email, password string) error {
	user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.persistUser(user)
	return nil
}

// Adopt installs a user obtained outside the session, e.g. straight from a
// successful registration, with login semantics.
func (s *Session) Adopt(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.persistUser(user)
}

// Logout tells the backend to drop the token and clears local state. The
// local clear happens even when the network call fails; the returned error
// is informational.
func (s *Session) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	_ = s.st.Clear(store.SlotUser)
	_ = s.st.Clear(store.SlotToken)
	return err
}

func (s *Session) cachedUser() (model.User, bool) {
	raw, ok := s.st.Load(store.SlotUser)
	if !ok || raw == "" {
		return model.User{}, false
	}
	var cached model.User
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return model.User{}, false
	}
	return cached, true
}

func (s *Session) persistUser(user model.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = s.st.Save(store.SlotUser, string(raw))
}

// mergeUser overlays the server record on the cached one: every field the
// server filled in wins, fields the server left empty keep their cached
// value. This is the documented merge policy for the passive refresh path;
// login never merges.
func mergeUser(cached, server model.User) model.User {
	merged := server
	fallback := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	fallback(&merged.ID, cached.ID)
	fallback(&merged.Nickname, cached.Nickname)
	fallback(&merged.Signature, cached.Signature)
	fallback(&merged.Role, cached.Role)
	fallback(&merged.Status, cached.Status)
	fallback(&merged.CreatedAt, cached.CreatedAt)
	fallback(&merged.UpdatedAt, cached.UpdatedAt)
	if len(merged.Directions) == 0 && len(cached.Directions) > 0 {
		merged.Directions = cached.Directions
	}
	if len(merged.PassedDirections) == 0 && len(cached.PassedDirections) > 0 {
		merged.PassedDirections = cached.PassedDirections
	}
	if len(merged.PassedDirectionsBy) == 0 && len(cached.PassedDirectionsBy) > 0 {
		merged.PassedDirectionsBy = cached.PassedDirectionsBy
	}
	if merged.Application == nil && cached.Application != nil {
		merged.Application = cached.Application
	}
	return merged
}
