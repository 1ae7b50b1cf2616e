package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

type fakeAuth struct {
	meUser     model.User
	meErr      error
	loginUser  model.User
	loginErr   error
	logoutErr  error
	meCalls    int
	loginCalls int
}

func (f *fakeAuth) Me(context.Context) (model.User, error) {
	f.meCalls++
	return f.meUser, f.meErr
}

func (f *fakeAuth) Login(context.Context, string, string) (model.User, error) {
	f.loginCalls++
	return f.loginUser, f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	return f.logoutErr
}

func TestInitialStateIsLoadingAndAnonymous(t *testing.T) {
	s := New(&fakeAuth{}, store.NewMemory())
	if !s.Loading() {
		t.Fatalf("session must start loading")
	}
	if s.User() != nil {
		t.Fatalf("session must start with no user")
	}
}

func TestRefreshMergesCachedUserServerWins(t *testing.T) {
	st := store.NewMemory()
	cached := model.User{Email: "a@x.com", Nickname: "old", Signature: "keep me"}
	raw, _ := json.Marshal(cached)
	_ = st.Save(store.SlotUser, string(raw))

	auth := &fakeAuth{meUser: model.User{Email: "a@x.com", Nickname: "new", Role: model.RoleInterviewer}}
	s := New(auth, st)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	user := s.User()
	if user == nil {
		t.Fatal("user missing after refresh")
	}
	if user.Nickname != "new" {
		t.Fatalf("server must win on conflict, nickname = %q", user.Nickname)
	}
	if user.Signature != "keep me" {
		t.Fatalf("cached field absent from server payload must survive, signature = %q", user.Signature)
	}
	if user.Role != model.RoleInterviewer {
		t.Fatalf("role = %q", user.Role)
	}
	if s.Loading() {
		t.Fatalf("loading must end after refresh")
	}

	persisted, _ := st.Load(store.SlotUser)
	var stored model.User
	if err := json.Unmarshal([]byte(persisted), &stored); err != nil || stored.Nickname != "new" {
		t.Fatalf("merged user must be persisted, got %q", persisted)
	}
}

func TestRefreshSkipsMergeForDifferentEmail(t *testing.T) {
	st := store.NewMemory()
	raw, _ := json.Marshal(model.User{Email: "other@x.com", Signature: "stale"})
	_ = st.Save(store.SlotUser, string(raw))

	auth := &fakeAuth{meUser: model.User{Email: "a@x.com", Nickname: "fresh"}}
	s := New(auth, st)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := s.User().Signature; got != "" {
		t.Fatalf("cache for a different account must be ignored, signature = %q", got)
	}
}

func TestRefreshFailureClearsTokenAndUser(t *testing.T) {
	st := store.NewMemory()
	_ = st.Save(store.SlotToken, "stale-token")
	auth := &fakeAuth{meErr: errors.New("401")}
	s := New(auth, st)
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("refresh should surface the error")
	}
	if s.User() != nil {
		t.Fatalf("failed refresh must read as logged out")
	}
	if _, ok := st.Load(store.SlotToken); ok {
		t.Fatalf("token must be cleared on failed restore")
	}
	if s.Loading() {
		t.Fatalf("loading must end even on failure")
	}
}

func TestLoginReplacesWholesaleWithoutMerging(t *testing.T) {
	st := store.NewMemory()
	raw, _ := json.Marshal(model.User{Email: "a@x.com", Signature: "cached extra"})
	_ = st.Save(store.SlotUser, string(raw))

	auth := &fakeAuth{loginUser: model.User{ID: "u-1", Email: "a@x.com", Role: model.RoleInterviewee}}
	s := New(auth, st)
	if err := s.Login(context.Background(), "a@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	user := s.User()
	if user.Signature != "" {
		t.Fatalf("login must not merge cached fields, signature = %q", user.Signature)
	}
	if user.ID != "u-1" {
		t.Fatalf("login user not installed: %+v", user)
	}
}

func TestLogoutClearsStorageEvenWhenRequestFails(t *testing.T) {
	st := store.NewMemory()
	_ = st.Save(store.SlotToken, "tok")
	_ = st.Save(store.SlotUser, `{"email":"a@x.com"}`)

	auth := &fakeAuth{
		loginUser: model.User{Email: "a@x.com"},
		logoutErr: errors.New("network down"),
	}
	s := New(auth, st)
	_ = s.Login(context.Background(), "a@x.com", "pw")

	if err := s.Logout(context.Background()); err == nil {
		t.Fatalf("logout should report the failed request")
	}
	if s.User() != nil {
		t.Fatalf("user must be cleared regardless of request outcome")
	}
	if _, ok := st.Load(store.SlotToken); ok {
		t.Fatalf("token slot must be cleared")
	}
	if _, ok := st.Load(store.SlotUser); ok {
		t.Fatalf("user slot must be cleared")
	}
}

func TestRefreshSurvivesCorruptCachedUser(t *testing.T) {
	st := store.NewMemory()
	_ = st.Save(store.SlotUser, "{broken")
	auth := &fakeAuth{meUser: model.User{Email: "a@x.com", Nickname: "fresh"}}
	s := New(auth, st)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := s.User().Nickname; got != "fresh" {
		t.Fatalf("corrupt cache must be ignored, nickname = %q", got)
	}
}
