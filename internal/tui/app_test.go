package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/config"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/logbook"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/session"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

// backendStub is a minimal recruitment backend for TUI tests. Handlers can
// be swapped per test; anything unhandled is a 404.
type backendStub struct {
	mux   *http.ServeMux
	hits  map[string]int
	me    *model.User
	token string
}

func newBackendStub() *backendStub {
	b := &backendStub{mux: http.NewServeMux(), hits: map[string]int{}}
	b.mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.hits["/auth/me"]++
		if b.me == nil || r.Header.Get("Authorization") != "Bearer "+b.token {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{"user": b.me}})
	})
	b.mux.HandleFunc("/announcements", func(w http.ResponseWriter, r *http.Request) {
		b.hits["/announcements"]++
		writeJSON(w, map[string]any{"data": map[string]any{"items": []map[string]any{
			{"uuid": "a1", "title": "Welcome", "content": "hello", "pinned": false},
			{"uuid": "a2", "title": "Read me first", "content": "rules", "pinned": true},
		}}})
	})
	b.mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		b.hits["/users/"]++
		writeJSON(w, map[string]any{"data": map[string]any{"items": []map[string]any{}}})
	})
	return b
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestApp(t *testing.T, backend *backendStub) (*App, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend.mux)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	cfg := &config.Config{
		HomeDir: home,
		File:    config.FileConfig{Version: 1, APIBaseURL: srv.URL, ExportDir: "exports"},
	}
	st := store.NewMemory()
	services := api.NewServices(cfg.APIBaseURL(), st)
	sess := session.New(services.Auth, st)
	lb, err := logbook.New(filepath.Join(home, "logs", "session.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	return NewApp(cfg, services, sess, st, lb), srv
}

// runCommands pumps a command chain through Update until it settles.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				queue = append(queue, c)
			}
			continue
		}
		nextModel, nextCmd := app.Update(msg)
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		queue = append(queue, nextCmd)
	}
	return app
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	backend := newBackendStub()
	app, _ := newTestApp(t, backend)
	app = runCommands(t, app, app.Init())

	if app.sess.Loading() {
		t.Fatalf("restore must have settled")
	}
	app = runCommands(t, app, app.navigate(routeProfile))
	if app.route != routeLogin {
		t.Fatalf("anonymous user must land on login, got route %d", app.route)
	}
}

func TestCandidateCannotEnterInterviewerRoutes(t *testing.T) {
	backend := newBackendStub()
	backend.token = "tok"
	backend.me = &model.User{ID: "u1", Email: "c@x.com", Nickname: "cand", Role: model.RoleInterviewee}
	app, _ := newTestApp(t, backend)
	_ = app.st.Save(store.SlotToken, "tok")
	app = runCommands(t, app, app.Init())

	if user := app.sess.User(); user == nil || user.Role != model.RoleInterviewee {
		t.Fatalf("expected signed-in candidate, got %+v", user)
	}
	before := backend.hits["/users/"]
	app = runCommands(t, app, app.navigate(routeCandidates))
	if app.route != routeAnnouncements {
		t.Fatalf("candidate must bounce back home, got route %d", app.route)
	}
	if backend.hits["/users/"] != before {
		t.Fatalf("a denied route must not hit the backend")
	}
}

func TestPendingRouteResolvesAfterRestore(t *testing.T) {
	backend := newBackendStub()
	backend.token = "tok"
	backend.me = &model.User{ID: "u1", Email: "c@x.com", Role: model.RoleInterviewee}
	app, _ := newTestApp(t, backend)
	_ = app.st.Save(store.SlotToken, "tok")

	// Navigate while the restore is still in flight: the guard shows the
	// loading state and keeps the target.
	if cmd := app.navigate(routeProfile); cmd != nil {
		t.Fatalf("navigation during restore must defer, got a command")
	}
	if app.route != routeProfile {
		t.Fatalf("target route must be kept while loading")
	}
	app = runCommands(t, app, app.restoreSession())
	if app.route != routeProfile {
		t.Fatalf("restored session must keep the pending route, got %d", app.route)
	}
}

func TestAnnouncementsPinnedFirstAndStaleDrop(t *testing.T) {
	backend := newBackendStub()
	app, _ := newTestApp(t, backend)
	app = runCommands(t, app, app.Init())

	if len(app.anns.items) != 2 {
		t.Fatalf("expected 2 announcements, got %d", len(app.anns.items))
	}
	if !app.anns.items[0].Pinned {
		t.Fatalf("pinned announcement must sort first")
	}

	// A response from a superseded request must not overwrite the list.
	stale := annsLoadedMsg{seq: app.anns.seq - 1, items: []model.Announcement{{ID: "zzz", Title: "stale"}}}
	app = runCommands(t, app, func() tea.Msg { return stale })
	if app.anns.items[0].ID == "zzz" {
		t.Fatalf("stale response must be dropped")
	}
}

func TestSearchDebounceLastKeystrokeWins(t *testing.T) {
	backend := newBackendStub()
	app, _ := newTestApp(t, backend)
	v := &app.candidates

	_ = v.debounce()
	_ = v.debounce()
	final := v.searchSeq

	if cmd := v.update(app, searchFireMsg{seq: final - 1}); cmd != nil {
		t.Fatalf("a superseded debounce tick must not fire a search")
	}
	if cmd := v.update(app, searchFireMsg{seq: final}); cmd == nil {
		t.Fatalf("the last debounce tick must fire the search")
	}
}

func TestLogoutClearsNavAndState(t *testing.T) {
	backend := newBackendStub()
	backend.token = "tok"
	backend.me = &model.User{ID: "u1", Email: "c@x.com", Role: model.RoleInterviewee}
	backend.mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"message": "ok"})
	})
	app, _ := newTestApp(t, backend)
	_ = app.st.Save(store.SlotToken, "tok")
	app = runCommands(t, app, app.Init())
	if app.sess.User() == nil {
		t.Fatalf("expected signed-in user")
	}

	app = runCommands(t, app, app.logout())
	if app.sess.User() != nil {
		t.Fatalf("logout must clear the session user")
	}
	if _, ok := app.st.Load(store.SlotToken); ok {
		t.Fatalf("logout must clear the token slot")
	}
	if app.route != routeAnnouncements {
		t.Fatalf("logout must land on the public view")
	}
}
