// internal/tui/view_candidates.go
//
// Interviewer candidate list with a debounced search box. A query only hits
// the backend 300ms after the last keystroke, and a stale response never
// overwrites a newer one.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

type candidatesLoadedMsg struct {
	seq   int
	users []model.User
	err   error
}

type searchFireMsg struct {
	seq int
}

type candidatesView struct {
	seq       int
	searchSeq int
	loading   bool
	err       string
	users     []model.User
	cursor    int
	search    textinput.Model
	searching bool
}

func newCandidatesView() candidatesView {
	in := textinput.New()
	in.Placeholder = "search email or nickname"
	in.CharLimit = 128
	return candidatesView{search: in}
}

func (v *candidatesView) enter(a *App) tea.Cmd {
	v.searching = false
	v.search.Blur()
	return v.load(a)
}

// load fires the request for the current query.
func (v *candidatesView) load(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.err = ""
	seq := v.seq
	query := strings.TrimSpace(v.search.Value())
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		users, err := a.api.Users.List(ctx, api.ListFilter{Query: query, Role: model.RoleInterviewee})
		return candidatesLoadedMsg{seq: seq, users: users, err: err}
	}
}

// debounce schedules a search for after the typing pause.
func (v *candidatesView) debounce() tea.Cmd {
	v.searchSeq++
	seq := v.searchSeq
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchFireMsg{seq: seq}
	})
}

func (v *candidatesView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case candidatesLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load candidates", msg.err)
			return nil
		}
		v.users = msg.users
		if v.cursor >= len(v.users) {
			v.cursor = 0
		}
		return nil
	case searchFireMsg:
		// Only the tick scheduled by the last keystroke fires.
		if msg.seq != v.searchSeq {
			return nil
		}
		return v.load(a)
	case tea.KeyMsg:
		if v.searching {
			switch msg.String() {
			case "esc", "enter":
				v.searching = false
				v.search.Blur()
				return nil
			default:
				var cmd tea.Cmd
				before := v.search.Value()
				v.search, cmd = v.search.Update(msg)
				if v.search.Value() != before {
					return tea.Batch(cmd, v.debounce())
				}
				return cmd
			}
		}
		switch msg.String() {
		case "/":
			v.searching = true
			v.search.Focus()
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.users)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.users) {
				a.detail.userID = v.users[v.cursor].ID
				return a.navigate(routeCandidateDetail)
			}
		case "r":
			return v.load(a)
		}
	}
	return nil
}

func (v *candidatesView) typing() bool { return v.searching }

func (v *candidatesView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Candidates") + "\n")
	b.WriteString(v.search.View() + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}
	if v.err != "" {
		return b.String() + st.errorText.Render(v.err)
	}
	if len(v.users) == 0 {
		return b.String() + st.meta.Render("No candidates match.")
	}
	var rows []string
	for i, user := range v.users {
		name := user.Nickname
		if name == "" {
			name = user.Email
		}
		line := fmt.Sprintf("%-24s %s", name, st.meta.Render(model.StatusLabel(user.Status)))
		if len(user.Directions) > 0 {
			line += "  " + st.meta.Render(strings.Join(user.Directions, "/"))
		}
		if i == v.cursor {
			rows = append(rows, st.selected.Render("› ")+line)
		} else {
			rows = append(rows, "  "+line)
		}
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n" + st.hint.Render("/ search · ↑/↓ select · enter open · r reload"))
	return b.String()
}
