// internal/tui/view_directory.go
//
// Member directory backed by a bubbles list: interviewers first, then
// candidates, with the list's built-in fuzzy filtering on / .

package tui

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

type memberItem struct {
	user model.User
}

func (i memberItem) Title() string {
	name := i.user.Nickname
	if name == "" {
		name = i.user.Email
	}
	return name
}

func (i memberItem) Description() string {
	desc := roleLabel(i.user.Role)
	if i.user.Signature != "" {
		desc += " · " + i.user.Signature
	}
	return desc
}

func (i memberItem) FilterValue() string {
	return i.user.Nickname + " " + i.user.Email
}

type directoryView struct {
	seq     int
	loading bool
	err     string
	list    list.Model
}

type directoryLoadedMsg struct {
	seq   int
	users []model.User
	err   error
}

func newDirectoryView() directoryView {
	l := list.New(nil, list.NewDefaultDelegate(), 60, 20)
	l.Title = "Members"
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	return directoryView{list: l}
}

func (v *directoryView) enter(a *App) tea.Cmd {
	if a.width > 0 && a.height > 0 {
		v.list.SetSize(a.width-4, a.height-10)
	}
	v.seq++
	v.loading = true
	v.err = ""
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		users, err := a.api.Users.List(ctx, api.ListFilter{})
		return directoryLoadedMsg{seq: seq, users: sortInterviewersFirst(users), err: err}
	}
}

func (v *directoryView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case directoryLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load members", msg.err)
			return nil
		}
		items := make([]list.Item, 0, len(msg.users))
		for _, user := range msg.users {
			items = append(items, memberItem{user: user})
		}
		return v.list.SetItems(items)
	case tea.WindowSizeMsg:
		v.list.SetSize(msg.Width-4, msg.Height-10)
		return nil
	case tea.KeyMsg:
		if msg.String() == "r" && v.list.FilterState() != list.Filtering {
			return v.enter(a)
		}
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *directoryView) typing() bool {
	return v.list.FilterState() == list.Filtering
}

func (v *directoryView) view(a *App) string {
	st := a.styles
	if v.loading {
		return st.title.Render("Directory") + "\n" + st.meta.Render("Loading...")
	}
	if v.err != "" {
		return st.title.Render("Directory") + "\n" + st.errorText.Render(v.err)
	}
	out := v.list.View()
	if item, ok := v.list.SelectedItem().(memberItem); ok {
		out += "\n" + st.meta.Render("avatar "+gravatarURL(item.user.Email))
	}
	return out
}

func sortInterviewersFirst(users []model.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Role == model.RoleInterviewer {
			out = append(out, u)
		}
	}
	for _, u := range users {
		if u.Role != model.RoleInterviewer {
			out = append(out, u)
		}
	}
	return out
}

// gravatarURL derives the avatar address the web client used for member
// portraits.
func gravatarURL(email string) string {
	digest := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(digest[:])
}
