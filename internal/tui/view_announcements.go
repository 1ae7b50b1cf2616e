package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// announcementsView is the public landing page: every announcement the
// backend lets the current session see, pinned ones first.
type announcementsView struct {
	seq     int
	loading bool
	err     string
	items   []model.Announcement
	cursor  int
}

type annsLoadedMsg struct {
	seq   int
	items []model.Announcement
	err   error
}

func newAnnouncementsView() announcementsView {
	return announcementsView{}
}

func (v *announcementsView) enter(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.err = ""
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		items, err := a.api.Announcements.List(ctx)
		return annsLoadedMsg{seq: seq, items: sortPinnedFirst(items), err: err}
	}
}

func (v *announcementsView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case annsLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load announcements", msg.err)
			a.logWarn("announcement load failed: %v", msg.err)
			return nil
		}
		v.items = msg.items
		if v.cursor >= len(v.items) {
			v.cursor = 0
		}
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case "r":
			return v.enter(a)
		}
	}
	return nil
}

func (v *announcementsView) typing() bool { return false }

func (v *announcementsView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Announcements") + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}
	if v.err != "" {
		return b.String() + st.errorText.Render(v.err)
	}
	if len(v.items) == 0 {
		return b.String() + st.meta.Render("Nothing posted yet.")
	}
	var cards []string
	for i, ann := range v.items {
		cards = append(cards, renderAnnouncementCard(st, ann, i == v.cursor))
	}
	b.WriteString(joinCards(cards...))
	b.WriteString("\n" + st.hint.Render("↑/↓ select · r reload"))
	return b.String()
}

func renderAnnouncementCard(st styles, ann model.Announcement, focused bool) string {
	title := st.title.Render(ann.Title)
	if ann.Pinned {
		title = st.pinned.Render("★ ") + title
	}
	meta := fmt.Sprintf("%s · %s · %s", ann.AuthorNickname, ann.CreatedAt, model.VisibilityLabel(ann.Visibility))
	body := title + "\n" + st.meta.Render(meta)
	if focused {
		body += "\n" + ann.Content
		return st.cardFocus.Render(body)
	}
	return st.card.Render(body)
}

// sortPinnedFirst keeps the backend's ordering within each group but floats
// pinned announcements to the top.
func sortPinnedFirst(items []model.Announcement) []model.Announcement {
	out := make([]model.Announcement, 0, len(items))
	for _, ann := range items {
		if ann.Pinned {
			out = append(out, ann)
		}
	}
	for _, ann := range items {
		if !ann.Pinned {
			out = append(out, ann)
		}
	}
	return out
}
