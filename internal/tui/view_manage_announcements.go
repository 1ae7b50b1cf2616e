// internal/tui/view_manage_announcements.go
//
// Interviewer post board: create, edit, pin and delete announcements,
// including status-scoped visibility.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

var visibilityOptions = []string{
	model.VisibilityPublic,
	model.VisibilityAll,
	model.VisibilityInterviewer,
	model.VisibilityStatus,
}

type manageAnnsLoadedMsg struct {
	seq   int
	items []model.Announcement
	err   error
}

type manageAnnsActionMsg struct {
	seq    int
	action string
	err    error
}

type manageAnnouncementsView struct {
	seq     int
	loading bool
	busy    bool
	err     string
	items   []model.Announcement
	cursor  int
	editing bool
	editID  string
	form    form
}

func newManageAnnouncementsView() manageAnnouncementsView {
	return manageAnnouncementsView{}
}

func (v *manageAnnouncementsView) enter(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.busy = false
	v.editing = false
	v.err = ""
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		items, err := a.api.Announcements.List(ctx)
		return manageAnnsLoadedMsg{seq: seq, items: sortPinnedFirst(items), err: err}
	}
}

func (v *manageAnnouncementsView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case manageAnnsLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load announcements", msg.err)
			return nil
		}
		v.items = msg.items
		if v.cursor >= len(v.items) {
			v.cursor = 0
		}
		return nil
	case manageAnnsActionMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText(msg.action+" failed", msg.err)
			return nil
		}
		a.statusMsg = msg.action + " done."
		return v.enter(a)
	}

	if v.busy || v.loading {
		return nil
	}

	if v.editing {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			v.editing = false
			v.err = ""
			return nil
		}
		cmd, action := v.form.update(msg)
		if action == "Save announcement" {
			return v.save(a)
		}
		return cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case "n":
			v.startForm(nil)
		case "e":
			if ann, ok := v.selected(); ok {
				v.startForm(&ann)
			}
		case "p":
			if ann, ok := v.selected(); ok {
				pinned := !ann.Pinned
				action := "Pin"
				if !pinned {
					action = "Unpin"
				}
				return v.run(a, action, func(ctx context.Context) error {
					return a.api.Announcements.Pin(ctx, ann.ID, pinned)
				})
			}
		case "d":
			if ann, ok := v.selected(); ok {
				return v.run(a, "Delete", func(ctx context.Context) error {
					return a.api.Announcements.Delete(ctx, ann.ID)
				})
			}
		case "r":
			return v.enter(a)
		}
	}
	return nil
}

func (v *manageAnnouncementsView) startForm(existing *model.Announcement) {
	v.form = newForm(
		inputField("Title", ""),
		areaField("Content", "Markdown body"),
		selectField("Visibility", visibilityOptions),
		multiField("Visible statuses", model.Statuses),
		buttonField("Save announcement"),
	)
	v.editID = ""
	if existing != nil {
		v.editID = existing.ID
		v.form.setValue("Title", existing.Title)
		v.form.setValue("Content", existing.Content)
		v.form.setValue("Visibility", existing.Visibility)
		v.form.setValues("Visible statuses", existing.AllowedStatuses)
	}
	v.editing = true
	v.err = ""
}

func (v *manageAnnouncementsView) save(a *App) tea.Cmd {
	payload := api.AnnouncementPayload{
		Title:      v.form.value("Title"),
		Content:    v.form.value("Content"),
		Visibility: v.form.value("Visibility"),
	}
	if payload.Visibility == model.VisibilityStatus {
		payload.AllowedStatuses = v.form.values("Visible statuses")
		if len(payload.AllowedStatuses) == 0 {
			v.err = "Pick at least one status for status-scoped visibility."
			return nil
		}
	}
	if payload.Title == "" || strings.TrimSpace(payload.Content) == "" {
		v.err = "Title and content are required."
		return nil
	}
	id := v.editID
	v.editing = false
	if id != "" {
		return v.run(a, "Update", func(ctx context.Context) error {
			return a.api.Announcements.Update(ctx, id, payload)
		})
	}
	return v.run(a, "Create", func(ctx context.Context) error {
		return a.api.Announcements.Create(ctx, payload)
	})
}

func (v *manageAnnouncementsView) run(a *App, action string, fn func(context.Context) error) tea.Cmd {
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return manageAnnsActionMsg{seq: seq, action: action, err: fn(ctx)}
	}
}

func (v *manageAnnouncementsView) selected() (model.Announcement, bool) {
	if v.cursor < len(v.items) {
		return v.items[v.cursor], true
	}
	return model.Announcement{}, false
}

func (v *manageAnnouncementsView) typing() bool { return v.editing && v.form.typing() }

func (v *manageAnnouncementsView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Post board") + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}
	if v.editing {
		b.WriteString("\n" + v.form.view(st))
	} else {
		if len(v.items) == 0 {
			b.WriteString(st.meta.Render("Nothing posted yet."))
		} else {
			var rows []string
			for i, ann := range v.items {
				pin := "  "
				if ann.Pinned {
					pin = st.pinned.Render("★ ")
				}
				scope := model.VisibilityLabel(ann.Visibility)
				if ann.Visibility == model.VisibilityStatus {
					scope = fmt.Sprintf("%s (%s)", scope, strings.Join(ann.AllowedStatuses, ", "))
				}
				line := fmt.Sprintf("%s%s  %s", pin, ann.Title, st.meta.Render(scope))
				if i == v.cursor {
					line = st.selected.Render("› ") + line
				} else {
					line = "  " + line
				}
				rows = append(rows, line)
			}
			b.WriteString(strings.Join(rows, "\n"))
		}
		b.WriteString("\n" + st.hint.Render("n new · e edit · p pin/unpin · d delete · r reload"))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Working..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}
