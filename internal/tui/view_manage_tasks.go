// internal/tui/view_manage_tasks.go
//
// Interviewer task board: every assigned task with its report state, task
// creation and editing, plus the candidate-table export download.

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

type manageTasksLoadedMsg struct {
	seq        int
	tasks      []model.Task
	candidates []model.User
	err        error
}

type manageTasksActionMsg struct {
	seq    int
	action string
	err    error
}

type exportDoneMsg struct {
	seq  int
	path string
	err  error
}

type manageTasksView struct {
	seq        int
	loading    bool
	busy       bool
	err        string
	tasks      []model.Task
	candidates []model.User
	cursor     int
	editing    bool
	editID     string
	form       form
}

func newManageTasksView() manageTasksView {
	return manageTasksView{}
}

func (v *manageTasksView) enter(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.busy = false
	v.editing = false
	v.err = ""
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		msg := manageTasksLoadedMsg{seq: seq}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			tasks, err := a.api.Tasks.List(gctx, api.ScopeAll)
			if err != nil {
				return err
			}
			msg.tasks = tasks
			return nil
		})
		g.Go(func() error {
			users, err := a.api.Users.List(gctx, api.ListFilter{Role: model.RoleInterviewee})
			if err != nil {
				return err
			}
			msg.candidates = users
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

func (v *manageTasksView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case manageTasksLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load tasks", msg.err)
			return nil
		}
		v.tasks = msg.tasks
		v.candidates = msg.candidates
		if v.cursor >= len(v.tasks) {
			v.cursor = 0
		}
		return nil
	case manageTasksActionMsg:
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
	case exportDoneMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Export failed", msg.err)
			return nil
		}
		a.statusMsg = "Exported to " + msg.path
		a.logInfo("exported applications to %s", msg.path)
		return nil
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
		if action == "Save task" {
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
			if v.cursor < len(v.tasks)-1 {
				v.cursor++
			}
		case "n":
			v.startForm(nil)
		case "e":
			if task, ok := v.selected(); ok {
				v.startForm(&task)
			}
		case "d":
			if task, ok := v.selected(); ok {
				return v.run(a, "Delete", func(ctx context.Context) error {
					return a.api.Tasks.Delete(ctx, task.ID)
				})
			}
		case "o":
			return v.export(a)
		case "r":
			return v.enter(a)
		}
	}
	return nil
}

// candidateLabels pairs display names with user ids for the target selector.
func (v *manageTasksView) candidateLabels() ([]string, map[string]string) {
	labels := make([]string, 0, len(v.candidates))
	ids := make(map[string]string, len(v.candidates))
	for _, user := range v.candidates {
		label := user.Nickname
		if label == "" {
			label = user.Email
		}
		labels = append(labels, label)
		ids[label] = user.ID
	}
	return labels, ids
}

func (v *manageTasksView) startForm(existing *model.Task) {
	labels, _ := v.candidateLabels()
	if len(labels) == 0 {
		v.err = "No candidates to assign tasks to."
		return
	}
	v.form = newForm(
		inputField("Title", ""),
		areaField("Description", "What the candidate should do"),
		selectField("Candidate", labels),
		buttonField("Save task"),
	)
	v.editID = ""
	if existing != nil {
		v.editID = existing.ID
		v.form.setValue("Title", existing.Title)
		v.form.setValue("Description", existing.Description)
		for _, user := range v.candidates {
			if user.ID == existing.TargetUserID {
				label := user.Nickname
				if label == "" {
					label = user.Email
				}
				v.form.setValue("Candidate", label)
			}
		}
	}
	v.editing = true
	v.err = ""
}

func (v *manageTasksView) save(a *App) tea.Cmd {
	_, ids := v.candidateLabels()
	payload := api.TaskPayload{
		Title:        v.form.value("Title"),
		Description:  v.form.value("Description"),
		TargetUserID: ids[v.form.value("Candidate")],
	}
	if payload.Title == "" || payload.TargetUserID == "" {
		v.err = "Title and candidate are required."
		return nil
	}
	id := v.editID
	v.editing = false
	if id != "" {
		return v.run(a, "Update", func(ctx context.Context) error {
			return a.api.Tasks.Update(ctx, id, payload)
		})
	}
	return v.run(a, "Create", func(ctx context.Context) error {
		return a.api.Tasks.Create(ctx, payload)
	})
}

func (v *manageTasksView) export(a *App) tea.Cmd {
	dest := filepath.Join(a.cfg.ExportDir(), fmt.Sprintf("applications-%s.csv", time.Now().Format("20060102-150405")))
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		path, err := a.api.Export.DownloadApplications(ctx, dest)
		return exportDoneMsg{seq: seq, path: path, err: err}
	}
}

func (v *manageTasksView) run(a *App, action string, fn func(context.Context) error) tea.Cmd {
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return manageTasksActionMsg{seq: seq, action: action, err: fn(ctx)}
	}
}

func (v *manageTasksView) selected() (model.Task, bool) {
	if v.cursor < len(v.tasks) {
		return v.tasks[v.cursor], true
	}
	return model.Task{}, false
}

func (v *manageTasksView) typing() bool { return v.editing && v.form.typing() }

func (v *manageTasksView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Task board") + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}
	if v.editing {
		b.WriteString("\n" + v.form.view(st))
	} else {
		if len(v.tasks) == 0 {
			b.WriteString(st.meta.Render("No tasks assigned."))
		} else {
			var cards []string
			for i, task := range v.tasks {
				state := st.meta.Render("report pending")
				if task.Report != "" {
					state = st.label.Render("report submitted")
				}
				body := fmt.Sprintf("%s → %s  %s", st.title.Render(task.Title), task.TargetUserName, state)
				if i == v.cursor {
					body += "\n" + task.Description
					if task.Report != "" {
						body += "\n" + st.label.Render("Report") + "\n" + task.Report
					}
					cards = append(cards, st.cardFocus.Render(body))
				} else {
					cards = append(cards, st.card.Render(body))
				}
			}
			b.WriteString(joinCards(cards...))
		}
		b.WriteString("\n" + st.hint.Render("n new · e edit · d delete · o export table · r reload"))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Working..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}
