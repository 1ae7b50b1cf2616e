// internal/tui/view_mytasks.go
//
// Candidate task view: the tasks assigned to the signed-in interviewee, with
// report submission. A resubmitted report replaces the previous one.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

type myTasksLoadedMsg struct {
	seq   int
	tasks []model.Task
	err   error
}

type reportSubmittedMsg struct {
	seq int
	err error
}

type myTasksView struct {
	seq     int
	loading bool
	busy    bool
	err     string
	tasks   []model.Task
	cursor  int
	writing bool
	form    form
}

func newMyTasksView() myTasksView {
	return myTasksView{}
}

func (v *myTasksView) enter(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.busy = false
	v.writing = false
	v.err = ""
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		tasks, err := a.api.Tasks.List(ctx, api.ScopeMine)
		return myTasksLoadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

func (v *myTasksView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case myTasksLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load tasks", msg.err)
			return nil
		}
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = 0
		}
		return nil
	case reportSubmittedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Submit failed", msg.err)
			return nil
		}
		a.statusMsg = "Report submitted."
		return v.enter(a)
	}

	if v.busy || v.loading {
		return nil
	}

	if v.writing {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			v.writing = false
			v.err = ""
			return nil
		}
		cmd, action := v.form.update(msg)
		if action == "Submit report" {
			return v.submitReport(a)
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
		case "enter", "s":
			if v.cursor < len(v.tasks) {
				task := v.tasks[v.cursor]
				v.form = newForm(
					areaField("Report", "What you did, what you learned"),
					buttonField("Submit report"),
				)
				v.form.setValue("Report", task.Report)
				v.writing = true
				v.err = ""
			}
		case "r":
			return v.enter(a)
		}
	}
	return nil
}

func (v *myTasksView) submitReport(a *App) tea.Cmd {
	report := v.form.value("Report")
	if strings.TrimSpace(report) == "" {
		v.err = "The report is empty."
		return nil
	}
	taskID := v.tasks[v.cursor].ID
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return reportSubmittedMsg{seq: seq, err: a.api.Tasks.SubmitReport(ctx, taskID, report)}
	}
}

func (v *myTasksView) typing() bool { return v.writing && v.form.typing() }

func (v *myTasksView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("My tasks") + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}
	if v.writing {
		task := v.tasks[v.cursor]
		b.WriteString(st.label.Render(task.Title) + "\n" + st.meta.Render(task.Description) + "\n\n")
		b.WriteString(v.form.view(st))
	} else if len(v.tasks) == 0 {
		b.WriteString(st.meta.Render("No tasks assigned yet."))
	} else {
		var cards []string
		for i, task := range v.tasks {
			cards = append(cards, renderTaskCard(st, task, i == v.cursor))
		}
		b.WriteString(joinCards(cards...))
		b.WriteString("\n" + st.hint.Render("↑/↓ select · enter submit report · r reload"))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Working..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}

func renderTaskCard(st styles, task model.Task, focused bool) string {
	state := "report pending"
	if task.Report != "" {
		state = "report submitted"
	}
	body := st.title.Render(task.Title) + "\n" +
		st.meta.Render(fmt.Sprintf("assigned by %s · %s · %s", task.AssignedBy, task.CreatedAt, state))
	if focused {
		body += "\n" + task.Description
		if task.Report != "" {
			body += "\n\n" + st.label.Render("Your report") + "\n" + task.Report
		}
		return st.cardFocus.Render(body)
	}
	return st.card.Render(body)
}
