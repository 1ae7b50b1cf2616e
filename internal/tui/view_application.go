// internal/tui/view_application.go
//
// Candidate application view: submit, review, edit and withdraw the one
// application each interviewee may have.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

type applicationLoadedMsg struct {
	seq int
	app *model.Application
	err error
}

type applicationSavedMsg struct {
	seq int
	err error
}

type applicationWithdrawnMsg struct {
	seq int
	err error
}

type applicationView struct {
	seq        int
	loading    bool
	busy       bool
	err        string
	app        *model.Application
	editing    bool
	confirming bool
	form       form
}

func newApplicationView() applicationView {
	return applicationView{}
}

func (v *applicationView) enter(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.busy = false
	v.editing = false
	v.confirming = false
	v.err = ""
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		app, err := a.api.Applications.Mine(ctx)
		return applicationLoadedMsg{seq: seq, app: app, err: err}
	}
}

func (v *applicationView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case applicationLoadedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load application", msg.err)
			return nil
		}
		v.app = msg.app
		if v.app == nil {
			v.startForm(nil)
		}
		return nil
	case applicationSavedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Submit failed", msg.err)
			return nil
		}
		a.statusMsg = "Application submitted."
		a.logInfo("application submitted")
		return v.enter(a)
	case applicationWithdrawnMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Withdraw failed", msg.err)
			return nil
		}
		a.statusMsg = "Application withdrawn."
		return v.enter(a)
	}

	if v.busy || v.loading {
		return nil
	}

	if !v.editing {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "e":
				if v.app != nil {
					v.startForm(v.app)
				}
			case "w":
				if v.app != nil {
					v.confirming = true
				}
			case "y":
				if v.confirming {
					v.confirming = false
					return v.withdraw(a)
				}
			case "esc":
				v.confirming = false
			}
		}
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && v.app != nil {
		v.editing = false
		v.err = ""
		return nil
	}
	cmd, action := v.form.update(msg)
	if action == "Submit application" {
		return v.submit(a)
	}
	return cmd
}

func (v *applicationView) startForm(existing *model.Application) {
	v.form = newForm(
		inputField("Real name", ""),
		inputField("Phone", ""),
		selectField("Gender", []string{"male", "female", "other"}),
		inputField("Department", "school / college"),
		inputField("Major", ""),
		inputField("Student ID", ""),
		multiField("Directions", model.Directions),
		areaField("Resume", "Introduce yourself (Markdown welcome)"),
		buttonField("Submit application"),
	)
	if existing != nil {
		v.form.setValue("Real name", existing.RealName)
		v.form.setValue("Phone", existing.Phone)
		v.form.setValue("Gender", existing.Gender)
		v.form.setValue("Department", existing.Department)
		v.form.setValue("Major", existing.Major)
		v.form.setValue("Student ID", existing.StudentID)
		v.form.setValues("Directions", existing.Directions)
		v.form.setValue("Resume", existing.Resume)
	}
	v.editing = true
	v.err = ""
}

func (v *applicationView) submit(a *App) tea.Cmd {
	payload := api.ApplicationPayload{
		RealName:   v.form.value("Real name"),
		Phone:      v.form.value("Phone"),
		Gender:     v.form.value("Gender"),
		Department: v.form.value("Department"),
		Major:      v.form.value("Major"),
		StudentID:  v.form.value("Student ID"),
		Directions: v.form.values("Directions"),
		Resume:     v.form.value("Resume"),
	}
	if payload.RealName == "" || payload.StudentID == "" {
		v.err = "Real name and student ID are required."
		return nil
	}
	if len(payload.Directions) == 0 {
		v.err = "Pick at least one direction."
		return nil
	}
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return applicationSavedMsg{seq: seq, err: a.api.Applications.Submit(ctx, payload)}
	}
}

func (v *applicationView) withdraw(a *App) tea.Cmd {
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return applicationWithdrawnMsg{seq: seq, err: a.api.Applications.DeleteMine(ctx)}
	}
}

func (v *applicationView) typing() bool { return v.editing && v.form.typing() }

func (v *applicationView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Application") + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}
	if v.editing {
		b.WriteString("\n" + v.form.view(st))
	} else if v.app != nil {
		b.WriteString(renderApplicationCard(st, *v.app, a.sess.User()))
		if v.confirming {
			b.WriteString("\n" + st.errorText.Render("Withdraw the application? y to confirm, esc to keep it."))
		} else {
			b.WriteString("\n" + st.hint.Render("e edit · w withdraw"))
		}
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Working..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}

func renderApplicationCard(st styles, app model.Application, user *model.User) string {
	rows := []string{
		fmt.Sprintf("%s  %s (%s)", st.label.Render("Name"), app.RealName, app.Gender),
		fmt.Sprintf("%s %s · %s", st.label.Render("Study"), app.Department, app.Major),
		fmt.Sprintf("%s    %s · %s", st.label.Render("ID"), app.StudentID, app.Phone),
		fmt.Sprintf("%s %s", st.label.Render("Wants"), strings.Join(app.Directions, ", ")),
	}
	if user != nil {
		rows = append(rows, fmt.Sprintf("%s %s", st.label.Render("Stage"), model.StatusLabel(user.Status)))
	}
	if app.Resume != "" {
		rows = append(rows, "", app.Resume)
	}
	return st.card.Render(strings.Join(rows, "\n"))
}
