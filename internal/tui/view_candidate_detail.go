// internal/tui/view_candidate_detail.go
//
// Interviewer drill-down on one candidate: profile, application, interviewer
// comments and the assigned task are fetched jointly, then the interviewer
// can comment, move the status, mark passed directions, promote or remove
// the account.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

type candidateDetailMsg struct {
	seq      int
	user     model.User
	comments []model.Comment
	task     *model.Task
	err      error
}

type candidateActionMsg struct {
	seq    int
	action string
	err    error
}

type detailMode int

const (
	detailBrowse detailMode = iota
	detailComment
	detailStatus
	detailDirections
	detailConfirmPromote
	detailConfirmDelete
)

type candidateDetailView struct {
	userID string

	seq     int
	loading bool
	busy    bool
	err     string

	user     model.User
	comments []model.Comment
	task     *model.Task

	mode          detailMode
	cursor        int // comment selection
	statusCursor  int
	editCommentID string
	form          form
}

func newCandidateDetailView() candidateDetailView {
	return candidateDetailView{}
}

func (v *candidateDetailView) enter(a *App) tea.Cmd {
	v.seq++
	v.loading = true
	v.busy = false
	v.err = ""
	v.mode = detailBrowse
	v.cursor = 0
	seq := v.seq
	userID := v.userID
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		msg := candidateDetailMsg{seq: seq}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			user, err := a.api.Users.Get(gctx, userID)
			if err != nil {
				return err
			}
			msg.user = user
			return nil
		})
		g.Go(func() error {
			comments, err := a.api.Comments.ListByCandidate(gctx, userID)
			if err != nil {
				return err
			}
			msg.comments = comments
			return nil
		})
		g.Go(func() error {
			task, err := taskForUser(gctx, a.api.Tasks, userID)
			if err != nil {
				return err
			}
			msg.task = task
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

// taskForUser finds the task assigned to one candidate in the full list.
func taskForUser(ctx context.Context, tasks *api.Tasks, userID string) (*model.Task, error) {
	all, err := tasks.List(ctx, api.ScopeAll)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].TargetUserID == userID {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (v *candidateDetailView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case candidateDetailMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = errText("Could not load candidate", msg.err)
			a.logWarn("candidate load failed: %v", msg.err)
			return nil
		}
		v.user = msg.user
		v.comments = msg.comments
		v.task = msg.task
		if v.cursor >= len(v.comments) {
			v.cursor = 0
		}
		return nil
	case candidateActionMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText(msg.action+" failed", msg.err)
			return nil
		}
		a.statusMsg = msg.action + " done."
		if msg.action == "Delete account" {
			return a.navigate(routeCandidates)
		}
		return v.enter(a)
	}

	if v.busy || v.loading {
		return nil
	}

	switch v.mode {
	case detailBrowse:
		return v.updateBrowse(a, msg)
	case detailComment:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			v.mode = detailBrowse
			v.err = ""
			return nil
		}
		cmd, action := v.form.update(msg)
		if action == "Save comment" {
			return v.saveComment(a)
		}
		return cmd
	case detailStatus:
		return v.updateStatusPick(a, msg)
	case detailDirections:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			v.mode = detailBrowse
			v.err = ""
			return nil
		}
		cmd, action := v.form.update(msg)
		if action == "Save directions" {
			directions := v.form.values("Passed directions")
			v.mode = detailBrowse
			return v.run(a, "Update passed directions", func(ctx context.Context) error {
				return a.api.Users.UpdatePassedDirections(ctx, v.userID, directions)
			})
		}
		return cmd
	case detailConfirmPromote:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "y":
				v.mode = detailBrowse
				return v.run(a, "Promote", func(ctx context.Context) error {
					return a.api.Users.UpdateRole(ctx, v.userID, model.RoleInterviewer)
				})
			case "esc", "n":
				v.mode = detailBrowse
			}
		}
		return nil
	case detailConfirmDelete:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "y":
				v.mode = detailBrowse
				return v.run(a, "Delete account", func(ctx context.Context) error {
					return a.api.Users.Delete(ctx, v.userID)
				})
			case "esc", "n":
				v.mode = detailBrowse
			}
		}
		return nil
	}
	return nil
}

func (v *candidateDetailView) updateBrowse(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc":
		return a.navigate(routeCandidates)
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.comments)-1 {
			v.cursor++
		}
	case "c":
		v.editCommentID = ""
		v.form = newForm(
			areaField("Comment", "Interview notes"),
			buttonField("Save comment"),
		)
		v.mode = detailComment
		v.err = ""
	case "e":
		if comment, ok := v.selectedComment(); ok {
			if !v.ownComment(a, comment) {
				v.err = "Only the author can edit a comment."
				return nil
			}
			v.editCommentID = comment.ID
			v.form = newForm(
				areaField("Comment", ""),
				buttonField("Save comment"),
			)
			v.form.setValue("Comment", comment.Content)
			v.mode = detailComment
			v.err = ""
		}
	case "d":
		if comment, ok := v.selectedComment(); ok {
			if !v.ownComment(a, comment) {
				v.err = "Only the author can delete a comment."
				return nil
			}
			id := comment.ID
			return v.run(a, "Delete comment", func(ctx context.Context) error {
				return a.api.Comments.Delete(ctx, id)
			})
		}
	case "s":
		v.statusCursor = statusIndex(v.user.Status)
		v.mode = detailStatus
		v.err = ""
	case "p":
		v.form = newForm(
			multiField("Passed directions", model.Directions),
			buttonField("Save directions"),
		)
		v.form.setValues("Passed directions", v.user.PassedDirections)
		v.mode = detailDirections
		v.err = ""
	case "P":
		v.mode = detailConfirmPromote
	case "D":
		v.mode = detailConfirmDelete
	case "r":
		return v.enter(a)
	}
	return nil
}

func (v *candidateDetailView) updateStatusPick(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc":
		v.mode = detailBrowse
	case "up", "k":
		if v.statusCursor > 0 {
			v.statusCursor--
		}
	case "down", "j":
		if v.statusCursor < len(model.Statuses)-1 {
			v.statusCursor++
		}
	case "enter":
		status := model.Statuses[v.statusCursor]
		v.mode = detailBrowse
		return v.run(a, "Update status", func(ctx context.Context) error {
			return a.api.Applications.UpdateStatus(ctx, v.userID, status)
		})
	}
	return nil
}

func (v *candidateDetailView) saveComment(a *App) tea.Cmd {
	content := strings.TrimSpace(v.form.value("Comment"))
	if content == "" {
		v.err = "The comment is empty."
		return nil
	}
	commentID := v.editCommentID
	v.mode = detailBrowse
	if commentID != "" {
		return v.run(a, "Update comment", func(ctx context.Context) error {
			return a.api.Comments.Update(ctx, commentID, content)
		})
	}
	return v.run(a, "Add comment", func(ctx context.Context) error {
		return a.api.Comments.Create(ctx, v.userID, content)
	})
}

// run wraps one mutating call in the standard busy/seq dance.
func (v *candidateDetailView) run(a *App, action string, fn func(context.Context) error) tea.Cmd {
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return candidateActionMsg{seq: seq, action: action, err: fn(ctx)}
	}
}

func (v *candidateDetailView) selectedComment() (model.Comment, bool) {
	if v.cursor < len(v.comments) {
		return v.comments[v.cursor], true
	}
	return model.Comment{}, false
}

func (v *candidateDetailView) ownComment(a *App, comment model.Comment) bool {
	me := a.sess.User()
	return me != nil && comment.InterviewerID == me.ID
}

func (v *candidateDetailView) typing() bool {
	return (v.mode == detailComment || v.mode == detailDirections) && v.form.typing()
}

func (v *candidateDetailView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	name := v.user.Nickname
	if name == "" {
		name = v.user.Email
	}
	b.WriteString(st.title.Render("Candidate · "+name) + "\n")
	if v.loading {
		return b.String() + st.meta.Render("Loading...")
	}

	switch v.mode {
	case detailComment:
		b.WriteString("\n" + st.label.Render("Comment") + "\n" + v.form.view(st))
	case detailDirections:
		b.WriteString("\n" + v.form.view(st))
	case detailStatus:
		b.WriteString("\n" + st.label.Render("Move to status") + "\n")
		for i, status := range model.Statuses {
			line := model.StatusLabel(status)
			if i == v.statusCursor {
				line = st.selected.Render("› " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(st.hint.Render("enter apply · esc cancel"))
	case detailConfirmPromote:
		b.WriteString("\n" + st.errorText.Render("Promote to interviewer? y to confirm, esc to cancel."))
	case detailConfirmDelete:
		b.WriteString("\n" + st.errorText.Render("Permanently delete this account? y to confirm, esc to cancel."))
	default:
		b.WriteString(v.renderSummary(st))
		b.WriteString("\n" + st.hint.Render("c comment · e edit · d delete comment · s status · p passed · P promote · D delete · esc back"))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Working..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}

func (v *candidateDetailView) renderSummary(st styles) string {
	var cards []string

	rows := []string{
		fmt.Sprintf("%s %s · %s", st.label.Render("Email"), v.user.Email, model.StatusLabel(v.user.Status)),
	}
	if len(v.user.PassedDirections) > 0 {
		rows = append(rows, fmt.Sprintf("%s %s", st.label.Render("Passed"), strings.Join(v.user.PassedDirections, ", ")))
	}
	if v.user.Signature != "" {
		rows = append(rows, st.meta.Render("“"+v.user.Signature+"”"))
	}
	cards = append(cards, st.card.Render(strings.Join(rows, "\n")))

	if v.user.Application != nil {
		cards = append(cards, renderApplicationCard(st, *v.user.Application, nil))
	} else {
		cards = append(cards, st.card.Render(st.meta.Render("No application submitted.")))
	}

	if v.task != nil {
		body := st.label.Render("Task · "+v.task.Title) + "\n" + v.task.Description
		if v.task.Report != "" {
			body += "\n" + st.label.Render("Report") + "\n" + v.task.Report
		} else {
			body += "\n" + st.meta.Render("No report yet.")
		}
		cards = append(cards, st.card.Render(body))
	}

	if len(v.comments) == 0 {
		cards = append(cards, st.card.Render(st.meta.Render("No comments yet.")))
	} else {
		var lines []string
		for i, comment := range v.comments {
			line := fmt.Sprintf("%s %s\n%s",
				st.label.Render(comment.InterviewerName),
				st.meta.Render(comment.CreatedAt),
				comment.Content)
			if i == v.cursor {
				line = st.selected.Render("› ") + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
		cards = append(cards, st.card.Render(strings.Join(lines, "\n")))
	}
	return joinCards(cards...)
}

func statusIndex(status string) int {
	for i, s := range model.Statuses {
		if s == status {
			return i
		}
	}
	return 0
}
