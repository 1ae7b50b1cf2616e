// internal/tui/view_profile.go
//
// Profile view: account details, self-service profile edit, password change,
// appearance preferences and account deletion.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Accent presets cycled by the appearance shortcut.
var accentPresets = []string{defaultAccent, "#E05B5B", "#4CAF7D", "#B267E6", "#F7B801"}

type profileMode int

const (
	profileBrowse profileMode = iota
	profileEdit
	profilePassword
	profileDelete
)

type profileSavedMsg struct {
	seq int
	err error
}

type passwordChangedMsg struct {
	seq int
	err error
}

type accountDeletedMsg struct {
	seq int
	err error
}

type profileView struct {
	seq  int
	mode profileMode
	form form
	err  string
	busy bool
}

func newProfileView() profileView {
	return profileView{}
}

func (v *profileView) enter(a *App) tea.Cmd {
	v.mode = profileBrowse
	v.err = ""
	v.busy = false
	return nil
}

func (v *profileView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profileSavedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Save failed", msg.err)
			return nil
		}
		v.mode = profileBrowse
		a.statusMsg = "Profile saved."
		return a.refreshSession()
	case passwordChangedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Password change failed", msg.err)
			return nil
		}
		v.mode = profileBrowse
		a.statusMsg = "Password changed."
		return nil
	case accountDeletedMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Deletion failed", msg.err)
			return nil
		}
		a.statusMsg = "Account deleted."
		a.logInfo("account deleted")
		return a.logout()
	}

	if v.mode == profileBrowse {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "e":
				return v.startEdit(a)
			case "p":
				v.startPassword()
			case "d":
				v.startDelete()
			case "t":
				a.setTheme(nextTheme(a.styles.theme))
				a.statusMsg = "Theme: " + a.styles.theme
			case "c":
				a.setAccent(nextAccent(a.styles.accent))
				a.statusMsg = "Accent: " + a.styles.accent
			}
		}
		return nil
	}

	if v.busy {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		v.mode = profileBrowse
		v.err = ""
		return nil
	}
	cmd, action := v.form.update(msg)
	switch action {
	case "Save profile":
		return v.submitEdit(a)
	case "Change password":
		return v.submitPassword(a)
	case "Delete my account":
		return v.submitDelete(a)
	case "Cancel":
		v.mode = profileBrowse
		v.err = ""
		return nil
	}
	return cmd
}

func (v *profileView) startEdit(a *App) tea.Cmd {
	user := a.sess.User()
	if user == nil {
		return nil
	}
	v.form = newForm(
		inputField("Email", ""),
		inputField("Nickname", ""),
		inputField("Signature", ""),
		buttonField("Save profile"),
		buttonField("Cancel"),
	)
	v.form.setValue("Email", user.Email)
	v.form.setValue("Nickname", user.Nickname)
	v.form.setValue("Signature", user.Signature)
	v.mode = profileEdit
	v.err = ""
	return nil
}

func (v *profileView) submitEdit(a *App) tea.Cmd {
	payload := api.ProfilePayload{
		Email:     v.form.value("Email"),
		Nickname:  v.form.value("Nickname"),
		Signature: v.form.value("Signature"),
	}
	if payload.Email == "" || payload.Nickname == "" {
		v.err = "Email and nickname are required."
		return nil
	}
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return profileSavedMsg{seq: seq, err: a.api.Users.UpdateProfile(ctx, payload)}
	}
}

func (v *profileView) startPassword() {
	v.form = newForm(
		passwordField("Current password"),
		passwordField("New password"),
		passwordField("Confirm new password"),
		buttonField("Change password"),
		buttonField("Cancel"),
	)
	v.mode = profilePassword
	v.err = ""
}

func (v *profileView) submitPassword(a *App) tea.Cmd {
	current := v.form.value("Current password")
	next := v.form.value("New password")
	if current == "" || next == "" {
		v.err = "Both passwords are required."
		return nil
	}
	if next != v.form.value("Confirm new password") {
		v.err = "New passwords do not match."
		return nil
	}
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return passwordChangedMsg{seq: seq, err: a.api.Auth.ChangePassword(ctx, current, next)}
	}
}

func (v *profileView) startDelete() {
	v.form = newForm(
		passwordField("Password"),
		buttonField("Delete my account"),
		buttonField("Cancel"),
	)
	v.mode = profileDelete
	v.err = ""
}

func (v *profileView) submitDelete(a *App) tea.Cmd {
	password := v.form.value("Password")
	v.busy = true
	v.err = ""
	v.seq++
	seq := v.seq
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return accountDeletedMsg{seq: seq, err: a.api.Users.DeleteMe(ctx, password)}
	}
}

func (v *profileView) typing() bool {
	return v.mode != profileBrowse && v.form.typing()
}

func (v *profileView) view(a *App) string {
	st := a.styles
	user := a.sess.User()
	if user == nil {
		return st.meta.Render("Not signed in.")
	}
	var b strings.Builder
	b.WriteString(st.title.Render("Profile") + "\n\n")

	switch v.mode {
	case profileEdit:
		b.WriteString(st.label.Render("Edit profile") + "\n" + v.form.view(st))
	case profilePassword:
		b.WriteString(st.label.Render("Change password") + "\n" + v.form.view(st))
	case profileDelete:
		b.WriteString(st.errorText.Render("This permanently removes your account.") + "\n" + v.form.view(st))
	default:
		rows := []string{
			fmt.Sprintf("%s  %s", st.label.Render("Nickname"), user.Nickname),
			fmt.Sprintf("%s     %s", st.label.Render("Email"), user.Email),
			fmt.Sprintf("%s      %s", st.label.Render("Role"), roleLabel(user.Role)),
		}
		if user.Signature != "" {
			rows = append(rows, fmt.Sprintf("%s %s", st.label.Render("Signature"), user.Signature))
		}
		if user.Role == model.RoleInterviewee {
			rows = append(rows, fmt.Sprintf("%s    %s", st.label.Render("Status"), model.StatusLabel(user.Status)))
			if len(user.PassedDirections) > 0 {
				rows = append(rows, fmt.Sprintf("%s    %s", st.label.Render("Passed"), strings.Join(user.PassedDirections, ", ")))
			}
		}
		rows = append(rows, "", st.meta.Render(fmt.Sprintf("theme %s · accent %s", a.styles.theme, a.styles.accent)))
		b.WriteString(st.card.Render(strings.Join(rows, "\n")))
		b.WriteString("\n" + st.hint.Render("e edit · p password · t theme · c accent · d delete account"))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Working..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}

func nextTheme(theme string) string {
	switch theme {
	case ThemeSystem:
		return ThemeLight
	case ThemeLight:
		return ThemeDark
	default:
		return ThemeSystem
	}
}

func nextAccent(accent string) string {
	for i, preset := range accentPresets {
		if preset == accent {
			return accentPresets[(i+1)%len(accentPresets)]
		}
	}
	return accentPresets[0]
}
