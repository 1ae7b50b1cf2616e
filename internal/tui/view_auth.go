// internal/tui/view_auth.go
//
// Sign-in, registration and password-reset views. Registration and reset
// share the email-code flow: the request button goes into a 60 second
// cooldown after a successful send.

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

const codeCooldown = 60 * time.Second

type loginDoneMsg struct {
	seq int
	err error
}

type registerDoneMsg struct {
	seq  int
	user model.User
	err  error
}

type resetDoneMsg struct {
	seq int
	err error
}

type codeSentMsg struct {
	view route
	err  error
}

type cooldownTickMsg struct {
	view route
}

// loginView is the credentials form.
type loginView struct {
	seq  int
	form form
	err  string
	busy bool
}

func newLoginView() loginView {
	return loginView{}
}

func (v *loginView) enter(a *App) tea.Cmd {
	v.form = newForm(
		inputField("Email", "you@example.com"),
		passwordField("Password"),
		buttonField("Sign in"),
	)
	v.err = ""
	v.busy = false
	return nil
}

func (v *loginView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Sign in failed", msg.err)
			return nil
		}
		if user := a.sess.User(); user != nil {
			a.statusMsg = "Signed in as " + user.Email
			a.logInfo("signed in as %s", user.Email)
		}
		return a.navigate(routeAnnouncements)
	}
	if v.busy {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return a.navigate(routeAnnouncements)
	}
	cmd, action := v.form.update(msg)
	if action == "Sign in" {
		email := v.form.value("Email")
		password := v.form.value("Password")
		if email == "" || password == "" {
			v.err = "Email and password are required."
			return nil
		}
		v.busy = true
		v.err = ""
		v.seq++
		seq := v.seq
		return func() tea.Msg {
			ctx, cancel := apiCtx()
			defer cancel()
			return loginDoneMsg{seq: seq, err: a.sess.Login(ctx, email, password)}
		}
	}
	return cmd
}

func (v *loginView) typing() bool { return v.form.typing() }

func (v *loginView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Sign in") + "\n\n")
	b.WriteString(v.form.view(st))
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Signing in..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	b.WriteString("\n" + st.hint.Render("esc back · no account? register from the home view with n"))
	return b.String()
}

// registerView is the sign-up form with the email verification code flow.
type registerView struct {
	seq      int
	form     form
	err      string
	busy     bool
	cooldown int // seconds until the code button re-arms
}

func newRegisterView() registerView {
	return registerView{}
}

func (v *registerView) enter(a *App) tea.Cmd {
	v.form = newForm(
		inputField("Email", "you@example.com"),
		buttonField("Send code"),
		inputField("Email code", "6-digit code"),
		passwordField("Password"),
		passwordField("Confirm password"),
		inputField("Nickname", ""),
		inputField("Signature", "optional"),
		buttonField("Register"),
	)
	v.err = ""
	v.busy = false
	v.cooldown = 0
	return nil
}

func (v *registerView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case codeSentMsg:
		if msg.view != routeRegister {
			return nil
		}
		if msg.err != nil {
			v.err = errText("Could not send code", msg.err)
			v.cooldown = 0
			return nil
		}
		a.statusMsg = "Verification code sent."
		return nil
	case cooldownTickMsg:
		if msg.view != routeRegister || v.cooldown == 0 {
			return nil
		}
		v.cooldown--
		if v.cooldown > 0 {
			return tickCooldown(routeRegister)
		}
		return nil
	case registerDoneMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Registration failed", msg.err)
			return nil
		}
		a.sess.Adopt(msg.user)
		a.statusMsg = "Welcome, " + msg.user.Nickname + "!"
		a.logInfo("registered %s", msg.user.Email)
		return a.navigate(routeAnnouncements)
	}
	if v.busy {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return a.navigate(routeAnnouncements)
	}
	cmd, action := v.form.update(msg)
	switch action {
	case "Send code":
		if v.cooldown > 0 {
			return nil
		}
		email := v.form.value("Email")
		if email == "" {
			v.err = "Enter your email first."
			return nil
		}
		v.err = ""
		v.cooldown = int(codeCooldown / time.Second)
		return tea.Batch(
			func() tea.Msg {
				ctx, cancel := apiCtx()
				defer cancel()
				return codeSentMsg{view: routeRegister, err: a.api.Auth.RequestEmailCode(ctx, email, api.CodePurposeRegister)}
			},
			tickCooldown(routeRegister),
		)
	case "Register":
		payload := api.RegisterPayload{
			Email:     v.form.value("Email"),
			EmailCode: v.form.value("Email code"),
			Password:  v.form.value("Password"),
			Nickname:  v.form.value("Nickname"),
			Signature: v.form.value("Signature"),
		}
		if payload.Email == "" || payload.EmailCode == "" || payload.Password == "" || payload.Nickname == "" {
			v.err = "Email, code, password and nickname are required."
			return nil
		}
		if payload.Password != v.form.value("Confirm password") {
			v.err = "Passwords do not match."
			return nil
		}
		v.busy = true
		v.err = ""
		v.seq++
		seq := v.seq
		return func() tea.Msg {
			ctx, cancel := apiCtx()
			defer cancel()
			user, err := a.api.Auth.Register(ctx, payload)
			return registerDoneMsg{seq: seq, user: user, err: err}
		}
	}
	return cmd
}

func (v *registerView) typing() bool { return v.form.typing() }

func (v *registerView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Register") + "\n\n")
	b.WriteString(v.form.view(st))
	if v.cooldown > 0 {
		b.WriteString("\n" + st.meta.Render(cooldownText(v.cooldown)))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Registering..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}

// forgotView redeems an emailed code for a fresh password.
type forgotView struct {
	seq      int
	form     form
	err      string
	busy     bool
	cooldown int
}

func newForgotView() forgotView {
	return forgotView{}
}

func (v *forgotView) enter(a *App) tea.Cmd {
	v.form = newForm(
		inputField("Email", "you@example.com"),
		buttonField("Send code"),
		inputField("Email code", "6-digit code"),
		passwordField("New password"),
		passwordField("Confirm password"),
		buttonField("Reset password"),
	)
	v.err = ""
	v.busy = false
	v.cooldown = 0
	return nil
}

func (v *forgotView) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case codeSentMsg:
		if msg.view != routeForgot {
			return nil
		}
		if msg.err != nil {
			v.err = errText("Could not send code", msg.err)
			v.cooldown = 0
			return nil
		}
		a.statusMsg = "Verification code sent."
		return nil
	case cooldownTickMsg:
		if msg.view != routeForgot || v.cooldown == 0 {
			return nil
		}
		v.cooldown--
		if v.cooldown > 0 {
			return tickCooldown(routeForgot)
		}
		return nil
	case resetDoneMsg:
		if msg.seq != v.seq {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.err = errText("Reset failed", msg.err)
			return nil
		}
		a.statusMsg = "Password reset. Sign in with the new password."
		return a.navigate(routeLogin)
	}
	if v.busy {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return a.navigate(routeAnnouncements)
	}
	cmd, action := v.form.update(msg)
	switch action {
	case "Send code":
		if v.cooldown > 0 {
			return nil
		}
		email := v.form.value("Email")
		if email == "" {
			v.err = "Enter your email first."
			return nil
		}
		v.err = ""
		v.cooldown = int(codeCooldown / time.Second)
		return tea.Batch(
			func() tea.Msg {
				ctx, cancel := apiCtx()
				defer cancel()
				return codeSentMsg{view: routeForgot, err: a.api.Auth.RequestEmailCode(ctx, email, api.CodePurposeReset)}
			},
			tickCooldown(routeForgot),
		)
	case "Reset password":
		email := v.form.value("Email")
		code := v.form.value("Email code")
		password := v.form.value("New password")
		if email == "" || code == "" || password == "" {
			v.err = "Email, code and new password are required."
			return nil
		}
		if password != v.form.value("Confirm password") {
			v.err = "Passwords do not match."
			return nil
		}
		v.busy = true
		v.err = ""
		v.seq++
		seq := v.seq
		return func() tea.Msg {
			ctx, cancel := apiCtx()
			defer cancel()
			return resetDoneMsg{seq: seq, err: a.api.Auth.ResetPassword(ctx, email, code, password)}
		}
	}
	return cmd
}

func (v *forgotView) typing() bool { return v.form.typing() }

func (v *forgotView) view(a *App) string {
	st := a.styles
	var b strings.Builder
	b.WriteString(st.title.Render("Reset password") + "\n\n")
	b.WriteString(v.form.view(st))
	if v.cooldown > 0 {
		b.WriteString("\n" + st.meta.Render(cooldownText(v.cooldown)))
	}
	if v.busy {
		b.WriteString("\n" + st.meta.Render("Resetting..."))
	}
	if v.err != "" {
		b.WriteString("\n" + st.errorText.Render(v.err))
	}
	return b.String()
}

func tickCooldown(view route) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return cooldownTickMsg{view: view}
	})
}

func cooldownText(seconds int) string {
	return fmt.Sprintf("Resend available in %ds", seconds)
}
