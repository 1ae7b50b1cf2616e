// internal/tui/app.go
//
// Main TUI for the recruitment client, following The Elm Architecture:
// Model (App) -> Update (messages from key presses and finished requests)
// -> View. Each "page" of the old web client is a routed view; the route
// guard decides which views the current session may activate.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/config"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/guard"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/logbook"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/session"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

const (
	requestTimeout = 15 * time.Second
	searchDebounce = 300 * time.Millisecond
)

// route identifies one view.
type route int

const (
	routeAnnouncements route = iota
	routeLogin
	routeRegister
	routeForgot
	routeProfile
	routeDirectory
	routeApplication
	routeMyTasks
	routeCandidates
	routeCandidateDetail
	routeManageAnnouncements
	routeManageTasks
)

// routeSpec mirrors the old ProtectedRoute props: whether authentication is
// required and which roles may enter.
type routeSpec struct {
	title      string
	protected  bool
	allowRoles []string
}

var routeSpecs = map[route]routeSpec{
	routeAnnouncements:       {title: "Announcements"},
	routeLogin:               {title: "Sign in"},
	routeRegister:            {title: "Register"},
	routeForgot:              {title: "Reset password"},
	routeProfile:             {title: "Profile", protected: true},
	routeDirectory:           {title: "Directory", protected: true},
	routeApplication:         {title: "Application", protected: true, allowRoles: []string{model.RoleInterviewee}},
	routeMyTasks:             {title: "My tasks", protected: true, allowRoles: []string{model.RoleInterviewee}},
	routeCandidates:          {title: "Candidates", protected: true, allowRoles: []string{model.RoleInterviewer}},
	routeCandidateDetail:     {title: "Candidate detail", protected: true, allowRoles: []string{model.RoleInterviewer}},
	routeManageAnnouncements: {title: "Post board", protected: true, allowRoles: []string{model.RoleInterviewer}},
	routeManageTasks:         {title: "Task board", protected: true, allowRoles: []string{model.RoleInterviewer}},
}

// App is the main application model. It holds the session, the API surface
// and every view's state.
type App struct {
	cfg    *config.Config
	api    *api.Services
	sess   *session.Session
	st     store.Store
	lb     *logbook.Logbook
	styles styles
	spin   spinner.Model

	route     route
	width     int
	height    int
	statusMsg string

	login       loginView
	register    registerView
	forgot      forgotView
	anns        announcementsView
	profile     profileView
	directory   directoryView
	application applicationView
	myTasks     myTasksView
	candidates  candidatesView
	detail      candidateDetailView
	manageAnns  manageAnnouncementsView
	manageTasks manageTasksView
}

// NewApp wires the application model.
func NewApp(cfg *config.Config, services *api.Services, sess *session.Session, st store.Store, lb *logbook.Logbook) *App {
	a := &App{
		cfg:    cfg,
		api:    services,
		sess:   sess,
		st:     st,
		lb:     lb,
		styles: loadStyles(st),
		route:  routeAnnouncements,
	}
	a.spin = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(a.styles.label))
	a.login = newLoginView()
	a.register = newRegisterView()
	a.forgot = newForgotView()
	a.anns = newAnnouncementsView()
	a.profile = newProfileView()
	a.directory = newDirectoryView()
	a.application = newApplicationView()
	a.myTasks = newMyTasksView()
	a.candidates = newCandidatesView()
	a.detail = newCandidateDetailView()
	a.manageAnns = newManageAnnouncementsView()
	a.manageTasks = newManageTasksView()
	return a
}

type sessionRestoredMsg struct{ err error }

type sessionRefreshedMsg struct{ err error }

type logoutDoneMsg struct{ err error }

// Init starts the session restore and loads the public landing view.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.restoreSession(), a.anns.enter(a), a.spin.Tick)
}

// restoreSession runs the who-am-I reconciliation once at startup.
func (a *App) restoreSession() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sessionRestoredMsg{err: a.sess.Refresh(ctx)}
	}
}

// refreshSession re-runs the reconciliation on demand, e.g. after a profile
// edit.
func (a *App) refreshSession() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sessionRefreshedMsg{err: a.sess.Refresh(ctx)}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return logoutDoneMsg{err: a.sess.Logout(ctx)}
	}
}

// Update is called for every message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.updateRoute(msg)

	case spinner.TickMsg:
		// The spinner only runs while the session restore is in flight.
		if !a.sess.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case sessionRestoredMsg:
		if msg.err != nil {
			a.logInfo("session restore: signed out (%v)", msg.err)
		} else if user := a.sess.User(); user != nil {
			a.logInfo("session restored for %s (%s)", user.Email, user.Role)
		}
		// The guard may have parked the user on a protected route while
		// loading; re-check it now that the state is final.
		return a, a.navigate(a.route)

	case sessionRefreshedMsg:
		if msg.err != nil {
			a.statusMsg = "Session refresh failed: " + msg.err.Error()
		}
		return a, nil

	case logoutDoneMsg:
		if msg.err != nil {
			a.logWarn("logout request failed: %v", msg.err)
		}
		a.statusMsg = "Signed out."
		return a, a.navigate(routeAnnouncements)

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}
	}

	return a, a.updateRoute(msg)
}

// handleGlobalKey processes navigation hotkeys. Keys are forwarded to the
// active view instead whenever a text field is focused, and esc always
// belongs to the view so forms can cancel their edit modes.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}
	if a.typing() || key == "esc" {
		return nil, false
	}
	switch key {
	case "q":
		if a.route == routeAnnouncements {
			return tea.Quit, true
		}
		return a.navigate(routeAnnouncements), true
	case "1":
		return a.navigate(routeAnnouncements), true
	case "2":
		return a.navigate(routeProfile), true
	case "3":
		return a.navigate(routeDirectory), true
	case "4":
		return a.navigate(routeApplication), true
	case "5":
		return a.navigate(routeMyTasks), true
	case "6":
		return a.navigate(routeCandidates), true
	case "7":
		return a.navigate(routeManageAnnouncements), true
	case "8":
		return a.navigate(routeManageTasks), true
	case "l":
		if a.sess.User() == nil {
			return a.navigate(routeLogin), true
		}
	case "n":
		if a.sess.User() == nil {
			return a.navigate(routeRegister), true
		}
	case "f":
		if a.sess.User() == nil {
			return a.navigate(routeForgot), true
		}
	case "x":
		if a.sess.User() != nil {
			return a.logout(), true
		}
	}
	return nil, false
}

// navigate runs the route guard and activates the target view, or the view
// the guard redirects to.
func (a *App) navigate(target route) tea.Cmd {
	spec := routeSpecs[target]
	if spec.protected {
		switch guard.Check(a.sess.User(), a.sess.Loading(), spec.allowRoles) {
		case guard.ShowLoading:
			// Keep the target; sessionRestoredMsg re-navigates when the
			// restore settles.
			a.route = target
			return nil
		case guard.RedirectLogin:
			a.statusMsg = "Sign in to continue."
			target = routeLogin
		case guard.RedirectHome:
			a.statusMsg = "That area needs a different role."
			target = routeAnnouncements
		}
	}
	a.route = target
	return a.enterRoute(target)
}

func (a *App) enterRoute(r route) tea.Cmd {
	switch r {
	case routeAnnouncements:
		return a.anns.enter(a)
	case routeLogin:
		return a.login.enter(a)
	case routeRegister:
		return a.register.enter(a)
	case routeForgot:
		return a.forgot.enter(a)
	case routeProfile:
		return a.profile.enter(a)
	case routeDirectory:
		return a.directory.enter(a)
	case routeApplication:
		return a.application.enter(a)
	case routeMyTasks:
		return a.myTasks.enter(a)
	case routeCandidates:
		return a.candidates.enter(a)
	case routeCandidateDetail:
		return a.detail.enter(a)
	case routeManageAnnouncements:
		return a.manageAnns.enter(a)
	case routeManageTasks:
		return a.manageTasks.enter(a)
	}
	return nil
}

func (a *App) updateRoute(msg tea.Msg) tea.Cmd {
	switch a.route {
	case routeAnnouncements:
		return a.anns.update(a, msg)
	case routeLogin:
		return a.login.update(a, msg)
	case routeRegister:
		return a.register.update(a, msg)
	case routeForgot:
		return a.forgot.update(a, msg)
	case routeProfile:
		return a.profile.update(a, msg)
	case routeDirectory:
		return a.directory.update(a, msg)
	case routeApplication:
		return a.application.update(a, msg)
	case routeMyTasks:
		return a.myTasks.update(a, msg)
	case routeCandidates:
		return a.candidates.update(a, msg)
	case routeCandidateDetail:
		return a.detail.update(a, msg)
	case routeManageAnnouncements:
		return a.manageAnns.update(a, msg)
	case routeManageTasks:
		return a.manageTasks.update(a, msg)
	}
	return nil
}

// typing reports whether the active view has a focused text field, in which
// case ordinary characters must reach it instead of the hotkey handler.
func (a *App) typing() bool {
	switch a.route {
	case routeLogin:
		return a.login.typing()
	case routeRegister:
		return a.register.typing()
	case routeForgot:
		return a.forgot.typing()
	case routeProfile:
		return a.profile.typing()
	case routeApplication:
		return a.application.typing()
	case routeMyTasks:
		return a.myTasks.typing()
	case routeCandidates:
		return a.candidates.typing()
	case routeCandidateDetail:
		return a.detail.typing()
	case routeManageAnnouncements:
		return a.manageAnns.typing()
	case routeManageTasks:
		return a.manageTasks.typing()
	case routeDirectory:
		return a.directory.typing()
	}
	return false
}

// View renders the header, nav, active view, status line and log panel.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := a.styles.header.Render("⬢ XDSEC RECRUIT")
	nav := a.renderNav()
	content := a.renderRoute(width)
	sections := []string{header, nav, "", content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if a.statusMsg != "" {
		sections = append(sections, a.styles.hint.Render(a.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderRoute(width int) string {
	spec := routeSpecs[a.route]
	if spec.protected {
		switch guard.Check(a.sess.User(), a.sess.Loading(), spec.allowRoles) {
		case guard.ShowLoading:
			return a.spin.View() + a.styles.meta.Render(" Restoring session...")
		case guard.RedirectLogin:
			return a.login.view(a)
		case guard.RedirectHome:
			return a.anns.view(a)
		}
	}
	switch a.route {
	case routeAnnouncements:
		return a.anns.view(a)
	case routeLogin:
		return a.login.view(a)
	case routeRegister:
		return a.register.view(a)
	case routeForgot:
		return a.forgot.view(a)
	case routeProfile:
		return a.profile.view(a)
	case routeDirectory:
		return a.directory.view(a)
	case routeApplication:
		return a.application.view(a)
	case routeMyTasks:
		return a.myTasks.view(a)
	case routeCandidates:
		return a.candidates.view(a)
	case routeCandidateDetail:
		return a.detail.view(a)
	case routeManageAnnouncements:
		return a.manageAnns.view(a)
	case routeManageTasks:
		return a.manageTasks.view(a)
	}
	return ""
}

// renderNav mirrors the old layout header: entries depend on who is signed
// in.
func (a *App) renderNav() string {
	type navItem struct {
		key   string
		title string
		r     route
	}
	items := []navItem{{"1", "Announcements", routeAnnouncements}}
	user := a.sess.User()
	if user != nil {
		items = append(items,
			navItem{"2", "Profile", routeProfile},
			navItem{"3", "Directory", routeDirectory},
		)
		if user.Role == model.RoleInterviewee {
			items = append(items,
				navItem{"4", "Application", routeApplication},
				navItem{"5", "My tasks", routeMyTasks},
			)
		}
		if user.Role == model.RoleInterviewer {
			items = append(items,
				navItem{"6", "Candidates", routeCandidates},
				navItem{"7", "Posts", routeManageAnnouncements},
				navItem{"8", "Tasks", routeManageTasks},
			)
		}
	}
	var cells []string
	for _, item := range items {
		cell := fmt.Sprintf("[%s] %s", item.key, item.title)
		if a.route == item.r || (item.r == routeCandidates && a.route == routeCandidateDetail) {
			cells = append(cells, a.styles.navActive.Render(cell))
		} else {
			cells = append(cells, a.styles.nav.Render(cell))
		}
	}
	if user == nil {
		if a.sess.Loading() {
			cells = append(cells, a.spin.View()+a.styles.meta.Render(" restoring session"))
		} else {
			cells = append(cells, a.styles.nav.Render("[l] sign in"), a.styles.nav.Render("[n] register"))
		}
	} else {
		who := user.Nickname
		if who == "" {
			who = user.Email
		}
		cells = append(cells, a.styles.meta.Render(fmt.Sprintf("%s · %s · [x] sign out", who, roleLabel(user.Role))))
	}
	return strings.Join(cells, "  ")
}

func (a *App) renderLogPanel() string {
	lines := a.lb.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	head := a.styles.label.Render("LOG")
	body := a.styles.meta.Render(strings.Join(lines, "\n"))
	return a.styles.card.Render(head + "\n" + body)
}

func roleLabel(role string) string {
	if role == model.RoleInterviewer {
		return "interviewer"
	}
	return "candidate"
}

func (a *App) logInfo(format string, args ...any) {
	a.lb.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	a.lb.Warn(format, args...)
}

// setTheme persists a theme preference and rebuilds the styles.
func (a *App) setTheme(theme string) {
	_ = a.st.Save(store.SlotTheme, theme)
	a.styles = newStyles(theme, a.styles.accent)
}

// setAccent persists an accent preference and rebuilds the styles.
func (a *App) setAccent(accent string) {
	_ = a.st.Save(store.SlotAccent, accent)
	a.styles = newStyles(a.styles.theme, accent)
}

// apiCtx is the context every view command uses for its round-trip.
func apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// errText formats request failures for the inline status line.
func errText(prefix string, err error) string {
	return prefix + ": " + err.Error()
}

// joinCards stacks rendered cards vertically.
func joinCards(cards ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
