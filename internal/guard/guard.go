// internal/guard/guard.go
//
// Route guard for the TUI: decides whether a view may render for the current
// session state, and where to send the user otherwise.

package guard

import "github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"

// Outcome is the guard's verdict for one view activation.
type Outcome int

const (
	// ShowLoading renders a placeholder while the session restore runs.
	ShowLoading Outcome = iota
	// RedirectLogin sends an anonymous user to the login view.
	RedirectLogin
	// RedirectHome sends an authenticated user without the required role to
	// the default view.
	RedirectHome
	// Render lets the protected view through.
	Render
)

func (o Outcome) String() string {
	switch o {
	case ShowLoading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Render:
		return "render"
	}
	return "unknown"
}

// Check gates a view. A nil or empty allowRoles means any authenticated role
// may enter. While loading, the verdict is always ShowLoading, whatever the
// rest of the state looks like.
func Check(user *model.User, loading bool, allowRoles []string) Outcome {
	if loading {
		return ShowLoading
	}
	if user == nil {
		return RedirectLogin
	}
	if len(allowRoles) == 0 {
		return Render
	}
	for _, role := range allowRoles {
		if user.Role == role {
			return Render
		}
	}
	return RedirectHome
}
