package api

import "github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"

// Services bundles every resource wrapper over one shared client.
type Services struct {
	Client        *Client
	Auth          *Auth
	Users         *Users
	Announcements *Announcements
	Comments      *Comments
	Tasks         *Tasks
	Applications  *Applications
	Export        *Export
}

// NewServices wires the full API surface against one base URL and store.
func NewServices(baseURL string, st store.Store) *Services {
	c := NewClient(baseURL, st)
	return &Services{
		Client:        c,
		Auth:          NewAuth(c),
		Users:         NewUsers(c),
		Announcements: NewAnnouncements(c),
		Comments:      NewComments(c),
		Tasks:         NewTasks(c),
		Applications:  NewApplications(c),
		Export:        NewExport(c),
	}
}
