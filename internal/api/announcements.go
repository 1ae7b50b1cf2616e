package api

import (
	"context"
	"net/url"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Announcements wraps the /announcements endpoints.
type Announcements struct {
	c *Client
}

// NewAnnouncements builds the announcements service.
func NewAnnouncements(c *Client) *Announcements {
	return &Announcements{c: c}
}

// List returns all announcements the current user may see, normalized.
func (a *Announcements) List(ctx context.Context) ([]model.Announcement, error) {
	raw, err := a.c.Get(ctx, "/announcements")
	if err != nil {
		return nil, err
	}
	anns := []model.Announcement{}
	for _, rec := range items(raw) {
		anns = append(anns, model.NormalizeAnnouncement(rec))
	}
	return anns, nil
}

// AnnouncementPayload is the create/update form.
type AnnouncementPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Visibility      string   `json:"visibility"`
	AllowedStatuses []string `json:"allowedStatuses"`
}

// Create posts a new announcement. Interviewer only.
func (a *Announcements) Create(ctx context.Context, payload AnnouncementPayload) error {
	_, err := a.c.Post(ctx, "/announcements", payload)
	return err
}

// Update edits an existing announcement. Interviewer only.
func (a *Announcements) Update(ctx context.Context, id string, payload AnnouncementPayload) error {
	_, err := a.c.Patch(ctx, "/announcements/"+url.PathEscape(id), payload)
	return err
}

// Pin sets or clears the pinned flag. Interviewer only.
func (a *Announcements) Pin(ctx context.Context, id string, pinned bool) error {
	_, err := a.c.Post(ctx, "/announcements/"+url.PathEscape(id)+"/pin", map[string]bool{"pinned": pinned})
	return err
}

// Delete removes an announcement. Interviewer only.
func (a *Announcements) Delete(ctx context.Context, id string) error {
	_, err := a.c.Delete(ctx, "/announcements/"+url.PathEscape(id), nil)
	return err
}
