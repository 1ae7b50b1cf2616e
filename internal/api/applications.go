package api

import (
	"context"
	"net/url"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Applications wraps the /applications endpoints: candidates manage their
// own submission, interviewers move candidates through the pipeline.
type Applications struct {
	c *Client
}

// NewApplications builds the applications service.
func NewApplications(c *Client) *Applications {
	return &Applications{c: c}
}

// ApplicationPayload is the candidate submission form.
type ApplicationPayload struct {
	RealName   string   `json:"realName"`
	Phone      string   `json:"phone"`
	Gender     string   `json:"gender"`
	Department string   `json:"department"`
	Major      string   `json:"major"`
	StudentID  string   `json:"studentId"`
	Directions []string `json:"directions"`
	Resume     string   `json:"resume"`
}

// Submit creates or replaces the signed-in candidate's application.
func (a *Applications) Submit(ctx context.Context, payload ApplicationPayload) error {
	_, err := a.c.Post(ctx, "/applications", payload)
	return err
}

// Mine returns the signed-in candidate's application, or nil when none has
// been submitted.
func (a *Applications) Mine(ctx context.Context) (*model.Application, error) {
	raw, err := a.c.Get(ctx, "/applications/me")
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Status == 404 {
			return nil, nil
		}
		return nil, err
	}
	app := model.NormalizeApplication(record(raw, "application"))
	return &app, nil
}

// DeleteMine withdraws the signed-in candidate's application.
func (a *Applications) DeleteMine(ctx context.Context) error {
	_, err := a.c.Delete(ctx, "/applications/me", nil)
	return err
}

// UpdateStatus moves a candidate to a new interview status. There is no
// transition graph: any interviewer may set any of the six statuses.
func (a *Applications) UpdateStatus(ctx context.Context, userID, status string) error {
	_, err := a.c.Post(ctx, "/applications/"+url.PathEscape(userID)+"/status", map[string]string{"status": status})
	return err
}
