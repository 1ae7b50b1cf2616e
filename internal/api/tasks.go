package api

import (
	"context"
	"net/url"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Task list scopes.
const (
	ScopeMine = "mine"
	ScopeAll  = "all"
)

// Tasks wraps the /tasks endpoints.
type Tasks struct {
	c *Client
}

// NewTasks builds the tasks service.
func NewTasks(c *Client) *Tasks {
	return &Tasks{c: c}
}

// List returns tasks for the given scope: ScopeMine for the signed-in
// candidate's own tasks, ScopeAll for the interviewer overview.
func (t *Tasks) List(ctx context.Context, scope string) ([]model.Task, error) {
	path := "/tasks"
	if scope != "" {
		path += "?scope=" + url.QueryEscape(scope)
	}
	raw, err := t.c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	tasks := []model.Task{}
	for _, rec := range items(raw) {
		tasks = append(tasks, model.NormalizeTask(rec))
	}
	return tasks, nil
}

// TaskPayload is the create/update form.
type TaskPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetUserID string `json:"targetUserId"`
}

// Create assigns a new task to a candidate. Interviewer only.
func (t *Tasks) Create(ctx context.Context, payload TaskPayload) error {
	_, err := t.c.Post(ctx, "/tasks", payload)
	return err
}

// Update edits a task. Interviewer only.
func (t *Tasks) Update(ctx context.Context, taskID string, payload TaskPayload) error {
	_, err := t.c.Patch(ctx, "/tasks/"+url.PathEscape(taskID), payload)
	return err
}

// SubmitReport stores the candidate's report for a task, replacing any
// previous submission.
func (t *Tasks) SubmitReport(ctx context.Context, taskID, report string) error {
	_, err := t.c.Post(ctx, "/tasks/"+url.PathEscape(taskID)+"/report", map[string]string{"report": report})
	return err
}

// Delete removes a task. Interviewer only.
func (t *Tasks) Delete(ctx context.Context, taskID string) error {
	_, err := t.c.Delete(ctx, "/tasks/"+url.PathEscape(taskID), nil)
	return err
}
