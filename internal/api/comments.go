package api

import (
	"context"
	"net/url"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Comments wraps the /comments endpoints. All of them are interviewer only.
type Comments struct {
	c *Client
}

// NewComments builds the comments service.
func NewComments(c *Client) *Comments {
	return &Comments{c: c}
}

// ListByCandidate returns the comments recorded for one interviewee.
func (cm *Comments) ListByCandidate(ctx context.Context, intervieweeID string) ([]model.Comment, error) {
	raw, err := cm.c.Get(ctx, "/comments/"+url.PathEscape(intervieweeID))
	if err != nil {
		return nil, err
	}
	comments := []model.Comment{}
	for _, rec := range items(raw) {
		comments = append(comments, model.NormalizeComment(rec))
	}
	return comments, nil
}

// Create records a new comment on a candidate.
func (cm *Comments) Create(ctx context.Context, intervieweeID, content string) error {
	_, err := cm.c.Post(ctx, "/comments", map[string]string{
		"intervieweeId": intervieweeID,
		"content":       content,
	})
	return err
}

// Update rewrites a comment. The backend rejects edits by anyone but the
// authoring interviewer.
func (cm *Comments) Update(ctx context.Context, commentID, content string) error {
	_, err := cm.c.Patch(ctx, "/comments/"+url.PathEscape(commentID), map[string]string{"content": content})
	return err
}

// Delete removes a comment.
func (cm *Comments) Delete(ctx context.Context, commentID string) error {
	_, err := cm.c.Delete(ctx, "/comments/"+url.PathEscape(commentID), nil)
	return err
}
