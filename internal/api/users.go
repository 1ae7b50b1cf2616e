package api

import (
	"context"
	"net/url"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Users wraps the /users endpoints.
type Users struct {
	c *Client
}

// NewUsers builds the users service.
func NewUsers(c *Client) *Users {
	return &Users{c: c}
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Query string // matches email or nickname
	Role  string
}

// List returns normalized users matching the filter.
func (u *Users) List(ctx context.Context, filter ListFilter) ([]model.User, error) {
	params := url.Values{}
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}
	if filter.Role != "" {
		params.Set("role", filter.Role)
	}
	path := "/users/"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := u.c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	for _, rec := range items(raw) {
		users = append(users, model.NormalizeUser(rec))
	}
	return users, nil
}

// Get returns one user by id, with embedded application, comments and task
// when the backend includes them.
func (u *Users) Get(ctx context.Context, userID string) (model.User, error) {
	raw, err := u.c.Get(ctx, "/users/"+url.PathEscape(userID))
	if err != nil {
		return model.User{}, err
	}
	return model.NormalizeUser(record(raw, "user")), nil
}

// ProfilePayload is the self-service profile edit form.
type ProfilePayload struct {
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	Signature string `json:"signature"`
}

// UpdateProfile edits the signed-in account.
func (u *Users) UpdateProfile(ctx context.Context, payload ProfilePayload) error {
	_, err := u.c.Patch(ctx, "/users/me", payload)
	return err
}

// UpdateRole changes another user's role. Interviewer only.
func (u *Users) UpdateRole(ctx context.Context, userID, role string) error {
	_, err := u.c.Post(ctx, "/users/"+url.PathEscape(userID)+"/role", map[string]string{"role": role})
	return err
}

// UpdatePassedDirections replaces the set of directions a candidate has
// cleared. Interviewer only.
func (u *Users) UpdatePassedDirections(ctx context.Context, userID string, directions []string) error {
	_, err := u.c.Post(ctx, "/users/"+url.PathEscape(userID)+"/passed-directions",
		map[string][]string{"directions": directions})
	return err
}

// Delete removes a user. Interviewer only.
func (u *Users) Delete(ctx context.Context, userID string) error {
	_, err := u.c.Delete(ctx, "/users/"+url.PathEscape(userID), nil)
	return err
}

// DeleteMe removes the signed-in account. password confirms the action and
// may be empty when the backend does not require it.
func (u *Users) DeleteMe(ctx context.Context, password string) error {
	var body any
	if password != "" {
		body = map[string]string{"password": hashPassword(password)}
	}
	_, err := u.c.Delete(ctx, "/users/me", body)
	return err
}
