// internal/api/auth.go
//
// Auth endpoints. Passwords are SHA-256 hashed before they leave the client,
// matching the web front end; the backend only ever sees the hex digest.

package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/tidwall/gjson"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

// Email code purposes accepted by the backend.
const (
	CodePurposeRegister = "register"
	CodePurposeReset    = "reset"
)

// Auth wraps the /auth endpoints.
type Auth struct {
	c *Client
}

// NewAuth builds the auth service.
func NewAuth(c *Client) *Auth {
	return &Auth{c: c}
}

// RegisterPayload is the sign-up form.
type RegisterPayload struct {
	Email     string `json:"email"`
	EmailCode string `json:"emailCode"`
	Password  string `json:"password"`
	Nickname  string `json:"nickname"`
	Signature string `json:"signature"`
}

// Register creates an account and, when the backend returns a token,
// persists it so the new user is signed in immediately.
func (a *Auth) Register(ctx context.Context, payload RegisterPayload) (model.User, error) {
	payload.Password = hashPassword(payload.Password)
	raw, err := a.c.Post(ctx, "/auth/register", payload)
	if err != nil {
		return model.User{}, err
	}
	a.saveToken(raw)
	return model.NormalizeUser(record(raw, "userInfo", "user")), nil
}

// Login exchanges credentials for a token and the account record.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, error) {
	raw, err := a.c.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": hashPassword(password),
	})
	if err != nil {
		return model.User{}, err
	}
	a.saveToken(raw)
	return model.NormalizeUser(record(raw, "userInfo", "user")), nil
}

// Logout invalidates the server-held token reference. The caller clears
// local state regardless of the outcome.
func (a *Auth) Logout(ctx context.Context) error {
	_, err := a.c.Post(ctx, "/auth/logout", nil)
	return err
}

// Me returns the account behind the current token.
func (a *Auth) Me(ctx context.Context) (model.User, error) {
	raw, err := a.c.Get(ctx, "/auth/me")
	if err != nil {
		return model.User{}, err
	}
	return model.NormalizeUser(record(raw, "user")), nil
}

// ChangePassword rotates the password for the signed-in account.
func (a *Auth) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := a.c.Post(ctx, "/auth/change-password", map[string]string{
		"old_password": hashPassword(oldPassword),
		"new_password": hashPassword(newPassword),
	})
	return err
}

// RequestEmailCode asks the backend to mail a verification code.
func (a *Auth) RequestEmailCode(ctx context.Context, email, purpose string) error {
	_, err := a.c.Post(ctx, "/auth/email-code", map[string]string{
		"email":   email,
		"purpose": purpose,
	})
	return err
}

// ResetPassword redeems an emailed code for a fresh password.
func (a *Auth) ResetPassword(ctx context.Context, email, emailCode, newPassword string) error {
	_, err := a.c.Post(ctx, "/auth/reset-password", map[string]string{
		"email":       email,
		"emailCode":   emailCode,
		"newPassword": hashPassword(newPassword),
	})
	return err
}

func (a *Auth) saveToken(raw []byte) {
	for _, path := range []string{"data.token", "token"} {
		if token := gjson.GetBytes(raw, path); token.Exists() {
			a.c.SetToken(token.String())
			return
		}
	}
}

func hashPassword(plain string) string {
	digest := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(digest[:])
}
