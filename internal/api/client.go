// internal/api/client.go
//
// Thin wrapper around the recruitment backend. All network traffic goes
// through Client.Request: it reads the bearer token from the local store on
// every call (the token is never cached in memory), tags requests with an
// X-Request-ID, and turns non-2xx responses into *APIError values carrying
// the status code and the parsed error payload.

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

// APIError is returned for any response outside the 2xx range.
type APIError struct {
	Status  int
	Message string
	Payload []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

// Client issues requests against the configured base URL.
type Client struct {
	http  *resty.Client
	store store.Store
}

// NewClient builds a client over the given base URL and local store.
func NewClient(baseURL string, st store.Store) *Client {
	c := &Client{store: st}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := c.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	return c
}

// Token reads the bearer token slot. Empty when logged out.
func (c *Client) Token() string {
	token, _ := c.store.Load(store.SlotToken)
	return token
}

// SetToken persists a new bearer token. Empty tokens are ignored, matching
// the web client: a missing token in a login response must not wipe the
// current one.
func (c *Client) SetToken(token string) {
	if token == "" {
		return
	}
	_ = c.store.Save(store.SlotToken, token)
}

// ClearToken drops the persisted token.
func (c *Client) ClearToken() {
	_ = c.store.Clear(store.SlotToken)
}

// Request performs one HTTP round-trip and returns the raw response body.
// JSON responses are left for the caller's normalizer; non-JSON responses
// come back as plain text bytes. body may be nil.
func (c *Client) Request(ctx context.Context, method, path string, body any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	raw := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode(),
			Message: errorMessage(raw, resp.Header().Get("Content-Type")),
			Payload: raw,
		}
	}
	return raw, nil
}

// Get is Request with the method filled in.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

// Post is Request with the method filled in.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Request(ctx, http.MethodPost, path, body)
}

// Patch is Request with the method filled in.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Request(ctx, http.MethodPatch, path, body)
}

// Delete is Request with the method filled in.
func (c *Client) Delete(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Request(ctx, http.MethodDelete, path, body)
}

// errorMessage extracts a human-readable message from an error response.
// JSON bodies carry it under "message"; anything else is used verbatim.
func errorMessage(raw []byte, contentType string) string {
	if strings.Contains(contentType, "application/json") {
		if msg := gjson.GetBytes(raw, "message"); msg.Exists() {
			return msg.String()
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// items unwraps the list envelope the backend uses. Some endpoints nest
// items under data, older ones do not.
func items(raw []byte) []gjson.Result {
	for _, path := range []string{"data.items", "items"} {
		if value := gjson.GetBytes(raw, path); value.IsArray() {
			return value.Array()
		}
	}
	return nil
}

// record unwraps a single-record envelope, falling back to the whole
// document for legacy responses.
func record(raw []byte, names ...string) gjson.Result {
	for _, name := range names {
		for _, path := range []string{"data." + name, name} {
			if value := gjson.GetBytes(raw, path); value.IsObject() {
				return value
			}
		}
	}
	return gjson.ParseBytes(raw)
}
