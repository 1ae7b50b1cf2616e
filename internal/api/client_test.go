package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

func TestRequestAttachesBearerOnlyWhenTokenPresent(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("request id header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	st := store.NewMemory()
	c := NewClient(server.URL, st)

	if _, err := c.Get(context.Background(), "/ping"); err != nil {
		t.Fatalf("anonymous request: %v", err)
	}
	c.SetToken("tok-1")
	if _, err := c.Get(context.Background(), "/ping"); err != nil {
		t.Fatalf("authenticated request: %v", err)
	}

	if gotAuth[0] != "" {
		t.Fatalf("no token stored, but Authorization was %q", gotAuth[0])
	}
	if gotAuth[1] != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth[1])
	}
}

func TestRequestReadsTokenFromStoreEveryCall(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	st := store.NewMemory()
	c := NewClient(server.URL, st)
	c.SetToken("first")
	if _, err := c.Get(context.Background(), "/x"); err != nil {
		t.Fatal(err)
	}
	// Mutate the slot behind the client's back; the next request must pick
	// up the new value.
	if err := st.Save(store.SlotToken, "second"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background(), "/x"); err != nil {
		t.Fatal(err)
	}
	if seen[0] != "Bearer first" || seen[1] != "Bearer second" {
		t.Fatalf("token not re-read per request: %v", seen)
	}
}

func TestRequestTypedErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"interviewer role required"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, store.NewMemory())
	_, err := c.Get(context.Background(), "/users/")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "interviewer role required" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if len(apiErr.Payload) == 0 {
		t.Fatalf("error payload must be kept")
	}
}

func TestRequestPlainTextErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	}))
	defer server.Close()

	c := NewClient(server.URL, store.NewMemory())
	_, err := c.Get(context.Background(), "/announcements")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "upstream down" {
		t.Fatalf("text body should become the message, got %q", apiErr.Message)
	}
}

func TestSetTokenIgnoresEmpty(t *testing.T) {
	st := store.NewMemory()
	c := NewClient("http://example.invalid", st)
	c.SetToken("keep-me")
	c.SetToken("")
	if got := c.Token(); got != "keep-me" {
		t.Fatalf("empty SetToken must not wipe the slot, got %q", got)
	}
	c.ClearToken()
	if got := c.Token(); got != "" {
		t.Fatalf("token should be cleared, got %q", got)
	}
}

func TestItemsUnwrapsBothEnvelopes(t *testing.T) {
	nested := []byte(`{"data":{"items":[{"id":1},{"id":2}]}}`)
	flat := []byte(`{"items":[{"id":1}]}`)
	none := []byte(`{"data":{}}`)
	if got := len(items(nested)); got != 2 {
		t.Fatalf("nested envelope: %d items", got)
	}
	if got := len(items(flat)); got != 1 {
		t.Fatalf("flat envelope: %d items", got)
	}
	if got := len(items(none)); got != 0 {
		t.Fatalf("missing items: %d", got)
	}
}
