package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
)

func TestLoginHashesPasswordAndSavesToken(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"token": "tok-xyz",
				"userInfo": {"uuid": "u-1", "email": "a@x.com", "role": "interviewer"}
			}
		}`))
	}))
	defer server.Close()

	st := store.NewMemory()
	auth := NewAuth(NewClient(server.URL, st))
	user, err := auth.Login(context.Background(), "a@x.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if body["password"] == "hunter2" || len(body["password"]) != 64 {
		t.Fatalf("password must be sent as a sha256 hex digest, got %q", body["password"])
	}
	if token, _ := st.Load(store.SlotToken); token != "tok-xyz" {
		t.Fatalf("token not persisted, slot = %q", token)
	}
	if user.ID != "u-1" || user.Role != "interviewer" {
		t.Fatalf("user not normalized: %+v", user)
	}
}

func TestMeUnwrapsUserEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"user":{"uuid":"u-9","email":"me@x.com","passed_directions":"[\"Web\"]"}}}`))
	}))
	defer server.Close()

	auth := NewAuth(NewClient(server.URL, store.NewMemory()))
	user, err := auth.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if user.ID != "u-9" {
		t.Fatalf("id = %q", user.ID)
	}
	if len(user.PassedDirections) != 1 || user.PassedDirections[0] != "Web" {
		t.Fatalf("passed directions = %v", user.PassedDirections)
	}
}

func TestChangePasswordHashesBothSides(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	auth := NewAuth(NewClient(server.URL, store.NewMemory()))
	if err := auth.ChangePassword(context.Background(), "old", "new"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if len(body["old_password"]) != 64 || len(body["new_password"]) != 64 {
		t.Fatalf("both passwords must be hashed: %v", body)
	}
	if body["old_password"] == body["new_password"] {
		t.Fatalf("distinct passwords must hash differently")
	}
}
