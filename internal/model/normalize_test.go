package model

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

func TestNormalizeUserPrefersUUIDAndSnakeCase(t *testing.T) {
	raw := `{
		"uuid": "u-1",
		"id": 42,
		"email": "a@x.com",
		"nickname": "koi",
		"role": "interviewee",
		"status": "r1_passed",
		"passed_directions": "[\"Web\",\"Pwn\"]",
		"passed_directions_by": ["alice"],
		"created_at": "2026-08-01T10:00:00Z"
	}`
	user := NormalizeUserJSON([]byte(raw))
	if user.ID != "u-1" {
		t.Fatalf("id should prefer uuid, got %q", user.ID)
	}
	if !reflect.DeepEqual(user.PassedDirections, []string{"Web", "Pwn"}) {
		t.Fatalf("passed_directions string should decode to list, got %v", user.PassedDirections)
	}
	if !reflect.DeepEqual(user.PassedDirectionsBy, []string{"alice"}) {
		t.Fatalf("native list should pass through, got %v", user.PassedDirectionsBy)
	}
	if user.CreatedAt != "2026-08-01T10:00:00Z" {
		t.Fatalf("created_at alias not resolved, got %q", user.CreatedAt)
	}
	if user.Application != nil {
		t.Fatalf("no submitted application must normalize to nil")
	}
}

func TestNormalizeUserLegacyIDFallback(t *testing.T) {
	user := NormalizeUserJSON([]byte(`{"id": 7, "email": "b@x.com"}`))
	if user.ID != "7" {
		t.Fatalf("legacy id fallback, got %q", user.ID)
	}
}

func TestStringListNeverFails(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want []string
	}{
		{"native array", `{"v": ["Web","Dev"]}`, []string{"Web", "Dev"}},
		{"json string", `{"v": "[\"Crypto\"]"}`, []string{"Crypto"}},
		{"malformed string", `{"v": "[oops"}`, []string{}},
		{"plain string", `{"v": "Web"}`, []string{}},
		{"absent", `{}`, []string{}},
		{"null", `{"v": null}`, []string{}},
		{"number", `{"v": 3}`, []string{}},
		{"mixed array keeps strings", `{"v": ["Web", 1, "Pwn"]}`, []string{"Web", "Pwn"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StringList(gjson.Get(tc.doc, "v"))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeUserEmbeddedRecords(t *testing.T) {
	raw := `{
		"uuid": "u-2",
		"email": "c@x.com",
		"application": {
			"real_name": "Chen",
			"student_id": "23009001",
			"directions": "[\"Reverse\"]",
			"resume": "# hi"
		},
		"comments": [
			{"uuid": "c-1", "interviewer_id": "i-1", "interviewer_name": "Li", "content": "solid"}
		],
		"task": {"uuid": "t-1", "target_user_id": "u-2", "assigned_by": "i-1", "title": "crackme"}
	}`
	user := NormalizeUserJSON([]byte(raw))
	if user.Application == nil {
		t.Fatalf("application missing")
	}
	if user.Application.RealName != "Chen" || user.Application.StudentID != "23009001" {
		t.Fatalf("application aliases not resolved: %+v", user.Application)
	}
	if !reflect.DeepEqual(user.Application.Directions, []string{"Reverse"}) {
		t.Fatalf("application directions: %v", user.Application.Directions)
	}
	if len(user.Comments) != 1 || user.Comments[0].InterviewerName != "Li" || user.Comments[0].ID != "c-1" {
		t.Fatalf("comments not normalized: %+v", user.Comments)
	}
	if user.Task == nil || user.Task.ID != "t-1" || user.Task.TargetUserID != "u-2" {
		t.Fatalf("task not normalized: %+v", user.Task)
	}
}

func TestNormalizeAnnouncementDefaults(t *testing.T) {
	ann := NormalizeAnnouncement(gjson.Parse(`{
		"uuid": "a-1",
		"title": "Welcome",
		"author_nickname": "admin",
		"pinned": true
	}`))
	if ann.Visibility != VisibilityPublic {
		t.Fatalf("missing visibility must default to public, got %q", ann.Visibility)
	}
	if !ann.Pinned || ann.AuthorNickname != "admin" || ann.ID != "a-1" {
		t.Fatalf("announcement fields: %+v", ann)
	}
	if ann.AllowedStatuses == nil || len(ann.AllowedStatuses) != 0 {
		t.Fatalf("allowed statuses must be an empty list, got %v", ann.AllowedStatuses)
	}
}

func TestVisibilityLabel(t *testing.T) {
	cases := map[string]string{
		VisibilityStatus:      "specific status visible",
		VisibilityInterviewer: "interviewers only",
		VisibilityAll:         "signed-in users only",
		VisibilityPublic:      "visible to everyone",
		"":                    "visible to everyone",
		"banana":              "visible to everyone",
	}
	for visibility, want := range cases {
		if got := VisibilityLabel(visibility); got != want {
			t.Fatalf("VisibilityLabel(%q) = %q, want %q", visibility, got, want)
		}
	}
}

func TestStatusLabelFallsBackToPending(t *testing.T) {
	if got := StatusLabel("offer"); got != "Offer" {
		t.Fatalf("offer label: %q", got)
	}
	if got := StatusLabel(""); got != "Round 1 pending" {
		t.Fatalf("empty status must read as r1_pending, got %q", got)
	}
	if got := StatusLabel("nope"); got != "Round 1 pending" {
		t.Fatalf("unknown status must read as r1_pending, got %q", got)
	}
}

func TestNormalizeTaskAliases(t *testing.T) {
	task := NormalizeTask(gjson.Parse(`{
		"id": "t-9",
		"target_user_name": "koi",
		"assignedBy": "i-2",
		"report": "done",
		"updated_at": "2026-08-02T00:00:00Z"
	}`))
	if task.ID != "t-9" || task.TargetUserName != "koi" || task.AssignedBy != "i-2" {
		t.Fatalf("task aliases: %+v", task)
	}
	if task.UpdatedAt != "2026-08-02T00:00:00Z" {
		t.Fatalf("updated_at alias: %q", task.UpdatedAt)
	}
}
