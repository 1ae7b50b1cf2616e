// internal/model/normalize.go
//
// Normalizers turn raw backend records into the canonical shapes in model.go.
// They are total: absent fields degrade to zero values, malformed list fields
// degrade to empty lists, and nothing in here returns an error. Each resource
// carries one declarative alias table; the first alias present in the record
// wins, so legacy snake_case fields take precedence over their camelCase
// twins exactly like the web client resolved them.

package model

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// aliases maps a canonical field to the source spellings it may arrive under.
type aliases map[string][]string

var userAliases = aliases{
	"id":                 {"uuid", "id"},
	"email":              {"email"},
	"nickname":           {"nickname"},
	"signature":          {"signature"},
	"role":               {"role"},
	"status":             {"status"},
	"directions":         {"directions"},
	"passedDirections":   {"passed_directions", "passedDirections"},
	"passedDirectionsBy": {"passed_directions_by", "passedDirectionsBy"},
	"createdAt":          {"created_at", "createdAt"},
	"updatedAt":          {"updated_at", "updatedAt"},
}

var applicationAliases = aliases{
	"realName":   {"real_name", "realName"},
	"phone":      {"phone"},
	"gender":     {"gender"},
	"department": {"department"},
	"major":      {"major"},
	"studentId":  {"student_id", "studentId"},
	"directions": {"directions"},
	"resume":     {"resume"},
}

var announcementAliases = aliases{
	"id":              {"uuid", "id"},
	"title":           {"title"},
	"content":         {"content"},
	"authorNickname":  {"author_nickname", "authorNickname"},
	"pinned":          {"pinned"},
	"visibility":      {"visibility"},
	"allowedStatuses": {"allowed_statuses", "allowedStatuses"},
	"createdAt":       {"created_at", "createdAt"},
	"updatedAt":       {"updated_at", "updatedAt"},
}

var commentAliases = aliases{
	"id":              {"uuid", "id"},
	"intervieweeId":   {"interviewee_id", "intervieweeId"},
	"interviewerId":   {"interviewer_id", "interviewerId"},
	"interviewerName": {"interviewer_name", "interviewerName"},
	"content":         {"content"},
	"createdAt":       {"created_at", "createdAt"},
	"updatedAt":       {"updated_at", "updatedAt"},
}

var taskAliases = aliases{
	"id":             {"uuid", "id"},
	"title":          {"title"},
	"description":    {"description"},
	"targetUserId":   {"target_user_id", "targetUserId"},
	"targetUserName": {"target_user_name", "targetUserName"},
	"assignedBy":     {"assigned_by", "assignedBy"},
	"report":         {"report"},
	"createdAt":      {"created_at", "createdAt"},
	"updatedAt":      {"updated_at", "updatedAt"},
}

// pick returns the first alias of the canonical field that exists in the
// record.
func (a aliases) pick(rec gjson.Result, field string) gjson.Result {
	for _, name := range a[field] {
		if value := rec.Get(name); value.Exists() {
			return value
		}
	}
	return gjson.Result{}
}

func (a aliases) str(rec gjson.Result, field string) string {
	value := a.pick(rec, field)
	if !value.Exists() || value.Type == gjson.Null {
		return ""
	}
	return value.String()
}

func (a aliases) boolean(rec gjson.Result, field string) bool {
	return a.pick(rec, field).Bool()
}

// list resolves a field that may arrive as a native JSON array, a
// JSON-encoded string, or not at all. Decode failures and non-list payloads
// yield an empty list; that is the degrade-gracefully policy, not an error.
func (a aliases) list(rec gjson.Result, field string) []string {
	return StringList(a.pick(rec, field))
}

// StringList decodes a tolerant string list from a gjson value.
func StringList(value gjson.Result) []string {
	switch {
	case value.IsArray():
		return collectStrings(value)
	case value.Type == gjson.String:
		raw := strings.TrimSpace(value.String())
		if raw == "" {
			return []string{}
		}
		var decoded []any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return []string{}
		}
		out := make([]string, 0, len(decoded))
		for _, item := range decoded {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func collectStrings(arr gjson.Result) []string {
	out := []string{}
	arr.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
		return true
	})
	return out
}

// NormalizeUser maps a raw user record, including any embedded application,
// comments and task.
func NormalizeUser(rec gjson.Result) User {
	user := User{
		ID:                 userAliases.str(rec, "id"),
		Email:              userAliases.str(rec, "email"),
		Nickname:           userAliases.str(rec, "nickname"),
		Signature:          userAliases.str(rec, "signature"),
		Role:               userAliases.str(rec, "role"),
		Status:             userAliases.str(rec, "status"),
		Directions:         userAliases.list(rec, "directions"),
		PassedDirections:   userAliases.list(rec, "passedDirections"),
		PassedDirectionsBy: userAliases.list(rec, "passedDirectionsBy"),
		CreatedAt:          userAliases.str(rec, "createdAt"),
		UpdatedAt:          userAliases.str(rec, "updatedAt"),
	}
	if app := rec.Get("application"); app.Exists() && app.IsObject() {
		application := NormalizeApplication(app)
		user.Application = &application
	}
	if comments := rec.Get("comments"); comments.IsArray() {
		user.Comments = []Comment{}
		comments.ForEach(func(_, item gjson.Result) bool {
			user.Comments = append(user.Comments, NormalizeComment(item))
			return true
		})
	}
	if task := rec.Get("task"); task.Exists() && task.IsObject() {
		normalized := NormalizeTask(task)
		user.Task = &normalized
	}
	return user
}

// NormalizeUserJSON is NormalizeUser over a raw JSON document.
func NormalizeUserJSON(raw []byte) User {
	return NormalizeUser(gjson.ParseBytes(raw))
}

// NormalizeApplication maps a raw application record.
func NormalizeApplication(rec gjson.Result) Application {
	return Application{
		RealName:   applicationAliases.str(rec, "realName"),
		Phone:      applicationAliases.str(rec, "phone"),
		Gender:     applicationAliases.str(rec, "gender"),
		Department: applicationAliases.str(rec, "department"),
		Major:      applicationAliases.str(rec, "major"),
		StudentID:  applicationAliases.str(rec, "studentId"),
		Directions: applicationAliases.list(rec, "directions"),
		Resume:     applicationAliases.str(rec, "resume"),
	}
}

// NormalizeAnnouncement maps a raw announcement record. Missing visibility
// defaults to public.
func NormalizeAnnouncement(rec gjson.Result) Announcement {
	visibility := announcementAliases.str(rec, "visibility")
	if visibility == "" {
		visibility = VisibilityPublic
	}
	return Announcement{
		ID:              announcementAliases.str(rec, "id"),
		Title:           announcementAliases.str(rec, "title"),
		Content:         announcementAliases.str(rec, "content"),
		AuthorNickname:  announcementAliases.str(rec, "authorNickname"),
		Pinned:          announcementAliases.boolean(rec, "pinned"),
		Visibility:      visibility,
		AllowedStatuses: announcementAliases.list(rec, "allowedStatuses"),
		CreatedAt:       announcementAliases.str(rec, "createdAt"),
		UpdatedAt:       announcementAliases.str(rec, "updatedAt"),
	}
}

// NormalizeComment maps a raw comment record.
func NormalizeComment(rec gjson.Result) Comment {
	return Comment{
		ID:              commentAliases.str(rec, "id"),
		IntervieweeID:   commentAliases.str(rec, "intervieweeId"),
		InterviewerID:   commentAliases.str(rec, "interviewerId"),
		InterviewerName: commentAliases.str(rec, "interviewerName"),
		Content:         commentAliases.str(rec, "content"),
		CreatedAt:       commentAliases.str(rec, "createdAt"),
		UpdatedAt:       commentAliases.str(rec, "updatedAt"),
	}
}

// NormalizeTask maps a raw task record.
func NormalizeTask(rec gjson.Result) Task {
	return Task{
		ID:             taskAliases.str(rec, "id"),
		Title:          taskAliases.str(rec, "title"),
		Description:    taskAliases.str(rec, "description"),
		TargetUserID:   taskAliases.str(rec, "targetUserId"),
		TargetUserName: taskAliases.str(rec, "targetUserName"),
		AssignedBy:     taskAliases.str(rec, "assignedBy"),
		Report:         taskAliases.str(rec, "report"),
		CreatedAt:      taskAliases.str(rec, "createdAt"),
		UpdatedAt:      taskAliases.str(rec, "updatedAt"),
	}
}
