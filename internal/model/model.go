// internal/model/model.go
//
// Canonical client-side shapes for the recruitment backend. The API is
// inconsistent about field naming (snake_case vs camelCase, JSON arrays
// encoded as strings); everything past the normalizers in this package is
// guaranteed to have these shapes.

package model

// Roles known to the backend.
const (
	RoleInterviewee = "interviewee"
	RoleInterviewer = "interviewer"
)

// Interview statuses, in pipeline order.
var Statuses = []string{
	"r1_pending",
	"r1_passed",
	"r2_pending",
	"r2_passed",
	"rejected",
	"offer",
}

var statusLabels = map[string]string{
	"r1_pending": "Round 1 pending",
	"r1_passed":  "Round 1 passed",
	"r2_pending": "Round 2 pending",
	"r2_passed":  "Round 2 passed",
	"rejected":   "Rejected",
	"offer":      "Offer",
}

// StatusLabel returns the display label for an interview status. Unknown or
// empty statuses read as round-1 pending, the backend default.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return statusLabels["r1_pending"]
}

// Directions is the fixed catalog of technical tracks a candidate can apply
// for.
var Directions = []string{"Web", "Pwn", "Reverse", "Crypto", "Misc", "Dev", "Art"}

// Announcement visibility values.
const (
	VisibilityPublic      = "public"
	VisibilityAll         = "all"
	VisibilityInterviewer = "interviewer"
	VisibilityStatus      = "status"
)

// VisibilityLabel maps an announcement visibility to its display label.
// Anything unrecognised falls back to the public label; an odd value from the
// backend is not an error.
func VisibilityLabel(visibility string) string {
	switch visibility {
	case VisibilityInterviewer:
		return "interviewers only"
	case VisibilityAll:
		return "signed-in users only"
	case VisibilityStatus:
		return "specific status visible"
	default:
		return "visible to everyone"
	}
}

// User is the normalized account record. Application, Comments and Task are
// only populated on detail responses that embed them.
type User struct {
	ID                 string       `json:"id"`
	Email              string       `json:"email"`
	Nickname           string       `json:"nickname"`
	Signature          string       `json:"signature"`
	Role               string       `json:"role"`
	Status             string       `json:"status"`
	Directions         []string     `json:"directions"`
	PassedDirections   []string     `json:"passedDirections"`
	PassedDirectionsBy []string     `json:"passedDirectionsBy"`
	Application        *Application `json:"application,omitempty"`
	Comments           []Comment    `json:"comments,omitempty"`
	Task               *Task        `json:"task,omitempty"`
	CreatedAt          string       `json:"createdAt"`
	UpdatedAt          string       `json:"updatedAt"`
}

// Application is a candidate's submitted profile. Present only for
// interviewees who have submitted one.
type Application struct {
	RealName   string   `json:"realName"`
	Phone      string   `json:"phone"`
	Gender     string   `json:"gender"`
	Department string   `json:"department"`
	Major      string   `json:"major"`
	StudentID  string   `json:"studentId"`
	Directions []string `json:"directions"`
	Resume     string   `json:"resume"`
}

// Announcement content is Markdown.
type Announcement struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	AuthorNickname  string   `json:"authorNickname"`
	Pinned          bool     `json:"pinned"`
	Visibility      string   `json:"visibility"`
	AllowedStatuses []string `json:"allowedStatuses"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// Comment is an interviewer's note on a candidate. Only the authoring
// interviewer may edit or delete it.
type Comment struct {
	ID              string `json:"id"`
	IntervieweeID   string `json:"intervieweeId"`
	InterviewerID   string `json:"interviewerId"`
	InterviewerName string `json:"interviewerName"`
	Content         string `json:"content"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// Task is an assignment to a candidate. Report is overwritten wholesale on
// resubmission, never appended.
type Task struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	TargetUserID   string `json:"targetUserId"`
	TargetUserName string `json:"targetUserName"`
	AssignedBy     string `json:"assignedBy"`
	Report         string `json:"report"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}
