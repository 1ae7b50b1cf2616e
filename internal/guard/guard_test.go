package guard

import (
	"testing"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/model"
)

func TestCheck(t *testing.T) {
	interviewee := &model.User{Role: model.RoleInterviewee}
	interviewer := &model.User{Role: model.RoleInterviewer}

	cases := []struct {
		name       string
		user       *model.User
		loading    bool
		allowRoles []string
		want       Outcome
	}{
		{"loading wins over everything", interviewer, true, []string{model.RoleInterviewer}, ShowLoading},
		{"loading anonymous", nil, true, nil, ShowLoading},
		{"anonymous goes to login", nil, false, nil, RedirectLogin},
		{"anonymous goes to login despite roles", nil, false, []string{model.RoleInterviewer}, RedirectLogin},
		{"wrong role goes home", interviewee, false, []string{model.RoleInterviewer}, RedirectHome},
		{"matching role renders", interviewer, false, []string{model.RoleInterviewer}, Render},
		{"any role when unrestricted", interviewee, false, nil, Render},
		{"empty role list means unrestricted", interviewer, false, []string{}, Render},
		{"one of several roles", interviewee, false, []string{model.RoleInterviewer, model.RoleInterviewee}, Render},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Check(tc.user, tc.loading, tc.allowRoles); got != tc.want {
				t.Fatalf("Check() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if ShowLoading.String() != "loading" || Render.String() != "render" {
		t.Fatalf("outcome labels drifted")
	}
	if Outcome(99).String() != "unknown" {
		t.Fatalf("unknown outcome label")
	}
}
