package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/recommend"
)

func views(n int) []model.RecordView {
	out := make([]model.RecordView, n)
	for i := range out {
		out[i] = model.RecordView{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("go developer %d", i+1),
			Company:  model.StringOrNil("Acme"),
			URL:      model.StringOrNil(fmt.Sprintf("https://example.com/%d", i+1)),
			IsRemote: true,
		}
	}
	return out
}

func TestFormatJobs_CapsAtMaxListed(t *testing.T) {
	got := FormatJobs("go developer", views(7), nil)

	if !strings.HasPrefix(got, "🎯 Found 7 Go Developer jobs (showing top 5)") {
		t.Errorf("unexpected header: %q", strings.SplitN(got, "\n", 2)[0])
	}
	if !strings.Contains(got, "5. 💼 Go Developer 5") {
		t.Error("expected fifth job to be listed")
	}
	if strings.Contains(got, "Go Developer 6") {
		t.Error("expected sixth job to be omitted")
	}
	if !strings.Contains(got, "📍 Not specified (remote)") {
		t.Error("expected default location with remote marker")
	}
	if strings.Contains(got, "💡") {
		t.Error("expected no project section without projects")
	}
}

func TestFormatJobs_SingleWithProjects(t *testing.T) {
	jobs := views(1)
	jobs[0].Description = "Build services in Go."
	projects := []recommend.Project{{
		Title:        "Rate Limiter",
		Description:  "A token bucket service.",
		Technologies: []string{"Go", "Redis"},
		Timeline:     "2 weeks",
	}}

	got := FormatJobs("go developer", jobs, projects)

	for _, want := range []string{
		"🎯 Found 1 Go Developer job\n",
		"   Build services in Go.\n",
		"   🔗 https://example.com/1\n",
		"💡 Portfolio project ideas for \"Go Developer 1\":",
		"1. Rate Limiter\n",
		"   🛠 Go, Redis\n",
		"   ⏱ 2 weeks\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.HasSuffix(got, "\n\n") {
		t.Error("expected a single trailing newline")
	}
}

func TestFormatJobs_EmptyFallsBackToNoJobs(t *testing.T) {
	if got, want := FormatJobs("data analyst", nil, nil), FormatNoJobs("data analyst"); got != want {
		t.Errorf("expected no-jobs message, got %q", got)
	}
}

func TestFormatNoJobs(t *testing.T) {
	got := FormatNoJobs("data analyst")
	if !strings.HasPrefix(got, "😕 No Data Analyst jobs found right now.") {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestFormatNoTitle(t *testing.T) {
	if !strings.Contains(FormatNoTitle(), "couldn't identify a job title") {
		t.Error("unexpected no-title message")
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short text", 20, "short text"},
		{"  spaced   out\ntext ", 20, "spaced out text"},
		{"alpha beta gamma delta", 13, "alpha beta…"},
		{"alpha, beta gamma", 8, "alpha…"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := preview(tt.in, tt.n); got != tt.want {
			t.Errorf("preview(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("senior  go developer"); got != "Senior Go Developer" {
		t.Errorf("unexpected %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
