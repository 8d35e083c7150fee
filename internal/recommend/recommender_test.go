package recommend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"text/template"

	"github.com/amishk599/jobcache/internal/model"
)

// mockProvider is a stub LLMProvider for testing.
type mockProvider struct {
	response   string
	err        error
	gotSystem  string
	gotPrompt  string
	callsCount int
}

func (m *mockProvider) Complete(_ context.Context, system, prompt string) (string, error) {
	m.callsCount++
	m.gotSystem = system
	m.gotPrompt = prompt
	return m.response, m.err
}

func newTestRecommender(provider LLMProvider) *LLMRecommender {
	return NewLLMRecommender(provider, RecommendationTemplate, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const fourProjects = `{"projects":[
	{"title":"P1","description":"d1","technologies":["Go"],"demonstrates":"x","timeline":"1 week","standout_factor":"y"},
	{"title":"P2","description":"d2","technologies":[],"demonstrates":"x","timeline":"2 weeks","standout_factor":"y"},
	{"title":"P3","description":"d3"},
	{"title":"P4","description":"d4"}
]}`

func TestRecommend_ParsesAndCaps(t *testing.T) {
	p := &mockProvider{response: fourProjects}
	r := newTestRecommender(p)

	company := "Acme"
	projects, err := r.Recommend(context.Background(), model.Record{Title: "go developer", Company: &company, Description: "Build services in Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != MaxProjects {
		t.Fatalf("expected %d projects, got %d", MaxProjects, len(projects))
	}
	if projects[0].Title != "P1" || projects[0].Technologies[0] != "Go" || projects[0].StandoutFactor != "y" {
		t.Errorf("projects[0] = %+v", projects[0])
	}

	if !strings.Contains(p.gotPrompt, "Job Title: go developer") || !strings.Contains(p.gotPrompt, "Company: Acme") {
		t.Errorf("prompt missing job fields:\n%s", p.gotPrompt)
	}
	if p.gotSystem != systemPrompt {
		t.Errorf("system prompt = %q", p.gotSystem)
	}
}

func TestRecommend_MissingCompanyRendersNA(t *testing.T) {
	p := &mockProvider{response: `{"projects":[{"title":"P","description":"d"}]}`}

	if _, err := newTestRecommender(p).Recommend(context.Background(), model.Record{Title: "analyst"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.gotPrompt, "Company: N/A") {
		t.Errorf("expected N/A company in prompt:\n%s", p.gotPrompt)
	}
}

func TestRecommend_TruncatesLongDescription(t *testing.T) {
	p := &mockProvider{response: `{"projects":[{"title":"P","description":"d"}]}`}
	long := strings.Repeat("é", maxDescriptionRunes+50)

	if _, err := newTestRecommender(p).Recommend(context.Background(), model.Record{Title: "chef", Description: long}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Repeat("é", maxDescriptionRunes) + "..."
	if !strings.Contains(p.gotPrompt, want) {
		t.Error("expected description truncated to the rune limit with an ellipsis")
	}
	if strings.Contains(p.gotPrompt, strings.Repeat("é", maxDescriptionRunes+1)) {
		t.Error("description was not truncated")
	}
}

func TestRecommend_ProviderError(t *testing.T) {
	p := &mockProvider{err: errors.New("quota exceeded")}

	if _, err := newTestRecommender(p).Recommend(context.Background(), model.Record{Title: "x"}); err == nil {
		t.Fatal("expected error from provider")
	}
}

func TestParseProjects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain json", `{"projects":[{"title":"A","description":"a"}]}`, 1, false},
		{"fenced json", "```json\n{\"projects\":[{\"title\":\"A\",\"description\":\"a\"}]}\n```", 1, false},
		{"bare fence", "```\n{\"projects\":[{\"title\":\"A\",\"description\":\"a\"},{\"title\":\"B\",\"description\":\"b\"}]}\n```", 2, false},
		{"capped", fourProjects, 3, false},
		{"empty list", `{"projects":[]}`, 0, true},
		{"missing projects", `{"ideas":[]}`, 0, true},
		{"missing title", `{"projects":[{"description":"a"}]}`, 0, true},
		{"wrong type", `{"projects":[{"title":"A","description":"a","technologies":"Go"}]}`, 0, true},
		{"not json", `Here are some ideas!`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProjects(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d projects", len(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d projects, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseProjects_EmptyListIsErrNoProjects(t *testing.T) {
	_, err := parseProjects(`{"projects":[]}`)
	if !errors.Is(err, ErrNoProjects) {
		t.Errorf("err = %v, want ErrNoProjects", err)
	}
}

func TestRecommendationTemplate_Renders(t *testing.T) {
	tmpl := template.Must(RecommendationTemplate.Clone())
	var sb strings.Builder
	if err := tmpl.Execute(&sb, promptData{Title: "t", Company: "c", Description: "d"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(sb.String(), `"standout_factor"`) {
		t.Error("expected the JSON shape in the rendered prompt")
	}
}

func TestNopRecommender(t *testing.T) {
	projects, err := NewNopRecommender().Recommend(context.Background(), model.Record{Title: "x"})
	if err != nil || projects != nil {
		t.Errorf("Nop = %v, %v", projects, err)
	}
}
