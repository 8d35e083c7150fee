// Package recommend suggests portfolio projects for a job posting using an
// LLM.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/xeipuuv/gojsonschema"

	"github.com/amishk599/jobcache/internal/model"
)

const (
	// MaxProjects is the most suggestions returned for one job.
	MaxProjects = 3
	// maxDescriptionRunes bounds the job description sent to the model.
	maxDescriptionRunes = 5000
)

// ErrNoProjects is returned when the model answers with an empty project list.
var ErrNoProjects = errors.New("llm returned no projects")

// Project is one portfolio project suggestion.
type Project struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Technologies   []string `json:"technologies"`
	Demonstrates   string   `json:"demonstrates"`
	Timeline       string   `json:"timeline"`
	StandoutFactor string   `json:"standout_factor"`
}

// Recommender turns a job record into up to MaxProjects suggestions.
type Recommender interface {
	Recommend(ctx context.Context, job model.Record) ([]Project, error)
}

// LLMRecommender implements Recommender with an LLMProvider.
type LLMRecommender struct {
	provider LLMProvider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewLLMRecommender creates a recommender that renders tmpl for each job.
func NewLLMRecommender(provider LLMProvider, tmpl *template.Template, logger *slog.Logger) *LLMRecommender {
	return &LLMRecommender{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

type promptData struct {
	Title       string
	Company     string
	Description string
}

// Recommend asks the model for projects that fit job.
func (r *LLMRecommender) Recommend(ctx context.Context, job model.Record) ([]Project, error) {
	company := model.Deref(job.Company)
	if company == "" {
		company = "N/A"
	}

	var promptBuf bytes.Buffer
	if err := r.tmpl.Execute(&promptBuf, promptData{
		Title:       job.Title,
		Company:     company,
		Description: truncate(job.Description, maxDescriptionRunes),
	}); err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	raw, err := r.provider.Complete(ctx, systemPrompt, promptBuf.String())
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	projects, err := parseProjects(raw)
	if err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}
	r.logger.Debug("recommendations generated", "job_id", job.ID, "count", len(projects))
	return projects, nil
}

// truncate cuts s to limit runes and marks the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

const projectsSchema = `{
	"type": "object",
	"required": ["projects"],
	"properties": {
		"projects": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "description"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"technologies": {"type": "array", "items": {"type": "string"}},
					"demonstrates": {"type": "string"},
					"timeline": {"type": "string"},
					"standout_factor": {"type": "string"}
				}
			}
		}
	}
}`

var projectsSchemaLoader = gojsonschema.NewStringLoader(projectsSchema)

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// parseProjects validates the model output against projectsSchema and
// returns at most MaxProjects projects.
func parseProjects(raw string) ([]Project, error) {
	body := stripFences(raw)

	result, err := gojsonschema.Validate(projectsSchemaLoader, gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}

	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal projects JSON: %w", err)
	}
	if len(resp.Projects) == 0 {
		return nil, ErrNoProjects
	}
	if len(resp.Projects) > MaxProjects {
		resp.Projects = resp.Projects[:MaxProjects]
	}
	return resp.Projects, nil
}
