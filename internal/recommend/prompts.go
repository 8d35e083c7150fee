package recommend

import (
	_ "embed"
	"text/template"
)

// systemPrompt frames every recommendation request.
const systemPrompt = "You are an expert career advisor helping job seekers create portfolio projects that align them as top candidates for job roles."

//go:embed prompts/recommendation.md
var recommendationPromptRaw string

// RecommendationTemplate is the parsed prompt template for project
// recommendations. Parsed once at package init.
var RecommendationTemplate = template.Must(template.New("recommendation").Parse(recommendationPromptRaw))
