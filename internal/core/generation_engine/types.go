// Package generation_engine drives portfolio generation: normalizing
// heterogeneous sources, prompting the model, parsing its output into the
// content schema and persisting the result with a full audit trail.
package generation_engine

import (
	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/models"
)

// Source kinds accepted from the caller.
const (
	SourceTypeGitHub   = "github"
	SourceTypeResume   = "resume"
	SourceTypePrompt   = "prompt"
	SourceTypeLinkedIn = "linkedin"
)

// SourceInput is one raw source descriptor from the request. Sources are
// request-scoped; they are consumed by a generation run and discarded.
type SourceInput struct {
	Type        string         `json:"type"`
	Username    string         `json:"username,omitempty"`    // github
	Text        string         `json:"text,omitempty"`        // resume (already extracted)
	Description string         `json:"description,omitempty"` // prompt
	Profile     *ManualProfile `json:"profile,omitempty"`     // linkedin
}

// ManualProfile carries manually entered profile fields for linkedin sources.
type ManualProfile struct {
	Name       string   `json:"name,omitempty"`
	Headline   string   `json:"headline,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	ProfileURL string   `json:"profile_url,omitempty"`
}

// Preferences tune both the prompt and the created portfolio.
type Preferences struct {
	TemplateID        string `json:"template_id,omitempty"`
	Tone              string `json:"tone,omitempty"`
	ColorScheme       string `json:"color_scheme,omitempty"`
	ExtraInstructions string `json:"extra_instructions,omitempty"`
}

// NormalizedSource is the uniform {type, data} pair handed to the prompt
// builder. Data marshals cleanly to JSON.
type NormalizedSource struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// GitHubBundle is the data payload of a normalized github source. Any field
// may be empty when its sub-fetch degraded.
type GitHubBundle struct {
	Profile       *core.GitHubProfile        `json:"profile,omitempty"`
	Repositories  []core.GitHubRepository    `json:"repositories,omitempty"`
	Pinned        []core.GitHubRepository    `json:"pinned,omitempty"`
	Languages     map[string]int             `json:"languages,omitempty"`
	Contributions *core.ContributionCalendar `json:"contributions,omitempty"`
}

// ResumePayload is the data payload of a normalized resume source: the raw
// extracted text plus the pre-structured partial document when the
// structuring pass succeeded.
type ResumePayload struct {
	Text       string                  `json:"text"`
	Structured *models.ContentDocument `json:"structured,omitempty"`
}

// PromptPayload is the data payload of a normalized prompt source.
type PromptPayload struct {
	Description string `json:"description"`
	Tone        string `json:"tone,omitempty"`
}

// PortfolioSummary is what Generate hands back to the route layer.
type PortfolioSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Status      string `json:"status"`
	TemplateID  string `json:"template_id"`
	IterationID string `json:"iteration_id"`
	TokensUsed  int    `json:"tokens_used"`
	Degraded    bool   `json:"degraded,omitempty"`
}

// ChangeSummary is what Enhance hands back to the route layer.
type ChangeSummary struct {
	PortfolioID     string   `json:"portfolio_id"`
	Section         string   `json:"section,omitempty"`
	ChangedSections []string `json:"changed_sections"`
	IterationID     string   `json:"iteration_id"`
	TokensUsed      int      `json:"tokens_used"`
	Degraded        bool     `json:"degraded,omitempty"`
}
