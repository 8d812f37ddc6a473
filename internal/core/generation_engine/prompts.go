package generation_engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/folioforge/folioforge/internal/models"
)

const generateSystemPrompt = `You are a portfolio content writer. You turn raw career data
(GitHub activity, resume text, free-form descriptions) into polished portfolio website copy.
Respond with a single JSON object and nothing else. The object must have exactly these
top-level keys: "hero", "about", "projects", "experience", "education", "contact".
Schema:
  hero:       {"name", "title", "bio", "image", "social_links": {"github","linkedin","twitter","website"}}
  about:      {"description", "highlights": [string], "image"}
  projects:   [{"title", "description", "tech_stack": [string], "github_url", "live_url", "image"}]
  experience: [{"company", "role", "location", "start_date", "end_date", "description", "highlights": [string]}]
  education:  [{"institution", "degree", "field", "start_year", "end_year", "description"}]
  contact:    {"email", "phone", "location", "message"}
Keep project order as given in the source data. Use empty strings or empty arrays for
anything the sources do not support. Never invent employers, dates or contact details.`

const sectionSystemPrompt = `You are a portfolio content writer improving one section of an
existing portfolio. Respond with a single JSON object containing exactly one top-level key,
"%s", holding the revised section in the same schema as the current value. No prose, no
markdown, JSON only.`

const resumeStructureSystemPrompt = `You extract structured data from resume text. Respond
with a single JSON object with the top-level keys "hero", "about", "projects", "experience",
"education", "contact" following the portfolio content schema. Copy facts only from the
resume; use empty values for anything it does not state.`

// buildGenerationPrompt renders the normalized sources and preferences into
// the user prompt for a full generation run.
func buildGenerationPrompt(sources []NormalizedSource, prefs Preferences) (string, error) {
	var b strings.Builder
	b.WriteString("Create complete portfolio content from the following sources.\n\n")

	for i, src := range sources {
		data, err := json.MarshalIndent(src.Data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal source %d (%s): %w", i, src.Type, err)
		}
		fmt.Fprintf(&b, "### Source %d (%s)\n%s\n\n", i+1, src.Type, data)
	}

	if prefs.Tone != "" {
		fmt.Fprintf(&b, "Write in a %s tone.\n", prefs.Tone)
	}
	if prefs.ExtraInstructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", prefs.ExtraInstructions)
	}

	return b.String(), nil
}

// buildSectionPrompt scopes an enhancement prompt to one section: only that
// section's current value plus the user's instruction go to the model.
func buildSectionPrompt(doc models.ContentDocument, section, userPrompt string) (string, error) {
	current, err := sectionValue(doc, section)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal section %s: %w", section, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current %q section:\n%s\n\n", section, raw)
	fmt.Fprintf(&b, "Instruction: %s\n", userPrompt)
	return b.String(), nil
}

func sectionValue(doc models.ContentDocument, section string) (any, error) {
	switch section {
	case models.SectionHero:
		return doc.Hero, nil
	case models.SectionAbout:
		return doc.About, nil
	case models.SectionProjects:
		return doc.Projects, nil
	case models.SectionExperience:
		return doc.Experience, nil
	case models.SectionEducation:
		return doc.Education, nil
	case models.SectionContact:
		return doc.Contact, nil
	default:
		return nil, fmt.Errorf("unknown section %q", section)
	}
}
