package generation_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioforge/folioforge/internal/core/apperr"
	"github.com/folioforge/folioforge/internal/models"
)

const sampleDocJSON = `{
  "hero": {"name": "Ada Lovelace", "title": "Engineer", "bio": "Builds things.", "social_links": {"github": "https://github.com/ada"}},
  "about": {"description": "Long-form about.", "highlights": ["math"]},
  "projects": [{"title": "Engine", "description": "An analytical engine.", "tech_stack": ["brass"]}],
  "experience": [],
  "education": [],
  "contact": {"email": "ada@example.com"}
}`

func TestParseDocument_plainJSON(t *testing.T) {
	doc, err := ParseDocument(sampleDocJSON)

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.Hero.Name)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Engine", doc.Projects[0].Title)
	// Defaults applied even for sections the payload left empty.
	assert.NotNil(t, doc.Experience)
	assert.NotNil(t, doc.Education)
}

func TestParseDocument_fencedJSON(t *testing.T) {
	raw := "```json\n" + sampleDocJSON + "\n```"
	doc, err := ParseDocument(raw)

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.Hero.Name)
}

func TestParseDocument_fenceInsideProse(t *testing.T) {
	raw := "Here is the portfolio you asked for:\n\n```json\n" + sampleDocJSON + "\n```\n\nLet me know if you need changes."
	doc, err := ParseDocument(raw)

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", doc.Contact.Email)
}

func TestParseDocument_garbageDegradesToDefault(t *testing.T) {
	doc, err := ParseDocument("I'm sorry, I cannot produce JSON today.")

	require.Error(t, err)
	assert.True(t, apperr.IsParseDegraded(err))
	assert.True(t, doc.IsEmpty())
	assert.NotNil(t, doc.Projects)
}

func TestParseSection_keyedObject(t *testing.T) {
	raw := `{"about": {"description": "Rewritten about.", "highlights": ["go"]}}`
	doc, err := ParseSection(raw, models.SectionAbout)

	require.NoError(t, err)
	assert.Equal(t, "Rewritten about.", doc.About.Description)
}

func TestParseSection_bareValue(t *testing.T) {
	raw := `{"description": "Bare about object.", "highlights": []}`
	doc, err := ParseSection(raw, models.SectionAbout)

	require.NoError(t, err)
	assert.Equal(t, "Bare about object.", doc.About.Description)
}

func TestParseSection_bareArrayForProjects(t *testing.T) {
	raw := `[{"title": "Engine", "description": "d", "tech_stack": []}]`
	doc, err := ParseSection(raw, models.SectionProjects)

	require.NoError(t, err)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Engine", doc.Projects[0].Title)
}

func TestParseSection_unparseableWrapsRawText(t *testing.T) {
	raw := "Here's a friendlier about section for you."
	doc, err := ParseSection(raw, models.SectionAbout)

	require.Error(t, err)
	assert.True(t, apperr.IsParseDegraded(err))
	assert.Equal(t, apperr.KindParseDegraded, apperr.KindOf(err))
	assert.Equal(t, raw, doc.About.Description)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
