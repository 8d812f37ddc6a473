package generation_engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/apperr"
	"github.com/folioforge/folioforge/internal/models"
)

func newTestService(db *fakeDB, primary, fallback *fakeLLM) *Service {
	log := zap.NewNop()
	norm := NewNormalizer(&fakeProvider{}, primary, log, time.Second)
	var fb core.LLMProvider
	if fallback != nil {
		fb = fallback
	}
	return NewService(db, primary, fb, norm, fakeCatalog{}, log, 5*time.Second)
}

func promptSource(desc string) []SourceInput {
	return []SourceInput{{Type: SourceTypePrompt, Description: desc}}
}

func TestGenerate_fromPromptSource(t *testing.T) {
	db := newFakeDB()
	llm := &fakeLLM{responses: []core.CompletionResult{{Text: sampleDocJSON, TokensUsed: 321}}}
	svc := newTestService(db, llm, nil)

	summary, err := svc.Generate(context.Background(), "user-1", promptSource("a portfolio for Ada"), Preferences{})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace Portfolio", summary.Title)
	assert.Equal(t, "ada-lovelace-portfolio", summary.Slug)
	assert.Equal(t, models.PortfolioStatusDraft, summary.Status)
	assert.Equal(t, "minimal", summary.TemplateID)
	assert.Equal(t, 321, summary.TokensUsed)
	assert.False(t, summary.Degraded)

	p := db.portfolio(summary.ID)
	require.NotNil(t, p)
	assert.Equal(t, "user-1", p.OwnerID)
	assert.Equal(t, "Ada Lovelace", p.Content.Hero.Name)

	it := db.iteration(summary.IterationID)
	require.NotNil(t, it)
	assert.Equal(t, models.IterationStatusCompleted, it.Status)
	assert.Equal(t, summary.ID, it.PortfolioID)
	assert.Equal(t, 321, it.TokensUsed)
}

func TestGenerate_validationBeforeAnyCall(t *testing.T) {
	db := newFakeDB()
	llm := &fakeLLM{}
	svc := newTestService(db, llm, nil)

	_, err := svc.Generate(context.Background(), "user-1", nil, Preferences{})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Generate(context.Background(), "", promptSource("x"), Preferences{})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Generate(context.Background(), "user-1",
		[]SourceInput{{Type: SourceTypeGitHub}}, Preferences{})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Generate(context.Background(), "user-1", promptSource("x"),
		Preferences{TemplateID: "no-such-template"})
	assert.True(t, apperr.IsValidation(err))

	// Nothing reached the model or the store.
	assert.Zero(t, llm.callCount())
	assert.Empty(t, db.iterations)
}

func TestGenerate_unparseableOutputFailsIteration(t *testing.T) {
	db := newFakeDB()
	llm := &fakeLLM{responses: []core.CompletionResult{{Text: "not json, sorry"}}}
	svc := newTestService(db, llm, nil)

	_, err := svc.Generate(context.Background(), "user-1", promptSource("x"), Preferences{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindExternalService, apperr.KindOf(err))

	require.Len(t, db.iterations, 1)
	for _, it := range db.iterations {
		assert.Equal(t, models.IterationStatusFailed, it.Status)
		assert.NotEmpty(t, it.ErrorMessage)
	}
	assert.Empty(t, db.portfolios)
}

func TestGenerate_overloadFallsBackOnce(t *testing.T) {
	db := newFakeDB()
	overloaded := fmt.Errorf("gemini: %w", apperr.ErrModelOverloaded)
	primary := &fakeLLM{errs: []error{overloaded}}
	fallback := &fakeLLM{responses: []core.CompletionResult{{Text: sampleDocJSON, TokensUsed: 11}}}
	svc := newTestService(db, primary, fallback)

	summary, err := svc.Generate(context.Background(), "user-1", promptSource("x"), Preferences{})
	require.NoError(t, err)

	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 1, fallback.callCount())
	assert.Equal(t, 11, summary.TokensUsed)
}

func TestGenerate_nonOverloadErrorSkipsFallback(t *testing.T) {
	db := newFakeDB()
	primary := &fakeLLM{errs: []error{errors.New("invalid request")}}
	fallback := &fakeLLM{responses: []core.CompletionResult{{Text: sampleDocJSON}}}
	svc := newTestService(db, primary, fallback)

	_, err := svc.Generate(context.Background(), "user-1", promptSource("x"), Preferences{})
	require.Error(t, err)

	assert.Equal(t, 1, primary.callCount())
	assert.Zero(t, fallback.callCount())

	for _, it := range db.iterations {
		assert.Equal(t, models.IterationStatusFailed, it.Status)
	}
}

func TestGenerate_resumeStructuringDegradationSurfaces(t *testing.T) {
	db := newFakeDB()
	// The first model call is the résumé pre-structuring pass and fails;
	// the second is the main generation call. The portfolio is still
	// produced, but the summary carries the degradation.
	llm := &fakeLLM{
		errs:      []error{errors.New("structuring boom"), nil},
		responses: []core.CompletionResult{{}, {Text: sampleDocJSON, TokensUsed: 9}},
	}
	svc := newTestService(db, llm, nil)

	summary, err := svc.Generate(context.Background(), "user-1",
		[]SourceInput{{Type: SourceTypeResume, Text: "Ada Lovelace. Engineer, analytical engines."}},
		Preferences{})
	require.NoError(t, err)

	assert.True(t, summary.Degraded)
	assert.Equal(t, 2, llm.callCount())

	it := db.iteration(summary.IterationID)
	require.NotNil(t, it)
	assert.Equal(t, models.IterationStatusCompleted, it.Status)
}

func TestGenerate_slugDisambiguation(t *testing.T) {
	db := newFakeDB()
	db.slugs[slugKey("user-1", "ada-lovelace-portfolio")] = true
	db.slugs[slugKey("user-1", "ada-lovelace-portfolio-1")] = true
	llm := &fakeLLM{responses: []core.CompletionResult{{Text: sampleDocJSON}}}
	svc := newTestService(db, llm, nil)

	summary, err := svc.Generate(context.Background(), "user-1", promptSource("x"), Preferences{})
	require.NoError(t, err)
	assert.Equal(t, "ada-lovelace-portfolio-2", summary.Slug)
}

func TestGenerate_slugsScopedPerOwner(t *testing.T) {
	db := newFakeDB()
	db.slugs[slugKey("someone-else", "ada-lovelace-portfolio")] = true
	llm := &fakeLLM{responses: []core.CompletionResult{{Text: sampleDocJSON}}}
	svc := newTestService(db, llm, nil)

	summary, err := svc.Generate(context.Background(), "user-1", promptSource("x"), Preferences{})
	require.NoError(t, err)
	assert.Equal(t, "ada-lovelace-portfolio", summary.Slug)
}

func seedPortfolio(db *fakeDB) *models.Portfolio {
	doc := models.DefaultContentDocument()
	doc.Hero.Name = "Ada Lovelace"
	doc.About.Description = "Original about."
	doc.Contact.Email = "ada@example.com"
	html, css, js := "<html>", "body{}", ""
	p := &models.Portfolio{
		ID:            "p-1",
		OwnerID:       "user-1",
		Title:         "Ada Lovelace Portfolio",
		Slug:          "ada-lovelace-portfolio",
		Status:        models.PortfolioStatusDraft,
		TemplateID:    "minimal",
		Content:       doc,
		GeneratedHTML: &html,
		GeneratedCSS:  &css,
		GeneratedJS:   &js,
	}
	db.portfolios[p.ID] = p
	db.slugs[slugKey(p.OwnerID, p.Slug)] = true
	return p
}

func TestEnhance_sectionScoped(t *testing.T) {
	db := newFakeDB()
	seedPortfolio(db)
	llm := &fakeLLM{responses: []core.CompletionResult{
		{Text: `{"about": {"description": "Rewritten about.", "highlights": ["go"]}}`, TokensUsed: 42},
	}}
	svc := newTestService(db, llm, nil)

	change, err := svc.Enhance(context.Background(), "p-1", "make the about warmer", models.SectionAbout)
	require.NoError(t, err)

	assert.Equal(t, []string{models.SectionAbout}, change.ChangedSections)
	assert.False(t, change.Degraded)
	assert.Equal(t, 42, change.TokensUsed)

	p := db.portfolio("p-1")
	assert.Equal(t, "Rewritten about.", p.Content.About.Description)
	// Untouched sections survive the section-scoped write.
	assert.Equal(t, "Ada Lovelace", p.Content.Hero.Name)
	assert.Equal(t, "ada@example.com", p.Content.Contact.Email)
	// The cached artifact was cleared together with the content write.
	assert.Nil(t, p.GeneratedHTML)
	assert.Nil(t, p.GeneratedCSS)
	assert.Nil(t, p.GeneratedJS)

	it := db.iteration(change.IterationID)
	require.NotNil(t, it)
	assert.Equal(t, models.IterationStatusCompleted, it.Status)
	require.NotNil(t, it.PreviousContent)
	assert.Equal(t, "Original about.", it.PreviousContent.About.Description)
}

func TestEnhance_sectionParseDegradesToWrappedText(t *testing.T) {
	db := newFakeDB()
	seedPortfolio(db)
	llm := &fakeLLM{responses: []core.CompletionResult{
		{Text: "Here's a friendlier about section."},
	}}
	svc := newTestService(db, llm, nil)

	change, err := svc.Enhance(context.Background(), "p-1", "rewrite it", models.SectionAbout)
	require.NoError(t, err)
	assert.True(t, change.Degraded)

	p := db.portfolio("p-1")
	assert.Equal(t, "Here's a friendlier about section.", p.Content.About.Description)

	it := db.iteration(change.IterationID)
	assert.Equal(t, models.IterationStatusCompleted, it.Status)
}

func TestEnhance_wholeDocumentMergePreservesContact(t *testing.T) {
	db := newFakeDB()
	seedPortfolio(db)
	// The revision carries a new bio and projects but no contact info.
	revision := `{
	  "hero": {"name": "Ada Lovelace", "title": "", "bio": "A sharper bio.", "social_links": {}},
	  "about": {"description": "", "highlights": []},
	  "projects": [{"title": "Notes", "description": "Annotated notes.", "tech_stack": []}],
	  "experience": [],
	  "education": [],
	  "contact": {}
	}`
	llm := &fakeLLM{responses: []core.CompletionResult{{Text: revision, TokensUsed: 7}}}
	svc := newTestService(db, llm, nil)

	change, err := svc.Enhance(context.Background(), "p-1", "refresh everything", "")
	require.NoError(t, err)

	p := db.portfolio("p-1")
	assert.Equal(t, "A sharper bio.", p.Content.Hero.Bio)
	assert.Equal(t, "ada@example.com", p.Content.Contact.Email)
	assert.Equal(t, "Original about.", p.Content.About.Description)
	require.Len(t, p.Content.Projects, 1)

	assert.Contains(t, change.ChangedSections, models.SectionHero)
	assert.Contains(t, change.ChangedSections, models.SectionProjects)
	assert.NotContains(t, change.ChangedSections, models.SectionContact)
}

func TestEnhance_unknownPortfolio(t *testing.T) {
	db := newFakeDB()
	svc := newTestService(db, &fakeLLM{}, nil)

	_, err := svc.Enhance(context.Background(), "missing", "prompt", "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestEnhance_invalidArguments(t *testing.T) {
	db := newFakeDB()
	seedPortfolio(db)
	svc := newTestService(db, &fakeLLM{}, nil)

	_, err := svc.Enhance(context.Background(), "p-1", "  ", "")
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Enhance(context.Background(), "p-1", "prompt", "skills")
	assert.True(t, apperr.IsValidation(err))
}

func TestEnhance_persistFailureFailsIteration(t *testing.T) {
	db := newFakeDB()
	seedPortfolio(db)
	db.failUpdateContent = true
	llm := &fakeLLM{responses: []core.CompletionResult{
		{Text: `{"about": {"description": "x", "highlights": []}}`},
	}}
	svc := newTestService(db, llm, nil)

	_, err := svc.Enhance(context.Background(), "p-1", "prompt", models.SectionAbout)
	require.Error(t, err)

	require.Len(t, db.iterations, 1)
	for _, it := range db.iterations {
		assert.Equal(t, models.IterationStatusFailed, it.Status)
	}
}

func TestIterationsReachOneTerminalStateExactlyOnce(t *testing.T) {
	db := newFakeDB()
	it := &models.Iteration{ID: "it-1", Status: models.IterationStatusPending}
	require.NoError(t, db.CreateIteration(context.Background(), it))

	require.NoError(t, db.CompleteIteration(context.Background(), "it-1", "p-1", 5, 100))
	// A second terminal write, of either flavor, is rejected.
	assert.Error(t, db.CompleteIteration(context.Background(), "it-1", "p-1", 5, 100))
	assert.Error(t, db.FailIteration(context.Background(), "it-1", "boom"))
	assert.Equal(t, models.IterationStatusCompleted, db.iteration("it-1").Status)
}
