package template_engine

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/apperr"
	"github.com/folioforge/folioforge/internal/models"
)

func sampleDoc() models.ContentDocument {
	doc := models.DefaultContentDocument()
	doc.Hero.Name = "Ada Lovelace"
	doc.Hero.Title = "Engineer"
	doc.Hero.Bio = "Builds analytical engines."
	doc.Hero.SocialLinks.GitHub = "https://github.com/ada"
	doc.About.Description = "Long-form about."
	doc.Projects = []models.Project{
		{Title: "Engine", Description: "An analytical engine.", TechStack: []string{"brass", "steam"}},
	}
	doc.Experience = []models.ExperienceEntry{
		{Company: "Analytical Society", Role: "Member", StartDate: "1840", Description: "Wrote the first program.", Highlights: []string{}},
	}
	doc.Contact.Email = "ada@example.com"
	return doc
}

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry()
	require.NoError(t, err)
	return reg
}

func TestNewRegistry_builtinsCompile(t *testing.T) {
	reg := mustRegistry(t)

	infos := reg.List()
	require.Len(t, infos, 3)
	assert.Equal(t, "minimal", infos[0].ID)
	assert.True(t, reg.Has("minimal"))
	assert.True(t, reg.Has("modern"))
	assert.True(t, reg.Has("creative"))
	assert.Equal(t, "minimal", reg.DefaultID())
}

func TestRender_isDeterministic(t *testing.T) {
	reg := mustRegistry(t)
	doc := sampleDoc()

	for _, id := range []string{"minimal", "modern", "creative"} {
		first, err := reg.Render(doc, id)
		require.NoError(t, err, id)
		second, err := reg.Render(doc, id)
		require.NoError(t, err, id)

		assert.Equal(t, first.HTML, second.HTML, id)
		assert.Equal(t, first.CSS, second.CSS, id)
		assert.Equal(t, first.JS, second.JS, id)
	}
}

func TestRender_containsContent(t *testing.T) {
	reg := mustRegistry(t)
	art, err := reg.Render(sampleDoc(), "minimal")
	require.NoError(t, err)

	assert.Contains(t, art.HTML, "Ada Lovelace")
	assert.Contains(t, art.HTML, "An analytical engine.")
	assert.Contains(t, art.HTML, "ada@example.com")
	assert.Contains(t, art.HTML, "<style>")
	assert.Contains(t, art.HTML, "https://github.com/ada")
}

func TestRender_emptyProjectsOmitsSection(t *testing.T) {
	reg := mustRegistry(t)

	doc := sampleDoc()
	doc.Projects = nil

	for _, id := range []string{"minimal", "modern", "creative"} {
		art, err := reg.Render(doc, id)
		require.NoError(t, err, id)
		assert.NotContains(t, art.HTML, `id="projects"`, id)

		withProjects, err := reg.Render(sampleDoc(), id)
		require.NoError(t, err, id)
		assert.Contains(t, withProjects.HTML, `id="projects"`, id)
	}
}

func TestRender_unknownTemplate(t *testing.T) {
	reg := mustRegistry(t)

	_, err := reg.Render(sampleDoc(), "brutalist")
	require.Error(t, err)
	assert.True(t, apperr.IsTemplateNotFound(err))
	assert.Equal(t, apperr.KindRender, apperr.KindOf(err))
}

func TestRender_escapesUserContent(t *testing.T) {
	reg := mustRegistry(t)

	doc := sampleDoc()
	doc.Hero.Bio = `<script>alert("xss")</script>`

	art, err := reg.Render(doc, "minimal")
	require.NoError(t, err)
	assert.NotContains(t, art.HTML, `<script>alert`)
}

func TestMetaDescription_truncatesOnRuneBoundary(t *testing.T) {
	doc := models.DefaultContentDocument()
	doc.Hero.Bio = strings.Repeat("界", 120)

	desc := metaDescription(doc)
	assert.True(t, utf8.ValidString(desc))
	assert.LessOrEqual(t, len(desc), 160)
	assert.Equal(t, strings.Repeat("界", 53), desc)
}

// renderDB stubs the two DbClient calls the engine makes. afterRead, when
// set, runs once between the engine's read and whatever it does next, which
// is how the tests interleave a concurrent content write.
type renderDB struct {
	core.DbClient

	mu             sync.Mutex
	portfolio      *models.Portfolio
	artifactWrites int
	afterRead      func()
}

func (f *renderDB) GetPortfolioByID(ctx context.Context, id string) (*models.Portfolio, error) {
	f.mu.Lock()
	if f.portfolio == nil || f.portfolio.ID != id {
		f.mu.Unlock()
		return nil, nil
	}
	cp := *f.portfolio
	hook := f.afterRead
	f.afterRead = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (f *renderDB) UpdatePortfolioArtifacts(ctx context.Context, id, html, css, js string, readAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.portfolio == nil || f.portfolio.ID != id || !f.portfolio.UpdatedAt.Equal(readAt) {
		return false, nil
	}
	f.artifactWrites++
	f.portfolio.GeneratedHTML = &html
	f.portfolio.GeneratedCSS = &css
	f.portfolio.GeneratedJS = &js
	return true, nil
}

func TestRenderPortfolio_cacheMissRendersAndStores(t *testing.T) {
	db := &renderDB{portfolio: &models.Portfolio{
		ID:         "p-1",
		TemplateID: "minimal",
		Content:    sampleDoc(),
	}}
	engine := NewEngine(mustRegistry(t), db, zap.NewNop())

	art, err := engine.RenderPortfolio(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Contains(t, art.HTML, "Ada Lovelace")
	assert.Equal(t, 1, db.artifactWrites)
	require.NotNil(t, db.portfolio.GeneratedHTML)
	assert.Equal(t, art.HTML, *db.portfolio.GeneratedHTML)
}

func TestRenderPortfolio_cacheHitSkipsRender(t *testing.T) {
	cachedHTML, cachedCSS, cachedJS := "<html>cached</html>", "cached{}", "cached();"
	db := &renderDB{portfolio: &models.Portfolio{
		ID:            "p-1",
		TemplateID:    "minimal",
		Content:       sampleDoc(),
		GeneratedHTML: &cachedHTML,
		GeneratedCSS:  &cachedCSS,
		GeneratedJS:   &cachedJS,
	}}
	engine := NewEngine(mustRegistry(t), db, zap.NewNop())

	art, err := engine.RenderPortfolio(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, cachedHTML, art.HTML)
	assert.Equal(t, cachedCSS, art.CSS)
	assert.Equal(t, cachedJS, art.JS)
	assert.Zero(t, db.artifactWrites)
}

func TestRenderPortfolio_staleRenderNotCachedAfterConcurrentWrite(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db := &renderDB{portfolio: &models.Portfolio{
		ID:         "p-1",
		TemplateID: "minimal",
		Content:    sampleDoc(),
		UpdatedAt:  t0,
	}}
	// An enhancement lands between the engine's read and its artifact
	// write-back: new content, cache cleared, updated_at bumped.
	db.afterRead = func() {
		db.mu.Lock()
		defer db.mu.Unlock()
		doc := sampleDoc()
		doc.Hero.Name = "Augusta King"
		db.portfolio.Content = doc
		db.portfolio.GeneratedHTML = nil
		db.portfolio.GeneratedCSS = nil
		db.portfolio.GeneratedJS = nil
		db.portfolio.UpdatedAt = t0.Add(time.Second)
	}
	engine := NewEngine(mustRegistry(t), db, zap.NewNop())

	// The first render serves the content it read, but its artifact lost
	// the race and must not be cached.
	first, err := engine.RenderPortfolio(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Contains(t, first.HTML, "Ada Lovelace")
	assert.Zero(t, db.artifactWrites)
	assert.Nil(t, db.portfolio.GeneratedHTML)

	// The next render sees the new content, never the stale artifact.
	second, err := engine.RenderPortfolio(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Contains(t, second.HTML, "Augusta King")
	assert.NotContains(t, second.HTML, "Ada Lovelace")
	assert.Equal(t, 1, db.artifactWrites)
	require.NotNil(t, db.portfolio.GeneratedHTML)
	assert.NotContains(t, *db.portfolio.GeneratedHTML, "Ada Lovelace")
}

func TestRenderPortfolio_missingPortfolio(t *testing.T) {
	engine := NewEngine(mustRegistry(t), &renderDB{}, zap.NewNop())

	_, err := engine.RenderPortfolio(context.Background(), "nope")
	assert.True(t, apperr.IsNotFound(err))
}

func TestRenderTransient_doesNotTouchStorage(t *testing.T) {
	db := &renderDB{}
	engine := NewEngine(mustRegistry(t), db, zap.NewNop())

	art, err := engine.RenderTransient(sampleDoc(), "modern")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(art.HTML, "<!DOCTYPE html>"))
	assert.Zero(t, db.artifactWrites)
}
