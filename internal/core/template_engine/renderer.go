package template_engine

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/apperr"
	"github.com/folioforge/folioforge/internal/models"
)

// Artifact is one rendered html/css/js triple. HTML is the complete
// self-contained page with the CSS and JS inlined; CSS and JS are also kept
// separate for callers that serve them independently.
type Artifact struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// renderData is what template bodies execute against. The presence flags
// drive conditional sections; templates branch on them, never on raw data.
type renderData struct {
	Doc           models.ContentDocument
	HasAbout      bool
	HasProjects   bool
	HasExperience bool
	HasEducation  bool
	HasContact    bool
	HasSocial     bool
}

var pageShell = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<style>{{.CSS}}</style>
</head>
<body>
{{.Body}}
<script>{{.JS}}</script>
</body>
</html>
`))

type shellData struct {
	Title       string
	Description string
	Body        template.HTML
	CSS         template.CSS
	JS          template.JS
}

// Render maps a document and a template id to an artifact. It is a pure
// function of its inputs: identical (document, templateID) pairs produce
// byte-identical artifacts, which the cache-coherence contract depends on.
func (r *Registry) Render(doc models.ContentDocument, templateID string) (*Artifact, error) {
	def := r.Get(templateID)
	if def == nil {
		return nil, apperr.Render(fmt.Sprintf("template %q", templateID), apperr.ErrTemplateNotFound)
	}

	// The template body must never observe a missing key or nil slice.
	doc.ApplyDefaults()

	data := renderData{
		Doc:           doc,
		HasAbout:      doc.About.Description != "" || len(doc.About.Highlights) > 0,
		HasProjects:   len(doc.Projects) > 0,
		HasExperience: len(doc.Experience) > 0,
		HasEducation:  len(doc.Education) > 0,
		HasContact:    doc.Contact.Email != "" || doc.Contact.Phone != "" || doc.Contact.Message != "",
		HasSocial:     doc.Hero.SocialLinks != (models.SocialLinks{}),
	}

	var body bytes.Buffer
	if err := def.Body.Execute(&body, data); err != nil {
		return nil, apperr.Render(fmt.Sprintf("execute template %q", templateID), err)
	}

	var page bytes.Buffer
	err := pageShell.Execute(&page, shellData{
		Title:       metaTitle(doc),
		Description: metaDescription(doc),
		Body:        template.HTML(body.String()),
		CSS:         template.CSS(def.CSS),
		JS:          template.JS(def.JS),
	})
	if err != nil {
		return nil, apperr.Render(fmt.Sprintf("assemble page for %q", templateID), err)
	}

	return &Artifact{HTML: page.String(), CSS: def.CSS, JS: def.JS}, nil
}

// Engine is the persistence-aware render surface: cache-first reads and
// write-through artifact storage on top of the pure Registry.Render.
type Engine struct {
	reg *Registry
	db  core.DbClient
	log *zap.Logger
}

func NewEngine(reg *Registry, db core.DbClient, log *zap.Logger) *Engine {
	return &Engine{reg: reg, db: db, log: log}
}

// Registry exposes the immutable template registry.
func (e *Engine) Registry() *Registry { return e.reg }

// ListTemplates returns the listing metadata for every template.
func (e *Engine) ListTemplates() []TemplateInfo { return e.reg.List() }

// RenderTransient renders unsaved content for live preview; nothing is
// persisted.
func (e *Engine) RenderTransient(doc models.ContentDocument, templateID string) (*Artifact, error) {
	return e.reg.Render(doc, templateID)
}

// RenderPortfolio serves the cached artifact when one exists for the current
// content/template pair, renders and stores it otherwise. The artifact is
// written as one unit, guarded by the updated_at value read with the
// portfolio: a render that lost the race to a concurrent content or template
// write must not cache its now-stale output. A skipped or failed write only
// costs a re-render next time.
func (e *Engine) RenderPortfolio(ctx context.Context, portfolioID string) (*Artifact, error) {
	p, err := e.db.GetPortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("portfolio %s not found", portfolioID)
	}

	if p.HasArtifact() {
		return &Artifact{HTML: *p.GeneratedHTML, CSS: *p.GeneratedCSS, JS: *p.GeneratedJS}, nil
	}

	art, err := e.reg.Render(p.Content, p.TemplateID)
	if err != nil {
		return nil, err
	}

	stored, err := e.db.UpdatePortfolioArtifacts(ctx, p.ID, art.HTML, art.CSS, art.JS, p.UpdatedAt)
	switch {
	case err != nil:
		e.log.Warn("artifact cache write failed",
			zap.String("portfolio_id", p.ID), zap.Error(err))
	case !stored:
		e.log.Info("artifact cache write skipped, content changed since read",
			zap.String("portfolio_id", p.ID))
	}
	return art, nil
}

func metaTitle(doc models.ContentDocument) string {
	if name := strings.TrimSpace(doc.Hero.Name); name != "" {
		return name
	}
	return "Portfolio"
}

func metaDescription(doc models.ContentDocument) string {
	desc := strings.TrimSpace(doc.Hero.Bio)
	if desc == "" {
		desc = strings.TrimSpace(doc.About.Description)
	}
	if len(desc) > 160 {
		end := 160
		// Back up to a rune start so the cut never splits a multi-byte rune.
		for end > 0 && !utf8.RuneStart(desc[end]) {
			end--
		}
		desc = desc[:end]
	}
	return desc
}
