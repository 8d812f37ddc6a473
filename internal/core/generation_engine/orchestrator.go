package generation_engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/apperr"
	"github.com/folioforge/folioforge/internal/models"
)

// TemplateCatalog is the slice of the template registry the orchestrator
// needs for validating preferences.
type TemplateCatalog interface {
	Has(id string) bool
	DefaultID() string
}

// Service drives the two generation flows. Each call creates exactly one
// Iteration record and moves it to exactly one terminal state.
type Service struct {
	db         core.DbClient
	primary    core.LLMProvider
	fallback   core.LLMProvider
	normalizer *Normalizer
	catalog    TemplateCatalog
	log        *zap.Logger
	llmTimeout time.Duration
}

func NewService(
	db core.DbClient,
	primary, fallback core.LLMProvider,
	normalizer *Normalizer,
	catalog TemplateCatalog,
	log *zap.Logger,
	llmTimeout time.Duration,
) *Service {
	if llmTimeout <= 0 {
		llmTimeout = 90 * time.Second
	}
	return &Service{
		db:         db,
		primary:    primary,
		fallback:   fallback,
		normalizer: normalizer,
		catalog:    catalog,
		log:        log,
		llmTimeout: llmTimeout,
	}
}

// Generate runs the full flow: normalize sources, prompt the model, parse,
// persist a draft portfolio. All input validation happens before any
// external call.
func (s *Service) Generate(ctx context.Context, userID string, sources []SourceInput, prefs Preferences) (*PortfolioSummary, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	if len(sources) == 0 {
		return nil, apperr.Validation("at least one source is required")
	}
	for i, src := range sources {
		if err := validateSource(i, src); err != nil {
			return nil, err
		}
	}
	templateID := prefs.TemplateID
	if templateID == "" {
		templateID = s.catalog.DefaultID()
	}
	if !s.catalog.Has(templateID) {
		return nil, apperr.Validation("unknown template %q", templateID)
	}

	iter := &models.Iteration{
		ID:            uuid.NewString(),
		Prompt:        describeRequest(sources, prefs),
		IterationType: models.IterationTypeGenerate,
		Status:        models.IterationStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.db.CreateIteration(ctx, iter); err != nil {
		return nil, fmt.Errorf("create iteration: %w", err)
	}
	start := time.Now()

	normalized := s.normalizer.Normalize(ctx, sources)
	if len(normalized) == 0 {
		return nil, s.fail(ctx, iter.ID, apperr.Validation("no usable sources after normalization"))
	}

	userPrompt, err := buildGenerationPrompt(normalized, prefs)
	if err != nil {
		return nil, s.fail(ctx, iter.ID, err)
	}

	res, err := s.complete(ctx, generateSystemPrompt, userPrompt)
	if err != nil {
		return nil, s.fail(ctx, iter.ID, err)
	}

	doc, perr := ParseDocument(res.Text)
	if perr != nil {
		// The fallback document is the empty shape; with nothing usable
		// recovered this is a generation failure, not a crash.
		return nil, s.fail(ctx, iter.ID, apperr.External("llm", "model output could not be parsed", perr))
	}

	title := deriveTitle(doc)
	slug, err := uniqueSlug(ctx, s.db, userID, title)
	if err != nil {
		return nil, s.fail(ctx, iter.ID, err)
	}

	now := time.Now()
	p := &models.Portfolio{
		ID:         uuid.NewString(),
		OwnerID:    userID,
		Title:      title,
		Slug:       slug,
		Status:     models.PortfolioStatusDraft,
		TemplateID: templateID,
		Content:    doc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.CreatePortfolio(ctx, p); err != nil {
		return nil, s.fail(ctx, iter.ID, fmt.Errorf("persist portfolio: %w", err))
	}

	s.completeIteration(ctx, iter.ID, p.ID, res.TokensUsed, time.Since(start))

	degraded := anyResumeDegraded(normalized)
	if degraded {
		s.log.Warn("resume structuring degraded, generation ran on raw text",
			zap.String("portfolio_id", p.ID))
	}

	return &PortfolioSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Status:      p.Status,
		TemplateID:  p.TemplateID,
		IterationID: iter.ID,
		TokensUsed:  res.TokensUsed,
		Degraded:    degraded,
	}, nil
}

// anyResumeDegraded reports whether any résumé source rode through as raw
// text because its pre-structuring pass fell back.
func anyResumeDegraded(normalized []NormalizedSource) bool {
	for _, ns := range normalized {
		if rp, ok := ns.Data.(ResumePayload); ok && rp.Structured == nil {
			return true
		}
	}
	return false
}

// Enhance applies a targeted or whole-document enhancement to an existing
// portfolio. The content write clears the cached artifact.
func (s *Service) Enhance(ctx context.Context, portfolioID, prompt, section string) (*ChangeSummary, error) {
	if portfolioID == "" {
		return nil, apperr.Validation("portfolio id is required")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, apperr.Validation("prompt is required")
	}
	if section != "" && !models.ValidSection(section) {
		return nil, apperr.Validation("unknown section %q", section)
	}

	p, err := s.db.GetPortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("portfolio %s not found", portfolioID)
	}

	snapshot := p.Content.Clone()
	iter := &models.Iteration{
		ID:              uuid.NewString(),
		PortfolioID:     p.ID,
		Prompt:          prompt,
		IterationType:   models.IterationTypeEnhance,
		Status:          models.IterationStatusPending,
		PreviousContent: &snapshot,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.db.CreateIteration(ctx, iter); err != nil {
		return nil, fmt.Errorf("create iteration: %w", err)
	}
	start := time.Now()

	var (
		newDoc   models.ContentDocument
		changed  []string
		degraded bool
	)

	if section != "" {
		userPrompt, err := buildSectionPrompt(p.Content, section, prompt)
		if err != nil {
			return nil, s.fail(ctx, iter.ID, err)
		}
		res, err := s.complete(ctx, fmt.Sprintf(sectionSystemPrompt, section), userPrompt)
		if err != nil {
			return nil, s.fail(ctx, iter.ID, err)
		}
		frag, perr := ParseSection(res.Text, section)
		newDoc = p.Content.Clone()
		if err := newDoc.ReplaceSection(section, frag); err != nil {
			return nil, s.fail(ctx, iter.ID, err)
		}
		changed = []string{section}
		degraded = apperr.IsParseDegraded(perr)
		iter.TokensUsed = res.TokensUsed
	} else {
		// Whole-document enhancement reuses the full generation flow with
		// the prompt as a prompt-type source, then merges over the
		// existing document: new overrides old, old fills gaps.
		normalized := []NormalizedSource{
			{Type: SourceTypePrompt, Data: PromptPayload{Description: prompt}},
		}
		userPrompt, err := buildGenerationPrompt(normalized, Preferences{})
		if err != nil {
			return nil, s.fail(ctx, iter.ID, err)
		}
		res, err := s.complete(ctx, generateSystemPrompt, userPrompt)
		if err != nil {
			return nil, s.fail(ctx, iter.ID, err)
		}
		next, perr := ParseDocument(res.Text)
		if perr != nil {
			return nil, s.fail(ctx, iter.ID, apperr.External("llm", "model output could not be parsed", perr))
		}
		newDoc = models.Merge(p.Content, next)
		changed = diffSections(p.Content, newDoc)
		iter.TokensUsed = res.TokensUsed
	}

	if err := s.db.UpdatePortfolioContent(ctx, p.ID, newDoc); err != nil {
		return nil, s.fail(ctx, iter.ID, fmt.Errorf("persist content: %w", err))
	}

	s.completeIteration(ctx, iter.ID, p.ID, iter.TokensUsed, time.Since(start))

	summary := &ChangeSummary{
		PortfolioID:     p.ID,
		Section:         section,
		ChangedSections: changed,
		IterationID:     iter.ID,
		TokensUsed:      iter.TokensUsed,
		Degraded:        degraded,
	}
	if degraded {
		s.log.Warn("enhancement parse degraded, raw text wrapped into section",
			zap.String("portfolio_id", p.ID), zap.String("section", section))
	}
	return summary, nil
}

// complete invokes the primary model; an overload condition earns exactly one
// retry on the lower-capability fallback model. Every other failure,
// timeouts included, is terminal for the attempt.
func (s *Service) complete(ctx context.Context, systemPrompt, userPrompt string) (core.CompletionResult, error) {
	res, err := timed(ctx, s.llmTimeout, func(c context.Context) (core.CompletionResult, error) {
		return s.primary.Complete(c, systemPrompt, userPrompt)
	})
	if err == nil {
		return res, nil
	}
	if errors.Is(err, apperr.ErrModelOverloaded) && s.fallback != nil {
		s.log.Warn("primary model overloaded, retrying on fallback", zap.Error(err))
		res, err2 := timed(ctx, s.llmTimeout, func(c context.Context) (core.CompletionResult, error) {
			return s.fallback.Complete(c, systemPrompt, userPrompt)
		})
		if err2 == nil {
			return res, nil
		}
		return core.CompletionResult{}, apperr.External("llm", "fallback model failed", err2)
	}
	return core.CompletionResult{}, apperr.External("llm", "model invocation failed", err)
}

// fail moves the iteration to its failed terminal state and passes the error
// through. The terminal write uses a detached context so a disconnected
// caller cannot leave the record pending.
func (s *Service) fail(ctx context.Context, iterationID string, err error) error {
	if dbErr := s.db.FailIteration(context.WithoutCancel(ctx), iterationID, err.Error()); dbErr != nil {
		s.log.Error("failed to mark iteration failed",
			zap.String("iteration_id", iterationID), zap.Error(dbErr))
	}
	return err
}

func (s *Service) completeIteration(ctx context.Context, iterationID, portfolioID string, tokens int, elapsed time.Duration) {
	err := s.db.CompleteIteration(context.WithoutCancel(ctx), iterationID, portfolioID, tokens, elapsed.Milliseconds())
	if err != nil {
		s.log.Error("failed to mark iteration completed",
			zap.String("iteration_id", iterationID), zap.Error(err))
	}
}

func validateSource(i int, src SourceInput) error {
	switch src.Type {
	case SourceTypeGitHub:
		if src.Username == "" {
			return apperr.Validation("source %d: github source requires a username", i)
		}
	case SourceTypeResume:
		if strings.TrimSpace(src.Text) == "" {
			return apperr.Validation("source %d: resume source requires extracted text", i)
		}
	case SourceTypePrompt:
		if strings.TrimSpace(src.Description) == "" {
			return apperr.Validation("source %d: prompt source requires a description", i)
		}
	case SourceTypeLinkedIn, "":
		// Empty and linkedin types are tolerated here: unknown or
		// incomplete sources are logged and skipped by the normalizer.
	}
	return nil
}

func deriveTitle(doc models.ContentDocument) string {
	if name := strings.TrimSpace(doc.Hero.Name); name != "" {
		return name + " Portfolio"
	}
	if title := strings.TrimSpace(doc.Hero.Title); title != "" {
		return title
	}
	return "My Portfolio"
}

func describeRequest(sources []SourceInput, prefs Preferences) string {
	kinds := make([]string, 0, len(sources))
	for _, s := range sources {
		kinds = append(kinds, s.Type)
	}
	desc := "generate from " + strings.Join(kinds, ", ")
	if prefs.ExtraInstructions != "" {
		desc += ": " + prefs.ExtraInstructions
	}
	return desc
}

func diffSections(old, next models.ContentDocument) []string {
	var changed []string
	if !reflect.DeepEqual(old.Hero, next.Hero) {
		changed = append(changed, models.SectionHero)
	}
	if !reflect.DeepEqual(old.About, next.About) {
		changed = append(changed, models.SectionAbout)
	}
	if !reflect.DeepEqual(old.Projects, next.Projects) {
		changed = append(changed, models.SectionProjects)
	}
	if !reflect.DeepEqual(old.Experience, next.Experience) {
		changed = append(changed, models.SectionExperience)
	}
	if !reflect.DeepEqual(old.Education, next.Education) {
		changed = append(changed, models.SectionEducation)
	}
	if !reflect.DeepEqual(old.Contact, next.Contact) {
		changed = append(changed, models.SectionContact)
	}
	return changed
}
