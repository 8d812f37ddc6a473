package generation_engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/models"
)

// fakeDB implements the slice of core.DbClient the generation flows touch.
// The embedded interface panics on anything unexpected, which is exactly what
// a test should do.
type fakeDB struct {
	core.DbClient

	mu         sync.Mutex
	portfolios map[string]*models.Portfolio
	iterations map[string]*models.Iteration
	slugs      map[string]bool

	failCreatePortfolio bool
	failUpdateContent   bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		portfolios: make(map[string]*models.Portfolio),
		iterations: make(map[string]*models.Iteration),
		slugs:      make(map[string]bool),
	}
}

func slugKey(ownerID, slug string) string { return ownerID + "/" + slug }

func (f *fakeDB) SlugExists(ctx context.Context, ownerID, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slugs[slugKey(ownerID, slug)], nil
}

func (f *fakeDB) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreatePortfolio {
		return errors.New("insert failed")
	}
	cp := *p
	f.portfolios[p.ID] = &cp
	f.slugs[slugKey(p.OwnerID, p.Slug)] = true
	return nil
}

func (f *fakeDB) GetPortfolioByID(ctx context.Context, id string) (*models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.portfolios[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeDB) UpdatePortfolioContent(ctx context.Context, id string, content models.ContentDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateContent {
		return errors.New("update failed")
	}
	p, ok := f.portfolios[id]
	if !ok {
		return errors.New("no such portfolio")
	}
	p.Content = content
	p.GeneratedHTML = nil
	p.GeneratedCSS = nil
	p.GeneratedJS = nil
	return nil
}

func (f *fakeDB) CreateIteration(ctx context.Context, it *models.Iteration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *it
	f.iterations[it.ID] = &cp
	return nil
}

func (f *fakeDB) CompleteIteration(ctx context.Context, id, portfolioID string, tokensUsed int, processingMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.iterations[id]
	if !ok || it.Status != models.IterationStatusPending {
		return fmt.Errorf("iteration %s is not pending", id)
	}
	it.Status = models.IterationStatusCompleted
	it.PortfolioID = portfolioID
	it.TokensUsed = tokensUsed
	it.ProcessingMs = processingMs
	return nil
}

func (f *fakeDB) FailIteration(ctx context.Context, id, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.iterations[id]
	if !ok || it.Status != models.IterationStatusPending {
		return fmt.Errorf("iteration %s is not pending", id)
	}
	it.Status = models.IterationStatusFailed
	it.ErrorMessage = errorMessage
	return nil
}

func (f *fakeDB) iteration(id string) *models.Iteration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.iterations[id]
}

func (f *fakeDB) portfolio(id string) *models.Portfolio {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.portfolios[id]
}

// fakeLLM returns a scripted sequence of responses, one per call.
type fakeLLM struct {
	mu        sync.Mutex
	responses []core.CompletionResult
	errs      []error
	calls     int
}

func (f *fakeLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (core.CompletionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return core.CompletionResult{}, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return core.CompletionResult{}, errors.New("no scripted response")
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCatalog accepts a fixed template set with "minimal" as the default.
type fakeCatalog struct{}

func (fakeCatalog) Has(id string) bool { return id == "minimal" || id == "modern" }
func (fakeCatalog) DefaultID() string  { return "minimal" }

// fakeProvider scripts the five GitHub sub-fetches independently.
type fakeProvider struct {
	profile     *core.GitHubProfile
	profileErr  error
	repos       []core.GitHubRepository
	reposErr    error
	pinned      []core.GitHubRepository
	pinnedErr   error
	languages   map[string]int
	languageErr error
	calendar    *core.ContributionCalendar
	calendarErr error
}

func (f *fakeProvider) FetchProfile(ctx context.Context, username string) (*core.GitHubProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeProvider) FetchRepositories(ctx context.Context, username string, limit int) ([]core.GitHubRepository, error) {
	return f.repos, f.reposErr
}

func (f *fakeProvider) FetchPinnedRepositories(ctx context.Context, username string) ([]core.GitHubRepository, error) {
	return f.pinned, f.pinnedErr
}

func (f *fakeProvider) FetchLanguages(ctx context.Context, username string) (map[string]int, error) {
	return f.languages, f.languageErr
}

func (f *fakeProvider) FetchContributionCalendar(ctx context.Context, username string) (*core.ContributionCalendar, error) {
	return f.calendar, f.calendarErr
}
