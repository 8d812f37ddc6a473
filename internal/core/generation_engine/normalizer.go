package generation_engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/folioforge/folioforge/internal/core"
)

const defaultRepoLimit = 10

// Normalizer converts heterogeneous source descriptors into uniform
// {type, data} pairs ready for prompting. It is purely request-scoped and
// persists nothing.
type Normalizer struct {
	provider     core.SourceProvider
	llm          core.LLMProvider
	log          *zap.Logger
	fetchTimeout time.Duration
	repoLimit    int
}

func NewNormalizer(provider core.SourceProvider, llm core.LLMProvider, log *zap.Logger, fetchTimeout time.Duration) *Normalizer {
	if fetchTimeout <= 0 {
		fetchTimeout = 20 * time.Second
	}
	return &Normalizer{
		provider:     provider,
		llm:          llm,
		log:          log,
		fetchTimeout: fetchTimeout,
		repoLimit:    defaultRepoLimit,
	}
}

// Normalize processes all sources concurrently, preserving input order in
// the result. A failing source degrades to partial (or no) data; it never
// aborts the remaining sources.
func (n *Normalizer) Normalize(ctx context.Context, sources []SourceInput) []NormalizedSource {
	results := make([]*NormalizedSource, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = n.normalizeOne(gctx, src)
			return nil
		})
	}
	// Goroutines never return errors; degradation is per-source.
	_ = g.Wait()

	out := make([]NormalizedSource, 0, len(sources))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (n *Normalizer) normalizeOne(ctx context.Context, src SourceInput) *NormalizedSource {
	switch src.Type {
	case SourceTypeGitHub:
		if src.Username == "" {
			n.log.Warn("github source missing username, skipping")
			return nil
		}
		return &NormalizedSource{Type: SourceTypeGitHub, Data: n.fetchGitHub(ctx, src.Username)}

	case SourceTypeResume:
		if src.Text == "" {
			n.log.Warn("resume source missing text, skipping")
			return nil
		}
		return &NormalizedSource{Type: SourceTypeResume, Data: n.structureResume(ctx, src.Text)}

	case SourceTypePrompt:
		if src.Description == "" {
			n.log.Warn("prompt source missing description, skipping")
			return nil
		}
		return &NormalizedSource{Type: SourceTypePrompt, Data: PromptPayload{Description: src.Description}}

	case SourceTypeLinkedIn:
		if src.Profile == nil {
			n.log.Warn("linkedin source missing profile, skipping")
			return nil
		}
		return &NormalizedSource{Type: SourceTypeLinkedIn, Data: *src.Profile}

	default:
		n.log.Warn("unknown source type, skipping", zap.String("type", src.Type))
		return nil
	}
}

// fetchGitHub fans the five independent sub-fetches out concurrently and
// joins them. Each one degrades to its zero value on failure; a partial
// bundle is always better than failing the request.
func (n *Normalizer) fetchGitHub(ctx context.Context, username string) *GitHubBundle {
	bundle := &GitHubBundle{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := timed(gctx, n.fetchTimeout, func(c context.Context) (*core.GitHubProfile, error) {
			return n.provider.FetchProfile(c, username)
		})
		if err != nil {
			n.log.Warn("github profile fetch degraded", zap.String("username", username), zap.Error(err))
			return nil
		}
		bundle.Profile = p
		return nil
	})

	g.Go(func() error {
		r, err := timed(gctx, n.fetchTimeout, func(c context.Context) ([]core.GitHubRepository, error) {
			return n.provider.FetchRepositories(c, username, n.repoLimit)
		})
		if err != nil {
			n.log.Warn("github repo fetch degraded", zap.String("username", username), zap.Error(err))
			return nil
		}
		bundle.Repositories = r
		return nil
	})

	g.Go(func() error {
		p, err := timed(gctx, n.fetchTimeout, func(c context.Context) ([]core.GitHubRepository, error) {
			return n.provider.FetchPinnedRepositories(c, username)
		})
		if err != nil {
			n.log.Warn("github pinned fetch degraded", zap.String("username", username), zap.Error(err))
			return nil
		}
		bundle.Pinned = p
		return nil
	})

	g.Go(func() error {
		l, err := timed(gctx, n.fetchTimeout, func(c context.Context) (map[string]int, error) {
			return n.provider.FetchLanguages(c, username)
		})
		if err != nil {
			n.log.Warn("github language fetch degraded", zap.String("username", username), zap.Error(err))
			return nil
		}
		bundle.Languages = l
		return nil
	})

	g.Go(func() error {
		cal, err := timed(gctx, n.fetchTimeout, func(c context.Context) (*core.ContributionCalendar, error) {
			return n.provider.FetchContributionCalendar(c, username)
		})
		if err != nil {
			n.log.Warn("github contribution fetch degraded", zap.String("username", username), zap.Error(err))
			return nil
		}
		bundle.Contributions = cal
		return nil
	})

	_ = g.Wait()
	return bundle
}

// structureResume pre-structures résumé text into a partial document before
// it reaches the main generation prompt. If the structuring pass fails the
// raw text still rides along for the generator to use directly.
func (n *Normalizer) structureResume(ctx context.Context, text string) ResumePayload {
	payload := ResumePayload{Text: text}

	llmCtx, cancel := context.WithTimeout(ctx, n.fetchTimeout)
	defer cancel()

	res, err := n.llm.Complete(llmCtx, resumeStructureSystemPrompt, text)
	if err != nil {
		n.log.Warn("resume structuring degraded", zap.Error(err))
		return payload
	}

	doc, perr := ParseDocument(res.Text)
	if perr != nil {
		n.log.Warn("resume structuring output unparseable, keeping raw text", zap.Error(perr))
		return payload
	}
	payload.Structured = &doc
	return payload
}

// timed bounds one collaborator call; a timeout surfaces as an ordinary
// failure and degrades the same way.
func timed[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	c, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(c)
}
