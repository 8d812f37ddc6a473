package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/folioforge/folioforge/internal/core"
)

var _ core.SourceProvider = (*Client)(nil)

// FetchProfile returns the public profile for a username.
func (c *Client) FetchProfile(ctx context.Context, username string) (*core.GitHubProfile, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	u, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("github profile %q: %w", username, err)
	}
	return &core.GitHubProfile{
		Username:  u.GetLogin(),
		Name:      u.GetName(),
		Bio:       u.GetBio(),
		Company:   u.GetCompany(),
		Location:  u.GetLocation(),
		Blog:      u.GetBlog(),
		AvatarURL: u.GetAvatarURL(),
		Followers: u.GetFollowers(),
		Repos:     u.GetPublicRepos(),
	}, nil
}

// FetchRepositories returns up to limit public repositories ordered by most
// recently pushed; project listing order downstream derives from this.
func (c *Client) FetchRepositories(ctx context.Context, username string, limit int) ([]core.GitHubRepository, error) {
	if limit <= 0 {
		limit = 10
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	repos, _, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, fmt.Errorf("github repos %q: %w", username, err)
	}

	out := make([]core.GitHubRepository, 0, len(repos))
	for _, r := range repos {
		if r.GetFork() || r.GetArchived() {
			continue
		}
		out = append(out, convertRepo(r))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// FetchLanguages aggregates byte counts per language across the user's
// recently pushed repositories.
func (c *Client) FetchLanguages(ctx context.Context, username string) (map[string]int, error) {
	repos, err := c.FetchRepositories(ctx, username, 20)
	if err != nil {
		return nil, err
	}
	agg := make(map[string]int)
	for _, r := range repos {
		if err := c.wait(ctx); err != nil {
			return agg, err
		}
		langs, _, err := c.gh.Repositories.ListLanguages(ctx, username, r.Name)
		if err != nil {
			// Skip the repo; partial aggregation beats none.
			continue
		}
		for lang, bytes := range langs {
			agg[lang] += bytes
		}
	}
	return agg, nil
}

func convertRepo(r *gh.Repository) core.GitHubRepository {
	pushed := ""
	if t := r.GetPushedAt(); !t.IsZero() {
		pushed = t.Format(time.RFC3339)
	}
	return core.GitHubRepository{
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Topics:      r.Topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		HTMLURL:     r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		PushedAt:    pushed,
	}
}
