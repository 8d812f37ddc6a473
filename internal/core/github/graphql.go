package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/folioforge/folioforge/internal/core"
)

const graphqlEndpoint = "https://api.github.com/graphql"

const pinnedQuery = `
query($login: String!) {
  user(login: $login) {
    pinnedItems(first: 6, types: REPOSITORY) {
      nodes {
        ... on Repository {
          name
          description
          url
          homepageUrl
          stargazerCount
          forkCount
          primaryLanguage { name }
          repositoryTopics(first: 10) { nodes { topic { name } } }
        }
      }
    }
  }
}`

const contributionsQuery = `
query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          firstDay
          contributionDays { contributionCount }
        }
      }
    }
  }
}`

// FetchPinnedRepositories returns the user's pinned repositories. Pinned
// items only exist on the GraphQL API, so this requires a token.
func (c *Client) FetchPinnedRepositories(ctx context.Context, username string) ([]core.GitHubRepository, error) {
	var resp struct {
		Data struct {
			User struct {
				PinnedItems struct {
					Nodes []struct {
						Name            string `json:"name"`
						Description     string `json:"description"`
						URL             string `json:"url"`
						HomepageURL     string `json:"homepageUrl"`
						StargazerCount  int    `json:"stargazerCount"`
						ForkCount       int    `json:"forkCount"`
						PrimaryLanguage struct {
							Name string `json:"name"`
						} `json:"primaryLanguage"`
						RepositoryTopics struct {
							Nodes []struct {
								Topic struct {
									Name string `json:"name"`
								} `json:"topic"`
							} `json:"nodes"`
						} `json:"repositoryTopics"`
					} `json:"nodes"`
				} `json:"pinnedItems"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := c.graphql(ctx, pinnedQuery, username, &resp); err != nil {
		return nil, fmt.Errorf("github pinned %q: %w", username, err)
	}

	nodes := resp.Data.User.PinnedItems.Nodes
	out := make([]core.GitHubRepository, 0, len(nodes))
	for _, n := range nodes {
		topics := make([]string, 0, len(n.RepositoryTopics.Nodes))
		for _, t := range n.RepositoryTopics.Nodes {
			topics = append(topics, t.Topic.Name)
		}
		out = append(out, core.GitHubRepository{
			Name:        n.Name,
			Description: n.Description,
			Language:    n.PrimaryLanguage.Name,
			Topics:      topics,
			Stars:       n.StargazerCount,
			Forks:       n.ForkCount,
			HTMLURL:     n.URL,
			Homepage:    n.HomepageURL,
		})
	}
	return out, nil
}

// FetchContributionCalendar returns the past year of contribution activity.
func (c *Client) FetchContributionCalendar(ctx context.Context, username string) (*core.ContributionCalendar, error) {
	var resp struct {
		Data struct {
			User struct {
				ContributionsCollection struct {
					ContributionCalendar struct {
						TotalContributions int `json:"totalContributions"`
						Weeks              []struct {
							FirstDay         string `json:"firstDay"`
							ContributionDays []struct {
								ContributionCount int `json:"contributionCount"`
							} `json:"contributionDays"`
						} `json:"weeks"`
					} `json:"contributionCalendar"`
				} `json:"contributionsCollection"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := c.graphql(ctx, contributionsQuery, username, &resp); err != nil {
		return nil, fmt.Errorf("github contributions %q: %w", username, err)
	}

	cal := resp.Data.User.ContributionsCollection.ContributionCalendar
	out := &core.ContributionCalendar{Total: cal.TotalContributions}
	for _, w := range cal.Weeks {
		count := 0
		for _, d := range w.ContributionDays {
			count += d.ContributionCount
		}
		out.Weeks = append(out.Weeks, core.ContribWeek{FirstDay: w.FirstDay, Count: count})
	}
	return out, nil
}

func (c *Client) graphql(ctx context.Context, query, login string, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]string{"login": login},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graphql status %d: %s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
