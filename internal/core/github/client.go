// Package github implements the source-data provider on top of the GitHub
// REST API (go-github), with the pinned-repository and contribution-calendar
// lookups going through the GraphQL endpoint, which is the only place GitHub
// exposes them.
package github

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every upstream request.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate throttles to ~1.2 req/sec, well under the
	// authenticated 5000/hour quota.
	ProactiveRate = 1.2
)

// Client wraps the go-github client plus the raw HTTP client used for
// GraphQL calls.
type Client struct {
	gh      *gh.Client
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client. With an empty token the REST calls run
// unauthenticated (low quota) and the GraphQL-backed lookups fail, which the
// normalizer degrades around.
func NewClient(token string) *Client {
	var httpc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpc = oauth2.NewClient(context.Background(), ts)
	} else {
		httpc = &http.Client{}
	}
	httpc.Timeout = DefaultTimeout

	return &Client{
		gh:      gh.NewClient(httpc),
		httpc:   httpc,
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// wait blocks until the proactive throttle allows another request.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}
