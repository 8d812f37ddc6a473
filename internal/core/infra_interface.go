package core

import (
	"context"
	"time"

	"github.com/folioforge/folioforge/internal/models"
)

// DbClient defines all persistence operations the services need. It abstracts
// Postgres so higher layers never depend on a specific DB. Content documents
// cross this boundary typed; serialization happens inside the implementation.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreatePortfolio(ctx context.Context, p *models.Portfolio) error
	GetPortfolioByID(ctx context.Context, id string) (*models.Portfolio, error)
	GetPublishedPortfolioBySlug(ctx context.Context, ownerID, slug string) (*models.Portfolio, error)
	ListPortfoliosByUser(ctx context.Context, ownerID string) ([]models.Portfolio, error)
	SlugExists(ctx context.Context, ownerID, slug string) (bool, error)

	// UpdatePortfolioContent writes new content and clears the cached
	// artifact in the same statement, so no reader can pair new content
	// with a stale render.
	UpdatePortfolioContent(ctx context.Context, id string, content models.ContentDocument) error
	// UpdatePortfolioTemplate switches templates and clears the cached
	// artifact in the same statement.
	UpdatePortfolioTemplate(ctx context.Context, id, templateID string) error
	// UpdatePortfolioArtifacts stores a rendered html/css/js triple as one
	// unit, and only when the row's updated_at still equals readAt, the
	// value read alongside the content the artifact was rendered from. A
	// write that lost the race to a newer content or template write is
	// skipped and reported via stored=false, never an error.
	UpdatePortfolioArtifacts(ctx context.Context, id, html, css, js string, readAt time.Time) (stored bool, err error)
	UpdatePortfolioStatus(ctx context.Context, id, status string, publishedAt *time.Time) error
	IncrementViewCount(ctx context.Context, id string) error
	DeletePortfolio(ctx context.Context, id string) error

	CreateIteration(ctx context.Context, it *models.Iteration) error
	// CompleteIteration and FailIteration only act on pending records;
	// a record that already reached a terminal state is never rewritten.
	CompleteIteration(ctx context.Context, id, portfolioID string, tokensUsed int, processingMs int64) error
	FailIteration(ctx context.Context, id, errorMessage string) error
	ListIterationsByPortfolio(ctx context.Context, portfolioID string) ([]models.Iteration, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage, used for
// uploaded résumé files.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteFile(ctx context.Context, bucket, key string) error
}

// TextExtractor turns an uploaded résumé (PDF/DOC/...) into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}

// GitHubProfile is the subset of a user profile the generator prompts with.
type GitHubProfile struct {
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Company   string `json:"company,omitempty"`
	Location  string `json:"location,omitempty"`
	Blog      string `json:"blog,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Followers int    `json:"followers"`
	Repos     int    `json:"public_repos"`
}

// GitHubRepository is one repository summary, ordered by recency upstream.
type GitHubRepository struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	HTMLURL     string   `json:"html_url"`
	Homepage    string   `json:"homepage,omitempty"`
	PushedAt    string   `json:"pushed_at,omitempty"`
}

// ContributionCalendar is the aggregated contribution activity for a user.
type ContributionCalendar struct {
	Total int           `json:"total"`
	Weeks []ContribWeek `json:"weeks,omitempty"`
}

// ContribWeek is one week of contribution counts.
type ContribWeek struct {
	FirstDay string `json:"first_day"`
	Count    int    `json:"count"`
}

// SourceProvider is the source-data capability for github sources. Each call
// is independently fallible; the normalizer degrades to partial data rather
// than failing the request.
type SourceProvider interface {
	FetchProfile(ctx context.Context, username string) (*GitHubProfile, error)
	FetchRepositories(ctx context.Context, username string, limit int) ([]GitHubRepository, error)
	FetchPinnedRepositories(ctx context.Context, username string) ([]GitHubRepository, error)
	FetchLanguages(ctx context.Context, username string) (map[string]int, error)
	FetchContributionCalendar(ctx context.Context, username string) (*ContributionCalendar, error)
}
