package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/folioforge/folioforge/internal/config"
	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, first_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.FirstName, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, first_name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.FirstName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Portfolios
//
// Content documents are typed everywhere above this file; JSONB
// marshal/unmarshal happens only here, at the persistence edge.

const portfolioColumns = `
	id, owner_id, title, slug, status, template_id, content,
	generated_html, generated_css, generated_js,
	view_count, is_public, published_at, created_at, updated_at
`

func (c *DatabaseClient) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	if p == nil {
		return errors.New("nil portfolio")
	}
	content, err := json.Marshal(p.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	const q = `
		INSERT INTO portfolios
			(id, owner_id, title, slug, status, template_id, content, is_public, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($10, now()))
	`
	_, err = c.db.ExecContext(ctx, q,
		p.ID, p.OwnerID, p.Title, p.Slug, p.Status, p.TemplateID, content, p.IsPublic, p.CreatedAt, p.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetPortfolioByID(ctx context.Context, id string) (*models.Portfolio, error) {
	const q = `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`
	return c.scanPortfolio(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) GetPublishedPortfolioBySlug(ctx context.Context, ownerID, slug string) (*models.Portfolio, error) {
	const q = `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE owner_id = $1 AND slug = $2 AND status = 'published' AND is_public
	`
	return c.scanPortfolio(c.db.QueryRowContext(ctx, q, ownerID, slug))
}

func (c *DatabaseClient) ListPortfoliosByUser(ctx context.Context, ownerID string) ([]models.Portfolio, error) {
	const q = `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Portfolio
	for rows.Next() {
		p, err := c.scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) SlugExists(ctx context.Context, ownerID, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM portfolios WHERE owner_id = $1 AND slug = $2)`
	var exists bool
	err := c.db.QueryRowContext(ctx, q, ownerID, slug).Scan(&exists)
	return exists, err
}

// UpdatePortfolioContent writes the content and nulls the cached artifact in
// one statement, keeping cache invalidation atomic with the content write.
func (c *DatabaseClient) UpdatePortfolioContent(ctx context.Context, id string, content models.ContentDocument) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	const q = `
		UPDATE portfolios
		SET content = $2,
		    generated_html = NULL, generated_css = NULL, generated_js = NULL,
		    updated_at = now()
		WHERE id = $1
	`
	return c.execExpectingRow(ctx, q, id, raw)
}

func (c *DatabaseClient) UpdatePortfolioTemplate(ctx context.Context, id, templateID string) error {
	const q = `
		UPDATE portfolios
		SET template_id = $2,
		    generated_html = NULL, generated_css = NULL, generated_js = NULL,
		    updated_at = now()
		WHERE id = $1
	`
	return c.execExpectingRow(ctx, q, id, templateID)
}

// UpdatePortfolioArtifacts stores the rendered triple as a unit. The
// updated_at predicate drops a write whose source content has since been
// replaced; derived artifacts never bump updated_at themselves.
func (c *DatabaseClient) UpdatePortfolioArtifacts(ctx context.Context, id, html, css, js string, readAt time.Time) (bool, error) {
	const q = `
		UPDATE portfolios
		SET generated_html = $2, generated_css = $3, generated_js = $4
		WHERE id = $1 AND updated_at = $5
	`
	res, err := c.db.ExecContext(ctx, q, id, html, css, js, readAt)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (c *DatabaseClient) UpdatePortfolioStatus(ctx context.Context, id, status string, publishedAt *time.Time) error {
	const q = `
		UPDATE portfolios
		SET status = $2, is_public = ($2 = 'published'), published_at = $3, updated_at = now()
		WHERE id = $1
	`
	return c.execExpectingRow(ctx, q, id, status, publishedAt)
}

func (c *DatabaseClient) IncrementViewCount(ctx context.Context, id string) error {
	const q = `UPDATE portfolios SET view_count = view_count + 1 WHERE id = $1`
	_, err := c.db.ExecContext(ctx, q, id)
	return err
}

func (c *DatabaseClient) DeletePortfolio(ctx context.Context, id string) error {
	const q = `DELETE FROM portfolios WHERE id = $1`
	return c.execExpectingRow(ctx, q, id)
}

// Iterations

func (c *DatabaseClient) CreateIteration(ctx context.Context, it *models.Iteration) error {
	if it == nil {
		return errors.New("nil iteration")
	}
	var prev []byte
	if it.PreviousContent != nil {
		var err error
		prev, err = json.Marshal(it.PreviousContent)
		if err != nil {
			return fmt.Errorf("marshal previous content: %w", err)
		}
	}
	const q = `
		INSERT INTO iterations
			(id, portfolio_id, prompt, iteration_type, status, previous_content, created_at, updated_at)
		VALUES
			($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, COALESCE($7, now()), COALESCE($8, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		it.ID, it.PortfolioID, it.Prompt, it.IterationType, it.Status, prev, it.CreatedAt, it.UpdatedAt)
	return err
}

// CompleteIteration moves a pending record to completed. The status guard in
// the WHERE clause enforces terminality: a record already completed or failed
// is never rewritten.
func (c *DatabaseClient) CompleteIteration(ctx context.Context, id, portfolioID string, tokensUsed int, processingMs int64) error {
	const q = `
		UPDATE iterations
		SET status = 'completed',
		    portfolio_id = COALESCE(NULLIF($2, '')::uuid, portfolio_id),
		    tokens_used = $3, processing_ms = $4, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := c.db.ExecContext(ctx, q, id, portfolioID, tokensUsed, processingMs)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("iteration %s is not pending", id)
	}
	return nil
}

func (c *DatabaseClient) FailIteration(ctx context.Context, id, errorMessage string) error {
	const q = `
		UPDATE iterations
		SET status = 'failed', error_message = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := c.db.ExecContext(ctx, q, id, errorMessage)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("iteration %s is not pending", id)
	}
	return nil
}

func (c *DatabaseClient) ListIterationsByPortfolio(ctx context.Context, portfolioID string) ([]models.Iteration, error) {
	const q = `
		SELECT id, COALESCE(portfolio_id::text, ''), prompt, iteration_type, status,
		       previous_content, tokens_used, processing_ms, error_message, created_at, updated_at
		FROM iterations
		WHERE portfolio_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Iteration
	for rows.Next() {
		var it models.Iteration
		var prev []byte
		if err := rows.Scan(
			&it.ID, &it.PortfolioID, &it.Prompt, &it.IterationType, &it.Status,
			&prev, &it.TokensUsed, &it.ProcessingMs, &it.ErrorMessage, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(prev) > 0 {
			var doc models.ContentDocument
			if err := json.Unmarshal(prev, &doc); err != nil {
				return nil, fmt.Errorf("unmarshal previous content: %w", err)
			}
			doc.ApplyDefaults()
			it.PreviousContent = &doc
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (c *DatabaseClient) scanPortfolio(row scanner) (*models.Portfolio, error) {
	var p models.Portfolio
	var content []byte
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Slug, &p.Status, &p.TemplateID, &content,
		&p.GeneratedHTML, &p.GeneratedCSS, &p.GeneratedJS,
		&p.ViewCount, &p.IsPublic, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &p.Content); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	p.Content.ApplyDefaults()
	return &p, nil
}

func (c *DatabaseClient) execExpectingRow(ctx context.Context, q string, args ...any) error {
	res, err := c.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("portfolio not found")
	}
	return nil
}
