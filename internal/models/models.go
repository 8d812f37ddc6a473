package models

import (
	"time"
)

// Portfolio lifecycle states.
const (
	PortfolioStatusDraft     = "draft"
	PortfolioStatusPublished = "published"
	PortfolioStatusArchived  = "archived"
)

// Iteration kinds and states.
const (
	IterationTypeGenerate = "generate"
	IterationTypeEnhance  = "enhance"
	IterationTypeFix      = "fix"
	IterationTypeCustom   = "custom"

	IterationStatusPending   = "pending"
	IterationStatusCompleted = "completed"
	IterationStatusFailed    = "failed"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Portfolio is the aggregate root: one generated portfolio site per row.
// Content is typed in memory and serialized to JSONB only inside the database
// client. GeneratedHTML/CSS/JS hold the last rendered artifact and are cleared
// by any content or template change.
type Portfolio struct {
	ID            string          `db:"id" json:"id"`
	OwnerID       string          `db:"owner_id" json:"owner_id"`
	Title         string          `db:"title" json:"title"`
	Slug          string          `db:"slug" json:"slug"`
	Status        string          `db:"status" json:"status"`
	TemplateID    string          `db:"template_id" json:"template_id"`
	Content       ContentDocument `db:"content" json:"content"`
	GeneratedHTML *string         `db:"generated_html" json:"-"`
	GeneratedCSS  *string         `db:"generated_css" json:"-"`
	GeneratedJS   *string         `db:"generated_js" json:"-"`
	ViewCount     int             `db:"view_count" json:"view_count"`
	IsPublic      bool            `db:"is_public" json:"is_public"`
	PublishedAt   *time.Time      `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// HasArtifact reports whether a cached render exists for the current
// content/template pair.
func (p *Portfolio) HasArtifact() bool {
	return p.GeneratedHTML != nil && p.GeneratedCSS != nil && p.GeneratedJS != nil
}

// Iteration is an append-only audit record of one generation or enhancement
// attempt. PortfolioID stays empty until the portfolio exists. Once a record
// reaches completed or failed it is never written again.
type Iteration struct {
	ID              string           `db:"id" json:"id"`
	PortfolioID     string           `db:"portfolio_id" json:"portfolio_id,omitempty"`
	Prompt          string           `db:"prompt" json:"prompt"`
	IterationType   string           `db:"iteration_type" json:"iteration_type"`
	Status          string           `db:"status" json:"status"`
	PreviousContent *ContentDocument `db:"previous_content" json:"previous_content,omitempty"`
	TokensUsed      int              `db:"tokens_used" json:"tokens_used"`
	ProcessingMs    int64            `db:"processing_ms" json:"processing_ms"`
	ErrorMessage    string           `db:"error_message" json:"error_message,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}
