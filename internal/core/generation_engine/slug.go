package generation_engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/folioforge/folioforge/internal/core"
)

const maxSlugLen = 50

// Slugify derives the base slug for a title: lower-case, strip everything
// but letters, digits and spaces, collapse whitespace runs to single
// hyphens, truncate to 50 characters.
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "portfolio"
	}
	return slug
}

// uniqueSlug appends -1, -2, ... to the base slug until it is free for the
// owner. The sequence is deterministic so repeated titles produce base,
// base-1, base-2, ...
func uniqueSlug(ctx context.Context, db core.DbClient, ownerID, title string) (string, error) {
	base := Slugify(title)

	candidate := base
	for i := 1; ; i++ {
		exists, err := db.SlugExists(ctx, ownerID, candidate)
		if err != nil {
			return "", fmt.Errorf("slug lookup: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
