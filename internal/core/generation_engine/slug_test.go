package generation_engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Jane Doe Portfolio", "jane-doe-portfolio"},
		{"Hello, World!", "hello-world"},
		{"  lots   of    spaces  ", "lots-of-spaces"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"émigré café", "migr-caf"},
		{"!!!", "portfolio"},
		{"", "portfolio"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.title), "title %q", c.title)
	}
}

func TestSlugify_truncatesWithoutTrailingHyphen(t *testing.T) {
	long := strings.Repeat("word ", 20)
	slug := Slugify(long)

	assert.LessOrEqual(t, len(slug), 50)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestSlugify_deterministic(t *testing.T) {
	assert.Equal(t, Slugify("Same Title"), Slugify("Same Title"))
}

func TestUniqueSlug_countsUpFromBase(t *testing.T) {
	db := newFakeDB()

	s, err := uniqueSlug(context.Background(), db, "owner", "Jane Doe Portfolio")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-portfolio", s)

	db.slugs[slugKey("owner", "jane-doe-portfolio")] = true
	s, err = uniqueSlug(context.Background(), db, "owner", "Jane Doe Portfolio")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-portfolio-1", s)

	db.slugs[slugKey("owner", "jane-doe-portfolio-1")] = true
	s, err = uniqueSlug(context.Background(), db, "owner", "Jane Doe Portfolio")
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-portfolio-2", s)
}
