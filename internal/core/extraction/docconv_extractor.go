package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"

	"github.com/folioforge/folioforge/internal/core"
)

var _ core.TextExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor converts uploaded résumé files (PDF, DOC, DOCX, RTF, ...)
// to plain text with docconv.
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

// ExtractText runs docconv for the given content type and returns the body
// text with blank lines collapsed.
func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("docconv: empty file")
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv: convert %q: %w", contentType, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range strings.Split(res.Body, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("docconv: extracted empty text for %q", contentType)
	}
	return text, nil
}
