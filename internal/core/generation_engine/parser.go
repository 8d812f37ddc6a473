package generation_engine

import (
	"encoding/json"
	"strings"

	"github.com/folioforge/folioforge/internal/core/apperr"
	"github.com/folioforge/folioforge/internal/models"
)

// ParseDocument turns raw model output into a full content document. It never
// fails structurally: if no JSON can be recovered it returns the default
// empty-shape document alongside a KindParseDegraded error. Either way every
// top-level key of the schema is present in the result.
func ParseDocument(raw string) (models.ContentDocument, error) {
	if doc, ok := tryParseDocument(raw); ok {
		return doc, nil
	}
	if block, found := extractFencedBlock(raw); found {
		if doc, ok := tryParseDocument(block); ok {
			return doc, nil
		}
	}
	return models.DefaultContentDocument(),
		apperr.ParseDegraded("no content document could be recovered from model output")
}

// ParseSection parses model output destined for a single known section. On
// structured-parse failure the raw text is kept as the section's primary text
// field rather than discarded, and a KindParseDegraded error reports the
// fallback.
func ParseSection(raw, section string) (models.ContentDocument, error) {
	if doc, ok := tryParseSection(raw, section); ok {
		return doc, nil
	}
	if block, found := extractFencedBlock(raw); found {
		if doc, ok := tryParseSection(block, section); ok {
			return doc, nil
		}
	}
	doc, err := models.WrapSectionText(section, raw)
	if err != nil {
		// Unknown section names are rejected before any model call, so
		// this only guards against internal misuse.
		return models.DefaultContentDocument(),
			apperr.ParseDegraded("section %q: %v", section, err)
	}
	return doc, apperr.ParseDegraded("section %q kept as raw text", section)
}

func tryParseDocument(raw string) (models.ContentDocument, bool) {
	raw = strings.TrimSpace(stripCodeFences(raw))
	if raw == "" || raw[0] != '{' {
		return models.ContentDocument{}, false
	}
	var doc models.ContentDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return models.ContentDocument{}, false
	}
	doc.ApplyDefaults()
	return doc, true
}

// tryParseSection accepts either an object keyed by the section name or the
// bare section value.
func tryParseSection(raw, section string) (models.ContentDocument, bool) {
	raw = strings.TrimSpace(stripCodeFences(raw))
	if raw == "" {
		return models.ContentDocument{}, false
	}

	if raw[0] == '{' {
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &keyed); err == nil {
			if inner, ok := keyed[section]; ok {
				raw = string(inner)
			}
		}
	}

	wrapped := `{"` + section + `":` + raw + `}`
	var doc models.ContentDocument
	if err := json.Unmarshal([]byte(wrapped), &doc); err != nil {
		return models.ContentDocument{}, false
	}
	doc.ApplyDefaults()
	return doc, true
}

// stripCodeFences removes a fence that wraps the whole payload, tolerating a
// language tag on the opening line.
func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	body := lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		body = lines[1 : len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

// extractFencedBlock locates a fenced code block embedded in surrounding
// prose and returns its contents.
func extractFencedBlock(src string) (string, bool) {
	start := strings.Index(src, "```")
	if start < 0 {
		return "", false
	}
	rest := src[start+3:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	rest = rest[nl+1:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
