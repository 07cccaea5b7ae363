package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeSection strips stray HTML markup from every string value in a
// section's content payload. Models occasionally emit tags despite being
// asked for plain text; the document must never carry markup into
// rendering.
func SanitizeSection(content json.RawMessage) (json.RawMessage, error) {
	if len(content) == 0 {
		return content, nil
	}

	var decoded any
	if err := json.Unmarshal(content, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode section content: %w", err)
	}

	cleaned, changed := sanitizeValue(decoded)
	if !changed {
		return content, nil
	}

	out, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode section content: %w", err)
	}
	return out, nil
}

// sanitizeValue walks a decoded JSON value and cleans string leaves.
// Returns the (possibly replaced) value and whether anything changed.
func sanitizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		cleaned := StripMarkup(v)
		return cleaned, cleaned != v
	case []any:
		changed := false
		for i, item := range v {
			cleaned, itemChanged := sanitizeValue(item)
			if itemChanged {
				v[i] = cleaned
				changed = true
			}
		}
		return v, changed
	case map[string]any:
		changed := false
		for key, item := range v {
			cleaned, itemChanged := sanitizeValue(item)
			if itemChanged {
				v[key] = cleaned
				changed = true
			}
		}
		return v, changed
	default:
		return value, false
	}
}

// StripMarkup removes HTML tags from a string, returning the visible
// text with whitespace collapsed. Strings without markup pass through
// untouched.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
