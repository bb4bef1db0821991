// Package extract locates a digest payload inside an untrusted agent
// response. The upstream agent has no fixed schema contract across versions
// or prompts, so the payload may arrive as an object, nested under "result",
// or JSON-encoded inside a string field. The ordered fallback chain here is
// the defense against that drift.
package extract

import (
	"encoding/json"
	"unicode/utf8"
)

// MaxExcerptChars bounds the human-readable excerpt carried by a Failure.
const MaxExcerptChars = 200

// Failure describes why no digest payload could be located. Excerpt, when
// non-empty, is a truncated sample of whatever text the response carried,
// for display and debugging.
type Failure struct {
	Excerpt string
}

// Extract attempts to locate a digest payload in resp, checking these shapes
// in order, first match wins:
//
//  1. resp.result is a non-null, non-array object
//  2. resp itself is an object carrying digest_date or categories
//  3. resp.result is a string that parses as a JSON object
//  4. resp.message is a string that parses as a JSON object carrying
//     digest_date or categories
//
// Later rules are never tried once an earlier one matched, even if the
// matched payload later sanitizes to nothing; sanitization failure degrades
// to an empty digest, not to a different extraction rule.
func Extract(resp any) (map[string]any, *Failure) {
	obj, isObject := resp.(map[string]any)

	// Rule 1: object-shaped result field.
	if isObject {
		if result, ok := obj["result"].(map[string]any); ok {
			return result, nil
		}
	}

	// Rule 2: the response itself is the payload.
	if isObject && hasDigestMarkers(obj) {
		return obj, nil
	}

	// Rule 3: JSON-encoded string in the result field.
	if isObject {
		if s, ok := obj["result"].(string); ok {
			if parsed, ok := parseJSONObject(s); ok {
				return parsed, nil
			}
		}
	}

	// Rule 4: JSON-encoded string in the message field, gated on digest
	// markers so free-text status messages are not mistaken for payloads.
	if isObject {
		if s, ok := obj["message"].(string); ok {
			if parsed, ok := parseJSONObject(s); ok && hasDigestMarkers(parsed) {
				return parsed, nil
			}
		}
	}

	return nil, &Failure{Excerpt: excerpt(obj)}
}

// hasDigestMarkers reports whether the object carries either of the fields
// that identify a digest payload.
func hasDigestMarkers(obj map[string]any) bool {
	if _, ok := obj["digest_date"]; ok {
		return true
	}
	_, ok := obj["categories"]
	return ok
}

// parseJSONObject parses s as JSON and reports success only for objects.
func parseJSONObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// excerpt pulls displayable text out of the response's message or result
// fields, truncated to MaxExcerptChars. Returns "" when nothing usable exists.
func excerpt(obj map[string]any) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj["message"].(string); ok && s != "" {
		return truncate(s, MaxExcerptChars)
	}
	if s, ok := obj["result"].(string); ok && s != "" {
		return truncate(s, MaxExcerptChars)
	}
	return ""
}

// truncate cuts s to at most max bytes without splitting a UTF-8 rune,
// appending an ellipsis when anything was removed.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
