package queries

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The model is asked for a bare JSON array but routinely wraps it in code
// fences, commentary, single quotes, or trailing garbage. cleanArray runs a
// fixed repair pipeline of pure steps and returns the parsed value; it
// errors only when no array can be recovered at all.

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[\]}])`)
)

func cleanArray(raw string) ([]any, error) {
	s, err := extractArray(raw)
	if err != nil {
		return nil, err
	}
	s = normalizeQuotes(s)
	s = collapseWhitespace(s)
	s = stripTrailingCommas(s)
	return parseWithTruncation(s)
}

// extractArray cuts the text down to the outermost array boundaries,
// discarding fences and surrounding prose.
func extractArray(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	return s[start : end+1], nil
}

func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `"`)
}

func collapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}

func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// parseWithTruncation decodes the array element by element. Trailing
// garbage after the closing bracket is never read; when the array itself
// breaks partway through, the successfully-parsed prefix is kept and the
// broken tail discarded.
func parseWithTruncation(s string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("parse array: expected [, got %v", tok)
	}

	var out []any
	for dec.More() {
		var elem any
		if err := dec.Decode(&elem); err != nil {
			if len(out) > 0 {
				return out, nil
			}
			return nil, fmt.Errorf("parse array: %w", err)
		}
		out = append(out, elem)
	}
	return out, nil
}
