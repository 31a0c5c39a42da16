// Package slug turns arbitrary problem titles into the hyphenated identifiers
// used to match a page against the datasets.
package slug

import (
	"regexp"
	"strings"
)

// space covers every character browsers treat as whitespace, including
// non-breaking and ideographic spaces that show up in rendered headings.
const space = `\s\x0B\p{Z}\x{FEFF}`

var (
	disallowed = regexp.MustCompile(`[^\w` + space + `-]`)
	separators = regexp.MustCompile(`[` + space + `_-]+`)
)

// Normalize lowercases text, drops everything that is not a word character,
// whitespace or hyphen, collapses runs of whitespace, underscores and hyphens
// into a single hyphen and trims hyphens from both ends.
//
// Normalize is total and idempotent.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already in normalized form.
func Valid(s string) bool {
	return s != "" && Normalize(s) == s
}
