package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a display name into its URL identifier:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - removes everything outside word characters, whitespace, and hyphens
//   - collapses whitespace/hyphen runs into a single hyphen
//
// The result is stable under repeated application: Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "")
	return slugSeparators.ReplaceAllString(s, "-")
}

// FirstLetter returns the A–Z bucket key for a term name: the first
// character after trimming, uppercased. Empty names and names starting
// with a non-letter map to "#".
func FirstLetter(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "#"
	}
	r := unicode.ToUpper([]rune(trimmed)[0])
	if !unicode.IsLetter(r) {
		return "#"
	}
	return string(r)
}
