// Package slug derives URL-safe identifiers for tags and categories.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxLen = 50

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[\s_]+`)
	dashRuns     = regexp.MustCompile(`-{2,}`)
)

// Make turns an arbitrary display name into its slug: accents are folded
// away via NFKD, the result is lowercased, anything that is not a word
// character, whitespace, or hyphen is dropped, whitespace and underscore
// runs become single hyphens, and the result is trimmed and capped at 50
// characters. Make is idempotent.
func Make(s string) string {
	s = asciiFold(s)
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}
	return s
}

// asciiFold decomposes the string (NFKD) and keeps only the ASCII runes,
// so "Café" becomes "Cafe" and combining marks disappear.
func asciiFold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
