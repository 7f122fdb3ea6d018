// Package mention extracts @Name tokens from free-form text. Resolution of
// candidates against real users lives in the service layer; this package only
// implements the shared token rule so that notification emission and render
// linkification cannot drift apart.
package mention

import (
	"regexp"
	"strings"
)

// A name is one or more runs of word characters or apostrophes joined by
// single internal spaces. Trailing punctuation never belongs to the name.
var tokenPattern = regexp.MustCompile(`@([\w']+(?:[^\S\r\n]+[\w']+)*)`)

// Extract returns the candidate names mentioned in text, in order of first
// appearance, deduplicated case-insensitively. Internal whitespace runs are
// normalised to a single space.
func Extract(text string) []string {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		name := normalise(m[1])
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		candidates = append(candidates, name)
	}
	return candidates
}

// Replace rewrites every token whose name resolve maps to a replacement,
// returning the rewritten text and the resolved names. Tokens that do not
// resolve are left untouched, which is exactly the render-side behaviour for
// ambiguous or unknown mentions.
func Replace(text string, resolve func(name string) (string, bool)) (string, []string) {
	var resolved []string
	out := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := normalise(strings.TrimPrefix(token, "@"))
		replacement, ok := resolve(name)
		if !ok {
			return token
		}
		resolved = append(resolved, name)
		return replacement
	})
	return out, resolved
}

func normalise(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
