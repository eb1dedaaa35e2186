package keywords

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// suggestThreshold is the minimum Jaro-Winkler similarity for a hint.
const suggestThreshold = 0.85

// Suggest returns the candidate closest to word, compared
// case-insensitively, when it is similar enough to be a likely typo.
func Suggest(word string, candidates []string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return "", false
	}

	best, bestScore := "", 0.0
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == w {
			return c, true
		}
		if s := matchr.JaroWinkler(w, lc, false); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < suggestThreshold {
		return "", false
	}
	return best, true
}

// Hint formats a " (did you mean X?)" suffix, or "" when nothing is close.
func Hint(word string, candidates []string) string {
	if s, ok := Suggest(word, candidates); ok {
		return " (did you mean " + s + "?)"
	}
	return ""
}
