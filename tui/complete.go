package tui

import "strings"

// complete extends the last word of input using candidates, compared
// case-insensitively. A single match is completed with a trailing space;
// several matches are extended to their longest common prefix.
func complete(input string, candidates []string) string {
	start := strings.LastIndexByte(input, ' ') + 1
	word := strings.ToLower(input[start:])
	if word == "" {
		return input
	}

	var matches []string
	seen := map[string]bool{}
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if strings.HasPrefix(lc, word) && !seen[lc] {
			seen[lc] = true
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return input
	case 1:
		return input[:start] + matches[0] + " "
	}

	prefix := strings.ToLower(matches[0])
	for _, m := range matches[1:] {
		lm := strings.ToLower(m)
		n := 0
		for n < len(prefix) && n < len(lm) && prefix[n] == lm[n] {
			n++
		}
		prefix = prefix[:n]
	}
	if len(prefix) <= len(word) {
		return input
	}
	if len(matches[0]) != len(strings.ToLower(matches[0])) {
		return input[:start] + prefix
	}
	return input[:start] + matches[0][:len(prefix)]
}
