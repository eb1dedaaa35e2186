// Package scan provides the delimiter-aware helpers used by the concept
// parser. All functions are pure and operate on a single line or argument
// string.
package scan

import "strings"

// depth tracks parenthesis and bracket nesting. Closers never drive a
// counter below zero.
type depth struct {
	paren   int
	bracket int
}

func (d *depth) feed(c byte) {
	switch c {
	case '(':
		d.paren++
	case ')':
		if d.paren > 0 {
			d.paren--
		}
	case '[':
		d.bracket++
	case ']':
		if d.bracket > 0 {
			d.bracket--
		}
	}
}

func (d depth) top() bool {
	return d.paren == 0 && d.bracket == 0
}

// StripComment returns line up to the first '#' found outside any
// parentheses or brackets. A line without such a '#' is returned whole.
func StripComment(line string) string {
	var d depth
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '#' && d.top() {
			return line[:i]
		}
		d.feed(c)
	}
	return line
}

// SplitTopLevel splits s on commas that are not nested inside parentheses
// or brackets. Segments are returned untrimmed. A trailing segment is only
// included when non-empty, and an empty input yields nil.
func SplitTopLevel(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var d depth
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ',' && d.top() {
			parts = append(parts, s[start:i])
			start = i + 1
			continue
		}
		d.feed(c)
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// SplitList splits s on every comma, ignoring nesting, and returns the
// trimmed non-blank entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitCall splits `name(inner)` using the first '(' and the last ')'.
// Both results are trimmed. ok is false when the parentheses are missing
// or out of order.
func SplitCall(s string) (name, inner string, ok bool) {
	open := strings.IndexByte(s, '(')
	closing := strings.LastIndexByte(s, ')')
	if open < 0 || closing <= open {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1 : closing]), true
}
