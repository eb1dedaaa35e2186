// Package tui provides a Bubble Tea terminal UI for browsing compiled
// concept collections.
package tui

import "strings"

// History keeps the most recent commands for Up/Down recall.
type History struct {
	entries []string
	max     int
	cursor  int // -1 while not navigating, else an index into entries
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a command. Repeating the latest command is a no-op.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward. Stepping past the newest command ends navigation
// and reports false so the caller can clear the input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// Latest returns the newest command starting with prefix.
func (h *History) Latest(prefix string) (string, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], prefix) {
			return h.entries[i], true
		}
	}
	return "", false
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
