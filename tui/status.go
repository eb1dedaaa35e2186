package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusText returns the left and right halves of the status bar.
func (m Model) statusText() (string, string) {
	concepts, tags, diags := m.engine.Counts()
	files := len(m.engine.Collections)

	left := fmt.Sprintf(" conceptc | %d file(s) | Concepts: %d  Tags: %d", files, concepts, tags)
	if diags > 0 {
		left += fmt.Sprintf(" | Diag: %d", diags)
	}
	right := fmt.Sprintf("RNG %d@%d ", m.engine.RNG.Seed(), m.engine.RNG.Position())
	return left, right
}

// renderStatusBar produces a full-width inverted status line.
func (m Model) renderStatusBar() string {
	left, right := m.statusText()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
