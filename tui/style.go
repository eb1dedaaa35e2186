package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/conceptc/engine/literal"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleProperty = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleAction = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleCondition = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleUserInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindHeading
	kindProperty
	kindColor
	kindAction
	kindCondition
	kindSystem
	kindWarning
	kindError
)

const colorPrefix = "  color:"

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.Contains(line, ": error: "):
		return kindError
	case strings.Contains(line, ": warning: "):
		return kindWarning
	case strings.HasPrefix(line, "No "),
		strings.HasPrefix(line, "Unknown command"),
		strings.HasPrefix(line, "Cannot parse"),
		strings.HasPrefix(line, "Bad pattern"):
		return kindError
	case strings.HasPrefix(line, colorPrefix):
		return kindColor
	case strings.HasPrefix(line, "      requires "):
		return kindCondition
	case strings.HasPrefix(line, "  action "):
		return kindAction
	case strings.HasPrefix(line, "  "):
		return kindProperty
	case strings.HasSuffix(line, ")") && strings.Contains(line, " ("):
		return kindHeading
	default:
		return kindText
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindProperty:
		return styleProperty.Render(line)
	case kindColor:
		return styledColor(line)
	case kindAction:
		return styleAction.Render(line)
	case kindCondition:
		return styleCondition.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindWarning:
		return styleWarning.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleText.Render(line)
	}
}

// swatchColor returns the lipgloss colour for a "  color: #rrggbb" line.
func swatchColor(line string) (lipgloss.Color, bool) {
	c, err := literal.ParseColor(strings.TrimPrefix(line, colorPrefix))
	if err != nil {
		return "", false
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), true
}

// styledColor renders a colour property followed by a swatch of it.
func styledColor(line string) string {
	col, ok := swatchColor(line)
	if !ok {
		return styleProperty.Render(line)
	}
	swatch := lipgloss.NewStyle().Foreground(col).Render("██")
	return styleProperty.Render(line) + " " + swatch
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
