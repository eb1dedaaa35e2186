package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/conceptc/engine/diag"
	"github.com/nathoo/conceptc/types"
)

// DiagnosticsError is returned by strict compiles. It carries every
// diagnostic of the failed file.
type DiagnosticsError struct {
	File        string
	Diagnostics []types.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, diag.Format(d))
	}
	return fmt.Sprintf("%s: %d diagnostic(s) in strict mode:\n  %s",
		e.File, len(e.Diagnostics), strings.Join(lines, "\n  "))
}

// lint reports problems that only show up across records: duplicate
// concept names and inverted duration ranges. Records are left unchanged.
func lint(c *types.Collection, sink diag.Sink) {
	report := func(line int, format string, args ...any) {
		sink.Report(types.Diagnostic{
			File:     c.Name,
			Line:     line,
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	seen := map[string]int{}
	for _, con := range c.Concepts {
		key := strings.ToLower(con.Name)
		if first, ok := seen[key]; ok {
			report(con.Line, "duplicate concept %q (first defined on line %d)", con.Name, first)
		} else {
			seen[key] = con.Line
		}

		for _, a := range con.Actions {
			if a.Duration.Min > a.Duration.Max {
				report(con.Line, "concept %q has an action with inverted duration [%d-%d]",
					con.Name, a.Duration.Min, a.Duration.Max)
			}
		}
	}
}
