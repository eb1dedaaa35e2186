// Package diag collects and forwards compile diagnostics. Diagnostics never
// abort a compile; sinks only record or display them.
package diag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nathoo/conceptc/types"
)

// Sink receives diagnostics in the order they are produced.
type Sink interface {
	Report(d types.Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(types.Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d types.Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(types.Diagnostic) {})

// List is an in-memory Sink.
type List struct {
	items []types.Diagnostic
}

// Report appends d.
func (l *List) Report(d types.Diagnostic) {
	l.items = append(l.items, d)
}

// Items returns the collected diagnostics.
func (l *List) Items() []types.Diagnostic {
	return l.items
}

// Len returns the number of collected diagnostics.
func (l *List) Len() int {
	return len(l.items)
}

// Logger forwards diagnostics to a structured logger.
type Logger struct {
	Log *slog.Logger
}

// Report logs d at warn or error level.
func (l Logger) Report(d types.Diagnostic) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	level := slog.LevelWarn
	if d.Severity == types.SeverityError {
		level = slog.LevelError
	}
	log.LogAttrs(context.Background(), level, d.Message,
		slog.String("file", d.File),
		slog.Int("line", d.Line),
	)
}

// Multi fans a diagnostic out to several sinks.
type Multi []Sink

// Report forwards d to every sink.
func (m Multi) Report(d types.Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

// Format renders d as "file:line: severity: message", dropping the parts
// that are not set.
func Format(d types.Diagnostic) string {
	sev := d.Severity
	if sev == "" {
		sev = types.SeverityWarning
	}
	switch {
	case d.File != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, sev, d.Message)
	case d.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", d.Line, sev, d.Message)
	case d.File != "":
		return fmt.Sprintf("%s: %s: %s", d.File, sev, d.Message)
	default:
		return fmt.Sprintf("%s: %s", sev, d.Message)
	}
}

// Count returns how many diagnostics in ds have the given severity.
func Count(ds []types.Diagnostic, sev types.Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
