package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/conceptc/engine/diag"
	"github.com/nathoo/conceptc/engine/tags"
	"github.com/nathoo/conceptc/types"
)

// TagEntry is one `*id: Display Name` line of a tag list file.
type TagEntry struct {
	ID      string
	Display string
	Line    int
}

// TagList is a parsed tag list file.
type TagList struct {
	File    string
	Entries []TagEntry
}

// Apply defines every entry in reg, in file order.
func (tl TagList) Apply(reg *tags.Registry) {
	for _, e := range tl.Entries {
		reg.Define(e.ID, e.Display)
	}
}

// LoadTagLists reads each path as a tag list file, reporting malformed
// lines to sink.
func LoadTagLists(sink diag.Sink, paths ...string) ([]TagList, error) {
	var out []TagList
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening tag list %s: %w", path, err)
		}
		tl, err := ReadTagList(f, path, sink)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading tag list %s: %w", path, err)
		}
		out = append(out, tl)
	}
	return out, nil
}

// ReadTagList parses a tag list. Blank lines, '#' comments, and lines not
// starting with '*' are skipped. A line without ':' or with an empty id
// is reported and skipped. A file with no entries is reported.
func ReadTagList(r io.Reader, file string, sink diag.Sink) (TagList, error) {
	tl := TagList{File: file}
	warn := func(line int, format string, args ...any) {
		sink.Report(types.Diagnostic{
			File:     file,
			Line:     line,
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || !strings.HasPrefix(line, "*") {
			continue
		}

		line = strings.TrimSpace(line[1:])
		id, display, ok := strings.Cut(line, ":")
		if !ok {
			warn(lineNo, "malformed tag line (no ':'): %q", raw)
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			warn(lineNo, "empty tag id in line: %q", raw)
			continue
		}
		tl.Entries = append(tl.Entries, TagEntry{ID: id, Display: strings.TrimSpace(display), Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return tl, err
	}

	if len(tl.Entries) == 0 {
		warn(0, "no tags defined")
	}
	return tl, nil
}
