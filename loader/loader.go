// Package loader compiles concept files from disk. It wires the document
// parser to its collaborators: tag list files, the sprite catalog, Lua
// keyword plugins, logging, and metrics.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nathoo/conceptc/engine/diag"
	"github.com/nathoo/conceptc/engine/keywords"
	"github.com/nathoo/conceptc/engine/parser"
	"github.com/nathoo/conceptc/engine/tags"
	"github.com/nathoo/conceptc/observe"
	"github.com/nathoo/conceptc/types"
)

// Options configures a compile. The zero value compiles with the built-in
// keywords, no sprite checks, and no logging.
type Options struct {
	// Keywords is the action keyword table. Nil means keywords.Default().
	Keywords *keywords.Table

	// Sprites enables "sprite not found" warnings when non-nil.
	Sprites *SpriteCatalog

	// TagLists are defined into each document's registry before parsing.
	TagLists []TagList

	// Strict makes any diagnostic fail the compile with a *DiagnosticsError.
	Strict bool

	// Log receives per-file summaries at debug level and, when
	// LogDiagnostics is set, every diagnostic at warn or error level.
	Log            *slog.Logger
	LogDiagnostics bool

	// Metrics records compile outcomes when non-nil.
	Metrics *observe.Metrics
}

// Compile compiles one document held in memory. name is recorded on the
// collection and on every diagnostic. The collection is always returned;
// the error is non-nil only in strict mode.
func Compile(ctx context.Context, name, text string, opts Options) (*types.Collection, error) {
	start := time.Now()

	reg := tags.NewRegistry()
	for _, tl := range opts.TagLists {
		tl.Apply(reg)
	}

	var list diag.List
	sink := diag.Sink(&list)
	if opts.LogDiagnostics && opts.Log != nil {
		sink = diag.Multi{&list, diag.Logger{Log: opts.Log}}
	}

	popts := []parser.Option{parser.WithSink(sink), parser.WithFile(name)}
	if opts.Keywords != nil {
		popts = append(popts, parser.WithKeywords(opts.Keywords))
	}
	if opts.Sprites != nil {
		popts = append(popts, parser.WithSprites(opts.Sprites))
	}

	concepts := parser.New(reg, popts...).Parse(text)
	c := &types.Collection{Name: name, Concepts: concepts}
	lint(c, sink)
	c.Tags = reg.Tags()
	c.Diagnostics = list.Items()

	if opts.Metrics != nil {
		opts.Metrics.RecordCompile(ctx, c, time.Since(start))
	}
	if opts.Log != nil {
		opts.Log.Debug("compiled",
			"file", name,
			"concepts", len(c.Concepts),
			"tags", len(c.Tags),
			"warnings", diag.Count(c.Diagnostics, types.SeverityWarning),
			"errors", diag.Count(c.Diagnostics, types.SeverityError),
		)
	}

	if opts.Strict && len(c.Diagnostics) > 0 {
		return c, &DiagnosticsError{File: name, Diagnostics: c.Diagnostics}
	}
	return c, nil
}

// Load reads and compiles the file at path.
func Load(ctx context.Context, path string, opts Options) (*types.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if opts.Metrics != nil {
			opts.Metrics.RecordCompile(ctx, nil, 0)
		}
		return nil, fmt.Errorf("reading concept file %s: %w", path, err)
	}
	return Compile(ctx, path, string(data), opts)
}

// LoadAll compiles every path concurrently, each with its own tag
// registry. Collections are returned in path order; a slot is nil only
// when its file could not be read. The first error is returned and
// cancels files that have not started.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]*types.Collection, error) {
	cols := make([]*types.Collection, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := Load(gctx, path, opts)
			cols[i] = c
			return err
		})
	}
	err := g.Wait()
	return cols, err
}
