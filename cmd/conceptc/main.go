// conceptc compiles concept definition files and opens a browser over the
// result.
// Usage: conceptc [--version] [--plain] [--check] [--metrics] [--config <file>] [--json <dir>] [--strict] [--seed <n>] <file.concepts>...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/nathoo/conceptc/cli"
	"github.com/nathoo/conceptc/config"
	"github.com/nathoo/conceptc/engine"
	"github.com/nathoo/conceptc/engine/diag"
	"github.com/nathoo/conceptc/engine/export"
	"github.com/nathoo/conceptc/engine/keywords"
	"github.com/nathoo/conceptc/loader"
	"github.com/nathoo/conceptc/observe"
	"github.com/nathoo/conceptc/tui"
	"github.com/nathoo/conceptc/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: conceptc [--version] [--plain] [--check] [--metrics] [--config <file>] [--json <dir>] [--strict] [--seed <n>] <file.concepts>..."

// flags holds the parsed command line.
type flags struct {
	version    bool
	plain      bool
	check      bool
	metrics    bool
	strict     bool
	configPath string
	jsonDir    string
	seed       int64
	seedSet    bool
	files      []string
}

func parseArgs(args []string) (flags, error) {
	var f flags
	value := func(i *int, name string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--version":
			f.version = true
		case "--plain":
			f.plain = true
		case "--check":
			f.check = true
		case "--metrics":
			f.metrics = true
		case "--strict":
			f.strict = true
		case "--config":
			f.configPath, err = value(&i, "--config")
		case "--json":
			f.jsonDir, err = value(&i, "--json")
		case "--seed":
			var s string
			if s, err = value(&i, "--seed"); err == nil {
				f.seed, err = strconv.ParseInt(s, 10, 64)
				if err != nil {
					err = fmt.Errorf("--seed %q is not an integer", s)
				}
				f.seedSet = true
			}
		default:
			f.files = append(f.files, args[i])
		}
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n%s\n", err, usage)
		return 2
	}
	if f.version {
		fmt.Fprintf(stdout, "conceptc %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}
	if len(f.files) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg := &config.Config{}
	if f.configPath != "" {
		if cfg, err = config.Load(f.configPath); err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	if f.strict {
		cfg.Strict = true
	}
	if f.seedSet {
		cfg.Seed = f.seed
	}
	if f.jsonDir != "" {
		cfg.Output = f.jsonDir
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel.Level()}))

	ctx := context.Background()
	provider, err := observe.InitProvider(observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer provider.Shutdown(ctx)
	metrics, err := provider.Metrics()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cols, err := compile(ctx, cfg, f.files, log, metrics)
	if summary, serr := provider.Summary(ctx); serr == nil {
		log.Debug("compile summary", "summary", summary.String())
		if f.metrics {
			fmt.Fprintln(stderr, summary)
		}
	}
	if err != nil {
		var de *loader.DiagnosticsError
		if errors.As(err, &de) {
			fmt.Fprintln(stderr, err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	if cfg.Output != "" {
		paths, err := export.WriteAll(cfg.Output, cols)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		log.Info("exported", "dir", cfg.Output, "files", len(paths))
	}

	if f.check {
		return 0
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.New(seed, cols...)

	exportDir := cfg.Output
	if exportDir == "" {
		exportDir = "."
	}

	// Use the plain browser if --plain or stdout is not a terminal.
	if f.plain || !isTerminal() {
		c := cli.New(eng)
		c.In = stdin
		c.Out = stdout
		c.ExportDir = exportDir
		c.Run()
		return 0
	}

	if err := tui.Run(eng, exportDir); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// compile builds the keyword table and catalogs named by cfg and compiles
// every file.
func compile(ctx context.Context, cfg *config.Config, files []string, log *slog.Logger, metrics *observe.Metrics) ([]*types.Collection, error) {
	tbl := keywords.Default()
	if len(cfg.Plugins) > 0 {
		plugins, err := loader.LoadPlugins(tbl, cfg.Plugins...)
		if err != nil {
			return nil, err
		}
		defer plugins.Close()
		log.Debug("plugins loaded", "keywords", plugins.Names())
	}

	opts := loader.Options{
		Keywords:       tbl,
		Strict:         cfg.Strict,
		Log:            log,
		LogDiagnostics: true,
		Metrics:        metrics,
	}

	if len(cfg.Sprites) > 0 {
		sprites, err := loader.LoadSprites(cfg.Sprites...)
		if err != nil {
			return nil, err
		}
		opts.Sprites = sprites
	}

	if len(cfg.Actions) > 0 {
		lists, err := loader.LoadTagLists(diag.Logger{Log: log}, cfg.Actions...)
		if err != nil {
			return nil, err
		}
		opts.TagLists = lists
	}

	return loader.LoadAll(ctx, files, opts)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
