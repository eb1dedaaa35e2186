// Package config loads the compiler's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l to a slog level. Unknown and empty values map to Info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the top-level configuration.
type Config struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// Strict turns any diagnostic into a compile failure.
	Strict bool `yaml:"strict"`

	// Seed seeds the browser's RNG. Zero means "use the clock".
	Seed int64 `yaml:"seed"`

	// Sprites lists sprite-name files, one sprite per line. When empty,
	// icon() names are not checked.
	Sprites []string `yaml:"sprites"`

	// Actions lists tag list files whose entries are defined before each
	// document is compiled.
	Actions []string `yaml:"actions"`

	// Plugins lists Lua scripts that register extra action keywords.
	Plugins []string `yaml:"plugins"`

	// Output is the directory JSON exports are written to.
	Output string `yaml:"output"`
}

// Load reads the YAML configuration file at path. Relative file paths in
// the config are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// An empty document yields the zero Config.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	errs = append(errs, checkPaths("sprites", cfg.Sprites)...)
	errs = append(errs, checkPaths("actions", cfg.Actions)...)
	errs = append(errs, checkPaths("plugins", cfg.Plugins)...)
	for i, p := range cfg.Plugins {
		if p != "" && !strings.EqualFold(filepath.Ext(p), ".lua") {
			errs = append(errs, fmt.Errorf("plugins[%d] %q must be a .lua file", i, p))
		}
	}

	return errors.Join(errs...)
}

func checkPaths(field string, paths []string) []error {
	var errs []error
	seen := make(map[string]int, len(paths))
	for i, p := range paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is empty", field, i))
			continue
		}
		if prev, ok := seen[p]; ok {
			errs = append(errs, fmt.Errorf("%s[%d] %q is a duplicate of %s[%d]", field, i, p, field, prev))
		}
		seen[p] = i
	}
	return errs
}

// resolve makes relative paths absolute with respect to dir.
func (c *Config) resolve(dir string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Sprites {
		c.Sprites[i] = join(c.Sprites[i])
	}
	for i := range c.Actions {
		c.Actions[i] = join(c.Actions[i])
	}
	for i := range c.Plugins {
		c.Plugins[i] = join(c.Plugins[i])
	}
	c.Output = join(c.Output)
}
