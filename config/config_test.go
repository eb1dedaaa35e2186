package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromReader_Valid(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
log_level: debug
strict: true
seed: 7
sprites: [sprites.txt]
actions:
  - base.taletoyactions
plugins:
  - plugins/halve.lua
output: out
`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.LogLevel != LogDebug || !cfg.Strict || cfg.Seed != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Sprites) != 1 || len(cfg.Actions) != 1 || len(cfg.Plugins) != 1 || cfg.Output != "out" {
		t.Errorf("cfg paths = %+v", cfg)
	}
}

func TestLoadFromReader_Empty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader(empty): %v", err)
	}
	if cfg.LogLevel != "" || cfg.Strict {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadFromReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{"unknown field", "colour: red\n", []string{"field colour not found"}},
		{"bad level", "log_level: loud\n", []string{`log_level "loud" is invalid`}},
		{"plugin ext", "plugins: [a.py]\n", []string{`plugins[0] "a.py" must be a .lua file`}},
		{
			"joined",
			"sprites: ['', a.txt, a.txt]\nlog_level: x\n",
			[]string{"sprites[0] is empty", `sprites[2] "a.txt" is a duplicate of sprites[1]`, `log_level "x"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q missing %q", err, w)
				}
			}
		})
	}
}

func TestLoad_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conceptc.yaml")
	abs := filepath.Join(dir, "abs.txt")
	content := "sprites: [sprites.txt, " + abs + "]\nplugins: [p/x.lua]\noutput: out\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.Sprites[0], filepath.Join(dir, "sprites.txt"); got != want {
		t.Errorf("Sprites[0] = %q, want %q", got, want)
	}
	if cfg.Sprites[1] != abs {
		t.Errorf("Sprites[1] = %q, want %q", cfg.Sprites[1], abs)
	}
	if got, want := cfg.Plugins[0], filepath.Join(dir, "p", "x.lua"); got != want {
		t.Errorf("Plugins[0] = %q, want %q", got, want)
	}
	if got, want := cfg.Output, filepath.Join(dir, "out"); got != want {
		t.Errorf("Output = %q, want %q", got, want)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLogLevel_Level(t *testing.T) {
	tests := []struct {
		in   LogLevel
		want slog.Level
	}{
		{LogDebug, slog.LevelDebug},
		{LogInfo, slog.LevelInfo},
		{LogWarn, slog.LevelWarn},
		{LogError, slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := tt.in.Level(); got != tt.want {
			t.Errorf("LogLevel(%q).Level() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
