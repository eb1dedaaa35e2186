package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "loader", "testdata", name)
}

func TestParseArgs(t *testing.T) {
	f, err := parseArgs([]string{"--plain", "--metrics", "--strict", "--seed", "9", "--json", "out", "--config", "c.yaml", "a.concepts", "b.concepts"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !f.plain || !f.metrics || !f.strict || f.check || f.version {
		t.Errorf("bool flags = %+v", f)
	}
	if !f.seedSet || f.seed != 9 || f.jsonDir != "out" || f.configPath != "c.yaml" {
		t.Errorf("value flags = %+v", f)
	}
	if len(f.files) != 2 || f.files[0] != "a.concepts" || f.files[1] != "b.concepts" {
		t.Errorf("files = %v", f.files)
	}

	bad := [][]string{
		{"--seed"},
		{"--seed", "x"},
		{"--json"},
		{"--config"},
	}
	for _, args := range bad {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%q) succeeded", args)
		}
	}
}

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(nil, strings.NewReader(""), &out, &errOut); code != 2 {
		t.Errorf("run() = %d, want 2", code)
	}
	if !strings.HasPrefix(errOut.String(), "Usage: conceptc") {
		t.Errorf("stderr = %q", errOut.String())
	}

	out.Reset()
	if code := run([]string{"--version"}, strings.NewReader(""), &out, &errOut); code != 0 {
		t.Errorf("run(--version) = %d, want 0", code)
	}
	if !strings.HasPrefix(out.String(), "conceptc dev") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestRun_CheckAndExport(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer

	code := run([]string{"--check", "--json", dir, testdata("forest.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 0 {
		t.Fatalf("run = %d, stderr:\n%s", code, errOut.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "forest.json")); err != nil {
		t.Errorf("export: %v", err)
	}
}

func TestRun_Strict(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"--check", "--strict", testdata("broken.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 1 {
		t.Errorf("run(--strict broken) = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "strict mode") {
		t.Errorf("stderr = %q", errOut.String())
	}

	errOut.Reset()
	code = run([]string{"--check", testdata("broken.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 0 {
		t.Errorf("run(broken) = %d, want 0", code)
	}
	if !strings.Contains(errOut.String(), "level=WARN") {
		t.Errorf("diagnostics not logged:\n%s", errOut.String())
	}
}

func TestRun_MissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"--check", testdata("nope.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 1 || !strings.Contains(errOut.String(), "reading concept file") {
		t.Errorf("run(missing) = %d, stderr %q", code, errOut.String())
	}
}

func TestRun_Plain(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader("list\n/rng\n/quit\n")

	code := run([]string{"--plain", "--seed", "5", testdata("forest.concepts")}, in, &out, &errOut)
	if code != 0 {
		t.Fatalf("run = %d, stderr:\n%s", code, errOut.String())
	}
	for _, want := range []string{
		"2 concepts,",
		"Campfire [Nature, Danger] (2 actions)",
		"Wolf [Animal, Danger] (1 action) lethal",
		"[Seed 5, position 0.]",
		"[Goodbye.]",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "conceptc.yaml")
	sprites, _ := filepath.Abs(testdata("sprites.txt"))
	plugin, _ := filepath.Abs(testdata(filepath.Join("plugins", "halve.lua")))
	cfg := "log_level: error\nsprites: [" + sprites + "]\nplugins: [" + plugin + "]\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	code := run([]string{"--check", "--config", cfgPath, testdata("halve.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 0 {
		t.Fatalf("run = %d, stderr:\n%s", code, errOut.String())
	}
	if !strings.Contains(errOut.String(), "cannot sleep here") {
		t.Errorf("plugin error not logged:\n%s", errOut.String())
	}
	if strings.Contains(errOut.String(), "level=WARN") {
		t.Errorf("warnings logged at error level:\n%s", errOut.String())
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("log_level: loud\n"), 0o644)
	if code := run([]string{"--check", "--config", bad, testdata("forest.concepts")}, strings.NewReader(""), &out, &errOut); code != 1 {
		t.Errorf("run(bad config) = %d, want 1", code)
	}
}

func TestRun_Metrics(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"--check", "--metrics", testdata("forest.concepts"), testdata("broken.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 0 {
		t.Fatalf("run = %d, stderr:\n%s", code, errOut.String())
	}
	if !strings.Contains(errOut.String(), "2 file(s), 0 failed, 4 concepts") {
		t.Errorf("metrics summary missing:\n%s", errOut.String())
	}

	errOut.Reset()
	code = run([]string{"--check", "--metrics", testdata("nope.concepts")}, strings.NewReader(""), &out, &errOut)
	if code != 1 || !strings.Contains(errOut.String(), "1 file(s), 1 failed, 0 concepts") {
		t.Errorf("run(missing) = %d, stderr:\n%s", code, errOut.String())
	}
}
