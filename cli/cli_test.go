package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/conceptc/engine"
	"github.com/nathoo/conceptc/engine/parser"
	"github.com/nathoo/conceptc/types"
)

const forest = `*Campfire:
icon(campfire)
categories(Nature, Danger)
action(Warm[warmed], [1-3], IncreaseDanger(0.05), RequireAge(5))
*Wolf:
categories(Animal)
`

func testCollection() *types.Collection {
	c := parser.Parse(forest)
	c.Name = "content/forest.concepts"
	return c
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.New(1, testCollection())
	var out bytes.Buffer
	c := &CLI{
		Engine:    eng,
		In:        strings.NewReader(input),
		Out:       &out,
		ExportDir: t.TempDir(),
	}
	return c, &out
}

func TestCLI_Summary(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "2 concepts, 4 tags, 0 diagnostics.") {
		t.Errorf("expected summary line, got:\n%s", output)
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye message")
	}
}

func TestCLI_Commands(t *testing.T) {
	c, out := newTestCLI(t, "list\nshow wolf\n# comment\n\ncategory nature\n")
	c.Run()

	output := out.String()
	for _, want := range []string{
		"Campfire [Nature, Danger] (1 action)",
		"Wolf (Wolf)",
		"categories: Animal",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "g\nroll campfire warm\nagain\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.' before any command")
	}
	if n := strings.Count(output, "Campfire warmed: "); n != 2 {
		t.Errorf("expected 2 rolls, got %d:\n%s", n, output)
	}
	if c.Engine.RNG.Position() != 2 {
		t.Errorf("RNG position = %d, want 2", c.Engine.RNG.Position())
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "tags\n")
	c.EchoInput = true
	c.Run()

	if !strings.Contains(out.String(), "> tags\n") {
		t.Errorf("expected echoed input, got:\n%s", out.String())
	}
}

func TestCLI_ExportImport(t *testing.T) {
	c, out := newTestCLI(t, "/export\n/quit\n")
	c.Run()

	path := filepath.Join(c.ExportDir, "forest.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Exported 1 collection(s)") {
		t.Errorf("output = %s", out.String())
	}

	c2, out2 := newTestCLI(t, "/import "+path+"\nlist w*\n/import\n/import nope.json\n")
	c2.Engine.Collections = nil
	c2.Run()

	output := out2.String()
	if !strings.Contains(output, "[Imported 2 concepts from "+path+".]") {
		t.Errorf("import message missing:\n%s", output)
	}
	if !strings.Contains(output, "Wolf [Animal]") {
		t.Errorf("imported collection not browsable:\n%s", output)
	}
	if !strings.Contains(output, "[Usage: /import <file.json>]") || !strings.Contains(output, "[Import failed:") {
		t.Errorf("import errors missing:\n%s", output)
	}
}

func TestCLI_Seed(t *testing.T) {
	c, out := newTestCLI(t, "sample\n/seed 9\n/rng\n/seed x\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"[RNG reseeded with 9.]", "[Seed 9, position 0.]", "[Usage: /seed <integer>]"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestCLI_HelpAndUnknownMeta(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/dance\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/export [dir]", "roll <concept> <action>", "again (g)", "Unknown command: /dance"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
