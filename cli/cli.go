// Package cli provides the plain-text concept browser: a line-oriented
// REPL over engine.Step with '/' meta-commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/conceptc/engine"
	"github.com/nathoo/conceptc/engine/export"
	"github.com/nathoo/conceptc/types"
)

// CLI handles terminal interaction with the user.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	ExportDir string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine:    eng,
		In:        os.Stdin,
		Out:       os.Stdout,
		ExportDir: ".",
	}
}

// Run prints a summary, then loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	concepts, tags, diags := c.Engine.Counts()
	c.printLine(fmt.Sprintf("%d concepts, %d tags, %d diagnostics. Type help for commands.", concepts, tags, diags))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printResult(c.Engine.Step(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the browser should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/export":
		c.cmdExport(arg)

	case "/import":
		c.cmdImport(arg)

	case "/seed":
		c.cmdSeed(arg)

	case "/rng":
		c.printSystem(fmt.Sprintf("Seed %d, position %d.", c.Engine.RNG.Seed(), c.Engine.RNG.Position()))

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdExport(dir string) {
	if dir == "" {
		dir = c.ExportDir
	}
	paths, err := export.WriteAll(dir, c.Engine.Collections)
	if err != nil {
		c.printSystem(fmt.Sprintf("Export failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Exported %d collection(s) to %s.", len(paths), dir))
}

func (c *CLI) cmdImport(path string) {
	if path == "" {
		c.printSystem("Usage: /import <file.json>")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Import failed: %v", err))
		return
	}
	col, err := export.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Import failed: %v", err))
		return
	}
	c.Engine.Collections = append(c.Engine.Collections, col)
	c.printSystem(fmt.Sprintf("Imported %d concepts from %s.", len(col.Concepts), path))
}

func (c *CLI) cmdSeed(arg string) {
	seed, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		c.printSystem("Usage: /seed <integer>")
		return
	}
	c.Engine.RestoreRNG(seed, 0)
	c.printSystem(fmt.Sprintf("RNG reseeded with %d.", seed))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /export [dir]    write collections as JSON (default: export dir)",
		"  /import <file>   load a JSON export into the browser",
		"  /seed <n>        reseed the sampling RNG",
		"  /rng             show RNG seed and position",
		"  /quit            exit",
		"  /help            show this help",
		"",
	}
	for _, line := range help {
		c.printLine(line)
	}
	for _, line := range engine.Help() {
		c.printLine(line)
	}
	c.printLine("  again (g)                repeat the last command")
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
