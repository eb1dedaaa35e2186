// Package engine provides the Step() command interpreter used by the
// concept browsers. It answers queries over one or more compiled
// collections.
package engine

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/nathoo/conceptc/engine/collection"
	"github.com/nathoo/conceptc/engine/diag"
	"github.com/nathoo/conceptc/engine/literal"
	"github.com/nathoo/conceptc/types"
)

// Engine holds the compiled collections and the sampling RNG.
type Engine struct {
	Collections []*types.Collection
	RNG         *RNG
}

// New creates an engine over the given collections.
func New(seed int64, cols ...*types.Collection) *Engine {
	return &Engine{
		Collections: cols,
		RNG:         NewRNG(seed),
	}
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Commands lists the browser commands with their usage, in help order.
var Commands = [][2]string{
	{"list [pattern]", "list concepts, optionally filtered by a glob"},
	{"show <concept>", "describe a concept"},
	{"tags", "list interned tags"},
	{"category <tag>", "list concepts in a category"},
	{"diag", "list compile diagnostics"},
	{"sample", "pick a random concept"},
	{"roll <concept> <action>", "roll an action's duration"},
	{"help", "show this list"},
}

// Step runs one command and returns its output.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	args, err := shlex.Split(input)
	if err != nil {
		result.Output = append(result.Output, fmt.Sprintf("Cannot parse command: %v", err))
		return result
	}
	if len(args) == 0 {
		result.Output = append(result.Output, "Type help for a list of commands.")
		return result
	}

	verb := strings.ToLower(args[0])
	rest := args[1:]

	switch verb {
	case "list", "ls":
		result.Output = e.list(strings.Join(rest, " "))
	case "show", "x":
		result.Output = e.show(strings.Join(rest, " "))
	case "tags":
		result.Output = e.tags()
	case "category", "cat":
		result.Output = e.category(strings.Join(rest, " "))
	case "diag":
		result.Output = e.diagnostics()
	case "sample":
		result.Output = e.sample()
	case "roll":
		result.Output = e.roll(rest)
	case "help", "?":
		result.Output = Help()
	default:
		result.Output = []string{fmt.Sprintf("Unknown command %q. Type help for a list of commands.", args[0])}
	}
	return result
}

// Help returns the command summary.
func Help() []string {
	out := []string{"Commands:"}
	for _, c := range Commands {
		out = append(out, fmt.Sprintf("  %-24s %s", c[0], c[1]))
	}
	return out
}

// Counts returns the number of concepts, tags, and diagnostics across all
// collections.
func (e *Engine) Counts() (concepts, tags, diagnostics int) {
	for _, c := range e.Collections {
		concepts += len(c.Concepts)
		tags += len(c.Tags)
		diagnostics += len(c.Diagnostics)
	}
	return concepts, tags, diagnostics
}

// Find returns the first concept named name across all collections,
// along with the collection that owns it.
func (e *Engine) Find(name string) (*types.Collection, *types.Concept, bool) {
	for _, c := range e.Collections {
		if con, ok := collection.Find(c, name); ok {
			return c, con, true
		}
	}
	return nil, nil, false
}

func (e *Engine) list(pattern string) []string {
	var out []string
	for _, c := range e.Collections {
		matches, err := collection.Filter(c, pattern)
		if err != nil {
			return []string{fmt.Sprintf("Bad pattern %q: %v", pattern, err)}
		}
		for _, con := range matches {
			out = append(out, e.summary(c, con))
		}
	}
	if len(out) == 0 {
		return []string{"No concepts match."}
	}
	return out
}

func (e *Engine) summary(c *types.Collection, con *types.Concept) string {
	line := con.Name
	if len(con.Categories) > 0 {
		line += " [" + strings.Join(tagNames(c, con.Categories), ", ") + "]"
	}
	switch n := len(con.Actions); n {
	case 0:
	case 1:
		line += " (1 action)"
	default:
		line += fmt.Sprintf(" (%d actions)", n)
	}
	if con.Lethal {
		line += " lethal"
	}
	return line
}

func (e *Engine) show(name string) []string {
	if name == "" {
		return []string{"Show what?"}
	}
	c, con, ok := e.Find(name)
	if !ok {
		return []string{fmt.Sprintf("No concept named %q.", name)}
	}
	return Describe(c, con)
}

// Describe renders every property of a concept.
func Describe(c *types.Collection, con *types.Concept) []string {
	out := []string{fmt.Sprintf("%s (%s)", con.Name, collection.DisplayName(con.Name))}
	if c.Name != "" {
		out = append(out, fmt.Sprintf("  source:     %s:%d", c.Name, con.Line))
	}
	if con.Sprite != "" {
		out = append(out, "  icon:       "+con.Sprite)
	}
	out = append(out, "  color:      "+literal.FormatColor(con.Color))
	if len(con.Categories) > 0 {
		out = append(out, "  categories: "+strings.Join(tagNames(c, con.Categories), ", "))
	}
	if con.Lethal {
		t, _ := collection.Tag(c, con.LethalTag)
		out = append(out, fmt.Sprintf("  touch_death: %s (%s)", t.Name, t.Display))
	}
	for _, a := range con.Actions {
		out = append(out, "  "+describeAction(c, a))
		for _, cond := range a.Conditions {
			out = append(out, "      requires "+describeCondition(c, cond))
		}
	}
	return out
}

func describeAction(c *types.Collection, a types.Action) string {
	name := collection.TagName(c, a.Tag)
	if name == "" {
		name = "-"
	}
	s := fmt.Sprintf("action %s %q %s", name, collection.ActionLabel(c, a), formatDuration(a.Duration))
	if a.DeltaDanger != 0 {
		s += fmt.Sprintf(" danger%+g", a.DeltaDanger)
	}
	if a.DangerMultiplier != 1 {
		s += fmt.Sprintf(" x%g", a.DangerMultiplier)
	}
	return s
}

func describeCondition(c *types.Collection, cond types.Condition) string {
	switch cond.Kind {
	case types.RequireAge:
		return fmt.Sprintf("age >= %d", cond.MinAge)
	case types.RequireCategory:
		return "category " + strings.Join(tagNames(c, cond.Categories), " & ")
	}
	return string(cond.Kind)
}

func formatDuration(d types.Duration) string {
	if d.Min == d.Max {
		return fmt.Sprintf("[%d]", d.Min)
	}
	return fmt.Sprintf("[%d-%d]", d.Min, d.Max)
}

func tagNames(c *types.Collection, ids []types.TagID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, collection.TagName(c, id))
	}
	return names
}

func (e *Engine) tags() []string {
	var out []string
	for _, c := range e.Collections {
		for _, t := range c.Tags {
			line := t.Name
			if t.Display != t.Name {
				line += " (" + t.Display + ")"
			}
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return []string{"No tags."}
	}
	return out
}

func (e *Engine) category(name string) []string {
	if name == "" {
		return []string{"Which category?"}
	}
	var out []string
	found := false
	for _, c := range e.Collections {
		t, ok := collection.TagByName(c, name)
		if !ok {
			continue
		}
		found = true
		for _, con := range collection.WithCategory(c, t.ID) {
			out = append(out, con.Name)
		}
	}
	if !found {
		return []string{fmt.Sprintf("No tag named %q.", name)}
	}
	if len(out) == 0 {
		return []string{fmt.Sprintf("No concepts in %q.", name)}
	}
	return out
}

func (e *Engine) diagnostics() []string {
	var out []string
	for _, c := range e.Collections {
		for _, d := range c.Diagnostics {
			out = append(out, diag.Format(d))
		}
	}
	if len(out) == 0 {
		return []string{"No diagnostics."}
	}
	return out
}

func (e *Engine) sample() []string {
	concepts, _, _ := e.Counts()
	idx := e.RNG.Pick(concepts)
	if idx < 0 {
		return []string{"Nothing to sample."}
	}
	for _, c := range e.Collections {
		if idx < len(c.Concepts) {
			return Describe(c, &c.Concepts[idx])
		}
		idx -= len(c.Concepts)
	}
	return nil
}

func (e *Engine) roll(args []string) []string {
	if len(args) < 2 {
		return []string{"Usage: roll <concept> <action>"}
	}
	c, con, ok := e.Find(args[0])
	if !ok {
		return []string{fmt.Sprintf("No concept named %q.", args[0])}
	}
	name := strings.Join(args[1:], " ")
	a, ok := collection.FindAction(c, con, name)
	if !ok {
		return []string{fmt.Sprintf("%s has no action %q.", con.Name, name)}
	}
	turns := e.RNG.RollDuration(a.Duration)
	return []string{fmt.Sprintf("%s %s: %d turns (range %s)",
		con.Name, collection.ActionLabel(c, *a), turns, formatDuration(a.Duration))}
}
