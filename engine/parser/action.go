package parser

import (
	"strings"

	"github.com/nathoo/conceptc/engine/keywords"
	"github.com/nathoo/conceptc/engine/literal"
	"github.com/nathoo/conceptc/engine/scan"
	"github.com/nathoo/conceptc/types"
)

// action parses `Tag[Display], duration, Call(args), ...` and appends the
// result to c. Conditions are looked up before modifiers.
func (p *Parser) action(c *types.Concept, args string, lineNo int) {
	parts := scan.SplitTopLevel(args)
	if len(parts) < 2 {
		p.warn(lineNo, "'action' requires at least an action name and a duration")
		return
	}

	// A blank name keeps the action with types.NoTag.
	ref := literal.ParseTagRef(parts[0])
	if ref.Name == "" {
		p.warn(lineNo, "'action' has an empty action name")
	}

	duration, ok := literal.ParseDuration(parts[1])
	if !ok {
		p.warn(lineNo, "invalid duration %q, defaulting to [%d-%d]",
			strings.TrimSpace(parts[1]), duration.Min, duration.Max)
	}

	act := types.Action{
		Tag:              p.tags.ResolveRef(ref),
		Display:          ref.Display,
		Duration:         duration,
		DangerMultiplier: 1,
	}

	ctx := lineCtx{p: p, lineNo: lineNo}
	for _, part := range parts[2:] {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}

		name, inner, ok := scan.SplitCall(token)
		if !ok {
			p.warn(lineNo, "malformed action argument %q", token)
			continue
		}

		if h, ok := p.keywords.Condition(name); ok {
			if cond, ok := h.Parse(inner, ctx); ok {
				act.Conditions = append(act.Conditions, cond)
			}
			continue
		}
		if h, ok := p.keywords.Modifier(name); ok {
			h.Apply(inner, &act, ctx)
			continue
		}

		p.warn(lineNo, "unknown action argument/condition %q%s",
			name, keywords.Hint(name, p.keywords.Keywords()))
	}

	c.Actions = append(c.Actions, act)
}
