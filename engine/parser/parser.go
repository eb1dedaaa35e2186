// Package parser compiles concept documents into types.Concept records.
//
// The format is line oriented: `*Name:` starts a record, and property
// lines of the form `keyword(args)` fill it in. Every malformed construct
// is reported to the diagnostic sink and skipped; Parse never fails.
package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nathoo/conceptc/engine/diag"
	"github.com/nathoo/conceptc/engine/keywords"
	"github.com/nathoo/conceptc/engine/literal"
	"github.com/nathoo/conceptc/engine/scan"
	"github.com/nathoo/conceptc/engine/tags"
	"github.com/nathoo/conceptc/types"
)

// SpriteChecker reports whether a sprite exists. It only decides whether a
// "sprite not found" warning is emitted.
type SpriteChecker interface {
	HasSprite(name string) bool
}

// SpriteLister is optionally implemented by a SpriteChecker to enable
// "did you mean" hints for missing sprites.
type SpriteLister interface {
	SpriteNames() []string
}

// Parser holds the collaborators for compiling documents. A Parser shares
// its tag registry across every Parse call.
type Parser struct {
	tags     *tags.Registry
	keywords *keywords.Table
	sink     diag.Sink
	sprites  SpriteChecker
	file     string
}

// Option configures a Parser.
type Option func(*Parser)

// WithKeywords replaces the default keyword table.
func WithKeywords(t *keywords.Table) Option {
	return func(p *Parser) { p.keywords = t }
}

// WithSink sets where diagnostics go. The default discards them.
func WithSink(s diag.Sink) Option {
	return func(p *Parser) { p.sink = s }
}

// WithSprites enables sprite existence warnings.
func WithSprites(c SpriteChecker) Option {
	return func(p *Parser) { p.sprites = c }
}

// WithFile sets the file name recorded on diagnostics.
func WithFile(name string) Option {
	return func(p *Parser) { p.file = name }
}

// New creates a parser that interns tags into reg.
func New(reg *tags.Registry, opts ...Option) *Parser {
	p := &Parser{
		tags:     reg,
		keywords: keywords.Default(),
		sink:     diag.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse compiles a document with a fresh registry and the default keyword
// table, collecting diagnostics into the returned collection.
func Parse(text string) *types.Collection {
	reg := tags.NewRegistry()
	var list diag.List
	concepts := New(reg, WithSink(&list)).Parse(text)
	return &types.Collection{
		Concepts:    concepts,
		Tags:        reg.Tags(),
		Diagnostics: list.Items(),
	}
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parse compiles text and returns the concepts in document order.
func (p *Parser) Parse(text string) []types.Concept {
	var out []types.Concept
	cur := -1 // index of the current record in out, -1 before any header

	lines := strings.Split(lineBreaks.Replace(text), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRightFunc(scan.StripComment(raw), unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#") {
			continue
		}

		if strings.HasPrefix(line, "*") {
			name, ok := p.header(line, lineNo)
			if !ok {
				continue
			}
			out = append(out, types.Concept{Name: name, Color: types.White, Line: lineNo})
			cur = len(out) - 1
			continue
		}

		if cur < 0 {
			p.warn(lineNo, "content before any concept header, ignoring")
			continue
		}

		p.property(&out[cur], line, lineNo)
	}

	return out
}

// header extracts the record name from `*Name:`.
func (p *Parser) header(line string, lineNo int) (string, bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		p.warn(lineNo, "malformed concept header %q", line)
		return "", false
	}
	name := strings.TrimSpace(line[1:colon])
	if name == "" {
		p.warn(lineNo, "concept name is empty")
		return "", false
	}
	return name, true
}

// propertyFunc applies one property line to the current record.
type propertyFunc func(p *Parser, c *types.Concept, args string, lineNo int)

var properties = map[string]propertyFunc{
	"icon":        (*Parser).icon,
	"categories":  (*Parser).categories,
	"color":       (*Parser).color,
	"touch_death": (*Parser).touchDeath,
	"action":      (*Parser).action,
}

var propertyNames = []string{"action", "categories", "color", "icon", "touch_death"}

func (p *Parser) property(c *types.Concept, line string, lineNo int) {
	keyword, args, ok := scan.SplitCall(strings.TrimLeftFunc(line, unicode.IsSpace))
	if !ok {
		p.warn(lineNo, "malformed property %q", line)
		return
	}

	fn, ok := properties[keyword]
	if !ok {
		p.warn(lineNo, "unknown keyword %q%s", keyword, keywords.Hint(keyword, propertyNames))
		return
	}
	fn(p, c, args, lineNo)
}

func (p *Parser) icon(c *types.Concept, args string, lineNo int) {
	c.Sprite = strings.TrimSpace(args)
	if c.Sprite == "" || p.sprites == nil || p.sprites.HasSprite(c.Sprite) {
		return
	}
	var hint string
	if l, ok := p.sprites.(SpriteLister); ok {
		hint = keywords.Hint(c.Sprite, l.SpriteNames())
	}
	p.warn(lineNo, "sprite %q not found%s", c.Sprite, hint)
}

func (p *Parser) categories(c *types.Concept, args string, _ int) {
	for _, name := range scan.SplitList(args) {
		c.Categories = append(c.Categories, p.tags.Resolve(name))
	}
}

func (p *Parser) color(c *types.Concept, args string, lineNo int) {
	col, err := literal.ParseColor(args)
	if err != nil {
		p.warn(lineNo, "invalid color %q", args)
		return
	}
	c.Color = col
}

func (p *Parser) touchDeath(c *types.Concept, args string, lineNo int) {
	ref := literal.ParseTagRef(args)
	if ref.Name == "" {
		p.warn(lineNo, "touch_death requires a tag name")
		return
	}
	c.Lethal = true
	c.LethalTag = p.tags.ResolveRef(ref)
	c.LethalDisplay = ref.Display
}

func (p *Parser) warn(lineNo int, format string, args ...any) {
	p.report(types.SeverityWarning, lineNo, format, args...)
}

func (p *Parser) report(sev types.Severity, lineNo int, format string, args ...any) {
	p.sink.Report(types.Diagnostic{
		File:     p.file,
		Line:     lineNo,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
}

// lineCtx is the keywords.Context handed to call handlers.
type lineCtx struct {
	p      *Parser
	lineNo int
}

func (c lineCtx) Resolve(name string) types.TagID { return c.p.tags.Resolve(name) }

func (c lineCtx) Warnf(format string, args ...any) {
	c.p.report(types.SeverityWarning, c.lineNo, format, args...)
}

func (c lineCtx) Errorf(format string, args ...any) {
	c.p.report(types.SeverityError, c.lineNo, format, args...)
}
