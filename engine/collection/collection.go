// Package collection provides read-only queries over compiled concept
// collections.
package collection

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/conceptc/types"
)

// Find returns the first concept named name, compared case-insensitively.
func Find(c *types.Collection, name string) (*types.Concept, bool) {
	name = strings.TrimSpace(name)
	for i := range c.Concepts {
		if strings.EqualFold(c.Concepts[i].Name, name) {
			return &c.Concepts[i], true
		}
	}
	return nil, false
}

// Tag returns the tag for id, or false for NoTag and out-of-range IDs.
func Tag(c *types.Collection, id types.TagID) (types.Tag, bool) {
	if id <= types.NoTag || int(id) > len(c.Tags) {
		return types.Tag{}, false
	}
	return c.Tags[id-1], true
}

// TagName returns the canonical name for id, or "" if unknown.
func TagName(c *types.Collection, id types.TagID) string {
	t, _ := Tag(c, id)
	return t.Name
}

// TagByName finds a tag case-insensitively.
func TagByName(c *types.Collection, name string) (types.Tag, bool) {
	name = strings.TrimSpace(name)
	for _, t := range c.Tags {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return types.Tag{}, false
}

// ActionLabel returns the text shown for an action: the call-site display
// override, then the tag's display name, then the tag name.
func ActionLabel(c *types.Collection, a types.Action) string {
	if a.Display != "" {
		return a.Display
	}
	t, _ := Tag(c, a.Tag)
	if t.Display != "" {
		return t.Display
	}
	return t.Name
}

// FindAction returns the first action of con whose tag name or label
// matches name case-insensitively.
func FindAction(c *types.Collection, con *types.Concept, name string) (*types.Action, bool) {
	name = strings.TrimSpace(name)
	for i := range con.Actions {
		a := &con.Actions[i]
		if strings.EqualFold(TagName(c, a.Tag), name) || strings.EqualFold(ActionLabel(c, *a), name) {
			return a, true
		}
	}
	return nil, false
}

// WithCategory returns the concepts that list the category tag.
func WithCategory(c *types.Collection, id types.TagID) []*types.Concept {
	var out []*types.Concept
	for i := range c.Concepts {
		for _, cat := range c.Concepts[i].Categories {
			if cat == id {
				out = append(out, &c.Concepts[i])
				break
			}
		}
	}
	return out
}

// Filter returns the concepts whose lower-cased name matches the glob
// pattern. An empty pattern matches everything.
func Filter(c *types.Collection, pattern string) ([]*types.Concept, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, err
	}

	var out []*types.Concept
	for i := range c.Concepts {
		if g.Match(strings.ToLower(c.Concepts[i].Name)) {
			out = append(out, &c.Concepts[i])
		}
	}
	return out, nil
}

var (
	lowerUpper = regexp.MustCompile(`([a-z])([A-Z])`)
	acronym    = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	spaces     = regexp.MustCompile(`\s+`)
	title      = cases.Title(language.Und)
)

// DisplayName turns an identifier into a title-cased label:
// "campfire_smoke" -> "Campfire Smoke", "URLValue" -> "Url Value".
func DisplayName(id string) string {
	if id == "" {
		return ""
	}
	s := strings.ReplaceAll(id, "_", " ")
	s = lowerUpper.ReplaceAllString(s, "$1 $2")
	s = acronym.ReplaceAllString(s, "$1 $2")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	return title.String(strings.ToLower(s))
}
