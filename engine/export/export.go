// Package export implements the JSON handoff format for compiled
// collections.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/conceptc/engine/literal"
	"github.com/nathoo/conceptc/types"
)

// FormatVersion is written into every export.
const FormatVersion = 1

// Document is the JSON-serializable export format.
type Document struct {
	Version     int          `json:"version"`
	Name        string       `json:"name"`
	Tags        []Tag        `json:"tags"`
	Concepts    []Concept    `json:"concepts"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

type Tag struct {
	ID      types.TagID `json:"id"`
	Name    string      `json:"name"`
	Display string      `json:"display"`
}

type Concept struct {
	Name          string        `json:"name"`
	Sprite        string        `json:"sprite,omitempty"`
	Color         string        `json:"color"`
	Categories    []types.TagID `json:"categories"`
	Lethal        bool          `json:"lethal,omitempty"`
	LethalTag     types.TagID   `json:"lethal_tag,omitempty"`
	LethalDisplay string        `json:"lethal_display,omitempty"`
	Actions       []Action      `json:"actions"`
	Line          int           `json:"line,omitempty"`
}

type Action struct {
	Tag              types.TagID `json:"tag"`
	Display          string      `json:"display,omitempty"`
	Duration         [2]int      `json:"duration"`
	DangerMultiplier float64     `json:"danger_multiplier"`
	DeltaDanger      float64     `json:"delta_danger"`
	Conditions       []Condition `json:"conditions,omitempty"`
}

type Condition struct {
	Kind       types.ConditionKind `json:"kind"`
	MinAge     int                 `json:"min_age,omitempty"`
	Categories []types.TagID       `json:"categories,omitempty"`
}

type Diagnostic struct {
	File     string         `json:"file,omitempty"`
	Line     int            `json:"line"`
	Severity types.Severity `json:"severity"`
	Message  string         `json:"message"`
}

// Save serializes a collection to indented JSON.
func Save(c *types.Collection) ([]byte, error) {
	doc := Document{
		Version:  FormatVersion,
		Name:     c.Name,
		Tags:     []Tag{},
		Concepts: []Concept{},
	}
	for _, t := range c.Tags {
		doc.Tags = append(doc.Tags, Tag{ID: t.ID, Name: t.Name, Display: t.Display})
	}
	for _, con := range c.Concepts {
		out := Concept{
			Name:          con.Name,
			Sprite:        con.Sprite,
			Color:         literal.FormatColor(con.Color),
			Categories:    append([]types.TagID{}, con.Categories...),
			Lethal:        con.Lethal,
			LethalTag:     con.LethalTag,
			LethalDisplay: con.LethalDisplay,
			Actions:       []Action{},
			Line:          con.Line,
		}
		for _, a := range con.Actions {
			act := Action{
				Tag:              a.Tag,
				Display:          a.Display,
				Duration:         [2]int{a.Duration.Min, a.Duration.Max},
				DangerMultiplier: a.DangerMultiplier,
				DeltaDanger:      a.DeltaDanger,
			}
			for _, cond := range a.Conditions {
				act.Conditions = append(act.Conditions, Condition{
					Kind:       cond.Kind,
					MinAge:     cond.MinAge,
					Categories: cond.Categories,
				})
			}
			out.Actions = append(out.Actions, act)
		}
		doc.Concepts = append(doc.Concepts, out)
	}
	for _, d := range c.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, Diagnostic(d))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load deserializes JSON bytes into a collection, checking that tag IDs
// are sequential and that every reference points into the tag table.
func Load(data []byte) (*types.Collection, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported export version %d", doc.Version)
	}

	c := &types.Collection{Name: doc.Name}
	for i, t := range doc.Tags {
		if t.ID != types.TagID(i+1) {
			return nil, fmt.Errorf("tag %q: id %d out of sequence, want %d", t.Name, t.ID, i+1)
		}
		c.Tags = append(c.Tags, types.Tag{ID: t.ID, Name: t.Name, Display: t.Display})
	}

	check := func(where string, id types.TagID) error {
		if id <= types.NoTag || int(id) > len(c.Tags) {
			return fmt.Errorf("%s: unknown tag id %d", where, id)
		}
		return nil
	}

	for _, in := range doc.Concepts {
		col, err := literal.ParseColor(in.Color)
		if err != nil {
			return nil, fmt.Errorf("concept %q: %w", in.Name, err)
		}
		con := types.Concept{
			Name:          in.Name,
			Sprite:        in.Sprite,
			Color:         col,
			Lethal:        in.Lethal,
			LethalTag:     in.LethalTag,
			LethalDisplay: in.LethalDisplay,
			Line:          in.Line,
		}
		for _, id := range in.Categories {
			if err := check("concept "+in.Name, id); err != nil {
				return nil, err
			}
			con.Categories = append(con.Categories, id)
		}
		if in.Lethal {
			if err := check("concept "+in.Name+" touch_death", in.LethalTag); err != nil {
				return nil, err
			}
		}
		for _, a := range in.Actions {
			where := "concept " + in.Name + " action"
			if a.Tag != types.NoTag {
				if err := check(where, a.Tag); err != nil {
					return nil, err
				}
			}
			act := types.Action{
				Tag:              a.Tag,
				Display:          a.Display,
				Duration:         types.Duration{Min: a.Duration[0], Max: a.Duration[1]},
				DangerMultiplier: a.DangerMultiplier,
				DeltaDanger:      a.DeltaDanger,
			}
			for _, cond := range a.Conditions {
				switch cond.Kind {
				case types.RequireAge:
				case types.RequireCategory:
					if len(cond.Categories) == 0 {
						return nil, fmt.Errorf("%s: require_category with no categories", where)
					}
					for _, id := range cond.Categories {
						if err := check(where+" condition", id); err != nil {
							return nil, err
						}
					}
				default:
					return nil, fmt.Errorf("%s: unknown condition kind %q", where, cond.Kind)
				}
				act.Conditions = append(act.Conditions, types.Condition{
					Kind:       cond.Kind,
					MinAge:     cond.MinAge,
					Categories: cond.Categories,
				})
			}
			con.Actions = append(con.Actions, act)
		}
		c.Concepts = append(c.Concepts, con)
	}
	for _, d := range doc.Diagnostics {
		c.Diagnostics = append(c.Diagnostics, types.Diagnostic(d))
	}
	return c, nil
}

// FileName returns the export file name for a collection: its source file
// name with the extension replaced by .json. index names collections that
// have no source name.
func FileName(c *types.Collection, index int) string {
	base := strings.TrimSuffix(filepath.Base(c.Name), filepath.Ext(c.Name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = fmt.Sprintf("collection-%d", index+1)
	}
	return base + ".json"
}

// WriteAll saves every collection into dir, creating it if needed, and
// returns the paths written. When two collections share a file name
// (compared case-insensitively) the later one gets a "-<n>" suffix, n
// being its 1-based position in cols.
func WriteAll(dir string, cols []*types.Collection) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir %s: %w", dir, err)
	}
	var paths []string
	used := map[string]bool{}
	for i, c := range cols {
		data, err := Save(c)
		if err != nil {
			return paths, fmt.Errorf("exporting %s: %w", c.Name, err)
		}
		name := FileName(c, i)
		base := strings.TrimSuffix(name, ".json")
		for n := i + 1; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d.json", base, n)
		}
		used[strings.ToLower(name)] = true
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
