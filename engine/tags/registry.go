// Package tags interns tag names for one compile session.
//
// A Registry is an arena: it owns every types.Tag, and the rest of the
// pipeline refers to tags by types.TagID. Lookups are case-insensitive and
// keyed by the trimmed name, so "Hug" and "hug" resolve to the same handle.
// A Registry is not safe for concurrent use; concurrent compiles each get
// their own.
package tags

import (
	"strings"

	"github.com/nathoo/conceptc/types"
)

// Registry maps names to interned tags.
type Registry struct {
	tags  []types.Tag
	index map[string]types.TagID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]types.TagID{}}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Resolve returns the handle for name, creating it on first use with a
// display name equal to the name itself. A blank name returns types.NoTag.
func (r *Registry) Resolve(name string) types.TagID {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.NoTag
	}
	if id, ok := r.index[key(name)]; ok {
		return id
	}

	id := types.TagID(len(r.tags) + 1)
	r.tags = append(r.tags, types.Tag{ID: id, Name: name, Display: name})
	r.index[key(name)] = id
	return id
}

// ResolveRef resolves ref.Name and applies ref.Display as an override
// when present.
func (r *Registry) ResolveRef(ref types.TagRef) types.TagID {
	id := r.Resolve(ref.Name)
	if ref.Display != "" {
		r.SetDisplay(id, ref.Display)
	}
	return id
}

// Define resolves name and sets its display name. It is used to seed the
// registry from tag list files before documents are parsed.
func (r *Registry) Define(name, display string) types.TagID {
	id := r.Resolve(name)
	if display = strings.TrimSpace(display); display != "" {
		r.SetDisplay(id, display)
	}
	return id
}

// SetDisplay overrides the display name of an existing tag in place.
// It reports false for an unknown handle.
func (r *Registry) SetDisplay(id types.TagID, display string) bool {
	if !r.valid(id) {
		return false
	}
	r.tags[id-1].Display = display
	return true
}

// Lookup returns the handle for name without creating one.
func (r *Registry) Lookup(name string) (types.TagID, bool) {
	id, ok := r.index[key(strings.TrimSpace(name))]
	return id, ok
}

// Tag returns the tag for id.
func (r *Registry) Tag(id types.TagID) (types.Tag, bool) {
	if !r.valid(id) {
		return types.Tag{}, false
	}
	return r.tags[id-1], true
}

// Tags returns a copy of every tag in creation order.
func (r *Registry) Tags() []types.Tag {
	out := make([]types.Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Len returns the number of interned tags.
func (r *Registry) Len() int {
	return len(r.tags)
}

func (r *Registry) valid(id types.TagID) bool {
	return id > 0 && int(id) <= len(r.tags)
}
