package tags

import (
	"testing"

	"github.com/nathoo/conceptc/types"
)

func TestResolve_CaseInsensitiveIdentity(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("Hug")
	b := r.Resolve("hug")
	c := r.Resolve("  HUG ")
	if a != b || b != c {
		t.Fatalf("Resolve returned distinct handles: %d, %d, %d", a, b, c)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	tag, _ := r.Tag(a)
	if tag.Name != "Hug" {
		t.Errorf("Name = %q, want first spelling %q", tag.Name, "Hug")
	}
	if tag.Display != "Hug" {
		t.Errorf("Display = %q, want %q", tag.Display, "Hug")
	}
}

func TestResolve_Blank(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"", "   ", "\t"} {
		if id := r.Resolve(name); id != types.NoTag {
			t.Errorf("Resolve(%q) = %d, want NoTag", name, id)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestResolveRef_OverrideUpdatesInPlace(t *testing.T) {
	r := NewRegistry()
	first := r.Resolve("Hug")
	second := r.ResolveRef(types.TagRef{Name: "hug", Display: "Hugged"})
	if first != second {
		t.Fatalf("override created a second handle: %d vs %d", first, second)
	}
	tag, _ := r.Tag(first)
	if tag.Display != "Hugged" {
		t.Errorf("Display = %q, want %q", tag.Display, "Hugged")
	}

	// A later plain reference leaves the override alone.
	r.ResolveRef(types.TagRef{Name: "HUG"})
	tag, _ = r.Tag(first)
	if tag.Display != "Hugged" {
		t.Errorf("Display after plain ref = %q, want %q", tag.Display, "Hugged")
	}

	// A later explicit override wins.
	r.ResolveRef(types.TagRef{Name: "Hug", Display: "embraced"})
	tag, _ = r.Tag(first)
	if tag.Display != "embraced" {
		t.Errorf("Display after second override = %q, want %q", tag.Display, "embraced")
	}
}

func TestDefine(t *testing.T) {
	r := NewRegistry()
	id := r.Define("eat_berries", "Eat Berries")
	tag, ok := r.Tag(id)
	if !ok || tag.Display != "Eat Berries" {
		t.Errorf("Define: tag = %+v, ok = %v", tag, ok)
	}
	if again := r.Define("EAT_BERRIES", ""); again != id {
		t.Errorf("Define with blank display created %d, want %d", again, id)
	}
	tag, _ = r.Tag(id)
	if tag.Display != "Eat Berries" {
		t.Errorf("blank Define changed display to %q", tag.Display)
	}
}

func TestLookupAndTags(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("Nature"); ok {
		t.Error("Lookup created or found a missing tag")
	}
	nature := r.Resolve("Nature")
	danger := r.Resolve("Danger")
	if id, ok := r.Lookup("nature"); !ok || id != nature {
		t.Errorf("Lookup(nature) = %d, %v", id, ok)
	}

	all := r.Tags()
	if len(all) != 2 || all[0].ID != nature || all[1].ID != danger {
		t.Errorf("Tags() = %+v", all)
	}
	all[0].Name = "mutated"
	if tag, _ := r.Tag(nature); tag.Name != "Nature" {
		t.Error("Tags() returned an alias of internal storage")
	}
}

func TestInvalidHandles(t *testing.T) {
	r := NewRegistry()
	r.Resolve("a")
	for _, id := range []types.TagID{types.NoTag, -1, 2} {
		if _, ok := r.Tag(id); ok {
			t.Errorf("Tag(%d) ok, want false", id)
		}
		if r.SetDisplay(id, "x") {
			t.Errorf("SetDisplay(%d) ok, want false", id)
		}
	}
}
