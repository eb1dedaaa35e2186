package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/conceptc/engine/parser"
	"github.com/nathoo/conceptc/types"
)

const doc = `*Campfire:
icon(campfire)
color(#ff880080)
categories(Nature, Danger)
action(Warm[warmed], [1-3], IncreaseDanger(0.05), RequireAge(5))
action(Jump, [4-2], DangerMultiplier(2.5), RequireCategory(Nature, Brave))
*Trap:
touch_death(Impale[impaled])
color(bogus)
`

func TestRoundTrip(t *testing.T) {
	c := parser.Parse(doc)
	c.Name = "forest"

	data, err := Save(c)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, c)
	}
}

func TestSave_OverflowingContent(t *testing.T) {
	c := parser.Parse("*Bomb:\naction(Blast, 1, DangerMultiplier(1e200), DangerMultiplier(1e200))\naction([shown], 2)")
	data, err := Save(c)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	acts := got.Concepts[0].Actions
	if len(acts) != 2 || acts[0].DangerMultiplier != 1e200 {
		t.Errorf("actions = %+v", acts)
	}
	if acts[1].Tag != types.NoTag || acts[1].Display != "shown" {
		t.Errorf("unnamed action = %+v", acts[1])
	}
}

func TestSave_Format(t *testing.T) {
	c := parser.Parse("*Lake:\n")
	data, err := Save(c)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if raw["version"] != float64(FormatVersion) {
		t.Errorf("version = %v, want %d", raw["version"], FormatVersion)
	}
	if _, ok := raw["tags"].([]any); !ok {
		t.Errorf("tags = %v, want empty array", raw["tags"])
	}
	if !strings.Contains(string(data), `"color": "#ffffff"`) {
		t.Errorf("default color not written as #ffffff:\n%s", data)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"bad json", `{`, "unexpected end"},
		{"version", `{"version": 9}`, "unsupported export version"},
		{"tag sequence", `{"version":1,"tags":[{"id":2,"name":"A"}]}`, "out of sequence"},
		{"category ref", `{"version":1,"concepts":[{"name":"A","color":"#fff","categories":[1]}]}`, "unknown tag id 1"},
		{"lethal ref", `{"version":1,"concepts":[{"name":"A","color":"#fff","lethal":true}]}`, "touch_death: unknown tag id 0"},
		{"bad color", `{"version":1,"concepts":[{"name":"A","color":"red"}]}`, "must start with '#'"},
		{"action ref", `{"version":1,"concepts":[{"name":"A","color":"#fff","actions":[{"tag":3}]}]}`, "unknown tag id 3"},
		{
			"empty category condition",
			`{"version":1,"tags":[{"id":1,"name":"A"}],"concepts":[{"name":"A","color":"#fff","actions":[{"tag":1,"conditions":[{"kind":"require_category"}]}]}]}`,
			"no categories",
		},
		{
			"unknown condition",
			`{"version":1,"tags":[{"id":1,"name":"A"}],"concepts":[{"name":"A","color":"#fff","actions":[{"tag":1,"conditions":[{"kind":"moon_phase"}]}]}]}`,
			"unknown condition kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"content/forest.concepts", "forest.json"},
		{"town", "town.json"},
		{"", "collection-3.json"},
	}
	for _, tt := range tests {
		if got := FileName(&types.Collection{Name: tt.name}, 2); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWriteAll(t *testing.T) {
	a := parser.Parse("*A:\n")
	a.Name = "one.concepts"
	b := parser.Parse("*B:\n")

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteAll(dir, []*types.Collection{a, b})
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	want := []string{filepath.Join(dir, "one.json"), filepath.Join(dir, "collection-2.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	data, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(data)
	if err != nil || len(got.Concepts) != 1 || got.Concepts[0].Name != "B" {
		t.Errorf("reloaded = %+v, %v", got, err)
	}
}

func TestWriteAll_SameBaseName(t *testing.T) {
	a := parser.Parse("*A:\n")
	a.Name = filepath.Join("a", "x.concepts")
	b := parser.Parse("*B:\n")
	b.Name = filepath.Join("b", "x.concepts")
	c := parser.Parse("*C:\n")
	c.Name = filepath.Join("c", "X.concepts")

	dir := t.TempDir()
	paths, err := WriteAll(dir, []*types.Collection{a, b, c})
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	want := []string{
		filepath.Join(dir, "x.json"),
		filepath.Join(dir, "x-2.json"),
		filepath.Join(dir, "X-3.json"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	for i, name := range []string{"A", "B", "C"} {
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		got, err := Load(data)
		if err != nil || got.Concepts[0].Name != name {
			t.Errorf("%s holds %+v, %v; want concept %s", paths[i], got, err, name)
		}
	}
}
