package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// SpriteCatalog is a case-insensitive set of sprite names, read from
// sprite-name list files with one name per line.
type SpriteCatalog struct {
	names map[string]string // lower-cased -> as written
}

// NewSpriteCatalog returns a catalog holding names.
func NewSpriteCatalog(names ...string) *SpriteCatalog {
	c := &SpriteCatalog{names: map[string]string{}}
	for _, n := range names {
		c.Add(n)
	}
	return c
}

// LoadSprites reads every file in paths into one catalog.
func LoadSprites(paths ...string) (*SpriteCatalog, error) {
	c := NewSpriteCatalog()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening sprite list %s: %w", path, err)
		}
		err = c.Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading sprite list %s: %w", path, err)
		}
	}
	return c, nil
}

// Read adds one name per non-blank line of r. Lines starting with '#'
// are comments.
func (c *SpriteCatalog) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c.Add(line)
	}
	return scanner.Err()
}

// Add inserts name. The first spelling of a name is kept.
func (c *SpriteCatalog) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, ok := c.names[key]; !ok {
		c.names[key] = name
	}
}

// HasSprite reports whether name is in the catalog.
func (c *SpriteCatalog) HasSprite(name string) bool {
	_, ok := c.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// SpriteNames returns every name, sorted.
func (c *SpriteCatalog) SpriteNames() []string {
	out := make([]string, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of sprites.
func (c *SpriteCatalog) Len() int {
	return len(c.names)
}
