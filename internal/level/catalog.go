package level

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Entry lists one level of the level-select screen.
type Entry struct {
	File      string `yaml:"file" json:"file"`
	Title     string `yaml:"title" json:"title"`
	Width     int    `yaml:"width" json:"width"`
	Height    int    `yaml:"height" json:"height"`
	Exercises int    `yaml:"exercises" json:"exercises"`
}

// Catalog is the ordered list of playable levels.
type Catalog struct {
	Levels []Entry `yaml:"levels" json:"levels"`
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	for i, e := range c.Levels {
		if e.File == "" {
			return nil, fmt.Errorf("catalog: level %d: missing file", i)
		}
	}
	return &c, nil
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Find returns the entry whose title or file name matches name.
func (c *Catalog) Find(name string) (Entry, bool) {
	for _, e := range c.Levels {
		if e.Title == name || e.File == name {
			return e, true
		}
	}
	return Entry{}, false
}

// CheckResult reports whether a catalog entry matches its level file.
type CheckResult struct {
	Entry Entry
	Err   error
}

// Loader resolves a catalog file name to a parsed level.
type Loader func(file string) (*Descriptor, error)

// DirLoader loads level files from dir.
func DirLoader(dir string) Loader {
	return func(file string) (*Descriptor, error) {
		return ParseFile(filepath.Join(dir, file))
	}
}

// Check loads every listed level and compares it with the declared size and
// exercise count. Zero declared values are not checked.
func (c *Catalog) Check(load Loader) []CheckResult {
	out := make([]CheckResult, 0, len(c.Levels))
	for _, e := range c.Levels {
		out = append(out, CheckResult{Entry: e, Err: e.check(load)})
	}
	return out
}

func (e Entry) check(load Loader) error {
	d, err := load(e.File)
	if err != nil {
		return err
	}
	if e.Width > 0 && e.Width != d.Size.W || e.Height > 0 && e.Height != d.Size.H {
		return fmt.Errorf("%s: size %dx%d, catalog says %dx%d", e.File, d.Size.W, d.Size.H, e.Width, e.Height)
	}
	if e.Exercises > 0 && e.Exercises != len(d.Exercises) {
		return fmt.Errorf("%s: %d exercises, catalog says %d", e.File, len(d.Exercises), e.Exercises)
	}
	return nil
}
