// Package levels embeds the levels shipped with the game.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"wireworld/internal/level"
)

//go:embed *.level *.solution catalog.yaml
var files embed.FS

// FS exposes the embedded level files.
func FS() fs.FS { return files }

// Catalog returns the embedded level catalog.
func Catalog() (*level.Catalog, error) {
	data, err := files.ReadFile("catalog.yaml")
	if err != nil {
		return nil, err
	}
	return level.ParseCatalog(data)
}

// Load parses the embedded level stored under file.
func Load(file string) (*level.Descriptor, error) {
	data, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	d, err := level.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	d.Name = strings.TrimSuffix(file, level.Ext)
	return d, nil
}

// Solution returns the embedded solution grid for file, if one ships.
func Solution(file string) (string, bool) {
	name := strings.TrimSuffix(file, level.Ext) + ".solution"
	data, err := files.ReadFile(name)
	if err != nil {
		return "", false
	}
	return string(data), true
}
