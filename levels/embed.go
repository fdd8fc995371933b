// Package levels loads the embedded Tiled-format tilemaps.
package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// DefaultLevel is the level the game starts on.
const DefaultLevel = "level-1"

var ErrLayerNotFound = errors.New("levels: layer not found")

// Names lists the embedded level names without extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}

// Load reads an embedded level by name ("level-1" or "level-1.json").
func Load(name string) (*Map, error) {
	clean := cleanLevelName(name)
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}
	return Parse(data)
}

// Open loads name from disk when it names an existing file and from the
// embedded levels otherwise.
func Open(name string) (*Map, error) {
	if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
		return LoadFile(name)
	}
	return Load(name)
}

// Name returns the level name for a level argument or file path.
func Name(name string) string {
	return strings.TrimSuffix(cleanLevelName(name), ".json")
}

// LoadFile reads a level from disk, for maps authored outside the binary.
func LoadFile(filename string) (*Map, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse decodes Tiled JSON and checks that every tile layer matches the map size.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func cleanLevelName(name string) string {
	if name == "" {
		name = DefaultLevel
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if path.Ext(name) != ".json" {
		name += ".json"
	}
	return name
}
