package levels

import "fmt"

const (
	LayerBackground  = "Background"
	LayerGround      = "Ground"
	LayerPlatforms   = "Platforms"
	LayerTerrain     = "Terrain"
	LayerGems        = "Gems"
	LayerDoorKeyHole = "DoorKeyHole"
	LayerKey         = "Key"
	LayerExit        = "Exit"

	typeTileLayer   = "tilelayer"
	typeObjectGroup = "objectgroup"

	// Tiled stores flip flags in the top three bits of a gid.
	gidFlagMask = 0xE0000000
)

// Map is the subset of the Tiled JSON map format the game reads.
type Map struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	TileWidth  int       `json:"tilewidth"`
	TileHeight int       `json:"tileheight"`
	Layers     []Layer   `json:"layers"`
	Tilesets   []Tileset `json:"tilesets"`
}

type Layer struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Visible    bool       `json:"visible"`
	Opacity    float64    `json:"opacity"`
	Data       []uint32   `json:"data,omitempty"`
	Objects    []Object   `json:"objects,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

type Object struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	GID     uint32  `json:"gid"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}

type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type Tileset struct {
	FirstGID   uint32 `json:"firstgid"`
	Name       string `json:"name"`
	TileWidth  int    `json:"tilewidth"`
	TileHeight int    `json:"tileheight"`
	TileCount  int    `json:"tilecount"`
	Columns    int    `json:"columns"`
}

// Sides says which faces of a tile block movement.
type Sides struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Any reports whether the tile collides at all.
func (s Sides) Any() bool {
	return s.Up || s.Down || s.Left || s.Right
}

// OneWay reports whether only the top face collides.
func (s Sides) OneWay() bool {
	return s.Up && !s.Down && !s.Left && !s.Right
}

// Tile is a non-empty cell of a tile layer.
type Tile struct {
	Col int
	Row int
	GID uint32
}

func (m *Map) validate() error {
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return fmt.Errorf("levels: invalid map size %dx%d tiles of %dx%d", m.Width, m.Height, m.TileWidth, m.TileHeight)
	}
	for _, l := range m.Layers {
		if l.Type != typeTileLayer {
			continue
		}
		if want := m.Width * m.Height; len(l.Data) != want {
			return fmt.Errorf("levels: layer %q has %d cells, want %d", l.Name, len(l.Data), want)
		}
	}
	return nil
}

// PixelSize returns the map extent in world pixels.
func (m *Map) PixelSize() (float64, float64) {
	return float64(m.Width * m.TileWidth), float64(m.Height * m.TileHeight)
}

func (m *Map) layer(name, typ string) (*Layer, error) {
	for i := range m.Layers {
		if m.Layers[i].Name == name && m.Layers[i].Type == typ {
			return &m.Layers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q", ErrLayerNotFound, typ, name)
}

// TileLayer returns the named tile layer.
func (m *Map) TileLayer(name string) (*Layer, error) {
	return m.layer(name, typeTileLayer)
}

// ObjectLayer returns the named object layer.
func (m *Map) ObjectLayer(name string) (*Layer, error) {
	return m.layer(name, typeObjectGroup)
}

// Objects returns the objects called name in layer with positions normalised
// to their top-left corner. A missing layer yields no objects.
func (m *Map) Objects(layer, name string) []Object {
	l, err := m.ObjectLayer(layer)
	if err != nil {
		return nil
	}
	var out []Object
	for _, o := range l.Objects {
		if name != "" && o.Name != name {
			continue
		}
		if o.GID != 0 {
			// tile objects are anchored at their bottom-left corner
			o.Y -= o.Height
		}
		out = append(out, o)
	}
	return out
}

// Tiles returns every non-empty cell of the named tile layer in row-major order.
func (m *Map) Tiles(layer string) ([]Tile, error) {
	l, err := m.TileLayer(layer)
	if err != nil {
		return nil, err
	}
	var out []Tile
	for i, raw := range l.Data {
		gid := raw &^ gidFlagMask
		if gid == 0 {
			continue
		}
		out = append(out, Tile{Col: i % m.Width, Row: i / m.Width, GID: gid})
	}
	return out, nil
}

// TileAt returns the gid at col,row of layer, or 0 when empty or out of range.
func (m *Map) TileAt(layer string, col, row int) uint32 {
	l, err := m.TileLayer(layer)
	if err != nil || col < 0 || row < 0 || col >= m.Width || row >= m.Height {
		return 0
	}
	return l.Data[row*m.Width+col] &^ gidFlagMask
}

// CollisionSides reports which tile faces of layer block movement. Layers may
// carry a "collision" property of "all" or "top"; without one, Ground collides
// on every side and Platforms only from above.
func (m *Map) CollisionSides(layer string) Sides {
	l, err := m.TileLayer(layer)
	if err != nil {
		return Sides{}
	}
	mode := ""
	for _, p := range l.Properties {
		if p.Name == "collision" {
			mode, _ = p.Value.(string)
		}
	}
	if mode == "" {
		switch layer {
		case LayerGround:
			mode = "all"
		case LayerPlatforms:
			mode = "top"
		}
	}
	switch mode {
	case "all":
		return Sides{Up: true, Down: true, Left: true, Right: true}
	case "top":
		return Sides{Up: true}
	}
	return Sides{}
}

// TilesetFor returns the tileset owning gid and the local frame index in it.
func (m *Map) TilesetFor(gid uint32) (*Tileset, int, bool) {
	gid &^= gidFlagMask
	var best *Tileset
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		if ts.FirstGID <= gid && (best == nil || ts.FirstGID > best.FirstGID) {
			best = ts
		}
	}
	if best == nil || gid == 0 {
		return nil, 0, false
	}
	return best, int(gid - best.FirstGID), true
}
