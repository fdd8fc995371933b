package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
)

// DoorGroup is the group name shared by every door segment of a level.
const DoorGroup = "door"

// Level lists the entities LoadLevelToWorld created that callers look up.
type Level struct {
	Player ecs.Entity
	Camera ecs.Entity
	Doors  []ecs.Entity
	Width  float64
	Height float64
}

var tileLayers = []struct {
	name   string
	render int
}{
	{levels.LayerBackground, component.LayerBackground},
	{levels.LayerTerrain, component.LayerTerrain},
	{levels.LayerGround, component.LayerGround},
	{levels.LayerPlatforms, component.LayerGround},
}

var pickupLayers = []struct {
	layer string
	name  string
	kind  component.PickupKind
}{
	{levels.LayerGems, "gem", component.PickupGem},
	{levels.LayerKey, "key", component.PickupKey},
	{levels.LayerDoorKeyHole, "keyhole", component.PickupKeyhole},
	{levels.LayerExit, "exit", component.PickupExit},
}

// LoadLevelToWorld builds a level into an empty world: tiles, merged
// colliders, pickups, the door group, the player with its emitters and the
// camera.
func LoadLevelToWorld(world *ecs.World, m *levels.Map, tuning prefabs.Tuning) (*Level, error) {
	if world == nil || m == nil {
		return nil, errors.New("level: nil world or map")
	}
	lvl := &Level{}
	lvl.Width, lvl.Height = m.PixelSize()

	bounds := ecs.CreateEntity(world)
	if err := ecs.Add(world, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  lvl.Width,
		Height: lvl.Height,
	}); err != nil {
		return nil, fmt.Errorf("level: add bounds: %w", err)
	}

	tiles := newTileImages(m)
	for _, tl := range tileLayers {
		if err := addTileLayer(world, m, tiles, tl.name, tl.render); err != nil {
			if errors.Is(err, levels.ErrLayerNotFound) && tl.name != levels.LayerGround {
				continue
			}
			return nil, fmt.Errorf("level: layer %s: %w", tl.name, err)
		}
		if err := addLayerColliders(world, m, tl.name); err != nil {
			return nil, fmt.Errorf("level: colliders %s: %w", tl.name, err)
		}
	}

	for _, pl := range pickupLayers {
		for _, obj := range m.Objects(pl.layer, pl.name) {
			if _, err := NewPickup(world, pl.kind, obj, tiles.get(obj.GID)); err != nil {
				return nil, fmt.Errorf("level: %s %d: %w", pl.name, obj.ID, err)
			}
		}
	}
	for _, obj := range m.Objects(levels.LayerDoorKeyHole, "door") {
		door, err := NewDoor(world, DoorGroup, obj, tiles.get(obj.GID))
		if err != nil {
			return nil, fmt.Errorf("level: door %d: %w", obj.ID, err)
		}
		lvl.Doors = append(lvl.Doors, door)
	}

	player, err := NewPlayerAt(world, tuning.Player)
	if err != nil {
		return nil, err
	}
	lvl.Player = player

	if _, err := NewEmitter(world, component.EmitterWalk, tuning.Particles.Walking, tuning.Player, tuning.Physics.TPS); err != nil {
		return nil, err
	}
	if _, err := NewEmitter(world, component.EmitterJump, tuning.Particles.Jumping, tuning.Player, tuning.Physics.TPS); err != nil {
		return nil, err
	}

	camera, err := NewCamera(world, tuning.Camera)
	if err != nil {
		return nil, err
	}
	lvl.Camera = camera

	return lvl, nil
}

// tileImages caches the sprite cut for every gid seen so far.
type tileImages struct {
	m     *levels.Map
	cache map[uint32]*ebiten.Image
}

func newTileImages(m *levels.Map) *tileImages {
	return &tileImages{m: m, cache: make(map[uint32]*ebiten.Image)}
}

func (t *tileImages) get(gid uint32) *ebiten.Image {
	if img, ok := t.cache[gid]; ok {
		return img
	}
	ts, idx, ok := t.m.TilesetFor(gid)
	if !ok {
		return nil
	}
	sheet := assets.TileSheet
	if strings.Contains(strings.ToLower(ts.Name), "background") {
		sheet = assets.BackgroundSheet
	}
	img := assets.Frame(sheet, idx, ts.TileWidth, ts.TileHeight)
	t.cache[gid] = img
	return img
}

func addTileLayer(world *ecs.World, m *levels.Map, images *tileImages, layer string, render int) error {
	tiles, err := m.Tiles(layer)
	if err != nil {
		return err
	}
	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	for _, tile := range tiles {
		img := images.get(tile.GID)
		if img == nil {
			continue
		}

		e := ecs.CreateEntity(world)
		if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{
			X:      float64(tile.Col)*tw + tw/2,
			Y:      float64(tile.Row)*th + th/2,
			ScaleX: 1,
			ScaleY: 1,
		}); err != nil {
			return err
		}
		if err := ecs.Add(world, e, component.SpriteComponent.Kind(), &component.Sprite{
			Image:   img,
			OriginX: tw / 2,
			OriginY: th / 2,
		}); err != nil {
			return err
		}
		if err := ecs.Add(world, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: render}); err != nil {
			return err
		}
		if err := ecs.Add(world, e, component.TileTagComponent.Kind(), &component.TileTag{Layer: layer}); err != nil {
			return err
		}
	}
	return nil
}

// addLayerColliders covers the layer's tiles with merged static bodies.
// One-way layers merge along rows only so every body's top is a walkable
// surface.
func addLayerColliders(world *ecs.World, m *levels.Map, layer string) error {
	sides := m.CollisionSides(layer)
	if !sides.Any() {
		return nil
	}
	maxRows := 0
	if sides.OneWay() {
		maxRows = 1
	}
	filled := func(col, row int) bool { return m.TileAt(layer, col, row) != 0 }
	tw, th := float64(m.TileWidth), float64(m.TileHeight)

	for _, r := range MergeTileRects(m.Width, m.Height, filled, maxRows) {
		width := float64(r.W) * tw
		height := float64(r.H) * th
		e := ecs.CreateEntity(world)
		if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{
			X:      float64(r.Col)*tw + width/2,
			Y:      float64(r.Row)*th + height/2,
			ScaleX: 1,
			ScaleY: 1,
		}); err != nil {
			return err
		}
		if err := ecs.Add(world, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:  width,
			Height: height,
			Static: true,
			OneWay: sides.OneWay(),
		}); err != nil {
			return err
		}
	}
	return nil
}
