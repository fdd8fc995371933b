package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
)

// Character sheet frames.
const (
	frameIdle = iota
	frameWalkA
	frameWalkB
	frameJump
)

// PlayerAnimations cuts the idle, walk and jump clips out of the character sheet.
func PlayerAnimations(sheet *ebiten.Image) map[string]component.AnimationDef {
	frame := func(i int) *ebiten.Image {
		return assets.Frame(sheet, i, assets.CharacterSize, assets.CharacterSize)
	}
	return map[string]component.AnimationDef{
		movement.AnimIdle: {Name: movement.AnimIdle, Frames: []*ebiten.Image{frame(frameIdle)}, Loop: true},
		movement.AnimWalk: {Name: movement.AnimWalk, Frames: []*ebiten.Image{frame(frameWalkA), frame(frameWalkB)}, FPS: 15, Loop: true},
		movement.AnimJump: {Name: movement.AnimJump, Frames: []*ebiten.Image{frame(frameJump)}, Loop: true},
	}
}

// NewPlayerAt creates the player at its spawn point.
func NewPlayerAt(w *ecs.World, spec prefabs.PlayerSpec) (ecs.Entity, error) {
	player := ecs.CreateEntity(w)
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{
		SpawnX: spec.SpawnX,
		SpawnY: spec.SpawnY,
		Width:  spec.Width,
		Height: spec.Height,
	}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}
	if err := ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerCollisionComponent.Kind(), &component.PlayerCollision{}); err != nil {
		return 0, fmt.Errorf("player: add player collision: %w", err)
	}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{
		X:      spec.SpawnX,
		Y:      spec.SpawnY,
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, player, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   1,
	}); err != nil {
		return 0, fmt.Errorf("player: add physics body: %w", err)
	}

	anim := &component.Animation{Defs: PlayerAnimations(assets.CharacterSheet)}
	anim.Play(movement.AnimIdle)
	if err := ecs.Add(w, player, component.AnimationComponent.Kind(), anim); err != nil {
		return 0, fmt.Errorf("player: add animation: %w", err)
	}
	if err := ecs.Add(w, player, component.SpriteComponent.Kind(), &component.Sprite{
		Image:   anim.Defs[movement.AnimIdle].Frames[0],
		OriginX: assets.CharacterSize / 2,
		OriginY: assets.CharacterSize / 2,
	}); err != nil {
		return 0, fmt.Errorf("player: add sprite: %w", err)
	}
	if err := ecs.Add(w, player, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: component.LayerPlayer}); err != nil {
		return 0, fmt.Errorf("player: add render layer: %w", err)
	}
	return player, nil
}
