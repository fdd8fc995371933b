package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// NewPickup creates a sensor the player collects by touching it.
func NewPickup(w *ecs.World, kind component.PickupKind, obj levels.Object, img *ebiten.Image) (ecs.Entity, error) {
	e, err := newObject(w, obj, img, component.LayerPickups, true)
	if err != nil {
		return 0, fmt.Errorf("pickup: %w", err)
	}
	if err := ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{Kind: kind}); err != nil {
		return 0, fmt.Errorf("pickup: add pickup: %w", err)
	}
	return e, nil
}

// NewDoor creates one solid segment of a door group.
func NewDoor(w *ecs.World, group string, obj levels.Object, img *ebiten.Image) (ecs.Entity, error) {
	e, err := newObject(w, obj, img, component.LayerGround, false)
	if err != nil {
		return 0, fmt.Errorf("door: %w", err)
	}
	if err := ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{Group: group}); err != nil {
		return 0, fmt.Errorf("door: add door: %w", err)
	}
	return e, nil
}

func newObject(w *ecs.World, obj levels.Object, img *ebiten.Image, layer int, sensor bool) (ecs.Entity, error) {
	width, height := obj.Width, obj.Height
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("object %d has no size", obj.ID)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:      obj.X + width/2,
		Y:      obj.Y + height/2,
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("add transform: %w", err)
	}
	if img != nil {
		if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
			Image:   img,
			OriginX: float64(img.Bounds().Dx()) / 2,
			OriginY: float64(img.Bounds().Dy()) / 2,
		}); err != nil {
			return 0, fmt.Errorf("add sprite: %w", err)
		}
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer}); err != nil {
		return 0, fmt.Errorf("add render layer: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  width,
		Height: height,
		Static: true,
		Sensor: sensor,
	}); err != nil {
		return 0, fmt.Errorf("add physics body: %w", err)
	}
	return e, nil
}
