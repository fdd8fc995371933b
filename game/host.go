package game

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
)

// ScoreDisplay is the part of the overlay the session writes to.
type ScoreDisplay interface {
	SetScore(count int)
}

// worldHost exposes the current world to the session. The world pointer is
// swapped on every reload; the session itself outlives it.
type worldHost struct {
	world  func() *ecs.World
	score  ScoreDisplay
	reload func()
}

func (h *worldHost) Alive(e ecs.Entity) bool {
	return ecs.IsAlive(h.world(), e)
}

func (h *worldHost) Destroy(e ecs.Entity) {
	ecs.DestroyEntity(h.world(), e)
}

func (h *worldHost) DoorSegments() []ecs.Entity {
	var doors []ecs.Entity
	ecs.ForEach(h.world(), component.DoorComponent.Kind(), func(e ecs.Entity, d *component.Door) {
		if d.Group == entity.DoorGroup {
			doors = append(doors, e)
		}
	})
	return doors
}

func (h *worldHost) PlaySound(name string) {
	system.RequestSound(h.world(), name)
}

func (h *worldHost) SetScore(count int) {
	if h.score != nil {
		h.score.SetScore(count)
	}
}

func (h *worldHost) Reload() {
	if h.reload != nil {
		h.reload()
	}
}
