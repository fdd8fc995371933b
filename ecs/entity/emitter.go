package entity

import (
	"fmt"

	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/prefabs"
)

// spawn jitter in world pixels
const (
	walkSpread = 4
	jumpSpread = 8
)

// NewEmitter creates a stopped particle emitter for role. It follows the
// player's lower-right area once the controller starts it.
func NewEmitter(w *ecs.World, role component.EmitterRole, spec prefabs.EmitterSpec, player prefabs.PlayerSpec, tps int) (ecs.Entity, error) {
	img := assets.Particle(spec.Image)
	if img == nil {
		return 0, fmt.Errorf("emitter %s: unknown particle image %q", role, spec.Image)
	}

	// Scales are given relative to BaseSize; the embedded images may be smaller.
	size := float64(img.Bounds().Dx())
	rel := 1.0
	if size > 0 && spec.BaseSize > 0 {
		rel = spec.BaseSize / size
	}
	spread := float64(walkSpread)
	if role == component.EmitterJump {
		spread = jumpSpread
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ParticleEmitterComponent.Kind(), &component.ParticleEmitter{
		Role:           role,
		Image:          img,
		FollowX:        player.Width/2 - spec.InsetX,
		FollowY:        player.Height/2 - spec.InsetY,
		X:              player.SpawnX,
		Y:              player.SpawnY,
		Spread:         spread,
		GravityY:       spec.GravityY,
		MaxAlive:       spec.MaxAlive,
		LifespanFrames: spec.LifespanFrames(tps),
		ScaleStart:     spec.ScaleStart * rel,
		ScaleEnd:       spec.ScaleEnd * rel,
		AlphaStart:     spec.AlphaStart,
		AlphaEnd:       spec.AlphaEnd,
	}); err != nil {
		return 0, fmt.Errorf("emitter %s: add emitter: %w", role, err)
	}
	return e, nil
}
