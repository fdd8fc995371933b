package system

import (
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

type AnimationSystem struct {
	tps float64
}

func NewAnimationSystem(tps int) *AnimationSystem {
	if tps <= 0 {
		tps = common.TPS
	}
	return &AnimationSystem{tps: float64(tps)}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		def, ok := anim.Defs[anim.Current]
		if !ok || len(def.Frames) == 0 {
			return
		}

		if anim.Playing && def.FPS > 0 {
			// Advance frame every N ticks based on FPS
			ticksPerFrame := int(a.tps / def.FPS)
			if ticksPerFrame < 1 {
				ticksPerFrame = 1
			}

			anim.FrameTimer++
			if anim.FrameTimer >= ticksPerFrame {
				anim.FrameTimer = 0
				anim.Frame++
				if anim.Frame >= len(def.Frames) {
					if def.Loop {
						anim.Frame = 0
					} else {
						anim.Frame = len(def.Frames) - 1
						anim.Playing = false
					}
				}
			}
		}

		if anim.Frame >= len(def.Frames) {
			anim.Frame = len(def.Frames) - 1
		}
		sprite.Image = def.Frames[anim.Frame]
	})
}
