package system

import (
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update moves the camera toward the player, keeping it inside a deadzone and
// never scrolling past the level bounds. The first update snaps onto the
// player.
func (cs *CameraSystem) Update(w *ecs.World) {
	if !cs.camEntity.Valid() || !ecs.IsAlive(w, cs.camEntity) {
		camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}
	if !cs.targetEntity.Valid() || !ecs.IsAlive(w, cs.targetEntity) {
		target, ok := ecs.First(w, component.PlayerTagComponent.Kind())
		if !ok {
			return
		}
		cs.targetEntity = target
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	limitW, limitH := cam.ViewW, cam.ViewH
	if boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind()); ok {
			limitW, limitH = b.Width, b.Height
		}
	}

	if !cam.Initialized {
		cam.X = common.CenterOn(cam.ViewW, target.X, limitW)
		cam.Y = common.CenterOn(cam.ViewH, target.Y, limitH)
		cam.Initialized = true
		return
	}
	cam.X = common.FollowAxis(cam.X, cam.ViewW, target.X, cam.DeadzoneW, cam.Lerp, limitW)
	cam.Y = common.FollowAxis(cam.Y, cam.ViewH, target.Y, cam.DeadzoneH, cam.Lerp, limitH)
}
