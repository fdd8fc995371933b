package system

import (
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/session"
)

// PlayModer reports whether the player is allowed to move.
type PlayModer interface {
	PlayMode() bool
}

// PlayerControllerSystem applies the movement controller's decision to the
// player: body velocity, facing, animation, emitters and the jump sound.
type PlayerControllerSystem struct {
	ctrl *movement.Controller
	play PlayModer
	dt   float64
}

func NewPlayerControllerSystem(ctrl *movement.Controller, play PlayModer, tps int) *PlayerControllerSystem {
	if ctrl == nil {
		ctrl = movement.DefaultController()
	}
	if tps <= 0 {
		tps = common.TPS
	}
	return &PlayerControllerSystem{ctrl: ctrl, play: play, dt: 1 / float64(tps)}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}
	playMode := p.play != nil && p.play.PlayMode()

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if !ok {
		return
	}
	grounded := false
	if pc, ok := ecs.Get(w, player, component.PlayerCollisionComponent.Kind()); ok {
		grounded = pc.Grounded
	}

	d := p.ctrl.Decide(movement.Input{
		Left:        input.Left,
		Right:       input.Right,
		JumpPressed: input.JumpPressed,
	}, grounded, playMode)

	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		vel := body.Body.Velocity()
		vx := movement.ApplyHorizontal(vel.X, d, p.dt)
		vy := vel.Y
		if d.Jump {
			vy = d.VelocityY
		}
		body.Body.SetVelocity(vx, vy)
	}

	if sprite, ok := ecs.Get(w, player, component.SpriteComponent.Kind()); ok {
		switch d.Facing {
		case movement.FacingLeft:
			sprite.FacingLeft = true
		case movement.FacingRight:
			sprite.FacingLeft = false
		}
	}

	if anim, ok := ecs.Get(w, player, component.AnimationComponent.Kind()); ok {
		anim.Play(d.Animation)
	}

	ecs.ForEach(w, component.ParticleEmitterComponent.Kind(), func(_ ecs.Entity, em *component.ParticleEmitter) {
		switch em.Role {
		case component.EmitterWalk:
			if d.WalkFollow {
				em.Follow = true
				em.SpeedX = d.WalkSpeedX
			}
			applyEmit(em, d.Walk)
		case component.EmitterJump:
			if d.JumpParticles == movement.EmitStart {
				em.Follow = true
			}
			applyEmit(em, d.JumpParticles)
		}
	})

	if d.JumpSound {
		RequestSound(w, session.SoundJump)
	}
}

func applyEmit(em *component.ParticleEmitter, cmd movement.Emit) {
	switch cmd {
	case movement.EmitStart:
		em.Emitting = true
	case movement.EmitStop:
		em.Emitting = false
	}
}

// RequestSound flags name on every sound bank in the world.
func RequestSound(w *ecs.World, name string) bool {
	played := false
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, a *component.Audio) {
		if a.Request(name) {
			played = true
		}
	})
	return played
}
