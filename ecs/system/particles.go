package system

import (
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// ParticleSystem moves emitters with the player, spawns one particle per
// tick from every emitting emitter that is under its cap, and ages live
// particles. Expiry is left to the TTL system.
type ParticleSystem struct {
	dt float64
}

func NewParticleSystem(tps int) *ParticleSystem {
	if tps <= 0 {
		tps = common.TPS
	}
	return &ParticleSystem{dt: 1 / float64(tps)}
}

func (s *ParticleSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	alive := map[component.EmitterRole]int{}
	ecs.ForEach2(w, component.ParticleComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Particle, t *component.Transform) {
		s.age(w, e, p, t)
		if p.Age < p.Life {
			alive[p.Role]++
		}
	})

	var px, py float64
	hasPlayer := false
	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			px, py = t.X, t.Y
			hasPlayer = true
		}
	}

	ecs.ForEach(w, component.ParticleEmitterComponent.Kind(), func(_ ecs.Entity, em *component.ParticleEmitter) {
		if em.Follow && hasPlayer {
			em.X = px + em.FollowX
			em.Y = py + em.FollowY
		}
		em.Alive = alive[em.Role]
		if !em.Emitting || em.Image == nil || em.LifespanFrames <= 0 {
			return
		}
		if em.MaxAlive > 0 && em.Alive >= em.MaxAlive {
			return
		}
		if err := spawnParticle(w, em); err == nil {
			em.Alive++
		}
	})
}

func (s *ParticleSystem) age(w *ecs.World, e ecs.Entity, p *component.Particle, t *component.Transform) {
	p.Age++
	p.VY += p.GravityY * s.dt
	t.X += p.VX * s.dt
	t.Y += p.VY * s.dt

	progress := 1.0
	if p.Life > 0 {
		progress = common.Clamp(float64(p.Age)/float64(p.Life), 0, 1)
	}
	scale := common.Lerp(p.ScaleStart, p.ScaleEnd, progress)
	t.ScaleX = scale
	t.ScaleY = scale

	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		// 0 would read as opaque
		sprite.Alpha = max(common.Lerp(p.AlphaStart, p.AlphaEnd, progress), 0.01)
	}
}

func spawnParticle(w *ecs.World, em *component.ParticleEmitter) error {
	jitterX, jitterY := spread(em.NextSeq(), em.Spread)

	e := ecs.CreateEntity(w)
	b := em.Image.Bounds()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:      em.X + jitterX,
		Y:      em.Y + jitterY,
		ScaleX: em.ScaleStart,
		ScaleY: em.ScaleStart,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return err
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Image:   em.Image,
		OriginX: float64(b.Dx()) / 2,
		OriginY: float64(b.Dy()) / 2,
		Alpha:   max(em.AlphaStart, 0.01),
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: component.LayerParticles}); err != nil {
		ecs.DestroyEntity(w, e)
		return err
	}
	if err := ecs.Add(w, e, component.ParticleComponent.Kind(), &component.Particle{
		Role:       em.Role,
		VX:         em.SpeedX,
		VY:         em.SpeedY,
		GravityY:   em.GravityY,
		Life:       em.LifespanFrames,
		ScaleStart: em.ScaleStart,
		ScaleEnd:   em.ScaleEnd,
		AlphaStart: em.AlphaStart,
		AlphaEnd:   em.AlphaEnd,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return err
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: em.LifespanFrames}); err != nil {
		ecs.DestroyEntity(w, e)
		return err
	}
	return nil
}

// spread maps a sequence number onto a repeatable offset in [-r/2, r/2).
func spread(seq uint64, r float64) (float64, float64) {
	if r <= 0 {
		return 0, 0
	}
	h := seq * 0x9E3779B97F4A7C15
	fx := float64(h>>40&0xFFFF)/0x10000 - 0.5
	fy := float64(h>>20&0xFFFF)/0x10000 - 0.5
	return fx * r, fy * r
}
