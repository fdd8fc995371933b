package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// PickupHandler receives the player's overlaps with level objects.
type PickupHandler interface {
	OnGemTouched(gem ecs.Entity)
	OnKeyTouched(key ecs.Entity)
	OnKeyholeTouched(keyhole ecs.Entity)
	OnExitTouched(exit ecs.Entity)
}

// OverlapSystem drains physics overlap events and dispatches them by pickup
// kind. Events for entities destroyed earlier in the same tick are dropped.
type OverlapSystem struct {
	handler PickupHandler
}

func NewOverlapSystem(handler PickupHandler) *OverlapSystem {
	return &OverlapSystem{handler: handler}
}

func (s *OverlapSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	events := w.Events().Drain()
	if s.handler == nil {
		return
	}
	for _, evt := range events {
		if evt.Type != ecs.EventOverlap {
			continue
		}
		o, ok := evt.Data.(ecs.OverlapEvent)
		if !ok || !ecs.IsAlive(w, o.Other) {
			continue
		}
		p, ok := ecs.Get(w, o.Other, component.PickupComponent.Kind())
		if !ok {
			continue
		}
		switch p.Kind {
		case component.PickupGem:
			s.handler.OnGemTouched(o.Other)
		case component.PickupKey:
			s.handler.OnKeyTouched(o.Other)
		case component.PickupKeyhole:
			s.handler.OnKeyholeTouched(o.Other)
		case component.PickupExit:
			s.handler.OnExitTouched(o.Other)
		}
	}
}
