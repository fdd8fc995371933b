package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// Confirmer receives the confirm key edge.
type Confirmer interface {
	Confirm()
}

// ConfirmSystem forwards the confirm key to the level session.
type ConfirmSystem struct {
	target Confirmer
}

func NewConfirmSystem(target Confirmer) *ConfirmSystem {
	return &ConfirmSystem{target: target}
}

func (s *ConfirmSystem) Update(w *ecs.World) {
	if s == nil || s.target == nil || w == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if !ok || !input.ConfirmPressed {
		return
	}
	s.target.Confirm()
}
