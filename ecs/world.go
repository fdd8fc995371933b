// Package ecs is a small sparse-set entity component system. Components are
// stored per kind; every entity is a generational handle into the world.
package ecs

import "github.com/milk9111/platformer/ecs/component"

// World owns entities, their components and the frame event queue.
type World struct {
	gens  []generation
	alive []bool
	free  []entityID
	count int

	stores map[component.ComponentID]store
	events EventQueue
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		// slot 0 is never handed out so a zero Entity is always invalid
		gens:   make([]generation, 1),
		alive:  make([]bool, 1),
		stores: make(map[component.ComponentID]store),
	}
}

// CreateEntity allocates a new entity, reusing a freed slot when possible.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		id = entityID(len(w.gens))
		w.gens = append(w.gens, 0)
		w.alive = append(w.alive, false)
	}
	w.alive[id] = true
	w.count++
	return makeEntity(id, w.gens[id])
}

// DestroyEntity drops every component of e and invalidates the handle. It
// returns false when e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.remove(id)
	}
	w.alive[id] = false
	w.gens[id]++
	w.free = append(w.free, id)
	w.count--
	return true
}

// IsAlive reports whether e refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if int(id) >= len(w.gens) {
		return false
	}
	return w.alive[id] && w.gens[id] == e.generation()
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil || w.count == 0 {
		return nil
	}
	out := make([]Entity, 0, w.count)
	for id := 1; id < len(w.gens); id++ {
		if w.alive[id] {
			out = append(out, makeEntity(entityID(id), w.gens[id]))
		}
	}
	return out
}

// EntityCount returns the number of live entities.
func EntityCount(w *World) int {
	if w == nil {
		return 0
	}
	return w.count
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
