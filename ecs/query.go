package ecs

import "github.com/milk9111/platformer/ecs/component"

// ForEach calls fn for every entity carrying a. fn may add, remove or destroy
// freely; entities that lose the component before their turn are skipped.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeOf(w, a, false)
	if sa == nil || fn == nil {
		return
	}
	for _, e := range sa.snapshot() {
		va, ok := sa.get(e.id())
		if !ok || !IsAlive(w, e) {
			continue
		}
		fn(e, va)
	}
}

// ForEach2 calls fn for every entity carrying both a and b.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeOf(w, a, false)
	sb := storeOf(w, b, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, e := range sa.snapshot() {
		if !IsAlive(w, e) {
			continue
		}
		va, ok := sa.get(e.id())
		if !ok {
			continue
		}
		vb, ok := sb.get(e.id())
		if !ok {
			continue
		}
		fn(e, va, vb)
	}
}

// ForEach3 calls fn for every entity carrying a, b and c.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa := storeOf(w, a, false)
	sb := storeOf(w, b, false)
	sc := storeOf(w, c, false)
	if sa == nil || sb == nil || sc == nil || fn == nil {
		return
	}
	for _, e := range sa.snapshot() {
		if !IsAlive(w, e) {
			continue
		}
		va, ok := sa.get(e.id())
		if !ok {
			continue
		}
		vb, ok := sb.get(e.id())
		if !ok {
			continue
		}
		vc, ok := sc.get(e.id())
		if !ok {
			continue
		}
		fn(e, va, vb, vc)
	}
}

// ForEach4 calls fn for every entity carrying a, b, c and d.
func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeOf(w, d, false)
	if sd == nil || fn == nil {
		return
	}
	ForEach3(w, a, b, c, func(e Entity, va *A, vb *B, vc *C) {
		vd, ok := sd.get(e.id())
		if !ok {
			return
		}
		fn(e, va, vb, vc, vd)
	})
}

// Collect returns every live entity carrying a.
func Collect[A any](w *World, a component.ComponentKind[A]) []Entity {
	var out []Entity
	ForEach(w, a, func(e Entity, _ *A) {
		out = append(out, e)
	})
	return out
}
