package ecs

import "github.com/milk9111/impulse/ecs/component"

// Add attaches value to e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.store(handle.Kind().ID(), false).Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.store(handle.Kind().ID(), false).Has(e)
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	value, ok := w.store(handle.Kind().ID(), false).Get(e).(*T)
	return value, ok
}

// Query returns the entities holding handle's kind. The slice is a copy.
func Query[T any](w *World, handle component.ComponentHandle[T]) []Entity {
	return append([]Entity(nil), w.store(handle.Kind().ID(), false).Entities()...)
}

// First returns any entity holding handle's kind.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, bool) {
	ents := w.store(handle.Kind().ID(), false).Entities()
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// ForEach calls fn for each entity holding A. fn may add and remove
// components or destroy entities.
func ForEach[A any](w *World, ha component.ComponentHandle[A], fn func(Entity, *A)) {
	for _, e := range Query(w, ha) {
		if a, ok := Get(w, e, ha); ok {
			fn(e, a)
		}
	}
}

// ForEach2 calls fn for each entity holding both A and B.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	sa := w.store(ha.Kind().ID(), false)
	sb := w.store(hb.Kind().ID(), false)
	for _, e := range IntersectEntities(sa, sb) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
