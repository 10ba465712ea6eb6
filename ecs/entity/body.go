package entity

import (
	"image/color"

	"github.com/milk9111/impulse/ecs"
	"github.com/milk9111/impulse/ecs/component"
	"github.com/milk9111/impulse/physics"
	"github.com/milk9111/impulse/prefabs"
)

// NewBody creates an entity for b with a transform at the body's pose and
// a style of the given colour, which may be nil.
func NewBody(w *ecs.World, b *physics.Body, clr color.Color) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	pos := b.Position()
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Body: b}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: pos.X, Y: pos.Y, Rotation: b.Angle()}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.BodyStyleComponent, &component.BodyStyle{Color: clr}); err != nil {
		return 0, err
	}
	return e, nil
}

// BuildScene creates one entity per body of the scene's world, coloured as
// the scene file asked.
func BuildScene(w *ecs.World, scene *prefabs.Scene) ([]ecs.Entity, error) {
	bodies := scene.Engine.World().AllBodies()
	out := make([]ecs.Entity, 0, len(bodies))
	for _, b := range bodies {
		e, err := NewBody(w, b, scene.Colors[b.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
