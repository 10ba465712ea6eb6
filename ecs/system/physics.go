package system

import (
	"log"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/ecs"
	"github.com/milk9111/impulse/ecs/component"
	"github.com/milk9111/impulse/physics"
)

// PhysicsSystem steps an engine once per frame. Entities with a PhysicsBody
// have their body added to the engine world; when the entity dies or drops
// the component the body is removed, which ends its collisions on the next
// step. Poses are copied back into Transform and engine events are
// forwarded to the world event queue.
type PhysicsSystem struct {
	engine *physics.Engine
	delta  float64

	bound    map[ecs.Entity]*physics.Body
	byBody   map[*physics.Body]ecs.Entity
	released []*physics.Body
	lastStep []physics.Event
}

// NewPhysicsSystem steps engine by delta milliseconds per frame, or the
// base 60Hz delta when delta is zero.
func NewPhysicsSystem(engine *physics.Engine, delta float64) *PhysicsSystem {
	if delta <= 0 {
		delta = common.BaseDelta
	}
	return &PhysicsSystem{
		engine: engine,
		delta:  delta,
		bound:  make(map[ecs.Entity]*physics.Body),
		byBody: make(map[*physics.Body]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Engine() *physics.Engine {
	if ps == nil {
		return nil
	}
	return ps.engine
}

// EntityOf returns the entity bound to b, or to b's parent for a part.
func (ps *PhysicsSystem) EntityOf(b *physics.Body) (ecs.Entity, bool) {
	if b == nil {
		return 0, false
	}
	e, ok := ps.byBody[b.Parent()]
	return e, ok
}

// LastEvents returns the engine events of the most recent step.
func (ps *PhysicsSystem) LastEvents() []physics.Event {
	return ps.lastStep
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || ps.engine == nil || w == nil {
		return
	}

	ps.syncEntities(w)
	ps.lastStep = ps.engine.Update(ps.delta)
	ps.syncTransforms(w)
	ps.forwardEvents(w, ps.lastStep)

	// Released bodies stay mapped through the step that ends their pairs.
	for _, b := range ps.released {
		if e, ok := ps.byBody[b]; ok && ps.bound[e] != b {
			delete(ps.byBody, b)
		}
	}
	ps.released = ps.released[:0]
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for e, body := range ps.bound {
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if ok && pb.Body == body {
			continue
		}
		ps.unbind(e, body)
	}

	world := ps.engine.World()
	ecs.ForEach(w, component.PhysicsBodyComponent, func(e ecs.Entity, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if _, ok := ps.bound[e]; ok {
			return
		}
		if pb.Body.Composite() == nil {
			if err := world.Add(pb.Body); err != nil {
				log.Printf("PhysicsSystem: add body for entity %v: %v", e, err)
				return
			}
		}
		ps.bound[e] = pb.Body
		ps.byBody[pb.Body] = e
	})
}

func (ps *PhysicsSystem) unbind(e ecs.Entity, body *physics.Body) {
	delete(ps.bound, e)
	ps.released = append(ps.released, body)
	if c := body.Composite(); c != nil {
		c.Remove(false, body)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent,
		func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Body == nil {
				return
			}
			pos := pb.Body.Position()
			t.X, t.Y, t.Rotation = pos.X, pos.Y, pb.Body.Angle()
		})
}

func (ps *PhysicsSystem) forwardEvents(w *ecs.World, events []physics.Event) {
	q := w.Events()
	for _, evt := range events {
		switch evt.Kind {
		case physics.EventCollisionStart, physics.EventCollisionActive, physics.EventCollisionEnd:
			kind := collisionKind(evt.Kind)
			for _, p := range evt.Pairs {
				a, _ := ps.EntityOf(p.BodyA)
				b, _ := ps.EntityOf(p.BodyB)
				q.Push(ecs.Event{Type: string(kind), Data: ecs.CollisionEvent{
					Kind:   kind,
					A:      a,
					B:      b,
					Pair:   p,
					Sensor: p.IsSensor,
				}})
			}
		case physics.EventSleepStart, physics.EventSleepEnd:
			e, ok := ps.EntityOf(evt.Body)
			if !ok {
				continue
			}
			q.Push(ecs.Event{Type: ecs.SleepEventType, Data: ecs.SleepEvent{
				Entity:   e,
				Sleeping: evt.Kind == physics.EventSleepStart,
			}})
		}
	}
}

func collisionKind(k physics.EventKind) ecs.CollisionEventKind {
	switch k {
	case physics.EventCollisionStart:
		return ecs.CollisionEventStart
	case physics.EventCollisionActive:
		return ecs.CollisionEventActive
	}
	return ecs.CollisionEventEnd
}
