package physics

import "sort"

// Detector finds colliding part pairs with a sort-and-sweep broad phase on
// the x axis followed by SAT on the survivors.
type Detector struct {
	bodies []*Body
}

func NewDetector() *Detector {
	return &Detector{}
}

// SetBodies replaces the bodies considered by the detector.
func (d *Detector) SetBodies(bodies []*Body) {
	d.bodies = append(d.bodies[:0], bodies...)
}

// Bodies returns the detector's body list in its current sweep order.
func (d *Detector) Bodies() []*Body { return d.bodies }

// Clear drops all bodies.
func (d *Detector) Clear() {
	d.bodies = d.bodies[:0]
}

// Collisions returns every colliding part pair. Pairs where both bodies are
// static or asleep are skipped, as are pairs rejected by the collision
// filters. The sort is stable so identical input gives identical output.
func (d *Detector) Collisions() []*Collision {
	bodies := d.bodies
	sort.SliceStable(bodies, func(i, j int) bool {
		return bodies[i].bounds.L < bodies[j].bounds.L
	})

	var collisions []*Collision
	for i, bodyA := range bodies {
		boundsA := bodyA.bounds
		restingA := bodyA.isStatic || bodyA.isSleeping

		for _, bodyB := range bodies[i+1:] {
			boundsB := bodyB.bounds
			if boundsB.L > boundsA.R {
				break
			}
			if boundsA.T < boundsB.B || boundsA.B > boundsB.T {
				continue
			}
			if restingA && (bodyB.isStatic || bodyB.isSleeping) {
				continue
			}
			if !CanCollide(bodyA.CollisionFilter, bodyB.CollisionFilter) {
				continue
			}

			if len(bodyA.parts) == 1 && len(bodyB.parts) == 1 {
				if c := Collides(bodyA, bodyB); c != nil {
					collisions = append(collisions, c)
				}
				continue
			}
			for _, partA := range solidParts(bodyA) {
				for _, partB := range solidParts(bodyB) {
					if !partA.bounds.Intersects(partB.bounds) {
						continue
					}
					if c := Collides(partA, partB); c != nil {
						collisions = append(collisions, c)
					}
				}
			}
		}
	}
	return collisions
}

// solidParts skips the hull of a compound body, which is never tested.
func solidParts(b *Body) []*Body {
	if len(b.parts) > 1 {
		return b.parts[1:]
	}
	return b.parts
}
