package physics

import (
	"math"

	"github.com/milk9111/impulse/geom"
)

// Support is a polygon vertex lying inside the other body of a collision.
// It refers to the live vertex so solvers see it move with its part.
type Support struct {
	Part  *Body
	Index int
}

// Point returns the current world position of the vertex.
func (s Support) Point() geom.Vector {
	return s.Part.vertices[s.Index].Point()
}

// Collision is the transient result of a narrow-phase test between two
// convex parts. PartA always has the lower id. Normal points from B toward A.
type Collision struct {
	PartA       *Body
	PartB       *Body
	BodyA       *Body
	BodyB       *Body
	Normal      geom.Vector
	Tangent     geom.Vector
	Penetration geom.Vector
	Depth       float64
	Supports    []Support
}

type overlap struct {
	axis  geom.Vector
	value float64
}

// Collides runs the separating axis test on two convex parts and returns nil
// when they do not overlap.
func Collides(partA, partB *Body) *Collision {
	overlapAB := overlapAxes(partA.vertices, partB.vertices, partA.axes)
	if overlapAB.value <= 0 {
		return nil
	}
	overlapBA := overlapAxes(partB.vertices, partA.vertices, partB.axes)
	if overlapBA.value <= 0 {
		return nil
	}

	if partB.ID < partA.ID {
		partA, partB = partB, partA
	}
	c := &Collision{
		PartA: partA,
		PartB: partB,
		BodyA: partA.parent,
		BodyB: partB.parent,
	}

	minOverlap := overlapBA
	if overlapAB.value < overlapBA.value {
		minOverlap = overlapAB
	}
	normal := minOverlap.axis
	if normal.Dot(partB.position.Sub(partA.position)) >= 0 {
		normal = normal.Neg()
	}
	c.Normal = normal
	c.Tangent = normal.Perp()
	c.Depth = minOverlap.value
	c.Penetration = normal.Mult(c.Depth)

	supports := make([]Support, 0, 2)
	supportsB := findSupports(partA, partB, normal, 1)
	for _, idx := range supportsB {
		if partA.vertices.Contains(partB.vertices[idx].Point()) {
			supports = append(supports, Support{Part: partB, Index: idx})
		}
	}
	if len(supports) < 2 {
		supportsA := findSupports(partB, partA, normal, -1)
		for _, idx := range supportsA {
			if len(supports) == 2 {
				break
			}
			if partB.vertices.Contains(partA.vertices[idx].Point()) {
				supports = append(supports, Support{Part: partA, Index: idx})
			}
		}
	}
	if len(supports) == 0 {
		supports = append(supports, Support{Part: partB, Index: supportsB[0]})
	}
	c.Supports = supports
	return c
}

// overlapAxes projects both polygons onto each axis and returns the axis of
// least overlap. A non-positive overlap means a separating axis was found.
func overlapAxes(verticesA, verticesB geom.Vertices, axes []geom.Vector) overlap {
	result := overlap{value: math.MaxFloat64}
	for _, axis := range axes {
		minA, maxA := project(verticesA, axis)
		minB, maxB := project(verticesB, axis)
		o := math.Min(maxA-minB, maxB-minA)
		if o < result.value {
			result = overlap{axis: axis, value: o}
			if o <= 0 {
				break
			}
		}
	}
	return result
}

func project(vs geom.Vertices, axis geom.Vector) (float64, float64) {
	lo := vs[0].X*axis.X + vs[0].Y*axis.Y
	hi := lo
	for _, v := range vs[1:] {
		dot := v.X*axis.X + v.Y*axis.Y
		if dot > hi {
			hi = dot
		} else if dot < lo {
			lo = dot
		}
	}
	return lo, hi
}

// findSupports returns the indices of the vertex of b deepest along the
// normal, as seen from a, and its deeper neighbour.
func findSupports(a, b *Body, normal geom.Vector, direction float64) [2]int {
	vs := b.vertices
	n := len(vs)
	nx, ny := normal.X*direction, normal.Y*direction
	px, py := a.position.X, a.position.Y
	distance := func(v geom.Vertex) float64 {
		return nx*(px-v.X) + ny*(py-v.Y)
	}

	nearest := math.MaxFloat64
	deepest := 0
	for i, v := range vs {
		if d := distance(v); d < nearest {
			nearest = d
			deepest = i
		}
	}
	prev := (n + deepest - 1) % n
	next := (deepest + 1) % n
	if distance(vs[next]) < distance(vs[prev]) {
		return [2]int{deepest, next}
	}
	return [2]int{deepest, prev}
}
