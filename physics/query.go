package physics

import (
	"math"

	"github.com/milk9111/impulse/geom"
)

// QueryCollides tests body against each of bodies and returns the
// collisions found, part by part.
func QueryCollides(body *Body, bodies []*Body) []*Collision {
	var out []*Collision
	for _, other := range bodies {
		if other == body || !other.bounds.Intersects(body.bounds) {
			continue
		}
		for _, partA := range solidParts(other) {
			if !partA.bounds.Intersects(body.bounds) {
				continue
			}
			for _, partB := range solidParts(body) {
				if !partA.bounds.Intersects(partB.bounds) {
					continue
				}
				if c := Collides(partA, partB); c != nil {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// QueryRay returns the bodies crossed by a ray of the given width. A
// non-positive width means a thin line.
func QueryRay(bodies []*Body, start, end geom.Vector, width float64) []*Body {
	if width <= 0 {
		width = 1e-100
	}
	length := end.Sub(start).Length()
	if length == 0 {
		return QueryPoint(bodies, start)
	}
	ray := newQueryBody(geom.NewVertices([]geom.Vector{
		{X: -length / 2, Y: -width / 2},
		{X: length / 2, Y: -width / 2},
		{X: length / 2, Y: width / 2},
		{X: -length / 2, Y: width / 2},
	}), start.Add(end).Mult(0.5), geom.Angle(start, end))

	var out []*Body
	seen := make(map[*Body]struct{})
	for _, c := range QueryCollides(ray, bodies) {
		hit := c.BodyA
		if hit == ray {
			hit = c.BodyB
		}
		if _, ok := seen[hit]; ok {
			continue
		}
		seen[hit] = struct{}{}
		out = append(out, hit)
	}
	return out
}

// newQueryBody builds a geometry-only body for queries. It has no id and is
// never added to a world.
func newQueryBody(vs geom.Vertices, position geom.Vector, angle float64) *Body {
	vs.Rotate(angle, geom.Vector{})
	vs.Translate(position, 1)
	b := &Body{
		position: position,
		vertices: vs,
		axes:     geom.AxesOf(vs),
		bounds:   geom.BoundsOf(vs),
		angle:    angle,
		mass:     math.Inf(1),
	}
	b.parts = []*Body{b}
	b.parent = b
	return b
}

// QueryRegion returns the bodies whose bounds overlap region, or those that
// do not when outside is set.
func QueryRegion(bodies []*Body, region geom.Bounds, outside bool) []*Body {
	var out []*Body
	for _, b := range bodies {
		if b.bounds.Intersects(region) != outside {
			out = append(out, b)
		}
	}
	return out
}

// QueryPoint returns the bodies containing point.
func QueryPoint(bodies []*Body, point geom.Vector) []*Body {
	var out []*Body
	for _, b := range bodies {
		if !b.bounds.ContainsVect(point) {
			continue
		}
		for _, part := range solidParts(b) {
			if part.bounds.ContainsVect(point) && part.vertices.Contains(point) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
