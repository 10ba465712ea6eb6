// Package bodies builds bodies of common shapes.
package bodies

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
)

const defaultMaxSides = 25

func place(x, y float64, opts *physics.BodyOptions) *physics.BodyOptions {
	o := physics.DefaultBodyOptions()
	if opts != nil {
		o = *opts
	}
	o.Position = geom.Vector{X: x, Y: y}
	return &o
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return fmt.Errorf("%w: %s %v must be positive", physics.ErrInvalidShape, name, v)
	}
	return nil
}

// Rectangle builds a width by height box centred on (x, y).
func Rectangle(x, y, width, height float64, opts *physics.BodyOptions) (*physics.Body, error) {
	if err := positive("width", width); err != nil {
		return nil, err
	}
	if err := positive("height", height); err != nil {
		return nil, err
	}
	o := place(x, y, opts)
	if o.Label == physics.DefaultBodyOptions().Label {
		o.Label = "Rectangle Body"
	}
	vs := geom.NewVertices([]geom.Vector{
		{X: 0, Y: 0},
		{X: width, Y: 0},
		{X: width, Y: height},
		{X: 0, Y: height},
	})
	return physics.NewBody(vs, o)
}

// Trapezoid builds a trapezoid whose top edge is shortened by slope, in
// [0, 1). A slope of 1 gives a triangle.
func Trapezoid(x, y, width, height, slope float64, opts *physics.BodyOptions) (*physics.Body, error) {
	if err := positive("width", width); err != nil {
		return nil, err
	}
	if err := positive("height", height); err != nil {
		return nil, err
	}
	if !(slope >= 0 && slope <= 1) {
		return nil, fmt.Errorf("%w: slope %v must be in [0, 1]", physics.ErrInvalidShape, slope)
	}
	o := place(x, y, opts)
	if o.Label == physics.DefaultBodyOptions().Label {
		o.Label = "Trapezoid Body"
	}

	slope *= 0.5
	roof := (1 - slope*2) * width
	x1 := width * slope
	x2 := x1 + roof
	x3 := x2 + x1

	var points []geom.Vector
	if slope < 0.5 {
		points = []geom.Vector{{X: 0, Y: 0}, {X: x1, Y: -height}, {X: x2, Y: -height}, {X: x3, Y: 0}}
	} else {
		points = []geom.Vector{{X: 0, Y: 0}, {X: x2, Y: -height}, {X: x3, Y: 0}}
	}
	return physics.NewBody(geom.NewVertices(points), o)
}

// Circle approximates a circle with a regular polygon. The side count grows
// with the radius between 10 and maxSides (25 when zero) and is always even.
func Circle(x, y, radius float64, opts *physics.BodyOptions, maxSides int) (*physics.Body, error) {
	if err := positive("radius", radius); err != nil {
		return nil, err
	}
	if maxSides <= 0 {
		maxSides = defaultMaxSides
	}
	sides := int(math.Ceil(math.Max(10, math.Min(float64(maxSides), radius))))
	if sides%2 == 1 {
		sides++
	}
	o := place(x, y, opts)
	if o.Label == physics.DefaultBodyOptions().Label {
		o.Label = "Circle Body"
	}
	b, err := Polygon(x, y, sides, radius, o)
	if err != nil {
		return nil, err
	}
	b.CircleRadius = radius
	return b, nil
}

// Polygon builds a regular polygon with the given number of sides inscribed
// in a circle of radius.
func Polygon(x, y float64, sides int, radius float64, opts *physics.BodyOptions) (*physics.Body, error) {
	if sides < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 sides, got %d", physics.ErrInvalidShape, sides)
	}
	if err := positive("radius", radius); err != nil {
		return nil, err
	}
	o := place(x, y, opts)
	if o.Label == physics.DefaultBodyOptions().Label {
		o.Label = "Polygon Body"
	}
	theta := 2 * math.Pi / float64(sides)
	offset := theta * 0.5
	points := make([]geom.Vector, sides)
	for i := range points {
		angle := offset + float64(i)*theta
		points[i] = geom.Vector{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}
	}
	return physics.NewBody(geom.NewVertices(points), o)
}

// VertexOptions controls FromVertices.
type VertexOptions struct {
	// Hull replaces concave sets with their convex hull instead of failing.
	Hull bool `yaml:"hull"`
	// FlagInternal marks edges shared between parts as internal.
	FlagInternal bool `yaml:"flag_internal"`
}

const coincidentMaxDist = 5

// FromVertices builds a body from one or more vertex sets. Each set becomes
// a convex part; several sets make a compound body. The body's centre of
// mass is placed at (x, y).
func FromVertices(x, y float64, sets [][]geom.Vector, opts *physics.BodyOptions, vopts VertexOptions) (*physics.Body, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no vertex sets", physics.ErrInvalidShape)
	}
	o := place(x, y, opts)
	if o.Label == physics.DefaultBodyOptions().Label {
		o.Label = "Body"
	}
	partOpts := *o
	partOpts.IsStatic, partOpts.IsSleeping = false, false
	if len(sets) > 1 {
		partOpts.Mass, partOpts.Inertia = 0, 0
	}

	parts := make([]*physics.Body, 0, len(sets))
	for i, set := range sets {
		vs := geom.NewVertices(set)
		switch vs.IsConvex() {
		case geom.Degenerate:
			return nil, fmt.Errorf("%w: vertex set %d has no area", physics.ErrInvalidShape, i)
		case geom.Concave:
			if !vopts.Hull {
				return nil, fmt.Errorf("vertex set %d: %w", i, physics.ErrConcave)
			}
			vs = vs.Hull()
		default:
			vs.ClockwiseSort()
		}
		partOpts.Position = vs.Centre()
		partOpts.Angle = 0
		part, err := physics.NewBody(vs, &partOpts)
		if err != nil {
			return nil, fmt.Errorf("vertex set %d: %w", i, err)
		}
		parts = append(parts, part)
	}

	var body *physics.Body
	if len(parts) == 1 {
		body = parts[0]
	} else {
		if vopts.FlagInternal {
			physics.FlagInternalEdges(parts, coincidentMaxDist)
		}
		compound := *o
		compound.IsStatic, compound.IsSleeping = false, false
		var err error
		if body, err = physics.NewCompoundBody(parts, &compound); err != nil {
			return nil, err
		}
	}
	body.SetPosition(o.Position, false)
	if o.Angle != 0 {
		body.SetAngle(o.Angle, false)
	}
	if o.IsStatic {
		body.SetStatic(true)
	} else if o.IsSleeping {
		physics.SetSleeping(body, true, nil)
	}
	return body, nil
}
