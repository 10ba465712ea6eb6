package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Bounds is chipmunk's axis-aligned box: L and R bound x, B and T bound y
// with B <= T whichever way y points on screen.
type Bounds = cp.BB

// NewBounds returns the box spanning min to max.
func NewBounds(min, max Vector) Bounds {
	return Bounds{L: min.X, B: min.Y, R: max.X, T: max.Y}
}

// BoundsOf returns the tight bounds of the vertices.
func BoundsOf(vs Vertices) Bounds {
	return SweptBounds(vs, Vector{})
}

// SweptBounds returns the bounds of the vertices extended in the direction
// of velocity so fast bodies sweep their path.
func SweptBounds(vs Vertices, velocity Vector) Bounds {
	b := Bounds{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
	for _, v := range vs {
		b = b.Expand(v.Point())
	}
	if velocity.X > 0 {
		b.R += velocity.X
	} else {
		b.L += velocity.X
	}
	if velocity.Y > 0 {
		b.T += velocity.Y
	} else {
		b.B += velocity.Y
	}
	return b
}

func Min(b Bounds) Vector { return Vector{X: b.L, Y: b.B} }
func Max(b Bounds) Vector { return Vector{X: b.R, Y: b.T} }

func Width(b Bounds) float64 {
	return b.R - b.L
}

func Height(b Bounds) float64 {
	return b.T - b.B
}
