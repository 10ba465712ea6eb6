package geom

import "github.com/jakecoffman/cp"

// Vector is chipmunk's 2D vector. The helpers below cover what the engine
// needs beyond cp's own methods.
type Vector = cp.Vector

func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Normalise returns the unit vector. Unlike cp's Normalize the zero vector
// stays zero instead of turning into NaN.
func Normalise(v Vector) Vector {
	if IsZero(v) {
		return Vector{}
	}
	return v.Mult(1 / v.Length())
}

// Div divides by s. Dividing by zero returns the zero vector.
func Div(v Vector, s float64) Vector {
	if s == 0 {
		return Vector{}
	}
	return v.Mult(1 / s)
}

// Cross3 returns the cross product of (b - a) and (c - a).
func Cross3(a, b, c Vector) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Rotate turns v by angle radians about the origin.
func Rotate(v Vector, angle float64) Vector {
	if angle == 0 {
		return v
	}
	return v.Rotate(cp.ForAngle(angle))
}

// RotateAbout turns v by angle radians about point.
func RotateAbout(v Vector, angle float64, point Vector) Vector {
	if angle == 0 {
		return v
	}
	return point.Add(v.Sub(point).Rotate(cp.ForAngle(angle)))
}

// Angle returns the angle of the line from a to b.
func Angle(a, b Vector) float64 {
	return b.Sub(a).ToAngle()
}

func IsZero(v Vector) bool {
	return v.X == 0 && v.Y == 0
}
