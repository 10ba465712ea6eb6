package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// AxesOf returns the unique edge normals of a polygon, used as separating
// axis candidates. Zero length edges produce no axis. Parallel edges share
// one axis.
func AxesOf(vs Vertices) []Vector {
	axes := make([]Vector, 0, len(vs))
	seen := make(map[float64]struct{}, len(vs))
	for i := range vs {
		j := (i + 1) % len(vs)
		normal := Normalise(vs[j].Point().Sub(vs[i].Point()).ReversePerp())
		if IsZero(normal) {
			continue
		}
		key := math.Inf(1)
		if normal.Y != 0 {
			key = math.Round(normal.X / normal.Y * 1000)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		axes = append(axes, normal)
	}
	return axes
}

// RotateAxes rotates every axis in place.
func RotateAxes(axes []Vector, angle float64) {
	if angle == 0 {
		return
	}
	rot := cp.ForAngle(angle)
	for i, a := range axes {
		axes[i] = a.Rotate(rot)
	}
}
