package geom

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
)

var ErrBadPath = errors.New("geom: malformed vertex path")

// Vertex is a polygon corner. Index is the position of the vertex inside its
// polygon and stays stable while the polygon is transformed, so it can key
// persistent contacts.
type Vertex struct {
	X          float64
	Y          float64
	Index      int
	IsInternal bool
}

func (v Vertex) Point() Vector {
	return Vector{X: v.X, Y: v.Y}
}

// Vertices is a convex polygon with positive signed area (counter-clockwise
// with y up, clockwise on a y-down screen).
type Vertices []Vertex

// NewVertices copies points into a vertex list with sequential indices.
func NewVertices(points []Vector) Vertices {
	out := make(Vertices, len(points))
	for i, p := range points {
		out[i] = Vertex{X: p.X, Y: p.Y, Index: i}
	}
	return out
}

// FromPath parses an SVG-like "L x y L x y ..." path.
func FromPath(path string) (Vertices, error) {
	clean := strings.NewReplacer("L", " ", "l", " ", ",", " ").Replace(path)
	fields := strings.Fields(clean)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	points := make([]Vector, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPath, err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPath, err)
		}
		points = append(points, Vector{X: x, Y: y})
	}
	return NewVertices(points), nil
}

func (vs Vertices) Clone() Vertices {
	out := make(Vertices, len(vs))
	copy(out, vs)
	return out
}

func (vs Vertices) Points() []Vector {
	out := make([]Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Point()
	}
	return out
}

// Reindex rewrites Index to match slice order.
func (vs Vertices) Reindex() {
	for i := range vs {
		vs[i].Index = i
	}
}

// Area returns the polygon area, signed when requested.
func (vs Vertices) Area(signed bool) float64 {
	area := cp.AreaForPoly(len(vs), vs.Points(), 0)
	if signed {
		return area
	}
	return math.Abs(area)
}

// Centre returns the area centroid, or the mean of a polygon with no area.
func (vs Vertices) Centre() Vector {
	if vs.Area(true) == 0 {
		return vs.Mean()
	}
	return cp.CentroidForPoly(len(vs), vs.Points())
}

// Mean returns the average of all vertices.
func (vs Vertices) Mean() Vector {
	var sum Vector
	for _, v := range vs {
		sum = sum.Add(v.Point())
	}
	return Div(sum, float64(len(vs)))
}

// Inertia returns the moment of inertia about the origin for the given mass.
// Callers centre the convex polygon on its centroid first.
func (vs Vertices) Inertia(mass float64) float64 {
	if vs.Area(true) == 0 {
		return 0
	}
	return cp.MomentForPoly(mass, len(vs), vs.Points(), Vector{}, 0)
}

func (vs Vertices) Translate(v Vector, scalar float64) {
	dx, dy := v.X*scalar, v.Y*scalar
	for i := range vs {
		vs[i].X += dx
		vs[i].Y += dy
	}
}

func (vs Vertices) Rotate(angle float64, point Vector) {
	if angle == 0 {
		return
	}
	rot := cp.ForAngle(angle)
	for i := range vs {
		p := point.Add(vs[i].Point().Sub(point).Rotate(rot))
		vs[i].X, vs[i].Y = p.X, p.Y
	}
}

func (vs Vertices) Scale(sx, sy float64, point Vector) {
	if sx == 1 && sy == 1 {
		return
	}
	for i := range vs {
		vs[i].X = point.X + (vs[i].X-point.X)*sx
		vs[i].Y = point.Y + (vs[i].Y-point.Y)*sy
	}
}

// Contains reports whether point lies inside or on the polygon.
func (vs Vertices) Contains(point Vector) bool {
	if len(vs) == 0 {
		return false
	}
	vertex := vs[len(vs)-1]
	for _, next := range vs {
		if (point.X-vertex.X)*(next.Y-vertex.Y)+(point.Y-vertex.Y)*(vertex.X-next.X) > 0 {
			return false
		}
		vertex = next
	}
	return true
}

// ClockwiseSort orders the vertices by angle around their mean, which gives a
// positive signed area, and reindexes them.
func (vs Vertices) ClockwiseSort() {
	centre := vs.Mean()
	sort.SliceStable(vs, func(i, j int) bool {
		return Angle(centre, vs[i].Point()) < Angle(centre, vs[j].Point())
	})
	vs.Reindex()
}

// Convexity classifies a polygon.
type Convexity int

const (
	Degenerate Convexity = iota
	Convex
	Concave
)

// IsConvex reports the convexity of the polygon in its current order.
// Fewer than three vertices, or all vertices collinear, is Degenerate.
func (vs Vertices) IsConvex() Convexity {
	n := len(vs)
	if n < 3 {
		return Degenerate
	}
	flag := 0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		k := (i + 2) % n
		z := (vs[j].X - vs[i].X) * (vs[k].Y - vs[j].Y)
		z -= (vs[j].Y - vs[i].Y) * (vs[k].X - vs[j].X)
		if z < 0 {
			flag |= 1
		} else if z > 0 {
			flag |= 2
		}
		if flag == 3 {
			return Concave
		}
	}
	if flag == 0 {
		return Degenerate
	}
	return Convex
}

// Hull returns the convex hull of the vertices with positive winding.
func (vs Vertices) Hull() Vertices {
	if len(vs) < 3 {
		return vs.Clone()
	}
	pts := vs.Points()
	count := cp.ConvexHull(len(pts), pts, nil, 0)
	hull := make(Vertices, count)
	for i := 0; i < count; i++ {
		hull[i] = Vertex{X: pts[i].X, Y: pts[i].Y, Index: i}
	}
	if hull.Area(true) < 0 {
		hull.Reverse()
	}
	return hull
}

// Reverse flips the winding in place and reindexes.
func (vs Vertices) Reverse() {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
	vs.Reindex()
}
