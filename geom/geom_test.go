package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func regular(sides int, radius float64) Vertices {
	pts := make([]Vector, sides)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(sides)
		pts[i] = Vector{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
	}
	return NewVertices(pts)
}

var polygons = []struct {
	name string
	vs   Vertices
}{
	{"square", NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})},
	{"offset_rectangle", NewVertices([]Vector{{X: 5, Y: 3}, {X: 45, Y: 3}, {X: 45, Y: 23}, {X: 5, Y: 23}})},
	{"triangle", NewVertices([]Vector{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 12, Y: 17}})},
	{"pentagon", NewVertices([]Vector{{X: 0, Y: 0}, {X: 20, Y: -5}, {X: 35, Y: 10}, {X: 18, Y: 30}, {X: -4, Y: 18}})},
	{"octagon", regular(8, 25)},
}

func TestAreaCentreInertia(t *testing.T) {
	const mass = 3.5
	octagonArea := 4 * 25 * 25 * math.Sin(math.Pi/4)
	octagonInertia := mass * 25 * 25 / 6 * (1 + 2*math.Pow(math.Cos(math.Pi/8), 2))

	tests := []struct {
		name    string
		vs      Vertices
		area    float64
		centre  Vector
		inertia float64
	}{
		{"square", polygons[0].vs, 100, V(5, 5), mass * (100 + 100) / 12},
		{"offset_rectangle", polygons[1].vs, 800, V(25, 13), mass * (1600 + 400) / 12},
		// m(a² + b² + c²)/36 about the centroid.
		{"triangle", polygons[2].vs, 255, V(14, 17.0/3), mass * (900 + 433 + 613) / 36},
		{"octagon", polygons[4].vs, octagonArea, V(0, 0), octagonInertia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vs.Area(true); !near(got, tt.area) {
				t.Fatalf("area %v, want %v", got, tt.area)
			}
			c := tt.vs.Centre()
			if !near(c.X, tt.centre.X) || !near(c.Y, tt.centre.Y) {
				t.Fatalf("centre %v, want %v", c, tt.centre)
			}
			centred := tt.vs.Clone()
			centred.Translate(c, -1)
			if got := centred.Inertia(mass); !near(got, tt.inertia) {
				t.Fatalf("inertia %v, want %v", got, tt.inertia)
			}
		})
	}
}

func TestDegeneratePolygon(t *testing.T) {
	line := NewVertices([]Vector{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}})
	if line.Area(false) != 0 || line.Inertia(1) != 0 {
		t.Fatalf("area %v inertia %v", line.Area(false), line.Inertia(1))
	}
	if c := line.Centre(); c != V(5, 0) {
		t.Fatalf("a flat polygon's centre falls back to the mean, got %v", c)
	}
}

func TestAreaSign(t *testing.T) {
	vs := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	rev := vs.Clone()
	rev.Reverse()
	if vs.Area(true) != 100 || rev.Area(true) != -100 || rev.Area(false) != 100 {
		t.Fatalf("areas %v %v %v", vs.Area(true), rev.Area(true), rev.Area(false))
	}
	if rev[0].Index != 0 || rev[3].Index != 3 {
		t.Fatal("reverse should reindex")
	}
}

func TestAxesPointOutward(t *testing.T) {
	for _, tt := range polygons {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.vs.Centre()
			for i, axis := range AxesOf(tt.vs) {
				if !near(axis.Length(), 1) {
					t.Fatalf("axis %d not unit: %v", i, axis)
				}
			}
			// Every edge normal must point away from the centroid.
			for i := range tt.vs {
				j := (i + 1) % len(tt.vs)
				a, b := tt.vs[i].Point(), tt.vs[j].Point()
				normal := Vector{X: b.Y - a.Y, Y: a.X - b.X}
				if normal.Dot(a.Sub(c)) <= 0 {
					t.Fatalf("edge %d normal %v points inward", i, normal)
				}
			}
		})
	}
}

func TestAxesDeduplicateParallelEdges(t *testing.T) {
	square := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	if n := len(AxesOf(square)); n != 2 {
		t.Fatalf("square should have 2 unique axes, got %d", n)
	}
	if n := len(AxesOf(regular(8, 10))); n != 4 {
		t.Fatalf("octagon should have 4 unique axes, got %d", n)
	}
	if n := len(AxesOf(NewVertices([]Vector{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 12, Y: 17}}))); n != 3 {
		t.Fatalf("triangle should have 3 axes, got %d", n)
	}
}

func TestContains(t *testing.T) {
	vs := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	tests := []struct {
		p    Vector
		want bool
	}{
		{Vector{X: 5, Y: 5}, true},
		{Vector{X: 0, Y: 0}, true},
		{Vector{X: 10, Y: 5}, true},
		{Vector{X: -0.1, Y: 5}, false},
		{Vector{X: 5, Y: 10.1}, false},
	}
	for _, tt := range tests {
		if got := vs.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name string
		vs   Vertices
		want Convexity
	}{
		{"square", NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}), Convex},
		{"arrow", NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 10}, {X: 3, Y: 5}}), Concave},
		{"line", NewVertices([]Vector{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}), Degenerate},
		{"two", NewVertices([]Vector{{X: 0, Y: 0}, {X: 5, Y: 0}}), Degenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vs.IsConvex(); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestHull(t *testing.T) {
	arrow := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 10}, {X: 3, Y: 5}})
	hull := arrow.Hull()
	if len(hull) != 3 {
		t.Fatalf("expected 3 hull points, got %d", len(hull))
	}
	if hull.IsConvex() != Convex || hull.Area(true) <= 0 {
		t.Fatalf("hull must be convex and positively wound, area %v", hull.Area(true))
	}
	if !near(hull.Area(false), 50) {
		t.Fatalf("hull area %v, want 50", hull.Area(false))
	}
	for i, v := range hull {
		if v.Index != i {
			t.Fatalf("hull vertex %d has index %d", i, v.Index)
		}
	}
}

func TestClockwiseSortGivesPositiveArea(t *testing.T) {
	vs := NewVertices([]Vector{{X: 10, Y: 10}, {X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 0}})
	vs.ClockwiseSort()
	if vs.IsConvex() != Convex || !near(vs.Area(true), 100) {
		t.Fatalf("sorted area %v convex %v", vs.Area(true), vs.IsConvex())
	}
}

func TestTransforms(t *testing.T) {
	vs := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	area := vs.Area(true)

	vs.Translate(Vector{X: 5, Y: -5}, 1)
	if vs[0].X != 5 || vs[0].Y != -5 {
		t.Fatalf("translate: %v", vs[0])
	}
	vs.Rotate(math.Pi/3, vs.Centre())
	if !near(vs.Area(true), area) {
		t.Fatalf("rotation changed area to %v", vs.Area(true))
	}
	before := vs.Centre()
	vs.Scale(2, 3, before)
	if !near(vs.Area(true), area*6) {
		t.Fatalf("scale area %v, want %v", vs.Area(true), area*6)
	}
	after := vs.Centre()
	if !near(after.X, before.X) || !near(after.Y, before.Y) {
		t.Fatalf("scaling about the centre moved it: %v -> %v", before, after)
	}
}

func TestFromPath(t *testing.T) {
	vs, err := FromPath("L 0 0 L 10 0 L 10 10 L 0 10")
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 4 || vs[2].X != 10 || vs[2].Y != 10 || vs[3].Index != 3 {
		t.Fatalf("unexpected vertices %v", vs)
	}
	for _, bad := range []string{"", "L 1 2 L 3", "L a b"} {
		if _, err := FromPath(bad); err == nil {
			t.Errorf("FromPath(%q) should fail", bad)
		}
	}
}

func TestBounds(t *testing.T) {
	vs := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 20}, {X: 0, Y: 20}})
	if b := BoundsOf(vs); b != NewBounds(V(0, 0), V(10, 20)) {
		t.Fatalf("bounds %v", b)
	}
	b := SweptBounds(vs, V(3, -4))
	if b.R != 13 || b.B != -4 || b.L != 0 || b.T != 20 {
		t.Fatalf("swept bounds %v", b)
	}
	if !b.Intersects(NewBounds(V(13, 20), V(30, 30))) {
		t.Fatal("touching bounds overlap")
	}
	if b.Intersects(NewBounds(V(13.5, 0), V(30, 30))) {
		t.Fatal("disjoint bounds should not overlap")
	}
	u := b.Merge(NewBounds(V(-5, 0), V(1, 40)))
	if Min(u) != V(-5, -4) || Max(u) != V(13, 40) || Width(u) != 18 || Height(u) != 44 {
		t.Fatalf("union %v", u)
	}
}

func TestSweptBounds(t *testing.T) {
	vs := NewVertices([]Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	tests := []struct {
		name     string
		velocity Vector
		want     Bounds
	}{
		{"still", V(0, 0), NewBounds(V(0, 0), V(10, 10))},
		{"right_down", V(2, 5), NewBounds(V(0, 0), V(12, 15))},
		{"left_up", V(-2, -5), NewBounds(V(-2, -5), V(10, 10))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SweptBounds(vs, tt.velocity); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestVectorOps(t *testing.T) {
	v := V(3, 4)
	if v.Length() != 5 || v.LengthSq() != 25 {
		t.Fatal("length")
	}
	if n := Normalise(v); !near(n.Length(), 1) {
		t.Fatal("normalise")
	}
	if Normalise(Vector{}) != (Vector{}) || Div(v, 0) != (Vector{}) {
		t.Fatal("zero handling")
	}
	if v.Perp() != V(-4, 3) || v.ReversePerp() != V(4, -3) {
		t.Fatal("perp")
	}
	if v.Cross(V(1, 0)) != -4 || Cross3(V(0, 0), V(1, 0), V(0, 1)) != 1 {
		t.Fatal("cross")
	}
	r := Rotate(V(1, 0), math.Pi/2)
	if !near(r.X, 0) || !near(r.Y, 1) {
		t.Fatalf("rotate %v", r)
	}
	r = RotateAbout(V(2, 1), math.Pi, V(1, 1))
	if !near(r.X, 0) || !near(r.Y, 1) {
		t.Fatalf("rotate about %v", r)
	}
	if a := Angle(V(1, 1), V(1, 3)); !near(a, math.Pi/2) {
		t.Fatalf("angle %v", a)
	}
}
