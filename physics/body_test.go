package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/impulse/geom"
)

func boxVertices(w, h float64) geom.Vertices {
	return geom.NewVertices([]geom.Vector{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}})
}

// newBox builds a w by h box centred on (x, y). mod may tweak the options.
func newBox(t testing.TB, x, y, w, h float64, mod func(*BodyOptions)) *Body {
	t.Helper()
	o := DefaultBodyOptions()
	o.Position = geom.V(x, y)
	if mod != nil {
		mod(&o)
	}
	b, err := NewBody(boxVertices(w, h), &o)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func static(o *BodyOptions) { o.IsStatic = true }

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewBodyMassProperties(t *testing.T) {
	b := newBox(t, 100, 50, 40, 20, nil)

	if b.Position() != geom.V(100, 50) {
		t.Fatalf("position %v", b.Position())
	}
	if b.Area() != 800 {
		t.Fatalf("area %v", b.Area())
	}
	if !approx(b.Mass(), 0.8, 1e-12) || !approx(b.InverseMass(), 1/0.8, 1e-9) {
		t.Fatalf("mass %v inverse %v", b.Mass(), b.InverseMass())
	}
	wantInertia := inertiaScale * 0.8 * (40*40 + 20*20) / 12
	if !approx(b.Inertia(), wantInertia, 1e-9) {
		t.Fatalf("inertia %v, want %v", b.Inertia(), wantInertia)
	}
	bb := b.Bounds()
	if geom.Min(bb) != geom.V(80, 40) || geom.Max(bb) != geom.V(120, 60) {
		t.Fatalf("bounds %v", bb)
	}
	if len(b.Parts()) != 1 || b.Parts()[0] != b || b.Parent() != b || b.IsCompound() {
		t.Fatal("simple body should be its own single part")
	}
	if got := b.Vertices().Centre(); !approx(got.X, 100, 1e-9) || !approx(got.Y, 50, 1e-9) {
		t.Fatalf("vertices centred at %v", got)
	}
}

func TestNewBodyRewindsClockwiseInput(t *testing.T) {
	vs := boxVertices(10, 10)
	vs.Reverse()
	b, err := NewBody(vs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Vertices().Area(true) <= 0 {
		t.Fatalf("expected positive winding, area %v", b.Vertices().Area(true))
	}
}

func TestNewBodyOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		vs   geom.Vertices
		mod  func(*BodyOptions)
		want error
	}{
		{"concave", geom.NewVertices([]geom.Vector{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 10}, {X: 3, Y: 5}}), nil, ErrConcave},
		{"collinear", geom.NewVertices([]geom.Vector{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}), nil, ErrInvalidShape},
		{"two_points", geom.NewVertices([]geom.Vector{{X: 0, Y: 0}, {X: 5, Y: 0}}), nil, ErrInvalidShape},
		{"no_density", boxVertices(10, 10), func(o *BodyOptions) { o.Density = 0 }, ErrInvalidOptions},
		{"negative_mass", boxVertices(10, 10), func(o *BodyOptions) { o.Mass = -1 }, ErrInvalidOptions},
		{"friction_air", boxVertices(10, 10), func(o *BodyOptions) { o.FrictionAir = 2 }, ErrInvalidOptions},
		{"time_scale", boxVertices(10, 10), func(o *BodyOptions) { o.TimeScale = 0 }, ErrInvalidOptions},
		{"nan_position", boxVertices(10, 10), func(o *BodyOptions) { o.Position.X = math.NaN() }, ErrInvalidOptions},
		{"negative_slop", boxVertices(10, 10), func(o *BodyOptions) { o.Slop = -1 }, ErrInvalidOptions},
		{"negative_restitution", boxVertices(10, 10), func(o *BodyOptions) { o.Restitution = -0.1 }, ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultBodyOptions()
			if tt.mod != nil {
				tt.mod(&o)
			}
			_, err := NewBody(tt.vs, &o)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewBodyMassOption(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, func(o *BodyOptions) {
		o.Density = 0
		o.Mass = 5
	})
	if b.Mass() != 5 || !approx(b.Density(), 0.05, 1e-12) {
		t.Fatalf("mass %v density %v", b.Mass(), b.Density())
	}
}

func TestCompoundBodyConservesMass(t *testing.T) {
	left := newBox(t, 0, 0, 20, 20, nil)
	right := newBox(t, 20, 0, 20, 20, func(o *BodyOptions) { o.Density = 0.003 })

	c, err := NewCompoundBody([]*Body{left, right}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Parts()) != 3 || c.Parts()[0] != c || !c.IsCompound() {
		t.Fatalf("parts %v", c.Parts())
	}
	if left.Parent() != c || right.Parent() != c {
		t.Fatal("parts should point at the compound")
	}
	wantMass := left.Mass() + right.Mass()
	if !approx(c.Mass(), wantMass, 1e-12) {
		t.Fatalf("mass %v, want %v", c.Mass(), wantMass)
	}
	if c.Area() != 800 {
		t.Fatalf("area %v", c.Area())
	}
	if !approx(c.Inertia(), left.Inertia()+right.Inertia(), 1e-9) {
		t.Fatalf("inertia %v", c.Inertia())
	}
	// Centre of mass is weighted towards the denser part.
	wantX := (left.Mass()*0 + right.Mass()*20) / wantMass
	if !approx(c.Position().X, wantX, 1e-9) || !approx(c.Position().Y, 0, 1e-9) {
		t.Fatalf("position %v, want x %v", c.Position(), wantX)
	}

	if _, err := NewCompoundBody([]*Body{left}, nil); !errors.Is(err, ErrPartInUse) {
		t.Fatalf("reusing a part: %v", err)
	}
	if _, err := NewCompoundBody(nil, nil); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("empty compound: %v", err)
	}
}

func TestCompoundBodyMovesParts(t *testing.T) {
	left := newBox(t, 0, 0, 20, 20, nil)
	right := newBox(t, 20, 0, 20, 20, nil)
	c, err := NewCompoundBody([]*Body{left, right}, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.SetPosition(geom.V(110, 100), false)
	if !approx(left.Position().X, 100, 1e-9) || !approx(right.Position().X, 120, 1e-9) || !approx(right.Position().Y, 100, 1e-9) {
		t.Fatalf("parts at %v and %v", left.Position(), right.Position())
	}
	c.SetAngle(math.Pi/2, false)
	if !approx(left.Position().X, 110, 1e-9) || !approx(left.Position().Y, 90, 1e-9) {
		t.Fatalf("rotated left part at %v", left.Position())
	}
	if left.Angle() != math.Pi/2 {
		t.Fatalf("part angle %v", left.Angle())
	}
}

func TestSetStaticRoundTrip(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, func(o *BodyOptions) {
		o.Restitution = 0.4
		o.Friction = 0.2
	})
	mass, inertia, density := b.Mass(), b.Inertia(), b.Density()
	b.SetVelocity(geom.V(3, 0))

	b.SetStatic(true)
	if !b.IsStatic() || !math.IsInf(b.Mass(), 1) || b.InverseMass() != 0 || b.InverseInertia() != 0 {
		t.Fatalf("static mass %v inverse %v", b.Mass(), b.InverseMass())
	}
	if b.Velocity() != (geom.Vector{}) || b.Restitution != 0 || b.Friction != 1 {
		t.Fatal("static body should be at rest with static materials")
	}
	b.SetStatic(true)

	b.SetStatic(false)
	if b.IsStatic() || b.Mass() != mass || b.Inertia() != inertia || b.Density() != density {
		t.Fatalf("restored mass %v inertia %v density %v", b.Mass(), b.Inertia(), b.Density())
	}
	if b.Restitution != 0.4 || b.Friction != 0.2 {
		t.Fatalf("restored materials %v %v", b.Restitution, b.Friction)
	}
}

func TestSetMass(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, nil)
	inertia := b.Inertia()
	mass := b.Mass()

	if err := b.SetMass(2); err != nil {
		t.Fatal(err)
	}
	want := inertia * 2 / mass
	if !approx(b.Inertia(), want, 1e-9) || b.InverseMass() != 0.5 || !approx(b.Density(), 0.02, 1e-12) {
		t.Fatalf("inertia %v density %v", b.Inertia(), b.Density())
	}
	if err := b.SetMass(2); err != nil {
		t.Fatal(err)
	}
	if !approx(b.Inertia(), want, 1e-9) {
		t.Fatal("setting the same mass twice must not change inertia")
	}

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := b.SetMass(bad); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("SetMass(%v) = %v", bad, err)
		}
	}
	if err := b.SetInertia(0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetInertia(0) = %v", err)
	}
	if err := b.SetInertia(math.Inf(1)); err != nil || b.InverseInertia() != 0 {
		t.Errorf("infinite inertia: %v %v", err, b.InverseInertia())
	}
}

func TestSetMassWhileStatic(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, nil)
	b.SetStatic(true)
	if err := b.SetMass(3); err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(b.Mass(), 1) {
		t.Fatal("static body keeps infinite mass")
	}
	b.SetStatic(false)
	if b.Mass() != 3 {
		t.Fatalf("stored mass should apply when dynamic, got %v", b.Mass())
	}
}

func TestScale(t *testing.T) {
	b := newBox(t, 50, 50, 10, 10, nil)
	density := b.Density()

	if err := b.Scale(2, 3, nil); err != nil {
		t.Fatal(err)
	}
	if !approx(b.Area(), 600, 1e-9) || !approx(b.Mass(), density*600, 1e-12) {
		t.Fatalf("area %v mass %v", b.Area(), b.Mass())
	}
	if bb := b.Bounds(); !approx(geom.Width(bb), 20, 1e-9) || !approx(geom.Height(bb), 30, 1e-9) {
		t.Fatalf("bounds %v", bb)
	}
	if b.Position() != geom.V(50, 50) {
		t.Fatalf("scaling about the position moved it to %v", b.Position())
	}

	for _, f := range [][2]float64{{0, 1}, {1, -2}, {math.NaN(), 1}, {math.Inf(1), 1}} {
		if err := b.Scale(f[0], f[1], nil); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Scale(%v, %v) = %v", f[0], f[1], err)
		}
	}
}

func TestScaleCircleRadius(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, nil)
	b.CircleRadius = 5
	_ = b.Scale(2, 2, nil)
	if b.CircleRadius != 10 {
		t.Fatalf("uniform scale radius %v", b.CircleRadius)
	}
	_ = b.Scale(2, 1, nil)
	if b.CircleRadius != 0 {
		t.Fatal("non-uniform scale should drop the radius")
	}
}

func TestApplyForceAddsTorque(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, nil)
	b.ApplyForce(geom.V(1, 0), geom.V(0, 2))
	b.ApplyForce(b.Position(), geom.V(1, 0))
	if b.Force() != geom.V(1, 2) || b.Torque() != 2 {
		t.Fatalf("force %v torque %v", b.Force(), b.Torque())
	}
	b.ClearForces()
	if b.Force() != (geom.Vector{}) || b.Torque() != 0 {
		t.Fatal("forces should clear")
	}
}

func TestSetPositionAndVelocity(t *testing.T) {
	b := newBox(t, 0, 0, 10, 10, nil)

	b.SetPosition(geom.V(5, 0), true)
	if b.Velocity() != geom.V(5, 0) || b.PositionPrev() != geom.V(0, 0) {
		t.Fatalf("velocity %v prev %v", b.Velocity(), b.PositionPrev())
	}
	b.SetPosition(geom.V(10, 0), false)
	if b.Position().Sub(b.PositionPrev()) != geom.V(5, 0) {
		t.Fatal("moving without velocity should keep the displacement")
	}

	b.SetVelocity(geom.V(0, 4))
	if b.Speed() != 4 || b.Position().Sub(b.PositionPrev()) != geom.V(0, 4) {
		t.Fatalf("speed %v", b.Speed())
	}
	b.SetSpeed(2)
	if b.Velocity() != geom.V(0, 2) {
		t.Fatalf("SetSpeed kept direction wrong: %v", b.Velocity())
	}
	b.SetAngularVelocity(-0.1)
	b.SetAngularSpeed(0.3)
	if b.AngularVelocity() != -0.3 || b.AngularSpeed() != 0.3 {
		t.Fatalf("angular %v", b.AngularVelocity())
	}
}

func TestCollisionFilter(t *testing.T) {
	def := DefaultCollisionFilter()
	tests := []struct {
		name string
		a, b CollisionFilter
		want bool
	}{
		{"defaults", def, def, true},
		{"same_positive_group", CollisionFilter{Group: 2}, CollisionFilter{Group: 2}, true},
		{"same_negative_group", CollisionFilter{Group: -1, Category: 1, Mask: 0xFFFFFFFF}, CollisionFilter{Group: -1, Category: 1, Mask: 0xFFFFFFFF}, false},
		{"different_groups_use_masks", CollisionFilter{Group: -1, Category: 1, Mask: 2}, CollisionFilter{Group: -2, Category: 2, Mask: 1}, true},
		{"mask_excludes", CollisionFilter{Category: 1, Mask: 0}, def, false},
		{"one_sided_mask", CollisionFilter{Category: 2, Mask: 0xFFFFFFFF}, CollisionFilter{Category: 1, Mask: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCollide(tt.a, tt.b); got != tt.want {
				t.Fatalf("got %v", got)
			}
			if got := CanCollide(tt.b, tt.a); got != tt.want {
				t.Fatal("CanCollide should be symmetric")
			}
		})
	}
}
