package physics

import (
	"testing"

	"github.com/milk9111/impulse/geom"
)

func TestCollidesSquares(t *testing.T) {
	tests := []struct {
		name       string
		bx, by     float64
		wantNormal geom.Vector
		wantDepth  float64
	}{
		{"overlap_right", 8, 0, geom.V(-1, 0), 2},
		{"overlap_left", -9, 0, geom.V(1, 0), 1},
		{"overlap_below", 0, 7, geom.V(0, -1), 3},
		{"overlap_above", 1, -6, geom.V(0, 1), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newBox(t, 0, 0, 10, 10, nil)
			b := newBox(t, tt.bx, tt.by, 10, 10, nil)

			c := Collides(a, b)
			if c == nil {
				t.Fatal("expected a collision")
			}
			if c.PartA != a || c.PartB != b || c.BodyA != a || c.BodyB != b {
				t.Fatal("lower id should be part A")
			}
			if !approx(c.Normal.X, tt.wantNormal.X, 1e-12) || !approx(c.Normal.Y, tt.wantNormal.Y, 1e-12) {
				t.Fatalf("normal %v, want %v", c.Normal, tt.wantNormal)
			}
			if !approx(c.Depth, tt.wantDepth, 1e-9) {
				t.Fatalf("depth %v, want %v", c.Depth, tt.wantDepth)
			}
			if c.Penetration != c.Normal.Mult(c.Depth) {
				t.Fatal("penetration should be normal * depth")
			}
			if c.Tangent != c.Normal.Perp() {
				t.Fatal("tangent should be the normal's perpendicular")
			}
			if len(c.Supports) == 0 || len(c.Supports) > 2 {
				t.Fatalf("supports %d", len(c.Supports))
			}
			for _, s := range c.Supports {
				other := a
				if s.Part == a {
					other = b
				}
				if !other.Vertices().Contains(s.Point()) {
					t.Fatalf("support %v not inside the other body", s.Point())
				}
			}

			// Swapping the arguments gives the same ordering.
			swapped := Collides(b, a)
			if swapped.PartA != a || swapped.Normal != c.Normal {
				t.Fatal("collision should not depend on argument order")
			}
		})
	}
}

func TestCollidesSeparated(t *testing.T) {
	a := newBox(t, 0, 0, 10, 10, nil)
	for _, pos := range []geom.Vector{{X: 10, Y: 0}, {X: 11, Y: 0}, {X: 0, Y: -12}, {X: 10.5, Y: 10.5}} {
		b := newBox(t, pos.X, pos.Y, 10, 10, nil)
		if c := Collides(a, b); c != nil {
			t.Errorf("box at %v should not collide, depth %v", pos, c.Depth)
		}
	}
}

func TestCollidesRotated(t *testing.T) {
	a := newBox(t, 0, 0, 10, 10, nil)
	b := newBox(t, 11, 0, 10, 10, func(o *BodyOptions) { o.Angle = 0.7853981633974483 })
	c := Collides(a, b)
	if c == nil {
		t.Fatal("diamond corner should reach into the box")
	}
	if c.Normal.X >= 0 {
		t.Fatalf("normal %v should point back towards a", c.Normal)
	}
	if len(c.Supports) != 1 || c.Supports[0].Part != b {
		t.Fatalf("expected the diamond tip as the only support, got %v", c.Supports)
	}
}

func TestDetector(t *testing.T) {
	ground := newBox(t, 0, 0, 100, 10, static)
	a := newBox(t, -20, -8, 10, 10, nil)
	b := newBox(t, 20, -8, 10, 10, nil)
	far := newBox(t, 500, 0, 10, 10, nil)
	ghost := newBox(t, 0, -8, 10, 10, func(o *BodyOptions) { o.CollisionFilter.Mask = 0 })
	wall := newBox(t, 40, 0, 10, 10, static)

	d := NewDetector()
	d.SetBodies([]*Body{far, b, ghost, a, wall, ground})
	collisions := d.Collisions()

	got := make(map[PairID]bool)
	for _, c := range collisions {
		got[NewPairID(c.PartA.ID, c.PartB.ID)] = true
	}
	want := []PairID{NewPairID(ground.ID, a.ID), NewPairID(ground.ID, b.ID)}
	for _, id := range want {
		if !got[id] {
			t.Errorf("missing pair %v", id)
		}
	}
	if len(collisions) != len(want) {
		t.Fatalf("expected %d collisions, got %d", len(want), len(collisions))
	}

	// The sweep order is by min x and stable.
	bs := d.Bodies()
	for i := 1; i < len(bs); i++ {
		if bs[i-1].Bounds().L > bs[i].Bounds().L {
			t.Fatal("bodies should be sorted by min x")
		}
	}
}

func TestDetectorSkipsRestingPairs(t *testing.T) {
	ground := newBox(t, 0, 0, 100, 10, static)
	sleeper := newBox(t, 0, -8, 10, 10, nil)
	SetSleeping(sleeper, true, nil)

	d := NewDetector()
	d.SetBodies([]*Body{ground, sleeper})
	if n := len(d.Collisions()); n != 0 {
		t.Fatalf("sleeping on static should be skipped, got %d", n)
	}
	SetSleeping(sleeper, false, nil)
	if n := len(d.Collisions()); n != 1 {
		t.Fatalf("awake body should collide, got %d", n)
	}
}

func TestDetectorCompoundParts(t *testing.T) {
	left := newBox(t, 0, 0, 20, 20, nil)
	right := newBox(t, 20, 0, 20, 20, nil)
	compound, err := NewCompoundBody([]*Body{left, right}, nil)
	if err != nil {
		t.Fatal(err)
	}
	target := newBox(t, 28, 0, 10, 10, nil)

	d := NewDetector()
	d.SetBodies([]*Body{compound, target})
	collisions := d.Collisions()
	if len(collisions) != 1 {
		t.Fatalf("expected one part collision, got %d", len(collisions))
	}
	c := collisions[0]
	if c.BodyA != compound && c.BodyB != compound {
		t.Fatal("collision should report the compound as a body")
	}
	if c.PartA != right && c.PartB != right {
		t.Fatal("only the right part reaches the target")
	}
}

func TestPairsLifecycle(t *testing.T) {
	a := newBox(t, 0, 0, 10, 10, nil)
	b := newBox(t, 8, 0, 10, 10, nil)
	c := Collides(a, b)
	ps := NewPairs()

	ps.Update([]*Collision{c}, 1)
	if len(ps.Start) != 1 || len(ps.Active) != 0 || len(ps.End) != 0 || ps.Len() != 1 {
		t.Fatalf("first sighting: start %d active %d end %d", len(ps.Start), len(ps.Active), len(ps.End))
	}
	p := ps.Start[0]
	if p.ID != NewPairID(a.ID, b.ID) || !p.IsActive || p.TimeCreated != 1 {
		t.Fatalf("pair %+v", p)
	}
	if len(p.ActiveContacts) != len(c.Supports) {
		t.Fatal("contacts should follow supports")
	}
	p.ActiveContacts[0].NormalImpulse = -3

	ps.Update([]*Collision{Collides(a, b)}, 2)
	if len(ps.Start) != 0 || len(ps.Active) != 1 || ps.Active[0] != p {
		t.Fatal("second sighting should be active")
	}
	if p.ActiveContacts[0].NormalImpulse != -3 {
		t.Fatal("contacts seen again keep cached impulses")
	}

	ps.Update(nil, 3)
	if len(ps.End) != 1 || ps.End[0] != p || p.IsActive {
		t.Fatal("missing collision should end the pair")
	}
	if ps.Len() != 0 || ps.Get(p.ID) != nil {
		t.Fatal("ended pair of awake bodies is dropped")
	}

	ps.Update(nil, 4)
	if len(ps.End) != 0 {
		t.Fatal("a pair ends only once")
	}
}

func TestPairsKeepRestingPairs(t *testing.T) {
	ground := newBox(t, 0, 8, 100, 10, static)
	box := newBox(t, 0, 0, 10, 10, nil)
	ps := NewPairs()
	ps.Update([]*Collision{Collides(ground, box)}, 1)
	p := ps.List()[0]

	for _, c := range p.ActiveContacts {
		c.NormalImpulse = -0.5
	}

	SetSleeping(box, true, nil)
	ps.Update(nil, 2)
	if len(ps.End) != 1 || ps.Len() != 1 || p.IsActive {
		t.Fatal("sleeping pair should end but stay cached")
	}
	ps.Update(nil, 2.5)
	if len(ps.End) != 0 || ps.Len() != 1 {
		t.Fatal("a cached pair ends only once")
	}
	for id, c := range p.Contacts {
		if c.NormalImpulse != -0.5 {
			t.Fatalf("contact %v lost its impulse", id)
		}
	}

	SetSleeping(box, false, nil)
	ps.Update([]*Collision{Collides(ground, box)}, 3)
	if len(ps.Start) != 1 || ps.Start[0] != p || !p.IsActive {
		t.Fatal("reactivated pair should start again")
	}
}

func TestPairsRemoveBodies(t *testing.T) {
	a := newBox(t, 0, 0, 10, 10, nil)
	b := newBox(t, 8, 0, 10, 10, nil)
	c := newBox(t, 100, 0, 10, 10, nil)
	d := newBox(t, 108, 0, 10, 10, nil)
	ps := NewPairs()
	ps.Update([]*Collision{Collides(a, b), Collides(c, d)}, 1)

	ended := ps.RemoveBodies(map[*Body]struct{}{a: {}})
	if len(ended) != 1 || ended[0].BodyA != a {
		t.Fatalf("expected the a/b pair to end, got %d", len(ended))
	}
	if ps.Len() != 1 || ps.Get(NewPairID(a.ID, b.ID)) != nil || ps.Get(NewPairID(c.ID, d.ID)) == nil {
		t.Fatal("only pairs of removed bodies are dropped")
	}
	if ps.RemoveBodies(nil) != nil {
		t.Fatal("nothing removed, nothing ended")
	}
}
