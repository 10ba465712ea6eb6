package physics

import (
	"testing"

	"github.com/milk9111/impulse/geom"
)

func queryScene(t *testing.T) (a, b, c *Body, all []*Body) {
	a = newBox(t, 0, 0, 20, 20, nil)
	b = newBox(t, 50, 0, 20, 20, nil)
	c = newBox(t, 50, 100, 20, 20, nil)
	return a, b, c, []*Body{a, b, c}
}

func TestQueryPoint(t *testing.T) {
	a, b, _, all := queryScene(t)
	tests := []struct {
		name  string
		point geom.Vector
		want  []*Body
	}{
		{"inside_a", geom.V(1, 1), []*Body{a}},
		{"on_edge_of_b", geom.V(60, 0), []*Body{b}},
		{"between", geom.V(25, 0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueryPoint(all, tt.point)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v", got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v", got)
				}
			}
		})
	}
}

func TestQueryPointCompound(t *testing.T) {
	// An L shape. Its hull covers (8, 0) but neither part does.
	upright := newBox(t, 0, 0, 10, 40, nil)
	foot := newBox(t, 15, 15, 20, 10, nil)
	l, err := NewCompoundBody([]*Body{upright, foot}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(QueryPoint([]*Body{l}, geom.V(8, 0))) != 0 {
		t.Fatal("the hull's empty corner is not part of the body")
	}
	if got := QueryPoint([]*Body{l}, geom.V(20, 15)); len(got) != 1 || got[0] != l {
		t.Fatalf("point in the foot should return the compound, got %v", got)
	}
}

func TestQueryRegion(t *testing.T) {
	a, b, c, all := queryScene(t)
	region := geom.NewBounds(geom.V(-5, -5), geom.V(45, 5))

	inside := QueryRegion(all, region, false)
	if len(inside) != 2 || inside[0] != a || inside[1] != b {
		t.Fatalf("inside %v", inside)
	}
	outside := QueryRegion(all, region, true)
	if len(outside) != 1 || outside[0] != c {
		t.Fatalf("outside %v", outside)
	}
}

func TestQueryRay(t *testing.T) {
	a, b, c, all := queryScene(t)

	got := QueryRay(all, geom.V(-100, 0), geom.V(100, 0), 0)
	if len(got) != 2 {
		t.Fatalf("horizontal ray should cross a and b, got %v", got)
	}
	seen := map[*Body]bool{got[0]: true, got[1]: true}
	if !seen[a] || !seen[b] {
		t.Fatalf("got %v", got)
	}

	got = QueryRay(all, geom.V(50, -100), geom.V(50, 200), 1)
	if len(got) != 2 || got[0] == a || got[1] == a {
		t.Fatalf("vertical ray should cross b and c, got %v", got)
	}

	got = QueryRay(all, geom.V(0, 40), geom.V(30, 40), 2)
	if len(got) != 0 {
		t.Fatalf("ray through empty space hit %v", got)
	}

	if got = QueryRay(all, geom.V(50, 100), geom.V(50, 100), 0); len(got) != 1 || got[0] != c {
		t.Fatalf("zero length ray is a point query, got %v", got)
	}
}

func TestQueryCollides(t *testing.T) {
	a, b, _, all := queryScene(t)
	wide := newBox(t, 25, 0, 40, 20, nil)

	collisions := QueryCollides(wide, all)
	if len(collisions) != 2 {
		t.Fatalf("wide overlapping a and b, got %d", len(collisions))
	}
	hit := map[*Body]bool{}
	for _, c := range collisions {
		hit[c.BodyA] = true
		hit[c.BodyB] = true
	}
	if !hit[a] || !hit[b] || !hit[wide] {
		t.Fatal("collisions should name both bodies")
	}
	if len(QueryCollides(a, []*Body{a})) != 0 {
		t.Fatal("a body does not collide with itself")
	}
}
