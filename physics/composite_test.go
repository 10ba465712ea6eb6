package physics

import (
	"errors"
	"testing"

	"github.com/milk9111/impulse/geom"
)

func newPin(t testing.TB, b *Body) *Constraint {
	t.Helper()
	c, err := NewConstraint(ConstraintOptions{PointA: b.Position(), BodyB: b})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCompositeAddAndOwnership(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	a := newBox(t, 0, 0, 10, 10, nil)
	b := newBox(t, 20, 0, 10, 10, nil)
	pin := newPin(t, b)

	if err := root.Add(a, child); err != nil {
		t.Fatal(err)
	}
	if err := child.Add([]*Body{b}, pin); err != nil {
		t.Fatal(err)
	}
	if a.Composite() != root || b.Composite() != child || pin.Composite() != child || child.Parent() != root {
		t.Fatal("owners not set")
	}
	if got := root.AllBodies(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("all bodies %v", got)
	}
	if len(root.AllConstraints()) != 1 || len(root.AllComposites()) != 1 {
		t.Fatal("nested constraint and composite should be listed")
	}
	if !root.Has(b) || !root.Has(pin) || !root.Has(child) || child.Has(a) || root.Has(root) {
		t.Fatal("Has should search the subtree")
	}
	if root.BodyByID(b.ID) != b || root.BodyByID(-1) != nil {
		t.Fatal("BodyByID")
	}

	// Adding an owned body moves it.
	if err := root.Add(b); err != nil {
		t.Fatal(err)
	}
	if b.Composite() != root || len(child.Bodies()) != 0 || len(root.Bodies()) != 2 {
		t.Fatal("body should move to its new owner")
	}
	if err := root.Add(b); err != nil || len(root.Bodies()) != 2 {
		t.Fatal("adding twice is a no-op")
	}
}

func TestCompositeAddErrors(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	if err := root.Add(child); err != nil {
		t.Fatal(err)
	}
	if err := child.Add(root); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("cycle: %v", err)
	}
	if err := child.Add(child); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("self: %v", err)
	}
	if err := root.Add("body"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("unsupported type: %v", err)
	}
}

func TestCompositeModState(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	if root.State() != ModClean {
		t.Fatalf("new composite is %v", root.State())
	}
	_ = root.Add(child)
	root.setState(ModClean)

	_ = child.Add(newBox(t, 0, 0, 10, 10, nil))
	if child.State() != ModDirty || root.State() != ModDirty {
		t.Fatal("change should dirty the path to the root")
	}
	root.setState(ModRebuilt)
	if child.State() != ModRebuilt {
		t.Fatal("setState covers the subtree")
	}
	child.Remove(false, child.Bodies())
	if root.State() != ModDirty {
		t.Fatal("rebuilt composite goes back to dirty")
	}
	if ModRebuilt.String() != "rebuilt" {
		t.Fatal(ModRebuilt.String())
	}
}

func TestCompositeRemove(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	a := newBox(t, 0, 0, 10, 10, nil)
	b := newBox(t, 20, 0, 10, 10, nil)
	pin := newPin(t, b)
	_ = root.Add(a, child)
	_ = child.Add(b, pin)

	root.Remove(false, b, pin)
	if b.Composite() != child || !root.Has(b) {
		t.Fatal("shallow remove must not reach into children")
	}
	root.Remove(true, b, pin)
	if b.Composite() != nil || pin.Composite() != nil || root.Has(b) || len(root.AllBodies()) != 1 {
		t.Fatal("deep remove should find nested objects")
	}
	root.Remove(false, child)
	if child.Parent() != nil || len(root.Composites()) != 0 {
		t.Fatal("child composite should be detached")
	}
	// Removing something not owned is a no-op.
	root.Remove(true, b, child, (*Body)(nil))
	if len(root.Bodies()) != 1 {
		t.Fatal("unrelated removes should not change the tree")
	}
}

func TestCompositeClear(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	ground := newBox(t, 0, 0, 10, 10, static)
	a := newBox(t, 20, 0, 10, 10, nil)
	b := newBox(t, 40, 0, 10, 10, nil)
	_ = root.Add(ground, a, child)
	_ = child.Add(b)

	root.Clear(true, true)
	if got := root.AllBodies(); len(got) != 1 || got[0] != ground {
		t.Fatalf("keepStatic left %v", got)
	}
	if a.Composite() != nil || b.Composite() != nil || child.Parent() != nil {
		t.Fatal("cleared objects should be released")
	}
	root.Clear(false, false)
	if len(root.AllBodies()) != 0 || ground.Composite() != nil {
		t.Fatal("full clear")
	}
}

func TestCompositeTransforms(t *testing.T) {
	c := NewComposite("c")
	a := newBox(t, 0, 0, 10, 10, nil)
	b := newBox(t, 20, 0, 10, 10, nil)
	_ = c.Add(a, b)

	c.Translate(geom.V(5, 5))
	if a.Position() != geom.V(5, 5) || b.Position() != geom.V(25, 5) {
		t.Fatalf("translate %v %v", a.Position(), b.Position())
	}
	bb, ok := c.Bounds()
	if !ok || geom.Min(bb) != geom.V(0, 0) || geom.Max(bb) != geom.V(30, 10) {
		t.Fatalf("bounds %v", bb)
	}

	c.Rotate(3.141592653589793, geom.V(15, 5))
	if !approx(a.Position().X, 25, 1e-9) || !approx(b.Position().X, 5, 1e-9) {
		t.Fatalf("rotate %v %v", a.Position(), b.Position())
	}

	if err := c.Scale(2, 2, geom.V(15, 5)); err != nil {
		t.Fatal(err)
	}
	if !approx(a.Position().X, 35, 1e-9) || !approx(a.Area(), 400, 1e-9) {
		t.Fatalf("scale %v area %v", a.Position(), a.Area())
	}
	if err := c.Scale(0, 1, geom.Vector{}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("bad scale: %v", err)
	}

	if _, ok := NewComposite("empty").Bounds(); ok {
		t.Fatal("empty composite has no bounds")
	}
}

func TestCompositeMove(t *testing.T) {
	src := NewComposite("src")
	dst := NewComposite("dst")
	a := newBox(t, 0, 0, 10, 10, nil)
	_ = src.Add(a)
	if err := src.Move(dst, a); err != nil {
		t.Fatal(err)
	}
	if a.Composite() != dst || len(src.Bodies()) != 0 {
		t.Fatal("move")
	}
}
