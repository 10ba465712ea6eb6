package physics

import (
	"fmt"

	"github.com/milk9111/impulse/geom"
)

// ModState tracks structural changes to a composite tree.
type ModState int

const (
	// ModClean means nothing changed since the last tick.
	ModClean ModState = iota
	// ModDirty means bodies, constraints or composites were added or removed.
	ModDirty
	// ModRebuilt means the engine has rebuilt its body list this tick.
	ModRebuilt
)

func (s ModState) String() string {
	switch s {
	case ModClean:
		return "clean"
	case ModDirty:
		return "dirty"
	case ModRebuilt:
		return "rebuilt"
	}
	return fmt.Sprintf("ModState(%d)", int(s))
}

// Composite is a tree of bodies, constraints and nested composites. The
// engine world is the root composite. Each body and constraint belongs to
// at most one composite.
type Composite struct {
	ID    int
	Label string

	bodies      []*Body
	constraints []*Constraint
	composites  []*Composite
	parent      *Composite

	state ModState

	cacheBodies      []*Body
	cacheConstraints []*Constraint
	cacheComposites  []*Composite
}

// NewComposite creates an empty composite.
func NewComposite(label string) *Composite {
	return &Composite{ID: NextID(), Label: label}
}

// State returns the modification state.
func (c *Composite) State() ModState { return c.state }

// Parent returns the enclosing composite, or nil for a root.
func (c *Composite) Parent() *Composite { return c.parent }

// Bodies returns the direct bodies of this composite.
func (c *Composite) Bodies() []*Body { return c.bodies }

// Constraints returns the direct constraints of this composite.
func (c *Composite) Constraints() []*Constraint { return c.constraints }

// Composites returns the direct child composites.
func (c *Composite) Composites() []*Composite { return c.composites }

// markDirty invalidates caches up to the root. A composite that was already
// rebuilt this tick goes back to dirty.
func (c *Composite) markDirty() {
	for cur := c; cur != nil; cur = cur.parent {
		cur.state = ModDirty
		cur.cacheBodies = nil
		cur.cacheConstraints = nil
		cur.cacheComposites = nil
	}
}

// setState moves the whole subtree to s.
func (c *Composite) setState(s ModState) {
	c.state = s
	for _, child := range c.composites {
		child.setState(s)
	}
}

// Add inserts bodies, constraints and composites, or slices of them. A body
// or constraint already owned by another composite is moved here.
func (c *Composite) Add(objects ...any) error {
	for _, obj := range objects {
		switch o := obj.(type) {
		case *Body:
			c.addBody(o)
		case []*Body:
			for _, b := range o {
				c.addBody(b)
			}
		case *Constraint:
			c.addConstraint(o)
		case []*Constraint:
			for _, con := range o {
				c.addConstraint(con)
			}
		case *Composite:
			if err := c.addComposite(o); err != nil {
				return err
			}
		case []*Composite:
			for _, child := range o {
				if err := c.addComposite(child); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: %T", ErrUnsupported, obj)
		}
	}
	return nil
}

func (c *Composite) addBody(b *Body) {
	if b == nil || b.owner == c {
		return
	}
	if b.owner != nil {
		b.owner.removeBody(b)
	}
	b.owner = c
	c.bodies = append(c.bodies, b)
	c.markDirty()
}

func (c *Composite) addConstraint(con *Constraint) {
	if con == nil || con.owner == c {
		return
	}
	if con.owner != nil {
		con.owner.removeConstraint(con)
	}
	con.owner = c
	c.constraints = append(c.constraints, con)
	c.markDirty()
}

func (c *Composite) addComposite(child *Composite) error {
	if child == nil || child.parent == c {
		return nil
	}
	for cur := c; cur != nil; cur = cur.parent {
		if cur == child {
			return fmt.Errorf("%w: composite %d would contain itself", ErrUnsupported, child.ID)
		}
	}
	if child.parent != nil {
		child.parent.removeComposite(child)
	}
	child.parent = c
	c.composites = append(c.composites, child)
	c.markDirty()
	return nil
}

// Remove takes objects out of the composite. With deep set, nested
// composites are searched too.
func (c *Composite) Remove(deep bool, objects ...any) {
	for _, obj := range objects {
		switch o := obj.(type) {
		case *Body:
			c.removeBodyDeep(o, deep)
		case []*Body:
			for _, b := range o {
				c.removeBodyDeep(b, deep)
			}
		case *Constraint:
			c.removeConstraintDeep(o, deep)
		case []*Constraint:
			for _, con := range o {
				c.removeConstraintDeep(con, deep)
			}
		case *Composite:
			c.removeCompositeDeep(o, deep)
		case []*Composite:
			for _, child := range o {
				c.removeCompositeDeep(child, deep)
			}
		}
	}
}

func (c *Composite) removeBodyDeep(b *Body, deep bool) {
	if b == nil || b.owner == nil {
		return
	}
	if b.owner == c || (deep && c.isAncestorOf(b.owner)) {
		b.owner.removeBody(b)
	}
}

func (c *Composite) removeConstraintDeep(con *Constraint, deep bool) {
	if con == nil || con.owner == nil {
		return
	}
	if con.owner == c || (deep && c.isAncestorOf(con.owner)) {
		con.owner.removeConstraint(con)
	}
}

func (c *Composite) removeCompositeDeep(child *Composite, deep bool) {
	if child == nil || child.parent == nil {
		return
	}
	if child.parent == c || (deep && c.isAncestorOf(child.parent)) {
		child.parent.removeComposite(child)
	}
}

func (c *Composite) isAncestorOf(o *Composite) bool {
	for cur := o; cur != nil; cur = cur.parent {
		if cur == c {
			return true
		}
	}
	return false
}

func (c *Composite) removeBody(b *Body) {
	for i, cur := range c.bodies {
		if cur == b {
			c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
			b.owner = nil
			c.markDirty()
			return
		}
	}
}

func (c *Composite) removeConstraint(con *Constraint) {
	for i, cur := range c.constraints {
		if cur == con {
			c.constraints = append(c.constraints[:i], c.constraints[i+1:]...)
			con.owner = nil
			c.markDirty()
			return
		}
	}
}

func (c *Composite) removeComposite(child *Composite) {
	for i, cur := range c.composites {
		if cur == child {
			c.composites = append(c.composites[:i], c.composites[i+1:]...)
			c.markDirty()
			child.parent = nil
			return
		}
	}
}

// Has reports whether the object is anywhere in this tree.
func (c *Composite) Has(obj any) bool {
	switch o := obj.(type) {
	case *Body:
		return o != nil && o.owner != nil && c.isAncestorOf(o.owner)
	case *Constraint:
		return o != nil && o.owner != nil && c.isAncestorOf(o.owner)
	case *Composite:
		return o != nil && o != c && c.isAncestorOf(o)
	}
	return false
}

// AllBodies returns every body in the tree, depth first. The slice is cached
// until the tree changes and must not be modified.
func (c *Composite) AllBodies() []*Body {
	if c.cacheBodies != nil {
		return c.cacheBodies
	}
	out := append([]*Body{}, c.bodies...)
	for _, child := range c.composites {
		out = append(out, child.AllBodies()...)
	}
	c.cacheBodies = out
	return out
}

// AllConstraints returns every constraint in the tree.
func (c *Composite) AllConstraints() []*Constraint {
	if c.cacheConstraints != nil {
		return c.cacheConstraints
	}
	out := append([]*Constraint{}, c.constraints...)
	for _, child := range c.composites {
		out = append(out, child.AllConstraints()...)
	}
	c.cacheConstraints = out
	return out
}

// AllComposites returns every nested composite.
func (c *Composite) AllComposites() []*Composite {
	if c.cacheComposites != nil {
		return c.cacheComposites
	}
	out := append([]*Composite{}, c.composites...)
	for _, child := range c.composites {
		out = append(out, child.AllComposites()...)
	}
	c.cacheComposites = out
	return out
}

// BodyByID finds a body anywhere in the tree.
func (c *Composite) BodyByID(id int) *Body {
	for _, b := range c.AllBodies() {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Clear removes everything. With keepStatic, static bodies stay. With deep,
// nested composites are cleared first.
func (c *Composite) Clear(keepStatic, deep bool) {
	if deep {
		for _, child := range c.composites {
			child.Clear(keepStatic, true)
		}
	}
	kept := c.bodies[:0]
	for _, b := range c.bodies {
		if keepStatic && b.isStatic {
			kept = append(kept, b)
			continue
		}
		b.owner = nil
	}
	for i := len(kept); i < len(c.bodies); i++ {
		c.bodies[i] = nil
	}
	c.bodies = kept
	for _, con := range c.constraints {
		con.owner = nil
	}
	c.constraints = nil
	for _, child := range c.composites {
		child.parent = nil
	}
	c.composites = nil
	c.markDirty()
}

// Move transfers objects from c to dst.
func (c *Composite) Move(dst *Composite, objects ...any) error {
	c.Remove(false, objects...)
	return dst.Add(objects...)
}

// Translate moves every body in the tree.
func (c *Composite) Translate(translation geom.Vector) {
	for _, b := range c.AllBodies() {
		b.Translate(translation, false)
	}
}

// Rotate turns every body in the tree about point.
func (c *Composite) Rotate(rotation float64, point geom.Vector) {
	for _, b := range c.AllBodies() {
		b.Rotate(rotation, &point, false)
	}
}

// Scale resizes every body in the tree about point.
func (c *Composite) Scale(scaleX, scaleY float64, point geom.Vector) error {
	for _, b := range c.AllBodies() {
		dx := b.position.X - point.X
		dy := b.position.Y - point.Y
		b.SetPosition(geom.Vector{X: point.X + dx*scaleX, Y: point.Y + dy*scaleY}, false)
		if err := b.Scale(scaleX, scaleY, nil); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the union of all body bounds in the tree.
func (c *Composite) Bounds() (geom.Bounds, bool) {
	bodies := c.AllBodies()
	if len(bodies) == 0 {
		return geom.Bounds{}, false
	}
	out := bodies[0].bounds
	for _, b := range bodies[1:] {
		out = out.Merge(b.bounds)
	}
	return out, true
}
