package physics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/geom"
)

const inertiaScale = 4

var nextObjectID atomic.Int64

// NextID returns a process-unique identifier shared by bodies, parts,
// constraints and composites.
func NextID() int {
	return int(nextObjectID.Add(1))
}

// Body is a rigid body. A simple body is its own single part. A compound body
// lists itself first in Parts followed by its convex sub-bodies, which share
// the parent's kinematics and are never simulated on their own.
type Body struct {
	ID    int
	Label string

	Restitution     float64
	Friction        float64
	FrictionStatic  float64
	FrictionAir     float64
	Slop            float64
	IsSensor        bool
	SleepThreshold  int
	TimeScale       float64
	CollisionFilter CollisionFilter

	// CircleRadius is set by circle factories and cleared by non-uniform
	// scaling.
	CircleRadius float64

	parts  []*Body
	parent *Body
	owner  *Composite

	position        geom.Vector
	positionPrev    geom.Vector
	angle           float64
	anglePrev       float64
	velocity        geom.Vector
	angularVelocity float64
	speed           float64
	angularSpeed    float64
	deltaTime       float64

	force             geom.Vector
	torque            float64
	positionImpulse   geom.Vector
	constraintImpulse geom.Vector
	constraintAngle   float64
	totalContacts     int

	mass           float64
	inverseMass    float64
	inertia        float64
	inverseInertia float64
	density        float64
	area           float64

	isStatic     bool
	isSleeping   bool
	motion       float64
	sleepCounter int

	vertices geom.Vertices
	axes     []geom.Vector
	bounds   geom.Bounds

	original *staticMemo
}

// staticMemo keeps the values SetStatic overwrites so they can be restored.
type staticMemo struct {
	restitution    float64
	friction       float64
	mass           float64
	inertia        float64
	density        float64
	inverseMass    float64
	inverseInertia float64
}

func newBodyShell(o BodyOptions) *Body {
	b := &Body{
		ID:              NextID(),
		Label:           o.Label,
		Restitution:     o.Restitution,
		Friction:        o.Friction,
		FrictionStatic:  o.FrictionStatic,
		FrictionAir:     o.FrictionAir,
		Slop:            o.Slop,
		IsSensor:        o.IsSensor,
		SleepThreshold:  o.SleepThreshold,
		TimeScale:       o.TimeScale,
		CollisionFilter: o.CollisionFilter,
		density:         o.Density,
		deltaTime:       common.BaseDelta,
	}
	b.parts = []*Body{b}
	b.parent = b
	return b
}

// NewBody builds a simple body from convex vertices given in local or world
// space. The vertices are re-centred on their centroid and placed at
// opts.Position. Clockwise input is rewound.
func NewBody(vertices geom.Vertices, opts *BodyOptions) (*Body, error) {
	o := DefaultBodyOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	vs := vertices.Clone()
	vs.Reindex()
	switch vs.IsConvex() {
	case geom.Degenerate:
		return nil, fmt.Errorf("%w: %d vertices with no area", ErrInvalidShape, len(vs))
	case geom.Concave:
		return nil, ErrConcave
	}
	if vs.Area(true) < 0 {
		vs.Reverse()
	}
	if o.Density <= 0 {
		o.Density = o.Mass / vs.Area(false)
	}
	b := newBodyShell(o)
	b.density = o.Density
	b.position = o.Position
	b.setVertices(vs)
	if o.Angle != 0 {
		b.vertices.Rotate(o.Angle, b.position)
		geom.RotateAxes(b.axes, o.Angle)
		b.angle = o.Angle
	}
	b.positionPrev = b.position
	b.anglePrev = b.angle
	b.bounds = geom.SweptBounds(b.vertices, b.velocity)
	if o.Mass > 0 {
		if err := b.SetMass(o.Mass); err != nil {
			return nil, err
		}
	}
	if o.Inertia > 0 {
		if err := b.SetInertia(o.Inertia); err != nil {
			return nil, err
		}
	}
	if o.IsStatic {
		b.SetStatic(true)
	}
	if o.IsSleeping && !o.IsStatic {
		b.setSleeping(true)
	}
	return b, nil
}

// NewCompoundBody joins convex parts, given in world space, into one rigid
// body. The body sits at the mass-weighted centre of its parts and its own
// vertices are the convex hull of every part. opts supplies the materials,
// filter and static flag; its position and angle are ignored.
func NewCompoundBody(parts []*Body, opts *BodyOptions) (*Body, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: compound body needs at least one part", ErrInvalidShape)
	}
	o := DefaultBodyOptions()
	if opts != nil {
		o = *opts
	}
	o.Position, o.Angle = geom.Vector{}, 0
	if err := o.Validate(); err != nil {
		return nil, err
	}
	for i, part := range parts {
		if part == nil {
			return nil, fmt.Errorf("%w: part %d is nil", ErrInvalidShape, i)
		}
		if part.parent != part || len(part.parts) > 1 || part.owner != nil {
			return nil, fmt.Errorf("%w: part %d (id %d)", ErrPartInUse, i, part.ID)
		}
		for j := 0; j < i; j++ {
			if parts[j] == part {
				return nil, fmt.Errorf("%w: part %d listed twice", ErrPartInUse, part.ID)
			}
		}
	}

	b := newBodyShell(o)
	b.parts = append(b.parts, parts...)
	var all geom.Vertices
	for _, part := range parts {
		part.parent = b
		all = append(all, part.vertices...)
	}

	hull := all.Hull()
	hullCentre := hull.Centre()
	b.setVertices(hull)
	b.vertices.Translate(hullCentre, 1)

	total := b.totalProperties()
	b.area = total.area
	b.position = total.centre
	b.positionPrev = total.centre
	b.mass, b.inverseMass = total.mass, 1/total.mass
	b.inertia, b.inverseInertia = total.inertia, 1/total.inertia
	b.density = total.mass / total.area
	b.bounds = geom.SweptBounds(b.vertices, b.velocity)

	if o.Mass > 0 {
		if err := b.SetMass(o.Mass); err != nil {
			return nil, err
		}
	}
	if o.Inertia > 0 {
		if err := b.SetInertia(o.Inertia); err != nil {
			return nil, err
		}
	}
	if o.IsStatic {
		b.SetStatic(true)
	}
	if o.IsSleeping && !o.IsStatic {
		b.setSleeping(true)
	}
	return b, nil
}

type partTotals struct {
	mass    float64
	area    float64
	inertia float64
	centre  geom.Vector
}

// totalProperties sums the parts of a compound. Static parts weigh 1 so the
// centre stays defined.
func (b *Body) totalProperties() partTotals {
	var t partTotals
	start := 1
	if len(b.parts) == 1 {
		start = 0
	}
	for _, part := range b.parts[start:] {
		mass := part.mass
		if math.IsInf(mass, 1) {
			mass = 1
		}
		t.mass += mass
		t.area += part.area
		t.inertia += part.inertia
		t.centre = t.centre.Add(part.position.Mult(mass))
	}
	t.centre = geom.Div(t.centre, t.mass)
	return t
}

// setVertices centres the polygon on its centroid, derives area, mass and
// inertia from the current density, then places it at the body position.
func (b *Body) setVertices(vs geom.Vertices) {
	b.vertices = vs
	b.axes = geom.AxesOf(vs)
	b.area = vs.Area(false)
	b.mass = b.density * b.area
	b.inverseMass = 1 / b.mass
	centre := vs.Centre()
	vs.Translate(centre, -1)
	b.inertia = inertiaScale * vs.Inertia(b.mass)
	b.inverseInertia = 1 / b.inertia
	vs.Translate(b.position, 1)
	b.bounds = geom.SweptBounds(vs, b.velocity)
}

func (b *Body) Position() geom.Vector { return b.position }
func (b *Body) PositionPrev() geom.Vector { return b.positionPrev }
func (b *Body) Angle() float64 { return b.angle }
func (b *Body) Velocity() geom.Vector { return b.velocity }
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }
func (b *Body) Speed() float64 { return b.speed }
func (b *Body) AngularSpeed() float64 { return b.angularSpeed }
func (b *Body) Force() geom.Vector { return b.force }
func (b *Body) Torque() float64 { return b.torque }
func (b *Body) Mass() float64 { return b.mass }
func (b *Body) InverseMass() float64 { return b.inverseMass }
func (b *Body) Inertia() float64 { return b.inertia }
func (b *Body) InverseInertia() float64 { return b.inverseInertia }
func (b *Body) Density() float64 { return b.density }
func (b *Body) Area() float64 { return b.area }
func (b *Body) IsStatic() bool { return b.isStatic }
func (b *Body) IsSleeping() bool { return b.isSleeping }
func (b *Body) Motion() float64 { return b.motion }
func (b *Body) Bounds() geom.Bounds { return b.bounds }
func (b *Body) PositionImpulse() geom.Vector { return b.positionImpulse }

// Vertices returns the world-space polygon. Callers must not modify it.
func (b *Body) Vertices() geom.Vertices { return b.vertices }

// Axes returns the world-space edge normals. Callers must not modify them.
func (b *Body) Axes() []geom.Vector { return b.axes }

// Parts returns the body followed by its sub-parts.
func (b *Body) Parts() []*Body { return b.parts }

// Parent returns the compound owning a part, or the body itself.
func (b *Body) Parent() *Body { return b.parent }

// IsCompound reports whether the body has sub-parts.
func (b *Body) IsCompound() bool { return len(b.parts) > 1 }

// Composite returns the composite that directly owns the body.
func (b *Body) Composite() *Composite { return b.owner }

func (b *Body) String() string {
	return fmt.Sprintf("Body(%d %s)", b.ID, b.Label)
}

// FlagInternalEdges marks edges shared by two parts as internal so they are
// not drawn. Vertices closer than maxDist, squared, count as coincident.
func FlagInternalEdges(parts []*Body, maxDist float64) {
	for i, partA := range parts {
		for _, partB := range parts[i+1:] {
			if !partA.bounds.Intersects(partB.bounds) {
				continue
			}
			pav, pbv := partA.vertices, partB.vertices
			for k := range pav {
				for z := range pbv {
					da := pav[(k+1)%len(pav)].Point().Sub(pbv[z].Point()).LengthSq()
					db := pav[k].Point().Sub(pbv[(z+1)%len(pbv)].Point()).LengthSq()
					if da < maxDist && db < maxDist {
						pav[k].IsInternal = true
						pbv[z].IsInternal = true
					}
				}
			}
		}
	}
}
