package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/geom"
)

const (
	constraintWarming      = 0.4
	constraintTorqueDampen = 1
	constraintMinLength    = 0.000001
)

// ConstraintOptions configures a distance constraint. Length and Stiffness
// are optional: Length defaults to the current distance between the anchors
// and Stiffness to 1 for a non-zero length or 0.7 for a pin.
type ConstraintOptions struct {
	Label            string      `yaml:"label"`
	BodyA            *Body       `yaml:"-"`
	BodyB            *Body       `yaml:"-"`
	PointA           geom.Vector `yaml:"point_a"`
	PointB           geom.Vector `yaml:"point_b"`
	Length           *float64    `yaml:"length"`
	Stiffness        *float64    `yaml:"stiffness"`
	Damping          float64     `yaml:"damping"`
	AngularStiffness float64     `yaml:"angular_stiffness"`
}

// Constraint keeps two anchor points at a set distance. An anchor on a nil
// body is a fixed world point; otherwise it is an offset from the body
// position that turns with the body.
type Constraint struct {
	ID               int
	Label            string
	BodyA            *Body
	BodyB            *Body
	PointA           geom.Vector
	PointB           geom.Vector
	Length           float64
	Stiffness        float64
	Damping          float64
	AngularStiffness float64

	angleA float64
	angleB float64
	owner  *Composite
}

// NewConstraint validates the options and builds a constraint.
func NewConstraint(opts ConstraintOptions) (*Constraint, error) {
	if opts.BodyA == nil && opts.BodyB == nil {
		return nil, ErrNoAnchor
	}
	c := &Constraint{
		ID:               NextID(),
		Label:            opts.Label,
		BodyA:            opts.BodyA,
		BodyB:            opts.BodyB,
		PointA:           opts.PointA,
		PointB:           opts.PointB,
		Damping:          opts.Damping,
		AngularStiffness: opts.AngularStiffness,
	}
	if c.Label == "" {
		c.Label = "Constraint"
	}
	if c.BodyA != nil {
		c.angleA = c.BodyA.angle
	}
	if c.BodyB != nil {
		c.angleB = c.BodyB.angle
	}

	c.Length = c.CurrentLength()
	if opts.Length != nil {
		c.Length = *opts.Length
	}
	c.Stiffness = 0.7
	if c.Length > 0 {
		c.Stiffness = 1
	}
	if opts.Stiffness != nil {
		c.Stiffness = *opts.Stiffness
	}

	switch {
	case c.Length < 0 || !finite(c.Length):
		return nil, fmt.Errorf("%w: length %v", ErrInvalidOptions, c.Length)
	case c.Stiffness < 0 || c.Stiffness > 1 || math.IsNaN(c.Stiffness):
		return nil, fmt.Errorf("%w: stiffness %v must be in [0, 1]", ErrInvalidOptions, c.Stiffness)
	case c.Damping < 0 || c.Damping > 1 || math.IsNaN(c.Damping):
		return nil, fmt.Errorf("%w: damping %v must be in [0, 1]", ErrInvalidOptions, c.Damping)
	case c.AngularStiffness < 0 || c.AngularStiffness > 1 || math.IsNaN(c.AngularStiffness):
		return nil, fmt.Errorf("%w: angular stiffness %v must be in [0, 1]", ErrInvalidOptions, c.AngularStiffness)
	}
	return c, nil
}

// PointAWorld returns anchor A in world space.
func (c *Constraint) PointAWorld() geom.Vector {
	if c.BodyA == nil {
		return c.PointA
	}
	return c.BodyA.position.Add(c.PointA)
}

// PointBWorld returns anchor B in world space.
func (c *Constraint) PointBWorld() geom.Vector {
	if c.BodyB == nil {
		return c.PointB
	}
	return c.BodyB.position.Add(c.PointB)
}

// CurrentLength returns the distance between the world anchors.
func (c *Constraint) CurrentLength() float64 {
	return c.PointAWorld().Sub(c.PointBWorld()).Length()
}

// Composite returns the composite that owns the constraint.
func (c *Constraint) Composite() *Composite { return c.owner }

func (c *Constraint) isFixed() bool {
	return c.BodyA == nil || c.BodyA.isStatic || c.BodyB == nil || c.BodyB.isStatic
}

// PreSolveConstraints re-applies the warmed constraint impulse cached from
// the previous tick.
func PreSolveConstraints(bodies []*Body) {
	for _, b := range bodies {
		if b.isStatic || (geom.IsZero(b.constraintImpulse) && b.constraintAngle == 0) {
			continue
		}
		b.position = b.position.Add(b.constraintImpulse)
		b.angle += b.constraintAngle
	}
}

// SolveConstraints runs one Gauss-Seidel pass. Constraints anchored to the
// world or a static body go first.
func SolveConstraints(constraints []*Constraint, delta float64) {
	timeScale := common.Clamp(delta/common.BaseDelta, 0, 1)
	for _, c := range constraints {
		if c.isFixed() {
			c.solve(timeScale)
		}
	}
	for _, c := range constraints {
		if !c.isFixed() {
			c.solve(timeScale)
		}
	}
}

func (c *Constraint) solve(timeScale float64) {
	bodyA, bodyB := c.BodyA, c.BodyB
	if bodyA == nil && bodyB == nil {
		return
	}
	if bodyA != nil && !bodyA.isStatic {
		c.PointA = geom.Rotate(c.PointA, bodyA.angle-c.angleA)
		c.angleA = bodyA.angle
	}
	if bodyB != nil && !bodyB.isStatic {
		c.PointB = geom.Rotate(c.PointB, bodyB.angle-c.angleB)
		c.angleB = bodyB.angle
	}

	delta := c.PointAWorld().Sub(c.PointBWorld())
	currentLength := delta.Length()
	if currentLength < constraintMinLength {
		currentLength = constraintMinLength
	}

	massTotal, inertiaTotal := 0.0, 0.0
	if bodyA != nil {
		massTotal += bodyA.inverseMass
		inertiaTotal += bodyA.inverseInertia
	}
	if bodyB != nil {
		massTotal += bodyB.inverseMass
		inertiaTotal += bodyB.inverseInertia
	}
	if massTotal == 0 {
		return
	}
	resistanceTotal := massTotal + inertiaTotal

	difference := (currentLength - c.Length) / currentLength
	stiffness := c.Stiffness * timeScale
	if c.Stiffness < 1 && c.Length != 0 {
		stiffness *= timeScale
	}
	damping := c.Damping * timeScale
	force := delta.Mult(difference * stiffness)

	var normal geom.Vector
	normalVelocity := 0.0
	if damping > 0 {
		normal = geom.Div(delta, currentLength)
		var relative geom.Vector
		if bodyB != nil {
			relative = bodyB.position.Sub(bodyB.positionPrev)
		}
		if bodyA != nil {
			relative = relative.Sub(bodyA.position.Sub(bodyA.positionPrev))
		}
		normalVelocity = normal.Dot(relative)
	}

	if bodyA != nil && !bodyA.isStatic {
		share := bodyA.inverseMass / massTotal
		bodyA.constraintImpulse = bodyA.constraintImpulse.Sub(force.Mult(share))
		bodyA.position = bodyA.position.Sub(force.Mult(share))
		if damping > 0 {
			bodyA.positionPrev = bodyA.positionPrev.Sub(normal.Mult(damping * normalVelocity * share))
		}
		torque := c.PointA.Cross(force) / resistanceTotal * constraintTorqueDampen * bodyA.inverseInertia * (1 - c.AngularStiffness)
		bodyA.constraintAngle -= torque
		bodyA.angle -= torque
	}
	if bodyB != nil && !bodyB.isStatic {
		share := bodyB.inverseMass / massTotal
		bodyB.constraintImpulse = bodyB.constraintImpulse.Add(force.Mult(share))
		bodyB.position = bodyB.position.Add(force.Mult(share))
		if damping > 0 {
			bodyB.positionPrev = bodyB.positionPrev.Add(normal.Mult(damping * normalVelocity * share))
		}
		torque := c.PointB.Cross(force) / resistanceTotal * constraintTorqueDampen * bodyB.inverseInertia * (1 - c.AngularStiffness)
		bodyB.constraintAngle += torque
		bodyB.angle += torque
	}
}

// PostSolveConstraints moves vertices to match the solved positions, wakes
// moved bodies and damps the cached impulse for the next tick.
func PostSolveConstraints(bodies []*Body, events *EventQueue) {
	for _, b := range bodies {
		impulse, angle := b.constraintImpulse, b.constraintAngle
		if b.isStatic || (geom.IsZero(impulse) && angle == 0) {
			continue
		}
		SetSleeping(b, false, events)
		for i, part := range b.parts {
			part.vertices.Translate(impulse, 1)
			if i > 0 {
				part.position = part.position.Add(impulse)
			}
			if angle != 0 {
				part.vertices.Rotate(angle, b.position)
				geom.RotateAxes(part.axes, angle)
				if i > 0 {
					part.position = geom.RotateAbout(part.position, angle, b.position)
				}
			}
			part.bounds = geom.SweptBounds(part.vertices, b.velocity)
		}
		b.constraintImpulse = impulse.Mult(constraintWarming)
		b.constraintAngle = angle * constraintWarming
	}
}
