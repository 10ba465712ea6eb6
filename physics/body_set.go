package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/geom"
)

// SetStatic toggles the static flag on the body and all of its parts. A
// static body has infinite mass and inertia, zero inverse mass and inertia,
// zero velocity and never sleeps. Unsetting restores the previous values.
func (b *Body) SetStatic(isStatic bool) {
	for _, part := range b.parts {
		if isStatic {
			if !part.isStatic {
				part.original = &staticMemo{
					restitution:    part.Restitution,
					friction:       part.Friction,
					mass:           part.mass,
					inertia:        part.inertia,
					density:        part.density,
					inverseMass:    part.inverseMass,
					inverseInertia: part.inverseInertia,
				}
			}
			part.Restitution = 0
			part.Friction = 1
			part.mass, part.inertia, part.density = math.Inf(1), math.Inf(1), math.Inf(1)
			part.inverseMass, part.inverseInertia = 0, 0
			part.positionPrev = part.position
			part.anglePrev = part.angle
			part.velocity = geom.Vector{}
			part.angularVelocity = 0
			part.speed, part.angularSpeed, part.motion = 0, 0, 0
			part.isSleeping = false
			part.sleepCounter = 0
		} else if memo := part.original; memo != nil {
			part.Restitution = memo.restitution
			part.Friction = memo.friction
			part.mass, part.inertia, part.density = memo.mass, memo.inertia, memo.density
			part.inverseMass, part.inverseInertia = memo.inverseMass, memo.inverseInertia
			part.original = nil
		}
		part.isStatic = isStatic
	}
}

// SetMass sets the mass and scales inertia by the same ratio. Density
// follows from the area. On a static body the stored values are updated and
// take effect when the body is made dynamic again.
func (b *Body) SetMass(mass float64) error {
	if !(mass > 0) || math.IsInf(mass, 1) {
		return fmt.Errorf("%w: mass %v", ErrInvalidValue, mass)
	}
	if memo := b.original; b.isStatic && memo != nil {
		memo.inertia *= mass / memo.mass
		memo.inverseInertia = 1 / memo.inertia
		memo.mass, memo.inverseMass = mass, 1/mass
		memo.density = mass / b.area
		return nil
	}
	if b.mass > 0 && !math.IsInf(b.mass, 1) {
		b.inertia *= mass / b.mass
		b.inverseInertia = 1 / b.inertia
	}
	b.mass = mass
	b.inverseMass = 1 / mass
	b.density = mass / b.area
	return nil
}

// SetDensity sets the density and the mass it implies.
func (b *Body) SetDensity(density float64) error {
	if err := b.SetMass(density * b.area); err != nil {
		return err
	}
	if b.original != nil {
		b.original.density = density
	} else {
		b.density = density
	}
	return nil
}

// SetInertia sets the moment of inertia. Infinity stops all rotation.
func (b *Body) SetInertia(inertia float64) error {
	if !(inertia > 0) {
		return fmt.Errorf("%w: inertia %v", ErrInvalidValue, inertia)
	}
	if memo := b.original; b.isStatic && memo != nil {
		memo.inertia, memo.inverseInertia = inertia, 1/inertia
		return nil
	}
	b.inertia = inertia
	b.inverseInertia = 1 / inertia
	return nil
}

// SetPosition moves the body and its parts. With updateVelocity the move is
// treated as this tick's displacement; otherwise the previous position is
// moved along so no velocity is implied.
func (b *Body) SetPosition(position geom.Vector, updateVelocity bool) {
	delta := position.Sub(b.position)
	if updateVelocity {
		b.positionPrev = b.position
		b.velocity = delta
		b.speed = delta.Length()
	} else {
		b.positionPrev = b.positionPrev.Add(delta)
	}
	for _, part := range b.parts {
		part.position = part.position.Add(delta)
		part.vertices.Translate(delta, 1)
		part.bounds = geom.SweptBounds(part.vertices, b.velocity)
	}
}

// SetAngle rotates the body and its parts about the body position.
func (b *Body) SetAngle(angle float64, updateVelocity bool) {
	delta := angle - b.angle
	if updateVelocity {
		b.anglePrev = b.angle
		b.angularVelocity = delta
		b.angularSpeed = math.Abs(delta)
	} else {
		b.anglePrev += delta
	}
	for i, part := range b.parts {
		part.angle += delta
		part.vertices.Rotate(delta, b.position)
		geom.RotateAxes(part.axes, delta)
		part.bounds = geom.SweptBounds(part.vertices, b.velocity)
		if i > 0 {
			part.position = geom.RotateAbout(part.position, delta, b.position)
		}
	}
}

// SetVelocity sets the linear velocity, expressed per base tick.
func (b *Body) SetVelocity(velocity geom.Vector) {
	timeScale := b.deltaTime / common.BaseDelta
	b.positionPrev = b.position.Sub(velocity.Mult(timeScale))
	b.velocity = velocity
	b.speed = velocity.Length()
	for _, part := range b.parts {
		part.bounds = geom.SweptBounds(part.vertices, b.velocity)
	}
}

// SetAngularVelocity sets the angular velocity, expressed per base tick.
func (b *Body) SetAngularVelocity(velocity float64) {
	timeScale := b.deltaTime / common.BaseDelta
	b.anglePrev = b.angle - velocity*timeScale
	b.angularVelocity = velocity
	b.angularSpeed = math.Abs(velocity)
}

// SetSpeed keeps the direction of travel and changes its magnitude.
func (b *Body) SetSpeed(speed float64) {
	b.SetVelocity(geom.Normalise(b.velocity).Mult(speed))
}

// SetAngularSpeed keeps the direction of spin and changes its magnitude.
func (b *Body) SetAngularSpeed(speed float64) {
	b.SetAngularVelocity(common.Sign(b.angularVelocity) * speed)
}

func (b *Body) Translate(translation geom.Vector, updateVelocity bool) {
	b.SetPosition(b.position.Add(translation), updateVelocity)
}

// Rotate turns the body by rotation, about point when one is given.
func (b *Body) Rotate(rotation float64, point *geom.Vector, updateVelocity bool) {
	if point == nil {
		b.SetAngle(b.angle+rotation, updateVelocity)
		return
	}
	b.SetPosition(geom.RotateAbout(b.position, rotation, *point), updateVelocity)
	b.SetAngle(b.angle+rotation, updateVelocity)
}

// Scale resizes the body about point, or about its position when point is
// nil. Area, mass and inertia are recomputed from the density. Both factors
// must be positive.
func (b *Body) Scale(scaleX, scaleY float64, point *geom.Vector) error {
	if !(scaleX > 0) || !(scaleY > 0) || math.IsInf(scaleX, 1) || math.IsInf(scaleY, 1) {
		return fmt.Errorf("%w: scale %v x %v", ErrInvalidValue, scaleX, scaleY)
	}
	origin := b.position
	if point != nil {
		origin = *point
	}
	density := b.density
	if b.original != nil {
		density = b.original.density
	}

	totalArea, totalInertia := 0.0, 0.0
	for i, part := range b.parts {
		part.vertices.Scale(scaleX, scaleY, origin)
		part.axes = geom.AxesOf(part.vertices)
		part.area = part.vertices.Area(false)
		part.position = geom.Vector{
			X: origin.X + (part.position.X-origin.X)*scaleX,
			Y: origin.Y + (part.position.Y-origin.Y)*scaleY,
		}
		if !part.isStatic || part.original != nil {
			mass := density * part.area
			part.vertices.Translate(part.position, -1)
			inertia := inertiaScale * part.vertices.Inertia(mass)
			part.vertices.Translate(part.position, 1)
			if part.isStatic {
				part.original.mass, part.original.inverseMass = mass, 1/mass
				part.original.inertia, part.original.inverseInertia = inertia, 1/inertia
			} else {
				part.mass, part.inverseMass = mass, 1/mass
				part.inertia, part.inverseInertia = inertia, 1/inertia
			}
			if i > 0 {
				totalInertia += inertia
			}
		}
		if i > 0 {
			totalArea += part.area
		}
		part.bounds = geom.SweptBounds(part.vertices, b.velocity)
	}

	if len(b.parts) > 1 {
		b.area = totalArea
		mass := density * totalArea
		if b.isStatic && b.original != nil {
			b.original.mass, b.original.inverseMass = mass, 1/mass
			b.original.inertia, b.original.inverseInertia = totalInertia, 1/totalInertia
		} else if !b.isStatic {
			b.mass, b.inverseMass = mass, 1/mass
			b.inertia, b.inverseInertia = totalInertia, 1/totalInertia
		}
	}

	if b.CircleRadius > 0 {
		if scaleX == scaleY {
			b.CircleRadius *= scaleX
		} else {
			b.CircleRadius = 0
		}
	}
	return nil
}

// ApplyForce adds a force at a world point for the next tick. An off-centre
// point also adds torque.
func (b *Body) ApplyForce(position, force geom.Vector) {
	offset := position.Sub(b.position)
	b.force = b.force.Add(force)
	b.torque += offset.Cross(force)
}

// ClearForces resets the accumulated force and torque.
func (b *Body) ClearForces() {
	b.force = geom.Vector{}
	b.torque = 0
}

// SetSensor marks the body and its parts as sensors. Sensor pairs report
// collision events but receive no impulses.
func (b *Body) SetSensor(isSensor bool) {
	for _, part := range b.parts {
		part.IsSensor = isSensor
	}
}

func (b *Body) SetCollisionFilter(filter CollisionFilter) {
	for _, part := range b.parts {
		part.CollisionFilter = filter
	}
}

func (b *Body) SetCollisionCategory(category uint32) {
	f := b.CollisionFilter
	f.Category = category
	b.SetCollisionFilter(f)
}

func (b *Body) SetCollisionMask(mask uint32) {
	f := b.CollisionFilter
	f.Mask = mask
	b.SetCollisionFilter(f)
}

func (b *Body) SetCollisionGroup(group int) {
	f := b.CollisionFilter
	f.Group = group
	b.SetCollisionFilter(f)
}
