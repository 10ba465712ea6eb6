package physics

import (
	"math"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/geom"
)

// Update integrates the body by delta milliseconds using position Verlet.
// Air friction and the previous-step displacement are corrected for a
// change in delta between ticks.
func (b *Body) Update(delta float64) {
	dt := delta * b.TimeScale
	dtSquared := dt * dt
	correction := 1.0
	if b.deltaTime > 0 {
		correction = dt / b.deltaTime
	}
	frictionAir := 1 - b.FrictionAir*(dt/common.BaseDelta)

	velocityPrev := b.position.Sub(b.positionPrev).Mult(correction)
	b.velocity = velocityPrev.Mult(frictionAir).Add(geom.Div(b.force, b.mass).Mult(dtSquared))
	b.positionPrev = b.position
	b.position = b.position.Add(b.velocity)

	b.angularVelocity = (b.angle-b.anglePrev)*frictionAir*correction + b.torque/b.inertia*dtSquared
	b.anglePrev = b.angle
	b.angle += b.angularVelocity

	b.deltaTime = dt
	b.speed = b.velocity.Length()
	b.angularSpeed = math.Abs(b.angularVelocity)

	for i, part := range b.parts {
		part.vertices.Translate(b.velocity, 1)
		if i > 0 {
			part.position = part.position.Add(b.velocity)
		}
		if b.angularVelocity != 0 {
			part.vertices.Rotate(b.angularVelocity, b.position)
			geom.RotateAxes(part.axes, b.angularVelocity)
			if i > 0 {
				part.position = geom.RotateAbout(part.position, b.angularVelocity, b.position)
			}
		}
		part.bounds = geom.SweptBounds(part.vertices, b.velocity)
	}
}

// UpdateVelocities derives velocity from the last displacement, normalised
// to the base tick length.
func (b *Body) UpdateVelocities() {
	timeScale := common.BaseDelta / b.deltaTime
	b.velocity = b.position.Sub(b.positionPrev).Mult(timeScale)
	b.speed = b.velocity.Length()
	b.angularVelocity = (b.angle - b.anglePrev) * timeScale
	b.angularSpeed = math.Abs(b.angularVelocity)
}
