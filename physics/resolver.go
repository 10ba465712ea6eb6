package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/geom"
)

// ResolverOptions holds the tuning constants of the contact solver.
type ResolverOptions struct {
	PositionDampen           float64 `yaml:"position_dampen"`
	PositionWarming          float64 `yaml:"position_warming"`
	RestingThresh            float64 `yaml:"resting_thresh"`
	RestingThreshTangent     float64 `yaml:"resting_thresh_tangent"`
	FrictionNormalMultiplier float64 `yaml:"friction_normal_multiplier"`
	FrictionMaxStatic        float64 `yaml:"friction_max_static"`
}

// DefaultResolverOptions returns the stock solver constants.
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		PositionDampen:           0.9,
		PositionWarming:          0.8,
		RestingThresh:            2,
		RestingThreshTangent:     math.Sqrt(6),
		FrictionNormalMultiplier: 5,
		FrictionMaxStatic:        math.MaxFloat64,
	}
}

// Validate checks value ranges.
func (o ResolverOptions) Validate() error {
	switch {
	case !(o.PositionDampen > 0):
		return fmt.Errorf("%w: position_dampen %v must be positive", ErrInvalidOptions, o.PositionDampen)
	case !(o.PositionWarming >= 0 && o.PositionWarming <= 1):
		return fmt.Errorf("%w: position_warming %v must be in [0, 1]", ErrInvalidOptions, o.PositionWarming)
	case !(o.RestingThresh >= 0) || !(o.RestingThreshTangent >= 0):
		return fmt.Errorf("%w: resting thresholds must be non-negative", ErrInvalidOptions)
	case !(o.FrictionNormalMultiplier >= 0) || !(o.FrictionMaxStatic >= 0):
		return fmt.Errorf("%w: friction limits must be non-negative", ErrInvalidOptions)
	}
	return nil
}

// Resolver is a sequential impulse contact solver with a position pass and
// a velocity pass.
type Resolver struct {
	opts ResolverOptions
}

func NewResolver(opts ResolverOptions) *Resolver {
	return &Resolver{opts: opts}
}

// Options returns the constants in use.
func (r *Resolver) Options() ResolverOptions { return r.opts }

// solvable reports whether a pair should receive impulses.
func solvable(p *Pair) bool {
	return p.IsActive && !p.IsSensor && len(p.ActiveContacts) > 0 && p.InverseMass > 0
}

// PreSolvePosition counts the active contacts on each body so position
// impulses can be shared between them.
func (r *Resolver) PreSolvePosition(pairs []*Pair) {
	for _, p := range pairs {
		if !p.IsActive {
			continue
		}
		n := len(p.ActiveContacts)
		p.BodyA.totalContacts += n
		p.BodyB.totalContacts += n
	}
}

// SolvePosition runs one iteration of positional correction. Separation is
// measured first for every pair, then impulses are accumulated on bodies.
func (r *Resolver) SolvePosition(pairs []*Pair, delta, damping float64) {
	positionDampen := r.opts.PositionDampen * damping
	slopDampen := common.Clamp(delta/common.BaseDelta, 0, 1)

	for _, p := range pairs {
		if !solvable(p) {
			continue
		}
		a, b, n := p.BodyA, p.BodyB, p.Collision.Normal
		p.Separation = p.Collision.Depth + n.Dot(b.positionImpulse.Sub(a.positionImpulse))
	}

	for _, p := range pairs {
		if !solvable(p) {
			continue
		}
		a, b, n := p.BodyA, p.BodyB, p.Collision.Normal
		impulse := p.Separation - p.Slop*slopDampen
		if a.isStatic || b.isStatic {
			impulse *= 2
		}
		if !(a.isStatic || a.isSleeping) && a.totalContacts > 0 {
			share := positionDampen / float64(a.totalContacts)
			a.positionImpulse = a.positionImpulse.Add(n.Mult(impulse * share))
		}
		if !(b.isStatic || b.isSleeping) && b.totalContacts > 0 {
			share := positionDampen / float64(b.totalContacts)
			b.positionImpulse = b.positionImpulse.Sub(n.Mult(impulse * share))
		}
	}
}

// PostSolvePosition moves bodies by their accumulated position impulse. The
// impulse is kept, reduced by the warming factor, unless it opposes the
// body's velocity.
func (r *Resolver) PostSolvePosition(bodies []*Body) {
	for _, body := range bodies {
		body.totalContacts = 0
		impulse := body.positionImpulse
		if geom.IsZero(impulse) {
			continue
		}
		for _, part := range body.parts {
			part.vertices.Translate(impulse, 1)
			part.bounds = geom.SweptBounds(part.vertices, body.velocity)
			part.position = part.position.Add(impulse)
		}
		body.positionPrev = body.positionPrev.Add(impulse)
		if impulse.Dot(body.velocity) < 0 {
			body.positionImpulse = geom.Vector{}
		} else {
			body.positionImpulse = impulse.Mult(r.opts.PositionWarming)
		}
	}
}

// PreSolveVelocity applies the impulses cached on each contact from the
// previous tick.
func (r *Resolver) PreSolveVelocity(pairs []*Pair) {
	for _, p := range pairs {
		if !solvable(p) {
			continue
		}
		a, b := p.BodyA, p.BodyB
		normal, tangent := p.Collision.Normal, p.Collision.Tangent
		for _, contact := range p.ActiveContacts {
			if contact.NormalImpulse == 0 && contact.TangentImpulse == 0 {
				continue
			}
			impulse := normal.Mult(contact.NormalImpulse).Add(tangent.Mult(contact.TangentImpulse))
			point := contact.Point()
			if !(a.isStatic || a.isSleeping) {
				a.positionPrev = a.positionPrev.Add(impulse.Mult(a.inverseMass))
				a.anglePrev += a.inverseInertia * point.Sub(a.position).Cross(impulse)
			}
			if !(b.isStatic || b.isSleeping) {
				b.positionPrev = b.positionPrev.Sub(impulse.Mult(b.inverseMass))
				b.anglePrev -= b.inverseInertia * point.Sub(b.position).Cross(impulse)
			}
		}
	}
}

// SolveVelocity runs one iteration of the velocity solve. Resting contacts
// accumulate clamped impulses, normal impulses never pull bodies together
// and friction is bounded by the normal force. Fast contacts drop their
// cached impulse instead.
func (r *Resolver) SolveVelocity(pairs []*Pair, delta float64) {
	timeScale := delta / common.BaseDelta
	timeScaleCubed := timeScale * timeScale * timeScale
	restingThresh := -r.opts.RestingThresh * timeScale
	restingThreshTangent := r.opts.RestingThreshTangent
	frictionNormalMultiplier := r.opts.FrictionNormalMultiplier * timeScale

	for _, p := range pairs {
		if !solvable(p) {
			continue
		}
		a, b := p.BodyA, p.BodyB
		normal, tangent := p.Collision.Normal, p.Collision.Tangent
		friction := p.Friction * p.FrictionStatic * frictionNormalMultiplier
		contactShare := 1 / float64(len(p.ActiveContacts))

		velocityA := a.position.Sub(a.positionPrev)
		velocityB := b.position.Sub(b.positionPrev)
		angularA := a.angle - a.anglePrev
		angularB := b.angle - b.anglePrev

		for _, contact := range p.ActiveContacts {
			point := contact.Point()
			offsetA := point.Sub(a.position)
			offsetB := point.Sub(b.position)

			pointVelocityA := velocityA.Add(offsetA.Perp().Mult(angularA))
			pointVelocityB := velocityB.Add(offsetB.Perp().Mult(angularB))
			relative := pointVelocityA.Sub(pointVelocityB)
			normalVelocity := normal.Dot(relative)
			tangentVelocity := tangent.Dot(relative)

			normalOverlap := p.Separation + normalVelocity
			normalForce := math.Min(normalOverlap, 1)
			if normalOverlap < 0 {
				normalForce = 0
			}
			frictionLimit := normalForce * friction

			var tangentImpulse, maxFriction float64
			if tangentVelocity < -frictionLimit || tangentVelocity > frictionLimit {
				maxFriction = math.Abs(tangentVelocity)
				tangentImpulse = common.Clamp(p.Friction*common.Sign(tangentVelocity)*timeScaleCubed, -maxFriction, maxFriction)
			} else {
				tangentImpulse = tangentVelocity
				maxFriction = r.opts.FrictionMaxStatic
			}

			oAcN := offsetA.Cross(normal)
			oBcN := offsetB.Cross(normal)
			denominator := p.InverseMass + a.inverseInertia*oAcN*oAcN + b.inverseInertia*oBcN*oBcN
			share := contactShare / denominator

			normalImpulse := (1 + p.Restitution) * normalVelocity * share
			tangentImpulse *= share

			if normalVelocity < restingThresh {
				contact.NormalImpulse = 0
			} else {
				prev := contact.NormalImpulse
				contact.NormalImpulse = math.Min(contact.NormalImpulse+normalImpulse, 0)
				normalImpulse = contact.NormalImpulse - prev
			}

			if tangentVelocity < -restingThreshTangent || tangentVelocity > restingThreshTangent {
				contact.TangentImpulse = 0
			} else {
				prev := contact.TangentImpulse
				contact.TangentImpulse = common.Clamp(contact.TangentImpulse+tangentImpulse, -maxFriction, maxFriction)
				tangentImpulse = contact.TangentImpulse - prev
			}

			impulse := normal.Mult(normalImpulse).Add(tangent.Mult(tangentImpulse))
			if !(a.isStatic || a.isSleeping) {
				a.positionPrev = a.positionPrev.Add(impulse.Mult(a.inverseMass))
				a.anglePrev += offsetA.Cross(impulse) * a.inverseInertia
			}
			if !(b.isStatic || b.isSleeping) {
				b.positionPrev = b.positionPrev.Sub(impulse.Mult(b.inverseMass))
				b.anglePrev -= offsetB.Cross(impulse) * b.inverseInertia
			}
		}
	}
}
