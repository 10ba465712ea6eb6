// Package plugins provides optional engine stages.
package plugins

import (
	"fmt"

	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
)

// AttractorOptions configures the Attractors stage. Bodies whose label is
// listed attract every other body.
type AttractorOptions struct {
	GravityConstant float64  `yaml:"gravity_constant"`
	Labels          []string `yaml:"labels"`
	// MinDistance bounds the distance used in the inverse square law.
	MinDistance float64 `yaml:"min_distance"`
}

// DefaultAttractorOptions returns the stock constant.
func DefaultAttractorOptions() AttractorOptions {
	return AttractorOptions{GravityConstant: 0.001, MinDistance: 0.01}
}

// Attractors pulls bodies towards attractor bodies with a force of
// G * mA * mB / r² along the line of centres.
type Attractors struct {
	opts   AttractorOptions
	labels map[string]struct{}
	ids    map[int]struct{}
}

// NewAttractors validates opts and builds the stage.
func NewAttractors(opts AttractorOptions) (*Attractors, error) {
	if !(opts.MinDistance >= 0) {
		return nil, fmt.Errorf("%w: attractor min_distance %v", physics.ErrInvalidOptions, opts.MinDistance)
	}
	a := &Attractors{
		opts:   opts,
		labels: make(map[string]struct{}, len(opts.Labels)),
		ids:    make(map[int]struct{}),
	}
	for _, l := range opts.Labels {
		a.labels[l] = struct{}{}
	}
	return a, nil
}

// Attract marks bodies as attractors regardless of label.
func (a *Attractors) Attract(bodies ...*physics.Body) {
	for _, b := range bodies {
		a.ids[b.ID] = struct{}{}
	}
}

func (a *Attractors) isAttractor(b *physics.Body) bool {
	if _, ok := a.ids[b.ID]; ok {
		return true
	}
	_, ok := a.labels[b.Label]
	return ok
}

func (a *Attractors) Name() string { return "attractors" }

func (a *Attractors) Apply(_ *physics.Engine, bodies []*physics.Body, _ float64) {
	minDistSq := a.opts.MinDistance * a.opts.MinDistance
	for _, attractor := range bodies {
		if !a.isAttractor(attractor) {
			continue
		}
		for _, other := range bodies {
			if other == attractor {
				continue
			}
			bToA := other.Position().Sub(attractor.Position())
			distSq := bToA.LengthSq()
			if distSq < minDistSq {
				distSq = minDistSq
			}
			if distSq == 0 {
				continue
			}
			mA, mB := finiteMass(attractor), finiteMass(other)
			magnitude := -a.opts.GravityConstant * (mA * mB / distSq)
			force := geom.Normalise(bToA).Mult(magnitude)
			if !attractor.IsStatic() {
				attractor.ApplyForce(attractor.Position(), force.Neg())
			}
			if !other.IsStatic() {
				other.ApplyForce(other.Position(), force)
			}
		}
	}
}

// finiteMass weighs a static body by its area at the default density.
func finiteMass(b *physics.Body) float64 {
	if b.IsStatic() {
		return b.Area() * physics.DefaultBodyOptions().Density
	}
	return b.Mass()
}
