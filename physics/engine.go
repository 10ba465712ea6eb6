package physics

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/milk9111/impulse/common"
)

// Gravity is applied to every dynamic body as mass * (X, Y) * Scale.
type Gravity struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	PositionIterations   int             `yaml:"position_iterations"`
	VelocityIterations   int             `yaml:"velocity_iterations"`
	ConstraintIterations int             `yaml:"constraint_iterations"`
	EnableSleeping       bool            `yaml:"enable_sleeping"`
	Gravity              Gravity         `yaml:"gravity"`
	TimeScale            float64         `yaml:"time_scale"`
	DeltaMax             float64         `yaml:"delta_max"`
	Resolver             ResolverOptions `yaml:"resolver"`
	Sleeping             SleepingOptions `yaml:"sleeping"`
}

// DefaultEngineOptions returns the stock engine settings.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		PositionIterations:   6,
		VelocityIterations:   4,
		ConstraintIterations: 2,
		Gravity:              Gravity{X: 0, Y: 1, Scale: 0.001},
		TimeScale:            1,
		DeltaMax:             1000.0 / 60.0,
		Resolver:             DefaultResolverOptions(),
		Sleeping:             DefaultSleepingOptions(),
	}
}

// Validate checks value ranges.
func (o EngineOptions) Validate() error {
	switch {
	case o.PositionIterations < 1 || o.VelocityIterations < 1 || o.ConstraintIterations < 1:
		return fmt.Errorf("%w: iteration counts must be at least 1", ErrInvalidOptions)
	case !finite(o.Gravity.X) || !finite(o.Gravity.Y) || !finite(o.Gravity.Scale):
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidOptions)
	case !(o.TimeScale >= 0) || math.IsInf(o.TimeScale, 1):
		return fmt.Errorf("%w: time_scale %v", ErrInvalidOptions, o.TimeScale)
	case !(o.DeltaMax > 0):
		return fmt.Errorf("%w: delta_max %v must be positive", ErrInvalidOptions, o.DeltaMax)
	}
	if err := o.Resolver.Validate(); err != nil {
		return err
	}
	return o.Sleeping.Validate()
}

// Stage is an optional step run each tick after gravity and before
// integration, typically to add forces.
type Stage interface {
	Name() string
	Apply(e *Engine, bodies []*Body, delta float64)
}

// Timing reports the engine clock.
type Timing struct {
	Timestamp   float64
	TimeScale   float64
	LastDelta   float64
	LastElapsed time.Duration
}

// Engine owns the world composite and advances it one tick at a time.
type Engine struct {
	opts     EngineOptions
	world    *Composite
	detector *Detector
	pairs    *Pairs
	resolver *Resolver
	sleeping *Sleeping
	stages   []Stage
	events   EventQueue
	timing   Timing

	known       map[*Body]struct{}
	warnedDelta bool
}

// NewEngine validates opts and creates an engine with an empty world.
func NewEngine(opts EngineOptions, stages ...Stage) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i, s := range stages {
		if s == nil {
			return nil, fmt.Errorf("%w: stage %d is nil", ErrInvalidOptions, i)
		}
	}
	return &Engine{
		opts:     opts,
		world:    NewComposite("World"),
		detector: NewDetector(),
		pairs:    NewPairs(),
		resolver: NewResolver(opts.Resolver),
		sleeping: NewSleeping(opts.Sleeping),
		stages:   stages,
		timing:   Timing{TimeScale: opts.TimeScale},
		known:    make(map[*Body]struct{}),
	}, nil
}

func (e *Engine) World() *Composite { return e.world }
func (e *Engine) Pairs() *Pairs { return e.pairs }
func (e *Engine) Detector() *Detector { return e.detector }
func (e *Engine) Timing() Timing { return e.timing }
func (e *Engine) Options() EngineOptions { return e.opts }
func (e *Engine) Stages() []Stage { return e.stages }

// SetGravity replaces the gravity vector and scale.
func (e *Engine) SetGravity(g Gravity) {
	e.opts.Gravity = g
}

// SetTimeScale changes the engine time scale. Zero pauses integration.
func (e *Engine) SetTimeScale(scale float64) {
	if scale >= 0 {
		e.timing.TimeScale = scale
	}
}

// SetSleepingEnabled turns sleeping on or off.
func (e *Engine) SetSleepingEnabled(enabled bool) {
	e.opts.EnableSleeping = enabled
}

// AddStage appends a stage to the tick.
func (e *Engine) AddStage(s Stage) {
	if s != nil {
		e.stages = append(e.stages, s)
	}
}

// Update advances the simulation by delta milliseconds and returns the
// events raised during the tick in emission order. A delta above DeltaMax
// logs a warning once and is simulated anyway.
func (e *Engine) Update(delta float64) []Event {
	start := time.Now()
	if math.IsNaN(delta) || delta < 0 {
		delta = 0
	}
	if delta > e.opts.DeltaMax && !e.warnedDelta {
		e.warnedDelta = true
		log.Printf("Engine: delta %.3fms exceeds recommended maximum %.3fms", delta, e.opts.DeltaMax)
	}
	delta *= e.timing.TimeScale
	e.timing.Timestamp += delta
	e.timing.LastDelta = delta
	e.events.timestamp = e.timing.Timestamp
	e.events.delta = delta

	e.events.emit(EventBeforeUpdate, nil, nil)

	world := e.world
	var ended []*Pair
	if world.state == ModDirty {
		ended = e.rebuild()
	}
	bodies := world.AllBodies()
	constraints := world.AllConstraints()

	if e.opts.EnableSleeping {
		e.sleeping.Update(bodies, delta, &e.events)
	}
	e.applyGravity(bodies)
	for _, s := range e.stages {
		s.Apply(e, bodies, delta)
	}
	if delta > 0 {
		for _, b := range bodies {
			if b.isStatic || b.isSleeping {
				continue
			}
			b.Update(delta)
		}
	}

	e.solveConstraints(bodies, constraints, delta)

	collisions := e.detector.Collisions()
	e.pairs.Update(collisions, e.timing.Timestamp)
	pairs := e.pairs.List()

	if e.opts.EnableSleeping {
		e.sleeping.AfterCollisions(pairs, &e.events)
	}
	if len(e.pairs.Start) > 0 {
		e.events.emit(EventCollisionStart, e.pairs.Start, nil)
	}

	positionDamping := common.Clamp(20/float64(e.opts.PositionIterations), 0, 1)
	e.resolver.PreSolvePosition(pairs)
	for i := 0; i < e.opts.PositionIterations; i++ {
		e.resolver.SolvePosition(pairs, delta, positionDamping)
	}
	e.resolver.PostSolvePosition(bodies)

	e.solveConstraints(bodies, constraints, delta)

	e.resolver.PreSolveVelocity(pairs)
	for i := 0; i < e.opts.VelocityIterations; i++ {
		e.resolver.SolveVelocity(pairs, delta)
	}
	if delta > 0 {
		for _, b := range bodies {
			b.UpdateVelocities()
		}
	}

	if len(e.pairs.Active) > 0 {
		e.events.emit(EventCollisionActive, e.pairs.Active, nil)
	}
	if len(ended) > 0 || len(e.pairs.End) > 0 {
		e.events.emit(EventCollisionEnd, append(ended, e.pairs.End...), nil)
	}

	for _, b := range bodies {
		b.ClearForces()
	}
	if world.state == ModRebuilt {
		world.setState(ModClean)
	}

	e.events.emit(EventAfterUpdate, nil, nil)
	e.timing.LastElapsed = time.Since(start)
	return e.events.Drain()
}

// rebuild refreshes the detector after a structural change and drops pairs
// of bodies that left the world. It returns the pairs that were active.
func (e *Engine) rebuild() []*Pair {
	bodies := e.world.AllBodies()
	e.detector.SetBodies(bodies)

	current := make(map[*Body]struct{}, len(bodies))
	for _, b := range bodies {
		current[b] = struct{}{}
	}
	removed := make(map[*Body]struct{})
	for b := range e.known {
		if _, ok := current[b]; !ok {
			removed[b] = struct{}{}
		}
	}
	e.known = current
	e.world.setState(ModRebuilt)
	return e.pairs.RemoveBodies(removed)
}

func (e *Engine) applyGravity(bodies []*Body) {
	g := e.opts.Gravity
	if (g.X == 0 && g.Y == 0) || g.Scale == 0 {
		return
	}
	for _, b := range bodies {
		if b.isStatic || b.isSleeping {
			continue
		}
		b.force.X += b.mass * g.X * g.Scale
		b.force.Y += b.mass * g.Y * g.Scale
	}
}

func (e *Engine) solveConstraints(bodies []*Body, constraints []*Constraint, delta float64) {
	PreSolveConstraints(bodies)
	for i := 0; i < e.opts.ConstraintIterations; i++ {
		SolveConstraints(constraints, delta)
	}
	PostSolveConstraints(bodies, &e.events)
}

// Clear empties the world and forgets every pair.
func (e *Engine) Clear() {
	e.world.Clear(false, true)
	e.pairs.Clear()
	e.detector.Clear()
	e.known = make(map[*Body]struct{})
}
