package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/geom"
)

// SleepingOptions holds the motion thresholds used to put bodies to sleep.
type SleepingOptions struct {
	MotionWakeThreshold  float64 `yaml:"motion_wake_threshold"`
	MotionSleepThreshold float64 `yaml:"motion_sleep_threshold"`
	MinBias              float64 `yaml:"min_bias"`
}

// DefaultSleepingOptions returns the stock thresholds.
func DefaultSleepingOptions() SleepingOptions {
	return SleepingOptions{
		MotionWakeThreshold:  0.18,
		MotionSleepThreshold: 0.08,
		MinBias:              0.9,
	}
}

// Validate checks value ranges.
func (o SleepingOptions) Validate() error {
	if !(o.MotionSleepThreshold >= 0) || !(o.MotionWakeThreshold >= 0) {
		return fmt.Errorf("%w: sleeping thresholds must be non-negative", ErrInvalidOptions)
	}
	if !(o.MinBias >= 0 && o.MinBias <= 1) {
		return fmt.Errorf("%w: min_bias %v must be in [0, 1]", ErrInvalidOptions, o.MinBias)
	}
	return nil
}

// Sleeping puts resting bodies to sleep and wakes them when disturbed.
type Sleeping struct {
	opts SleepingOptions
}

func NewSleeping(opts SleepingOptions) *Sleeping {
	return &Sleeping{opts: opts}
}

// Options returns the thresholds in use.
func (s *Sleeping) Options() SleepingOptions { return s.opts }

// Update tracks a biased average of each body's motion. A body under a
// force wakes. A body that stays below the sleep threshold for
// SleepThreshold ticks, adjusted for delta, falls asleep.
func (s *Sleeping) Update(bodies []*Body, delta float64, events *EventQueue) {
	timeScale := delta / common.BaseDelta
	for _, b := range bodies {
		if b.isStatic {
			continue
		}
		if !geom.IsZero(b.force) {
			SetSleeping(b, false, events)
			continue
		}
		motion := b.speed*b.speed + b.angularSpeed*b.angularSpeed
		minMotion := math.Min(b.motion, motion)
		maxMotion := math.Max(b.motion, motion)
		b.motion = s.opts.MinBias*minMotion + (1-s.opts.MinBias)*maxMotion

		if b.SleepThreshold > 0 && b.motion < s.opts.MotionSleepThreshold {
			b.sleepCounter++
			if float64(b.sleepCounter) >= float64(b.SleepThreshold)/timeScale {
				SetSleeping(b, true, events)
			}
		} else if b.sleepCounter > 0 {
			b.sleepCounter--
		}
	}
}

// AfterCollisions wakes a sleeping body touched by a body moving faster than
// the wake threshold.
func (s *Sleeping) AfterCollisions(pairs []*Pair, events *EventQueue) {
	for _, pair := range pairs {
		if !pair.IsActive {
			continue
		}
		bodyA, bodyB := pair.BodyA, pair.BodyB
		if (bodyA.isSleeping && bodyB.isSleeping) || bodyA.isStatic || bodyB.isStatic {
			continue
		}
		if !bodyA.isSleeping && !bodyB.isSleeping {
			continue
		}
		sleeper, mover := bodyA, bodyB
		if !bodyA.isSleeping {
			sleeper, mover = bodyB, bodyA
		}
		if mover.motion > s.opts.MotionWakeThreshold {
			SetSleeping(sleeper, false, events)
		}
	}
}

// SetSleeping changes the sleep state of a body. Falling asleep clears the
// body's motion and pending position impulse. A sleepStart or sleepEnd event
// is queued once per transition.
func SetSleeping(b *Body, sleeping bool, events *EventQueue) {
	if !b.setSleeping(sleeping) {
		return
	}
	if sleeping {
		events.emit(EventSleepStart, nil, b)
	} else {
		events.emit(EventSleepEnd, nil, b)
	}
}

// setSleeping applies the state and reports whether it changed.
func (b *Body) setSleeping(sleeping bool) bool {
	was := b.isSleeping
	if sleeping {
		if b.isStatic {
			return false
		}
		b.isSleeping = true
		b.sleepCounter = b.SleepThreshold
		b.positionImpulse = geom.Vector{}
		b.positionPrev = b.position
		b.anglePrev = b.angle
		b.velocity = geom.Vector{}
		b.angularVelocity = 0
		b.speed, b.angularSpeed, b.motion = 0, 0, 0
		return !was
	}
	b.isSleeping = false
	b.sleepCounter = 0
	return was
}
