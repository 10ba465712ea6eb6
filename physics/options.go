package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/geom"
)

// CollisionFilter decides which bodies may collide. Bodies sharing a non-zero
// group always collide when the group is positive and never when it is
// negative. Otherwise both category/mask tests must pass.
type CollisionFilter struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
	Group    int    `yaml:"group"`
}

// DefaultCollisionFilter collides with everything.
func DefaultCollisionFilter() CollisionFilter {
	return CollisionFilter{Category: 0x0001, Mask: 0xFFFFFFFF}
}

// CanCollide reports whether two filters allow a collision.
func CanCollide(a, b CollisionFilter) bool {
	if a.Group == b.Group && a.Group != 0 {
		return a.Group > 0
	}
	return a.Mask&b.Category != 0 && b.Mask&a.Category != 0
}

// BodyOptions configures a new body. Decoding YAML on top of
// DefaultBodyOptions keeps defaults for missing keys.
type BodyOptions struct {
	Label           string          `yaml:"label"`
	Position        geom.Vector     `yaml:"position"`
	Angle           float64         `yaml:"angle"`
	IsStatic        bool            `yaml:"static"`
	IsSensor        bool            `yaml:"sensor"`
	IsSleeping      bool            `yaml:"sleeping"`
	Density         float64         `yaml:"density"`
	Mass            float64         `yaml:"mass"`
	Inertia         float64         `yaml:"inertia"`
	Restitution     float64         `yaml:"restitution"`
	Friction        float64         `yaml:"friction"`
	FrictionStatic  float64         `yaml:"friction_static"`
	FrictionAir     float64         `yaml:"friction_air"`
	Slop            float64         `yaml:"slop"`
	SleepThreshold  int             `yaml:"sleep_threshold"`
	TimeScale       float64         `yaml:"time_scale"`
	CollisionFilter CollisionFilter `yaml:"collision_filter"`
}

// DefaultBodyOptions returns the stock material and mass settings.
func DefaultBodyOptions() BodyOptions {
	return BodyOptions{
		Label:           "Body",
		Density:         0.001,
		Friction:        0.1,
		FrictionStatic:  0.5,
		FrictionAir:     0.01,
		Slop:            0.05,
		SleepThreshold:  60,
		TimeScale:       1,
		CollisionFilter: DefaultCollisionFilter(),
	}
}

// Validate checks value ranges.
func (o BodyOptions) Validate() error {
	switch {
	case !finite(o.Position.X) || !finite(o.Position.Y) || !finite(o.Angle):
		return fmt.Errorf("%w: pose must be finite", ErrInvalidOptions)
	case !(o.Density > 0) && !(o.Mass > 0):
		return fmt.Errorf("%w: density %v must be positive", ErrInvalidOptions, o.Density)
	case o.Mass < 0 || math.IsNaN(o.Mass):
		return fmt.Errorf("%w: mass %v", ErrInvalidOptions, o.Mass)
	case o.Inertia < 0 || math.IsNaN(o.Inertia):
		return fmt.Errorf("%w: inertia %v", ErrInvalidOptions, o.Inertia)
	case o.Restitution < 0 || math.IsNaN(o.Restitution):
		return fmt.Errorf("%w: restitution %v", ErrInvalidOptions, o.Restitution)
	case o.Friction < 0 || o.FrictionStatic < 0 || math.IsNaN(o.Friction) || math.IsNaN(o.FrictionStatic):
		return fmt.Errorf("%w: friction %v/%v", ErrInvalidOptions, o.Friction, o.FrictionStatic)
	case o.FrictionAir < 0 || o.FrictionAir > 1 || math.IsNaN(o.FrictionAir):
		return fmt.Errorf("%w: friction_air %v must be in [0, 1]", ErrInvalidOptions, o.FrictionAir)
	case o.Slop < 0 || math.IsNaN(o.Slop):
		return fmt.Errorf("%w: slop %v", ErrInvalidOptions, o.Slop)
	case o.SleepThreshold < 0:
		return fmt.Errorf("%w: sleep_threshold %d", ErrInvalidOptions, o.SleepThreshold)
	case !(o.TimeScale > 0) || math.IsInf(o.TimeScale, 0):
		return fmt.Errorf("%w: time_scale %v must be positive", ErrInvalidOptions, o.TimeScale)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
