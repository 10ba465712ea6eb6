package prefabs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/milk9111/impulse/physics"
	"gopkg.in/yaml.v3"
)

// BodyState is the pose and motion of one body at a point in time.
type BodyState struct {
	ID              int     `yaml:"id"`
	Label           string  `yaml:"label"`
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	Angle           float64 `yaml:"angle"`
	VX              float64 `yaml:"vx"`
	VY              float64 `yaml:"vy"`
	AngularVelocity float64 `yaml:"angular_velocity"`
	Static          bool    `yaml:"static,omitempty"`
	Sleeping        bool    `yaml:"sleeping,omitempty"`
}

// Snapshot records every body of an engine's world.
type Snapshot struct {
	Scene     string      `yaml:"scene"`
	Timestamp float64     `yaml:"timestamp"`
	Bodies    []BodyState `yaml:"bodies"`
}

// TakeSnapshot captures the world of e in body order.
func TakeSnapshot(scene string, e *physics.Engine) Snapshot {
	bodies := e.World().AllBodies()
	s := Snapshot{
		Scene:     scene,
		Timestamp: e.Timing().Timestamp,
		Bodies:    make([]BodyState, 0, len(bodies)),
	}
	for _, b := range bodies {
		pos, vel := b.Position(), b.Velocity()
		s.Bodies = append(s.Bodies, BodyState{
			ID:              b.ID,
			Label:           b.Label,
			X:               pos.X,
			Y:               pos.Y,
			Angle:           b.Angle(),
			VX:              vel.X,
			VY:              vel.Y,
			AngularVelocity: b.AngularVelocity(),
			Static:          b.IsStatic(),
			Sleeping:        b.IsSleeping(),
		})
	}
	return s
}

func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// Digest hashes the exact bit patterns of every pose and velocity, so two
// runs match only when they are bit for bit identical. Body ids are left
// out since they depend on how many bodies the process made before.
func (s Snapshot) Digest() string {
	h := sha256.New()
	for _, b := range s.Bodies {
		for _, v := range []float64{b.X, b.Y, b.Angle, b.VX, b.VY, b.AngularVelocity} {
			fmt.Fprintf(h, "%016x", math.Float64bits(v))
		}
		fmt.Fprintf(h, "%t%t;", b.Static, b.Sleeping)
	}
	return hex.EncodeToString(h.Sum(nil))
}
