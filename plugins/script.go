package plugins

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
)

// Script runs a tengo program every tick. The program sees:
//
//	bodies     array of maps with id, label, x, y, vx, vy, angle, mass, static, sleeping
//	delta      tick length in milliseconds
//	timestamp  engine clock in milliseconds
//	apply_force(id, fx, fy)          force at the body centre
//	set_velocity(id, vx, vy)
//
// Forces and velocity changes are applied after the program returns.
type Script struct {
	name     string
	compiled *tengo.Compiled
	ops      []scriptOp
}

type scriptOp struct {
	id       int
	value    geom.Vector
	velocity bool
}

const scriptMaxAllocs = 1 << 20

// NewScript compiles src. name is used in log messages.
func NewScript(name string, src []byte) (*Script, error) {
	s := &Script{name: name}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "fmt", "rand"))
	script.SetMaxAllocs(scriptMaxAllocs)
	_ = script.Add("bodies", &tengo.Array{})
	_ = script.Add("delta", 0.0)
	_ = script.Add("timestamp", 0.0)
	_ = script.Add("apply_force", &tengo.UserFunction{Name: "apply_force", Value: s.recorder(false)})
	_ = script.Add("set_velocity", &tengo.UserFunction{Name: "set_velocity", Value: s.recorder(true)})

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("plugins: compile script %s: %w", name, err)
	}
	s.compiled = compiled
	return s, nil
}

func (s *Script) recorder(velocity bool) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "id", Expected: "int", Found: args[0].TypeName()}
		}
		x, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "x", Expected: "float", Found: args[1].TypeName()}
		}
		y, ok := tengo.ToFloat64(args[2])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "y", Expected: "float", Found: args[2].TypeName()}
		}
		s.ops = append(s.ops, scriptOp{id: id, value: geom.Vector{X: x, Y: y}, velocity: velocity})
		return tengo.UndefinedValue, nil
	}
}

func (s *Script) Name() string { return "script:" + s.name }

// Apply runs the program once. A failing run is logged and skipped.
func (s *Script) Apply(e *physics.Engine, bodies []*physics.Body, delta float64) {
	if err := s.Run(bodies, delta, e.Timing().Timestamp); err != nil {
		log.Printf("Script: %s: %v", s.name, err)
	}
}

// Run executes the program against bodies and applies what it requested.
func (s *Script) Run(bodies []*physics.Body, delta, timestamp float64) error {
	byID := make(map[int]*physics.Body, len(bodies))
	arr := make([]tengo.Object, 0, len(bodies))
	for _, b := range bodies {
		byID[b.ID] = b
		arr = append(arr, bodyObject(b))
	}

	s.ops = s.ops[:0]
	if err := s.compiled.Set("bodies", &tengo.ImmutableArray{Value: arr}); err != nil {
		return err
	}
	if err := s.compiled.Set("delta", delta); err != nil {
		return err
	}
	if err := s.compiled.Set("timestamp", timestamp); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return err
	}

	for _, op := range s.ops {
		b, ok := byID[op.id]
		if !ok || b.IsStatic() {
			continue
		}
		if op.velocity {
			b.SetVelocity(op.value)
		} else {
			b.ApplyForce(b.Position(), op.value)
		}
	}
	return nil
}

func bodyObject(b *physics.Body) tengo.Object {
	pos, vel := b.Position(), b.Velocity()
	mass := b.Mass()
	if b.IsStatic() {
		mass = 0
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"id":       &tengo.Int{Value: int64(b.ID)},
		"label":    &tengo.String{Value: b.Label},
		"x":        &tengo.Float{Value: pos.X},
		"y":        &tengo.Float{Value: pos.Y},
		"vx":       &tengo.Float{Value: vel.X},
		"vy":       &tengo.Float{Value: vel.Y},
		"angle":    &tengo.Float{Value: b.Angle()},
		"mass":     &tengo.Float{Value: mass},
		"static":   boolObject(b.IsStatic()),
		"sleeping": boolObject(b.IsSleeping()),
	}}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
