package prefabs

import (
	"fmt"
	"image/color"

	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
	"github.com/milk9111/impulse/physics/bodies"
	"github.com/milk9111/impulse/physics/composites"
	"github.com/milk9111/impulse/plugins"
)

// DefaultBounds is used when a scene leaves its bounds unset.
var DefaultBounds = geom.NewBounds(geom.Vector{}, geom.Vector{X: 800, Y: 600})

// Scene is a built SceneSpec.
type Scene struct {
	Name   string
	Engine *physics.Engine
	Bounds geom.Bounds
	// Colors holds the colour given to each body by id, when one was set.
	Colors map[int]color.Color
	Spec   SceneSpec
}

// LoadScene loads and builds the named scene.
func LoadScene(name string) (*Scene, error) {
	spec, err := LoadSceneSpec(name)
	if err != nil {
		return nil, err
	}
	return BuildScene(spec)
}

type sceneBuilder struct {
	scene  *Scene
	labels map[string]*physics.Body
}

// BuildScene creates an engine and fills its world from spec.
func BuildScene(spec SceneSpec) (*Scene, error) {
	engine, err := physics.NewEngine(spec.Engine.Options())
	if err != nil {
		return nil, fmt.Errorf("prefabs: scene %s: %w", spec.Name, err)
	}
	bounds := spec.Bounds.Bounds()
	if bounds == (geom.Bounds{}) {
		bounds = DefaultBounds
	}
	b := &sceneBuilder{
		scene: &Scene{
			Name:   spec.Name,
			Engine: engine,
			Bounds: bounds,
			Colors: make(map[int]color.Color),
			Spec:   spec,
		},
		labels: make(map[string]*physics.Body),
	}

	for i, obj := range spec.Objects {
		if err := b.addObject(obj); err != nil {
			return nil, fmt.Errorf("prefabs: scene %s: object %d (%s %s): %w", spec.Name, i, obj.Kind, obj.Name, err)
		}
	}
	for i, cs := range spec.Constraints {
		if err := b.addConstraint(cs); err != nil {
			return nil, fmt.Errorf("prefabs: scene %s: constraint %d: %w", spec.Name, i, err)
		}
	}
	for i, ps := range spec.Plugins {
		stage, err := b.plugin(ps)
		if err != nil {
			return nil, fmt.Errorf("prefabs: scene %s: plugin %d (%s): %w", spec.Name, i, ps.Kind, err)
		}
		engine.AddStage(stage)
	}
	return b.scene, nil
}

func (b *sceneBuilder) addObject(obj ObjectSpec) error {
	var added any
	switch obj.Kind {
	case "rectangle", "circle", "polygon", "trapezoid", "vertices":
		s, err := DecodeComponentSpec[ShapeSpec](obj.Spec)
		if err != nil {
			return err
		}
		s.Shape = obj.Kind
		body, err := buildShape(s, s.X, s.Y, obj.Name)
		if err != nil {
			return err
		}
		added = body
	case "stack", "pyramid":
		s, err := DecodeComponentSpec[StackSpec](obj.Spec)
		if err != nil {
			return err
		}
		layout := composites.Stack
		if obj.Kind == "pyramid" {
			layout = composites.Pyramid
		}
		c, err := buildStack(s, layout)
		if err != nil {
			return err
		}
		added = c
	case "chain", "bridge":
		s, err := DecodeComponentSpec[ChainSpec](obj.Spec)
		if err != nil {
			return err
		}
		c, err := buildChain(s, obj.Kind == "bridge")
		if err != nil {
			return err
		}
		added = c
	case "mesh":
		s, err := DecodeComponentSpec[MeshSpec](obj.Spec)
		if err != nil {
			return err
		}
		c, err := buildStack(s.StackSpec, composites.Stack)
		if err != nil {
			return err
		}
		if err := composites.Mesh(c, s.Columns, s.Rows, s.CrossBrace, s.Link.options()); err != nil {
			return err
		}
		added = c
	case "cradle":
		s, err := DecodeComponentSpec[CradleSpec](obj.Spec)
		if err != nil {
			return err
		}
		c, err := composites.NewtonsCradle(s.X, s.Y, s.Number, s.Size, s.Length)
		if err != nil {
			return err
		}
		added = c
	default:
		return fmt.Errorf("%w: unknown object kind %q", physics.ErrInvalidOptions, obj.Kind)
	}

	if c, ok := added.(*physics.Composite); ok && obj.Name != "" {
		c.Label = obj.Name
	}
	if err := b.scene.Engine.World().Add(added); err != nil {
		return err
	}

	var placed []*physics.Body
	switch v := added.(type) {
	case *physics.Body:
		placed = []*physics.Body{v}
	case *physics.Composite:
		placed = v.AllBodies()
	}
	for _, body := range placed {
		if _, ok := b.labels[body.Label]; !ok {
			b.labels[body.Label] = body
		}
		if obj.Color != nil {
			b.scene.Colors[body.ID] = obj.Color.Color
		}
	}
	return nil
}

// buildShape makes the body for s at (x, y). name labels the body when its
// options leave the label unset.
func buildShape(s ShapeSpec, x, y float64, name string) (*physics.Body, error) {
	opts := s.Options.Options()
	if name != "" && opts.Label == physics.DefaultBodyOptions().Label {
		opts.Label = name
	}
	switch s.Shape {
	case "rectangle":
		return bodies.Rectangle(x, y, s.Width, s.Height, &opts)
	case "circle":
		return bodies.Circle(x, y, s.Radius, &opts, s.MaxSides)
	case "polygon":
		return bodies.Polygon(x, y, s.Sides, s.Radius, &opts)
	case "trapezoid":
		return bodies.Trapezoid(x, y, s.Width, s.Height, s.Slope, &opts)
	case "vertices":
		sets := s.Vertices
		if s.Path != "" {
			vs, err := geom.FromPath(s.Path)
			if err != nil {
				return nil, err
			}
			sets = append([][]geom.Vector{vs.Points()}, sets...)
		}
		return bodies.FromVertices(x, y, sets, &opts, bodies.VertexOptions{Hull: s.Hull, FlagInternal: s.FlagInternal})
	}
	return nil, fmt.Errorf("%w: unknown shape %q", physics.ErrInvalidShape, s.Shape)
}

type layoutFunc func(x, y float64, columns, rows int, columnGap, rowGap float64, factory composites.BodyFactory) (*physics.Composite, error)

func buildStack(s StackSpec, layout layoutFunc) (*physics.Composite, error) {
	if s.Body.Shape == "" {
		s.Body.Shape = "rectangle"
	}
	return layout(s.X, s.Y, s.Columns, s.Rows, s.ColumnGap, s.RowGap,
		func(x, y float64, _, _ int, _ *physics.Body, _ int) (*physics.Body, error) {
			return buildShape(s.Body, x, y, "")
		})
}

func buildChain(s ChainSpec, bridge bool) (*physics.Composite, error) {
	c, err := buildStack(s.StackSpec, composites.Stack)
	if err != nil {
		return nil, err
	}
	if err := composites.Chain(c, s.OffsetA.X, s.OffsetA.Y, s.OffsetB.X, s.OffsetB.Y, s.Link.options()); err != nil {
		return nil, err
	}
	bs := c.Bodies()
	if !bridge || len(bs) == 0 {
		return c, nil
	}

	first, last := bs[0], bs[len(bs)-1]
	length := s.PinLength
	pin := func(body *physics.Body, side float64) error {
		local := geom.Vector{X: side * geom.Width(body.Bounds()) * 0.5}
		o := s.Link.options()
		o.PointA = body.Position().Add(local).Add(geom.Vector{X: side * length})
		o.BodyB = body
		o.PointB = local
		o.Length = &length
		con, err := physics.NewConstraint(o)
		if err != nil {
			return err
		}
		return c.Add(con)
	}
	if err := pin(first, -1); err != nil {
		return nil, err
	}
	if err := pin(last, 1); err != nil {
		return nil, err
	}
	c.Label += " Bridge"
	return c, nil
}

func (s ConstraintSpec) options() physics.ConstraintOptions {
	return physics.ConstraintOptions{
		Label:            s.Label,
		PointA:           s.PointA,
		PointB:           s.PointB,
		Length:           s.Length,
		Stiffness:        s.Stiffness,
		Damping:          s.Damping,
		AngularStiffness: s.AngularStiffness,
	}
}

func (b *sceneBuilder) lookup(label string) (*physics.Body, error) {
	if label == "" {
		return nil, nil
	}
	body, ok := b.labels[label]
	if !ok {
		return nil, fmt.Errorf("%w: no body labelled %q", physics.ErrInvalidOptions, label)
	}
	return body, nil
}

func (b *sceneBuilder) addConstraint(s ConstraintSpec) error {
	o := s.options()
	var err error
	if o.BodyA, err = b.lookup(s.BodyA); err != nil {
		return err
	}
	if o.BodyB, err = b.lookup(s.BodyB); err != nil {
		return err
	}
	con, err := physics.NewConstraint(o)
	if err != nil {
		return err
	}
	return b.scene.Engine.World().Add(con)
}

func (b *sceneBuilder) plugin(ps PluginSpec) (physics.Stage, error) {
	switch ps.Kind {
	case "attractors":
		s, err := DecodeComponentSpec[AttractorsSpec](ps.Config)
		if err != nil {
			return nil, err
		}
		return plugins.NewAttractors(plugins.AttractorOptions(s))
	case "wrap":
		s, err := DecodeComponentSpec[WrapSpec](ps.Config)
		if err != nil {
			return nil, err
		}
		bounds := b.scene.Bounds
		if s.Bounds != nil {
			bounds = s.Bounds.Bounds()
		}
		return plugins.NewWrap(bounds)
	case "script":
		s, err := DecodeComponentSpec[ScriptSpec](ps.Config)
		if err != nil {
			return nil, err
		}
		src, err := LoadScript(s.Script)
		if err != nil {
			return nil, err
		}
		name := s.Name
		if name == "" {
			name = s.Script
		}
		return plugins.NewScript(name, src)
	}
	return nil, fmt.Errorf("%w: unknown plugin %q", physics.ErrInvalidOptions, ps.Kind)
}
