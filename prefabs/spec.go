package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
	"github.com/milk9111/impulse/plugins"
	"gopkg.in/yaml.v3"
)

// SceneSpec describes a world: engine settings, the objects in it, the
// constraints between labelled bodies and the stages to run.
type SceneSpec struct {
	Name        string           `yaml:"name"`
	Engine      *EngineSpec      `yaml:"engine"`
	Bounds      BoundsSpec       `yaml:"bounds"`
	Objects     []ObjectSpec     `yaml:"objects"`
	Constraints []ConstraintSpec `yaml:"constraints"`
	Plugins     []PluginSpec     `yaml:"plugins"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadSceneSpec loads name, adding the .yaml extension when missing.
func LoadSceneSpec(name string) (SceneSpec, error) {
	if !isSpecFile(name) {
		name += ".yaml"
	}
	return LoadSpec[SceneSpec](name)
}

// ObjectSpec is one entry of a scene. Kind selects how Spec is decoded:
//
//	rectangle, circle, polygon, trapezoid, vertices  -> ShapeSpec
//	stack, pyramid                                   -> StackSpec
//	chain, bridge                                    -> ChainSpec
//	mesh                                             -> MeshSpec
//	cradle                                           -> CradleSpec
type ObjectSpec struct {
	Name  string         `yaml:"name"`
	Kind  string         `yaml:"kind"`
	Color *YAMLColor     `yaml:"color"`
	Spec  map[string]any `yaml:"spec"`
}

// ShapeSpec describes a single body. Unused dimensions are ignored.
type ShapeSpec struct {
	Shape        string           `yaml:"shape"`
	X            float64          `yaml:"x"`
	Y            float64          `yaml:"y"`
	Width        float64          `yaml:"width"`
	Height       float64          `yaml:"height"`
	Radius       float64          `yaml:"radius"`
	Slope        float64          `yaml:"slope"`
	Sides        int              `yaml:"sides"`
	MaxSides     int              `yaml:"max_sides"`
	Path         string           `yaml:"path"`
	Vertices     [][]geom.Vector  `yaml:"vertices"`
	Hull         bool             `yaml:"hull"`
	FlagInternal bool             `yaml:"flag_internal"`
	Options      *BodyOptionsSpec `yaml:"options"`
}

// StackSpec lays copies of Body out in a grid. Body x and y are ignored.
type StackSpec struct {
	X         float64   `yaml:"x"`
	Y         float64   `yaml:"y"`
	Columns   int       `yaml:"columns"`
	Rows      int       `yaml:"rows"`
	ColumnGap float64   `yaml:"column_gap"`
	RowGap    float64   `yaml:"row_gap"`
	Body      ShapeSpec `yaml:"body"`
}

// ChainSpec is a stack whose bodies are linked one after another. A
// bridge also pins both ends to the world.
type ChainSpec struct {
	StackSpec `yaml:",inline"`

	Link      ConstraintSpec `yaml:"link"`
	OffsetA   geom.Vector    `yaml:"offset_a"`
	OffsetB   geom.Vector    `yaml:"offset_b"`
	PinLength float64        `yaml:"pin_length"`
}

// MeshSpec is a stack whose bodies are linked to their neighbours.
type MeshSpec struct {
	StackSpec `yaml:",inline"`

	CrossBrace bool           `yaml:"cross_brace"`
	Link       ConstraintSpec `yaml:"link"`
}

type CradleSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Number int     `yaml:"number"`
	Size   float64 `yaml:"size"`
	Length float64 `yaml:"length"`
}

// ConstraintSpec links bodies by label. An empty label anchors to the world.
type ConstraintSpec struct {
	Label            string      `yaml:"label"`
	BodyA            string      `yaml:"body_a"`
	BodyB            string      `yaml:"body_b"`
	PointA           geom.Vector `yaml:"point_a"`
	PointB           geom.Vector `yaml:"point_b"`
	Length           *float64    `yaml:"length"`
	Stiffness        *float64    `yaml:"stiffness"`
	Damping          float64     `yaml:"damping"`
	AngularStiffness float64     `yaml:"angular_stiffness"`
}

// PluginSpec enables a stage. Config is decoded per kind:
// attractors -> AttractorsSpec, wrap -> WrapSpec, script -> ScriptSpec.
type PluginSpec struct {
	Kind   string         `yaml:"kind"`
	Config map[string]any `yaml:"config"`
}

// AttractorsSpec decodes attractor options on top of the defaults.
type AttractorsSpec plugins.AttractorOptions

func (s *AttractorsSpec) UnmarshalYAML(value *yaml.Node) error {
	opts := plugins.DefaultAttractorOptions()
	if err := value.Decode(&opts); err != nil {
		return err
	}
	*s = AttractorsSpec(opts)
	return nil
}

// BoundsSpec is a box written as its min and max corners.
type BoundsSpec struct {
	Min geom.Vector `yaml:"min"`
	Max geom.Vector `yaml:"max"`
}

func (s BoundsSpec) Bounds() geom.Bounds {
	return geom.NewBounds(s.Min, s.Max)
}

// WrapSpec wraps bodies around Bounds, or the scene bounds when unset.
type WrapSpec struct {
	Bounds *BoundsSpec `yaml:"bounds"`
}

type ScriptSpec struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"`
}

// BodyOptionsSpec decodes body options on top of the defaults.
type BodyOptionsSpec physics.BodyOptions

func (s *BodyOptionsSpec) UnmarshalYAML(value *yaml.Node) error {
	opts := physics.DefaultBodyOptions()
	if err := value.Decode(&opts); err != nil {
		return err
	}
	*s = BodyOptionsSpec(opts)
	return nil
}

// Options returns the decoded options, or the defaults for a nil spec.
func (s *BodyOptionsSpec) Options() physics.BodyOptions {
	if s == nil {
		return physics.DefaultBodyOptions()
	}
	return physics.BodyOptions(*s)
}

// EngineSpec decodes engine options on top of the defaults.
type EngineSpec physics.EngineOptions

func (s *EngineSpec) UnmarshalYAML(value *yaml.Node) error {
	opts := physics.DefaultEngineOptions()
	if err := value.Decode(&opts); err != nil {
		return err
	}
	*s = EngineSpec(opts)
	return nil
}

func (s *EngineSpec) Options() physics.EngineOptions {
	if s == nil {
		return physics.DefaultEngineOptions()
	}
	return physics.EngineOptions(*s)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// MarshalYAML writes the colour back as #rrggbbaa.
func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
