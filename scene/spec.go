package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec describes a whole scene: gravity plus the bodies to build.
type Spec struct {
	Name    string      `yaml:"name"`
	Gravity GravitySpec `yaml:"gravity"`
	Bodies  []BodySpec  `yaml:"bodies"`
}

type GravitySpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BodySpec describes one body and its fixtures.
type BodySpec struct {
	Name            string        `yaml:"name"`
	Type            string        `yaml:"type"`
	X               float64       `yaml:"x"`
	Y               float64       `yaml:"y"`
	Angle           float64       `yaml:"angle"`
	VelocityX       float64       `yaml:"velocity_x"`
	VelocityY       float64       `yaml:"velocity_y"`
	AngularVelocity float64       `yaml:"angular_velocity"`
	LinearDamping   float64       `yaml:"linear_damping"`
	AngularDamping  float64       `yaml:"angular_damping"`
	GravityScale    *float64      `yaml:"gravity_scale"`
	FixedRotation   bool          `yaml:"fixed_rotation"`
	Bullet          bool          `yaml:"bullet"`
	Script          string        `yaml:"script"`
	Fixtures        []FixtureSpec `yaml:"fixtures"`
}

// FixtureSpec describes one fixture. Exactly one of the shape fields
// (circle via radius, box via width/height) must be set.
type FixtureSpec struct {
	Radius      float64    `yaml:"radius"`
	Width       float64    `yaml:"width"`
	Height      float64    `yaml:"height"`
	OffsetX     float64    `yaml:"offset_x"`
	OffsetY     float64    `yaml:"offset_y"`
	Density     float64    `yaml:"density"`
	Friction    *float64   `yaml:"friction"`
	Restitution float64    `yaml:"restitution"`
	Sensor      bool       `yaml:"sensor"`
	Filter      FilterSpec `yaml:"filter"`
}

type FilterSpec struct {
	Category uint16 `yaml:"category"`
	Mask     uint16 `yaml:"mask"`
	Group    int16  `yaml:"group"`
}

// LoadSpec reads and unmarshals a YAML spec file.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := os.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("scene: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scene: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}
