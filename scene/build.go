package scene

import (
	"fmt"

	"github.com/milk9111/rigid2d/dynamics"
	"github.com/milk9111/rigid2d/vmath"
)

// Build instantiates every body in the spec into the world and returns the
// handles keyed by body name. The world's gravity is replaced by the spec's.
func Build(world *dynamics.World, spec Spec) (map[string]dynamics.BodyHandle, error) {
	world.SetGravity(vmath.Vec2{X: spec.Gravity.X, Y: spec.Gravity.Y})

	handles := make(map[string]dynamics.BodyHandle, len(spec.Bodies))
	for i, bs := range spec.Bodies {
		name := bs.Name
		if name == "" {
			name = fmt.Sprintf("body_%d", i)
		}
		if _, ok := handles[name]; ok {
			return nil, fmt.Errorf("scene: duplicate body name %q", name)
		}

		body, err := buildBody(world, bs)
		if err != nil {
			return nil, fmt.Errorf("scene: body %q: %w", name, err)
		}
		handles[name] = body.Handle()
	}
	return handles, nil
}

func buildBody(world *dynamics.World, bs BodySpec) (*dynamics.Body, error) {
	def := dynamics.NewBodyDef()
	switch bs.Type {
	case "", "static":
		def.Type = dynamics.StaticBody
	case "kinematic":
		def.Type = dynamics.KinematicBody
	case "dynamic":
		def.Type = dynamics.DynamicBody
	default:
		return nil, fmt.Errorf("unknown body type %q", bs.Type)
	}
	def.Position = vmath.Vec2{X: bs.X, Y: bs.Y}
	def.Angle = bs.Angle
	def.LinearVelocity = vmath.Vec2{X: bs.VelocityX, Y: bs.VelocityY}
	def.AngularVelocity = bs.AngularVelocity
	def.LinearDamping = bs.LinearDamping
	def.AngularDamping = bs.AngularDamping
	if bs.GravityScale != nil {
		def.GravityScale = *bs.GravityScale
	}
	def.FixedRotation = bs.FixedRotation
	def.Bullet = bs.Bullet

	body, err := world.CreateBody(def)
	if err != nil {
		return nil, err
	}

	for i, fs := range bs.Fixtures {
		if err := buildFixture(body, fs); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
	}
	return body, nil
}

func buildFixture(body *dynamics.Body, fs FixtureSpec) error {
	var shape dynamics.Shape
	switch {
	case fs.Radius > 0 && (fs.Width > 0 || fs.Height > 0):
		return fmt.Errorf("both radius and width/height set")
	case fs.Radius > 0:
		shape = &dynamics.Circle{
			Center: vmath.Vec2{X: fs.OffsetX, Y: fs.OffsetY},
			Radius: fs.Radius,
		}
	case fs.Width > 0 && fs.Height > 0:
		shape = &dynamics.Box{
			HalfWidth:  fs.Width / 2,
			HalfHeight: fs.Height / 2,
			Center:     vmath.Vec2{X: fs.OffsetX, Y: fs.OffsetY},
		}
	default:
		return fmt.Errorf("no shape: set radius or width/height")
	}

	def := dynamics.NewFixtureDef(shape, fs.Density)
	if fs.Friction != nil {
		def.Friction = *fs.Friction
	}
	def.Restitution = fs.Restitution
	def.Sensor = fs.Sensor
	if fs.Filter != (FilterSpec{}) {
		def.Filter = dynamics.Filter{
			Category: fs.Filter.Category,
			Mask:     fs.Filter.Mask,
			Group:    fs.Filter.Group,
		}
		if def.Filter.Category == 0 {
			def.Filter.Category = 0x0001
		}
		if def.Filter.Mask == 0 {
			def.Filter.Mask = 0xFFFF
		}
	}

	_, err := body.CreateFixtureFromDef(def)
	return err
}
