package dynamics

import (
	"fmt"

	"github.com/milk9111/rigid2d/vmath"
)

// BodyType classifies how a body participates in simulation.
type BodyType int

const (
	// StaticBody has zero mass and zero velocity; it may be moved manually.
	StaticBody BodyType = iota

	// KinematicBody has zero mass and a user-set velocity.
	KinematicBody

	// DynamicBody has positive mass and velocity determined by forces.
	DynamicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case KinematicBody:
		return "kinematic"
	case DynamicBody:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", int(t))
	}
}

// BodyDef holds everything needed to construct a body. Definitions can be
// reused; the body copies what it needs.
type BodyDef struct {
	Type BodyType

	// Position is the world position of the body's local origin.
	Position vmath.Vec2

	// Angle is the world angle in radians.
	Angle float64

	LinearVelocity  vmath.Vec2
	AngularVelocity float64

	// LinearDamping and AngularDamping reduce velocity over time.
	// Units are 1/time; values above 1 become time-step sensitive.
	LinearDamping  float64
	AngularDamping float64

	// GravityScale scales the world gravity applied to this body.
	GravityScale float64

	// AllowSleep permits the world's sleep policy to stop simulating the
	// body when it comes to rest.
	AllowSleep bool

	// Awake is the initial sleep state.
	Awake bool

	// FixedRotation prevents the body from rotating, useful for characters.
	FixedRotation bool

	// Bullet enables continuous collision against other dynamic bodies.
	// Use sparingly; it increases processing time.
	Bullet bool

	// Active is the initial broad-phase participation state.
	Active bool

	UserData any
}

// NewBodyDef returns a definition with default values: a static body at the
// origin, awake, active, sleep allowed, unit gravity scale.
func NewBodyDef() BodyDef {
	return BodyDef{
		Type:         StaticBody,
		GravityScale: 1.0,
		AllowSleep:   true,
		Awake:        true,
		Active:       true,
	}
}

// validate panics on programmer error: non-finite vectors or negative
// damping/gravity scale are construction bugs, not runtime conditions.
func (def BodyDef) validate() {
	if !def.Position.IsValid() {
		panic(fmt.Sprintf("dynamics: body position is not finite: %+v", def.Position))
	}
	if !def.LinearVelocity.IsValid() {
		panic(fmt.Sprintf("dynamics: body linear velocity is not finite: %+v", def.LinearVelocity))
	}
	if !vmath.IsValid(def.Angle) || !vmath.IsValid(def.AngularVelocity) {
		panic("dynamics: body angle or angular velocity is not finite")
	}
	if !vmath.IsValid(def.LinearDamping) || def.LinearDamping < 0 {
		panic(fmt.Sprintf("dynamics: invalid linear damping %v", def.LinearDamping))
	}
	if !vmath.IsValid(def.AngularDamping) || def.AngularDamping < 0 {
		panic(fmt.Sprintf("dynamics: invalid angular damping %v", def.AngularDamping))
	}
	if !vmath.IsValid(def.GravityScale) || def.GravityScale < 0 {
		panic(fmt.Sprintf("dynamics: invalid gravity scale %v", def.GravityScale))
	}
}
