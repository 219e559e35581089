package dynamics

import (
	"fmt"

	"github.com/milk9111/rigid2d/vmath"
)

// Filter holds contact filtering data for a fixture.
type Filter struct {
	// Category is the collision category bits; normally one bit is set.
	Category uint16

	// Mask states the categories this fixture accepts for collision.
	Mask uint16

	// Group overrides the category/mask test: fixtures in the same
	// negative group never collide, the same positive group always collide.
	Group int16
}

// DefaultFilter returns a filter that collides with everything.
func DefaultFilter() Filter {
	return Filter{Category: 0x0001, Mask: 0xFFFF}
}

// ShouldCollide applies group then category/mask rules against other.
func (f Filter) ShouldCollide(other Filter) bool {
	if f.Group == other.Group && f.Group != 0 {
		return f.Group > 0
	}
	return f.Mask&other.Category != 0 && f.Category&other.Mask != 0
}

// FixtureDef describes a fixture to attach to a body. Definitions can be
// reused across bodies.
type FixtureDef struct {
	// Shape must be set. The fixture keeps the reference; reusing a
	// mutable shape across fixtures shares geometry.
	Shape Shape

	// Density in kg/m^2. Zero-density fixtures contribute no mass.
	Density float64

	Friction    float64
	Restitution float64

	// Sensor fixtures detect overlap but never generate collision response.
	Sensor bool

	Filter Filter

	UserData any
}

// NewFixtureDef returns a definition with the usual defaults.
func NewFixtureDef(shape Shape, density float64) FixtureDef {
	return FixtureDef{
		Shape:    shape,
		Density:  density,
		Friction: 0.2,
		Filter:   DefaultFilter(),
	}
}

// FixtureProxy connects one shape child to the broad phase.
type FixtureProxy struct {
	AABB    vmath.AABB
	Fixture *Fixture
	Child   int
	ID      ProxyID
}

// Fixture binds a shape, material properties, and filtering data to a body.
// Fixtures are created through Body.CreateFixture and owned by the body.
type Fixture struct {
	body  *Body
	shape Shape

	density     float64
	friction    float64
	restitution float64
	sensor      bool
	filter      Filter

	proxies []FixtureProxy

	userData any
}

// Body returns the owning body, or nil once the fixture is destroyed.
func (f *Fixture) Body() *Body { return f.body }

// Shape returns the fixture's collision geometry.
func (f *Fixture) Shape() Shape { return f.shape }

// Density returns the fixture's density.
func (f *Fixture) Density() float64 { return f.density }

// SetDensity changes the density. The body's mass is not recomputed until
// Body.ResetMassData is called.
func (f *Fixture) SetDensity(density float64) {
	if !vmath.IsValid(density) || density < 0 {
		panic(fmt.Sprintf("dynamics: invalid fixture density %v", density))
	}
	f.density = density
}

// Friction returns the friction coefficient.
func (f *Fixture) Friction() float64 { return f.friction }

// SetFriction changes the friction used by future contacts.
func (f *Fixture) SetFriction(friction float64) { f.friction = friction }

// Restitution returns the restitution (elasticity).
func (f *Fixture) Restitution() float64 { return f.restitution }

// SetRestitution changes the restitution used by future contacts.
func (f *Fixture) SetRestitution(restitution float64) { f.restitution = restitution }

// IsSensor reports whether the fixture is a sensor.
func (f *Fixture) IsSensor() bool { return f.sensor }

// SetSensor toggles sensor behavior and wakes the owning body.
func (f *Fixture) SetSensor(sensor bool) {
	if sensor == f.sensor {
		return
	}
	if f.body != nil {
		f.body.SetAwake(true)
	}
	f.sensor = sensor
}

// FilterData returns the fixture's collision filter.
func (f *Fixture) FilterData() Filter { return f.filter }

// SetFilterData replaces the filter and refilters existing contacts.
func (f *Fixture) SetFilterData(filter Filter) {
	f.filter = filter
	f.Refilter()
}

// Refilter flags every contact touching this fixture for re-evaluation and
// touches the fixture's proxies so new pairs can form.
func (f *Fixture) Refilter() {
	if f.body == nil {
		return
	}
	for _, edge := range f.body.contactEdges {
		c := edge.Contact
		if c.FixtureA == f || c.FixtureB == f {
			c.FlagForFiltering()
		}
	}
	w := f.body.world
	if w == nil {
		return
	}
	for i := range f.proxies {
		w.broadPhase.TouchProxy(f.proxies[i].ID)
	}
}

// UserData returns the application data stored on the fixture.
func (f *Fixture) UserData() any { return f.userData }

// SetUserData stores application data on the fixture.
func (f *Fixture) SetUserData(data any) { f.userData = data }

// MassData returns the mass properties of the shape at the fixture's
// density. The inertia is about the body-local origin.
func (f *Fixture) MassData() MassData {
	return f.shape.ComputeMass(f.density)
}

// TestPoint reports whether a world point is inside the fixture.
func (f *Fixture) TestPoint(p vmath.Vec2) bool {
	return f.shape.TestPoint(f.body.Transform(), p)
}

// AABB returns the broad-phase bounds of the given shape child.
func (f *Fixture) AABB(child int) vmath.AABB {
	return f.proxies[child].AABB
}

func newFixture(body *Body, def FixtureDef) *Fixture {
	filter := def.Filter
	if filter == (Filter{}) {
		filter = DefaultFilter()
	}
	return &Fixture{
		body:        body,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		sensor:      def.Sensor,
		filter:      filter,
		userData:    def.UserData,
	}
}

// createProxies registers every shape child with the broad phase at xf.
func (f *Fixture) createProxies(bp BroadPhase, xf vmath.Transform) {
	if len(f.proxies) != 0 {
		panic("dynamics: fixture proxies already created")
	}
	n := f.shape.ChildCount()
	f.proxies = make([]FixtureProxy, n)
	for i := 0; i < n; i++ {
		p := &f.proxies[i]
		p.AABB = f.shape.ComputeAABB(xf, i)
		p.Fixture = f
		p.Child = i
		p.ID = bp.CreateProxy(p.AABB, p)
	}
}

// destroyProxies removes every proxy from the broad phase.
func (f *Fixture) destroyProxies(bp BroadPhase) {
	for i := range f.proxies {
		bp.DestroyProxy(f.proxies[i].ID)
		f.proxies[i].ID = NullProxy
	}
	f.proxies = f.proxies[:0]
}

// synchronize updates proxy bounds to cover the swept shape between the two
// transforms, so the broad phase sees the whole path of a moving body.
func (f *Fixture) synchronize(bp BroadPhase, xf1, xf2 vmath.Transform) {
	for i := range f.proxies {
		p := &f.proxies[i]
		aabb1 := f.shape.ComputeAABB(xf1, p.Child)
		aabb2 := f.shape.ComputeAABB(xf2, p.Child)
		p.AABB = aabb1.Union(aabb2)
		bp.MoveProxy(p.ID, p.AABB, xf2.P.Sub(xf1.P))
	}
}
