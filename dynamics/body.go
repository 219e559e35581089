package dynamics

import (
	"fmt"

	"github.com/milk9111/rigid2d/vmath"
)

// Body is a rigid body: a pose, a swept pose pair for continuous collision,
// velocity and load accumulators, composite mass properties, and the
// adjacency to its fixtures, contacts, and joints. Bodies are created and
// destroyed through a World.
type Body struct {
	world  *World
	handle BodyHandle

	bodyType BodyType

	xf    vmath.Transform // body origin pose
	sweep vmath.Sweep     // swept center-of-mass motion for CCD

	linearVelocity  vmath.Vec2
	angularVelocity float64

	force  vmath.Vec2
	torque float64

	mass, invMass float64

	// inertia is the rotational inertia about the center of mass.
	inertia, invInertia float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	sleepTime float64

	awake         bool
	autoSleep     bool
	bullet        bool
	fixedRotation bool
	active        bool

	fixtures     []*Fixture
	contactEdges []*ContactEdge
	jointEdges   []*JointEdge

	userData any
}

func newBody(world *World, def BodyDef) *Body {
	def.validate()

	b := &Body{
		world:           world,
		bodyType:        def.Type,
		xf:              vmath.NewTransform(def.Position, def.Angle),
		linearVelocity:  def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:   def.LinearDamping,
		angularDamping:  def.AngularDamping,
		gravityScale:    def.GravityScale,
		awake:           def.Awake,
		autoSleep:       def.AllowSleep,
		bullet:          def.Bullet,
		fixedRotation:   def.FixedRotation,
		active:          def.Active,
		userData:        def.UserData,
	}

	b.sweep.C0 = b.xf.P
	b.sweep.C = b.xf.P
	b.sweep.A0 = def.Angle
	b.sweep.A = def.Angle

	if b.bodyType == DynamicBody {
		b.mass = 1.0
		b.invMass = 1.0
	}

	return b
}

// Handle returns the body's arena handle.
func (b *Body) Handle() BodyHandle { return b.handle }

// World returns the owning world.
func (b *Body) World() *World { return b.world }

// Type returns the body type.
func (b *Body) Type() BodyType { return b.bodyType }

// SetType changes the body type. This recomputes mass, wakes the body,
// clears pending loads, destroys every attached contact, and touches all
// proxies so the broad phase regenerates candidate pairs next step.
func (b *Body) SetType(bodyType BodyType) error {
	if b.world.IsLocked() {
		return ErrLocked
	}
	if b.bodyType == bodyType {
		return nil
	}

	b.bodyType = bodyType
	b.ResetMassData()

	if b.bodyType == StaticBody {
		b.linearVelocity = vmath.Vec2{}
		b.angularVelocity = 0
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A
		b.SynchronizeFixtures()
	}

	b.SetAwake(true)

	b.force = vmath.Vec2{}
	b.torque = 0

	// A type change invalidates every existing contact pair.
	b.destroyContacts()

	for _, f := range b.fixtures {
		for i := range f.proxies {
			b.world.broadPhase.TouchProxy(f.proxies[i].ID)
		}
	}
	return nil
}

// CreateFixture attaches a shape at the given density with default
// material properties.
func (b *Body) CreateFixture(shape Shape, density float64) (*Fixture, error) {
	return b.CreateFixtureFromDef(NewFixtureDef(shape, density))
}

// CreateFixtureFromDef attaches a shape described by def. If the body is
// active the fixture's proxies are created immediately; contacts appear at
// the next step. A positive density triggers mass recomputation.
func (b *Body) CreateFixtureFromDef(def FixtureDef) (*Fixture, error) {
	if b.world.IsLocked() {
		return nil, ErrLocked
	}
	if def.Shape == nil {
		panic("dynamics: fixture def has no shape")
	}

	f := newFixture(b, def)

	if b.active {
		f.createProxies(b.world.broadPhase, b.xf)
	}

	b.fixtures = append(b.fixtures, f)

	if f.density > 0 {
		b.ResetMassData()
	}

	// New pairs are discovered at the beginning of the next step.
	b.world.newFixture = true

	return f, nil
}

// DestroyFixture detaches a fixture, destroys every contact referencing it,
// removes its proxies, and recomputes mass. The fixture must belong to this
// body; passing a foreign fixture is a programmer error and panics.
func (b *Body) DestroyFixture(f *Fixture) error {
	if f == nil {
		return nil
	}
	if b.world.IsLocked() {
		return ErrLocked
	}
	if f.body != b {
		panic("dynamics: fixture does not belong to this body")
	}

	idx := -1
	for i, existing := range b.fixtures {
		if existing == f {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("dynamics: fixture missing from body's list")
	}
	b.fixtures = append(b.fixtures[:idx], b.fixtures[idx+1:]...)

	// Destroy contacts referencing this fixture; iterate over a snapshot
	// because destruction edits the edge slice.
	edges := append([]*ContactEdge(nil), b.contactEdges...)
	for _, edge := range edges {
		c := edge.Contact
		if c.FixtureA == f || c.FixtureB == f {
			b.world.contactManager.Destroy(c)
		}
	}

	if b.active {
		f.destroyProxies(b.world.broadPhase)
	}

	f.body = nil

	b.ResetMassData()
	return nil
}

// ResetMassData recomputes mass, inertia, and center of mass from the
// attached fixtures, discarding any SetMassData override. Dynamic bodies
// always end up with positive mass even if every fixture is massless.
func (b *Body) ResetMassData() {
	b.mass = 0
	b.invMass = 0
	b.inertia = 0
	b.invInertia = 0
	b.sweep.LocalCenter = vmath.Vec2{}

	// Static and kinematic bodies have zero mass.
	if b.bodyType != DynamicBody {
		b.sweep.C0 = b.xf.P
		b.sweep.C = b.xf.P
		b.sweep.A0 = b.sweep.A
		return
	}

	var localCenter vmath.Vec2
	for _, f := range b.fixtures {
		if f.density == 0 {
			continue
		}
		md := f.MassData()
		b.mass += md.Mass
		localCenter = localCenter.Add(md.Center.Scale(md.Mass))
		b.inertia += md.I
	}

	if b.mass > 0 {
		b.invMass = 1.0 / b.mass
		localCenter = localCenter.Scale(b.invMass)
	} else {
		// Dynamic bodies are never massless.
		b.mass = 1.0
		b.invMass = 1.0
	}

	if b.inertia > 0 && !b.fixedRotation {
		// Shift the accumulated inertia to the composite center of mass.
		b.inertia -= b.mass * localCenter.Dot(localCenter)
		if b.inertia <= 0 {
			panic("dynamics: non-positive inertia after recentering")
		}
		b.invInertia = 1.0 / b.inertia
	} else {
		b.inertia = 0
		b.invInertia = 0
	}

	oldCenter := b.sweep.C
	b.sweep.LocalCenter = localCenter
	b.sweep.C0 = b.xf.Apply(localCenter)
	b.sweep.C = b.sweep.C0

	// The center of mass moved; preserve momentum about the old center.
	b.linearVelocity = b.linearVelocity.Add(
		vmath.CrossSV(b.angularVelocity, b.sweep.C.Sub(oldCenter)))
}

// SetMassData overrides the computed mass properties. Ignored for
// non-dynamic bodies; a non-positive mass is corrected to one. The next
// ResetMassData discards the override.
func (b *Body) SetMassData(md MassData) error {
	if b.world.IsLocked() {
		return ErrLocked
	}
	if b.bodyType != DynamicBody {
		return nil
	}

	b.invMass = 0
	b.inertia = 0
	b.invInertia = 0

	b.mass = md.Mass
	if b.mass <= 0 {
		b.mass = 1.0
	}
	b.invMass = 1.0 / b.mass

	if md.I > 0 && !b.fixedRotation {
		b.inertia = md.I - b.mass*md.Center.Dot(md.Center)
		if b.inertia <= 0 {
			panic("dynamics: non-positive inertia in mass override")
		}
		b.invInertia = 1.0 / b.inertia
	}

	oldCenter := b.sweep.C
	b.sweep.LocalCenter = md.Center
	b.sweep.C0 = b.xf.Apply(md.Center)
	b.sweep.C = b.sweep.C0

	b.linearVelocity = b.linearVelocity.Add(
		vmath.CrossSV(b.angularVelocity, b.sweep.C.Sub(oldCenter)))
	return nil
}

// MassData returns the body's mass, its rotational inertia about the local
// origin, and the local center of mass.
func (b *Body) MassData() MassData {
	return MassData{
		Mass:   b.mass,
		I:      b.inertia + b.mass*b.sweep.LocalCenter.Dot(b.sweep.LocalCenter),
		Center: b.sweep.LocalCenter,
	}
}

// Mass returns the body's mass in kilograms.
func (b *Body) Mass() float64 { return b.mass }

// InvMass returns 1/mass, or zero for non-dynamic bodies.
func (b *Body) InvMass() float64 { return b.invMass }

// Inertia returns the rotational inertia about the local origin.
func (b *Body) Inertia() float64 {
	return b.inertia + b.mass*b.sweep.LocalCenter.Dot(b.sweep.LocalCenter)
}

// InvInertia returns the inverse rotational inertia about the center of
// mass, or zero when rotation is fixed.
func (b *Body) InvInertia() float64 { return b.invInertia }

// SetTransform moves the body to a new pose, collapsing the sweep so no
// interpolated motion is pending, and synchronizes all fixture proxies.
func (b *Body) SetTransform(position vmath.Vec2, angle float64) error {
	if b.world.IsLocked() {
		return ErrLocked
	}

	b.xf = vmath.NewTransform(position, angle)

	b.sweep.C = b.xf.Apply(b.sweep.LocalCenter)
	b.sweep.A = angle
	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = angle

	for _, f := range b.fixtures {
		f.synchronize(b.world.broadPhase, b.xf, b.xf)
	}
	return nil
}

// Transform returns the body origin pose.
func (b *Body) Transform() vmath.Transform { return b.xf }

// Position returns the world position of the body's local origin.
func (b *Body) Position() vmath.Vec2 { return b.xf.P }

// Angle returns the body's world angle in radians.
func (b *Body) Angle() float64 { return b.sweep.A }

// WorldCenter returns the world position of the center of mass.
func (b *Body) WorldCenter() vmath.Vec2 { return b.sweep.C }

// LocalCenter returns the center of mass in body-local coordinates.
func (b *Body) LocalCenter() vmath.Vec2 { return b.sweep.LocalCenter }

// Sweep returns a copy of the body's swept motion state.
func (b *Body) Sweep() vmath.Sweep { return b.sweep }

// SynchronizeTransform recomputes the origin pose from the current sweep
// pose. The world calls this after integration.
func (b *Body) SynchronizeTransform() {
	b.xf.Q = vmath.NewRot(b.sweep.A)
	b.xf.P = b.sweep.C.Sub(b.xf.Q.Apply(b.sweep.LocalCenter))
}

// SynchronizeFixtures updates every fixture proxy with bounds covering the
// motion from the sweep's start pose to the current pose.
func (b *Body) SynchronizeFixtures() {
	xf1 := vmath.Transform{Q: vmath.NewRot(b.sweep.A0)}
	xf1.P = b.sweep.C0.Sub(xf1.Q.Apply(b.sweep.LocalCenter))

	for _, f := range b.fixtures {
		f.synchronize(b.world.broadPhase, xf1, b.xf)
	}
}

// Advance moves the body to the interpolated pose at step fraction t and
// collapses the sweep start to it. The broad phase is not updated; callers
// follow up with SynchronizeTransform/SynchronizeFixtures.
func (b *Body) Advance(t float64) {
	b.sweep.Advance(t)
	b.sweep.C = b.sweep.C0
	b.sweep.A = b.sweep.A0
	b.xf.Q = vmath.NewRot(b.sweep.A)
	b.xf.P = b.sweep.C.Sub(b.xf.Q.Apply(b.sweep.LocalCenter))
}

// SetLinearVelocity sets the origin's linear velocity. No-op on static
// bodies; a nonzero velocity wakes the body.
func (b *Body) SetLinearVelocity(v vmath.Vec2) {
	if b.bodyType == StaticBody {
		return
	}
	if v.Dot(v) > 0 {
		b.SetAwake(true)
	}
	b.linearVelocity = v
}

// LinearVelocity returns the origin's linear velocity.
func (b *Body) LinearVelocity() vmath.Vec2 { return b.linearVelocity }

// SetAngularVelocity sets the angular velocity in radians/second. No-op on
// static bodies; a nonzero velocity wakes the body.
func (b *Body) SetAngularVelocity(omega float64) {
	if b.bodyType == StaticBody {
		return
	}
	if omega*omega > 0 {
		b.SetAwake(true)
	}
	b.angularVelocity = omega
}

// AngularVelocity returns the angular velocity in radians/second.
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// ApplyForce accumulates a force applied at a world point. Torque from the
// offset to the center of mass is accumulated too. Dynamic bodies only;
// sleeping bodies accumulate nothing unless wake is set.
func (b *Body) ApplyForce(force, point vmath.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.force = b.force.Add(force)
	b.torque += point.Sub(b.sweep.C).Cross(force)
}

// ApplyForceToCenter accumulates a force at the center of mass.
func (b *Body) ApplyForceToCenter(force vmath.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.force = b.force.Add(force)
}

// ApplyTorque accumulates a torque. This affects angular velocity only.
func (b *Body) ApplyTorque(torque float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.torque += torque
}

// Torque returns the accumulated torque pending for the next integration.
func (b *Body) Torque() float64 { return b.torque }

// Force returns the accumulated force pending for the next integration.
func (b *Body) Force() vmath.Vec2 { return b.force }

// ClearForces zeroes the force and torque accumulators. The world calls
// this after each step consumes them.
func (b *Body) ClearForces() {
	b.force = vmath.Vec2{}
	b.torque = 0
}

// ApplyLinearImpulse changes velocity immediately by an impulse at a world
// point, including the angular contribution about the center of mass.
func (b *Body) ApplyLinearImpulse(impulse, point vmath.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Scale(b.invMass))
	b.angularVelocity += b.invInertia * point.Sub(b.sweep.C).Cross(impulse)
}

// ApplyLinearImpulseToCenter changes linear velocity immediately with no
// angular contribution.
func (b *Body) ApplyLinearImpulseToCenter(impulse vmath.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Scale(b.invMass))
}

// ApplyAngularImpulse changes angular velocity immediately.
func (b *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.angularVelocity += b.invInertia * impulse
}

// WorldPoint maps a body-local point to world coordinates.
func (b *Body) WorldPoint(localPoint vmath.Vec2) vmath.Vec2 {
	return b.xf.Apply(localPoint)
}

// WorldVector maps a body-local vector to world coordinates.
func (b *Body) WorldVector(localVector vmath.Vec2) vmath.Vec2 {
	return b.xf.Q.Apply(localVector)
}

// LocalPoint maps a world point to body-local coordinates.
func (b *Body) LocalPoint(worldPoint vmath.Vec2) vmath.Vec2 {
	return b.xf.ApplyT(worldPoint)
}

// LocalVector maps a world vector to body-local coordinates.
func (b *Body) LocalVector(worldVector vmath.Vec2) vmath.Vec2 {
	return b.xf.Q.ApplyT(worldVector)
}

// LinearVelocityFromWorldPoint returns the velocity of a world point rigidly
// attached to the body.
func (b *Body) LinearVelocityFromWorldPoint(worldPoint vmath.Vec2) vmath.Vec2 {
	return b.linearVelocity.Add(
		vmath.CrossSV(b.angularVelocity, worldPoint.Sub(b.sweep.C)))
}

// LinearVelocityFromLocalPoint returns the velocity of a body-local point.
func (b *Body) LinearVelocityFromLocalPoint(localPoint vmath.Vec2) vmath.Vec2 {
	return b.LinearVelocityFromWorldPoint(b.WorldPoint(localPoint))
}

// LinearDamping returns the linear damping coefficient.
func (b *Body) LinearDamping() float64 { return b.linearDamping }

// SetLinearDamping changes the linear damping coefficient.
func (b *Body) SetLinearDamping(damping float64) { b.linearDamping = damping }

// AngularDamping returns the angular damping coefficient.
func (b *Body) AngularDamping() float64 { return b.angularDamping }

// SetAngularDamping changes the angular damping coefficient.
func (b *Body) SetAngularDamping(damping float64) { b.angularDamping = damping }

// GravityScale returns the gravity multiplier.
func (b *Body) GravityScale() float64 { return b.gravityScale }

// SetGravityScale changes the gravity multiplier.
func (b *Body) SetGravityScale(scale float64) { b.gravityScale = scale }

// SetAwake wakes or sleeps the body. Sleeping zeroes velocity, force, and
// torque; waking a sleeping body resets the sleep timer.
func (b *Body) SetAwake(awake bool) {
	if awake {
		if !b.awake {
			b.awake = true
			b.sleepTime = 0
		}
		return
	}
	b.awake = false
	b.sleepTime = 0
	b.linearVelocity = vmath.Vec2{}
	b.angularVelocity = 0
	b.force = vmath.Vec2{}
	b.torque = 0
}

// IsAwake reports whether the body is being simulated.
func (b *Body) IsAwake() bool { return b.awake }

// SleepTime returns how long the body has been under the sleep tolerances.
func (b *Body) SleepTime() float64 { return b.sleepTime }

// SetActive adds or removes the body from collision processing. Activating
// creates proxies for every fixture (contacts appear next step);
// deactivating destroys the proxies and every attached contact.
func (b *Body) SetActive(active bool) error {
	if b.world.IsLocked() {
		return ErrLocked
	}
	if active == b.active {
		return nil
	}

	b.active = active
	if active {
		for _, f := range b.fixtures {
			f.createProxies(b.world.broadPhase, b.xf)
		}
		// Contacts are created the next time step.
		return nil
	}

	for _, f := range b.fixtures {
		f.destroyProxies(b.world.broadPhase)
	}
	b.destroyContacts()
	return nil
}

// IsActive reports whether the body participates in collision processing.
func (b *Body) IsActive() bool { return b.active }

// SetBullet toggles continuous collision against other dynamic bodies.
func (b *Body) SetBullet(bullet bool) { b.bullet = bullet }

// IsBullet reports whether the body uses continuous collision.
func (b *Body) IsBullet() bool { return b.bullet }

// SetFixedRotation locks or unlocks rotation. This zeroes angular velocity
// and recomputes mass so the inertia reflects the new state.
func (b *Body) SetFixedRotation(fixed bool) {
	if b.fixedRotation == fixed {
		return
	}
	b.fixedRotation = fixed
	b.angularVelocity = 0
	b.ResetMassData()
}

// IsFixedRotation reports whether rotation is locked.
func (b *Body) IsFixedRotation() bool { return b.fixedRotation }

// SetSleepingAllowed enables or disables automatic sleep. Disabling it
// forces the body awake.
func (b *Body) SetSleepingAllowed(allowed bool) {
	b.autoSleep = allowed
	if !allowed {
		b.SetAwake(true)
	}
}

// IsSleepingAllowed reports whether the sleep policy may stop the body.
func (b *Body) IsSleepingAllowed() bool { return b.autoSleep }

// Fixtures returns the attached fixtures. The slice is owned by the body.
func (b *Body) Fixtures() []*Fixture { return b.fixtures }

// ContactEdges returns the body's contact adjacency.
func (b *Body) ContactEdges() []*ContactEdge { return b.contactEdges }

// JointEdges returns the body's joint adjacency.
func (b *Body) JointEdges() []*JointEdge { return b.jointEdges }

// UserData returns the application data stored on the body.
func (b *Body) UserData() any { return b.userData }

// SetUserData stores application data on the body.
func (b *Body) SetUserData(data any) { b.userData = data }

// ShouldCollide reports whether this body may collide with other. At least
// one body must be dynamic, and no joint between the two may disable
// collision between connected bodies.
func (b *Body) ShouldCollide(other *Body) bool {
	if b.bodyType != DynamicBody && other.bodyType != DynamicBody {
		return false
	}
	for _, edge := range b.jointEdges {
		if edge.Other == other && !edge.Joint.CollideConnected() {
			return false
		}
	}
	return true
}

func (b *Body) destroyContacts() {
	edges := b.contactEdges
	b.contactEdges = nil
	for _, edge := range edges {
		b.world.contactManager.Destroy(edge.Contact)
	}
}

func (b *Body) String() string {
	return fmt.Sprintf("Body(%s %s at %v)", b.handle, b.bodyType, b.xf.P)
}
