package dynamics

import (
	"math"

	"github.com/milk9111/rigid2d/vmath"
)

// World owns the body arena, the broad phase, and the contact manager, and
// drives the per-step integration. All mutation happens on the goroutine
// calling Step; the locked flag rejects structural changes made from inside
// callbacks while a step is in progress.
type World struct {
	gravity vmath.Vec2

	broadPhase     BroadPhase
	contactManager ContactManager

	slots []bodySlot
	free  []slotIndex
	count int

	locked     bool
	newFixture bool
}

type bodySlot struct {
	body *Body
	gen  generation
}

// WorldOption configures a world at construction.
type WorldOption func(*World)

// WithBroadPhase replaces the default brute-force broad phase.
func WithBroadPhase(bp BroadPhase) WorldOption {
	return func(w *World) { w.broadPhase = bp }
}

// WithContactManager replaces the default contact graph.
func WithContactManager(cm ContactManager) WorldOption {
	return func(w *World) { w.contactManager = cm }
}

// NewWorld creates a world with the given gravity.
func NewWorld(gravity vmath.Vec2, opts ...WorldOption) *World {
	w := &World{
		gravity:        gravity,
		broadPhase:     NewBruteBroadPhase(),
		contactManager: NewContactGraph(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Gravity returns the world gravity.
func (w *World) Gravity() vmath.Vec2 { return w.gravity }

// SetGravity changes the world gravity.
func (w *World) SetGravity(gravity vmath.Vec2) { w.gravity = gravity }

// IsLocked reports whether a step is in progress.
func (w *World) IsLocked() bool { return w.locked }

// BroadPhase returns the world's spatial index.
func (w *World) BroadPhase() BroadPhase { return w.broadPhase }

// ContactManager returns the world's contact manager.
func (w *World) ContactManager() ContactManager { return w.contactManager }

// CreateBody constructs a body from def and stores it in the arena.
func (w *World) CreateBody(def BodyDef) (*Body, error) {
	if w.locked {
		return nil, ErrLocked
	}

	b := newBody(w, def)

	var idx slotIndex
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
		w.slots[idx].body = b
	} else {
		w.slots = append(w.slots, bodySlot{body: b, gen: 1})
		idx = slotIndex(len(w.slots) - 1)
	}
	b.handle = makeHandle(idx, w.slots[idx].gen)
	w.count++
	return b, nil
}

// DestroyBody removes a body, cascading through its joints, contacts, and
// fixtures. The body's handle goes stale immediately.
func (w *World) DestroyBody(b *Body) error {
	if w.locked {
		return ErrLocked
	}
	if b == nil || b.world != w {
		panic("dynamics: body does not belong to this world")
	}

	// Detach joints first: a joint edge holding a destroyed body is the
	// dangling-pointer bug the arena exists to prevent.
	for len(b.jointEdges) > 0 {
		edge := b.jointEdges[len(b.jointEdges)-1]
		Detach(edge.Joint, b, edge.Other)
	}

	b.destroyContacts()

	for _, f := range b.fixtures {
		if b.active {
			f.destroyProxies(w.broadPhase)
		}
		f.body = nil
	}
	b.fixtures = nil

	idx := b.handle.index()
	w.slots[idx].body = nil
	w.slots[idx].gen++
	w.free = append(w.free, idx)
	w.count--
	b.world = nil
	return nil
}

// Body resolves a handle, failing if the body was destroyed (even if the
// slot has been reused since).
func (w *World) Body(h BodyHandle) (*Body, bool) {
	idx := h.index()
	if int(idx) >= len(w.slots) {
		return nil, false
	}
	slot := w.slots[idx]
	if slot.body == nil || slot.gen != h.generation() {
		return nil, false
	}
	return slot.body, true
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int { return w.count }

// Bodies calls fn for every live body, stopping early if fn returns false.
func (w *World) Bodies(fn func(*Body) bool) {
	for i := range w.slots {
		if b := w.slots[i].body; b != nil {
			if !fn(b) {
				return
			}
		}
	}
}

// Step advances the simulation by dt seconds: candidate contact pairs are
// refreshed, awake bodies integrate velocity and position, fixtures are
// synchronized with the broad phase, forces are cleared, and resting bodies
// are put to sleep. Constraint solving is the caller's concern; Step only
// drives the kernel's bookkeeping.
func (w *World) Step(dt float64) {
	if w.locked {
		panic("dynamics: recursive Step")
	}
	w.locked = true
	defer func() { w.locked = false }()

	// Fixtures attached since the last step become collidable now.
	w.updateContacts()
	w.newFixture = false

	if dt <= 0 {
		return
	}

	for i := range w.slots {
		b := w.slots[i].body
		if b == nil || !b.active || !b.awake {
			continue
		}
		if b.bodyType == StaticBody {
			continue
		}

		if b.bodyType == DynamicBody {
			v := b.linearVelocity.
				Add(w.gravity.Scale(b.gravityScale * dt)).
				Add(b.force.Scale(b.invMass * dt))
			omega := b.angularVelocity + dt*b.invInertia*b.torque

			// Padé approximation of exponential damping decay.
			v = v.Scale(1.0 / (1.0 + dt*b.linearDamping))
			omega *= 1.0 / (1.0 + dt*b.angularDamping)

			b.linearVelocity = v
			b.angularVelocity = omega
		}

		translation := b.linearVelocity.Scale(dt)
		if sq := translation.LengthSquared(); sq > maxTranslation*maxTranslation {
			b.linearVelocity = b.linearVelocity.Scale(maxTranslation / math.Sqrt(sq))
		}
		rotation := dt * b.angularVelocity
		if rotation*rotation > maxRotation*maxRotation {
			b.angularVelocity *= maxRotation / math.Abs(rotation)
		}

		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A
		b.sweep.Alpha0 = 0
		b.sweep.C = b.sweep.C.Add(b.linearVelocity.Scale(dt))
		b.sweep.A += dt * b.angularVelocity

		b.SynchronizeTransform()
		b.SynchronizeFixtures()
	}

	w.clearForces()
	w.updateSleep(dt)
}

// NewFixtureAdded reports whether a fixture was attached since the last
// step. The flag is consumed at the start of the next Step.
func (w *World) NewFixtureAdded() bool { return w.newFixture }

func (w *World) clearForces() {
	for i := range w.slots {
		if b := w.slots[i].body; b != nil {
			b.ClearForces()
		}
	}
}

// updateSleep owns the sleep decision; the body only owns its timer.
func (w *World) updateSleep(dt float64) {
	for i := range w.slots {
		b := w.slots[i].body
		if b == nil || b.bodyType == StaticBody || !b.awake || !b.active {
			continue
		}
		if !b.autoSleep ||
			b.angularVelocity*b.angularVelocity > angularSleepToleranceSq ||
			b.linearVelocity.LengthSquared() > linearSleepToleranceSq {
			b.sleepTime = 0
			continue
		}
		b.sleepTime += dt
		if b.sleepTime >= timeToSleep {
			b.SetAwake(false)
		}
	}
}

// updateContacts refreshes the contact graph from the broad phase. Only the
// default manager and broad phase pair automatically; external collaborators
// drive their own pair pipelines.
func (w *World) updateContacts() {
	graph, ok := w.contactManager.(*ContactGraph)
	if !ok {
		return
	}
	brute, ok := w.broadPhase.(*BruteBroadPhase)
	if !ok {
		return
	}

	// Drop contacts whose filter went stale or whose proxies separated.
	for _, c := range append([]*Contact(nil), graph.contacts...) {
		fa, fb := c.FixtureA, c.FixtureB
		if c.NeedsFiltering() {
			if !fa.body.ShouldCollide(fb.body) || !fa.filter.ShouldCollide(fb.filter) {
				graph.Destroy(c)
				continue
			}
			c.filterStale = false
		}
		if len(fa.proxies) == 0 || len(fb.proxies) == 0 {
			graph.Destroy(c)
			continue
		}
		if !fa.proxies[0].AABB.Overlaps(fb.proxies[0].AABB) {
			graph.Destroy(c)
		}
	}

	brute.QueryPairs(func(a, b any) {
		pa := a.(*FixtureProxy)
		pb := b.(*FixtureProxy)
		fa, fb := pa.Fixture, pb.Fixture
		if fa.body == fb.body {
			return
		}
		if !fa.body.ShouldCollide(fb.body) {
			return
		}
		if !fa.filter.ShouldCollide(fb.filter) {
			return
		}
		for _, c := range graph.contacts {
			if (c.FixtureA == fa && c.FixtureB == fb) || (c.FixtureA == fb && c.FixtureB == fa) {
				return
			}
		}
		graph.Add(fa, fb)
	})
	brute.ClearMoved()
}
