package dynamics

import (
	"errors"
	"testing"

	"github.com/milk9111/rigid2d/vmath"
)

func TestWorldBodyLifecycle(t *testing.T) {
	t.Run("create_and_lookup", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b := mustCreateBody(t, w, NewBodyDef())
		got, ok := w.Body(b.Handle())
		if !ok || got != b {
			t.Fatalf("lookup failed for live handle")
		}
		if w.BodyCount() != 1 {
			t.Fatalf("expected 1 body, got %d", w.BodyCount())
		}
	})

	t.Run("destroyed_handle_goes_stale", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b := mustCreateBody(t, w, NewBodyDef())
		h := b.Handle()
		if err := w.DestroyBody(b); err != nil {
			t.Fatalf("DestroyBody: %v", err)
		}
		if _, ok := w.Body(h); ok {
			t.Fatalf("stale handle resolved")
		}
		if w.BodyCount() != 0 {
			t.Fatalf("expected 0 bodies, got %d", w.BodyCount())
		}
	})

	t.Run("slot_reuse_does_not_resurrect_handle", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b1 := mustCreateBody(t, w, NewBodyDef())
		h1 := b1.Handle()
		if err := w.DestroyBody(b1); err != nil {
			t.Fatal(err)
		}

		b2 := mustCreateBody(t, w, NewBodyDef())
		if b2.Handle().index() != h1.index() {
			t.Fatalf("expected slot reuse, got index %d vs %d", b2.Handle().index(), h1.index())
		}
		if b2.Handle() == h1 {
			t.Fatalf("reused slot produced identical handle")
		}
		if _, ok := w.Body(h1); ok {
			t.Fatalf("old handle resolved to new body")
		}
		if got, ok := w.Body(b2.Handle()); !ok || got != b2 {
			t.Fatalf("new handle did not resolve")
		}
	})

	t.Run("destroy_cascades_joints_contacts_fixtures", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		bp := w.BroadPhase().(*BruteBroadPhase)
		a := newDynamicBody(t, w)
		b := newDynamicBody(t, w)
		fa, _ := a.CreateFixture(&Circle{Radius: 1}, 1)
		fb, _ := b.CreateFixture(&Circle{Radius: 1}, 1)

		graph := w.ContactManager().(*ContactGraph)
		graph.Add(fa, fb)
		j := &stubJoint{}
		Attach(j, a, b)

		if err := w.DestroyBody(a); err != nil {
			t.Fatal(err)
		}
		if graph.Count() != 0 {
			t.Fatalf("destroy kept contacts")
		}
		if len(b.JointEdges()) != 0 {
			t.Fatalf("destroy left a joint edge on the other body")
		}
		if len(b.ContactEdges()) != 0 {
			t.Fatalf("destroy left a contact edge on the other body")
		}
		if bp.ProxyCount() != 1 {
			t.Fatalf("expected 1 proxy left, got %d", bp.ProxyCount())
		}
	})
}

func TestLockedWorldRejectsMutation(t *testing.T) {
	w := NewWorld(vmath.Vec2{})
	b := newDynamicBody(t, w)
	f, err := b.CreateFixture(&Circle{Radius: 1}, 1)
	if err != nil {
		t.Fatal(err)
	}

	w.locked = true
	defer func() { w.locked = false }()

	cases := []struct {
		name string
		call func() error
	}{
		{"create_body", func() error { _, err := w.CreateBody(NewBodyDef()); return err }},
		{"destroy_body", func() error { return w.DestroyBody(b) }},
		{"set_type", func() error { return b.SetType(StaticBody) }},
		{"create_fixture", func() error { _, err := b.CreateFixture(&Circle{Radius: 1}, 1); return err }},
		{"destroy_fixture", func() error { return b.DestroyFixture(f) }},
		{"set_transform", func() error { return b.SetTransform(vmath.Vec2{X: 1}, 0) }},
		{"set_mass_data", func() error { return b.SetMassData(MassData{Mass: 1}) }},
		{"set_active", func() error { return b.SetActive(false) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.call(); !errors.Is(err, ErrLocked) {
				t.Fatalf("expected ErrLocked, got %v", err)
			}
		})
	}
}

func TestStepIntegration(t *testing.T) {
	t.Run("gravity_free_fall", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{Y: -10})
		b := newDynamicBody(t, w)

		dt := 0.1
		w.Step(dt)

		// Semi-implicit Euler: velocity first, then position.
		if !approxVec(b.LinearVelocity(), (vmath.Vec2{Y: -1})) {
			t.Fatalf("expected velocity (0,-1), got %v", b.LinearVelocity())
		}
		if !approxVec(b.Position(), (vmath.Vec2{Y: -0.1})) {
			t.Fatalf("expected position (0,-0.1), got %v", b.Position())
		}
	})

	t.Run("gravity_scale", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{Y: -10})
		def := NewBodyDef()
		def.Type = DynamicBody
		def.GravityScale = 0
		b := mustCreateBody(t, w, def)

		w.Step(0.1)
		if !b.LinearVelocity().IsZero() {
			t.Fatalf("zero gravity scale still accelerated: %v", b.LinearVelocity())
		}
	})

	t.Run("static_body_does_not_move", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{Y: -10})
		b := mustCreateBody(t, w, NewBodyDef())
		w.Step(0.1)
		if !b.Position().IsZero() {
			t.Fatalf("static body moved to %v", b.Position())
		}
	})

	t.Run("kinematic_ignores_gravity_but_moves", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{Y: -10})
		def := NewBodyDef()
		def.Type = KinematicBody
		def.LinearVelocity = vmath.Vec2{X: 2}
		b := mustCreateBody(t, w, def)

		w.Step(0.5)
		if !approxVec(b.LinearVelocity(), (vmath.Vec2{X: 2})) {
			t.Fatalf("kinematic velocity changed: %v", b.LinearVelocity())
		}
		if !approxVec(b.Position(), (vmath.Vec2{X: 1})) {
			t.Fatalf("expected position (1,0), got %v", b.Position())
		}
	})

	t.Run("forces_cleared_after_step", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b := newDynamicBody(t, w)
		b.ApplyForceToCenter(vmath.Vec2{X: 10}, true)

		w.Step(0.1)
		if !b.Force().IsZero() || b.Torque() != 0 {
			t.Fatalf("loads survived the step")
		}
		// The force acted for exactly one step.
		v := b.LinearVelocity()
		w.Step(0.1)
		if !approxVec(b.LinearVelocity(), v) {
			t.Fatalf("cleared force still accelerating: %v vs %v", b.LinearVelocity(), v)
		}
	})

	t.Run("torque_spins", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b := newDynamicBody(t, w)
		if _, err := b.CreateFixture(&constShape{md: MassData{Mass: 2, I: 0.5}, extent: 1}, 1); err != nil {
			t.Fatal(err)
		}
		b.ApplyTorque(1, true)

		w.Step(0.1)
		// omega = dt * invI * torque = 0.1 * 2 * 1.
		if !approx(b.AngularVelocity(), 0.2) {
			t.Fatalf("expected omega 0.2, got %v", b.AngularVelocity())
		}
	})

	t.Run("linear_damping_decays_velocity", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		def := NewBodyDef()
		def.Type = DynamicBody
		def.LinearVelocity = vmath.Vec2{X: 10}
		def.LinearDamping = 1
		b := mustCreateBody(t, w, def)

		w.Step(0.5)
		// v *= 1/(1 + dt*d)
		if !approxVec(b.LinearVelocity(), (vmath.Vec2{X: 10.0 / 1.5})) {
			t.Fatalf("expected damped velocity %v, got %v", 10.0/1.5, b.LinearVelocity().X)
		}
	})

	t.Run("translation_capped_per_step", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		def := NewBodyDef()
		def.Type = DynamicBody
		def.LinearVelocity = vmath.Vec2{X: 1000}
		def.AllowSleep = false
		b := mustCreateBody(t, w, def)

		w.Step(1)
		if b.Position().X > maxTranslation+eps {
			t.Fatalf("body moved %v in one step, cap is %v", b.Position().X, maxTranslation)
		}
	})

	t.Run("sleeping_body_stays_put", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{Y: -10})
		b := newDynamicBody(t, w)
		b.SetAwake(false)
		w.Step(0.1)
		if !b.Position().IsZero() {
			t.Fatalf("sleeping body moved to %v", b.Position())
		}
	})

	t.Run("zero_dt_is_a_no_op", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{Y: -10})
		b := newDynamicBody(t, w)
		w.Step(0)
		if !b.Position().IsZero() || !b.LinearVelocity().IsZero() {
			t.Fatalf("zero dt changed state")
		}
	})
}

func TestSleepPolicy(t *testing.T) {
	t.Run("resting_body_falls_asleep", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b := newDynamicBody(t, w)

		for i := 0; i < 4; i++ {
			w.Step(0.1)
		}
		if !b.IsAwake() {
			t.Fatalf("fell asleep before the sleep time elapsed")
		}
		w.Step(0.1)
		if b.IsAwake() {
			t.Fatalf("resting body never fell asleep")
		}
	})

	t.Run("moving_body_stays_awake", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		def := NewBodyDef()
		def.Type = DynamicBody
		def.LinearVelocity = vmath.Vec2{X: 1}
		b := mustCreateBody(t, w, def)

		for i := 0; i < 20; i++ {
			w.Step(0.1)
		}
		if !b.IsAwake() {
			t.Fatalf("moving body fell asleep")
		}
	})

	t.Run("sleep_disallowed_keeps_body_awake", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		def := NewBodyDef()
		def.Type = DynamicBody
		def.AllowSleep = false
		b := mustCreateBody(t, w, def)

		for i := 0; i < 20; i++ {
			w.Step(0.1)
		}
		if !b.IsAwake() {
			t.Fatalf("body slept with sleep disallowed")
		}
	})

	t.Run("impulse_wakes_sleeping_body", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		b := newDynamicBody(t, w)
		for i := 0; i < 6; i++ {
			w.Step(0.1)
		}
		if b.IsAwake() {
			t.Fatalf("body should be asleep")
		}

		b.ApplyLinearImpulseToCenter(vmath.Vec2{X: 1}, true)
		if !b.IsAwake() {
			t.Fatalf("impulse did not wake the body")
		}
	})
}

func TestContactPairing(t *testing.T) {
	overlappingPair := func(t *testing.T, w *World) (*Body, *Body) {
		t.Helper()
		a := newDynamicBody(t, w)
		def := NewBodyDef()
		def.Position = vmath.Vec2{X: 0.5}
		b := mustCreateBody(t, w, def)
		if _, err := a.CreateFixture(&Circle{Radius: 1}, 1); err != nil {
			t.Fatal(err)
		}
		if _, err := b.CreateFixture(&Circle{Radius: 1}, 0); err != nil {
			t.Fatal(err)
		}
		return a, b
	}

	t.Run("contact_appears_on_next_step", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		overlappingPair(t, w)
		graph := w.ContactManager().(*ContactGraph)

		if graph.Count() != 0 {
			t.Fatalf("contact existed before any step")
		}
		w.Step(0.01)
		if graph.Count() != 1 {
			t.Fatalf("expected 1 contact after step, got %d", graph.Count())
		}
	})

	t.Run("no_duplicate_pairs", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a, _ := overlappingPair(t, w)
		graph := w.ContactManager().(*ContactGraph)

		w.Step(0.01)
		// Keep the body moving so its proxy stays in the moved set.
		a.SetLinearVelocity(vmath.Vec2{X: 0.01})
		w.Step(0.01)
		w.Step(0.01)
		if graph.Count() != 1 {
			t.Fatalf("expected 1 contact, got %d", graph.Count())
		}
	})

	t.Run("separation_destroys_contact", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a, _ := overlappingPair(t, w)
		graph := w.ContactManager().(*ContactGraph)

		w.Step(0.01)
		if graph.Count() != 1 {
			t.Fatalf("expected 1 contact, got %d", graph.Count())
		}

		if err := a.SetTransform(vmath.Vec2{X: 100}, 0); err != nil {
			t.Fatal(err)
		}
		w.Step(0.01)
		if graph.Count() != 0 {
			t.Fatalf("separated contact survived")
		}
	})

	t.Run("static_pair_never_pairs", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a := mustCreateBody(t, w, NewBodyDef())
		b := mustCreateBody(t, w, NewBodyDef())
		if _, err := a.CreateFixture(&Circle{Radius: 1}, 0); err != nil {
			t.Fatal(err)
		}
		if _, err := b.CreateFixture(&Circle{Radius: 1}, 0); err != nil {
			t.Fatal(err)
		}

		w.Step(0.01)
		if w.ContactManager().(*ContactGraph).Count() != 0 {
			t.Fatalf("two static bodies paired")
		}
	})

	t.Run("negative_group_suppresses_pair", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a := newDynamicBody(t, w)
		b := newDynamicBody(t, w)

		def := NewFixtureDef(&Circle{Radius: 1}, 1)
		def.Filter.Group = -3
		if _, err := a.CreateFixtureFromDef(def); err != nil {
			t.Fatal(err)
		}
		if _, err := b.CreateFixtureFromDef(def); err != nil {
			t.Fatal(err)
		}

		w.Step(0.01)
		if w.ContactManager().(*ContactGraph).Count() != 0 {
			t.Fatalf("negative group pair collided")
		}
	})

	t.Run("refilter_destroys_now_incompatible_contact", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a, _ := overlappingPair(t, w)
		graph := w.ContactManager().(*ContactGraph)

		w.Step(0.01)
		if graph.Count() != 1 {
			t.Fatalf("expected 1 contact, got %d", graph.Count())
		}

		f := a.Fixtures()[0]
		f.SetFilterData(Filter{Category: 0x0002, Mask: 0x0002})
		w.Step(0.01)
		if graph.Count() != 0 {
			t.Fatalf("incompatible contact survived refilter")
		}
	})

	t.Run("joint_suppresses_pair", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a, b := overlappingPair(t, w)
		Attach(&stubJoint{collide: false}, a, b)

		w.Step(0.01)
		if w.ContactManager().(*ContactGraph).Count() != 0 {
			t.Fatalf("joined pair collided")
		}
	})

	t.Run("deactivation_and_reactivation", func(t *testing.T) {
		w := NewWorld(vmath.Vec2{})
		a, _ := overlappingPair(t, w)
		graph := w.ContactManager().(*ContactGraph)

		w.Step(0.01)
		if err := a.SetActive(false); err != nil {
			t.Fatal(err)
		}
		if graph.Count() != 0 {
			t.Fatalf("deactivation kept contacts")
		}

		if err := a.SetActive(true); err != nil {
			t.Fatal(err)
		}
		w.Step(0.01)
		if graph.Count() != 1 {
			t.Fatalf("reactivated pair did not reform, got %d", graph.Count())
		}
	})
}

func TestStepPanicsOnRecursion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on recursive step")
		}
	}()
	w := NewWorld(vmath.Vec2{})
	w.locked = true
	w.Step(0.1)
}
