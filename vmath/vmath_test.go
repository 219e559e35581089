package vmath

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func approxVec(a, b Vec2) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}

func TestVec2Ops(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "add_sub_roundtrip",
			run: func(t *testing.T) {
				a := Vec2{X: 1, Y: 2}
				b := Vec2{X: -3, Y: 0.5}
				if got := a.Add(b).Sub(b); !approxVec(got, a) {
					t.Fatalf("expected %v, got %v", a, got)
				}
			},
		},
		{
			name: "cross_is_antisymmetric",
			run: func(t *testing.T) {
				a := Vec2{X: 2, Y: 3}
				b := Vec2{X: -1, Y: 4}
				if !approx(a.Cross(b), -b.Cross(a)) {
					t.Fatalf("cross not antisymmetric: %v vs %v", a.Cross(b), b.Cross(a))
				}
			},
		},
		{
			name: "cross_scalar_vector_is_perpendicular",
			run: func(t *testing.T) {
				v := Vec2{X: 3, Y: -2}
				got := CrossSV(2, v)
				if !approx(got.Dot(v), 0) {
					t.Fatalf("CrossSV result not perpendicular: dot = %v", got.Dot(v))
				}
				if !approx(got.Length(), 2*v.Length()) {
					t.Fatalf("CrossSV length mismatch: %v vs %v", got.Length(), 2*v.Length())
				}
			},
		},
		{
			name: "normalized_has_unit_length",
			run: func(t *testing.T) {
				v := Vec2{X: 3, Y: 4}
				if got := v.Normalized().Length(); !approx(got, 1) {
					t.Fatalf("expected unit length, got %v", got)
				}
			},
		},
		{
			name: "zero_normalizes_to_zero",
			run: func(t *testing.T) {
				if got := (Vec2{}).Normalized(); !got.IsZero() {
					t.Fatalf("expected zero, got %v", got)
				}
			},
		},
		{
			name: "nan_is_invalid",
			run: func(t *testing.T) {
				if (Vec2{X: math.NaN()}).IsValid() {
					t.Fatalf("NaN vector should not be valid")
				}
				if (Vec2{Y: math.Inf(1)}).IsValid() {
					t.Fatalf("Inf vector should not be valid")
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}

func TestTransformRoundtrip(t *testing.T) {
	cases := []struct {
		name  string
		pos   Vec2
		angle float64
		point Vec2
	}{
		{"identity", Vec2{}, 0, Vec2{X: 1, Y: 2}},
		{"translation", Vec2{X: 5, Y: -3}, 0, Vec2{X: 1, Y: 2}},
		{"quarter_turn", Vec2{}, math.Pi / 2, Vec2{X: 1, Y: 0}},
		{"full_pose", Vec2{X: -2, Y: 7}, 1.3, Vec2{X: 0.5, Y: -4}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			xf := NewTransform(c.pos, c.angle)
			if got := xf.ApplyT(xf.Apply(c.point)); !approxVec(got, c.point) {
				t.Fatalf("roundtrip mismatch: expected %v, got %v", c.point, got)
			}
		})
	}
}

func TestRotQuarterTurn(t *testing.T) {
	q := NewRot(math.Pi / 2)
	got := q.Apply(Vec2{X: 1, Y: 0})
	if !approxVec(got, Vec2{X: 0, Y: 1}) {
		t.Fatalf("expected (0,1), got %v", got)
	}
	if !approx(q.Angle(), math.Pi/2) {
		t.Fatalf("expected pi/2, got %v", q.Angle())
	}
}

func TestSweepTransformInterpolation(t *testing.T) {
	s := Sweep{
		C0: Vec2{X: 0, Y: 0},
		C:  Vec2{X: 2, Y: 0},
	}

	cases := []struct {
		name string
		beta float64
		want Vec2
	}{
		{"start", 0, Vec2{X: 0, Y: 0}},
		{"midpoint", 0.5, Vec2{X: 1, Y: 0}},
		{"end", 1, Vec2{X: 2, Y: 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			xf := s.Transform(c.beta)
			if !approxVec(xf.P, c.want) {
				t.Fatalf("expected %v, got %v", c.want, xf.P)
			}
		})
	}
}

func TestSweepAdvance(t *testing.T) {
	t.Run("midpoint", func(t *testing.T) {
		s := Sweep{
			C0: Vec2{X: 0, Y: 0},
			C:  Vec2{X: 2, Y: 0},
			A0: 0,
			A:  1,
		}
		s.Advance(0.5)
		if !approxVec(s.C0, (Vec2{X: 1, Y: 0})) {
			t.Fatalf("expected C0 (1,0), got %v", s.C0)
		}
		if !approx(s.A0, 0.5) {
			t.Fatalf("expected A0 0.5, got %v", s.A0)
		}
		if !approx(s.Alpha0, 0.5) {
			t.Fatalf("expected Alpha0 0.5, got %v", s.Alpha0)
		}
		// The end pose is untouched.
		if !approxVec(s.C, (Vec2{X: 2, Y: 0})) || !approx(s.A, 1) {
			t.Fatalf("end pose changed: C=%v A=%v", s.C, s.A)
		}
	})

	t.Run("compound_advance", func(t *testing.T) {
		s := Sweep{
			C0: Vec2{X: 0, Y: 0},
			C:  Vec2{X: 4, Y: 0},
		}
		s.Advance(0.25)
		s.Advance(0.75)
		// Second advance interpolates over the remaining span.
		if !approxVec(s.C0, (Vec2{X: 3, Y: 0})) {
			t.Fatalf("expected C0 (3,0), got %v", s.C0)
		}
	})

	t.Run("backwards_advance_panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic for alpha before Alpha0")
			}
		}()
		s := Sweep{}
		s.Advance(0.5)
		s.Advance(0.25)
	})
}

func TestSweepNormalize(t *testing.T) {
	s := Sweep{A0: 3 * math.Pi, A: 3*math.Pi + 0.5}
	s.Normalize()
	if s.A0 < 0 || s.A0 >= 2*math.Pi {
		t.Fatalf("A0 not normalized: %v", s.A0)
	}
	// The relative rotation is preserved.
	if !approx(s.A-s.A0, 0.5) {
		t.Fatalf("relative angle changed: %v", s.A-s.A0)
	}
}

func TestAABB(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "union_covers_both",
			run: func(t *testing.T) {
				a := AABB{Lower: Vec2{X: 0, Y: 0}, Upper: Vec2{X: 1, Y: 1}}
				b := AABB{Lower: Vec2{X: 2, Y: -1}, Upper: Vec2{X: 3, Y: 0.5}}
				u := a.Union(b)
				if !u.Contains(a) || !u.Contains(b) {
					t.Fatalf("union %v does not contain both inputs", u)
				}
			},
		},
		{
			name: "overlap_detection",
			run: func(t *testing.T) {
				a := AABB{Lower: Vec2{X: 0, Y: 0}, Upper: Vec2{X: 2, Y: 2}}
				b := AABB{Lower: Vec2{X: 1, Y: 1}, Upper: Vec2{X: 3, Y: 3}}
				c := AABB{Lower: Vec2{X: 5, Y: 5}, Upper: Vec2{X: 6, Y: 6}}
				if !a.Overlaps(b) {
					t.Fatalf("expected a and b to overlap")
				}
				if a.Overlaps(c) {
					t.Fatalf("did not expect a and c to overlap")
				}
			},
		},
		{
			name: "extend_grows_symmetrically",
			run: func(t *testing.T) {
				a := AABB{Lower: Vec2{X: 0, Y: 0}, Upper: Vec2{X: 1, Y: 1}}
				e := a.Extend(0.5)
				if !approxVec(e.Lower, (Vec2{X: -0.5, Y: -0.5})) || !approxVec(e.Upper, (Vec2{X: 1.5, Y: 1.5})) {
					t.Fatalf("unexpected extended bounds: %v", e)
				}
				if !approxVec(e.Center(), a.Center()) {
					t.Fatalf("extend moved the center")
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}
