package vmath

import "math"

// Sweep describes the motion of a body's center of mass across one step.
// It holds the pose at the start of the step (C0, A0) and at the current
// integration point (C, A), plus Alpha0, the fraction of the step already
// consumed by continuous-collision advancement. Poses between the two
// brackets can be reconstructed for time-of-impact queries.
type Sweep struct {
	// LocalCenter is the center of mass in body-local coordinates.
	LocalCenter Vec2

	C0, C  Vec2    // center of mass at step start / current point
	A0, A  float64 // angle at step start / current point
	Alpha0 float64 // fraction of the step already consumed
}

// Transform returns the interpolated body-origin pose at fraction beta
// between the start and current sweep poses.
func (s Sweep) Transform(beta float64) Transform {
	p := s.C0.Scale(1 - beta).Add(s.C.Scale(beta))
	angle := (1-beta)*s.A0 + beta*s.A
	xf := Transform{P: p, Q: NewRot(angle)}
	// Shift from center of mass to body origin.
	xf.P = xf.P.Sub(xf.Q.Apply(s.LocalCenter))
	return xf
}

// Advance moves the start pose forward to fraction alpha, discarding the
// already-consumed portion of the step. alpha must be in [Alpha0, 1).
func (s *Sweep) Advance(alpha float64) {
	if s.Alpha0 >= 1 || alpha < s.Alpha0 {
		panic("vmath: sweep advance out of range")
	}
	beta := (alpha - s.Alpha0) / (1 - s.Alpha0)
	s.C0 = s.C0.Scale(1 - beta).Add(s.C.Scale(beta))
	s.A0 = (1-beta)*s.A0 + beta*s.A
	s.Alpha0 = alpha
}

// Normalize wraps the sweep angles so A0 lands in [0, 2*pi). Keeps the
// relative rotation between the two poses intact.
func (s *Sweep) Normalize() {
	twoPi := 2 * math.Pi
	d := twoPi * math.Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}
