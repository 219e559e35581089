package vmath

import "math"

// Rot is a 2D rotation stored as sine and cosine so repeated pose math
// avoids trig calls.
type Rot struct {
	Sin, Cos float64
}

// NewRot returns the rotation for the given angle in radians.
func NewRot(angle float64) Rot {
	return Rot{Sin: math.Sin(angle), Cos: math.Cos(angle)}
}

// IdentityRot returns the zero rotation.
func IdentityRot() Rot {
	return Rot{Sin: 0, Cos: 1}
}

// Angle returns the rotation angle in radians.
func (q Rot) Angle() float64 {
	return math.Atan2(q.Sin, q.Cos)
}

// Apply rotates v by q.
func (q Rot) Apply(v Vec2) Vec2 {
	return Vec2{q.Cos*v.X - q.Sin*v.Y, q.Sin*v.X + q.Cos*v.Y}
}

// ApplyT rotates v by the inverse of q.
func (q Rot) ApplyT(v Vec2) Vec2 {
	return Vec2{q.Cos*v.X + q.Sin*v.Y, -q.Sin*v.X + q.Cos*v.Y}
}

// Transform is a rigid 2D pose: a translation and a rotation.
type Transform struct {
	P Vec2
	Q Rot
}

// NewTransform returns the pose at position p with the given angle.
func NewTransform(p Vec2, angle float64) Transform {
	return Transform{P: p, Q: NewRot(angle)}
}

// IdentityTransform returns the identity pose.
func IdentityTransform() Transform {
	return Transform{Q: IdentityRot()}
}

// Apply maps a local point to world space.
func (t Transform) Apply(v Vec2) Vec2 {
	return Vec2{
		t.Q.Cos*v.X - t.Q.Sin*v.Y + t.P.X,
		t.Q.Sin*v.X + t.Q.Cos*v.Y + t.P.Y,
	}
}

// ApplyT maps a world point to local space.
func (t Transform) ApplyT(v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vec2{t.Q.Cos*px + t.Q.Sin*py, -t.Q.Sin*px + t.Q.Cos*py}
}
