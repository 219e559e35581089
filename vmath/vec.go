package vmath

import "math"

// Vec2 is a 2D vector with float64 components.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{s * v.X, s * v.Y}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Dot returns the dot product of v and other.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the 2D cross product of v and other (a scalar).
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// CrossSV returns the cross product of scalar s and vector v,
// i.e. the vector perpendicular to v scaled by s.
func CrossSV(s float64, v Vec2) Vec2 {
	return Vec2{-s * v.Y, s * v.X}
}

// LengthSquared returns |v|^2.
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns |v|.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns v scaled to unit length, or the zero vector if v is
// too short to normalize.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length < 1e-12 {
		return Vec2{}
	}
	inv := 1.0 / length
	return Vec2{v.X * inv, v.Y * inv}
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsValid reports whether both components are finite numbers.
func (v Vec2) IsValid() bool {
	return IsValid(v.X) && IsValid(v.Y)
}

// IsValid reports whether f is a finite number.
func IsValid(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
