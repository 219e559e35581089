package vmath

// AABB is an axis-aligned bounding box.
type AABB struct {
	Lower, Upper Vec2
}

// Union returns the smallest AABB containing both a and other.
func (a AABB) Union(other AABB) AABB {
	return AABB{
		Lower: Vec2{min(a.Lower.X, other.Lower.X), min(a.Lower.Y, other.Lower.Y)},
		Upper: Vec2{max(a.Upper.X, other.Upper.X), max(a.Upper.Y, other.Upper.Y)},
	}
}

// Extend returns a grown by the margin on every side.
func (a AABB) Extend(margin float64) AABB {
	m := Vec2{margin, margin}
	return AABB{Lower: a.Lower.Sub(m), Upper: a.Upper.Add(m)}
}

// Contains reports whether other lies fully inside a.
func (a AABB) Contains(other AABB) bool {
	return a.Lower.X <= other.Lower.X &&
		a.Lower.Y <= other.Lower.Y &&
		other.Upper.X <= a.Upper.X &&
		other.Upper.Y <= a.Upper.Y
}

// Overlaps reports whether a and other intersect.
func (a AABB) Overlaps(other AABB) bool {
	return a.Lower.X <= other.Upper.X && other.Lower.X <= a.Upper.X &&
		a.Lower.Y <= other.Upper.Y && other.Lower.Y <= a.Upper.Y
}

// Center returns the midpoint of the box.
func (a AABB) Center() Vec2 {
	return a.Lower.Add(a.Upper).Scale(0.5)
}

// Perimeter returns the total edge length of the box.
func (a AABB) Perimeter() float64 {
	return 2 * ((a.Upper.X - a.Lower.X) + (a.Upper.Y - a.Lower.Y))
}
