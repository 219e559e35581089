package dynamics

import (
	"math"

	"github.com/milk9111/rigid2d/vmath"
)

// Shape is the collision geometry a fixture binds to a body. Shapes supply
// their own mass formulas and bounds; the body never inspects geometry
// directly.
type Shape interface {
	// ChildCount returns how many broad-phase proxies the shape needs.
	ChildCount() int

	// ComputeMass returns the mass properties for the given density.
	// The inertia is about the body-local origin, not the centroid.
	ComputeMass(density float64) MassData

	// ComputeAABB returns the bounds of the given child under xf.
	ComputeAABB(xf vmath.Transform, child int) vmath.AABB

	// TestPoint reports whether the world point p is inside the shape
	// posed at xf.
	TestPoint(xf vmath.Transform, p vmath.Vec2) bool
}

// Circle is a circle shape with a body-local center offset.
type Circle struct {
	Center vmath.Vec2
	Radius float64
}

func (c *Circle) ChildCount() int { return 1 }

func (c *Circle) ComputeMass(density float64) MassData {
	mass := density * math.Pi * c.Radius * c.Radius
	return MassData{
		Mass:   mass,
		I:      mass * (0.5*c.Radius*c.Radius + c.Center.Dot(c.Center)),
		Center: c.Center,
	}
}

func (c *Circle) ComputeAABB(xf vmath.Transform, _ int) vmath.AABB {
	p := xf.Apply(c.Center)
	r := vmath.Vec2{X: c.Radius, Y: c.Radius}
	return vmath.AABB{Lower: p.Sub(r), Upper: p.Add(r)}
}

func (c *Circle) TestPoint(xf vmath.Transform, p vmath.Vec2) bool {
	d := p.Sub(xf.Apply(c.Center))
	return d.LengthSquared() <= c.Radius*c.Radius
}

// Box is a rectangle shape given by half extents around a body-local center.
type Box struct {
	HalfWidth, HalfHeight float64
	Center                vmath.Vec2
}

func (b *Box) ChildCount() int { return 1 }

func (b *Box) ComputeMass(density float64) MassData {
	mass := density * 4 * b.HalfWidth * b.HalfHeight
	// Inertia of a rectangle about its centroid, shifted to the local
	// origin by the parallel-axis theorem.
	centroidI := mass * (b.HalfWidth*b.HalfWidth + b.HalfHeight*b.HalfHeight) / 3.0
	return MassData{
		Mass:   mass,
		I:      centroidI + mass*b.Center.Dot(b.Center),
		Center: b.Center,
	}
}

func (b *Box) ComputeAABB(xf vmath.Transform, _ int) vmath.AABB {
	corners := [4]vmath.Vec2{
		{X: b.Center.X - b.HalfWidth, Y: b.Center.Y - b.HalfHeight},
		{X: b.Center.X + b.HalfWidth, Y: b.Center.Y - b.HalfHeight},
		{X: b.Center.X + b.HalfWidth, Y: b.Center.Y + b.HalfHeight},
		{X: b.Center.X - b.HalfWidth, Y: b.Center.Y + b.HalfHeight},
	}
	lower := xf.Apply(corners[0])
	upper := lower
	for _, c := range corners[1:] {
		p := xf.Apply(c)
		lower = vmath.Vec2{X: min(lower.X, p.X), Y: min(lower.Y, p.Y)}
		upper = vmath.Vec2{X: max(upper.X, p.X), Y: max(upper.Y, p.Y)}
	}
	return vmath.AABB{Lower: lower, Upper: upper}
}

func (b *Box) TestPoint(xf vmath.Transform, p vmath.Vec2) bool {
	local := xf.ApplyT(p).Sub(b.Center)
	return math.Abs(local.X) <= b.HalfWidth && math.Abs(local.Y) <= b.HalfHeight
}
