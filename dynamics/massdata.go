package dynamics

import "github.com/milk9111/rigid2d/vmath"

// MassData holds the mass properties of a shape or body: total mass,
// rotational inertia about the local origin, and the centroid in local
// coordinates.
type MassData struct {
	Mass   float64
	I      float64
	Center vmath.Vec2
}
