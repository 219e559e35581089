package dynamics

// Joint is the kernel-facing surface of a constraint. Joint implementations
// live outside the kernel; the body only needs to know whether a joint
// allows its two bodies to collide.
type Joint interface {
	// CollideConnected reports whether the joined bodies may still
	// generate contacts against each other.
	CollideConnected() bool
}

// JointEdge links a body to a joint and to the body on the other end.
// Edges live in slices owned by each body; the joint itself is owned by
// whatever attached it.
type JointEdge struct {
	Other *Body
	Joint Joint
}

// Attach links a joint between two bodies by appending an edge to each.
// The caller keeps ownership of the joint.
func Attach(j Joint, a, b *Body) {
	a.jointEdges = append(a.jointEdges, &JointEdge{Other: b, Joint: j})
	b.jointEdges = append(b.jointEdges, &JointEdge{Other: a, Joint: j})
}

// Detach removes the joint's edges from both bodies.
func Detach(j Joint, a, b *Body) {
	removeJointEdge(a, j)
	removeJointEdge(b, j)
}

func removeJointEdge(body *Body, j Joint) {
	for i, edge := range body.jointEdges {
		if edge.Joint == j {
			body.jointEdges = append(body.jointEdges[:i], body.jointEdges[i+1:]...)
			return
		}
	}
}
