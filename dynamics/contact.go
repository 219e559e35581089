package dynamics

// Contact records that two fixtures' proxies overlap. Narrow-phase manifold
// generation and solving happen outside the kernel; the kernel only tracks
// the link so it can cascade destruction correctly.
type Contact struct {
	FixtureA *Fixture
	FixtureB *Fixture

	filterStale bool
}

// BodyA returns the body owning FixtureA.
func (c *Contact) BodyA() *Body { return c.FixtureA.body }

// BodyB returns the body owning FixtureB.
func (c *Contact) BodyB() *Body { return c.FixtureB.body }

// Other returns the body on the far side of the contact from body.
func (c *Contact) Other(body *Body) *Body {
	if c.BodyA() == body {
		return c.BodyB()
	}
	return c.BodyA()
}

// FlagForFiltering marks the contact for filter re-evaluation on the next
// pair update.
func (c *Contact) FlagForFiltering() { c.filterStale = true }

// NeedsFiltering reports whether the contact was flagged for filtering.
func (c *Contact) NeedsFiltering() bool { return c.filterStale }

// ContactEdge links a body to one of its contacts. Edges live in slices
// owned by each body; the contact itself is owned by the contact manager.
type ContactEdge struct {
	Other   *Body
	Contact *Contact
}

// ContactManager owns contact lifetimes. The kernel only ever asks it to
// destroy; creation is driven by broad-phase pair queries outside the body.
type ContactManager interface {
	// Destroy removes the contact from every list it participates in,
	// including both bodies' contact edges.
	Destroy(c *Contact)
}

// ContactGraph is the default contact manager: a flat list of contacts
// with edges mirrored onto both bodies.
type ContactGraph struct {
	contacts []*Contact
}

// NewContactGraph returns an empty contact graph.
func NewContactGraph() *ContactGraph {
	return &ContactGraph{}
}

// Add registers a contact between two fixtures and links an edge onto both
// bodies. It does not check ShouldCollide; callers pair-filter first.
func (g *ContactGraph) Add(a, b *Fixture) *Contact {
	c := &Contact{FixtureA: a, FixtureB: b}
	g.contacts = append(g.contacts, c)
	bodyA, bodyB := a.body, b.body
	bodyA.contactEdges = append(bodyA.contactEdges, &ContactEdge{Other: bodyB, Contact: c})
	bodyB.contactEdges = append(bodyB.contactEdges, &ContactEdge{Other: bodyA, Contact: c})
	return c
}

// Destroy removes the contact from the graph and from both bodies.
func (g *ContactGraph) Destroy(c *Contact) {
	for i, existing := range g.contacts {
		if existing == c {
			g.contacts = append(g.contacts[:i], g.contacts[i+1:]...)
			break
		}
	}
	removeContactEdge(c.BodyA(), c)
	removeContactEdge(c.BodyB(), c)
}

// Count returns the number of live contacts.
func (g *ContactGraph) Count() int { return len(g.contacts) }

// Contacts returns the live contacts. The slice is owned by the graph.
func (g *ContactGraph) Contacts() []*Contact { return g.contacts }

func removeContactEdge(body *Body, c *Contact) {
	for i, edge := range body.contactEdges {
		if edge.Contact == c {
			body.contactEdges = append(body.contactEdges[:i], body.contactEdges[i+1:]...)
			return
		}
	}
}
