package mass

import (
	"github.com/akmonengine/heft/logging"
	"github.com/google/uuid"
)

// Resolver translates a host object into a leaf. It reports false when the
// object is not one it knows.
type Resolver[V Vector[V]] func(target any) (Leaf[V], bool)

// Graph is the mass-aggregation service of one simulation world: it owns the
// body to node registry and the search session shared by every query made on
// its nodes. A Graph is not safe for concurrent use.
type Graph[V Vector[V]] struct {
	Settings Settings[V]

	logger    logging.Logger
	registry  map[Body[V]]*Node[V]
	nodes     map[uuid.UUID]*Node[V]
	resolvers []Resolver[V]
	session   *search[V]
}

func NewGraph[V Vector[V]](settings Settings[V], logger logging.Logger) *Graph[V] {
	return &Graph[V]{
		Settings: settings.withDefaults(),
		logger:   logging.OrNop(logger),
		registry: make(map[Body[V]]*Node[V]),
		nodes:    make(map[uuid.UUID]*Node[V]),
	}
}

func (g *Graph[V]) Logger() logging.Logger {
	return g.logger
}

// Configure replaces the settings between queries. Zero fields fall back to
// the defaults.
func (g *Graph[V]) Configure(settings Settings[V]) {
	g.Settings = settings.withDefaults()
}

// NewNode creates a node owning body and registers it. A nil body gives a
// node with no mass of its own. Edges other nodes hold to body as a plain
// body move to the new node.
func (g *Graph[V]) NewNode(body Body[V]) *Node[V] {
	n := newNode(g, body)
	g.nodes[n.ID] = n
	if body != nil {
		g.register(body, n)
		g.adopt(body, n)
	}
	g.logger.Debugf("mass: node %s created", n.ID)
	return n
}

// adopt turns the plain body edges and contacts of body into edges to n.
func (g *Graph[V]) adopt(body Body[V], n *Node[V]) {
	for _, other := range g.nodes {
		if other == n {
			continue
		}
		if _, ok := other.joinedBodies[body]; ok {
			delete(other.joinedBodies, body)
			other.joinedCombos[n] = struct{}{}
		}
		if colliders, ok := other.collisionBodies[body]; ok {
			delete(other.collisionBodies, body)
			for collider, normal := range colliders {
				other.collisionCombos.set(n, collider, normal)
			}
		}
	}
}

func (g *Graph[V]) register(body Body[V], n *Node[V]) {
	if body == nil {
		g.logger.Warnf("mass: refusing to register a nil body")
		return
	}
	g.registry[body] = n
}

// Destroy deregisters the node and drops every edge other nodes hold to it.
func (g *Graph[V]) Destroy(n *Node[V]) {
	if n == nil || n.destroyed {
		return
	}
	n.destroyed = true
	if n.body != nil && g.registry[n.body] == n {
		delete(g.registry, n.body)
	}
	delete(g.nodes, n.ID)
	for _, other := range g.nodes {
		delete(other.joinedCombos, n)
		delete(other.collisionCombos, n)
	}
	g.logger.Debugf("mass: node %s destroyed", n.ID)
}

// Lookup returns the node owning body.
func (g *Graph[V]) Lookup(body Body[V]) (*Node[V], bool) {
	if body == nil {
		return nil, false
	}
	n, ok := g.registry[body]
	return n, ok
}

// NodeByID returns the live node with the given identity, bodyless nodes
// included.
func (g *Graph[V]) NodeByID(id uuid.UUID) (*Node[V], bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of registered nodes.
func (g *Graph[V]) Len() int {
	return len(g.registry)
}

// AddResolver installs a host resolver. Resolvers run in order before the
// built-in resolution of *Node, Body and *Anchor values.
func (g *Graph[V]) AddResolver(r Resolver[V]) {
	if r != nil {
		g.resolvers = append(g.resolvers, r)
	}
}

// Resolve turns target into a leaf, preferring a node, then a body, then an
// anchor.
func (g *Graph[V]) Resolve(target any) Leaf[V] {
	if target == nil {
		return Leaf[V]{}
	}
	for _, r := range g.resolvers {
		if leaf, ok := r(target); ok {
			return g.promote(leaf)
		}
	}

	switch t := target.(type) {
	case *Node[V]:
		return NodeLeaf(t)
	case Leaf[V]:
		return g.promote(t)
	case Body[V]:
		return g.promote(BodyLeaf(t))
	case *Anchor:
		return StaticLeaf[V](t)
	}
	return Leaf[V]{}
}

// promote upgrades a body leaf to a node leaf when the body owns a node.
func (g *Graph[V]) promote(leaf Leaf[V]) Leaf[V] {
	if leaf.Kind != LeafBody {
		return leaf
	}
	if n, ok := g.Lookup(leaf.Body); ok {
		return NodeLeaf(n)
	}
	return leaf
}

// effective returns the mass a body weighs in with, kinematic bodies counting
// as the kinematic mass.
func (g *Graph[V]) effective(b Body[V]) tally {
	if b.IsKinematic() {
		return tally{kinematic: g.Settings.KinematicMass}
	}
	return tally{dynamic: b.Mass()}
}

// EffectiveMass returns the mass body weighs in with, or 0 for a dead body.
func (g *Graph[V]) EffectiveMass(body Body[V]) float64 {
	if !alive(body) {
		return 0
	}
	return g.effective(body).total()
}
