package mass

import (
	"github.com/google/uuid"
)

// Node is a body taking part in mass aggregation, together with the edges to
// everything joined to it or currently touching it.
type Node[V Vector[V]] struct {
	// ID names the node in its graph; it must not change once created.
	ID uuid.UUID
	// AutoJoin makes Start join the connected end of every joint.
	AutoJoin bool

	graph     *Graph[V]
	body      Body[V]
	destroyed bool

	joinedStatics map[*Anchor]struct{}
	joinedBodies  map[Body[V]]struct{}
	joinedCombos  map[*Node[V]]struct{}

	collisionStatics contacts[*Anchor, V]
	collisionBodies  contacts[Body[V], V]
	collisionCombos  contacts[*Node[V], V]
}

func newNode[V Vector[V]](g *Graph[V], body Body[V]) *Node[V] {
	return &Node[V]{
		ID:               uuid.New(),
		AutoJoin:         true,
		graph:            g,
		body:             body,
		joinedStatics:    make(map[*Anchor]struct{}),
		joinedBodies:     make(map[Body[V]]struct{}),
		joinedCombos:     make(map[*Node[V]]struct{}),
		collisionStatics: make(contacts[*Anchor, V]),
		collisionBodies:  make(contacts[Body[V], V]),
		collisionCombos:  make(contacts[*Node[V], V]),
	}
}

func (n *Node[V]) Graph() *Graph[V] { return n.graph }

// Body returns the owned body, or nil.
func (n *Node[V]) Body() Body[V] { return n.body }

func (n *Node[V]) Destroyed() bool { return n.destroyed }

// Mass returns the node's own effective mass.
func (n *Node[V]) Mass() float64 {
	if !alive(n.body) {
		return 0
	}
	return n.graph.effective(n.body).total()
}

func (n *Node[V]) IsKinematic() bool {
	return alive(n.body) && n.body.IsKinematic()
}

func (n *Node[V]) usable() bool {
	return n != nil && !n.destroyed
}

// Start joins the connected end of every joint when AutoJoin is set.
func (n *Node[V]) Start(joints ...Joint) {
	if !n.AutoJoin {
		return
	}
	for _, j := range joints {
		if j == nil {
			continue
		}
		if other := j.Connected(); other != nil {
			n.TryJoin(other)
		}
	}
}

// JoinNode adds other as a joined node.
func (n *Node[V]) JoinNode(other *Node[V]) {
	if other == nil || other == n {
		return
	}
	n.joinedCombos[other] = struct{}{}
	n.graph.logger.Debugf("mass: node %s joined node %s", n.ID, other.ID)
}

// JoinBody adds body as a joined body, or as a joined node when it owns one.
func (n *Node[V]) JoinBody(body Body[V]) {
	if body == nil || body == n.body {
		return
	}
	if other, ok := n.graph.Lookup(body); ok {
		n.JoinNode(other)
		return
	}
	n.joinedBodies[body] = struct{}{}
	n.graph.logger.Debugf("mass: node %s joined a body", n.ID)
}

// JoinAnchor adds a joined anchor.
func (n *Node[V]) JoinAnchor(anchor *Anchor) {
	if anchor == nil {
		return
	}
	n.joinedStatics[anchor] = struct{}{}
	n.graph.logger.Debugf("mass: node %s joined anchor %s", n.ID, anchor)
}

func (n *Node[V]) Join(leaf Leaf[V]) {
	switch leaf.Kind {
	case LeafStatic:
		n.JoinAnchor(leaf.Static)
	case LeafBody:
		n.JoinBody(leaf.Body)
	case LeafNode:
		n.JoinNode(leaf.Node)
	}
}

// TryJoin resolves target through the graph and joins it.
func (n *Node[V]) TryJoin(target any) {
	n.Join(n.graph.Resolve(target))
}

func (n *Node[V]) BreakNode(other *Node[V]) {
	if other == nil || other == n {
		return
	}
	delete(n.joinedCombos, other)
	if other.body != nil {
		delete(n.joinedBodies, other.body)
	}
	n.graph.logger.Debugf("mass: node %s broke from node %s", n.ID, other.ID)
}

func (n *Node[V]) BreakBody(body Body[V]) {
	if body == nil || body == n.body {
		return
	}
	if other, ok := n.graph.Lookup(body); ok {
		n.BreakNode(other)
	}
	delete(n.joinedBodies, body)
}

func (n *Node[V]) BreakAnchor(anchor *Anchor) {
	if anchor == nil {
		return
	}
	delete(n.joinedStatics, anchor)
}

func (n *Node[V]) Break(leaf Leaf[V]) {
	switch leaf.Kind {
	case LeafStatic:
		n.BreakAnchor(leaf.Static)
	case LeafBody:
		n.BreakBody(leaf.Body)
	case LeafNode:
		n.BreakNode(leaf.Node)
	}
}

// TryBreak resolves target through the graph and breaks it away.
func (n *Node[V]) TryBreak(target any) {
	n.Break(n.graph.Resolve(target))
}

// Joined reports whether target resolves to something directly joined to n.
func (n *Node[V]) Joined(target any) bool {
	leaf := n.graph.Resolve(target)
	switch leaf.Kind {
	case LeafStatic:
		_, ok := n.joinedStatics[leaf.Static]
		return ok
	case LeafBody:
		_, ok := n.joinedBodies[leaf.Body]
		return ok
	case LeafNode:
		_, ok := n.joinedCombos[leaf.Node]
		return ok
	}
	return false
}

// JoinCount returns the number of joined anchors, bodies and nodes.
func (n *Node[V]) JoinCount() (statics, bodies, combos int) {
	return len(n.joinedStatics), len(n.joinedBodies), len(n.joinedCombos)
}
