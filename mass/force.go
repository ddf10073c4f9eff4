package mass

// AddForce spreads force over the node and everything it drags or pushes:
// the node's own body, the bodies joined to it, and the bodies obstructing it
// along force, each share weighted by mass.
//
// A body that is both joined and obstructing receives from both shares.
func (n *Node[V]) AddForce(force V) {
	var zero V
	if !n.usable() || force == zero {
		return
	}

	self := n.Mass()
	jMass, joined := n.CollectJointMass(zero, nil)
	cMass, touching := n.CollectCollisionMass(force, nil)

	total := self + jMass + cMass
	if total <= 0 {
		return
	}

	if alive(n.body) {
		n.body.AddForce(force.Mul(self / total))
	}
	n.graph.ShareForce(joined, force.Mul(jMass/total))
	n.graph.ShareForce(touching, force.Mul(cMass/total))
}

// CountMass returns the summed effective mass of bodies.
func (g *Graph[V]) CountMass(bodies []Body[V]) float64 {
	total := 0.0
	for _, b := range bodies {
		if alive(b) {
			total += g.effective(b).total()
		}
	}
	return total
}

// ShareForce splits force across bodies in proportion to their effective
// mass.
func (g *Graph[V]) ShareForce(bodies []Body[V], force V) {
	var zero V
	if len(bodies) == 0 || force == zero {
		return
	}
	total := g.CountMass(bodies)
	if total <= 0 {
		return
	}
	for _, b := range bodies {
		if alive(b) {
			b.AddForce(force.Mul(g.effective(b).total() / total))
		}
	}
}

// PullBodies pulls two bodies towards each other with the given magnitude,
// the lighter one moving more. A negative magnitude pushes them apart.
func (g *Graph[V]) PullBodies(body, other Body[V], magnitude float64) {
	if !alive(body) || !alive(other) || magnitude == 0 {
		return
	}
	axis := other.Position().Sub(body.Position())
	if axis.Len() == 0 {
		return
	}
	force := axis.Normalize().Mul(magnitude)

	bMass, oMass := body.Mass(), other.Mass()
	g.split(force, bMass, oMass, body.IsKinematic(), other.IsKinematic(), body.AddForce, other.AddForce)
}

// PullAll pulls every pair of bodies together.
func (g *Graph[V]) PullAll(bodies []Body[V], magnitude float64) {
	if len(bodies) <= 1 || magnitude == 0 {
		return
	}
	for i := 0; i < len(bodies)-1; i++ {
		for j := i + 1; j < len(bodies); j++ {
			g.PullBodies(bodies[i], bodies[j], magnitude)
		}
	}
}

// PullBodyNode pulls body along axis towards node, and node back along -axis
// with everything it aggregates in that direction.
func (g *Graph[V]) PullBodyNode(body Body[V], node *Node[V], axis V, magnitude float64) {
	if !alive(body) || !node.usable() || magnitude == 0 || axis.Len() == 0 {
		return
	}
	force := axis.Normalize().Mul(magnitude)
	back := axis.Mul(-1)

	oMass := node.AllMass(back)
	g.split(force, body.Mass(), oMass, body.IsKinematic(), node.Immovable(back), body.AddForce, node.AddForce)
}

// PullNodeBody is PullBodyNode seen from the node's side.
func (g *Graph[V]) PullNodeBody(node *Node[V], body Body[V], axis V, magnitude float64) {
	g.PullBodyNode(body, node, axis.Mul(-1), magnitude)
}

// PullNodes pulls two nodes together along axis, each weighing in with its
// aggregated mass in the direction it is pulled.
func (g *Graph[V]) PullNodes(node, other *Node[V], axis V, magnitude float64) {
	if !node.usable() || !other.usable() || magnitude == 0 || axis.Len() == 0 {
		return
	}
	force := axis.Normalize().Mul(magnitude)
	back := axis.Mul(-1)

	bMass := node.AllMass(axis)
	oMass := other.AllMass(back)
	g.split(force, bMass, oMass, node.Immovable(axis), other.Immovable(back), node.AddForce, other.AddForce)
}

// TryCombinedPull pulls two bodies together, going through their nodes when
// they own one.
func (g *Graph[V]) TryCombinedPull(body, other Body[V], axis V, magnitude float64) {
	if !alive(body) || !alive(other) || magnitude == 0 {
		return
	}
	bNode, bOk := g.Lookup(body)
	oNode, oOk := g.Lookup(other)
	switch {
	case bOk && oOk:
		g.PullNodes(bNode, oNode, axis, magnitude)
	case bOk:
		g.PullNodeBody(bNode, other, axis, magnitude)
	case oOk:
		g.PullBodyNode(body, oNode, axis, magnitude)
	default:
		g.PullBodies(body, other, magnitude)
	}
}

// split applies force to the first side and -force to the second, shared by
// mass ratio. An immovable side takes nothing unless both are immovable, in
// which case they take half each.
func (g *Graph[V]) split(force V, aMass, bMass float64, aFixed, bFixed bool, applyA, applyB func(V)) {
	switch {
	case !aFixed && !bFixed:
		total := aMass + bMass
		if total <= 0 {
			return
		}
		ratio := aMass / total
		applyA(force.Mul(1 - ratio))
		applyB(force.Mul(-ratio))
	case !aFixed:
		applyA(force)
	case !bFixed:
		applyB(force.Mul(-1))
	default:
		applyA(force.Mul(0.5))
		applyB(force.Mul(-0.5))
	}
}
