package mass

func collect[V Vector[V]](buf *[]Body[V], b Body[V]) {
	if buf != nil {
		*buf = append(*buf, b)
	}
}

// run opens or joins the graph's search for n and evaluates fn inside it.
func (n *Node[V]) run(fn func(*search[V], V, *[]Body[V]) tally, direction V, buf *[]Body[V]) tally {
	if !n.usable() {
		return tally{}
	}
	s, end := n.graph.begin(n)
	defer end()
	return fn(s, direction, buf)
}

// JointMass returns the mass of everything joined to the node, following
// joined nodes transitively.
func (n *Node[V]) JointMass(direction V) float64 {
	return n.run(n.jointMass, direction, nil).total()
}

// CollectJointMass is JointMass that also appends every contributing body to
// buffer.
func (n *Node[V]) CollectJointMass(direction V, buffer []Body[V]) (float64, []Body[V]) {
	t := n.run(n.jointMass, direction, &buffer)
	return t.total(), buffer
}

// CollisionMass returns the mass of everything touching the node that
// obstructs motion along direction. A zero direction obstructs nothing.
func (n *Node[V]) CollisionMass(direction V) float64 {
	return n.run(n.collisionMass, direction, nil).total()
}

func (n *Node[V]) CollectCollisionMass(direction V, buffer []Body[V]) (float64, []Body[V]) {
	t := n.run(n.collisionMass, direction, &buffer)
	return t.total(), buffer
}

// AllMass returns the node's own mass plus its joint and collision mass.
func (n *Node[V]) AllMass(direction V) float64 {
	return n.run(n.allMass, direction, nil).total()
}

func (n *Node[V]) CollectAllMass(direction V, buffer []Body[V]) (float64, []Body[V]) {
	t := n.run(n.allMass, direction, &buffer)
	return t.total(), buffer
}

// Immovable reports whether everything AllMass finds along direction is
// kinematic.
func (n *Node[V]) Immovable(direction V) bool {
	return n.run(n.allMass, direction, nil).immovable()
}

func (n *Node[V]) jointMass(s *search[V], direction V, buf *[]Body[V]) tally {
	g := n.graph
	s.enter(n)

	var t tally
	for a := range n.joinedStatics {
		if s.visitStatic(a) {
			t.kinematic += g.Settings.KinematicMass
		}
	}
	for b := range n.joinedBodies {
		if alive(b) && s.visitBody(b) {
			collect(buf, b)
			t = t.add(g.effective(b))
		}
	}
	for c := range n.joinedCombos {
		if c.usable() && !s.seenRoot(c) {
			t = t.add(c.allMass(s, direction, buf))
		}
	}
	return t
}

func (n *Node[V]) collisionMass(s *search[V], direction V, buf *[]Body[V]) tally {
	var zero V
	if direction == zero {
		return tally{}
	}
	g := n.graph
	s.enter(n)

	var t tally
	for a, normals := range n.collisionStatics {
		if _, seen := s.statics[a]; seen {
			continue
		}
		if p := g.obstruction(direction, normals); p > 0 {
			s.visitStatic(a)
			t.kinematic += g.Settings.KinematicMass * p
		}
	}
	for b, normals := range n.collisionBodies {
		if !alive(b) || s.seenBody(b) {
			continue
		}
		if p := g.obstruction(direction, normals); p > 0 {
			s.visitBody(b)
			collect(buf, b)
			t = t.add(g.effective(b).scale(p))
		}
	}
	for c, normals := range n.collisionCombos {
		if !c.usable() || s.seenRoot(c) {
			continue
		}
		if p := g.obstruction(direction, normals); p > 0 {
			t = t.add(c.allMass(s, direction, buf).scale(p))
		}
	}
	return t
}

func (n *Node[V]) allMass(s *search[V], direction V, buf *[]Body[V]) tally {
	s.enter(n)

	var t tally
	if alive(n.body) && s.visitBody(n.body) {
		collect(buf, n.body)
		t = n.graph.effective(n.body)
	}
	t = t.add(n.jointMass(s, direction, buf))
	t = t.add(n.collisionMass(s, direction, buf))
	return t
}

// obstruction returns the share of the first collider normal that obstructs
// direction. Later colliders of the same entity are not looked at.
func (g *Graph[V]) obstruction(direction V, normals map[Collider]V) float64 {
	for _, normal := range normals {
		if p := g.Settings.Obstruction(direction, normal); p > 0 {
			return p
		}
	}
	return 0
}
