package mass

// tally splits an aggregated mass into its dynamic and kinematic parts.
type tally struct {
	dynamic   float64
	kinematic float64
}

func (t tally) total() float64 { return t.dynamic + t.kinematic }

func (t tally) add(o tally) tally {
	return tally{dynamic: t.dynamic + o.dynamic, kinematic: t.kinematic + o.kinematic}
}

func (t tally) scale(p float64) tally {
	return tally{dynamic: t.dynamic * p, kinematic: t.kinematic * p}
}

// immovable is true when only kinematic mass was found.
func (t tally) immovable() bool {
	return t.dynamic == 0 && t.kinematic > 0
}

// search is the traversal state of one top-level query. Every anchor, body
// and node contributes at most once while it is open.
type search[V Vector[V]] struct {
	invoker *Node[V]
	statics map[*Anchor]struct{}
	bodies  map[Body[V]]struct{}
	roots   map[*Node[V]]struct{}
}

// begin opens a search for n, or joins the one already open. The returned
// func must be deferred; it closes the search only when n opened it.
func (g *Graph[V]) begin(n *Node[V]) (*search[V], func()) {
	if g.session != nil && g.session.invoker != nil {
		return g.session, func() {}
	}
	if g.session == nil {
		g.session = &search[V]{
			statics: make(map[*Anchor]struct{}),
			bodies:  make(map[Body[V]]struct{}),
			roots:   make(map[*Node[V]]struct{}),
		}
	}
	s := g.session
	s.invoker = n
	clear(s.statics)
	clear(s.bodies)
	clear(s.roots)
	return s, func() {
		s.invoker = nil
		clear(s.statics)
		clear(s.bodies)
		clear(s.roots)
	}
}

// Searching reports whether a query is in progress on the graph.
func (g *Graph[V]) Searching() bool {
	return g.session != nil && g.session.invoker != nil
}

func (s *search[V]) visitStatic(a *Anchor) bool {
	if _, ok := s.statics[a]; ok {
		return false
	}
	s.statics[a] = struct{}{}
	return true
}

func (s *search[V]) seenBody(b Body[V]) bool {
	_, ok := s.bodies[b]
	return ok
}

func (s *search[V]) visitBody(b Body[V]) bool {
	if s.seenBody(b) {
		return false
	}
	s.bodies[b] = struct{}{}
	return true
}

func (s *search[V]) seenRoot(n *Node[V]) bool {
	_, ok := s.roots[n]
	return ok
}

func (s *search[V]) enter(n *Node[V]) {
	s.roots[n] = struct{}{}
}
