package mass

// contacts maps a touching entity to the normal last seen on each of its
// colliders.
type contacts[K comparable, V any] map[K]map[Collider]V

func (c contacts[K, V]) set(key K, collider Collider, normal V) {
	inner, ok := c[key]
	if !ok {
		inner = make(map[Collider]V)
		c[key] = inner
	}
	inner[collider] = normal
}

func (c contacts[K, V]) remove(key K, collider Collider) {
	inner, ok := c[key]
	if !ok {
		return
	}
	delete(inner, collider)
	if len(inner) == 0 {
		delete(c, key)
	}
}

func (c contacts[K, V]) size() int {
	n := 0
	for _, inner := range c {
		n += len(inner)
	}
	return n
}

// Contact is one contact event as reported by the host, seen from the node
// receiving it. Normals point from the contacting entity towards the node.
type Contact[V Vector[V]] struct {
	// Body is the contacting body, nil when touching a static collider.
	Body Body[V]
	// Static is the anchor standing for the static collider when Body is nil.
	Static   *Anchor
	Collider Collider
	Normals  []V
}

// normal sums the contact point normals.
func (c Contact[V]) normal(normalize bool) V {
	var sum V
	for _, n := range c.Normals {
		sum = sum.Add(n)
	}
	if normalize && len(c.Normals) > 1 && sum.Len() > 0 {
		sum = sum.Normalize()
	}
	return sum
}

// ContactEnter records the contact normal for the contacting entity.
func (n *Node[V]) ContactEnter(c Contact[V]) {
	if c.Collider == nil || len(c.Normals) == 0 {
		return
	}
	normal := c.normal(n.graph.Settings.NormalizeContacts)

	if c.Body != nil {
		if c.Body == n.body {
			return
		}
		if other, ok := n.graph.Lookup(c.Body); ok {
			n.collisionBodies.remove(c.Body, c.Collider)
			if other != n {
				n.collisionCombos.set(other, c.Collider, normal)
			}
			return
		}
		n.collisionBodies.set(c.Body, c.Collider, normal)
		return
	}
	if c.Static != nil {
		n.collisionStatics.set(c.Static, c.Collider, normal)
	}
}

// ContactStay refreshes the recorded normal. It overwrites, it never sums
// across steps.
func (n *Node[V]) ContactStay(c Contact[V]) {
	n.ContactEnter(c)
}

// ContactExit drops the entry for the contacting entity and collider.
func (n *Node[V]) ContactExit(c Contact[V]) {
	if c.Body != nil {
		if other, ok := n.graph.Lookup(c.Body); ok {
			n.collisionCombos.remove(other, c.Collider)
		}
		// The body may have been recorded before it gained a node.
		n.collisionBodies.remove(c.Body, c.Collider)
		return
	}
	if c.Static != nil {
		n.collisionStatics.remove(c.Static, c.Collider)
	}
}

// ContactCount returns the number of recorded (entity, collider) entries.
func (n *Node[V]) ContactCount() int {
	return n.collisionStatics.size() + n.collisionBodies.size() + n.collisionCombos.size()
}
