package mass

type LeafKind uint8

const (
	LeafNone LeafKind = iota
	LeafStatic
	LeafBody
	LeafNode
)

func (k LeafKind) String() string {
	switch k {
	case LeafStatic:
		return "static"
	case LeafBody:
		return "body"
	case LeafNode:
		return "node"
	default:
		return "none"
	}
}

// Leaf is an edge endpoint resolved once: an anchor, a plain body, or a node.
type Leaf[V Vector[V]] struct {
	Kind   LeafKind
	Static *Anchor
	Body   Body[V]
	Node   *Node[V]
}

func StaticLeaf[V Vector[V]](a *Anchor) Leaf[V] {
	if a == nil {
		return Leaf[V]{}
	}
	return Leaf[V]{Kind: LeafStatic, Static: a}
}

func BodyLeaf[V Vector[V]](b Body[V]) Leaf[V] {
	if b == nil {
		return Leaf[V]{}
	}
	return Leaf[V]{Kind: LeafBody, Body: b}
}

func NodeLeaf[V Vector[V]](n *Node[V]) Leaf[V] {
	if n == nil {
		return Leaf[V]{}
	}
	return Leaf[V]{Kind: LeafNode, Node: n}
}
