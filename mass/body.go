package mass

import (
	"github.com/google/uuid"
)

// Vector is the vector type a graph works in. mgl64.Vec2 and mgl64.Vec3 satisfy it.
type Vector[V any] interface {
	comparable
	Add(v2 V) V
	Sub(v2 V) V
	Mul(c float64) V
	Dot(v2 V) float64
	Len() float64
	Normalize() V
}

// Body is the rigid body a host engine hands to the graph.
type Body[V Vector[V]] interface {
	Position() V
	Mass() float64
	IsKinematic() bool
	AddForce(force V)
}

// liveness is implemented by bodies that can be destroyed by the host while
// still referenced by a graph.
type liveness interface {
	Alive() bool
}

func alive[V Vector[V]](b Body[V]) bool {
	if b == nil {
		return false
	}
	if l, ok := b.(liveness); ok {
		return l.Alive()
	}
	return true
}

// Anchor is a fixed attachment point without a rigid body. Joining or touching
// an anchor always adds the kinematic mass.
type Anchor struct {
	ID   uuid.UUID
	Name string
}

func NewAnchor(name string) *Anchor {
	return &Anchor{ID: uuid.New(), Name: name}
}

func (a *Anchor) String() string {
	if a == nil {
		return "anchor(nil)"
	}
	if a.Name != "" {
		return a.Name
	}
	return a.ID.String()
}

// Collider names the collider of a contact. Any comparable handle works,
// hosts use pointers to their shape or body.
type Collider = any

// Joint is a host joint seen from the body that owns it.
type Joint interface {
	// Connected returns the object on the other end, or nil.
	Connected() any
}
