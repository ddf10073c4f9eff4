package mass

import (
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// testBody records every force it receives.
type testBody[V Vector[V]] struct {
	name      string
	pos       V
	mass      float64
	kinematic bool
	dead      bool

	force V
	calls int

	onMass func()
}

func (b *testBody[V]) Position() V { return b.pos }

func (b *testBody[V]) Mass() float64 {
	if b.onMass != nil {
		b.onMass()
	}
	return b.mass
}

func (b *testBody[V]) IsKinematic() bool { return b.kinematic }

func (b *testBody[V]) AddForce(force V) {
	b.force = b.force.Add(force)
	b.calls++
}

func (b *testBody[V]) Alive() bool { return !b.dead }

type body3 = testBody[mgl64.Vec3]

func newBody(name string, mass float64) *body3 {
	return &body3{name: name, mass: mass}
}

func newKinematic(name string, mass float64) *body3 {
	return &body3{name: name, mass: mass, kinematic: true}
}

func newGraph3() *Graph[mgl64.Vec3] {
	return NewGraph(Settings3D(), nil)
}

func newGraph2() *Graph[mgl64.Vec2] {
	return NewGraph(Settings2D(), nil)
}

type testJoint struct {
	connected any
}

func (j testJoint) Connected() any { return j.connected }

func contact3(body Body[mgl64.Vec3], collider any, normals ...mgl64.Vec3) Contact[mgl64.Vec3] {
	return Contact[mgl64.Vec3]{Body: body, Collider: collider, Normals: normals}
}

func staticContact3(anchor *Anchor, collider any, normals ...mgl64.Vec3) Contact[mgl64.Vec3] {
	return Contact[mgl64.Vec3]{Static: anchor, Collider: collider, Normals: normals}
}

func sumForces(bodies ...*body3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, b := range bodies {
		sum = sum.Add(b.force)
	}
	return sum
}
