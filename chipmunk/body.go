// Package chipmunk binds mass graphs to Chipmunk2D spaces.
package chipmunk

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Body adapts a cp body to the mass graph.
type Body struct {
	body    *cp.Body
	removed bool
}

func (b *Body) CP() *cp.Body {
	return b.body
}

func (b *Body) Position() mgl64.Vec2 {
	return toVec2(b.body.Position())
}

func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// IsKinematic reports whether the space moves the body regardless of forces
func (b *Body) IsKinematic() bool {
	return b.body.GetType() != cp.BODY_DYNAMIC
}

// AddForce applies force at the center of gravity, so it never adds torque
func (b *Body) AddForce(force mgl64.Vec2) {
	if b.removed || b.body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	b.body.ApplyForceAtWorldPoint(toVector(force), b.body.Position())
}

func (b *Body) Alive() bool {
	return !b.removed
}

func toVec2(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func toVector(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}
