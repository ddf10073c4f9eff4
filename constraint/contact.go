package constraint

import (
	"github.com/akmonengine/heft/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// ContactConstraint is a contact reported by the collision layer for one step.
// Normal points from BodyA towards BodyB.
type ContactConstraint struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Points []ContactPoint
	Normal mgl64.Vec3
}

// Involves reports whether body is one side of the contact
func (c *ContactConstraint) Involves(body *actor.RigidBody) bool {
	return body != nil && (c.BodyA == body || c.BodyB == body)
}

// Other returns the body on the other side of body, or nil
func (c *ContactConstraint) Other(body *actor.RigidBody) *actor.RigidBody {
	switch body {
	case c.BodyA:
		return c.BodyB
	case c.BodyB:
		return c.BodyA
	}
	return nil
}

// IsTrigger is true when either side is a trigger volume
func (c *ContactConstraint) IsTrigger() bool {
	return (c.BodyA != nil && c.BodyA.IsTrigger) || (c.BodyB != nil && c.BodyB.IsTrigger)
}

// NormalsFor returns one normal per contact point, pointing from the other
// body towards body. A report without points counts as a single point.
func (c *ContactConstraint) NormalsFor(body *actor.RigidBody) []mgl64.Vec3 {
	var normal mgl64.Vec3
	switch body {
	case c.BodyA:
		normal = c.Normal.Mul(-1)
	case c.BodyB:
		normal = c.Normal
	default:
		return nil
	}

	normals := make([]mgl64.Vec3, max(1, len(c.Points)))
	for i := range normals {
		normals[i] = normal
	}
	return normals
}
