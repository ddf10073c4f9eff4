package constraint

import (
	"github.com/akmonengine/heft/actor"
	"github.com/akmonengine/heft/mass"
)

// Joint ties Body to either another body or a fixed anchor. The mass graph
// only sees which object is on the other end.
type Joint struct {
	Body      *actor.RigidBody
	Connected *actor.RigidBody
	Anchor    *mass.Anchor
}

// NewBodyJoint joins two bodies
func NewBodyJoint(body, connected *actor.RigidBody) *Joint {
	return &Joint{Body: body, Connected: connected}
}

// NewAnchorJoint fixes a body to an anchor
func NewAnchorJoint(body *actor.RigidBody, anchor *mass.Anchor) *Joint {
	return &Joint{Body: body, Anchor: anchor}
}

// Target returns the object on the other end of the joint, seen from the
// joint owner. A connected body wins over an anchor.
func (j *Joint) Target() any {
	if j.Connected != nil {
		return j.Connected
	}
	if j.Anchor != nil {
		return j.Anchor
	}
	return nil
}

// Owns reports whether body is the body the joint belongs to
func (j *Joint) Owns(body *actor.RigidBody) bool {
	return body != nil && j.Body == body
}

// Touches reports whether body is either end of the joint
func (j *Joint) Touches(body *actor.RigidBody) bool {
	return body != nil && (j.Body == body || j.Connected == body)
}

// Edge is the joint as seen by the mass graph
type Edge struct {
	joint *Joint
}

func (j *Joint) Edge() Edge {
	return Edge{joint: j}
}

// Connected returns the other end, or nil
func (e Edge) Connected() any {
	if e.joint == nil {
		return nil
	}
	return e.joint.Target()
}
