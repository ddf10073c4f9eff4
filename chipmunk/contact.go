package chipmunk

import (
	"github.com/akmonengine/heft/mass"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

type contactPhase uint8

const (
	contactBegin contactPhase = iota
	contactStay
	contactEnd
)

// onContact runs inside the wildcard handler, where the first shape of the
// arbiter always belongs to a bound body.
func (b *Binding) onContact(arb *cp.Arbiter, phase contactPhase) {
	self, other := arb.Shapes()
	// The arbiter normal points from self to other
	b.record(self.Body(), other, arb.Normal().Neg(), arb.Count(), phase)
}

// record updates the contact table of the node owning body. normal points
// from the other shape towards body.
func (b *Binding) record(body *cp.Body, other *cp.Shape, normal cp.Vector, points int, phase contactPhase) {
	node, ok := b.Node(body)
	if !ok || other == nil {
		return
	}

	contact := mass.Contact[mgl64.Vec2]{Collider: other}
	otherBody := other.Body()
	if otherBody.GetType() == cp.BODY_STATIC {
		contact.Static = b.StaticAnchor(otherBody)
	} else {
		contact.Body = b.Body(otherBody)
	}

	switch phase {
	case contactBegin, contactStay:
		contact.Normals = make([]mgl64.Vec2, max(1, points))
		for i := range contact.Normals {
			contact.Normals[i] = toVec2(normal)
		}
		if phase == contactBegin {
			node.ContactEnter(contact)
		} else {
			node.ContactStay(contact)
		}
	case contactEnd:
		node.ContactExit(contact)
	}
}
