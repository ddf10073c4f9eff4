package chipmunk

import (
	"fmt"

	"github.com/akmonengine/heft/logging"
	"github.com/akmonengine/heft/mass"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// CollisionTypeCombined marks the shapes of bound bodies. The binding listens
// to every collision involving this type.
const CollisionTypeCombined cp.CollisionType = 0xC0B1

// Binding keeps the contact tables of a 2D graph in sync with a cp space.
type Binding struct {
	space  *cp.Space
	graph  *mass.Graph[mgl64.Vec2]
	logger logging.Logger

	bodies  map[*cp.Body]*Body
	anchors map[*cp.Body]*mass.Anchor
}

// NewBinding installs the collision handler on space. A nil graph gets the
// default 2D settings.
func NewBinding(space *cp.Space, graph *mass.Graph[mgl64.Vec2], logger logging.Logger) *Binding {
	logger = logging.OrNop(logger)
	if graph == nil {
		graph = mass.NewGraph(mass.Settings2D(), logger)
	}

	b := &Binding{
		space:   space,
		graph:   graph,
		logger:  logger,
		bodies:  make(map[*cp.Body]*Body),
		anchors: make(map[*cp.Body]*mass.Anchor),
	}
	graph.AddResolver(b.resolve)

	handler := space.NewWildcardCollisionHandler(CollisionTypeCombined)
	handler.UserData = b
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if binding, ok := userData.(*Binding); ok {
			binding.onContact(arb, contactBegin)
		}
		return true
	}
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if binding, ok := userData.(*Binding); ok {
			binding.onContact(arb, contactStay)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if binding, ok := userData.(*Binding); ok {
			binding.onContact(arb, contactEnd)
		}
	}

	return b
}

func (b *Binding) Graph() *mass.Graph[mgl64.Vec2] {
	return b.graph
}

func (b *Binding) Space() *cp.Space {
	return b.space
}

// Body returns the adapter of a non static cp body, nil for a static one
func (b *Binding) Body(body *cp.Body) *Body {
	if body == nil || body.GetType() == cp.BODY_STATIC {
		return nil
	}
	if wrapped, ok := b.bodies[body]; ok {
		return wrapped
	}
	wrapped := &Body{body: body}
	b.bodies[body] = wrapped
	return wrapped
}

// StaticAnchor returns the anchor standing for a static body. All the shapes
// of a static body share it.
func (b *Binding) StaticAnchor(body *cp.Body) *mass.Anchor {
	if body == nil {
		return nil
	}
	if anchor, ok := b.anchors[body]; ok {
		return anchor
	}
	anchor := mass.NewAnchor(fmt.Sprintf("static-%p", body))
	b.anchors[body] = anchor
	return anchor
}

// Bind gives body a node and tags its shapes so their contacts are recorded.
// The node is not started.
func (b *Binding) Bind(body *cp.Body) *mass.Node[mgl64.Vec2] {
	wrapped := b.Body(body)
	if wrapped == nil {
		b.logger.Warnf("chipmunk: cannot bind a static body")
		return nil
	}
	if node, ok := b.graph.Lookup(wrapped); ok {
		return node
	}

	body.EachShape(func(shape *cp.Shape) {
		shape.SetCollisionType(CollisionTypeCombined)
	})
	return b.graph.NewNode(wrapped)
}

// Node returns the node owned by body
func (b *Binding) Node(body *cp.Body) (*mass.Node[mgl64.Vec2], bool) {
	wrapped := b.Body(body)
	if wrapped == nil {
		return nil, false
	}
	return b.graph.Lookup(wrapped)
}

// Start auto-joins the node with the other end of every constraint of its
// body.
func (b *Binding) Start(node *mass.Node[mgl64.Vec2]) {
	if node == nil {
		return
	}
	wrapped, ok := node.Body().(*Body)
	if !ok {
		node.Start()
		return
	}

	var joints []mass.Joint
	wrapped.body.EachConstraint(func(c *cp.Constraint) {
		other := c.BodyA()
		if other == wrapped.body {
			other = c.BodyB()
		}
		joints = append(joints, joint{other: other})
	})
	node.Start(joints...)
}

// Unbind destroys the node of body and marks its adapter dead. Call it before
// removing the body from the space.
func (b *Binding) Unbind(body *cp.Body) {
	wrapped, ok := b.bodies[body]
	if !ok {
		return
	}
	if node, ok := b.graph.Lookup(wrapped); ok {
		b.graph.Destroy(node)
	}
	wrapped.removed = true
	delete(b.bodies, body)
}

// resolve lets nodes join cp bodies directly
func (b *Binding) resolve(target any) (mass.Leaf[mgl64.Vec2], bool) {
	body, ok := target.(*cp.Body)
	if !ok || body == nil {
		return mass.Leaf[mgl64.Vec2]{}, false
	}
	if body.GetType() == cp.BODY_STATIC {
		return mass.StaticLeaf[mgl64.Vec2](b.StaticAnchor(body)), true
	}
	return mass.BodyLeaf[mgl64.Vec2](b.Body(body)), true
}

// joint is a cp constraint seen from one of its bodies
type joint struct {
	other *cp.Body
}

func (j joint) Connected() any {
	if j.other == nil {
		return nil
	}
	return j.other
}
