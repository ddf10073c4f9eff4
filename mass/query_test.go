package mass

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	zero3  = mgl64.Vec3{}
	right3 = mgl64.Vec3{1, 0, 0}
	left3  = mgl64.Vec3{-1, 0, 0}
)

// =============================================================================
// Aggregation Tests
// =============================================================================

func TestNode_AllMassTree(t *testing.T) {
	g := newGraph3()
	a := g.NewNode(newBody("a", 10))
	b := g.NewNode(newBody("b", 3))
	x := newBody("x", 5)
	y := newBody("y", 2)
	z := newKinematic("z", 1000)
	post := NewAnchor("post")

	a.JoinBody(x)
	a.JoinAnchor(post)
	a.JoinNode(b)
	b.JoinBody(y)
	b.JoinBody(z)

	want := 10 + 5 + KinematicMass + 3 + 2 + KinematicMass
	assert.InDelta(t, want, a.AllMass(zero3), epsilon)
	assert.InDelta(t, want-10, a.JointMass(zero3), epsilon)
	assert.InDelta(t, 3+2+KinematicMass, b.AllMass(zero3), epsilon)
	assert.False(t, g.Searching(), "the search closes with the top-level query")
}

func TestNode_AllMassCycle(t *testing.T) {
	g := newGraph3()
	a := g.NewNode(newBody("a", 10))
	b := g.NewNode(newBody("b", 5))
	c := g.NewNode(newBody("c", 1))

	a.JoinNode(b)
	b.JoinNode(c)
	c.JoinNode(a)
	b.JoinNode(a)
	c.JoinNode(b)
	a.JoinNode(c)

	for _, n := range []*Node[mgl64.Vec3]{a, b, c} {
		assert.InDelta(t, 16, n.AllMass(zero3), epsilon)
		assert.InDelta(t, 16-n.Mass(), n.JointMass(zero3), epsilon)
	}
}

func TestNode_SharedLeafCountedOnce(t *testing.T) {
	g := newGraph3()
	a := g.NewNode(newBody("a", 10))
	b := g.NewNode(newBody("b", 5))
	shared := newBody("shared", 7)
	post := NewAnchor("post")

	a.JoinNode(b)
	a.JoinBody(shared)
	b.JoinBody(shared)
	a.JoinAnchor(post)
	b.JoinAnchor(post)

	total, bodies := a.CollectAllMass(zero3, nil)
	assert.InDelta(t, 10+5+7+KinematicMass, total, epsilon)
	assert.Len(t, bodies, 3)
}

func TestNode_KinematicSubstitution(t *testing.T) {
	g := NewGraph(Settings[mgl64.Vec3]{KinematicMass: 500}, nil)
	n := g.NewNode(newKinematic("k", 3))

	assert.True(t, n.IsKinematic())
	assert.InDelta(t, 500, n.Mass(), epsilon)
	assert.True(t, n.Immovable(zero3))

	n.JoinBody(newBody("d", 2))
	assert.False(t, n.Immovable(zero3))
}

func TestNode_SkipsDeadBodies(t *testing.T) {
	g := newGraph3()
	n := g.NewNode(newBody("a", 10))
	gone := newBody("gone", 50)
	n.JoinBody(gone)
	n.ContactEnter(contact3(gone, "col", left3))

	gone.dead = true

	assert.InDelta(t, 10, n.AllMass(right3), epsilon)
	_, bodies := n.CollectAllMass(right3, nil)
	assert.Len(t, bodies, 1)
}

func TestNode_CollectJointMass(t *testing.T) {
	g := newGraph3()
	a := g.NewNode(newBody("a", 10))
	b := g.NewNode(newBody("b", 5))
	x := newBody("x", 2)
	a.JoinNode(b)
	a.JoinBody(x)

	total, bodies := a.CollectJointMass(zero3, nil)

	assert.InDelta(t, 7, total, epsilon)
	assert.ElementsMatch(t, []Body[mgl64.Vec3]{b.Body(), x}, bodies)
}

func TestNode_ReentrantQueryJoinsSession(t *testing.T) {
	g := newGraph3()
	a := g.NewNode(newBody("a", 10))
	b := g.NewNode(newBody("b", 5))
	hook := newBody("hook", 1)
	a.JoinBody(hook)
	a.JoinNode(b)

	var nested float64
	var searching bool
	hook.onMass = func() {
		searching = g.Searching()
		nested = b.AllMass(zero3)
	}

	total := a.AllMass(zero3)

	assert.True(t, searching)
	assert.InDelta(t, 5, nested, epsilon)
	assert.InDelta(t, 11, total, epsilon, "b was visited by the nested query of the same session")
	assert.False(t, g.Searching())

	hook.onMass = nil
	assert.InDelta(t, 16, a.AllMass(zero3), epsilon, "a fresh session starts clean")
}

// =============================================================================
// Collision Mass Tests
// =============================================================================

func TestNode_CollisionMassZeroDirection(t *testing.T) {
	g := newGraph3()
	n := g.NewNode(newBody("a", 10))
	n.ContactEnter(contact3(newBody("b", 5), "b", left3))
	n.ContactEnter(staticContact3(NewAnchor("wall"), "wall", right3))
	other := g.NewNode(newBody("c", 1))
	n.ContactEnter(contact3(other.Body(), "c", left3))

	assert.Zero(t, n.CollisionMass(zero3))
	assert.InDelta(t, 10, n.AllMass(zero3), epsilon)
}

func TestNode_CollisionMassBinary(t *testing.T) {
	g := newGraph3()
	n := g.NewNode(newBody("a", 10))
	b := newBody("b", 5)
	n.ContactEnter(contact3(b, "col", left3))

	tests := []struct {
		name      string
		direction mgl64.Vec3
		want      float64
	}{
		{"head on", right3, 5},
		{"shallow", mgl64.Vec3{1, 10, 0}, 5},
		{"away", left3, 0},
		{"perpendicular", mgl64.Vec3{0, 1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, n.CollisionMass(tt.direction), epsilon)
		})
	}
}

func TestNode_CollisionMassStaticAndCombo(t *testing.T) {
	g := newGraph3()
	n := g.NewNode(newBody("a", 10))
	other := g.NewNode(newBody("b", 5))
	behind := newBody("behind", 2)
	other.JoinBody(behind)
	wall := NewAnchor("wall")

	n.ContactEnter(contact3(other.Body(), "b", left3))
	n.ContactEnter(staticContact3(wall, "wall", mgl64.Vec3{0, 1, 0}))

	assert.InDelta(t, 5+2, n.CollisionMass(right3), epsilon, "an obstructing node brings its aggregate")
	assert.InDelta(t, KinematicMass, n.CollisionMass(mgl64.Vec3{0, -1, 0}), epsilon)
	assert.Zero(t, n.CollisionMass(left3))
}

func TestNode_CollisionsAreNotJoints(t *testing.T) {
	g := newGraph3()
	n := g.NewNode(newBody("a", 10))
	n.ContactEnter(contact3(newBody("b", 5), "b", left3))

	assert.Zero(t, n.JointMass(right3))
}

// =============================================================================
// Obstruction Policy Tests
// =============================================================================

func TestGraduated_Endpoints(t *testing.T) {
	obstruct := Graduated[mgl64.Vec2](DefaultStableAngle, DefaultSlideAngle)
	direction := mgl64.Vec2{3, 0}

	assert.InDelta(t, 1, obstruct(direction, mgl64.Vec2{-1, 0}), epsilon, "head on counts fully")
	assert.Zero(t, obstruct(direction, mgl64.Vec2{0, 1}), "perpendicular does not obstruct")
	assert.Zero(t, obstruct(direction, mgl64.Vec2{1, 0}), "facing away does not obstruct")
}

func TestGraduated_Angles(t *testing.T) {
	obstruct := Graduated[mgl64.Vec2](DefaultStableAngle, DefaultSlideAngle)
	direction := mgl64.Vec2{1, 0}

	at := func(deg float64) float64 {
		rad := mgl64.DegToRad(deg)
		return obstruct(direction, mgl64.Vec2{-math.Cos(rad), math.Sin(rad)})
	}

	assert.InDelta(t, 1, at(0), 1e-6)
	assert.InDelta(t, 1, at(10), 1e-6)
	assert.InDelta(t, 1, at(15), 1e-6)
	assert.InDelta(t, 0.5, at(45), 1e-6)
	assert.InDelta(t, 0, at(75), 1e-6)
	assert.Zero(t, at(80))

	previous := at(15)
	for deg := 16.0; deg <= 75; deg++ {
		current := at(deg)
		require.LessOrEqual(t, current, previous, "remap must not grow with the angle (%v°)", deg)
		previous = current
	}
}

func TestBinary(t *testing.T) {
	obstruct := Binary[mgl64.Vec3]()

	assert.Equal(t, 1.0, obstruct(right3, mgl64.Vec3{-0.1, 1, 0}))
	assert.Equal(t, 0.0, obstruct(right3, mgl64.Vec3{0, 1, 0}))
	assert.Equal(t, 0.0, obstruct(right3, right3))
}

func TestNode_CollisionMassGraduated(t *testing.T) {
	g := newGraph2()
	n := g.NewNode(&testBody[mgl64.Vec2]{mass: 10})
	b := &testBody[mgl64.Vec2]{mass: 8}
	wall := NewAnchor("wall")

	diagonal := mgl64.Vec2{-1, 1}.Normalize()
	n.ContactEnter(Contact[mgl64.Vec2]{Body: b, Collider: "b", Normals: []mgl64.Vec2{diagonal}})
	n.ContactEnter(Contact[mgl64.Vec2]{Static: wall, Collider: "wall", Normals: []mgl64.Vec2{{0, -1}}})

	assert.InDelta(t, 4, n.CollisionMass(mgl64.Vec2{2, 0}), 1e-6, "45° contact weighs half")
	assert.InDelta(t, KinematicMass/2, n.CollisionMass(mgl64.Vec2{1, 1}), 1e-6, "the diagonal contact is perpendicular to this pull")
	assert.Zero(t, n.CollisionMass(mgl64.Vec2{}))
}
