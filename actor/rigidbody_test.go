package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// BodyType Tests
// =============================================================================

func TestBodyType_Constants(t *testing.T) {
	// Verify that body type constants are distinct
	if BodyTypeDynamic == BodyTypeStatic || BodyTypeStatic == BodyTypeKinematic || BodyTypeDynamic == BodyTypeKinematic {
		t.Error("body type constants should have different values")
	}

	// Verify expected values (iota starts at 0)
	if BodyTypeDynamic != 0 {
		t.Errorf("BodyTypeDynamic = %d, want 0", BodyTypeDynamic)
	}
	if BodyTypeStatic != 1 {
		t.Errorf("BodyTypeStatic = %d, want 1", BodyTypeStatic)
	}
	if BodyTypeKinematic != 2 {
		t.Errorf("BodyTypeKinematic = %d, want 2", BodyTypeKinematic)
	}
}

func TestBodyType_String(t *testing.T) {
	tests := []struct {
		bodyType BodyType
		want     string
	}{
		{BodyTypeDynamic, "dynamic"},
		{BodyTypeStatic, "static"},
		{BodyTypeKinematic, "kinematic"},
		{BodyType(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.bodyType.String(); got != tt.want {
			t.Errorf("BodyType(%d).String() = %q, want %q", tt.bodyType, got, tt.want)
		}
	}
}

// =============================================================================
// NewRigidBody Tests
// =============================================================================

func TestNewRigidBody_Dynamic(t *testing.T) {
	transform := NewTransformAt(mgl64.Vec3{1, 2, 3})

	rb := NewRigidBody(transform, BodyTypeDynamic, 2.0)

	if rb.BodyType != BodyTypeDynamic {
		t.Errorf("BodyType = %v, want BodyTypeDynamic", rb.BodyType)
	}
	if !vec3AlmostEqual(rb.Position(), transform.Position, 1e-10) {
		t.Errorf("Position() = %v, want %v", rb.Position(), transform.Position)
	}
	if !vec3AlmostEqual(rb.PreviousTransform.Position, transform.Position, 1e-10) {
		t.Errorf("PreviousTransform.Position = %v, want %v", rb.PreviousTransform.Position, transform.Position)
	}
	if rb.Mass() != 2.0 {
		t.Errorf("Mass() = %v, want 2", rb.Mass())
	}
	if rb.IsKinematic() {
		t.Error("dynamic bodies are not kinematic")
	}
	if !rb.Alive() {
		t.Error("new bodies are alive")
	}
}

func TestNewRigidBody_Static(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeStatic, 1.5)

	// Verify mass is infinite
	if !math.IsInf(rb.Mass(), 1) {
		t.Errorf("Mass() = %v, want +Inf for static body", rb.Mass())
	}
	if !rb.IsKinematic() {
		t.Error("static bodies ignore forces")
	}

	rb.SetMass(3)
	if !math.IsInf(rb.Mass(), 1) {
		t.Errorf("SetMass must not change a static body, got %v", rb.Mass())
	}
}

func TestNewRigidBody_NegativeMass(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, -4)

	if rb.Mass() != 0 {
		t.Errorf("Mass() = %v, want 0 for a negative mass", rb.Mass())
	}
}

func TestNewRigidBody_Kinematic(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeKinematic, 1000)

	if !rb.IsKinematic() {
		t.Error("IsKinematic() = false, want true")
	}
	if rb.Mass() != 1000 {
		t.Errorf("Mass() = %v, want nominal mass 1000", rb.Mass())
	}
}

// =============================================================================
// Force Tests
// =============================================================================

func TestAddForce_Accumulates(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 2)
	rb.IsSleeping = true

	rb.AddForce(mgl64.Vec3{1, 0, 0})
	rb.AddForce(mgl64.Vec3{0, 2, 0})

	if !vec3AlmostEqual(rb.AccumulatedForce(), mgl64.Vec3{1, 2, 0}, 1e-10) {
		t.Errorf("AccumulatedForce() = %v, want (1, 2, 0)", rb.AccumulatedForce())
	}
	if rb.IsSleeping {
		t.Error("AddForce should wake the body")
	}

	rb.ClearForces()
	if rb.AccumulatedForce() != (mgl64.Vec3{}) {
		t.Errorf("ClearForces left %v", rb.AccumulatedForce())
	}
}

func TestAddForce_IgnoredByNonDynamic(t *testing.T) {
	for _, bodyType := range []BodyType{BodyTypeStatic, BodyTypeKinematic} {
		rb := NewRigidBody(NewTransform(), bodyType, 1)
		rb.AddForce(mgl64.Vec3{5, 5, 5})

		if rb.AccumulatedForce() != (mgl64.Vec3{}) {
			t.Errorf("%v body accumulated %v", bodyType, rb.AccumulatedForce())
		}
	}
}

func TestMarkRemoved(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1)

	rb.MarkRemoved()

	if rb.Alive() {
		t.Error("Alive() = true after MarkRemoved")
	}
}

// =============================================================================
// Integrate Tests
// =============================================================================

func TestIntegrate_Dynamic_NoGravity(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1.0)

	// Set initial velocity
	rb.Velocity = mgl64.Vec3{1, 2, 3}

	rb.Integrate(0.1, mgl64.Vec3{0, 0, 0})

	// With no gravity, velocity should remain constant
	if !vec3AlmostEqual(rb.Velocity, mgl64.Vec3{1, 2, 3}, 1e-10) {
		t.Errorf("Velocity = %v, want (1, 2, 3)", rb.Velocity)
	}

	// Position should update based on velocity
	expectedPosition := mgl64.Vec3{0.1, 0.2, 0.3}
	if !vec3AlmostEqual(rb.Transform.Position, expectedPosition, 1e-10) {
		t.Errorf("Position = %v, want %v", rb.Transform.Position, expectedPosition)
	}

	// Previous position should be saved
	if !vec3AlmostEqual(rb.PreviousTransform.Position, mgl64.Vec3{}, 1e-10) {
		t.Errorf("PreviousTransform.Position = %v, want origin", rb.PreviousTransform.Position)
	}
}

func TestIntegrate_Dynamic_MultipleSteps(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1.0)

	dt := 0.1
	gravity := mgl64.Vec3{0, -10, 0}

	for i := 0; i < 3; i++ {
		rb.Integrate(dt, gravity)
	}

	// Step 1: v = -1, p = -0.1
	// Step 2: v = -2, p = -0.3
	// Step 3: v = -3, p = -0.6
	if !vec3AlmostEqual(rb.Velocity, mgl64.Vec3{0, -3, 0}, 1e-9) {
		t.Errorf("Velocity after 3 steps = %v, want (0, -3, 0)", rb.Velocity)
	}
	if !vec3AlmostEqual(rb.Transform.Position, mgl64.Vec3{0, -0.6, 0}, 1e-9) {
		t.Errorf("Position after 3 steps = %v, want (0, -0.6, 0)", rb.Transform.Position)
	}
}

func TestIntegrate_Force(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 2.0)

	rb.AddForce(mgl64.Vec3{4, 0, 0})
	rb.Integrate(0.5, mgl64.Vec3{})

	// a = F/m = 2, v = a*dt = 1, p = v*dt = 0.5
	if !vec3AlmostEqual(rb.Velocity, mgl64.Vec3{1, 0, 0}, 1e-10) {
		t.Errorf("Velocity = %v, want (1, 0, 0)", rb.Velocity)
	}
	if !vec3AlmostEqual(rb.Transform.Position, mgl64.Vec3{0.5, 0, 0}, 1e-10) {
		t.Errorf("Position = %v, want (0.5, 0, 0)", rb.Transform.Position)
	}
}

func TestIntegrate_Static_NoMovement(t *testing.T) {
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{1, 2, 3}), BodyTypeStatic, 1.0)
	rb.Velocity = mgl64.Vec3{5, 5, 5}

	rb.Integrate(0.1, mgl64.Vec3{0, -10, 0})

	if !vec3AlmostEqual(rb.Transform.Position, mgl64.Vec3{1, 2, 3}, 1e-10) {
		t.Errorf("static body moved to %v", rb.Transform.Position)
	}
}

func TestIntegrate_Kinematic_FollowsVelocity(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeKinematic, 1.0)
	rb.Velocity = mgl64.Vec3{2, 0, 0}

	rb.Integrate(0.5, mgl64.Vec3{0, -10, 0})

	// Gravity does not act on kinematic bodies
	if !vec3AlmostEqual(rb.Velocity, mgl64.Vec3{2, 0, 0}, 1e-10) {
		t.Errorf("Velocity = %v, want (2, 0, 0)", rb.Velocity)
	}
	if !vec3AlmostEqual(rb.Transform.Position, mgl64.Vec3{1, 0, 0}, 1e-10) {
		t.Errorf("Position = %v, want (1, 0, 0)", rb.Transform.Position)
	}
}

func TestIntegrate_LinearDamping_Positive(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1.0)
	rb.Material.LinearDamping = 0.5
	rb.Velocity = mgl64.Vec3{10, 0, 0}

	dt := 0.1
	rb.Integrate(dt, mgl64.Vec3{})

	expected := 10 * math.Exp(-0.5*dt)
	if !almostEqual(rb.Velocity.X(), expected, 1e-10) {
		t.Errorf("Velocity.X = %v, want %v", rb.Velocity.X(), expected)
	}
}

func TestIntegrate_Sleeping(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1.0)
	rb.Sleep()

	rb.Integrate(0.1, mgl64.Vec3{0, -10, 0})

	if rb.Transform.Position != (mgl64.Vec3{}) {
		t.Errorf("sleeping body moved to %v", rb.Transform.Position)
	}
}

// =============================================================================
// Sleep Tests
// =============================================================================

func TestTrySleep(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1.0)

	rb.TrySleep(0.05, 0.1, 0.05)
	if rb.IsSleeping {
		t.Fatal("body fell asleep before the time threshold")
	}
	rb.TrySleep(0.06, 0.1, 0.05)
	if !rb.IsSleeping {
		t.Fatal("body should sleep once still for the time threshold")
	}

	rb.Velocity = mgl64.Vec3{1, 0, 0}
	rb.TrySleep(0.05, 0.1, 0.05)
	if rb.IsSleeping {
		t.Error("a moving body must wake up")
	}
}

func TestTrySleep_PendingForce(t *testing.T) {
	rb := NewRigidBody(NewTransform(), BodyTypeDynamic, 1.0)
	rb.AddForce(mgl64.Vec3{0, 1, 0})

	rb.TrySleep(1, 0.1, 0.05)

	if rb.IsSleeping {
		t.Error("a body with a pending force must stay awake")
	}
}

// Helper function to compare floats with epsilon tolerance
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Helper function to compare Vec3 with epsilon tolerance
func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}
