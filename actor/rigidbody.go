package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces and gravity
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// In a mass graph they stand behind an anchor (e.g., ground, walls)
	BodyTypeStatic

	// BodyTypeKinematic bodies ignore forces and move only by their velocity
	// They weigh in with the kinematic mass in every aggregation
	BodyTypeKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	case BodyTypeKinematic:
		return "kinematic"
	}
	return "unknown"
}

type Material struct {
	mass          float64
	LinearDamping float64 // 0.0 - 1.0, typical: 0.01
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody is a point mass driven by accumulated forces
type RigidBody struct {
	Id any

	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion (m/s)
	Velocity mgl64.Vec3

	accumulatedForce mgl64.Vec3

	IsTrigger  bool
	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material Material
	BodyType BodyType

	removed bool
}

// NewRigidBody creates a new rigid body with the given mass
// mass is ignored for static bodies, which have infinite mass
func NewRigidBody(transform Transform, bodyType BodyType, mass float64) *RigidBody {
	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		BodyType:          bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{mass: math.Inf(1)}
	} else {
		rb.Material = Material{mass: math.Max(mass, 0)}
	}

	return rb
}

// SetMass changes the mass of a non static body
func (rb *RigidBody) SetMass(mass float64) {
	if rb.BodyType != BodyTypeStatic {
		rb.Material.mass = math.Max(mass, 0)
	}
}

func (rb *RigidBody) Position() mgl64.Vec3 {
	return rb.Transform.Position
}

func (rb *RigidBody) Mass() float64 {
	return rb.Material.GetMass()
}

// IsKinematic reports whether forces leave the body in place
func (rb *RigidBody) IsKinematic() bool {
	return rb.BodyType != BodyTypeDynamic
}

// Alive is false once the body has been removed from its world
func (rb *RigidBody) Alive() bool {
	return !rb.removed
}

// MarkRemoved flags the body as destroyed; mass graphs skip it from then on
func (rb *RigidBody) MarkRemoved() {
	rb.removed = true
}

// AccumulatedForce returns the force applied since the last integration
func (rb *RigidBody) AccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	if rb.Velocity.Len() < velocityThreshold && rb.accumulatedForce.Len() == 0 {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances the body by dt, semi-implicit Euler
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform.Position = rb.Transform.Position

	if rb.BodyType == BodyTypeDynamic && rb.Material.mass > 0 {
		acceleration := gravity.Add(rb.accumulatedForce.Mul(1.0 / rb.Material.mass))
		rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
		rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))
}

// AddForce in N, kept until the next ClearForces
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}
	rb.Awake()
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
}
