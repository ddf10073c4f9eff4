package mass

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// KinematicMass is the effective mass of kinematic bodies and anchors. It is
// large enough to dominate every ratio it takes part in.
const KinematicMass = 10000.0

const (
	DefaultStableAngle = 15.0
	DefaultSlideAngle  = 75.0
)

// Obstruction returns how much of a contact, in [0, 1], resists motion along
// direction. normal points from the contacting entity towards the node.
type Obstruction[V Vector[V]] func(direction, normal V) float64

// Binary counts any contact whose normal faces against direction in full.
func Binary[V Vector[V]]() Obstruction[V] {
	return func(direction, normal V) float64 {
		if direction.Dot(normal) < 0 {
			return 1
		}
		return 0
	}
}

// Graduated weights a contact by how head-on it is: full up to stable degrees
// away from head-on, nothing past slide degrees, and a quadratic ramp on the
// squared cosine in between.
func Graduated[V Vector[V]](stable, slide float64) Obstruction[V] {
	cosStable := math.Cos(mgl64.DegToRad(stable))
	cosSlide := math.Cos(mgl64.DegToRad(slide))
	low := cosSlide * cosSlide
	span := cosStable*cosStable - low

	return func(direction, normal V) float64 {
		dot := direction.Normalize().Dot(normal)
		if dot >= 0 {
			return 0
		}
		if span <= 0 {
			return 1
		}
		return mgl64.Clamp((dot*dot-low)/span, 0, 1)
	}
}

// Settings tune a graph.
type Settings[V Vector[V]] struct {
	KinematicMass float64
	Obstruction   Obstruction[V]
	// NormalizeContacts normalizes the summed normal of contacts reporting more
	// than one point.
	NormalizeContacts bool
}

func Settings3D() Settings[mgl64.Vec3] {
	return Settings[mgl64.Vec3]{
		KinematicMass: KinematicMass,
		Obstruction:   Binary[mgl64.Vec3](),
	}
}

func Settings2D() Settings[mgl64.Vec2] {
	return Settings[mgl64.Vec2]{
		KinematicMass:     KinematicMass,
		Obstruction:       Graduated[mgl64.Vec2](DefaultStableAngle, DefaultSlideAngle),
		NormalizeContacts: true,
	}
}

func (s Settings[V]) withDefaults() Settings[V] {
	if s.KinematicMass <= 0 {
		s.KinematicMass = KinematicMass
	}
	if s.Obstruction == nil {
		s.Obstruction = Binary[V]()
	}
	return s
}
