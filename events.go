package heft

import (
	"unsafe"

	"github.com/akmonengine/heft/actor"
	"github.com/akmonengine/heft/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

type EventType uint8

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE

	eventTypeCount
)

type Event interface {
	Type() EventType
}

type EventListener func(event Event)

// Pair names the two bodies of a contact report, in report order.
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// Other returns the body facing body in the pair, nil when body is not part of it
func (p Pair) Other(body *actor.RigidBody) *actor.RigidBody {
	switch body {
	case p.BodyA:
		return p.BodyB
	case p.BodyB:
		return p.BodyA
	}
	return nil
}

func pairOf(c *constraint.ContactConstraint) Pair {
	return Pair{BodyA: c.BodyA, BodyB: c.BodyB}
}

type TriggerEnterEvent struct{ Pair }
type TriggerStayEvent struct{ Pair }
type TriggerExitEvent struct{ Pair }

// CollisionEnterEvent and CollisionStayEvent carry the normal of the latest
// report, from BodyA to BodyB.
type CollisionEnterEvent struct {
	Pair
	Normal mgl64.Vec3
}

type CollisionStayEvent struct {
	Pair
	Normal mgl64.Vec3
}

type CollisionExitEvent struct{ Pair }

type SleepEvent struct {
	Body *actor.RigidBody
}

type WakeEvent struct {
	Body *actor.RigidBody
}

func (TriggerEnterEvent) Type() EventType   { return TRIGGER_ENTER }
func (TriggerStayEvent) Type() EventType    { return TRIGGER_STAY }
func (TriggerExitEvent) Type() EventType    { return TRIGGER_EXIT }
func (CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }
func (CollisionStayEvent) Type() EventType  { return COLLISION_STAY }
func (CollisionExitEvent) Type() EventType  { return COLLISION_EXIT }
func (SleepEvent) Type() EventType          { return ON_SLEEP }
func (WakeEvent) Type() EventType           { return ON_WAKE }

// pairKey orders the two bodies by address so A-B and B-A share a key
type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	if uintptr(unsafe.Pointer(bodyB)) < uintptr(unsafe.Pointer(bodyA)) {
		bodyA, bodyB = bodyB, bodyA
	}
	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

func (k pairKey) has(body *actor.RigidBody) bool {
	return k.bodyA == body || k.bodyB == body
}

func (k pairKey) asleep() bool {
	return k.bodyA.IsSleeping && k.bodyB.IsSleeping
}

type contactPhase uint8

const (
	contactEnter contactPhase = iota
	contactStay
	contactExit
)

// contactChange is a transition of a tracked pair, handed to the mass graph
type contactChange struct {
	phase   contactPhase
	contact *constraint.ContactConstraint
}

// Events tracks contact pairs and sleep states across steps and dispatches
// the resulting events at the end of each step.
type Events struct {
	listeners [eventTypeCount][]EventListener
	buffer    []Event

	// touching holds the pairs of the last processed step, reported the pairs
	// of the step in progress. Both keep the latest report of each pair.
	touching map[pairKey]*constraint.ContactConstraint
	reported map[pairKey]*constraint.ContactConstraint

	sleeping map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		buffer:   make([]Event, 0, 256),
		touching: make(map[pairKey]*constraint.ContactConstraint),
		reported: make(map[pairKey]*constraint.ContactConstraint),
		sleeping: make(map[*actor.RigidBody]bool),
	}
}

func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if eventType >= eventTypeCount || listener == nil {
		return
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions marks the reported pairs as active for this step.
// A pair reported twice keeps its last report.
func (e *Events) recordCollisions(constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		if c == nil || c.BodyA == nil || c.BodyB == nil || c.BodyA == c.BodyB {
			continue
		}
		e.reported[makePairKey(c.BodyA, c.BodyB)] = c
	}
}

// processCollisionEvents diffs the reported pairs against the touching ones.
// Every transition is returned; events are only buffered when one side is
// awake.
func (e *Events) processCollisionEvents() []contactChange {
	changes := make([]contactChange, 0, len(e.reported)+len(e.touching))

	for key, c := range e.reported {
		_, stay := e.touching[key]
		phase := contactEnter
		if stay {
			phase = contactStay
		}
		changes = append(changes, contactChange{phase: phase, contact: c})

		if !key.asleep() {
			e.buffer = append(e.buffer, contactEvent(phase, c))
		}
	}

	for key, c := range e.touching {
		if _, ok := e.reported[key]; ok {
			continue
		}
		changes = append(changes, contactChange{phase: contactExit, contact: c})
		e.buffer = append(e.buffer, contactEvent(contactExit, c))
	}

	e.touching, e.reported = e.reported, e.touching
	clear(e.reported)

	return changes
}

func contactEvent(phase contactPhase, c *constraint.ContactConstraint) Event {
	pair := pairOf(c)
	if c.IsTrigger() {
		switch phase {
		case contactEnter:
			return TriggerEnterEvent{pair}
		case contactStay:
			return TriggerStayEvent{pair}
		default:
			return TriggerExitEvent{pair}
		}
	}

	switch phase {
	case contactEnter:
		return CollisionEnterEvent{Pair: pair, Normal: c.Normal}
	case contactStay:
		return CollisionStayEvent{Pair: pair, Normal: c.Normal}
	default:
		return CollisionExitEvent{pair}
	}
}

// forget drops every pair involving body and returns the touching ones as exits
func (e *Events) forget(body *actor.RigidBody) []contactChange {
	var changes []contactChange
	for key, c := range e.touching {
		if !key.has(body) {
			continue
		}
		changes = append(changes, contactChange{phase: contactExit, contact: c})
		e.buffer = append(e.buffer, contactEvent(contactExit, c))
		delete(e.touching, key)
	}
	for key := range e.reported {
		if key.has(body) {
			delete(e.reported, key)
		}
	}
	delete(e.sleeping, body)

	return changes
}

// processSleepEvents buffers a SleepEvent or WakeEvent for every body whose
// state flipped since the last call. The first sighting of a body only
// records its state.
func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		was, tracked := e.sleeping[body]
		e.sleeping[body] = body.IsSleeping
		if !tracked || was == body.IsSleeping {
			continue
		}

		if body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
		} else {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
		}
	}
}

func (e *Events) flush() {
	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
