package heft

import (
	"fmt"
	"slices"

	"github.com/akmonengine/heft/actor"
	"github.com/akmonengine/heft/constraint"
	"github.com/akmonengine/heft/logging"
	"github.com/akmonengine/heft/mass"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// FixedUpdate runs once per step, after contacts are up to date and before
// integration. Gameplay forces go here.
type FixedUpdate func(w *World, dt float64)

// World drives point-mass bodies and keeps their mass graph in sync with the
// joints and contacts reported by the host.
type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Substeps int
	Workers  int

	SleepTime     float64
	SleepVelocity float64

	Graph  *mass.Graph[mgl64.Vec3]
	Events Events

	logger       logging.Logger
	anchors      map[*actor.RigidBody]*mass.Anchor
	joints       []*constraint.Joint
	pending      []*mass.Node[mgl64.Vec3]
	started      map[*mass.Node[mgl64.Vec3]]bool
	contacts     []*constraint.ContactConstraint
	fixedUpdates []FixedUpdate
}

func NewWorld(cfg Config, logger logging.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger = logging.OrNop(logger)
	w := &World{
		Graph:   mass.NewGraph(cfg.MassSettings(), logger),
		Events:  NewEvents(),
		logger:  logger,
		anchors: make(map[*actor.RigidBody]*mass.Anchor),
		started: make(map[*mass.Node[mgl64.Vec3]]bool),
	}
	w.Graph.AddResolver(w.resolveStatic)
	w.configure(cfg)

	return w, nil
}

// ApplyConfig swaps the tuning of a running world. Call it between steps.
func (w *World) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.configure(cfg)
	w.logger.Infof("world config applied")
	return nil
}

func (w *World) configure(cfg Config) {
	w.Graph.Configure(cfg.MassSettings())
	w.Gravity = cfg.GravityVec()
	w.Substeps = cfg.World.Substeps
	w.Workers = cfg.World.Workers
	w.SleepTime = cfg.World.SleepTime
	w.SleepVelocity = cfg.World.SleepVelocity
	w.logger.SetDebug(cfg.Log.Debug)
}

func (w *World) Logger() logging.Logger {
	return w.logger
}

// resolveStatic stands static bodies in for anchors, so joining or touching
// the ground adds the kinematic mass.
func (w *World) resolveStatic(target any) (mass.Leaf[mgl64.Vec3], bool) {
	body, ok := target.(*actor.RigidBody)
	if !ok || body == nil || body.BodyType != actor.BodyTypeStatic {
		return mass.Leaf[mgl64.Vec3]{}, false
	}
	return mass.StaticLeaf[mgl64.Vec3](w.Anchor(body)), true
}

// Anchor returns the anchor standing for a static body
func (w *World) Anchor(body *actor.RigidBody) *mass.Anchor {
	if anchor, ok := w.anchors[body]; ok {
		return anchor
	}
	name := ""
	if body.Id != nil {
		name = fmt.Sprint(body.Id)
	}
	anchor := mass.NewAnchor(name)
	w.anchors[body] = anchor
	return anchor
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	if body == nil || slices.Contains(w.Bodies, body) {
		return
	}
	w.Bodies = append(w.Bodies, body)
	if body.BodyType == actor.BodyTypeStatic {
		w.Anchor(body)
	}
}

// AddAnchor creates a free anchor, for joints fixed to the world itself
func (w *World) AddAnchor(name string) *mass.Anchor {
	return mass.NewAnchor(name)
}

// AddNode gives body a mass node and adds it to the world. A nil body gives
// a node without mass of its own. The node auto-joins at the next step.
func (w *World) AddNode(body *actor.RigidBody) *mass.Node[mgl64.Vec3] {
	if body == nil {
		node := w.Graph.NewNode(nil)
		w.pending = append(w.pending, node)
		return node
	}
	if body.BodyType == actor.BodyTypeStatic {
		w.logger.Warnf("world: static body %v cannot own a node", body.Id)
		return nil
	}
	if node, ok := w.Graph.Lookup(body); ok {
		return node
	}

	w.AddBody(body)
	node := w.Graph.NewNode(body)
	w.pending = append(w.pending, node)
	return node
}

// Node returns the node owned by body
func (w *World) Node(body *actor.RigidBody) (*mass.Node[mgl64.Vec3], bool) {
	if body == nil {
		return nil, false
	}
	return w.Graph.Lookup(body)
}

// AddJoint registers a joint. Joints owned by a node that already started
// join right away when the node auto-joins.
func (w *World) AddJoint(joint *constraint.Joint) {
	if joint == nil || slices.Contains(w.joints, joint) {
		return
	}
	w.joints = append(w.joints, joint)

	if node, ok := w.Node(joint.Body); ok && w.started[node] && node.AutoJoin {
		node.Start(joint.Edge())
	}
}

// RemoveJoint unregisters a joint and breaks its edge, unless another joint
// still ties the same two ends.
func (w *World) RemoveJoint(joint *constraint.Joint) {
	k := slices.Index(w.joints, joint)
	if k == -1 {
		return
	}
	w.joints = slices.Delete(w.joints, k, k+1)
	w.breakJoint(joint)
}

func (w *World) breakJoint(joint *constraint.Joint) {
	node, ok := w.Node(joint.Body)
	if !ok {
		return
	}
	target := joint.Target()
	if target == nil {
		return
	}
	for _, other := range w.joints {
		if other.Owns(joint.Body) && other.Target() == target {
			return
		}
	}
	node.TryBreak(target)
}

// Joints returns the joints owned by body
func (w *World) Joints(body *actor.RigidBody) []*constraint.Joint {
	var joints []*constraint.Joint
	for _, joint := range w.joints {
		if joint.Owns(body) {
			joints = append(joints, joint)
		}
	}
	return joints
}

// ReportContact queues a contact found by the collision layer. Pairs reported
// again on the next step stay in contact, pairs not reported exit.
func (w *World) ReportContact(contact *constraint.ContactConstraint) {
	if contact == nil {
		return
	}
	w.contacts = append(w.contacts, contact)
}

func (w *World) OnFixedUpdate(fn FixedUpdate) {
	if fn != nil {
		w.fixedUpdates = append(w.fixedUpdates, fn)
	}
}

// RemoveBody removes a rigid body from the world. Its contacts end, the
// joints touching it break and its node is destroyed.
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := slices.Index(w.Bodies, body)
	if k == -1 {
		return
	}

	for _, change := range w.Events.forget(body) {
		w.dispatchContact(change)
	}

	var touching []*constraint.Joint
	w.joints = slices.DeleteFunc(w.joints, func(joint *constraint.Joint) bool {
		if joint.Touches(body) {
			touching = append(touching, joint)
			return true
		}
		return false
	})
	for _, joint := range touching {
		if !joint.Owns(body) {
			w.breakJoint(joint)
		}
	}

	if node, ok := w.Graph.Lookup(body); ok {
		w.pending = slices.DeleteFunc(w.pending, func(p *mass.Node[mgl64.Vec3]) bool { return p == node })
		delete(w.started, node)
		w.Graph.Destroy(node)
	}
	delete(w.anchors, body)

	body.MarkRemoved()
	w.Bodies = slices.Delete(w.Bodies, k, k+1)
}

// Step advances the world by dt. Each step starts the pending nodes, updates
// contacts, runs the fixed updates, integrates and finally sends events.
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	substeps := max(1, w.Substeps)
	h := dt / float64(substeps)

	w.startPending()
	w.updateContacts()

	for _, fn := range w.fixedUpdates {
		fn(w, dt)
	}

	for range substeps {
		w.integrate(h)
		w.trySleep(h)
	}
	w.clearForces()

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) startPending() {
	pending := w.pending
	w.pending = nil

	for _, node := range pending {
		if node.Destroyed() {
			continue
		}
		var edges []mass.Joint
		if body, ok := node.Body().(*actor.RigidBody); ok {
			for _, joint := range w.Joints(body) {
				edges = append(edges, joint.Edge())
			}
		}
		node.Start(edges...)
		w.started[node] = true
	}
}

func (w *World) updateContacts() {
	w.Events.recordCollisions(w.contacts)
	clear(w.contacts)
	w.contacts = w.contacts[:0]

	for _, change := range w.Events.processCollisionEvents() {
		w.dispatchContact(change)
	}
}

// dispatchContact feeds a pair transition to the node of each side.
// Triggers never weigh in.
func (w *World) dispatchContact(change contactChange) {
	c := change.contact
	if c.IsTrigger() {
		return
	}

	for _, side := range []*actor.RigidBody{c.BodyA, c.BodyB} {
		node, ok := w.Node(side)
		if !ok {
			continue
		}
		other := c.Other(side)
		contact := mass.Contact[mgl64.Vec3]{
			Collider: other,
			Normals:  c.NormalsFor(side),
		}
		if other.BodyType == actor.BodyTypeStatic {
			contact.Static = w.Anchor(other)
		} else {
			contact.Body = other
		}

		switch change.phase {
		case contactEnter:
			node.ContactEnter(contact)
		case contactStay:
			node.ContactStay(contact)
		case contactExit:
			node.ContactExit(contact)
		}
	}
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, w.SleepTime, w.SleepVelocity)
	}
}

func (w *World) clearForces() {
	for _, body := range w.Bodies {
		body.ClearForces()
	}
}
