package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/heft"
	"github.com/akmonengine/heft/actor"
	"github.com/akmonengine/heft/constraint"
	"github.com/akmonengine/heft/logging"
	"github.com/go-gl/mathgl/mgl64"
)

// Scene: a truck tows a trailer carrying cargo, and pushes a crate lying in
// front of it. The ground is static.
type Scene struct {
	World   *heft.World
	Ground  *actor.RigidBody
	Truck   *actor.RigidBody
	Trailer *actor.RigidBody
	Cargo   *actor.RigidBody
	Crate   *actor.RigidBody
}

func dynamic(id string, position mgl64.Vec3, mass float64) *actor.RigidBody {
	body := actor.NewRigidBody(actor.NewTransformAt(position), actor.BodyTypeDynamic, mass)
	body.Id = id
	body.Material.LinearDamping = 0.1
	return body
}

// SetupScene creates the bodies, their nodes and joints
func SetupScene(world *heft.World) *Scene {
	s := &Scene{World: world}

	s.Ground = actor.NewRigidBody(actor.NewTransformAt(mgl64.Vec3{0, -1, 0}), actor.BodyTypeStatic, 0)
	s.Ground.Id = "ground"
	world.AddBody(s.Ground)

	s.Truck = dynamic("truck", mgl64.Vec3{0, 0.5, 0}, 1000)
	s.Trailer = dynamic("trailer", mgl64.Vec3{-4, 0.5, 0}, 500)
	s.Cargo = dynamic("cargo", mgl64.Vec3{-4, 1.5, 0}, 200)
	s.Crate = dynamic("crate", mgl64.Vec3{2, 0.5, 0}, 50)

	world.AddNode(s.Truck)
	world.AddNode(s.Trailer)
	world.AddBody(s.Cargo)
	world.AddBody(s.Crate)

	// The hitch ties both ways, the cargo is strapped to the trailer
	world.AddJoint(constraint.NewBodyJoint(s.Truck, s.Trailer))
	world.AddJoint(constraint.NewBodyJoint(s.Trailer, s.Truck))
	world.AddJoint(constraint.NewBodyJoint(s.Trailer, s.Cargo))

	return s
}

// reportContacts stands in for a collision layer
func (s *Scene) reportContacts() {
	for _, body := range []*actor.RigidBody{s.Truck, s.Trailer, s.Crate} {
		s.World.ReportContact(&constraint.ContactConstraint{
			BodyA:  body,
			BodyB:  s.Ground,
			Normal: mgl64.Vec3{0, -1, 0},
			Points: []constraint.ContactPoint{{Position: body.Position().Sub(mgl64.Vec3{0, 0.5, 0})}},
		})
	}

	gap := s.Crate.Position().X() - s.Truck.Position().X()
	if gap <= 1.01 {
		s.World.ReportContact(&constraint.ContactConstraint{
			BodyA:  s.Truck,
			BodyB:  s.Crate,
			Normal: mgl64.Vec3{1, 0, 0},
			Points: []constraint.ContactPoint{{Position: s.Truck.Position().Add(mgl64.Vec3{0.5, 0, 0})}},
		})
	}
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	watch := flag.Bool("watch", false, "reload the config file on change")
	steps := flag.Int("steps", 240, "number of fixed steps")
	flag.Parse()

	cfg := heft.DefaultConfig()
	if *configPath != "" {
		loaded, err := heft.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	// The scene has no vertical solver, gravity would sink everything
	cfg.World.Gravity = []float64{0, 0, 0}

	logger := logging.NewDefaultLogger(cfg.Log.Prefix, cfg.Log.Debug)
	world, err := heft.NewWorld(cfg, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	var watcher *heft.ConfigWatcher
	if *watch && *configPath != "" {
		watcher, err = heft.WatchConfig(*configPath, logger)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	scene := SetupScene(world)
	truckNode, _ := world.Node(scene.Truck)

	world.Events.Subscribe(heft.COLLISION_ENTER, func(event heft.Event) {
		e := event.(heft.CollisionEnterEvent)
		if e.BodyA == scene.Truck && e.BodyB == scene.Crate {
			logger.Infof("truck reached the crate")
		}
	})

	engine := truckNode.ID
	world.OnFixedUpdate(func(w *heft.World, dt float64) {
		// The engine pushes the whole convoy, shared by mass. Holding the id
		// keeps the callback safe once the truck node is destroyed.
		if node, ok := w.Graph.NodeByID(engine); ok {
			node.AddForce(mgl64.Vec3{3000, 0, 0})
		}
	})

	dt := 1.0 / 60.0
	for i := 0; i < *steps; i++ {
		if watcher != nil {
			select {
			case next := <-watcher.Configs:
				next.World.Gravity = []float64{0, 0, 0}
				if err := world.ApplyConfig(next); err != nil {
					logger.Warnf("%v", err)
				}
			case err := <-watcher.Errors:
				logger.Warnf("%v", err)
			default:
			}
		}

		scene.reportContacts()
		world.Step(dt)

		if i%60 == 0 {
			forward := mgl64.Vec3{1, 0, 0}
			fmt.Printf("t=%.2fs truck=%.3f crate=%.3f convoy mass=%.0f blocked=%.0f\n",
				float64(i)*dt,
				scene.Truck.Position().X(),
				scene.Crate.Position().X(),
				truckNode.JointMass(mgl64.Vec3{})+truckNode.Mass(),
				truckNode.CollisionMass(forward),
			)
		}
	}
}
