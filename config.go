package heft

import (
	"errors"
	"fmt"
	"os"

	"github.com/akmonengine/heft/mass"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("heft: invalid config")

const (
	ObstructionBinary    = "binary"
	ObstructionGraduated = "graduated"
)

type ObstructionConfig struct {
	Mode        string  `yaml:"mode"`
	StableAngle float64 `yaml:"stable_angle"`
	SlideAngle  float64 `yaml:"slide_angle"`
}

type WorldConfig struct {
	Substeps      int       `yaml:"substeps"`
	Workers       int       `yaml:"workers"`
	Gravity       []float64 `yaml:"gravity,flow"`
	SleepTime     float64   `yaml:"sleep_time"`
	SleepVelocity float64   `yaml:"sleep_velocity"`
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

// Config is the YAML document tuning a world and its mass graph.
type Config struct {
	KinematicMass     float64           `yaml:"kinematic_mass"`
	Obstruction       ObstructionConfig `yaml:"obstruction"`
	NormalizeContacts bool              `yaml:"normalize_contacts"`
	World             WorldConfig       `yaml:"world"`
	Log               LogConfig         `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		KinematicMass: mass.KinematicMass,
		Obstruction: ObstructionConfig{
			Mode:        ObstructionBinary,
			StableAngle: mass.DefaultStableAngle,
			SlideAngle:  mass.DefaultSlideAngle,
		},
		World: WorldConfig{
			Substeps:      4,
			Workers:       DEFAULT_WORKERS,
			Gravity:       []float64{0, -9.81, 0},
			SleepTime:     0.1,
			SleepVelocity: 0.05,
		},
		Log: LogConfig{Prefix: "heft"},
	}
}

// LoadConfig reads and validates a YAML config file. Missing keys keep their
// default value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("heft: load config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("heft: load config %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("heft: unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.KinematicMass <= 0 {
		errs = append(errs, fmt.Errorf("kinematic_mass must be positive, got %v", c.KinematicMass))
	}
	switch c.Obstruction.Mode {
	case ObstructionBinary:
	case ObstructionGraduated:
		if c.Obstruction.StableAngle < 0 || c.Obstruction.SlideAngle > 90 {
			errs = append(errs, fmt.Errorf("obstruction angles must lie in [0, 90], got %v and %v", c.Obstruction.StableAngle, c.Obstruction.SlideAngle))
		}
		if c.Obstruction.StableAngle >= c.Obstruction.SlideAngle {
			errs = append(errs, fmt.Errorf("stable_angle %v must be below slide_angle %v", c.Obstruction.StableAngle, c.Obstruction.SlideAngle))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown obstruction mode %q", c.Obstruction.Mode))
	}
	if c.World.Substeps < 1 {
		errs = append(errs, fmt.Errorf("substeps must be at least 1, got %d", c.World.Substeps))
	}
	if c.World.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.World.Workers))
	}
	if len(c.World.Gravity) != 3 {
		errs = append(errs, fmt.Errorf("gravity needs 3 components, got %d", len(c.World.Gravity)))
	}
	if c.World.SleepTime < 0 || c.World.SleepVelocity < 0 {
		errs = append(errs, errors.New("sleep thresholds must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// GravityVec returns the configured gravity, zero when malformed.
func (c Config) GravityVec() mgl64.Vec3 {
	if len(c.World.Gravity) != 3 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{c.World.Gravity[0], c.World.Gravity[1], c.World.Gravity[2]}
}

// MassSettings builds the settings of a 3D graph.
func (c Config) MassSettings() mass.Settings[mgl64.Vec3] {
	return Settings[mgl64.Vec3](c)
}

// Settings builds graph settings for any vector type, so a 2D binding can
// share the file of a 3D world.
func Settings[V mass.Vector[V]](c Config) mass.Settings[V] {
	settings := mass.Settings[V]{
		KinematicMass:     c.KinematicMass,
		NormalizeContacts: c.NormalizeContacts,
	}
	switch c.Obstruction.Mode {
	case ObstructionGraduated:
		settings.Obstruction = mass.Graduated[V](c.Obstruction.StableAngle, c.Obstruction.SlideAngle)
	default:
		settings.Obstruction = mass.Binary[V]()
	}
	return settings
}
