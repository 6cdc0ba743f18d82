package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/camera"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles = 15000
	DefaultOrnaments = 120
	DefaultPhotos    = 12
	DefaultFPS       = 60
	DefaultSeed      = 2024
	DefaultTheme     = "evergreen"
	DefaultDuration  = 10.0

	// EnvPrefix namespaces every environment override.
	EnvPrefix = "XMASTREE_"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Counts CountsConfig `yaml:"counts" envPrefix:"COUNT_"`
	Tree   TreeConfig   `yaml:"tree" envPrefix:"TREE_"`
	Chaos  ChaosConfig  `yaml:"chaos" envPrefix:"CHAOS_"`
	Camera CameraConfig `yaml:"camera" envPrefix:"CAMERA_"`
	Kinds  KindConfig   `yaml:"kinds" envPrefix:"KIND_"`

	SmoothingRate     float64 `yaml:"smoothing_rate" env:"SMOOTHING_RATE"`
	OrnamentOvershoot string  `yaml:"ornament_overshoot" env:"ORNAMENT_OVERSHOOT"`
	FPS               int     `yaml:"fps" env:"FPS"`
	Duration          float64 `yaml:"duration" env:"DURATION"`
	Seed              int64   `yaml:"seed" env:"SEED"`
	Theme             string  `yaml:"theme" env:"THEME"`
	Feed              string  `yaml:"feed,omitempty" env:"FEED"`
}

type CountsConfig struct {
	Particles int `yaml:"particles" env:"PARTICLES"`
	Ornaments int `yaml:"ornaments" env:"ORNAMENTS"`
	Photos    int `yaml:"photos" env:"PHOTOS"`
}

type TreeConfig struct {
	Height float64 `yaml:"height" env:"HEIGHT"`
	Radius float64 `yaml:"radius" env:"RADIUS"`
	BaseY  float64 `yaml:"base_y" env:"BASE_Y"`
}

type ChaosConfig struct {
	ParticleRadius float64 `yaml:"particle_radius" env:"PARTICLE_RADIUS"`
	OrnamentRadius float64 `yaml:"ornament_radius" env:"ORNAMENT_RADIUS"`
	PhotoRadius    float64 `yaml:"photo_radius" env:"PHOTO_RADIUS"`
	Lift           float64 `yaml:"lift" env:"LIFT"`
}

type CameraConfig struct {
	Fraction   float64 `yaml:"fraction" env:"FRACTION"`
	BaseHeight float64 `yaml:"base_height" env:"BASE_HEIGHT"`
	Distance   float64 `yaml:"distance" env:"DISTANCE"`
}

// KindConfig holds the relative occurrence of each ornament kind.
type KindConfig struct {
	Ball  float64 `yaml:"ball" env:"BALL"`
	Gift  float64 `yaml:"gift" env:"GIFT"`
	Light float64 `yaml:"light" env:"LIGHT"`
}

func DefaultConfig() *Config {
	shape := layout.DefaultShape()
	return &Config{
		Counts: CountsConfig{
			Particles: DefaultParticles,
			Ornaments: DefaultOrnaments,
			Photos:    DefaultPhotos,
		},
		Tree: TreeConfig{
			Height: shape.Height,
			Radius: shape.Radius,
			BaseY:  shape.BaseY,
		},
		Chaos: ChaosConfig{
			ParticleRadius: shape.ParticleChaosRadius,
			OrnamentRadius: shape.OrnamentChaosRadius,
			PhotoRadius:    shape.PhotoChaosRadius,
			Lift:           shape.ChaosLift,
		},
		Camera: CameraConfig{
			Fraction:   camera.DefaultFraction,
			BaseHeight: camera.DefaultBaseHeight,
			Distance:   camera.DefaultDistance,
		},
		Kinds:             KindConfig{Ball: 1, Gift: 1, Light: 1},
		SmoothingRate:     anim.DefaultSmoothingRate,
		OrnamentOvershoot: pose.AllowOvershoot.String(),
		FPS:               DefaultFPS,
		Duration:          DefaultDuration,
		Seed:              DefaultSeed,
		Theme:             DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides cfg with any XMASTREE_* variables that are set.
func ApplyEnv(cfg *Config) error {
	return ApplyEnvFrom(cfg, nil)
}

// ApplyEnvFrom is ApplyEnv over an explicit environment; a nil map reads the
// process environment.
func ApplyEnvFrom(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	check(c.SmoothingRate > 0, "smoothing_rate must be positive, got %f", c.SmoothingRate)
	check(c.FPS > 0 && c.FPS <= 240, "fps must be in (0, 240], got %d", c.FPS)
	check(c.Duration > 0, "duration must be positive, got %f", c.Duration)
	check(c.Tree.Height > 0, "tree.height must be positive, got %f", c.Tree.Height)
	check(c.Tree.Radius > 0, "tree.radius must be positive, got %f", c.Tree.Radius)
	check(c.Chaos.ParticleRadius >= 0 && c.Chaos.OrnamentRadius >= 0 && c.Chaos.PhotoRadius >= 0,
		"chaos radii must not be negative")
	check(c.Camera.Fraction > 0 && c.Camera.Fraction <= 1, "camera.fraction must be in (0, 1], got %f", c.Camera.Fraction)
	check(c.Kinds.Ball >= 0 && c.Kinds.Gift >= 0 && c.Kinds.Light >= 0, "kind weights must not be negative")
	check(c.Kinds.Ball+c.Kinds.Gift+c.Kinds.Light > 0, "at least one ornament kind needs a positive weight")
	if _, err := pose.ParseOvershootPolicy(c.OrnamentOvershoot); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

// Shape is the layout geometry described by the config.
func (c *Config) Shape() layout.Shape {
	s := layout.DefaultShape()
	s.Height = c.Tree.Height
	s.Radius = c.Tree.Radius
	s.BaseY = c.Tree.BaseY
	s.ParticleChaosRadius = c.Chaos.ParticleRadius
	s.OrnamentChaosRadius = c.Chaos.OrnamentRadius
	s.PhotoChaosRadius = c.Chaos.PhotoRadius
	s.ChaosLift = c.Chaos.Lift
	s.KindOccurrence = map[layout.OrnamentKind]float64{
		layout.Ball:  c.Kinds.Ball,
		layout.Gift:  c.Kinds.Gift,
		layout.Light: c.Kinds.Light,
	}
	return s
}

// Policy parses OrnamentOvershoot; Validate has already rejected bad values.
func (c *Config) Policy() pose.OvershootPolicy {
	p, _ := pose.ParseOvershootPolicy(c.OrnamentOvershoot)
	return p
}

// Tables generates the layout for this config.
func (c *Config) Tables() *layout.Tables {
	return layout.NewGenerator(c.Shape(), c.Seed).Generate(c.Counts.Particles, c.Counts.Ornaments, c.Counts.Photos)
}

// NewCamera returns a camera controller using the configured tuning.
func (c *Config) NewCamera() *camera.Controller {
	cam := camera.New()
	cam.Fraction = c.Camera.Fraction
	cam.BaseHeight = c.Camera.BaseHeight
	cam.Position.Y = c.Camera.BaseHeight
	cam.Position.Z = c.Camera.Distance
	return cam
}
