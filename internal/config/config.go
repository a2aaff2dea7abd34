// Package config provides YAML-based game configuration loading and
// validation for the flapper game.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// FlappyConfig contains all tunable parameters of the game.
type FlappyConfig struct {
	World     World     `yaml:"world"`
	Physics   Physics   `yaml:"physics"`
	Entity    Entity    `yaml:"entity"`
	Obstacles Obstacles `yaml:"obstacles"`
	Scoring   Scoring   `yaml:"scoring"`
	Scenery   Scenery   `yaml:"scenery"`
}

// World defines the simulated playfield in pixels.
type World struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines the per-tick motion of the flyer.
type Physics struct {
	Gravity         float64 `yaml:"gravity"`          // added to velocity every tick (positive = down)
	FlapImpulse     float64 `yaml:"flap_impulse"`     // velocity set by a flap (negative = up)
	FlapAngle       float64 `yaml:"flap_angle"`       // visual angle set by a flap
	AngleDecay      float64 `yaml:"angle_decay"`      // subtracted from the angle every tick
	MinAngle        float64 `yaml:"min_angle"`        // floor of the nose-dive
	AnimationSpeed  float64 `yaml:"animation_speed"`  // animation time added every tick
	AnimationFrames int     `yaml:"animation_frames"` // number of wing frames
}

// Entity defines the flyer's geometry.
type Entity struct {
	X     float64 `yaml:"x"`     // fixed horizontal position
	Size  float64 `yaml:"size"`  // sprite size; y is clamped to [0, height-size]
	Inset float64 `yaml:"inset"` // hitbox margin on every side
}

// Obstacles defines pipe geometry and spawn timing.
type Obstacles struct {
	Gap             float64 `yaml:"gap"`               // vertical opening
	Width           float64 `yaml:"width"`             // horizontal extent
	GapMargin       float64 `yaml:"gap_margin"`        // gap centre is kept this far from top and bottom
	SpawnIntervalMs int     `yaml:"spawn_interval_ms"` // simulated time between spawns
}

// SpawnInterval returns the spawn interval as a duration.
func (o Obstacles) SpawnInterval() time.Duration {
	return time.Duration(o.SpawnIntervalMs) * time.Millisecond
}

// Scenery defines the cosmetic background layers.
type Scenery struct {
	BackgroundFactor  float64 `yaml:"background_factor"`   // sky scroll per unit of game speed
	BuildingFactor    float64 `yaml:"building_factor"`     // skyline scroll per unit of game speed
	Clouds            int     `yaml:"clouds"`              // number of clouds
	CloudSpeedDivisor float64 `yaml:"cloud_speed_divisor"` // cloud dx = speed * gameSpeed / divisor
}

// Validate checks the invariants the simulation relies on.
// It is called once when a config is loaded, never per frame.
func (c FlappyConfig) Validate() error {
	var errs []error

	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.Entity.Size <= 0 || c.Entity.Size >= c.World.Height {
		errs = append(errs, fmt.Errorf("entity size %g must be in (0, world height %g)", c.Entity.Size, c.World.Height))
	}
	if c.Entity.Inset < 0 || 2*c.Entity.Inset >= c.Entity.Size {
		errs = append(errs, fmt.Errorf("entity inset %g leaves no hitbox for size %g", c.Entity.Inset, c.Entity.Size))
	}
	if c.Entity.X < 0 || c.Entity.X+c.Entity.Size > c.World.Width {
		errs = append(errs, fmt.Errorf("entity x %g is outside the world", c.Entity.X))
	}
	if c.Obstacles.Width <= 0 {
		errs = append(errs, fmt.Errorf("obstacle width must be positive, got %g", c.Obstacles.Width))
	}
	if c.Obstacles.Gap <= 0 {
		errs = append(errs, fmt.Errorf("obstacle gap must be positive, got %g", c.Obstacles.Gap))
	}
	// Both solid regions need positive height for every sampled gap centre.
	if c.Obstacles.GapMargin <= c.Obstacles.Gap/2 {
		errs = append(errs, fmt.Errorf("gap margin %g must exceed half the gap (%g)", c.Obstacles.GapMargin, c.Obstacles.Gap/2))
	}
	// Gap centres are whole pixels, so the range must hold at least one integer.
	if math.Ceil(c.Obstacles.GapMargin) > math.Floor(c.World.Height-c.Obstacles.GapMargin) {
		errs = append(errs, fmt.Errorf("gap margin %g leaves no range in world height %g", c.Obstacles.GapMargin, c.World.Height))
	}
	if c.Obstacles.SpawnIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("spawn interval must be positive, got %dms", c.Obstacles.SpawnIntervalMs))
	}
	if c.Physics.AnimationFrames <= 0 {
		errs = append(errs, fmt.Errorf("animation frames must be positive, got %d", c.Physics.AnimationFrames))
	}
	if c.Physics.MinAngle > c.Physics.FlapAngle {
		errs = append(errs, fmt.Errorf("min angle %g exceeds flap angle %g", c.Physics.MinAngle, c.Physics.FlapAngle))
	}
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Scenery.Clouds < 0 {
		errs = append(errs, fmt.Errorf("cloud count must not be negative, got %d", c.Scenery.Clouds))
	}
	if c.Scenery.Clouds > 0 && c.Scenery.CloudSpeedDivisor <= 0 {
		errs = append(errs, fmt.Errorf("cloud speed divisor must be positive, got %g", c.Scenery.CloudSpeedDivisor))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// ParseFlappy decodes YAML on top of the defaults, so a file only needs
// the fields it overrides.
func ParseFlappy(data []byte) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: cannot parse: %w", err)
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c FlappyConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode: %w", err)
	}
	return data, nil
}
