package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the reference configuration: a 1280x720
// world at 60 ticks per second.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: World{
			Width:  1280,
			Height: 720,
		},
		Physics: Physics{
			Gravity:         0.6,
			FlapImpulse:     -10,
			FlapAngle:       20,
			AngleDecay:      2,
			MinAngle:        -90,
			AnimationSpeed:  0.15,
			AnimationFrames: 3,
		},
		Entity: Entity{
			X:     320, // a quarter of the world width
			Size:  45,
			Inset: 7,
		},
		Obstacles: Obstacles{
			Gap:             200,
			Width:           80,
			GapMargin:       200,
			SpawnIntervalMs: 1800,
		},
		Scoring: Scoring{
			BaseSpeed: 6,
			Threshold: 10,
			Increment: 0.5,
		},
		Scenery: Scenery{
			BackgroundFactor:  0.2,
			BuildingFactor:    0.5,
			Clouds:            6,
			CloudSpeedDivisor: 5,
		},
	}
}

// DefaultYAML returns the embedded default YAML, suitable as a template
// for a user config file.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
