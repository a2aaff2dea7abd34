package config

import "fmt"

// Scoring defines the base horizontal speed and how it grows with score.
// Every time the score lands on a positive multiple of Threshold, the
// speed increases by Increment.
type Scoring struct {
	BaseSpeed float64 `yaml:"base_speed"`
	Threshold int     `yaml:"threshold"`
	Increment float64 `yaml:"increment"`
}

// Validate checks the scaling rule.
func (s Scoring) Validate() error {
	if s.BaseSpeed <= 0 {
		return fmt.Errorf("base speed must be positive, got %g", s.BaseSpeed)
	}
	if s.Threshold < 1 {
		return fmt.Errorf("speed threshold must be at least 1, got %d", s.Threshold)
	}
	if s.Increment < 0 {
		return fmt.Errorf("speed increment must not be negative, got %g", s.Increment)
	}
	return nil
}

// SpeedUp returns the increment owed for reaching score, which is zero
// unless score is a positive multiple of the threshold.
// Call it once per score event, right after incrementing.
func (s Scoring) SpeedUp(score int) float64 {
	if score <= 0 || s.Threshold < 1 || score%s.Threshold != 0 {
		return 0
	}
	return s.Increment
}

