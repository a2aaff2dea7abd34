package flappy

import (
	"math"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

// Entity is the player-controlled flyer.
// X is fixed; Y and Velocity are integrated once per active tick.
type Entity struct {
	X        float64 // Left edge of the sprite (fixed)
	Y        float64 // Top edge of the sprite, always in [0, MaxY()]
	Velocity float64 // Vertical velocity (negative = up)
	Angle    float64 // Visual rotation in degrees, cosmetic only
	Frame    int     // Wing animation frame index

	animTime float64
	physics  config.Physics
	geom     config.Entity
	worldH   float64
}

// NewEntity creates a flyer at its start position.
func NewEntity(cfg config.FlappyConfig) Entity {
	e := Entity{
		physics: cfg.Physics,
		geom:    cfg.Entity,
		worldH:  cfg.World.Height,
	}
	e.Reset()
	return e
}

// Reset puts the flyer back at the fixed x and vertical midpoint, at rest.
func (e *Entity) Reset() {
	e.X = e.geom.X
	e.Y = math.Floor(e.worldH / 2)
	e.Velocity = 0
	e.Angle = 0
	e.Frame = 0
	e.animTime = 0
}

// Size returns the sprite size.
func (e *Entity) Size() float64 {
	return e.geom.Size
}

// MaxY returns the lowest allowed top edge.
func (e *Entity) MaxY() float64 {
	return e.worldH - e.geom.Size
}

// Flap replaces the vertical velocity with the upward impulse.
func (e *Entity) Flap() {
	e.Velocity = e.physics.FlapImpulse
	e.Angle = e.physics.FlapAngle
}

// Update advances the flyer by one tick.
func (e *Entity) Update() {
	e.Velocity += e.physics.Gravity
	e.Y += e.Velocity

	e.Angle = math.Max(e.physics.MinAngle, math.Min(e.Angle-e.physics.AngleDecay, e.physics.FlapAngle))

	e.animTime += e.physics.AnimationSpeed
	e.Frame = int(e.animTime) % e.physics.AnimationFrames

	// Clamping to a bound always kills the velocity
	if e.Y < 0 {
		e.Y = 0
		e.Velocity = 0
	} else if maxY := e.MaxY(); e.Y > maxY {
		e.Y = maxY
		e.Velocity = 0
	}
}

// AtBound reports whether the flyer touches the top or bottom of the world.
func (e *Entity) AtBound() bool {
	return e.Y <= 0 || e.Y >= e.MaxY()
}

// Box returns the hitbox: the sprite shrunk by the inset on every side.
func (e *Entity) Box() core.Box {
	inset := e.geom.Inset
	side := e.geom.Size - 2*inset
	return core.NewBox(e.X+inset, e.Y+inset, side, side)
}

