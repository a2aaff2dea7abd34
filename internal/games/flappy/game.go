// Package flappy implements the simulation core of a Flappy Bird-style game.
// The player flaps a falling flyer through gaps in pipes scrolling from right
// to left, scoring a point for every pipe cleared until a collision ends the run.
//
// The core is deterministic: all randomness comes from injected sources and
// all time comes from the caller, so a run is fully defined by its seed and
// its inputs.
package flappy

import (
	"fmt"
	"time"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

// State is the game state-machine state.
type State int

const (
	StateActive State = iota
	StateEnded
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// TickResult reports what happened during one tick.
type TickResult struct {
	Spawned  bool // An obstacle spawned this tick
	Scored   int  // Points gained this tick
	SpeedUps int  // Speed increments applied this tick
	Ended    bool // The game went from active to ended this tick
}

// StepResult is returned by Step after input handling and one tick.
type StepResult struct {
	Flapped   bool
	Restarted bool
	Tick      TickResult
	State     State
	Score     int
}

// Game owns the flyer, the obstacle stream, the score and the speed, and
// orchestrates them into ticks.
type Game struct {
	cfg     config.FlappyConfig
	entity  Entity
	stream  *Stream
	scenery *Scenery
	score   int
	speed   float64
	state   State
	ticks   uint64 // active ticks since the last reset
}

// New creates a game in the active state with its spawn timer set to now.
// rng drives gap placement; sceneryRng drives clouds and may be nil.
// The config is validated here, once, so ticks never have to.
func New(cfg config.FlappyConfig, rng, sceneryRng Rand, now time.Duration) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("flappy: random source is required")
	}

	g := &Game{
		cfg:     cfg,
		entity:  NewEntity(cfg),
		stream:  NewStream(cfg, rng, now),
		scenery: NewScenery(cfg, sceneryRng),
	}
	g.Reset(now)
	return g, nil
}

// Reset starts a new run: the flyer returns to its start position, the
// stream is emptied with its spawn timer at now, score and speed go back
// to their base values and the game becomes active. Scenery keeps running.
// Valid in either state.
func (g *Game) Reset(now time.Duration) {
	g.entity.Reset()
	g.stream.Reset(now)
	g.score = 0
	g.speed = g.cfg.Scoring.BaseSpeed
	g.state = StateActive
	g.ticks = 0
}

// Reseed replaces the gap placement source for future spawns.
func (g *Game) Reseed(rng Rand) {
	if rng != nil {
		g.stream.SetRand(rng)
	}
}

// Flap gives the flyer its upward impulse. It is a no-op unless the game
// is active, and reports whether it took effect.
func (g *Game) Flap() bool {
	if g.state != StateActive {
		return false
	}
	g.entity.Flap()
	return true
}

// Step applies one frame of input and then runs one tick.
// The state is sampled once before input handling: Flap only acts while
// active and Restart only while ended, so a frame carrying both never
// restarts and flaps in the same step. Other actions are ignored.
func (g *Game) Step(in core.InputFrame, now time.Duration) StepResult {
	var res StepResult

	switch g.state {
	case StateActive:
		if in.Has(core.ActionFlap) {
			res.Flapped = g.Flap()
		}
	case StateEnded:
		if in.Has(core.ActionRestart) {
			g.Reset(now)
			res.Restarted = true
		}
	}

	res.Tick = g.Tick(now)
	res.State = g.state
	res.Score = g.score
	return res
}

// Tick advances the simulation by one frame.
//
// Scenery always moves. While active, the flyer is integrated, the stream
// spawns, moves, scores and retires obstacles, every point scored is
// applied one at a time with its speed check, and the game ends if the
// flyer hit an obstacle or a vertical bound. The ending tick's changes are
// kept.
func (g *Game) Tick(now time.Duration) TickResult {
	var res TickResult

	g.scenery.UpdateClouds(g.speed)

	if g.state == StateActive {
		g.ticks++
		g.entity.Update()

		sr := g.stream.Update(now, g.speed, g.entity.Box(), g.entity.X)
		res.Spawned = sr.Spawned

		for i := 0; i < sr.Passed; i++ {
			g.score++
			res.Scored++
			if up := g.cfg.Scoring.SpeedUp(g.score); up > 0 {
				g.speed += up
				res.SpeedUps++
			}
		}

		if sr.Collided || g.entity.AtBound() {
			g.state = StateEnded
			res.Ended = true
		}
	}

	g.scenery.Scroll(g.speed)
	return res
}

// State returns the current state.
func (g *Game) State() State {
	return g.state
}

// Active reports whether the game is running.
func (g *Game) Active() bool {
	return g.state == StateActive
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// Speed returns the current horizontal speed of obstacles.
func (g *Game) Speed() float64 {
	return g.speed
}

// Ticks returns the number of active ticks since the last reset.
func (g *Game) Ticks() uint64 {
	return g.ticks
}

// Entity returns a copy of the flyer.
func (g *Game) Entity() Entity {
	return g.entity
}

// Obstacles returns a copy of the live obstacles in spawn order.
func (g *Game) Obstacles() []Obstacle {
	return g.stream.Obstacles()
}

// Config returns the configuration the game was built with.
func (g *Game) Config() config.FlappyConfig {
	return g.cfg
}
