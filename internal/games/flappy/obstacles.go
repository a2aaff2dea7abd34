package flappy

import (
	"math"
	"time"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

// Rand is the random source used for obstacle and scenery placement.
// *math/rand.Rand satisfies it; tests inject fixed sequences.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// randRange returns a uniform integer in [lo, hi].
func randRange(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Obstacle is a pipe pair: a solid region above the gap and one below it.
type Obstacle struct {
	X      float64 // Left edge, decreases every tick
	Width  float64 // Horizontal extent
	GapY   float64 // Centre of the gap, fixed at creation
	Gap    float64 // Height of the gap
	Passed bool    // Whether the flyer has scored this obstacle

	worldH float64
}

// NewObstacle creates an obstacle at x with a gap centre sampled uniformly
// from [gapMargin, worldHeight-gapMargin].
func NewObstacle(x float64, rng Rand, cfg config.Obstacles, worldH float64) Obstacle {
	lo := int(math.Ceil(cfg.GapMargin))
	hi := int(math.Floor(worldH - cfg.GapMargin))
	return Obstacle{
		X:      x,
		Width:  cfg.Width,
		GapY:   float64(randRange(rng, lo, hi)),
		Gap:    cfg.Gap,
		worldH: worldH,
	}
}

// Update moves the obstacle left by speed.
func (o *Obstacle) Update(speed float64) {
	o.X -= speed
}

// Right returns the x-coordinate of the right edge.
func (o Obstacle) Right() float64 {
	return o.X + o.Width
}

// TopRect returns the solid region from the top of the world to the gap.
func (o Obstacle) TopRect() core.Box {
	return core.NewBox(o.X, 0, o.Width, o.GapY-o.Gap/2)
}

// BottomRect returns the solid region from the gap to the bottom of the world.
func (o Obstacle) BottomRect() core.Box {
	top := o.GapY + o.Gap/2
	return core.NewBox(o.X, top, o.Width, o.worldH-top)
}

// CollidesWith tests the given hitbox against both solid regions.
func (o Obstacle) CollidesWith(b core.Box) bool {
	return b.Intersects(o.TopRect()) || b.Intersects(o.BottomRect())
}

// OffScreen reports whether the obstacle has fully left the world on the left.
func (o Obstacle) OffScreen() bool {
	return o.Right() < 0
}

// StreamResult reports what happened during one stream update.
type StreamResult struct {
	Spawned  bool // A new obstacle entered at the right edge
	Passed   int  // Obstacles scored this tick, in spawn order
	Collided bool // The hitbox touched at least one solid region
	Retired  int  // Obstacles removed after leaving the world
}

// Stream spawns obstacles on a fixed interval, advances them and retires
// them once they leave the world. Obstacles are kept in spawn order.
type Stream struct {
	obstacles []Obstacle
	spare     []Obstacle // reused as the next tick's survivor buffer
	lastSpawn time.Duration
	interval  time.Duration
	spawnX    float64
	worldH    float64
	cfg       config.Obstacles
	rng       Rand
}

// NewStream creates an empty stream whose spawn timer starts at now.
func NewStream(cfg config.FlappyConfig, rng Rand, now time.Duration) *Stream {
	s := &Stream{
		obstacles: make([]Obstacle, 0, 8),
		spare:     make([]Obstacle, 0, 8),
		interval:  cfg.Obstacles.SpawnInterval(),
		spawnX:    cfg.World.Width,
		worldH:    cfg.World.Height,
		cfg:       cfg.Obstacles,
		rng:       rng,
	}
	s.Reset(now)
	return s
}

// Reset removes every obstacle and restarts the spawn timer at now.
func (s *Stream) Reset(now time.Duration) {
	s.obstacles = s.obstacles[:0]
	s.lastSpawn = now
}

// SetRand replaces the random source used for future spawns.
func (s *Stream) SetRand(rng Rand) {
	s.rng = rng
}

// Update runs one tick of the stream against the flyer's hitbox and x.
//
// The spawn check comes first, but a freshly spawned obstacle joins the
// live set only after the pass, so it is not moved, scored or tested on
// the tick it appears. Every other live obstacle is moved by speed, tested
// for collision, scored once its x drops below entityX, and retired once
// its right edge is past 0.
func (s *Stream) Update(now time.Duration, speed float64, entity core.Box, entityX float64) StreamResult {
	var res StreamResult

	var spawned Obstacle
	if now-s.lastSpawn > s.interval {
		spawned = NewObstacle(s.spawnX, s.rng, s.cfg, s.worldH)
		s.lastSpawn = now
		res.Spawned = true
	}

	next := s.spare[:0]
	for _, o := range s.obstacles {
		o.Update(speed)
		if o.CollidesWith(entity) {
			res.Collided = true
		}
		if !o.Passed && o.X < entityX {
			o.Passed = true
			res.Passed++
		}
		if o.OffScreen() {
			res.Retired++
			continue
		}
		next = append(next, o)
	}
	if res.Spawned {
		next = append(next, spawned)
	}

	s.spare = s.obstacles
	s.obstacles = next
	return res
}

// Obstacles returns a copy of the live obstacles in spawn order.
func (s *Stream) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Len returns the number of live obstacles.
func (s *Stream) Len() int {
	return len(s.obstacles)
}
