package flappy

import (
	"math"

	"github.com/vovakirdan/flapper/internal/config"
)

// Cloud sizes and placement, in world pixels.
const (
	cloudMinW     = 60
	cloudMaxW     = 120
	cloudMinH     = 30
	cloudMaxH     = 50
	cloudMinY     = 50
	cloudMinSpeed = 0.5
	cloudMaxSpeed = 1.5
)

// Cloud is a cosmetic background sprite drifting left.
type Cloud struct {
	X, Y  float64
	W, H  float64
	Speed float64
}

// Scenery holds the cosmetic background state: parallax scroll offsets and
// drifting clouds. It never affects gameplay and keeps running while the
// game is over.
type Scenery struct {
	BackgroundScroll float64 // Sky offset in [0, world width)
	BuildingScroll   float64 // Skyline offset in [0, world width)

	clouds []Cloud
	cfg    config.Scenery
	world  config.World
	rng    Rand
}

// NewScenery creates the background layers. A nil rng disables clouds.
func NewScenery(cfg config.FlappyConfig, rng Rand) *Scenery {
	s := &Scenery{
		cfg:   cfg.Scenery,
		world: cfg.World,
		rng:   rng,
	}
	if rng != nil {
		s.clouds = make([]Cloud, cfg.Scenery.Clouds)
		for i := range s.clouds {
			s.clouds[i] = s.newCloud(float64(randRange(rng, 0, int(cfg.World.Width))))
		}
	}
	return s
}

func (s *Scenery) newCloud(x float64) Cloud {
	return Cloud{
		X:     x,
		Y:     s.cloudY(),
		W:     float64(randRange(s.rng, cloudMinW, cloudMaxW)),
		H:     float64(randRange(s.rng, cloudMinH, cloudMaxH)),
		Speed: cloudMinSpeed + s.rng.Float64()*(cloudMaxSpeed-cloudMinSpeed),
	}
}

func (s *Scenery) cloudY() float64 {
	return float64(randRange(s.rng, cloudMinY, int(s.world.Height)/3))
}

// UpdateClouds drifts every cloud in proportion to the game speed and wraps
// clouds that left the screen back to the right edge at a new height.
func (s *Scenery) UpdateClouds(gameSpeed float64) {
	for i := range s.clouds {
		c := &s.clouds[i]
		c.X -= c.Speed * (gameSpeed / s.cfg.CloudSpeedDivisor)
		if c.X+c.W < 0 {
			c.X = s.world.Width
			c.Y = s.cloudY()
		}
	}
}

// Scroll advances both parallax layers by their share of the game speed.
func (s *Scenery) Scroll(gameSpeed float64) {
	s.BackgroundScroll = wrap(s.BackgroundScroll-gameSpeed*s.cfg.BackgroundFactor, s.world.Width)
	s.BuildingScroll = wrap(s.BuildingScroll-gameSpeed*s.cfg.BuildingFactor, s.world.Width)
}

// Clouds returns a copy of the clouds.
func (s *Scenery) Clouds() []Cloud {
	out := make([]Cloud, len(s.clouds))
	copy(out, s.clouds)
	return out
}

// wrap returns v modulo m in [0, m).
func wrap(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}
