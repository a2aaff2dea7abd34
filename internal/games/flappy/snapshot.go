package flappy

import "github.com/vovakirdan/flapper/internal/config"

// EntityView is the flyer as seen by the renderer.
type EntityView struct {
	X, Y     float64
	Size     float64
	Velocity float64
	Angle    float64
	Frame    int
}

// CenterY returns the vertical centre of the sprite.
func (v EntityView) CenterY() float64 {
	return v.Y + v.Size/2
}

// Snapshot is a read-only copy of everything the renderer needs for a frame.
// Mutating a snapshot never affects the game.
type Snapshot struct {
	Tick             uint64
	State            State
	Score            int
	Speed            float64
	World            config.World
	Entity           EntityView
	Obstacles        []Obstacle // spawn order, leftmost first
	Clouds           []Cloud
	BackgroundScroll float64
	BuildingScroll   float64
}

// Snapshot captures the current frame.
func (g *Game) Snapshot() Snapshot {
	e := g.entity
	return Snapshot{
		Tick:  g.ticks,
		State: g.state,
		Score: g.score,
		Speed: g.speed,
		World: g.cfg.World,
		Entity: EntityView{
			X:        e.X,
			Y:        e.Y,
			Size:     e.Size(),
			Velocity: e.Velocity,
			Angle:    e.Angle,
			Frame:    e.Frame,
		},
		Obstacles:        g.stream.Obstacles(),
		Clouds:           g.scenery.Clouds(),
		BackgroundScroll: g.scenery.BackgroundScroll,
		BuildingScroll:   g.scenery.BuildingScroll,
	}
}

// NextObstacle returns the first obstacle whose right edge is still ahead
// of the flyer's left edge.
func (s Snapshot) NextObstacle() (Obstacle, bool) {
	for _, o := range s.Obstacles {
		if o.Right() > s.Entity.X {
			return o, true
		}
	}
	return Obstacle{}, false
}
