package flappy

import (
	"testing"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

func TestAutopilotDecide(t *testing.T) {
	world := config.DefaultFlappyConfig().World
	pilot := Autopilot{Bias: DefaultAutopilotBias}

	tests := []struct {
		name      string
		state     State
		y, vel    float64
		obstacles []Obstacle
		wantFlap  bool
	}{
		{"below midpoint target and falling", StateActive, 500, 1, nil, true},
		{"below target but rising", StateActive, 500, -1, nil, false},
		{"above midpoint target", StateActive, 300, 2, nil, false},
		{"at rest below target", StateActive, 500, 0, nil, true},
		{"ended", StateEnded, 500, 1, nil, false},
		{"gap target above flyer", StateActive, 300, 1, []Obstacle{testObstacle(600, 200)}, true},
		{"gap target below flyer", StateActive, 300, 1, []Obstacle{testObstacle(600, 500)}, false},
		{"passed obstacle ignored", StateActive, 300, 1, []Obstacle{testObstacle(100, 200)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{
				State:     tt.state,
				World:     world,
				Entity:    EntityView{X: 320, Y: tt.y, Size: 45, Velocity: tt.vel},
				Obstacles: tt.obstacles,
			}
			in := pilot.Decide(snap)
			if got := in.Has(core.ActionFlap); got != tt.wantFlap {
				t.Errorf("flap = %v, expected %v", got, tt.wantFlap)
			}
		})
	}
}

func TestAutopilotOutlivesIdle(t *testing.T) {
	survive := func(decide func(Snapshot) core.InputFrame) uint64 {
		g := newTestGame(t, 21)
		for tick := uint64(1); tick <= 400 && g.Active(); tick++ {
			g.Step(decide(g.Snapshot()), core.TickTime(tick, 60))
		}
		return g.Ticks()
	}

	idle := survive(func(Snapshot) core.InputFrame { return core.NewInputFrame() })
	piloted := survive(Autopilot{Bias: DefaultAutopilotBias}.Decide)

	if idle > 60 {
		t.Errorf("idle flyer survived %d ticks, expected a quick fall", idle)
	}
	if piloted < 200 {
		t.Errorf("autopilot survived %d ticks, expected at least 200", piloted)
	}
}
