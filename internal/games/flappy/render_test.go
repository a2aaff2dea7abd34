package flappy

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

func renderGame(t *testing.T, assets *Assets, setup func(g *Game)) *core.Screen {
	t.Helper()
	g, err := New(config.DefaultFlappyConfig(), rand.New(rand.NewSource(1)), nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if setup != nil {
		setup(g)
	}
	screen := core.NewScreen(80, 24)
	NewRenderer(assets).Render(screen, g.Snapshot())
	return screen
}

func TestRenderDrawsFlyerAndScore(t *testing.T) {
	screen := renderGame(t, nil, nil)
	out := screen.String()

	if !strings.ContainsRune(out, BodyChar) {
		t.Error("expected the flyer's body on screen")
	}
	if !strings.ContainsRune(out, BeakChar) {
		t.Error("expected the flyer's beak on screen")
	}
	if !strings.Contains(screen.Row(1), "0") {
		t.Errorf("expected the score on row 1, got %q", screen.Row(1))
	}
}

func TestRenderDrawsPipes(t *testing.T) {
	screen := renderGame(t, nil, func(g *Game) {
		g.stream.obstacles = append(g.stream.obstacles, testObstacle(640, 360))
	})

	if got := screen.GetCell(40, 0).Rune; got != PipeChar {
		t.Errorf("expected top pipe at (40, 0), got %q", got)
	}
	if got := screen.GetCell(40, 23).Rune; got != PipeChar {
		t.Errorf("expected bottom pipe at (40, 23), got %q", got)
	}
	if got := screen.GetCell(40, 12).Rune; got == PipeChar {
		t.Error("the gap should be open at (40, 12)")
	}

	out := screen.String()
	if !strings.ContainsRune(out, PipeCapTop) || !strings.ContainsRune(out, PipeCapBottom) {
		t.Error("expected caps at both gap edges")
	}
}

func TestRenderDiveBeak(t *testing.T) {
	screen := renderGame(t, nil, func(g *Game) {
		g.entity.Angle = -60
	})

	if !strings.ContainsRune(screen.String(), DiveChar) {
		t.Error("a diving flyer should point its beak down")
	}
}

func TestRenderGameOver(t *testing.T) {
	screen := renderGame(t, nil, func(g *Game) {
		g.score = 7
		g.state = StateEnded
	})
	out := screen.String()

	for _, want := range []string{"GAME OVER", "Score: 7", "Space/R to restart"} {
		if !strings.Contains(out, want) {
			t.Errorf("game over screen should contain %q", want)
		}
	}
}

func TestRenderSkyline(t *testing.T) {
	assets := NewAssets(config.DefaultFlappyConfig().World, rand.New(rand.NewSource(8)))
	screen := renderGame(t, assets, nil)

	if !strings.ContainsRune(screen.String(), BuildingChar) {
		t.Error("expected the skyline to be drawn")
	}
}

func TestRenderEmptyScreen(t *testing.T) {
	g := newTestGame(t, 1)
	screen := core.NewScreen(0, 0)

	NewRenderer(nil).Render(screen, g.Snapshot()) // must not panic
}

func TestNewAssets(t *testing.T) {
	world := config.DefaultFlappyConfig().World

	a := NewAssets(world, rand.New(rand.NewSource(4)))
	b := NewAssets(world, rand.New(rand.NewSource(4)))
	if !reflect.DeepEqual(a, b) {
		t.Error("the same seed should produce the same skyline")
	}

	if a.SkylineWidth != 2*world.Width {
		t.Errorf("SkylineWidth = %g, expected %g", a.SkylineWidth, 2*world.Width)
	}
	if len(a.Buildings) == 0 {
		t.Fatal("expected buildings")
	}
	last := a.Buildings[len(a.Buildings)-1]
	if last.X+last.W < a.SkylineWidth {
		t.Errorf("skyline ends at %g, short of %g", last.X+last.W, a.SkylineWidth)
	}

	for i, bld := range a.Buildings {
		if bld.W < 60 || bld.W > 100 || bld.H < 150 || bld.H > 400 {
			t.Errorf("building %d size %gx%g out of range", i, bld.W, bld.H)
		}
		for _, w := range bld.Windows {
			if w.X < 0 || w.Right() > bld.W || w.Y < 0 || w.Bottom() > bld.H {
				t.Errorf("building %d has a window outside its walls: %+v", i, w)
			}
		}
	}
}
