package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

// Visual characters for rendering
const (
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	CloudChar     = '░'
	BuildingChar  = '▓'
	WindowChar    = '▪'
	BodyChar      = '●'
	BeakChar      = '▶'
	DiveChar      = '▼'
)

// wingChars is indexed by the animation frame.
var wingChars = []rune{'^', '─', 'v'}

// Skyline generation, in world pixels.
const (
	buildingMinW    = 60
	buildingMaxW    = 100
	buildingMinH    = 150
	buildingMaxH    = 400
	buildingOverlap = 5
	windowW         = 10
	windowH         = 15
	windowStepX     = 20
	windowStepY     = 30
	windowLitChance = 0.7
)

// Building is one block of the skyline layer.
type Building struct {
	X, W, H float64
	Windows []core.Box // lit windows, relative to the building's top-left
}

// Assets holds artwork generated once per process and shared by every
// frame. It is built by the caller and handed to the renderer.
type Assets struct {
	Buildings    []Building
	SkylineWidth float64 // the layer spans twice the world width
}

// NewAssets generates the skyline from rng.
func NewAssets(world config.World, rng Rand) *Assets {
	a := &Assets{SkylineWidth: world.Width * 2}

	x := 0.0
	for x < a.SkylineWidth {
		w := randRange(rng, buildingMinW, buildingMaxW)
		h := randRange(rng, buildingMinH, buildingMaxH)
		b := Building{X: x, W: float64(w), H: float64(h)}
		for wy := 10; wy+windowH <= h-10; wy += windowStepY {
			for wx := 5; wx+windowW <= w-5; wx += windowStepX {
				if rng.Float64() < windowLitChance {
					b.Windows = append(b.Windows, core.NewBox(float64(wx), float64(wy), windowW, windowH))
				}
			}
		}
		a.Buildings = append(a.Buildings, b)
		x += float64(w - buildingOverlap)
	}
	return a
}

// Renderer draws snapshots into a character screen, scaling world pixels
// down to terminal cells.
type Renderer struct {
	assets *Assets
}

// NewRenderer creates a renderer over pre-built assets. Nil assets draw
// no skyline.
func NewRenderer(assets *Assets) *Renderer {
	if assets == nil {
		assets = &Assets{}
	}
	return &Renderer{assets: assets}
}

// viewport maps world coordinates to screen cells.
type viewport struct {
	sx, sy float64
}

func newViewport(dst *core.Screen, world config.World) viewport {
	return viewport{
		sx: float64(dst.Width()) / world.Width,
		sy: float64(dst.Height()) / world.Height,
	}
}

// cells converts a world box to the cells it covers. Non-empty boxes
// always cover at least one cell.
func (v viewport) cells(b core.Box) core.Rect {
	x0 := int(math.Floor(b.X * v.sx))
	y0 := int(math.Floor(b.Y * v.sy))
	x1 := int(math.Ceil(b.Right() * v.sx))
	y1 := int(math.Ceil(b.Bottom() * v.sy))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func (v viewport) point(x, y float64) (int, int) {
	return int(math.Floor(x * v.sx)), int(math.Floor(y * v.sy))
}

// Render draws the snapshot. The screen is cleared first.
func (r *Renderer) Render(dst *core.Screen, snap Snapshot) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 || snap.World.Width <= 0 || snap.World.Height <= 0 {
		return
	}
	v := newViewport(dst, snap.World)

	for _, c := range snap.Clouds {
		dst.DrawRect(v.cells(core.NewBox(c.X, c.Y, c.W, c.H)), CloudChar, core.ColorWhite)
	}
	r.drawSkyline(dst, v, snap)
	for _, o := range snap.Obstacles {
		r.drawObstacle(dst, v, o)
	}
	r.drawEntity(dst, v, snap.Entity)

	if snap.State == StateEnded {
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d", snap.Score), "Space/R to restart")
		return
	}
	dst.DrawTextCentered(1, fmt.Sprintf(" %d ", snap.Score), core.ColorBrightYellow)
}

// drawSkyline draws the building layer shifted so it always covers the screen.
func (r *Renderer) drawSkyline(dst *core.Screen, v viewport, snap Snapshot) {
	offset := snap.BuildingScroll - snap.World.Width
	for _, b := range r.assets.Buildings {
		bx := b.X + offset
		if bx > snap.World.Width || bx+b.W < 0 {
			continue
		}
		top := snap.World.Height - b.H
		dst.DrawRect(v.cells(core.NewBox(bx, top, b.W, b.H)), BuildingChar, core.ColorSlate)
		for _, w := range b.Windows {
			cx, cy := v.point(bx+w.X+w.W/2, top+w.Y+w.H/2)
			dst.SetColored(cx, cy, WindowChar, core.ColorWindow)
		}
	}
}

// drawObstacle renders both pipes, with caps at the gap edges.
func (r *Renderer) drawObstacle(dst *core.Screen, v viewport, o Obstacle) {
	top := v.cells(o.TopRect())
	bottom := v.cells(o.BottomRect())

	dst.DrawRect(top, PipeChar, core.ColorGreen)
	dst.DrawHLine(top.X, top.Bottom()-1, top.W, PipeCapTop, core.ColorBrightGreen)

	dst.DrawRect(bottom, PipeChar, core.ColorGreen)
	dst.DrawHLine(bottom.X, bottom.Y, bottom.W, PipeCapBottom, core.ColorBrightGreen)
}

// drawEntity renders the flyer: a body, a wing that follows the animation
// frame and a beak that points down once the flyer is diving.
func (r *Renderer) drawEntity(dst *core.Screen, v viewport, e EntityView) {
	rect := v.cells(core.NewBox(e.X, e.Y, e.Size, e.Size))
	dst.DrawRect(rect, BodyChar, core.ColorYellow)

	wing := wingChars[0]
	if e.Frame >= 0 && e.Frame < len(wingChars) {
		wing = wingChars[e.Frame]
	}
	dst.SetColored(rect.X, rect.Y+rect.H/2, wing, core.ColorOrange)

	beak := BeakChar
	if e.Angle <= -45 {
		beak = DiveChar
	}
	dst.SetColored(rect.Right()-1, rect.Y, beak, core.ColorOrange)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := len(title)
	for _, l := range lines {
		boxW = core.Max(boxW, len(l))
	}
	boxW += 4
	boxH := len(lines) + 4
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)

	dst.DrawTextColored(box.X+(boxW-len(title))/2, box.Y+1, title, core.ColorRed)
	for i, l := range lines {
		dst.DrawTextColored(box.X+(boxW-len(l))/2, box.Y+3+i, l, core.ColorWhite)
	}
}
