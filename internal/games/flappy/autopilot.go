package flappy

import "github.com/vovakirdan/flapper/internal/core"

// DefaultAutopilotBias aims the flyer's centre this far below the gap centre,
// which keeps a flap's rise inside a 200px gap.
const DefaultAutopilotBias = 40.0

// Autopilot is a deterministic controller used by the bench command and tests.
// It flaps whenever the flyer's centre sinks below its target and the flyer
// is not already rising. The target is the next obstacle's gap centre plus
// Bias, or the world midpoint plus Bias when no obstacle is ahead.
type Autopilot struct {
	Bias float64
}


// Decide returns the input for the next step.
// Once the game has ended it asks for nothing; restarting is the caller's choice.
func (a Autopilot) Decide(snap Snapshot) core.InputFrame {
	in := core.NewInputFrame()
	if snap.State != StateActive {
		return in
	}

	target := snap.World.Height/2 + a.Bias
	if o, ok := snap.NextObstacle(); ok {
		target = o.GapY + a.Bias
	}

	if snap.Entity.CenterY() > target && snap.Entity.Velocity >= 0 {
		in.Set(core.ActionFlap)
	}
	return in
}
