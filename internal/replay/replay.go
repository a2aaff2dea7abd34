// Package replay records runs as a seed plus timed input events and
// re-simulates them headlessly. A run always starts at time zero and its
// n-th step happens at core.TickTime(n, TickRate), so a seed, a config and
// the events fully determine the outcome.
package replay

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
	"github.com/vovakirdan/flapper/internal/storage"
)

// Event is one action applied at a run-relative tick.
type Event struct {
	Tick   uint64
	Action core.Action
}

// Replay is a complete recorded run.
type Replay struct {
	Seed     int64
	TickRate int
	Config   config.FlappyConfig
	Ticks    uint64
	Events   []Event
}

// Outcome is the result of re-simulating a replay.
type Outcome struct {
	Score int
	Ticks uint64
	State flappy.State
	Speed float64
}

// Recorder collects the input of one run. Only actions the game consumes
// while active are kept.
type Recorder struct {
	rep Replay
}

// NewRecorder starts recording a run.
func NewRecorder(seed int64, tickRate int, cfg config.FlappyConfig) *Recorder {
	return &Recorder{rep: Replay{Seed: seed, TickRate: tickRate, Config: cfg}}
}

// Record notes the input applied at the given run tick.
func (r *Recorder) Record(tick uint64, in core.InputFrame) {
	if in.Has(core.ActionFlap) {
		r.rep.Events = append(r.rep.Events, Event{Tick: tick, Action: core.ActionFlap})
	}
	if tick > r.rep.Ticks {
		r.rep.Ticks = tick
	}
}


// Replay returns a copy of the recording so far.
func (r *Recorder) Replay() Replay {
	out := r.rep
	out.Events = append([]Event(nil), r.rep.Events...)
	return out
}

// NewGame builds the game a replay runs against: gameplay randomness from
// the seed and no clouds.
func NewGame(rep Replay) (*flappy.Game, error) {
	return flappy.New(rep.Config, rand.New(rand.NewSource(rep.Seed)), nil, 0)
}

// Run re-simulates a replay until the game ends or maxTicks steps have
// run. A maxTicks of zero means no limit beyond the game ending.
func Run(rep Replay, maxTicks uint64) (Outcome, error) {
	g, err := NewGame(rep)
	if err != nil {
		return Outcome{}, fmt.Errorf("replay: %w", err)
	}

	byTick := make(map[uint64][]core.Action, len(rep.Events))
	for _, e := range rep.Events {
		byTick[e.Tick] = append(byTick[e.Tick], e.Action)
	}

	for tick := uint64(1); g.Active(); tick++ {
		if maxTicks > 0 && tick > maxTicks {
			break
		}
		g.Step(core.NewInputFrame(byTick[tick]...), core.TickTime(tick, rep.TickRate))
	}

	return Outcome{
		Score: g.Score(),
		Ticks: g.Ticks(),
		State: g.State(),
		Speed: g.Speed(),
	}, nil
}

// ToRecord converts a replay for storage.
func ToRecord(rep Replay) (storage.ReplayRecord, error) {
	data, err := rep.Config.Marshal()
	if err != nil {
		return storage.ReplayRecord{}, fmt.Errorf("replay: %w", err)
	}

	rec := storage.ReplayRecord{
		Seed:       rep.Seed,
		TickRate:   rep.TickRate,
		ConfigYAML: string(data),
		Ticks:      rep.Ticks,
		EventCount: len(rep.Events),
		Events:     make([]storage.EventRecord, len(rep.Events)),
	}
	for i, e := range rep.Events {
		rec.Events[i] = storage.EventRecord{Tick: e.Tick, Action: e.Action.String()}
	}
	return rec, nil
}

// FromRecord rebuilds a replay from storage. Unknown actions are rejected.
func FromRecord(rec storage.ReplayRecord) (Replay, error) {
	cfg, err := config.ParseFlappy([]byte(rec.ConfigYAML))
	if err != nil {
		return Replay{}, fmt.Errorf("replay %d: %w", rec.ID, err)
	}
	if err := cfg.Validate(); err != nil {
		return Replay{}, fmt.Errorf("replay %d: %w", rec.ID, err)
	}

	rep := Replay{
		Seed:     rec.Seed,
		TickRate: rec.TickRate,
		Config:   cfg,
		Ticks:    rec.Ticks,
		Events:   make([]Event, 0, len(rec.Events)),
	}
	for _, e := range rec.Events {
		a := core.ParseAction(e.Action)
		if a == core.ActionNone {
			return Replay{}, fmt.Errorf("replay %d: unknown action %q at tick %d", rec.ID, e.Action, e.Tick)
		}
		rep.Events = append(rep.Events, Event{Tick: e.Tick, Action: a})
	}
	return rep, nil
}
