package replay

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
)

// Session drives a live game one frame at a time and records every run.
// Each run gets its own seed and its own frame clock starting at zero,
// which makes a finished run replayable with Run.
type Session struct {
	game     *flappy.Game
	clock    *core.FrameClock
	rec      *Recorder
	cfg      config.FlappyConfig
	tickRate int
	seed     int64
	seeds    *rand.Rand
	runs     int
}

// Frame is what a session step reports to its driver.
type Frame struct {
	Result   flappy.StepResult
	Finished *Replay // set on the step that ended a run
}

// NewSession starts the first run with the given seed. Later runs draw
// their seeds from a source derived from it. sceneryRng may be nil.
func NewSession(cfg config.FlappyConfig, tickRate int, seed int64, sceneryRng flappy.Rand) (*Session, error) {
	clock := core.NewFrameClock(tickRate)
	g, err := flappy.New(cfg, rand.New(rand.NewSource(seed)), sceneryRng, clock.Now())
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	s := &Session{
		game:     g,
		clock:    clock,
		cfg:      cfg,
		tickRate: clock.Rate(),
		seed:     seed,
		seeds:    rand.New(rand.NewSource(seed)),
		runs:     1,
	}
	s.rec = NewRecorder(seed, s.tickRate, cfg)
	return s, nil
}

// Step applies one frame of input.
//
// While the game is active the input is recorded and stepped on the run's
// clock. A Restart while ended starts a new run: a fresh seed, a clock back
// at zero and a first step with no input. Otherwise an ended game keeps
// ticking so the scenery moves.
func (s *Session) Step(in core.InputFrame) Frame {
	if !s.game.Active() && in.Has(core.ActionRestart) {
		s.newRun()
		res := s.game.Step(core.NewInputFrame(), s.clock.Advance())
		s.rec.Record(s.clock.Ticks(), core.NewInputFrame())
		res.Restarted = true
		return Frame{Result: res}
	}

	if !s.game.Active() {
		return Frame{Result: s.game.Step(core.NewInputFrame(), s.clock.Advance())}
	}

	now := s.clock.Advance()
	s.rec.Record(s.clock.Ticks(), in)
	res := s.game.Step(in, now)

	var f Frame
	f.Result = res
	if res.Tick.Ended {
		rep := s.rec.Replay()
		f.Finished = &rep
	}
	return f
}

func (s *Session) newRun() {
	s.seed = s.seeds.Int63()
	s.runs++
	s.clock = core.NewFrameClock(s.tickRate)
	s.game.Reseed(rand.New(rand.NewSource(s.seed)))
	s.game.Reset(s.clock.Now())
	s.rec = NewRecorder(s.seed, s.tickRate, s.cfg)
}

// Game returns the live game.
func (s *Session) Game() *flappy.Game {
	return s.game
}

// Seed returns the seed of the current run.
func (s *Session) Seed() int64 {
	return s.seed
}

// Runs returns how many runs this session has started.
func (s *Session) Runs() int {
	return s.runs
}

// TickRate returns the session's tick rate.
func (s *Session) TickRate() int {
	return s.tickRate
}

// Recording returns the current run's recording so far.
func (s *Session) Recording() Replay {
	return s.rec.Replay()
}
