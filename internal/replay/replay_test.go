package replay

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
	"github.com/vovakirdan/flapper/internal/storage"
)

// playSession flies a session with the autopilot for a while, then lets the
// flyer drop until the run ends.
func playSession(t *testing.T, s *Session, maxTicks int) *Replay {
	t.Helper()
	pilot := flappy.Autopilot{Bias: flappy.DefaultAutopilotBias}
	for i := 0; i < maxTicks; i++ {
		in := core.NewInputFrame()
		if i < 400 {
			in = pilot.Decide(s.Game().Snapshot())
		}
		f := s.Step(in)
		if f.Finished != nil {
			return f.Finished
		}
	}
	t.Fatalf("run did not end within %d ticks", maxTicks)
	return nil
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(9, 60, config.DefaultFlappyConfig())

	rec.Record(1, core.NewInputFrame())
	rec.Record(2, core.NewInputFrame(core.ActionFlap))
	rec.Record(3, core.NewInputFrame(core.ActionPause, core.ActionBack))
	rec.Record(4, core.NewInputFrame(core.ActionFlap, core.ActionRestart))

	rep := rec.Replay()
	if rep.Seed != 9 || rep.TickRate != 60 || rep.Ticks != 4 {
		t.Errorf("unexpected header: seed=%d rate=%d ticks=%d", rep.Seed, rep.TickRate, rep.Ticks)
	}
	want := []Event{{2, core.ActionFlap}, {4, core.ActionFlap}}
	if len(rep.Events) != len(want) {
		t.Fatalf("events = %v, expected %v", rep.Events, want)
	}
	for i := range want {
		if rep.Events[i] != want[i] {
			t.Errorf("event %d = %+v, expected %+v", i, rep.Events[i], want[i])
		}
	}

	rep.Events[0].Tick = 100
	if rec.Replay().Events[0].Tick != 2 {
		t.Error("Replay() should return a copy")
	}
}

func TestRunIdle(t *testing.T) {
	out, err := Run(Replay{Seed: 1, TickRate: 60, Config: config.DefaultFlappyConfig()}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != flappy.StateEnded {
		t.Errorf("idle replay should end, got %v", out.State)
	}
	if out.Score != 0 {
		t.Errorf("score = %d, expected 0", out.Score)
	}
	if out.Ticks == 0 || out.Ticks > 60 {
		t.Errorf("idle run lasted %d ticks", out.Ticks)
	}
}

func TestRunMaxTicks(t *testing.T) {
	rep := Replay{Seed: 1, TickRate: 60, Config: config.DefaultFlappyConfig()}

	out, err := Run(rep, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Ticks != 10 || out.State != flappy.StateActive {
		t.Errorf("expected an active run cut at 10 ticks, got %d ticks, %v", out.Ticks, out.State)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Obstacles.SpawnIntervalMs = 0

	if _, err := Run(Replay{Seed: 1, TickRate: 60, Config: cfg}, 0); err == nil {
		t.Error("expected an error for an invalid config")
	}
}

func TestSessionRunReplaysExactly(t *testing.T) {
	s, err := NewSession(config.DefaultFlappyConfig(), 60, 2024, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	rep := playSession(t, s, 20000)
	live := s.Game()

	out, err := Run(*rep, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Score != live.Score() || out.Ticks != live.Ticks() || out.State != flappy.StateEnded {
		t.Errorf("replay outcome %+v differs from live run (score %d, ticks %d)", out, live.Score(), live.Ticks())
	}
	if rep.Ticks != live.Ticks() {
		t.Errorf("recorded %d ticks, live run had %d", rep.Ticks, live.Ticks())
	}
}

func TestSessionRestart(t *testing.T) {
	s, err := NewSession(config.DefaultFlappyConfig(), 60, 7, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	first := playSession(t, s, 20000)

	// an ended game ignores flaps and keeps ticking
	f := s.Step(core.NewInputFrame(core.ActionFlap))
	if f.Result.Flapped || f.Finished != nil || s.Game().Active() {
		t.Fatal("ended session should ignore flaps")
	}

	f = s.Step(core.NewInputFrame(core.ActionRestart, core.ActionFlap))
	if !f.Result.Restarted || f.Result.Flapped {
		t.Fatalf("expected a restart without a flap, got %+v", f.Result)
	}
	if s.Runs() != 2 || s.Seed() == first.Seed {
		t.Errorf("second run should have a fresh seed, runs=%d seed=%d", s.Runs(), s.Seed())
	}
	if s.Game().Ticks() != 1 || s.Recording().Ticks != 1 {
		t.Errorf("restart frame should be the new run's first tick, got %d", s.Game().Ticks())
	}

	second := playSession(t, s, 20000)
	out, err := Run(*second, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Score != s.Game().Score() || out.Ticks != s.Game().Ticks() {
		t.Errorf("second run replay %+v differs from live (score %d, ticks %d)", out, s.Game().Score(), s.Game().Ticks())
	}
}

func TestRecordRoundTripThroughStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	s, err := NewSession(config.DefaultFlappyConfig(), 30, 55, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	rep := playSession(t, s, 20000)
	want, err := Run(*rep, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec, err := ToRecord(*rep)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	id, err := store.SaveReplay(rec)
	if err != nil {
		t.Fatalf("SaveReplay: %v", err)
	}

	loaded, err := store.Replay(id)
	if err != nil {
		t.Fatalf("store.Replay: %v", err)
	}
	back, err := FromRecord(*loaded)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}

	if back.Config != rep.Config {
		t.Error("config should survive the YAML round trip")
	}
	got, err := Run(back, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != want {
		t.Errorf("stored replay outcome %+v, expected %+v", got, want)
	}
}

func TestFromRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		rec     storage.ReplayRecord
		wantErr string
	}{
		{
			name:    "unparsable config",
			rec:     storage.ReplayRecord{ID: 1, ConfigYAML: "world: [1, 2"},
			wantErr: "cannot parse",
		},
		{
			name:    "invalid config",
			rec:     storage.ReplayRecord{ID: 2, ConfigYAML: "entity:\n  size: 0\n"},
			wantErr: "entity size",
		},
		{
			name: "unknown action",
			rec: storage.ReplayRecord{ID: 3, ConfigYAML: "{}", Events: []storage.EventRecord{
				{Tick: 5, Action: "Barrel roll"},
			}},
			wantErr: "unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecord(tt.rec)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestStoreMissingReplay(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	if _, err := store.Replay(1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
