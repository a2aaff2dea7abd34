package tui

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
	"github.com/vovakirdan/flapper/internal/replay"
	"github.com/vovakirdan/flapper/internal/storage"
)

// PlayOptions configures an interactive game.
type PlayOptions struct {
	Game          config.FlappyConfig
	Runtime       core.RuntimeConfig
	Store         *storage.Store // nil disables replay saving
	Logger        *log.Logger
	ScreenshotDir string // defaults to ~/.flapper/screenshots
}

// Model is the Bubble Tea model for playing.
type Model struct {
	session  *replay.Session
	renderer *flappy.Renderer
	screen   *core.Screen
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig
	shotDir  string

	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	paused     bool
	quitting   bool
	goingBack  bool
	status     string
}

// NewModel creates the play model. The seed picks the first run's obstacles
// and the skyline; zero means time-based.
func NewModel(opts PlayOptions) (Model, error) {
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	session, err := replay.NewSession(opts.Game, cfg.TickRate, cfg.Seed, rand.New(rand.NewSource(cfg.Seed+1)))
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	shotDir := opts.ScreenshotDir
	if shotDir == "" {
		shotDir = defaultScreenshotDir()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		session:    session,
		renderer:   flappy.NewRenderer(flappy.NewAssets(opts.Game.World, rand.New(rand.NewSource(cfg.Seed+2)))),
		screen:     core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		store:      opts.Store,
		logger:     logger,
		config:     cfg,
		shotDir:    shotDir,
		keyMapper:  NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}, nil
}

// defaultScreenshotDir returns ~/.flapper/screenshots, or a relative
// screenshots directory when the home directory is unknown.
func defaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "screenshots"
	}
	return filepath.Join(home, ".flapper", "screenshots")
}

// playfieldHeight leaves the last row for the help footer.
func playfieldHeight(h int) int {
	return core.Max(h-1, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.logger.Info("run started", "seed", m.session.Seed(), "fps", m.config.TickRate)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Game actions are buffered until the
// next tick; driver actions apply immediately.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var frame core.InputFrame
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		m.quitting = true
		m.logAbandoned()
		return m, tea.Quit
	}

	switch {
	case frame.Has(core.ActionBack):
		m.goingBack = true
		m.logAbandoned()
		return m, tea.Quit
	case frame.Has(core.ActionPause):
		if m.session.Game().Active() {
			m.paused = !m.paused
		}
		return m, nil
	}

	if m.paused {
		return m, nil
	}
	for _, a := range frame.List() {
		m.inputFrame.Set(a)
	}
	return m, nil
}

// handleResize keeps the playfield filling the terminal. The world is
// fixed-size, so the run is unaffected.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick advances the game by one frame unless paused. The frame
// clock only moves here, so pausing also pauses spawn timing.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.paused {
		return m, tickCmd(m.config.TickRate)
	}

	f := m.session.Step(m.inputFrame)
	m.inputFrame.Clear()

	if f.Result.Restarted {
		m.status = ""
		m.logger.Info("run started", "seed", m.session.Seed(), "run", m.session.Runs())
	}
	if f.Finished != nil {
		m.logger.Info("run ended", "score", f.Result.Score, "ticks", f.Finished.Ticks, "seed", f.Finished.Seed)
		m.saveReplay(*f.Finished)
	}

	return m, tickCmd(m.config.TickRate)
}

// logAbandoned notes a run left before it ended. Unfinished runs are not saved.
func (m *Model) logAbandoned() {
	if !m.session.Game().Active() {
		return
	}
	rec := m.session.Recording()
	m.logger.Info("run abandoned", "score", m.session.Game().Score(), "ticks", rec.Ticks, "flaps", len(rec.Events))
}

// saveReplay stores a finished run. Failures are logged; play continues.
func (m *Model) saveReplay(rep replay.Replay) {
	if m.store == nil {
		return
	}
	rec, err := replay.ToRecord(rep)
	if err != nil {
		m.logger.Error("cannot encode replay", "error", err)
		return
	}
	id, err := m.store.SaveReplay(rec)
	if err != nil {
		m.logger.Error("cannot save replay", "error", err)
		m.status = "replay not saved"
		return
	}
	m.logger.Debug("replay saved", "id", id, "events", rec.EventCount)
	m.status = fmt.Sprintf("saved as replay #%d", id)
}

// saveScreenshot saves the current playfield to a text file.
func (m *Model) saveScreenshot() {
	m.draw()

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("flappy_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
	m.status = "screenshot saved"
}

// draw renders the current frame into the screen buffer.
func (m *Model) draw() {
	m.renderer.Render(m.screen, m.session.Game().Snapshot())
	if m.paused {
		m.screen.DrawTextCentered(m.screen.Height()/2, " PAUSED ", core.ColorBrightYellow)
	}
	if m.status != "" && m.screen.Height() > 0 {
		m.screen.DrawTextColored(1, m.screen.Height()-1, m.status, core.ColorGray)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	m.draw()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keyMapper.Keys())
}

// IsGoingBack returns true if the player asked to return to the menu.
func (m Model) IsGoingBack() bool {
	return m.goingBack
}

// Run starts the game and blocks until the player leaves.
// Returns true if the player wants to go back to the menu.
func Run(opts PlayOptions) (goBack bool, err error) {
	model, err := NewModel(opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
