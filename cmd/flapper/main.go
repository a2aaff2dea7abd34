// flapper is a terminal side-scroller: keep the bird airborne and fly it
// through the gaps between pipes.
//
// Usage:
//
//	flapper play             - Play directly
//	flapper menu             - Start the title menu
//	flapper replays          - List recorded runs
//	flapper replay <id>      - Re-simulate a recorded run
//	flapper bench            - Play headless autopilot runs and report statistics
//	flapper config           - Print the default game configuration
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.flapper/flapper.db)
//	--config <path>  - Use a custom game config YAML
//	--log <path>     - Log file used while the TUI runs (default: ~/.flapper/flapper.log)
//	--debug          - Enable debug logging
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogPath string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flapper",
	Short: "Flapper - fly through the pipes in your terminal",
	Long: `Flapper is a terminal side-scroller. Flap to stay in the air and
steer through the gaps between pipes. Every pipe passed scores a point and
every ten points the world speeds up.

Every finished run is recorded as a replay and can be re-simulated later.

Available commands:
  play     - Play directly
  menu     - Title menu with play and replay browser
  replays  - List recorded runs
  replay   - Re-simulate a recorded run
  bench    - Headless autopilot statistics
  config   - Print the default game configuration

Examples:
  flapper play
  flapper play --seed 42 --fps 30
  flapper menu
  flapper replays
  flapper replay 3
  flapper bench --runs 100 --csv runs.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flapper/flapper.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.flapper/flapper.log", "Log file used while the TUI runs")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds a logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "flapper",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// stderrLogger is used by headless commands.
func stderrLogger() *log.Logger {
	return newLogger(os.Stderr)
}

// fileLogger opens the log file for TUI sessions, since the terminal is
// taken by the alt screen. On failure logging is discarded.
func fileLogger() (*log.Logger, func()) {
	path := expandHome(flagLogPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return newLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// loadConfig loads the game config and logs where it came from.
func loadConfig(logger *log.Logger) (config.FlappyConfig, error) {
	cfg, source, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return config.FlappyConfig{}, err
	}
	logger.Debug("config loaded", "source", source)
	return cfg, nil
}

// openStore opens the replay database. Interactive commands keep running
// without it, so failures are only logged.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open replay database, replays will not be saved", "error", err)
		return nil
	}
	return store
}
