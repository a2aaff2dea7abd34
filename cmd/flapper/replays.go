package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/replay"
	"github.com/vovakirdan/flapper/internal/storage"
)

var (
	flagLimit        int
	flagReplayTicks  uint64
	flagDeleteReplay bool
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded runs",
	Long: `Display the most recent recorded runs, newest first.

Examples:
  flapper replays
  flapper replays --limit 50`,
	Args: cobra.NoArgs,
	RunE: runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded run",
	Long: `Re-simulate a recorded run headlessly from its seed, config and
input events, and print the outcome.

Examples:
  flapper replay 3
  flapper replay 3 --max-ticks 600
  flapper replay 3 --delete`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of replays to show")
	replayCmd.Flags().Uint64Var(&flagReplayTicks, "max-ticks", 0, "Stop after this many ticks (0 = until the run ends)")
	replayCmd.Flags().BoolVar(&flagDeleteReplay, "delete", false, "Delete the replay instead of running it")
}

func runReplays(_ *cobra.Command, _ []string) error {
	logger := stderrLogger()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	replays, err := store.Replays(flagLimit)
	if err != nil {
		return err
	}
	total, err := store.ReplayCount()
	if err != nil {
		logger.Warn("could not count replays", "error", err)
	}

	fmt.Println(headerStyle.Render("Recorded runs"))
	fmt.Println()

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flapper play' to record the first run!")
		return nil
	}

	// Print header
	fmt.Printf("  %-5s  %-20s  %-7s  %-6s  %s\n", "ID", "Seed", "Ticks", "Flaps", "Date")
	fmt.Printf("  %-5s  %-20s  %-7s  %-6s  %s\n", "--", "----", "-----", "-----", "----")

	for _, r := range replays {
		fmt.Printf("  %-5d  %-20d  %-7d  %-6d  %s\n", r.ID, r.Seed, r.Ticks, r.EventCount, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if total > len(replays) {
		fmt.Println()
		fmt.Printf("Showing %d of %d. Use --limit to see more.\n", len(replays), total)
	}
	return nil
}

func runReplay(_ *cobra.Command, args []string) error {
	logger := stderrLogger()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid replay id %q", args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagDeleteReplay {
		if err := store.DeleteReplay(id); err != nil {
			return err
		}
		logger.Info("replay deleted", "id", id)
		return nil
	}

	rec, err := store.Replay(id)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Run 'flapper replays' to see recorded runs.\n")
		return err
	}
	if err != nil {
		return err
	}

	rep, err := replay.FromRecord(*rec)
	if err != nil {
		return err
	}
	logger.Debug("replaying", "id", id, "seed", rep.Seed, "events", len(rep.Events), "fps", rep.TickRate)

	out, err := replay.Run(rep, flagReplayTicks)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Replay #%d", id)))
	fmt.Println()
	fmt.Printf("  %-7s %d\n", "Seed", rep.Seed)
	fmt.Printf("  %-7s %d\n", "Score", out.Score)
	fmt.Printf("  %-7s %d (recorded %d)\n", "Ticks", out.Ticks, rep.Ticks)
	fmt.Printf("  %-7s %.1f\n", "Speed", out.Speed)
	fmt.Printf("  %-7s %s\n", "State", out.State)
	return nil
}
