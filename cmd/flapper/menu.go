package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the title menu",
	Long: `Start flapper in interactive menu mode.

The menu offers Play, Replays and Quit. Leaving a game or the replay
browser with Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  flapper menu
  flapper menu --fps 30
  flapper menu --db ./flapper.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	game, err := loadConfig(logger)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		res, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}

		// Keep any size changes
		cfg = res.Config

		var goBack bool
		switch res.Choice {
		case tui.ChoicePlay:
			goBack, err = tui.Run(tui.PlayOptions{
				Game:    game,
				Runtime: cfg,
				Store:   store,
				Logger:  logger,
			})
		case tui.ChoiceReplays:
			goBack, err = tui.RunReplayBrowser(store, cfg.ScreenW, cfg.ScreenH)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		if !goBack {
			return nil
		}
	}
}
