package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapper/internal/config"
)

var flagResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default game configuration",
	Long: `Print the built-in game configuration as YAML. Save it to
~/.flapper/configs/flappy.yaml or pass it with --config to customise the game.
With --resolved, print the configuration flapper would actually use.

Examples:
  flapper config > ~/.flapper/configs/flappy.yaml
  flapper config --resolved --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagResolved, "resolved", false, "Print the loaded configuration instead of the defaults")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagResolved {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadConfig(stderrLogger())
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
