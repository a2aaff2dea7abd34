package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceEmbedded names the built-in defaults in LoadFlappy results.
const SourceEmbedded = "embedded"

// LoadFlappy loads and validates the game configuration.
// Search order: customPath -> ~/.flapper/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// The returned source names the file that was used.
func LoadFlappy(customPath string) (FlappyConfig, string, error) {
	// An explicit path must exist and parse
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FlappyConfig{}, "", fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := ParseFlappy(data)
		if err != nil {
			return FlappyConfig{}, "", fmt.Errorf("config: %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return FlappyConfig{}, "", fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	// Discovered files are skipped when unreadable, but a file that parses
	// into an invalid config is reported.
	candidates := []string{userConfigPath("flappy.yaml"), filepath.Join("configs", "flappy.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg, err := ParseFlappy(data)
		if err != nil {
			continue
		}
		if err := cfg.Validate(); err != nil {
			return FlappyConfig{}, "", fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, path, nil
	}

	cfg, err := ParseFlappy(defaultFlappyYAML)
	if err != nil {
		cfg = DefaultFlappyConfig() // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flapper", "configs", filename)
}
