package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// configFileName is the per-user config file looked up in the home
// directory when no explicit path is given.
const configFileName = ".parcelwatch.yml"

// maxConfigFileSize caps config files at 1MB; anything larger is a
// mistake, not a configuration.
const maxConfigFileSize = 1 << 20

// Load loads configuration from the specified path or defaults.
//
// If configPath is provided, that file must exist and parse. Otherwise
// Load looks for .parcelwatch.yml in the user's home directory and falls
// back to the built-in defaults when it is absent. Values missing from
// the file keep their defaults.
//
// Parameters:
//   - configPath: Path to the config file, or empty to use defaults
//
// Returns:
//   - *Config: The loaded and validated configuration
//   - error: Any error encountered during loading or validation
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			candidate := filepath.Join(home, configFileName)
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		log.Debug().Str("path", path).Msg("loading config file")
		if err := loadInto(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadInto reads and parses a YAML config file over the given defaults.
//
// Parameters:
//   - path: Path to the config file
//   - cfg: Defaults to overlay the file contents onto
//
// Returns:
//   - error: Returns error when the file is too large, unreadable, or
//     contains invalid YAML
func loadInto(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
