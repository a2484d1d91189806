// Package config handles configuration loading and validation for
// parcelwatch. It supports a YAML configuration file with built-in
// defaults covering the datastore location, refresh tuning, list display,
// and feed metadata.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "15s" or "168h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RefreshCfg tunes the refresh engine.
//
// Fields:
//   - Concurrency: Maximum concurrent carrier fetches
//   - Timeout: Per-fetch deadline; exceeding it counts as transient
//   - MaxTries: Fetch attempts per package for transient failures
//   - StaleAfter: Halt a non-terminal package whose latest event is older
//     than this; zero disables the staleness policy
type RefreshCfg struct {
	Concurrency int      `yaml:"concurrency"`
	Timeout     Duration `yaml:"timeout"`
	MaxTries    int      `yaml:"max_tries"`
	StaleAfter  Duration `yaml:"stale_after"`
}

// ListCfg tunes the list projection.
//
// Fields:
//   - HideAfter: Hide terminal packages whose latest event is older than
//     this unless --all is given
type ListCfg struct {
	HideAfter Duration `yaml:"hide_after"`
}

// FeedCfg holds metadata stamped onto the generated syndication feed.
type FeedCfg struct {
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
}

// Config is the full parcelwatch configuration.
//
// Fields:
//   - Store: Datastore file path; overridden by flag and environment
//   - Refresh: Refresh engine tuning
//   - List: List projection tuning
//   - Feed: Feed metadata
type Config struct {
	Store   string     `yaml:"store"`
	Refresh RefreshCfg `yaml:"refresh"`
	List    ListCfg    `yaml:"list"`
	Feed    FeedCfg    `yaml:"feed"`
}

// Default returns the built-in configuration used when no config file is
// present.
//
// Returns:
//   - *Config: Configuration with production defaults
func Default() *Config {
	return &Config{
		Refresh: RefreshCfg{
			Concurrency: 4,
			Timeout:     Duration(15 * time.Second),
			MaxTries:    3,
			StaleAfter:  Duration(45 * 24 * time.Hour),
		},
		List: ListCfg{
			HideAfter: Duration(7 * 24 * time.Hour),
		},
		Feed: FeedCfg{
			Title: "parcelwatch",
			Link:  "https://github.com/parcelwatch/parcelwatch",
		},
	}
}

// Validate checks the configuration for values the engine cannot run
// with.
//
// Returns:
//   - error: Returns error describing the first invalid field
func (c *Config) Validate() error {
	if c.Refresh.Concurrency < 1 {
		return fmt.Errorf("refresh.concurrency must be at least 1, got %d", c.Refresh.Concurrency)
	}
	if c.Refresh.Timeout <= 0 {
		return fmt.Errorf("refresh.timeout must be positive, got %s", c.Refresh.Timeout.Std())
	}
	if c.Refresh.MaxTries < 1 {
		return fmt.Errorf("refresh.max_tries must be at least 1, got %d", c.Refresh.MaxTries)
	}
	if c.Refresh.StaleAfter < 0 {
		return fmt.Errorf("refresh.stale_after must not be negative, got %s", c.Refresh.StaleAfter.Std())
	}
	return nil
}
