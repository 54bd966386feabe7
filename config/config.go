// Package config holds the harness configuration surface: the action
// blacklist, history and capture bounds, and game setup parameters. Values
// come from defaults, then an optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface exposed to callers.
type Config struct {
	Seed                int64    `yaml:"seed" env:"EW_SEED"`
	Scenario            string   `yaml:"scenario" env:"EW_SCENARIO"`
	BlacklistedActions  []string `yaml:"blacklisted_actions" env:"EW_BLACKLISTED_ACTIONS" envSeparator:","`
	MaxHistorySize      int      `yaml:"max_history_size" env:"EW_MAX_HISTORY_SIZE"`
	CaptureEnabled      bool     `yaml:"capture_enabled" env:"EW_CAPTURE_ENABLED"`
	CaptureDirectory    string   `yaml:"capture_directory" env:"EW_CAPTURE_DIRECTORY"`
	MaxRetainedCaptures int      `yaml:"max_retained_captures" env:"EW_MAX_RETAINED_CAPTURES"`
	MaxTurns            int      `yaml:"max_turns" env:"EW_MAX_TURNS"`
	MetricsDirectory    string   `yaml:"metrics_directory" env:"EW_METRICS_DIRECTORY"`
	BridgeCommand       []string `yaml:"bridge_command" env:"EW_BRIDGE_COMMAND" envSeparator:" "`
}

// Default returns the configuration used when nothing is specified. The
// blacklist excludes undo so agents play decisively.
func Default() Config {
	return Config{
		Seed:                0, // 0 means pick one at startup
		Scenario:            "Standard",
		BlacklistedActions:  []string{"undo"},
		MaxHistorySize:      50,
		CaptureEnabled:      true,
		CaptureDirectory:    "captures",
		MaxRetainedCaptures: 20,
		MaxTurns:            10000,
		MetricsDirectory:    "runs",
		BridgeCommand:       []string{"node", "bridge/bridge_server.js"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
