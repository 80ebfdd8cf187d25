// Package config provides aineko's configuration loading and the environment
// variables injected into seance sessions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vaxhacker/aineko/internal/constants"
)

// Config is aineko's tunable configuration. It is loaded from an optional
// TOML file; any key the file leaves unset keeps its compiled-in default.
type Config struct {
	// StateDir is the directory holding one JSON state file per seance.
	StateDir string `toml:"state_dir"`

	// SocketDir is the directory where listener sockets are created.
	SocketDir string `toml:"socket_dir"`

	// LivenessIntervalMs is how long a listener waits for a connection
	// before re-checking that its seance session still exists.
	LivenessIntervalMs int `toml:"liveness_interval_ms"`

	// NotifyDurationMs is how long notification banners stay on screen.
	NotifyDurationMs int `toml:"notify_duration_ms"`

	// HookEvents are the hook event names setup subscribes the handle
	// command to.
	HookEvents []string `toml:"hook_events"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		StateDir:           filepath.Join(home, ".local", "share", "aineko", constants.DirSeances),
		SocketDir:          filepath.Join(os.TempDir(), constants.DirSockets),
		LivenessIntervalMs: int(constants.DefaultLivenessInterval / time.Millisecond),
		NotifyDurationMs:   constants.DefaultDisplayMs,
		HookEvents:         constants.HookEvents(),
	}
}

// DefaultPath returns the expected config file location,
// ~/.config/aineko/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aineko", constants.FileConfigTOML), nil
}

// Load reads the config file from its default location. A missing file is
// not an error; the defaults apply.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path over the defaults. A missing file
// yields Default(); a file that exists but fails to decode is an error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}

	// A present-but-degenerate key falls back rather than wedging the
	// listener with a zero interval.
	def := Default()
	if cfg.StateDir == "" {
		cfg.StateDir = def.StateDir
	}
	if cfg.SocketDir == "" {
		cfg.SocketDir = def.SocketDir
	}
	if cfg.LivenessIntervalMs <= 0 {
		cfg.LivenessIntervalMs = def.LivenessIntervalMs
	}
	if cfg.NotifyDurationMs <= 0 {
		cfg.NotifyDurationMs = def.NotifyDurationMs
	}
	if len(cfg.HookEvents) == 0 {
		cfg.HookEvents = def.HookEvents
	}
	return cfg, nil
}

// LivenessInterval returns the liveness wait as a time.Duration.
func (c Config) LivenessInterval() time.Duration {
	return time.Duration(c.LivenessIntervalMs) * time.Millisecond
}

// SocketPath returns the canonical socket path for a seance id under dir.
func SocketPath(dir, id string) string {
	return filepath.Join(dir, id+".sock")
}
