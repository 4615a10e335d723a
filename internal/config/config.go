// Package config loads rigup's own settings file. Nothing here affects
// engine semantics; it only supplies defaults for CLI flags and paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is rigup's settings, from ~/.config/rigup/config.toml with
// RIGUP_* environment overrides.
type Config struct {
	// ManifestPath is the default manifest used when --manifest is not given.
	ManifestPath string `toml:"manifest_path"`

	// PlanDir is where 'rigup plan' writes plan documents by default.
	PlanDir string `toml:"plan_dir"`

	// CaptureDir is the capture store the copy restorer reads from.
	CaptureDir string `toml:"capture_dir"`

	// HistoryPath is the run-history database file.
	HistoryPath string `toml:"history_path"`

	// JSON makes envelope output the default without --json.
	JSON bool `toml:"json"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in settings rooted under the user's home.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	root := filepath.Join(home, ".rigup")
	return Config{
		ManifestPath: filepath.Join(root, "manifest.yaml"),
		PlanDir:      filepath.Join(root, "plans"),
		CaptureDir:   filepath.Join(root, "capture"),
		HistoryPath:  filepath.Join(root, "history.db"),
		LogLevel:     "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "rigup", "config.toml")
}

// Load reads the config file at path, overlaying it on built-in defaults.
// An empty path means the standard location, where a missing file is not
// an error: defaults apply. A path the caller asked for explicitly must
// exist. Environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	switch {
	case err == nil:
		if meta.IsDefined("manifest_path") {
			cfg.ManifestPath = raw.ManifestPath
		}
		if meta.IsDefined("plan_dir") {
			cfg.PlanDir = raw.PlanDir
		}
		if meta.IsDefined("capture_dir") {
			cfg.CaptureDir = raw.CaptureDir
		}
		if meta.IsDefined("history_path") {
			cfg.HistoryPath = raw.HistoryPath
		}
		if meta.IsDefined("json") {
			cfg.JSON = raw.JSON
		}
		if meta.IsDefined("log_level") {
			cfg.LogLevel = raw.LogLevel
		}
	case os.IsNotExist(err) && !explicit:
		// No config file at the standard location; defaults apply.
	default:
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RIGUP_MANIFEST"); v != "" {
		cfg.ManifestPath = v
	}
	if v := os.Getenv("RIGUP_PLAN_DIR"); v != "" {
		cfg.PlanDir = v
	}
	if v := os.Getenv("RIGUP_CAPTURE_DIR"); v != "" {
		cfg.CaptureDir = v
	}
	if v := os.Getenv("RIGUP_HISTORY"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("RIGUP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if os.Getenv("RIGUP_JSON") == "1" {
		cfg.JSON = true
	}
}
