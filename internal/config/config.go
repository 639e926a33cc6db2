// Package config loads tmuxedo configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (TMUXEDO_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .tmuxedo.yaml in current directory
//  2. ~/.config/tmux/tmuxedo/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigRead is returned when configuration or persisted state cannot be read.
var ErrConfigRead = errors.New("config read failed")

// DefaultRemoteBase is prepended to a plugin identifier to form its clone URL.
const DefaultRemoteBase = "https://git::@github.com/"

// Config holds all tmuxedo configuration.
type Config struct {
	// Layout
	TmuxDir     string `yaml:"tmux_dir"`
	PluginsDir  string `yaml:"plugins_dir"`
	CatalogFile string `yaml:"catalog_file"`

	// Git
	RemoteBase string `yaml:"remote_base"`
	GitTimeout string `yaml:"git_timeout"` // Go duration string, e.g. "2m"

	// Interactive manager
	CheckUpdates *bool  `yaml:"check_updates"`
	Theme        string `yaml:"theme"` // "dark" (default) or "light"

	// Logging
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// Parsed durations (not from YAML, set after loading)
	GitTimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	checkUpdates := true
	cfg := &Config{
		RemoteBase:   DefaultRemoteBase,
		GitTimeout:   "2m",
		CheckUpdates: &checkUpdates,
		Theme:        "dark",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.TmuxDir = filepath.Join(home, ".config", "tmux")
	}
	return cfg
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file %s: %v", ErrConfigRead, path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	if cfg.TmuxDir == "" {
		return nil, fmt.Errorf("%w: cannot determine tmux config directory (set TMUXEDO_TMUX_DIR)", ErrConfigRead)
	}
	cfg.TmuxDir = expandHome(cfg.TmuxDir)
	if cfg.PluginsDir == "" {
		cfg.PluginsDir = filepath.Join(cfg.TmuxDir, "plugins")
	}
	cfg.PluginsDir = expandHome(cfg.PluginsDir)
	cfg.CatalogFile = expandHome(cfg.CatalogFile)
	cfg.LogFile = expandHome(cfg.LogFile)
	if !strings.HasSuffix(cfg.RemoteBase, "/") {
		cfg.RemoteBase += "/"
	}

	var err error
	cfg.GitTimeoutDuration, err = parseDurationOrDisable(cfg.GitTimeout, 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid git timeout %q: %v", ErrConfigRead, cfg.GitTimeout, err)
	}

	return cfg, nil
}

// UpdateChecks reports whether the interactive manager scans for updates on start.
func (c *Config) UpdateChecks() bool {
	return c.CheckUpdates == nil || *c.CheckUpdates
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".tmuxedo.yaml"); err == nil {
		return ".tmuxedo.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "tmux", "tmuxedo", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.TmuxDir != "" {
		cfg.TmuxDir = file.TmuxDir
	}
	if file.PluginsDir != "" {
		cfg.PluginsDir = file.PluginsDir
	}
	if file.CatalogFile != "" {
		cfg.CatalogFile = file.CatalogFile
	}
	if file.RemoteBase != "" {
		cfg.RemoteBase = file.RemoteBase
	}
	if file.GitTimeout != "" {
		cfg.GitTimeout = file.GitTimeout
	}
	if file.CheckUpdates != nil {
		v := *file.CheckUpdates
		cfg.CheckUpdates = &v
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.Debug {
		cfg.Debug = file.Debug
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("TMUXEDO_TMUX_DIR"); v != "" {
		cfg.TmuxDir = v
	}
	if v := os.Getenv("TMUXEDO_PLUGINS_DIR"); v != "" {
		cfg.PluginsDir = v
	}
	if v := os.Getenv("TMUXEDO_CATALOG_FILE"); v != "" {
		cfg.CatalogFile = v
	}
	if v := os.Getenv("TMUXEDO_REMOTE_BASE"); v != "" {
		cfg.RemoteBase = v
	}
	if v := os.Getenv("TMUXEDO_GIT_TIMEOUT"); v != "" {
		cfg.GitTimeout = v
	}
	if v := os.Getenv("TMUXEDO_CHECK_UPDATES"); v != "" {
		b := v == "true" || v == "1"
		cfg.CheckUpdates = &b
	}
	if v := os.Getenv("TMUXEDO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TMUXEDO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TMUXEDO_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
