// Package config loads the YAML settings shared by the solid2d examples:
// window, batch and logging. Environment variables override file values.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/solid2d"
	"github.com/phanxgames/solid2d/internal/log"
)

// CurrentVersion is the config_version written by Save.
const CurrentVersion = 1

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TPS       int    `yaml:"tps"`
	Resizable bool   `yaml:"resizable"`
}

type BatchConfig struct {
	InitialQuads int  `yaml:"initial_quads"`
	Debug        bool `yaml:"debug"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Config is the on-disk configuration. Unknown keys are ignored.
type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Window        WindowConfig  `yaml:"window"`
	Batch         BatchConfig   `yaml:"batch"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ConfigVersion: CurrentVersion,
		Window:        WindowConfig{Title: "solid2d", Width: 640, Height: 480, TPS: 60},
		Batch:         BatchConfig{InitialQuads: 256},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvLogLevel   = log.EnvLevel
	EnvLogFormat  = log.EnvFormat
	EnvLogFile    = log.EnvFile
	EnvLogSource  = log.EnvSource
	EnvBatchDebug = "SOLID2D_BATCH_DEBUG"
)

// Load reads the YAML file at path, merges it over Defaults and applies
// environment overrides. A missing file yields the defaults. The result is
// validated.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, errors.Wrapf(err, "config: parse %s", path)
		}
		mergeInto(&cfg, &fileCfg)
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = CurrentVersion
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "config: create directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "config: encode")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "config: write %s", path)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.ConfigVersion > CurrentVersion {
		return errors.Errorf("config: config_version %d is newer than supported %d", c.ConfigVersion, CurrentVersion)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS < 0 {
		return errors.Errorf("config: tps %d must not be negative", c.Window.TPS)
	}
	if c.Batch.InitialQuads < 0 {
		return errors.Errorf("config: batch.initial_quads %d must not be negative", c.Batch.InitialQuads)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return errors.Errorf("config: logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}

// RunConfig returns the window settings for solid2d.Run.
func (c Config) RunConfig() solid2d.RunConfig {
	return solid2d.RunConfig{
		Title:     c.Window.Title,
		Width:     c.Window.Width,
		Height:    c.Window.Height,
		TPS:       c.Window.TPS,
		Resizable: c.Window.Resizable,
	}
}

// BatchOptions returns batch settings using logger for diagnostics.
func (c Config) BatchOptions(logger *slog.Logger) *solid2d.BatchOptions {
	return &solid2d.BatchOptions{
		InitialQuads: c.Batch.InitialQuads,
		Debug:        c.Batch.Debug,
		Logger:       logger,
	}
}

// LogOptions returns the logging settings for log.Init.
func (c Config) LogOptions() log.Options {
	return log.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}

func mergeInto(dst *Config, src *Config) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Window.Title) != "" {
		dst.Window.Title = src.Window.Title
	}
	if src.Window.Width != 0 {
		dst.Window.Width = src.Window.Width
	}
	if src.Window.Height != 0 {
		dst.Window.Height = src.Window.Height
	}
	if src.Window.TPS != 0 {
		dst.Window.TPS = src.Window.TPS
	}
	dst.Window.Resizable = src.Window.Resizable
	if src.Batch.InitialQuads != 0 {
		dst.Batch.InitialQuads = src.Batch.InitialQuads
	}
	dst.Batch.Debug = src.Batch.Debug
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBatchDebug)); v != "" {
		cfg.Batch.Debug = parseBool(v)
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "on", "yes":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// EnvOverrideFor returns the env var name if the field is overridden by
// environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	case "batch.debug":
		env = EnvBatchDebug
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
