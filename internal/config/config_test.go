package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvLogFormat, EnvLogFile, EnvLogSource, EnvBatchDebug} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, Defaults())
	}
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "solid2d.yaml")
	data := `
config_version: 1
window:
  title: Demo
  width: 800
batch:
  initial_quads: 1024
  debug: true
logging:
  level: DEBUG
  format: json
  unknown_key: ignored
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Window.Title != "Demo" || cfg.Window.Width != 800 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.Height != 480 {
		t.Errorf("Height = %d, want default 480", cfg.Window.Height)
	}
	if cfg.Batch.InitialQuads != 1024 || !cfg.Batch.Debug {
		t.Errorf("batch = %+v", cfg.Batch)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("window: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error %q should mention parse", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogFile, "/tmp/solid2d.log")
	t.Setenv(EnvBatchDebug, "yes")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Logging.File != "/tmp/solid2d.log" {
		t.Errorf("File = %q", cfg.Logging.File)
	}
	if !cfg.Batch.Debug {
		t.Error("Batch.Debug expected true from env override")
	}
	if env, ok := EnvOverrideFor("batch.debug"); !ok || env != EnvBatchDebug {
		t.Errorf("EnvOverrideFor(batch.debug) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("window.width"); ok {
		t.Error("window.width has no env override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, false},
		{"negative tps", func(c *Config) { c.Window.TPS = -1 }, false},
		{"negative quads", func(c *Config) { c.Batch.InitialQuads = -4 }, false},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, false},
		{"future version", func(c *Config) { c.ConfigVersion = CurrentVersion + 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "solid2d.yaml")
	want := Defaults()
	want.Window.Title = "saved"
	want.Batch.Debug = true

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestAdapters(t *testing.T) {
	cfg := Defaults()
	cfg.Window.Resizable = true
	cfg.Batch.Debug = true

	rc := cfg.RunConfig()
	if rc.Title != cfg.Window.Title || rc.Width != 640 || rc.Height != 480 || rc.TPS != 60 || !rc.Resizable {
		t.Errorf("RunConfig() = %+v", rc)
	}
	bo := cfg.BatchOptions(nil)
	if bo.InitialQuads != 256 || !bo.Debug || bo.Logger != nil {
		t.Errorf("BatchOptions() = %+v", bo)
	}
	lo := cfg.LogOptions()
	if lo.Level != "info" || lo.Format != "console" {
		t.Errorf("LogOptions() = %+v", lo)
	}
}
