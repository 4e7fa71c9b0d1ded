package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the configuration is looked up when no path is given
const DefaultPath = "config/config.yaml"

// Validation errors
var (
	ErrInvalidBackend     = errors.New("invalid backend")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSplitLayout = errors.New("invalid split layout")
)

// Backends lists the media libraries a configuration may select
var Backends = []string{"native", "ffmpeg"}

// Config represents the complete application configuration
type Config struct {
	Backend string      `yaml:"backend"`
	Log     LogConfig   `yaml:"log"`
	Cut     CutConfig   `yaml:"cut"`
	Split   SplitConfig `yaml:"split"`
	Remux   RemuxConfig `yaml:"remux"`
}

// LogConfig contains diagnostic output settings
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// CutConfig contains cut settings
type CutConfig struct {
	// OutputDirectory is where relative output paths are resolved
	OutputDirectory string `yaml:"output_directory"`
}

// SplitConfig contains the naming of split audio outputs
type SplitConfig struct {
	DirectoryPrefix  string `yaml:"directory_prefix"`
	TempMarker       string `yaml:"temp_marker"`
	DefaultExtension string `yaml:"default_extension"`
}

// RemuxConfig contains settings shared by cut and split
type RemuxConfig struct {
	PreserveStreamIDs bool `yaml:"preserve_stream_ids"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Backend: "native",
		Log: LogConfig{
			Level:      "warning",
			Format:     "text",
			MaxAgeDays: 7,
		},
		Split: SplitConfig{
			DirectoryPrefix:  "audio_",
			TempMarker:       ".tmp",
			DefaultExtension: ".ts",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to the defaults when the file does
// not exist. found reports whether the file was read.
func LoadOrDefault(path string) (cfg *Config, found bool, err error) {
	cfg, err = Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every setting
func (c *Config) Validate() error {
	if !validBackend(c.Backend) {
		return fmt.Errorf("%w: %q (use one of %s)", ErrInvalidBackend, c.Backend, strings.Join(Backends, ", "))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q (use text or json)", ErrInvalidLogFormat, c.Log.Format)
	}
	if c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log max_age_days must not be negative, got %d", c.Log.MaxAgeDays)
	}

	return c.Split.Validate()
}

// Validate checks that split outputs get usable names
func (s SplitConfig) Validate() error {
	if s.DirectoryPrefix == "" || strings.ContainsAny(s.DirectoryPrefix, `/\`) {
		return fmt.Errorf("%w: directory_prefix %q", ErrInvalidSplitLayout, s.DirectoryPrefix)
	}
	if s.TempMarker == "" || strings.ContainsAny(s.TempMarker, `/\`) {
		return fmt.Errorf("%w: temp_marker %q", ErrInvalidSplitLayout, s.TempMarker)
	}
	if !strings.HasPrefix(s.DefaultExtension, ".") || len(s.DefaultExtension) < 2 {
		return fmt.Errorf("%w: default_extension %q must start with a dot", ErrInvalidSplitLayout, s.DefaultExtension)
	}
	return nil
}

func validBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}
