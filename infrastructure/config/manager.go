package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Entry is one configuration setting addressed by its dotted key
type Entry struct {
	Key   string
	Value string
}

// setting reads and writes one field of a Config
type setting struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringSetting(field func(c *Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

var settings = map[string]setting{
	"backend":       stringSetting(func(c *Config) *string { return &c.Backend }),
	"log.level":     stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"log.format":    stringSetting(func(c *Config) *string { return &c.Log.Format }),
	"log.file":      stringSetting(func(c *Config) *string { return &c.Log.File }),
	"log.max_age_days": {
		get: func(c *Config) string { return strconv.Itoa(c.Log.MaxAgeDays) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: max_age_days %q is not a number", ErrInvalidValue, v)
			}
			c.Log.MaxAgeDays = n
			return nil
		},
	},
	"cut.output_directory":    stringSetting(func(c *Config) *string { return &c.Cut.OutputDirectory }),
	"split.directory_prefix":  stringSetting(func(c *Config) *string { return &c.Split.DirectoryPrefix }),
	"split.temp_marker":       stringSetting(func(c *Config) *string { return &c.Split.TempMarker }),
	"split.default_extension": stringSetting(func(c *Config) *string { return &c.Split.DefaultExtension }),
	"remux.preserve_stream_ids": {
		get: func(c *Config) string { return strconv.FormatBool(c.Remux.PreserveStreamIDs) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: preserve_stream_ids %q is not a boolean", ErrInvalidValue, v)
			}
			c.Remux.PreserveStreamIDs = b
			return nil
		},
	},
}

// keyOrder is the order settings are listed in, matching the YAML layout
var keyOrder = []string{
	"backend",
	"log.level",
	"log.format",
	"log.file",
	"log.max_age_days",
	"cut.output_directory",
	"split.directory_prefix",
	"split.temp_marker",
	"split.default_extension",
	"remux.preserve_stream_ids",
}

// ConfigManager reads and updates config entries by key
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Keys returns every settable key
func Keys() []string {
	keys := make([]string, len(keyOrder))
	copy(keys, keyOrder)
	return keys
}

// List returns all entries in file order
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, 0, len(keyOrder))
	for _, k := range keyOrder {
		entries = append(entries, Entry{Key: k, Value: settings[k].get(m.config)})
	}
	return entries
}

// Get returns the value of key
func (m *ConfigManager) Get(key string) (string, error) {
	s, ok := settings[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.get(m.config), nil
}

// Set updates key, validates the result and saves the file. The
// configuration is left unchanged when the new value is rejected.
func (m *ConfigManager) Set(key, value string) error {
	key = normalizeKey(key)
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	updated := *m.config
	if err := s.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
