package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigManager_List(t *testing.T) {
	mgr := NewConfigManager(Default(), "")

	entries := mgr.List()
	if len(entries) != len(Keys()) {
		t.Fatalf("entries = %d, want %d", len(entries), len(Keys()))
	}
	if entries[0] != (Entry{Key: "backend", Value: "native"}) {
		t.Errorf("first entry = %+v", entries[0])
	}

	want := map[string]string{
		"log.max_age_days":          "7",
		"split.temp_marker":         ".tmp",
		"remux.preserve_stream_ids": "false",
	}
	for _, e := range entries {
		if v, ok := want[e.Key]; ok && v != e.Value {
			t.Errorf("%s = %q, want %q", e.Key, e.Value, v)
		}
	}
}

func TestConfigManager_Get(t *testing.T) {
	mgr := NewConfigManager(Default(), "")

	v, err := mgr.Get(" Split.Directory_Prefix ")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if v != "audio_" {
		t.Errorf("Get() = %q, want audio_", v)
	}

	if _, err := mgr.Get("email.from"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownKey", err)
	}
}

func TestConfigManager_Set(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
		check   func(c *Config) bool
	}{
		{
			name:  "string value",
			key:   "backend",
			value: "ffmpeg",
			check: func(c *Config) bool { return c.Backend == "ffmpeg" },
		},
		{
			name:  "boolean value",
			key:   "remux.preserve_stream_ids",
			value: "true",
			check: func(c *Config) bool { return c.Remux.PreserveStreamIDs },
		},
		{
			name:  "integer value",
			key:   "log.max_age_days",
			value: "30",
			check: func(c *Config) bool { return c.Log.MaxAgeDays == 30 },
		},
		{
			name:    "unknown key",
			key:     "paths.source",
			value:   "x",
			wantErr: ErrUnknownKey,
		},
		{
			name:    "not a boolean",
			key:     "remux.preserve_stream_ids",
			value:   "sometimes",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "rejected by validation",
			key:     "log.format",
			value:   "xml",
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			mgr := NewConfigManager(cfg, path)

			err := mgr.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Set() error = %v, want %v", err, tt.wantErr)
				}
				if *cfg != *Default() {
					t.Error("config changed after a rejected value")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("config not updated: %+v", cfg)
			}

			saved, err := Load(path)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !tt.check(saved) {
				t.Errorf("saved config not updated: %+v", saved)
			}
		})
	}
}
