package config

import (
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Database.AutoMigrate {
		t.Error("expected auto_migrate on by default")
	}
	if cfg.Watch.Debounce != "2s" {
		t.Errorf("expected 2s debounce, got %q", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxPerSecond != 2 {
		t.Errorf("expected max 2 cycles per second, got %d", cfg.Watch.MaxPerSecond)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = "soon" },
			wantErr: "debounce",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Watch.IngestTimeout = "" },
			wantErr: "timeout",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.Watch.MaxPerSecond = 0 },
			wantErr: "max_per_second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	doc := `
[game]
data_dir = "/games/snap/States"
profile = "nvprod"

[database]
path = "/var/lib/snap/snapshots.db"
auto_migrate = false

[watch]
debounce = "500ms"
max_per_second = 4
ingest_timeout = "10s"

[app]
debug_mode = true
`

	var cfg Config
	if err := toml.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.Game.Profile != "nvprod" {
		t.Errorf("expected profile nvprod, got %q", cfg.Game.Profile)
	}
	if cfg.Database.AutoMigrate {
		t.Error("expected auto_migrate off")
	}
	if !cfg.App.DebugMode {
		t.Error("expected debug_mode on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config must validate: %v", err)
	}

	d, err := cfg.GetDebounce()
	if err != nil || d != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v (%v)", d, err)
	}
	timeout, err := cfg.GetIngestTimeout()
	if err != nil || timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v (%v)", timeout, err)
	}
}

func TestRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Game.Profile = "nvprod"

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Game.Profile != "nvprod" || decoded.Watch.Debounce != cfg.Watch.Debounce {
		t.Errorf("round trip lost values: %+v", decoded)
	}
}
