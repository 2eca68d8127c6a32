package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/axle-registry/axle/pkg/observability"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %s, want memory", cfg.Storage.Type)
	}
	if cfg.Server.Port != "8081" {
		t.Errorf("Server.Port = %s, want 8081", cfg.Server.Port)
	}
	if cfg.Observability.LogLevel != observability.InfoLevel {
		t.Errorf("LogLevel = %v, want InfoLevel", cfg.Observability.LogLevel)
	}
	if !cfg.Storage.CacheEnabled {
		t.Error("caching should default to enabled")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AXLE_PORT", "9000")
	t.Setenv("AXLE_STORAGE_TYPE", "sqlite")
	t.Setenv("AXLE_SQLITE_PATH", "/tmp/registry.db")
	t.Setenv("AXLE_LOG_LEVEL", "debug")
	t.Setenv("AXLE_READ_TIMEOUT", "5s")
	t.Setenv("AXLE_CACHE_ENABLED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %s, want 9000", cfg.Server.Port)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("Storage.Type = %s, want sqlite", cfg.Storage.Type)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Observability.LogLevel != observability.DebugLevel {
		t.Errorf("LogLevel = %v, want DebugLevel", cfg.Observability.LogLevel)
	}
	if cfg.Storage.CacheEnabled {
		t.Error("caching should be disabled")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axle.yaml")
	data := []byte(`
server:
  port: "7070"
storage:
  type: postgres
  postgres_url: postgres://localhost/axle
observability:
  log_level: warn
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AXLE_CONFIG_FILE", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
	}
	if cfg.Storage.Type != "postgres" {
		t.Errorf("Storage.Type = %s, want postgres", cfg.Storage.Type)
	}
	if cfg.Observability.LogLevel != observability.WarnLevel {
		t.Errorf("LogLevel = %v, want WarnLevel", cfg.Observability.LogLevel)
	}

	// environment still overrides the file
	t.Setenv("AXLE_PORT", "7071")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != "7071" {
		t.Errorf("Server.Port = %s, want 7071", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "port collision",
			mutate:  func(c *Config) { c.Server.HealthPort = c.Server.Port },
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Storage.Type = "sqlite" },
			wantErr: true,
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Storage.Type = "postgres" },
			wantErr: true,
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.Storage.Type = "etcd" },
			wantErr: true,
		},
		{
			name: "cache enabled with zero size",
			mutate: func(c *Config) {
				c.Storage.CacheSize = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]observability.LogLevel{
		"debug":   observability.DebugLevel,
		"info":    observability.InfoLevel,
		"warning": observability.WarnLevel,
		"error":   observability.ErrorLevel,
		"bogus":   observability.InfoLevel,
	}
	for input, want := range cases {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
