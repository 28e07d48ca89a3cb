package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/osclient/internal/transport"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Client.URL != "http://localhost:9200" {
		t.Errorf("expected URL=http://localhost:9200, got %q", cfg.Client.URL)
	}
	if cfg.Client.TimeoutSec != 30 {
		t.Errorf("expected TimeoutSec=30, got %d", cfg.Client.TimeoutSec)
	}
	if cfg.Client.MaxBodyBytes != transport.DefaultMaxBodySize {
		t.Errorf("expected MaxBodyBytes=%d, got %d", transport.DefaultMaxBodySize, cfg.Client.MaxBodyBytes)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("expected Port=9200, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.Server.ShutdownSec)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.KeyPrefix != "osclient" {
		t.Errorf("expected KeyPrefix='osclient', got %q", cfg.Storage.KeyPrefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Client:  ClientConfig{URL: "https://search:9200", TimeoutSec: 5},
		Server:  ServerConfig{Port: 8080, ReadTimeoutSec: 30},
		Storage: StorageConfig{Driver: DriverRedis, KeyPrefix: "custom"},
	}
	cfg.ApplyDefaults()

	if cfg.Client.URL != "https://search:9200" {
		t.Errorf("expected URL kept, got %q", cfg.Client.URL)
	}
	if cfg.Client.TimeoutSec != 5 {
		t.Errorf("expected TimeoutSec=5, got %d", cfg.Client.TimeoutSec)
	}
	if cfg.Server.Port != 8080 || cfg.Server.ReadTimeoutSec != 30 {
		t.Errorf("expected server settings kept, got %+v", cfg.Server)
	}
	if cfg.Storage.Driver != DriverRedis || cfg.Storage.KeyPrefix != "custom" {
		t.Errorf("expected storage settings kept, got %+v", cfg.Storage)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"relative url", func(c *Config) { c.Client.URL = "localhost:9200" }, "client.url"},
		{"ftp url", func(c *Config) { c.Client.URL = "ftp://host" }, "client.url"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"redis without addrs", func(c *Config) { c.Storage.Driver = DriverRedis }, "storage.addrs"},
		{"redis with addrs", func(c *Config) {
			c.Storage.Driver = DriverRedis
			c.Storage.Addrs = []string{"localhost:6379"}
		}, ""},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "valkey" }, "storage.driver"},
		{"negative db", func(c *Config) { c.Storage.DB = -1 }, "storage.db"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tc.wantErr)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("OSCLIENT_TEST_URL", "https://cluster:9200")
	data := []byte(`
client:
  url: ${OSCLIENT_TEST_URL}
storage:
  driver: ${OSCLIENT_TEST_DRIVER:-redis}
  addrs: ["${OSCLIENT_TEST_REDIS:-localhost:6379}"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Client.URL != "https://cluster:9200" {
		t.Errorf("URL = %q, want %q", cfg.Client.URL, "https://cluster:9200")
	}
	if cfg.Storage.Driver != DriverRedis {
		t.Errorf("Driver = %q, want %q", cfg.Storage.Driver, DriverRedis)
	}
	if len(cfg.Storage.Addrs) != 1 || cfg.Storage.Addrs[0] != "localhost:6379" {
		t.Errorf("Addrs = %v, want [localhost:6379]", cfg.Storage.Addrs)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("client: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
	if _, err := Parse([]byte("storage:\n  driver: disk\n")); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9300\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("Port = %d, want 9300", cfg.Server.Port)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("OSCLIENT_STORAGE", "")
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("Driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("OSCLIENT_ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("OSCLIENT_ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
