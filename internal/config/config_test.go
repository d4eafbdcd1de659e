package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPC.Addr != ":50051" {
		t.Fatalf("unexpected grpc addr %q", cfg.GRPC.Addr)
	}
	if cfg.Scheduling.DefaultSlotDurationMin != 60 {
		t.Fatalf("unexpected default duration %d", cfg.Scheduling.DefaultSlotDurationMin)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Fatalf("unexpected driver %q", cfg.DB.Driver)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, "config.toml", `
[grpc]
addr = ":6000"

[scheduling]
default_slot_duration_min = 30

[db]
driver = "sqlite"
sqlite_path = "/tmp/a.db"

[[domains]]
type = "medical"
default_duration_minutes = 45

  [[domains.fields]]
  name = "complaint"
  required = true

  [[domains.fields]]
  name = "comment"
`)

	t.Setenv("GRPC_ADDR", ":7000")
	t.Setenv("DB_SQLITE_PATH", "/tmp/b.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GRPC.Addr != ":7000" {
		t.Fatalf("env must override file, got %q", cfg.GRPC.Addr)
	}
	if cfg.Scheduling.DefaultSlotDurationMin != 30 {
		t.Fatalf("file must override default, got %d", cfg.Scheduling.DefaultSlotDurationMin)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "/tmp/b.db" {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
	if len(cfg.Domains) != 1 || cfg.Domains[0].Type != "medical" {
		t.Fatalf("unexpected domains %+v", cfg.Domains)
	}
	fields := cfg.Domains[0].Fields
	if len(fields) != 2 || !fields[0].Required || fields[1].Required {
		t.Fatalf("unexpected fields %+v", fields)
	}

	seeds := cfg.DomainConfigurations()
	if len(seeds) != 1 || !seeds[0].IsActive || seeds[0].DefaultDurationMinutes != 45 {
		t.Fatalf("unexpected seeds %+v", seeds)
	}
	if got := seeds[0].RequiredFields(); len(got) != 1 || got[0] != "complaint" {
		t.Fatalf("unexpected required fields %v", got)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, "config.toml", "grpc = [")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty grpc addr", func(c *Config) { c.GRPC.Addr = "" }},
		{"zero duration", func(c *Config) { c.Scheduling.DefaultSlotDurationMin = 0 }},
		{"redis without stream", func(c *Config) { c.Redis.Enabled = true; c.Redis.Stream = "" }},
		{"duplicate domain", func(c *Config) {
			c.Domains = []DomainSeed{
				{Type: "a", DefaultDurationMinutes: 30},
				{Type: "a", DefaultDurationMinutes: 60},
			}
		}},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
}

func TestLoadDBConfig_Env(t *testing.T) {
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_OPEN_CONNS", "oops")

	cfg, err := LoadDBConfig()
	if err != nil {
		t.Fatalf("LoadDBConfig: %v", err)
	}
	if cfg.Host != "db.local" || cfg.Port != 6543 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.MaxOpenConns != 10 {
		t.Fatalf("malformed int must fall back to default, got %d", cfg.MaxOpenConns)
	}
}
