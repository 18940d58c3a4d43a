package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRead_OverlaysDefaults(t *testing.T) {
	input := `
[server]
addr = "127.0.0.1:9000"
session_ttl = "5m"

[storage]
type = "sqlite"
path = "/var/lib/formcanvas/forms.db"
`
	cfg, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := Default()
	want.Server.Addr = "127.0.0.1:9000"
	want.Server.SessionTTL = Duration{5 * time.Minute}
	want.Storage = StorageConfig{Type: "sqlite", Path: "/var/lib/formcanvas/forms.db"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Theme = ThemeConfig{Name: "paper", Dir: "/etc/formcanvas/themes"}

	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `read_timeout = "15s"`) {
		t.Fatalf("durations should be written as strings:\n%s", buf.String())
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "formcanvas.toml")
	if err := Init(path, Default()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := Init(path, Default()); err == nil {
		t.Fatalf("Init() should fail when the file exists")
	}

	cfg, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("init wrote unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverridesAndMissingFile(t *testing.T) {
	env := map[string]string{
		"FORMCANVAS_ADDR":        ":9999",
		"FORMCANVAS_DB":          "/tmp/forms.db",
		"FORMCANVAS_SESSION_TTL": "90s",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Storage.Type != "sqlite" || cfg.Storage.Path != "/tmp/forms.db" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Server.SessionTTL.Duration != 90*time.Second {
		t.Fatalf("session ttl = %s", cfg.Server.SessionTTL)
	}

	env["FORMCANVAS_SESSION_TTL"] = "soon"
	if _, err := Load("", lookup); err == nil {
		t.Fatalf("expected invalid duration error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sqlite without path", func(c *Config) { c.Storage = StorageConfig{Type: "sqlite"} }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"empty addr", func(c *Config) { c.Server.Addr = " " }},
		{"zero session ttl", func(c *Config) { c.Server.SessionTTL = Duration{} }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate() expected error")
			}
		})
	}
}
