// Package config loads the formcanvas TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration for the formcanvas service and CLI.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Theme   ThemeConfig   `toml:"theme"`
	Layouts LayoutsConfig `toml:"layouts"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// SessionTTL evicts idle editing sessions.
	SessionTTL Duration `toml:"session_ttl"`
	// Cascade decides whether deleting a grouped element removes the rest of
	// the group when the request does not say.
	Cascade bool `toml:"cascade"`
}

// StorageConfig selects the form repository. Type is "memory" or "sqlite";
// Path is only used for sqlite.
type StorageConfig struct {
	Type string `toml:"type"`
	Path string `toml:"path,omitempty"`
}

// ThemeConfig picks the default theme and an optional directory of extra
// YAML manifests.
type ThemeConfig struct {
	Name    string `toml:"name"`
	Variant string `toml:"variant,omitempty"`
	Dir     string `toml:"dir,omitempty"`
}

// LayoutsConfig controls the starter layouts seeded into an empty
// repository. Dir adds layout documents from disk to the embedded starters.
type LayoutsConfig struct {
	Seed bool   `toml:"seed"`
	Dir  string `toml:"dir,omitempty"`
}

// LogConfig configures zap. Format is "console" or "json".
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a Go duration string ("15s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			SessionTTL:   Duration{30 * time.Minute},
		},
		Storage: StorageConfig{Type: "memory"},
		Theme:   ThemeConfig{Name: "canvas"},
		Layouts: LayoutsConfig{Seed: true},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// Read decodes a Config from r on top of the defaults, so a partial file
// only overrides what it names.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes cfg to w.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path when it is set and exists, falls back to the defaults
// otherwise, then applies environment overrides and validates the result.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := ReadFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes cfg to a new file at path. An existing file is an error.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := Write(f, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from FORMCANVAS_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("FORMCANVAS_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("FORMCANVAS_DB"); ok && v != "" {
		c.Storage.Type = "sqlite"
		c.Storage.Path = v
	}
	if v, ok := lookup("FORMCANVAS_THEME"); ok && v != "" {
		c.Theme.Name = v
	}
	if v, ok := lookup("FORMCANVAS_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("FORMCANVAS_SESSION_TTL"); ok && v != "" {
		if err := c.Server.SessionTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("FORMCANVAS_SESSION_TTL: %w", err)
		}
	}
	return nil
}

// Validate checks the tagged unions and required values.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("config: storage.path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("config: unknown storage type %q", c.Storage.Type)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New("config: server.session_ttl must be positive")
	}
	return nil
}
