// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the API token goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"fiddle/cli/internal/xdg"
)

const (
	// DefaultEndpoint is the hosted query service.
	DefaultEndpoint = "https://fiddle.datafusion.dev"
	DefaultExecute  = "/api/main"
	DefaultVersion  = "/api/version"
)

// Environment overrides.
const (
	EnvEndpoint = "FIDDLE_ENDPOINT"
	EnvToken    = "FIDDLE_TOKEN"
	EnvDSN      = "FIDDLE_DSN"
	EnvVerbose  = "FIDDLE_VERBOSE"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel     string        `json:"log_level"`
	Endpoint     string        `json:"endpoint"`
	ExecutePath  string        `json:"execute_path"`
	VersionPath  string        `json:"version_path"`
	ShareBaseURL string        `json:"share_base_url"`
	Diagram      DiagramConfig `json:"diagram"`
}

// DiagramConfig selects how plan diagrams are rendered.
type DiagramConfig struct {
	Renderer string `json:"renderer"` // dot, kroki or none
	DotPath  string `json:"dot_path"`
	KrokiURL string `json:"kroki_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Endpoint:    DefaultEndpoint,
		ExecutePath: DefaultExecute,
		VersionPath: DefaultVersion,
		Diagram:     DiagramConfig{Renderer: "dot"},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from p. Fields absent from the file keep their defaults.
func LoadFile(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), err
	}
	c.fillDefaults()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(p, c)
}

// SaveFile writes c to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// ApplyEnv overlays environment overrides on c.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if Verbose(getenv) {
		c.LogLevel = "debug"
	}
	return c
}

// Verbose reports whether FIDDLE_VERBOSE enables verbose output.
func Verbose(getenv func(string) string) bool {
	switch strings.ToLower(strings.TrimSpace(getenv(EnvVerbose))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ShareBase returns the origin used for share links, defaulting to the endpoint.
func (c Config) ShareBase() string {
	if c.ShareBaseURL != "" {
		return c.ShareBaseURL
	}
	return strings.TrimRight(c.Endpoint, "/") + "/"
}

// fillDefaults restores defaults for fields an edited file left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.ExecutePath == "" {
		c.ExecutePath = d.ExecutePath
	}
	if c.VersionPath == "" {
		c.VersionPath = d.VersionPath
	}
	if c.Diagram.Renderer == "" {
		c.Diagram.Renderer = d.Diagram.Renderer
	}
}
