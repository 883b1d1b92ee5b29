package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort      = 10000
	DefaultLogLevel      = "info"
	DefaultPulseInterval = 1670 * time.Millisecond
	DefaultHostTimeout   = 2 * time.Second
)

// Config holds the server-side configuration parsed from the `server:` section
// of config.yaml. The `gate:` key in the same file is ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all telemetry bridge settings.
type ServerConfig struct {
	// HTTPPort is the port the telemetry routes, metrics and pulse hub listen on
	// (default 10000).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// EnvFile is an optional dotenv file loaded before secrets are resolved.
	// A missing file is not an error.
	EnvFile string `yaml:"env_file"`

	// CORS controls the Access-Control-* headers on every response.
	CORS CORSConfig `yaml:"cors"`

	// Pulse controls the WebSocket telemetry stream.
	Pulse PulseConfig `yaml:"pulse"`

	// Telemetry controls host sampling.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CORSConfig lists the origins allowed to read the bridge from a browser.
type CORSConfig struct {
	// AllowedOrigins may contain "*" to allow any origin. Defaults to ["*"].
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PulseConfig controls the WebSocket broadcast loop.
type PulseConfig struct {
	// Interval between two pulse broadcasts. Default: 1.67s.
	Interval time.Duration `yaml:"interval"`
}

// TelemetryConfig controls how the host is sampled.
type TelemetryConfig struct {
	// HostTimeout bounds a single load/CPU/memory read. Default: 2s.
	HostTimeout time.Duration `yaml:"host_timeout"`
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads the configured dotenv file into the process environment.
// Relative paths are resolved against the directory of the config file.
// Variables already present in the environment are not overridden.
func (c *Config) LoadEnv(configPath string) error {
	if c.Server.EnvFile == "" {
		return nil
	}
	p := c.Server.EnvFile
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(configPath), p)
	}
	if err := godotenv.Load(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("server config: load env file %q: %w", p, err)
	}
	return nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
			Pulse: PulseConfig{
				Interval: DefaultPulseInterval,
			},
			Telemetry: TelemetryConfig{
				HostTimeout: DefaultHostTimeout,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if cfg.Server.Pulse.Interval <= 0 {
		return fmt.Errorf("server.pulse.interval must be positive")
	}
	if cfg.Server.Telemetry.HostTimeout <= 0 {
		return fmt.Errorf("server.telemetry.host_timeout must be positive")
	}
	for i, o := range cfg.Server.CORS.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("server.cors.allowed_origins[%d] is empty", i)
		}
	}
	return nil
}
