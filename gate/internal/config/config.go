package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultCommanderSigil = "RESONANCE_1.67"
	DefaultIdentity       = "bekingdomcomejoker-cpu"
	DefaultGhostLog       = "ghost_tracking.log"
	DefaultHistorySize    = 1000
	DefaultLogLevel       = "warn"
	DefaultEnvFile        = ".env"
)

// Config holds the gate-side configuration parsed from the `gate:` section of
// config.yaml. The `server:` key in the same file is ignored.
type Config struct {
	Gate GateConfig `yaml:"gate"`
}

// GateConfig holds all axiom gate settings.
type GateConfig struct {
	// CommanderSigilEnv names the environment variable holding the commander
	// sigil operators must present. Falls back to DefaultCommanderSigil.
	CommanderSigilEnv string `yaml:"commander_sigil_env"`

	// SaltEnv names the environment variable holding the seal and ghost-ID salt.
	SaltEnv string `yaml:"salt_env"`

	// IdentityEnv names the environment variable holding the sovereign identity
	// shown in seals, reports and ghost records. Falls back to DefaultIdentity.
	IdentityEnv string `yaml:"identity_env"`

	// EnvFile is an optional dotenv file loaded before secrets are resolved.
	EnvFile string `yaml:"env_file"`

	// GhostLog is the path of the append-only ghost tracking log.
	GhostLog string `yaml:"ghost_log"`

	// HistorySize bounds the in-memory validation history.
	HistorySize int `yaml:"history_size"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`
}

// CommanderSigil returns the commander sigil resolved from the environment.
func (g GateConfig) CommanderSigil() string {
	return envOr(g.CommanderSigilEnv, DefaultCommanderSigil)
}

// Salt returns the hashing salt resolved from the environment. It may be empty.
func (g GateConfig) Salt() string {
	return envOr(g.SaltEnv, "")
}

// Identity returns the sovereign identity resolved from the environment.
func (g GateConfig) Identity() string {
	return envOr(g.IdentityEnv, DefaultIdentity)
}

func envOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// Load reads and parses the YAML config file at path. An empty path yields
// the defaults, so the CLI runs without any config file.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("gate config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("gate config: parse yaml: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("gate config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads the configured dotenv file into the process environment.
// Relative paths are resolved against the directory of configPath, or the
// working directory when configPath is empty. A missing file is not an error.
func (c *Config) LoadEnv(configPath string) error {
	if c.Gate.EnvFile == "" {
		return nil
	}
	p := resolve(configPath, c.Gate.EnvFile)
	if err := godotenv.Load(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("gate config: load env file %q: %w", p, err)
	}
	return nil
}

// GhostLogPath returns the ghost log location. Like the env file, a relative
// path is resolved against the directory of configPath.
func (c *Config) GhostLogPath(configPath string) string {
	return resolve(configPath, c.Gate.GhostLog)
}

// resolve joins a relative p onto the directory of configPath. With no config
// file, p is left relative to the working directory.
func resolve(configPath, p string) string {
	if filepath.IsAbs(p) || configPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Gate: GateConfig{
			CommanderSigilEnv: "COMMANDER_SIGIL",
			SaltEnv:           "SERAPHIM_SALT",
			IdentityEnv:       "GITHUB_USERNAME",
			EnvFile:           DefaultEnvFile,
			GhostLog:          DefaultGhostLog,
			HistorySize:       DefaultHistorySize,
			LogLevel:          DefaultLogLevel,
		},
	}
}

// validate checks structural constraints.
func validate(cfg *Config) error {
	if cfg.Gate.HistorySize <= 0 {
		return fmt.Errorf("gate.history_size must be positive")
	}
	if strings.TrimSpace(cfg.Gate.GhostLog) == "" {
		return fmt.Errorf("gate.ghost_log is required")
	}
	switch strings.ToLower(cfg.Gate.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("gate.log_level %q unknown: want debug|info|warn|error", cfg.Gate.LogLevel)
	}
	return nil
}
