// Package config loads chatstate's application settings from
// ~/.chatstate/config.yaml. These settings choose where and how the state
// containers persist; the containers' own values live in the kv store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhubert/chatstate/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".chatstate"

	// EnvBackend overrides the backend setting.
	EnvBackend = "CHATSTATE_BACKEND"
	// EnvDataDir overrides the data_dir setting.
	EnvDataDir = "CHATSTATE_DATA_DIR"
)

// Config holds the application settings. Pointer fields are optional;
// nil means "take the default".
type Config struct {
	Backend       string         `yaml:"backend"`
	DataDir       string         `yaml:"data_dir"`
	FallbackModel string         `yaml:"fallback_model"`
	ActClearDelay *Duration      `yaml:"act_clear_delay"`
	RecentExpire  *Duration      `yaml:"recent_expire,omitempty"` // lifetime of the stored recent list; unset never expires
	LogFile       string         `yaml:"log_file"`
	Debug         bool           `yaml:"debug"`
	Session       map[string]any `yaml:"session,omitempty"` // seeded into SessionState, e.g. amodel
}

// Duration is a wrapper around time.Duration that reads and writes
// human-readable strings like "2s" or "1500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Dir returns ~/.chatstate.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}

// DefaultPath returns ~/.chatstate/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads and parses the config file at path.
// Returns nil, nil if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.ConfigLoadFailed(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	return &cfg, nil
}

// LoadAndMerge loads the config file, applies environment overrides, fills
// gaps from DefaultConfig and validates the result. A missing file yields
// the defaults.
func LoadAndMerge(path string, getenv func(string) string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	defaults, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}

	merged := Merge(ApplyEnv(cfg, getenv), defaults)
	if errs := Validate(merged); len(errs) > 0 {
		return nil, errors.ConfigInvalid(joinErrors(errs))
	}
	return merged, nil
}

// ApplyEnv returns a copy of cfg with CHATSTATE_* environment variables
// laid over it. getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) *Config {
	result := *cfg
	if getenv == nil {
		return &result
	}
	if v := strings.TrimSpace(getenv(EnvBackend)); v != "" {
		result.Backend = v
	}
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		result.DataDir = v
	}
	return &result
}

// ActClearDelayOrDefault returns the configured delay, or def when unset.
func (c *Config) ActClearDelayOrDefault(def time.Duration) time.Duration {
	if c.ActClearDelay == nil {
		return def
	}
	return c.ActClearDelay.Duration
}

// Write marshals cfg to path, creating the directory as needed.
// Returns an error if the file already exists.
func Write(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

const header = `# chatstate configuration
# backend: file, sqlite or memory
`

func joinErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
