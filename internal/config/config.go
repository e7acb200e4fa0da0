package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds chartflow configuration.
type Config struct {
	Name string `yaml:"name"`

	Logging   LoggingConfig   `yaml:"logging"`
	Execution ExecutionConfig `yaml:"execution"`

	// Endpoints overrides the actions a chart type's unit serves, keyed by
	// chart type.
	Endpoints map[string][]string `yaml:"endpoints,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ExecutionConfig sizes the execution units.
type ExecutionConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`

	// CallTimeout bounds how long the CLI waits for one reply. Empty means
	// wait as long as it takes.
	CallTimeout string `yaml:"call_timeout,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "chartflow",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Execution: ExecutionConfig{
			Workers:   4,
			QueueSize: 16,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv("CHARTFLOW_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if v := os.Getenv("CHARTFLOW_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHARTFLOW_WORKERS: %w", err)
		}
		c.Execution.Workers = n
	}
	if v := os.Getenv("CHARTFLOW_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHARTFLOW_QUEUE_SIZE: %w", err)
		}
		c.Execution.QueueSize = n
	}
	return nil
}

// GetCallTimeout returns the call timeout, zero when unset.
func (c *Config) GetCallTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.CallTimeout)
	if err != nil {
		return 0
	}
	return d
}

var (
	ValidLevels  = []string{"debug", "info", "warn", "error"}
	ValidFormats = []string{"json", "text"}
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !slices.Contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}
	if c.Execution.Workers < 1 {
		return fmt.Errorf("execution.workers must be at least 1, got %d", c.Execution.Workers)
	}
	if c.Execution.QueueSize < 0 {
		return fmt.Errorf("execution.queue_size must not be negative, got %d", c.Execution.QueueSize)
	}
	if c.Execution.CallTimeout != "" {
		if d, err := time.ParseDuration(c.Execution.CallTimeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid execution.call_timeout: %q", c.Execution.CallTimeout)
		}
	}
	for ct, actions := range c.Endpoints {
		if len(actions) == 0 {
			return fmt.Errorf("endpoint %s lists no actions", ct)
		}
	}
	return nil
}
