// Package mnconfig provides configuration management for mnrt schedulers:
// worker counts, stack sizing, shutdown timeouts, and logging behavior,
// with environment variable overrides, JSON persistence, validation with
// corrective error messages, and named presets.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (highest priority)
//  2. Configuration file (JSON)
//  3. Default values (lowest priority)
package mnconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mnrt-go/mnrt/pkg/mnlog"
)

// Config is the complete configuration for one scheduler.
type Config struct {
	Runtime RuntimeConfig `json:"runtime"`
	Logging LoggingConfig `json:"logging"`
}

// RuntimeConfig tunes the scheduler's worker pool and task defaults.
type RuntimeConfig struct {
	// WorkerCount is the number of OS-thread-backed workers to run. Must
	// be between 1 and mnrt.MaxWorkers.
	WorkerCount int `json:"worker_count"`

	// StackSize is the advisory per-task stack size in bytes (see
	// mnrt.DefaultStackSize).
	StackSize int `json:"stack_size_bytes"`

	// ShutdownTimeoutSeconds bounds how long callers should wait for
	// Scheduler.Stop before treating a worker as stuck on a
	// never-yielding task. Stop itself has no timeout; this is a value
	// callers may use to wrap Stop in their own deadline.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`
}

// LoggingConfig controls the scheduler's diagnostic logging.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// DefaultConfig returns a balanced configuration: one worker per logical
// CPU, the default stack size, a 30 second shutdown timeout hint, and
// info-level text logging.
func DefaultConfig(numCPU int) *Config {
	if numCPU < 1 {
		numCPU = 1
	}
	return &Config{
		Runtime: RuntimeConfig{
			WorkerCount:            numCPU,
			StackSize:              64 * 1024,
			ShutdownTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// GetPresetConfig returns a named configuration preset:
//
//   - "default": one worker per logical CPU, for general-purpose use.
//   - "single": exactly one worker, giving deterministic FIFO scheduling,
//     useful for tests that assert dispatch order.
//   - "throughput": four workers per logical CPU, favoring overlap for
//     workloads dominated by Sleep/Join suspension rather than CPU work.
func GetPresetConfig(name string, numCPU int) (*Config, error) {
	base := DefaultConfig(numCPU)
	switch name {
	case "", "default":
		return base, nil
	case "single":
		base.Runtime.WorkerCount = 1
		return base, nil
	case "throughput":
		base.Runtime.WorkerCount = numCPU * 4
		return base, nil
	default:
		return nil, fmt.Errorf("unknown config preset %q: valid presets are 'default', 'single', 'throughput'", name)
	}
}

// LoadConfig reads a JSON configuration file, applies environment variable
// overrides, validates the result, and returns it. An empty path skips
// the file read and starts from DefaultConfig.
func LoadConfig(path string, numCPU int) (*Config, error) {
	cfg := DefaultConfig(numCPU)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToFile writes c as indented JSON to path, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MNRT_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Runtime.WorkerCount = n
		}
	}
	if v := os.Getenv("MNRT_STACK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Runtime.StackSize = n
		}
	}
	if v := os.Getenv("MNRT_SHUTDOWN_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Runtime.ShutdownTimeoutSeconds = n
		}
	}
	if v := os.Getenv("MNRT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MNRT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks c for internal consistency, returning an error with a
// corrective suggestion for the first problem found.
func (c *Config) Validate() error {
	if c.Runtime.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive (current: %d); try the 'default' preset or MNRT_WORKER_COUNT=4", c.Runtime.WorkerCount)
	}
	if c.Runtime.WorkerCount > 64 {
		return fmt.Errorf("worker count is very high (%d); mnrt.MaxWorkers caps schedulers at 64 workers", c.Runtime.WorkerCount)
	}
	if c.Runtime.StackSize <= 0 {
		return fmt.Errorf("stack size must be positive (current: %d bytes); 65536 (64KiB) is the recommended default", c.Runtime.StackSize)
	}
	if c.Runtime.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("shutdown timeout cannot be negative (current: %d)", c.Runtime.ShutdownTimeoutSeconds)
	}

	if _, err := mnlog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: valid options are debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: valid options are text, json", c.Logging.Format)
	}

	return nil
}

// LoggerConfig builds an *mnlog.Config from c's logging section.
func (c *Config) LoggerConfig() (*mnlog.Config, error) {
	level, err := mnlog.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format := mnlog.TextFormat
	if strings.ToLower(c.Logging.Format) == "json" {
		format = mnlog.JSONFormat
	}
	return &mnlog.Config{
		Level:  level,
		Format: format,
		Output: os.Stdout,
	}, nil
}

// ShutdownTimeout returns Runtime.ShutdownTimeoutSeconds as a
// time.Duration, for callers wrapping Scheduler.Stop with their own
// deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Runtime.ShutdownTimeoutSeconds) * time.Second
}
