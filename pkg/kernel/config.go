package kernel

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"microkern/pkg/process"
)

// Config carries the boot-time tunables of the kernel.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
	Trace     TraceConfig     `yaml:"trace"`
}

// SchedulerConfig selects the scheduling policy and the timer rate the
// kernel ticks at.
type SchedulerConfig struct {
	Algorithm string `yaml:"algorithm"`
	TimerHz   int    `yaml:"timerHz"`
}

// LogConfig sets the logrus level for kernel logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// TraceConfig enables span export. An empty Output means stdout.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Output  string `yaml:"output"`
}

// DefaultConfig returns the configuration the kernel boots with when no file
// is supplied: round-robin scheduling at 100 Hz, info-level logging, tracing
// off.
func DefaultConfig() Config {
	return Config{
		Scheduler: SchedulerConfig{
			Algorithm: string(process.RoundRobin),
			TimerHz:   100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	switch process.Algorithm(c.Scheduler.Algorithm) {
	case process.RoundRobin, process.PriorityScheduling,
		process.FirstComeFirstServed, process.ShortestJobFirst:
	default:
		return fmt.Errorf("unknown scheduling algorithm %q", c.Scheduler.Algorithm)
	}
	if c.Scheduler.TimerHz <= 0 {
		return fmt.Errorf("timerHz must be positive, got %d", c.Scheduler.TimerHz)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// LoadConfig reads a YAML config file. Fields left out of the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
