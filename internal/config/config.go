// Package config loads and validates the daemon configuration file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"workhours/pkg/utils"
)

const (
	// DefaultInterval is how often the daemon reconciles when the config
	// file does not say otherwise.
	DefaultInterval = time.Hour

	// DefaultNamespace is the CloudWatch namespace cycle metrics are
	// published under.
	DefaultNamespace = "WorkHours"
)

// Config is the daemon configuration loaded from YAML.
type Config struct {
	Regions   map[string]RegionConfig `yaml:"regions"`
	Schedule  ScheduleConfig          `yaml:"schedule"`
	Scheduler SchedulerConfig         `yaml:"scheduler"`
	Logging   LoggingConfig           `yaml:"logging"`
	Metrics   MetricsConfig           `yaml:"metrics"`
}

// RegionConfig holds optional static credentials for one region. Empty
// values fall back to the default AWS credential chain.
type RegionConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// ScheduleConfig points at the schedule document, either a local file
// path or an s3://bucket/key URI.
type ScheduleConfig struct {
	Path   string `yaml:"path"`
	Region string `yaml:"region"`
}

// SchedulerConfig controls the reconcile loop.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
	Timezone string `yaml:"timezone"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls CloudWatch metric publication.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Region    string `yaml:"region"`
}

// Default returns the configuration used for fields absent from the
// config file.
func Default() Config {
	return Config{
		Scheduler: SchedulerConfig{
			Interval: "1h",
			Timezone: "UTC",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads and validates the config file at path. Fields missing from
// the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ReconcileInterval returns the parsed scheduler interval.
func (c Config) ReconcileInterval() (time.Duration, error) {
	return ParseDurationOrDefault("scheduler.interval", c.Scheduler.Interval, DefaultInterval)
}

// MetricsRegion returns the region metrics are published to, falling
// back to the schedule region and then to any configured region.
func (c Config) MetricsRegion() string {
	if c.Metrics.Region != "" {
		return c.Metrics.Region
	}
	if c.Schedule.Region != "" {
		return c.Schedule.Region
	}
	for region := range c.Regions {
		return region
	}
	return ""
}

// Validate checks the configuration for mistakes that would otherwise
// surface later as confusing runtime failures.
func (c Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("regions: at least one region must be configured")
	}
	for region := range c.Regions {
		if !utils.IsValidRegion(region) {
			return fmt.Errorf("regions: unknown region %q", region)
		}
	}
	if _, err := c.ReconcileInterval(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone: unknown timezone %q: %w", c.Scheduler.Timezone, err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Schedule.Region != "" && !utils.IsValidRegion(c.Schedule.Region) {
		return fmt.Errorf("schedule.region: unknown region %q", c.Schedule.Region)
	}
	if c.Metrics.Region != "" && !utils.IsValidRegion(c.Metrics.Region) {
		return fmt.Errorf("metrics.region: unknown region %q", c.Metrics.Region)
	}
	return nil
}
