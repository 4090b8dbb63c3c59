package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the application configuration
type Config struct {
	Port            string
	MetricsPath     string
	CollectInterval time.Duration
	CommandTimeout  time.Duration
	LogLevel        string
	LogFormat       string
	ZpoolPath       string
	Timezone        string
	OutputFile      string
}

// New creates a new configuration from environment variables and defaults
func New() *Config {
	return &Config{
		Port:            getEnv("PORT", "9134"),
		MetricsPath:     getEnv("METRICS_PATH", "/metrics"),
		CollectInterval: getEnvDuration("COLLECT_INTERVAL", 30*time.Second),
		CommandTimeout:  getEnvDuration("COMMAND_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		ZpoolPath:       getEnv("ZPOOL_PATH", "zpool"),
		Timezone:        getEnv("ZPOOL_TIMEZONE", "Local"),
		OutputFile:      getEnv("OUTPUT_FILE", ""),
	}
}

// BindFlags registers command line flags on fs. Flag defaults are the
// values already in c, so flags take priority over the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "HTTP port to listen on")
	fs.StringVar(&c.MetricsPath, "metrics-path", c.MetricsPath, "path of the metrics endpoint")
	fs.DurationVar(&c.CollectInterval, "collect-interval", c.CollectInterval, "interval between zpool status runs")
	fs.DurationVar(&c.CommandTimeout, "command-timeout", c.CommandTimeout, "timeout for a single zpool status run")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: json or text")
	fs.StringVar(&c.ZpoolPath, "zpool-path", c.ZpoolPath, "zpool binary to run")
	fs.StringVar(&c.Timezone, "timezone", c.Timezone, "time zone zpool prints scan times in")
}

// Location resolves Timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks values that flags and env can not constrain on their own
func (c *Config) Validate() error {
	if c.CollectInterval <= 0 {
		return fmt.Errorf("collect interval must be positive, got %s", c.CollectInterval)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format %q: must be json or text", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
