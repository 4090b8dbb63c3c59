package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

var envKeys = []string{
	"PORT", "METRICS_PATH", "COLLECT_INTERVAL", "COMMAND_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT", "ZPOOL_PATH", "ZPOOL_TIMEZONE", "OUTPUT_FILE",
}

// clearEnv blanks every variable the config reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func parseFlags(t *testing.T, cfg *Config, args ...string) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
}

func TestConfigFromFlags(t *testing.T) {
	clearEnv(t)

	config := New()
	parseFlags(t, config, "--port", "8080", "--metrics-path", "/test-metrics", "--collect-interval", "45s", "--log-level", "debug")

	if config.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", config.Port)
	}

	if config.MetricsPath != "/test-metrics" {
		t.Errorf("Expected metrics path /test-metrics, got %s", config.MetricsPath)
	}

	if config.CollectInterval != 45*time.Second {
		t.Errorf("Expected collect interval 45s, got %v", config.CollectInterval)
	}

	if config.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", config.LogLevel)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("METRICS_PATH", "/env-metrics")
	t.Setenv("COLLECT_INTERVAL", "90s")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ZPOOL_PATH", "/sbin/zpool")
	t.Setenv("ZPOOL_TIMEZONE", "UTC")

	config := New()
	parseFlags(t, config)

	if config.Port != "7070" {
		t.Errorf("Expected port 7070 from env, got %s", config.Port)
	}

	if config.MetricsPath != "/env-metrics" {
		t.Errorf("Expected metrics path /env-metrics from env, got %s", config.MetricsPath)
	}

	if config.CollectInterval != 90*time.Second {
		t.Errorf("Expected collect interval 90s from env, got %v", config.CollectInterval)
	}

	if config.LogLevel != "warn" {
		t.Errorf("Expected log level warn from env, got %s", config.LogLevel)
	}

	if config.ZpoolPath != "/sbin/zpool" {
		t.Errorf("Expected zpool path /sbin/zpool from env, got %s", config.ZpoolPath)
	}

	if config.Timezone != "UTC" {
		t.Errorf("Expected timezone UTC from env, got %s", config.Timezone)
	}
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	config := New()

	if config.Port != "9134" {
		t.Errorf("Expected default port 9134, got %s", config.Port)
	}

	if config.MetricsPath != "/metrics" {
		t.Errorf("Expected default metrics path /metrics, got %s", config.MetricsPath)
	}

	if config.CollectInterval != 30*time.Second {
		t.Errorf("Expected default collect interval 30s, got %v", config.CollectInterval)
	}

	if config.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", config.LogLevel)
	}

	if config.ZpoolPath != "zpool" {
		t.Errorf("Expected default zpool path zpool, got %s", config.ZpoolPath)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestFlagsPriorityOverEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	t.Setenv("LOG_LEVEL", "error")

	config := New()
	parseFlags(t, config, "--port", "6000", "--log-level", "debug")

	if config.Port != "6000" {
		t.Errorf("Expected port 6000 from flag (not 5000 from env), got %s", config.Port)
	}

	if config.LogLevel != "debug" {
		t.Errorf("Expected log level debug from flag (not error from env), got %s", config.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero interval", func(c *Config) { c.CollectInterval = 0 }, true},
		{"negative timeout", func(c *Config) { c.CommandTimeout = -time.Second }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }, true},
		{"utc", func(c *Config) { c.Timezone = "UTC" }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			c := New()
			tc.mutate(c)
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	testCases := []struct {
		envValue string
		expected time.Duration
		name     string
	}{
		{"30s", 30 * time.Second, "duration string"},
		{"60", 60 * time.Second, "seconds as integer"},
		{"2m", 2 * time.Minute, "minutes"},
		{"1h", 1 * time.Hour, "hours"},
		{"invalid", 30 * time.Second, "invalid value falls back to default"},
		{"", 30 * time.Second, "empty value falls back to default"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.envValue)

			result := getEnvDuration("TEST_DURATION", 30*time.Second)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v for input '%s'", tc.expected, result, tc.envValue)
			}
		})
	}
}
