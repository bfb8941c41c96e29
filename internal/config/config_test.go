package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoad tests loading and validating a complete configuration file
func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  host: "0.0.0.0"
  uri: "/metrics"
probe:
  url: "https://example.com/health"
  interval: "15s"
  timeout: "5s"
opentelemetry:
  enabled: true
  endpoint: "localhost:4317"
  insecure: true
  samplingRate: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddress())
	assert.Equal(t, "example.com", cfg.ProbeHost())
	assert.Equal(t, 15*time.Second, cfg.ProbeInterval())
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout())
	assert.True(t, cfg.OpenTelemetry.Enabled)
	assert.Equal(t, 0.5, cfg.OpenTelemetry.SamplingRate)
}

// TestLoadMissingFile tests the error path for a nonexistent file
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestLoadInvalidYAML tests the error path for malformed YAML
func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

// TestSetDefaults tests default values for optional fields
func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.Probe.URL = "http://example.com"

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:8080", cfg.ServerAddress())
	assert.Equal(t, "/metrics", cfg.Server.URI)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval())
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout())
}

// TestValidate tests rejection of invalid configurations
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name:   "missing probe URL",
			modify: func(c *Config) { c.Probe.URL = "" },
		},
		{
			name:   "unsupported scheme",
			modify: func(c *Config) { c.Probe.URL = "ftp://example.com" },
		},
		{
			name:   "URL without host",
			modify: func(c *Config) { c.Probe.URL = "http://" },
		},
		{
			name:   "invalid port",
			modify: func(c *Config) { c.Server.Port = "99999" },
		},
		{
			name:   "non-numeric port",
			modify: func(c *Config) { c.Server.Port = "abc" },
		},
		{
			name:   "invalid interval",
			modify: func(c *Config) { c.Probe.Interval = "soon" },
		},
		{
			name:   "invalid timeout",
			modify: func(c *Config) { c.Probe.Timeout = "-" },
		},
		{
			name: "tracing enabled without endpoint",
			modify: func(c *Config) {
				c.OpenTelemetry.Enabled = true
				c.OpenTelemetry.Endpoint = ""
			},
		},
		{
			name: "sampling rate out of range",
			modify: func(c *Config) {
				c.OpenTelemetry.Enabled = true
				c.OpenTelemetry.Endpoint = "localhost:4317"
				c.OpenTelemetry.SamplingRate = 2.0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.Probe.URL = "http://example.com"
			tt.modify(&cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
