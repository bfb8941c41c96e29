// Package config defines the demo binary's configuration model and YAML
// loading.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config represents the complete configuration of the demo binary: the local
// metrics server, the probed target, and tracing.
type Config struct {
	Server struct {
		Port    string `yaml:"port"`
		Host    string `yaml:"host"`
		URI     string `yaml:"uri"`
		LogName string `yaml:"logName"`
	} `yaml:"server"`

	Probe struct {
		URL                string `yaml:"url"`
		Interval           string `yaml:"interval"`
		Timeout            string `yaml:"timeout"`
		InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	} `yaml:"probe"`

	OpenTelemetry struct {
		Enabled      bool    `yaml:"enabled"`
		Endpoint     string  `yaml:"endpoint"`
		Insecure     bool    `yaml:"insecure"`
		SamplingRate float64 `yaml:"samplingRate"`
	} `yaml:"opentelemetry"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetDefaults fills in optional fields. It is called by Validate.
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.URI == "" {
		c.Server.URI = "/metrics"
	}
	if c.Probe.Interval == "" {
		c.Probe.Interval = "30s"
	}
	if c.Probe.Timeout == "" {
		c.Probe.Timeout = "10s"
	}
	if c.OpenTelemetry.Enabled && c.OpenTelemetry.SamplingRate == 0 {
		c.OpenTelemetry.SamplingRate = 1.0
	}
}

// Validate checks the configuration and returns the first problem found.
// Defaults are applied before validation.
func (c *Config) Validate() error {
	c.SetDefaults()

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Probe.URL == "" {
		return errors.New("probe URL is required")
	}
	u, err := url.Parse(c.Probe.URL)
	if err != nil {
		return fmt.Errorf("invalid probe URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("probe URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("probe URL is missing a host")
	}

	if _, err := time.ParseDuration(c.Probe.Interval); err != nil {
		return fmt.Errorf("invalid probe interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Probe.Timeout); err != nil {
		return fmt.Errorf("invalid probe timeout: %w", err)
	}

	if c.OpenTelemetry.Enabled {
		if c.OpenTelemetry.Endpoint == "" {
			return errors.New("opentelemetry endpoint is required when tracing is enabled")
		}
		if c.OpenTelemetry.SamplingRate < 0 || c.OpenTelemetry.SamplingRate > 1 {
			return fmt.Errorf("sampling rate must be between 0.0 and 1.0, got %v", c.OpenTelemetry.SamplingRate)
		}
	}

	return nil
}

// ServerAddress returns the host:port the metrics server listens on.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ProbeHost returns the hostname of the probed target. Validate must have
// succeeded first.
func (c *Config) ProbeHost() string {
	u, err := url.Parse(c.Probe.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ProbeInterval returns the parsed probe interval. Validate must have
// succeeded first.
func (c *Config) ProbeInterval() time.Duration {
	d, _ := time.ParseDuration(c.Probe.Interval)
	return d
}

// ProbeTimeout returns the parsed probe timeout. Validate must have succeeded
// first.
func (c *Config) ProbeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Probe.Timeout)
	return d
}
