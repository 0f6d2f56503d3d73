// Package config loads the explorer configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configurations that load but cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Config represents the complete explorer configuration
type Config struct {
	Group      string           `yaml:"group"`
	Logging    LoggingConfig    `yaml:"logging"`
	Mothership MothershipConfig `yaml:"mothership"`
	Simulation SimulationConfig `yaml:"simulation"`
	Mission    MissionConfig    `yaml:"mission"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, auto
}

// MothershipConfig contains the MQTT broker settings
type MothershipConfig struct {
	Broker      string        `yaml:"broker"`
	Port        int           `yaml:"port"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	QuietPeriod time.Duration `yaml:"quiet_period"`
	TestPlanet  string        `yaml:"test_planet"`
}

// SimulationConfig selects the simulated mothership and names the planet
// file the simulated robot drives on.
type SimulationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Planet  string `yaml:"planet"`
}

// MissionConfig bounds the control loop.
type MissionConfig struct {
	MaxSteps int `yaml:"max_steps"` // 0 disables the bound
}

// Defaults.
const (
	DefaultBroker      = "mothership.inf.tu-dresden.de"
	DefaultPort        = 8883
	DefaultQuietPeriod = 3 * time.Second
	DefaultPlanet      = "planets/sample.yaml"
	DefaultMaxSteps    = 1000
)

// Default returns a configuration that runs the sample planet offline.
func Default() *Config {
	cfg := seeded()
	cfg.Simulation.Enabled = true
	cfg.applyDefaults()

	return cfg
}

// seeded returns a Config holding the defaults whose zero value is
// meaningful, so only an absent key falls back to them.
func seeded() *Config {
	return &Config{Mission: MissionConfig{MaxSteps: DefaultMaxSteps}}
}

// Load loads configuration from a YAML file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, rejecting unknown keys, then applies defaults and
// validates.
func Parse(data []byte) (*Config, error) {
	cfg := seeded()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Mothership.Broker == "" {
		c.Mothership.Broker = DefaultBroker
	}
	if c.Mothership.Port == 0 {
		c.Mothership.Port = DefaultPort
	}
	if c.Mothership.Username == "" {
		c.Mothership.Username = c.Group
	}
	if c.Mothership.QuietPeriod == 0 {
		c.Mothership.QuietPeriod = DefaultQuietPeriod
	}
	if c.Simulation.Planet == "" {
		c.Simulation.Planet = DefaultPlanet
	}
}

// Validate checks the settings the selected mode needs.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json", "auto":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if c.Mission.MaxSteps < 0 {
		return fmt.Errorf("%w: mission.max_steps %d", ErrInvalid, c.Mission.MaxSteps)
	}
	if c.Mothership.QuietPeriod < 0 {
		return fmt.Errorf("%w: mothership.quiet_period %s", ErrInvalid, c.Mothership.QuietPeriod)
	}
	if c.Simulation.Enabled {
		return nil
	}

	if c.Group == "" {
		return fmt.Errorf("%w: group is required to talk to the mothership", ErrInvalid)
	}
	if c.Mothership.Port < 1 || c.Mothership.Port > 65535 {
		return fmt.Errorf("%w: mothership.port %d", ErrInvalid, c.Mothership.Port)
	}

	return nil
}

// Summary renders the effective settings without secrets.
func (c *Config) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Group: %s\n", c.Group)
	fmt.Fprintf(&b, "Logging: %s (%s)\n", c.Logging.Level, c.Logging.Format)
	if c.Simulation.Enabled {
		fmt.Fprintf(&b, "Mothership: simulated\n")
	} else {
		fmt.Fprintf(&b, "Mothership: %s:%d as %s (quiet %s)\n",
			c.Mothership.Broker, c.Mothership.Port, c.Mothership.Username, c.Mothership.QuietPeriod)
		if c.Mothership.TestPlanet != "" {
			fmt.Fprintf(&b, "Test planet: %s\n", c.Mothership.TestPlanet)
		}
	}
	fmt.Fprintf(&b, "Planet file: %s\n", c.Simulation.Planet)
	if c.Mission.MaxSteps == 0 {
		fmt.Fprintf(&b, "Max steps: unlimited\n")
	} else {
		fmt.Fprintf(&b, "Max steps: %d\n", c.Mission.MaxSteps)
	}

	return b.String()
}
