// Package config loads roundwatch settings from YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vrclog/roundwatch/internal/osc"
	"github.com/vrclog/roundwatch/internal/round"
)

const minDispatchPoll = 10 * time.Millisecond

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the top-level configuration file.
type Config struct {
	// LogDir overrides log directory detection.
	LogDir string `yaml:"log_dir"`

	// Poll makes the tailer poll instead of using file system notifications.
	Poll bool `yaml:"poll"`

	// Targets is the initial target list. TargetList is an alternative
	// comma-separated form, numbered from 1; it is used only when Targets
	// is empty.
	Targets    []round.Target `yaml:"targets"`
	TargetList string         `yaml:"target_list"`

	OSC      OSCConfig      `yaml:"osc"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Server   ServerConfig   `yaml:"server"`
}

// OSCConfig configures the OSC endpoint.
type OSCConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	NumberAddress string `yaml:"number_address"`
	ResetAddress  string `yaml:"reset_address"`
}

// DispatchConfig configures the send gate.
type DispatchConfig struct {
	MinInterval  Duration `yaml:"min_interval"`
	PollInterval Duration `yaml:"poll_interval"`
}

// ServerConfig configures the HTTP/websocket control server.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AuthToken      string   `yaml:"auth_token"`

	// MaxConnections limits concurrent websocket clients. 0 is unlimited.
	MaxConnections int `yaml:"max_connections"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	oscDefaults := osc.DefaultConfig()
	return &Config{
		OSC: OSCConfig{
			Host:          oscDefaults.Host,
			Port:          oscDefaults.Port,
			NumberAddress: oscDefaults.NumberAddress,
			ResetAddress:  oscDefaults.ResetAddress,
		},
		Dispatch: DispatchConfig{
			MinInterval:  Duration(500 * time.Millisecond),
			PollInterval: Duration(100 * time.Millisecond),
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8765,
			MaxConnections: 16,
		},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(cfg.Targets) == 0 && strings.TrimSpace(cfg.TargetList) != "" {
		cfg.Targets = round.ParseList(cfg.TargetList)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.OSCClientConfig().Validate(); err != nil {
		return err
	}
	if c.Dispatch.MinInterval.Duration() < 0 {
		return fmt.Errorf("dispatch.min_interval must be non-negative, got %s", c.Dispatch.MinInterval.Duration())
	}
	if c.Dispatch.PollInterval.Duration() < minDispatchPoll {
		return fmt.Errorf("dispatch.poll_interval must be at least %s, got %s", minDispatchPoll, c.Dispatch.PollInterval.Duration())
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 0-65535, got %d", c.Server.Port)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("server.max_connections must be non-negative, got %d", c.Server.MaxConnections)
	}

	seen := make(map[int]bool, len(c.Targets))
	for i, t := range c.Targets {
		if strings.TrimSpace(t.Value) == "" {
			return fmt.Errorf("targets[%d]: value is required", i)
		}
		if seen[t.Number] {
			return fmt.Errorf("targets[%d]: duplicate number %d", i, t.Number)
		}
		seen[t.Number] = true
	}
	return nil
}

// OSCClientConfig converts the OSC section for the osc package.
func (c *Config) OSCClientConfig() osc.Config {
	return osc.Config{
		Host:          c.OSC.Host,
		Port:          c.OSC.Port,
		NumberAddress: c.OSC.NumberAddress,
		ResetAddress:  c.OSC.ResetAddress,
	}
}
