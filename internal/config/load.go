package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.baseDir = filepath.Dir(absPath)

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Slack.HandshakeURL == "" {
		c.Slack.HandshakeURL = DefaultHandshakeURL
	}
	if c.Slack.ReconnectInterval == 0 {
		c.Slack.ReconnectInterval = DefaultReconnectInterval
	}
	if c.Slack.HandshakeTimeout == 0 {
		c.Slack.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Maintenance.Upgrade == "" {
		c.Maintenance.Upgrade = DefaultUpgradePath
	}
	if c.Maintenance.Restart == "" {
		c.Maintenance.Restart = DefaultRestartPath
	}
	if c.Events.Buffer == 0 {
		c.Events.Buffer = DefaultEventBuffer
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

func (c *Config) resolvePath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	base := c.baseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, p)
}
