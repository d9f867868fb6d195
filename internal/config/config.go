package config

import "time"

type Config struct {
	ConfigVersion int               `yaml:"configVersion"`
	Slack         SlackConfig       `yaml:"slack"`
	Maintenance   MaintenanceConfig `yaml:"maintenance"`
	Events        EventsConfig      `yaml:"events"`
	RateLimit     RateLimitConfig   `yaml:"rateLimit"`
	Logging       LoggingConfig     `yaml:"logging"`
	Metrics       MetricsConfig     `yaml:"metrics"`

	// Secrets are never read from YAML; see LoadSecrets.
	Secrets Secrets `yaml:"-"`

	baseDir string `yaml:"-"`
}

type SlackConfig struct {
	HandshakeURL      string        `yaml:"handshakeURL"`
	BotID             string        `yaml:"botID"`
	Channel           string        `yaml:"channel"`
	ReconnectInterval time.Duration `yaml:"reconnectInterval"`
	HandshakeTimeout  time.Duration `yaml:"handshakeTimeout"`
}

type MaintenanceConfig struct {
	Upgrade string `yaml:"upgrade"`
	Restart string `yaml:"restart"`
}

type EventsConfig struct {
	Buffer  int    `yaml:"buffer"`
	Journal string `yaml:"journal"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Color      *bool  `yaml:"color"`
	CommandLog string `yaml:"commandLog"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

const (
	DefaultHandshakeURL      = "https://slack.com/api/rtm.connect"
	DefaultReconnectInterval = 7 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultUpgradePath       = "./upgrade"
	DefaultRestartPath       = "./restart"
	DefaultEventBuffer       = 64
	DefaultLogLevel          = "info"
)

func (c *Config) BaseDir() string {
	return c.baseDir
}

func (c *Config) ResolvePath(path string) string {
	return c.resolvePath(path)
}

// Colored reports whether terminal log output should be styled. Unset means yes.
func (c *Config) Colored() bool {
	return c.Logging.Color == nil || *c.Logging.Color
}
