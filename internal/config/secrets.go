package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Secrets holds credentials that only ever come from the environment.
type Secrets struct {
	SlackBotToken string `envconfig:"SLACK_BOT_TOKEN"`
}

// LoadSecrets reads secrets from the process environment into c.Secrets.
func (c *Config) LoadSecrets() error {
	var s Secrets
	if err := envconfig.Process("", &s); err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}
	c.Secrets = s
	return nil
}
