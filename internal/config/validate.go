package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/signupguard/signupguard/internal/logging"
)

type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%d validation error(s)", len(v.Problems))
}

func (c *Config) Validate() error {
	v := &ValidationError{}

	if c.ConfigVersion != 1 {
		v.Add("configVersion must be 1")
	}

	if c.Slack.BotID == "" {
		v.Add("slack.botID is required")
	} else if strings.ContainsAny(c.Slack.BotID, "<@> \t") {
		v.Add("slack.botID must be the bare user id, e.g. U0123ABC")
	}
	if c.Slack.Channel == "" {
		v.Add("slack.channel is required")
	}
	if err := validateURL(c.Slack.HandshakeURL); err != nil {
		v.Add("slack.handshakeURL invalid: %v", err)
	}
	if c.Slack.ReconnectInterval <= 0 {
		v.Add("slack.reconnectInterval must be > 0")
	}
	if c.Slack.HandshakeTimeout <= 0 {
		v.Add("slack.handshakeTimeout must be > 0")
	}

	if c.Maintenance.Upgrade == "" {
		v.Add("maintenance.upgrade is required")
	}
	if c.Maintenance.Restart == "" {
		v.Add("maintenance.restart is required")
	}

	if c.Events.Buffer < 1 {
		v.Add("events.buffer must be >= 1")
	}
	if c.Events.Journal != "" {
		if err := ensureWritable(c.resolvePath(c.Events.Journal)); err != nil {
			v.Add("events.journal invalid: %v", err)
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			v.Add("rateLimit.rps must be > 0")
		}
		if c.RateLimit.Burst <= 0 {
			v.Add("rateLimit.burst must be > 0")
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		v.Add("logging.level invalid: %v", err)
	}
	if c.Logging.CommandLog != "" {
		if err := ensureWritable(c.resolvePath(c.Logging.CommandLog)); err != nil {
			v.Add("logging.commandLog invalid: %v", err)
		}
	}

	if c.Metrics.Enabled {
		if err := validateListen(c.Metrics.Listen); err != nil {
			v.Add("metrics.listen invalid: %v", err)
		}
	}

	if len(v.Problems) > 0 {
		sort.Strings(v.Problems)
		return v
	}
	return nil
}

// ValidateSecrets checks what run needs beyond the YAML file.
func (c *Config) ValidateSecrets() error {
	v := &ValidationError{}
	if strings.TrimSpace(c.Secrets.SlackBotToken) == "" {
		v.Add("SLACK_BOT_TOKEN is required")
	}
	if len(v.Problems) > 0 {
		return v
	}
	return nil
}

func validateListen(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("address is required")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("must include scheme and host")
	}
	return nil
}

func ensureWritable(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	file, err := os.CreateTemp(dir, "signupguard-validate-*")
	if err != nil {
		return err
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
