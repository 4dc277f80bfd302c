package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Failures here are fatal:
// nothing is fetched or mutated with an invalid configuration.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDeletion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required. Set %s or edit the config file (create with 'dupesweep config init')", EnvServer)
	}
	parsed, err := url.Parse(c.Server.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.url %q is not a valid URL", c.Server.URL)
	}
	if c.Server.APIKey == "" {
		return fmt.Errorf("server.api_key is required. Set %s or edit the config file", EnvAPIKey)
	}
	if c.Server.RequestTimeout < 1 {
		return errors.New("server.request_timeout must be at least 1 second")
	}
	return nil
}

func (c *Config) validateDeletion() error {
	if c.Deletion.BatchSize < 1 {
		return errors.New("deletion.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Language {
	case "en", "fr":
	default:
		return fmt.Errorf("logging.language must be en or fr, got %q", c.Logging.Language)
	}
	return nil
}
