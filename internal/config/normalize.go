package config

import (
	"os"
	"strings"
)

// Environment variables recognized for overrides. These are the names the
// community Immich cleanup tooling established, so existing setups keep
// working without a config file.
const (
	EnvServer    = "IMMICH_SERVER"
	EnvAPIKey    = "IMMICH_API_KEY"
	EnvDryRun    = "IMMICH_DRY_RUN"
	EnvPermanent = "IMMICH_DEFINITELY"
	EnvEnableLog = "IMMICH_ENABLE_LOG"
)

// normalize applies environment overrides, trims string fields, and expands
// path fields. It runs after decoding and before validation.
func (c *Config) normalize() error {
	if v, ok := os.LookupEnv(EnvServer); ok && strings.TrimSpace(v) != "" {
		c.Server.URL = v
	}
	if v, ok := os.LookupEnv(EnvAPIKey); ok && strings.TrimSpace(v) != "" {
		c.Server.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvDryRun); ok {
		c.Deletion.DryRun = parseBool(v, c.Deletion.DryRun)
	}
	if v, ok := os.LookupEnv(EnvPermanent); ok {
		c.Deletion.Permanent = parseBool(v, c.Deletion.Permanent)
	}
	if v, ok := os.LookupEnv(EnvEnableLog); ok {
		c.Logging.Enabled = parseBool(v, c.Logging.Enabled)
	}

	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	c.Server.APIKey = strings.TrimSpace(c.Server.APIKey)
	c.Policy.PreferredFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Policy.PreferredFormat), "."))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Language = strings.ToLower(strings.TrimSpace(c.Logging.Language))

	if dir := strings.TrimSpace(c.Logging.Directory); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return err
		}
		c.Logging.Directory = expanded
	}
	return nil
}

// parseBool follows the env conventions of the original tooling: true, 1,
// yes, and on are true; anything else is false. An empty value keeps the
// current setting.
func parseBool(value string, current bool) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return current
	}
	switch trimmed {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
