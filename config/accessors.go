package config

import (
	"strings"
	"time"
)

// GetString retrieves a string value from the configuration or the provided default.
func (c *Config) GetString(key string, defaultVal ...string) string {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		if len(defaultVal) > 0 {
			return defaultVal[0]
		}
		return ""
	}
	return c.k.String(key)
}

// GetDuration retrieves a duration value or the provided default.
func (c *Config) GetDuration(key string, defaultVal ...time.Duration) time.Duration {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		if len(defaultVal) > 0 {
			return defaultVal[0]
		}
		return 0
	}
	return c.k.Duration(key)
}

// Exists checks if a configuration key exists.
func (c *Config) Exists(key string) bool {
	if c == nil || c.k == nil {
		return false
	}
	return c.k.Exists(key)
}

// All returns all configuration as a flattened map. Secrets are masked.
func (c *Config) All() map[string]any {
	if c == nil || c.k == nil {
		return nil
	}
	all := c.k.All()
	for key, v := range all {
		if v == "" {
			continue
		}
		if key == "credentials.redis.password" || strings.HasPrefix(key, "metrics.headers.") {
			all[key] = "***"
		}
	}
	return all
}
