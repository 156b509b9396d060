package config

import (
	"os"
	"strings"
)

// ApplyEnv overrides config values from environment variables.
// Variables win over the file; unset variables change nothing.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("HOWOBOT_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("HOWOBOT_DATA_DIR")); v != "" {
		c.Storage.DataDir = v
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("HOWOBOT_STORAGE_DRIVER"))); v != "" {
		c.Storage.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv("HOWOBOT_STATE_KEY")); v != "" {
		c.Storage.StateKey = v
	}
}

// UseDiskStaticByEnv reports whether static assets should be served from
// disk instead of the embedded copies (development convenience).
func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("HOWOBOT_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
