package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv, keyed by the flag they shadow.
var envVars = map[string]string{
	"endpoint":       "POSTBOARD_ENDPOINT",
	"timeout":        "POSTBOARD_TIMEOUT",
	"probe-interval": "POSTBOARD_PROBE_INTERVAL",
	"iface":          "POSTBOARD_IFACE",
	"user-agent":     "POSTBOARD_USER_AGENT",
	"log-file":       "POSTBOARD_LOG_FILE",
	"log-level":      "POSTBOARD_LOG_LEVEL",
}

// ApplyEnv overrides cfg from POSTBOARD_* variables. Settings whose flag was
// set explicitly (changed) are left alone.
func ApplyEnv(cfg *Config, changed map[string]bool) error {
	str := func(flag string, dst *string) {
		if changed[flag] {
			return
		}
		if v := strings.TrimSpace(os.Getenv(envVars[flag])); v != "" {
			*dst = v
		}
	}
	dur := func(flag string, dst *time.Duration) error {
		if changed[flag] {
			return nil
		}
		v := strings.TrimSpace(os.Getenv(envVars[flag]))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envVars[flag], v, err)
		}
		*dst = d
		return nil
	}

	str("endpoint", &cfg.Endpoint)
	str("iface", &cfg.Iface)
	str("user-agent", &cfg.UserAgent)
	str("log-level", &cfg.LogLevel)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	var logFile string
	str("log-file", &logFile)
	if logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if err := dur("timeout", &cfg.Timeout); err != nil {
		return err
	}
	return dur("probe-interval", &cfg.ProbeInterval)
}
