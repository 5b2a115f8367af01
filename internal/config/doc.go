// Package config loads postboard's runtime settings.
//
// # Resolution Order
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults
//  2. ~/.config/postboard/config.toml (or the --config path)
//  3. POSTBOARD_* environment variables, including any loaded from .env
//  4. Command-line flags that were set explicitly
//
// A missing config file is not an error.
//
// # TOML Format
//
//	endpoint = "https://jsonplaceholder.typicode.com/posts"
//	timeout = "10s"
//	probe_interval = "2s"
//	iface = "wlan0"
//	user_agent = "postboard/0.1"
//	log_file = "~/.local/state/postboard/postboard.log"
//	log_level = "info"
//
// Durations use Go duration syntax. Paths accept a leading ~.
//
// # Environment
//
//	POSTBOARD_ENDPOINT        POSTBOARD_IFACE
//	POSTBOARD_TIMEOUT         POSTBOARD_USER_AGENT
//	POSTBOARD_PROBE_INTERVAL  POSTBOARD_LOG_FILE
//	POSTBOARD_LOG_LEVEL
//
// Validate rejects endpoints that are not absolute http(s) URLs, non-positive
// durations and unknown log levels.
package config
