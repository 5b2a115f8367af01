package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// RegisterFlags adds the override flags to fs, defaulting to Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("endpoint", d.Endpoint, "URL the post list is fetched from")
	fs.Duration("timeout", d.Timeout, "HTTP request timeout")
	fs.Duration("probe-interval", d.ProbeInterval, "how often network interfaces are checked")
	fs.String("iface", "", "only treat this interface as a route to the network")
	fs.String("user-agent", "", "User-Agent header sent with requests")
	fs.String("log-file", defaultLogFile, "structured log destination")
	fs.String("log-level", d.LogLevel, "log level ("+strings.Join(LogLevels, ", ")+")")
}

// Changed reports which flags in fs were set on the command line.
func Changed(fs *pflag.FlagSet) map[string]bool {
	changed := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}

// ApplyFlags copies every explicitly set flag onto cfg.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var firstErr error
	fs.Visit(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		var err error
		switch f.Name {
		case "endpoint":
			cfg.Endpoint, err = fs.GetString(f.Name)
		case "timeout":
			cfg.Timeout, err = fs.GetDuration(f.Name)
		case "probe-interval":
			cfg.ProbeInterval, err = fs.GetDuration(f.Name)
		case "iface":
			cfg.Iface, err = fs.GetString(f.Name)
		case "user-agent":
			cfg.UserAgent, err = fs.GetString(f.Name)
		case "log-file":
			var v string
			if v, err = fs.GetString(f.Name); err == nil {
				cfg.LogFile = mustExpand(v)
			}
		case "log-level":
			var v string
			if v, err = fs.GetString(f.Name); err == nil {
				cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
			}
		}
		if err != nil {
			firstErr = fmt.Errorf("flag --%s: %w", f.Name, err)
		}
	})
	return firstErr
}

// Resolve layers the config file, POSTBOARD_* variables and changed flags,
// then validates the result.
func Resolve(path string, fs *pflag.FlagSet) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, Changed(fs)); err != nil {
		return Config{}, err
	}
	if err := ApplyFlags(&cfg, fs); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
