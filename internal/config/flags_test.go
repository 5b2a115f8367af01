package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return fs
}

func TestResolve_FlagsBeatEnvBeatFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
endpoint = "http://file.test/posts"
timeout = "2s"
iface = "eth0"
`)
	t.Setenv("POSTBOARD_ENDPOINT", "http://env.test/posts")
	t.Setenv("POSTBOARD_TIMEOUT", "5s")

	fs := newFlags(t, "--timeout=7s", "--log-level=debug")
	cfg, err := Resolve(path, fs)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.Endpoint != "http://env.test/posts" {
		t.Fatalf("Endpoint = %q, want env value", cfg.Endpoint)
	}
	if cfg.Timeout != 7*time.Second {
		t.Fatalf("Timeout = %v, want flag value 7s", cfg.Timeout)
	}
	if cfg.Iface != "eth0" {
		t.Fatalf("Iface = %q, want file value", cfg.Iface)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestResolve_UnsetFlagsDoNotClobber(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `probe_interval = "300ms"`)

	cfg, err := Resolve(path, newFlags(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.ProbeInterval != 300*time.Millisecond {
		t.Fatalf("ProbeInterval = %v, want 300ms from file", cfg.ProbeInterval)
	}
}

func TestResolve_InvalidResultFails(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := Resolve(filepath.Join(home, "none.toml"), newFlags(t, "--endpoint=gopher://x/posts"))
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("Resolve error = %v, want invalid config", err)
	}
}

func TestApplyFlags_ExpandsLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	if err := ApplyFlags(&cfg, newFlags(t, "--log-file=~/x.log")); err != nil {
		t.Fatalf("ApplyFlags returned error: %v", err)
	}
	if cfg.LogFile != filepath.Join(home, "x.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
}
