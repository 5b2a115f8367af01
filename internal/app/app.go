package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/five82/postboard/internal/config"
	"github.com/five82/postboard/internal/logging"
	"github.com/five82/postboard/internal/logtail"
	"github.com/five82/postboard/internal/netclient"
	"github.com/five82/postboard/internal/posts"
	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/reachability"
	"github.com/five82/postboard/internal/state"
	"github.com/five82/postboard/internal/ui"
)

// Options configure a postboard run.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/postboard/prefs.toml
	// Flags holds the parsed command-line overrides; nil means none.
	Flags *pflag.FlagSet

	// JSON selects JSON output for FetchOnce.
	JSON bool
	// Stderr receives FetchOnce's console log; nil uses os.Stderr.
	Stderr io.Writer
	// Probe replaces the interface probe; tests use it.
	Probe reachability.Probe
}

// Run boots the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	userPrefs := prefs.Load(opts.PrefsPath)

	log, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()
	log.Info().Str("endpoint", cfg.Endpoint).Dur("probe_interval", cfg.ProbeInterval).Msg("postboard starting")

	monitor := newMonitor(cfg, opts.Probe, log)
	defer monitor.Close()
	waitReady(ctx, monitor, cfg.ProbeInterval)

	client := newClient(cfg, monitor, log)
	ctrl := state.New(monitor, client, state.WithEndpoint(cfg.Endpoint), state.WithLogger(log))
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logUpdates := watchLogs(ctx, cfg, log)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	program := ui.NewProgram(ui.Options{
		Controller: ctrl,
		Endpoint:   cfg.Endpoint,
		ThemeName:  userPrefs.Theme,
		ShowBodies: userPrefs.ShowBodies,
		PrefsPath:  prefsPath,
		LogFile:    cfg.LogFile,
		LogUpdates: logUpdates,
		Logger:     log,
	})

	g, gctx := errgroup.WithContext(ctx)
	exited := make(chan struct{})
	g.Go(func() error {
		defer close(exited)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			log.Info().Msg("shutdown requested")
			program.Quit()
		case <-exited:
		}
		return nil
	})

	err = g.Wait()
	log.Info().Err(err).Msg("postboard stopped")
	return err
}

// FetchOnce loads the post list a single time and prints it to w.
func FetchOnce(ctx context.Context, opts Options, w io.Writer) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	log, closeLog, err := logging.New(logging.Options{Console: stderr, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	monitor := newMonitor(cfg, opts.Probe, log)
	defer monitor.Close()
	waitReady(ctx, monitor, cfg.ProbeInterval)

	client := newClient(cfg, monitor, log)
	items, err := posts.Fetch(ctx, client, cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("fetch posts: %s: %w", state.MessageFor(err), err)
	}
	log.Debug().Int("count", len(items)).Msg("posts fetched")

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	return writeText(w, items)
}

func writeText(w io.Writer, items []posts.Post) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, state.MsgNoPosts)
		return err
	}
	for _, p := range items {
		if _, err := fmt.Fprintf(w, "#%d [user %d] %s\n", p.ID, p.OwnerID, p.Title); err != nil {
			return err
		}
	}
	return nil
}

func resolveConfig(opts Options) (config.Config, error) {
	fs := opts.Flags
	if fs == nil {
		fs = pflag.NewFlagSet("postboard", pflag.ContinueOnError)
	}
	cfg, err := config.Resolve(opts.ConfigPath, fs)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newMonitor(cfg config.Config, probe reachability.Probe, log zerolog.Logger) *reachability.Monitor {
	if probe == nil {
		probe = reachability.InterfaceProbe{Name: cfg.Iface}
	}
	return reachability.NewMonitor(probe,
		reachability.WithInterval(cfg.ProbeInterval),
		reachability.WithLogger(log),
	)
}

func newClient(cfg config.Config, reach reachability.Observer, log zerolog.Logger) *netclient.Client {
	opts := []netclient.Option{
		netclient.WithTimeout(cfg.Timeout),
		netclient.WithLogger(log),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, netclient.WithUserAgent(cfg.UserAgent))
	}
	return netclient.NewClient(reach, opts...)
}

// watchLogs signals changes to the log file. It returns nil when nothing is
// written to disk or the watcher cannot start; the log pane then polls.
func watchLogs(ctx context.Context, cfg config.Config, log zerolog.Logger) <-chan struct{} {
	if cfg.LogFile == "" || cfg.LogLevel == "disabled" {
		return nil
	}
	updates, err := logtail.Watch(ctx, cfg.LogFile, log)
	if err != nil {
		log.Warn().Err(err).Msg("log pane will poll instead of watching")
		return nil
	}
	return updates
}

// waitReady gives the first probe up to one interval so startup does not
// flash an offline state.
func waitReady(ctx context.Context, m *reachability.Monitor, interval time.Duration) {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-m.Ready():
	case <-timer.C:
	case <-ctx.Done():
	}
}
