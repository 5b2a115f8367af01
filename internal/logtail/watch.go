package logtail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const debounceDelay = 100 * time.Millisecond

// Watch signals on the returned channel whenever the file at path is created
// or written, coalescing bursts. The parent directory is watched so the file
// may appear after Watch starts. The channel closes when ctx is done.
//
// Nothing is logged per event: the watched file is usually our own log.
func Watch(ctx context.Context, path string, log zerolog.Logger) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer w.Close()

		var debounce *time.Timer
		var fire <-chan time.Time
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
				default:
				}

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if debounce == nil {
					debounce = time.NewTimer(debounceDelay)
				} else {
					debounce.Reset(debounceDelay)
				}
				fire = debounce.C

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("dir", dir).Msg("log watcher error")
			}
		}
	}()
	return out, nil
}
