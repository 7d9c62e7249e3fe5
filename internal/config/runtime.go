package config

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xlog "github.com/voicebridge/sahaya/internal/log"
)

// Runtime keys recognised in the runtime settings file.
const (
	KeyCallProvider = "call_provider"
)

// Runtime exposes the settings an operator may change while the service is
// running. Every read goes back to the file: the dispatch path must observe a
// provider switch on the very next call, so nothing here is cached. The file
// is a flat key=value list; a missing or unreadable file yields the
// configured defaults.
type Runtime struct {
	path     string
	defaults map[string]string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
}

// NewRuntime creates a runtime settings source backed by the file at path.
// An empty path pins every key to its default.
func NewRuntime(path string, defaults map[string]string) *Runtime {
	d := make(map[string]string, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &Runtime{
		path:     path,
		defaults: d,
		logger:   xlog.WithComponent("runtime"),
	}
}

// Provider returns the currently selected call provider, read fresh.
func (r *Runtime) Provider() string {
	return r.Get(KeyCallProvider)
}

// Get returns the current value for key, reading the file fresh on every
// call. Unknown keys and read failures fall back to the default.
func (r *Runtime) Get(key string) string {
	def := r.defaults[key]
	if r.path == "" {
		return def
	}
	values, err := r.read()
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("key", key).
			Str("event", "runtime.read_failed").
			Msg("falling back to default runtime value")
		return def
	}
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return def
}

func (r *Runtime) read() (map[string]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open runtime file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan runtime file: %w", err)
	}
	return values, nil
}

// StartWatcher watches the runtime file and logs every change, so operator
// provider switches leave an audit trail. Reads stay file-backed either way;
// the watcher exists purely for observability. No-op when no path is set.
func (r *Runtime) StartWatcher(ctx context.Context) error {
	if r.path == "" {
		r.logger.Info().
			Str("event", "runtime.watcher_disabled").
			Msg("runtime settings watcher disabled (no runtime file configured)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	r.watcher = watcher

	// Watch the directory: editors replace the file, which drops a watch on
	// the file itself.
	dir := r.path
	if idx := strings.LastIndexByte(dir, '/'); idx >= 0 {
		dir = dir[:idx]
	}
	if dir == "" || dir == r.path {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch runtime dir: %w", err)
	}

	r.logger.Info().
		Str("event", "runtime.watcher_started").
		Str("path", r.path).
		Msg("watching runtime settings file for changes")

	go r.watchLoop(ctx)
	return nil
}

func (r *Runtime) watchLoop(ctx context.Context) {
	var debounce *time.Timer
	const debounceDuration = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Str("event", "runtime.watcher_stopped").Msg("runtime watcher stopped")
			_ = r.watcher.Close()
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Name != r.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDuration, func() {
					r.logger.Info().
						Str("event", "runtime.settings_changed").
						Str("provider", r.Provider()).
						Msg("runtime settings file changed")
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error().
				Err(err).
				Str("event", "runtime.watcher_error").
				Msg("runtime watcher error")
		}
	}
}

// Stop stops the watcher if it is running.
func (r *Runtime) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}
