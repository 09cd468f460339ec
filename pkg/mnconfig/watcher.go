package mnconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of filesystem events editors and
// atomic-save tools emit for a single logical write.
const reloadDebounce = 100 * time.Millisecond

// Watcher watches a configuration file and reloads it when it changes,
// delivering each successfully validated result to a callback. A config
// that fails to parse or validate is reported to the error callback and
// the previous configuration stays in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	numCPU   int
	onReload func(*Config)
	onError  func(error)

	ctx    context.Context
	cancel context.CancelFunc

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher starts watching path. onReload is invoked with each reloaded
// configuration; onError (optional) receives read/parse/validate failures.
// numCPU seeds the defaults the same way LoadConfig does.
//
// The parent directory is watched rather than the file itself, so renames
// from atomic-save editors (write temp, rename over) are still observed.
func NewWatcher(path string, numCPU int, onReload func(*Config), onError func(error)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config watcher: path must not be empty")
	}
	if onReload == nil {
		return nil, fmt.Errorf("config watcher: onReload callback must not be nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		watcher:  fsw,
		path:     filepath.Clean(path),
		numCPU:   numCPU,
		onReload: onReload,
		onError:  onError,
		ctx:      ctx,
		cancel:   cancel,
	}

	go w.eventLoop()

	return w, nil
}

// Close stops watching and releases the underlying filesystem watcher. Any
// pending debounced reload is dropped.
func (w *Watcher) Close() error {
	w.cancel()

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(fmt.Errorf("config watcher: %w", err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}

	cfg, err := LoadConfig(w.path, w.numCPU)
	if err != nil {
		w.reportError(fmt.Errorf("reload config %s: %w", w.path, err))
		return
	}
	w.onReload(cfg)
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
