package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration when the config file changes on disk.
// Events are debounced since editors often write a file in several steps.
type Watcher struct {
	path     string
	debounce time.Duration
	load     func() (Config, error)
	onChange func(Config, error)

	fsw   *fsnotify.Watcher
	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

// NewWatcher creates a watcher for the config file at path.
// load is called after each change; onChange receives its result.
func NewWatcher(path string, load func() (Config, error), onChange func(Config, error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		debounce: 150 * time.Millisecond,
		load:     load,
		onChange: onChange,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the directory holding the config file.
// The directory is watched so files created after Start are seen too.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = w.fsw.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.run()
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	cfg, err := w.load()
	w.onChange(cfg, err)
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		err = w.fsw.Close()
	})
	return err
}
