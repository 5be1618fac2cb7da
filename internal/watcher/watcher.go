// Package watcher watches the config file and reports debounced changes.
package watcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/zirconconsole/zircon/internal/log"
)

// Config holds watcher options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns the options used by the console.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 250 * time.Millisecond,
	}
}

// ChangedMsg is delivered to the Bubble Tea program when the file changed.
type ChangedMsg struct {
	Path string
}

// Watcher reports changes to the contents of one file. Saves that leave the
// bytes unchanged are not reported.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration

	changed chan struct{}
	done    chan struct{}
	stop    sync.Once

	mu    sync.Mutex
	timer *time.Timer
	last  []byte
}

// New creates a watcher for cfg.Path. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	last, _ := os.ReadFile(cfg.Path)
	return &Watcher{
		fsw:      fsw,
		path:     cfg.Path,
		debounce: cfg.DebounceDur,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		last:     last,
	}, nil
}

// Start watches the file's directory, since editors often replace the file
// rather than write it. The returned channel receives one signal per settled
// change.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	go w.run()
	return w.changed, nil
}

// Stop ends the watch. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stop.Do(func() {
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

// WaitCmd blocks until the next change and reports it as a ChangedMsg, or
// returns nil once the watcher is stopped. Re-issue it after each message.
func (w *Watcher) WaitCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.done:
			return nil
		default:
		}
		select {
		case <-w.changed:
			return ChangedMsg{Path: w.path}
		case <-w.done:
			return nil
		}
	}
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatConfig, "file watcher error", err, "path", w.path)
		case <-w.done:
			return
		}
	}
}

// schedule (re)starts the debounce window.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.settle)
}

// settle runs once writes have been quiet for the debounce window.
func (w *Watcher) settle() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// Mid-replace; the create event that follows schedules another settle.
		log.Debug(log.CatConfig, "config unreadable after change", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	same := bytes.Equal(data, w.last)
	w.last = data
	w.mu.Unlock()
	if same {
		return
	}

	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Base(ev.Name) == filepath.Base(w.path)
}
