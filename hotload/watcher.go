package hotload

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/joshuapare/hotkit/internal/logger"
)

// Watcher signals filesystem changes to one artifact.
//
// It watches the artifact's directory, since build tools commonly replace
// the file by rename. Signals coalesce: any number of events between two
// Changed calls read as one change.
type Watcher struct {
	fw     *fsnotify.Watcher
	name   string
	signal chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	log    *slog.Logger
}

// NewWatcher starts watching dir for changes to the file called name.
func NewWatcher(dir, name string, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("hotload: create watcher: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("hotload: watch %s: %w", dir, err)
	}

	w := &Watcher{
		fw:     fw,
		name:   name,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		log:    logger.Or(log),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			// Removal counts too: a missing artifact is a change.
			if filepath.Base(ev.Name) == w.name {
				w.notify()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("artifact watcher error", "error", err)
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Changed reports and clears a pending change signal. It never blocks.
func (w *Watcher) Changed() bool {
	select {
	case <-w.signal:
		return true
	default:
		return false
	}
}

// C returns the signal channel for callers that want to block on changes.
func (w *Watcher) C() <-chan struct{} {
	return w.signal
}

// Close stops the watcher goroutine and waits for it to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
		w.wg.Wait()
	})
	return err
}
