// Package watch recompiles a source file on every save: fsnotify on the
// file's directory (editors atomic-save by replacing the file, so the
// directory is the reliable thing to watch), debounced so one save
// doesn't trigger several back-to-back recompiles.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher recompiles filePath via onChange whenever it is written.
type Watcher struct {
	filePath string
	debounce time.Duration
	onChange func()

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a Watcher for filePath. onChange is called on its own
// goroutine (via time.AfterFunc) after debounce has elapsed with no
// further writes.
func New(filePath string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}
	return &Watcher{
		filePath: filePath,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Run blocks, dispatching onChange until Close is called.
func (w *Watcher) Run() error {
	filename := filepath.Base(w.filePath)
	var timer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)

		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
