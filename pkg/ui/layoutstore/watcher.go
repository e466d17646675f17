package layoutstore

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the preference file for out-of-band edits (another
// process, a sync client) and invokes the handler with the freshly loaded
// state. The shell treats a reload as a settle-free state replacement.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the store's directory. The handler runs on the
// watcher goroutine; callers forward into their own event loop.
func Watch(store *Store, onReload func(State)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: atomic saves replace the file
	// by rename, which drops a direct file watch.
	if err := fw.Add(filepath.Dir(store.path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{store: store, watcher: fw, done: make(chan struct{})}
	go w.run(onReload)
	return w, nil
}

func (w *Watcher) run(onReload func(State)) {
	target := filepath.Clean(w.store.path)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			state, err := w.store.Load()
			if err != nil {
				continue // malformed mid-write content, next event retries
			}
			onReload(state)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
