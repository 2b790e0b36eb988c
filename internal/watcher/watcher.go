// Package watcher reports changes to a single file, such as the stored
// session credential, using fsnotify with a polling fallback.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileState is what the poller compares between ticks.
type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}
}

type Watcher struct {
	path         string
	last         fileState
	mu           sync.Mutex
	pollInterval time.Duration
	onChange     func()
	stop         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// New watches path. onChange runs on a watcher goroutine whenever the file
// is created, rewritten or removed.
func New(path string, pollInterval time.Duration, onChange func()) *Watcher {
	return &Watcher{
		path:         path,
		last:         stat(path),
		pollInterval: pollInterval,
		onChange:     onChange,
		stop:         make(chan struct{}),
	}
}

// Start begins watching with fsnotify + polling fallback. The parent
// directory is watched rather than the file, since the file is replaced
// by rename and may not exist yet.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		if addErr := fsw.Add(dir); addErr != nil {
			fsw.Close()
		} else {
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				name := filepath.Clean(w.path)
				for {
					select {
					case event, ok := <-fsw.Events:
						if !ok {
							return
						}
						if filepath.Clean(event.Name) == name {
							w.check()
						}
					case _, ok := <-fsw.Errors:
						if !ok {
							return
						}
					case <-w.stop:
						fsw.Close()
						return
					}
				}
			}()
		}
	}

	// Polling fallback (always runs as safety net)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.check()
			case <-w.stop:
				return
			}
		}
	}()

	return nil
}

// Stop signals goroutines to exit and waits for them to finish. Safe to
// call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

// check fires onChange if the file differs from the last observation.
// fsnotify and the poller may both see the same change; only the first
// caller observes a difference.
func (w *Watcher) check() {
	cur := stat(w.path)

	w.mu.Lock()
	changed := cur != w.last
	w.last = cur
	w.mu.Unlock()

	if changed && w.onChange != nil {
		w.onChange()
	}
}
