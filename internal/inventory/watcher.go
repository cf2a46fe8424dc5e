package inventory

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces editor save bursts into one rescan.
const debounceDelay = 300 * time.Millisecond

// Watcher keeps an inventory snapshot current by rescanning when files
// under the root change. Changes to untracked file types are ignored.
type Watcher struct {
	scanner *Scanner
	watcher *fsnotify.Watcher
	done    chan struct{}
	closed  sync.Once

	mu   sync.RWMutex
	snap *Snapshot

	// Updates receives each fresh snapshot after a change-triggered
	// rescan. The channel is never closed before Close.
	Updates chan *Snapshot
}

// NewWatcher performs an initial scan and starts watching every
// directory under root for changes.
func NewWatcher(root string) (*Watcher, error) {
	scanner := NewScanner(root)
	snap, err := scanner.Rescan()
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		scanner: scanner,
		watcher: fsw,
		done:    make(chan struct{}),
		snap:    snap,
		Updates: make(chan *Snapshot, 1),
	}

	if err := w.addDirs(root); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

// Snapshot returns the latest scan result.
func (w *Watcher) Snapshot() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() {
	w.closed.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

// addDirs registers root and every non-skipped subdirectory.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if skipDirs[name] || (strings.HasPrefix(name, ".") && path != root) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// New directories need watching before their contents settle.
			if event.Op&fsnotify.Create != 0 {
				_ = w.addDirs(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			snap, err := w.scanner.Rescan()
			if err != nil {
				continue
			}
			w.mu.Lock()
			w.snap = snap
			w.mu.Unlock()
			select {
			case w.Updates <- snap:
			default:
				// Drop when the consumer is behind; the next update
				// carries the full state anyway.
			}
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

// relevant filters events down to tracked files and directory changes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if skipDirs[base] || strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == "" {
		return true // likely a directory
	}
	return trackedExtensions[ext]
}
