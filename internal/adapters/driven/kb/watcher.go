// Package kb watches the knowledge-base tree for document changes.
package kb

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/reliefkit/kbcat/internal/logger"
)

// Event signals a filesystem change under the knowledge-base root.
type Event struct {
	// Path is the affected path, absolute.
	Path string

	// Op describes the change (create, write, remove, rename).
	Op string
}

// Watcher emits change events for a knowledge-base directory tree.
// fsnotify watches are not recursive, so every subdirectory is watched
// individually and newly created directories are added on the fly.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher rooted at the knowledge base.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{root: root, watcher: fsw}, nil
}

// Start registers watches for the whole tree and begins emitting
// events until ctx is cancelled. Hidden directories are ignored.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	if err := w.addTree(w.root); err != nil {
		return nil, err
	}

	events := make(chan Event)
	go w.run(ctx, events)
	return events, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// run pumps fsnotify events into the output channel.
func (w *Watcher) run(ctx context.Context, out chan<- Event) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if hidden(ev.Name) {
				continue
			}
			// New directories must be watched before anything is
			// written into them.
			if ev.Op.Has(fsnotify.Create) {
				if err := w.addTree(ev.Name); err != nil {
					logger.Debug("watch %s: %v", ev.Name, err)
				}
			}
			select {
			case out <- Event{Path: ev.Name, Op: ev.Op.String()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// addTree watches path and, if it is a directory, every visible
// directory beneath it. Non-directories are ignored without error.
func (w *Watcher) addTree(path string) error {
	return filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between event and walk.
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if p != w.root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// hidden reports whether any path segment is a dotfile.
func hidden(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
