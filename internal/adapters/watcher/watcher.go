package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are directories that are never watched.
var skipDirectories = map[string]bool{
	".git":        true,
	".jj":         true,
	".hg":         true,
	"__pycache__": true,
}

const eventChannelBuffer = 100

// Watcher implements recursive file system watching using fsnotify.
// The underlying watcher is created by Start; a Watcher is started at most once.
type Watcher struct {
	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
	logger    ports.Logger
}

// NewWatcher creates a new file system watcher. Watch errors are reported to log.
func NewWatcher(log ports.Logger) *Watcher {
	return &Watcher{
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		logger: log,
	}
}

// Start begins watching the given directories recursively.
// The event stream ends when ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context, roots ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher != nil {
		return zerr.New("watcher already started")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return domain.WrapIO(err, "failed to create file watcher", strings.Join(roots, ","))
	}

	if err := addRoots(fsWatcher, roots); err != nil {
		_ = fsWatcher.Close()
		return err
	}

	w.fsWatcher = fsWatcher
	go w.processEvents(ctx, fsWatcher)

	return nil
}

func addRoots(fsWatcher *fsnotify.Watcher, roots []string) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return domain.WrapIO(err, "failed to watch directory", root)
		}
		if !info.IsDir() {
			return domain.WrapIO(fs.ErrInvalid, "watch root is not a directory", root)
		}

		for dir := range watchRecursively(root) {
			if err := fsWatcher.Add(dir); err != nil {
				return domain.WrapIO(err, "failed to watch directory", dir)
			}
		}
	}
	return nil
}

// Stop stops the watcher and releases all resources. Stopping an unstarted watcher is a no-op.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all directories.
func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			// New directories are watched as they appear.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDirectories[info.Name()] {
					for dir := range watchRecursively(event.Name) {
						_ = fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher: " + err.Error())
			}
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
