package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Inplace mirrors every rebuilt artifact into the source tree.
	Inplace bool
}

// Watch compiles the grammars, then recompiles them whenever a grammar source
// changes until ctx is cancelled. Compile failures are logged and watching goes on.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	p, err := a.load()
	if err != nil {
		return err
	}

	dirs := p.Grammars.SourceDirs()
	roots := make([]string, len(dirs))
	for i, dir := range dirs {
		roots[i] = p.Layout.Resolve(dir)
	}

	if err := a.buildParsers(ctx, p, opts.Inplace); err != nil {
		a.logger.Error(err)
	}

	if err := a.watcher.Start(ctx, roots...); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	// The debouncer fires from its own goroutine; rebuilds must not overlap.
	var mu sync.Mutex
	d := watcher.NewDebouncer(a.watchWindow, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		a.logger.Info(fmt.Sprintf("%d grammar source(s) changed, rebuilding", len(paths)))
		if err := a.buildParsers(ctx, p, opts.Inplace); err != nil {
			a.logger.Error(err)
		}
	})

	a.logger.Info("watching " + strings.Join(dirs, ", "))
	for event := range a.watcher.Events() {
		if watchable(event.Path, p.Grammars.FingerprintExt) {
			d.Add(event.Path)
		}
	}
	d.Flush()
	return nil
}

// watchable reports whether a change to path affects the grammars. Artifacts
// mirrored into the source tree never count, or every rebuild would trigger the next.
func watchable(path, ext string) bool {
	if filepath.Ext(path) == domain.GrammarArtifactExt {
		return false
	}
	return ext == "" || strings.HasSuffix(path, ext)
}
