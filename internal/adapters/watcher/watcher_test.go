package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func collect(w *watcher.Watcher) <-chan ports.WatchEvent {
	ch := make(chan ports.WatchEvent, 64)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return ch
}

func waitFor(t *testing.T, ch <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "event stream closed before %s was seen", path)
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	sub := filepath.Join(root, "grammar")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	w := watcher.NewWatcher(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() { _ = w.Stop() })
	events := collect(w)

	target := filepath.Join(sub, "single.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0o600))

	ev := waitFor(t, events, target)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w := watcher.NewWatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() { _ = w.Stop() })
	events := collect(w)

	dir := filepath.Join(root, "new")
	require.NoError(t, os.Mkdir(dir, 0o750))
	waitFor(t, events, dir)

	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(dir, "file.py")
	require.NoError(t, os.WriteFile(target, []byte("y"), 0o600))
	waitFor(t, events, target)
}

func TestWatcher_StreamEndsOnCancel(t *testing.T) {
	w := watcher.NewWatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, w.Start(ctx, t.TempDir()))
	t.Cleanup(func() { _ = w.Stop() })
	events := collect(w)

	cancel()

	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after cancel")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := watcher.NewWatcher(nil)

	err := w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))

	require.ErrorIs(t, err, domain.ErrIO)
	require.NoError(t, w.Stop())
}

func TestWatcher_StartTwice(t *testing.T) {
	w := watcher.NewWatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, w.Start(ctx, t.TempDir()))
	t.Cleanup(func() { _ = w.Stop() })

	require.Error(t, w.Start(ctx, t.TempDir()))
}

func TestWatcher_StopUnstarted(t *testing.T) {
	w := watcher.NewWatcher(nil)
	require.NoError(t, w.Stop())
}
