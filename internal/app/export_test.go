package app

import "time"

// SetRunID replaces the run id generator.
func (a *App) SetRunID(fn func() string) {
	a.newRunID = fn
}

// SetWatchWindow overrides the debounce window of Watch.
func (a *App) SetWatchWindow(d time.Duration) {
	a.watchWindow = d
}

// Watchable exposes the watch event filter.
var Watchable = watchable
