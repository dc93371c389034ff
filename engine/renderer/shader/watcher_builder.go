package shader

import "time"

// WatcherBuilderOption is a functional option for configuring a Watcher via NewWatcher.
type WatcherBuilderOption func(*watcher)

// WithDebounce sets the quiet period after the last file event before a change is reported.
//
// Parameters:
//   - d: the debounce duration; non-positive values keep the default
//
// Returns:
//   - WatcherBuilderOption: a function that applies the debounce option
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}
