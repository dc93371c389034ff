package shader

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period after the last file event before a change is reported.
// Editors usually save with several write/rename events in a row.
const DefaultWatchDebounce = 150 * time.Millisecond

// watcher is the implementation of the Watcher interface.
type watcher struct {
	dir      string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Watcher reports changes to the WGSL files of a shader directory. Bursts of file events are
// coalesced into a single notification, and notifications that are not consumed are merged
// with the next one so a slow consumer never blocks the watcher.
type Watcher interface {
	// Dir returns the watched directory.
	Dir() string

	// Changes returns a channel that receives a value whenever a .wgsl file in the directory
	// is created, written or renamed.
	//
	// Returns:
	//   - <-chan struct{}: the change notification channel
	Changes() <-chan struct{}

	// Close stops watching and releases the underlying OS watcher.
	//
	// Returns:
	//   - error: an error from closing the OS watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching a shader directory.
//
// Parameters:
//   - dir: the directory holding the WGSL sources
//   - options: functional options
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the OS watcher cannot be created or the directory cannot be watched
func NewWatcher(dir string, options ...WatcherBuilderOption) (Watcher, error) {
	w := &watcher{
		dir:      dir,
		debounce: DefaultWatchDebounce,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("shader watcher: watch %s: %w", dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) Dir() string {
	return w.dir
}

func (w *watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isShaderEvent(event) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[Shader] watch error on %s: %v", w.dir, err)
		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

// isShaderEvent reports whether an fsnotify event touches the contents of a .wgsl file.
func isShaderEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".wgsl") {
		return false
	}
	return event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
