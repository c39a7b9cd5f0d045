package auth

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// SecretWatcher reloads the admin secret when its file changes.
type SecretWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	manager *Manager
	done    chan struct{}
	changed chan string
}

// WatchSecretFile watches the file's directory so that editors that replace
// the file on save are still seen.
func (m *Manager) WatchSecretFile(path string) (*SecretWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolve secret path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	sw := &SecretWatcher{
		watcher: watcher,
		path:    abs,
		manager: m,
		done:    make(chan struct{}),
		changed: make(chan string, 1),
	}

	go sw.watch()

	return sw, nil
}

// Changed delivers the path after each successful reload. It is closed once
// the watcher stops.
func (sw *SecretWatcher) Changed() <-chan string {
	return sw.changed
}

func (sw *SecretWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}

func (sw *SecretWatcher) watch() {
	defer close(sw.changed)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if sw.shouldHandle(event) {
				debounce.Reset(200 * time.Millisecond)
			}

		case <-debounce.C:
			sw.reload()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("secret watcher error")

		case <-sw.done:
			debounce.Stop()
			return
		}
	}
}

func (sw *SecretWatcher) shouldHandle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return filepath.Clean(event.Name) == sw.path
}

func (sw *SecretWatcher) reload() {
	if err := sw.manager.LoadSecretFile(sw.path); err != nil {
		log.Error().Err(err).Str("path", sw.path).Msg("failed to reload admin secret")
		return
	}

	select {
	case sw.changed <- sw.path:
	default:
	}
}
