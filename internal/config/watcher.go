package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tonekit/tonekit/internal/utils"
)

// Watcher reloads settings.json when it changes on disk and hands the new
// settings to a callback.
type Watcher struct {
	path     string
	onChange func(*Settings)

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// NewWatcher watches the default settings path.
func NewWatcher(onChange func(*Settings)) *Watcher {
	return &Watcher{path: GetSettingsPath(), onChange: onChange}
}

// Start begins watching. The settings directory must exist.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: editors replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return err
	}
	w.watcher = watcher

	w.wg.Add(1)
	go w.watchLoop(ctx)

	utils.Debug("config: watching %s for changes", w.path)
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
	w.wg.Wait()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()
	name := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			// Only react to Write and Create events (ignore Chmod, Remove, etc.)
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				utils.Debug("config: change detected: %s", event.Name)
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			utils.Debug("config: watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) reload() {
	settings, err := loadSettingsFrom(w.path)
	if err != nil {
		// Half-written file; the next write event retries.
		utils.Debug("config: reload failed: %v", err)
		return
	}
	if err := settings.Validate(); err != nil {
		utils.Debug("config: invalid settings after reload: %v", err)
		return
	}
	w.onChange(settings)
}
