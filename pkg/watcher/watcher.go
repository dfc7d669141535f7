package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/12rambau/pytfa/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a batch of changes to the watched model file
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// ModelWatcher watches a model file for changes so a reduction can be re-run
// whenever the model is edited. The containing directory is watched rather
// than the file itself: most editors replace files on save, which would
// otherwise orphan the watch.
type ModelWatcher struct {
	watcher   *fsnotify.Watcher
	modelPath string
	events    chan ChangeEvent
}

// NewModelWatcher creates a watcher for the given model file
func NewModelWatcher(modelPath string) (*ModelWatcher, error) {
	abs, err := filepath.Abs(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &ModelWatcher{
		watcher:   watcher,
		modelPath: abs,
		events:    make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for model file changes
func (mw *ModelWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(mw.modelPath)
	if err := mw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	logging.Info("watching model file", "path", mw.modelPath)

	go mw.processEvents(ctx)

	return nil
}

// processEvents filters directory events down to the model file and batches them
func (mw *ModelWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		mw.events <- ChangeEvent{
			Paths:     pending,
			Timestamp: time.Now(),
		}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			mw.watcher.Close()
			close(mw.events)
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != mw.modelPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (mw *ModelWatcher) Events() <-chan ChangeEvent {
	return mw.events
}

// Stop stops the watcher
func (mw *ModelWatcher) Stop() error {
	return mw.watcher.Close()
}
