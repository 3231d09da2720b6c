package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for the binary tree to
// settle before re-running.
const DefaultDebounce = 2 * time.Second

// Watcher re-runs the pipeline whenever the binary root changes. Runs are
// serialised on the watcher goroutine.
type Watcher struct {
	run          func(ctx context.Context) (*Stats, error)
	rootDir      string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	logger       *logrus.Logger
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewWatcher watches rootDir recursively and re-runs p on changes.
func NewWatcher(p *Pipeline, rootDir string, debounce time.Duration) (*Watcher, error) {
	return newWatcher(p.Run, rootDir, debounce, p.logger)
}

func newWatcher(run func(ctx context.Context) (*Stats, error), rootDir string, debounce time.Duration, logger *logrus.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		run:          run,
		rootDir:      rootDir,
		watcher:      fw,
		debounceTime: debounce,
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := w.addRecursive(rootDir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching in the background.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for an in-flight run to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	rerunCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	stopTimer := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return

		case <-w.stopCh:
			stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			changed[event.Name] = true

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.WithError(err).WithField("dir", event.Name).Warn("failed to watch new directory")
					}
				}
			}

			stopTimer()
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case rerunCh <- struct{}{}:
				default:
				}
			})

		case <-rerunCh:
			w.rerun(ctx, len(changed))
			changed = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) rerun(ctx context.Context, changes int) {
	if changes == 0 {
		return
	}
	w.logger.WithField("changes", changes).Info("binary tree changed, re-running")

	stats, err := w.run(ctx)
	if err != nil {
		// A failed run keeps the previous descriptor; wait for the next change.
		w.logger.WithError(err).Error("re-run failed")
		return
	}
	w.logger.WithFields(logrus.Fields{
		"associations": stats.Associations,
		"generated":    stats.Generated,
		"skipped":      stats.Skipped,
	}).Info("re-run complete")
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}
