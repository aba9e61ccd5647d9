package generator

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-press/internal/logging"
)

// WatchOptions tunes the rebuild-on-change loop.
type WatchOptions struct {
	// Debounce collapses bursts of filesystem events into one rebuild.
	// Defaults to 200ms.
	Debounce time.Duration
	// Build narrows the scope of each rebuild run.
	Build BuildOptions
	// OnBuild receives every rebuild outcome, including failures.
	OnBuild func(*BuildResult, error)
}

// Watch runs an initial build, then watches the source directory and
// re-runs the whole batch on change. The pipeline stays batch-shaped:
// watching never mutates documents incrementally.
func (s *service) Watch(ctx context.Context, opts WatchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	logger := logging.WatcherLogger(s.deps.Loggers)

	runBuild := func() {
		result, err := s.Build(ctx, opts.Build)
		if err != nil && ctx.Err() == nil {
			logger.Error("rebuild failed", "error", err.Error())
		}
		if opts.OnBuild != nil {
			opts.OnBuild(result, err)
		}
	}

	runBuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, s.cfg.SourceDir); err != nil {
		return err
	}

	logger.Info("watch started", "root", s.cfg.SourceDir, "debounce", debounce.String())

	var rebuildTimer *time.Timer
	var rebuildCh <-chan time.Time

	scheduleRebuild := func() {
		if rebuildTimer == nil {
			rebuildTimer = time.NewTimer(debounce)
			rebuildCh = rebuildTimer.C
		} else {
			rebuildTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			logger.Info("watch stopped")
			return nil

		case <-rebuildCh:
			runBuild()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				continue
			}

			// New directories join the watch list before the rebuild fires.
			if event.Op&fsnotify.Create != 0 {
				if err := addDirsRecursive(watcher, event.Name); err == nil {
					logger.Debug("watching new path", "path", event.Name)
				}
			}

			logger.Debug("source changed", "path", event.Name, "op", event.Op.String())
			scheduleRebuild()

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", watchErr.Error())
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
// Non-directory paths are ignored.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
