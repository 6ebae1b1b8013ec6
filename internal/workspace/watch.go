package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bennypowers.dev/gqlint/internal/collections"
	"bennypowers.dev/gqlint/internal/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with the documents under root that changed, once changes
// settle for debounce. Removed and renamed documents are included; callers check
// existence. Watch blocks until ctx is done.
func Watch(ctx context.Context, root string, patterns []string, debounce time.Duration, onChange func(changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchRecursive(watcher, root); err != nil {
		return err
	}
	log.Info("Watching %s for changes", root)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = collections.NewSet[string]()
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timerC:
			timerC = nil
			changed := collections.Sorted(pending)
			pending = collections.NewSet[string]()
			if len(changed) > 0 {
				onChange(changed)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op&fsnotify.Create != 0 {
				if fi, statErr := os.Stat(evt.Name); statErr == nil && fi.IsDir() {
					if !skipDir(filepath.Base(evt.Name)) {
						if addErr := addWatchRecursive(watcher, evt.Name); addErr != nil {
							log.Warn("Failed to watch %s: %v", evt.Name, addErr)
						}
					}
					continue
				}
			}
			if shouldRelint(evt, root, patterns) {
				pending.Add(evt.Name)
				resetTimer()
			}
		}
	}
}

func shouldRelint(evt fsnotify.Event, root string, patterns []string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasPrefix(filepath.Base(evt.Name), ".") {
		return false
	}
	rel, err := filepath.Rel(root, evt.Name)
	if err != nil {
		return false
	}
	return Matches(patterns, rel)
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
