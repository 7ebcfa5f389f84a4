// Package watch re-runs an export when the watched source tree changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"repo2ai/internal/export"
	"repo2ai/internal/utils"
)

// DefaultDebounce is the quiet period required before a change triggers a
// new export.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a watch session.
type Options struct {
	Root     string
	Rules    export.RuleSet
	Debounce time.Duration
	Warn     func(message string)
}

// Run watches options.Root and invokes onChange after filesystem activity
// settles. Excluded and hidden directories are not watched. Run blocks until
// the context is cancelled; onChange failures are reported through Warn and
// do not stop the session.
func Run(ctx context.Context, options Options, onChange func() error) error {
	if options.Root == "" {
		return fmt.Errorf("watch: root path is empty")
	}
	if onChange == nil {
		return fmt.Errorf("watch: change callback is nil")
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Warn == nil {
		options.Warn = func(string) {}
	}

	watcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return fmt.Errorf("create watcher: %w", watcherError)
	}
	defer watcher.Close()

	if addError := addDirectoryTree(watcher, options.Root, options.Root, options.Rules, options.Warn); addError != nil {
		return addError
	}

	debounceTimer := time.NewTimer(options.Debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	timerArmed := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, open := <-watcher.Events:
			if !open {
				return nil
			}
			relativePath := utils.RelativePathOrSelf(event.Name, options.Root)
			if options.Rules.ExcludesEntry(relativePath, isDirectoryPath(event.Name)) {
				continue
			}
			if event.Op.Has(fsnotify.Create) && isDirectoryPath(event.Name) {
				if addError := addDirectoryTree(watcher, event.Name, options.Root, options.Rules, options.Warn); addError != nil {
					options.Warn(addError.Error())
				}
			}
			if timerArmed && !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(options.Debounce)
			timerArmed = true
		case watchError, open := <-watcher.Errors:
			if !open {
				return nil
			}
			options.Warn(fmt.Sprintf("watch error: %v", watchError))
		case <-debounceTimer.C:
			timerArmed = false
			if changeError := onChange(); changeError != nil {
				options.Warn(fmt.Sprintf("export after change failed: %v", changeError))
			}
		}
	}
}

// addDirectoryTree registers start and every non-excluded descendant
// directory with the watcher. Exclusion rules are evaluated against paths
// relative to base, the watched source root.
func addDirectoryTree(watcher *fsnotify.Watcher, start string, base string, rules export.RuleSet, warn func(string)) error {
	return filepath.WalkDir(start, func(walkedPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			warn(fmt.Sprintf("skipping %s: %v", walkedPath, walkError))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		relativePath := utils.RelativePathOrSelf(walkedPath, base)
		if relativePath != "." && rules.ExcludesEntry(relativePath, true) {
			return filepath.SkipDir
		}
		if addError := watcher.Add(walkedPath); addError != nil {
			warn(fmt.Sprintf("unable to watch %s: %v", walkedPath, addError))
		}
		return nil
	})
}

func isDirectoryPath(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}
