package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/ngstandalone/project"
)

const debounceInterval = 300 * time.Millisecond

// watchAndMigrate calls onChange once the project below root has been quiet
// for debounceInterval after a relevant change. A migration's own writes
// trigger one more run, which finds nothing left to change.
func watchAndMigrate(ctx context.Context, root string, exclude []string, errOut io.Writer, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root, exclude); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name, exclude)
			}

			if !isRelevantChange(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watcher error: %v\n", err)
		}
	}
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return project.IsRelevantFile(event.Name)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string, exclude []string) error {
	return addWatchDirsWithAdder(root, exclude, watcher.Add)
}

// addWatchDirsWithAdder registers every directory below root that a
// migration would load, or the parent directory when root is a file.
// Directories that vanish while walking are ignored.
func addWatchDirsWithAdder(root string, exclude []string, add func(string) error) error {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && project.IsSkippedDir(d.Name(), exclude) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string, exclude []string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() && !project.IsSkippedDir(info.Name(), exclude) {
		_ = addWatchDirs(watcher, path, exclude)
	}
}
