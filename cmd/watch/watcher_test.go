package watch

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWatchDirsSkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/app", "node_modules/lib", "www/build", "e2e/specs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755))
	}

	var added []string
	adder := func(path string) error {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		added = append(added, filepath.ToSlash(rel))
		return nil
	}

	require.NoError(t, addWatchDirsWithAdder(root, []string{"e2e"}, adder))

	assert.ElementsMatch(t, []string{".", "src", "src/app"}, added)
}

func TestAddWatchDirsWatchesParentOfFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "home.page.ts")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	var added []string
	adder := func(path string) error {
		added = append(added, path)
		return nil
	}

	require.NoError(t, addWatchDirsWithAdder(file, nil, adder))
	assert.Equal(t, []string{root}, added)
}

func TestAddWatchDirsIgnoresMissingDirectoriesFromAdder(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "missing-dir")
	require.NoError(t, os.MkdirAll(target, 0o755))

	adder := func(path string) error {
		if path == target {
			return fs.ErrNotExist
		}
		return nil
	}

	assert.NoError(t, addWatchDirsWithAdder(root, nil, adder))
}

func TestAddWatchDirsSkipsBrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on Windows")
	}

	root := t.TempDir()
	linkPath := filepath.Join(root, "dangling")
	require.NoError(t, os.Symlink("missing/target", linkPath))

	var added []string
	adder := func(path string) error {
		added = append(added, path)
		return nil
	}

	require.NoError(t, addWatchDirsWithAdder(root, nil, adder))
	assert.NotContains(t, added, linkPath)
}

func TestIsRelevantChange(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "typescript write", event: fsnotify.Event{Name: "a.component.ts", Op: fsnotify.Write}, want: true},
		{name: "template create", event: fsnotify.Event{Name: "a.component.html", Op: fsnotify.Create}, want: true},
		{name: "template removed", event: fsnotify.Event{Name: "a.component.html", Op: fsnotify.Remove}, want: true},
		{name: "stylesheet", event: fsnotify.Event{Name: "a.component.scss", Op: fsnotify.Write}, want: false},
		{name: "declaration file", event: fsnotify.Event{Name: "types.d.ts", Op: fsnotify.Write}, want: false},
		{name: "chmod only", event: fsnotify.Event{Name: "a.component.ts", Op: fsnotify.Chmod}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantChange(tt.event))
		})
	}
}

func TestWatchAndMigrateRunsAfterChange(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchAndMigrate(ctx, root, nil, io.Discard, func() { runs.Add(1) })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "home.page.ts"), []byte("export class HomePage {}\n"), 0o644))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
