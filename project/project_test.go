package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemory_FilesSortedByPath(t *testing.T) {
	p := NewInMemory(map[string]string{
		"src/b.ts":   "b",
		"src/a.ts":   "a",
		"src/a.html": "<p></p>",
	})

	var paths []string
	for _, file := range p.Files() {
		paths = append(paths, file.Path())
	}

	assert.Equal(t, []string{"src/a.html", "src/a.ts", "src/b.ts"}, paths)
	assert.Len(t, p.FilesWithExtension(".ts"), 2)
}

func TestSourceFile_DirtyTracksChanges(t *testing.T) {
	p := NewInMemory(map[string]string{"a.ts": "before"})
	file, ok := p.File("./a.ts")
	require.True(t, ok)

	assert.False(t, file.Dirty())

	file.SetText([]byte("after"))
	assert.True(t, file.Dirty())
	assert.Equal(t, "before", string(file.Original()))

	saved, err := p.Save()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, saved)
	assert.False(t, file.Dirty())
	assert.Equal(t, "after", string(file.Original()))
}

func TestRead_InMemoryMissingFile(t *testing.T) {
	p := NewInMemory(nil)

	_, err := p.Read("missing.html")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLoad_SkipsIgnoredDirectoriesAndExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.component.ts"), "export class App {}")
	writeFile(t, filepath.Join(root, "src", "app.component.html"), "<ion-app></ion-app>")
	writeFile(t, filepath.Join(root, "src", "app.component.scss"), "")
	writeFile(t, filepath.Join(root, "src", "types.d.ts"), "")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "index.ts"), "")
	writeFile(t, filepath.Join(root, "custom", "skip.ts"), "")

	p, err := Load(root, LoadOptions{ExcludeDirs: []string{"custom"}})
	require.NoError(t, err)

	resolvedRoot, err := filepath.Abs(root)
	require.NoError(t, err)

	var paths []string
	for _, file := range p.Files() {
		rel, err := filepath.Rel(resolvedRoot, file.Path())
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"src/app.component.html", "src/app.component.ts"}, paths)
}

func TestSave_WritesDirtyFilesToDisk(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.component.ts")
	writeFile(t, path, "before")

	p, err := Load(root, LoadOptions{})
	require.NoError(t, err)

	file, ok := p.File(path)
	require.True(t, ok)
	file.SetText([]byte("after"))

	saved, err := p.Save()
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after", string(content))
}

func TestRead_DiskFallbackForUnloadedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "a")

	p, err := Load(filepath.Join(root, "a.ts"), LoadOptions{})
	require.NoError(t, err)

	outside := filepath.Join(root, "extra.txt")
	writeFile(t, outside, "extra")

	content, err := p.Read(outside)
	require.NoError(t, err)
	assert.Equal(t, "extra", string(content))

	_, err = p.Read(filepath.Join(root, "missing.html"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
