package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (in-memory project, filesystem, etc.)
type ContentReader func(filePath string) ([]byte, error)

// ErrFileNotFound is returned when a path is not part of the project and
// cannot be read from its storage.
var ErrFileNotFound = errors.New("file not found")

// SourceFile is an editable text file of the project.
type SourceFile struct {
	path string

	mu       sync.Mutex
	text     []byte
	original []byte
}

func newSourceFile(path string, text []byte) *SourceFile {
	return &SourceFile{
		path:     path,
		text:     text,
		original: text,
	}
}

func (f *SourceFile) Path() string {
	return f.path
}

// Text returns the current in-memory content.
func (f *SourceFile) Text() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// SetText replaces the in-memory content in one step.
func (f *SourceFile) SetText(text []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = append([]byte(nil), text...)
}

// Original returns the content as it was last loaded or saved.
func (f *SourceFile) Original() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.original
}

// Dirty reports whether the file changed since it was loaded or saved.
func (f *SourceFile) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.text) != string(f.original)
}

func (f *SourceFile) markSaved() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.original = f.text
}

// storage persists saved files. A nil storage keeps the project in memory.
type storage interface {
	write(path string, data []byte) error
	read(path string) ([]byte, error)
}

// Project is a set of loadable, editable source files.
type Project struct {
	root    string
	files   map[string]*SourceFile
	storage storage
}

// NewInMemory creates a project whose files only live in memory.
func NewInMemory(files map[string]string) *Project {
	p := &Project{files: make(map[string]*SourceFile, len(files))}
	for path, text := range files {
		p.AddFile(path, text)
	}
	return p
}

// AddFile adds or replaces a file.
func (p *Project) AddFile(path, text string) *SourceFile {
	path = filepath.Clean(path)
	file := newSourceFile(path, []byte(text))
	p.files[path] = file
	return file
}

// Root returns the directory the project was loaded from.
func (p *Project) Root() string {
	return p.root
}

// File returns the project file at path.
func (p *Project) File(path string) (*SourceFile, bool) {
	file, ok := p.files[filepath.Clean(path)]
	return file, ok
}

// Files returns all project files sorted by path.
func (p *Project) Files() []*SourceFile {
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	result := make([]*SourceFile, len(paths))
	for i, path := range paths {
		result[i] = p.files[path]
	}
	return result
}

// FilesWithExtension returns project files with the given extension sorted by path.
func (p *Project) FilesWithExtension(ext string) []*SourceFile {
	var result []*SourceFile
	for _, file := range p.Files() {
		if filepath.Ext(file.Path()) == ext {
			result = append(result, file)
		}
	}
	return result
}

// Has reports whether path is part of the project.
func (p *Project) Has(path string) bool {
	_, ok := p.files[filepath.Clean(path)]
	return ok
}

// Read returns the current content of path, falling back to the project's
// storage for files that were not loaded.
func (p *Project) Read(path string) ([]byte, error) {
	if file, ok := p.File(path); ok {
		return file.Text(), nil
	}
	if p.storage == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return p.storage.read(path)
}

// ContentReader returns Read as a ContentReader.
func (p *Project) ContentReader() ContentReader {
	return p.Read
}

// Save persists every dirty file and returns the saved paths.
func (p *Project) Save() ([]string, error) {
	var saved []string
	for _, file := range p.Files() {
		if !file.Dirty() {
			continue
		}
		if p.storage != nil {
			if err := p.storage.write(file.Path(), file.Text()); err != nil {
				return saved, fmt.Errorf("failed to save %s: %w", file.Path(), err)
			}
		}
		file.markSaved()
		saved = append(saved, file.Path())
	}
	return saved, nil
}

// LoadOptions controls which files Load picks up.
type LoadOptions struct {
	// ExcludeDirs are directory names skipped in addition to the defaults.
	ExcludeDirs []string
}

var skippedDirs = map[string]bool{
	".git":         true,
	".angular":     true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"dist":         true,
	"www":          true,
	"platforms":    true,
	"android":      true,
	"ios":          true,
	"coverage":     true,
}

var loadedExtensions = map[string]bool{
	".ts":   true,
	".html": true,
}

// IsRelevantFile reports whether Load would pick up the file.
func IsRelevantFile(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	return loadedExtensions[filepath.Ext(path)]
}

// IsSkippedDir reports whether a directory name is never walked.
func IsSkippedDir(name string, extra []string) bool {
	if skippedDirs[name] {
		return true
	}
	for _, dir := range extra {
		if dir == name {
			return true
		}
	}
	return false
}

// Load reads the TypeScript and HTML files below root into a project backed
// by the filesystem.
func Load(root string, opts LoadOptions) (*Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read project root: %w", err)
	}

	p := &Project{
		root:    absRoot,
		files:   make(map[string]*SourceFile),
		storage: diskStorage{},
	}

	if !info.IsDir() {
		p.root = filepath.Dir(absRoot)
		content, err := os.ReadFile(absRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		p.AddFile(absRoot, string(content))
		return p, nil
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && IsSkippedDir(d.Name(), opts.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsRelevantFile(path) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		p.AddFile(path, string(content))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	return p, nil
}

type diskStorage struct{}

func (diskStorage) read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return content, err
}

func (diskStorage) write(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
