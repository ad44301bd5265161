package depgraph

import (
	"path/filepath"
	"strings"
)

// ResolveImportPath resolves a relative TypeScript import to a project file.
// Bare module specifiers are never resolved.
func ResolveImportPath(sourceFile, importPath string, exists func(string) bool) (string, bool) {
	if !isRelativeImport(importPath) {
		return "", false
	}

	// Resolve the import path relative to the source file
	basePath := filepath.Clean(filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(importPath)))

	var candidates []string

	// If import already has an extension, try the exact path first
	if filepath.Ext(importPath) == ".ts" {
		candidates = append(candidates, basePath)
	}

	candidates = append(candidates,
		basePath+".ts",
		// ./components -> ./components/index.ts
		filepath.Join(basePath, "index.ts"),
	)

	for _, candidate := range candidates {
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isRelativeImport(importPath string) bool {
	return strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../")
}
