package rewrite

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// File is a parsed TypeScript source file.
type File struct {
	Path string

	sourceCode []byte
	tree       *sitter.Tree
	root       *sitter.Node
}

// Parse parses TypeScript source code. Callers must Close the returned file.
func Parse(path string, sourceCode []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript code: %w", err)
	}

	return &File{
		Path:       path,
		sourceCode: sourceCode,
		tree:       tree,
		root:       tree.RootNode(),
	}, nil
}

// Close releases the syntax tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Source returns the parsed source code.
func (f *File) Source() []byte {
	return f.sourceCode
}

func (f *File) content(n *sitter.Node) string {
	return n.Content(f.sourceCode)
}

// lineIndent returns the leading whitespace of the line containing offset.
func (f *File) lineIndent(offset uint32) string {
	start := int(offset)
	for start > 0 && f.sourceCode[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(f.sourceCode) && (f.sourceCode[end] == ' ' || f.sourceCode[end] == '\t') {
		end++
	}
	return string(f.sourceCode[start:end])
}

// lineStart returns the offset of the first byte of the line containing offset.
func (f *File) lineStart(offset uint32) uint32 {
	for offset > 0 && f.sourceCode[offset-1] != '\n' {
		offset--
	}
	return offset
}

// spansLines reports whether the bytes between two offsets contain a newline.
func (f *File) spansLines(from, to uint32) bool {
	return strings.Contains(string(f.sourceCode[from:to]), "\n")
}

// namedChildren returns the named children of n, skipping comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// firstNamedChildOfType returns the first named child of n with the given type.
func firstNamedChildOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for _, child := range namedChildren(n) {
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// nextToken returns the sibling that follows n, including anonymous tokens.
func nextToken(n *sitter.Node) *sitter.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	found := false
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child == nil {
			continue
		}
		if found {
			if child.Type() == "comment" {
				continue
			}
			return child
		}
		if child.StartByte() == n.StartByte() && child.EndByte() == n.EndByte() && child.Type() == n.Type() {
			found = true
		}
	}
	return nil
}

// walk visits n and its descendants depth-first. Returning false from visit
// skips the node's children.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// stringContent strips the delimiters of a string or template string literal.
func (f *File) stringContent(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string", "template_string":
		text := f.content(n)
		if len(text) < 2 {
			return "", false
		}
		return text[1 : len(text)-1], true
	default:
		return "", false
	}
}
