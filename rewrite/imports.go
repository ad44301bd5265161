package rewrite

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// FrameworkModule is the import new statements are placed after.
const FrameworkModule = "@angular/core"

// ImportSpecifier is one named import: import { Name as Alias }.
type ImportSpecifier struct {
	Name  string
	Alias string

	node *sitter.Node
}

// LocalName returns the name the symbol is bound to in the file.
func (s ImportSpecifier) LocalName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// ImportStatement is a top-level import declaration.
type ImportStatement struct {
	ModulePath string
	Specifiers []ImportSpecifier
	TypeOnly   bool
	// HasOtherBindings is set for default or namespace imports next to, or
	// instead of, named imports.
	HasOtherBindings bool

	node   *sitter.Node
	source *sitter.Node
	named  *sitter.Node
}

// Imports returns the file's top-level import statements in source order.
func (f *File) Imports() []*ImportStatement {
	var statements []*ImportStatement
	for _, child := range namedChildren(f.root) {
		if child.Type() != "import_statement" {
			continue
		}
		if statement := f.parseImport(child); statement != nil {
			statements = append(statements, statement)
		}
	}
	return statements
}

func (f *File) parseImport(n *sitter.Node) *ImportStatement {
	source := n.ChildByFieldName("source")
	if source == nil {
		return nil
	}
	modulePath, ok := f.stringContent(source)
	if !ok {
		return nil
	}

	statement := &ImportStatement{
		ModulePath: modulePath,
		node:       n,
		source:     source,
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "type" || (!child.IsNamed() && f.content(child) == "type") {
			statement.TypeOnly = true
		}
		if child.Type() != "import_clause" {
			continue
		}
		for _, clause := range namedChildren(child) {
			switch clause.Type() {
			case "named_imports":
				statement.named = clause
				statement.Specifiers = f.parseSpecifiers(clause)
			default:
				statement.HasOtherBindings = true
			}
		}
	}

	return statement
}

func (f *File) parseSpecifiers(named *sitter.Node) []ImportSpecifier {
	var specifiers []ImportSpecifier
	for _, child := range namedChildren(named) {
		if child.Type() != "import_specifier" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil {
			continue
		}
		specifier := ImportSpecifier{Name: f.content(name), node: child}
		if alias := child.ChildByFieldName("alias"); alias != nil {
			specifier.Alias = f.content(alias)
		}
		specifiers = append(specifiers, specifier)
	}
	return specifiers
}

// Imports reports whether the statement binds symbol under its own name.
func (s *ImportStatement) Imports(symbol string) bool {
	for _, specifier := range s.Specifiers {
		if specifier.Name == symbol && specifier.LocalName() == symbol {
			return true
		}
	}
	return false
}

// ImportSet indexes a file's import statements.
type ImportSet struct {
	statements []*ImportStatement
}

// NewImportSet indexes the imports of f.
func NewImportSet(f *File) *ImportSet {
	return &ImportSet{statements: f.Imports()}
}

// Statements returns all statements in source order.
func (s *ImportSet) Statements() []*ImportStatement {
	return s.statements
}

// Has reports whether symbol is imported from modulePath.
func (s *ImportSet) Has(modulePath, symbol string) bool {
	for _, statement := range s.statements {
		if statement.ModulePath == modulePath && statement.Imports(symbol) {
			return true
		}
	}
	return false
}

// Statement returns the first value import of modulePath that has a named
// import list.
func (s *ImportSet) Statement(modulePath string) (*ImportStatement, bool) {
	for _, statement := range s.statements {
		if statement.ModulePath == modulePath && !statement.TypeOnly && statement.named != nil {
			return statement, true
		}
	}
	return nil, false
}

// ModuleOf returns the module a local symbol is imported from.
func (s *ImportSet) ModuleOf(localName string) (string, bool) {
	for _, statement := range s.statements {
		for _, specifier := range statement.Specifiers {
			if specifier.LocalName() == localName {
				return statement.ModulePath, true
			}
		}
	}
	return "", false
}
