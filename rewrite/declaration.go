package rewrite

import (
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	ComponentDecorator = "Component"
	NgModuleDecorator  = "NgModule"
)

// ErrNoDeclaration is returned when a decorated class has no configuration
// object literal.
var ErrNoDeclaration = errors.New("decorator has no configuration literal")

// Decorated is a class carrying one of the decorators asked for.
type Decorated struct {
	Decorator string
	ClassName string
	Literal   *Literal

	file      *File
	decorator *sitter.Node
	class     *sitter.Node
}

// Property is one entry of a declaration literal.
type Property struct {
	Key string

	node  *sitter.Node
	value *sitter.Node
}

// Literal is the configuration object passed to a decorator. Properties keep
// their source order.
type Literal struct {
	file       *File
	node       *sitter.Node
	properties []Property
}

// Decorated returns the classes decorated with any of the given decorator
// names, in source order.
func (f *File) Decorated(decoratorNames ...string) []*Decorated {
	wanted := make(map[string]bool, len(decoratorNames))
	for _, name := range decoratorNames {
		wanted[name] = true
	}

	var result []*Decorated
	walk(f.root, func(n *sitter.Node) bool {
		if n.Type() != "decorator" {
			return true
		}
		call := firstNamedChildOfType(n, "call_expression")
		if call == nil {
			return false
		}
		function := call.ChildByFieldName("function")
		if function == nil || function.Type() != "identifier" || !wanted[f.content(function)] {
			return false
		}
		class := decoratedClass(n)
		if class == nil {
			return false
		}

		decorated := &Decorated{
			Decorator: f.content(function),
			file:      f,
			decorator: n,
			class:     class,
		}
		if name := class.ChildByFieldName("name"); name != nil {
			decorated.ClassName = f.content(name)
		}
		if args := call.ChildByFieldName("arguments"); args != nil {
			if object := firstNamedChildOfType(args, "object"); object != nil {
				decorated.Literal = f.newLiteral(object)
			}
		}
		result = append(result, decorated)
		return false
	})
	return result
}

// decoratedClass finds the class a decorator applies to. Decorators placed
// before "export" belong to the export statement.
func decoratedClass(decorator *sitter.Node) *sitter.Node {
	parent := decorator.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		return parent
	case "export_statement":
		declaration := parent.ChildByFieldName("declaration")
		if declaration != nil && (declaration.Type() == "class_declaration" || declaration.Type() == "abstract_class_declaration") {
			return declaration
		}
	}
	return nil
}

func (f *File) newLiteral(object *sitter.Node) *Literal {
	literal := &Literal{file: f, node: object}
	for _, child := range namedChildren(object) {
		switch child.Type() {
		case "pair":
			key := child.ChildByFieldName("key")
			if key == nil {
				continue
			}
			keyText := f.content(key)
			if unquoted, ok := f.stringContent(key); ok {
				keyText = unquoted
			}
			literal.properties = append(literal.properties, Property{
				Key:   keyText,
				node:  child,
				value: child.ChildByFieldName("value"),
			})
		case "shorthand_property_identifier":
			literal.properties = append(literal.properties, Property{Key: f.content(child), node: child})
		}
	}
	return literal
}

// Keys returns property names in source order.
func (l *Literal) Keys() []string {
	keys := make([]string, len(l.properties))
	for i, property := range l.properties {
		keys[i] = property.Key
	}
	return keys
}

// Get returns the property named key.
func (l *Literal) Get(key string) (Property, bool) {
	for _, property := range l.properties {
		if property.Key == key {
			return property, true
		}
	}
	return Property{}, false
}

// StringValue returns the text of a string or template literal property
// without its delimiters.
func (l *Literal) StringValue(key string) (string, bool) {
	property, ok := l.Get(key)
	if !ok {
		return "", false
	}
	return l.file.stringContent(property.value)
}

// BoolValue returns the value of a boolean property.
func (l *Literal) BoolValue(key string) (value bool, ok bool) {
	property, found := l.Get(key)
	if !found || property.value == nil {
		return false, false
	}
	switch property.value.Type() {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// ArrayElements returns the source text of each element of an array property.
// It reports false when the property is missing or not an array literal.
func (l *Literal) ArrayElements(key string) ([]string, bool) {
	property, ok := l.Get(key)
	if !ok || property.value == nil || property.value.Type() != "array" {
		return nil, false
	}
	var elements []string
	for _, element := range namedChildren(property.value) {
		elements = append(elements, strings.TrimSpace(l.file.content(element)))
	}
	return elements, true
}

// InlineTemplate returns the inline template text, byte for byte.
func (l *Literal) InlineTemplate() (string, bool) {
	return l.StringValue("template")
}

// TemplateURL returns the templateUrl property.
func (l *Literal) TemplateURL() (string, bool) {
	return l.StringValue("templateUrl")
}

// Standalone reports the value of the standalone flag and whether it is set.
func (l *Literal) Standalone() (value bool, set bool) {
	return l.BoolValue("standalone")
}
