package template

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/LegacyCodeHQ/ngstandalone/icons"
)

const iconTag = "ion-icon"

// iconAttributes are the ion-icon attributes that name an icon.
var iconAttributes = map[string]bool{
	"name": true,
	"ios":  true,
	"md":   true,
}

// References are the tag names and icon names a template uses, each in
// document order without duplicates.
type References struct {
	Tags  []string
	Icons []string
}

// Empty reports whether the template references nothing.
func (r References) Empty() bool {
	return len(r.Tags) == 0 && len(r.Icons) == 0
}

// Scan parses template markup and collects the elements and icons it uses.
func Scan(text string) (References, error) {
	sourceCode := []byte(text)

	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return References{}, fmt.Errorf("failed to parse template: %w", err)
	}
	defer tree.Close()

	s := newScanner(sourceCode)
	s.walk(tree.RootNode())
	return s.refs, nil
}

type scanner struct {
	sourceCode []byte
	refs       References
	seenTags   map[string]bool
	seenIcons  map[string]bool
}

func newScanner(sourceCode []byte) *scanner {
	return &scanner{
		sourceCode: sourceCode,
		seenTags:   make(map[string]bool),
		seenIcons:  make(map[string]bool),
	}
}

func (s *scanner) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	if n.Type() == "start_tag" || n.Type() == "self_closing_tag" {
		s.visitTag(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		s.walk(n.Child(i))
	}
}

func (s *scanner) visitTag(tagNode *sitter.Node) {
	var tagName string
	for i := 0; i < int(tagNode.NamedChildCount()); i++ {
		child := tagNode.NamedChild(i)
		if child.Type() == "tag_name" {
			tagName = child.Content(s.sourceCode)
			break
		}
	}
	if tagName == "" {
		return
	}

	if !s.seenTags[tagName] {
		s.seenTags[tagName] = true
		s.refs.Tags = append(s.refs.Tags, tagName)
	}

	if tagName != iconTag {
		return
	}

	for i := 0; i < int(tagNode.NamedChildCount()); i++ {
		child := tagNode.NamedChild(i)
		if child.Type() != "attribute" {
			continue
		}
		if name, ok := s.iconName(child); ok && !s.seenIcons[name] {
			s.seenIcons[name] = true
			s.refs.Icons = append(s.refs.Icons, name)
		}
	}
}

// iconName extracts a static icon name from name="x" or [name]="'x'".
func (s *scanner) iconName(attr *sitter.Node) (string, bool) {
	var attrName, value string
	hasValue := false

	for i := 0; i < int(attr.NamedChildCount()); i++ {
		child := attr.NamedChild(i)
		switch child.Type() {
		case "attribute_name":
			attrName = child.Content(s.sourceCode)
		case "attribute_value":
			value, hasValue = child.Content(s.sourceCode), true
		case "quoted_attribute_value":
			value, hasValue = attributeValue(child, s.sourceCode), true
		}
	}
	if !hasValue {
		return "", false
	}

	switch {
	case iconAttributes[attrName]:
	case strings.HasPrefix(attrName, "[") && strings.HasSuffix(attrName, "]") && iconAttributes[attrName[1:len(attrName)-1]]:
		binding := strings.TrimSpace(value)
		if len(binding) < 2 || binding[0] != '\'' || binding[len(binding)-1] != '\'' {
			return "", false
		}
		value = binding[1 : len(binding)-1]
	default:
		return "", false
	}

	value = strings.TrimSpace(value)
	if !icons.IsValidName(value) {
		return "", false
	}
	return value, true
}

func attributeValue(quoted *sitter.Node, sourceCode []byte) string {
	for i := 0; i < int(quoted.NamedChildCount()); i++ {
		child := quoted.NamedChild(i)
		if child.Type() == "attribute_value" {
			return child.Content(sourceCode)
		}
	}
	return ""
}
