package template

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/ngstandalone/project"
)

// ErrMissingTemplate is returned when a component references a template file
// that cannot be found.
var ErrMissingTemplate = errors.New("template not found")

// Kind tells where a component's template text lives.
type Kind int

const (
	Inline Kind = iota
	External
)

func (k Kind) String() string {
	switch k {
	case Inline:
		return "inline"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// Source is the template text of one component.
type Source struct {
	Kind       Kind
	Text       string
	OriginPath string
}

// Declaration exposes the template-related properties of a component's
// configuration literal.
type Declaration interface {
	InlineTemplate() (string, bool)
	TemplateURL() (string, bool)
}

// Locate returns the template of the component declared in componentPath.
// It reports false when the declaration has neither an inline template nor a
// template URL. A template URL that cannot be read yields ErrMissingTemplate.
func Locate(decl Declaration, componentPath string, read project.ContentReader) (Source, bool, error) {
	if text, ok := decl.InlineTemplate(); ok {
		return Source{Kind: Inline, Text: text, OriginPath: componentPath}, true, nil
	}

	templateURL, ok := decl.TemplateURL()
	if !ok {
		return Source{}, false, nil
	}

	for _, candidate := range CandidatePaths(componentPath, templateURL) {
		content, err := read(candidate)
		if err != nil {
			continue
		}
		return Source{Kind: External, Text: string(content), OriginPath: candidate}, true, nil
	}

	return Source{}, true, fmt.Errorf("%w: %s", ErrMissingTemplate, ResolveTemplatePath(componentPath, templateURL))
}

// ResolveTemplatePath resolves a template URL relative to the component file.
func ResolveTemplatePath(componentPath, templateURL string) string {
	return filepath.Clean(filepath.Join(filepath.Dir(componentPath), filepath.FromSlash(templateURL)))
}

// CandidatePaths lists where a template may live: the referenced path first,
// then the component's sibling .html file.
func CandidatePaths(componentPath, templateURL string) []string {
	referenced := ResolveTemplatePath(componentPath, templateURL)
	sibling := strings.TrimSuffix(componentPath, filepath.Ext(componentPath)) + ".html"
	if filepath.Clean(sibling) == referenced {
		return []string{referenced}
	}
	return []string{referenced, filepath.Clean(sibling)}
}
