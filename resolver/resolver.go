package resolver

import (
	"github.com/LegacyCodeHQ/ngstandalone/icons"
	"github.com/LegacyCodeHQ/ngstandalone/template"
	"github.com/LegacyCodeHQ/ngstandalone/vocabulary"
)

// Kind classifies a resolved dependency.
type Kind int

const (
	Component Kind = iota
	IconRegistration
	IconConstant
)

func (k Kind) String() string {
	switch k {
	case Component:
		return "component"
	case IconRegistration:
		return "icon-registration"
	case IconConstant:
		return "icon-constant"
	default:
		return "unknown"
	}
}

// Dependency is one symbol a template needs and the module exporting it.
type Dependency struct {
	Symbol     string
	ModulePath string
	Kind       Kind
}

// Dependencies are ordered: the icon registration function, icon constants,
// then components, each group in first-appearance order.
type Dependencies []Dependency

// ModuleImports groups the symbols imported from one module.
type ModuleImports struct {
	ModulePath string
	Symbols    []string
}

// Resolve turns scanned template references into the symbols to import.
// Tags missing from the vocabulary are dropped.
func Resolve(refs template.References) Dependencies {
	var deps Dependencies
	seen := make(map[string]bool)

	add := func(dep Dependency) {
		if seen[dep.Symbol] {
			return
		}
		seen[dep.Symbol] = true
		deps = append(deps, dep)
	}

	if len(refs.Icons) > 0 {
		add(Dependency{Symbol: icons.RegistrationSymbol, ModulePath: icons.RegistrationModule, Kind: IconRegistration})
		for _, name := range refs.Icons {
			add(Dependency{Symbol: icons.ToIdentifier(name), ModulePath: icons.ConstantsModule, Kind: IconConstant})
		}
	}

	for _, tag := range refs.Tags {
		entry, ok := vocabulary.Lookup(tag)
		if !ok {
			continue
		}
		add(Dependency{Symbol: entry.Symbol, ModulePath: entry.ModulePath, Kind: Component})
	}

	return deps
}

// Components returns the component symbols in order.
func (d Dependencies) Components() []string {
	return d.symbols(Component)
}

// IconConstants returns the icon constant symbols in order.
func (d Dependencies) IconConstants() []string {
	return d.symbols(IconConstant)
}

// HasIcons reports whether any icon was resolved.
func (d Dependencies) HasIcons() bool {
	return len(d.IconConstants()) > 0
}

// Empty reports whether nothing was resolved.
func (d Dependencies) Empty() bool {
	return len(d) == 0
}

// OnlyIcons returns the registration and icon constant dependencies.
func (d Dependencies) OnlyIcons() Dependencies {
	var result Dependencies
	for _, dep := range d {
		if dep.Kind != Component {
			result = append(result, dep)
		}
	}
	return result
}

// ByModule groups symbols per module, modules ordered by first appearance.
func (d Dependencies) ByModule() []ModuleImports {
	var result []ModuleImports
	index := make(map[string]int)
	for _, dep := range d {
		i, ok := index[dep.ModulePath]
		if !ok {
			i = len(result)
			index[dep.ModulePath] = i
			result = append(result, ModuleImports{ModulePath: dep.ModulePath})
		}
		result[i].Symbols = append(result[i].Symbols, dep.Symbol)
	}
	return result
}

func (d Dependencies) symbols(kind Kind) []string {
	var result []string
	for _, dep := range d {
		if dep.Kind == kind {
			result = append(result, dep.Symbol)
		}
	}
	return result
}

// Result carries either the dependencies of a file or the reason it is left
// unchanged.
type Result struct {
	Dependencies Dependencies
	Unchanged    bool
	Reason       string
}

// Resolved wraps dependencies in a Result.
func Resolved(deps Dependencies) Result {
	return Result{Dependencies: deps}
}

// Unchanged marks a file that should not be edited.
func Unchanged(reason string) Result {
	return Result{Unchanged: true, Reason: reason}
}
