package depgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"

	"github.com/LegacyCodeHQ/ngstandalone/project"
	"github.com/LegacyCodeHQ/ngstandalone/rewrite"
	"github.com/LegacyCodeHQ/ngstandalone/template"
)

// NodeKind classifies graph vertices.
type NodeKind string

const (
	ComponentNode NodeKind = "component"
	ModuleNode    NodeKind = "module"
	TemplateNode  NodeKind = "template"
)

const (
	kindAttribute    = "kind"
	edgeDeclares     = "declares"
	edgeUsesTemplate = "template"
)

// Node is a decorated class, or a template file.
type Node struct {
	Kind   NodeKind
	Path   string
	Symbol string
}

// ID identifies a node: "path#Symbol" for classes, the path for templates.
func (n Node) ID() string {
	if n.Symbol == "" {
		return n.Path
	}
	return n.Path + "#" + n.Symbol
}

func nodeHash(n Node) string {
	return n.ID()
}

// ProjectGraph links NgModules to the components they declare and components
// to their external templates.
type ProjectGraph struct {
	graph graphlib.Graph[string, Node]
}

// Build parses every TypeScript file of the project and records its
// components, modules and their relations.
func Build(p *project.Project) (*ProjectGraph, error) {
	pg := &ProjectGraph{graph: graphlib.New(nodeHash, graphlib.Directed())}

	var modules []pendingModule
	for _, file := range p.FilesWithExtension(".ts") {
		found, err := pg.addFile(p, file)
		if err != nil {
			return nil, err
		}
		modules = append(modules, found...)
	}

	for _, module := range modules {
		if err := pg.linkDeclarations(p, module); err != nil {
			return nil, err
		}
	}

	return pg, nil
}

type pendingModule struct {
	node         Node
	declarations []string
	importedFrom map[string]string
}

func (pg *ProjectGraph) addFile(p *project.Project, file *project.SourceFile) ([]pendingModule, error) {
	parsed, err := rewrite.Parse(file.Path(), file.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}
	defer parsed.Close()

	imports := rewrite.NewImportSet(parsed)

	var modules []pendingModule
	for _, decorated := range parsed.Decorated(rewrite.ComponentDecorator, rewrite.NgModuleDecorator) {
		switch decorated.Decorator {
		case rewrite.ComponentDecorator:
			node := Node{Kind: ComponentNode, Path: file.Path(), Symbol: decorated.ClassName}
			if err := pg.addVertex(node); err != nil {
				return nil, err
			}
			if decorated.Literal == nil {
				continue
			}
			if templateURL, ok := decorated.Literal.TemplateURL(); ok {
				if err := pg.linkTemplate(p, node, templateURL); err != nil {
					return nil, err
				}
			}

		case rewrite.NgModuleDecorator:
			node := Node{Kind: ModuleNode, Path: file.Path(), Symbol: decorated.ClassName}
			if err := pg.addVertex(node); err != nil {
				return nil, err
			}
			if decorated.Literal == nil {
				continue
			}
			declarations, _ := decorated.Literal.ArrayElements("declarations")
			importedFrom := make(map[string]string, len(declarations))
			for _, symbol := range declarations {
				if modulePath, ok := imports.ModuleOf(symbol); ok {
					importedFrom[symbol] = modulePath
				}
			}
			modules = append(modules, pendingModule{node: node, declarations: declarations, importedFrom: importedFrom})
		}
	}
	return modules, nil
}

func (pg *ProjectGraph) linkTemplate(p *project.Project, component Node, templateURL string) error {
	for _, templatePath := range template.CandidatePaths(component.Path, templateURL) {
		if !p.Has(templatePath) {
			continue
		}
		node := Node{Kind: TemplateNode, Path: templatePath}
		if err := pg.addVertex(node); err != nil {
			return err
		}
		return pg.addEdge(component, node, edgeUsesTemplate)
	}
	return nil
}

func (pg *ProjectGraph) linkDeclarations(p *project.Project, module pendingModule) error {
	for _, symbol := range module.declarations {
		componentPath := module.node.Path
		if importPath, ok := module.importedFrom[symbol]; ok {
			resolved, found := ResolveImportPath(module.node.Path, importPath, p.Has)
			if !found {
				continue
			}
			componentPath = resolved
		}

		component := Node{Kind: ComponentNode, Path: componentPath, Symbol: symbol}
		if _, err := pg.graph.Vertex(component.ID()); err != nil {
			continue
		}
		if err := pg.addEdge(module.node, component, edgeDeclares); err != nil {
			return err
		}
	}
	return nil
}

func (pg *ProjectGraph) addVertex(node Node) error {
	err := pg.graph.AddVertex(node, graphlib.VertexAttribute(kindAttribute, string(node.Kind)))
	if err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add %s: %w", node.ID(), err)
	}
	return nil
}

func (pg *ProjectGraph) addEdge(from, to Node, kind string) error {
	err := pg.graph.AddEdge(from.ID(), to.ID(), graphlib.EdgeAttribute(kindAttribute, kind))
	if err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return fmt.Errorf("failed to link %s to %s: %w", from.ID(), to.ID(), err)
	}
	return nil
}

// Nodes returns all nodes of a kind sorted by ID.
func (pg *ProjectGraph) Nodes(kind NodeKind) []Node {
	adjacency, err := pg.graph.AdjacencyMap()
	if err != nil {
		return nil
	}
	var nodes []Node
	for id := range adjacency {
		node, err := pg.graph.Vertex(id)
		if err != nil || node.Kind != kind {
			continue
		}
		nodes = append(nodes, node)
	}
	sortNodes(nodes)
	return nodes
}

// DeclaringModules returns the modules that declare the component class.
func (pg *ProjectGraph) DeclaringModules(componentPath, symbol string) []Node {
	predecessors, err := pg.graph.PredecessorMap()
	if err != nil {
		return nil
	}
	component := Node{Kind: ComponentNode, Path: componentPath, Symbol: symbol}
	return pg.linked(predecessors[component.ID()], edgeDeclares, func(e graphlib.Edge[string]) string { return e.Source })
}

// IsDeclared reports whether any module declares the component class.
func (pg *ProjectGraph) IsDeclared(componentPath, symbol string) bool {
	return len(pg.DeclaringModules(componentPath, symbol)) > 0
}

// DeclaredComponents returns the components a module declares that were
// found in the project.
func (pg *ProjectGraph) DeclaredComponents(modulePath, symbol string) []Node {
	adjacency, err := pg.graph.AdjacencyMap()
	if err != nil {
		return nil
	}
	module := Node{Kind: ModuleNode, Path: modulePath, Symbol: symbol}
	return pg.linked(adjacency[module.ID()], edgeDeclares, func(e graphlib.Edge[string]) string { return e.Target })
}

// Template returns the external template file of a component, when it is
// part of the project.
func (pg *ProjectGraph) Template(componentPath, symbol string) (string, bool) {
	adjacency, err := pg.graph.AdjacencyMap()
	if err != nil {
		return "", false
	}
	component := Node{Kind: ComponentNode, Path: componentPath, Symbol: symbol}
	templates := pg.linked(adjacency[component.ID()], edgeUsesTemplate, func(e graphlib.Edge[string]) string { return e.Target })
	if len(templates) == 0 {
		return "", false
	}
	return templates[0].Path, true
}

func (pg *ProjectGraph) linked(edges map[string]graphlib.Edge[string], kind string, end func(graphlib.Edge[string]) string) []Node {
	var nodes []Node
	for _, e := range edges {
		if e.Properties.Attributes[kindAttribute] != kind {
			continue
		}
		node, err := pg.graph.Vertex(end(e))
		if err != nil {
			continue
		}
		nodes = append(nodes, node)
	}
	sortNodes(nodes)
	return nodes
}

func sortNodes(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID() < nodes[j].ID()
	})
}
