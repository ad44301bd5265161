// Package migrate turns Ionic components into standalone components. It
// imports what each template uses, registers icons and narrows
// single-component NgModules from the blanket IonicModule to the components
// they need.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/ngstandalone/depgraph"
	"github.com/LegacyCodeHQ/ngstandalone/internal/logging"
	"github.com/LegacyCodeHQ/ngstandalone/project"
	"github.com/LegacyCodeHQ/ngstandalone/resolver"
	"github.com/LegacyCodeHQ/ngstandalone/rewrite"
	"github.com/LegacyCodeHQ/ngstandalone/template"
	"github.com/LegacyCodeHQ/ngstandalone/vocabulary"
)

// ErrMalformedDeclaration marks a decorated class whose configuration cannot
// be read.
var ErrMalformedDeclaration = errors.New("malformed declaration")

const (
	blanketModuleSymbol = "IonicModule"
	blanketModulePath   = "@ionic/angular"
)

// Options configures a migration run.
type Options struct {
	// DryRun computes every change but leaves the files on disk untouched.
	DryRun bool
	// Workers bounds how many files are processed at once. Zero means one per CPU.
	Workers int
	Logger  *log.Logger
}

// MigrateComponents migrates every component and single-component module of
// the project. Per-file problems are reported, never returned; the error is
// reserved for failures that stop the whole run.
func MigrateComponents(ctx context.Context, p *project.Project, opts Options) (*Report, error) {
	logger := logging.OrDiscard(opts.Logger)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	graph, err := depgraph.Build(p)
	if err != nil {
		return nil, fmt.Errorf("failed to build project graph: %w", err)
	}
	logger.Debug("project graph built",
		"components", len(graph.Nodes(depgraph.ComponentNode)),
		"modules", len(graph.Nodes(depgraph.ModuleNode)),
		"templates", len(graph.Nodes(depgraph.TemplateNode)))

	m := &migration{
		project: p,
		graph:   graph,
		logger:  logger,
		results: make(map[string]*FileResult),
	}

	files := p.FilesWithExtension(".ts")

	if err := m.run(ctx, workers, files, m.migrateComponentFile); err != nil {
		return nil, err
	}
	if err := m.run(ctx, workers, files, m.migrateModuleFile); err != nil {
		return nil, err
	}

	report := m.report()
	if opts.DryRun {
		logger.Info("dry run, no files written", "changed", len(report.Changed()))
		return report, nil
	}

	saved, err := p.Save()
	if err != nil {
		return report, fmt.Errorf("failed to save project: %w", err)
	}
	report.Saved = saved
	logger.Info("migration finished", "changed", len(report.Changed()), "saved", len(saved))
	return report, nil
}

type migration struct {
	project *project.Project
	graph   *depgraph.ProjectGraph
	logger  *log.Logger

	mu      sync.Mutex
	results map[string]*FileResult
}

type fileTask func(file *project.SourceFile) (*FileResult, error)

// run processes every file with at most workers tasks in flight. Each file is
// owned by exactly one task.
func (m *migration) run(ctx context.Context, workers int, files []*project.SourceFile, task fileTask) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := task(file)
			if err != nil {
				return err
			}
			if result != nil {
				m.record(result)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// record stores a file result. A file touched by both phases keeps the text
// it had before the first one.
func (m *migration) record(result *FileResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous, ok := m.results[result.Path]
	if !ok {
		m.results[result.Path] = result
		return
	}

	merged := *result
	merged.Before = previous.Before
	merged.Kind = previous.Kind | result.Kind
	switch {
	case previous.Status == Changed || result.Status == Changed:
		merged.Status = Changed
		merged.Reason = joinReasons(previous.Reason, result.Reason)
	case previous.Status == Skipped || result.Status == Skipped:
		merged.Status = Skipped
		merged.Reason = joinReasons(previous.Reason, result.Reason)
	default:
		merged.Reason = joinReasons(previous.Reason, result.Reason)
	}
	m.results[result.Path] = &merged
}

func (m *migration) report() *Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := &Report{}
	for _, result := range m.results {
		report.Results = append(report.Results, *result)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Path < report.Results[j].Path
	})
	return report
}

// migrateComponentFile rewrites every @Component class of a file. Standalone
// components get the full migration; components declared by an NgModule only
// get their icons registered.
func (m *migration) migrateComponentFile(file *project.SourceFile) (*FileResult, error) {
	before := file.Text()
	parsed, err := rewrite.Parse(file.Path(), before)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}
	defer parsed.Close()

	components := parsed.Decorated(rewrite.ComponentDecorator)
	if len(components) == 0 {
		return nil, nil
	}

	result := &FileResult{Path: file.Path(), Kind: ComponentFile, Before: before}
	rewriter := rewrite.NewRewriter(parsed)
	var reasons []string

	for _, component := range components {
		logger := m.logger.With("file", file.Path(), "component", component.ClassName)

		if component.Literal == nil {
			logger.Warn("skipping component", "error", ErrMalformedDeclaration)
			return result.skipped(fmt.Sprintf("%s: %v", component.ClassName, ErrMalformedDeclaration)), nil
		}

		resolved := m.dependencies(file.Path(), component, logger)
		if resolved.Unchanged {
			reasons = append(reasons, fmt.Sprintf("%s: %s", component.ClassName, resolved.Reason))
			continue
		}

		mode := m.componentMode(file.Path(), component)
		if mode == rewrite.IconsOnly && !resolved.Dependencies.HasIcons() {
			reasons = append(reasons, fmt.Sprintf("%s: declared by an NgModule", component.ClassName))
			continue
		}
		logger.Debug("migrating component",
			"standalone", mode == rewrite.FullMigration,
			"components", len(resolved.Dependencies.Components()),
			"icons", len(resolved.Dependencies.IconConstants()))

		if err := rewriter.MigrateComponent(component, resolved.Dependencies, mode); err != nil {
			logger.Warn("skipping file", "error", err)
			return result.skipped(fmt.Sprintf("%s: %v", component.ClassName, err)), nil
		}
	}

	return m.finish(file, rewriter, result, reasons)
}

// componentMode decides how much of a component is migrated. An explicit
// standalone flag wins; otherwise a component nobody declares is standalone.
func (m *migration) componentMode(path string, component *rewrite.Decorated) rewrite.Mode {
	standalone, set := component.Literal.Standalone()
	switch {
	case set && standalone:
		return rewrite.FullMigration
	case set:
		return rewrite.IconsOnly
	case m.graph.IsDeclared(path, component.ClassName):
		return rewrite.IconsOnly
	default:
		return rewrite.FullMigration
	}
}

// dependencies locates, scans and resolves the template of a component.
func (m *migration) dependencies(path string, component *rewrite.Decorated, logger *log.Logger) resolver.Result {
	source, found, err := m.templateSource(path, component)
	if !found {
		return resolver.Unchanged("no template")
	}
	if err != nil {
		if errors.Is(err, template.ErrMissingTemplate) {
			logger.Debug("template not found", "error", err)
			return resolver.Unchanged("template not found")
		}
		logger.Warn("failed to read template", "error", err)
		return resolver.Unchanged(err.Error())
	}

	refs, err := template.Scan(source.Text)
	if err != nil {
		logger.Warn("failed to scan template", "template", source.OriginPath, "error", err)
		return resolver.Unchanged(fmt.Sprintf("failed to scan template: %v", err))
	}

	deps := resolver.Resolve(refs)
	if deps.Empty() {
		return resolver.Unchanged("no standalone dependencies found")
	}
	return resolver.Resolved(deps)
}

// templateSource returns the template linked to the component in the project
// graph, falling back to the inline template or a lookup on disk.
func (m *migration) templateSource(path string, component *rewrite.Decorated) (template.Source, bool, error) {
	if _, inline := component.Literal.InlineTemplate(); !inline {
		if templatePath, ok := m.graph.Template(path, component.ClassName); ok {
			if file, ok := m.project.File(templatePath); ok {
				return template.Source{Kind: template.External, Text: string(file.Text()), OriginPath: templatePath}, true, nil
			}
		}
	}
	return template.Locate(component.Literal, path, m.project.ContentReader())
}

// migrateModuleFile narrows the blanket IonicModule import of every NgModule
// in the file that declares exactly one component.
func (m *migration) migrateModuleFile(file *project.SourceFile) (*FileResult, error) {
	before := file.Text()
	parsed, err := rewrite.Parse(file.Path(), before)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path(), err)
	}
	defer parsed.Close()

	modules := parsed.Decorated(rewrite.NgModuleDecorator)
	if len(modules) == 0 {
		return nil, nil
	}

	result := &FileResult{Path: file.Path(), Kind: ModuleFile, Before: before}
	rewriter := rewrite.NewRewriter(parsed)
	var reasons []string
	var added []string
	replaced := 0

	for _, module := range modules {
		logger := m.logger.With("file", file.Path(), "module", module.ClassName)

		if module.Literal == nil {
			logger.Warn("skipping module", "error", ErrMalformedDeclaration)
			return result.skipped(fmt.Sprintf("%s: %v", module.ClassName, ErrMalformedDeclaration)), nil
		}

		components, reason := m.moduleComponents(file.Path(), module, logger)
		if reason != "" {
			reasons = append(reasons, fmt.Sprintf("%s: %s", module.ClassName, reason))
			continue
		}

		if err := rewriter.ReplaceArrayElement(module.Literal, "imports", blanketModuleSymbol, components); err != nil {
			logger.Warn("skipping file", "error", err)
			return result.skipped(fmt.Sprintf("%s: %v", module.ClassName, err)), nil
		}
		logger.Debug("replaced blanket import", "components", components)
		replaced++

		for _, symbol := range components {
			if !containsString(added, symbol) {
				added = append(added, symbol)
			}
		}
	}

	if replaced > 0 {
		if rewriter.ReferenceCount(blanketModuleSymbol) <= replaced {
			rewriter.RemoveImportSpecifier(blanketModulePath, blanketModuleSymbol)
		}
		if len(added) > 0 {
			rewriter.MergeImports([]resolver.ModuleImports{{
				ModulePath: vocabulary.StandaloneModule,
				Symbols:    added,
			}}, rewrite.AfterLastImport)
		}
	}

	return m.finish(file, rewriter, result, reasons)
}

// moduleComponents returns the standalone components the single declaration
// of a module needs, or the reason the module is left alone.
func (m *migration) moduleComponents(path string, module *rewrite.Decorated, logger *log.Logger) ([]string, string) {
	declarations, _ := module.Literal.ArrayElements("declarations")
	if len(declarations) != 1 {
		return nil, fmt.Sprintf("declares %d components", len(declarations))
	}

	imports, _ := module.Literal.ArrayElements("imports")
	if !containsString(imports, blanketModuleSymbol) {
		return nil, "does not import " + blanketModuleSymbol
	}

	declared := m.graph.DeclaredComponents(path, module.ClassName)
	if len(declared) != 1 || declared[0].Symbol != declarations[0] {
		logger.Debug("declared component not found", "component", declarations[0])
		return nil, "declared component not found"
	}

	component, err := m.findComponent(declared[0])
	if err != nil {
		logger.Debug("declared component not readable", "error", err)
		return nil, err.Error()
	}
	defer component.file.Close()

	resolved := m.dependencies(declared[0].Path, component.decorated, logger)
	if resolved.Unchanged {
		return nil, resolved.Reason
	}
	return resolved.Dependencies.Components(), ""
}

type parsedComponent struct {
	file      *rewrite.File
	decorated *rewrite.Decorated
}

func (m *migration) findComponent(node depgraph.Node) (parsedComponent, error) {
	source, ok := m.project.File(node.Path)
	if !ok {
		return parsedComponent{}, fmt.Errorf("%w: %s", project.ErrFileNotFound, node.Path)
	}

	parsed, err := rewrite.Parse(source.Path(), source.Text())
	if err != nil {
		return parsedComponent{}, fmt.Errorf("failed to parse %s: %w", source.Path(), err)
	}

	for _, decorated := range parsed.Decorated(rewrite.ComponentDecorator) {
		if decorated.ClassName != node.Symbol {
			continue
		}
		if decorated.Literal == nil {
			parsed.Close()
			return parsedComponent{}, fmt.Errorf("%s: %w", node.Symbol, ErrMalformedDeclaration)
		}
		return parsedComponent{file: parsed, decorated: decorated}, nil
	}

	parsed.Close()
	return parsedComponent{}, fmt.Errorf("component %s not found in %s", node.Symbol, node.Path)
}

// finish applies the collected edits of a file in one step.
func (m *migration) finish(file *project.SourceFile, rewriter *rewrite.Rewriter, result *FileResult, reasons []string) (*FileResult, error) {
	after, changed, err := rewriter.Apply()
	if err != nil {
		m.logger.Warn("skipping file", "file", file.Path(), "error", err)
		return result.skipped(err.Error()), nil
	}

	if !changed {
		result.Status = Unchanged
		result.After = result.Before
		result.Reason = strings.Join(reasons, "; ")
		if result.Reason == "" {
			result.Reason = "already migrated"
		}
		return result, nil
	}

	file.SetText(after)
	result.Status = Changed
	result.After = after
	result.Reason = strings.Join(reasons, "; ")
	m.logger.Info("migrated", "file", file.Path(), "kind", result.Kind)
	return result, nil
}

func joinReasons(reasons ...string) string {
	var nonEmpty []string
	for _, reason := range reasons {
		if reason != "" {
			nonEmpty = append(nonEmpty, reason)
		}
	}
	return strings.Join(nonEmpty, "; ")
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
