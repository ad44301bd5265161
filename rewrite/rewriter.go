package rewrite

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/LegacyCodeHQ/ngstandalone/icons"
	"github.com/LegacyCodeHQ/ngstandalone/resolver"
)

// ErrUnsupportedDeclaration is returned when a declaration literal has a shape
// the rewriter cannot edit safely, such as a non-array imports value.
var ErrUnsupportedDeclaration = errors.New("unsupported declaration")

const defaultIndentUnit = "    "

// Anchor selects where new import statements go.
type Anchor int

const (
	// AfterFrameworkImport places new imports right after the @angular/core
	// import, or after the last import when there is none.
	AfterFrameworkImport Anchor = iota
	// AfterLastImport places new imports after the last import statement.
	AfterLastImport
)

// Mode selects how much of a component is migrated.
type Mode int

const (
	// FullMigration imports every resolved symbol, lists components in the
	// declaration's imports array and registers icons.
	FullMigration Mode = iota
	// IconsOnly imports and registers icons but leaves the declaration
	// literal alone. Used for components declared by an NgModule.
	IconsOnly
)

// Rewriter collects edits for one file and applies them in a single step.
type Rewriter struct {
	file    *File
	imports *ImportSet
	edits   []edit
	removed map[uint32]bool

	// Import additions are queued per module and rendered by Apply, so
	// repeated merges for the same module end up in one statement.
	appends   []*queuedSpecifiers
	additions []*queuedStatement
}

// queuedSpecifiers are symbols appended to an existing import statement.
type queuedSpecifiers struct {
	statement *ImportStatement
	symbols   []string
}

// queuedStatement is a new import statement.
type queuedStatement struct {
	modulePath string
	symbols    []string
	anchor     Anchor
}

// NewRewriter starts an edit session on f.
func NewRewriter(f *File) *Rewriter {
	return &Rewriter{
		file:    f,
		imports: NewImportSet(f),
		removed: make(map[uint32]bool),
	}
}

// Imports returns the import statements of the file being rewritten.
func (r *Rewriter) Imports() *ImportSet {
	return r.imports
}

// Changed reports whether any edit was recorded.
func (r *Rewriter) Changed() bool {
	return len(r.edits) > 0 || len(r.appends) > 0 || len(r.additions) > 0
}

// Has reports whether symbol is imported from modulePath, either by the file
// or by an import queued in this session.
func (r *Rewriter) Has(modulePath, symbol string) bool {
	if r.imports.Has(modulePath, symbol) {
		return true
	}
	for _, queued := range r.appends {
		if queued.statement.ModulePath == modulePath && contains(queued.symbols, symbol) {
			return true
		}
	}
	for _, queued := range r.additions {
		if queued.modulePath == modulePath && contains(queued.symbols, symbol) {
			return true
		}
	}
	return false
}

// Apply returns the edited source code and whether it differs from the input.
// On error no edit is applied.
func (r *Rewriter) Apply() ([]byte, bool, error) {
	if !r.Changed() {
		return r.file.sourceCode, false, nil
	}
	edits := append(append([]edit(nil), r.edits...), r.importEdits()...)
	result, err := applyEdits(r.file.sourceCode, edits)
	if err != nil {
		return nil, false, err
	}
	return result, string(result) != string(r.file.sourceCode), nil
}

// MigrateComponent records the edits that make a component import what its
// template uses.
func (r *Rewriter) MigrateComponent(d *Decorated, deps resolver.Dependencies, mode Mode) error {
	if d.Literal == nil {
		return ErrNoDeclaration
	}
	if mode == IconsOnly {
		deps = deps.OnlyIcons()
	}
	if deps.Empty() {
		return nil
	}

	r.MergeImports(deps.ByModule(), AfterFrameworkImport)

	if mode == FullMigration {
		if components := deps.Components(); len(components) > 0 {
			if err := r.MergeArrayProperty(d.Literal, "imports", components); err != nil {
				return err
			}
		}
	}

	if deps.HasIcons() {
		return r.EnsureIconRegistration(d, deps.IconConstants())
	}
	return nil
}

// MergeImports makes sure every group's symbols are imported from its module.
// Missing symbols are appended to an existing statement for the module; new
// statements are inserted at the anchor in group order. Merges for a module
// that already has queued symbols extend the queued import.
func (r *Rewriter) MergeImports(groups []resolver.ModuleImports, anchor Anchor) {
	for _, group := range groups {
		var missing []string
		for _, symbol := range group.Symbols {
			if !r.Has(group.ModulePath, symbol) && !contains(missing, symbol) {
				missing = append(missing, symbol)
			}
		}
		if len(missing) == 0 {
			continue
		}

		if statement, ok := r.imports.Statement(group.ModulePath); ok && !r.removed[statement.node.StartByte()] {
			r.queueSpecifiers(statement, missing)
			continue
		}
		r.queueStatement(group.ModulePath, missing, anchor)
	}
}

func (r *Rewriter) queueSpecifiers(statement *ImportStatement, symbols []string) {
	for _, queued := range r.appends {
		if queued.statement == statement {
			queued.symbols = append(queued.symbols, symbols...)
			return
		}
	}
	r.appends = append(r.appends, &queuedSpecifiers{statement: statement, symbols: symbols})
}

func (r *Rewriter) queueStatement(modulePath string, symbols []string, anchor Anchor) {
	for _, queued := range r.additions {
		if queued.modulePath == modulePath {
			queued.symbols = append(queued.symbols, symbols...)
			return
		}
	}
	r.additions = append(r.additions, &queuedStatement{modulePath: modulePath, symbols: symbols, anchor: anchor})
}

// importEdits renders the queued imports. Appends to a statement removed
// after they were queued become new statements.
func (r *Rewriter) importEdits() []edit {
	var edits []edit
	additions := append([]*queuedStatement(nil), r.additions...)
	for _, queued := range r.appends {
		if r.removed[queued.statement.node.StartByte()] {
			additions = append(additions, &queuedStatement{
				modulePath: queued.statement.ModulePath,
				symbols:    queued.symbols,
				anchor:     AfterLastImport,
			})
			continue
		}
		edits = append(edits, r.specifierEdit(queued.statement, queued.symbols))
	}

	var targets []*ImportStatement
	statements := make(map[*ImportStatement][]string)
	for _, queued := range additions {
		target := r.anchorStatement(queued.anchor)
		if _, ok := statements[target]; !ok {
			targets = append(targets, target)
		}
		statements[target] = append(statements[target], r.importText(queued.modulePath, queued.symbols))
	}
	for _, target := range targets {
		text := strings.Join(statements[target], "\n")
		if target == nil {
			edits = append(edits, edit{start: 0, end: 0, text: text + "\n\n"})
			continue
		}
		edits = append(edits, edit{start: target.node.EndByte(), end: target.node.EndByte(), text: "\n" + text})
	}
	return edits
}

func (r *Rewriter) specifierEdit(statement *ImportStatement, symbols []string) edit {
	if len(statement.Specifiers) == 0 {
		return edit{
			start: statement.named.StartByte(),
			end:   statement.named.EndByte(),
			text:  "{ " + strings.Join(symbols, ", ") + " }",
		}
	}
	last := statement.Specifiers[len(statement.Specifiers)-1].node
	return edit{start: last.EndByte(), end: last.EndByte(), text: ", " + strings.Join(symbols, ", ")}
}

func (r *Rewriter) importText(modulePath string, symbols []string) string {
	quote := r.quote()
	return fmt.Sprintf("import { %s } from %s%s%s%s", strings.Join(symbols, ", "), quote, modulePath, quote, r.semicolon())
}

// quote follows the quote style of the framework import.
func (r *Rewriter) quote() string {
	statements := r.imports.Statements()
	for _, statement := range statements {
		if statement.ModulePath == FrameworkModule {
			return r.file.content(statement.source)[:1]
		}
	}
	if len(statements) > 0 {
		return r.file.content(statements[0].source)[:1]
	}
	return `"`
}

func (r *Rewriter) semicolon() string {
	statements := r.imports.Statements()
	if len(statements) == 0 || strings.HasSuffix(r.file.content(statements[0].node), ";") {
		return ";"
	}
	return ""
}

func (r *Rewriter) anchorStatement(anchor Anchor) *ImportStatement {
	var last *ImportStatement
	for _, statement := range r.imports.Statements() {
		if r.removed[statement.node.StartByte()] {
			continue
		}
		if anchor == AfterFrameworkImport && statement.ModulePath == FrameworkModule {
			return statement
		}
		last = statement
	}
	return last
}

// MergeArrayProperty makes the array property key list every symbol. Existing
// elements keep their order; missing symbols are appended. The property is
// added as the literal's last property when absent.
func (r *Rewriter) MergeArrayProperty(literal *Literal, key string, symbols []string) error {
	property, ok := literal.Get(key)
	if !ok {
		r.appendProperty(literal, key+": ["+strings.Join(symbols, ", ")+"]")
		return nil
	}
	if property.value == nil || property.value.Type() != "array" {
		return fmt.Errorf("%w: %s is not an array literal", ErrUnsupportedDeclaration, key)
	}

	existing, _ := literal.ArrayElements(key)
	var missing []string
	for _, symbol := range symbols {
		if !contains(existing, symbol) && !contains(missing, symbol) {
			missing = append(missing, symbol)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	elements := namedChildren(property.value)
	if len(elements) == 0 {
		r.replace(property.value, "["+strings.Join(missing, ", ")+"]")
		return nil
	}
	r.insert(elements[len(elements)-1].EndByte(), ", "+strings.Join(missing, ", "))
	return nil
}

func (r *Rewriter) appendProperty(literal *Literal, text string) {
	properties := namedChildren(literal.node)
	if len(properties) == 0 {
		r.replace(literal.node, "{ "+text+" }")
		return
	}

	last := properties[len(properties)-1]
	insertAt := last.EndByte()
	trailingComma := false
	if next := nextToken(last); next != nil && r.file.content(next) == "," {
		trailingComma = true
		insertAt = next.EndByte()
	}

	multiline := r.file.spansLines(literal.node.StartByte(), last.StartByte())
	switch {
	case multiline && trailingComma:
		text = "\n" + r.file.lineIndent(last.StartByte()) + text + ","
	case multiline:
		text = ",\n" + r.file.lineIndent(last.StartByte()) + text
	case trailingComma:
		text = " " + text + ","
	default:
		text = ", " + text
	}
	r.insert(insertAt, text)
}

// EnsureIconRegistration makes the class constructor register every icon
// constant, creating the constructor when needed.
func (r *Rewriter) EnsureIconRegistration(d *Decorated, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	body := d.class.ChildByFieldName("body")
	if body == nil {
		return fmt.Errorf("%w: class %s has no body", ErrUnsupportedDeclaration, d.ClassName)
	}

	unit := r.indentUnit(d)
	if constructor := findConstructor(r.file, body); constructor != nil {
		return r.registerInConstructor(constructor, identifiers, unit)
	}

	classIndent := r.file.lineIndent(d.class.StartByte())
	members := namedChildren(body)
	memberIndent := classIndent + unit
	if len(members) > 0 && r.file.spansLines(body.StartByte(), members[0].StartByte()) {
		memberIndent = r.file.lineIndent(members[0].StartByte())
	}
	constructorText := "constructor() {\n" +
		memberIndent + unit + registrationCall(identifiers) + "\n" +
		memberIndent + "}"

	if len(members) == 0 {
		r.replace(body, "{\n"+memberIndent+constructorText+"\n"+classIndent+"}")
		return nil
	}

	var lastField *sitter.Node
	for _, member := range members {
		if member.Type() == "public_field_definition" {
			lastField = member
		}
	}
	if lastField == nil {
		r.insert(body.StartByte()+1, "\n"+memberIndent+constructorText+"\n")
		return nil
	}

	insertAt := lastField.EndByte()
	if next := nextToken(lastField); next != nil && r.file.content(next) == ";" {
		insertAt = next.EndByte()
	}
	r.insert(insertAt, "\n\n"+memberIndent+constructorText)
	return nil
}

func (r *Rewriter) registerInConstructor(constructor *sitter.Node, identifiers []string, unit string) error {
	block := constructor.ChildByFieldName("body")
	if block == nil {
		return fmt.Errorf("%w: constructor without body", ErrUnsupportedDeclaration)
	}

	registered, object := registrationObjects(r.file, block)
	var missing []string
	for _, identifier := range identifiers {
		if !contains(registered, identifier) && !contains(missing, identifier) {
			missing = append(missing, identifier)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if object != nil {
		entries := namedChildren(object)
		if len(entries) == 0 {
			r.replace(object, "{ "+strings.Join(missing, ", ")+" }")
			return nil
		}
		r.insert(entries[len(entries)-1].EndByte(), ", "+strings.Join(missing, ", "))
		return nil
	}

	constructorIndent := r.file.lineIndent(constructor.StartByte())
	statements := namedChildren(block)
	bodyIndent := constructorIndent + unit
	if len(statements) > 0 && r.file.spansLines(block.StartByte(), statements[0].StartByte()) {
		bodyIndent = r.file.lineIndent(statements[0].StartByte())
	}

	call := registrationCall(missing)
	if len(statements) == 0 {
		r.replace(block, "{\n"+bodyIndent+call+"\n"+constructorIndent+"}")
		return nil
	}
	r.insert(statements[len(statements)-1].EndByte(), "\n"+bodyIndent+call)
	return nil
}

// indentUnit derives one indentation level from the declaration literal,
// falling back to four spaces.
func (r *Rewriter) indentUnit(d *Decorated) string {
	if d.Literal == nil {
		return defaultIndentUnit
	}
	properties := namedChildren(d.Literal.node)
	if len(properties) == 0 || !r.file.spansLines(d.Literal.node.StartByte(), properties[0].StartByte()) {
		return defaultIndentUnit
	}
	base := r.file.lineIndent(d.decorator.StartByte())
	inner := r.file.lineIndent(properties[0].StartByte())
	if len(inner) > len(base) && strings.HasPrefix(inner, base) {
		return inner[len(base):]
	}
	return defaultIndentUnit
}

func registrationCall(identifiers []string) string {
	return icons.RegistrationSymbol + "({ " + strings.Join(identifiers, ", ") + " });"
}

func findConstructor(f *File, body *sitter.Node) *sitter.Node {
	for _, member := range namedChildren(body) {
		if member.Type() != "method_definition" {
			continue
		}
		if name := member.ChildByFieldName("name"); name != nil && f.content(name) == "constructor" {
			return member
		}
	}
	return nil
}

// registrationObjects returns the identifiers already registered by
// registration calls in block and the first object argument to merge into.
func registrationObjects(f *File, block *sitter.Node) ([]string, *sitter.Node) {
	var registered []string
	var first *sitter.Node

	walk(block, func(n *sitter.Node) bool {
		if n.Type() != "call_expression" {
			return true
		}
		function := n.ChildByFieldName("function")
		if function == nil || f.content(function) != icons.RegistrationSymbol {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return false
		}
		object := firstNamedChildOfType(args, "object")
		if object == nil {
			return false
		}
		if first == nil {
			first = object
		}
		for _, entry := range namedChildren(object) {
			switch entry.Type() {
			case "shorthand_property_identifier":
				registered = append(registered, f.content(entry))
			case "pair":
				if key := entry.ChildByFieldName("key"); key != nil {
					registered = append(registered, f.content(key))
				}
			}
		}
		return false
	})

	return registered, first
}

// RemoveImportSpecifier drops symbol from the imports of modulePath, removing
// the whole statement when it was the only binding. It reports whether
// anything was removed.
func (r *Rewriter) RemoveImportSpecifier(modulePath, symbol string) bool {
	for _, statement := range r.imports.Statements() {
		if statement.ModulePath != modulePath || r.removed[statement.node.StartByte()] {
			continue
		}
		for i, specifier := range statement.Specifiers {
			if specifier.LocalName() != symbol {
				continue
			}
			specifiers := statement.Specifiers
			switch {
			case len(specifiers) == 1 && !statement.HasOtherBindings:
				r.removeStatement(statement)
			case len(specifiers) == 1:
				r.replace(statement.named, "{}")
			case i < len(specifiers)-1:
				r.remove(specifier.node.StartByte(), specifiers[i+1].node.StartByte())
			default:
				r.remove(specifiers[i-1].node.EndByte(), specifier.node.EndByte())
			}
			return true
		}
	}
	return false
}

func (r *Rewriter) removeStatement(statement *ImportStatement) {
	start := statement.node.StartByte()
	end := statement.node.EndByte()
	if lineStart := r.file.lineStart(start); strings.TrimSpace(string(r.file.sourceCode[lineStart:start])) == "" {
		start = lineStart
	}
	if int(end) < len(r.file.sourceCode) && r.file.sourceCode[end] == '\n' {
		end++
	}
	r.remove(start, end)
	r.removed[statement.node.StartByte()] = true
}

// ReplaceArrayElement replaces the element of array property key whose source
// text is element with the replacement symbols not yet listed. The element is
// removed when nothing is left to add.
func (r *Rewriter) ReplaceArrayElement(literal *Literal, key, element string, replacement []string) error {
	property, ok := literal.Get(key)
	if !ok || property.value == nil || property.value.Type() != "array" {
		return fmt.Errorf("%w: %s is not an array literal", ErrUnsupportedDeclaration, key)
	}

	elements := namedChildren(property.value)
	index := -1
	var present []string
	for i, node := range elements {
		text := strings.TrimSpace(r.file.content(node))
		present = append(present, text)
		if text == element && index < 0 {
			index = i
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s does not list %s", ErrUnsupportedDeclaration, key, element)
	}

	var added []string
	for _, symbol := range replacement {
		if !contains(present, symbol) && !contains(added, symbol) {
			added = append(added, symbol)
		}
	}

	target := elements[index]
	switch {
	case len(added) > 0:
		r.replace(target, strings.Join(added, ", "))
	case len(elements) == 1:
		r.replace(property.value, "[]")
	case index < len(elements)-1:
		r.remove(target.StartByte(), elements[index+1].StartByte())
	default:
		r.remove(elements[index-1].EndByte(), target.EndByte())
	}
	return nil
}

// ReferenceCount counts uses of name outside import statements.
func (r *Rewriter) ReferenceCount(name string) int {
	count := 0
	walk(r.file.root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			return false
		case "identifier", "type_identifier", "shorthand_property_identifier":
			if r.file.content(n) == name {
				count++
			}
		}
		return true
	})
	return count
}

func (r *Rewriter) insert(offset uint32, text string) {
	r.edits = append(r.edits, edit{start: offset, end: offset, text: text})
}

func (r *Rewriter) replace(n *sitter.Node, text string) {
	r.edits = append(r.edits, edit{start: n.StartByte(), end: n.EndByte(), text: text})
}

func (r *Rewriter) remove(start, end uint32) {
	r.edits = append(r.edits, edit{start: start, end: end})
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
