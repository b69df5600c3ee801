package syntax

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrParseFailed is returned when tree-sitter produces no tree at all.
// Files with syntax errors still parse; tree-sitter recovers around them.
var ErrParseFailed = errors.New("parse failed")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var referencePathRe = regexp.MustCompile(`^///\s*<reference\s+path\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Parser turns TypeScript and TSX source into Files. It is safe for
// concurrent use; each Parse call gets its own tree-sitter parser.
type Parser struct {
	typescript *sitter.Language
	tsx        *sitter.Language
}

// NewParser creates a parser for .ts, .mts, .cts, .d.ts and .tsx files.
func NewParser() *Parser {
	return &Parser{
		typescript: sitter.NewLanguage(typescript.LanguageTypescript()),
		tsx:        sitter.NewLanguage(typescript.LanguageTSX()),
	}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return p.Parse(path, source)
}

// Parse parses source as the file at path. The TSX grammar is used for .tsx
// and .jsx paths.
func (p *Parser) Parse(path string, source []byte) (*File, error) {
	source = bytes.TrimPrefix(source, utf8BOM)

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.languageFor(path)); err != nil {
		return nil, fmt.Errorf("failed to set language for %s: %w", path, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, path)
	}
	defer tree.Close()

	b := &builder{src: source}
	root := tree.RootNode()

	file := &File{
		Path:       path,
		Source:     source,
		lineStarts: computeLineStarts(source),
	}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "comment":
			file.comments = append(file.comments, b.commentRange(n))
		case "import_statement", "export_statement":
			if spec := b.moduleSpecifier(n); spec != "" {
				file.Imports = append(file.Imports, spec)
			}
		case "call_expression":
			if spec := b.dynamicImport(n); spec != "" {
				file.Imports = append(file.Imports, spec)
			}
		}
		return true
	})

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if isTrivia(child) || !child.IsNamed() {
			continue
		}
		file.Declarations = append(file.Declarations, b.declaration(child))
	}

	for _, c := range file.LeadingCommentRanges(0) {
		m := referencePathRe.FindStringSubmatch(file.RawText(c))
		if m == nil {
			continue
		}
		if m[1] != "" {
			file.References = append(file.References, m[1])
		} else if m[2] != "" {
			file.References = append(file.References, m[2])
		}
	}

	return file, nil
}

func (p *Parser) languageFor(path string) *sitter.Language {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tsx") || strings.HasSuffix(lower, ".jsx") {
		return p.tsx
	}
	return p.typescript
}

// builder copies what coverage needs out of the tree before it is closed.
type builder struct {
	src []byte
}

func (b *builder) declaration(n *sitter.Node) Declaration {
	start, end := span(n)
	d := Declaration{
		FullStart: fullStart(n),
		Start:     start,
		End:       end,
	}
	b.classify(n, &d)
	return d
}

func (b *builder) classify(n *sitter.Node, d *Declaration) {
	switch n.Kind() {
	case "export_statement":
		b.exportStatement(n, d)

	case "ambient_declaration":
		b.ambientDeclaration(n, d)

	case "expression_statement":
		// `namespace X {}` parses as an expression statement.
		if inner := firstNamedChild(n); inner != nil && inner.Kind() == "internal_module" {
			b.module(inner, d)
		}

	case "class_declaration", "abstract_class_declaration", "class":
		d.Kind = KindClass
		d.Name = b.text(n.ChildByFieldName("name"))
		d.Members = b.members(n.ChildByFieldName("body"))

	case "enum_declaration":
		d.Kind = KindEnum
		d.Name = b.text(n.ChildByFieldName("name"))

	case "function_declaration", "generator_function_declaration", "function_signature",
		"function_expression", "function", "generator_function":
		d.Kind = KindFunction
		d.Name = b.text(n.ChildByFieldName("name"))

	case "interface_declaration":
		d.Kind = KindInterface
		d.Name = b.text(n.ChildByFieldName("name"))

	case "module", "internal_module":
		b.module(n, d)

	case "lexical_declaration", "variable_declaration":
		d.Kind = KindVariable
		d.Name = b.bindingNames(n)
	}
}

func (b *builder) exportStatement(n *sitter.Node, d *Declaration) {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		d.Exported = true
		b.classify(decl, d)
		return
	}

	if value := n.ChildByFieldName("value"); value != nil {
		switch value.Kind() {
		case "class", "function_expression", "function", "generator_function":
			d.Exported = true
			b.classify(value, d)
		}
		return
	}

	if clause := findChildByKind(n, "export_clause"); clause != nil {
		d.Kind = KindReExport
		d.Specifiers = b.exportSpecifiers(clause)
	}
}

func (b *builder) ambientDeclaration(n *sitter.Node, d *Declaration) {
	if findChildByKind(n, "global") != nil {
		d.Kind = KindModule
		d.Name = "global"
		return
	}
	if inner := firstNamedChild(n); inner != nil {
		b.classify(inner, d)
	}
}

func (b *builder) module(n *sitter.Node, d *Declaration) {
	d.Kind = KindModule
	d.Name = moduleName(b.text(n.ChildByFieldName("name")))
}

// moduleName returns the outermost name of a module declaration: quotes are
// removed from `module "x"` and `namespace A.B` yields "A".
func moduleName(name string) string {
	name = strings.TrimSpace(name)
	if unquoted, ok := unquote(name); ok {
		return unquoted
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}

func (b *builder) bindingNames(n *sitter.Node) string {
	var names []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != "variable_declarator" {
			continue
		}
		name := c.ChildByFieldName("name")
		if name != nil && name.Kind() == "identifier" {
			names = append(names, b.text(name))
		} else {
			names = append(names, "")
		}
	}
	return strings.Join(names, ",")
}

func (b *builder) exportSpecifiers(clause *sitter.Node) []ExportSpecifier {
	var specs []ExportSpecifier
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		c := clause.NamedChild(i)
		if c.Kind() != "export_specifier" {
			continue
		}
		name := b.identifierText(c.ChildByFieldName("name"))
		if alias := c.ChildByFieldName("alias"); alias != nil {
			specs = append(specs, ExportSpecifier{PropertyName: name, Name: b.identifierText(alias)})
			continue
		}
		specs = append(specs, ExportSpecifier{Name: name})
	}
	return specs
}

// members collects the methods of a class body. Constructors and get/set
// accessors are not methods.
func (b *builder) members(body *sitter.Node) []Declaration {
	if body == nil {
		return nil
	}

	var out []Declaration
	for i := uint(0); i < body.NamedChildCount(); i++ {
		n := body.NamedChild(i)
		switch n.Kind() {
		case "method_definition", "method_signature", "abstract_method_signature":
		default:
			continue
		}
		if b.isConstructor(n) || isAccessor(n) {
			continue
		}
		out = append(out, b.method(n))
	}
	return out
}

func (b *builder) method(n *sitter.Node) Declaration {
	// Decorators are siblings of the method inside the class body.
	first := n
	for p := n.PrevSibling(); p != nil; p = p.PrevSibling() {
		if p.Kind() == "decorator" {
			first = p
			continue
		}
		if p.Kind() != "comment" {
			break
		}
	}

	start, end := span(n)
	if first != n {
		start = int(first.StartByte())
	}
	if n.Kind() != "method_definition" {
		end = b.extendOverSemicolon(end)
	}

	d := Declaration{
		Kind:      KindMethod,
		FullStart: fullStart(first),
		Start:     start,
		End:       end,
	}
	if name := n.ChildByFieldName("name"); name != nil && name.Kind() == "property_identifier" {
		d.Name = b.text(name)
	}
	return d
}

func (b *builder) isConstructor(n *sitter.Node) bool {
	name := n.ChildByFieldName("name")
	if name == nil {
		return false
	}
	text := b.text(name)
	if unquoted, ok := unquote(text); ok {
		text = unquoted
	}
	return text == "constructor"
}

func isAccessor(n *sitter.Node) bool {
	name := n.ChildByFieldName("name")
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if name != nil && c.StartByte() >= name.StartByte() {
			break
		}
		if !c.IsNamed() && (c.Kind() == "get" || c.Kind() == "set") {
			return true
		}
	}
	return false
}

// extendOverSemicolon moves end past a `;` that follows on the same line.
func (b *builder) extendOverSemicolon(end int) int {
	for i := end; i < len(b.src); i++ {
		switch b.src[i] {
		case ' ', '\t':
			continue
		case ';':
			return i + 1
		}
		break
	}
	return end
}

func (b *builder) moduleSpecifier(n *sitter.Node) string {
	if source := n.ChildByFieldName("source"); source != nil {
		return b.stringValue(source)
	}
	if clause := findChildByKind(n, "import_require_clause"); clause != nil {
		if source := clause.ChildByFieldName("source"); source != nil {
			return b.stringValue(source)
		}
		if str := findChildByKind(clause, "string"); str != nil {
			return b.stringValue(str)
		}
	}
	return ""
}

func (b *builder) dynamicImport(n *sitter.Node) string {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "import" {
		return ""
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	first := firstNamedChild(args)
	if first == nil || first.Kind() != "string" {
		return ""
	}
	return b.stringValue(first)
}

func (b *builder) commentRange(n *sitter.Node) CommentRange {
	c := CommentRange{Pos: int(n.StartByte()), End: int(n.EndByte()), Kind: SingleLineComment}
	if c.End-c.Pos >= 2 && b.src[c.Pos+1] == '*' {
		c.Kind = MultiLineComment
	}
	return c
}

func (b *builder) stringValue(n *sitter.Node) string {
	text := b.text(n)
	if unquoted, ok := unquote(text); ok {
		return unquoted
	}
	return text
}

func (b *builder) identifierText(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "string" {
		return b.stringValue(n)
	}
	return b.text(n)
}

// text extracts the source text of a node.
func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(b.src[n.StartByte():n.EndByte()])
}

// fullStart returns the end of the last real token before n, or 0 when n
// starts the file.
func fullStart(n *sitter.Node) int {
	for cur := n; cur != nil; cur = cur.Parent() {
		for p := cur.PrevSibling(); p != nil; p = p.PrevSibling() {
			if isTrivia(p) {
				continue
			}
			return tokenEnd(p)
		}
	}
	return 0
}

// span returns the byte range of n without leading or trailing comments.
func span(n *sitter.Node) (start, end int) {
	start, end = int(n.StartByte()), int(n.EndByte())
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		if c := n.Child(i); !isTrivia(c) {
			start = int(c.StartByte())
			break
		}
	}
	for i := count; i > 0; i-- {
		if c := n.Child(i - 1); !isTrivia(c) {
			end = tokenEnd(c)
			break
		}
	}
	return start, end
}

// tokenEnd returns the end of the last real token in n. Without a
// semicolon, a comment on the same line is parsed into the statement
// before it and must not count.
func tokenEnd(n *sitter.Node) int {
	for {
		var last *sitter.Node
		for i := n.ChildCount(); i > 0; i-- {
			if c := n.Child(i - 1); !isTrivia(c) {
				last = c
				break
			}
		}
		if last == nil {
			return int(n.EndByte())
		}
		n = last
	}
}

// isTrivia reports comments and zero-width nodes such as inserted semicolons.
func isTrivia(n *sitter.Node) bool {
	return n.Kind() == "comment" || n.StartByte() == n.EndByte()
}

func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	q := s[0]
	if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}

// findChildByKind finds the first direct child of the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

// firstNamedChild returns the first named child that is not a comment.
func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child.Kind() != "comment" {
			return child
		}
	}
	return nil
}
