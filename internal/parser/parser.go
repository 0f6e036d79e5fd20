package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/paperpack/paperpack/pkg/types"
)

const (
	// MaxMembers bounds the member signatures recorded per container;
	// overflow is summarized with a "+N more" marker
	MaxMembers = 10
	// MaxParams bounds the parameters rendered per signature
	MaxParams = 6
	// MaxImports bounds the import statements recorded per file
	MaxImports = 10
	// MaxDescLen bounds the truncated doc comment length in characters
	MaxDescLen = 200
)

// DefaultSkips matches files excluded before parsing: tests,
// initializer-only files, and generated code.
var DefaultSkips = []*regexp.Regexp{
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`(^|/)doc\.go$`),
	regexp.MustCompile(`\.pb\.go$`),
	regexp.MustCompile(`_gen\.go$`),
	regexp.MustCompile(`(^|/)vendor/`),
	regexp.MustCompile(`(^|/)\.`),
}

// ShouldSkip reports whether a relative path matches the default skip list.
func ShouldSkip(relPath string) bool {
	for _, re := range DefaultSkips {
		if re.MatchString(relPath) {
			return true
		}
	}
	return false
}

// Result is the output of extracting one source file.
type Result struct {
	Source      string
	PackageName string
	Imports     []string // capped at MaxImports with a "+N more" marker
	Units       []types.Unit
	Warnings    []types.Warning
	TotalLines  int
}

// Extractor handles AST-based structural extraction of Go source files.
type Extractor struct {
	fset *token.FileSet
}

// New creates a new Extractor instance.
func New() *Extractor {
	return &Extractor{fset: token.NewFileSet()}
}

// ExtractFile parses a Go source file and extracts its top-level units.
// Read failures return an error; syntax errors are recorded as warnings on
// the result and extraction continues with whatever partial AST exists.
func (e *Extractor) ExtractFile(path string, tier types.Tier) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return e.Extract(path, string(content), tier)
}

// Extract parses source held in memory. The name is used for spans,
// warnings, and the resulting units' Source field.
func (e *Extractor) Extract(name, content string, tier types.Tier) (*Result, error) {
	result := &Result{Source: name}
	lines := strings.Split(content, "\n")
	result.TotalLines = len(lines)

	file, err := parser.ParseFile(e.fset, name, content, parser.ParseComments)
	if err != nil {
		// Non-fatal: the Go parser may still return a partial AST
		pe := &types.ParseError{Input: name, Message: fmt.Sprintf("syntax error: %v", err)}
		result.Warnings = append(result.Warnings, pe.Warning())
	}
	if file == nil {
		return result, nil
	}

	if file.Name != nil {
		result.PackageName = file.Name.Name
	}
	result.Imports = e.extractImports(file)

	b := &unitBuilder{
		fset:   e.fset,
		source: name,
		lines:  lines,
		tier:   tier,
		byName: make(map[string]int),
	}

	// Types first so methods can attach regardless of declaration order;
	// finish() restores source order.
	for _, decl := range file.Decls {
		if d, ok := decl.(*ast.GenDecl); ok {
			b.addGenDecl(d)
		}
	}
	for _, decl := range file.Decls {
		if d, ok := decl.(*ast.FuncDecl); ok {
			b.addFunc(d)
		}
	}
	b.finish()

	result.Units = b.units
	return result, nil
}

// extractImports renders import statements, capped at MaxImports.
func (e *Extractor) extractImports(file *ast.File) []string {
	imports := make([]string, 0, len(file.Imports))
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if imp.Name != nil {
			imports = append(imports, fmt.Sprintf("import %s %q", imp.Name.Name, path))
		} else {
			imports = append(imports, fmt.Sprintf("import %q", path))
		}
	}
	if len(imports) > MaxImports {
		extra := len(imports) - MaxImports
		imports = append(imports[:MaxImports], fmt.Sprintf("+%d more", extra))
	}
	return imports
}

// unitBuilder accumulates top-level units for one file, attaching methods
// to their receiver's container unit.
type unitBuilder struct {
	fset   *token.FileSet
	source string
	lines  []string
	tier   types.Tier
	units  []types.Unit
	byName map[string]int // container name -> index into units
}

func (b *unitBuilder) span(node ast.Node) (int, int) {
	return b.fset.Position(node.Pos()).Line, b.fset.Position(node.End()).Line
}

// slice returns the source text for an inclusive 1-based line range.
func (b *unitBuilder) slice(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(b.lines[start-1:end], "\n")
}

func (b *unitBuilder) addGenDecl(decl *ast.GenDecl) {
	switch decl.Tok {
	case token.TYPE:
		for _, spec := range decl.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			b.addTypeSpec(decl, ts)
		}
	case token.CONST, token.VAR:
		b.addValueDecl(decl)
	}
}

func (b *unitBuilder) addTypeSpec(decl *ast.GenDecl, ts *ast.TypeSpec) {
	start, end := b.span(decl)
	u := types.Unit{
		Name:      ts.Name.Name,
		Kind:      types.KindType,
		Source:    b.source,
		Desc:      truncateDoc(firstDoc(ts.Doc, decl.Doc)),
		Tier:      b.tier,
		StartLine: start,
		EndLine:   end,
		Content:   b.slice(start, end),
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		u.Bases = embeddedStructBases(t)
	case *ast.InterfaceType:
		u.Bases, u.Members = interfaceMembers(t)
	}

	u.ComputeTokens()
	b.byName[u.Name] = len(b.units)
	b.units = append(b.units, u)
}

func (b *unitBuilder) addValueDecl(decl *ast.GenDecl) {
	name := ""
	for _, spec := range decl.Specs {
		if vs, ok := spec.(*ast.ValueSpec); ok && len(vs.Names) > 0 {
			name = vs.Names[0].Name
			break
		}
	}
	if name == "" {
		return
	}

	start, end := b.span(decl)
	u := types.Unit{
		Name:      name,
		Kind:      types.KindValue,
		Source:    b.source,
		Desc:      truncateDoc(docText(decl.Doc)),
		Tier:      b.tier,
		StartLine: start,
		EndLine:   end,
		Content:   b.slice(start, end),
	}
	u.ComputeTokens()
	b.units = append(b.units, u)
}

func (b *unitBuilder) addFunc(decl *ast.FuncDecl) {
	start, end := b.span(decl)
	u := types.Unit{
		Name:      decl.Name.Name,
		Kind:      types.KindFunction,
		Source:    b.source,
		Desc:      truncateDoc(docText(decl.Doc)),
		Tier:      b.tier,
		StartLine: start,
		EndLine:   end,
		Content:   b.slice(start, end),
	}
	u.ComputeTokens()

	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		u.Kind = types.KindMethod
		recv := receiverName(decl.Recv.List[0].Type)
		if idx, ok := b.byName[recv]; ok {
			// Absorbed into the container: child unit plus member signature
			b.units[idx].Children = append(b.units[idx].Children, u)
			b.units[idx].Members = append(b.units[idx].Members, methodSignature(decl))
			return
		}
		// Receiver type declared in another file: keep as top level
	}

	b.units = append(b.units, u)
}

// finish folds child content into containers, caps member lists, and
// restores declaration order.
func (b *unitBuilder) finish() {
	for i := range b.units {
		u := &b.units[i]
		if len(u.Children) > 0 {
			parts := make([]string, 0, len(u.Children)+1)
			parts = append(parts, u.Content)
			for _, c := range u.Children {
				parts = append(parts, c.Content)
			}
			u.Content = strings.Join(parts, "\n\n")
			u.ComputeTokens()
		}
		if len(u.Members) > MaxMembers {
			extra := len(u.Members) - MaxMembers
			u.Members = append(u.Members[:MaxMembers], fmt.Sprintf("+%d more", extra))
		}
	}
	sort.SliceStable(b.units, func(i, j int) bool {
		return b.units[i].StartLine < b.units[j].StartLine
	})
}

// receiverName extracts the receiver type name from a method declaration.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// methodSignature renders "name(params)" with the parameter list capped.
func methodSignature(decl *ast.FuncDecl) string {
	return fmt.Sprintf("%s(%s)", decl.Name.Name, paramList(decl.Type.Params))
}

// paramList renders a parameter list, truncated to MaxParams entries.
func paramList(fields *ast.FieldList) string {
	if fields == nil || len(fields.List) == 0 {
		return ""
	}

	var parts []string
	for _, field := range fields.List {
		typeStr := exprString(field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, typeStr)
			continue
		}
		for _, name := range field.Names {
			parts = append(parts, fmt.Sprintf("%s %s", name.Name, typeStr))
		}
	}

	if len(parts) > MaxParams {
		parts = append(parts[:MaxParams], "...")
	}
	return strings.Join(parts, ", ")
}

// embeddedStructBases collects embedded field type names from a struct.
func embeddedStructBases(st *ast.StructType) []string {
	if st.Fields == nil {
		return nil
	}
	var bases []string
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			bases = append(bases, exprString(field.Type))
		}
	}
	return bases
}

// interfaceMembers collects embedded interface names and method signatures.
func interfaceMembers(it *ast.InterfaceType) (bases, members []string) {
	if it.Methods == nil {
		return nil, nil
	}
	for _, field := range it.Methods.List {
		if len(field.Names) == 0 {
			bases = append(bases, exprString(field.Type))
			continue
		}
		if ft, ok := field.Type.(*ast.FuncType); ok {
			members = append(members, fmt.Sprintf("%s(%s)", field.Names[0].Name, paramList(ft.Params)))
		}
	}
	return bases, members
}

// exprString renders a type expression compactly.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.FuncType:
		return "func(" + paramList(t.Params) + ")"
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.StructType:
		return "struct{}"
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	default:
		return "any"
	}
}

// firstDoc returns the first non-empty doc comment of the candidates.
func firstDoc(docs ...*ast.CommentGroup) string {
	for _, d := range docs {
		if text := docText(d); text != "" {
			return text
		}
	}
	return ""
}

func docText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// truncateDoc bounds a doc comment to MaxDescLen with an ellipsis marker.
func truncateDoc(text string) string {
	if len(text) <= MaxDescLen {
		return text
	}
	return text[:MaxDescLen] + "..."
}
