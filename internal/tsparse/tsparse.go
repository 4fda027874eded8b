// Package tsparse is the Pass-1 TypeScript/JavaScript/JSX parser.
// It walks each file's tree-sitter tree once, emitting File/Import/
// Function/Class/Interface/Variable/TypeAlias/Component/JSXElement/
// JSXAttribute/TailwindClass nodes, and registers every exported
// declaration with the shared tsproject.Project so Pass 2's module
// resolver can look them up without a real language service.
package tsparse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/internal/tsproject"
	"github.com/relgraph/codegraph/model"
)

// GrammarFor returns the tree-sitter grammar for a TS/JS/JSX file, chosen
// by extension rather than model.Language since .tsx needs its own
// grammar distinct from plain .ts. Exported so the Pass-2 resolver can
// re-parse the same file with the same grammar choice.
func GrammarFor(filePath string) *sitter.Language {
	return grammarFor(filePath)
}

func grammarFor(filePath string) *sitter.Language {
	switch {
	case strings.HasSuffix(filePath, ".tsx"):
		return tsx.GetLanguage()
	case strings.HasSuffix(filePath, ".ts"):
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Parse walks one TS/JS/JSX file, emitting into ctx and registering
// exports into proj.
func Parse(goCtx context.Context, ctx *extract.Context, proj *tsproject.Project, source []byte) error {
	grammar := grammarFor(ctx.FilePath)
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(goCtx, nil, source)
	if err != nil {
		return fmt.Errorf("tsparse: parse: %w", err)
	}
	root := tree.RootNode()

	filePath := ident.NormalizePath(ctx.FilePath)
	fileID := ident.File(filePath)
	sl, el, sc, ec := tsitparse.Loc(root)
	ctx.Emit(fileID, model.KindFile, baseName(filePath), sl, el, sc, ec, "", nil)
	proj.EnsureFile(filePath, fileID)

	p := &parser2{ctx: ctx, source: source, fileID: fileID, filePath: filePath, proj: proj, tailwind: map[string]string{}}

	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		p.topLevel(root.Child(i), false, false)
	}
	return nil
}

type parser2 struct {
	ctx      *extract.Context
	source   []byte
	fileID   string
	filePath string
	proj     *tsproject.Project
	tailwind map[string]string // class string -> entityId, cached per file
}

func (p *parser2) text(n *sitter.Node) string { return tsitparse.Text(n, p.source) }

func (p *parser2) topLevel(n *sitter.Node, isExported, isDefault bool) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "export_statement":
		p.exportStatement(n)
	case "import_statement":
		p.importStatement(n)
	case "function_declaration", "generator_function_declaration":
		p.functionDeclaration(n, isExported, isDefault)
	case "class_declaration":
		p.classDeclaration(n, isExported, isDefault)
	case "interface_declaration":
		p.interfaceDeclaration(n, isExported)
	case "type_alias_declaration":
		p.typeAliasDeclaration(n, isExported, false)
	case "enum_declaration":
		p.typeAliasDeclaration(n, isExported, true)
	case "lexical_declaration", "variable_declaration":
		p.variableDeclarations(n, isExported)
	}
}

func (p *parser2) exportStatement(n *sitter.Node) {
	isDefault := false
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c != nil && c.Type() == "default" {
			isDefault = true
		}
	}
	decl := tsitparse.ChildByField(n, "declaration")
	if decl != nil {
		p.topLevel(decl, true, isDefault)
		return
	}
	// export { name1, name2 } or export default <expr> with no named decl
	// node: re-exports are out of scope for this pass; nothing further to
	// emit here beyond the (already-parsed) declarations.
}

func (p *parser2) importStatement(n *sitter.Node) {
	sourceNode := tsitparse.ChildByField(n, "source")
	moduleSpecifier := strings.Trim(p.text(sourceNode), `"'`)
	sl, el, sc, ec := tsitparse.Loc(n)

	var namedImports []string
	var defaultImport, namespaceImport string
	isTypeOnly := false

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Type() == "type" {
			isTypeOnly = true
		}
		if c.Type() == "import_clause" {
			cc := int(c.ChildCount())
			for j := 0; j < cc; j++ {
				cl := c.Child(j)
				if cl == nil {
					continue
				}
				switch cl.Type() {
				case "identifier":
					defaultImport = p.text(cl)
				case "namespace_import":
					namespaceImport = strings.TrimSpace(strings.TrimPrefix(p.text(cl), "*"))
				case "named_imports":
					tsitparse.Walk(cl, func(x *sitter.Node) bool {
						if x.Type() == "import_specifier" {
							var nameNode *sitter.Node
							xc := int(x.ChildCount())
							for k := 0; k < xc; k++ {
								id := x.Child(k)
								if id != nil && id.Type() == "identifier" {
									nameNode = id
								}
							}
							if nameNode != nil {
								namedImports = append(namedImports, p.text(nameNode))
							}
							return false
						}
						return true
					})
				}
			}
		}
	}

	id := ident.ImportLike(model.KindImport, p.filePath, moduleSpecifier, sl)
	p.ctx.Emit(id, model.KindImport, moduleSpecifier, sl, el, sc, ec, p.fileID, map[string]any{
		"moduleSpecifier": moduleSpecifier,
		"namedImports":    namedImports,
		"defaultImport":   defaultImport,
		"namespaceImport": namespaceImport,
		"isTypeOnly":      isTypeOnly,
	})
	p.relate(model.RelImports, p.fileID, id, 5, nil)
}

func (p *parser2) functionDeclaration(n *sitter.Node, isExported, isDefault bool) {
	nameNode := tsitparse.ChildByField(n, "name")
	name := p.text(nameNode)
	if name == "" {
		name = "anonymousLambda"
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.FunctionLike(model.KindFunction, p.filePath, name, sl)

	isAsync := hasChildOfType(n, "async")
	isGenerator := n.Type() == "generator_function_declaration"
	complexity := cyclomaticComplexity(n)

	p.ctx.Emit(id, model.KindFunction, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported":  isExported,
		"isAsync":     isAsync,
		"isGenerator": isGenerator,
		"complexity":  complexity,
		"returnType":  p.text(tsitparse.ChildByField(n, "return_type")),
	})
	p.relate(model.RelDefinesFunction, p.fileID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(n, "parameters"))

	if isExported {
		p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindFunction, EntityID: id, IsDefaultExport: isDefault})
	}
	if isComponentCandidate(name, n, p.source) {
		p.component(id, name, n, isExported, isDefault)
	}
	p.scanNestedFunctions(id, tsitparse.ChildByField(n, "body"))
}

func (p *parser2) classDeclaration(n *sitter.Node, isExported, isDefault bool) {
	nameNode := tsitparse.ChildByField(n, "name")
	name := p.text(nameNode)
	if name == "" {
		p.ctx.Log.Warn("tsparse: class_declaration missing name, skipping", "file", p.filePath)
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Container(model.KindClass, p.filePath, name)
	p.ctx.Emit(id, model.KindClass, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported": isExported,
	})
	p.relate(model.RelDefinesClass, p.fileID, id, 8, nil)

	if isExported {
		p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindClass, EntityID: id, IsDefaultExport: isDefault})
	}

	heritage := tsitparse.ChildByField(n, "heritage")
	if heritage != nil {
		p.classHeritage(id, heritage)
	}

	body := tsitparse.ChildByField(n, "body")
	if body != nil {
		count := int(body.ChildCount())
		for i := 0; i < count; i++ {
			p.classMember(id, body.Child(i))
		}
	}

	if isComponentCandidate(name, n, p.source) {
		p.component(id, name, n, isExported, isDefault)
	}
}

func (p *parser2) classHeritage(classID string, heritage *sitter.Node) {
	count := int(heritage.ChildCount())
	for i := 0; i < count; i++ {
		clause := heritage.Child(i)
		if clause == nil {
			continue
		}
		var rel model.RelType
		switch clause.Type() {
		case "extends_clause":
			rel = model.RelExtends
		case "implements_clause":
			rel = model.RelImplements
		default:
			continue
		}
		cc := int(clause.ChildCount())
		for j := 0; j < cc; j++ {
			id := clause.Child(j)
			if id == nil || (id.Type() != "identifier" && id.Type() != "type_identifier") {
				continue
			}
			name := p.text(id)
			targetID := ident.Container(model.KindClass, p.filePath, name)
			p.relate(rel, classID, targetID, 7, map[string]any{"isPlaceholder": true, "baseName": name})
		}
	}
}

func (p *parser2) classMember(classID string, n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "method_definition":
		p.methodDefinition(classID, n)
	case "public_field_definition":
		p.fieldDefinition(classID, n)
	}
}

func (p *parser2) methodDefinition(classID string, n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	name := p.text(nameNode)
	if name == "" {
		p.ctx.Log.Warn("tsparse: method_definition missing name, skipping", "file", p.filePath)
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Method(model.KindMethod, p.filePath, classID, name)

	visibility := model.VisibilityPublic
	if hasChildOfType(n, "private") {
		visibility = model.VisibilityPrivate
	} else if hasChildOfType(n, "protected") {
		visibility = model.VisibilityProtected
	}

	p.ctx.Emit(id, model.KindMethod, name, sl, el, sc, ec, classID, map[string]any{
		"visibility": visibility,
		"isStatic":   hasChildOfType(n, "static"),
		"isAsync":    hasChildOfType(n, "async"),
		"complexity": cyclomaticComplexity(n),
		"returnType": p.text(tsitparse.ChildByField(n, "return_type")),
	})
	p.relate(model.RelHasMethod, classID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(n, "parameters"))
	p.scanNestedFunctions(id, tsitparse.ChildByField(n, "body"))
}

func (p *parser2) fieldDefinition(classID string, n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "property")
	if nameNode == nil {
		nameNode = tsitparse.ChildByField(n, "name")
	}
	name := p.text(nameNode)
	if name == "" {
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Build(model.KindField, classID+":"+name)
	p.ctx.Emit(id, model.KindField, name, sl, el, sc, ec, classID, nil)
	p.relate(model.RelHasField, classID, id, 6, nil)
}

func (p *parser2) interfaceDeclaration(n *sitter.Node, isExported bool) {
	nameNode := tsitparse.ChildByField(n, "name")
	name := p.text(nameNode)
	if name == "" {
		p.ctx.Log.Warn("tsparse: interface_declaration missing name, skipping", "file", p.filePath)
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Container(model.KindInterface, p.filePath, name)
	p.ctx.Emit(id, model.KindInterface, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported": isExported,
	})
	p.relate(model.RelDefinesInterface, p.fileID, id, 8, nil)
	if isExported {
		p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindInterface, EntityID: id})
	}

	body := tsitparse.ChildByField(n, "body")
	if body == nil {
		return
	}
	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		member := body.Child(i)
		if member == nil || member.Type() != "method_signature" {
			continue
		}
		memberName := p.text(tsitparse.ChildByField(member, "name"))
		if memberName == "" {
			continue
		}
		msl, mel, msc, mec := tsitparse.Loc(member)
		mid := ident.Method(model.KindMethod, p.filePath, id, memberName)
		p.ctx.Emit(mid, model.KindMethod, memberName, msl, mel, msc, mec, id, map[string]any{
			"isSignature": true,
		})
		p.relate(model.RelHasMethod, id, mid, 6, nil)
	}
}

func (p *parser2) typeAliasDeclaration(n *sitter.Node, isExported, isEnum bool) {
	nameNode := tsitparse.ChildByField(n, "name")
	name := p.text(nameNode)
	if name == "" {
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Container(model.KindTypeAlias, p.filePath, name)
	p.ctx.Emit(id, model.KindTypeAlias, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported": isExported,
		"isEnum":     isEnum,
	})
	if isExported {
		p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindTypeAlias, EntityID: id})
	}
}

func (p *parser2) variableDeclarations(n *sitter.Node, isExported bool) {
	isConstant := strings.HasPrefix(p.text(n), "const")
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		decl := n.Child(i)
		if decl == nil || decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := tsitparse.ChildByField(decl, "name")
		name := p.text(nameNode)
		if name == "" {
			continue
		}
		value := tsitparse.ChildByField(decl, "value")
		if value != nil && (value.Type() == "arrow_function" || value.Type() == "function_expression" || value.Type() == "generator_function") {
			p.variableFunctionLike(name, value, isExported)
			continue
		}
		sl, el, sc, ec := tsitparse.Loc(decl)
		id := ident.Variable(model.KindVariable, p.filePath, name, sl)
		p.ctx.Emit(id, model.KindVariable, name, sl, el, sc, ec, p.fileID, map[string]any{
			"isConstant": isConstant,
			"isExported": isExported,
		})
		if isExported {
			p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindVariable, EntityID: id})
		}
	}
}

func (p *parser2) variableFunctionLike(name string, fn *sitter.Node, isExported bool) {
	sl, el, sc, ec := tsitparse.Loc(fn)
	id := ident.FunctionLike(model.KindFunction, p.filePath, name, sl)
	p.ctx.Emit(id, model.KindFunction, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported":  isExported,
		"isAsync":     hasChildOfType(fn, "async"),
		"isGenerator": fn.Type() == "generator_function",
		"complexity":  cyclomaticComplexity(fn),
		"returnType":  p.text(tsitparse.ChildByField(fn, "return_type")),
	})
	p.relate(model.RelDefinesFunction, p.fileID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(fn, "parameters"))
	if isExported {
		p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindFunction, EntityID: id})
	}
	if isComponentCandidate(name, fn, p.source) {
		p.component(id, name, fn, isExported, false)
	}
	p.scanNestedFunctions(id, tsitparse.ChildByField(fn, "body"))
}

// scanNestedFunctions walks a function/method body looking for
// function-likes nested inside it: local function declarations, a
// function expression or arrow function assigned to a local variable,
// and inline callback arguments to call expressions
// (arr.map(x => ...), setTimeout(function(){...})). Each is emitted as
// its own Function node — named after its variable when bound,
// `callback_<caller>_arg<N>` when passed inline, `anonymousLambda`
// otherwise — parented to the enclosing function-like via CONTAINS, and
// its own body is in turn scanned recursively.
func (p *parser2) scanNestedFunctions(parentID string, n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		name := p.text(tsitparse.ChildByField(n, "name"))
		if name == "" {
			name = "anonymousLambda"
		}
		p.nestedFunctionLike(parentID, n, name)
		return
	case "function_expression", "arrow_function", "generator_function":
		p.nestedFunctionLike(parentID, n, "anonymousLambda")
		return
	case "call_expression":
		p.scanCallArguments(parentID, n)
		return
	case "variable_declarator":
		value := tsitparse.ChildByField(n, "value")
		name := p.text(tsitparse.ChildByField(n, "name"))
		if value != nil && name != "" && isFunctionLikeNode(value) {
			p.nestedFunctionLike(parentID, value, name)
			return
		}
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		p.scanNestedFunctions(parentID, n.Child(i))
	}
}

// scanCallArguments names and emits each function-like argument to a
// call expression as a nested Function node, then keeps scanning the
// callee and the remaining arguments for further nested function-likes.
func (p *parser2) scanCallArguments(parentID string, call *sitter.Node) {
	calleeNode := tsitparse.ChildByField(call, "function")
	calleeName := p.calleeNameFor(calleeNode)
	args := tsitparse.ChildByField(call, "arguments")
	if args != nil {
		argCount := int(args.NamedChildCount())
		for i := 0; i < argCount; i++ {
			arg := args.NamedChild(i)
			if arg == nil {
				continue
			}
			if isFunctionLikeNode(arg) {
				name := fmt.Sprintf("callback_%s_arg%d", calleeName, i+1)
				p.nestedFunctionLike(parentID, arg, name)
				continue
			}
			p.scanNestedFunctions(parentID, arg)
		}
	}
	if calleeNode != nil {
		p.scanNestedFunctions(parentID, calleeNode)
	}
}

// calleeNameFor extracts a best-effort name for a call's callee, used
// only to build the callback_<caller>_argN synthetic name.
func (p *parser2) calleeNameFor(fn *sitter.Node) string {
	if fn == nil {
		return "anonymous"
	}
	switch fn.Type() {
	case "identifier":
		return p.text(fn)
	case "member_expression":
		if prop := tsitparse.ChildByField(fn, "property"); prop != nil {
			return p.text(prop)
		}
	}
	return "anonymous"
}

// nestedFunctionLike emits a Function node for a function-like that is
// not itself a top-level/class-member declaration, parented to the
// enclosing function-like rather than to the file.
func (p *parser2) nestedFunctionLike(parentID string, fn *sitter.Node, name string) {
	sl, el, sc, ec := tsitparse.Loc(fn)
	id := ident.FunctionLike(model.KindFunction, p.filePath, name, sl)
	p.ctx.Emit(id, model.KindFunction, name, sl, el, sc, ec, parentID, map[string]any{
		"isAsync":     hasChildOfType(fn, "async"),
		"isGenerator": fn.Type() == "generator_function" || fn.Type() == "generator_function_declaration",
		"complexity":  cyclomaticComplexity(fn),
		"returnType":  p.text(tsitparse.ChildByField(fn, "return_type")),
	})
	p.relate(model.RelContains, parentID, id, 6, nil)
	p.parameters(id, tsitparse.ChildByField(fn, "parameters"))
	if isComponentCandidate(name, fn, p.source) {
		p.component(id, name, fn, false, false)
	}
	p.scanNestedFunctions(id, tsitparse.ChildByField(fn, "body"))
}

// isFunctionLikeNode reports whether n is any function-declaration,
// function-expression, arrow-function, or generator variant.
func isFunctionLikeNode(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "function_expression", "arrow_function", "generator_function",
		"function_declaration", "generator_function_declaration":
		return true
	}
	return false
}

func (p *parser2) parameters(funcID string, params *sitter.Node) {
	if params == nil {
		return
	}
	count := int(params.ChildCount())
	for i := 0; i < count; i++ {
		decl := params.Child(i)
		if decl == nil {
			continue
		}
		var nameNode *sitter.Node
		switch decl.Type() {
		case "required_parameter", "optional_parameter":
			nameNode = tsitparse.ChildByField(decl, "pattern")
		case "identifier":
			nameNode = decl
		default:
			continue
		}
		if nameNode == nil {
			continue
		}
		name := p.text(nameNode)
		if name == "" {
			continue
		}
		sl, el, sc, ec := tsitparse.Loc(decl)
		paramID := ident.Parameter(funcID, name)
		p.ctx.Emit(paramID, model.KindParameter, name, sl, el, sc, ec, funcID, nil)
		p.relate(model.RelHasParameter, funcID, paramID, 6, nil)
	}
}

// component emits a Component node plus its JSX descendants for a
// declaration already identified as a React-component candidate.
func (p *parser2) component(declID, name string, n *sitter.Node, isExported, isDefault bool) {
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Build(model.KindComponent, p.filePath+":"+name+":"+strconv.Itoa(sl))
	p.ctx.Emit(id, model.KindComponent, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported":        isExported,
		"isDefaultExport":   isDefault,
		"declarationEntity": declID,
	})
	if isExported {
		p.proj.RecordExport(p.filePath, tsproject.ExportedDecl{Name: name, Kind: model.KindComponent, EntityID: id, IsDefaultExport: isDefault})
	}
	tsitparse.Walk(n, func(jsx *sitter.Node) bool {
		switch jsx.Type() {
		case "jsx_element", "jsx_self_closing_element":
			p.jsxElement(id, jsx)
			return jsx.Type() != "jsx_self_closing_element"
		}
		return true
	})
}

func (p *parser2) jsxElement(componentID string, n *sitter.Node) {
	var opening *sitter.Node
	if n.Type() == "jsx_self_closing_element" {
		opening = n
	} else {
		opening = tsitparse.ChildByField(n, "open_tag")
	}
	if opening == nil {
		return
	}
	nameNode := tsitparse.ChildByField(opening, "name")
	tagName := p.text(nameNode)
	if tagName == "" {
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Build(model.KindJSXElement, componentID+":"+tagName+":"+strconv.Itoa(sl))
	p.ctx.Emit(id, model.KindJSXElement, tagName, sl, el, sc, ec, componentID, nil)
	p.relate(model.RelRendersElement, componentID, id, 5, nil)

	count := int(opening.ChildCount())
	for i := 0; i < count; i++ {
		attr := opening.Child(i)
		if attr == nil || attr.Type() != "jsx_attribute" {
			continue
		}
		p.jsxAttribute(id, attr)
	}
}

func (p *parser2) jsxAttribute(elementID string, n *sitter.Node) {
	// jsx_attribute has no field names: the name is its first named
	// child and the value, when present, its last.
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil && n.NamedChildCount() > 0 {
		nameNode = n.NamedChild(0)
	}
	attrName := p.text(nameNode)
	if attrName == "" {
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Build(model.KindJSXAttribute, elementID+":"+attrName)
	p.ctx.Emit(id, model.KindJSXAttribute, attrName, sl, el, sc, ec, elementID, nil)
	p.relate(model.RelHasProp, elementID, id, 4, nil)

	if attrName != "className" {
		return
	}
	value := tsitparse.ChildByField(n, "value")
	if value == nil && n.NamedChildCount() > 1 {
		value = n.NamedChild(int(n.NamedChildCount()) - 1)
	}
	raw := strings.Trim(p.text(value), `"'{}`+"`")
	for _, class := range strings.Fields(raw) {
		p.tailwindClass(id, class)
	}
}

func (p *parser2) tailwindClass(attrID, class string) {
	twID, ok := p.tailwind[class]
	if !ok {
		twID = ident.Build(model.KindTailwindClass, p.filePath+":"+class)
		p.ctx.Emit(twID, model.KindTailwindClass, class, 0, 0, 0, 0, "", nil)
		p.tailwind[class] = twID
	}
	p.relate(model.RelUsesTailwindClass, attrID, twID, 3, nil)
}

func (p *parser2) relate(typ model.RelType, source, target string, weight int, props map[string]any) {
	id := ident.Relationship(typ, source, target, 0)
	p.ctx.Relate(id, typ, source, target, weight, props)
}

// cyclomaticComplexity starts at 1 and adds one for each branching
// construct inside n's body.
func cyclomaticComplexity(n *sitter.Node) int {
	complexity := 1
	tsitparse.Walk(n, func(c *sitter.Node) bool {
		switch c.Type() {
		case "if_statement", "for_statement", "for_in_statement", "while_statement",
			"do_statement", "switch_case", "catch_clause", "ternary_expression":
			complexity++
		case "&&", "||", "??":
			complexity++
		}
		// Don't descend into nested function-likes: their complexity is
		// counted separately when scanNestedFunctions visits them as their
		// own Function node.
		switch c.Type() {
		case "function_declaration", "function_expression", "arrow_function",
			"generator_function_declaration", "generator_function", "method_definition":
			return c == n
		}
		return true
	})
	return complexity
}

func hasChildOfType(n *sitter.Node, typ string) bool {
	if n == nil {
		return false
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c != nil && c.Type() == typ {
			return true
		}
	}
	return false
}

// isComponentCandidate applies the three alternative conditions in :
// PascalCase name plus (JSX return/descendant) or a React element type
// annotation.
func isComponentCandidate(name string, n *sitter.Node, source []byte) bool {
	if name == "" || !isPascalCase(name) {
		return false
	}
	hasJSX := false
	tsitparse.Walk(n, func(c *sitter.Node) bool {
		if c.Type() == "jsx_element" || c.Type() == "jsx_self_closing_element" || c.Type() == "jsx_fragment" {
			hasJSX = true
			return false
		}
		return true
	})
	if hasJSX {
		return true
	}
	returnType := tsitparse.FieldText(n, "return_type", source)
	for _, marker := range []string{"JSX.Element", "ReactElement", "React.FC"} {
		if strings.Contains(returnType, marker) {
			return true
		}
	}
	return false
}

func isPascalCase(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
