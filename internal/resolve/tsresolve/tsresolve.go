// Package tsresolve implements the TypeScript/JavaScript Pass-2 resolver:
// module resolution, inheritance, cross-file call/mutation scanning,
// error-handling edges, and component usage.
//
// `getTargetDeclarationInfo`'s five-step contract is implemented
// against tsproject.Project's per-file export index rather than an
// actual TypeScript language service — no such service exists in Go —
// but the same shape is preserved: resolve a name to a declaration,
// follow import aliases, and derive the declaration's entityId.
package tsresolve

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/internal/tsparse"
	"github.com/relgraph/codegraph/internal/tsproject"
	"github.com/relgraph/codegraph/model"
)

// SourceReader reads a file's content for the re-parse calls/mutations
// scanning needs (Pass 1's tree is not retained across the merge).
type SourceReader func(filePath string) ([]byte, error)

// Resolve runs every TS/JS resolver over idx and returns the edges they
// produce. existing is the full placeholder-inclusive relationship set
// Pass 1 already emitted; each placeholder inheritance edge within it
// whose base resolves to a same-file class or interface yields an
// additional resolved edge, and the placeholder itself is not modified.
func Resolve(goCtx context.Context, idx *nodeindex.Index, proj *tsproject.Project, existing []model.Relationship, read SourceReader, log *slog.Logger) []model.Relationship {
	if log == nil {
		log = slog.Default()
	}

	var edges []model.Relationship
	edges = append(edges, modules(idx, proj)...)
	edges = append(edges, upgradeInheritance(idx, existing)...)
	edges = append(edges, componentUsage(idx)...)
	edges = append(edges, callsAndErrors(goCtx, idx, proj, read, log)...)
	return edges
}

// declarationOrder is the kind search order used for named-import
// resolution, reused for any same-file/imported symbol lookup.
var declarationOrder = []model.Kind{
	model.KindFunction, model.KindClass, model.KindInterface, model.KindVariable,
	model.KindComponent, model.KindTypeAlias,
}

// resolveSymbol looks up name first among filePath's own declarations,
// then (if unresolved) through filePath's recorded imports, following a
// module specifier to the exporting file and its export index.
func resolveSymbol(idx *nodeindex.Index, proj *tsproject.Project, filePath, name string) (string, bool) {
	for _, kind := range declarationOrder {
		for _, n := range idx.ByFileAndName(filePath, name) {
			if n.Kind == kind {
				return n.EntityID, true
			}
		}
	}
	for _, imp := range idx.ByFile(filePath) {
		if imp.Kind != model.KindImport {
			continue
		}
		specifier, _ := imp.Properties["moduleSpecifier"].(string)
		if specifier == "" {
			continue
		}
		resolved, ok := proj.ResolveModuleSpecifier(filePath, specifier)
		if !ok {
			continue
		}
		named, _ := imp.Properties["namedImports"].([]string)
		for _, n := range named {
			if n != name {
				continue
			}
			if decl, ok := proj.LookupExport(resolved, name); ok {
				return decl.EntityID, true
			}
		}
		if def, _ := imp.Properties["defaultImport"].(string); def == name {
			if decl, ok := proj.LookupExport(resolved, "default"); ok {
				return decl.EntityID, true
			}
		}
	}
	return "", false
}

// modules implements the module resolver: for each Import node,
// resolve its module specifier to a file, emit File-IMPORTS->File, and
// emit Import-RESOLVES_IMPORT->declaration for each named/default/
// namespace binding it introduces.
func modules(idx *nodeindex.Index, proj *tsproject.Project) []model.Relationship {
	var edges []model.Relationship
	for _, imp := range idx.NodesOfKind(model.KindImport) {
		specifier, _ := imp.Properties["moduleSpecifier"].(string)
		if specifier == "" {
			continue
		}
		sourceFileID := ident.File(imp.FilePath)
		resolvedPath, found := proj.ResolveModuleSpecifier(imp.FilePath, specifier)
		targetFileID := ident.File(resolvedPath)
		if !found {
			targetFileID = ident.Build(model.KindFile, specifier)
		}
		edges = append(edges, relationship(model.RelImports, sourceFileID, targetFileID, 5, map[string]any{
			"isPlaceholder": !found,
		}))
		if !found {
			continue
		}

		named, _ := imp.Properties["namedImports"].([]string)
		for _, name := range named {
			for _, kind := range declarationOrder {
				if decl, ok := idx.FindByKindAndExportFlag(resolvedPath, name, kind, "isExported"); ok {
					edges = append(edges, relationship(model.RelResolvesImport, imp.EntityID, decl.EntityID, 6, nil))
					break
				}
			}
		}
		if defaultImport, _ := imp.Properties["defaultImport"].(string); defaultImport != "" {
			if decl, ok := idx.FindDefaultExport(resolvedPath); ok {
				edges = append(edges, relationship(model.RelResolvesImport, imp.EntityID, decl.EntityID, 6, nil))
			}
		}
		if namespaceImport, _ := imp.Properties["namespaceImport"].(string); namespaceImport != "" {
			if fileNode, ok := idx.FileNode(resolvedPath); ok {
				edges = append(edges, relationship(model.RelResolvesImport, imp.EntityID, fileNode.EntityID, 6, nil))
			}
		}
	}
	return edges
}

// upgradeInheritance re-targets the placeholder EXTENDS/IMPLEMENTS edges
// Pass 1 emitted (always same-file targets, since Pass 1 has no
// cross-file visibility) when the base name resolves to a same-file
// Class or Interface; imported base types are not looked up.
func upgradeInheritance(idx *nodeindex.Index, existing []model.Relationship) []model.Relationship {
	var edges []model.Relationship
	for _, rel := range existing {
		if rel.Type != model.RelExtends && rel.Type != model.RelImplements {
			continue
		}
		if !rel.IsPlaceholder() {
			continue
		}
		name, _ := rel.Properties["baseName"].(string)
		if name == "" {
			continue
		}
		source, ok := idx.ByID(rel.SourceID)
		if !ok {
			continue
		}
		// proj is not available here; same-file resolution only covers
		// the common case (local base class) without needing it.
		for _, candidate := range idx.ByFileAndName(source.FilePath, name) {
			if candidate.Kind != model.KindClass && candidate.Kind != model.KindInterface {
				continue
			}
			edges = append(edges, relationship(rel.Type, rel.SourceID, candidate.EntityID, rel.Weight, map[string]any{
				"isPlaceholder": false,
			}))
			break
		}
	}
	return edges
}

// componentUsage implements the component-usage resolver. A JSX
// element's parentId is already the nearest enclosing Component (Pass 1
// attaches it there directly), so no ancestor walk is needed.
func componentUsage(idx *nodeindex.Index) []model.Relationship {
	var edges []model.Relationship
	for _, el := range idx.NodesOfKind(model.KindJSXElement) {
		if el.Name == "" || !isUpper(el.Name[0]) {
			continue
		}
		target, ok := resolveLocalComponent(idx, el.FilePath, el.Name)
		if !ok {
			continue
		}
		edges = append(edges, relationship(model.RelUsesComponent, el.ParentID, target, 5, nil))
	}
	return edges
}

func resolveLocalComponent(idx *nodeindex.Index, filePath, name string) (string, bool) {
	for _, n := range idx.ByFileAndName(filePath, name) {
		if n.Kind == model.KindComponent || n.Kind == model.KindClass || n.Kind == model.KindFunction {
			return n.EntityID, true
		}
	}
	return "", false
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func relationship(typ model.RelType, source, target string, weight int, props map[string]any) model.Relationship {
	if props == nil {
		props = map[string]any{}
	}
	return model.Relationship{
		EntityID:   ident.Relationship(typ, source, target, 0),
		Type:       typ,
		SourceID:   source,
		TargetID:   target,
		Weight:     weight,
		Properties: props,
	}
}

// funcSite pairs a Pass-1 Function/Method entityId with the AST node a
// re-parse produces for the same declaration, plus its enclosing class
// (for "this."-qualified member resolution), so calls/mutations/errors
// found inside its body can be attributed to the right entityId.
type funcSite struct {
	entityID    string
	containerID string
	node        *sitter.Node
}

// callsAndErrors re-parses every TS/JS file tracked by proj (Pass 1's
// tree is not retained) and scans each function/method body for call
// expressions, plain assignments, and try/catch blocks.
func callsAndErrors(goCtx context.Context, idx *nodeindex.Index, proj *tsproject.Project, read SourceReader, log *slog.Logger) []model.Relationship {
	if read == nil {
		return nil
	}
	var edges []model.Relationship
	for _, fileNode := range idx.NodesOfKind(model.KindFile) {
		if _, ok := proj.File(fileNode.FilePath); !ok {
			continue // not a TS/JS file
		}
		source, err := read(fileNode.FilePath)
		if err != nil {
			log.Warn("tsresolve: could not re-read file for call scanning", "file", fileNode.FilePath, "error", err)
			continue
		}
		parser := sitter.NewParser()
		parser.SetLanguage(tsparse.GrammarFor(fileNode.FilePath))
		tree, err := parser.ParseCtx(goCtx, nil, source)
		if err != nil {
			log.Warn("tsresolve: re-parse failed", "file", fileNode.FilePath, "error", err)
			continue
		}
		sites := collectFuncSites(tree.RootNode(), fileNode.FilePath, source)
		for _, site := range sites {
			edges = append(edges, scanFuncBody(idx, proj, fileNode.FilePath, source, site)...)
		}
	}
	return edges
}

// collectFuncSites finds every function-like in the file — top-level
// declarations, class methods, and (recursing into every body) function
// declarations, variable-bound function expressions/arrow functions, and
// inline callback arguments nested at any depth — and records a funcSite
// per one so scanFuncBody can source calls/mutations/try-catch from the
// entityId Pass 1 would have given that exact function-like.
func collectFuncSites(root *sitter.Node, filePath string, source []byte) []funcSite {
	var sites []funcSite
	text := func(n *sitter.Node) string { return tsitparse.Text(n, source) }

	var visit func(n *sitter.Node, containerID string)
	var addSite func(entityID, containerID string, fn *sitter.Node)

	addSite = func(entityID, containerID string, fn *sitter.Node) {
		sites = append(sites, funcSite{entityID: entityID, containerID: containerID, node: fn})
		if body := tsitparse.ChildByField(fn, "body"); body != nil {
			visit(body, containerID)
		}
	}

	visit = func(n *sitter.Node, containerID string) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_declaration", "generator_function_declaration":
			name := text(tsitparse.ChildByField(n, "name"))
			if name == "" {
				name = "anonymousLambda"
			}
			sl, _, _, _ := tsitparse.Loc(n)
			addSite(ident.FunctionLike(model.KindFunction, filePath, name, sl), containerID, n)
			return
		case "function_expression", "arrow_function", "generator_function":
			sl, _, _, _ := tsitparse.Loc(n)
			addSite(ident.FunctionLike(model.KindFunction, filePath, "anonymousLambda", sl), containerID, n)
			return
		case "class_declaration":
			name := text(tsitparse.ChildByField(n, "name"))
			if name == "" {
				return
			}
			classID := ident.Container(model.KindClass, filePath, name)
			body := tsitparse.ChildByField(n, "body")
			if body == nil {
				return
			}
			count := int(body.ChildCount())
			for i := 0; i < count; i++ {
				m := body.Child(i)
				if m == nil || m.Type() != "method_definition" {
					continue
				}
				mname := text(tsitparse.ChildByField(m, "name"))
				if mname == "" {
					continue
				}
				addSite(ident.Method(model.KindMethod, filePath, classID, mname), classID, m)
			}
			return
		case "variable_declarator":
			value := tsitparse.ChildByField(n, "value")
			name := text(tsitparse.ChildByField(n, "name"))
			if value != nil && name != "" {
				switch value.Type() {
				case "arrow_function", "function_expression", "generator_function":
					sl, _, _, _ := tsitparse.Loc(value)
					addSite(ident.FunctionLike(model.KindFunction, filePath, name, sl), containerID, value)
					return
				}
			}
		case "call_expression":
			calleeNode := tsitparse.ChildByField(n, "function")
			calleeName := calleeSiteName(calleeNode, text)
			if args := tsitparse.ChildByField(n, "arguments"); args != nil {
				argCount := int(args.NamedChildCount())
				for i := 0; i < argCount; i++ {
					arg := args.NamedChild(i)
					if arg == nil {
						continue
					}
					switch arg.Type() {
					case "arrow_function", "function_expression", "generator_function":
						sl, _, _, _ := tsitparse.Loc(arg)
						name := fmt.Sprintf("callback_%s_arg%d", calleeName, i+1)
						addSite(ident.FunctionLike(model.KindFunction, filePath, name, sl), containerID, arg)
					default:
						visit(arg, containerID)
					}
				}
			}
			if calleeNode != nil {
				visit(calleeNode, containerID)
			}
			return
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			visit(n.Child(i), containerID)
		}
	}

	visit(root, "")
	return sites
}

// calleeSiteName extracts a best-effort name for a call's callee, used
// only to build the callback_<caller>_argN synthetic funcSite name —
// mirrors tsparse's own calleeNameFor so the same call produces the same
// entityId on both the Pass-1 and Pass-2 side.
func calleeSiteName(fnField *sitter.Node, text func(*sitter.Node) string) string {
	name, _, ok := calleeExpr(fnField, text)
	if !ok || name == "" {
		return "anonymous"
	}
	return name
}

func scanFuncBody(idx *nodeindex.Index, proj *tsproject.Project, filePath string, source []byte, site funcSite) []model.Relationship {
	var edges []model.Relationship
	text := func(n *sitter.Node) string { return tsitparse.Text(n, source) }

	var walk func(n *sitter.Node, isRoot, conditional, awaited bool)
	walk = func(n *sitter.Node, isRoot, conditional, awaited bool) {
		if n == nil {
			return
		}
		nextConditional := conditional
		switch n.Type() {
		case "if_statement", "switch_statement", "ternary_expression",
			"for_statement", "for_in_statement", "while_statement", "do_statement":
			nextConditional = true
		}
		nextAwaited := awaited
		if n.Type() == "await_expression" {
			nextAwaited = true
		}

		switch n.Type() {
		case "call_expression":
			if e, ok := callEdge(idx, proj, filePath, text, site, n, nextConditional, nextAwaited); ok {
				edges = append(edges, e)
			}
		case "assignment_expression":
			if isPlainAssignment(n) {
				if e, ok := mutationEdge(idx, proj, filePath, text, site, n); ok {
					edges = append(edges, e)
				}
			}
		case "try_statement":
			edges = append(edges, tryCatchEdges(site, n, text)...)
		}

		if !isRoot {
			switch n.Type() {
			case "function_declaration", "function_expression", "arrow_function",
				"generator_function_declaration", "generator_function", "method_definition":
				return
			}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i), false, nextConditional, nextAwaited)
		}
	}

	body := tsitparse.ChildByField(site.node, "body")
	if body == nil {
		body = site.node
	}
	walk(body, true, false, false)
	return edges
}

// calleeExpr extracts (name, isThisQualified) from a call_expression's
// function field: a bare identifier, or a `this.x`/`obj.x` member access.
func calleeExpr(fnField *sitter.Node, text func(*sitter.Node) string) (name string, isThisQualified bool, ok bool) {
	if fnField == nil {
		return "", false, false
	}
	switch fnField.Type() {
	case "identifier":
		return text(fnField), false, true
	case "member_expression":
		object := tsitparse.ChildByField(fnField, "object")
		prop := tsitparse.ChildByField(fnField, "property")
		if prop == nil {
			return "", false, false
		}
		return text(prop), object != nil && text(object) == "this", true
	default:
		return "", false, false
	}
}

func callEdge(idx *nodeindex.Index, proj *tsproject.Project, filePath string, text func(*sitter.Node) string, site funcSite, n *sitter.Node, conditional, awaited bool) (model.Relationship, bool) {
	fnField := tsitparse.ChildByField(n, "function")
	name, thisQualified, ok := calleeExpr(fnField, text)
	if !ok || name == "" {
		return model.Relationship{}, false
	}

	var targetID string
	resolved := false
	if thisQualified && site.containerID != "" {
		for _, cand := range idx.ByFileAndName(filePath, name) {
			if cand.Kind == model.KindMethod && cand.ParentID == site.containerID {
				targetID = cand.EntityID
				resolved = true
				break
			}
		}
	} else if !thisQualified {
		if id, ok := resolveSymbol(idx, proj, filePath, name); ok {
			targetID = id
			resolved = true
		}
	}
	if !resolved {
		if thisQualified {
			targetID = ident.Method(model.KindMethod, filePath, site.containerID, name)
		} else {
			targetID = ident.FunctionLike(model.KindFunction, filePath, name, 0)
		}
	}

	sl, _, sc, _ := tsitparse.Loc(n)
	isCrossFile := false
	if resolved {
		if target, ok := idx.ByID(targetID); ok {
			isCrossFile = target.FilePath != filePath
		}
	}
	return relationship(model.RelCalls, site.entityID, targetID, 4, map[string]any{
		"isPlaceholder":  !resolved,
		"callSiteLine":   sl,
		"callSiteColumn": sc,
		"isAwaited":      awaited,
		"isConditional":  conditional,
		"isCrossFile":    isCrossFile,
	}), true
}

func mutationEdge(idx *nodeindex.Index, proj *tsproject.Project, filePath string, text func(*sitter.Node) string, site funcSite, n *sitter.Node) (model.Relationship, bool) {
	left := tsitparse.ChildByField(n, "left")
	if left == nil {
		return model.Relationship{}, false
	}
	var name string
	thisQualified := false
	switch left.Type() {
	case "identifier":
		name = text(left)
	case "member_expression":
		object := tsitparse.ChildByField(left, "object")
		prop := tsitparse.ChildByField(left, "property")
		if prop == nil {
			return model.Relationship{}, false
		}
		name = text(prop)
		thisQualified = object != nil && text(object) == "this"
	default:
		return model.Relationship{}, false
	}
	if name == "" {
		return model.Relationship{}, false
	}

	var targetID string
	resolved := false
	if thisQualified && site.containerID != "" {
		for _, cand := range idx.ByFileAndName(filePath, name) {
			if cand.Kind == model.KindField && cand.ParentID == site.containerID {
				targetID = cand.EntityID
				resolved = true
				break
			}
		}
	} else if !thisQualified {
		if id, ok := resolveSymbol(idx, proj, filePath, name); ok {
			targetID = id
			resolved = true
		}
	}
	if !resolved {
		return model.Relationship{}, false
	}
	return relationship(model.RelMutatesState, site.entityID, targetID, 4, map[string]any{
		"isPlaceholder": false,
	}), true
}

func tryCatchEdges(site funcSite, n *sitter.Node, text func(*sitter.Node) string) []model.Relationship {
	handler := findChild(n, "catch_clause")
	if handler == nil {
		return nil
	}
	catchLine, _, _, _ := tsitparse.Loc(handler)
	binding := tsitparse.ChildByField(handler, "parameter")
	var targetID string
	if binding != nil {
		targetID = ident.CatchTarget(site.entityID, text(binding), catchLine)
	} else {
		// No binding to target: the edge points back at the enclosing
		// function-like itself.
		targetID = site.entityID
	}
	return []model.Relationship{relationship(model.RelHandlesError, site.entityID, targetID, 5, nil)}
}

// isPlainAssignment reports whether an assignment_expression node uses
// the bare "=" operator rather than a compound one (+=, -=, etc.) — the
// operator is an anonymous token child, not a named field, in the
// JS/TS grammar.
func isPlainAssignment(n *sitter.Node) bool {
	return findChild(n, "=") != nil
}

func findChild(n *sitter.Node, typ string) *sitter.Node {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}
