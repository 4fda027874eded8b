// Package cparse extracts nodes and intra-file relationships from C and
// C++ source via tree-sitter. A C++ class/struct body holds its
// methods as function_definition nodes (inline bodies) or as
// field_declaration/declaration nodes with a function declarator
// (declaration only), with no explicit "is this a method" marker in the
// grammar the way some other grammars expose one; membership is inferred from nesting inside a
// class_specifier/struct_specifier rather than from the node type, which
// is why this package tracks an enclosing-container stack instead of
// switching purely on n.Type().
package cparse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/model"
)

// Parse walks a C or C++ source file, populating ctx. lang must be
// model.LangC or model.LangCpp.
func Parse(goCtx context.Context, ctx *extract.Context, source []byte, lang model.Language) error {
	tree, err := tsitparse.Parse(goCtx, lang, source)
	if err != nil {
		return err
	}
	root := tree.RootNode()

	filePath := ident.NormalizePath(ctx.FilePath)
	fileID := ident.File(filePath)
	sl, el, sc, ec := tsitparse.Loc(root)
	ctx.Emit(fileID, model.KindFile, baseName(filePath), sl, el, sc, ec, "", nil)

	p := &parser{ctx: ctx, source: source, fileID: fileID, filePath: filePath, lang: lang}
	p.container.Push(fileID)

	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		p.walkTopLevel(root.Child(i))
	}
	return nil
}

type parser struct {
	ctx       *extract.Context
	source    []byte
	fileID    string
	filePath  string
	lang      model.Language
	container tsitparse.ContextStack
}

func (p *parser) walkTopLevel(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "preproc_include":
		p.includeDirective(n)
	case "function_definition":
		p.functionDefinition(n)
	case "class_specifier":
		p.classOrStruct(n, model.KindCppClass)
	case "struct_specifier":
		if p.lang == model.LangCpp {
			p.classOrStruct(n, model.KindCppClass)
		} else {
			// Plain C structs are data layout, not part of the closed
			// vocabulary's container kinds; skip
			// never-fabricate-a-node rule rather than force a Class node.
			p.ctx.Log.Debug("cparse: skipping C struct_specifier, no matching node kind", "file", p.filePath)
		}
	case "declaration", "linkage_specification":
		p.descendForNested(n)
	}
}

func (p *parser) descendForNested(n *sitter.Node) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		p.walkTopLevel(n.Child(i))
	}
}

func (p *parser) includeDirective(n *sitter.Node) {
	pathNode := tsitparse.ChildByField(n, "path")
	if pathNode == nil {
		p.ctx.Log.Warn("cparse: preproc_include missing path, skipping", "file", p.filePath)
		return
	}
	isSystem := pathNode.Type() == "system_lib_string"
	text := tsitparse.Text(pathNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.ImportLike(model.KindIncludeDirective, p.filePath, text, sl)
	p.ctx.Emit(id, model.KindIncludeDirective, text, sl, el, sc, ec, p.fileID, map[string]any{
		"isSystemInclude": isSystem,
		"path":            trimIncludeDelimiters(text),
	})
	p.relate(model.RelIncludes, p.fileID, id, 6, nil)
}

func (p *parser) classOrStruct(n *sitter.Node, kind model.Kind) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("cparse: class/struct missing name, skipping anonymous type", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	id := ident.Container(kind, p.filePath, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, kind, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDefinesClass, p.fileID, id, 8, nil)

	restore := p.container.Push(id)
	defer restore()

	body := tsitparse.ChildByField(n, "body")
	if body == nil {
		return
	}
	bc := int(body.ChildCount())
	for i := 0; i < bc; i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "function_definition":
			p.methodDefinition(child, id)
		case "field_declaration", "declaration":
			if name, _ := functionName(child, p.source); name != "" {
				p.methodDefinition(child, id)
			} else if child.Type() == "field_declaration" {
				p.fieldDeclaration(child, id)
			}
		}
	}
}

func (p *parser) fieldDeclaration(n *sitter.Node, containerID string) {
	declarator := tsitparse.ChildByField(n, "declarator")
	if declarator == nil {
		return
	}
	var nameNode *sitter.Node
	tsitparse.Walk(declarator, func(c *sitter.Node) bool {
		if c.Type() == "field_identifier" {
			nameNode = c
			return false
		}
		return true
	})
	if nameNode == nil {
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(nameNode)
	id := ident.Build(model.KindField, containerID+":"+name)
	p.ctx.Emit(id, model.KindField, name, sl, el, sc, ec, containerID, nil)
	p.relate(model.RelHasField, containerID, id, 6, nil)
}

// functionDefinition handles a free function at file scope:
// CFunction-vs-CppMethod distinction, a function_definition outside any
// class/struct body is always a CFunction (C or C++), while one nested
// inside a class/struct body is a CppMethod (see methodDefinition).
func (p *parser) functionDefinition(n *sitter.Node) {
	name, declNode := functionName(n, p.source)
	if name == "" {
		p.ctx.Log.Warn("cparse: could not determine function name, skipping", "file", p.filePath)
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.FunctionLike(model.KindCFunction, p.filePath, name, sl)
	p.ctx.Emit(id, model.KindCFunction, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDefinesFunction, p.fileID, id, 8, nil)
	p.parameters(id, declNode)
}

func (p *parser) methodDefinition(n *sitter.Node, containerID string) {
	name, declNode := functionName(n, p.source)
	if name == "" {
		p.ctx.Log.Warn("cparse: could not determine method name, skipping", "file", p.filePath)
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Method(model.KindCppMethod, p.filePath, containerID, name)
	isCtor := isLikelyConstructor(n)
	p.ctx.Emit(id, model.KindCppMethod, name, sl, el, sc, ec, containerID, map[string]any{
		"isConstructor": isCtor,
	})
	p.relate(model.RelHasMethod, containerID, id, 8, nil)
	p.parameters(id, declNode)
}

func (p *parser) parameters(funcID string, declNode *sitter.Node) {
	if declNode == nil {
		return
	}
	var paramList *sitter.Node
	tsitparse.Walk(declNode, func(c *sitter.Node) bool {
		if c.Type() == "parameter_list" {
			paramList = c
			return false
		}
		return true
	})
	if paramList == nil {
		return
	}
	count := int(paramList.ChildCount())
	for i := 0; i < count; i++ {
		decl := paramList.Child(i)
		if decl == nil || decl.Type() != "parameter_declaration" {
			continue
		}
		var nameNode *sitter.Node
		tsitparse.Walk(decl, func(c *sitter.Node) bool {
			if c.Type() == "identifier" {
				nameNode = c
				return false
			}
			return true
		})
		if nameNode == nil {
			continue
		}
		name := tsitparse.Text(nameNode, p.source)
		sl, el, sc, ec := tsitparse.Loc(nameNode)
		paramID := ident.Parameter(funcID, name)
		p.ctx.Emit(paramID, model.KindParameter, name, sl, el, sc, ec, funcID, nil)
		p.relate(model.RelHasParameter, funcID, paramID, 6, nil)
	}
}

func (p *parser) relate(typ model.RelType, source, target string, weight int, props map[string]any) {
	id := ident.Relationship(typ, source, target, 0)
	p.ctx.Relate(id, typ, source, target, weight, props)
}

// functionName walks a function_definition's declarator looking for the
// function_declarator and its nested identifier/field_identifier, since
// pointer/reference return types nest several declarator levels deep.
func functionName(n *sitter.Node, source []byte) (string, *sitter.Node) {
	declarator := tsitparse.ChildByField(n, "declarator")
	if declarator == nil {
		return "", nil
	}
	var funcDeclarator *sitter.Node
	tsitparse.Walk(declarator, func(c *sitter.Node) bool {
		if c.Type() == "function_declarator" {
			funcDeclarator = c
			return false
		}
		return true
	})
	if funcDeclarator == nil {
		return "", nil
	}
	var nameNode *sitter.Node
	tsitparse.Walk(funcDeclarator, func(c *sitter.Node) bool {
		switch c.Type() {
		case "identifier", "field_identifier", "destructor_name", "operator_name":
			if nameNode == nil {
				nameNode = c
			}
			return false
		case "parameter_list":
			return false
		}
		return true
	})
	if nameNode == nil {
		return "", funcDeclarator
	}
	return tsitparse.Text(nameNode, source), funcDeclarator
}

// isLikelyConstructor reports whether a function_definition has no return
// type field, which in the cpp grammar is how constructors/destructors
// are distinguished from ordinary methods.
func isLikelyConstructor(n *sitter.Node) bool {
	return tsitparse.ChildByField(n, "type") == nil
}

func trimIncludeDelimiters(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
