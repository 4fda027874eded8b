// Package csharpparse extracts nodes and intra-file relationships from
// C# source via tree-sitter, tracking the enclosing namespace and
// container with an explicit context stack , since C# types are
// qualified by both namespace and (for nested types) an enclosing type.
package csharpparse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/model"
)

func Parse(goCtx context.Context, ctx *extract.Context, source []byte) error {
	tree, err := tsitparse.Parse(goCtx, model.LangCSharp, source)
	if err != nil {
		return err
	}
	root := tree.RootNode()

	filePath := ident.NormalizePath(ctx.FilePath)
	fileID := ident.File(filePath)
	sl, el, sc, ec := tsitparse.Loc(root)
	ctx.Emit(fileID, model.KindFile, baseName(filePath), sl, el, sc, ec, "", nil)

	p := &parser{ctx: ctx, source: source, fileID: fileID, filePath: filePath}
	p.namespaces.Push("")
	p.containers.Push(fileID)

	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		p.topLevel(root.Child(i))
	}
	return nil
}

type parser struct {
	ctx        *extract.Context
	source     []byte
	fileID     string
	filePath   string
	namespaces tsitparse.ContextStack
	containers tsitparse.ContextStack
}

func (p *parser) topLevel(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "using_directive":
		p.usingDirective(n)
	case "namespace_declaration", "file_scoped_namespace_declaration":
		p.namespaceDeclaration(n)
	case "class_declaration", "struct_declaration", "interface_declaration", "record_declaration":
		p.typeDeclaration(n)
	}
}

func (p *parser) usingDirective(n *sitter.Node) {
	isStatic := false
	var aliasName string
	nameNode := tsitparse.ChildByField(n, "name")
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Type() == "static" {
			isStatic = true
		}
		if c.Type() == "name_equals" {
			var id *sitter.Node
			tsitparse.Walk(c, func(x *sitter.Node) bool {
				if x.Type() == "identifier" {
					id = x
					return false
				}
				return true
			})
			if id != nil {
				aliasName = tsitparse.Text(id, p.source)
			}
		}
	}
	if nameNode == nil {
		// No "name" field: the imported name is the last named child.
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			if c := n.NamedChild(i); c != nil && c.Type() != "name_equals" {
				nameNode = c
				break
			}
		}
	}
	if nameNode == nil {
		p.ctx.Log.Warn("csharpparse: using_directive missing name, skipping", "file", p.filePath)
		return
	}
	spec := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.ImportLike(model.KindUsingDirective, p.filePath, spec, sl)
	props := map[string]any{
		"isStatic":  isStatic,
		"namespace": spec,
	}
	if aliasName != "" {
		props["alias"] = aliasName
	}
	p.ctx.Emit(id, model.KindUsingDirective, spec, sl, el, sc, ec, p.fileID, props)
	p.relate(model.RelImports, p.fileID, id, 5, nil)
}

func (p *parser) namespaceDeclaration(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("csharpparse: namespace_declaration missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	id := ident.Container(model.KindNamespaceDeclaration, p.filePath, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, model.KindNamespaceDeclaration, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDeclaresNamespace, p.fileID, id, 8, nil)

	restoreNS := p.namespaces.Push(name)

	body := tsitparse.ChildByField(n, "body")
	if body != nil {
		count := int(body.ChildCount())
		for i := 0; i < count; i++ {
			p.topLevel(body.Child(i))
		}
		restoreNS()
		return
	}
	// File-scoped namespace: remaining siblings after the declaration are
	// the namespace body, handled by the caller continuing its loop, so
	// the namespace stays pushed for the rest of the file.
}

func (p *parser) typeDeclaration(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("csharpparse: type declaration missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	kind := kindFor(n.Type())
	qualifier := p.namespaces.Top()
	id := ident.PackageScoped(kind, qualifier, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, kind, name, sl, el, sc, ec, p.containers.Top(), map[string]any{
		"namespace": qualifier,
	})

	switch kind {
	case model.KindCSharpInterface:
		p.relate(model.RelDefinesInterface, p.containers.Top(), id, 8, nil)
	case model.KindCSharpStruct:
		p.relate(model.RelDefinesStruct, p.containers.Top(), id, 8, nil)
	default:
		p.relate(model.RelDefinesClass, p.containers.Top(), id, 8, nil)
	}

	restore := p.containers.Push(id)
	defer restore()

	body := tsitparse.ChildByField(n, "body")
	if body == nil {
		return
	}
	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		p.member(body.Child(i), id)
	}
}

func (p *parser) member(n *sitter.Node, containerID string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "method_declaration":
		p.methodDeclaration(n, containerID, false)
	case "constructor_declaration":
		p.methodDeclaration(n, containerID, true)
	case "property_declaration":
		p.propertyDeclaration(n, containerID)
	case "field_declaration":
		p.fieldDeclaration(n, containerID)
	case "class_declaration", "struct_declaration", "interface_declaration", "record_declaration":
		p.typeDeclaration(n)
	}
}

func (p *parser) methodDeclaration(n *sitter.Node, containerID string, isConstructor bool) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("csharpparse: method/constructor missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Method(model.KindCSharpMethod, p.filePath, containerID, name)
	p.ctx.Emit(id, model.KindCSharpMethod, name, sl, el, sc, ec, containerID, map[string]any{
		"isConstructor": isConstructor,
	})
	p.relate(model.RelHasMethod, containerID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(n, "parameters"))
}

func (p *parser) propertyDeclaration(n *sitter.Node, containerID string) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Build(model.KindProperty, containerID+":"+name)
	p.ctx.Emit(id, model.KindProperty, name, sl, el, sc, ec, containerID, nil)
	p.relate(model.RelHasProperty, containerID, id, 6, nil)
}

func (p *parser) fieldDeclaration(n *sitter.Node, containerID string) {
	var varNodes []*sitter.Node
	tsitparse.Walk(n, func(c *sitter.Node) bool {
		if c.Type() == "variable_declarator" {
			varNodes = append(varNodes, c)
			return false
		}
		return true
	})
	for _, v := range varNodes {
		nameNode := tsitparse.ChildByField(v, "name")
		if nameNode == nil {
			continue
		}
		name := tsitparse.Text(nameNode, p.source)
		sl, el, sc, ec := tsitparse.Loc(nameNode)
		id := ident.Build(model.KindField, containerID+":"+name)
		p.ctx.Emit(id, model.KindField, name, sl, el, sc, ec, containerID, nil)
		p.relate(model.RelHasField, containerID, id, 6, nil)
	}
}

func (p *parser) parameters(methodID string, params *sitter.Node) {
	if params == nil {
		return
	}
	count := int(params.ChildCount())
	for i := 0; i < count; i++ {
		decl := params.Child(i)
		if decl == nil || decl.Type() != "parameter" {
			continue
		}
		nameNode := tsitparse.ChildByField(decl, "name")
		if nameNode == nil {
			continue
		}
		name := tsitparse.Text(nameNode, p.source)
		sl, el, sc, ec := tsitparse.Loc(nameNode)
		paramID := ident.Parameter(methodID, name)
		p.ctx.Emit(paramID, model.KindParameter, name, sl, el, sc, ec, methodID, nil)
		p.relate(model.RelHasParameter, methodID, paramID, 6, nil)
	}
}

func (p *parser) relate(typ model.RelType, source, target string, weight int, props map[string]any) {
	id := ident.Relationship(typ, source, target, 0)
	p.ctx.Relate(id, typ, source, target, weight, props)
}

func kindFor(nodeType string) model.Kind {
	switch nodeType {
	case "interface_declaration":
		return model.KindCSharpInterface
	case "struct_declaration":
		return model.KindCSharpStruct
	default:
		return model.KindCSharpClass
	}
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
