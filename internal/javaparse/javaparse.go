// Package javaparse extracts nodes and intra-file relationships from
// Java source via tree-sitter. The package_declaration is
// processed before anything else so every subsequent container entityId
// can be fully qualified by package, and constructor_declaration nodes
// are emitted as JavaMethod with isConstructor=true rather than as a
// separate node kind.
package javaparse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/model"
)

func Parse(goCtx context.Context, ctx *extract.Context, source []byte) error {
	tree, err := tsitparse.Parse(goCtx, model.LangJava, source)
	if err != nil {
		return err
	}
	root := tree.RootNode()

	filePath := ident.NormalizePath(ctx.FilePath)
	fileID := ident.File(filePath)
	sl, el, sc, ec := tsitparse.Loc(root)
	ctx.Emit(fileID, model.KindFile, baseName(filePath), sl, el, sc, ec, "", nil)

	p := &parser{ctx: ctx, source: source, fileID: fileID, filePath: filePath, packageName: ""}

	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		child := root.Child(i)
		if child != nil && child.Type() == "package_declaration" {
			p.packageDeclaration(child)
		}
	}
	for i := 0; i < count; i++ {
		p.topLevel(root.Child(i))
	}
	return nil
}

type parser struct {
	ctx         *extract.Context
	source      []byte
	fileID      string
	filePath    string
	packageName string
}

func (p *parser) topLevel(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_declaration":
		p.importDeclaration(n)
	case "class_declaration":
		p.classDeclaration(n)
	case "interface_declaration":
		p.interfaceDeclaration(n)
	}
}

func (p *parser) packageDeclaration(n *sitter.Node) {
	var nameNode *sitter.Node
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c != nil && (c.Type() == "scoped_identifier" || c.Type() == "identifier") {
			nameNode = c
		}
	}
	if nameNode == nil {
		p.ctx.Log.Warn("javaparse: package_declaration missing name, skipping", "file", p.filePath)
		return
	}
	p.packageName = tsitparse.Text(nameNode, p.source)
	id := ident.Container(model.KindPackageDeclaration, p.filePath, p.packageName)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, model.KindPackageDeclaration, p.packageName, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDeclaresPackage, p.fileID, id, 8, nil)
}

func (p *parser) importDeclaration(n *sitter.Node) {
	var nameNode *sitter.Node
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c != nil && (c.Type() == "scoped_identifier" || c.Type() == "identifier") {
			nameNode = c
		}
	}
	if nameNode == nil {
		return
	}
	spec := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.ImportLike(model.KindImport, p.filePath, spec, sl)
	p.ctx.Emit(id, model.KindImport, spec, sl, el, sc, ec, p.fileID, map[string]any{
		"specifier": spec,
	})
	p.relate(model.RelImports, p.fileID, id, 5, nil)
}

func (p *parser) classDeclaration(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("javaparse: class_declaration missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	id := ident.PackageScoped(model.KindJavaClass, p.packageName, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, model.KindJavaClass, name, sl, el, sc, ec, p.fileID, map[string]any{
		"package": p.packageName,
	})
	p.relate(model.RelDefinesClass, p.fileID, id, 8, nil)

	if sc := tsitparse.ChildByField(n, "superclass"); sc != nil {
		p.extendsEdge(id, sc)
	}
	if ifaces := tsitparse.ChildByField(n, "interfaces"); ifaces != nil {
		p.implementsEdges(id, ifaces)
	}

	body := tsitparse.ChildByField(n, "body")
	p.classBody(body, id)
}

func (p *parser) interfaceDeclaration(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	id := ident.PackageScoped(model.KindJavaInterface, p.packageName, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, model.KindJavaInterface, name, sl, el, sc, ec, p.fileID, map[string]any{
		"package": p.packageName,
	})
	p.relate(model.RelDefinesInterface, p.fileID, id, 8, nil)
	body := tsitparse.ChildByField(n, "body")
	p.classBody(body, id)
}

func (p *parser) extendsEdge(classID string, superclassNode *sitter.Node) {
	var typeNode *sitter.Node
	tsitparse.Walk(superclassNode, func(c *sitter.Node) bool {
		if c.Type() == "type_identifier" {
			typeNode = c
			return false
		}
		return true
	})
	if typeNode == nil {
		return
	}
	parentName := tsitparse.Text(typeNode, p.source)
	targetID := ident.PackageScoped(model.KindJavaClass, p.packageName, parentName)
	p.relate(model.RelExtends, classID, targetID, 7, map[string]any{"isPlaceholder": true})
}

func (p *parser) implementsEdges(classID string, ifacesNode *sitter.Node) {
	count := int(ifacesNode.ChildCount())
	for i := 0; i < count; i++ {
		c := ifacesNode.Child(i)
		if c == nil || c.Type() != "type_identifier" {
			continue
		}
		name := tsitparse.Text(c, p.source)
		targetID := ident.PackageScoped(model.KindJavaInterface, p.packageName, name)
		p.relate(model.RelImplements, classID, targetID, 7, map[string]any{"isPlaceholder": true})
	}
}

func (p *parser) classBody(body *sitter.Node, containerID string) {
	if body == nil {
		return
	}
	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "method_declaration":
			p.methodDeclaration(child, containerID, false)
		case "constructor_declaration":
			p.methodDeclaration(child, containerID, true)
		case "field_declaration":
			p.fieldDeclaration(child, containerID)
		case "class_declaration":
			p.classDeclaration(child)
		case "interface_declaration":
			p.interfaceDeclaration(child)
		}
	}
}

func (p *parser) methodDeclaration(n *sitter.Node, containerID string, isConstructor bool) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("javaparse: method/constructor missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Method(model.KindJavaMethod, p.filePath, containerID, name)
	p.ctx.Emit(id, model.KindJavaMethod, name, sl, el, sc, ec, containerID, map[string]any{
		"isConstructor": isConstructor,
	})
	p.relate(model.RelHasMethod, containerID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(n, "parameters"))
}

func (p *parser) fieldDeclaration(n *sitter.Node, containerID string) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil || c.Type() != "variable_declarator" {
			continue
		}
		nameNode := tsitparse.ChildByField(c, "name")
		if nameNode == nil {
			continue
		}
		name := tsitparse.Text(nameNode, p.source)
		sl, el, sc, ec := tsitparse.Loc(nameNode)
		id := ident.Build(model.KindJavaField, containerID+":"+name)
		p.ctx.Emit(id, model.KindJavaField, name, sl, el, sc, ec, containerID, nil)
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
		if decl == nil || decl.Type() != "formal_parameter" {
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

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
