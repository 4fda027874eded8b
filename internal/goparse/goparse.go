// Package goparse extracts nodes and intra-file relationships from Go
// source files in the tree under analysis (not this module's own
// sources) via tree-sitter: a method's receiver type is extracted from
// the receiver clause and the method is attached to the receiver
// struct's entityId, qualified by package.
package goparse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/model"
)

// Parse walks a Go source file and populates ctx with File, PackageClause,
// ImportDeclaration/ImportSpec, GoStruct, GoInterface, GoFunction,
// GoMethod, Field, and Parameter nodes plus their containment edges.
func Parse(goCtx context.Context, ctx *extract.Context, source []byte) error {
	tree, err := tsitparse.Parse(goCtx, model.LangGo, source)
	if err != nil {
		return err
	}
	root := tree.RootNode()

	filePath := ident.NormalizePath(ctx.FilePath)
	fileID := ident.File(filePath)
	sl, el, sc, ec := tsitparse.Loc(root)
	ctx.Emit(fileID, model.KindFile, fileBaseName(filePath), sl, el, sc, ec, "", nil)

	p := &parser{ctx: ctx, source: source, fileID: fileID, filePath: filePath}
	p.packageName = "main"

	count := int(root.ChildCount())
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
	// structsByQualifiedName maps "pkg.Name" -> entityId, so methods can
	// attach to their receiver even if the struct was declared earlier
	// in the same file.
	structsByQualifiedName map[string]string
}

func (p *parser) topLevel(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "package_clause":
		p.packageClause(n)
	case "import_declaration":
		p.importDeclaration(n)
	case "type_declaration":
		p.typeDeclaration(n)
	case "function_declaration":
		p.functionDeclaration(n)
	case "method_declaration":
		p.methodDeclaration(n)
	}
}

func (p *parser) packageClause(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil && n.NamedChildCount() > 0 {
		// package_clause carries its package_identifier as an unnamed-field child.
		nameNode = n.NamedChild(0)
	}
	if nameNode == nil {
		p.ctx.Log.Warn("go: package_clause missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	p.packageName = name
	id := ident.Container(model.KindPackageClause, p.filePath, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, model.KindPackageClause, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDeclaresPackage, p.fileID, id, 8, nil)
}

func (p *parser) importDeclaration(n *sitter.Node) {
	sl, el, sc, ec := tsitparse.Loc(n)
	declID := ident.ImportLike(model.KindImportDeclaration, p.filePath, "import", sl)
	p.ctx.Emit(declID, model.KindImportDeclaration, "import", sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelContains, p.fileID, declID, 5, nil)

	tsitparse.Walk(n, func(child *sitter.Node) bool {
		if child.Type() != "import_spec" {
			return true
		}
		pathNode := tsitparse.ChildByField(child, "path")
		spec := tsitparse.Text(pathNode, p.source)
		csl, cel, csc, cec := tsitparse.Loc(child)
		specID := ident.ImportLike(model.KindImportSpec, p.filePath, spec, csl)
		p.ctx.Emit(specID, model.KindImportSpec, spec, csl, cel, csc, cec, declID, map[string]any{
			"specifier": spec,
		})
		p.relate(model.RelContains, declID, specID, 5, nil)
		return false
	})
}

func (p *parser) typeDeclaration(n *sitter.Node) {
	tsitparse.Walk(n, func(child *sitter.Node) bool {
		if child.Type() != "type_spec" {
			return true
		}
		nameNode := tsitparse.ChildByField(child, "name")
		if nameNode == nil {
			p.ctx.Log.Warn("go: type_spec missing name, skipping", "file", p.filePath)
			return false
		}
		name := tsitparse.Text(nameNode, p.source)
		typeNode := tsitparse.ChildByField(child, "type")
		if typeNode == nil {
			return false
		}
		switch typeNode.Type() {
		case "struct_type":
			p.structType(child, name, typeNode)
		case "interface_type":
			p.interfaceType(child, name, typeNode)
		}
		return false
	})
}

func (p *parser) structType(specNode *sitter.Node, name string, structNode *sitter.Node) {
	qualified := p.packageName + "." + name
	id := ident.PackageScoped(model.KindGoStruct, p.packageName, name)
	if p.structsByQualifiedName == nil {
		p.structsByQualifiedName = map[string]string{}
	}
	p.structsByQualifiedName[qualified] = id

	sl, el, sc, ec := tsitparse.Loc(specNode)
	p.ctx.Emit(id, model.KindGoStruct, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDefinesStruct, p.fileID, id, 8, nil)

	// struct_type holds its field_declarations inside a field_declaration_list.
	fields := structNode
	for i := 0; i < int(structNode.ChildCount()); i++ {
		if c := structNode.Child(i); c != nil && c.Type() == "field_declaration_list" {
			fields = c
		}
	}
	count := int(fields.ChildCount())
	for i := 0; i < count; i++ {
		field := fields.Child(i)
		if field == nil || field.Type() != "field_declaration" {
			continue
		}
		p.structField(id, field)
	}
}

func (p *parser) structField(structID string, field *sitter.Node) {
	typeNode := tsitparse.ChildByField(field, "type")
	typeExpr := tsitparse.Text(typeNode, p.source)
	count := int(field.ChildCount())
	for i := 0; i < count; i++ {
		child := field.Child(i)
		if child == nil || child.Type() != "field_identifier" {
			continue
		}
		name := tsitparse.Text(child, p.source)
		sl, el, sc, ec := tsitparse.Loc(child)
		id := ident.Build(model.KindField, structID+":"+name)
		p.ctx.Emit(id, model.KindField, name, sl, el, sc, ec, structID, map[string]any{
			"type": typeExpr,
		})
		p.relate(model.RelHasField, structID, id, 7, nil)
	}
}

func (p *parser) interfaceType(specNode *sitter.Node, name string, _ *sitter.Node) {
	id := ident.PackageScoped(model.KindGoInterface, p.packageName, name)
	sl, el, sc, ec := tsitparse.Loc(specNode)
	p.ctx.Emit(id, model.KindGoInterface, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDefinesInterface, p.fileID, id, 8, nil)
}

func (p *parser) functionDeclaration(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	if nameNode == nil {
		p.ctx.Log.Warn("go: function_declaration missing name, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.FunctionLike(model.KindGoFunction, p.filePath, name, sl)
	isExported := isExportedName(name)
	p.ctx.Emit(id, model.KindGoFunction, name, sl, el, sc, ec, p.fileID, map[string]any{
		"isExported": isExported,
	})
	p.relate(model.RelDefinesFunction, p.fileID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(n, "parameters"))
}

func (p *parser) methodDeclaration(n *sitter.Node) {
	nameNode := tsitparse.ChildByField(n, "name")
	receiverNode := tsitparse.ChildByField(n, "receiver")
	if nameNode == nil || receiverNode == nil {
		p.ctx.Log.Warn("go: method_declaration missing name or receiver, skipping", "file", p.filePath)
		return
	}
	name := tsitparse.Text(nameNode, p.source)
	receiverType := receiverTypeName(receiverNode, p.source)
	if receiverType == "" {
		p.ctx.Log.Warn("go: could not determine receiver type, skipping method", "file", p.filePath, "method", name)
		return
	}

	parentID, ok := p.structsByQualifiedName[p.packageName+"."+receiverType]
	if !ok {
		// Receiver struct wasn't (yet) seen in this file; construct its
		// expected entityId so the edge is well-formed even though the
		// struct node may be defined elsewhere or later.
		parentID = ident.PackageScoped(model.KindGoStruct, p.packageName, receiverType)
	}

	id := ident.Method(model.KindGoMethod, p.filePath, receiverType, name)
	sl, el, sc, ec := tsitparse.Loc(n)
	p.ctx.Emit(id, model.KindGoMethod, name, sl, el, sc, ec, parentID, map[string]any{
		"isExported":   isExportedName(name),
		"receiverType": receiverType,
	})
	p.relate(model.RelHasMethod, parentID, id, 8, nil)
	p.parameters(id, tsitparse.ChildByField(n, "parameters"))
}

func (p *parser) parameters(funcID string, params *sitter.Node) {
	if params == nil {
		return
	}
	count := int(params.ChildCount())
	for i := 0; i < count; i++ {
		decl := params.Child(i)
		if decl == nil || decl.Type() != "parameter_declaration" {
			continue
		}
		typeNode := tsitparse.ChildByField(decl, "type")
		typeExpr := tsitparse.Text(typeNode, p.source)
		dc := int(decl.ChildCount())
		for j := 0; j < dc; j++ {
			ident_ := decl.Child(j)
			if ident_ == nil || ident_.Type() != "identifier" {
				continue
			}
			name := tsitparse.Text(ident_, p.source)
			paramID := ident.Parameter(funcID, name)
			sl, el, sc, ec := tsitparse.Loc(ident_)
			p.ctx.Emit(paramID, model.KindParameter, name, sl, el, sc, ec, funcID, map[string]any{
				"type": typeExpr,
			})
			p.relate(model.RelHasParameter, funcID, paramID, 7, nil)
		}
	}
}

func (p *parser) relate(typ model.RelType, source, target string, weight int, props map[string]any) {
	id := ident.Relationship(typ, source, target, 0)
	p.ctx.Relate(id, typ, source, target, weight, props)
}

func receiverTypeName(receiver *sitter.Node, source []byte) string {
	var typeName string
	tsitparse.Walk(receiver, func(n *sitter.Node) bool {
		switch n.Type() {
		case "type_identifier":
			typeName = tsitparse.Text(n, source)
			return false
		case "pointer_type":
			return true
		}
		return typeName == ""
	})
	return typeName
}

func isExportedName(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func fileBaseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
