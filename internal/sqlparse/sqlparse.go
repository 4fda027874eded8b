// Package sqlparse extracts nodes and intra-file relationships from SQL
// scripts via tree-sitter, emitting SQLTable/SQLColumn pairs for CREATE
// TABLE, an SQLView carrying its defining query text for CREATE VIEW,
// and a kind-encoding verb node carrying the full statement text for
// plain DML.
//
// The SQL grammar's node naming varies more across dialects than the
// other tree-sitter grammars this module uses, so rather than lean on
// field names that may not exist for every dialect, each top-level
// statement is classified by keywords in its text (CREATE TABLE or
// CREATE VIEW anywhere in it, otherwise a leading SELECT/INSERT/UPDATE/
// DELETE) and a created table's or view's name is read from the word
// after TABLE or VIEW in that text; this is less precise than a dialect-specific field lookup
// but degrades gracefully across the SQL flavors a real codebase mixes.
package sqlparse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/tsitparse"
	"github.com/relgraph/codegraph/model"
)

func Parse(goCtx context.Context, ctx *extract.Context, source []byte) error {
	tree, err := tsitparse.Parse(goCtx, model.LangSQL, source)
	if err != nil {
		return err
	}
	root := tree.RootNode()

	filePath := ident.NormalizePath(ctx.FilePath)
	fileID := ident.File(filePath)
	sl, el, sc, ec := tsitparse.Loc(root)
	ctx.Emit(fileID, model.KindFile, baseName(filePath), sl, el, sc, ec, "", nil)

	p := &parser{ctx: ctx, source: source, fileID: fileID, filePath: filePath}

	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		p.statement(root.Child(i))
	}
	return nil
}

type parser struct {
	ctx      *extract.Context
	source   []byte
	fileID   string
	filePath string
}

func (p *parser) statement(n *sitter.Node) {
	if n == nil {
		return
	}
	text := tsitparse.Text(n, p.source)
	upper := strings.ToUpper(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(upper, "CREATE TABLE"), strings.Contains(upper, "CREATE TABLE"):
		p.createTable(n, text)
	case strings.Contains(upper, "CREATE VIEW"):
		p.createView(n, text)
	case strings.HasPrefix(upper, "SELECT"):
		p.dmlStatement(n, text, model.KindSQLSelectStatement)
	case strings.HasPrefix(upper, "INSERT"):
		p.dmlStatement(n, text, model.KindSQLInsertStatement)
	case strings.HasPrefix(upper, "UPDATE"):
		p.dmlStatement(n, text, model.KindSQLUpdateStatement)
	case strings.HasPrefix(upper, "DELETE"):
		p.dmlStatement(n, text, model.KindSQLDeleteStatement)
	default:
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			p.statement(n.Child(i))
		}
	}
}

func (p *parser) createTable(n *sitter.Node, text string) {
	name := tableNameAfter(text, "TABLE")
	if name == "" {
		p.ctx.Log.Warn("sqlparse: could not determine table name, skipping CREATE TABLE", "file", p.filePath)
		return
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Container(model.KindSQLTable, p.filePath, name)
	p.ctx.Emit(id, model.KindSQLTable, name, sl, el, sc, ec, p.fileID, nil)
	p.relate(model.RelDefinesTable, p.fileID, id, 8, nil)

	for _, col := range columnNames(text) {
		colID := ident.Build(model.KindSQLColumn, id+":"+col)
		p.ctx.Emit(colID, model.KindSQLColumn, col, sl, el, sc, ec, id, nil)
		p.relate(model.RelHasColumn, id, colID, 6, nil)
	}
}

func (p *parser) createView(n *sitter.Node, text string) {
	name := tableNameAfter(text, "VIEW")
	if name == "" {
		p.ctx.Log.Warn("sqlparse: could not determine view name, skipping CREATE VIEW", "file", p.filePath)
		return
	}
	queryText := text
	if idx := strings.Index(strings.ToUpper(text), " AS "); idx >= 0 {
		queryText = strings.TrimSpace(text[idx+4:])
	}
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.Container(model.KindSQLView, p.filePath, name)
	p.ctx.Emit(id, model.KindSQLView, name, sl, el, sc, ec, p.fileID, map[string]any{
		"queryText": queryText,
	})
	p.relate(model.RelDefinesView, p.fileID, id, 8, nil)
}

func (p *parser) dmlStatement(n *sitter.Node, text string, kind model.Kind) {
	sl, el, sc, ec := tsitparse.Loc(n)
	id := ident.FunctionLike(kind, p.filePath, string(kind), sl)
	p.ctx.Emit(id, kind, string(kind), sl, el, sc, ec, p.fileID, map[string]any{
		"statementText": strings.TrimSpace(text),
	})
	p.relate(model.RelContains, p.fileID, id, 4, nil)
}

func (p *parser) relate(typ model.RelType, source, target string, weight int, props map[string]any) {
	id := ident.Relationship(typ, source, target, 0)
	p.ctx.Relate(id, typ, source, target, weight, props)
}

// tableNameAfter returns the identifier following keyword in text,
// skipping an optional "IF NOT EXISTS".
func tableNameAfter(text, keyword string) string {
	upper := strings.ToUpper(text)
	idx := strings.Index(upper, keyword)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(keyword):]
	rest = strings.TrimSpace(rest)
	restUpper := strings.ToUpper(rest)
	if strings.HasPrefix(restUpper, "IF NOT EXISTS") {
		rest = strings.TrimSpace(rest[len("IF NOT EXISTS"):])
	}
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '(' || r == ';'
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], `"'`+"`")
}

// columnNames extracts column identifiers from a CREATE TABLE statement's
// parenthesized column list by splitting on top-level commas and taking
// each entry's first token, skipping constraint clauses.
func columnNames(text string) []string {
	open := strings.Index(text, "(")
	shut := strings.LastIndex(text, ")")
	if open < 0 || shut < 0 || shut <= open {
		return nil
	}
	body := text[open+1 : shut]

	var names []string
	depth := 0
	var current strings.Builder
	flush := func() {
		entry := strings.TrimSpace(current.String())
		current.Reset()
		if entry == "" {
			return
		}
		upper := strings.ToUpper(entry)
		for _, skip := range []string{"PRIMARY KEY", "FOREIGN KEY", "CONSTRAINT", "UNIQUE", "CHECK", "INDEX"} {
			if strings.HasPrefix(upper, skip) {
				return
			}
		}
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			return
		}
		names = append(names, strings.Trim(fields[0], `"'`+"`"))
	}
	for _, r := range body {
		switch r {
		case '(':
			depth++
			current.WriteRune(r)
		case ')':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				flush()
				continue
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return names
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
