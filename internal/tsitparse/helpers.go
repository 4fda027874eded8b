// Package tsitparse holds the tree-sitter plumbing shared by the
// non-scripting-language parsers (C/C++, Java, C#, Go, SQL): grammar
// lookup, a small explicit context stack for the current
// package/namespace/container during traversal, and the "never
// fabricate a node" skip-and-log discipline these parsers share.
package tsitparse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/sql"

	"github.com/relgraph/codegraph/model"
)

// LanguageFor returns the tree-sitter grammar for one of the languages
// this package supports: c, cpp, java, csharp, go, and sql.
func LanguageFor(lang model.Language) (*sitter.Language, bool) {
	switch lang {
	case model.LangC:
		return c.GetLanguage(), true
	case model.LangCpp:
		return cpp.GetLanguage(), true
	case model.LangJava:
		return java.GetLanguage(), true
	case model.LangCSharp:
		return csharp.GetLanguage(), true
	case model.LangGo:
		return golang.GetLanguage(), true
	case model.LangSQL:
		return sql.GetLanguage(), true
	default:
		return nil, false
	}
}

// Parse parses source with the grammar for lang, returning the resulting
// tree. The *sitter.Tree must be kept alive by the
// caller for as long as any Node from it is used (Content() reads back
// into the original source slice, not the tree, but child pointers are
// only valid while the tree exists).
func Parse(ctx context.Context, lang model.Language, source []byte) (*sitter.Tree, error) {
	grammar, ok := LanguageFor(lang)
	if !ok {
		return nil, fmt.Errorf("tsitparse: unsupported language %q", lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tsitparse: parse: %w", err)
	}
	return tree, nil
}

// Text returns a node's source text.
func Text(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// Loc returns (startLine, endLine, startCol, endCol) for a node, using
// this engine's 1-based-line/0-based-column convention.
func Loc(n *sitter.Node) (startLine, endLine, startCol, endCol int) {
	sp := n.StartPoint()
	ep := n.EndPoint()
	return int(sp.Row) + 1, int(ep.Row) + 1, int(sp.Column), int(ep.Column)
}

// ChildByField is a nil-safe wrapper over Node.ChildByFieldName.
func ChildByField(n *sitter.Node, field string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(field)
}

// FieldText returns the text of n's field, or "" if the field or node is absent.
func FieldText(n *sitter.Node, field string, source []byte) string {
	return Text(ChildByField(n, field), source)
}

// Walk performs a pre-order traversal of the tree rooted at n, invoking
// visit(node) for every node including n. If visit returns false, that
// node's children are skipped (but traversal continues with siblings).
func Walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		Walk(n.Child(i), visit)
	}
}

// ContextStack is a small explicit stack of string values (entity ids or
// names) representing the current enclosing package/namespace/container
// during a pre-order traversal. It is restored by the caller after
// recursing into a node that pushed onto it.
type ContextStack struct {
	values []string
}

// Push adds v to the top of the stack and returns a restore function the
// caller must invoke after processing the node's children.
func (s *ContextStack) Push(v string) (restore func()) {
	s.values = append(s.values, v)
	return func() {
		s.values = s.values[:len(s.values)-1]
	}
}

// Top returns the current top of the stack, or "" if empty.
func (s *ContextStack) Top() string {
	if len(s.values) == 0 {
		return ""
	}
	return s.values[len(s.values)-1]
}
