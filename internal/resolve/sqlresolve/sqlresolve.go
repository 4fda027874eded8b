// Package sqlresolve implements the minimal SQL Pass-2 resolver: scanning
// stored query text (view bodies and DML statement text) for table/view
// names that match a known SQLTable/SQLView in the same schema, emitting
// REFERENCES_TABLE/REFERENCES_VIEW edges.
package sqlresolve

import (
	"regexp"
	"strings"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/model"
)

// referenceClause matches the identifier following FROM/JOIN/INTO/UPDATE,
// the clauses that name a table or view across SELECT/INSERT/UPDATE/DELETE
// and CREATE VIEW query bodies.
var referenceClause = regexp.MustCompile(`(?i)\b(?:FROM|JOIN|INTO|UPDATE)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Resolve scans every SQLView and DML statement node in idx and emits
// REFERENCES_TABLE/REFERENCES_VIEW edges for any referenced name that
// matches a known SQLTable/SQLView by name, within the same schema (i.e.
// restricted to nodes in the same source file as the referencing node).
func Resolve(idx *nodeindex.Index) []model.Relationship {
	var edges []model.Relationship

	kinds := []model.Kind{
		model.KindSQLView,
		model.KindSQLSelectStatement,
		model.KindSQLInsertStatement,
		model.KindSQLUpdateStatement,
		model.KindSQLDeleteStatement,
	}
	for _, kind := range kinds {
		for _, n := range idx.NodesOfKind(kind) {
			text := queryText(n)
			if text == "" {
				continue
			}
			for _, name := range referencedNames(text) {
				target, typ, ok := lookup(idx, n.FilePath, name)
				if !ok {
					continue
				}
				edges = append(edges, model.Relationship{
					EntityID:   ident.Relationship(typ, n.EntityID, target.EntityID, 0),
					Type:       typ,
					SourceID:   n.EntityID,
					TargetID:   target.EntityID,
					Weight:     5,
					Properties: map[string]any{"referencedName": name},
				})
			}
		}
	}
	return edges
}

func queryText(n model.Node) string {
	if v, ok := n.Properties["queryText"].(string); ok {
		return v
	}
	if v, ok := n.Properties["statementText"].(string); ok {
		return v
	}
	return ""
}

func referencedNames(text string) []string {
	matches := referenceClause.FindAllStringSubmatch(text, -1)
	seen := map[string]bool{}
	var names []string
	for _, m := range matches {
		name := strings.Trim(m[1], `"'`+"`")
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// lookup checks filePath's schema for a table then a view named name.
func lookup(idx *nodeindex.Index, filePath, name string) (model.Node, model.RelType, bool) {
	for _, n := range idx.ByFileAndName(filePath, name) {
		if n.Kind == model.KindSQLTable {
			return n, model.RelReferencesTable, true
		}
	}
	for _, n := range idx.ByFileAndName(filePath, name) {
		if n.Kind == model.KindSQLView {
			return n, model.RelReferencesView, true
		}
	}
	return model.Node{}, "", false
}
