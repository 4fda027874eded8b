// Package cresolve implements the C/C++ Pass-2 resolver: turning
// IncludeDirective nodes into File —INCLUDES→ File edges.
package cresolve

import (
	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/model"
)

// Resolve scans every IncludeDirective node in idx and returns the
// INCLUDES edges they resolve to (or their placeholders).
func Resolve(idx *nodeindex.Index) []model.Relationship {
	var edges []model.Relationship
	for _, inc := range idx.NodesOfKind(model.KindIncludeDirective) {
		path, _ := inc.Properties["path"].(string)
		if path == "" {
			continue
		}
		fileID, found := resolveTarget(idx, path)
		edges = append(edges, model.Relationship{
			EntityID: ident.Relationship(model.RelIncludes, ident.File(inc.FilePath), fileID, 0),
			Type:     model.RelIncludes,
			SourceID: ident.File(inc.FilePath),
			TargetID: fileID,
			Weight:   6,
			Properties: map[string]any{
				"isPlaceholder": !found,
				"includePath":   path,
			},
		})
	}
	return edges
}

// resolveTarget tries an exact filePath match first, then a path-suffix
// match, falling back to a placeholder entityId built from the include
// path string verbatim.
func resolveTarget(idx *nodeindex.Index, includePath string) (string, bool) {
	if n, ok := idx.FileNode(includePath); ok {
		return n.EntityID, true
	}
	if n, ok := idx.FindFileBySuffix(includePath); ok {
		return n.EntityID, true
	}
	return ident.File(includePath), false
}
