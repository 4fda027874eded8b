// Package nodeindex builds the read-only lookup index Pass 2 resolvers
// query against the merged node set, keyed by entityId and by
// (filePath, name) for cross-file symbol lookups.
package nodeindex

import "github.com/relgraph/codegraph/model"

// Index is a read-only view over a merged node set, keyed the ways Pass
// 2 resolvers need to look declarations up: by entityId directly, by
// file, and by (filePath, name) for closest-match fallback resolution.
type Index struct {
	byID       map[string]model.Node
	byFile     map[string][]model.Node
	byFileName map[string][]model.Node
}

// Build constructs an Index over nodes.
func Build(nodes []model.Node) *Index {
	idx := &Index{
		byID:       make(map[string]model.Node, len(nodes)),
		byFile:     map[string][]model.Node{},
		byFileName: map[string][]model.Node{},
	}
	for _, n := range nodes {
		idx.byID[n.EntityID] = n
		idx.byFile[n.FilePath] = append(idx.byFile[n.FilePath], n)
		key := n.FilePath + "\x00" + n.Name
		idx.byFileName[key] = append(idx.byFileName[key], n)
	}
	return idx
}

// ByID returns the node for entityId, if present.
func (idx *Index) ByID(entityID string) (model.Node, bool) {
	n, ok := idx.byID[entityID]
	return n, ok
}

// ByFile returns every node whose FilePath equals filePath.
func (idx *Index) ByFile(filePath string) []model.Node {
	return idx.byFile[filePath]
}

// ByFileAndName returns every node in filePath named name.
func (idx *Index) ByFileAndName(filePath, name string) []model.Node {
	return idx.byFileName[filePath+"\x00"+name]
}

// FileNode returns the File node for filePath, if indexed.
func (idx *Index) FileNode(filePath string) (model.Node, bool) {
	for _, n := range idx.byFile[filePath] {
		if n.Kind == model.KindFile {
			return n, true
		}
	}
	return model.Node{}, false
}

// FindByKindAndExportFlag scans filePath's nodes for the first one
// matching kind whose properties[exportFlagKey] is true — the lookup
// named-import resolution performs across kinds in order.
func (idx *Index) FindByKindAndExportFlag(filePath, name string, kind model.Kind, exportFlagKey string) (model.Node, bool) {
	for _, n := range idx.ByFileAndName(filePath, name) {
		if n.Kind != kind {
			continue
		}
		if v, ok := n.Properties[exportFlagKey]; ok {
			if b, ok := v.(bool); ok && b {
				return n, true
			}
		}
	}
	return model.Node{}, false
}

// FindDefaultExport scans filePath's nodes for the one with
// properties.isDefaultExport=true.
func (idx *Index) FindDefaultExport(filePath string) (model.Node, bool) {
	for _, n := range idx.byFile[filePath] {
		if v, ok := n.Properties["isDefaultExport"]; ok {
			if b, ok := v.(bool); ok && b {
				return n, true
			}
		}
	}
	return model.Node{}, false
}

// FindFileBySuffix searches every indexed file path for one ending in
// suffix, used by the C/C++ include resolver's fallback match.
func (idx *Index) FindFileBySuffix(suffix string) (model.Node, bool) {
	for filePath, nodes := range idx.byFile {
		if len(filePath) >= len(suffix) && filePath[len(filePath)-len(suffix):] == suffix {
			for _, n := range nodes {
				if n.Kind == model.KindFile {
					return n, true
				}
			}
		}
	}
	return model.Node{}, false
}

// NodesOfKind returns every node of the given kind, used by resolvers
// that scan for all SQLTable/SQLView nodes in a schema.
func (idx *Index) NodesOfKind(kind model.Kind) []model.Node {
	var out []model.Node
	for _, n := range idx.byID {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
