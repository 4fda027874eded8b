// Package merge ingests the stream of per-file Pass-1 results and
// produces the deduplicated (nodes, relationships) pair Pass 2 and the
// storage writer operate on: buffer everything, then merge once into a
// generic entityId-keyed map.
package merge

import (
	"log/slog"

	"github.com/relgraph/codegraph/model"
)

// Result is the deduplicated output of a merge.
type Result struct {
	Nodes         []model.Node
	Relationships []model.Relationship

	IntraFileDuplicateNodes int
	CrossFileDuplicateNodes int
	IntraFileDuplicateEdges int
	CrossFileDuplicateEdges int
}

// Merge dedups nodes and relationships by entityId across all of
// results, last-write-wins: when two records share an
// entityId, whichever is processed later in the input order replaces
// the earlier one. Intra-file duplicates (same file producing the same
// entityId twice) are logged at Warn; cross-file duplicates are logged
// at Error since they usually indicate an entityId-construction bug.
func Merge(results []model.SingleFileParseResult, log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}

	nodeOwner := map[string]string{} // entityId -> filePath that last wrote it
	nodes := map[string]model.Node{}
	edgeOwner := map[string]string{}
	edges := map[string]model.Relationship{}

	var res Result

	for _, r := range results {
		for _, n := range r.Nodes {
			if prevFile, exists := nodeOwner[n.EntityID]; exists {
				if prevFile == r.FilePath {
					res.IntraFileDuplicateNodes++
					log.Warn("merge: intra-file duplicate entityId", "entityId", n.EntityID, "file", r.FilePath)
				} else {
					res.CrossFileDuplicateNodes++
					log.Error("merge: cross-file duplicate entityId", "entityId", n.EntityID, "previousFile", prevFile, "file", r.FilePath)
				}
			}
			nodeOwner[n.EntityID] = r.FilePath
			nodes[n.EntityID] = n
		}
		for _, e := range r.Relationships {
			if prevFile, exists := edgeOwner[e.EntityID]; exists {
				if prevFile == r.FilePath {
					res.IntraFileDuplicateEdges++
					log.Warn("merge: intra-file duplicate relationship entityId", "entityId", e.EntityID, "file", r.FilePath)
				} else {
					res.CrossFileDuplicateEdges++
					log.Error("merge: cross-file duplicate relationship entityId", "entityId", e.EntityID, "previousFile", prevFile, "file", r.FilePath)
				}
			}
			edgeOwner[e.EntityID] = r.FilePath
			edges[e.EntityID] = e
		}
	}

	res.Nodes = make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, n)
	}
	res.Relationships = make([]model.Relationship, 0, len(edges))
	for _, e := range edges {
		res.Relationships = append(res.Relationships, e)
	}
	return res
}
