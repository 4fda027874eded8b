// Package batch implements the storage writer: group nodes and
// edges into fixed-size batches and upsert them through a
// graphstore.Store, buffering then committing in ordered groups and
// logging the first few offending records before re-raising on
// failure, adapted to this engine's node-batches-then-edge-batches-by-type
// grouping.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/relgraph/codegraph/internal/graphstore"
	"github.com/relgraph/codegraph/model"
)

// maxLoggedFailures caps how many offending records get logged when a
// batch write fails.
const maxLoggedFailures = 5

// Write batches nodes then, grouped by type, edges, and upserts each
// batch through store in that order so node batches commit before any
// edge batch that references them.
func Write(ctx context.Context, store graphstore.Store, nodes []model.Node, edges []model.Relationship, batchSize int, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	if err := writeNodeBatches(ctx, store, nodes, batchSize, log); err != nil {
		return err
	}
	if err := writeEdgeBatches(ctx, store, edges, batchSize, log); err != nil {
		return err
	}
	return nil
}

func writeNodeBatches(ctx context.Context, store graphstore.Store, nodes []model.Node, batchSize int, log *slog.Logger) error {
	records := make([]graphstore.NodeRecord, len(nodes))
	for i, n := range nodes {
		records[i] = toNodeRecord(n)
	}
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]
		if err := store.UpsertNodeBatch(ctx, chunk); err != nil {
			logFirstFailures(log, "node", nodes[start:end], func(n model.Node) string { return n.EntityID }, err)
			return fmt.Errorf("batch: upsert node batch [%d:%d]: %w", start, end, err)
		}
	}
	log.Info("batch: wrote node batches", "total", len(nodes), "batchSize", batchSize)
	return nil
}

func writeEdgeBatches(ctx context.Context, store graphstore.Store, edges []model.Relationship, batchSize int, log *slog.Logger) error {
	// Partition by type with a deterministic type iteration
	// order so batches are reproducible run-to-run.
	byType := map[model.RelType][]model.Relationship{}
	for _, e := range edges {
		byType[e.Type] = append(byType[e.Type], e)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	for _, t := range types {
		group := byType[model.RelType(t)]
		records := make([]graphstore.EdgeRecord, len(group))
		for i, e := range group {
			records[i] = toEdgeRecord(e)
		}
		for start := 0; start < len(records); start += batchSize {
			end := start + batchSize
			if end > len(records) {
				end = len(records)
			}
			chunk := records[start:end]
			if err := store.UpsertRelationshipBatch(ctx, t, chunk); err != nil {
				logFirstFailures(log, "relationship", group[start:end], func(e model.Relationship) string { return e.EntityID }, err)
				return fmt.Errorf("batch: upsert %s batch [%d:%d]: %w", t, start, end, err)
			}
		}
		log.Info("batch: wrote relationship batches", "type", t, "total", len(group), "batchSize", batchSize)
	}
	return nil
}

func toNodeRecord(n model.Node) graphstore.NodeRecord {
	return graphstore.NodeRecord{
		EntityID:    n.EntityID,
		Kind:        string(n.Kind),
		Name:        n.Name,
		FilePath:    n.FilePath,
		Language:    string(n.Language),
		StartLine:   n.StartLine,
		EndLine:     n.EndLine,
		StartColumn: n.StartColumn,
		EndColumn:   n.EndColumn,
		ParentID:    n.ParentID,
		Properties:  n.Properties,
		CreatedAt:   n.CreatedAt.Format(timeLayout),
	}
}

func toEdgeRecord(e model.Relationship) graphstore.EdgeRecord {
	targetKind, _ := e.Properties["targetKind"].(string)
	return graphstore.EdgeRecord{
		EntityID:   e.EntityID,
		Type:       string(e.Type),
		SourceID:   e.SourceID,
		TargetID:   e.TargetID,
		Weight:     e.Weight,
		Properties: e.Properties,
		CreatedAt:  e.CreatedAt.Format(timeLayout),
		TargetKind: targetKind,
	}
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// logFirstFailures logs up to maxLoggedFailures records from a failed
// batch, identified by their entityId.
func logFirstFailures[T any](log *slog.Logger, kind string, batch []T, id func(T) string, err error) {
	n := len(batch)
	if n > maxLoggedFailures {
		n = maxLoggedFailures
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = id(batch[i])
	}
	b, _ := json.Marshal(ids)
	log.Error("batch: failed batch, logging first offenders", "kind", kind, "batchSize", len(batch), "firstEntityIDs", string(b), "error", err)
}
