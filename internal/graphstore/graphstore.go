// Package graphstore defines the port the storage writer (internal/batch)
// persists through. The graph database driver itself is treated as an
// external collaborator — this package only names the interface a
// concrete adapter must satisfy, plus a reference adapter
// (internal/graphstore/sqlitegraph) so the port has at least one real,
// exercised backing store rather than existing only on paper.
package graphstore

import "context"

// Store is the persistence port the storage writer depends on. A
// production deployment might back this with Neo4j (the store named
// throughout ); sqlitegraph.Store is the adapter this module ships.
type Store interface {
	// EnsureSchema (re-)applies the label/index/constraint DDL.
	// Analyze calls it at the start of every run; it is idempotent.
	EnsureSchema(ctx context.Context) error

	// Reset deletes all nodes and relationships. Called when
	// Options.ResetDB is true, before any writes in the run.
	Reset(ctx context.Context) error

	// UpsertNodeBatch MERGEs one batch of nodes by entityId, replacing
	// properties and resetting the label set to kind.
	UpsertNodeBatch(ctx context.Context, nodes []NodeRecord) error

	// UpsertRelationshipBatch MERGEs one batch of same-typed edges by
	// (type, entityId). Endpoint nodes that don't yet exist are created
	// as stub nodes so the graph stays referentially closed.
	UpsertRelationshipBatch(ctx context.Context, relType string, edges []EdgeRecord) error

	Close() error
}

// NodeRecord and EdgeRecord are the flattened, store-agnostic shapes the
// batch writer hands to a Store adapter — decoupled from model.Node /
// model.Relationship so a concrete adapter never needs to import the
// domain model, only this package.
type NodeRecord struct {
	EntityID    string
	Kind        string
	Name        string
	FilePath    string
	Language    string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
	ParentID    string
	Properties  map[string]any
	CreatedAt   string
}

type EdgeRecord struct {
	EntityID   string
	Type       string
	SourceID   string
	TargetID   string
	Weight     int
	Properties map[string]any
	CreatedAt  string
	// TargetKind is the best-effort kind for a stub node materialized at
	// TargetID if it doesn't already exist, taken from
	// Properties["targetKind"] when the emitting parser recorded one.
	TargetKind string
}
