// Package sqlitegraph is the reference graphstore.Store adapter: a
// generic entityId-keyed node/edge property-graph pair, backed by
// SQLite through a schema-DDL-plus-*sql.DB shape over the go-sqlite3
// driver, repurposed from
// a fixed relational schema to a generic graph_nodes/graph_edges pair
// so entityId-keyed MERGE and stub-node creation have one real,
// exercised backing store.
package sqlitegraph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/relgraph/codegraph/internal/graphstore"
)

// Store is a SQLite-backed graphstore.Store.
type Store struct {
	db *sql.DB
}

// Open creates a Store backed by a SQLite database at dbPath, with WAL
// mode enabled.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=OFF&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("sqlitegraph: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitegraph: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying *sql.DB as an escape hatch for callers
// that need raw access (e.g. tests).
func (s *Store) DB() *sql.DB { return s.db }

const schemaDDL = `
CREATE TABLE IF NOT EXISTS graph_nodes (
  entity_id    TEXT PRIMARY KEY,
  kind         TEXT NOT NULL,
  name         TEXT,
  file_path    TEXT,
  language     TEXT,
  start_line   INTEGER,
  end_line     INTEGER,
  start_column INTEGER,
  end_column   INTEGER,
  parent_id    TEXT,
  properties   TEXT,
  created_at   TEXT,
  is_stub      BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS graph_edges (
  entity_id  TEXT NOT NULL,
  type       TEXT NOT NULL,
  source_id  TEXT NOT NULL,
  target_id  TEXT NOT NULL,
  weight     INTEGER,
  properties TEXT,
  created_at TEXT,
  PRIMARY KEY (type, entity_id)
);

CREATE INDEX IF NOT EXISTS idx_graph_nodes_kind_file ON graph_nodes(kind, file_path);
CREATE INDEX IF NOT EXISTS idx_graph_nodes_kind_name ON graph_nodes(kind, name);
CREATE INDEX IF NOT EXISTS idx_graph_edges_source ON graph_edges(source_id);
CREATE INDEX IF NOT EXISTS idx_graph_edges_target ON graph_edges(target_id);
CREATE INDEX IF NOT EXISTS idx_graph_edges_type ON graph_edges(type);
`

// EnsureSchema creates the schema if absent and is always safe to rerun.
// Open does not call it; Analyze calls it once at the start of every run.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("sqlitegraph: ensure schema: %w", err)
	}
	return nil
}

// Reset deletes every node and edge.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitegraph: reset: begin: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM graph_edges`); err != nil {
		return fmt.Errorf("sqlitegraph: reset: delete edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM graph_nodes`); err != nil {
		return fmt.Errorf("sqlitegraph: reset: delete nodes: %w", err)
	}
	return tx.Commit()
}

// UpsertNodeBatch MERGEs one batch by entity_id: INSERT ... ON CONFLICT
// replaces every column, including kind — a node's kind may change
// between runs, and since kind is a single column here rather than a
// label set, replacing it on conflict is equivalent to resetting any
// previously-set label.
func (s *Store) UpsertNodeBatch(ctx context.Context, nodes []graphstore.NodeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitegraph: upsert nodes: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO graph_nodes (entity_id, kind, name, file_path, language, start_line, end_line, start_column, end_column, parent_id, properties, created_at, is_stub)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(entity_id) DO UPDATE SET
			kind=excluded.kind, name=excluded.name, file_path=excluded.file_path,
			language=excluded.language, start_line=excluded.start_line, end_line=excluded.end_line,
			start_column=excluded.start_column, end_column=excluded.end_column,
			parent_id=excluded.parent_id, properties=excluded.properties,
			created_at=excluded.created_at, is_stub=0
	`)
	if err != nil {
		return fmt.Errorf("sqlitegraph: upsert nodes: prepare: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		props, err := json.Marshal(n.Properties)
		if err != nil {
			return fmt.Errorf("sqlitegraph: upsert nodes: marshal properties: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, n.EntityID, n.Kind, n.Name, n.FilePath, n.Language,
			n.StartLine, n.EndLine, n.StartColumn, n.EndColumn, nullable(n.ParentID), string(props), n.CreatedAt); err != nil {
			return fmt.Errorf("sqlitegraph: upsert nodes: entityId %s: %w", n.EntityID, err)
		}
	}
	return tx.Commit()
}

// UpsertRelationshipBatch MERGEs one batch of same-typed edges by
// (type, entityId) and materializes stub endpoint nodes that don't yet
// exist.
func (s *Store) UpsertRelationshipBatch(ctx context.Context, relType string, edges []graphstore.EdgeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitegraph: upsert edges: begin: %w", err)
	}
	defer tx.Rollback()

	stubStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO graph_nodes (entity_id, kind, name, file_path, language, start_line, end_line, start_column, end_column, parent_id, properties, created_at, is_stub)
		VALUES (?, ?, '', '', '', 0, 0, 0, 0, NULL, '{}', ?, 1)
		ON CONFLICT(entity_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("sqlitegraph: upsert edges: prepare stub: %w", err)
	}
	defer stubStmt.Close()

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO graph_edges (entity_id, type, source_id, target_id, weight, properties, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type, entity_id) DO UPDATE SET
			source_id=excluded.source_id, target_id=excluded.target_id,
			weight=excluded.weight, properties=excluded.properties, created_at=excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("sqlitegraph: upsert edges: prepare edge: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		if _, err := stubStmt.ExecContext(ctx, e.SourceID, "", e.CreatedAt); err != nil {
			return fmt.Errorf("sqlitegraph: upsert edges: stub source: %w", err)
		}
		if _, err := stubStmt.ExecContext(ctx, e.TargetID, e.TargetKind, e.CreatedAt); err != nil {
			return fmt.Errorf("sqlitegraph: upsert edges: stub target: %w", err)
		}
		props, err := json.Marshal(e.Properties)
		if err != nil {
			return fmt.Errorf("sqlitegraph: upsert edges: marshal properties: %w", err)
		}
		if _, err := edgeStmt.ExecContext(ctx, e.EntityID, relType, e.SourceID, e.TargetID, e.Weight, string(props), e.CreatedAt); err != nil {
			return fmt.Errorf("sqlitegraph: upsert edges: entityId %s: %w", e.EntityID, err)
		}
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
