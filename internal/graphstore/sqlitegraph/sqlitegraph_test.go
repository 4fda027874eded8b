package sqlitegraph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/graphstore"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertNodeBatch_MergeReplacesOnConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []graphstore.NodeRecord{{EntityID: "file:/a.go", Kind: "File", Name: "a.go", Properties: map[string]any{"v": 1}}}
	require.NoError(t, s.UpsertNodeBatch(ctx, first))

	second := []graphstore.NodeRecord{{EntityID: "file:/a.go", Kind: "File", Name: "a.go", Properties: map[string]any{"v": 2}}}
	require.NoError(t, s.UpsertNodeBatch(ctx, second))

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM graph_nodes`).Scan(&count))
	require.Equal(t, 1, count)

	var props string
	require.NoError(t, s.DB().QueryRow(`SELECT properties FROM graph_nodes WHERE entity_id = ?`, "file:/a.go").Scan(&props))
	require.Contains(t, props, `"v":2`)
}

func TestUpsertRelationshipBatch_MaterializesStubEndpoints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	edges := []graphstore.EdgeRecord{
		{EntityID: "calls:a:b", Type: "CALLS", SourceID: "function:/a.go:foo:1", TargetID: "function:/a.go:bar:2", Weight: 8, Properties: map[string]any{}},
	}
	require.NoError(t, s.UpsertRelationshipBatch(ctx, "CALLS", edges))

	var edgeCount int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM graph_edges`).Scan(&edgeCount))
	require.Equal(t, 1, edgeCount)

	var nodeCount int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE is_stub = 1`).Scan(&nodeCount))
	require.Equal(t, 2, nodeCount)
}

func TestReset_DeletesAllNodesAndEdges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertNodeBatch(ctx, []graphstore.NodeRecord{{EntityID: "file:/a.go", Kind: "File"}}))
	require.NoError(t, s.UpsertRelationshipBatch(ctx, "IMPORTS", []graphstore.EdgeRecord{
		{EntityID: "imports:a:b", Type: "IMPORTS", SourceID: "file:/a.go", TargetID: "file:/b.go"},
	}))

	require.NoError(t, s.Reset(ctx))

	var nodeCount, edgeCount int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM graph_nodes`).Scan(&nodeCount))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM graph_edges`).Scan(&edgeCount))
	require.Equal(t, 0, nodeCount)
	require.Equal(t, 0, edgeCount)
}
