package sqlresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/model"
)

func TestResolve_SelectReferencesTable(t *testing.T) {
	tableID := ident.Container(model.KindSQLTable, "/repo/schema.sql", "users")
	nodes := []model.Node{
		{EntityID: tableID, Kind: model.KindSQLTable, Name: "users", FilePath: "/repo/schema.sql"},
		{
			EntityID: "sqlselectstatement:/repo/schema.sql:SQLSelectStatement:10",
			Kind:     model.KindSQLSelectStatement,
			FilePath: "/repo/schema.sql",
			Properties: map[string]any{
				"statementText": "SELECT * FROM users WHERE id = 1",
			},
		},
	}
	idx := nodeindex.Build(nodes)

	edges := Resolve(idx)
	require.Len(t, edges, 1)
	assert.Equal(t, model.RelReferencesTable, edges[0].Type)
	assert.Equal(t, tableID, edges[0].TargetID)
}

func TestResolve_ViewQueryTextReferencesView(t *testing.T) {
	baseViewID := ident.Container(model.KindSQLView, "/repo/schema.sql", "active_users")
	nodes := []model.Node{
		{EntityID: baseViewID, Kind: model.KindSQLView, Name: "active_users", FilePath: "/repo/schema.sql"},
		{
			EntityID: ident.Container(model.KindSQLView, "/repo/schema.sql", "recent_active_users"),
			Kind:     model.KindSQLView,
			FilePath: "/repo/schema.sql",
			Properties: map[string]any{
				"queryText": "SELECT * FROM active_users WHERE last_login > now() - interval '7 days'",
			},
		},
	}
	idx := nodeindex.Build(nodes)

	edges := Resolve(idx)
	require.Len(t, edges, 1)
	assert.Equal(t, model.RelReferencesView, edges[0].Type)
	assert.Equal(t, baseViewID, edges[0].TargetID)
}

func TestResolve_UnknownNameProducesNoEdge(t *testing.T) {
	nodes := []model.Node{
		{
			EntityID: "sqlselectstatement:/repo/schema.sql:SQLSelectStatement:10",
			Kind:     model.KindSQLSelectStatement,
			FilePath: "/repo/schema.sql",
			Properties: map[string]any{
				"statementText": "SELECT 1",
			},
		},
	}
	idx := nodeindex.Build(nodes)

	edges := Resolve(idx)
	assert.Empty(t, edges)
}
