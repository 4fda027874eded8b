package sqlparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/model"
)

const sample = `CREATE TABLE widgets (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    count INTEGER
);

CREATE VIEW active_widgets AS
SELECT id, name FROM widgets WHERE count > 0;

SELECT * FROM widgets;
`

func parseSample(t *testing.T) model.SingleFileParseResult {
	t.Helper()
	ctx := extract.New("/repo/schema.sql", model.LangSQL, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(sample)))
	return ctx.Result()
}

func TestParse_TableAndColumns(t *testing.T) {
	result := parseSample(t)
	var table *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindSQLTable && result.Nodes[i].Name == "widgets" {
			table = &result.Nodes[i]
		}
	}
	require.NotNil(t, table)

	columnNames := map[string]bool{}
	for _, n := range result.Nodes {
		if n.Kind == model.KindSQLColumn && n.ParentID == table.EntityID {
			columnNames[n.Name] = true
		}
	}
	assert.True(t, columnNames["id"])
	assert.True(t, columnNames["name"])
	assert.True(t, columnNames["count"])
}

func TestParse_ViewCapturesQueryText(t *testing.T) {
	result := parseSample(t)
	var view *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindSQLView && result.Nodes[i].Name == "active_widgets" {
			view = &result.Nodes[i]
		}
	}
	require.NotNil(t, view)
	queryText, _ := view.Properties["queryText"].(string)
	assert.Contains(t, queryText, "SELECT id, name FROM widgets")
}

func TestParse_SelectStatementCapturesText(t *testing.T) {
	result := parseSample(t)
	var found bool
	for _, n := range result.Nodes {
		if n.Kind == model.KindSQLSelectStatement {
			found = true
			text, _ := n.Properties["statementText"].(string)
			assert.Contains(t, text, "SELECT * FROM widgets")
		}
	}
	assert.True(t, found)
}
