package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/model"
)

func TestMerge_DedupsByEntityIDLastWriteWins(t *testing.T) {
	results := []model.SingleFileParseResult{
		{
			FilePath: "/repo/a.go",
			Nodes: []model.Node{
				{EntityID: "gofunction:/repo/a.go:Foo:1", Name: "Foo", StartLine: 1},
			},
		},
		{
			FilePath: "/repo/a.go",
			Nodes: []model.Node{
				{EntityID: "gofunction:/repo/a.go:Foo:1", Name: "Foo", StartLine: 1, EndLine: 5},
			},
		},
	}

	merged := Merge(results, nil)
	require.Len(t, merged.Nodes, 1)
	assert.Equal(t, 5, merged.Nodes[0].EndLine)
	assert.Equal(t, 1, merged.IntraFileDuplicateNodes)
	assert.Equal(t, 0, merged.CrossFileDuplicateNodes)
}

func TestMerge_CrossFileDuplicateCountedSeparately(t *testing.T) {
	results := []model.SingleFileParseResult{
		{FilePath: "/repo/a.go", Nodes: []model.Node{{EntityID: "dup", Name: "A"}}},
		{FilePath: "/repo/b.go", Nodes: []model.Node{{EntityID: "dup", Name: "B"}}},
	}

	merged := Merge(results, nil)
	require.Len(t, merged.Nodes, 1)
	assert.Equal(t, "B", merged.Nodes[0].Name)
	assert.Equal(t, 1, merged.CrossFileDuplicateNodes)
	assert.Equal(t, 0, merged.IntraFileDuplicateNodes)
}

func TestMerge_NoDuplicatesCountsZero(t *testing.T) {
	results := []model.SingleFileParseResult{
		{FilePath: "/repo/a.go", Nodes: []model.Node{{EntityID: "a"}}},
		{FilePath: "/repo/b.go", Nodes: []model.Node{{EntityID: "b"}}},
	}
	merged := Merge(results, nil)
	assert.Len(t, merged.Nodes, 2)
	assert.Zero(t, merged.IntraFileDuplicateNodes)
	assert.Zero(t, merged.CrossFileDuplicateNodes)
}
