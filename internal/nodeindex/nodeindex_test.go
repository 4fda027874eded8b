package nodeindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/model"
)

func TestBuild_ByIDAndByFile(t *testing.T) {
	nodes := []model.Node{
		{EntityID: "file:/repo/a.ts", Kind: model.KindFile, FilePath: "/repo/a.ts", Name: "a.ts"},
		{EntityID: "function:/repo/a.ts:foo:1", Kind: model.KindFunction, FilePath: "/repo/a.ts", Name: "foo",
			Properties: map[string]any{"isExported": true}},
	}
	idx := Build(nodes)

	n, ok := idx.ByID("function:/repo/a.ts:foo:1")
	require.True(t, ok)
	assert.Equal(t, "foo", n.Name)

	assert.Len(t, idx.ByFile("/repo/a.ts"), 2)

	fileNode, ok := idx.FileNode("/repo/a.ts")
	require.True(t, ok)
	assert.Equal(t, model.KindFile, fileNode.Kind)
}

func TestFindByKindAndExportFlag(t *testing.T) {
	nodes := []model.Node{
		{EntityID: "function:/repo/a.ts:foo:1", Kind: model.KindFunction, FilePath: "/repo/a.ts", Name: "foo",
			Properties: map[string]any{"isExported": true}},
		{EntityID: "function:/repo/a.ts:bar:1", Kind: model.KindFunction, FilePath: "/repo/a.ts", Name: "bar",
			Properties: map[string]any{"isExported": false}},
	}
	idx := Build(nodes)

	n, ok := idx.FindByKindAndExportFlag("/repo/a.ts", "foo", model.KindFunction, "isExported")
	require.True(t, ok)
	assert.Equal(t, "foo", n.Name)

	_, ok = idx.FindByKindAndExportFlag("/repo/a.ts", "bar", model.KindFunction, "isExported")
	assert.False(t, ok)
}

func TestFindFileBySuffix(t *testing.T) {
	nodes := []model.Node{
		{EntityID: "file:/repo/include/widget.h", Kind: model.KindFile, FilePath: "/repo/include/widget.h"},
	}
	idx := Build(nodes)
	n, ok := idx.FindFileBySuffix("widget.h")
	require.True(t, ok)
	assert.Equal(t, "/repo/include/widget.h", n.FilePath)
}
