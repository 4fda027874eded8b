package cresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/model"
)

func TestResolve_ExactMatch(t *testing.T) {
	nodes := []model.Node{
		{EntityID: ident.File("/repo/widget.h"), Kind: model.KindFile, FilePath: "/repo/widget.h"},
		{EntityID: ident.File("/repo/main.c"), Kind: model.KindFile, FilePath: "/repo/main.c"},
		{
			EntityID:   "includedirective:/repo/main.c:1",
			Kind:       model.KindIncludeDirective,
			FilePath:   "/repo/main.c",
			Properties: map[string]any{"path": "/repo/widget.h", "isSystemInclude": false},
		},
	}
	idx := nodeindex.Build(nodes)

	edges := Resolve(idx)
	require.Len(t, edges, 1)
	assert.Equal(t, model.RelIncludes, edges[0].Type)
	assert.Equal(t, ident.File("/repo/widget.h"), edges[0].TargetID)
	assert.False(t, edges[0].IsPlaceholder())
}

func TestResolve_SuffixMatchFallback(t *testing.T) {
	nodes := []model.Node{
		{EntityID: ident.File("/repo/include/widget.h"), Kind: model.KindFile, FilePath: "/repo/include/widget.h"},
		{
			EntityID:   "includedirective:/repo/main.c:1",
			Kind:       model.KindIncludeDirective,
			FilePath:   "/repo/main.c",
			Properties: map[string]any{"path": "widget.h"},
		},
	}
	idx := nodeindex.Build(nodes)

	edges := Resolve(idx)
	require.Len(t, edges, 1)
	assert.Equal(t, ident.File("/repo/include/widget.h"), edges[0].TargetID)
	assert.False(t, edges[0].IsPlaceholder())
}

func TestResolve_UnresolvedIsPlaceholder(t *testing.T) {
	nodes := []model.Node{
		{
			EntityID:   "includedirective:/repo/main.c:1",
			Kind:       model.KindIncludeDirective,
			FilePath:   "/repo/main.c",
			Properties: map[string]any{"path": "missing.h"},
		},
	}
	idx := nodeindex.Build(nodes)

	edges := Resolve(idx)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].IsPlaceholder())
}
