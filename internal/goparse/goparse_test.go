package goparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/model"
)

const sample = `package widgets

import (
	"fmt"
)

type Widget struct {
	Name  string
	Count int
}

func NewWidget(name string) *Widget {
	return &Widget{Name: name}
}

func (w *Widget) Describe(prefix string) string {
	return fmt.Sprintf("%s: %s", prefix, w.Name)
}
`

func parseSample(t *testing.T) model.SingleFileParseResult {
	t.Helper()
	ctx := extract.New("/repo/widgets/widget.go", model.LangGo, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(sample)))
	return ctx.Result()
}

func TestParse_EmitsPackageClause(t *testing.T) {
	result := parseSample(t)
	var found bool
	for _, n := range result.Nodes {
		if n.Kind == model.KindPackageClause {
			found = true
			assert.Equal(t, "widgets", n.Name)
		}
	}
	assert.True(t, found, "expected a PackageClause node")
}

func TestParse_StructAndFields(t *testing.T) {
	result := parseSample(t)
	var structNode *model.Node
	fieldNames := map[string]bool{}
	for i := range result.Nodes {
		n := &result.Nodes[i]
		if n.Kind == model.KindGoStruct && n.Name == "Widget" {
			structNode = n
		}
		if n.Kind == model.KindField {
			fieldNames[n.Name] = true
		}
	}
	require.NotNil(t, structNode)
	assert.True(t, fieldNames["Name"])
	assert.True(t, fieldNames["Count"])
}

func TestParse_MethodAttachedToReceiverStruct(t *testing.T) {
	result := parseSample(t)

	var structID string
	for _, n := range result.Nodes {
		if n.Kind == model.KindGoStruct && n.Name == "Widget" {
			structID = n.EntityID
		}
	}
	require.NotEmpty(t, structID)

	var method *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindGoMethod && result.Nodes[i].Name == "Describe" {
			method = &result.Nodes[i]
		}
	}
	require.NotNil(t, method)
	assert.Equal(t, structID, method.ParentID)
	assert.Equal(t, "Widget", method.Properties["receiverType"])

	var hasMethodEdge bool
	for _, r := range result.Relationships {
		if r.Type == model.RelHasMethod && r.SourceID == structID && r.TargetID == method.EntityID {
			hasMethodEdge = true
		}
	}
	assert.True(t, hasMethodEdge, "expected HAS_METHOD edge from struct to method")
}

func TestParse_FunctionExportedFlag(t *testing.T) {
	result := parseSample(t)
	var fn *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindGoFunction && result.Nodes[i].Name == "NewWidget" {
			fn = &result.Nodes[i]
		}
	}
	require.NotNil(t, fn)
	assert.Equal(t, true, fn.Properties["isExported"])
}

func TestParse_DeterministicEntityIDsAcrossRuns(t *testing.T) {
	first := parseSample(t)
	second := parseSample(t)
	require.Equal(t, len(first.Nodes), len(second.Nodes))
	for i := range first.Nodes {
		assert.Equal(t, first.Nodes[i].EntityID, second.Nodes[i].EntityID)
		assert.NotEqual(t, first.Nodes[i].InstanceID, second.Nodes[i].InstanceID)
	}
}
