package csharpparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/model"
)

const sample = `using System;
using static System.Math;

namespace Widgets
{
    public class Widget
    {
        private string name;

        public Widget(string name)
        {
            this.name = name;
        }

        public string Describe(string prefix)
        {
            return prefix + name;
        }
    }
}
`

func parseSample(t *testing.T) model.SingleFileParseResult {
	t.Helper()
	ctx := extract.New("/repo/Widget.cs", model.LangCSharp, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(sample)))
	return ctx.Result()
}

func TestParse_UsingStaticCaptured(t *testing.T) {
	result := parseSample(t)
	var found bool
	for _, n := range result.Nodes {
		if n.Kind == model.KindUsingDirective && n.Properties["isStatic"] == true {
			found = true
		}
	}
	assert.True(t, found, "expected a using directive with isStatic=true")
}

func TestParse_ClassQualifiedByNamespace(t *testing.T) {
	result := parseSample(t)
	var class *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindCSharpClass && result.Nodes[i].Name == "Widget" {
			class = &result.Nodes[i]
		}
	}
	require.NotNil(t, class)
	assert.Equal(t, "Widgets", class.Properties["namespace"])
}

func TestParse_ConstructorFlagged(t *testing.T) {
	result := parseSample(t)
	var ctor *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindCSharpMethod && result.Nodes[i].Name == "Widget" {
			ctor = &result.Nodes[i]
		}
	}
	require.NotNil(t, ctor)
	assert.Equal(t, true, ctor.Properties["isConstructor"])
}
