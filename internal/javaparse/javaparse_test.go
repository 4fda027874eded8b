package javaparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/model"
)

const sample = `package com.example.widgets;

import java.util.List;

public class Widget {
    private String name;

    public Widget(String name) {
        this.name = name;
    }

    public String describe(String prefix) {
        return prefix + name;
    }
}
`

func parseSample(t *testing.T) model.SingleFileParseResult {
	t.Helper()
	ctx := extract.New("/repo/src/Widget.java", model.LangJava, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(sample)))
	return ctx.Result()
}

func TestParse_PackageQualifiesClass(t *testing.T) {
	result := parseSample(t)
	var class *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindJavaClass && result.Nodes[i].Name == "Widget" {
			class = &result.Nodes[i]
		}
	}
	require.NotNil(t, class)
	assert.Equal(t, "com.example.widgets", class.Properties["package"])
}

func TestParse_ConstructorIsJavaMethodWithFlag(t *testing.T) {
	result := parseSample(t)
	var ctor *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindJavaMethod && result.Nodes[i].Name == "Widget" {
			ctor = &result.Nodes[i]
		}
	}
	require.NotNil(t, ctor)
	assert.Equal(t, true, ctor.Properties["isConstructor"])
}

func TestParse_RegularMethodNotConstructor(t *testing.T) {
	result := parseSample(t)
	var method *model.Node
	for i := range result.Nodes {
		if result.Nodes[i].Kind == model.KindJavaMethod && result.Nodes[i].Name == "describe" {
			method = &result.Nodes[i]
		}
	}
	require.NotNil(t, method)
	assert.Equal(t, false, method.Properties["isConstructor"])
}
