package cparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/model"
)

const cSample = `#include <stdio.h>
#include "local.h"

int add(int a, int b) {
    return a + b;
}
`

const cppSample = `#include <string>

class Greeter {
public:
    Greeter(std::string name);
    std::string greet(std::string suffix);
private:
    std::string name_;
};
`

func TestParse_C_Includes(t *testing.T) {
	ctx := extract.New("/repo/math.c", model.LangC, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(cSample), model.LangC))
	result := ctx.Result()

	var system, local bool
	for _, n := range result.Nodes {
		if n.Kind != model.KindIncludeDirective {
			continue
		}
		if n.Properties["isSystemInclude"] == true {
			system = true
		}
		if n.Properties["isSystemInclude"] == false {
			local = true
		}
	}
	assert.True(t, system, "expected a system include")
	assert.True(t, local, "expected a local include")
}

func TestParse_C_FreeFunction(t *testing.T) {
	ctx := extract.New("/repo/math.c", model.LangC, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(cSample), model.LangC))
	result := ctx.Result()

	var found bool
	for _, n := range result.Nodes {
		if n.Kind == model.KindCFunction && n.Name == "add" {
			found = true
		}
	}
	assert.True(t, found, "expected a CFunction node named add")
}

func TestParse_Cpp_ClassWithMethods(t *testing.T) {
	ctx := extract.New("/repo/greeter.cpp", model.LangCpp, nil)
	require.NoError(t, Parse(context.Background(), ctx, []byte(cppSample), model.LangCpp))
	result := ctx.Result()

	var classID string
	for _, n := range result.Nodes {
		if n.Kind == model.KindCppClass && n.Name == "Greeter" {
			classID = n.EntityID
		}
	}
	require.NotEmpty(t, classID)

	methodNames := map[string]bool{}
	for _, n := range result.Nodes {
		if n.Kind == model.KindCppMethod && n.ParentID == classID {
			methodNames[n.Name] = true
		}
	}
	assert.True(t, methodNames["greet"])
}
