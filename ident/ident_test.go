package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relgraph/codegraph/model"
)

func TestBuild_LowercasesKindOnly(t *testing.T) {
	assert.Equal(t, "function:/repo/a.go:Foo", Build(model.KindFunction, "/repo/a.go:Foo"))
}

func TestFile_UsesFileKind(t *testing.T) {
	assert.Equal(t, "file:/repo/a.ts", File("/repo/a.ts"))
}

func TestFunctionLike_DisambiguatesBySameNameDifferentLine(t *testing.T) {
	a := FunctionLike(model.KindFunction, "/repo/a.ts", "handler", 10)
	b := FunctionLike(model.KindFunction, "/repo/a.ts", "handler", 42)
	assert.NotEqual(t, a, b)
}

func TestMethod_NoLineNumberNeeded(t *testing.T) {
	assert.Equal(t, "gomethod:/repo/a.go:Widget.Describe", Method(model.KindGoMethod, "/repo/a.go", "Widget", "Describe"))
}

func TestRelationship_OmitsCallSiteLineWhenZero(t *testing.T) {
	withLine := Relationship(model.RelCalls, "src", "dst", 7)
	withoutLine := Relationship(model.RelCalls, "src", "dst", 0)
	assert.Contains(t, withLine, ":7")
	assert.NotContains(t, withoutLine, ":0")
	assert.Equal(t, "calls:src:dst", withoutLine)
}

func TestErrorHandlerTarget_NeverEmitsAKindPrefix(t *testing.T) {
	target := ErrorHandlerTarget("function:/repo/a.go:handle", 12)
	assert.Equal(t, "function:/repo/a.go:handle:error_handler:12", target)
}

func TestNormalizePath_ConvertsBackslashes(t *testing.T) {
	assert.Equal(t, "repo/pkg/a.go", NormalizePath(`repo\pkg\a.go`))
}
