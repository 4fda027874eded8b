package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/model"
)

const goSource = `package sample

func Hello() string {
	return "hi"
}
`

func TestRun_ParsesGoFileAndSkipsUnknownExtension(t *testing.T) {
	files := map[string][]byte{
		"/repo/sample.go":  []byte(goSource),
		"/repo/README.txt": []byte("not code"),
	}
	descriptors := []FileDescriptor{
		{Path: "/repo/sample.go", Extension: ".go"},
		{Path: "/repo/README.txt", Extension: ".txt"},
	}
	reader := func(path string) ([]byte, error) {
		return files[path], nil
	}

	results, errs, _ := Run(context.Background(), descriptors, reader, nil, 2)
	require.Empty(t, errs)
	require.Len(t, results, 1)
	assert.Equal(t, "/repo/sample.go", results[0].FilePath)

	var fnFound bool
	for _, n := range results[0].Nodes {
		if n.Kind == model.KindGoFunction && n.Name == "Hello" {
			fnFound = true
		}
	}
	assert.True(t, fnFound)
}

func TestRun_FileSystemErrorDoesNotAbortOtherFiles(t *testing.T) {
	files := map[string][]byte{
		"/repo/good.go": []byte(goSource),
	}
	descriptors := []FileDescriptor{
		{Path: "/repo/good.go", Extension: ".go"},
		{Path: "/repo/missing.go", Extension: ".go"},
	}
	reader := func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return data, nil
		}
		return nil, assertNotFoundErr
	}

	results, errs, _ := Run(context.Background(), descriptors, reader, nil, 2)
	require.Len(t, results, 1)
	require.Len(t, errs, 1)
}

var assertNotFoundErr = &notFoundError{}

type notFoundError struct{}

func (e *notFoundError) Error() string { return "file not found" }
