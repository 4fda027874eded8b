package cgerr

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemError_UnwrapsAndMarshalsKind(t *testing.T) {
	inner := errors.New("permission denied")
	err := &FileSystemError{Path: "/repo", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/repo")

	b, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"kind":"FileSystemError","path":"/repo","error":"permission denied"}`, string(b))
}

func TestNewParserError_TruncatesStackTo500Chars(t *testing.T) {
	longStack := strings.Repeat("x", 1000)
	err := NewParserError("/repo/a.go", "go", errors.New("syntax error"), longStack)
	assert.Len(t, err.Stack, 500)
	assert.Equal(t, "go", err.Language)
}

func TestConfigError_MarshalsField(t *testing.T) {
	err := &ConfigError{Field: "BatchSize", Err: errors.New("must be non-negative")}
	b, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"kind":"ConfigError","field":"BatchSize","error":"must be non-negative"}`, string(b))
}

func TestNeo4jError_IncludesOperationAndCode(t *testing.T) {
	err := &Neo4jError{Operation: "write", Code: "batch", Err: errors.New("disk full")}
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "batch")
	assert.ErrorIs(t, err, err.Err)
}

func TestInternalError_WrapsInvariantViolation(t *testing.T) {
	err := &InternalError{Invariant: "referential-closure", Err: errors.New("dangling edge")}
	assert.Contains(t, err.Error(), "referential-closure")
	assert.ErrorIs(t, err, err.Err)
}
