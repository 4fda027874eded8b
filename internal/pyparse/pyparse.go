// Package pyparse runs the embedded Python AST walker as a subprocess
// per file. Concurrency is bounded by a small worker pool, since
// spawning one Python interpreter per file without a cap would thrash a
// large repository's CPU budget.
package pyparse

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/relgraph/codegraph/ident"
	"github.com/relgraph/codegraph/internal/cgerr"
	"github.com/relgraph/codegraph/model"
)

//go:embed script/ast_extract.py
var extractorScript []byte

// rawNode/rawRelationship mirror the JSON shape the embedded script
// emits; entityId/kind/name/etc. map directly, but instanceId and
// createdAt are assigned on the Go side of the wrapper.
type rawNode struct {
	EntityID    string         `json:"entityId"`
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	FilePath    string         `json:"filePath"`
	StartLine   int            `json:"startLine"`
	EndLine     int            `json:"endLine"`
	StartColumn int            `json:"startColumn"`
	EndColumn   int            `json:"endColumn"`
	ParentID    string         `json:"parentId"`
	Properties  map[string]any `json:"properties"`
}

type rawRelationship struct {
	Type       string         `json:"type"`
	SourceID   string         `json:"sourceId"`
	TargetID   string         `json:"targetId"`
	Weight     int            `json:"weight"`
	Properties map[string]any `json:"properties"`
}

type rawResult struct {
	FilePath      string            `json:"filePath"`
	Nodes         []rawNode         `json:"nodes"`
	Relationships []rawRelationship `json:"relationships"`
}

type rawError struct {
	Error string `json:"error"`
}

// Pool bounds the number of concurrently running Python subprocesses.
type Pool struct {
	sem        chan struct{}
	pythonExec string
}

// NewPool creates a Pool sized to the host's CPU count, or size if
// size > 0.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, size), pythonExec: "python3"}
}

// Parse runs the embedded extractor against filePath and returns a
// populated SingleFileParseResult with instanceIds/timestamps assigned.
func (p *Pool) Parse(ctx context.Context, filePath string) (model.SingleFileParseResult, error) {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()

	cmd := exec.CommandContext(ctx, p.pythonExec, "-", filePath)
	cmd.Stdin = bytes.NewReader(extractorScript)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if stderr.Len() > 0 {
		var errDoc rawError
		if err := json.Unmarshal(stderr.Bytes(), &errDoc); err == nil && errDoc.Error != "" {
			return model.SingleFileParseResult{}, cgerr.NewParserError(filePath, "python", fmt.Errorf("%s", errDoc.Error), errDoc.Error)
		}
	}
	if runErr != nil {
		return model.SingleFileParseResult{}, cgerr.NewParserError(filePath, "python", runErr, stderr.String())
	}

	var raw rawResult
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return model.SingleFileParseResult{}, cgerr.NewParserError(filePath, "python", fmt.Errorf("invalid JSON from extractor: %w", err), stdout.String())
	}
	if raw.FilePath == "" || raw.Nodes == nil || raw.Relationships == nil {
		return model.SingleFileParseResult{}, cgerr.NewParserError(filePath, "python", fmt.Errorf("extractor output missing filePath/nodes/relationships"), "")
	}

	now := time.Now().UTC()
	result := model.SingleFileParseResult{FilePath: raw.FilePath}
	for _, n := range raw.Nodes {
		result.Nodes = append(result.Nodes, model.Node{
			EntityID:    n.EntityID,
			InstanceID:  uuid.NewString(),
			Kind:        model.Kind(n.Kind),
			Name:        n.Name,
			FilePath:    n.FilePath,
			Language:    model.LangPython,
			StartLine:   n.StartLine,
			EndLine:     n.EndLine,
			StartColumn: n.StartColumn,
			EndColumn:   n.EndColumn,
			ParentID:    n.ParentID,
			Properties:  n.Properties,
			CreatedAt:   now,
		})
	}
	for _, r := range raw.Relationships {
		result.Relationships = append(result.Relationships, model.Relationship{
			EntityID:   ident.Relationship(model.RelType(r.Type), r.SourceID, r.TargetID, 0),
			Type:       model.RelType(r.Type),
			SourceID:   r.SourceID,
			TargetID:   r.TargetID,
			Weight:     r.Weight,
			Properties: r.Properties,
			CreatedAt:  now,
		})
	}
	return result, nil
}
