// Package extract provides the shared per-file context every Pass-1
// parser is handed, and the helpers that record nodes and relationships
// under entityIds the parser has built via ident.
package extract

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/relgraph/codegraph/model"
)

// Context accumulates one file's Pass-1 output. It is never shared
// across files: the dispatcher hands every worker a fresh Context, so
// parsers can be stateless per file even though TS/JS parsing reads a
// shared project object for cross-file lookups.
type Context struct {
	FilePath string
	Language model.Language
	Log      *slog.Logger

	// Now is the creation timestamp applied to every emitted record.
	// Injectable for deterministic tests.
	Now time.Time

	Nodes         []model.Node
	Relationships []model.Relationship
}

// New creates a Context for one file.
func New(filePath string, lang model.Language, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	return &Context{
		FilePath: filePath,
		Language: lang,
		Log:      log,
		Now:      time.Now().UTC(),
	}
}

// Emit appends a node with the given entityId, kind, name, location, and
// optional parent/properties, returning the entityId for linking.
func (c *Context) Emit(entityID string, kind model.Kind, name string, startLine, endLine, startCol, endCol int, parentID string, props map[string]any) string {
	if props == nil {
		props = map[string]any{}
	}
	c.Nodes = append(c.Nodes, model.Node{
		EntityID:    entityID,
		InstanceID:  uuid.NewString(),
		Kind:        kind,
		Name:        name,
		FilePath:    c.FilePath,
		Language:    c.Language,
		StartLine:   startLine,
		EndLine:     endLine,
		StartColumn: startCol,
		EndColumn:   endCol,
		ParentID:    parentID,
		Properties:  props,
		CreatedAt:   c.Now,
	})
	return entityID
}

// Relate appends a relationship. entityID should be built via ident.Relationship.
func (c *Context) Relate(entityID string, typ model.RelType, sourceID, targetID string, weight int, props map[string]any) {
	if props == nil {
		props = map[string]any{}
	}
	c.Relationships = append(c.Relationships, model.Relationship{
		EntityID:   entityID,
		Type:       typ,
		SourceID:   sourceID,
		TargetID:   targetID,
		Weight:     weight,
		Properties: props,
		CreatedAt:  c.Now,
	})
}

// Result materializes the accumulated Context into a SingleFileParseResult.
func (c *Context) Result() model.SingleFileParseResult {
	return model.SingleFileParseResult{
		FilePath:      c.FilePath,
		Nodes:         c.Nodes,
		Relationships: c.Relationships,
	}
}
