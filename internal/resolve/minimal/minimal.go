// Package minimal implements the deliberately thin Pass-2 resolution
// pass for Python, Java, C#, and Go: Pass 1 already emits
// placeholder EXTENDS/IMPLEMENTS/PYTHON_CALLS edges for these languages,
// and this pass only upgrades a placeholder to a real edge when a cheap
// lookup succeeds — it never invents new edge types. Kept as
// its own package so a future resolver for any one
// of these languages can be added without touching the others or the
// Pass 1 parsers.
package minimal

import (
	"strings"

	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/model"
)

// Resolve returns a copy of relationships in which placeholder
// EXTENDS/IMPLEMENTS edges whose target entityId is in idx are marked
// resolved, and placeholder PYTHON_CALLS edges are re-targeted to a
// same-file PythonFunction/PythonMethod whose name matches the recorded
// callee name. The source node's language is not checked. Edges that
// cannot be upgraded are returned unchanged.
func Resolve(idx *nodeindex.Index, relationships []model.Relationship) []model.Relationship {
	out := make([]model.Relationship, len(relationships))
	copy(out, relationships)

	for i, rel := range out {
		if !rel.IsPlaceholder() {
			continue
		}
		switch rel.Type {
		case model.RelExtends, model.RelImplements:
			out[i] = upgradeInheritance(idx, rel)
		case model.RelPythonCalls:
			out[i] = upgradeCall(idx, rel)
		}
	}
	return out
}

// upgradeInheritance handles the case where Pass 1 already constructed
// the deterministic entityId the base type would have if it exists in
// the analyzed set (Java's package-qualified EXTENDS/IMPLEMENTS targets,
// Python's module-qualified EXTENDS targets): if a node with that exact
// entityId is now in the index, the placeholder is promoted to a real
// edge without changing the target.
func upgradeInheritance(idx *nodeindex.Index, rel model.Relationship) model.Relationship {
	if _, ok := idx.ByID(rel.TargetID); !ok {
		return rel
	}
	props := cloneProps(rel.Properties)
	props["isPlaceholder"] = false
	rel.Properties = props
	return rel
}

// upgradeCall resolves a PYTHON_CALLS placeholder to a same-module
// PythonFunction/PythonMethod when the callee name matches one exactly;
// cross-module calls are left as placeholders.
func upgradeCall(idx *nodeindex.Index, rel model.Relationship) model.Relationship {
	name, _ := rel.Properties["calleeName"].(string)
	if name == "" {
		return rel
	}
	name = strings.TrimPrefix(name, "self.")
	source, ok := idx.ByID(rel.SourceID)
	if !ok {
		return rel
	}
	for _, candidate := range idx.ByFileAndName(source.FilePath, name) {
		if candidate.Kind != model.KindPythonFunction && candidate.Kind != model.KindPythonMethod {
			continue
		}
		rel.TargetID = candidate.EntityID
		props := cloneProps(rel.Properties)
		props["isPlaceholder"] = false
		rel.Properties = props
		return rel
	}
	return rel
}

func cloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
