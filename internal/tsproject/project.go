// Package tsproject holds the shared, multi-file project object that
// every TypeScript/JavaScript file in a run is parsed against.
// No Go TypeScript compiler/language service exists, so this package's
// per-file export index stands in for the lookup target that
// getTargetDeclarationInfo would normally query: each file
// records its exported declarations (name, kind, entityId,
// isDefaultExport) as it is parsed, and Pass 2's module resolver looks
// declarations up here instead of asking a language service for a
// symbol. This is a deliberate substitution — the five-step resolution
// contract is preserved even though the "find the symbol via the
// language service" step is implemented as a map lookup.
package tsproject

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/relgraph/codegraph/model"
)

// ExportedDecl records one exported declaration for cross-file lookup.
type ExportedDecl struct {
	Name            string
	Kind            model.Kind
	EntityID        string
	IsDefaultExport bool
}

// FileRecord is one file's contribution to the shared project.
type FileRecord struct {
	FilePath string
	FileID   string
	// Exports is keyed by declaration name; "default" is reserved for
	// the file's default export, if any.
	Exports map[string]ExportedDecl
}

// Project is the shared, run-scoped TS/JS project object. Safe for
// concurrent use: the dispatcher defers TS/JS parsing until every TS/JS
// file has been added to the project, but file records are
// populated by worker goroutines, so access is guarded by a mutex.
type Project struct {
	mu    sync.RWMutex
	files map[string]*FileRecord
}

// New creates an empty Project.
func New() *Project {
	return &Project{files: map[string]*FileRecord{}}
}

// EnsureFile returns the FileRecord for filePath, creating it if absent.
func (p *Project) EnsureFile(filePath, fileID string) *FileRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.files[filePath]; ok {
		return rec
	}
	rec := &FileRecord{FilePath: filePath, FileID: fileID, Exports: map[string]ExportedDecl{}}
	p.files[filePath] = rec
	return rec
}

// RecordExport adds or overwrites an exported declaration for filePath.
func (p *Project) RecordExport(filePath string, decl ExportedDecl) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.files[filePath]
	if !ok {
		rec = &FileRecord{FilePath: filePath, Exports: map[string]ExportedDecl{}}
		p.files[filePath] = rec
	}
	key := decl.Name
	if decl.IsDefaultExport {
		key = "default"
	}
	rec.Exports[key] = decl
}

// File returns the FileRecord for filePath, if the file is part of the
// project.
func (p *Project) File(filePath string) (*FileRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.files[filePath]
	return rec, ok
}

// LookupExport finds name (or "default") among the exports of the file
// at resolvedPath.
func (p *Project) LookupExport(resolvedPath, name string) (ExportedDecl, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.files[resolvedPath]
	if !ok {
		return ExportedDecl{}, false
	}
	decl, ok := rec.Exports[name]
	return decl, ok
}

// ResolveModuleSpecifier maps an import specifier relative to
// fromFilePath to a project-relative file path, trying the extensions a
// TS/JS resolver would, and falling back to an index file inside a
// directory. Returns ("", false) for bare/package specifiers (node_modules
// imports), which are always left as placeholders.
func (p *Project) ResolveModuleSpecifier(fromFilePath, specifier string) (string, bool) {
	if !strings.HasPrefix(specifier, ".") && !strings.HasPrefix(specifier, "/") {
		return "", false
	}
	base := filepath.Join(filepath.Dir(fromFilePath), specifier)
	base = filepath.ToSlash(base)

	candidates := []string{base}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		candidates = append(candidates, filepath.ToSlash(filepath.Join(base, "index"+ext)))
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, c := range candidates {
		if _, ok := p.files[c]; ok {
			return c, true
		}
	}
	return "", false
}
