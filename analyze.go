// Package codegraph is the two-pass multi-language extraction and
// resolution engine: given a source directory, it runs Pass 1
// (per-file parsing), Pass 2 (cross-file resolution), deduplication, and
// batched persistence to a graph store.
package codegraph

import (
	"context"
	"log/slog"
	"os"

	"github.com/relgraph/codegraph/internal/batch"
	"github.com/relgraph/codegraph/internal/cgerr"
	"github.com/relgraph/codegraph/internal/dispatch"
	"github.com/relgraph/codegraph/internal/graphstore"
	"github.com/relgraph/codegraph/internal/graphstore/sqlitegraph"
	"github.com/relgraph/codegraph/internal/merge"
	"github.com/relgraph/codegraph/internal/nodeindex"
	"github.com/relgraph/codegraph/internal/resolve/cresolve"
	"github.com/relgraph/codegraph/internal/resolve/minimal"
	"github.com/relgraph/codegraph/internal/resolve/sqlresolve"
	"github.com/relgraph/codegraph/internal/resolve/tsresolve"
	"github.com/relgraph/codegraph/internal/scan"
	"github.com/relgraph/codegraph/model"
)

// Analyze runs the full pipeline over directory and persists the result
// . It returns one of the closed taxonomy's error types on
// failure, nil on success.
func Analyze(ctx context.Context, directory string, opts Options, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	OptionsFromEnv(&opts)
	if err := opts.Validate(); err != nil {
		return err
	}

	store, err := openStore(&opts)
	if err != nil {
		return &cgerr.Neo4jError{Operation: "open", Code: "connect", Err: err}
	}
	defer store.Close()

	// A brand-new database still needs its schema before any write;
	// Options.UpdateSchema only changes whether this is an explicit
	// re-apply request vs. first-run bootstrap — EnsureSchema is
	// idempotent either way.
	if err := store.EnsureSchema(ctx); err != nil {
		return &cgerr.Neo4jError{Operation: "ensureSchema", Code: "ddl", Err: err}
	}
	if opts.ResetDB {
		if err := store.Reset(ctx); err != nil {
			return &cgerr.Neo4jError{Operation: "resetDb", Code: "delete", Err: err}
		}
	}

	descriptors, err := scan.Descriptors(directory, opts.Extensions, opts.resolvedIgnore())
	if err != nil {
		return err // already a *cgerr.FileSystemError
	}
	log.Info("analyze: discovered files", "count", len(descriptors), "directory", directory)

	read := func(path string) ([]byte, error) { return os.ReadFile(path) }

	results, parseErrs, proj := dispatch.Run(ctx, descriptors, read, log, 0)
	for _, e := range parseErrs {
		log.Warn("analyze: parser error, file skipped", "error", e)
	}

	merged := merge.Merge(results, log)
	log.Info("analyze: merged pass-1 output",
		"nodes", len(merged.Nodes), "relationships", len(merged.Relationships),
		"intraFileDupNodes", merged.IntraFileDuplicateNodes, "crossFileDupNodes", merged.CrossFileDuplicateNodes,
		"intraFileDupEdges", merged.IntraFileDuplicateEdges, "crossFileDupEdges", merged.CrossFileDuplicateEdges)

	idx := nodeindex.Build(merged.Nodes)

	pass2 := minimal.Resolve(idx, merged.Relationships)
	pass2 = append(pass2, tsresolve.Resolve(ctx, idx, proj, merged.Relationships, read, log)...)
	pass2 = append(pass2, cresolve.Resolve(idx)...)
	pass2 = append(pass2, sqlresolve.Resolve(idx)...)

	final := merge.Merge([]model.SingleFileParseResult{{
		FilePath:      directory,
		Nodes:         merged.Nodes,
		Relationships: pass2,
	}}, log)

	if err := batch.Write(ctx, store, final.Nodes, final.Relationships, opts.BatchSize, log); err != nil {
		return &cgerr.Neo4jError{Operation: "write", Code: "batch", Err: err}
	}

	log.Info("analyze: complete", "nodes", len(final.Nodes), "relationships", len(final.Relationships))
	return nil
}

// openStore resolves Options' Neo4j-named connection fields to
// the sqlite reference adapter's dbPath. The RPC/CLI-facing option names
// are kept as-is even though this module's concrete Store is SQLite, not
// Neo4j (see DESIGN.md): Neo4jURL, when set, is treated as the sqlite
// DSN/file path; otherwise a path under TEMP_DIR (or the OS temp dir)
// is used.
func openStore(opts *Options) (graphstore.Store, error) {
	path := opts.Neo4jURL
	if path == "" {
		dir := os.Getenv("TEMP_DIR")
		if dir == "" {
			dir = os.TempDir()
		}
		path = dir + "/codegraph.db"
	}
	return sqlitegraph.Open(path)
}
