// Package dispatch routes discovered files to the parser for their
// extension and runs Pass 1 across a worker pool, deferring TS/JS work
// until the shared tsproject.Project has been hydrated with every TS/JS
// file in the run. The pipeline shape is a serial prepare phase, a
// parallel worker phase, then a serial collect phase.
package dispatch

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/relgraph/codegraph/internal/cgerr"
	"github.com/relgraph/codegraph/internal/cparse"
	"github.com/relgraph/codegraph/internal/csharpparse"
	"github.com/relgraph/codegraph/internal/extract"
	"github.com/relgraph/codegraph/internal/goparse"
	"github.com/relgraph/codegraph/internal/javaparse"
	"github.com/relgraph/codegraph/internal/pyparse"
	"github.com/relgraph/codegraph/internal/sqlparse"
	"github.com/relgraph/codegraph/internal/tsparse"
	"github.com/relgraph/codegraph/internal/tsproject"
	"github.com/relgraph/codegraph/model"
)

// FileDescriptor is one file handed to Run: a {path, extension}
// pair used to pick a parser.
type FileDescriptor struct {
	Path      string
	Extension string
}

// languageFor maps an extension to a Language, or ("", false) if the
// extension is unrecognized (dispatcher skips it with a warning).
func languageFor(ext string) (model.Language, bool) {
	switch ext {
	case ".ts", ".tsx":
		return model.LangTypeScript, true
	case ".js", ".jsx":
		return model.LangJavaScript, true
	case ".py":
		return model.LangPython, true
	case ".c", ".h":
		return model.LangC, true
	case ".cpp", ".hpp", ".cc", ".hh":
		return model.LangCpp, true
	case ".java":
		return model.LangJava, true
	case ".cs":
		return model.LangCSharp, true
	case ".go":
		return model.LangGo, true
	case ".sql":
		return model.LangSQL, true
	default:
		return "", false
	}
}

// isTSorJS reports whether lang belongs to the shared-project bucket.
func isTSorJS(lang model.Language) bool {
	return lang == model.LangTypeScript || lang == model.LangJavaScript
}

// FileReader abstracts reading a file's contents, so tests can substitute
// an in-memory reader instead of touching disk.
type FileReader func(path string) ([]byte, error)

// Run parses every descriptor, returning one SingleFileParseResult per
// successfully parsed file (failures are logged and dropped rather than
// aborting the whole run), the accumulated non-fatal errors for the
// caller to report, and the hydrated TS/JS project object Pass 2's
// tsresolve needs for the same cross-file export index Pass 1 built.
func Run(ctx context.Context, descriptors []FileDescriptor, read FileReader, log *slog.Logger, workers int) ([]model.SingleFileParseResult, []error, *tsproject.Project) {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var tsjs, others []FileDescriptor
	for _, d := range descriptors {
		lang, ok := languageFor(d.Extension)
		if !ok {
			log.Warn("dispatch: unrecognized extension, skipping", "path", d.Path, "extension", d.Extension)
			continue
		}
		if isTSorJS(lang) {
			tsjs = append(tsjs, d)
		} else {
			others = append(others, d)
		}
	}

	proj := tsproject.New()
	pyPool := pyparse.NewPool(workers)

	var mu sync.Mutex
	var results []model.SingleFileParseResult
	var errs []error

	record := func(res model.SingleFileParseResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		results = append(results, res)
	}

	runPool := func(batch []FileDescriptor, work func(FileDescriptor) (model.SingleFileParseResult, error)) {
		sem := make(chan struct{}, workers)
		var wg sync.WaitGroup
		for _, d := range batch {
			d := d
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				res, err := work(d)
				record(res, err)
			}()
		}
		wg.Wait()
	}

	// Non-TS/JS files have no cross-file hydration requirement and run
	// first so their results are available while TS/JS project parsing
	// (which also needs a worker pool slot) is underway.
	runPool(others, func(d FileDescriptor) (model.SingleFileParseResult, error) {
		return parseOther(ctx, d, read, log, pyPool)
	})

	// Pre-register every TS/JS file so cross-file module resolution
	// (which reads the project's file set, not just its exports) can see
	// the complete file list even for files not yet individually parsed.
	for _, d := range tsjs {
		proj.EnsureFile(filepath.ToSlash(d.Path), "")
	}
	runPool(tsjs, func(d FileDescriptor) (model.SingleFileParseResult, error) {
		return parseTSJS(ctx, d, read, log, proj)
	})

	return results, errs, proj
}

func parseOther(goCtx context.Context, d FileDescriptor, read FileReader, log *slog.Logger, pyPool *pyparse.Pool) (model.SingleFileParseResult, error) {
	lang, _ := languageFor(d.Extension)

	if lang == model.LangPython {
		return pyPool.Parse(goCtx, d.Path)
	}

	source, err := read(d.Path)
	if err != nil {
		return model.SingleFileParseResult{}, &cgerr.FileSystemError{Path: d.Path, Err: err}
	}

	ectx := extract.New(d.Path, lang, log)

	var parseErr error
	switch lang {
	case model.LangC, model.LangCpp:
		parseErr = cparse.Parse(goCtx, ectx, source, lang)
	case model.LangJava:
		parseErr = javaparse.Parse(goCtx, ectx, source)
	case model.LangCSharp:
		parseErr = csharpparse.Parse(goCtx, ectx, source)
	case model.LangGo:
		parseErr = goparse.Parse(goCtx, ectx, source)
	case model.LangSQL:
		parseErr = sqlparse.Parse(goCtx, ectx, source)
	default:
		log.Warn("dispatch: no parser registered for language, skipping", "path", d.Path, "language", lang)
		return model.SingleFileParseResult{}, nil
	}
	if parseErr != nil {
		return model.SingleFileParseResult{}, cgerr.NewParserError(d.Path, string(lang), parseErr, "")
	}
	return ectx.Result(), nil
}

func parseTSJS(goCtx context.Context, d FileDescriptor, read FileReader, log *slog.Logger, proj *tsproject.Project) (model.SingleFileParseResult, error) {
	lang, _ := languageFor(d.Extension)
	source, err := read(d.Path)
	if err != nil {
		return model.SingleFileParseResult{}, &cgerr.FileSystemError{Path: d.Path, Err: err}
	}
	ectx := extract.New(d.Path, lang, log)
	if err := tsparse.Parse(goCtx, ectx, proj, source); err != nil {
		return model.SingleFileParseResult{}, cgerr.NewParserError(d.Path, string(lang), err, "")
	}
	return ectx.Result(), nil
}
