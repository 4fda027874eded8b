// Package scan discovers source files under a directory, filtering by
// extension and by doublestar-style ignore globs. The directory
// scanner is treated as an external collaborator to the extraction
// engine — this is the minimal implementation needed to drive that
// interface so Analyze has a concrete file list to hand the
// dispatcher: a filepath.WalkDir-based walk, skipping anything matching
// a configurable ignore-glob list; hidden directories are walked unless
// a glob matches them.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/relgraph/codegraph/internal/cgerr"
	"github.com/relgraph/codegraph/internal/dispatch"
)

// Descriptors walks root and returns one FileDescriptor per file whose
// extension is in extensions and whose forward-slash-normalized,
// root-relative path matches none of ignore's globs. A top-level failure
// to read root is a *cgerr.FileSystemError; per-entry walk errors
// are likewise surfaced the same way since a scan-level error aborts the
// run.
func Descriptors(root string, extensions, ignore []string) ([]dispatch.FileDescriptor, error) {
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}

	var out []dispatch.FileDescriptor
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchesAny(rel+"/", ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(rel, ignore) {
			return nil
		}
		ext := filepath.Ext(path)
		if !extSet[ext] {
			return nil
		}
		out = append(out, dispatch.FileDescriptor{Path: filepath.ToSlash(path), Extension: ext})
		return nil
	})
	if err != nil {
		return nil, &cgerr.FileSystemError{Path: root, Err: err}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// matchesAny reports whether relPath matches any of the doublestar-style
// glob patterns.
func matchesAny(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if globMatch(p, relPath) {
			return true
		}
	}
	return false
}

// globMatch implements the subset of doublestar glob syntax
// patterns use: `**` matches zero or more path segments, `*` matches
// within a single segment, everything else is a literal segment or
// filepath.Match-compatible segment pattern.
func globMatch(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, seg []string) bool {
	if len(pat) == 0 {
		return len(seg) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], seg) {
			return true
		}
		for i := 0; i < len(seg); i++ {
			if matchSegments(pat[1:], seg[i+1:]) {
				return true
			}
		}
		return false
	}
	if len(seg) == 0 {
		return false
	}
	ok, err := filepath.Match(pat[0], seg[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], seg[1:])
}
