// Package cgerr holds the closed error taxonomy at a level every
// internal package can import without creating an import cycle back to
// the root codegraph package, which re-exports these as type aliases
// for its public API.
package cgerr

import (
	"encoding/json"
	"fmt"
)

// FileSystemError reports that the scanner or a parser could not read a
// directory or file. A scan-level FileSystemError aborts the run; a
// single file's does not.
type FileSystemError struct {
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("filesystem error at %s: %s", e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

func (e *FileSystemError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Path string `json:"path"`
		Err  string `json:"error"`
	}{"FileSystemError", e.Path, e.Err.Error()})
}

// ParserError reports that a language parser aborted on a specific file
// . The file is skipped; the run continues.
type ParserError struct {
	FilePath string
	Language string
	Err      error
	// Stack is the first ~500 characters of diagnostic context.
	Stack string
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("parser error in %s (%s): %s", e.FilePath, e.Language, e.Err)
}

func (e *ParserError) Unwrap() error { return e.Err }

func (e *ParserError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		FilePath string `json:"filePath"`
		Language string `json:"language"`
		Err      string `json:"error"`
		Stack    string `json:"stack,omitempty"`
	}{"ParserError", e.FilePath, e.Language, e.Err.Error(), e.Stack})
}

// truncateStack trims s to at most 500 characters.
func truncateStack(s string) string {
	const maxLen = 500
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// NewParserError wraps err as a ParserError, truncating stack to 500 chars.
func NewParserError(filePath, language string, err error, stack string) *ParserError {
	return &ParserError{FilePath: filePath, Language: language, Err: err, Stack: truncateStack(stack)}
}

// ConfigError reports invalid or missing configuration at startup.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %s: %s", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Field string `json:"field"`
		Err   string `json:"error"`
	}{"ConfigError", e.Field, e.Err.Error()})
}

// Neo4jError reports a graph-store transaction failure. Despite the
// name, this covers any concrete graphstore.Store implementation's
// failures, not only a literal Neo4j driver. Fatal to the run.
type Neo4jError struct {
	Operation string
	Code      string
	Err       error
}

func (e *Neo4jError) Error() string {
	return fmt.Sprintf("graph store error during %s (code=%s): %s", e.Operation, e.Code, e.Err)
}

func (e *Neo4jError) Unwrap() error { return e.Err }

func (e *Neo4jError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string `json:"kind"`
		Operation string `json:"operation"`
		Code      string `json:"code"`
		Err       string `json:"error"`
	}{"Neo4jError", e.Operation, e.Code, e.Err.Error()})
}

// InternalError reports an invariant violation in the core, e.g. a
// resolver receiving a reference to a non-existent file node. Fatal.
type InternalError struct {
	Invariant string
	Err       error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error (%s): %s", e.Invariant, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string `json:"kind"`
		Invariant string `json:"invariant"`
		Err       string `json:"error"`
	}{"InternalError", e.Invariant, e.Err.Error()})
}
