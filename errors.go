package codegraph

import "github.com/relgraph/codegraph/internal/cgerr"

// The closed error taxonomy is defined in internal/cgerr so every
// internal package (parsers, batch writer, graphstore adapters) can
// construct these without importing this root package; these aliases
// are what external callers and the RPC wrapper see.
type (
	FileSystemError = cgerr.FileSystemError
	ParserError     = cgerr.ParserError
	ConfigError     = cgerr.ConfigError
	Neo4jError      = cgerr.Neo4jError
	InternalError   = cgerr.InternalError
)

// NewParserError wraps err as a ParserError, truncating stack to 500 chars.
func NewParserError(filePath, language string, err error, stack string) *ParserError {
	return cgerr.NewParserError(filePath, language, err, stack)
}
