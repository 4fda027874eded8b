// Command codegraph-mcp exposes the analyzer as a single MCP tool,
// run_analyzer. Grounded on Starford96-kenaz's
// internal/mcpserver/server.go tool-registration pattern — a thin
// *server.MCPServer wrapper with one method per tool, stdio transport —
// trimmed to the single tool this engine's RPC surface names.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	codegraph "github.com/relgraph/codegraph"
)

func main() {
	s := newServer()
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "codegraph-mcp: %s\n", err)
		os.Exit(1)
	}
}

func newServer() *server.MCPServer {
	s := server.NewMCPServer(
		"codegraph",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("run_analyzer",
		mcp.WithDescription("Analyze a source directory and persist its code knowledge graph."),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Absolute path to the directory to analyze")),
		mcp.WithString("extensions", mcp.Description("Comma-separated extensions, overriding defaults")),
		mcp.WithString("ignore", mcp.Description("Comma-separated additional ignore globs")),
		mcp.WithBoolean("updateSchema", mcp.Description("Re-apply constraints and indexes before writing")),
		mcp.WithBoolean("resetDb", mcp.Description("Delete all nodes and relationships before writing")),
	), runAnalyzer)

	return s
}

func runAnalyzer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := req.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args, _ := req.Params.Arguments.(map[string]any)

	opts := codegraph.Options{}
	if ext := argString(args, "extensions"); ext != "" {
		for _, e := range strings.Split(ext, ",") {
			opts.Extensions = append(opts.Extensions, strings.TrimSpace(e))
		}
	}
	if ign := argString(args, "ignore"); ign != "" {
		for _, g := range strings.Split(ign, ",") {
			opts.Ignore = append(opts.Ignore, strings.TrimSpace(g))
		}
	}
	opts.UpdateSchema = argBool(args, "updateSchema")
	opts.ResetDB = argBool(args, "resetDb")

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := codegraph.Analyze(ctx, directory, opts, log); err != nil {
		payload, _ := json.Marshal(err)
		return mcp.NewToolResultError(string(payload)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("analysis of %s complete", directory)), nil
}

// argString/argBool read an optional typed argument out of the raw
// arguments map, mirroring DeusData-codebase-memory-mcp's
// getStringArg/getBoolArg helpers (JSON booleans/strings decode directly
// via the any-typed map, no special-casing needed).
func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argBool(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
