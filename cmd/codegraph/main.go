// Command codegraph is the CLI front end for the extraction/resolution
// engine: a single analyze subcommand wired with cobra, wrapping the
// engine's directory/extensions/ignore/reset/schema flags and the
// graph-store connection flags.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	codegraph "github.com/relgraph/codegraph"
)

var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codegraph",
	Short:         "Multi-language code knowledge graph extraction and resolution engine",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var (
	flagExtensions    string
	flagIgnore        []string
	flagUpdateSchema  bool
	flagResetDB       bool
	flagNeo4jURL      string
	flagNeo4jUser     string
	flagNeo4jPassword string
	flagNeo4jDatabase string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <directory>",
	Short: "Analyze a source tree and persist its code knowledge graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagExtensions, "extensions", "e", "", "comma-separated extensions, overriding defaults")
	analyzeCmd.Flags().StringSliceVarP(&flagIgnore, "ignore", "i", nil, "additional ignore glob, repeatable")
	analyzeCmd.Flags().BoolVar(&flagUpdateSchema, "update-schema", false, "re-apply constraints and indexes before writing")
	analyzeCmd.Flags().BoolVar(&flagResetDB, "reset-db", false, "delete all nodes and relationships before writing")
	analyzeCmd.Flags().StringVar(&flagNeo4jURL, "neo4j-url", "", "graph store connection URL")
	analyzeCmd.Flags().StringVar(&flagNeo4jUser, "neo4j-user", "", "graph store user")
	analyzeCmd.Flags().StringVar(&flagNeo4jPassword, "neo4j-password", "", "graph store password")
	analyzeCmd.Flags().StringVar(&flagNeo4jDatabase, "neo4j-database", "", "graph store database name")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	directory := args[0]

	opts := codegraph.Options{
		UpdateSchema:  flagUpdateSchema,
		ResetDB:       flagResetDB,
		Neo4jURL:      flagNeo4jURL,
		Neo4jUser:     flagNeo4jUser,
		Neo4jPassword: flagNeo4jPassword,
		Neo4jDatabase: flagNeo4jDatabase,
		Ignore:        flagIgnore,
	}
	if flagExtensions != "" {
		for _, e := range strings.Split(flagExtensions, ",") {
			opts.Extensions = append(opts.Extensions, strings.TrimSpace(e))
		}
	}

	log := newLogger()
	if err := codegraph.Analyze(context.Background(), directory, opts, log); err != nil {
		errorHandled = true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	fmt.Fprintln(os.Stdout, "analysis complete")
	return nil
}

// newLogger builds the process-wide slog.Logger from LOG_LEVEL/LOG_FILE.
func newLogger() *slog.Logger {
	var level slog.Level
	switch codegraph.LogLevelFromEnv() {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if path := os.Getenv("LOG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			out = f
		} else {
			fmt.Fprintf(os.Stderr, "codegraph: could not open LOG_FILE %s: %s\n", path, err)
		}
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
