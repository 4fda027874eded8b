package codegraph

import (
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultExtensions is the default set of extensions analyzed.
var DefaultExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".py", ".c", ".h", ".cpp", ".hpp",
	".cc", ".hh", ".java", ".cs", ".go", ".sql",
}

// DefaultIgnore is the default set of ignore globs, appended to by any
// user-supplied patterns.
var DefaultIgnore = []string{
	"**/.idea/**", "**/node_modules/**", "**/.git/**", "**/dist/**",
	"**/build/**", "**/coverage/**", "**/.next/**", "**/.svelte-kit/**",
	"**/.venv/**", "**/venv/**", "**/env/**", "**/__pycache__/**",
	"**/*.pyc", "**/bin/**", "**/obj/**", "**/*.class", "**/target/**",
	"**/*.log", "**/*.lock", "**/*.test.*", "**/*.spec.*",
	"**/playwright-report/**", "**/public/**", ".DS_Store",
}

// DefaultBatchSize is the storage writer's default batch size.
const DefaultBatchSize = 100

// Options configures a call to Analyze.
type Options struct {
	Extensions []string
	Ignore     []string

	UpdateSchema bool
	ResetDB      bool

	Neo4jURL      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	BatchSize int
}

// Validate checks Options for internal consistency, returning a
// *ConfigError on failure.
func (o *Options) Validate() error {
	err := validation.ValidateStruct(o,
		validation.Field(&o.BatchSize, validation.Min(0)),
	)
	if err != nil {
		return &ConfigError{Field: "Options", Err: err}
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	return nil
}

// resolvedIgnore returns DefaultIgnore with o.Ignore appended.
func (o *Options) resolvedIgnore() []string {
	out := make([]string, 0, len(DefaultIgnore)+len(o.Ignore))
	out = append(out, DefaultIgnore...)
	out = append(out, o.Ignore...)
	return out
}

// OptionsFromEnv populates connection and batch-size defaults from
// environment variables. Explicit Options fields set by the
// caller before calling this are left untouched.
func OptionsFromEnv(o *Options) {
	if o.Neo4jURL == "" {
		o.Neo4jURL = os.Getenv("NEO4J_URL")
	}
	if o.Neo4jUser == "" {
		o.Neo4jUser = os.Getenv("NEO4J_USER")
	}
	if o.Neo4jPassword == "" {
		o.Neo4jPassword = os.Getenv("NEO4J_PASSWORD")
	}
	if o.Neo4jDatabase == "" {
		o.Neo4jDatabase = os.Getenv("NEO4J_DATABASE")
	}
	if o.BatchSize == 0 {
		if v := os.Getenv("STORAGE_BATCH_SIZE"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				o.BatchSize = n
			} else {
				o.BatchSize = DefaultBatchSize
			}
		}
	}
}

// LogLevelFromEnv maps LOG_LEVEL to a slog level name, defaulting to "info".
func LogLevelFromEnv() string {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	switch lvl {
	case "debug", "info", "warn", "error":
		return lvl
	default:
		return "info"
	}
}
