package codegraph

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetSource = `package widgets

type Widget struct {
	Name string
}

func NewWidget(name string) *Widget {
	return &Widget{Name: name}
}

func (w *Widget) Describe() string {
	return w.Name
}
`

func TestAnalyze_GoTreeProducesFileAndFunctionNodes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.go"), []byte(widgetSource), 0o644))

	dbPath := filepath.Join(t.TempDir(), "graph.db")
	opts := Options{Neo4jURL: dbPath}

	err := Analyze(context.Background(), dir, opts, nil)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var fileCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'File'`).Scan(&fileCount))
	assert.Equal(t, 1, fileCount)

	var funcCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'GoFunction'`).Scan(&funcCount))
	assert.Equal(t, 1, funcCount)

	var definesCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_edges WHERE type = 'DEFINES_FUNCTION'`).Scan(&definesCount))
	assert.Greater(t, definesCount, 0)
}

func TestAnalyze_ResetDBClearsPriorRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.go"), []byte(widgetSource), 0o644))

	dbPath := filepath.Join(t.TempDir(), "graph.db")
	require.NoError(t, Analyze(context.Background(), dir, Options{Neo4jURL: dbPath}, nil))

	require.NoError(t, os.Remove(filepath.Join(dir, "widget.go")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.go"), []byte("package widgets\n\nfunc Other() {}\n"), 0o644))

	require.NoError(t, Analyze(context.Background(), dir, Options{Neo4jURL: dbPath, ResetDB: true}, nil))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var widgetCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE name = 'NewWidget'`).Scan(&widgetCount))
	assert.Equal(t, 0, widgetCount)

	var otherCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE name = 'Other'`).Scan(&otherCount))
	assert.Equal(t, 1, otherCount)
}

const greetSource = `def greet(name):
    print(name)


class SimpleClass:
    def __init__(self, value):
        self.value = value

    def get_value(self):
        return self.value


instance = SimpleClass(5)
greet('x')
`

func TestAnalyze_PythonTreeProducesFunctionClassMethodAndCallNodes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.py"), []byte(greetSource), 0o644))

	dbPath := filepath.Join(t.TempDir(), "graph.db")
	err := Analyze(context.Background(), dir, Options{Neo4jURL: dbPath}, nil)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var fileCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'File'`).Scan(&fileCount))
	assert.Equal(t, 1, fileCount)

	var funcCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'PythonFunction' AND name = 'greet'`).Scan(&funcCount))
	assert.Equal(t, 1, funcCount)

	var classCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'PythonClass' AND name = 'SimpleClass'`).Scan(&classCount))
	assert.Equal(t, 1, classCount)

	var methodCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'PythonMethod'`).Scan(&methodCount))
	assert.Equal(t, 2, methodCount)

	var paramCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE kind = 'PythonParameter'`).Scan(&paramCount))
	assert.Equal(t, 4, paramCount)

	var callCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM graph_edges WHERE type = 'PYTHON_CALLS'`).Scan(&callCount))
	assert.GreaterOrEqual(t, callCount, 2)

	var fileLevelCallCount int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM graph_edges e
		 JOIN graph_nodes n ON e.source_id = n.entity_id
		 WHERE e.type = 'PYTHON_CALLS' AND n.kind = 'File'`,
	).Scan(&fileLevelCallCount))
	assert.Equal(t, 2, fileLevelCallCount, "module-level calls SimpleClass(5) and greet('x') must be sourced from the File node")
}

func TestAnalyze_RejectsInvalidOptions(t *testing.T) {
	dir := t.TempDir()
	err := Analyze(context.Background(), dir, Options{BatchSize: -1}, nil)
	require.Error(t, err)
}
