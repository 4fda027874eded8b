package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDescriptors_FiltersByExtensionAndIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"))
	writeFile(t, filepath.Join(root, "README.md"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"))
	writeFile(t, filepath.Join(root, "src", "b.go"))

	descs, err := Descriptors(root, []string{".go"}, []string{"**/node_modules/**"})
	require.NoError(t, err)

	var paths []string
	for _, d := range descs {
		paths = append(paths, filepath.ToSlash(d.Path))
		assert.Equal(t, ".go", d.Extension)
	}
	assert.Len(t, paths, 2)
	assert.Contains(t, paths[0]+paths[1], "a.go")
}

func TestDescriptors_SkipsEntireIgnoredDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dist", "bundle.js"))
	writeFile(t, filepath.Join(root, "dist", "nested", "deep.js"))
	writeFile(t, filepath.Join(root, "main.js"))

	descs, err := Descriptors(root, []string{".js"}, []string{"**/dist/**"})
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Contains(t, filepath.ToSlash(descs[0].Path), "main.js")
}

func TestGlobMatch_DoublestarSegments(t *testing.T) {
	assert.True(t, globMatch("**/node_modules/**", "a/b/node_modules/c"))
	assert.True(t, globMatch("**/*.test.*", "src/foo.test.ts"))
	assert.False(t, globMatch("**/*.test.*", "src/foo.ts"))
	assert.True(t, globMatch(".DS_Store", ".DS_Store"))
}

func TestDescriptors_NonexistentRootIsFileSystemError(t *testing.T) {
	_, err := Descriptors(filepath.Join(t.TempDir(), "missing"), []string{".go"}, nil)
	require.Error(t, err)
}
