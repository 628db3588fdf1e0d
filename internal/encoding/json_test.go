package encoding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestLoadJSON_Missing(t *testing.T) {
	got, err := LoadJSON[sample](filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	require.NoError(t, SaveJSON(path, sample{Name: "a", Items: []string{"x"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"a\",\n  \"items\": [\n    \"x\"\n  ]\n}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadJSON[sample](path)
	require.NoError(t, err)
	assert.Equal(t, &sample{Name: "a", Items: []string{"x"}}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestParseJSON_Invalid(t *testing.T) {
	for _, input := range []string{"", "null", "{", `{"name": 5}`, "[]"} {
		_, err := ParseJSON[sample]([]byte(input))
		assert.ErrorIs(t, err, ErrInvalidJSON, "input %q", input)
	}
}

func TestWriteFileAtomic_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, RemoveFile(path))
	assert.False(t, FileExists(path))
	require.NoError(t, RemoveFile(path))
}

func TestDirHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	assert.True(t, DirExists(dir))

	file := filepath.Join(dir, "c", "f.txt")
	require.NoError(t, EnsureParentDir(file))
	assert.True(t, DirExists(filepath.Dir(file)))
	assert.False(t, DirExists(file))

	data, err := ReadFile(file)
	require.NoError(t, err)
	assert.Nil(t, data)
}
