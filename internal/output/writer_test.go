package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/composefetch-go/internal/compose"
	"github.com/quantmind-br/composefetch-go/internal/domain"
)

func mergedFixture(t *testing.T, src string) *compose.File {
	t.Helper()
	f, err := compose.Decode([]byte(src))
	require.NoError(t, err)
	return f
}

func TestLoadExisting_MissingFile(t *testing.T) {
	existing, err := LoadExisting(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Nil(t, existing)
}

func TestLoadExisting_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: [unclosed"), 0644))

	_, err := LoadExisting(path)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestLoadExisting_ParsesVersionAndServices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"2\"\nservices:\n  db:\n    image: postgres\n"), 0644))

	existing, err := LoadExisting(path)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "2", existing.File.Version)
	assert.Equal(t, []string{"db"}, existing.File.ServiceNames())
}

func TestWriter_WriteFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	w := NewWriter(WriterOptions{Path: path})

	merged := mergedFixture(t, "version: \"3\"\nservices:\n  web:\n    image: nginx\n")
	require.NoError(t, w.Write(merged, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: \"3\"")
	assert.Contains(t, string(data), "image: nginx")
}

func TestWriter_PreservesUnmanagedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	original := `version: "2"
services:
  db:
    image: postgres:9
volumes:
  data: {}
networks:
  backend: {}
`
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	existing, err := LoadExisting(path)
	require.NoError(t, err)

	merged := mergedFixture(t, "version: \"3\"\nservices:\n  db:\n    image: postgres:16\n")

	w := NewWriter(WriterOptions{Path: path})
	require.NoError(t, w.Write(merged, existing))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "postgres:16")
	assert.NotContains(t, out, "postgres:9")
	assert.Contains(t, out, "volumes:")
	assert.Contains(t, out, "networks:")

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "3", doc["version"])
}

func TestWriter_AppendsVersionWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  db:\n    image: postgres\n"), 0644))

	existing, err := LoadExisting(path)
	require.NoError(t, err)

	merged := mergedFixture(t, "version: \"3\"\nservices:\n  db:\n    image: postgres\n")

	w := NewWriter(WriterOptions{Path: path})
	require.NoError(t, w.Write(merged, existing))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "3", doc["version"])
}

func TestWriter_DryRunDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	w := NewWriter(WriterOptions{Path: path, DryRun: true})

	merged := mergedFixture(t, "version: \"3\"\nservices:\n  web:\n    image: nginx\n")
	require.NoError(t, w.Write(merged, nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "docker-compose.yml")
	w := NewWriter(WriterOptions{Path: path})

	merged := mergedFixture(t, "version: \"3\"\nservices:\n  web:\n    image: nginx\n")
	require.NoError(t, w.Write(merged, nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
