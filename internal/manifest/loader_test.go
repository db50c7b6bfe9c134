package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load("/nonexistent/path/manifest.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoader_Load_ValidYAML(t *testing.T) {
	loader := NewLoader()

	yamlContent := `
specs:
  - Data4Democracy/docker-scaffolding:docker-compose.yml@api
  - someuser/nginx-demo+dev:compose/docker-compose.yml@nginx,redis
options:
  output: ./merged.yml
  transport: archive
  strict: true
`

	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "test.yaml")
	err := os.WriteFile(manifestPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Specs, 2)
	assert.Equal(t, "Data4Democracy/docker-scaffolding:docker-compose.yml@api", cfg.Specs[0])
	assert.Equal(t, "./merged.yml", cfg.Options.Output)
	assert.Equal(t, "archive", cfg.Options.Transport)
	assert.True(t, cfg.Options.Strict)
}

func TestLoader_Load_ValidJSON(t *testing.T) {
	loader := NewLoader()

	jsonContent := `{
  "specs": ["org/repo:docker-compose.yml@db"],
  "options": {"output": "./out.yml"}
}`

	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "test.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(jsonContent), 0644))

	cfg, err := loader.Load(manifestPath)

	require.NoError(t, err)
	assert.Equal(t, []string{"org/repo:docker-compose.yml@db"}, cfg.Specs)
	assert.Equal(t, "./out.yml", cfg.Options.Output)
}

func TestLoader_LoadFromBytes_OmittedOptionsStayEmpty(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.LoadFromBytes([]byte("specs:\n  - org/repo:f.yml@db\n"), ".yaml")

	require.NoError(t, err)
	assert.Empty(t, cfg.Options.Output)
	assert.Empty(t, cfg.Options.Transport)
	assert.False(t, cfg.Options.Strict)
}

func TestLoader_LoadFromBytes_InvalidYAML(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadFromBytes([]byte("specs: [unclosed"), ".yaml")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoader_LoadFromBytes_UnsupportedExt(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadFromBytes([]byte("specs: []"), ".toml")
	assert.ErrorIs(t, err, ErrUnsupportedExt)
}

func TestLoader_LoadFromBytes_NoSpecs(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadFromBytes([]byte("specs: []\n"), ".yaml")
	assert.ErrorIs(t, err, ErrNoSpecs)
}

func TestConfig_Validate_EmptySpecEntry(t *testing.T) {
	cfg := &Config{Specs: []string{"org/repo:f.yml@db", ""}}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrEmptySpec)
}
