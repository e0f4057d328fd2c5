package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[style]
family = "Verdana"
size = 24

[playback]
offset = 1.5

[translate]
provider = "anthropic"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Verdana", cfg.Style.Family)
	assert.Equal(t, 24.0, cfg.Style.Size)
	assert.Equal(t, "rgb(255,255,255)", cfg.Style.Color)
	assert.Equal(t, 1.5, cfg.Playback.Offset)
	assert.Equal(t, 1.0, cfg.Playback.Speed)
	assert.Equal(t, "anthropic", cfg.Translate.Provider)
	assert.Equal(t, 50, cfg.Translate.BatchSize)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[style\nfamily ="), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Style.Color = "yellow"
	cfg.Library.Path = "/tmp/lib.db"
	cfg.Translate.Model = "gpt-4o-mini"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	libPath, err := loaded.LibraryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lib.db", libPath)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	assert.Equal(t, "sk-test", APIKeyFromEnv("openai"))
	assert.Equal(t, "", APIKeyFromEnv("unknown"))
}
