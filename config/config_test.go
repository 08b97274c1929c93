package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	v := viper.New()
	Setup(v, t.TempDir())

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "build", c.Output)
	assert.True(t, c.Markdown)
	assert.False(t, c.GroupsAsTabs)

	_, err = c.RequireDatabase()
	assert.Error(t, err)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "language: fr\ntitle: Households\ngroups_as_tabs: true\noutput: out\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formgen.yaml"), []byte(content), 0o644))
	t.Setenv("FORMGEN_TITLE", "Villages")
	t.Setenv("DATABASE_URL", "postgres://localhost/forms")

	v := viper.New()
	Setup(v, dir)
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "fr", c.Language)
	assert.Equal(t, "Villages", c.Title)
	assert.True(t, c.GroupsAsTabs)
	assert.Equal(t, "out", c.Output)

	url, err := c.RequireDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/forms", url)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formgen.yaml"), []byte("language: [\n"), 0o644))

	v := viper.New()
	Setup(v, dir)
	_, err := Load(v)
	assert.ErrorContains(t, err, "reading config")
}
