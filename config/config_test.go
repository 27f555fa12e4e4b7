package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("NEXTAUTH_SECRET", "")
	t.Setenv("AITOPIA_SESSION_SECRET", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Web.Port)
	assert.Equal(t, "AI_Services", cfg.Airtable.Table)
	assert.Equal(t, 1340.0, cfg.Exchange.BaseRate)
	assert.Empty(t, cfg.Auth.SessionSecret, "no compiled-in session secret")
	assert.ErrorIs(t, cfg.Validate(), ErrNoSessionSecret)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "aitopia.yml")
	content := `
web:
  port: 8080
database:
  type: sqlite
auth:
  session_secret: from-file
airtable:
  api_key: key-from-file
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o600))

	t.Setenv("AIRTABLE_BASE_ID", "appXYZ")
	t.Setenv("AITOPIA_WEB_PORT", "9090")
	t.Setenv("AITOPIA_DB_DEBUG", "true")

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.True(t, cfg.Database.Debug)
	assert.Equal(t, "from-file", cfg.Auth.SessionSecret)
	assert.True(t, cfg.Airtable.Configured())
	assert.NoError(t, cfg.Validate())
}

func TestAirtableConfig_ConfiguredRequiresBoth(t *testing.T) {
	assert.False(t, AirtableConfig{APIKey: "k"}.Configured())
	assert.False(t, AirtableConfig{BaseID: "b"}.Configured())
	assert.False(t, AirtableConfig{APIKey: "  ", BaseID: "b"}.Configured())
	assert.True(t, AirtableConfig{APIKey: "k", BaseID: "b"}.Configured())
}

func TestValidate_RejectsUnknownDatabase(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Auth.SessionSecret = "s"
	cfg.Database.Type = "mysql"
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
