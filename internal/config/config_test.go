package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuflow/sharepoint-client/pkg/sharepoint"
)

func TestLoadOrCreateWithoutFile(t *testing.T) {
	t.Setenv("SHAREPOINT_CLIENT_CONFIG_DIR", t.TempDir())

	cfg, err := LoadOrCreate()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, sharepoint.AuthNTLM, cfg.Authentication)
	assert.Empty(t, cfg.URI)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHAREPOINT_CLIENT_CONFIG_DIR", dir)

	cfg := &Configuration{
		URI:            "https://sharepoint.example.com",
		Authentication: sharepoint.AuthNTLM,
		Username:       "svc-account",
		Password:       "hunter2",
		SitePath:       "/sites/records",
		BaseFolder:     "/Shared Documents/collaboration",
		Debug:          true,
	}
	require.NoError(t, cfg.Save())
	assert.FileExists(t, filepath.Join(dir, "config.json"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://sharepoint.example.com", loaded.URI)
	assert.Equal(t, "svc-account", loaded.Username)
	assert.Equal(t, "/sites/records", loaded.SitePath)
	assert.True(t, loaded.Debug)
}

func TestSaveRestrictsPermissions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHAREPOINT_CLIENT_CONFIG_DIR", dir)

	cfg := &Configuration{URI: "https://host", Authentication: sharepoint.AuthNTLM}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config carries credentials")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHAREPOINT_CLIENT_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshalling")
}

func TestToClientConfig(t *testing.T) {
	cfg := &Configuration{
		URI:            "https://sharepoint.example.com",
		Authentication: sharepoint.AuthToken,
		ClientID:       "client",
		ClientSecret:   "secret",
		TenantID:       "tenant",
		CertName:       "cert",
		AuthScope:      "scope",
		TokenURL:       "https://auth.example.com/token",
		SitePath:       "/sites/records",
	}

	clientCfg := cfg.ToClientConfig(nil)
	require.NoError(t, clientCfg.Validate())
	assert.Equal(t, sharepoint.AuthToken, clientCfg.Authentication)
	assert.Equal(t, "/sites/records", clientCfg.SitePath)
}
