package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipask/askdoc-service/internal/config"
)

func TestLoad_DefaultsMatchVendorHosts(t *testing.T) {
	// Arrange
	t.Setenv("REMOTE_CLIENT_ID", "client-1")
	t.Setenv("REMOTE_CLIENT_SECRET", "secret-1")

	// Act
	cfg, err := config.Load()

	// Assert - OAuth and uploads live on dedicated vendor hosts
	require.NoError(t, err)
	assert.Equal(t, "https://api.box.com/2.0", cfg.Remote.APIBaseURL)
	assert.Equal(t, "https://api.box.com/oauth2", cfg.Remote.OAuthBaseURL)
	assert.Equal(t, "https://upload.box.com/api/2.0", cfg.Remote.UploadBaseURL)
}

func TestLoad_ReadsStoreEncryptionKey(t *testing.T) {
	// Arrange
	t.Setenv("REMOTE_CLIENT_ID", "client-1")
	t.Setenv("REMOTE_CLIENT_SECRET", "secret-1")
	t.Setenv("STORE_ENCRYPTION_KEY", "a2V5LW1hdGVyaWFs")

	// Act
	cfg, err := config.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "a2V5LW1hdGVyaWFs", cfg.Store.EncryptionKey)
}

func TestLoad_RequiresClientCredentials(t *testing.T) {
	// Arrange
	t.Setenv("REMOTE_CLIENT_ID", "")
	t.Setenv("REMOTE_CLIENT_SECRET", "")

	// Act
	cfg, err := config.Load()

	// Assert
	assert.Nil(t, cfg)
	assert.Error(t, err)
}
