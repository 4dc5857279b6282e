package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Address())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 24*time.Hour, cfg.Metadata.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Search.CacheTTL)
	assert.Equal(t, 25*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Providers.Subsunacs.Enabled)
	assert.True(t, cfg.Providers.SabBz.Enabled)
	assert.True(t, cfg.Providers.Yavka.Enabled)
	assert.Equal(t, "https://subsunacs.net", cfg.Providers.Subsunacs.BaseURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SUBFLOW_SERVER_PORT", "8443")
	t.Setenv("SUBFLOW_LOGGING_LEVEL", "debug")
	t.Setenv("SUBFLOW_PROVIDERS_YAVKA_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8443, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Providers.Yavka.Enabled)
}
