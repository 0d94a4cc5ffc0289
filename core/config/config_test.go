package config_test

import (
	"testing"

	"tablekeeper/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.ApiKey)
	assert.Equal(t, "schema.yaml", cfg.Schema.Path)
	assert.Equal(t, "", cfg.Schema.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCHEMA_PATH", "s3://schemas/production.yaml")
	t.Setenv("SCHEMA_CONFIG", "staging")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "s3://schemas/production.yaml", cfg.Schema.Path)
	assert.Equal(t, "staging", cfg.Schema.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
}
